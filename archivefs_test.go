package archivefs

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// buildProjectTree writes a small directory tree with a compressible text
// file, a binary file, an empty file and an empty directory.
func buildProjectTree(t *testing.T, fsys FileSystem) map[string][]byte {
	t.Helper()
	if err := fsys.MkdirAll("project/docs", 0o755); err != nil {
		t.Fatalf("Failed to create tree: %v", err)
	}
	if err := fsys.MkdirAll("project/assets", 0o755); err != nil {
		t.Fatalf("Failed to create tree: %v", err)
	}

	bin := make([]byte, 2048)
	for i := range bin {
		bin[i] = byte(i % 251)
	}
	files := map[string][]byte{
		"project/readme.md":      []byte("# archive tool\n"),
		"project/data.bin":       bin,
		"project/docs/guide.txt": []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 64)),
		"project/docs/empty.txt": nil,
	}
	for path, data := range files {
		writeTestFile(t, fsys, path, data)
	}
	return files
}

func verifyExtractedTree(t *testing.T, fsys FileSystem, outDir string, files map[string][]byte) {
	t.Helper()
	for path, want := range files {
		got := readTestFile(t, fsys, outDir+"/"+path)
		if !bytes.Equal(got, want) {
			t.Errorf("%s: got %d bytes, want %d", path, len(got), len(want))
		}
	}
}

func TestRoundTripContainers(t *testing.T) {
	kinds := []Kind{KindZip, KindTarGzip, KindTarBrotli}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			fsys := NewMemFS()
			files := buildProjectTree(t, fsys)

			a, err := New(fsys, nil)
			if err != nil {
				t.Fatalf("Failed to create archiver: %v", err)
			}

			archive := "backup" + kind.Suffix()
			if err := a.Compress([]string{"project"}, archive, kind); err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			if fi, err := fsys.Stat(archive); err != nil || fi.Size() == 0 {
				t.Fatalf("Archive missing or empty: %v", err)
			}

			if err := a.Decompress(archive, "restored"); err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			verifyExtractedTree(t, fsys, "restored", files)
		})
	}
}

func TestRoundTripSingleStream(t *testing.T) {
	kinds := []Kind{KindGzip, KindBrotli, KindBzip2}
	content := []byte(strings.Repeat("compress me softly\n", 200))
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			fsys := NewMemFS()
			writeTestFile(t, fsys, "notes.txt", content)

			a, err := New(fsys, nil)
			if err != nil {
				t.Fatalf("Failed to create archiver: %v", err)
			}

			archive := "notes.txt" + kind.Suffix()
			if err := a.Compress([]string{"notes.txt"}, archive, kind); err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			fi, err := fsys.Stat(archive)
			if err != nil {
				t.Fatalf("Archive missing: %v", err)
			}
			if fi.Size() >= int64(len(content)) {
				t.Errorf("Archive not smaller than input: %d >= %d", fi.Size(), len(content))
			}

			if err := a.Decompress(archive, "out"); err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			got := readTestFile(t, fsys, "out/notes.txt")
			if !bytes.Equal(got, content) {
				t.Errorf("Round trip mismatch: got %d bytes, want %d", len(got), len(content))
			}
		})
	}
}

// Entry names are relative to the deepest directory shared by the inputs, so
// archiving a file and a sibling directory yields bare names.
func TestRoundTripMultipleInputs(t *testing.T) {
	fsys := NewMemFS()
	buildProjectTree(t, fsys)

	a, err := New(fsys, nil)
	if err != nil {
		t.Fatalf("Failed to create archiver: %v", err)
	}

	inputs := []string{"project/readme.md", "project/docs"}
	if err := a.Compress(inputs, "partial.zip", KindZip); err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if err := a.Decompress("partial.zip", "restored"); err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}

	for _, path := range []string{"restored/readme.md", "restored/docs/guide.txt", "restored/docs/empty.txt"} {
		if _, err := fsys.Stat(path); err != nil {
			t.Errorf("Expected %s after extraction: %v", path, err)
		}
	}
	if _, err := fsys.Stat("restored/project"); err == nil {
		t.Error("Entry names should be relative to the common base, not include it")
	}
}

// Tar stores directory entries, zip stores only files; an empty directory
// survives one format and not the other.
func TestEmptyDirectorySurvival(t *testing.T) {
	fsys := NewMemFS()
	buildProjectTree(t, fsys)

	a, err := New(fsys, nil)
	if err != nil {
		t.Fatalf("Failed to create archiver: %v", err)
	}

	if err := a.Compress([]string{"project"}, "t.tar.gz", KindTarGzip); err != nil {
		t.Fatalf("Compress tar failed: %v", err)
	}
	if err := a.Decompress("t.tar.gz", "fromtar"); err != nil {
		t.Fatalf("Decompress tar failed: %v", err)
	}
	fi, err := fsys.Stat("fromtar/project/assets")
	if err != nil || !fi.IsDir() {
		t.Errorf("Empty directory lost in tar round trip: %v", err)
	}

	if err := a.Compress([]string{"project"}, "z.zip", KindZip); err != nil {
		t.Fatalf("Compress zip failed: %v", err)
	}
	if err := a.Decompress("z.zip", "fromzip"); err != nil {
		t.Fatalf("Decompress zip failed: %v", err)
	}
	if _, err := fsys.Stat("fromzip/project/assets"); err == nil {
		t.Error("Zip should not carry empty directories")
	}
}

func TestZeroEntryZip(t *testing.T) {
	fsys := NewMemFS()
	if err := fsys.MkdirAll("hollow", 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	a, err := New(fsys, nil)
	if err != nil {
		t.Fatalf("Failed to create archiver: %v", err)
	}
	if err := a.Compress([]string{"hollow"}, "hollow.zip", KindZip); err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if err := a.Decompress("hollow.zip", "out"); err != nil {
		t.Fatalf("Decompress of zero-entry archive failed: %v", err)
	}
	if fi, err := fsys.Stat("out"); err != nil || !fi.IsDir() {
		t.Errorf("Output directory not created: %v", err)
	}
}

func TestCompressNoInput(t *testing.T) {
	a, err := New(NewMemFS(), nil)
	if err != nil {
		t.Fatalf("Failed to create archiver: %v", err)
	}
	if err := a.Compress(nil, "out.zip", KindZip); !errors.Is(err, ErrNoInput) {
		t.Errorf("Expected ErrNoInput, got %v", err)
	}
}

func TestCompressUnknownKind(t *testing.T) {
	fsys := NewMemFS()
	writeTestFile(t, fsys, "a.txt", []byte("x"))

	a, err := New(fsys, nil)
	if err != nil {
		t.Fatalf("Failed to create archiver: %v", err)
	}
	err = a.Compress([]string{"a.txt"}, "a.rar", Kind("rar"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestCompressMultipleInputsRejected(t *testing.T) {
	fsys := NewMemFS()
	writeTestFile(t, fsys, "a.txt", []byte("a"))
	writeTestFile(t, fsys, "b.txt", []byte("b"))

	a, err := New(fsys, nil)
	if err != nil {
		t.Fatalf("Failed to create archiver: %v", err)
	}
	for _, kind := range []Kind{KindGzip, KindBrotli, KindBzip2} {
		output := "out" + kind.Suffix()
		err := a.Compress([]string{"a.txt", "b.txt"}, output, kind)
		if !errors.Is(err, ErrMultipleInputs) {
			t.Errorf("%s: expected ErrMultipleInputs, got %v", kind, err)
		}
		if _, err := fsys.Stat(output); err == nil {
			t.Errorf("%s: output created despite validation failure", kind)
		}
	}
}

func TestDecompressUnsupported(t *testing.T) {
	fsys := NewMemFS()
	writeTestFile(t, fsys, "archive.xyz", []byte("data"))

	a, err := New(fsys, nil)
	if err != nil {
		t.Fatalf("Failed to create archiver: %v", err)
	}
	err = a.Decompress("archive.xyz", "out")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecompressCorruptArchive(t *testing.T) {
	fsys := NewMemFS()
	writeTestFile(t, fsys, "bad.gz", []byte("this is not a gzip stream"))
	writeTestFile(t, fsys, "bad.zip", []byte("this is not a zip file either"))

	a, err := New(fsys, nil)
	if err != nil {
		t.Fatalf("Failed to create archiver: %v", err)
	}

	var codecErr *CodecError
	if err := a.Decompress("bad.gz", "out"); !errors.As(err, &codecErr) {
		t.Errorf("Expected CodecError for corrupt gzip, got %v", err)
	} else if codecErr.Format != "gzip" {
		t.Errorf("CodecError.Format = %q, want gzip", codecErr.Format)
	}

	codecErr = nil
	if err := a.Decompress("bad.zip", "out"); !errors.As(err, &codecErr) {
		t.Errorf("Expected CodecError for corrupt zip, got %v", err)
	} else if codecErr.Format != "zip" {
		t.Errorf("CodecError.Format = %q, want zip", codecErr.Format)
	}
}

func TestProgressMonotonic(t *testing.T) {
	fsys := NewMemFS()
	buildProjectTree(t, fsys)

	a, err := New(fsys, nil)
	if err != nil {
		t.Fatalf("Failed to create archiver: %v", err)
	}

	var percents []float64
	var lastName string
	sink := &Sink{OnProgress: func(percent float64, name string) {
		percents = append(percents, percent)
		lastName = name
	}}

	if err := a.CompressWithProgress([]string{"project"}, "p.tar.gz", KindTarGzip, sink); err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	checkProgressSequence(t, percents)
	if lastName != "Complete" {
		t.Errorf("Final event name = %q, want Complete", lastName)
	}

	percents = nil
	if err := a.DecompressWithProgress("p.tar.gz", "out", sink); err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	checkProgressSequence(t, percents)
	if lastName != "Complete" {
		t.Errorf("Final event name = %q, want Complete", lastName)
	}
}

func checkProgressSequence(t *testing.T, percents []float64) {
	t.Helper()
	if len(percents) == 0 {
		t.Fatal("Expected progress events, got none")
	}
	for i, p := range percents {
		if p < 0 || p > 100 {
			t.Fatalf("Percent out of range at %d: %v", i, p)
		}
		if i > 0 && p < percents[i-1] {
			t.Fatalf("Progress went backwards at %d: %v -> %v", i, percents[i-1], p)
		}
	}
	if final := percents[len(percents)-1]; final != 100 {
		t.Errorf("Final percent = %v, want exactly 100", final)
	}
}

// With nothing but empty files the byte total is zero and progress falls back
// to entry counting, still ending at exactly 100.
func TestProgressZeroTotal(t *testing.T) {
	fsys := NewMemFS()
	writeTestFile(t, fsys, "a.txt", nil)
	writeTestFile(t, fsys, "b.txt", nil)

	a, err := New(fsys, nil)
	if err != nil {
		t.Fatalf("Failed to create archiver: %v", err)
	}

	var percents []float64
	sink := &Sink{OnProgress: func(percent float64, name string) {
		percents = append(percents, percent)
	}}
	if err := a.CompressWithProgress([]string{"a.txt", "b.txt"}, "e.zip", KindZip, sink); err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	checkProgressSequence(t, percents)
}

func TestNewValidation(t *testing.T) {
	fsys := NewMemFS()
	bad := []*Config{
		{GzipLevel: 99},
		{GzipLevel: -1},
		{ZipLevel: 10},
		{BrotliLevel: 12},
		{Bzip2Level: 10},
		{BufferSize: -1},
	}
	for i, config := range bad {
		if _, err := New(fsys, config); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("config %d: expected ErrInvalidLevel, got %v", i, err)
		}
	}

	if _, err := New(fsys, &Config{GzipLevel: 9, BrotliLevel: 11, Bzip2Level: 1}); err != nil {
		t.Errorf("Valid config rejected: %v", err)
	}
	if _, err := New(nil, nil); err != nil {
		t.Errorf("Nil defaults rejected: %v", err)
	}
}
