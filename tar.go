package archivefs

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
)

// tarDriver handles the tar container compressed by the stream codec its
// kind selects (gzip or brotli).
type tarDriver struct {
	kind Kind
}

func (d tarDriver) compress(op *operation) error {
	out, err := op.a.fsys.Create(op.output)
	if err != nil {
		return fmt.Errorf("archivefs: creating %s: %w", op.output, err)
	}

	enc, err := newCompressor(d.kind, out, op.a.config)
	if err != nil {
		out.Close()
		return &CodecError{Format: codecName(d.kind), Err: err}
	}
	tw := tar.NewWriter(enc)

	for i, input := range op.inputs {
		op.start(i, filepath.Base(input))
		if err := addTarPath(tw, op, input); err != nil {
			out.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		out.Close()
		return &CodecError{Format: "tar", Err: err}
	}
	if err := enc.Close(); err != nil {
		out.Close()
		return &CodecError{Format: codecName(d.kind), Err: err}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("archivefs: closing %s: %w", op.output, err)
	}
	return nil
}

// addTarPath writes one input into the archive. Unlike zip, directories get
// their own header entries, so empty directories survive a round trip.
func addTarPath(tw *tar.Writer, op *operation, path string) error {
	fi, err := op.a.fsys.Stat(path)
	if err != nil {
		return fmt.Errorf("archivefs: stat %s: %w", path, err)
	}

	switch {
	case fi.IsDir():
		return addTarDir(tw, op, path, fi)
	case fi.Mode().IsRegular():
		return addTarFile(tw, op, path, fi)
	default:
		op.sink.Debugf("skipping special file %s", path)
	}
	return nil
}

func addTarDir(tw *tar.Writer, op *operation, path string, fi fs.FileInfo) error {
	hdr, err := tar.FileInfoHeader(fi, "")
	if err != nil {
		return &CodecError{Format: "tar", Err: err}
	}
	hdr.Name = entryName(path, op.base) + "/"
	if err := tw.WriteHeader(hdr); err != nil {
		return &CodecError{Format: "tar", Err: err}
	}

	entries, err := op.a.fsys.ReadDir(path)
	if err != nil {
		return fmt.Errorf("archivefs: reading %s: %w", path, err)
	}
	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink != 0 {
			op.sink.Debugf("skipping symlink %s", filepath.Join(path, entry.Name()))
			continue
		}
		if err := addTarPath(tw, op, filepath.Join(path, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func addTarFile(tw *tar.Writer, op *operation, path string, fi fs.FileInfo) error {
	name := filepath.Base(path)
	op.startEntry(name)

	hdr, err := tar.FileInfoHeader(fi, "")
	if err != nil {
		return &CodecError{Format: "tar", Err: err}
	}
	hdr.Name = entryName(path, op.base)
	if err := tw.WriteHeader(hdr); err != nil {
		return &CodecError{Format: "tar", Err: err}
	}

	in, err := op.a.fsys.Open(path)
	if err != nil {
		return fmt.Errorf("archivefs: opening %s: %w", path, err)
	}
	n, err := io.CopyBuffer(op.counter(tw, name), in, op.buf)
	in.Close()
	if err != nil {
		return fmt.Errorf("archivefs: compressing %s: %w", path, err)
	}
	op.account(n, name)
	return nil
}

func (d tarDriver) extract(ex *extraction) error {
	f, err := ex.a.fsys.Open(ex.archive)
	if err != nil {
		return fmt.Errorf("archivefs: opening %s: %w", ex.archive, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("archivefs: stat %s: %w", ex.archive, err)
	}

	// Progress tracks compressed bytes consumed, not decompressed output.
	// For highly compressible tails it reaches 100 before the last entries
	// are on disk; consumers rely on this timing, so it stays.
	cr := &countingReader{
		r:     f,
		sink:  ex.sink,
		name:  ex.name,
		total: fi.Size(),
	}
	dec, err := newDecompressor(d.kind, cr)
	if err != nil {
		return &CodecError{Format: codecName(d.kind), Err: err}
	}

	if err := ex.mkdirOut(); err != nil {
		return err
	}

	tr := tar.NewReader(dec)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &CodecError{Format: "tar", Err: err}
		}
		if err := writeTarEntry(ex, hdr, tr); err != nil {
			return err
		}
	}
	return nil
}

func writeTarEntry(ex *extraction, hdr *tar.Header, r io.Reader) error {
	rel, ok := safeRelPath(hdr.Name)
	if !ok {
		ex.sink.Warnf("skipping entry with unsafe path: %s", hdr.Name)
		return nil
	}
	target := filepath.Join(ex.outDir, rel)
	mode := hdr.FileInfo().Mode().Perm()

	switch hdr.Typeflag {
	case tar.TypeDir:
		if mode == 0 {
			mode = 0o755
		}
		if err := ex.a.fsys.MkdirAll(target, mode); err != nil {
			return fmt.Errorf("archivefs: creating %s: %w", target, err)
		}
	case tar.TypeReg:
		if err := ex.a.fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("archivefs: creating %s: %w", filepath.Dir(target), err)
		}
		out, err := ex.a.fsys.Create(target)
		if err != nil {
			return fmt.Errorf("archivefs: creating %s: %w", target, err)
		}
		_, err = io.CopyBuffer(out, r, ex.buf)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			var perr *fs.PathError
			if errors.As(err, &perr) {
				return fmt.Errorf("archivefs: extracting %s: %w", hdr.Name, err)
			}
			return &CodecError{Format: "tar", Err: err}
		}
		if mode != 0 {
			if err := ex.a.fsys.Chmod(target, mode); err != nil {
				return fmt.Errorf("archivefs: chmod %s: %w", target, err)
			}
		}
	default:
		ex.sink.Debugf("skipping unsupported tar entry %s", hdr.Name)
	}
	return nil
}

// codecName names the stream codec behind a kind for error reporting.
func codecName(kind Kind) string {
	switch kind {
	case KindGzip, KindTarGzip:
		return "gzip"
	case KindBrotli, KindTarBrotli:
		return "brotli"
	case KindBzip2:
		return "bzip2"
	}
	return string(kind)
}
