package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/absfs/archivefs"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app     = kingpin.New("archivefs", "Multi-format archive compression and extraction.")
	verbose = app.Flag("verbose", "Print diagnostic messages.").Short('v').Bool()

	compressCmd    = app.Command("compress", "Compress files or directories into an archive.")
	compressPaths  = compressCmd.Arg("paths", "Files or directories to compress.").Required().Strings()
	compressFormat = compressCmd.Flag("format", "Archive format: zip, tar.gz, tar.br, gz, br, bz2.").Short('f').Default("zip").String()
	compressOutput = compressCmd.Flag("output", "Output archive path (derived from the inputs when omitted).").Short('o').String()

	decompressCmd      = app.Command("decompress", "Extract archives, each into a directory named after it.")
	decompressArchives = decompressCmd.Arg("archives", "Archives to extract.").Required().Strings()

	hereCmd = app.Command("decompress-here", "Extract every supported archive found in a directory.")
	hereDir = hereCmd.Arg("dir", "Directory to scan.").Required().String()
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

func main() {
	app.Version("1.0.0")
	app.HelpFlag.Short('h')

	var err error
	switch kingpin.MustParse(app.Parse(os.Args[1:])) {
	case compressCmd.FullCommand():
		err = runCompress(*compressPaths, *compressFormat, *compressOutput)
	case decompressCmd.FullCommand():
		err = runDecompress(*decompressArchives)
	case hereCmd.FullCommand():
		err = runDecompressHere(*hereDir)
	}
	if err != nil {
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runCompress(paths []string, format, output string) error {
	kind, ok := archivefs.KindFromSuffix(format)
	if !ok {
		return fmt.Errorf("unknown format %q (want zip, tar.gz, tar.br, gz, br or bz2)", format)
	}
	if output == "" {
		output = defaultArchivePath(paths, kind)
	}

	a, err := archivefs.New(nil, nil)
	if err != nil {
		return err
	}

	total, err := a.TotalSize(paths)
	if err != nil {
		return err
	}
	fmt.Printf("Compressing %d path(s), %s\n", len(paths), humanize.Bytes(uint64(total)))

	p := newProgressLine()
	if err := a.CompressWithProgress(paths, output, kind, p.sink()); err != nil {
		p.done()
		return err
	}
	p.done()

	if fi, err := os.Stat(output); err == nil && total > 0 {
		successColor.Printf("Created %s (%s, %.1f%% smaller)\n",
			output, humanize.Bytes(uint64(fi.Size())),
			archivefs.GetCompressionPercentage(total, fi.Size()))
	} else {
		successColor.Printf("Created %s\n", output)
	}
	return nil
}

func runDecompress(archives []string) error {
	a, err := archivefs.New(nil, nil)
	if err != nil {
		return err
	}
	fsys := archivefs.NewOSFS()

	for _, archive := range archives {
		if !archivefs.IsSupportedArchive(archive) {
			warnColor.Printf("skipping %s: not a supported archive\n", archive)
			continue
		}
		if err := extractOne(a, fsys, archive); err != nil {
			return err
		}
	}
	return nil
}

func runDecompressHere(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	a, err := archivefs.New(nil, nil)
	if err != nil {
		return err
	}
	fsys := archivefs.NewOSFS()

	found := 0
	for _, entry := range entries {
		if entry.IsDir() || !archivefs.IsSupportedArchive(entry.Name()) {
			continue
		}
		found++
		if err := extractOne(a, fsys, filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	if found == 0 {
		fmt.Printf("no supported archives in %s\n", dir)
	}
	return nil
}

func extractOne(a *archivefs.Archiver, fsys archivefs.FileSystem, archive string) error {
	outDir := archivefs.OutputDirFor(fsys, archive)

	if fi, err := os.Stat(archive); err == nil {
		fmt.Printf("Extracting %s (%s) -> %s\n",
			filepath.Base(archive), humanize.Bytes(uint64(fi.Size())), outDir)
	} else {
		fmt.Printf("Extracting %s -> %s\n", filepath.Base(archive), outDir)
	}

	p := newProgressLine()
	if err := a.DecompressWithProgress(archive, outDir, p.sink()); err != nil {
		p.done()
		return err
	}
	p.done()
	successColor.Printf("Extracted to %s\n", outDir)
	return nil
}

// defaultArchivePath derives the output path from the inputs: a single
// input's name, or "archive" for several, placed beside the first input.
// Single-stream archives keep the input's full name so extraction can
// recover it; containers use the stem.
func defaultArchivePath(paths []string, kind archivefs.Kind) string {
	dir := filepath.Dir(paths[0])
	if len(paths) > 1 {
		return filepath.Join(dir, "archive"+kind.Suffix())
	}
	name := filepath.Base(paths[0])
	if !kind.SupportsMultipleInputs() {
		return filepath.Join(dir, name+kind.Suffix())
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		stem = name
	}
	return filepath.Join(dir, stem+kind.Suffix())
}

// progressLine renders sink events as a single self-overwriting line.
type progressLine struct {
	active bool
}

func newProgressLine() *progressLine {
	return &progressLine{}
}

func (p *progressLine) sink() *archivefs.Sink {
	return &archivefs.Sink{
		OnProgress: func(percent float64, name string) {
			p.active = true
			fmt.Printf("\r%6.2f%%  %-40.40s", percent, name)
		},
		OnMessage: func(level, message string) {
			switch {
			case level == archivefs.LevelWarning:
				p.breakLine()
				warnColor.Fprintf(os.Stderr, "warning: %s\n", message)
			case *verbose:
				p.breakLine()
				dimColor.Printf("%s: %s\n", level, message)
			}
		},
	}
}

// breakLine terminates the overwriting line before other output interleaves.
func (p *progressLine) breakLine() {
	if p.active {
		fmt.Println()
		p.active = false
	}
}

func (p *progressLine) done() {
	p.breakLine()
}
