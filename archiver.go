package archivefs

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// driver is the per-format codec contract. One implementation exists per
// container family; the facade dispatches through the drivers table instead
// of branching per kind inline.
type driver interface {
	compress(op *operation) error
	extract(ex *extraction) error
}

var drivers = map[Kind]driver{
	KindZip:       zipDriver{},
	KindTarGzip:   tarDriver{kind: KindTarGzip},
	KindTarBrotli: tarDriver{kind: KindTarBrotli},
	KindGzip:      streamDriver{kind: KindGzip},
	KindBrotli:    streamDriver{kind: KindBrotli},
	KindBzip2:     streamDriver{kind: KindBzip2},
}

// operation carries the state of one compression call: the resolved base
// directory and size total, plus the running byte count that chains per-file
// progress into one operation-wide percentage.
type operation struct {
	a         *Archiver
	inputs    []string
	output    string
	base      string
	total     int64
	processed int64
	sink      *Sink
	buf       []byte
}

// start reports progress for the input about to be processed: byte-based
// when a size total exists, entry-count-based otherwise.
func (op *operation) start(index int, name string) {
	if op.total > 0 {
		op.sink.Progress(clampPercent(op.processed, op.total), name)
		return
	}
	op.sink.Progress(100*float64(index)/float64(len(op.inputs)), name)
}

// startEntry reports the operation's position under the entry about to be
// copied. Byte-based only; the zero-total regime reports per input instead.
func (op *operation) startEntry(name string) {
	if op.total > 0 {
		op.sink.Progress(clampPercent(op.processed, op.total), name)
	}
}

// counter wraps w so that bytes copied through it continue the operation's
// running progress under the given display name.
func (op *operation) counter(w io.Writer, name string) *countingWriter {
	return &countingWriter{
		w:     w,
		sink:  op.sink,
		name:  name,
		base:  op.processed,
		total: op.total,
	}
}

// account adds n copied bytes to the operation and reports the new position.
// It also covers zero-length files, which produce no writes of their own.
func (op *operation) account(n int64, name string) {
	op.processed += n
	if op.total > 0 {
		op.sink.Progress(clampPercent(op.processed, op.total), name)
	}
}

// extraction carries the state of one decompression call.
type extraction struct {
	a       *Archiver
	archive string
	outDir  string
	name    string // archive base name, the display name for every event
	sink    *Sink
	buf     []byte
}

// mkdirOut creates the output directory tree. Pre-existing directories are
// success, per MkdirAll semantics.
func (ex *extraction) mkdirOut() error {
	if err := ex.a.fsys.MkdirAll(ex.outDir, 0o755); err != nil {
		return fmt.Errorf("archivefs: creating %s: %w", ex.outDir, err)
	}
	return nil
}

// Compress archives the inputs into output using the given kind, without
// progress reporting.
func (a *Archiver) Compress(inputs []string, output string, kind Kind) error {
	return a.CompressWithProgress(inputs, output, kind, nil)
}

// CompressWithProgress archives the inputs into output using the given kind,
// reporting progress through sink (which may be nil). Validation failures
// (an empty input set, an unknown kind, or multiple inputs for a
// single-stream kind) are returned before any output is created. On
// success a terminal 100% event is always emitted; on failure partial
// output is left in place for the caller to handle.
func (a *Archiver) CompressWithProgress(inputs []string, output string, kind Kind, sink *Sink) error {
	if len(inputs) == 0 {
		return ErrNoInput
	}
	d, ok := drivers[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(kind))
	}
	if !kind.SupportsMultipleInputs() && len(inputs) > 1 {
		return ErrMultipleInputs
	}

	total, err := a.TotalSize(inputs)
	if err != nil {
		return err
	}

	op := &operation{
		a:      a,
		inputs: inputs,
		output: output,
		base:   CommonBase(inputs),
		total:  total,
		sink:   sink,
		buf:    make([]byte, a.bufferSize()),
	}
	if err := d.compress(op); err != nil {
		return err
	}
	sink.Progress(100, "Complete")
	return nil
}

// Decompress extracts the archive into outputDir, without progress
// reporting. The archive kind is detected from the filename suffix.
func (a *Archiver) Decompress(archive, outputDir string) error {
	return a.DecompressWithProgress(archive, outputDir, nil)
}

// DecompressWithProgress extracts the archive into outputDir, reporting
// progress through sink (which may be nil). The kind is detected from the
// filename suffix; unrecognized suffixes fail with ErrUnsupportedFormat
// before any I/O. The output directory is created if absent. On success a
// terminal 100% event is always emitted; on failure partially extracted
// entries are left in place.
func (a *Archiver) DecompressWithProgress(archive, outputDir string, sink *Sink) error {
	name := filepath.Base(archive)
	kind, ok := DetectKind(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	ex := &extraction{
		a:       a,
		archive: archive,
		outDir:  outputDir,
		name:    name,
		sink:    sink,
		buf:     make([]byte, a.bufferSize()),
	}
	if err := drivers[kind].extract(ex); err != nil {
		return err
	}
	sink.Progress(100, "Complete")
	return nil
}

// entryName computes the forward-slash archive entry name for path relative
// to base. Paths that cannot be expressed as a local relative path fall back
// to the bare filename rather than failing the operation.
func entryName(path, base string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || !filepath.IsLocal(rel) {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// safeRelPath converts an archive entry name to a host path relative to the
// extraction directory, or reports false for names that would escape it.
func safeRelPath(entry string) (string, bool) {
	name := filepath.FromSlash(strings.TrimPrefix(entry, "/"))
	name = filepath.Clean(name)
	if !filepath.IsLocal(name) {
		return "", false
	}
	return name, true
}
