package archivefs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
)

// streamDriver handles the bare single-stream compressors. The facade
// guarantees exactly one input on compress.
type streamDriver struct {
	kind Kind
}

func (d streamDriver) compress(op *operation) error {
	input := op.inputs[0]

	in, err := op.a.fsys.Open(input)
	if err != nil {
		return fmt.Errorf("archivefs: opening %s: %w", input, err)
	}
	defer in.Close()

	out, err := op.a.fsys.Create(op.output)
	if err != nil {
		return fmt.Errorf("archivefs: creating %s: %w", op.output, err)
	}

	// The counter wraps the destination, so it counts compressed bytes
	// against the uncompressed total: the curve undershoots and the
	// terminal event completes it. Long-standing display behavior.
	name := filepath.Base(input)
	cw := op.counter(out, name)

	var enc io.WriteCloser
	if d.kind == KindGzip {
		gw, err := newGzipCompressor(cw, op.a.config.GzipLevel)
		if err != nil {
			out.Close()
			return &CodecError{Format: "gzip", Err: err}
		}
		gw.Name = name
		enc = gw
	} else {
		enc, err = newCompressor(d.kind, cw, op.a.config)
		if err != nil {
			out.Close()
			return &CodecError{Format: codecName(d.kind), Err: err}
		}
	}

	if _, err := io.CopyBuffer(enc, in, op.buf); err != nil {
		out.Close()
		return fmt.Errorf("archivefs: compressing %s: %w", input, err)
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

func (d streamDriver) extract(ex *extraction) error {
	f, err := ex.a.fsys.Open(ex.archive)
	if err != nil {
		return fmt.Errorf("archivefs: opening %s: %w", ex.archive, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("archivefs: stat %s: %w", ex.archive, err)
	}
	cr := &countingReader{
		r:     f,
		sink:  ex.sink,
		name:  ex.name,
		total: fi.Size(),
	}

	// Gzip may carry the original filename in its header; the other codecs
	// always recover it from the archive's own name.
	var dec io.Reader
	var name string
	if d.kind == KindGzip {
		gr, err := gzip.NewReader(cr)
		if err != nil {
			return &CodecError{Format: "gzip", Err: err}
		}
		if gr.Name != "" && utf8.ValidString(gr.Name) {
			name = filepath.Base(gr.Name)
		}
		dec = gr
	} else {
		dec, err = newDecompressor(d.kind, cr)
		if err != nil {
			return &CodecError{Format: codecName(d.kind), Err: err}
		}
	}
	if name == "" {
		name = RecoverName(ex.name)
	}

	if err := ex.mkdirOut(); err != nil {
		return err
	}

	target := filepath.Join(ex.outDir, name)
	out, err := ex.a.fsys.Create(target)
	if err != nil {
		return fmt.Errorf("archivefs: creating %s: %w", target, err)
	}
	_, err = io.CopyBuffer(out, dec, ex.buf)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		var perr *fs.PathError
		if errors.As(err, &perr) {
			return fmt.Errorf("archivefs: extracting %s: %w", ex.archive, err)
		}
		return &CodecError{Format: codecName(d.kind), Err: err}
	}
	return nil
}
