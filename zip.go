package archivefs

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
)

// zipEntryMode is the fixed permission set written for every zip entry.
// Source permissions are not preserved; extraction re-applies whatever the
// archive carries.
const zipEntryMode fs.FileMode = 0o755

type zipDriver struct{}

func (zipDriver) compress(op *operation) error {
	out, err := op.a.fsys.Create(op.output)
	if err != nil {
		return fmt.Errorf("archivefs: creating %s: %w", op.output, err)
	}

	zw := zip.NewWriter(out)
	registerZipCompressor(zw, op.a.config.ZipLevel)

	for i, input := range op.inputs {
		op.start(i, filepath.Base(input))
		if err := addZipPath(zw, op, input); err != nil {
			out.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return &CodecError{Format: "zip", Err: err}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("archivefs: closing %s: %w", op.output, err)
	}
	return nil
}

// addZipPath writes one input into the archive: files become single entries,
// directories are walked recursively. Directory entries themselves are not
// written; extraction recreates them from entry paths.
func addZipPath(zw *zip.Writer, op *operation, path string) error {
	fi, err := op.a.fsys.Stat(path)
	if err != nil {
		return fmt.Errorf("archivefs: stat %s: %w", path, err)
	}

	switch {
	case fi.IsDir():
		entries, err := op.a.fsys.ReadDir(path)
		if err != nil {
			return fmt.Errorf("archivefs: reading %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.Type()&fs.ModeSymlink != 0 {
				op.sink.Debugf("skipping symlink %s", filepath.Join(path, entry.Name()))
				continue
			}
			if err := addZipPath(zw, op, filepath.Join(path, entry.Name())); err != nil {
				return err
			}
		}
	case fi.Mode().IsRegular():
		return addZipFile(zw, op, path, fi)
	default:
		op.sink.Debugf("skipping special file %s", path)
	}
	return nil
}

func addZipFile(zw *zip.Writer, op *operation, path string, fi fs.FileInfo) error {
	name := filepath.Base(path)
	op.startEntry(name)

	fh := &zip.FileHeader{
		Name:     entryName(path, op.base),
		Method:   zip.Deflate,
		Modified: fi.ModTime(),
	}
	fh.SetMode(zipEntryMode)

	w, err := zw.CreateHeader(fh)
	if err != nil {
		return &CodecError{Format: "zip", Err: err}
	}

	in, err := op.a.fsys.Open(path)
	if err != nil {
		return fmt.Errorf("archivefs: opening %s: %w", path, err)
	}
	n, err := io.CopyBuffer(op.counter(w, name), in, op.buf)
	in.Close()
	if err != nil {
		return fmt.Errorf("archivefs: compressing %s: %w", path, err)
	}
	op.account(n, name)
	return nil
}

func (zipDriver) extract(ex *extraction) error {
	f, err := ex.a.fsys.Open(ex.archive)
	if err != nil {
		return fmt.Errorf("archivefs: opening %s: %w", ex.archive, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("archivefs: stat %s: %w", ex.archive, err)
	}
	zr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		return &CodecError{Format: "zip", Err: err}
	}
	registerZipDecompressor(zr)

	if err := ex.mkdirOut(); err != nil {
		return err
	}

	// Entry-count progress: the central directory is known up front but
	// per-entry sizes are not pre-summed.
	count := len(zr.File)
	for i, zf := range zr.File {
		ex.sink.Progress(100*float64(i)/float64(count), ex.name)
		if err := writeZipEntry(ex, zf); err != nil {
			return err
		}
	}
	ex.sink.Progress(100, ex.name)
	return nil
}

func writeZipEntry(ex *extraction, zf *zip.File) error {
	rel, ok := safeRelPath(zf.Name)
	if !ok {
		ex.sink.Warnf("skipping entry with unsafe path: %s", zf.Name)
		return nil
	}
	target := filepath.Join(ex.outDir, rel)

	if zf.FileInfo().IsDir() || strings.HasSuffix(zf.Name, "/") {
		if err := ex.a.fsys.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("archivefs: creating %s: %w", target, err)
		}
		return nil
	}

	if err := ex.a.fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("archivefs: creating %s: %w", filepath.Dir(target), err)
	}

	rc, err := zf.Open()
	if err != nil {
		return &CodecError{Format: "zip", Err: err}
	}
	out, err := ex.a.fsys.Create(target)
	if err != nil {
		rc.Close()
		return fmt.Errorf("archivefs: creating %s: %w", target, err)
	}
	_, err = io.CopyBuffer(out, rc, ex.buf)
	rc.Close()
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		var perr *fs.PathError
		if errors.As(err, &perr) {
			return fmt.Errorf("archivefs: extracting %s: %w", zf.Name, err)
		}
		return &CodecError{Format: "zip", Err: err}
	}

	if mode := zf.Mode().Perm(); mode != 0 {
		if err := ex.a.fsys.Chmod(target, mode); err != nil {
			return fmt.Errorf("archivefs: chmod %s: %w", target, err)
		}
	}
	return nil
}
