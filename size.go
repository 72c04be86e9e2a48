package archivefs

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// TotalSize returns the combined byte size of all regular files in the
// inputs, traversing directories recursively. Symlinks and special files are
// skipped during traversal, so link cycles cannot recurse. The result
// reflects the filesystem at call time; files changing size afterwards make
// it stale, which the progress math tolerates by clamping.
func (a *Archiver) TotalSize(inputs []string) (int64, error) {
	var total int64
	for _, input := range inputs {
		fi, err := a.fsys.Stat(input)
		if err != nil {
			return 0, fmt.Errorf("archivefs: sizing %s: %w", input, err)
		}
		switch {
		case fi.IsDir():
			size, err := a.dirSize(input)
			if err != nil {
				return 0, err
			}
			total += size
		case fi.Mode().IsRegular():
			total += fi.Size()
		}
	}
	return total, nil
}

// dirSize sums the regular files under dir.
func (a *Archiver) dirSize(dir string) (int64, error) {
	entries, err := a.fsys.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("archivefs: sizing %s: %w", dir, err)
	}
	var total int64
	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			size, err := a.dirSize(path)
			if err != nil {
				return 0, err
			}
			total += size
		case entry.Type().IsRegular():
			fi, err := entry.Info()
			if err != nil {
				return 0, fmt.Errorf("archivefs: sizing %s: %w", path, err)
			}
			total += fi.Size()
		}
	}
	return total, nil
}
