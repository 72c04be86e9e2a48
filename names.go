package archivefs

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Compression suffixes RecoverName strips, longest first. Container suffixes
// (.zip, .tar.*) are deliberately absent: recovery only applies to
// single-stream archives.
var strippableSuffixes = []string{".bzip2", ".gzip", ".bz2", ".gz", ".br"}

// RecoverName guesses the output filename for a single-stream archive that
// carries no embedded name. It strips one recognized compression suffix,
// case-sensitively; if the remaining base still contains a dot it is used
// verbatim, otherwise ".txt" is appended. Names with no recognized suffix
// (or nothing left after stripping) fall back to the file stem.
//
// This is a fixed legacy heuristic with no content sniffing:
// "notes.txt.gz" recovers "notes.txt", "data.gz" recovers "data.txt",
// and "weird" recovers "weird".
func RecoverName(name string) string {
	for _, suffix := range strippableSuffixes {
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		base := strings.TrimSuffix(name, suffix)
		if base == "" {
			break
		}
		if strings.Contains(base, ".") {
			return base
		}
		return base + ".txt"
	}
	return stem(name)
}

// stem returns name with its last extension removed. Dotfiles such as
// ".bashrc" are their own stem.
func stem(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// UniqueName returns path unchanged if nothing exists there, otherwise the
// first "name (N)" variant, N counting up from 2, that is free. Files keep
// their extension: an occupied "report.txt" yields "report (2).txt".
func UniqueName(fsys FileSystem, path string) string {
	if _, err := fsys.Stat(path); err != nil {
		return path
	}
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	base := stem(name)
	ext := strings.TrimPrefix(name, base)
	for n := 2; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, n, ext))
		if _, err := fsys.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// OutputDirFor derives the extraction directory for an archive: the
// archive's stem, beside the archive itself, suffixed with " (N)" from 2
// upward when the plain stem is already taken. Unlike UniqueName the counter
// applies to the whole name, since the result is a directory.
func OutputDirFor(fsys FileSystem, archive string) string {
	dir := filepath.Dir(archive)
	base := stem(filepath.Base(archive))
	target := filepath.Join(dir, base)
	for n := 2; ; n++ {
		if _, err := fsys.Stat(target); err != nil {
			return target
		}
		target = filepath.Join(dir, fmt.Sprintf("%s (%d)", base, n))
	}
}
