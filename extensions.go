package archivefs

import (
	"path/filepath"
	"strings"
)

// Suffix mapping (kind -> canonical suffix)
var suffixMap = map[Kind]string{
	KindZip:       ".zip",
	KindTarGzip:   ".tar.gz",
	KindTarBrotli: ".tar.br",
	KindGzip:      ".gz",
	KindBrotli:    ".br",
	KindBzip2:     ".bz2",
}

// Reverse suffix mapping (suffix -> kind), aliases included
var reverseSuffixMap = map[string]Kind{
	".zip":    KindZip,
	".tar.gz": KindTarGzip,
	".tgz":    KindTarGzip,
	".tar.br": KindTarBrotli,
	".gz":     KindGzip,
	".gzip":   KindGzip,
	".br":     KindBrotli,
	".bz2":    KindBzip2,
	".bzip2":  KindBzip2,
}

// Compound suffixes span two extensions and must be matched before the
// plain extension lookup, or ".tar.gz" would detect as gzip.
var compoundSuffixes = []string{".tar.gz", ".tar.br", ".tgz"}

// Suffix returns the canonical filename suffix for the kind, including the
// leading dot. Unknown kinds return "".
func (k Kind) Suffix() string {
	if suffix, ok := suffixMap[k]; ok {
		return suffix
	}
	return ""
}

// valid reports whether k is one of the supported kinds.
func (k Kind) valid() bool {
	_, ok := suffixMap[k]
	return ok
}

// KindFromSuffix maps a filename suffix to its archive kind. The leading dot
// is optional and matching is case-insensitive: "zip", ".ZIP" and ".zip" all
// yield KindZip. Unrecognized suffixes yield no kind.
func KindFromSuffix(suffix string) (Kind, bool) {
	suffix = strings.ToLower(suffix)
	if !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	kind, ok := reverseSuffixMap[suffix]
	return kind, ok
}

// DetectKind determines the archive kind from a filename, compound suffixes
// first. Unlike KindFromSuffix it is case-sensitive, matching the suffixes
// this engine itself produces.
func DetectKind(name string) (Kind, bool) {
	for _, suffix := range compoundSuffixes {
		if strings.HasSuffix(name, suffix) {
			return reverseSuffixMap[suffix], true
		}
	}
	if kind, ok := reverseSuffixMap[filepath.Ext(name)]; ok {
		return kind, true
	}
	return "", false
}

// IsSupportedArchive reports whether the filename carries a recognized
// archive suffix. It inspects the name only, never the content.
func IsSupportedArchive(path string) bool {
	_, ok := DetectKind(filepath.Base(path))
	return ok
}
