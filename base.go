package archivefs

import (
	"path/filepath"
	"strings"
)

// CommonBase returns the deepest directory shared by the parents of every
// input, the reference point for relative entry names. A single input yields
// its own parent, so archiving one directory names entries under that
// directory's name rather than its absolute path. Inputs with no shared
// path components at all fall back to ".", the working directory.
func CommonBase(inputs []string) string {
	if len(inputs) == 0 {
		return "."
	}
	base := filepath.Dir(inputs[0])
	for _, input := range inputs[1:] {
		base = sharedPrefix(base, filepath.Dir(input))
		if base == "" {
			return "."
		}
	}
	if base == "" {
		return "."
	}
	return base
}

// sharedPrefix returns the longest common leading path of a and b,
// comparing whole components and stopping at the first divergence. An empty
// result means not even the root is shared.
func sharedPrefix(a, b string) string {
	as := splitComponents(a)
	bs := splitComponents(b)

	n := 0
	for n < len(as) && n < len(bs) && as[n] == bs[n] {
		n++
	}
	if n == 0 {
		return ""
	}

	shared := as[:n]
	// A lone empty component is the root directory itself.
	if len(shared) == 1 && shared[0] == "" {
		return string(filepath.Separator)
	}
	return strings.Join(shared, string(filepath.Separator))
}

// splitComponents splits a cleaned path into components. Absolute paths
// produce a leading empty component so that joining restores the root.
func splitComponents(path string) []string {
	return strings.Split(filepath.Clean(path), string(filepath.Separator))
}
