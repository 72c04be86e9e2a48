// Package archivefs creates and extracts multi-format archives with
// byte-accurate progress reporting, over any filesystem implementing its
// minimal FileSystem interface.
//
// It handles two families of formats through one facade: multi-entry
// containers (zip, tar+gzip, tar+brotli) that hold whole file trees, and
// single-stream compressors (gzip, brotli, bzip2) that hold exactly one
// file.
//
// # Features
//
//   - 6 archive kinds: zip, tar.gz, tar.br, gz, br, bz2
//   - Progress callbacks with per-entry names, byte-accurate where sizes
//     are known in advance
//   - Relative entry names derived from the inputs' common base directory
//   - Filename recovery for single-stream archives without metadata
//   - Configurable compression levels per codec
//   - Pluggable filesystem: host OS or in-memory
//
// # Quick Start
//
//	a, _ := archivefs.New(nil, nil) // host filesystem, default levels
//
//	// Compress two directories into a zip
//	err := a.CompressWithProgress(
//	    []string{"/data/docs", "/data/img"},
//	    "/data/backup.zip",
//	    archivefs.KindZip,
//	    &archivefs.Sink{
//	        OnProgress: func(percent float64, name string) {
//	            fmt.Printf("%6.2f%% %s\n", percent, name)
//	        },
//	    },
//	)
//
//	// Extract it somewhere else
//	err = a.Decompress("/data/backup.zip", "/restore")
//
// # Progress Reporting
//
// Every operation reports completion through an optional Sink. Percentages
// are non-decreasing and the final event is always exactly 100. Compression
// progress is measured in source bytes against a precomputed total; when
// the total is zero (all-empty inputs) it degrades to entry counting. Two
// documented approximations are preserved for stable display timing:
// single-stream compression counts compressed output against the
// uncompressed total (the curve undershoots until the terminal event), and
// tar extraction counts compressed bytes consumed (the curve can reach 100
// slightly before the last entries hit disk).
//
// Callbacks run synchronously on the goroutine doing the I/O. A sink that
// blocks stalls the archive stream.
//
// # Error Handling
//
// Validation failures return sentinel errors (ErrNoInput,
// ErrMultipleInputs, ErrUnsupportedFormat) before any output exists.
// Malformed archives surface as *CodecError; filesystem failures pass
// through wrapped, so errors.Is and errors.As reach the underlying cause.
// A failed operation leaves partial output in place; callers needing
// atomicity should write to a temporary location and rename on success.
//
// # Format Notes
//
// Zip entries are written with deflate, forward-slash relative names and
// fixed 0755 permissions; source permission preservation is a known
// limitation. Gzip archives embed the source filename in their header and
// extraction prefers it; brotli and bzip2 carry no metadata, so extraction
// falls back to RecoverName's suffix-stripping heuristic.
package archivefs
