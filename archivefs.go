package archivefs

import (
	"errors"
	"io/fs"

	"github.com/absfs/absfs"
)

// Kind identifies an archive format
type Kind string

const (
	// Multi-entry container formats
	KindZip       Kind = "zip"
	KindTarGzip   Kind = "tar.gz"
	KindTarBrotli Kind = "tar.br"

	// Single-stream compressors
	KindGzip   Kind = "gz"
	KindBrotli Kind = "br"
	KindBzip2  Kind = "bz2"
)

// SupportsMultipleInputs reports whether the kind can hold more than one
// input. Single-stream compressors operate on exactly one file.
func (k Kind) SupportsMultipleInputs() bool {
	switch k {
	case KindZip, KindTarGzip, KindTarBrotli:
		return true
	}
	return false
}

// Config holds archive engine configuration
type Config struct {
	// Deflate level for zip entries: 1-9 (0 means the codec default)
	ZipLevel int

	// Gzip level: 1-9 (6 default)
	GzipLevel int

	// Brotli quality: 1-11 (6 default)
	BrotliLevel int

	// Bzip2 level: 1-9 (6 default)
	Bzip2Level int

	// Buffer size for streaming copies (default: 64KB)
	BufferSize int
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ZipLevel:    0, // flate default
		GzipLevel:   6,
		BrotliLevel: 6,
		Bzip2Level:  6,
		BufferSize:  64 * 1024, // 64KB
	}
}

var (
	ErrNoInput           = errors.New("archivefs: no input paths")
	ErrMultipleInputs    = errors.New("archivefs: archive format does not support multiple inputs")
	ErrUnsupportedFormat = errors.New("archivefs: unsupported archive format")
	ErrInvalidLevel      = errors.New("archivefs: invalid compression level")
)

// CodecError reports that a container or compression codec rejected the data
// it was given. It wraps the error returned by the codec library.
type CodecError struct {
	Format string // codec name: "zip", "tar", "gzip", "brotli", "bzip2"
	Err    error
}

func (e *CodecError) Error() string {
	return "archivefs: " + e.Format + ": " + e.Err.Error()
}

func (e *CodecError) Unwrap() error { return e.Err }

// FileSystem is the filesystem surface the archive engine operates on.
// *os.File satisfies absfs.File, so NewOSFS adapts the os package directly;
// NewMemFS provides an in-memory implementation for tests.
type FileSystem interface {
	Open(name string) (absfs.File, error)
	OpenFile(name string, flag int, perm fs.FileMode) (absfs.File, error)
	Create(name string) (absfs.File, error)
	MkdirAll(name string, perm fs.FileMode) error
	Stat(name string) (fs.FileInfo, error)
	Chmod(name string, mode fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
}

// Archiver compresses inputs into archives and extracts archives, reporting
// progress through a caller-supplied Sink. It holds no per-operation state;
// one Archiver may serve any number of sequential or concurrent operations.
type Archiver struct {
	fsys   FileSystem
	config *Config
}

// New creates an Archiver over the given filesystem. A nil fsys selects the
// host filesystem; a nil config selects DefaultConfig.
func New(fsys FileSystem, config *Config) (*Archiver, error) {
	if fsys == nil {
		fsys = NewOSFS()
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return &Archiver{
		fsys:   fsys,
		config: config,
	}, nil
}

func validateConfig(config *Config) error {
	if config.ZipLevel < 0 || config.ZipLevel > 9 {
		return ErrInvalidLevel
	}
	if config.GzipLevel < 0 || config.GzipLevel > 9 {
		return ErrInvalidLevel
	}
	if config.BrotliLevel < 0 || config.BrotliLevel > 11 {
		return ErrInvalidLevel
	}
	if config.Bzip2Level < 0 || config.Bzip2Level > 9 {
		return ErrInvalidLevel
	}
	if config.BufferSize < 0 {
		return ErrInvalidLevel
	}
	return nil
}

// bufferSize returns the configured copy buffer size, or the default.
func (a *Archiver) bufferSize() int {
	if a.config.BufferSize > 0 {
		return a.config.BufferSize
	}
	return 64 * 1024
}
