package archivefs

// Preset configurations for common use cases

// FastestConfig returns a configuration optimized for speed
func FastestConfig() *Config {
	return &Config{
		ZipLevel:    1,
		GzipLevel:   1,
		BrotliLevel: 1,
		Bzip2Level:  1,
		BufferSize:  64 * 1024,
	}
}

// BestCompressionConfig returns a configuration optimized for output size.
// Use for write-once archives where time does not matter.
func BestCompressionConfig() *Config {
	return &Config{
		ZipLevel:    9,
		GzipLevel:   9,
		BrotliLevel: 11,
		Bzip2Level:  9,
		BufferSize:  128 * 1024,
	}
}

// NewWithFastestConfig creates an Archiver optimized for speed
func NewWithFastestConfig(fsys FileSystem) (*Archiver, error) {
	return New(fsys, FastestConfig())
}

// NewWithBestCompression creates an Archiver optimized for compression ratio
func NewWithBestCompression(fsys FileSystem) (*Archiver, error) {
	return New(fsys, BestCompressionConfig())
}

// Compress archives inputs on the host filesystem with default settings.
func Compress(inputs []string, output string, kind Kind) error {
	a, err := New(nil, nil)
	if err != nil {
		return err
	}
	return a.Compress(inputs, output, kind)
}

// Decompress extracts an archive on the host filesystem with default
// settings, detecting the kind from the filename.
func Decompress(archive, outputDir string) error {
	a, err := New(nil, nil)
	if err != nil {
		return err
	}
	return a.Decompress(archive, outputDir)
}

// GetCompressionRatio calculates the compression ratio for given original and
// compressed sizes. Returns a value between 0 and 1, where lower is better:
// 0.5 means the archive is half the original size.
func GetCompressionRatio(originalSize, compressedSize int64) float64 {
	if originalSize == 0 {
		return 0
	}
	return float64(compressedSize) / float64(originalSize)
}

// GetCompressionPercentage calculates the percentage of space saved (0-100).
func GetCompressionPercentage(originalSize, compressedSize int64) float64 {
	if originalSize == 0 {
		return 0
	}
	return (1 - float64(compressedSize)/float64(originalSize)) * 100
}
