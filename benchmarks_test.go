package archivefs

import "testing"

// Benchmark data generators
func generateTestData(size int) []byte {
	// Semi-compressible data (mix of patterns and near-random bytes)
	data := make([]byte, size)
	for i := range data {
		if i%4 == 0 {
			data[i] = byte(i % 256)
		} else {
			data[i] = byte(i % 64)
		}
	}
	return data
}

func generateHighlyCompressibleData(size int) []byte {
	data := make([]byte, size)
	pattern := []byte("The quick brown fox jumps over the lazy dog. ")
	for i := range data {
		data[i] = pattern[i%len(pattern)]
	}
	return data
}

func generateIncompressibleData(size int) []byte {
	// Pseudo-random data (hard to compress)
	data := make([]byte, size)
	seed := uint64(12345)
	for i := range data {
		seed = seed*1103515245 + 12345
		data[i] = byte(seed >> 16)
	}
	return data
}

func benchmarkCompress(b *testing.B, kind Kind, config *Config, dataSize int) {
	fsys := NewMemFS()
	f, _ := fsys.Create("input.bin")
	f.Write(generateTestData(dataSize))
	f.Close()

	a, err := New(fsys, config)
	if err != nil {
		b.Fatalf("Failed to create archiver: %v", err)
	}
	output := "out" + kind.Suffix()

	b.ResetTimer()
	b.SetBytes(int64(dataSize))

	for i := 0; i < b.N; i++ {
		if err := a.Compress([]string{"input.bin"}, output, kind); err != nil {
			b.Fatalf("Compress failed: %v", err)
		}
	}
}

func benchmarkDecompress(b *testing.B, kind Kind, dataSize int) {
	fsys := NewMemFS()
	f, _ := fsys.Create("input.bin")
	f.Write(generateTestData(dataSize))
	f.Close()

	a, err := New(fsys, nil)
	if err != nil {
		b.Fatalf("Failed to create archiver: %v", err)
	}
	archive := "out" + kind.Suffix()
	if err := a.Compress([]string{"input.bin"}, archive, kind); err != nil {
		b.Fatalf("Compress failed: %v", err)
	}

	b.ResetTimer()
	b.SetBytes(int64(dataSize))

	for i := 0; i < b.N; i++ {
		if err := a.Decompress(archive, "restored"); err != nil {
			b.Fatalf("Decompress failed: %v", err)
		}
	}
}

// Compression by kind (256KB)
func BenchmarkCompressZip256KB(b *testing.B)       { benchmarkCompress(b, KindZip, nil, 256*1024) }
func BenchmarkCompressTarGzip256KB(b *testing.B)   { benchmarkCompress(b, KindTarGzip, nil, 256*1024) }
func BenchmarkCompressTarBrotli256KB(b *testing.B) { benchmarkCompress(b, KindTarBrotli, nil, 256*1024) }
func BenchmarkCompressGzip256KB(b *testing.B)      { benchmarkCompress(b, KindGzip, nil, 256*1024) }
func BenchmarkCompressBrotli256KB(b *testing.B)    { benchmarkCompress(b, KindBrotli, nil, 256*1024) }
func BenchmarkCompressBzip2256KB(b *testing.B)     { benchmarkCompress(b, KindBzip2, nil, 256*1024) }

// Decompression by kind (256KB)
func BenchmarkDecompressZip256KB(b *testing.B)     { benchmarkDecompress(b, KindZip, 256*1024) }
func BenchmarkDecompressTarGzip256KB(b *testing.B) { benchmarkDecompress(b, KindTarGzip, 256*1024) }
func BenchmarkDecompressGzip256KB(b *testing.B)    { benchmarkDecompress(b, KindGzip, 256*1024) }
func BenchmarkDecompressBzip2256KB(b *testing.B)   { benchmarkDecompress(b, KindBzip2, 256*1024) }

// Compression level comparison for gzip
func BenchmarkCompressGzipLevel1(b *testing.B) {
	benchmarkCompress(b, KindGzip, &Config{GzipLevel: 1}, 1024*1024)
}
func BenchmarkCompressGzipLevel6(b *testing.B) {
	benchmarkCompress(b, KindGzip, &Config{GzipLevel: 6}, 1024*1024)
}
func BenchmarkCompressGzipLevel9(b *testing.B) {
	benchmarkCompress(b, KindGzip, &Config{GzipLevel: 9}, 1024*1024)
}

// Compression level comparison for brotli
func BenchmarkCompressBrotliLevel1(b *testing.B) {
	benchmarkCompress(b, KindBrotli, &Config{BrotliLevel: 1}, 1024*1024)
}
func BenchmarkCompressBrotliLevel6(b *testing.B) {
	benchmarkCompress(b, KindBrotli, &Config{BrotliLevel: 6}, 1024*1024)
}
func BenchmarkCompressBrotliLevel11(b *testing.B) {
	benchmarkCompress(b, KindBrotli, &Config{BrotliLevel: 11}, 1024*1024)
}

// Benchmark different data types
func benchmarkDataType(b *testing.B, kind Kind, dataGenerator func(int) []byte, size int) {
	fsys := NewMemFS()
	f, _ := fsys.Create("input.bin")
	f.Write(dataGenerator(size))
	f.Close()

	a, err := New(fsys, nil)
	if err != nil {
		b.Fatalf("Failed to create archiver: %v", err)
	}
	output := "out" + kind.Suffix()

	b.ResetTimer()
	b.SetBytes(int64(size))

	for i := 0; i < b.N; i++ {
		if err := a.Compress([]string{"input.bin"}, output, kind); err != nil {
			b.Fatalf("Compress failed: %v", err)
		}
	}
}

func BenchmarkCompressGzipHighlyCompressible1MB(b *testing.B) {
	benchmarkDataType(b, KindGzip, generateHighlyCompressibleData, 1024*1024)
}

func BenchmarkCompressGzipIncompressible1MB(b *testing.B) {
	benchmarkDataType(b, KindGzip, generateIncompressibleData, 1024*1024)
}

func BenchmarkCompressBrotliHighlyCompressible1MB(b *testing.B) {
	benchmarkDataType(b, KindBrotli, generateHighlyCompressibleData, 1024*1024)
}

func BenchmarkCompressBrotliIncompressible1MB(b *testing.B) {
	benchmarkDataType(b, KindBrotli, generateIncompressibleData, 1024*1024)
}

// Full round-trip (compress + extract)
func benchmarkRoundTrip(b *testing.B, kind Kind, dataSize int) {
	fsys := NewMemFS()
	f, _ := fsys.Create("input.bin")
	f.Write(generateTestData(dataSize))
	f.Close()

	a, err := New(fsys, nil)
	if err != nil {
		b.Fatalf("Failed to create archiver: %v", err)
	}
	archive := "out" + kind.Suffix()

	b.ResetTimer()
	b.SetBytes(int64(dataSize * 2)) // Count both directions

	for i := 0; i < b.N; i++ {
		if err := a.Compress([]string{"input.bin"}, archive, kind); err != nil {
			b.Fatalf("Compress failed: %v", err)
		}
		if err := a.Decompress(archive, "restored"); err != nil {
			b.Fatalf("Decompress failed: %v", err)
		}
	}
}

func BenchmarkRoundTripZip1MB(b *testing.B)     { benchmarkRoundTrip(b, KindZip, 1024*1024) }
func BenchmarkRoundTripTarGzip1MB(b *testing.B) { benchmarkRoundTrip(b, KindTarGzip, 1024*1024) }
func BenchmarkRoundTripGzip1MB(b *testing.B)    { benchmarkRoundTrip(b, KindGzip, 1024*1024) }
