package archivefs

import (
	"archive/zip"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

// brotliWindow is the encoder window size (log2) the engine has always
// written with; changing it would alter output byte-for-byte.
const brotliWindow = 22

// newCompressor creates the stream encoder for a compressed kind. Container
// kinds map to the codec wrapping their tar stream; KindZip has no stream
// encoder (deflate lives inside the container, see registerZipCompressor).
func newCompressor(kind Kind, w io.Writer, config *Config) (io.WriteCloser, error) {
	switch kind {
	case KindGzip, KindTarGzip:
		return newGzipCompressor(w, config.GzipLevel)
	case KindBrotli, KindTarBrotli:
		return newBrotliCompressor(w, config.BrotliLevel), nil
	case KindBzip2:
		return newBzip2Compressor(w, config.Bzip2Level)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// newDecompressor creates the stream decoder for a compressed kind. Decode
// errors surface from Read, not from construction, except for malformed
// headers which fail here.
func newDecompressor(kind Kind, r io.Reader) (io.Reader, error) {
	switch kind {
	case KindGzip, KindTarGzip:
		return gzip.NewReader(r)
	case KindBrotli, KindTarBrotli:
		return brotli.NewReader(r), nil
	case KindBzip2:
		return bzip2.NewReader(r, nil)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func newGzipCompressor(w io.Writer, level int) (*gzip.Writer, error) {
	if level == 0 {
		level = gzip.DefaultCompression
	}
	return gzip.NewWriterLevel(w, level)
}

func newBrotliCompressor(w io.Writer, level int) *brotli.Writer {
	if level == 0 {
		level = brotli.DefaultCompression
	}
	return brotli.NewWriterOptions(w, brotli.WriterOptions{
		Quality: level,
		LGWin:   brotliWindow,
	})
}

func newBzip2Compressor(w io.Writer, level int) (*bzip2.Writer, error) {
	if level == 0 {
		level = bzip2.DefaultCompression
	}
	return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: level})
}

// registerZipCompressor swaps the zip writer's deflate implementation for
// klauspost's, honoring the configured level.
func registerZipCompressor(zw *zip.Writer, level int) {
	if level == 0 {
		level = flate.DefaultCompression
	}
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
}

// registerZipDecompressor swaps the zip reader's inflate implementation for
// klauspost's.
func registerZipDecompressor(zr *zip.Reader) {
	zr.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
}
