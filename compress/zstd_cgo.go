//go:build cgo

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

// Compress compresses data into a single Zstandard frame.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, zstdLevel), nil
}

// Decompress decompresses Zstandard data.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}

// NewReader implements StreamCodec.
func (c ZstdCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &gozstdReader{Reader: gozstd.NewReader(r)}, nil
}

// NewWriter implements StreamCodec.
func (c ZstdCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return &gozstdWriter{Writer: gozstd.NewWriterLevel(w, zstdLevel)}, nil
}

// gozstd streams hold C memory that must be released explicitly.
type gozstdReader struct {
	*gozstd.Reader
}

func (r *gozstdReader) Close() error {
	r.Release()
	return nil
}

type gozstdWriter struct {
	*gozstd.Writer
}

func (w *gozstdWriter) Close() error {
	err := w.Writer.Close()
	w.Release()

	return err
}
