package compress

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/arloliu/osudb/errs"
	"github.com/arloliu/osudb/format"
)

// Compressor compresses a whole payload in one call.
//
// The returned slice is newly allocated and owned by the caller; the input is
// never modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// StreamCodec wraps readers and writers so large files can be processed
// without holding both the compressed and the plain form in memory.
//
// Data produced by Compress can always be read back through NewReader, and
// data written through NewWriter can always be passed to Decompress.
type StreamCodec interface {
	// NewReader returns a reader yielding the decompressed content of r.
	// Closing it releases codec resources but does not close r.
	NewReader(r io.Reader) (io.ReadCloser, error)

	// NewWriter returns a writer compressing into w. Close must be called to
	// flush the final frame; it does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// Codec combines whole-payload and streaming operation of one algorithm.
type Codec interface {
	Compressor
	Decompressor
	StreamCodec
}

// CompressionStats describes one Compress call.
type CompressionStats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// CompressionRatio returns compressed size / original size, or 0 for empty
// input.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the shared built-in Codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// Compress compresses data with the built-in codec and reports sizes.
func Compress(compressionType format.CompressionType, data []byte) ([]byte, CompressionStats, error) {
	stats := CompressionStats{Algorithm: compressionType, OriginalSize: int64(len(data))}

	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, stats, err
	}
	out, err := codec.Compress(data)
	if err != nil {
		return nil, stats, fmt.Errorf("%s compression failed: %w", compressionType, err)
	}
	stats.CompressedSize = int64(len(out))

	return out, stats, nil
}

var extensions = map[string]format.CompressionType{
	".zst":  format.CompressionZstd,
	".zstd": format.CompressionZstd,
	".s2":   format.CompressionS2,
	".lz4":  format.CompressionLZ4,
}

// DetectByExtension infers the compression of a file from its name.
// "osu!.db.zst" is Zstd, "osu!.db" is None.
func DetectByExtension(path string) format.CompressionType {
	if ct, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}

	return format.CompressionNone
}

// Extension returns the canonical file extension of a compression type,
// including the dot, or "" for None.
func Extension(compressionType format.CompressionType) string {
	switch compressionType {
	case format.CompressionZstd:
		return ".zst"
	case format.CompressionS2:
		return ".s2"
	case format.CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}
