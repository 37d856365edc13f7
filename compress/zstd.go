package compress

// ZstdCompressor provides Zstandard compression. It has the best ratio of
// the built-in codecs and is the default for database backups.
//
// With cgo enabled it is backed by valyala/gozstd (the reference C library);
// otherwise by the pure Go klauspost/compress/zstd. Both produce standard
// frames, so backups are portable between the two builds.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// zstdLevel is the compression level used by both backends.
const zstdLevel = 3

// NewZstdCompressor creates a new Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
