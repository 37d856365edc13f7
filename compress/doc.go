// Package compress provides the codecs used for compressed database backups.
//
// The game never compresses its own files; osudb can, so that snapshots of
// osu!.db and collection.db take a fraction of the space. Four algorithms
// are supported:
//   - None: the plain file
//   - Zstd: best ratio (".zst")
//   - S2: fastest compression (".s2")
//   - LZ4: fast decompression (".lz4")
//
// Every Codec works both on whole payloads and as a stream:
//
//	codec, _ := compress.GetCodec(compress.DetectByExtension(path))
//	rc, err := codec.NewReader(file)
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
//	db, err := osudb.ReadDatabase(rc)
package compress
