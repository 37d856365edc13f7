package osudb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arloliu/osudb/compress"
	"github.com/arloliu/osudb/encoding"
	"github.com/arloliu/osudb/format"
	"github.com/arloliu/osudb/log"
)

// OpenDatabase decodes the osu!.db file at path.
//
// Compressed backups are recognised by extension (".zst", ".s2", ".lz4")
// unless WithCompression says otherwise. Plain files are decoded in memory;
// compressed ones are streamed through the codec.
func OpenDatabase(path string, opts ...Option) (*Database, error) {
	return openFile(path, opts, readDatabase)
}

// OpenCollections decodes the collection.db file at path. Compression is
// handled as in OpenDatabase.
func OpenCollections(path string, opts ...Option) (*Collections, error) {
	return openFile(path, opts, readCollections)
}

// SaveDatabase encodes db and writes it to path, compressed according to
// the path's extension or WithCompression. The file is replaced atomically.
func SaveDatabase(path string, db *Database, opts ...Option) error {
	data, err := EncodeDatabase(db)
	if err != nil {
		return err
	}

	return saveFile(path, data, opts)
}

// SaveCollections encodes c and writes it to path like SaveDatabase.
func SaveCollections(path string, c *Collections, opts ...Option) error {
	data, err := EncodeCollections(c)
	if err != nil {
		return err
	}

	return saveFile(path, data, opts)
}

func (cfg *Config) compressionFor(path string) format.CompressionType {
	if cfg.compression != 0 {
		return cfg.compression
	}

	return compress.DetectByExtension(path)
}

func openFile[T any](path string, opts []Option, decode func(*encoding.Decoder, *Config) (T, error)) (T, error) {
	var zero T

	cfg, err := newConfig(opts)
	if err != nil {
		return zero, err
	}
	ct := cfg.compressionFor(path)
	cfg.logger.Debug("opening file", log.String("path", path), log.Stringer("compression", ct))

	if ct == format.CompressionNone {
		data, err := os.ReadFile(path)
		if err != nil {
			return zero, err
		}
		v, err := decode(encoding.NewBytesDecoder(data), cfg)
		if err != nil {
			return zero, fmt.Errorf("%s: %w", path, err)
		}

		return v, nil
	}

	codec, err := compress.GetCodec(ct)
	if err != nil {
		return zero, err
	}
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	rc, err := codec.NewReader(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	defer rc.Close()

	v, err := decode(encoding.NewDecoder(encoding.NewStreamSource(rc, cfg.inputSize)), cfg)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}

	return v, nil
}

func saveFile(path string, data []byte, opts []Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}
	ct := cfg.compressionFor(path)
	out, stats, err := compress.Compress(ct, data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	cfg.logger.Info("file written",
		log.String("path", path),
		log.Stringer("compression", ct),
		log.Int("size", len(out)),
		log.Float64("ratio", stats.CompressionRatio()),
	)

	return nil
}
