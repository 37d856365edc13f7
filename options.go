package osudb

import (
	"fmt"

	"github.com/arloliu/osudb/errs"
	"github.com/arloliu/osudb/format"
	"github.com/arloliu/osudb/internal/options"
	"github.com/arloliu/osudb/log"
)

// Config holds the settings shared by the decode, encode and file entry
// points. Build it through Option values.
type Config struct {
	logger      log.Logger
	compression format.CompressionType
	inputSize   int64
}

// Option configures a decode or encode call.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{
		logger:    log.NewNoopLogger(),
		inputSize: -1,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithLogger sets the logger. Header facts are logged at debug level and
// unrecognized enumeration bytes at warn level.
func WithLogger(logger log.Logger) Option {
	return options.NoError(func(cfg *Config) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// WithCompression overrides compression detection by file extension in
// OpenDatabase, OpenCollections and the Save functions.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(cfg *Config) error {
		switch compression {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			cfg.compression = compression
			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compression)
		}
	})
}

// WithInputSize declares the total length of a stream passed to
// ReadDatabase or ReadCollections. Declared counts and lengths are then
// checked against it before anything is allocated.
func WithInputSize(size int64) Option {
	return options.NoError(func(cfg *Config) {
		cfg.inputSize = size
	})
}
