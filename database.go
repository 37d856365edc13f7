package osudb

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/osudb/encoding"
	"github.com/arloliu/osudb/errs"
	"github.com/arloliu/osudb/format"
	"github.com/arloliu/osudb/log"
)

// Database is the content of osu!.db.
type Database struct {
	Version         uint32 `json:"version"`
	FolderCount     uint32 `json:"folder_count"`
	AccountUnlocked bool   `json:"account_unlocked"`
	// UnlockDate is the ticks value of the date the account is unlocked.
	UnlockDate uint64            `json:"unlock_date"`
	PlayerName format.NullString `json:"player_name"`
	Beatmaps   []*Beatmap        `json:"beatmaps"`
	// Permissions is the trailing user permissions block.
	Permissions uint32 `json:"permissions"`
}

// DecodeDatabase decodes an osu!.db file held in memory. Strings are copied
// out, so data may be reused after the call.
func DecodeDatabase(data []byte, opts ...Option) (*Database, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return readDatabase(encoding.NewDecoder(encoding.NewCursor(data)), cfg)
}

// ReadDatabase decodes an osu!.db file from a stream. Length-prefixed
// records are read through bounded sections, so memory stays proportional
// to the decoded result rather than the input.
//
// The input size is taken from WithInputSize, or from r itself when it is
// an *os.File or reports Len (bytes.Reader, strings.Reader).
func ReadDatabase(r io.Reader, opts ...Option) (*Database, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return readDatabase(encoding.NewDecoder(encoding.NewStreamSource(r, cfg.sizeOf(r))), cfg)
}

func readDatabase(dec *encoding.Decoder, cfg *Config) (*Database, error) {
	version, err := dec.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("database version: %w", err)
	}
	if version < format.MinDatabaseVersion {
		return nil, fmt.Errorf("%w: database version %d is older than %d",
			errs.ErrUnsupportedFormatVersion, version, format.MinDatabaseVersion)
	}

	db := &Database{Version: version}
	r := fieldReader{dec: dec}
	r.u32("folder count", &db.FolderCount)
	r.boolean("account unlocked", &db.AccountUnlocked)
	r.u64("unlock date", &db.UnlockDate)
	r.str("player name", &db.PlayerName)
	if r.err != nil {
		return nil, r.err
	}

	minSize := minBeatmapSize
	if version >= format.EnvelopeVersion {
		minSize += 4
	}
	count, err := dec.ReadCount(minSize)
	if err != nil {
		return nil, fmt.Errorf("beatmap count: %w", err)
	}
	cfg.logger.Debug("decoding database",
		log.Uint32("version", version),
		log.Bool("envelope", version >= format.EnvelopeVersion),
		log.String("player", db.PlayerName.String),
		log.Int("beatmaps", count),
	)

	db.Beatmaps = make([]*Beatmap, 0, dec.CapacityFor(count))
	for i := range count {
		b, err := ReadBeatmap(dec, version)
		if err != nil {
			return nil, fmt.Errorf("beatmap %d: %w", i, err)
		}
		checkEnums(cfg.logger, i, b)
		db.Beatmaps = append(db.Beatmaps, b)
	}

	if db.Permissions, err = dec.ReadUint32(); err != nil {
		return nil, fmt.Errorf("permissions: %w", err)
	}

	return db, nil
}

// checkEnums reports enumeration bytes this package does not know. They
// are kept as is; the game may have introduced new values.
func checkEnums(logger log.Logger, index int, b *Beatmap) {
	if _, ok := b.RankedStatus(); !ok {
		logger.Warn("unrecognized ranked status",
			log.Int("index", index),
			log.String("md5", b.MD5.String),
			log.Int("status", int(b.RankedStatusRaw)),
		)
	}
	if !b.Mode.Valid() {
		logger.Warn("unrecognized game mode",
			log.Int("index", index),
			log.String("md5", b.MD5.String),
			log.Int("mode", int(b.Mode)),
		)
	}
	for _, mode := range format.GameModes {
		if g := b.Grades[mode]; !g.Valid() {
			logger.Warn("unrecognized grade",
				log.Int("index", index),
				log.String("md5", b.MD5.String),
				log.Stringer("mode", mode),
				log.Int("grade", int(g)),
			)
		}
	}
}

// EncodeDatabase encodes db in the layout of db.Version. Decoding the
// result yields db again.
func EncodeDatabase(db *Database) ([]byte, error) {
	if db.Version < format.MinDatabaseVersion {
		return nil, fmt.Errorf("%w: database version %d is older than %d",
			errs.ErrUnsupportedFormatVersion, db.Version, format.MinDatabaseVersion)
	}

	enc := encoding.NewFileEncoder()
	defer enc.Finish()

	enc.WriteUint32(db.Version)
	enc.WriteUint32(db.FolderCount)
	enc.WriteBool(db.AccountUnlocked)
	enc.WriteUint64(db.UnlockDate)
	enc.WriteString(db.PlayerName)
	if err := enc.WriteCount(len(db.Beatmaps)); err != nil {
		return nil, fmt.Errorf("beatmap count: %w", err)
	}
	for i, b := range db.Beatmaps {
		if err := WriteBeatmap(enc, b, db.Version); err != nil {
			return nil, fmt.Errorf("beatmap %d: %w", i, err)
		}
	}
	enc.WriteUint32(db.Permissions)

	return bytes.Clone(enc.Bytes()), nil
}

// sizeOf returns the total input size if it can be determined, or -1.
func (cfg *Config) sizeOf(r io.Reader) int64 {
	if cfg.inputSize >= 0 {
		return cfg.inputSize
	}
	switch v := r.(type) {
	case interface{ Len() int }:
		return int64(v.Len())
	case *os.File:
		if info, err := v.Stat(); err == nil && info.Mode().IsRegular() {
			if pos, err := v.Seek(0, io.SeekCurrent); err == nil {
				return info.Size() - pos
			}
		}
	}

	return -1
}
