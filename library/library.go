package library

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/arloliu/osudb"
	"github.com/arloliu/osudb/errs"
	"github.com/arloliu/osudb/format"
	"github.com/arloliu/osudb/internal/collision"
	"github.com/arloliu/osudb/internal/hash"
	"github.com/arloliu/osudb/internal/options"
	"github.com/arloliu/osudb/log"
)

// Config holds library settings.
type Config struct {
	logger log.Logger
}

// Option configures New.
type Option = options.Option[*Config]

// WithLogger sets the logger used while indexing.
func WithLogger(logger log.Logger) Option {
	return options.NoError(func(cfg *Config) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// Library is a read-only index over a decoded database.
//
// Beatmaps are indexed by the xxHash64 of their MD5 digest. Lookups still
// compare the digest itself, so a key collision can never return the wrong
// beatmap. A Library is safe for concurrent use once built.
type Library struct {
	db      *osudb.Database
	index   map[uint64][]int
	tracker *collision.Tracker
	folded  []searchText
	missing int
}

// New indexes db. Beatmaps without a hash are kept out of the index;
// duplicated hashes resolve to their first occurrence.
func New(db *osudb.Database, opts ...Option) (*Library, error) {
	cfg := &Config{logger: log.NewNoopLogger()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	l := &Library{
		db:      db,
		index:   make(map[uint64][]int, len(db.Beatmaps)),
		tracker: collision.NewTracker(len(db.Beatmaps)),
		folded:  make([]searchText, len(db.Beatmaps)),
	}
	for i, b := range db.Beatmaps {
		l.folded[i] = newSearchText(b)

		md5 := b.MD5.String
		key := hash.Key(md5)
		err := l.tracker.Track(md5, key)
		switch {
		case err == nil:
		case errors.Is(err, errs.ErrMissingHash):
			l.missing++
			cfg.logger.Warn("beatmap without hash", log.Int("index", i), log.String("osu_file", b.OsuFile.String))
			continue
		case errors.Is(err, errs.ErrDuplicateBeatmap):
			cfg.logger.Debug("duplicate beatmap", log.Int("index", i), log.String("md5", md5))
			continue
		case errors.Is(err, errs.ErrHashCollision):
			cfg.logger.Info("index key collision", log.Err(err))
		default:
			return nil, err
		}
		l.index[key] = append(l.index[key], i)
	}
	cfg.logger.Debug("library indexed",
		log.Int("beatmaps", len(db.Beatmaps)),
		log.Int("distinct", l.tracker.Distinct()),
		log.Int("duplicates", l.tracker.DuplicateCount()),
	)

	return l, nil
}

// Database returns the indexed database.
func (l *Library) Database() *osudb.Database {
	return l.db
}

// Len returns the number of beatmaps, duplicates included.
func (l *Library) Len() int {
	return len(l.db.Beatmaps)
}

// Lookup finds a beatmap by MD5 digest. Hex case is ignored.
func (l *Library) Lookup(md5 string) (*osudb.Beatmap, bool) {
	for _, i := range l.index[hash.Key(md5)] {
		b := l.db.Beatmaps[i]
		if strings.EqualFold(b.MD5.String, md5) {
			return b, true
		}
	}

	return nil, false
}

// Resolved is a collection with its hashes resolved against the library.
type Resolved struct {
	Name     string           `json:"name"`
	Beatmaps []*osudb.Beatmap `json:"beatmaps"`
	// Missing lists the hashes of beatmaps that are not installed, in
	// collection order.
	Missing []string `json:"missing"`
}

// Resolve maps a collection's hashes to beatmaps, keeping collection order.
func (l *Library) Resolve(c osudb.Collection) Resolved {
	r := Resolved{Name: c.Name.String}
	for _, h := range c.Hashes {
		if b, ok := l.Lookup(h.String); ok {
			r.Beatmaps = append(r.Beatmaps, b)
			continue
		}
		r.Missing = append(r.Missing, h.String)
	}

	return r
}

// ResolveAll resolves every collection of c.
func (l *Library) ResolveAll(c *osudb.Collections) []Resolved {
	out := make([]Resolved, len(c.Items))
	for i, item := range c.Items {
		out[i] = l.Resolve(item)
	}

	return out
}

// Set groups the difficulties of one beatmap set.
type Set struct {
	ID       uint32           `json:"id"`
	Beatmaps []*osudb.Beatmap `json:"beatmaps"`
}

// BySet groups beatmaps by set id, ordered by id. Beatmaps without a set id
// (unsubmitted maps) are grouped under 0.
func (l *Library) BySet() []Set {
	groups := make(map[uint32][]*osudb.Beatmap)
	for _, b := range l.db.Beatmaps {
		groups[b.BeatmapSetID] = append(groups[b.BeatmapSetID], b)
	}

	sets := make([]Set, 0, len(groups))
	for id, bs := range groups {
		sets = append(sets, Set{ID: id, Beatmaps: bs})
	}
	slices.SortFunc(sets, func(a, b Set) int { return cmp.Compare(a.ID, b.ID) })

	return sets
}

// Stats summarises a library.
type Stats struct {
	Beatmaps   int            `json:"beatmaps"`
	Distinct   int            `json:"distinct"`
	Sets       int            `json:"sets"`
	Unplayed   int            `json:"unplayed"`
	Duplicates int            `json:"duplicates"`
	Missing    int            `json:"missing_hash"`
	Collisions int            `json:"key_collisions"`
	ByStatus   map[string]int `json:"by_status"`
	ByMode     map[string]int `json:"by_mode"`
}

// Stats computes library statistics.
func (l *Library) Stats() Stats {
	s := Stats{
		Beatmaps:   len(l.db.Beatmaps),
		Distinct:   l.tracker.Distinct(),
		Duplicates: l.tracker.DuplicateCount(),
		Missing:    l.missing,
		Collisions: l.tracker.Collisions(),
		ByStatus:   make(map[string]int),
		ByMode:     make(map[string]int),
	}
	sets := make(map[uint32]struct{})
	for _, b := range l.db.Beatmaps {
		if b.Unplayed {
			s.Unplayed++
		}
		sets[b.BeatmapSetID] = struct{}{}
		s.ByStatus[format.RankedStatus(b.RankedStatusRaw).String()]++
		s.ByMode[b.Mode.String()]++
	}
	s.Sets = len(sets)

	return s
}
