// Package collision keeps track of beatmap hashes while an index is built
// and reports index key collisions and duplicate beatmaps.
package collision

import (
	"fmt"

	"github.com/arloliu/osudb/errs"
)

// Tracker records the MD5 digests that map to each 64-bit index key.
//
// Two different digests sharing a key is a collision; the index must then
// compare digests instead of trusting the key. The same digest appearing
// twice is a duplicate: the game lists the same difficulty more than once,
// usually after a beatmap was re-imported.
type Tracker struct {
	digests    map[uint64][]string
	duplicates map[string]int
	collisions int
	count      int
}

// NewTracker creates an empty tracker sized for n beatmaps.
func NewTracker(n int) *Tracker {
	return &Tracker{
		digests:    make(map[uint64][]string, n),
		duplicates: make(map[string]int),
	}
}

// Track records md5 under key.
//
// It returns errs.ErrMissingHash for an empty digest,
// errs.ErrDuplicateBeatmap when md5 was tracked before and
// errs.ErrHashCollision when a different digest already uses key. In the
// last two cases the digest is still recorded.
func (t *Tracker) Track(md5 string, key uint64) error {
	if md5 == "" {
		return errs.ErrMissingHash
	}
	t.count++

	known := t.digests[key]
	for _, d := range known {
		if d == md5 {
			t.duplicates[md5]++
			return fmt.Errorf("%w: %s", errs.ErrDuplicateBeatmap, md5)
		}
	}
	t.digests[key] = append(known, md5)
	if len(known) > 0 {
		t.collisions++
		return fmt.Errorf("%w: %s and %s share key %016x", errs.ErrHashCollision, known[0], md5, key)
	}

	return nil
}

// HasCollision reports whether any key is shared by different digests.
func (t *Tracker) HasCollision() bool {
	return t.collisions > 0
}

// Collisions returns the number of digests that landed on an occupied key.
func (t *Tracker) Collisions() int {
	return t.collisions
}

// Duplicates returns how many extra times each duplicated digest was seen.
func (t *Tracker) Duplicates() map[string]int {
	return t.duplicates
}

// DuplicateCount returns the total number of extra occurrences.
func (t *Tracker) DuplicateCount() int {
	n := 0
	for _, c := range t.duplicates {
		n += c
	}

	return n
}

// Count returns the number of tracked digests, duplicates included.
func (t *Tracker) Count() int {
	return t.count
}

// Distinct returns the number of distinct digests.
func (t *Tracker) Distinct() int {
	return t.count - t.DuplicateCount()
}

// Reset clears the tracker, keeping allocated capacity.
func (t *Tracker) Reset() {
	clear(t.digests)
	clear(t.duplicates)
	t.collisions = 0
	t.count = 0
}
