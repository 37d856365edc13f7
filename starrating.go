package osudb

import (
	"encoding/json"
	"fmt"
	"iter"

	"github.com/arloliu/osudb/encoding"
	"github.com/arloliu/osudb/errs"
	"github.com/arloliu/osudb/format"
)

// Star rating entry markers.
const (
	starRatingModsMarker   byte = 0x08
	starRatingRatingMarker byte = 0x0D
	starRatingEntrySize         = 1 + 4 + 1 + 8
)

// StarRating is one entry of a star rating table.
type StarRating struct {
	Mods   format.Mods
	Rating float64
}

// StarRatings maps mod combinations to difficulty ratings for one game mode.
//
// A nil *StarRatings means the file has no data for the mode; it is not the
// same as a present table. Entries keep their file order, duplicates
// included, so that a table re-encodes byte for byte; lookups see the last
// occurrence of a combination.
type StarRatings struct {
	entries []StarRating
	index   map[format.Mods]int
}

// NewStarRatings builds a table from entries in order.
func NewStarRatings(entries ...StarRating) *StarRatings {
	t := &StarRatings{
		entries: make([]StarRating, 0, len(entries)),
		index:   make(map[format.Mods]int, len(entries)),
	}
	for _, e := range entries {
		t.add(e)
	}

	return t
}

func (t *StarRatings) add(e StarRating) {
	t.index[e.Mods] = len(t.entries)
	t.entries = append(t.entries, e)
}

// For returns the rating for a mod combination. Mods that do not affect the
// rating are ignored.
//
// EZ with HR, or HT with DT, fails with errs.ErrInvalidModifierCombination.
// A legal combination missing from the table fails with
// errs.ErrRatingNotFound.
func (t *StarRatings) For(mods format.Mods) (float64, error) {
	masked := mods.RatingMask()
	if err := masked.Validate(); err != nil {
		return 0, err
	}
	if t == nil {
		return 0, fmt.Errorf("%w: no star rating table", errs.ErrRatingNotFound)
	}
	i, ok := t.index[masked]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errs.ErrRatingNotFound, masked)
	}

	return t.entries[i].Rating, nil
}

// NoMod returns the rating without modifiers.
func (t *StarRatings) NoMod() (float64, error) {
	return t.For(format.NoMods)
}

// Len returns the number of distinct mod combinations.
func (t *StarRatings) Len() int {
	if t == nil {
		return 0
	}

	return len(t.index)
}

// All iterates the distinct combinations in file order.
func (t *StarRatings) All() iter.Seq2[format.Mods, float64] {
	return func(yield func(format.Mods, float64) bool) {
		if t == nil {
			return
		}
		for i, e := range t.entries {
			// shadowed by a later duplicate
			if t.index[e.Mods] != i {
				continue
			}
			if !yield(e.Mods, e.Rating) {
				return
			}
		}
	}
}

// Entries returns the raw entries in file order, duplicates included.
func (t *StarRatings) Entries() []StarRating {
	if t == nil {
		return nil
	}

	return t.entries
}

// MarshalJSON renders the table as an object keyed by mod acronyms.
func (t *StarRatings) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	out := make(map[string]float64, t.Len())
	for mods, rating := range t.All() {
		out[mods.String()] = rating
	}

	return json.Marshal(out)
}

// ReadStarRatings decodes a u32 count followed by that many entries. A count
// of zero yields nil.
func ReadStarRatings(dec *encoding.Decoder) (*StarRatings, error) {
	count, err := dec.ReadCount(starRatingEntrySize)
	if err != nil {
		return nil, fmt.Errorf("star rating count: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	t := &StarRatings{
		entries: make([]StarRating, 0, dec.CapacityFor(count)),
		index:   make(map[format.Mods]int, dec.CapacityFor(count)),
	}
	for i := range count {
		e, err := readStarRating(dec)
		if err != nil {
			return nil, fmt.Errorf("star rating %d: %w", i, err)
		}
		t.add(e)
	}

	return t, nil
}

func readStarRating(dec *encoding.Decoder) (StarRating, error) {
	var e StarRating
	if err := dec.ExpectUint8(starRatingModsMarker, errs.ErrMalformedStarRatingEntry); err != nil {
		return e, err
	}
	mods, err := dec.ReadUint32()
	if err != nil {
		return e, err
	}
	if err := dec.ExpectUint8(starRatingRatingMarker, errs.ErrMalformedStarRatingEntry); err != nil {
		return e, err
	}
	rating, err := dec.ReadFloat64()
	if err != nil {
		return e, err
	}
	e.Mods = format.Mods(mods)
	e.Rating = rating

	return e, nil
}

// WriteStarRatings is the mirror of ReadStarRatings; nil writes a zero
// count.
func WriteStarRatings(enc *encoding.Encoder, t *StarRatings) error {
	entries := t.Entries()
	if err := enc.WriteCount(len(entries)); err != nil {
		return fmt.Errorf("star rating count: %w", err)
	}
	for _, e := range entries {
		enc.WriteUint8(starRatingModsMarker)
		enc.WriteUint32(uint32(e.Mods))
		enc.WriteUint8(starRatingRatingMarker)
		enc.WriteFloat64(e.Rating)
	}

	return nil
}
