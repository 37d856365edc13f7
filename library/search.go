package library

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/arloliu/osudb"
	"github.com/arloliu/osudb/format"
)

// searchText is the folded, concatenated searchable text of one beatmap.
type searchText string

// fieldSeparator never survives folding of user input, so a term cannot
// match across two fields.
const fieldSeparator = "\x00"

func newSearchText(b *osudb.Beatmap) searchText {
	fields := []format.NullString{
		b.Artist, b.ArtistUnicode, b.Title, b.TitleUnicode,
		b.Creator, b.Difficulty, b.Source, b.Tags,
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Valid && f.String != "" {
			parts = append(parts, f.String)
		}
	}

	return searchText(Fold(strings.Join(parts, fieldSeparator)))
}

// Fold normalises s for matching: Unicode compatibility forms are unified
// (NFKC), half-width kana and full-width Latin are folded to their canonical
// width, and case is folded. "ＣＡＭＥＬＬＩＡ" and "camellia" fold to the
// same string.
func Fold(s string) string {
	t := transform.Chain(norm.NFKC, width.Fold, cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}

	return out
}

// Filter restricts search results.
type Filter func(b *osudb.Beatmap) bool

// ModeIs keeps beatmaps of the given game mode.
func ModeIs(mode format.GameMode) Filter {
	return func(b *osudb.Beatmap) bool { return b.Mode == mode }
}

// StatusIs keeps beatmaps with the given ranked status.
func StatusIs(status format.RankedStatus) Filter {
	return func(b *osudb.Beatmap) bool { return format.RankedStatus(b.RankedStatusRaw) == status }
}

// StarsBetween keeps beatmaps whose no-mod star rating in their own mode
// lies in [lo, hi]. Beatmaps without a rating are dropped.
func StarsBetween(lo, hi float64) Filter {
	return func(b *osudb.Beatmap) bool {
		if !b.Mode.Valid() {
			return false
		}
		stars, err := b.StarRatings[b.Mode].NoMod()
		return err == nil && stars >= lo && stars <= hi
	}
}

// BPMBetween keeps beatmaps whose dominant tempo lies in [lo, hi].
func BPMBetween(lo, hi float64) Filter {
	return func(b *osudb.Beatmap) bool { return b.BPM() >= lo && b.BPM() <= hi }
}

// Search returns the beatmaps whose artist, title, creator, difficulty,
// source or tags contain every whitespace-separated term of query, in
// library order. Matching ignores case, width and Unicode compatibility
// differences. An empty query matches everything the filters keep.
func (l *Library) Search(query string, filters ...Filter) []*osudb.Beatmap {
	terms := strings.Fields(Fold(query))

	var out []*osudb.Beatmap
	for i, b := range l.db.Beatmaps {
		if !l.folded[i].matches(terms) {
			continue
		}
		if !keep(b, filters) {
			continue
		}
		out = append(out, b)
	}

	return out
}

func (s searchText) matches(terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(string(s), term) {
			return false
		}
	}

	return true
}

func keep(b *osudb.Beatmap, filters []Filter) bool {
	for _, f := range filters {
		if f != nil && !f(b) {
			return false
		}
	}

	return true
}
