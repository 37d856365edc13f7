package library

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/osudb"
	"github.com/arloliu/osudb/format"
)

func beatmap(md5 string, setID uint32, artist, artistUnicode, title string, mode format.GameMode, status format.RankedStatus) *osudb.Beatmap {
	b := &osudb.Beatmap{
		Artist:          format.Text(artist),
		ArtistUnicode:   format.Text(artistUnicode),
		Title:           format.Text(title),
		TitleUnicode:    format.Text(title),
		Creator:         format.Text("Sotarks"),
		Difficulty:      format.Text("Insane"),
		MD5:             format.Text(md5),
		RankedStatusRaw: uint8(status),
		BeatmapSetID:    setID,
		Mode:            mode,
		Tags:            format.Text("electronic featured artist"),
	}
	b.StarRatings[mode] = osudb.NewStarRatings(osudb.StarRating{Mods: format.NoMods, Rating: float64(setID%10) + 0.5})

	return b
}

func sampleLibrary(t *testing.T) *Library {
	t.Helper()

	db := &osudb.Database{
		Version: format.EnvelopeVersion,
		Beatmaps: []*osudb.Beatmap{
			beatmap("aaaa0000aaaa0000aaaa0000aaaa0000", 101, "Camellia", "かめりあ", "Exit This Earth's Atomosphere", format.GameModeStandard, format.RankedStatusRanked),
			beatmap("bbbb0000bbbb0000bbbb0000bbbb0000", 101, "Camellia", "かめりあ", "Exit This Earth's Atomosphere", format.GameModeStandard, format.RankedStatusRanked),
			beatmap("cccc0000cccc0000cccc0000cccc0000", 205, "xi", "", "FREEDOM DiVE", format.GameModeTaiko, format.RankedStatusApproved),
			beatmap("dddd0000dddd0000dddd0000dddd0000", 0, "ｶﾒﾘｱ", "", "Ｇｈｏｓｔ", format.GameModeMania, format.RankedStatusNotSubmitted),
			// re-imported copy of the first difficulty
			beatmap("aaaa0000aaaa0000aaaa0000aaaa0000", 101, "Camellia", "かめりあ", "Exit This Earth's Atomosphere", format.GameModeStandard, format.RankedStatusRanked),
			beatmap("", 0, "Broken", "", "No Hash", format.GameModeStandard, format.RankedStatus(7)),
		},
	}
	db.Beatmaps[2].Unplayed = true

	lib, err := New(db)
	require.NoError(t, err)

	return lib
}

func TestLibrary_Lookup(t *testing.T) {
	lib := sampleLibrary(t)

	b, ok := lib.Lookup("cccc0000cccc0000cccc0000cccc0000")
	require.True(t, ok)
	require.Equal(t, "FREEDOM DiVE", b.Title.String)

	upper, ok := lib.Lookup("CCCC0000CCCC0000CCCC0000CCCC0000")
	require.True(t, ok)
	require.Same(t, b, upper)

	first, ok := lib.Lookup("aaaa0000aaaa0000aaaa0000aaaa0000")
	require.True(t, ok)
	require.Same(t, lib.Database().Beatmaps[0], first, "duplicates resolve to the first occurrence")

	_, ok = lib.Lookup("ffff0000ffff0000ffff0000ffff0000")
	require.False(t, ok)
	_, ok = lib.Lookup("")
	require.False(t, ok)
}

func TestLibrary_Resolve(t *testing.T) {
	lib := sampleLibrary(t)

	cols := &osudb.Collections{Items: []osudb.Collection{
		{
			Name: format.Text("pool"),
			Hashes: []format.NullString{
				format.Text("cccc0000cccc0000cccc0000cccc0000"),
				format.Text("9999000099990000999900009999000"),
				format.Text("aaaa0000aaaa0000aaaa0000aaaa0000"),
			},
		},
		{Name: format.Text("empty")},
	}}

	resolved := lib.ResolveAll(cols)
	require.Len(t, resolved, 2)

	pool := resolved[0]
	require.Equal(t, "pool", pool.Name)
	require.Len(t, pool.Beatmaps, 2)
	require.Equal(t, "FREEDOM DiVE", pool.Beatmaps[0].Title.String)
	require.Equal(t, "Camellia", pool.Beatmaps[1].Artist.String)
	require.Equal(t, []string{"9999000099990000999900009999000"}, pool.Missing)

	require.Empty(t, resolved[1].Beatmaps)
	require.Empty(t, resolved[1].Missing)
}

func TestLibrary_BySet(t *testing.T) {
	lib := sampleLibrary(t)

	sets := lib.BySet()
	ids := make([]uint32, len(sets))
	for i, s := range sets {
		ids[i] = s.ID
	}
	require.Equal(t, []uint32{0, 101, 205}, ids)
	require.Len(t, sets[1].Beatmaps, 3)
	require.Len(t, sets[0].Beatmaps, 2)
}

func TestLibrary_Stats(t *testing.T) {
	lib := sampleLibrary(t)

	s := lib.Stats()
	require.Equal(t, 6, s.Beatmaps)
	require.Equal(t, 4, s.Distinct)
	require.Equal(t, 1, s.Duplicates)
	require.Equal(t, 1, s.Missing)
	require.Zero(t, s.Collisions)
	require.Equal(t, 3, s.Sets)
	require.Equal(t, 1, s.Unplayed)
	require.Equal(t, 3, s.ByStatus["Ranked"])
	require.Equal(t, 1, s.ByStatus[format.RankedStatus(7).String()])
	require.Equal(t, 4, s.ByMode[format.GameModeStandard.String()])
	require.Equal(t, 1, s.ByMode[format.GameModeMania.String()])
}
