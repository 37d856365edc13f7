package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/osudb"
	"github.com/arloliu/osudb/format"
	"github.com/arloliu/osudb/internal/cliconfig"
	"github.com/arloliu/osudb/library"
	"github.com/arloliu/osudb/log"
)

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abcdefghi…", truncate("abcdefghijklmnop", 10))
	// each kana is two cells wide
	require.Equal(t, "かめりあ", truncate("かめりあ", 8))
	require.Equal(t, "かめ…", truncate("かめりあ", 6))
	require.Equal(t, "ｶﾒﾘｱ", truncate("ｶﾒﾘｱ", 4))
}

func testApp(t *testing.T, output string) (*app, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	cfg := cliconfig.DefaultConfig()
	cfg.Output = output

	return &app{cfg: cfg, logger: log.NewNoopLogger(), out: &buf}, &buf
}

func testLibrary(t *testing.T) *library.Library {
	t.Helper()

	b := &osudb.Beatmap{
		Artist:          format.Text("xi"),
		Title:           format.Text("FREEDOM DiVE"),
		Difficulty:      format.Text("FOUR DIMENSIONS"),
		MD5:             format.Text("da8aae79c8f3306b5d65ec951874a7fb"),
		RankedStatusRaw: uint8(format.RankedStatusRanked),
		BeatmapSetID:    39804,
		DrainTime:       258,
		Unplayed:        true,
	}
	b.StarRatings[format.GameModeStandard] = osudb.NewStarRatings(
		osudb.StarRating{Mods: format.NoMods, Rating: 7.07},
		osudb.StarRating{Mods: format.ModDoubleTime, Rating: 10.2},
	)
	b.Tempo.Main = 222.22

	lib, err := library.New(&osudb.Database{
		Version:    format.EnvelopeVersion,
		PlayerName: format.Text("peppy"),
		Beatmaps:   []*osudb.Beatmap{b},
	})
	require.NoError(t, err)

	return lib
}

func TestPrintBeatmaps(t *testing.T) {
	lib := testLibrary(t)

	a, buf := testApp(t, cliconfig.OutputTable)
	require.NoError(t, a.printBeatmaps(lib.Database().Beatmaps))
	out := buf.String()
	require.Contains(t, out, "xi - FREEDOM DiVE [FOUR DIMENSIONS]")
	require.Contains(t, out, "7.07")
	require.Contains(t, out, "222.22")
	require.Contains(t, out, "4m18s")
	require.Contains(t, out, "1 beatmaps")

	a, buf = testApp(t, cliconfig.OutputJSON)
	require.NoError(t, a.printBeatmaps(lib.Database().Beatmaps))
	var rows []beatmapRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.Equal(t, "Ranked", rows[0].Status)
	require.Equal(t, uint32(39804), rows[0].SetID)
	require.Empty(t, rows[0].LastPlayed)
}

func TestPrintStars(t *testing.T) {
	lib := testLibrary(t)
	b := lib.Database().Beatmaps[0]

	a, buf := testApp(t, cliconfig.OutputTable)
	require.NoError(t, a.printStars(b, format.ModDoubleTime|format.ModHidden))
	out := buf.String()
	require.Contains(t, out, "(DT)")
	require.Contains(t, out, "10.20")
	require.Equal(t, 3, strings.Count(out, "-\n"), "other modes have no table")

	a, buf = testApp(t, cliconfig.OutputJSON)
	require.NoError(t, a.printStars(b, format.NoMods))
	var r starsReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &r))
	require.Equal(t, map[string]float64{"osu": 7.07}, r.Stars)

	a, _ = testApp(t, cliconfig.OutputTable)
	require.Error(t, a.printStars(b, format.ModEasy|format.ModHardRock))
}

func TestPrintInfo(t *testing.T) {
	lib := testLibrary(t)

	a, buf := testApp(t, cliconfig.OutputTable)
	require.NoError(t, a.printInfo(lib))
	require.Contains(t, buf.String(), "peppy")
	require.Contains(t, buf.String(), "Status Ranked")

	a, buf = testApp(t, cliconfig.OutputJSON)
	require.NoError(t, a.printInfo(lib))
	var r infoReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &r))
	require.Equal(t, format.EnvelopeVersion, r.Version)
	require.Equal(t, 1, r.Stats.Beatmaps)
	require.True(t, r.UnlockDate.IsZero())
}

func TestPrintCollections(t *testing.T) {
	lib := testLibrary(t)
	resolved := lib.ResolveAll(&osudb.Collections{Items: []osudb.Collection{{
		Name: format.Text("tourney pool"),
		Hashes: []format.NullString{
			format.Text("da8aae79c8f3306b5d65ec951874a7fb"),
			format.Text("00000000000000000000000000000000"),
		},
	}}})

	a, buf := testApp(t, cliconfig.OutputTable)
	require.NoError(t, a.printCollections(resolved, true))
	require.Contains(t, buf.String(), "tourney pool")
	require.Contains(t, buf.String(), "00000000000000000000000000000000")

	a, buf = testApp(t, cliconfig.OutputJSON)
	require.NoError(t, a.printCollections(resolved, false))
	var rows []collectionRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Equal(t, []collectionRow{{Name: "tourney pool", Installed: 1, Missing: 1}}, rows)
}
