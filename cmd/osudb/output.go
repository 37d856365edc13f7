package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"golang.org/x/text/width"

	"github.com/arloliu/osudb"
	"github.com/arloliu/osudb/errs"
	"github.com/arloliu/osudb/format"
	"github.com/arloliu/osudb/internal/cliconfig"
	"github.com/arloliu/osudb/library"
)

// Column limits, in terminal cells.
const (
	maxNameCells   = 60
	maxReportCells = 40
)

func (a *app) json() bool {
	return a.cfg.Output == cliconfig.OutputJSON
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

type infoReport struct {
	Version         uint32        `json:"version"`
	FolderCount     uint32        `json:"folder_count"`
	AccountUnlocked bool          `json:"account_unlocked"`
	UnlockDate      time.Time     `json:"unlock_date"`
	PlayerName      string        `json:"player_name"`
	Permissions     uint32        `json:"permissions"`
	Stats           library.Stats `json:"stats"`
}

func (a *app) printInfo(lib *library.Library) error {
	db := lib.Database()
	r := infoReport{
		Version:         db.Version,
		FolderCount:     db.FolderCount,
		AccountUnlocked: db.AccountUnlocked,
		UnlockDate:      format.TicksToTime(db.UnlockDate),
		PlayerName:      db.PlayerName.String,
		Permissions:     db.Permissions,
		Stats:           lib.Stats(),
	}
	if a.json() {
		return a.writeJSON(r)
	}

	tw := a.table()
	fmt.Fprintf(tw, "Version\t%d\n", r.Version)
	fmt.Fprintf(tw, "Player\t%s\n", r.PlayerName)
	fmt.Fprintf(tw, "Folders\t%d\n", r.FolderCount)
	fmt.Fprintf(tw, "Account unlocked\t%t\n", r.AccountUnlocked)
	if !r.UnlockDate.IsZero() {
		fmt.Fprintf(tw, "Unlock date\t%s\n", r.UnlockDate.Format(time.DateOnly))
	}
	fmt.Fprintf(tw, "Permissions\t0x%x\n", r.Permissions)
	fmt.Fprintf(tw, "Beatmaps\t%d (%d distinct, %d sets)\n", r.Stats.Beatmaps, r.Stats.Distinct, r.Stats.Sets)
	fmt.Fprintf(tw, "Unplayed\t%d\n", r.Stats.Unplayed)
	if r.Stats.Duplicates > 0 || r.Stats.Missing > 0 {
		fmt.Fprintf(tw, "Duplicates\t%d\n", r.Stats.Duplicates)
		fmt.Fprintf(tw, "Without hash\t%d\n", r.Stats.Missing)
	}
	for _, mode := range format.GameModes {
		if n := r.Stats.ByMode[mode.String()]; n > 0 {
			fmt.Fprintf(tw, "Mode %s\t%d\n", mode, n)
		}
	}
	for name, n := range sortedCounts(r.Stats.ByStatus) {
		fmt.Fprintf(tw, "Status %s\t%d\n", name, n)
	}

	return tw.Flush()
}

func sortedCounts(m map[string]int) iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}

type beatmapRow struct {
	MD5        string  `json:"md5"`
	SetID      uint32  `json:"beatmapset_id"`
	Name       string  `json:"name"`
	Mode       string  `json:"mode"`
	Status     string  `json:"status"`
	Stars      float64 `json:"stars"`
	BPM        float64 `json:"bpm"`
	Drain      string  `json:"drain"`
	LastPlayed string  `json:"last_played,omitempty"`
}

func newBeatmapRow(b *osudb.Beatmap) beatmapRow {
	row := beatmapRow{
		MD5:    b.MD5.String,
		SetID:  b.BeatmapSetID,
		Name:   fmt.Sprintf("%s - %s [%s]", b.DisplayArtist(), b.DisplayTitle(), b.Difficulty.String),
		Mode:   b.Mode.String(),
		Status: format.RankedStatus(b.RankedStatusRaw).String(),
		BPM:    b.BPM(),
		Drain:  (time.Duration(b.DrainTime) * time.Second).String(),
	}
	if stars, err := b.Stars(b.Mode, format.NoMods); err == nil {
		row.Stars = stars
	}
	if !b.Unplayed {
		if t := format.TicksToTime(b.LastPlayed); !t.IsZero() {
			row.LastPlayed = t.Format(time.DateOnly)
		}
	}

	return row
}

func (a *app) printBeatmaps(bs []*osudb.Beatmap) error {
	rows := make([]beatmapRow, len(bs))
	for i, b := range bs {
		rows[i] = newBeatmapRow(b)
	}
	if a.json() {
		return a.writeJSON(rows)
	}

	tw := a.table()
	fmt.Fprintln(tw, "NAME\tMODE\tSTATUS\tSTARS\tBPM\tDRAIN\tMD5")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\t%s\t%s\n",
			truncate(r.Name, maxNameCells), r.Mode, r.Status, r.Stars, formatBPM(r.BPM), r.Drain, r.MD5)
	}
	fmt.Fprintf(tw, "\n%d beatmaps\n", len(rows))

	return tw.Flush()
}

func formatBPM(bpm float64) string {
	if bpm == 0 {
		return "-"
	}

	return strconv.FormatFloat(bpm, 'f', -1, 64)
}

type starsReport struct {
	MD5   string             `json:"md5"`
	Name  string             `json:"name"`
	Mods  string             `json:"mods"`
	Stars map[string]float64 `json:"stars"`
}

func (a *app) printStars(b *osudb.Beatmap, mods format.Mods) error {
	r := starsReport{
		MD5:   b.MD5.String,
		Name:  newBeatmapRow(b).Name,
		Mods:  mods.RatingMask().String(),
		Stars: make(map[string]float64),
	}
	values := make([]string, len(format.GameModes))
	for i, mode := range format.GameModes {
		stars, err := b.Stars(mode, mods)
		switch {
		case err == nil:
			r.Stars[mode.String()] = stars
			values[i] = strconv.FormatFloat(stars, 'f', 2, 64)
		case errors.Is(err, errs.ErrRatingNotFound):
			values[i] = "-"
		default:
			return err
		}
	}
	if a.json() {
		return a.writeJSON(r)
	}

	tw := a.table()
	fmt.Fprintf(tw, "%s\t(%s)\n", truncate(r.Name, maxNameCells), r.Mods)
	for i, mode := range format.GameModes {
		fmt.Fprintf(tw, "%s\t%s\n", mode, values[i])
	}

	return tw.Flush()
}

type collectionRow struct {
	Name      string   `json:"name"`
	Installed int      `json:"installed"`
	Missing   int      `json:"missing"`
	Hashes    []string `json:"missing_hashes,omitempty"`
}

func (a *app) printCollections(rs []library.Resolved, withMissing bool) error {
	rows := make([]collectionRow, len(rs))
	for i, r := range rs {
		rows[i] = collectionRow{Name: r.Name, Installed: len(r.Beatmaps), Missing: len(r.Missing)}
		if withMissing {
			rows[i].Hashes = r.Missing
		}
	}
	if a.json() {
		return a.writeJSON(rows)
	}

	tw := a.table()
	fmt.Fprintln(tw, "NAME\tINSTALLED\tMISSING")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", truncate(r.Name, maxReportCells), r.Installed, r.Missing)
		for _, h := range r.Hashes {
			fmt.Fprintf(tw, "  %s\t\t\n", h)
		}
	}

	return tw.Flush()
}

func (a *app) printMissing(r library.Resolved) error {
	if len(r.Missing) == 0 {
		return nil
	}
	fmt.Fprintf(a.out, "\n%d not installed:\n", len(r.Missing))
	for _, h := range r.Missing {
		fmt.Fprintf(a.out, "  %s\n", h)
	}

	return nil
}

// cells returns the number of terminal cells r occupies.
func cells(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// truncate shortens s to at most n terminal cells, marking the cut with an
// ellipsis. Wide CJK characters count as two cells.
func truncate(s string, n int) string {
	total := 0
	for _, r := range s {
		total += cells(r)
	}
	if total <= n {
		return s
	}

	used := 0
	for i, r := range s {
		c := cells(r)
		if used+c > n-1 {
			return s[:i] + "…"
		}
		used += c
	}

	return s
}
