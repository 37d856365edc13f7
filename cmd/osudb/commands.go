package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/osudb"
	"github.com/arloliu/osudb/compress"
	"github.com/arloliu/osudb/format"
	"github.com/arloliu/osudb/internal/cliconfig"
	"github.com/arloliu/osudb/internal/watch"
	"github.com/arloliu/osudb/library"
	"github.com/arloliu/osudb/log"
)

func (a *app) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show database header and library statistics",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}

			return a.printInfo(lib)
		},
	}
}

type listFlags struct {
	mode     string
	status   string
	minStars float64
	maxStars float64
	minBPM   float64
	maxBPM   float64
	limit    int
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "", "keep beatmaps of a game mode: osu, taiko, fruits or mania")
	cmd.Flags().StringVar(&f.status, "status", "", "keep beatmaps with a ranked status, e.g. ranked or approved")
	cmd.Flags().Float64Var(&f.minStars, "min-stars", 0, "minimum no-mod star rating")
	cmd.Flags().Float64Var(&f.maxStars, "max-stars", 0, "maximum no-mod star rating (0 for no limit)")
	cmd.Flags().Float64Var(&f.minBPM, "min-bpm", 0, "minimum dominant BPM")
	cmd.Flags().Float64Var(&f.maxBPM, "max-bpm", 0, "maximum dominant BPM (0 for no limit)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "show at most this many beatmaps (0 for all)")
}

func (f *listFlags) filters() ([]library.Filter, error) {
	var filters []library.Filter
	if f.mode != "" {
		mode, err := format.ParseGameMode(strings.ToLower(f.mode))
		if err != nil {
			return nil, err
		}
		filters = append(filters, library.ModeIs(mode))
	}
	if f.status != "" {
		status, err := format.ParseRankedStatus(f.status)
		if err != nil {
			return nil, err
		}
		filters = append(filters, library.StatusIs(status))
	}
	if f.minStars > 0 || f.maxStars > 0 {
		filters = append(filters, library.StarsBetween(f.minStars, upper(f.maxStars)))
	}
	if f.minBPM > 0 || f.maxBPM > 0 {
		filters = append(filters, library.BPMBetween(f.minBPM, upper(f.maxBPM)))
	}

	return filters, nil
}

func (f *listFlags) cut(bs []*osudb.Beatmap) []*osudb.Beatmap {
	if f.limit > 0 && len(bs) > f.limit {
		return bs[:f.limit]
	}

	return bs
}

func upper(v float64) float64 {
	if v <= 0 {
		return maxFloat
	}

	return v
}

const maxFloat = 1 << 53

func (a *app) beatmapsCommand() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "beatmaps",
		Short: "List installed beatmaps",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runSearch("", &f)
		},
	}
	f.register(cmd)

	return cmd
}

func (a *app) searchCommand() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "search <terms>...",
		Short: "Search beatmaps by artist, title, creator, difficulty, source or tags",
		Long: `Search beatmaps by artist, title, creator, difficulty, source or tags.

Every term must match. Matching ignores case, full-width and half-width
forms, so "ＣＡＭＥＬＬＩＡ" finds "Camellia".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runSearch(strings.Join(args, " "), &f)
		},
	}
	f.register(cmd)

	return cmd
}

func (a *app) runSearch(query string, f *listFlags) error {
	filters, err := f.filters()
	if err != nil {
		return err
	}
	lib, err := a.openLibrary()
	if err != nil {
		return err
	}

	return a.printBeatmaps(f.cut(lib.Search(query, filters...)))
}

func (a *app) starsCommand() *cobra.Command {
	var modsFlag string
	cmd := &cobra.Command{
		Use:   "stars <md5>",
		Short: "Show the star ratings of a beatmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mods, err := format.ParseMods(modsFlag)
			if err != nil {
				return err
			}
			if err := mods.Validate(); err != nil {
				return err
			}
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			b, ok := lib.Lookup(args[0])
			if !ok {
				return fmt.Errorf("no beatmap with hash %s", args[0])
			}

			return a.printStars(b, mods)
		},
	}
	cmd.Flags().StringVar(&modsFlag, "mods", "NM", "mod combination, e.g. HDDT or EZ,HT")

	return cmd
}

func (a *app) collectionsCommand() *cobra.Command {
	var missing bool
	cmd := &cobra.Command{
		Use:   "collections [name]",
		Short: "List collections, or the beatmaps of one collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cols, err := a.openCollections()
			if err != nil {
				return err
			}
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return a.printCollections(lib.ResolveAll(cols), missing)
			}
			c, ok := cols.Find(args[0])
			if !ok {
				return fmt.Errorf("no collection named %q", args[0])
			}
			r := lib.Resolve(*c)
			if a.cfg.Output == cliconfig.OutputJSON {
				return a.writeJSON(r)
			}
			if err := a.printBeatmaps(r.Beatmaps); err != nil {
				return err
			}
			if missing {
				return a.printMissing(r)
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&missing, "missing", false, "also list hashes of beatmaps that are not installed")

	return cmd
}

func (a *app) packCommand() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "pack <dir>",
		Short: "Write a compressed backup of osu!.db and collection.db",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ct, err := format.ParseCompressionType(strings.ToLower(to))
			if err != nil {
				return err
			}
			if err := os.MkdirAll(args[0], 0o755); err != nil {
				return err
			}

			return a.pack(args[0], ct)
		},
	}
	cmd.Flags().StringVar(&to, "to", "zstd", "backup compression: none, zstd, s2 or lz4")

	return cmd
}

func (a *app) pack(dir string, ct format.CompressionType) error {
	saveOpts := []osudb.Option{osudb.WithLogger(a.logger), osudb.WithCompression(ct)}

	db, err := a.openDatabase()
	if err != nil {
		return err
	}
	dbPath := filepath.Join(dir, cliconfig.DatabaseFile+compress.Extension(ct))
	if err := osudb.SaveDatabase(dbPath, db, saveOpts...); err != nil {
		return err
	}
	fmt.Fprintln(a.out, dbPath)

	if !cliconfig.FileExists(a.cfg.CollectionsPath) {
		a.logger.Info("no collection file, skipped", log.String("path", a.cfg.CollectionsPath))
		return nil
	}
	cols, err := a.openCollections()
	if err != nil {
		return err
	}
	colPath := filepath.Join(dir, cliconfig.CollectionsFile+compress.Extension(ct))
	if err := osudb.SaveCollections(colPath, cols, saveOpts...); err != nil {
		return err
	}
	fmt.Fprintln(a.out, colPath)

	return nil
}

func (a *app) watchCommand() *cobra.Command {
	debounce := a.cfg.Debounce
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload and summarise the databases whenever the game rewrites them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("debounce") {
				a.cfg.Debounce = debounce
			}

			return a.watch(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "quiet period after the last write before reloading")

	return cmd
}

func (a *app) watch(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	reloadDB := func(context.Context) {
		start := time.Now()
		lib, err := a.openLibrary()
		if err != nil {
			a.logger.Error("reload database", log.Err(err))
			return
		}
		s := lib.Stats()
		a.logger.Info("database reloaded",
			log.Int("beatmaps", s.Beatmaps),
			log.Int("sets", s.Sets),
			log.Int("duplicates", s.Duplicates),
			log.Stringer("took", time.Since(start)),
		)
	}
	reloadCollections := func(context.Context) {
		cols, err := a.openCollections()
		if err != nil {
			a.logger.Error("reload collections", log.Err(err))
			return
		}
		a.logger.Info("collections reloaded", log.Int("collections", len(cols.Items)))
	}

	targets := []struct {
		path   string
		reload func(context.Context)
	}{
		{a.cfg.DatabasePath, reloadDB},
		{a.cfg.CollectionsPath, reloadCollections},
	}

	errCh := make(chan error, len(targets))
	running := 0
	for _, t := range targets {
		if t.path == "" {
			continue
		}
		w, err := watch.New(t.path, t.reload, watch.WithDebounce(a.cfg.Debounce), watch.WithLogger(a.logger))
		if err != nil {
			return err
		}
		running++
		go func() { errCh <- w.Run(ctx) }()
		t.reload(ctx)
	}
	a.logger.Info("watching for changes, press Ctrl+C to stop")

	var result error
	for range running {
		if err := <-errCh; err != nil {
			result = errors.Join(result, err)
			cancel()
		}
	}

	return result
}
