package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/arloliu/osudb"
	"github.com/arloliu/osudb/internal/cliconfig"
	"github.com/arloliu/osudb/library"
	"github.com/arloliu/osudb/log"
)

const longHelp = `Inspect the osu! beatmap database (osu!.db) and collection file (collection.db).

Files are read from the game directory unless --db or --collections point
elsewhere. Backups compressed with zstd, S2 or LZ4 are recognised by their
extension (.zst, .s2, .lz4).

Configuration is read from $HOME/.osudb/config.toml, then OSUDB_* environment
variables, then flags.`

var exampleUsage = strings.TrimSpace(`
  osudb info --game-dir "C:\Users\me\AppData\Local\osu!"
  osudb search camellia --mode standard --min-stars 6
  osudb stars 3f1c0b0e9a0cd5b5d1a5b6e9d44ff8a1 --mods HDDT
  osudb pack ./backup --compression zstd
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}

	return "dev"
}

// app carries the resolved configuration into the sub-commands.
type app struct {
	cfg     cliconfig.Config
	cfgPath string
	logger  log.Logger
	out     io.Writer
}

func main() {
	a := &app{
		cfg:    cliconfig.DefaultConfig(),
		logger: log.NewConsoleLogger(os.Stderr, zerolog.InfoLevel),
		out:    os.Stdout,
	}
	root := a.rootCommand()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		a.logger.Error("osudb", log.Err(err))
		stop()
		os.Exit(1)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "osudb",
		Short:         "Inspect osu! beatmap and collection databases",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolve(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.osudb/config.toml)")
	flags.StringVar(&a.cfg.GameDir, "game-dir", a.cfg.GameDir, "osu! install directory")
	flags.StringVar(&a.cfg.DatabasePath, "db", "", "path to osu!.db (default: <game-dir>/osu!.db)")
	flags.StringVar(&a.cfg.CollectionsPath, "collections", "", "path to collection.db (default: <game-dir>/collection.db)")
	flags.StringVar(&a.cfg.Compression, "compression", "", "compression of the input files: auto, none, zstd, s2 or lz4")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn or error")
	flags.StringVarP(&a.cfg.Output, "output", "o", a.cfg.Output, "output format: table or json")

	root.AddCommand(
		a.infoCommand(),
		a.beatmapsCommand(),
		a.searchCommand(),
		a.starsCommand(),
		a.collectionsCommand(),
		a.packCommand(),
		a.watchCommand(),
	)

	return root
}

// resolve loads the config file and environment under the flags that were
// set explicitly, then validates the result.
func (a *app) resolve(cmd *cobra.Command) error {
	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	}
	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	logger, err := a.cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug("configuration",
		log.String("db", a.cfg.DatabasePath),
		log.String("collections", a.cfg.CollectionsPath),
		log.String("compression", a.cfg.Compression),
	)

	return nil
}

func (a *app) openOptions() ([]osudb.Option, error) {
	opts := []osudb.Option{osudb.WithLogger(a.logger)}
	ct, ok, err := a.cfg.CompressionOverride()
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, osudb.WithCompression(ct))
	}

	return opts, nil
}

func (a *app) openDatabase() (*osudb.Database, error) {
	opts, err := a.openOptions()
	if err != nil {
		return nil, err
	}

	return osudb.OpenDatabase(a.cfg.DatabasePath, opts...)
}

func (a *app) openCollections() (*osudb.Collections, error) {
	opts, err := a.openOptions()
	if err != nil {
		return nil, err
	}

	return osudb.OpenCollections(a.cfg.CollectionsPath, opts...)
}

func (a *app) openLibrary() (*library.Library, error) {
	db, err := a.openDatabase()
	if err != nil {
		return nil, err
	}

	return library.New(db, library.WithLogger(a.logger))
}
