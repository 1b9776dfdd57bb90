package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/forgebreaker/internal/config"
	"github.com/ramonehamilton/forgebreaker/internal/forge"
	"github.com/ramonehamilton/forgebreaker/internal/logging"
	"github.com/ramonehamilton/forgebreaker/internal/meta"
	"github.com/ramonehamilton/forgebreaker/internal/metrics"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/assumptions"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/stress"
	"github.com/ramonehamilton/forgebreaker/internal/storage"
	"github.com/ramonehamilton/forgebreaker/internal/version"
)

// rootOptions holds the global flags.
type rootOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

// app carries the loaded configuration and logger through the command
// tree.
type app struct {
	opts   *rootOptions
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{opts: &rootOptions{}}

	cmd := &cobra.Command{
		Use:   "forgebreaker",
		Short: "Deck distance and assumption stress engine for MTG Arena",
		Long: "forgebreaker compares a card collection against meta decks, surfaces the\n" +
			"beliefs a deck is built on and stress-tests them to find where the deck breaks.",
		Version: version.GetVersion(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.opts.ConfigPath, "config", "c", "", "config file path (default: $"+config.EnvConfigPath+" or ~/.forgebreaker/config.toml)")
	pf.StringVar(&a.opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&a.opts.LogFormat, "log-format", "", "log format override (json, console)")

	cmd.AddCommand(
		newServeCommand(a),
		newMCPCommand(a),
		newSyncMetaCommand(a),
		newCardsCommand(a),
		newMigrateCommand(a),
		newAnalyzeCommand(a),
		newConfigCommand(a),
	)
	return cmd
}

// init loads the configuration and builds the logger.
func (a *app) init() error {
	cfg, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.opts.LogLevel != "" {
		cfg.Log.Level = a.opts.LogLevel
	}
	if a.opts.LogFormat != "" {
		cfg.Log.Format = a.opts.LogFormat
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// runtime holds the wired application service and the resources that
// need releasing.
type runtime struct {
	svc      *forge.Service
	store    *storage.Service
	provider *carddb.Provider
}

func (r *runtime) Close() error {
	return r.store.Close()
}

// loadCards builds the card provider and loads the bulk file. A missing
// file leaves the database empty.
func (a *app) loadCards() *carddb.Provider {
	provider := carddb.NewProvider(a.cfg.Cards.BulkDataPath, a.logger)
	if err := provider.Reload(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			a.logger.Warn("Card database file not found, run 'forgebreaker cards download'",
				zap.String("path", a.cfg.Cards.BulkDataPath))
		} else {
			a.logger.Warn("Failed to load card database", zap.Error(err))
		}
	}
	return provider
}

// engines builds the assumption engine and the stress simulator.
func (a *app) engines() (*assumptions.Engine, *stress.Simulator, error) {
	engineCfg, err := a.cfg.AssumptionConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load archetype profiles: %w", err)
	}
	return assumptions.NewEngine(engineCfg), stress.NewSimulator(a.cfg.StressConfig()), nil
}

// build opens storage and wires the application service.
func (a *app) build() (*runtime, error) {
	engine, simulator, err := a.engines()
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(a.cfg.StorageConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	store := storage.NewService(db)

	provider := a.loadCards()
	m := metrics.New()
	syncer := meta.NewSyncer(
		meta.NewGoldfishClient(a.cfg.GoldfishConfig()),
		store,
		a.logger,
		meta.WithSyncObserver(m.RecordSync),
	)

	svc := forge.NewService(forge.Services{
		Store:     store,
		Cards:     provider,
		Engine:    engine,
		Simulator: simulator,
		Syncer:    syncer,
		Metrics:   m,
		Logger:    a.logger,
		SyncLimit: a.cfg.Meta.Limit,
	})

	return &runtime{svc: svc, store: store, provider: provider}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
