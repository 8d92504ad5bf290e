package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"studyplan/internal/config"
	"studyplan/internal/logging"
	"studyplan/internal/storage"
	"studyplan/internal/store"
	"studyplan/internal/ui"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type flags struct {
	configPath string
	dataPath   string
	backend    string
	logPath    string
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "Studyplan - a terminal study task planner",
		Long:          `Studyplan keeps a list of study tasks with due dates and priorities, shows what is coming up, and reminds you about work due soon.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f)
		},
	}
	root.Flags().StringVar(&f.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/studyplan/config.toml)")
	root.Flags().StringVar(&f.dataPath, "data", "", "database file or JSON directory, overrides data_path")
	root.Flags().StringVar(&f.backend, "backend", "", "storage backend: sqlite or json, overrides storage_backend")
	root.Flags().StringVar(&f.logPath, "log", "", "log file, overrides log_path")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "studyplan", version)
		},
	})
	return root
}

func run(ctx context.Context, f flags) error {
	configPath := f.configPath
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if f.dataPath != "" {
		cfg.DataPath = f.dataPath
	}
	if f.backend != "" {
		cfg.StorageBackend = f.backend
	}
	if f.logPath != "" {
		cfg.LogPath = f.logPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logging.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closer.Close()

	interval, err := cfg.ReminderEvery()
	if err != nil {
		return err
	}
	ttl, err := cfg.NotificationLifetime()
	if err != nil {
		return err
	}

	slot, err := storage.Open(cfg.StorageBackend, cfg.DataPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer slot.Close()

	st := store.New(slot, store.WithKey(cfg.StorageKey), store.WithLogger(logger))
	st.Load(ctx)
	logger.Info("starting", "version", version, "backend", cfg.StorageBackend, "tasks", len(st.Tasks()))

	return ui.Run(ctx, st, cfg, ui.Options{
		ReminderInterval: interval,
		NotificationTTL:  ttl,
		Logger:           logger,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
