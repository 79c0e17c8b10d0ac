package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cptspacemanspiff/battery-tracker/internal/config"
	"github.com/cptspacemanspiff/battery-tracker/internal/logging"
	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

var (
	cfgPath string
	logPath string
	verbose bool
	topics  string

	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "battery-chart",
	Short:             "Render the battery record log",
	Long:              `battery-chart reads the battery record log written by battery-daemon and renders it as a PNG chart or a terminal summary.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "/etc/battery-tracker/config.toml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", "", "record log path (overrides storage.log_path)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable all verbose logging")
	rootCmd.PersistentFlags().StringVar(&topics, "log", "", "comma-separated log topics (or 'all')")
}

func initConfig(cmd *cobra.Command, args []string) error {
	logs := logging.New(verbose, topics)
	logger = logs.Topic(logging.TopicLoader)

	var err error
	cfg, err = config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logPath != "" {
		cfg.Storage.LogPath = logPath
		if cfg, err = config.NormalizeAndValidate(cfg); err != nil {
			return err
		}
	}
	return nil
}

// loadLog reads the configured record log. A log that does not exist yet
// reads as empty.
func loadLog() (*storage.Result, error) {
	l := storage.Loader{Path: cfg.Storage.LogPath, Snapshot: cfg.Loader.Snapshot}
	res, err := l.Load()
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info().Str("path", l.Path).Msg("record log not created yet")
		return &storage.Result{}, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int("points", len(res.Points)).
		Int("skipped", res.Skipped).
		Int("defaulted", res.Defaulted).
		Msg("loaded")
	return res, nil
}
