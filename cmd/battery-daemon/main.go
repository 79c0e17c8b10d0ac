// Command battery-daemon samples the battery on a fixed interval and appends
// every sample to the record log.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/cptspacemanspiff/battery-tracker/internal/collector"
	"github.com/cptspacemanspiff/battery-tracker/internal/config"
	dbussvc "github.com/cptspacemanspiff/battery-tracker/internal/dbus"
	"github.com/cptspacemanspiff/battery-tracker/internal/logging"
	"github.com/cptspacemanspiff/battery-tracker/internal/sampler"
	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

const defaultConfigPath = "/etc/battery-tracker/config.toml"

func main() {
	configPath := pflag.String("config", defaultConfigPath, "path to the TOML config file")
	logFile := pflag.String("log-file", "", "record log path (overrides storage.log_path)")
	intervalSecs := pflag.Int("interval", 0, "sampling interval in seconds, 60-3600 in steps of 60 (overrides collection.interval_seconds)")
	verbose := pflag.Bool("verbose", false, "enable all verbose logging (equivalent to --log=all)")
	logFlag := pflag.String("log", "", "comma-separated log topics: battery,recorder,sleep (or 'all')")
	pflag.Parse()

	logs := logging.New(*verbose, *logFlag)
	logger := logs.Root()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", *configPath).Msg("load config")
		os.Exit(1)
	}
	if *logFile != "" {
		cfg.Storage.LogPath = *logFile
	}
	if *intervalSecs != 0 {
		cfg.Collection.IntervalSeconds = *intervalSecs
	}
	if cfg, err = config.NormalizeAndValidate(cfg); err != nil {
		logger.Error().Err(err).Msg("invalid settings")
		os.Exit(1)
	}

	reader, err := collector.NewReader(cfg.Collection.Reader)
	if err != nil {
		logger.Error().Err(err).Msg("create battery reader")
		os.Exit(1)
	}

	recorder := storage.NewRecorder(cfg.Storage.LogPath)
	smp, err := sampler.New(reader, time.Duration(cfg.Collection.IntervalSeconds)*time.Second,
		sampler.WithLogger(logs.Topic(logging.TopicBattery)),
		sampler.WithSinks(recorder),
	)
	if err != nil {
		logger.Error().Err(err).Msg("create sampler")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := dbussvc.NewService(smp, storage.Loader{Path: cfg.Storage.LogPath, Snapshot: cfg.Loader.Snapshot})
	if conn, err := svc.Export(); err != nil {
		logger.Warn().Err(err).Msg("D-Bus control unavailable")
	} else {
		defer conn.Close()
		logger.Info().Msg("D-Bus control registered")
	}

	// A resume from sleep takes a sample right away.
	sleepMon, err := collector.NewSleepMonitor(logs.Topic(logging.TopicSleep))
	if err != nil {
		logger.Warn().Err(err).Msg("sleep monitor unavailable")
	} else {
		defer sleepMon.Close()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-sleepMon.Wake():
					smp.Nudge()
				}
			}
		}()
	}

	logger.Info().
		Str("log_file", recorder.Path()).
		Str("reader", cfg.Collection.Reader).
		Dur("interval", smp.Interval()).
		Msg("battery-daemon started")

	if err := smp.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("sampler stopped")
		os.Exit(1)
	}
	logger.Info().Msg("shutting down")
}
