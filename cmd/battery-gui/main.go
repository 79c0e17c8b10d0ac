// Command battery-gui shows the last day of battery charge from the record
// log, and optionally samples the battery itself.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/cptspacemanspiff/battery-tracker/internal/chart"
	"github.com/cptspacemanspiff/battery-tracker/internal/collector"
	"github.com/cptspacemanspiff/battery-tracker/internal/config"
	dbussvc "github.com/cptspacemanspiff/battery-tracker/internal/dbus"
	"github.com/cptspacemanspiff/battery-tracker/internal/history"
	"github.com/cptspacemanspiff/battery-tracker/internal/logging"
	"github.com/cptspacemanspiff/battery-tracker/internal/sampler"
	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "/etc/battery-tracker/config.toml"
	}
	return filepath.Join(dir, "battery-tracker", "config.toml")
}

func main() {
	configPath := pflag.String("config", defaultConfigPath(), "path to the TOML config file")
	logFile := pflag.String("log-file", "", "record log path (overrides storage.log_path)")
	sample := pflag.Bool("sample", false, "sample the battery in-process as well as reading the log")
	verbose := pflag.Bool("verbose", false, "enable all verbose logging (equivalent to --log=all)")
	logFlag := pflag.String("log", "", "comma-separated log topics: battery,recorder,loader,sleep,gui (or 'all')")
	pflag.Parse()

	logs := logging.New(*verbose, *logFlag)
	logger := logs.Root()
	guiLog := logs.Topic(logging.TopicGUI)

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", *configPath).Msg("load config")
		os.Exit(1)
	}
	if *logFile != "" {
		cfg.Storage.LogPath = *logFile
		if cfg, err = config.NormalizeAndValidate(cfg); err != nil {
			logger.Error().Err(err).Msg("invalid settings")
			os.Exit(1)
		}
	}

	buf := history.NewBuffer()
	refresher, err := history.NewRefresher(
		storage.Loader{Path: cfg.Storage.LogPath, Snapshot: cfg.Loader.Snapshot},
		buf,
		time.Duration(cfg.Display.RefreshSeconds)*time.Second,
		history.WithLogger(logs.Topic(logging.TopicLoader)),
		history.WithWatch(cfg.Storage.LogPath),
	)
	if err != nil {
		logger.Error().Err(err).Msg("create refresher")
		os.Exit(1)
	}

	var smp *sampler.Sampler
	if *sample {
		reader, err := collector.NewReader(cfg.Collection.Reader)
		if err != nil {
			logger.Error().Err(err).Msg("create battery reader")
			os.Exit(1)
		}
		// The buffer sink keeps the chart moving when the log is unwritable.
		smp, err = sampler.New(reader, time.Duration(cfg.Collection.IntervalSeconds)*time.Second,
			sampler.WithLogger(logs.Topic(logging.TopicBattery)),
			sampler.WithSinks(storage.NewRecorder(cfg.Storage.LogPath), buf),
		)
		if err != nil {
			logger.Error().Err(err).Msg("create sampler")
			os.Exit(1)
		}
	}

	// Without an in-process sampler the slider drives the daemon, if one is
	// listening.
	var daemon *dbussvc.Client
	if smp == nil {
		if daemon, err = dbussvc.NewClient(); err != nil {
			guiLog.Debug().Err(err).Msg("daemon control unavailable")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.NewWithID("io.github.cptspacemanspiff.BatteryTracker")
	win := a.NewWindow("Battery Life Tracker")
	win.Resize(fyne.NewSize(900, 600))

	stats := newStatsBar()
	graph := newBatteryGraph()
	intervalBar := newIntervalBar(refresher.Interval(), func(d time.Duration) {
		setInterval(d, refresher, smp, daemon, *configPath, cfg, guiLog)
	})

	title := canvas.NewText("Battery Life Tracker", colorTitle)
	title.TextSize = 20
	title.TextStyle = fyne.TextStyle{Bold: true}

	top := container.NewVBox(title, intervalBar, stats.container)
	content := container.NewBorder(top, nil, nil, nil, graph)
	win.SetContent(container.NewStack(canvas.NewRectangle(colorWindowBg), container.NewPadded(content)))
	win.SetOnClosed(stop)

	var wg sync.WaitGroup
	goRun := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				logger.Error().Err(err).Str("loop", name).Msg("background loop stopped")
			}
		}()
	}

	goRun("refresh", refresher.Run)
	if smp != nil {
		goRun("sample", smp.Run)
	}
	// Not waited for: it hands work to the Fyne thread, which is gone by then.
	go redrawLoop(ctx, buf, graph, stats, time.Duration(cfg.Display.RedrawSeconds)*time.Second)

	if sleepMon, err := collector.NewSleepMonitor(logs.Topic(logging.TopicSleep)); err != nil {
		logger.Warn().Err(err).Msg("sleep monitor unavailable")
	} else {
		defer sleepMon.Close()
		goRun("wake", func(ctx context.Context) error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-sleepMon.Wake():
					if smp != nil {
						smp.Nudge()
					}
					refresher.Nudge()
				}
			}
		})
	}

	// A signal closes the window the same way the user would.
	go func() {
		<-ctx.Done()
		fyne.Do(a.Quit)
	}()

	logger.Info().
		Str("log_file", cfg.Storage.LogPath).
		Bool("sample", smp != nil).
		Dur("refresh", refresher.Interval()).
		Msg("battery-gui started")

	win.ShowAndRun()
	stop()
	wg.Wait()
}

// redrawLoop pushes the buffer to the screen on a fixed cadence, whether or
// not anything new arrived.
func redrawLoop(ctx context.Context, buf *history.Buffer, graph *batteryGraph, stats *statsBar, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		snap := buf.Snapshot()
		plot := chart.Build(snap.Points)
		if ctx.Err() != nil {
			return
		}
		fyne.Do(func() {
			graph.SetPlot(plot)
			stats.Update(snap.Info)
		})

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// setInterval applies a new slider value to the refresh task and to
// whichever sampler is running, and remembers it in the config file. It
// runs on the Fyne thread, so D-Bus and file I/O happen in a goroutine.
func setInterval(d time.Duration, refresher *history.Refresher, smp *sampler.Sampler, daemon *dbussvc.Client, configPath string, cfg *config.Config, log zerolog.Logger) {
	if err := refresher.SetInterval(d); err != nil {
		log.Warn().Err(err).Dur("interval", d).Msg("rejected interval")
		return
	}
	if smp != nil {
		if err := smp.SetInterval(d); err != nil {
			log.Warn().Err(err).Dur("interval", d).Msg("rejected interval")
		}
	}
	log.Info().Dur("interval", d).Msg("interval changed")

	cfg.Display.RefreshSeconds = int(d / time.Second)
	if smp != nil {
		cfg.Collection.IntervalSeconds = int(d / time.Second)
	}
	saved := *cfg
	go func() {
		if daemon != nil {
			if err := daemon.SetInterval(d); err != nil {
				log.Debug().Err(err).Msg("daemon did not take the interval")
			}
		}
		if err := config.Save(configPath, &saved); err != nil {
			log.Warn().Err(err).Str("path", configPath).Msg("save config")
		}
	}()
}
