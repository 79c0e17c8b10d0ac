package history

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/cptspacemanspiff/battery-tracker/internal/sampler"
	"github.com/cptspacemanspiff/battery-tracker/internal/storage"
)

// Loader produces a full view of the record log.
type Loader interface {
	Load() (*storage.Result, error)
}

// Refresher reloads the log into a Buffer on its own interval, and early
// whenever the log file changes or Nudge is called.
type Refresher struct {
	loader    Loader
	buf       *Buffer
	clock     sampler.Clock
	log       zerolog.Logger
	watchPath string
	interval  atomic.Int64
	nudge     chan struct{}
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithClock replaces the wall clock.
func WithClock(c sampler.Clock) Option {
	return func(r *Refresher) { r.clock = c }
}

// WithLogger sets the loader topic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Refresher) { r.log = l }
}

// WithWatch reloads as soon as path is written or recreated.
func WithWatch(path string) Option {
	return func(r *Refresher) { r.watchPath = filepath.Clean(path) }
}

// NewRefresher returns a Refresher feeding buf from loader every interval.
// The interval follows the sampler's rules.
func NewRefresher(loader Loader, buf *Buffer, interval time.Duration, opts ...Option) (*Refresher, error) {
	if err := sampler.ValidateInterval(interval); err != nil {
		return nil, err
	}
	r := &Refresher{
		loader: loader,
		buf:    buf,
		clock:  sampler.SystemClock{},
		log:    zerolog.Nop(),
		nudge:  make(chan struct{}, 1),
	}
	r.interval.Store(int64(interval))
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Interval returns the reload interval.
func (r *Refresher) Interval() time.Duration {
	return time.Duration(r.interval.Load())
}

// SetInterval changes the reload interval starting with the next wait.
func (r *Refresher) SetInterval(d time.Duration) error {
	if err := sampler.ValidateInterval(d); err != nil {
		return err
	}
	r.interval.Store(int64(d))
	return nil
}

// Nudge requests an immediate reload.
func (r *Refresher) Nudge() {
	select {
	case r.nudge <- struct{}{}:
	default:
	}
}

// Refresh loads the log once and swaps the result into the buffer. A log
// that does not exist yet leaves the buffer untouched.
func (r *Refresher) Refresh() error {
	res, err := r.loader.Load()
	if errors.Is(err, fs.ErrNotExist) {
		r.log.Debug().Msg("record log not created yet")
		return err
	}
	if err != nil {
		r.log.Warn().Err(err).Msg("load record log")
		return err
	}

	r.buf.Replace(res)
	r.log.Debug().
		Int("points", len(res.Points)).
		Int("skipped", res.Skipped).
		Int("defaulted", res.Defaulted).
		Msg("loaded")
	return nil
}

// Run reloads until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	changed := r.watch(ctx)

	for {
		if ctx.Err() != nil {
			return nil
		}
		_ = r.Refresh()

		select {
		case <-ctx.Done():
			return nil
		case <-r.clock.After(r.Interval()):
		case <-r.nudge:
		case <-changed:
		}
	}
}

// watch returns a channel signalled on changes to the watched path, or nil
// when watching is off or unavailable. The parent directory is watched so
// that a deleted and recreated log is still followed.
func (r *Refresher) watch(ctx context.Context) <-chan struct{} {
	if r.watchPath == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		r.log.Warn().Err(err).Msg("file watch unavailable, reloading on the timer only")
		return nil
	}
	if err := w.Add(filepath.Dir(r.watchPath)); err != nil {
		w.Close()
		r.log.Warn().Err(err).Str("dir", filepath.Dir(r.watchPath)).Msg("file watch unavailable, reloading on the timer only")
		return nil
	}

	changed := make(chan struct{}, 1)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != r.watchPath || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				select {
				case changed <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				r.log.Debug().Err(err).Msg("file watch error")
			}
		}
	}()
	return changed
}
