// Package sampler polls a battery reader on an adjustable interval and hands
// every timestamped sample to a set of sinks.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/cptspacemanspiff/battery-tracker/internal/collector"
)

// Interval limits. The interval must be a whole number of minutes between
// one minute and one hour.
const (
	MinInterval  = time.Minute
	MaxInterval  = time.Hour
	IntervalStep = time.Minute
)

// ErrInvalidInterval is returned for intervals outside the allowed grid.
var ErrInvalidInterval = errors.New("invalid interval")

// ValidateInterval checks d against MinInterval, MaxInterval and IntervalStep.
func ValidateInterval(d time.Duration) error {
	if d < MinInterval || d > MaxInterval || d%IntervalStep != 0 {
		return fmt.Errorf("%w: %s must be between %s and %s in steps of %s",
			ErrInvalidInterval, d, MinInterval, MaxInterval, IntervalStep)
	}
	return nil
}

// Clock abstracts wall time so tests can drive the loop.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time                         { return time.Now() }
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Sink receives samples. storage.Recorder and history.Buffer implement it.
type Sink interface {
	Append(collector.Sample) error
}

// Sampler reads the battery, stamps the reading and fans it out to sinks.
type Sampler struct {
	reader   collector.Reader
	sinks    []Sink
	failing  []bool
	clock    Clock
	log      zerolog.Logger
	interval atomic.Int64
	nudge    chan struct{}
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Sampler) { s.clock = c }
}

// WithLogger sets the logger used for read and sink failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Sampler) { s.log = l }
}

// WithSinks adds sinks that receive every sample, in order.
func WithSinks(sinks ...Sink) Option {
	return func(s *Sampler) { s.sinks = append(s.sinks, sinks...) }
}

// New returns a Sampler polling reader every interval.
func New(reader collector.Reader, interval time.Duration, opts ...Option) (*Sampler, error) {
	if err := ValidateInterval(interval); err != nil {
		return nil, err
	}
	s := &Sampler{
		reader: reader,
		clock:  SystemClock{},
		log:    zerolog.Nop(),
		nudge:  make(chan struct{}, 1),
	}
	s.interval.Store(int64(interval))
	for _, opt := range opts {
		opt(s)
	}
	s.failing = make([]bool, len(s.sinks))
	return s, nil
}

// Interval returns the current polling interval.
func (s *Sampler) Interval() time.Duration {
	return time.Duration(s.interval.Load())
}

// SetInterval changes the polling interval. A wait already in progress keeps
// its old length; the new interval applies from the next wait on.
func (s *Sampler) SetInterval(d time.Duration) error {
	if err := ValidateInterval(d); err != nil {
		return err
	}
	s.interval.Store(int64(d))
	return nil
}

// Nudge cuts the current wait short so a sample is taken right away.
// The following wait is a full interval.
func (s *Sampler) Nudge() {
	select {
	case s.nudge <- struct{}{}:
	default:
	}
}

// Tick takes one sample and hands it to every sink. It reports false when
// the battery could not be read.
func (s *Sampler) Tick() (collector.Sample, bool) {
	reading, err := s.reader.Read()
	if err != nil || reading == nil {
		s.log.Debug().Err(err).Msg("no sample this tick")
		return collector.Sample{}, false
	}

	sample := *reading
	sample.Timestamp = s.clock.Now().Round(0).Truncate(time.Second)
	s.log.Info().
		Float64("percentage", sample.Percentage).
		Str("state", sample.State.String()).
		Float64("voltage", sample.Voltage).
		Msg("sample")

	for i, sink := range s.sinks {
		if err := sink.Append(sample); err != nil {
			if !s.failing[i] {
				s.log.Warn().Err(err).Msg("sink unwritable, will retry next tick")
			} else {
				s.log.Debug().Err(err).Msg("sink still unwritable")
			}
			s.failing[i] = true
			continue
		}
		if s.failing[i] {
			s.log.Info().Msg("sink writable again")
			s.failing[i] = false
		}
	}
	return sample, true
}

// Run samples until ctx is cancelled: one sample immediately, then one per
// interval.
func (s *Sampler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		s.Tick()

		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(s.Interval()):
		case <-s.nudge:
		}
	}
}
