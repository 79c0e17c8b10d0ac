// Package logging builds the zerolog loggers shared by the daemon, the GUI
// and the chart tool.
//
// Records logged through a topic logger ("battery", "recorder", ...) are
// dropped below warn level unless that topic, or "all", was enabled. Records
// on the root logger always pass.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Topics used across the module.
const (
	TopicBattery  = "battery"
	TopicRecorder = "recorder"
	TopicLoader   = "loader"
	TopicSleep    = "sleep"
	TopicGUI      = "gui"
)

// Logger hands out per-topic zerolog loggers.
type Logger struct {
	root   zerolog.Logger
	topics map[string]bool
}

// New returns a Logger writing human-readable lines to stderr. verbose
// enables every topic; topics is a comma-separated list such as
// "battery,loader".
func New(verbose bool, topics string) *Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return NewWithWriter(out, verbose, topics)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, verbose bool, topics string) *Logger {
	enabled := ParseTopics(topics)
	if verbose {
		enabled["all"] = true
	}
	return &Logger{
		root:   zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger(),
		topics: enabled,
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{root: zerolog.Nop(), topics: map[string]bool{}}
}

// Root returns the untopical logger.
func (l *Logger) Root() zerolog.Logger {
	return l.root
}

// Topic returns a logger tagged with topic.
func (l *Logger) Topic(topic string) zerolog.Logger {
	lg := l.root.With().Str("topic", topic).Logger()
	if !l.Enabled(topic) {
		lg = lg.Level(zerolog.WarnLevel)
	}
	return lg
}

// Enabled reports whether info and debug records on topic are emitted.
func (l *Logger) Enabled(topic string) bool {
	return l.topics["all"] || l.topics[topic]
}

// ParseTopics splits a comma-separated topic list.
func ParseTopics(s string) map[string]bool {
	topics := make(map[string]bool)
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics[t] = true
		}
	}
	return topics
}
