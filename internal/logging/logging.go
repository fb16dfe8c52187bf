// Package logging configures the process logger. Components take a
// *logrus.Entry from For so every line carries a component field.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Options selects level, format and destination.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	File   string // empty means Output
	// Output is used when File is empty. Nil discards.
	Output io.Writer
}

var (
	mu      sync.Mutex
	current *logrus.Logger
	closer  io.Closer
)

// Setup replaces the process logger. A previously opened log file is closed.
func Setup(opts Options) (*logrus.Logger, error) {
	lvl := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}

	l := logrus.New()
	l.SetLevel(lvl)
	switch strings.ToLower(opts.Format) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("log format %q: want text or json", opts.Format)
	}

	var (
		out io.Writer = io.Discard
		c   io.Closer
	)
	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, c = f, f
	case opts.Output != nil:
		out = opts.Output
	}
	l.SetOutput(out)

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
	current, closer = l, c
	return l, nil
}

// L returns the process logger. Before Setup it discards everything.
func L() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = logrus.New()
		current.SetOutput(io.Discard)
	}
	return current
}

// For returns a logger tagged with component.
func For(component string) *logrus.Entry {
	return L().WithField("component", component)
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	if current != nil {
		current.SetOutput(io.Discard)
	}
	return err
}
