// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options selects the logger's level, encoding and destination.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	File   string // append to this file instead of Stderr
	Stderr io.Writer
}

// Setup installs the default slog logger described by opts. The returned
// close function releases the log file, if one was opened.
func Setup(opts Options) (closeFn func() error, err error) {
	level := new(slog.Level)
	*level = slog.LevelInfo
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
	}

	closeFn = func() error { return nil }
	out := opts.Stderr
	if out == nil {
		out = os.Stderr
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	handler, err := newHandler(out, opts.Format, level)
	if err != nil {
		closeFn()
		return nil, err
	}
	slog.SetDefault(slog.New(handler))
	return closeFn, nil
}

func newHandler(w io.Writer, format string, level slog.Leveler) (slog.Handler, error) {
	hopts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.NewTextHandler(w, hopts), nil
	case "json":
		return slog.NewJSONHandler(w, hopts), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (valid: text, json)", format)
	}
}
