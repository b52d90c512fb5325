// Package logger builds the slog loggers used across the tutor CLI and server.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// clientPrefix tags diagnostics the CLI writes next to command output.
const clientPrefix = "tutor"

type config struct {
	level  slog.Level
	pretty bool
	json   bool
	prefix string
	w      io.Writer
}

// New returns a *slog.Logger. Text output is the default; WithJSON and
// WithPretty select the structured and colorized handlers respectively.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level: slog.LevelInfo,
		w:     os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	var l *slog.Logger
	switch {
	case c.json:
		l = slog.New(slog.NewJSONHandler(c.w, &slog.HandlerOptions{Level: c.level}))
	case c.pretty:
		return slog.New(charmlog.NewWithOptions(c.w, charmlog.Options{
			Level:           charmlog.Level(c.level),
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Prefix:          c.prefix,
		}))
	default:
		l = slog.New(slog.NewTextHandler(c.w, &slog.HandlerOptions{Level: c.level}))
	}

	if c.prefix != "" {
		l = l.With("component", c.prefix)
	}
	return l
}

// Client returns the logger client commands hand to the backend client:
// pretty output on stderr so it never mixes with rendered results.
func Client(debug bool) *slog.Logger {
	return New(
		WithDebug(debug),
		WithPretty(true),
		WithPrefix(clientPrefix),
		WithWriter(os.Stderr),
	)
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(nopHandler{})
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
