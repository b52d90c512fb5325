package logger

import (
	"context"
	"errors"
	"log/slog"
)

// fanout sends each record to every handler enabled for its level. A failing
// handler does not keep the record from the others.
type fanout struct {
	handlers []slog.Handler
}

// Multi returns a logger writing through all given loggers, e.g. pretty
// console output plus a JSON log file for tutor serve. Nil loggers are
// skipped.
func Multi(loggers ...*slog.Logger) *slog.Logger {
	f := &fanout{}
	for _, l := range loggers {
		if l != nil {
			f.handlers = append(f.handlers, l.Handler())
		}
	}
	return slog.New(f)
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f *fanout) WithGroup(name string) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *fanout) derive(fn func(slog.Handler) slog.Handler) *fanout {
	children := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		children[i] = fn(h)
	}
	return &fanout{handlers: children}
}
