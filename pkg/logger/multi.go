package logger

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler hands each record to every destination whose own level admits
// it. "reel serve --log-file" pairs the terminal logger with a JSON file
// logger this way, so the file can keep debug records the terminal hides.
type teeHandler []slog.Handler

// Multi returns a logger that writes every record to each of loggers,
// filtered by each logger's own level. A destination that fails to write
// does not stop the others; the failures are joined and returned.
func Multi(loggers ...*slog.Logger) *slog.Logger {
	tee := make(teeHandler, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			tee = append(tee, l.Handler())
		}
	}
	return slog.New(tee)
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		// Handlers may retain the record, so each gets its own attrs.
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t teeHandler) derive(fn func(slog.Handler) slog.Handler) teeHandler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = fn(h)
	}
	return out
}
