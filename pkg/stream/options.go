package stream

import (
	"io"
	"log/slog"

	"github.com/papercomputeco/reel/pkg/logger"
)

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for skipped frames.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRawChunks emits a raw event carrying the verbatim payload of every
// data frame, before the events decoded from it.
func WithRawChunks(enabled bool) Option {
	return func(r *Reader) {
		r.rawChunks = enabled
	}
}

// WithWarnings sets the warnings carried by the stream-start event.
func WithWarnings(warnings ...string) Option {
	return func(r *Reader) {
		r.warnings = append(r.warnings, warnings...)
	}
}

// WithRecorder copies the raw upstream bytes verbatim to w.
func WithRecorder(w io.Writer) Option {
	return func(r *Reader) {
		r.recorder = w
	}
}

func defaultLogger() *slog.Logger {
	return logger.Nop()
}
