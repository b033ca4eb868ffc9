// Package stream turns an upstream chat-completion SSE body into the ordered
// event sequence of one call: exactly one stream-start first, channel and
// source events, then exactly one response-metadata event immediately
// followed by exactly one finish event.
package stream

import (
	"context"
	"io"
	"iter"
	"log/slog"

	"github.com/papercomputeco/reel/pkg/llm"
	"github.com/papercomputeco/reel/pkg/llm/provider"
	"github.com/papercomputeco/reel/pkg/sse"
)

// Reader pulls events from an upstream body. It reads from the transport
// only when no event is pending. A Reader is not safe for concurrent use.
type Reader struct {
	ctx      context.Context
	body     io.Reader
	src      *sse.Reader
	provider provider.Provider
	state    *State

	logger    *slog.Logger
	rawChunks bool
	warnings  []string
	recorder  io.Writer

	stop    func() bool
	started bool
	done    bool
	queue   []llm.Event
}

// NewReader returns a Reader over body, decoding chunks with p. When body is
// an io.Closer, cancelling ctx closes it to abort a pending read.
func NewReader(ctx context.Context, body io.Reader, p provider.Provider, opts ...Option) *Reader {
	r := &Reader{
		ctx:      ctx,
		body:     body,
		provider: p,
		state:    NewState(),
		logger:   defaultLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}

	var sseOpts []sse.Option
	if r.recorder != nil {
		sseOpts = append(sseOpts, sse.WithTee(r.recorder))
	}
	r.src = sse.NewReader(body, sseOpts...)

	if c, ok := body.(io.Closer); ok {
		r.stop = context.AfterFunc(ctx, func() {
			c.Close()
		})
	}

	return r
}

// State returns the call's stream state.
func (r *Reader) State() *State {
	return r.state
}

// Next returns the next event. It returns io.EOF after the finish event has
// been returned. Transport failures are reported as events, never as errors.
func (r *Reader) Next() (llm.Event, error) {
	for len(r.queue) == 0 {
		if r.done {
			return llm.Event{}, io.EOF
		}
		r.fill()
	}

	ev := r.queue[0]
	r.queue = r.queue[1:]
	return ev, nil
}

// All returns an iterator over the remaining events.
func (r *Reader) All() iter.Seq[llm.Event] {
	return func(yield func(llm.Event) bool) {
		for {
			ev, err := r.Next()
			if err != nil {
				return
			}
			if !yield(ev) {
				return
			}
		}
	}
}

// Close releases the body. Events still pending are discarded.
func (r *Reader) Close() error {
	if r.stop != nil {
		r.stop()
	}
	r.done = true
	r.queue = nil
	if c, ok := r.body.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// fill processes at most one frame into the queue.
func (r *Reader) fill() {
	if !r.started {
		r.started = true
		r.queue = append(r.queue, llm.Event{
			Type:     llm.EventStreamStart,
			Warnings: r.warnings,
		})
		return
	}

	if r.state.Finished() {
		r.finish()
		return
	}

	if err := r.ctx.Err(); err != nil {
		r.queue = append(r.queue, Abort(r.state, err)...)
		return
	}

	frame, err := r.src.Next()
	if err != nil {
		if ctxErr := r.ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		r.logger.Error("upstream stream read failed", "error", err)
		r.queue = append(r.queue, Abort(r.state, err)...)
		return
	}
	if frame == nil {
		r.queue = append(r.queue, Flush(r.state)...)
		return
	}

	switch frame.Kind() {
	case sse.KindKeepAlive:
		return
	case sse.KindDone:
		r.queue = append(r.queue, Flush(r.state)...)
		return
	}

	if r.rawChunks {
		r.queue = append(r.queue, llm.Event{Type: llm.EventRaw, Raw: frame.Data})
	}

	chunk, err := r.provider.ParseStreamChunk([]byte(frame.Data))
	if err != nil {
		r.logger.Warn("skipping malformed stream frame",
			"provider", r.provider.Name(),
			"error", err,
		)
		return
	}
	if chunk == nil {
		return
	}

	r.queue = append(r.queue, Transform(chunk, r.state)...)
}

func (r *Reader) finish() {
	r.done = true
	if r.stop != nil {
		r.stop()
	}
}
