package sse

import (
	"errors"
	"io"
)

const defaultReadSize = 32 * 1024

// Option configures a Reader.
type Option func(*Reader)

// WithTee writes every raw byte read from the source verbatim to w.
//
// ┌──────────────────┐
// │ source io.Reader │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌───────────────────────┐
// │   Reader.Next()  │──▶│  tee io.Writer (raw)  │
// └──────────────────┘   └───────────────────────┘
// │
// ▼
// ┌──────────────────┐
// │      Event       │
// └──────────────────┘
func WithTee(w io.Writer) Option {
	return func(r *Reader) {
		r.tee = w
	}
}

// WithReadSize overrides the size of the buffer used for a single read from
// the source.
func WithReadSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.readBuf = make([]byte, n)
		}
	}
}

// Reader yields parsed SSE events from a source io.Reader. It reads from the
// source only when no complete frame is buffered.
type Reader struct {
	src     io.Reader
	tee     io.Writer
	dec     *Decoder
	readBuf []byte
	pending []string
	eof     bool
}

// NewReader returns a Reader that parses SSE events from src.
func NewReader(src io.Reader, opts ...Option) *Reader {
	r := &Reader{
		src: src,
		dec: NewDecoder(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.readBuf == nil {
		r.readBuf = make([]byte, defaultReadSize)
	}
	return r
}

// Next returns the next parsed SSE event. It blocks until a complete event is
// available (terminated by a blank line in the stream). Next returns nil, nil
// when the source is exhausted; an unterminated trailing frame is dropped.
//
// Comment-only frames (keep-alives such as ": PROCESSING") are skipped.
func (r *Reader) Next() (*Event, error) {
	for {
		for len(r.pending) > 0 {
			frame := r.pending[0]
			r.pending = r.pending[1:]

			if ev, ok := ParseFrame(frame); ok {
				return ev, nil
			}
		}

		if r.eof {
			return nil, nil
		}

		n, err := r.src.Read(r.readBuf)
		if n > 0 {
			if r.tee != nil {
				if _, werr := r.tee.Write(r.readBuf[:n]); werr != nil {
					return nil, werr
				}
			}
			r.pending = r.dec.Feed(r.readBuf[:n])
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				r.eof = true
				r.dec.Reset()
				continue
			}
			return nil, err
		}
	}
}
