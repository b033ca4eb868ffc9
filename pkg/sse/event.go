// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// frame decoder and reader for upstream chat-completion streams. Frames are
// split at blank-line boundaries, tolerant of frames spanning several reads,
// and parsed into Events. Raw bytes may optionally be teed to a destination
// writer verbatim for diagnostics or recording.
//
// The Writer side only encodes frames; serving them is left to the caller.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import "strings"

// DoneSentinel is the literal data payload that marks the end of an
// OpenAI-compatible stream.
const DoneSentinel = "[DONE]"

// Kind classifies a parsed Event.
type Kind int

const (
	// KindKeepAlive is an event with no payload (e.g. an empty "data:" line
	// or an "event: ping" frame).
	KindKeepAlive Kind = iota

	// KindDone is the terminal "[DONE]" sentinel.
	KindDone

	// KindData is an event carrying a payload to decode.
	KindData
)

// Event represents a single parsed SSE event, delimited by a blank line
// in the upstream byte stream.
type Event struct {
	// Type is the SSE event type from the "event:" field.
	// An empty string means the default "message" type per the SSE standard.
	Type string

	// Data is the concatenated contents of all "data:" lines for this event,
	// joined with "\n" (per the SSE standard, multiple data fields are joined
	// with a single newline).
	Data string

	// ID is the last event ID from the "id:" field, if present.
	ID string
}

// Kind reports whether the event is a keep-alive, the terminal sentinel, or
// a data payload.
func (e *Event) Kind() Kind {
	data := strings.TrimSpace(e.Data)
	switch {
	case data == "":
		return KindKeepAlive
	case data == DoneSentinel:
		return KindDone
	default:
		return KindData
	}
}
