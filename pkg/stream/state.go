package stream

import (
	"strings"
	"time"

	"github.com/papercomputeco/reel/pkg/llm"
	"github.com/papercomputeco/reel/pkg/reasoning"
)

// channelStatus is the lifecycle of a text or reasoning channel. It only
// moves forward: unopened -> open -> closed.
type channelStatus int

const (
	unopened channelStatus = iota
	open
	closed
)

const (
	textChannelID      = "text-0"
	reasoningChannelID = "reasoning-0"
)

// pendingToolCall is a tool invocation whose arguments are still streaming.
type pendingToolCall struct {
	id   string
	name string
	args strings.Builder
}

// State is the mutable bookkeeping of one streaming call. It is owned by a
// single goroutine and never shared between calls. The zero value is ready
// to use.
type State struct {
	responseID string
	model      string
	provider   string
	created    int64

	text      channelStatus
	reasoning channelStatus

	sources int

	// finishReason is the raw vendor finish signal. Nil until the first
	// signal arrives, never overwritten afterwards.
	finishReason *string

	toolCalls map[int]*pendingToolCall
	toolOrder []int

	details reasoning.Accumulator

	finished bool
}

// NewState returns the state for a new call.
func NewState() *State {
	return &State{}
}

// ResponseID returns the first response id seen on the stream.
func (s *State) ResponseID() string { return s.responseID }

// Model returns the first model id seen on the stream.
func (s *State) Model() string { return s.model }

// Provider returns the first upstream provider name seen on the stream.
func (s *State) Provider() string { return s.provider }

// Created returns the first creation time seen on the stream, or the zero
// time.
func (s *State) Created() time.Time {
	if s.created == 0 {
		return time.Time{}
	}
	return time.Unix(s.created, 0).UTC()
}

// FinishReason returns the captured vendor finish reason and whether one was
// seen.
func (s *State) FinishReason() (string, bool) {
	if s.finishReason == nil {
		return "", false
	}
	return *s.finishReason, true
}

// Finished reports whether the finish event has been emitted.
func (s *State) Finished() bool { return s.finished }

// ReasoningDetails returns the reasoning items accumulated so far.
func (s *State) ReasoningDetails() []reasoning.Item {
	return s.details.Items()
}

// capture records identity fields on first appearance only.
func (s *State) capture(chunk *llm.StreamChunk) {
	if s.responseID == "" && chunk.ID != "" {
		s.responseID = chunk.ID
	}
	if s.model == "" && chunk.Model != "" {
		s.model = chunk.Model
	}
	if s.provider == "" && chunk.Provider != "" {
		s.provider = chunk.Provider
	}
	if s.created == 0 && chunk.Created != 0 {
		s.created = chunk.Created
	}
}

func (s *State) metadata() llm.ResponseMetadata {
	md := llm.ResponseMetadata{
		ID:      s.responseID,
		ModelID: s.model,
	}
	if created := s.Created(); !created.IsZero() {
		md.Timestamp = &created
	}
	return md
}
