package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/papercomputeco/reel/pkg/llm"
	"github.com/papercomputeco/reel/pkg/reasoning"
	"github.com/papercomputeco/reel/pkg/usage"
)

// Transform maps one decoded chunk onto the events it produces, mutating st.
// It is called once per chunk in arrival order and never fails: content
// problems are dropped, and an in-band vendor error becomes an error event
// followed by a degenerate finish. Chunks arriving after the finish event
// produce nothing.
func Transform(chunk *llm.StreamChunk, st *State) []llm.Event {
	if chunk == nil || st.finished {
		return nil
	}

	st.capture(chunk)

	if chunk.Error != nil {
		return st.fail(&llm.ErrorInfo{
			Message: chunk.Error.Message,
			Code:    chunk.Error.Code,
		})
	}

	var events []llm.Event
	for i := range chunk.Choices {
		events = st.choice(events, &chunk.Choices[i])
	}

	if chunk.Usage != nil {
		reason := llm.FinishStop
		raw, ok := st.FinishReason()
		if ok {
			reason = llm.MapFinishReason(raw)
		}
		events = st.closeAll(events, true)
		events = st.finish(events, reason, raw, usage.Normalize(chunk.Usage), chunk.Usage)
	}

	return events
}

// Flush ends a stream whose transport closed without a usage-bearing chunk.
// Open channels and tool calls are closed and the finish event is emitted
// with the captured finish reason ("other" if none was seen) and unknown
// usage. Flush is a no-op once the stream has finished.
func Flush(st *State) []llm.Event {
	if st.finished {
		return nil
	}

	reason := llm.FinishOther
	raw, ok := st.FinishReason()
	if ok {
		reason = llm.MapFinishReason(raw)
	}

	events := st.closeAll(nil, true)
	return st.finish(events, reason, raw, llm.Usage{}, nil)
}

// Abort ends a stream after a transport failure or cancellation: a single
// error event, end events for open channels, then a finish with reason
// "error" and unknown usage. Abort is a no-op once the stream has finished.
func Abort(st *State, err error) []llm.Event {
	if st.finished {
		return nil
	}
	if err == nil {
		err = errors.New("stream aborted")
	}

	code := "transport_error"
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		code = "canceled"
	}

	return st.fail(&llm.ErrorInfo{
		Message: err.Error(),
		Code:    code,
		Err:     err,
	})
}

// fail emits an error event and the degenerate terminal sequence.
func (s *State) fail(e *llm.ErrorInfo) []llm.Event {
	events := []llm.Event{{Type: llm.EventError, Error: e}}
	events = s.closeAll(events, false)
	return s.finish(events, llm.FinishError, "", llm.Usage{}, nil)
}

func (s *State) choice(events []llm.Event, c *llm.ChoiceDelta) []llm.Event {
	if s.finishReason == nil {
		if c.Content != nil {
			events = s.delta(events, &s.text, textChannelID,
				llm.EventTextStart, llm.EventTextDelta, *c.Content)
		}

		if len(c.ReasoningDetails) > 0 {
			s.details.Add(c.ReasoningDetails...)

			var b strings.Builder
			for _, d := range c.ReasoningDetails {
				if d.Valid() && d.Type != reasoning.TypeEncrypted {
					b.WriteString(d.Payload())
				}
			}
			events = s.delta(events, &s.reasoning, reasoningChannelID,
				llm.EventReasoningStart, llm.EventReasoningDelta, b.String())
		} else if c.Reasoning != nil {
			events = s.delta(events, &s.reasoning, reasoningChannelID,
				llm.EventReasoningStart, llm.EventReasoningDelta, *c.Reasoning)
		}

		for _, a := range c.Annotations {
			if a.Type != "url_citation" || a.URL == "" {
				continue
			}
			s.sources++
			events = append(events, llm.Event{
				Type: llm.EventSource,
				ID:   fmt.Sprintf("source-%d", s.sources),
				Source: &llm.Source{
					SourceType: "url",
					URL:        a.URL,
					Title:      a.Title,
				},
			})
		}

		for _, tc := range c.ToolCalls {
			events = s.toolDelta(events, tc)
		}
	}

	if c.FinishReason != nil && s.finishReason == nil {
		reason := *c.FinishReason
		events = s.closeAll(events, true)
		s.finishReason = &reason
	}

	return events
}

// delta applies a text or reasoning delta to its channel. A present delta
// opens an unopened channel even when empty; deltas on a closed channel are
// dropped.
func (s *State) delta(events []llm.Event, ch *channelStatus, id string, start, delta llm.EventType, text string) []llm.Event {
	switch *ch {
	case closed:
		return events
	case unopened:
		*ch = open
		events = append(events, llm.Event{Type: start, ID: id})
	}

	if text != "" {
		events = append(events, llm.Event{Type: delta, ID: id, Delta: text})
	}
	return events
}

func (s *State) toolDelta(events []llm.Event, tc llm.ToolCallDelta) []llm.Event {
	if s.toolCalls == nil {
		s.toolCalls = make(map[int]*pendingToolCall)
	}

	call, ok := s.toolCalls[tc.Index]
	if !ok {
		id := tc.ID
		if id == "" {
			id = "call_" + uuid.NewString()
		}
		call = &pendingToolCall{id: id, name: tc.Name}
		s.toolCalls[tc.Index] = call
		s.toolOrder = append(s.toolOrder, tc.Index)

		events = append(events, llm.Event{
			Type:     llm.EventToolInputStart,
			ID:       call.id,
			ToolName: call.name,
		})
	} else if call.name == "" && tc.Name != "" {
		call.name = tc.Name
	}

	if tc.Arguments != "" {
		call.args.WriteString(tc.Arguments)
		events = append(events, llm.Event{
			Type:  llm.EventToolInputDelta,
			ID:    call.id,
			Delta: tc.Arguments,
		})
	}
	return events
}

// closeAll emits end events for open channels and pending tool calls. When
// complete is set, each pending tool call is also emitted as a tool-call.
func (s *State) closeAll(events []llm.Event, complete bool) []llm.Event {
	if s.reasoning == open {
		events = append(events, llm.Event{Type: llm.EventReasoningEnd, ID: reasoningChannelID})
	}
	if s.text == open {
		events = append(events, llm.Event{Type: llm.EventTextEnd, ID: textChannelID})
	}
	s.reasoning = closed
	s.text = closed

	for _, idx := range s.toolOrder {
		call := s.toolCalls[idx]
		events = append(events, llm.Event{Type: llm.EventToolInputEnd, ID: call.id})
		if !complete {
			continue
		}

		input := call.args.String()
		if strings.TrimSpace(input) == "" {
			input = "{}"
		}
		events = append(events, llm.Event{
			Type:     llm.EventToolCall,
			ID:       call.id,
			ToolName: call.name,
			Input:    input,
		})
	}
	s.toolOrder = nil
	s.toolCalls = nil

	return events
}

// finish emits response-metadata immediately followed by the single finish
// event.
func (s *State) finish(events []llm.Event, reason llm.FinishReason, rawReason string, u llm.Usage, raw *llm.RawUsage) []llm.Event {
	md := s.metadata()
	pm := usage.Build(s.responseID, s.provider, raw)
	pm.ReasoningDetails = s.details.Items()

	s.finished = true
	return append(events,
		llm.Event{Type: llm.EventResponseMetadata, Metadata: &md},
		llm.Event{
			Type: llm.EventFinish,
			Finish: &llm.Finish{
				Reason:           reason,
				RawReason:        rawReason,
				Usage:            u,
				ProviderMetadata: pm,
			},
		},
	)
}
