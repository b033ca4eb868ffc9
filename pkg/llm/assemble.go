package llm

import (
	"encoding/json"
	"strings"

	"github.com/papercomputeco/reel/pkg/reasoning"
)

// Assembler rebuilds the completed assistant message of a turn from its
// stream events, so the turn's reasoning can be replayed on the next request.
type Assembler struct {
	text      strings.Builder
	thinking  strings.Builder
	toolCalls []ContentBlock
	finish    *Finish
}

// Add consumes one event.
func (a *Assembler) Add(ev Event) {
	switch ev.Type {
	case EventTextDelta:
		a.text.WriteString(ev.Delta)
	case EventReasoningDelta:
		a.thinking.WriteString(ev.Delta)
	case EventToolCall:
		block := ContentBlock{
			Type:          BlockToolUse,
			ToolUseID:     ev.ID,
			ToolName:      ev.ToolName,
			ToolArguments: ev.Input,
		}
		var input map[string]any
		if err := json.Unmarshal([]byte(ev.Input), &input); err == nil {
			block.ToolInput = input
		}
		a.toolCalls = append(a.toolCalls, block)
	case EventFinish:
		a.finish = ev.Finish
	}
}

// Finish returns the finish event payload, or nil if the stream has not
// finished.
func (a *Assembler) Finish() *Finish {
	return a.finish
}

// Message returns the assistant message assembled so far. Structured
// reasoning details from the finish event take precedence over streamed
// reasoning text.
func (a *Assembler) Message() Message {
	msg := Message{Role: "assistant"}

	var items reasoning.Bundle
	if a.finish != nil && len(a.finish.ProviderMetadata.ReasoningDetails) > 0 {
		items = reasoning.Bundle(a.finish.ProviderMetadata.ReasoningDetails).Clone()
	} else if a.thinking.Len() > 0 {
		items = reasoning.Bundle{{
			Type:   reasoning.TypeText,
			Format: reasoning.FormatUnknown,
			Text:   a.thinking.String(),
		}}
	}
	if len(items) > 0 {
		msg.Content = append(msg.Content, ContentBlock{Type: BlockReasoning, Reasoning: items})
	}

	if a.text.Len() > 0 {
		msg.Content = append(msg.Content, ContentBlock{Type: BlockText, Text: a.text.String()})
	}

	msg.Content = append(msg.Content, a.toolCalls...)
	return msg
}
