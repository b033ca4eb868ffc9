package openrouter

import (
	"encoding/json"

	"github.com/papercomputeco/reel/pkg/llm"
	"github.com/papercomputeco/reel/pkg/reasoning"
)

// ReplayMessage builds the request form of a completed assistant turn. The
// turn's reasoning is copied, never shared, onto the message or onto its
// first tool call, in the requested mode.
func ReplayMessage(msg llm.Message, mode ReplayMode) AssistantMessage {
	out := AssistantMessage{Role: "assistant"}

	if text := msg.GetText(); text != "" {
		out.Content = &text
	}

	uses := msg.ToolUses()
	ids := make([]string, 0, len(uses))
	for _, use := range uses {
		ids = append(ids, use.ToolUseID)
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:   use.ToolUseID,
			Type: "function",
			Function: FunctionCall{
				Name:      use.ToolName,
				Arguments: arguments(use),
			},
		})
	}

	att := reasoning.Attach(msg.ReasoningItems(), ids)

	switch mode {
	case ReplayCollapsed:
		out.Reasoning = reasoning.Collapse(att.Turn)
		for i := range out.ToolCalls {
			out.ToolCalls[i].Reasoning = reasoning.Collapse(att.ToolCalls[i])
		}
	default:
		out.ReasoningDetails = reasoning.Details(att.Turn)
		for i := range out.ToolCalls {
			out.ToolCalls[i].ReasoningDetails = reasoning.Details(att.ToolCalls[i])
		}
	}

	return out
}

func arguments(use llm.ContentBlock) string {
	if use.ToolArguments != "" {
		return use.ToolArguments
	}
	if use.ToolInput != nil {
		if b, err := json.Marshal(use.ToolInput); err == nil {
			return string(b)
		}
	}
	return "{}"
}
