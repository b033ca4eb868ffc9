package openrouter

import (
	"encoding/json"

	"github.com/papercomputeco/reel/pkg/llm"
	"github.com/papercomputeco/reel/pkg/reasoning"
)

// streamChunk represents one OpenRouter streaming payload.
type streamChunk struct {
	ID       string         `json:"id"`
	Provider string         `json:"provider,omitempty"`
	Model    string         `json:"model"`
	Object   string         `json:"object"`
	Created  int64          `json:"created"`
	Choices  []streamChoice `json:"choices"`
	Usage    *llm.RawUsage  `json:"usage,omitempty"`
	Error    *streamError   `json:"error,omitempty"`
}

type streamChoice struct {
	Index              int         `json:"index"`
	Delta              streamDelta `json:"delta"`
	FinishReason       *string     `json:"finish_reason"`
	NativeFinishReason *string     `json:"native_finish_reason,omitempty"`
}

type streamDelta struct {
	Role             string           `json:"role,omitempty"`
	Content          *string          `json:"content"`
	Reasoning        *string          `json:"reasoning,omitempty"`
	ReasoningDetails json.RawMessage  `json:"reasoning_details,omitempty"`
	ToolCalls        []streamToolCall `json:"tool_calls,omitempty"`
	Annotations      []annotation     `json:"annotations,omitempty"`
}

type streamToolCall struct {
	Index    int    `json:"index"`
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Function struct {
		Name      string `json:"name,omitempty"`
		Arguments string `json:"arguments,omitempty"`
	} `json:"function"`
}

type annotation struct {
	Type        string `json:"type"`
	URLCitation *struct {
		URL        string `json:"url"`
		Title      string `json:"title,omitempty"`
		Content    string `json:"content,omitempty"`
		StartIndex int    `json:"start_index,omitempty"`
		EndIndex   int    `json:"end_index,omitempty"`
	} `json:"url_citation,omitempty"`
}

// streamError is an in-band error. OpenRouter sends numeric codes; some
// upstreams relay string codes.
type streamError struct {
	Code     json.RawMessage `json:"code,omitempty"`
	Message  string          `json:"message"`
	Metadata map[string]any  `json:"metadata,omitempty"`
}

// ReplayMode selects how reasoning is carried on a replayed assistant
// message.
type ReplayMode string

const (
	// ReplayItemized carries reasoning as a "reasoning_details" array.
	ReplayItemized ReplayMode = "itemized"

	// ReplayCollapsed carries reasoning as a single "reasoning" object.
	ReplayCollapsed ReplayMode = "collapsed"
)

// AssistantMessage is a completed assistant turn in request form, ready to
// be sent back on the next request of a conversation.
type AssistantMessage struct {
	Role             string               `json:"role"`
	Content          *string              `json:"content"`
	ToolCalls        []ToolCall           `json:"tool_calls,omitempty"`
	Reasoning        *reasoning.Collapsed `json:"reasoning,omitempty"`
	ReasoningDetails []reasoning.Item     `json:"reasoning_details,omitempty"`
}

// ToolCall is a tool invocation on a replayed assistant message.
type ToolCall struct {
	ID               string               `json:"id"`
	Type             string               `json:"type"`
	Function         FunctionCall         `json:"function"`
	Reasoning        *reasoning.Collapsed `json:"reasoning,omitempty"`
	ReasoningDetails []reasoning.Item     `json:"reasoning_details,omitempty"`
}

// FunctionCall names the function and its JSON arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}
