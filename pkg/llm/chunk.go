package llm

import "github.com/papercomputeco/reel/pkg/reasoning"

// StreamChunk is a single decoded streaming chunk in the provider-neutral
// representation. It is consumed immediately by the stream transformer and
// never retained. Every top-level field is optional.
type StreamChunk struct {
	// Response identity, sticky once captured by the stream state.
	ID       string `json:"id,omitempty"`
	Model    string `json:"model,omitempty"`
	Provider string `json:"provider,omitempty"`

	// Created is the upstream creation time in Unix seconds, zero if absent.
	Created int64 `json:"created,omitempty"`

	Choices []ChoiceDelta `json:"choices,omitempty"`

	// Usage is present on the usage-bearing chunk, commonly a trailing chunk
	// with no choices.
	Usage *RawUsage `json:"usage,omitempty"`

	// Error is an in-band vendor error payload.
	Error *ErrorPayload `json:"error,omitempty"`
}

// ChoiceDelta is the incremental content of one choice.
type ChoiceDelta struct {
	Index int `json:"index"`

	// Content is the text delta. Nil means absent; an empty string is a
	// present but empty delta.
	Content *string `json:"content,omitempty"`

	// Reasoning is a plain reasoning text delta.
	Reasoning *string `json:"reasoning,omitempty"`

	// ReasoningDetails are structured reasoning fragments. When present they
	// take precedence over Reasoning.
	ReasoningDetails []reasoning.Item `json:"reasoning_details,omitempty"`

	Annotations []Annotation    `json:"annotations,omitempty"`
	ToolCalls   []ToolCallDelta `json:"tool_calls,omitempty"`

	// FinishReason is the raw vendor finish signal.
	FinishReason *string `json:"finish_reason,omitempty"`
}

// Annotation is a citation attached to generated content.
type Annotation struct {
	Type       string `json:"type"` // "url_citation"
	URL        string `json:"url,omitempty"`
	Title      string `json:"title,omitempty"`
	Content    string `json:"content,omitempty"`
	StartIndex int    `json:"start_index,omitempty"`
	EndIndex   int    `json:"end_index,omitempty"`
}

// ToolCallDelta is an incremental tool invocation. ID and Name usually only
// appear on the first delta of a given Index.
type ToolCallDelta struct {
	Index     int    `json:"index"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ErrorPayload is an in-band error reported by the vendor mid-stream.
type ErrorPayload struct {
	Code     string         `json:"code,omitempty"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ErrorResponse is the JSON error body returned to downstream clients.
type ErrorResponse struct {
	Error string `json:"error"`
}
