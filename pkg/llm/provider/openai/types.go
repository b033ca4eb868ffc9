package openai

import "github.com/papercomputeco/reel/pkg/llm"

// streamChunk represents one chat.completion.chunk payload.
type streamChunk struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []streamChoice `json:"choices"`
	Usage   *llm.RawUsage  `json:"usage,omitempty"`
	Error   *streamError   `json:"error,omitempty"`
}

type streamChoice struct {
	Index        int         `json:"index"`
	Delta        streamDelta `json:"delta"`
	FinishReason *string     `json:"finish_reason"`
}

// streamDelta is the incremental message. reasoning_content is emitted by
// DeepSeek and vLLM-style backends speaking the OpenAI dialect.
type streamDelta struct {
	Role             string           `json:"role,omitempty"`
	Content          *string          `json:"content"`
	ReasoningContent *string          `json:"reasoning_content,omitempty"`
	Refusal          *string          `json:"refusal,omitempty"`
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
		StartIndex int    `json:"start_index,omitempty"`
		EndIndex   int    `json:"end_index,omitempty"`
	} `json:"url_citation,omitempty"`
}

type streamError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    any    `json:"code,omitempty"`
}
