package llm

import "github.com/papercomputeco/reel/pkg/reasoning"

// Content block types.
const (
	BlockText       = "text"
	BlockReasoning  = "reasoning"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Message represents a single message in a conversation.
// Content is stored as an array of ContentBlocks in a provider-agnostic way.
type Message struct {
	Role    string         `json:"role"`    // "system", "user", "assistant", "tool"
	Content []ContentBlock `json:"content"` // Array of content blocks
}

// ContentBlock represents a single piece of content within a message.
// The Type field determines which other fields are populated.
type ContentBlock struct {
	Type string `json:"type"` // "text", "reasoning", "tool_use", "tool_result"

	// Text content (type="text")
	Text string `json:"text,omitempty"`

	// Reasoning items of the turn (type="reasoning")
	Reasoning reasoning.Bundle `json:"reasoning,omitempty"`

	// Tool use (type="tool_use") - assistant requesting tool execution.
	// ToolArguments is the raw JSON argument string as streamed.
	ToolUseID     string         `json:"tool_use_id,omitempty"`
	ToolName      string         `json:"tool_name,omitempty"`
	ToolInput     map[string]any `json:"tool_input,omitempty"`
	ToolArguments string         `json:"tool_arguments,omitempty"`

	// Tool result (type="tool_result") - result from tool execution
	ToolResultID string `json:"tool_result_id,omitempty"` // References the tool_use_id
	ToolOutput   string `json:"tool_output,omitempty"`
	IsError      bool   `json:"is_error,omitempty"`
}

// NewTextMessage creates a simple text message with the given role and content.
func NewTextMessage(role, text string) Message {
	return Message{
		Role: role,
		Content: []ContentBlock{
			{Type: BlockText, Text: text},
		},
	}
}

// GetText returns the concatenated text content from all text blocks in the message.
// This is a convenience method for simple text-only messages.
func (m Message) GetText() string {
	var result string
	for _, block := range m.Content {
		if block.Type == BlockText {
			result += block.Text
		}
	}
	return result
}

// ToolUses returns the tool_use blocks in emission order.
func (m Message) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, block := range m.Content {
		if block.Type == BlockToolUse {
			uses = append(uses, block)
		}
	}
	return uses
}

// ReasoningItems returns a copy of every reasoning item carried by the
// message.
func (m Message) ReasoningItems() reasoning.Bundle {
	var items reasoning.Bundle
	for _, block := range m.Content {
		if block.Type == BlockReasoning {
			items = append(items, block.Reasoning.Clone()...)
		}
	}
	return items
}
