// Package reasoning normalizes vendor-specific reasoning payloads into
// canonical Items and reconstructs vendor-native payloads for replay on the
// next conversation turn.
//
// Reasoning is always optional context: shapes that are not recognized are
// treated as "no reasoning produced" and never raise an error. Every function
// in this package is pure and safe for concurrent use.
package reasoning

// Type tags the variant of an Item.
type Type string

const (
	// TypeText is free-text reasoning. It may carry a vendor signature that
	// must be echoed back unmodified for the continuation to be accepted.
	TypeText Type = "reasoning.text"

	// TypeSummary is a summarized form of hidden reasoning.
	TypeSummary Type = "reasoning.summary"

	// TypeEncrypted is an opaque, encrypted reasoning blob.
	TypeEncrypted Type = "reasoning.encrypted"
)

// Format identifies the vendor encoding an Item originated from.
type Format string

const (
	FormatUnknown           Format = "unknown"
	FormatOpenAIResponsesV1 Format = "openai-responses-v1"
	FormatXAIResponsesV1    Format = "xai-responses-v1"
	FormatAnthropicClaudeV1 Format = "anthropic-claude-v1"
	FormatGoogleGeminiV1    Format = "google-gemini-v1"
)

// Item is one canonical, typed fragment of vendor reasoning data. The Type
// field determines which payload fields are populated:
//
//   - TypeText: Text, optionally Signature
//   - TypeSummary: Summary
//   - TypeEncrypted: Data
//
// The JSON form of an Item is the itemized "reasoning_details" entry.
type Item struct {
	Type   Type   `json:"type"`
	ID     string `json:"id,omitempty"`
	Format Format `json:"format,omitempty"`
	Index  int    `json:"index"`

	Text      string `json:"text,omitempty"`
	Signature string `json:"signature,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Data      string `json:"data,omitempty"`
}

// Payload returns the type-specific payload of the item.
func (i Item) Payload() string {
	switch i.Type {
	case TypeText:
		return i.Text
	case TypeSummary:
		return i.Summary
	case TypeEncrypted:
		return i.Data
	default:
		return ""
	}
}

// Valid reports whether the item has a known type.
func (i Item) Valid() bool {
	switch i.Type {
	case TypeText, TypeSummary, TypeEncrypted:
		return true
	default:
		return false
	}
}

// Bundle is every Item of one assistant turn. It belongs to the turn that
// produced it; use Clone when carrying it into the next turn's request.
type Bundle []Item

// Clone returns a copy of the bundle that shares no backing array with b.
func (b Bundle) Clone() Bundle {
	if b == nil {
		return nil
	}
	out := make(Bundle, len(b))
	copy(out, b)
	return out
}
