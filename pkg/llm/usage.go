package llm

import "github.com/papercomputeco/reel/pkg/reasoning"

// RawUsage is the vendor accounting record as it appears on the wire.
// Pointer fields distinguish "absent" from zero.
type RawUsage struct {
	PromptTokens            *int                     `json:"prompt_tokens,omitempty"`
	CompletionTokens        *int                     `json:"completion_tokens,omitempty"`
	TotalTokens             *int                     `json:"total_tokens,omitempty"`
	PromptTokensDetails     *PromptTokensDetails     `json:"prompt_tokens_details,omitempty"`
	CompletionTokensDetails *CompletionTokensDetails `json:"completion_tokens_details,omitempty"`
	Cost                    *float64                 `json:"cost,omitempty"`
	CostDetails             *CostDetails             `json:"cost_details,omitempty"`
}

// PromptTokensDetails breaks down prompt tokens.
type PromptTokensDetails struct {
	CachedTokens *int `json:"cached_tokens,omitempty"`
}

// CompletionTokensDetails breaks down completion tokens.
type CompletionTokensDetails struct {
	ReasoningTokens *int `json:"reasoning_tokens,omitempty"`
}

// CostDetails breaks down the billed cost.
type CostDetails struct {
	UpstreamInferenceCost *float64 `json:"upstream_inference_cost,omitempty"`
}

// Usage is the normalized token usage carried by the finish event.
// A nil field means "unknown".
type Usage struct {
	InputTokens       *int `json:"input_tokens,omitempty"`
	OutputTokens      *int `json:"output_tokens,omitempty"`
	TotalTokens       *int `json:"total_tokens,omitempty"`
	CachedInputTokens *int `json:"cached_input_tokens,omitempty"`
	ReasoningTokens   *int `json:"reasoning_tokens,omitempty"`
}

// ProviderMetadata is the normalized accounting record attached to the finish
// event.
type ProviderMetadata struct {
	ResponseID string          `json:"response_id,omitempty"`
	Provider   string          `json:"provider,omitempty"`
	Usage      AccountingUsage `json:"usage"`

	// ReasoningDetails are the complete reasoning items of the turn, ready to
	// be replayed on the next request.
	ReasoningDetails []reasoning.Item `json:"reasoning_details,omitempty"`
}

// AccountingUsage mirrors RawUsage with prompt and completion token counts
// always present so downstream aggregation arithmetic stays total.
type AccountingUsage struct {
	PromptTokens            int                      `json:"prompt_tokens"`
	CompletionTokens        int                      `json:"completion_tokens"`
	TotalTokens             *int                     `json:"total_tokens,omitempty"`
	PromptTokensDetails     *PromptTokensDetails     `json:"prompt_tokens_details,omitempty"`
	CompletionTokensDetails *CompletionTokensDetails `json:"completion_tokens_details,omitempty"`
	Cost                    *float64                 `json:"cost,omitempty"`
	CostDetails             *CostDetails             `json:"cost_details,omitempty"`
}
