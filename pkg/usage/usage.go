// Package usage builds the normalized accounting record attached to a
// stream's finish event.
package usage

import "github.com/papercomputeco/reel/pkg/llm"

// Build returns the provider metadata for a finished stream. Prompt and
// completion token counts default to 0 when absent; every other field is
// omitted unless the vendor reported it. A reported cost of 0 is kept.
func Build(responseID, providerID string, raw *llm.RawUsage) llm.ProviderMetadata {
	md := llm.ProviderMetadata{
		ResponseID: responseID,
		Provider:   providerID,
	}
	if raw == nil {
		return md
	}

	md.Usage = llm.AccountingUsage{
		PromptTokens:     deref(raw.PromptTokens),
		CompletionTokens: deref(raw.CompletionTokens),
		TotalTokens:      cloneInt(raw.TotalTokens),
		Cost:             cloneFloat(raw.Cost),
	}

	if raw.PromptTokensDetails != nil && raw.PromptTokensDetails.CachedTokens != nil {
		md.Usage.PromptTokensDetails = &llm.PromptTokensDetails{
			CachedTokens: cloneInt(raw.PromptTokensDetails.CachedTokens),
		}
	}
	if raw.CompletionTokensDetails != nil && raw.CompletionTokensDetails.ReasoningTokens != nil {
		md.Usage.CompletionTokensDetails = &llm.CompletionTokensDetails{
			ReasoningTokens: cloneInt(raw.CompletionTokensDetails.ReasoningTokens),
		}
	}
	if raw.CostDetails != nil && raw.CostDetails.UpstreamInferenceCost != nil {
		md.Usage.CostDetails = &llm.CostDetails{
			UpstreamInferenceCost: cloneFloat(raw.CostDetails.UpstreamInferenceCost),
		}
	}

	return md
}

// Normalize maps the vendor usage record onto the finish event's usage. All
// fields are nil (unknown) when raw is nil.
func Normalize(raw *llm.RawUsage) llm.Usage {
	if raw == nil {
		return llm.Usage{}
	}

	u := llm.Usage{
		InputTokens:  cloneInt(raw.PromptTokens),
		OutputTokens: cloneInt(raw.CompletionTokens),
		TotalTokens:  cloneInt(raw.TotalTokens),
	}
	if u.TotalTokens == nil && u.InputTokens != nil && u.OutputTokens != nil {
		total := *u.InputTokens + *u.OutputTokens
		u.TotalTokens = &total
	}
	if raw.PromptTokensDetails != nil {
		u.CachedInputTokens = cloneInt(raw.PromptTokensDetails.CachedTokens)
	}
	if raw.CompletionTokensDetails != nil {
		u.ReasoningTokens = cloneInt(raw.CompletionTokensDetails.ReasoningTokens)
	}
	return u
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
