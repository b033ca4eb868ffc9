package llm

import "strings"

// FinishReason is the unified, closed taxonomy every vendor finish signal
// maps into.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishToolCalls     FinishReason = "tool-calls"
	FinishContentFilter FinishReason = "content-filter"
	FinishError         FinishReason = "error"
	FinishOther         FinishReason = "other"
)

// MapFinishReason maps a raw vendor finish reason to the unified taxonomy.
// Unrecognized values map to FinishOther.
func MapFinishReason(raw string) FinishReason {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "stop", "end_turn", "stop_sequence", "eos":
		return FinishStop
	case "length", "max_tokens", "max_output_tokens":
		return FinishLength
	case "tool_calls", "function_call", "tool_use":
		return FinishToolCalls
	case "content_filter", "refusal", "safety":
		return FinishContentFilter
	case "error":
		return FinishError
	default:
		return FinishOther
	}
}
