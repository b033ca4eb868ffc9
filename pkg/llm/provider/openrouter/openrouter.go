// Package openrouter decodes the OpenRouter chat-completions streaming
// dialect: OpenAI-compatible chunks extended with the upstream provider
// name, plain and structured reasoning, citations, cost accounting and
// in-band errors.
package openrouter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/papercomputeco/reel/pkg/llm"
	"github.com/papercomputeco/reel/pkg/reasoning"
)

type provider struct{}

func New() *provider { return &provider{} }

func (p *provider) Name() string {
	return "openrouter"
}

// CanHandle matches OpenRouter generation ids, vendor-prefixed model slugs,
// and the fields only OpenRouter adds to a chunk.
func (p *provider) CanHandle(payload []byte) bool {
	if !gjson.ValidBytes(payload) {
		return false
	}

	fields := gjson.GetManyBytes(payload, "id", "model", "provider", "choices.#.delta.reasoning_details", "usage.cost")
	if strings.HasPrefix(fields[0].String(), "gen-") {
		return true
	}
	if strings.Contains(fields[1].String(), "/") {
		return true
	}
	if fields[2].String() != "" || fields[4].Exists() {
		return true
	}
	for _, details := range fields[3].Array() {
		if details.IsArray() && len(details.Array()) > 0 {
			return true
		}
	}
	return false
}

func (p *provider) ParseStreamChunk(payload []byte) (*llm.StreamChunk, error) {
	var chunk streamChunk
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return nil, fmt.Errorf("decoding openrouter stream chunk: %w", err)
	}

	result := &llm.StreamChunk{
		ID:       chunk.ID,
		Model:    chunk.Model,
		Provider: chunk.Provider,
		Created:  chunk.Created,
		Usage:    chunk.Usage,
	}

	if chunk.Error != nil {
		result.Error = &llm.ErrorPayload{
			Code:     errorCode(chunk.Error.Code),
			Message:  chunk.Error.Message,
			Metadata: chunk.Error.Metadata,
		}
		return result, nil
	}

	for _, c := range chunk.Choices {
		choice := llm.ChoiceDelta{
			Index:            c.Index,
			Content:          c.Delta.Content,
			Reasoning:        c.Delta.Reasoning,
			ReasoningDetails: reasoning.Normalize(c.Delta.ReasoningDetails),
			FinishReason:     c.FinishReason,
		}

		for _, tc := range c.Delta.ToolCalls {
			choice.ToolCalls = append(choice.ToolCalls, llm.ToolCallDelta{
				Index:     tc.Index,
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}

		for _, a := range c.Delta.Annotations {
			if a.URLCitation == nil {
				continue
			}
			choice.Annotations = append(choice.Annotations, llm.Annotation{
				Type:       a.Type,
				URL:        a.URLCitation.URL,
				Title:      a.URLCitation.Title,
				Content:    a.URLCitation.Content,
				StartIndex: a.URLCitation.StartIndex,
				EndIndex:   a.URLCitation.EndIndex,
			})
		}

		result.Choices = append(result.Choices, choice)
	}

	return result, nil
}

func errorCode(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	res := gjson.ParseBytes(raw)
	if res.Type == gjson.Null {
		return ""
	}
	return res.String()
}
