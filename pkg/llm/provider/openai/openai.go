// Package openai
package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/papercomputeco/reel/pkg/llm"
)

// provider implements the Provider interface for OpenAI's Chat Completions
// streaming API.
type provider struct{}

func New() *provider { return &provider{} }

func (o *provider) Name() string {
	return "openai"
}

func (o *provider) CanHandle(payload []byte) bool {
	if !gjson.ValidBytes(payload) {
		return false
	}

	fields := gjson.GetManyBytes(payload, "object", "id", "model")
	object, id, model := fields[0].String(), fields[1].String(), fields[2].String()

	if object == "chat.completion.chunk" || object == "chat.completion" {
		return true
	}
	if strings.HasPrefix(id, "chatcmpl-") {
		return true
	}

	for _, prefix := range []string{"gpt-", "o1", "o3", "o4", "chatgpt-"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

func (o *provider) ParseStreamChunk(payload []byte) (*llm.StreamChunk, error) {
	var chunk streamChunk
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return nil, fmt.Errorf("decoding openai stream chunk: %w", err)
	}

	result := &llm.StreamChunk{
		ID:      chunk.ID,
		Model:   chunk.Model,
		Created: chunk.Created,
		Usage:   chunk.Usage,
	}

	if chunk.Error != nil {
		result.Error = &llm.ErrorPayload{
			Code:    errorCode(chunk.Error.Code, chunk.Error.Type),
			Message: chunk.Error.Message,
		}
		return result, nil
	}

	for _, c := range chunk.Choices {
		choice := llm.ChoiceDelta{
			Index:        c.Index,
			Content:      c.Delta.Content,
			Reasoning:    c.Delta.ReasoningContent,
			FinishReason: c.FinishReason,
		}

		if choice.Content == nil && c.Delta.Refusal != nil {
			choice.Content = c.Delta.Refusal
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
				StartIndex: a.URLCitation.StartIndex,
				EndIndex:   a.URLCitation.EndIndex,
			})
		}

		result.Choices = append(result.Choices, choice)
	}

	return result, nil
}

func errorCode(code any, fallback string) string {
	switch c := code.(type) {
	case string:
		return c
	case float64:
		return fmt.Sprintf("%d", int64(c))
	default:
		return fallback
	}
}
