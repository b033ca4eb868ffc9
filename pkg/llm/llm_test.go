package llm_test

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reel/pkg/llm"
	"github.com/papercomputeco/reel/pkg/reasoning"
)

var _ = Describe("MapFinishReason", func() {
	It("maps vendor reasons into the unified taxonomy", func() {
		Expect(llm.MapFinishReason("stop")).To(Equal(llm.FinishStop))
		Expect(llm.MapFinishReason("end_turn")).To(Equal(llm.FinishStop))
		Expect(llm.MapFinishReason("length")).To(Equal(llm.FinishLength))
		Expect(llm.MapFinishReason("max_tokens")).To(Equal(llm.FinishLength))
		Expect(llm.MapFinishReason("tool_calls")).To(Equal(llm.FinishToolCalls))
		Expect(llm.MapFinishReason("function_call")).To(Equal(llm.FinishToolCalls))
		Expect(llm.MapFinishReason("content_filter")).To(Equal(llm.FinishContentFilter))
		Expect(llm.MapFinishReason("error")).To(Equal(llm.FinishError))
	})

	It("maps unknown reasons to other", func() {
		Expect(llm.MapFinishReason("")).To(Equal(llm.FinishOther))
		Expect(llm.MapFinishReason("something_new")).To(Equal(llm.FinishOther))
	})
})

var _ = Describe("Message", func() {
	It("concatenates text blocks", func() {
		msg := llm.Message{Role: "assistant", Content: []llm.ContentBlock{
			{Type: llm.BlockText, Text: "a"},
			{Type: llm.BlockToolUse, ToolUseID: "call_1"},
			{Type: llm.BlockText, Text: "b"},
		}}
		Expect(msg.GetText()).To(Equal("ab"))
		Expect(msg.ToolUses()).To(HaveLen(1))
	})

	It("returns a copy of reasoning items", func() {
		msg := llm.Message{Content: []llm.ContentBlock{
			{Type: llm.BlockReasoning, Reasoning: reasoning.Bundle{{Type: reasoning.TypeText, Text: "x"}}},
		}}
		items := msg.ReasoningItems()
		items[0].Text = "mutated"
		Expect(msg.Content[0].Reasoning[0].Text).To(Equal("x"))
	})
})

var _ = Describe("Assembler", func() {
	It("rebuilds text, reasoning and tool calls", func() {
		var a llm.Assembler
		a.Add(llm.Event{Type: llm.EventReasoningDelta, Delta: "think"})
		a.Add(llm.Event{Type: llm.EventTextDelta, Delta: "Hi"})
		a.Add(llm.Event{Type: llm.EventToolCall, ID: "call_1", ToolName: "lookup", Input: `{"q":"x"}`})
		a.Add(llm.Event{Type: llm.EventFinish, Finish: &llm.Finish{Reason: llm.FinishToolCalls}})

		msg := a.Message()
		Expect(msg.Role).To(Equal("assistant"))
		Expect(msg.Content).To(HaveLen(3))
		Expect(msg.Content[0].Reasoning[0].Text).To(Equal("think"))
		Expect(msg.GetText()).To(Equal("Hi"))
		Expect(msg.Content[2].ToolInput).To(HaveKeyWithValue("q", "x"))
		Expect(a.Finish().Reason).To(Equal(llm.FinishToolCalls))
	})

	It("prefers structured reasoning details from the finish event", func() {
		var a llm.Assembler
		a.Add(llm.Event{Type: llm.EventReasoningDelta, Delta: "streamed"})
		a.Add(llm.Event{Type: llm.EventFinish, Finish: &llm.Finish{
			ProviderMetadata: llm.ProviderMetadata{ReasoningDetails: []reasoning.Item{
				{Type: reasoning.TypeText, Text: "streamed", Signature: "sig"},
			}},
		}})

		items := a.Message().ReasoningItems()
		Expect(items).To(HaveLen(1))
		Expect(items[0].Signature).To(Equal("sig"))
	})
})

var _ = Describe("ErrorInfo", func() {
	It("unwraps the transport error and keeps it off the wire", func() {
		info := &llm.ErrorInfo{Message: "context canceled", Code: "canceled", Err: context.Canceled}
		Expect(errors.Is(info, context.Canceled)).To(BeTrue())
		Expect(info.Error()).To(Equal("context canceled"))

		data, err := json.Marshal(llm.Event{Type: llm.EventError, Error: info})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"type":"error","error":{"message":"context canceled","code":"canceled"}}`))
	})
})
