// Package provider
package provider

import (
	"github.com/papercomputeco/reel/pkg/llm"
	"github.com/papercomputeco/reel/pkg/llm/provider/openai"
	"github.com/papercomputeco/reel/pkg/llm/provider/openrouter"
)

// Detector manages provider detection by checking registered providers in order.
// It is itself a Provider: the first chunk it parses selects the dialect for
// the rest of the stream, so a Detector belongs to a single stream.
type Detector struct {
	providers []Provider
	selected  Provider
}

// NewDetector creates a new Detector with the default set of providers.
// Providers are checked in order: OpenRouter, then OpenAI. OpenRouter is the
// fallback since its dialect is a superset of chat completions.
func NewDetector() *Detector {
	return &Detector{
		providers: []Provider{
			openrouter.New(),
			openai.New(),
		},
	}
}

// Detect returns the appropriate provider for the given payload.
// It iterates through registered providers and returns the first one
// that reports it can handle the payload. If no provider matches,
// OpenRouter is returned as the fallback.
func (d *Detector) Detect(payload []byte) Provider {
	for _, p := range d.providers {
		if p.CanHandle(payload) {
			return p
		}
	}
	return d.providers[0]
}

// Name returns the selected provider's name, or "auto" before selection.
func (d *Detector) Name() string {
	if d.selected != nil {
		return d.selected.Name()
	}
	return Auto
}

// CanHandle reports whether any registered provider handles the payload.
func (d *Detector) CanHandle(payload []byte) bool {
	for _, p := range d.providers {
		if p.CanHandle(payload) {
			return true
		}
	}
	return false
}

// ParseStreamChunk selects a provider on the first recognizable payload and
// delegates every later chunk to it.
func (d *Detector) ParseStreamChunk(payload []byte) (*llm.StreamChunk, error) {
	if d.selected != nil {
		return d.selected.ParseStreamChunk(payload)
	}

	p := d.Detect(payload)
	if d.CanHandle(payload) {
		d.selected = p
	}
	return p.ParseStreamChunk(payload)
}
