package provider

import (
	"fmt"

	"github.com/papercomputeco/reel/pkg/llm/provider/openai"
	"github.com/papercomputeco/reel/pkg/llm/provider/openrouter"
)

// Supported provider type constants
const (
	OpenRouter = "openrouter"
	OpenAI     = "openai"
	Auto       = "auto"
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{OpenRouter, OpenAI, Auto}
}

// New creates a new Provider instance for the given provider type. "auto"
// returns a fresh Detector, which must not be shared between streams.
func New(providerType string) (Provider, error) {
	switch providerType {
	case OpenRouter:
		return openrouter.New(), nil
	case OpenAI:
		return openai.New(), nil
	case Auto:
		return NewDetector(), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownProvider, providerType, SupportedProviders())
	}
}
