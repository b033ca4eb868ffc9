package provider

import (
	"errors"

	"github.com/papercomputeco/reel/pkg/llm"
)

// ErrUnknownProvider is returned by New for an unrecognized provider name.
var ErrUnknownProvider = errors.New("unknown provider")

// Provider decodes the streaming chunks of one vendor dialect into the
// provider-neutral representation.
type Provider interface {
	// Name returns the canonical provider name (e.g., "openrouter", "openai")
	Name() string

	// CanHandle returns true if the payload appears to be for this provider.
	// Implementations check for provider-specific markers in the JSON such as
	// field names, model name patterns, or response id prefixes.
	CanHandle(payload []byte) bool

	// ParseStreamChunk converts a single streaming chunk into the internal format.
	// Returns (nil, nil) if the chunk should be skipped (e.g., keep-alive, comments).
	// A decode error means the frame is malformed; callers skip it.
	ParseStreamChunk(payload []byte) (*llm.StreamChunk, error)
}
