package proxy

import "time"

// Config is the proxy server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// UpstreamURL is the upstream chat-completions base URL
	// (e.g., "https://openrouter.ai/api").
	UpstreamURL string

	// ProviderType selects the chunk dialect ("openrouter", "openai" or
	// "auto"). A fresh provider is created per stream.
	ProviderType string

	// APIKey is sent as a bearer token when the client request carries no
	// Authorization header of its own.
	APIKey string

	// RawChunks adds a "raw" event carrying every upstream data frame.
	RawChunks bool

	// RecordDir, when set, receives one .sse file per stream holding the raw
	// upstream body, readable by "reel replay".
	RecordDir string

	// Timeout bounds a whole upstream exchange (defaults to 5 minutes).
	Timeout time.Duration
}
