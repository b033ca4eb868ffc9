package config

const (
	defaultProvider    = "openrouter"
	defaultUpstream    = "https://openrouter.ai/api"
	defaultProxyListen = ":8080"

	defaultEventStreamProvider = "nop"
	defaultEventStreamBroker   = "localhost:9092"
	defaultEventStreamTopic    = "reel.stream.completed"

	defaultLogLevel = "info"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Proxy: ProxyConfig{
			Provider: defaultProvider,
			Upstream: defaultUpstream,
			Listen:   defaultProxyListen,
		},
		EventStream: EventStreamConfig{
			Provider: defaultEventStreamProvider,
			Brokers:  []string{defaultEventStreamBroker},
			Topic:    defaultEventStreamTopic,
		},
		Log: LogConfig{
			Level: defaultLogLevel,
		},
	}
}
