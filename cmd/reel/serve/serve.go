// Package servecmder provides the serve command running the translating proxy.
package servecmder

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/reel/pkg/config"
	"github.com/papercomputeco/reel/pkg/credentials"
	"github.com/papercomputeco/reel/pkg/eventstream"
	"github.com/papercomputeco/reel/pkg/eventstream/kafka"
	"github.com/papercomputeco/reel/pkg/eventstream/nop"
	"github.com/papercomputeco/reel/pkg/logger"
	"github.com/papercomputeco/reel/proxy"
)

type serveCommander struct {
	listen      string
	upstream    string
	provider    string
	rawChunks   bool
	recordDir   string
	eventstream string
	brokers     string
	topic       string
	logLevel    string
	logJSON     bool
	logFile     string
	debug       bool
	configDir   string

	viper  *viper.Viper
	logger *slog.Logger
}

var serveFlags = []string{
	config.FlagListen,
	config.FlagUpstream,
	config.FlagProvider,
	config.FlagRawChunks,
	config.FlagRecordDir,
	config.FlagEventStream,
	config.FlagBrokers,
	config.FlagTopic,
	config.FlagLogLevel,
	config.FlagLogJSON,
	config.FlagLogFile,
}

const serveLongDesc string = `Run the reel proxy.

The proxy forwards every request to the configured upstream. Requests with
"stream": true are answered with a server-sent event stream of typed events
(stream-start, text-*, reasoning-*, tool-*, source, response-metadata,
finish, error) instead of the upstream's raw chunks. All other requests are
relayed unchanged.

When a stream finishes, a reel.stream.completed event with its finish
reason, usage and reasoning details is published to the configured event
stream (nop or kafka). With --record-dir, the raw upstream body of every
stream is also saved as a .sse file that "reel replay" reads back.

Supported providers: openrouter, openai, auto

Examples:
  reel serve
  reel serve --provider openai --upstream https://api.deepseek.com
  reel serve --eventstream kafka --brokers localhost:9092
  reel serve --record-dir .reel/recordings
  reel serve --log-level debug --log-file .reel/serve.log`

const serveShortDesc string = "Run the reel proxy"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.debug, _ = cmd.Flags().GetBool("debug")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)
			cmder.viper = v
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagUpstream, &cmder.upstream)
	config.AddStringFlag(cmd, config.Flags, config.FlagProvider, &cmder.provider)
	config.AddBoolFlag(cmd, config.Flags, config.FlagRawChunks, &cmder.rawChunks)
	config.AddStringFlag(cmd, config.Flags, config.FlagRecordDir, &cmder.recordDir)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventStream, &cmder.eventstream)
	config.AddStringFlag(cmd, config.Flags, config.FlagBrokers, &cmder.brokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagTopic, &cmder.topic)
	config.AddStringFlag(cmd, config.Flags, config.FlagLogLevel, &cmder.logLevel)
	config.AddBoolFlag(cmd, config.Flags, config.FlagLogJSON, &cmder.logJSON)
	config.AddStringFlag(cmd, config.Flags, config.FlagLogFile, &cmder.logFile)

	return cmd
}

func (c *serveCommander) run() error {
	v := c.viper
	l, closeLog, err := newLogger(v, c.debug)
	if err != nil {
		return err
	}
	defer closeLog()
	c.logger = l

	providerType := v.GetString("proxy.provider")
	upstream := strings.TrimRight(v.GetString("proxy.upstream"), "/")

	apiKey, err := c.resolveAPIKey(providerType, upstream)
	if err != nil {
		return err
	}

	publisher, err := newPublisher(v.GetString("eventstream.provider"), config.Brokers(v), v.GetString("eventstream.topic"), c.logger)
	if err != nil {
		return fmt.Errorf("creating event publisher: %w", err)
	}
	defer publisher.Close()

	p, err := proxy.New(proxy.Config{
		ListenAddr:   v.GetString("proxy.listen"),
		UpstreamURL:  upstream,
		ProviderType: providerType,
		APIKey:       apiKey,
		RawChunks:    v.GetBool("proxy.raw_chunks"),
		RecordDir:    v.GetString("proxy.record_dir"),
	}, publisher, c.logger)
	if err != nil {
		return fmt.Errorf("creating proxy: %w", err)
	}
	defer p.Close()

	errChan := make(chan error, 1)
	go func() {
		if err := p.Run(); err != nil {
			errChan <- fmt.Errorf("proxy error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return nil
	}
}

// resolveAPIKey looks up the stored or environment key for the upstream.
// A missing key is not an error: clients may bring their own.
func (c *serveCommander) resolveAPIKey(providerType, upstream string) (string, error) {
	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return "", fmt.Errorf("loading credentials: %w", err)
	}

	name := credentialProvider(providerType, upstream)
	key, err := mgr.Resolve(name)
	if err != nil {
		return "", fmt.Errorf("resolving %s credentials: %w", name, err)
	}

	if key == "" {
		c.logger.Warn("no upstream API key configured, relying on client Authorization headers",
			"provider", name,
			"env", credentials.EnvVarForProvider(name),
		)
	}
	return key, nil
}

// credentialProvider picks the credentials entry for an upstream. The host
// decides for well-known upstreams; otherwise the dialect name is used, with
// "auto" falling back to openrouter.
func credentialProvider(providerType, upstream string) string {
	if u, err := url.Parse(upstream); err == nil {
		host := strings.ToLower(u.Hostname())
		for _, name := range credentials.SupportedProviders() {
			if strings.Contains(host, name) {
				return name
			}
		}
	}

	if credentials.IsSupportedProvider(providerType) {
		return providerType
	}
	return "openrouter"
}

func newPublisher(kind string, brokers []string, topic string, l *slog.Logger) (eventstream.Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "nop":
		return nop.NewPublisher(), nil
	case "kafka":
		l.Info("publishing completed streams to kafka",
			"brokers", strings.Join(brokers, ","),
			"topic", topic,
		)
		p, err := kafka.NewPublisher(kafka.Config{
			Brokers: brokers,
			Topic:   topic,
			Logger:  l,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown eventstream provider %q (supported: nop, kafka)", kind)
	}
}

// newLogger builds the serve logger from the log.* keys. Output goes to
// stderr, pretty unless log.json is set. With log.file, JSON records with
// source locations are appended to that file too; the returned close func
// releases it.
func newLogger(v *viper.Viper, debug bool) (*slog.Logger, func() error, error) {
	build := func(extra ...logger.Option) *slog.Logger {
		opts := []logger.Option{logger.WithLevel(v.GetString("log.level"))}
		if debug {
			opts = append(opts, logger.WithDebug(true))
		}
		return logger.New(append(opts, extra...)...)
	}

	jsonLogs := v.GetBool("log.json")
	path := v.GetString("log.file")
	if path == "" {
		l := build(logger.WithJSON(jsonLogs), logger.WithPretty(!jsonLogs), logger.WithWriter(os.Stderr))
		return l, func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	if jsonLogs {
		return build(logger.WithJSON(true), logger.WithSource(true), logger.WithWriters(os.Stderr, f)), f.Close, nil
	}

	term := build(logger.WithPretty(true), logger.WithWriter(os.Stderr))
	file := build(logger.WithJSON(true), logger.WithSource(true), logger.WithWriter(f))
	return logger.Multi(term, file), f.Close, nil
}
