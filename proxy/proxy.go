// Package proxy provides a chat-completions proxy that rewrites upstream
// SSE chunk streams into ordered, typed stream events.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/papercomputeco/reel/pkg/eventstream"
	"github.com/papercomputeco/reel/pkg/llm"
	"github.com/papercomputeco/reel/pkg/llm/provider"
	"github.com/papercomputeco/reel/pkg/logger"
	"github.com/papercomputeco/reel/pkg/sse"
	"github.com/papercomputeco/reel/pkg/stream"
	"github.com/papercomputeco/reel/pkg/utils"
	"github.com/papercomputeco/reel/proxy/header"
	"github.com/papercomputeco/reel/proxy/worker"
)

const defaultTimeout = 5 * time.Minute

// Proxy forwards chat-completion requests upstream. Streaming requests are
// answered with translated events; everything else is relayed verbatim.
// Completed streams are published asynchronously via its worker pool.
type Proxy struct {
	config        Config
	workerPool    *worker.Pool
	logger        *slog.Logger
	httpClient    *http.Client
	server        *fiber.App
	headerHandler *header.Handler
}

// New creates a new Proxy publishing completed streams to publisher.
// Returns an error if the configured provider type is not recognized.
func New(config Config, publisher eventstream.Publisher, l *slog.Logger) (*Proxy, error) {
	if config.ProviderType == "" {
		return nil, errors.New("provider type is required")
	}
	if _, err := provider.New(config.ProviderType); err != nil {
		return nil, fmt.Errorf("could not create new provider: %w", err)
	}
	if l == nil {
		l = logger.Nop()
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.RecordDir != "" {
		if err := os.MkdirAll(config.RecordDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating record dir: %w", err)
		}
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StreamRequestBody:     true,
	})
	app.Use(compress.New())

	wp, err := worker.NewPool(&worker.Config{
		Publisher: publisher,
		Logger:    l,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create worker pool: %w", err)
	}

	p := &Proxy{
		config:        config,
		workerPool:    wp,
		logger:        l,
		server:        app,
		headerHandler: header.NewHandler(),
		httpClient: &http.Client{
			// Reasoning models can think for minutes before the first token.
			Timeout: config.Timeout,
		},
	}

	app.All("/*", p.handleProxy)

	return p, nil
}

// Run starts the proxy server on the given listening address
func (p *Proxy) Run() error {
	p.logger.Info("starting proxy server",
		"listen", p.config.ListenAddr,
		"upstream", p.config.UpstreamURL,
		"provider", p.config.ProviderType,
	)

	return p.server.Listen(p.config.ListenAddr)
}

// RunWithListener starts the proxy server using the provided listener.
func (p *Proxy) RunWithListener(listener net.Listener) error {
	p.logger.Info("starting proxy server",
		"listen", listener.Addr().String(),
		"upstream", p.config.UpstreamURL,
		"provider", p.config.ProviderType,
	)

	return p.server.Listener(listener)
}

// Close gracefully shuts down the proxy and waits for the worker pool to drain
func (p *Proxy) Close() error {
	err := p.server.Shutdown()
	p.workerPool.Close()
	return err
}

func (p *Proxy) handleProxy(c *fiber.Ctx) error {
	startTime := time.Now()
	path := c.Path()
	method := c.Method()
	body := c.Body()

	if method == fiber.MethodPost && isStreamingRequest(body) {
		return p.handleStreamingProxy(c, path, body, startTime)
	}

	return p.handleNonStreamingProxy(c, path, method, body)
}

// isStreamingRequest reports whether body is a JSON request asking for a
// streamed response.
func isStreamingRequest(body []byte) bool {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return false
	}
	return gjson.GetBytes(body, "stream").Bool()
}

// withUsageReporting asks the upstream to end the stream with a usage chunk.
// OpenAI-dialect upstreams only send one when stream_options.include_usage
// is set; an explicit client choice is left alone.
func withUsageReporting(body []byte) []byte {
	if gjson.GetBytes(body, "stream_options.include_usage").Exists() {
		return body
	}
	out, err := sjson.SetBytes(body, "stream_options.include_usage", true)
	if err != nil {
		return body
	}
	return out
}

func (p *Proxy) newUpstreamRequest(ctx context.Context, c *fiber.Ctx, method, path string, body []byte) (*http.Request, error) {
	var reqBody io.Reader
	if len(body) > 0 {
		// fasthttp reuses the request buffer once the handler returns.
		reqBody = bytes.NewReader(bytes.Clone(body))
	}

	url := p.config.UpstreamURL + path
	if q := c.Context().QueryArgs().String(); q != "" {
		url += "?" + q
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}

	p.headerHandler.SetUpstreamRequestHeaders(c, req)
	p.headerHandler.SetAuthorization(req, p.config.APIKey)
	return req, nil
}

// handleNonStreamingProxy relays a request and its response unchanged.
func (p *Proxy) handleNonStreamingProxy(c *fiber.Ctx, path, method string, body []byte) error {
	httpReq, err := p.newUpstreamRequest(c.Context(), c, method, path, body)
	if err != nil {
		p.logger.Error("failed to create upstream request", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "internal error"})
	}

	p.logger.Debug("forwarding request to upstream",
		"method", method,
		"url", httpReq.URL.String(),
	)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		p.logger.Error("upstream request failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(llm.ErrorResponse{Error: "upstream request failed"})
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		p.logger.Error("failed to read upstream response", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(llm.ErrorResponse{Error: "failed to read upstream response"})
	}

	p.headerHandler.SetClientResponseHeaders(c, httpResp)
	return c.Status(httpResp.StatusCode).Send(respBody)
}

// handleStreamingProxy forwards a streaming request and answers with the
// translated event stream.
func (p *Proxy) handleStreamingProxy(c *fiber.Ctx, path string, body []byte, startTime time.Time) error {
	prov, err := provider.New(p.config.ProviderType)
	if err != nil {
		p.logger.Error("failed to create provider", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "internal error"})
	}

	// The stream outlives the handler: fasthttp recycles c once it returns,
	// so the upstream exchange gets its own context.
	ctx, cancel := context.WithCancel(context.Background())

	httpReq, err := p.newUpstreamRequest(ctx, c, fiber.MethodPost, path, withUsageReporting(body))
	if err != nil {
		cancel()
		p.logger.Error("failed to create upstream request", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "internal error"})
	}

	p.logger.Debug("forwarding streaming request to upstream",
		"url", httpReq.URL.String(),
	)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		cancel()
		p.logger.Error("upstream request failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(llm.ErrorResponse{Error: "upstream request failed"})
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		defer cancel()
		respBody, _ := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		p.logger.Error("upstream returned error",
			"status", httpResp.StatusCode,
			"body", utils.Truncate(string(respBody), 512),
		)
		p.headerHandler.SetClientResponseHeaders(c, httpResp)
		return c.Status(httpResp.StatusCode).Send(respBody)
	}

	p.headerHandler.SetEventStreamHeaders(c)

	exchange := &exchange{
		path:      path,
		status:    httpResp.StatusCode,
		startTime: startTime,
	}

	// io.Pipe gives per-event backpressure: every pw.Write blocks until
	// fasthttp has consumed the bytes and flushed them as a chunk.
	pr, pw := io.Pipe()
	go p.translate(ctx, cancel, httpResp, prov, pw, exchange)

	c.Context().Response.SetBodyStream(pr, -1)
	return nil
}

// exchange carries request metadata into the published event.
type exchange struct {
	path      string
	status    int
	startTime time.Time
}

// translate drives one stream.Reader over the upstream body and writes each
// event as an SSE frame to pw. A client disconnect cancels the upstream
// exchange; the reader then still yields its terminal events, which are
// published but no longer written.
func (p *Proxy) translate(ctx context.Context, cancel context.CancelFunc, httpResp *http.Response, prov provider.Provider, pw *io.PipeWriter, ex *exchange) {
	defer cancel()
	defer pw.Close()

	opts := []stream.Option{
		stream.WithLogger(p.logger),
		stream.WithRawChunks(p.config.RawChunks),
	}
	if rec := p.openRecording(); rec != nil {
		defer rec.Close()
		opts = append(opts, stream.WithRecorder(rec))
	}

	reader := stream.NewReader(ctx, httpResp.Body, prov, opts...)
	defer reader.Close()

	w := sse.NewWriter(pw)
	clientGone := false

	for ev := range reader.All() {
		if !clientGone {
			if err := writeEvent(w, ev); err != nil {
				p.logger.Debug("client went away, aborting upstream", "error", err)
				clientGone = true
				cancel()
			}
		}

		if ev.Type == llm.EventFinish && ev.Finish != nil {
			p.publish(reader.State(), prov, ev.Finish, ex)
		}
	}

	if !clientGone {
		if err := w.WriteDone(); err != nil {
			p.logger.Debug("failed to write done sentinel", "error", err)
		}
	}
}

// openRecording creates the file the raw upstream body of one stream is
// copied to. It returns nil when recording is off or the file cannot be
// created; recording never fails a stream.
func (p *Proxy) openRecording() *os.File {
	if p.config.RecordDir == "" {
		return nil
	}

	name := fmt.Sprintf("%s-%s.sse", time.Now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8])
	f, err := os.Create(filepath.Join(p.config.RecordDir, name))
	if err != nil {
		p.logger.Warn("could not create stream recording", "error", err)
		return nil
	}

	p.logger.Debug("recording stream", "path", f.Name())
	return f
}

// writeEvent encodes ev as one SSE frame named after its type.
func writeEvent(w *sse.Writer, ev llm.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", ev.Type, err)
	}
	return w.WriteEvent(string(ev.Type), data)
}

func (p *Proxy) publish(state *stream.State, prov provider.Provider, finish *llm.Finish, ex *exchange) {
	completed := time.Now()
	event := eventstream.NewStreamCompletedEvent(
		eventstream.EventSource{
			Provider:         prov.Name(),
			UpstreamProvider: state.Provider(),
			Model:            state.Model(),
		},
		eventstream.RequestMeta{
			Path:        ex.path,
			StartedAt:   ex.startTime.UTC(),
			CompletedAt: completed.UTC(),
			HTTPStatus:  ex.status,
		},
		*finish,
	)

	p.logger.Debug("streaming complete",
		"response_id", state.ResponseID(),
		"finish_reason", string(finish.Reason),
		"duration", completed.Sub(ex.startTime),
	)

	p.workerPool.Enqueue(worker.Job{Event: event})
}
