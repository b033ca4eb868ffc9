package proxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/papercomputeco/reel/pkg/eventstream"
	"github.com/papercomputeco/reel/pkg/logger"
)

// memoryPublisher keeps published events in memory.
type memoryPublisher struct {
	mu     sync.Mutex
	events []*eventstream.StreamCompletedEvent
}

func (m *memoryPublisher) PublishStreamCompleted(_ context.Context, ev *eventstream.StreamCompletedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *memoryPublisher) Close() error { return nil }

func (m *memoryPublisher) Events() []*eventstream.StreamCompletedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*eventstream.StreamCompletedEvent(nil), m.events...)
}

func newTestProxy(cfg Config) (*Proxy, *memoryPublisher) {
	pub := &memoryPublisher{}
	if cfg.ProviderType == "" {
		cfg.ProviderType = "openrouter"
	}
	cfg.ListenAddr = ":0"
	p, err := New(cfg, pub, logger.Nop())
	Expect(err).NotTo(HaveOccurred())
	return p, pub
}

var _ = Describe("New", func() {
	It("requires a provider type", func() {
		_, err := New(Config{UpstreamURL: "http://localhost"}, &memoryPublisher{}, nil)
		Expect(err).To(MatchError("provider type is required"))
	})

	It("rejects unknown providers", func() {
		_, err := New(Config{ProviderType: "anthropic"}, &memoryPublisher{}, nil)
		Expect(err).To(HaveOccurred())
	})

	It("requires a publisher", func() {
		_, err := New(Config{ProviderType: "openai"}, nil, nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Non-streaming requests", func() {
	var (
		p        *Proxy
		upstream *httptest.Server
		gotAuth  string
		gotPath  string
	)

	BeforeEach(func() {
		upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.RequestURI()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Request-Id", "req-1")
			w.WriteHeader(http.StatusOK)
			io.WriteString(w, `{"id":"gen-1","choices":[{"message":{"content":"hi"}}]}`)
		}))
		p, _ = newTestProxy(Config{UpstreamURL: upstream.URL, APIKey: "sk-or-test"})
	})

	AfterEach(func() {
		p.Close()
		upstream.Close()
	})

	It("relays the upstream response verbatim", func() {
		req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(`{"model":"openai/gpt-4o"}`))
		resp, err := p.server.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(string(body)).To(Equal(`{"id":"gen-1","choices":[{"message":{"content":"hi"}}]}`))
		Expect(resp.Header.Get("X-Request-Id")).To(Equal("req-1"))
	})

	It("injects the configured key when the client sent none", func() {
		resp, err := p.server.Test(httptest.NewRequest(http.MethodGet, "/v1/models", nil), -1)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()

		Expect(gotAuth).To(Equal("Bearer sk-or-test"))
	})

	It("forwards the client's key and query string", func() {
		req := httptest.NewRequest(http.MethodGet, "/v1/models?limit=2", nil)
		req.Header.Set("Authorization", "Bearer client-key")
		resp, err := p.server.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()

		Expect(gotAuth).To(Equal("Bearer client-key"))
		Expect(gotPath).To(Equal("/v1/models?limit=2"))
	})
})

var _ = Describe("isStreamingRequest", func() {
	DescribeTable("detects stream requests",
		func(body string, want bool) {
			Expect(isStreamingRequest([]byte(body))).To(Equal(want))
		},
		Entry("stream true", `{"stream":true}`, true),
		Entry("stream false", `{"stream":false}`, false),
		Entry("stream absent", `{"model":"x"}`, false),
		Entry("invalid JSON", `{"stream":tru`, false),
		Entry("empty body", ``, false),
	)
})

var _ = Describe("withUsageReporting", func() {
	It("requests usage when the client did not say", func() {
		out := withUsageReporting([]byte(`{"model":"x","stream":true}`))
		Expect(gjson.GetBytes(out, "stream_options.include_usage").Bool()).To(BeTrue())
		Expect(gjson.GetBytes(out, "model").String()).To(Equal("x"))
	})

	It("keeps an explicit client choice", func() {
		in := `{"stream":true,"stream_options":{"include_usage":false}}`
		Expect(string(withUsageReporting([]byte(in)))).To(Equal(in))
	})
})
