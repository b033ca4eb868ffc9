package servecmder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/papercomputeco/reel/pkg/eventstream"
	"github.com/papercomputeco/reel/pkg/eventstream/kafka"
	"github.com/papercomputeco/reel/pkg/eventstream/nop"
	"github.com/papercomputeco/reel/pkg/logger"
)

var _ = Describe("NewServeCmd", func() {
	It("registers the proxy flags", func() {
		cmd := NewServeCmd()
		for _, name := range []string{"listen", "upstream", "provider", "raw-chunks", "record-dir", "eventstream", "brokers", "topic", "log-level", "log-json", "log-file"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
	})

	It("defaults to the openrouter upstream", func() {
		cmd := NewServeCmd()
		Expect(cmd.Flags().Lookup("provider").DefValue).To(Equal("openrouter"))
		Expect(cmd.Flags().Lookup("upstream").DefValue).To(Equal("https://openrouter.ai/api"))
	})
})

var _ = Describe("newLogger", func() {
	It("appends JSON records with source locations to the log file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "serve.log")
		v := viper.New()
		v.Set("log.level", "info")
		v.Set("log.file", path)

		l, closeLog, err := newLogger(v, false)
		Expect(err).NotTo(HaveOccurred())
		l.Debug("hidden")
		l.Info("proxy listening", "addr", ":8080")
		Expect(closeLog()).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		Expect(lines).To(HaveLen(1))

		var rec map[string]any
		Expect(json.Unmarshal([]byte(lines[0]), &rec)).To(Succeed())
		Expect(rec["msg"]).To(Equal("proxy listening"))
		Expect(rec["addr"]).To(Equal(":8080"))
		Expect(rec).To(HaveKey("source"))
	})

	It("fails when the log file cannot be opened", func() {
		v := viper.New()
		v.Set("log.file", filepath.Join(GinkgoT().TempDir(), "missing", "serve.log"))

		_, _, err := newLogger(v, false)
		Expect(err).To(MatchError(ContainSubstring("opening log file")))
	})

	It("writes to stderr only without a log file", func() {
		l, closeLog, err := newLogger(viper.New(), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(l).NotTo(BeNil())
		Expect(closeLog()).To(Succeed())
	})
})

var _ = Describe("credentialProvider", func() {
	DescribeTable("selects the credentials entry",
		func(providerType, upstream, want string) {
			Expect(credentialProvider(providerType, upstream)).To(Equal(want))
		},
		Entry("openrouter host", "auto", "https://openrouter.ai/api", "openrouter"),
		Entry("deepseek host in openai dialect", "openai", "https://api.deepseek.com", "deepseek"),
		Entry("openai host", "openai", "https://api.openai.com", "openai"),
		Entry("unknown host uses the dialect", "openai", "http://localhost:9000", "openai"),
		Entry("unknown host with auto", "auto", "http://localhost:9000", "openrouter"),
	)
})

var _ = Describe("newPublisher", func() {
	It("builds a nop publisher by default", func() {
		p, err := newPublisher("", nil, "", logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(BeAssignableToTypeOf(&nop.Publisher{}))
	})

	It("builds a kafka publisher", func() {
		p, err := newPublisher("kafka", []string{"localhost:9092"}, "reel.stream.completed", logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(BeAssignableToTypeOf(&kafka.Publisher{}))
		Expect(p.Close()).To(Succeed())
	})

	It("requires brokers for kafka", func() {
		_, err := newPublisher("kafka", nil, "reel.stream.completed", logger.Nop())
		Expect(err).To(MatchError(eventstream.ErrNoBrokers))
	})

	It("rejects unknown providers", func() {
		_, err := newPublisher("nats", nil, "", logger.Nop())
		Expect(err).To(HaveOccurred())
	})
})
