package worker

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reel/pkg/eventstream"
	"github.com/papercomputeco/reel/pkg/llm"
	"github.com/papercomputeco/reel/pkg/logger"
)

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventstream.StreamCompletedEvent
	err    error
	block  chan struct{}
}

func (r *recordingPublisher) PublishStreamCompleted(_ context.Context, ev *eventstream.StreamCompletedEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) published() []*eventstream.StreamCompletedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*eventstream.StreamCompletedEvent(nil), r.events...)
}

func newEvent(responseID string) *eventstream.StreamCompletedEvent {
	return eventstream.NewStreamCompletedEvent(
		eventstream.EventSource{Provider: "openrouter", Model: "openai/gpt-4o"},
		eventstream.RequestMeta{Path: "/v1/chat/completions", HTTPStatus: 200},
		llm.Finish{
			Reason:           llm.FinishStop,
			ProviderMetadata: llm.ProviderMetadata{ResponseID: responseID},
		},
	)
}

var _ = Describe("Worker Pool", func() {
	var pub *recordingPublisher

	BeforeEach(func() {
		pub = &recordingPublisher{}
	})

	It("requires a publisher", func() {
		_, err := NewPool(&Config{})
		Expect(err).To(HaveOccurred())
	})

	It("applies defaults", func() {
		wp, err := NewPool(&Config{Publisher: pub})
		Expect(err).NotTo(HaveOccurred())
		defer wp.Close()

		Expect(wp.config.NumWorkers).To(Equal(defaultNumWorkers))
		Expect(wp.config.QueueSize).To(Equal(defaultJobQueueSize))
		Expect(wp.config.PublishTimeout).To(Equal(defaultPublishTimeout))
	})

	Describe("Enqueue", func() {
		It("publishes every queued event before Close returns", func() {
			wp, err := NewPool(&Config{Publisher: pub, Logger: logger.Nop()})
			Expect(err).NotTo(HaveOccurred())

			Expect(wp.Enqueue(Job{Event: newEvent("gen-1")})).To(BeTrue())
			Expect(wp.Enqueue(Job{Event: newEvent("gen-2")})).To(BeTrue())
			wp.Close()

			ids := []string{}
			for _, ev := range pub.published() {
				ids = append(ids, ev.Finish.ProviderMetadata.ResponseID)
			}
			Expect(ids).To(ConsistOf("gen-1", "gen-2"))
		})

		It("rejects jobs without an event", func() {
			wp, err := NewPool(&Config{Publisher: pub})
			Expect(err).NotTo(HaveOccurred())
			defer wp.Close()

			Expect(wp.Enqueue(Job{})).To(BeFalse())
		})

		It("drops jobs when the queue is full", func() {
			pub.block = make(chan struct{})
			wp, err := NewPool(&Config{Publisher: pub, NumWorkers: 1, QueueSize: 1})
			Expect(err).NotTo(HaveOccurred())

			// The first job occupies the worker, the second fills the queue.
			Expect(wp.Enqueue(Job{Event: newEvent("gen-1")})).To(BeTrue())
			Eventually(func() int { return len(wp.queue) }).Should(Equal(0))
			Expect(wp.Enqueue(Job{Event: newEvent("gen-2")})).To(BeTrue())
			Expect(wp.Enqueue(Job{Event: newEvent("gen-3")})).To(BeFalse())

			close(pub.block)
			wp.Close()
			Expect(pub.published()).To(HaveLen(2))
		})
	})

	It("keeps working after a publish failure", func() {
		pub.err = errors.New("broker down")
		wp, err := NewPool(&Config{Publisher: pub, NumWorkers: 1})
		Expect(err).NotTo(HaveOccurred())

		Expect(wp.Enqueue(Job{Event: newEvent("gen-1")})).To(BeTrue())
		wp.Close()
		Expect(pub.published()).To(BeEmpty())
	})
})
