package worker

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tutor/pkg/eventstream"
	"github.com/papercomputeco/tutor/pkg/logger"
	"github.com/papercomputeco/tutor/pkg/progress"
	"github.com/papercomputeco/tutor/pkg/storage/inmemory"
)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventstream.ProgressRecordedEvent
	err    error
}

func (r *recordingPublisher) PublishProgress(_ context.Context, e *eventstream.ProgressRecordedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

// gatedDriver blocks every Append until gate is closed.
type gatedDriver struct {
	*inmemory.Driver
	entered chan struct{}
	gate    chan struct{}
}

func (g *gatedDriver) Append(ctx context.Context, r *progress.Record) error {
	g.entered <- struct{}{}
	<-g.gate
	return g.Driver.Append(ctx, r)
}

func testRecord() *progress.Record {
	rec, err := progress.NewTestRecord(progress.TestResult{Correct: true, Competency: progress.Analytical})
	Expect(err).NotTo(HaveOccurred())
	return rec
}

var _ = Describe("Worker Pool", func() {
	var (
		wp        *Pool
		driver    *inmemory.Driver
		publisher *recordingPublisher
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = inmemory.NewDriver()
		publisher = &recordingPublisher{}

		var err error
		wp, err = NewPool(&Config{
			Driver:    driver,
			Publisher: publisher,
			Logger:    logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewPool", func() {
		It("requires a storage driver", func() {
			_, err := NewPool(&Config{})
			Expect(err).To(MatchError(ContainSubstring("storage driver is required")))
		})

		It("applies defaults", func() {
			p, err := NewPool(&Config{Driver: driver})
			Expect(err).NotTo(HaveOccurred())
			defer p.Close()
			Expect(p.config.NumWorkers).To(Equal(defaultNumWorkers))
			Expect(p.config.QueueSize).To(Equal(defaultJobQueueSize))
			Expect(p.config.JobTimeout).To(Equal(defaultJobTimeout))
			Expect(p.config.Publisher).NotTo(BeNil())
		})
	})

	Describe("Enqueue", func() {
		It("returns true when the queue has capacity", func() {
			Expect(wp.Enqueue(Job{Record: testRecord()})).To(BeTrue())
			wp.Close()
		})

		It("refuses jobs without a record", func() {
			Expect(wp.Enqueue(Job{})).To(BeFalse())
			wp.Close()
		})

		It("drops jobs when the queue is full", func() {
			gated := &gatedDriver{Driver: inmemory.NewDriver(), entered: make(chan struct{}, 4), gate: make(chan struct{})}
			blocked, err := NewPool(&Config{Driver: gated, NumWorkers: 1, QueueSize: 1, Logger: logger.Nop()})
			Expect(err).NotTo(HaveOccurred())

			Expect(blocked.Enqueue(Job{Record: testRecord()})).To(BeTrue())
			Eventually(gated.entered).Should(Receive())

			Expect(blocked.Enqueue(Job{Record: testRecord()})).To(BeTrue())
			Expect(blocked.Enqueue(Job{Record: testRecord()})).To(BeFalse())

			close(gated.gate)
			blocked.Close()
			wp.Close()

			stored, err := gated.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(HaveLen(2))
			Expect(blocked.Stats()).To(Equal(Stats{Queued: 2, Stored: 2, Dropped: 1, Published: 2}))
		})

		It("drops jobs once the pool is closed", func() {
			wp.Close()
			Expect(wp.Enqueue(Job{Record: testRecord()})).To(BeFalse())
			Expect(wp.Stats().Dropped).To(Equal(uint64(1)))
		})
	})

	Describe("processing", func() {
		It("stores every record and publishes it", func() {
			records := []*progress.Record{testRecord(), testRecord(), testRecord()}
			for _, r := range records {
				Expect(wp.Enqueue(Job{Record: r, Source: eventstream.EventSource{Route: "/progress/tests"}})).To(BeTrue())
			}
			wp.Close()

			stored, err := driver.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(HaveLen(3))

			Expect(publisher.events).To(HaveLen(3))
			Expect(wp.Stats()).To(Equal(Stats{Queued: 3, Stored: 3, Published: 3}))
			for _, e := range publisher.events {
				Expect(e.EventType).To(Equal(eventstream.EventTypeProgressRecorded))
				Expect(e.Source.Route).To(Equal("/progress/tests"))
			}
		})

		It("does not publish records that failed to store", func() {
			r := testRecord()
			Expect(driver.Append(ctx, r)).To(Succeed())

			Expect(wp.Enqueue(Job{Record: r})).To(BeTrue())
			wp.Close()

			Expect(publisher.events).To(BeEmpty())
			Expect(wp.Stats().Failed).To(Equal(uint64(1)))
		})

		It("keeps the record when publishing fails", func() {
			publisher.err = errors.New("broker down")
			Expect(wp.Enqueue(Job{Record: testRecord()})).To(BeTrue())
			wp.Close()

			stored, err := driver.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(HaveLen(1))
			Expect(wp.Stats()).To(Equal(Stats{Queued: 1, Stored: 1}))
		})
	})

	It("can be closed twice", func() {
		wp.Close()
		wp.Close()
	})
})
