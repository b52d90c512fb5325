// Package worker appends progress records to a storage.Driver and announces
// them on an eventstream.Publisher in the background, so a learner's answer
// is acknowledged before it reaches the database.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/papercomputeco/tutor/pkg/eventstream"
	"github.com/papercomputeco/tutor/pkg/eventstream/nop"
	"github.com/papercomputeco/tutor/pkg/logger"
	"github.com/papercomputeco/tutor/pkg/progress"
	"github.com/papercomputeco/tutor/pkg/storage"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
	defaultJobTimeout        = 10 * time.Second
)

// Job is one record to store, plus where it came from for the published event.
type Job struct {
	Record *progress.Record
	Source eventstream.EventSource
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the storage backend for persisting records.
	Driver storage.Driver

	// Publisher announces stored records. Defaults to a no-op publisher.
	Publisher eventstream.Publisher

	// NumWorkers is the number of background workers (defaults to 3).
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// JobTimeout bounds storing and publishing one record (defaults to 10s).
	JobTimeout time.Duration

	Logger *slog.Logger
}

// Stats counts what the pool has done since it started.
type Stats struct {
	Queued    uint64 `json:"queued"`
	Stored    uint64 `json:"stored"`
	Failed    uint64 `json:"failed"`
	Dropped   uint64 `json:"dropped"`
	Published uint64 `json:"published"`
}

// Pool stores progress records on a fixed set of goroutines.
type Pool struct {
	config *Config
	logger *slog.Logger

	// mu guards sends on queue against Close.
	mu     sync.RWMutex
	closed bool
	queue  chan Job
	wg     sync.WaitGroup

	queued, stored, failed, dropped, published atomic.Uint64
}

// NewPool applies defaults to c and starts the workers.
func NewPool(c *Config) (*Pool, error) {
	if c.Driver == nil {
		return nil, errors.New("storage driver is required")
	}
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}
	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}
	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaultJobTimeout
	}
	if c.Publisher == nil {
		c.Publisher = nop.NewPublisher()
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}

	p := &Pool{
		config: c,
		logger: c.Logger.With("component", "worker"),
		queue:  make(chan Job, c.QueueSize),
	}

	p.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go p.run(i)
	}
	return p, nil
}

// Enqueue hands a job to the workers without blocking. It returns false, and
// the job is dropped, when the record is nil, the queue is full or the pool
// is closed.
func (p *Pool) Enqueue(job Job) bool {
	if job.Record == nil {
		p.logger.Error("job not queued, nil record")
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	reason := "queue full"
	if !p.closed {
		select {
		case p.queue <- job:
			p.queued.Add(1)
			p.logger.Debug("job queued", "record_id", job.Record.ID, "kind", job.Record.Kind)
			return true
		default:
		}
	} else {
		reason = "pool closed"
	}

	p.dropped.Add(1)
	p.logger.Error("job dropped", "reason", reason, "record_id", job.Record.ID, "kind", job.Record.Kind)
	return false
}

// Close stops accepting jobs and waits for queued ones to finish. Call it
// after the HTTP server has shut down. Close is idempotent.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Queued:    p.queued.Load(),
		Stored:    p.stored.Load(),
		Failed:    p.failed.Load(),
		Dropped:   p.dropped.Load(),
		Published: p.published.Load(),
	}
}

func (p *Pool) run(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		p.process(job)
	}

	p.logger.Debug("worker stopped", "worker_id", id)
}

// process stores the record, then publishes it. A failed publish is logged;
// the record stays stored.
func (p *Pool) process(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.JobTimeout)
	defer cancel()

	log := p.logger.With("record_id", job.Record.ID, "kind", job.Record.Kind)

	if err := p.config.Driver.Append(ctx, job.Record); err != nil {
		p.failed.Add(1)
		log.Error("progress storage failed", "error", err)
		return
	}
	p.stored.Add(1)
	log.Info("progress stored")

	event, err := eventstream.NewProgressRecordedEvent(job.Record, job.Source)
	if err != nil {
		log.Warn("failed to build progress event", "error", err)
		return
	}
	if err := p.config.Publisher.PublishProgress(ctx, event); err != nil {
		log.Warn("failed to publish progress event", "event_id", event.EventID, "error", err)
		return
	}
	p.published.Add(1)
}
