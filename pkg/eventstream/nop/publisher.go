// Package nop provides the publisher used when no event stream is configured.
package nop

import (
	"context"
	"sync/atomic"

	"github.com/papercomputeco/tutor/pkg/eventstream"
)

// Publisher drops every progress event and counts how many it dropped.
type Publisher struct {
	dropped atomic.Int64
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishProgress rejects nil events and discards the rest.
func (p *Publisher) PublishProgress(_ context.Context, event *eventstream.ProgressRecordedEvent) error {
	if event == nil {
		return eventstream.ErrNilProgressEvent
	}
	p.dropped.Add(1)
	return nil
}

// Dropped reports how many events were discarded.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

func (p *Publisher) Close() error {
	return nil
}

var _ eventstream.Publisher = (*Publisher)(nil)
