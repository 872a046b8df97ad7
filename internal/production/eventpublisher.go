// Package production provides integrations around mfsm listeners: channel
// publishing for consumers on other goroutines and topology visualization.
package production

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/mfsm"
)

// ErrDropped is returned by Publish when the output channel has no room.
var ErrDropped = errors.New("publish channel full, event dropped")

// Metadata describes where a published event came from.
type Metadata struct {
	Listener  string    `json:"listener" yaml:"listener"`
	Remaining int       `json:"remaining" yaml:"remaining"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// PublishedEvent bundles an event with its delivery metadata for publishing.
type PublishedEvent struct {
	DeliveryID uuid.UUID  `json:"deliveryID" yaml:"deliveryID"`
	Event      mfsm.Event `json:"event" yaml:"event"`
	Metadata   Metadata   `json:"metadata" yaml:"metadata"`
}

// ChannelPublisher forwards events drained from a listener to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch chan<- PublishedEvent
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, event mfsm.Event, metadata Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.ch <- PublishedEvent{DeliveryID: uuid.New(), Event: event, Metadata: metadata}:
		return nil
	default:
		return ErrDropped
	}
}

// Drain dequeues events from l and publishes them until l is empty, the
// channel has no room, or ctx is done. It returns the number published.
//
// Each event is sent before it is dequeued, so an event that cannot be
// delivered stays buffered in l. Works with buffered and unbuffered
// channels; an unbuffered channel only accepts while a receiver is waiting.
func (p *ChannelPublisher) Drain(ctx context.Context, l *mfsm.Listener) (int, error) {
	if l == nil {
		return 0, mfsm.ErrInvalidHandle
	}
	published := 0
	for l.Len() > 0 {
		var e mfsm.Event
		if err := l.Peek(&e); err != nil {
			return published, err
		}
		meta := Metadata{Listener: l.Name(), Remaining: l.Len() - 1, Timestamp: time.Now()}
		if err := p.Publish(ctx, e, meta); err != nil {
			return published, err
		}
		if _, err := l.Dequeue(&e); err != nil {
			return published, err
		}
		published++
	}
	return published, nil
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
