package mfsm

import (
	"fmt"
	"log/slog"
)

// DefaultMaxEventListeners is the registry capacity used when NewQueue is
// given a non-positive capacity.
const DefaultMaxEventListeners = 8

// Queue broadcasts events to a fixed number of registered Listeners.
//
// The queue holds references to listeners it does not own. A nil slot is
// free. Queue is not safe for concurrent use.
type Queue struct {
	name     string
	logger   *slog.Logger
	observer Observer

	slots        []*Listener
	numListeners int
}

// NewQueue allocates a Queue with room for capacity listeners.
func NewQueue(capacity int, opts ...QueueOption) *Queue {
	if capacity <= 0 {
		capacity = DefaultMaxEventListeners
	}
	q := &Queue{
		slots:    make([]*Listener, capacity),
		logger:   discardLogger,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Init unregisters every listener.
func (q *Queue) Init() {
	q.numListeners = 0
	for i := range q.slots {
		q.slots[i] = nil
	}
	q.observer.ListenerCount(q.name, 0)
}

// AddListener registers l in the first free slot.
//
// Registering the same listener twice is allowed; it then receives every
// broadcast once per registration.
func (q *Queue) AddListener(l *Listener) error {
	if q == nil || l == nil {
		return ErrInvalidHandle
	}
	if q.numListeners >= len(q.slots) {
		return fmt.Errorf("queue %q: %w", q.name, ErrFull)
	}

	for i, slot := range q.slots {
		if slot == nil {
			q.slots[i] = l
			q.numListeners++
			q.logger.Debug("listener added", "queue", q.name, "listener", l.name, "slot", i)
			q.observer.ListenerCount(q.name, q.numListeners)
			return nil
		}
	}

	// numListeners disagrees with the slots.
	return fmt.Errorf("queue %q: no free slot: %w", q.name, ErrFull)
}

// RemoveListener clears the first slot holding l. Listeners are matched by
// pointer, not by contents.
func (q *Queue) RemoveListener(l *Listener) error {
	if q == nil || l == nil {
		return ErrInvalidHandle
	}
	if q.numListeners < 1 {
		return fmt.Errorf("queue %q: already %w", q.name, ErrEmpty)
	}

	for i, slot := range q.slots {
		if slot == l {
			q.slots[i] = nil
			q.numListeners--
			q.logger.Debug("listener removed", "queue", q.name, "listener", l.name, "slot", i)
			q.observer.ListenerCount(q.name, q.numListeners)
			return nil
		}
	}

	return fmt.Errorf("queue %q: %w", q.name, ErrNotFound)
}

// SendEvent appends a copy of e to every registered listener.
//
// Delivery is best effort: listeners that accept the event keep it even when
// others fail. If any enqueue fails the returned error wraps
// ErrPartialFailure and reports how many listeners missed the event, but not
// which ones. The registry itself is never modified by a broadcast.
func (q *Queue) SendEvent(e Event) error {
	if q == nil {
		return ErrInvalidHandle
	}

	delivered, failed := 0, 0
	for _, l := range q.slots {
		if l == nil {
			continue
		}
		if _, err := l.Enqueue(e); err != nil {
			q.logger.Debug("delivery failed", "queue", q.name, "listener", l.name, "event", e.ID, "error", err)
			failed++
			continue
		}
		delivered++
	}
	q.observer.EventSent(q.name, e, delivered, failed)

	if failed != 0 {
		return fmt.Errorf("queue %q: %d of %d listeners: %w", q.name, failed, delivered+failed, ErrPartialFailure)
	}
	return nil
}

// Len returns the number of registered listeners.
func (q *Queue) Len() int { return q.numListeners }

// Cap returns the number of registry slots.
func (q *Queue) Cap() int { return len(q.slots) }

func (q *Queue) Name() string { return q.name }

// Contains reports whether l occupies at least one slot.
func (q *Queue) Contains(l *Listener) bool {
	if l == nil {
		return false
	}
	for _, slot := range q.slots {
		if slot == l {
			return true
		}
	}
	return false
}

// Listeners returns the registered listeners in slot order.
func (q *Queue) Listeners() []*Listener {
	out := make([]*Listener, 0, q.numListeners)
	for _, slot := range q.slots {
		if slot != nil {
			out = append(out, slot)
		}
	}
	return out
}
