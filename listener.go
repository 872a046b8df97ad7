package mfsm

import (
	"errors"
	"log/slog"
)

// DefaultMaxEvents is the buffer capacity used when NewListener is given a
// non-positive capacity.
const DefaultMaxEvents = 16

// Order selects which buffered event Dequeue returns first.
type Order int

const (
	// LIFO returns the most recently appended event first.
	LIFO Order = iota
	// FIFO returns the oldest buffered event first.
	FIFO
)

func (o Order) String() string {
	switch o {
	case LIFO:
		return "lifo"
	case FIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// Listener is a fixed-capacity mailbox owned by one consumer.
//
// The buffer is allocated once by NewListener and never grows. A Listener is
// not safe for concurrent use; see package realtime for a guarded dispatcher.
type Listener struct {
	name   string
	order  Order
	logger *slog.Logger

	buf   []Event
	head  int // oldest event, only moves in FIFO order
	count int
}

// NewListener allocates a Listener holding at most capacity events.
func NewListener(capacity int, opts ...ListenerOption) *Listener {
	if capacity <= 0 {
		capacity = DefaultMaxEvents
	}
	l := &Listener{
		buf:    make([]Event, capacity),
		logger: discardLogger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Init empties the listener. Buffered events are released by resetting the
// count; slots are not cleared.
func (l *Listener) Init() {
	l.head = 0
	l.count = 0
}

// Dequeue removes the next event, copies it to dest and returns the number of
// events still buffered.
//
// In LIFO order (the default) the next event is the most recently appended
// one. Nothing is modified when an error is returned; Code(err) yields the
// negative result code.
func (l *Listener) Dequeue(dest *Event) (int, error) {
	if l == nil {
		return 0, ErrInvalidHandle
	}
	if dest == nil {
		return 0, ErrInvalidArgument
	}
	if l.count < 1 {
		return 0, ErrEmpty
	}

	switch l.order {
	case FIFO:
		*dest = l.buf[l.head]
		l.head = (l.head + 1) % len(l.buf)
	default:
		*dest = l.buf[(l.head+l.count-1)%len(l.buf)]
	}
	l.count--
	if l.count == 0 {
		l.head = 0
	}

	return l.count, nil
}

// Peek copies the event the next Dequeue would return to dest without
// removing it. Checks and errors match Dequeue.
func (l *Listener) Peek(dest *Event) error {
	if l == nil {
		return ErrInvalidHandle
	}
	if dest == nil {
		return ErrInvalidArgument
	}
	if l.count < 1 {
		return ErrEmpty
	}

	switch l.order {
	case FIFO:
		*dest = l.buf[l.head]
	default:
		*dest = l.buf[(l.head+l.count-1)%len(l.buf)]
	}
	return nil
}

// Enqueue appends a copy of e and returns the new number of buffered events.
func (l *Listener) Enqueue(e Event) (int, error) {
	if l == nil {
		return 0, ErrInvalidHandle
	}
	if l.count >= len(l.buf) {
		l.logger.Debug("listener full", "listener", l.name, "event", e.ID, "capacity", len(l.buf))
		return 0, ErrFull
	}

	l.buf[(l.head+l.count)%len(l.buf)] = e
	l.count++

	return l.count, nil
}

// Len returns the number of buffered events.
func (l *Listener) Len() int { return l.count }

// Cap returns the fixed buffer capacity.
func (l *Listener) Cap() int { return len(l.buf) }

// Full reports whether another Enqueue would fail with ErrFull.
func (l *Listener) Full() bool { return l.count >= len(l.buf) }

func (l *Listener) Name() string { return l.name }

func (l *Listener) Order() Order { return l.order }

// Detach removes every registration of l from the given queues and returns
// how many slots were cleared. Call it before discarding or reusing a
// listener that was added to a queue.
func (l *Listener) Detach(queues ...*Queue) int {
	removed := 0
	for _, q := range queues {
		for {
			err := q.RemoveListener(l)
			if err != nil {
				if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrEmpty) {
					l.logger.Debug("detach failed", "listener", l.name, "error", err)
				}
				break
			}
			removed++
		}
	}
	return removed
}
