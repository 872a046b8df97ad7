// Package mfsm provides the event dispatch primitive of the mfsm state
// machine framework: a fixed-capacity broadcast queue.
//
// A Queue holds references to up to N Listeners. SendEvent appends a copy of
// an Event to every registered Listener; each consumer drains its own
// Listener with Dequeue. Buffers are allocated once at construction and
// never grow, so memory use is known up front.
//
// # Ordering
//
// Listeners dequeue in LIFO order by default: the most recently appended
// event comes out first. Pass WithOrder(FIFO) for oldest-first delivery.
//
// # Ownership
//
// A Queue never owns its listeners. Call Listener.Detach with every queue a
// listener was added to before reusing it for another consumer.
//
// # Concurrency
//
// Nothing in this package is safe for concurrent use. Producers and
// consumers on different goroutines must serialize access themselves or go
// through realtime.Dispatcher.
//
// Example:
//
//	q := mfsm.NewQueue(4)
//	l := mfsm.NewListener(8, mfsm.WithOrder(mfsm.FIFO))
//	_ = q.AddListener(l)
//	_ = q.SendEvent(mfsm.NewEvent(7))
//
//	var e mfsm.Event
//	if _, err := l.Dequeue(&e); err == nil {
//		fmt.Println(e.ID) // 7
//	}
package mfsm
