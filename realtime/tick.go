package realtime

import (
	"context"

	"github.com/comalice/mfsm"
)

// Tick processes one complete tick and returns the number of events
// dispatched. It may be called directly when the dispatcher is not started.
// Tick must not be called from a Handler.
func (d *Dispatcher) Tick(ctx context.Context) int {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()

	// Phase 1: Collect events atomically
	d.collect()

	// Phase 2: Run handlers without holding the queue lock
	n := d.dispatch(ctx)

	d.tickNum++
	return n
}

// collect drains every subscribed listener into the batch.
func (d *Dispatcher) collect() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.batch = d.batch[:0]
	for _, s := range d.subs {
		for s.listener.Len() > 0 {
			var e mfsm.Event
			if _, err := s.listener.Dequeue(&e); err != nil {
				break
			}
			d.batch = append(d.batch, delivery{event: e, handler: s.handler})
		}
	}
}

// dispatch invokes handlers in batch order.
func (d *Dispatcher) dispatch(ctx context.Context) int {
	for _, dl := range d.batch {
		d.invoke(ctx, dl)
	}
	return len(d.batch)
}

func (d *Dispatcher) invoke(ctx context.Context, dl delivery) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("handler panicked", "event", dl.event.ID, "tick", d.tickNum, "panic", r)
		}
	}()
	dl.handler(ctx, dl.event)
}
