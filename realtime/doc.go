// Package realtime provides a tick-based dispatcher around an mfsm.Queue.
//
// The mfsm core types have no internal synchronization. Dispatcher supplies
// it: producers on any goroutine call SendEvent, and a single tick loop
// drains every subscribed listener and hands the events to their handlers.
//
// # Example Usage
//
//	d := realtime.NewDispatcher(realtime.Config{
//		TickRate:     16667 * time.Microsecond, // 60 FPS
//		MaxListeners: 4,
//	})
//	ui := mfsm.NewListener(8, mfsm.WithOrder(mfsm.FIFO))
//	_ = d.Subscribe(ui, func(ctx context.Context, e mfsm.Event) { ... })
//	_ = d.Start(ctx)
//	_ = d.SendEvent(mfsm.NewEvent(1))
//
// # Tick Phases
//
//  1. Collect: under the lock, every subscribed listener is drained into a
//     batch in subscription order.
//  2. Dispatch: with the lock released, handlers run in batch order. A
//     handler may call SendEvent; those events are delivered next tick.
//
// Events sent between two ticks are held in the listeners' fixed buffers, so
// a listener that cannot be drained fast enough rejects events and
// SendEvent reports mfsm.ErrPartialFailure.
//
// # Use Cases
//
//   - Game loops and control loops with a fixed time step
//   - Feeding interrupt-style producers into a single-threaded FSM
//   - Deterministic tests, by calling Tick directly without Start
package realtime
