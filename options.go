package mfsm

import (
	"io"
	"log/slog"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ListenerOption configures a Listener via the functional options pattern.
type ListenerOption func(*Listener)

// QueueOption configures a Queue via the functional options pattern.
type QueueOption func(*Queue)

// WithListenerName labels the listener in logs, metrics and visualizations.
func WithListenerName(name string) ListenerOption {
	return func(l *Listener) {
		l.name = name
	}
}

// WithOrder selects the dequeue order. The default is LIFO.
func WithOrder(o Order) ListenerOption {
	return func(l *Listener) {
		l.order = o
	}
}

// WithListenerLogger sets the logger used for debug output.
func WithListenerLogger(logger *slog.Logger) ListenerOption {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithQueueName labels the queue in logs, metrics and visualizations.
func WithQueueName(name string) QueueOption {
	return func(q *Queue) {
		q.name = name
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) QueueOption {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithObserver reports registry changes and broadcasts to o.
func WithObserver(o Observer) QueueOption {
	return func(q *Queue) {
		if o != nil {
			q.observer = o
		}
	}
}
