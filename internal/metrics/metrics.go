// Package metrics provides mfsm.Observer implementations backed by
// Prometheus and OpenTelemetry.
package metrics

import "github.com/comalice/mfsm"

// Multi forwards every notification to each observer in order.
type Multi []mfsm.Observer

func (m Multi) EventSent(queue string, e mfsm.Event, delivered, failed int) {
	for _, o := range m {
		o.EventSent(queue, e, delivered, failed)
	}
}

func (m Multi) ListenerCount(queue string, n int) {
	for _, o := range m {
		o.ListenerCount(queue, n)
	}
}
