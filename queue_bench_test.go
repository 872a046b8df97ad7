package mfsm

import (
	"fmt"
	"testing"
)

// BenchmarkEnqueueDequeue measures one round trip through a listener.
// Target: zero allocations
func BenchmarkEnqueueDequeue(b *testing.B) {
	for _, order := range []Order{LIFO, FIFO} {
		b.Run(order.String(), func(b *testing.B) {
			l := NewListener(DefaultMaxEvents, WithOrder(order))
			e := NewEvent(1)
			var dest Event

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := l.Enqueue(e); err != nil {
					b.Fatal(err)
				}
				if _, err := l.Dequeue(&dest); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSendEvent measures a broadcast to a full registry.
func BenchmarkSendEvent(b *testing.B) {
	for _, n := range []int{1, 8, 64} {
		b.Run(fmt.Sprintf("listeners=%d", n), func(b *testing.B) {
			q := NewQueue(n)
			listeners := make([]*Listener, n)
			for i := range listeners {
				listeners[i] = NewListener(1)
				if err := q.AddListener(listeners[i]); err != nil {
					b.Fatal(err)
				}
			}
			e := NewEvent(1)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := q.SendEvent(e); err != nil {
					b.Fatal(err)
				}
				for _, l := range listeners {
					l.Init()
				}
			}
		})
	}
}
