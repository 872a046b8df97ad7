// Package testutil provides helpers for tests that exercise mfsm listeners.
package testutil

import (
	"testing"

	"github.com/comalice/mfsm"
)

// Fill enqueues one event per id and fails the test on the first error.
func Fill(tb testing.TB, l *mfsm.Listener, ids ...mfsm.EventID) {
	tb.Helper()
	for _, id := range ids {
		if _, err := l.Enqueue(mfsm.NewEvent(id)); err != nil {
			tb.Fatalf("enqueue %d: %v", id, err)
		}
	}
}

// Drain dequeues until the listener is empty and returns the ids in
// dequeue order.
func Drain(tb testing.TB, l *mfsm.Listener) []mfsm.EventID {
	tb.Helper()
	var ids []mfsm.EventID
	for l.Len() > 0 {
		var e mfsm.Event
		if _, err := l.Dequeue(&e); err != nil {
			tb.Fatalf("dequeue: %v", err)
		}
		ids = append(ids, e.ID)
	}
	return ids
}
