package mfsm

// Observer receives notifications about queue activity. Implementations
// live in internal/metrics.
type Observer interface {
	// EventSent is called once per SendEvent with the number of listeners
	// that accepted and rejected the event.
	EventSent(queue string, e Event, delivered, failed int)

	// ListenerCount is called after Init and after every successful
	// AddListener or RemoveListener with the new number of registered
	// listeners.
	ListenerCount(queue string, n int)
}

type nopObserver struct{}

func (nopObserver) EventSent(string, Event, int, int) {}
func (nopObserver) ListenerCount(string, int)         {}
