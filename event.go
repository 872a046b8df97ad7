package mfsm

// EventID identifies a single occurrence the state machine reacts to.
type EventID int

// Event is the value broadcast from a Queue to its Listeners.
//
// Events are copied on every operation. Consumers receive their own copy
// and may modify it without affecting other listeners.
type Event struct {
	ID EventID
}

// NewEvent returns an Event carrying id.
func NewEvent(id EventID) Event {
	return Event{ID: id}
}

// Init sets the default values for an Event.
func (e *Event) Init(id EventID) {
	e.ID = id
}
