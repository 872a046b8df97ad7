package mfsm

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// TopologyBuilder provides a fluent API for wiring named listeners to named
// queues. Errors are collected and reported by Build.
type TopologyBuilder struct {
	listeners  []listenerDecl
	queues     []queueDecl
	subscribes []subscription
	logger     *slog.Logger
	observer   Observer
	errs       []error
}

type listenerDecl struct {
	name     string
	capacity int
	opts     []ListenerOption
}

type queueDecl struct {
	name     string
	capacity int
	opts     []QueueOption
}

type subscription struct {
	queue     string
	listeners []string
}

// Topology is a built set of queues and listeners addressable by name.
type Topology struct {
	queues     map[string]*Queue
	listeners  map[string]*Listener
	queueOrder []string
}

// NewTopologyBuilder creates an empty builder.
func NewTopologyBuilder() *TopologyBuilder {
	return &TopologyBuilder{}
}

// Logger sets the logger handed to every queue and listener.
func (b *TopologyBuilder) Logger(logger *slog.Logger) *TopologyBuilder {
	b.logger = logger
	return b
}

// Observer sets the observer handed to every queue.
func (b *TopologyBuilder) Observer(o Observer) *TopologyBuilder {
	b.observer = o
	return b
}

// Listener declares a listener.
func (b *TopologyBuilder) Listener(name string, capacity int, opts ...ListenerOption) *TopologyBuilder {
	if name == "" {
		b.errs = append(b.errs, errors.New("listener name is empty"))
		return b
	}
	b.listeners = append(b.listeners, listenerDecl{name: name, capacity: capacity, opts: opts})
	return b
}

// Queue declares a queue.
func (b *TopologyBuilder) Queue(name string, capacity int, opts ...QueueOption) *TopologyBuilder {
	if name == "" {
		b.errs = append(b.errs, errors.New("queue name is empty"))
		return b
	}
	b.queues = append(b.queues, queueDecl{name: name, capacity: capacity, opts: opts})
	return b
}

// Subscribe registers listeners with queue, in order, when Build runs.
func (b *TopologyBuilder) Subscribe(queue string, listeners ...string) *TopologyBuilder {
	b.subscribes = append(b.subscribes, subscription{queue: queue, listeners: listeners})
	return b
}

// Build allocates every declared listener and queue and performs the
// subscriptions.
func (b *TopologyBuilder) Build() (*Topology, error) {
	errs := append([]error(nil), b.errs...)
	t := &Topology{
		queues:    make(map[string]*Queue, len(b.queues)),
		listeners: make(map[string]*Listener, len(b.listeners)),
	}

	for _, decl := range b.listeners {
		if _, exists := t.listeners[decl.name]; exists {
			errs = append(errs, fmt.Errorf("duplicate listener %q", decl.name))
			continue
		}
		opts := []ListenerOption{WithListenerName(decl.name), WithListenerLogger(b.logger)}
		t.listeners[decl.name] = NewListener(decl.capacity, append(opts, decl.opts...)...)
	}

	for _, decl := range b.queues {
		if _, exists := t.queues[decl.name]; exists {
			errs = append(errs, fmt.Errorf("duplicate queue %q", decl.name))
			continue
		}
		opts := []QueueOption{WithQueueName(decl.name), WithLogger(b.logger), WithObserver(b.observer)}
		t.queues[decl.name] = NewQueue(decl.capacity, append(opts, decl.opts...)...)
		t.queueOrder = append(t.queueOrder, decl.name)
	}

	for _, sub := range b.subscribes {
		q, ok := t.queues[sub.queue]
		if !ok {
			errs = append(errs, fmt.Errorf("subscribe to unknown queue %q", sub.queue))
			continue
		}
		for _, name := range sub.listeners {
			l, ok := t.listeners[name]
			if !ok {
				errs = append(errs, fmt.Errorf("queue %q: unknown listener %q", sub.queue, name))
				continue
			}
			if err := q.AddListener(l); err != nil {
				errs = append(errs, fmt.Errorf("subscribe %q: %w", name, err))
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return t, nil
}

// Queue returns the named queue or nil.
func (t *Topology) Queue(name string) *Queue { return t.queues[name] }

// Listener returns the named listener or nil.
func (t *Topology) Listener(name string) *Listener { return t.listeners[name] }

// Queues returns the queues in declaration order.
func (t *Topology) Queues() []*Queue {
	out := make([]*Queue, 0, len(t.queueOrder))
	for _, name := range t.queueOrder {
		out = append(out, t.queues[name])
	}
	return out
}

// ListenerNames returns every listener name, sorted.
func (t *Topology) ListenerNames() []string {
	names := make([]string, 0, len(t.listeners))
	for name := range t.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Send broadcasts e on the named queue.
func (t *Topology) Send(queue string, e Event) error {
	q, ok := t.queues[queue]
	if !ok {
		return fmt.Errorf("queue %q: %w", queue, ErrInvalidHandle)
	}
	return q.SendEvent(e)
}

// Detach removes the named listener from every queue in the topology.
func (t *Topology) Detach(listener string) int {
	l, ok := t.listeners[listener]
	if !ok {
		return 0
	}
	return l.Detach(t.Queues()...)
}
