package realtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/comalice/mfsm"
)

// Handler consumes one event drained from a subscribed listener.
type Handler func(ctx context.Context, e mfsm.Event)

// Config configures the dispatcher.
type Config struct {
	TickRate     time.Duration // Fixed tick rate (default 16.67ms, 60 FPS)
	MaxListeners int           // Registry capacity (default mfsm.DefaultMaxEventListeners)
	Name         string        // Queue name used in logs and metrics
	Logger       *slog.Logger
	Observer     mfsm.Observer
}

type subscription struct {
	listener *mfsm.Listener
	handler  Handler
}

type delivery struct {
	event   mfsm.Event
	handler Handler
}

// Dispatcher guards one mfsm.Queue and its listeners with a mutex and
// dispatches buffered events on fixed tick boundaries.
type Dispatcher struct {
	mu    sync.Mutex
	queue *mfsm.Queue
	subs  []subscription

	tickMu  sync.Mutex
	batch   []delivery
	tickNum uint64

	tickRate time.Duration
	logger   *slog.Logger

	// Control
	running    bool
	tickCtx    context.Context
	tickCancel context.CancelFunc
	stopped    chan struct{}
}

var (
	ErrAlreadyStarted    = errors.New("dispatcher already started")
	ErrAlreadySubscribed = errors.New("listener already subscribed")
)

// NewDispatcher creates a stopped dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 16667 * time.Microsecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		queue: mfsm.NewQueue(cfg.MaxListeners,
			mfsm.WithQueueName(cfg.Name),
			mfsm.WithLogger(cfg.Logger),
			mfsm.WithObserver(cfg.Observer),
		),
		tickRate: cfg.TickRate,
		logger:   cfg.Logger,
	}
}

// Subscribe registers l with the queue and routes its events to h. A
// listener can be subscribed once; a second call returns
// ErrAlreadySubscribed.
func (d *Dispatcher) Subscribe(l *mfsm.Listener, h Handler) error {
	if h == nil {
		return mfsm.ErrInvalidArgument
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, s := range d.subs {
		if l != nil && s.listener == l {
			return ErrAlreadySubscribed
		}
	}

	if err := d.queue.AddListener(l); err != nil {
		return err
	}
	d.subs = append(d.subs, subscription{listener: l, handler: h})
	return nil
}

// Unsubscribe removes the subscription of l. Events still buffered in l are
// left for the caller.
func (d *Dispatcher) Unsubscribe(l *mfsm.Listener) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.queue.RemoveListener(l); err != nil {
		return err
	}
	for i, s := range d.subs {
		if s.listener == l {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			break
		}
	}
	return nil
}

// SendEvent broadcasts e to every subscribed listener (thread-safe).
func (d *Dispatcher) SendEvent(e mfsm.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.SendEvent(e)
}

// Len returns the number of subscriptions.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.Len()
}

// Start begins tick-based execution.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return ErrAlreadyStarted
	}
	d.running = true
	d.tickCtx, d.tickCancel = context.WithCancel(ctx)
	d.stopped = make(chan struct{})

	go d.tickLoop(d.tickCtx, d.stopped, time.NewTicker(d.tickRate))
	return nil
}

// Stop halts the tick loop and waits for it to exit. Buffered events stay
// in their listeners. Stop must not be called from a Handler.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = false
	d.tickCancel()
	stopped := d.stopped
	d.mu.Unlock()

	<-stopped
	return nil
}

// TickNumber returns the number of completed ticks.
func (d *Dispatcher) TickNumber() uint64 {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()
	return d.tickNum
}

// tickLoop is the main tick execution loop
func (d *Dispatcher) tickLoop(ctx context.Context, stopped chan struct{}, ticker *time.Ticker) {
	defer close(stopped)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}
