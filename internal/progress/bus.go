// Package progress fans run status out to streaming listeners. Each run gets
// its own broadcaster; a process-wide registry maps run IDs to broadcasters
// so events from concurrent runs never interleave on one stream.
package progress

import (
	"sync"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Event is one human-readable status update. Ephemeral: delivered to current
// subscribers or dropped, never replayed.
type Event struct {
	Message string   `json:"message"`
	Type    Severity `json:"type"`
}

// subscriber buffer; a listener further behind than this drops events rather
// than blocking the publisher.
const subscriberBuffer = 64

// Bus broadcasts one run's events to its current subscribers.
type Bus struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a listener and returns its channel plus an
// unsubscribe func. The channel is closed on unsubscribe or bus close.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber without blocking: a full buffer
// means that listener loses this event.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close ends the run's stream; all subscriber channels are closed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

// Registry maps run IDs to their broadcasters. The empty run ID is a
// firehose: it receives every event from every run.
type Registry struct {
	mu       sync.Mutex
	buses    map[string]*Bus
	firehose *Bus
}

func NewRegistry() *Registry {
	return &Registry{
		buses:    make(map[string]*Bus),
		firehose: NewBus(),
	}
}

// Open creates (or returns) the bus for runID. Callers must Release it when
// the run and its stream are finished.
func (r *Registry) Open(runID string) *Bus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.buses[runID]; ok {
		return b
	}
	b := NewBus()
	r.buses[runID] = b
	return b
}

// Release closes and forgets the bus for runID.
func (r *Registry) Release(runID string) {
	r.mu.Lock()
	b, ok := r.buses[runID]
	if ok {
		delete(r.buses, runID)
	}
	r.mu.Unlock()
	if ok {
		b.Close()
	}
}

// Subscribe attaches a listener to runID's bus, or to the cross-run firehose
// when runID is empty. The bus is created on demand so a client can
// subscribe before the run starts.
func (r *Registry) Subscribe(runID string) (<-chan Event, func()) {
	if runID == "" {
		return r.firehose.Subscribe()
	}
	return r.Open(runID).Subscribe()
}

// Publish sends ev to runID's bus and mirrors it to the firehose.
func (r *Registry) Publish(runID string, ev Event) {
	r.mu.Lock()
	b, ok := r.buses[runID]
	r.mu.Unlock()
	if ok {
		b.Publish(ev)
	}
	r.firehose.Publish(ev)
}

// Emitter narrows the registry to one run for the pipeline.
type Emitter struct {
	reg   *Registry
	runID string
}

func (r *Registry) Emitter(runID string) *Emitter {
	return &Emitter{reg: r, runID: runID}
}

func (e *Emitter) Emit(message string, sev Severity) {
	e.reg.Publish(e.runID, Event{Message: message, Type: sev})
}
