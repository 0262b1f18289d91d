package runtime

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"vision-pilot/contract"
	"vision-pilot/domain/event"
)

var _ contract.IEventBus = (*EventBus)(nil)

type subscription struct {
	name   string
	filter event.Filter
	ch     chan event.Event
}

// EventBus broadcasts events to in-process subscribers.
//
// Delivery is best-effort: a subscriber whose queue is full loses the event,
// the publisher never blocks. Subscriptions filtering on kinds are indexed by
// kind, the others receive every event and apply their filter.
type EventBus struct {
	mu       sync.RWMutex
	log      *slog.Logger
	byKind   map[event.Kind]map[string]*subscription
	wildcard map[string]*subscription
	names    map[string]*subscription
	closed   bool

	historyMu   sync.Mutex
	history     []event.Event
	historySize int
	next        int

	published atomic.Uint64
	dropped   atomic.Uint64
}

func NewEventBus(log *slog.Logger, historySize int) *EventBus {
	return &EventBus{
		log:         log,
		byKind:      make(map[event.Kind]map[string]*subscription),
		wildcard:    make(map[string]*subscription),
		names:       make(map[string]*subscription),
		historySize: historySize,
	}
}

// Subscribe registers name with its own queue of size buffer. Subscribing an
// existing name replaces the previous subscription and closes its channel.
func (b *EventBus) Subscribe(name string, filter event.Filter, buffer int) <-chan event.Event {
	if buffer < 1 {
		buffer = 1
	}
	sub := &subscription{name: name, filter: filter, ch: make(chan event.Event, buffer)}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.ch)
		return sub.ch
	}
	b.removeLocked(name)
	b.names[name] = sub
	if len(filter.Kinds) == 0 {
		b.wildcard[name] = sub
		return sub.ch
	}
	for _, kind := range filter.Kinds {
		if _, ok := b.byKind[kind]; !ok {
			b.byKind[kind] = make(map[string]*subscription)
		}
		b.byKind[kind][name] = sub
	}
	return sub.ch
}

func (b *EventBus) Unsubscribe(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(name)
}

func (b *EventBus) removeLocked(name string) {
	sub, ok := b.names[name]
	if !ok {
		return
	}
	delete(b.names, name)
	delete(b.wildcard, name)
	for _, kind := range sub.filter.Kinds {
		if subs, ok := b.byKind[kind]; ok {
			delete(subs, name)
			if len(subs) == 0 {
				delete(b.byKind, kind)
			}
		}
	}
	close(sub.ch)
}

func (b *EventBus) Publish(e event.Event) {
	b.record(e)
	b.published.Add(1)

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, sub := range b.byKind[e.Kind] {
		b.deliver(sub, e)
	}
	for _, sub := range b.wildcard {
		b.deliver(sub, e)
	}
}

func (b *EventBus) deliver(sub *subscription, e event.Event) {
	if !sub.filter.Match(e) {
		return
	}
	select {
	case sub.ch <- e:
	default:
		b.dropped.Add(1)
		b.log.Debug("Event lost, subscriber queue full", "subscriber", sub.name, "kind", e.Kind.String())
	}
}

func (b *EventBus) record(e event.Event) {
	if b.historySize <= 0 {
		return
	}
	b.historyMu.Lock()
	defer b.historyMu.Unlock()
	if len(b.history) < b.historySize {
		b.history = append(b.history, e)
		return
	}
	b.history[b.next] = e
	b.next = (b.next + 1) % b.historySize
}

// History returns up to limit of the most recent events, oldest first.
func (b *EventBus) History(limit int) []event.Event {
	b.historyMu.Lock()
	defer b.historyMu.Unlock()

	ordered := make([]event.Event, 0, len(b.history))
	ordered = append(ordered, b.history[b.next:]...)
	ordered = append(ordered, b.history[:b.next]...)
	if limit > 0 && limit < len(ordered) {
		ordered = ordered[len(ordered)-limit:]
	}
	return ordered
}

func (b *EventBus) Stats() (published, dropped uint64) {
	return b.published.Load(), b.dropped.Load()
}

// Close closes every subscriber channel, later publications are ignored.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for name := range b.names {
		b.removeLocked(name)
	}
}
