// Package eventbus provides the in-process event dispatch mechanism that
// notifies observers of order state changes. Fan-out is intra-process,
// sequential, and synchronous within one publish call; there is no durable
// queue here. Observers needing durability (e.g. the Kafka exporter) take
// care of it themselves.
package eventbus

import (
	"context"
	"sort"
	"sync"

	"orderflow/internal/core/domain/model/order"
)

// Handler processes one domain event. Implementations must tolerate being
// called for any event of the kind they registered for.
type Handler interface {
	Handle(ctx context.Context, event order.DomainEvent) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, event order.DomainEvent) error

func (f HandlerFunc) Handle(ctx context.Context, event order.DomainEvent) error {
	return f(ctx, event)
}

// HandlerRegistry is the read side of the registration store, used by the
// Dispatcher to look up handlers per publish.
type HandlerRegistry interface {
	// HandlersFor returns the handlers registered for the kind, ordered by
	// ascending priority with registration-order ties.
	HandlersFor(kind order.EventKind) []Handler
}

type subscription struct {
	id       int
	priority int
	handler  Handler
}

// Registry stores handler registrations per event kind. It is an explicit,
// constructed-at-startup object passed by reference into the Dispatcher;
// there is no ambient global lookup. Registration and removal take effect
// on the next publish because the dispatcher re-reads the registry every
// time.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	nextID int
	subs   map[order.EventKind][]subscription
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[order.EventKind][]subscription),
	}
}

// Subscribe registers a handler for an event kind with the given priority.
// Lower priorities run first; handlers with equal priority run in
// registration order. The returned id can be passed to Unsubscribe.
func (r *Registry) Subscribe(kind order.EventKind, priority int, handler Handler) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.subs[kind] = append(r.subs[kind], subscription{
		id:       r.nextID,
		priority: priority,
		handler:  handler,
	})
	return r.nextID
}

// Unsubscribe removes a previously registered handler. Removing an unknown
// id is a no-op. The removal is visible to the next publish.
func (r *Registry) Unsubscribe(kind order.EventKind, id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.subs[kind]
	for i, sub := range subs {
		if sub.id == id {
			r.subs[kind] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// HandlersFor implements HandlerRegistry. The returned slice is a sorted
// copy, so callers can iterate without holding the registry lock.
func (r *Registry) HandlersFor(kind order.EventKind) []Handler {
	r.mu.RLock()
	subs := make([]subscription, len(r.subs[kind]))
	copy(subs, r.subs[kind])
	r.mu.RUnlock()

	// Stable sort keeps registration order for equal priorities.
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].priority < subs[j].priority
	})

	handlers := make([]Handler, len(subs))
	for i, sub := range subs {
		handlers[i] = sub.handler
	}
	return handlers
}

// Compile-time interface check.
var _ HandlerRegistry = (*Registry)(nil)
