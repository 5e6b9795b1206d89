// Package event carries the product lifecycle contract between the mutation
// path and its subscribers. Subscribers are registered once at startup; the
// dispatch is synchronous within the triggering operation.
package event

import "context"

// Kind identifies a product lifecycle transition.
type Kind string

const (
	ProductCreated Kind = "created"
	ProductUpdated Kind = "updated"
	ProductDeleted Kind = "deleted"
)

// ProductEvent is emitted after a product mutation has been persisted. For
// deletes, OutletID is captured from the record before it was removed.
type ProductEvent struct {
	Kind      Kind
	ProductID int64
	OutletID  int64
}

// Handler consumes a product event. Errors are the handler's own concern; the
// dispatcher never propagates them to the mutation path.
type Handler func(ctx context.Context, ev ProductEvent)

// Dispatcher fans product events out to its subscribers.
type Dispatcher struct {
	handlers []Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers a handler. Not safe for concurrent use; call during
// process initialization only.
func (d *Dispatcher) Subscribe(h Handler) {
	d.handlers = append(d.handlers, h)
}

// Emit delivers the event to every subscriber in registration order.
func (d *Dispatcher) Emit(ctx context.Context, ev ProductEvent) {
	for _, h := range d.handlers {
		h(ctx, ev)
	}
}
