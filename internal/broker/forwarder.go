package broker

import (
	"context"

	"github.com/frahmantamala/interior-ledger/internal/core/events"
)

// Forwarder returns a bus handler that republishes every event it sees.
// Subscribe it under events.AllEvents.
func Forwarder(publisher events.Publisher) events.Handler {
	return func(ctx context.Context, e events.Event) error {
		return publisher.Publish(ctx, e)
	}
}

// Dispatcher feeds consumed messages back into a local bus so the same
// handlers run in the worker as in the server.
func Dispatcher(bus *events.EventBus) func(context.Context, *EventMessage) error {
	return func(ctx context.Context, msg *EventMessage) error {
		return bus.PublishSync(ctx, msg.ToEvent())
	}
}
