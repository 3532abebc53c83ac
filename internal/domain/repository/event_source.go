package repository

import (
	"context"

	ethevent "github.com/ethereum/go-ethereum/event"

	"flightsurety-relay/internal/domain/event"
)

// EventSource is the append-only, ordered domain event log: replayable from
// genesis and subscribable for new entries
type EventSource interface {
	// PastEvents returns every event from genesis to the current frontier,
	// in log order. A failure aborts the whole fetch; no partial slice is
	// returned.
	PastEvents(ctx context.Context) ([]event.Event, error)

	// Subscribe delivers new events on sink in the order they arrive.
	// Delivery stops when the subscription is unsubscribed or fails.
	Subscribe(ctx context.Context, sink chan<- event.Event) (ethevent.Subscription, error)
}
