// Package notify fans lifecycle events out to connected clients and, when
// configured, to external subscribers over AMQP. Delivery is best-effort:
// a failed or missed broadcast is never retried and never fails the write
// that produced it; consumers reconcile by refetching.
package notify

import (
	"context"
	"errors"

	"github.com/paatrickbarbosa/RoomS/internal/events"
)

// Broadcaster delivers one event to every currently reachable consumer.
type Broadcaster interface {
	Broadcast(ctx context.Context, ev events.Event) error
}

// Multi fans a single event out to several broadcasters. Every broadcaster
// is attempted regardless of earlier failures.
type Multi []Broadcaster

func (m Multi) Broadcast(ctx context.Context, ev events.Event) error {
	var errs []error
	for _, b := range m {
		if err := b.Broadcast(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
