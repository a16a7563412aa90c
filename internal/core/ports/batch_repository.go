package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// BatchRepository is the persistence contract for orders awaiting a batch
// companion, plus the idempotency markers that guard against duplicate
// assignment under at-least-once queue delivery.
//
// Pending orders live under a per-zone key with a short TTL so stale zones
// self-clean; an order that is never matched simply ages out.
type BatchRepository interface {
	// Publish writes or overwrites the order under its pickup zone and
	// refreshes the zone's TTL.
	Publish(ctx context.Context, o *order.Order) error

	// PendingInZone returns all orders currently pending in the zone.
	// Iteration order is the store's hash order; callers must not depend on
	// anything beyond its stability within one read.
	PendingInZone(ctx context.Context, zone string) ([]*order.Order, error)

	// Remove deletes the given orders from the zone's pending set. Removing
	// an already-removed order is a no-op.
	Remove(ctx context.Context, zone string, orderIDs ...string) error

	// MarkAssigned sets a time-bounded idempotency marker for the order.
	// Once set, no further assignment may be attempted for the order until
	// the marker expires.
	MarkAssigned(ctx context.Context, orderID string) error

	// IsAssigned reports whether the order carries an unexpired
	// idempotency marker.
	IsAssigned(ctx context.Context, orderID string) (bool, error)
}
