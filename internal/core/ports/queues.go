package ports

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/order"
)

// OrderQueue publishes order messages back onto the inbound batching queue.
// Requeued messages carry an incremented attempt counter, are grouped by
// pickup zone, and are deduplicated per (order, attempt) so a redelivered
// consumption cannot double-requeue the same cycle.
type OrderQueue interface {
	PublishOrder(ctx context.Context, o *order.Order) error
}

// DeliveryQueue publishes delivery assignments for downstream consumers.
// Messages are grouped by partner and deduplicated by the assignment's
// delivery id and status.
type DeliveryQueue interface {
	PublishAssignment(ctx context.Context, a *delivery.Assignment) error
}
