package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// PartnerAssigner abstracts the assignment step so the matcher can be
// exercised without the full scoring pipeline. AssignPartnerCommandHandler
// is the production implementation.
type PartnerAssigner interface {
	Handle(ctx context.Context, command AssignPartnerCommand) error
}

// MatchOrderCommandHandler implements the batching state machine. Each
// inbound order moves
//
//	received -> pending -> {batched | solo-assigned} -> done
//
// with a requeue loop (attempt+1) bounded by order.MaxAttempts. The
// pending-zone store, not message order, is the source of truth for what is
// currently waiting: a requeued order can also be matched reactively when a
// compatible sibling arrives first, and both paths tolerate being redundant
// through the idempotency marker and pending-store removal.
type MatchOrderCommandHandler struct {
	batches    ports.BatchRepository
	orderQueue ports.OrderQueue
	assigner   PartnerAssigner
	logger     *slog.Logger
}

// NewMatchOrderCommandHandler creates the batching state machine handler.
func NewMatchOrderCommandHandler(
	batches ports.BatchRepository,
	orderQueue ports.OrderQueue,
	assigner PartnerAssigner,
	logger *slog.Logger,
) MatchOrderCommandHandler {
	return MatchOrderCommandHandler{
		batches:    batches,
		orderQueue: orderQueue,
		assigner:   assigner,
		logger:     logger.With("component", "match_order_handler"),
	}
}

// Handle runs one batching cycle for the command's order.
func (h MatchOrderCommandHandler) Handle(ctx context.Context, command MatchOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	o := command.Order()
	logger := h.logger.With("order_id", o.ID(), "zone", o.PickupZone(), "attempt", o.Attempt())

	assigned, err := h.batches.IsAssigned(ctx, o.ID())
	if err != nil {
		return err
	}
	if assigned {
		logger.InfoContext(ctx, "Skipping order: already assigned")
		return nil
	}

	if err = h.batches.Publish(ctx, o); err != nil {
		return err
	}

	pending, err := h.batches.PendingInZone(ctx, o.PickupZone())
	if err != nil {
		return err
	}

	// First-fit pairing: take the first spatially compatible sibling, no
	// global optimum search.
	for _, other := range pending {
		if !o.CanBatchWith(other) {
			continue
		}

		batchCommand, err := NewAssignPartnerCommand([]*order.Order{o, other})
		if err != nil {
			return err
		}

		err = h.assigner.Handle(ctx, batchCommand)
		if errors.Is(err, services.ErrNoEligiblePartner) {
			// Every pair shares this order's anchor restaurant, so another
			// sibling would not fare better. Leave the batch pending and
			// fall through to the retry path.
			break
		}
		if err != nil {
			return err
		}

		logger.InfoContext(ctx, "Orders batched", "companion_order_id", other.ID())
		return h.batches.Remove(ctx, o.PickupZone(), o.ID(), other.ID())
	}

	if o.CanRetry() {
		requeued := o.NextAttempt()
		if err = h.orderQueue.PublishOrder(ctx, requeued); err != nil {
			return err
		}

		// The order stays in the pending store so an arriving sibling can
		// still match it before the requeued message is consumed.
		logger.InfoContext(ctx, "Order requeued", "next_attempt", requeued.Attempt())
		return nil
	}

	soloCommand, err := NewAssignPartnerCommand([]*order.Order{o})
	if err != nil {
		return err
	}

	err = h.assigner.Handle(ctx, soloCommand)
	if errors.Is(err, services.ErrNoEligiblePartner) {
		// Terminal for this cycle: the order is dropped and must be
		// re-driven externally. The pending TTL clears any residue.
		logger.WarnContext(ctx, "No eligible partner for solo assignment, order dropped from this cycle")
		return h.batches.Remove(ctx, o.PickupZone(), o.ID())
	}
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Order assigned solo")
	return h.batches.Remove(ctx, o.PickupZone(), o.ID())
}
