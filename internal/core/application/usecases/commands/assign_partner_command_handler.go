package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// SearchRadiusKm is the radius around the anchor restaurant within which
// delivery partners are considered.
const SearchRadiusKm = 3.0

// AssignPartnerCommandHandler selects and books a delivery partner for a
// batch of orders.
//
// The selection is optimistic: partner state is scored from a plain read and
// mutated without an exclusive lock, so two concurrent assignments can in a
// narrow window pick the same partner. The downstream queue's deduplication
// key and the idempotency markers bound this accepted race; see the package
// documentation.
//
// Expected outcomes:
//   - services.ErrNoEligiblePartner: no mutation happened, the caller's
//     batch stays pending and the retry loop drives progress.
//   - store or queue errors propagate so the queue redelivers the whole
//     message; every mutation on this path is safe to apply twice.
type AssignPartnerCommandHandler struct {
	partners      ports.PartnerRepository
	batches       ports.BatchRepository
	deliveryQueue ports.DeliveryQueue
	scorer        services.PartnerScorer
	logger        *slog.Logger
}

// NewAssignPartnerCommandHandler creates a handler for partner assignment.
func NewAssignPartnerCommandHandler(
	partners ports.PartnerRepository,
	batches ports.BatchRepository,
	deliveryQueue ports.DeliveryQueue,
	logger *slog.Logger,
) AssignPartnerCommandHandler {
	return AssignPartnerCommandHandler{
		partners:      partners,
		batches:       batches,
		deliveryQueue: deliveryQueue,
		scorer:        services.NewPartnerScorer(),
		logger:        logger.With("component", "assign_partner_handler"),
	}
}

// Handle processes one assignment: geo search around the anchor restaurant,
// candidate scoring, state mutation for the chosen partner, and emission of
// the delivery assignment event.
func (h AssignPartnerCommandHandler) Handle(ctx context.Context, command AssignPartnerCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	orders := command.Orders()
	anchor := orders[0].RestaurantLocation()
	now := time.Now()

	nearby, err := h.partners.SearchNearby(ctx, anchor, SearchRadiusKm)
	if err != nil {
		return err
	}

	candidates := make([]*partner.Candidate, 0, len(nearby))
	for _, hit := range nearby {
		candidate, err := h.partners.GetCandidate(ctx, hit.ID, hit.DistanceKm)
		if errors.Is(err, errs.ErrObjectNotFound) {
			// Geo entry without a record: the partner went offline between
			// the search and the read. Not a candidate.
			continue
		}
		if err != nil {
			return err
		}

		candidates = append(candidates, candidate)
	}

	best, err := h.scorer.SelectBest(candidates, now)
	if errors.Is(err, services.ErrNoEligiblePartner) {
		h.logger.InfoContext(ctx, "No eligible delivery partner found",
			"anchor", anchor.String(), "candidates", len(candidates))
		return err
	}
	if err != nil {
		return err
	}

	for _, o := range orders {
		if err = h.batches.MarkAssigned(ctx, o.ID()); err != nil {
			return err
		}
		if err = h.partners.RegisterOrder(ctx, best.ID(), o.ID()); err != nil {
			return err
		}
	}

	if err = h.partners.SetStatus(ctx, best.ID(), partner.StatusInDelivery); err != nil {
		return err
	}

	if err = h.partners.RecordAssignment(ctx, best.ID(), now); err != nil {
		return err
	}

	assignment, err := delivery.NewAssignment(best.ID(), orders, now)
	if err != nil {
		return err
	}

	if err = h.deliveryQueue.PublishAssignment(ctx, assignment); err != nil {
		return err
	}

	orderIDs := make([]string, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID()
	}
	h.logger.InfoContext(ctx, "Delivery partner assigned",
		"partner_id", best.ID(), "delivery_id", assignment.ID().String(), "orders", orderIDs)

	return nil
}
