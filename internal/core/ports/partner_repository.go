// Package ports defines the contracts between the application core and
// infrastructure adapters: the partner location store, the pending-batch
// store, and the message queues. These interfaces enable dependency
// inversion and testability.
package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
)

// NearbyPartner is one geo-index hit: a partner id and its distance from
// the search origin.
type NearbyPartner struct {
	ID         string
	DistanceKm float64
}

// PartnerRepository is the persistence contract for delivery partner state.
//
// The backing store is shared with external collaborators: the
// location-update endpoint writes positions, the driver feed reads
// everything. Key naming and field contracts therefore form a stable wire
// contract and every mutation must be safe to apply twice, since message
// redelivery can replay a whole dispatch cycle.
type PartnerRepository interface {
	// SearchNearby returns partners within radiusKm of origin, ascending by
	// distance. Only partners in the geo-index (online or in_delivery) appear.
	SearchNearby(ctx context.Context, origin kernel.GeoPoint, radiusKm float64) ([]NearbyPartner, error)

	// GetCandidate assembles the scoring read model for one partner: status
	// and last-seen from the partner record, the active-order count, and the
	// last-assigned timestamp. Returns errs.ErrObjectNotFound (wrapped) when
	// the partner has no record, which callers treat as "not a candidate".
	GetCandidate(ctx context.Context, id string, distanceKm float64) (*partner.Candidate, error)

	// RegisterOrder adds an order to the partner's active-order set.
	RegisterOrder(ctx context.Context, partnerID string, orderID string) error

	// SetStatus transitions the partner's availability status. It must not
	// touch the partner's geo-index entry; positions belong to the
	// location-update collaborator.
	SetStatus(ctx context.Context, partnerID string, status partner.Status) error

	// RecordAssignment stores the partner's last-assigned timestamp used by
	// the fairness term of the scoring formula.
	RecordAssignment(ctx context.Context, partnerID string, at time.Time) error

	// UpsertLocation writes the partner's position into the geo-index and
	// refreshes status and last-seen on the partner record. Used by the
	// location-update surface, not by the dispatch path.
	UpsertLocation(ctx context.Context, partnerID string, location kernel.GeoPoint, status partner.Status) error

	// Remove deletes the partner record, its geo-index entry, and its
	// fairness timestamp. Called when a partner goes offline.
	Remove(ctx context.Context, partnerID string) error
}
