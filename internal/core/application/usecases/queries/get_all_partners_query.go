// Package queries contains read-only operations serving external read
// surfaces. Query handlers read the store directly for performance,
// bypassing the domain model (CQRS read side).
package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrGetAllPartnersQueryIsNotConstructed = errors.New(
	"GetAllPartnersQuery must be created via NewGetAllPartnersQuery constructor",
)

// GetAllPartnersQuery requests the full driver feed: every known delivery
// partner with its derived status and position.
type GetAllPartnersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllPartnersQuery creates a new driver feed query.
func NewGetAllPartnersQuery() GetAllPartnersQuery {
	return GetAllPartnersQuery{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q *GetAllPartnersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllPartnersQueryIsNotConstructed)
}

// GetAllPartnersQueryResponse is one driver feed entry. Lat and Lng are nil
// for partners without a geo-index entry. LastSeen and LastAssigned are
// unix milliseconds, zero when unknown.
type GetAllPartnersQueryResponse struct {
	PartnerID    string   `json:"partner_id"`
	Status       string   `json:"status"`
	LastSeen     int64    `json:"lastSeen"`
	LastAssigned int64    `json:"lastAssigned"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}
