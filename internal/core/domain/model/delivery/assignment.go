// Package delivery models the assignment of a batch of orders to a delivery
// partner. An Assignment is created exactly once per successful dispatch and
// is immutable from the core's perspective; downstream consumers advance its
// lifecycle.
package delivery

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/pkg/errs"
)

// StatusDPAssigned is the initial lifecycle status of every assignment
// emitted by the dispatch core. Later statuses belong to downstream
// consumers.
const StatusDPAssigned = "dp_assigned"

// ErrAssignmentIsNotConstructed is returned when an Assignment was not
// created via NewAssignment.
var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment constructor")

// Assignment binds 1 to 2 orders to a delivery partner for a single trip.
type Assignment struct {
	id        kernel.UUID
	partnerID string
	orders    []*order.Order
	status    string
	timestamp time.Time

	isConstructed bool
}

// NewAssignment creates an Assignment with a fresh unique id and status
// StatusDPAssigned. The batch must hold between 1 and
// partner.MaxAllowedOrders orders.
func NewAssignment(partnerID string, orders []*order.Order, timestamp time.Time) (*Assignment, error) {
	a := &Assignment{
		id:            kernel.NewUUID(),
		status:        StatusDPAssigned,
		timestamp:     timestamp,
		isConstructed: true,
	}

	if err := errors.Join(
		a.setPartnerID(partnerID),
		a.setOrders(orders),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate ensures the Assignment was constructed through NewAssignment.
func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}

	return nil
}

// ID returns the assignment's unique delivery identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// PartnerID returns the assigned partner.
func (a *Assignment) PartnerID() string {
	return a.partnerID
}

// Orders returns the batched orders being delivered together.
func (a *Assignment) Orders() []*order.Order {
	return a.orders
}

// Status returns the assignment's lifecycle status.
func (a *Assignment) Status() string {
	return a.status
}

// Timestamp returns when the assignment was made.
func (a *Assignment) Timestamp() time.Time {
	return a.timestamp
}

// GroupKey returns the queue grouping key. Assignments for the same partner
// are delivered in order.
func (a *Assignment) GroupKey() string {
	return a.partnerID
}

// DedupKey returns the queue deduplication key. Re-emission under
// at-least-once delivery must not create duplicate downstream deliveries,
// so the key is derived from the delivery id and status.
func (a *Assignment) DedupKey() string {
	return fmt.Sprintf("%s|%s", a.id, a.status)
}

func (a *Assignment) setPartnerID(partnerID string) error {
	if partnerID == "" {
		return errs.NewValueIsRequiredError("partnerID")
	}

	a.partnerID = partnerID
	return nil
}

func (a *Assignment) setOrders(orders []*order.Order) error {
	if len(orders) == 0 {
		return errs.NewValueIsRequiredError("orders")
	}
	if len(orders) > partner.MaxAllowedOrders {
		return errs.NewValueIsOutOfRangeError("orders", len(orders), 1, partner.MaxAllowedOrders)
	}

	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return err
		}
	}

	a.orders = orders
	return nil
}
