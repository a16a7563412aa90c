package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignPartnerCommandIsNotConstructed = errors.New(
	"AssignPartnerCommand must be created via NewAssignPartnerCommand constructor",
)

// AssignPartnerCommand requests the assignment of a delivery partner to one
// batch of orders. The batch holds one order (solo assignment after retry
// exhaustion) or two (a matched pair); the first order's restaurant location
// anchors the partner search.
type AssignPartnerCommand struct {
	orders []*order.Order
	guard  guard.ConstructorGuard
}

// NewAssignPartnerCommand creates a validated assignment command for a batch
// of 1 to partner.MaxAllowedOrders orders.
func NewAssignPartnerCommand(orders []*order.Order) (AssignPartnerCommand, error) {
	if len(orders) == 0 {
		return AssignPartnerCommand{}, errs.NewValueIsRequiredError("orders")
	}
	if len(orders) > partner.MaxAllowedOrders {
		return AssignPartnerCommand{}, errs.NewValueIsOutOfRangeError(
			"orders", len(orders), 1, partner.MaxAllowedOrders)
	}

	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return AssignPartnerCommand{}, err
		}
	}

	return AssignPartnerCommand{
		orders: orders,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Orders returns the batch being assigned.
func (c *AssignPartnerCommand) Orders() []*order.Order {
	return c.orders
}

// Validate ensures the command was created through the constructor.
func (c *AssignPartnerCommand) Validate() error {
	return c.guard.Validate(ErrAssignPartnerCommandIsNotConstructed)
}
