package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrMatchOrderCommandIsNotConstructed = errors.New(
	"MatchOrderCommand must be created via NewMatchOrderCommand constructor",
)

// MatchOrderCommand carries one validated inbound order message through a
// batching cycle.
type MatchOrderCommand struct {
	order *order.Order
	guard guard.ConstructorGuard
}

// NewMatchOrderCommand creates a matching command for the given order.
func NewMatchOrderCommand(o *order.Order) (MatchOrderCommand, error) {
	if err := o.Validate(); err != nil {
		return MatchOrderCommand{}, err
	}

	return MatchOrderCommand{
		order: o,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Order returns the order being matched.
func (c *MatchOrderCommand) Order() *order.Order {
	return c.order
}

// Validate ensures the command was created through the constructor.
func (c *MatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrMatchOrderCommandIsNotConstructed)
}
