package order

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	// MaxAttempts bounds the requeue loop. An order that has been through
	// this many batching cycles without finding a companion is assigned solo.
	MaxAttempts = 5

	// PickupDistanceThresholdKm is the maximum restaurant-to-restaurant
	// distance for two orders to share a delivery.
	PickupDistanceThresholdKm = 0.5

	// DropoffDistanceThresholdKm is the maximum distance between the two
	// delivery destinations for orders sharing a delivery.
	DropoffDistanceThresholdKm = 2.0
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder factory method.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order represents an order inside the batching window: from the moment its
// queue message is consumed until it is batched or assigned solo. It carries
// only what the matching decision needs; the full order record lives with the
// order-management collaborator.
//
// Invariants:
//   - ID and pickup zone are non-empty
//   - Restaurant and delivery locations are constructed GeoPoints
//   - The attempt counter is non-negative
type Order struct {
	id                 string
	restaurantLocation kernel.GeoPoint
	deliveryLocation   kernel.GeoPoint
	pickupZone         string
	attempt            int

	isConstructed bool
}

// NewOrder creates a validated Order. The attempt counter starts at 0 for a
// freshly placed order and carries the requeue count for re-consumed messages.
func NewOrder(
	id string,
	restaurantLocation kernel.GeoPoint,
	deliveryLocation kernel.GeoPoint,
	pickupZone string,
	attempt int,
) (*Order, error) {
	o := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setRestaurantLocation(restaurantLocation),
		o.setDeliveryLocation(deliveryLocation),
		o.setPickupZone(pickupZone),
		o.setAttempt(attempt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was constructed through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// ID returns the order's external identifier.
func (o *Order) ID() string {
	return o.id
}

// RestaurantLocation returns the pickup coordinate.
func (o *Order) RestaurantLocation() kernel.GeoPoint {
	return o.restaurantLocation
}

// DeliveryLocation returns the dropoff coordinate.
func (o *Order) DeliveryLocation() kernel.GeoPoint {
	return o.deliveryLocation
}

// PickupZone returns the coarse geographic partition key used to group
// batching candidates.
func (o *Order) PickupZone() string {
	return o.pickupZone
}

// Attempt returns how many batching cycles this order has been requeued for.
func (o *Order) Attempt() int {
	return o.attempt
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

// CanRetry reports whether the order may be requeued for another batching
// cycle instead of being assigned solo.
func (o *Order) CanRetry() bool {
	return o.attempt < MaxAttempts
}

// NextAttempt returns a copy of the order with the attempt counter
// incremented, for republishing onto the batching queue.
func (o *Order) NextAttempt() *Order {
	next := *o
	next.attempt++
	return &next
}

// PickupDistanceTo returns the distance in kilometers between the two
// orders' restaurants.
func (o *Order) PickupDistanceTo(other *Order) float64 {
	return o.restaurantLocation.DistanceTo(other.restaurantLocation)
}

// DropoffDistanceTo returns the distance in kilometers between the two
// orders' delivery destinations.
func (o *Order) DropoffDistanceTo(other *Order) float64 {
	return o.deliveryLocation.DistanceTo(other.deliveryLocation)
}

// CanBatchWith reports whether two orders are spatially compatible for a
// shared delivery: restaurants within PickupDistanceThresholdKm and
// destinations within DropoffDistanceThresholdKm. An order never batches
// with itself.
func (o *Order) CanBatchWith(other *Order) bool {
	if other == nil || o.IsEqual(other) {
		return false
	}

	return o.PickupDistanceTo(other) <= PickupDistanceThresholdKm &&
		o.DropoffDistanceTo(other) <= DropoffDistanceThresholdKm
}

func (o *Order) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("id")
	}

	o.id = id
	return nil
}

func (o *Order) setRestaurantLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurantLocation", err)
	}

	o.restaurantLocation = location
	return nil
}

func (o *Order) setDeliveryLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryLocation", err)
	}

	o.deliveryLocation = location
	return nil
}

func (o *Order) setPickupZone(zone string) error {
	if zone == "" {
		return errs.NewValueIsRequiredError("pickupZone")
	}

	o.pickupZone = zone
	return nil
}

func (o *Order) setAttempt(attempt int) error {
	if attempt < 0 {
		return errs.NewValueIsInvalidError("attempt")
	}

	o.attempt = attempt
	return nil
}
