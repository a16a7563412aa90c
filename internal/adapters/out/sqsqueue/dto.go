package sqsqueue

import (
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/order"
)

// locationMessage is the coordinate shape of the queue contract.
type locationMessage struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// orderMessage is the body of the order-batching queue contract, for both
// externally produced messages and requeues.
type orderMessage struct {
	OrderID            string          `json:"order_id"`
	Attempt            int             `json:"attempt"`
	RestaurantLocation locationMessage `json:"restaurant_location"`
	DeliveryLocation   locationMessage `json:"delivery_location"`
	PickupZone         string          `json:"pickup_zone"`
}

func toOrderMessage(o *order.Order) orderMessage {
	return orderMessage{
		OrderID: o.ID(),
		Attempt: o.Attempt(),
		RestaurantLocation: locationMessage{
			Latitude:  o.RestaurantLocation().Lat(),
			Longitude: o.RestaurantLocation().Lon(),
		},
		DeliveryLocation: locationMessage{
			Latitude:  o.DeliveryLocation().Lat(),
			Longitude: o.DeliveryLocation().Lon(),
		},
		PickupZone: o.PickupZone(),
	}
}

// assignmentMessage is the body of the delivery queue contract. Timestamp
// is unix milliseconds.
type assignmentMessage struct {
	DeliveryID string         `json:"delivery_id"`
	PartnerID  string         `json:"partner_id"`
	Orders     []orderMessage `json:"orders"`
	Status     string         `json:"status"`
	Timestamp  int64          `json:"timestamp"`
}

func toAssignmentMessage(a *delivery.Assignment) assignmentMessage {
	orders := make([]orderMessage, len(a.Orders()))
	for i, o := range a.Orders() {
		orders[i] = toOrderMessage(o)
	}

	return assignmentMessage{
		DeliveryID: a.ID().String(),
		PartnerID:  a.PartnerID(),
		Orders:     orders,
		Status:     a.Status(),
		Timestamp:  a.Timestamp().UnixMilli(),
	}
}
