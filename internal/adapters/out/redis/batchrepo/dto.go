package batchrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// locationDTO is the stored coordinate shape, matching the inbound message
// contract so a pending order round-trips unchanged.
type locationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// orderDTO is the JSON persisted under the pending-zone hash.
type orderDTO struct {
	OrderID            string      `json:"order_id"`
	Attempt            int         `json:"attempt"`
	RestaurantLocation locationDTO `json:"restaurant_location"`
	DeliveryLocation   locationDTO `json:"delivery_location"`
	PickupZone         string      `json:"pickup_zone"`
}

func toDTO(o *order.Order) orderDTO {
	return orderDTO{
		OrderID: o.ID(),
		Attempt: o.Attempt(),
		RestaurantLocation: locationDTO{
			Latitude:  o.RestaurantLocation().Lat(),
			Longitude: o.RestaurantLocation().Lon(),
		},
		DeliveryLocation: locationDTO{
			Latitude:  o.DeliveryLocation().Lat(),
			Longitude: o.DeliveryLocation().Lon(),
		},
		PickupZone: o.PickupZone(),
	}
}

func (d orderDTO) toDomain() (*order.Order, error) {
	restaurant, err := kernel.NewGeoPoint(d.RestaurantLocation.Latitude, d.RestaurantLocation.Longitude)
	if err != nil {
		return nil, err
	}

	destination, err := kernel.NewGeoPoint(d.DeliveryLocation.Latitude, d.DeliveryLocation.Longitude)
	if err != nil {
		return nil, err
	}

	return order.NewOrder(d.OrderID, restaurant, destination, d.PickupZone, d.Attempt)
}
