package models

import "time"

type DeliveryType string

const (
	DeliveryPickup DeliveryType = "pickup"
	DeliveryFree   DeliveryType = "free"
	DeliveryShort  DeliveryType = "short"
	DeliveryLong   DeliveryType = "long"
)

func (t DeliveryType) Valid() bool {
	switch t {
	case DeliveryPickup, DeliveryFree, DeliveryShort, DeliveryLong:
		return true
	}
	return false
}

type Customer struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Location Coordinates `json:"location"`
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Delivery is set on courier orders; self-pickup orders leave it nil.
type Delivery struct {
	DistanceKm  float64     `json:"distance_km"`
	Coordinates Coordinates `json:"coordinates"`
}

// Order is the record handed to the fulfilling location once payment is captured.
type Order struct {
	ID           string             `json:"id"`
	ChatID       int64              `json:"chat_id"`
	Customer     Customer           `json:"customer"`
	Items        []OrderItem        `json:"items"`
	Location     FulfillingLocation `json:"location"`
	DeliveryType DeliveryType       `json:"delivery_type"`
	SelfPickup   bool               `json:"self_pickup"`
	Delivery     *Delivery          `json:"delivery,omitempty"`
	ItemsTotal   int64              `json:"items_total"`
	DeliveryFee  int64              `json:"delivery_fee"`
	GrandTotal   int64              `json:"grand_total"`
	ChargeID     string             `json:"charge_id"`
	CreatedAt    time.Time          `json:"created_at"`
}
