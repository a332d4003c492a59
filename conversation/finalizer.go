package conversation

import (
	"errors"
	"time"

	"pizza-telegram/models"
)

var ErrIncompleteSession = errors.New("session incomplete")

// Finalize builds the order record for a paid session. It does no I/O; the
// cart snapshot is taken by the caller at confirmation time.
func Finalize(s Session, cart models.Cart, chargeID string, now time.Time) (models.Order, error) {
	switch {
	case !s.Contact.Complete():
		return models.Order{}, NewValidationError("contact", ErrIncompleteSession)
	case s.Location == nil:
		return models.Order{}, NewValidationError("location", ErrIncompleteSession)
	case s.FulfillingLocation == nil:
		return models.Order{}, NewValidationError("fulfilling_location", ErrIncompleteSession)
	case !s.DeliveryType.Valid():
		return models.Order{}, NewValidationError("delivery_type", ErrIncompleteSession)
	}

	dist, _ := s.DistanceKm()
	loc := *s.FulfillingLocation
	loc.DistanceKm = dist
	fee, _ := DeliveryCost(s.DeliveryType)

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	order := models.Order{
		ChatID: s.ChatID,
		Customer: models.Customer{
			Name:     s.Contact.Name,
			Email:    s.Contact.Email,
			Location: *s.Location,
		},
		Items:        items,
		Location:     loc,
		DeliveryType: s.DeliveryType,
		ItemsTotal:   cart.Total(),
		DeliveryFee:  fee,
		GrandTotal:   cart.Total() + fee,
		ChargeID:     chargeID,
		CreatedAt:    now,
	}
	if s.DeliveryType == models.DeliveryPickup {
		order.SelfPickup = true
	} else {
		order.Delivery = &models.Delivery{DistanceKm: dist, Coordinates: *s.Location}
	}
	return order, nil
}
