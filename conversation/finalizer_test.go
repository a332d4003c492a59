package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizza-telegram/models"
)

func paidSession(delivery models.DeliveryType) Session {
	loc := testCenter
	return Session{
		ChatID:             1,
		State:              StateOrder,
		Contact:            Contact{Name: "Ann", Email: "ann@x.co"},
		Location:           &models.Coordinates{Latitude: 55.75, Longitude: 37.61},
		FulfillingLocation: &loc,
		DeliveryType:       delivery,
		InvoicePayload:     "token-1",
	}
}

func TestFinalizeDelivery(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cart := models.Cart{Items: []models.CartItem{
		{ProductID: "p1", Name: "Margherita", UnitPrice: 49000, Quantity: 2},
	}}
	order, err := Finalize(paidSession(models.DeliveryFree), cart, "charge-1", now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), order.ChatID)
	assert.Equal(t, "Ann", order.Customer.Name)
	assert.Equal(t, "ann@x.co", order.Customer.Email)
	assert.Equal(t, []models.OrderItem{{ProductID: "p1", Name: "Margherita", Quantity: 2, UnitPrice: 49000}}, order.Items)
	assert.Equal(t, "center", order.Location.ID)
	assert.Equal(t, int64(-100), order.Location.NotificationChatID)
	assert.False(t, order.SelfPickup)
	require.NotNil(t, order.Delivery)
	assert.InDelta(t, 0.3, order.Delivery.DistanceKm, 0.01)
	assert.Equal(t, models.Coordinates{Latitude: 55.75, Longitude: 37.61}, order.Delivery.Coordinates)
	assert.Equal(t, int64(98000), order.GrandTotal)
	assert.Equal(t, "charge-1", order.ChargeID)
	assert.Equal(t, now, order.CreatedAt)

	// The record is a snapshot.
	cart.Items[0].Quantity = 10
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestFinalizePickup(t *testing.T) {
	s := paidSession(models.DeliveryPickup)
	order, err := Finalize(s, models.Cart{}, "charge-2", time.Now())
	require.NoError(t, err)
	assert.True(t, order.SelfPickup)
	assert.Nil(t, order.Delivery)
	assert.Zero(t, order.DeliveryFee)
}

func TestFinalizeShortDeliveryFee(t *testing.T) {
	s := paidSession(models.DeliveryShort)
	s.Location = &models.Coordinates{Latitude: 55.7627, Longitude: 37.61}
	cart := models.Cart{Items: []models.CartItem{{ProductID: "p1", UnitPrice: 1000, Quantity: 1}}}
	order, err := Finalize(s, cart, "c", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(10000), order.DeliveryFee)
	assert.Equal(t, int64(11000), order.GrandTotal)
}

func TestFinalizeRequiresEveryField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Session)
		field  string
	}{
		{"no name", func(s *Session) { s.Contact.Name = "" }, "contact"},
		{"no email", func(s *Session) { s.Contact.Email = "" }, "contact"},
		{"no location", func(s *Session) { s.Location = nil }, "location"},
		{"no fulfilling location", func(s *Session) { s.FulfillingLocation = nil }, "fulfilling_location"},
		{"no delivery type", func(s *Session) { s.DeliveryType = "" }, "delivery_type"},
		{"bogus delivery type", func(s *Session) { s.DeliveryType = "drone" }, "delivery_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := paidSession(models.DeliveryFree)
			tt.mutate(&s)
			_, err := Finalize(s, models.Cart{}, "c", time.Now())
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, ErrIncompleteSession)
		})
	}
}
