package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pizza-telegram/conversation"
	"pizza-telegram/models"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 ₽"},
		{10000, "100 ₽"},
		{41050, "410.50 ₽"},
		{5, "0.05 ₽"},
		{-1500, "-15 ₽"},
	}
	for _, tt := range tests {
		if got := formatPrice(tt.in); got != tt.want {
			t.Errorf("formatPrice(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCartText(t *testing.T) {
	assert.Equal(t, textCartEmpty, cartText(models.Cart{}))

	c := models.Cart{Items: []models.CartItem{
		{ProductID: "p1", Name: "Margherita", UnitPrice: 41000, Quantity: 2},
		{ProductID: "p2", Name: "Pepperoni", UnitPrice: 45000, Quantity: 1},
	}}
	got := cartText(c)
	assert.Contains(t, got, "Margherita\n410 ₽ за шт.\n2 шт. в корзине на сумму 820 ₽")
	assert.Contains(t, got, "Pepperoni\n450 ₽ за шт.")
	assert.True(t, strings.HasSuffix(got, "Всего: 1270 ₽"), got)
}

func TestProductText(t *testing.T) {
	v := conversation.ProductView{Product: models.Product{ID: "p1", Name: "Margherita", Description: "Tomato", Price: 41000}}
	assert.Equal(t, "Margherita\n\n410 ₽\n\nTomato", productText(v))

	v.InCart = &models.CartItem{ProductID: "p1", UnitPrice: 41000, Quantity: 3}
	assert.Contains(t, productText(v), "3 шт. на сумму 1230 ₽ уже в корзине")
}

func TestOfferText(t *testing.T) {
	loc := models.FulfillingLocation{Address: "Tverskaya 1"}
	tests := []struct {
		name    string
		options []models.DeliveryType
		want    string
	}{
		{"pickup only", []models.DeliveryType{models.DeliveryPickup}, "не сможем доставить"},
		{"free", []models.DeliveryType{models.DeliveryFree, models.DeliveryPickup}, "бесплатно"},
		{"short", []models.DeliveryType{models.DeliveryShort, models.DeliveryPickup}, "100 ₽"},
		{"long", []models.DeliveryType{models.DeliveryLong, models.DeliveryPickup}, "300 ₽"},
	}
	for _, tt := range tests {
		got := offerText(conversation.DeliveryOffer{Location: loc, Options: tt.options})
		assert.Contains(t, got, tt.want, tt.name)
		assert.Contains(t, got, "Tverskaya 1", tt.name)
	}
}

func TestOrderCardText(t *testing.T) {
	o := models.Order{
		ID:         "o-1",
		Customer:   models.Customer{Name: "Ann", Email: "ann@x.co"},
		Items:      []models.OrderItem{{Name: "Margherita", Quantity: 2}},
		GrandTotal: 82000,
		SelfPickup: true,
	}
	got := orderCardText(o)
	assert.Contains(t, got, "Ann оставил новый заказ")
	assert.Contains(t, got, "Margherita: 2 шт.")
	assert.Contains(t, got, "самостоятельно")

	o.SelfPickup = false
	o.Delivery = &models.Delivery{DistanceKm: 3.456}
	assert.Contains(t, orderCardText(o), "3.46 км")
}
