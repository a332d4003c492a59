package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizza-telegram/models"
)

const sample = `
products:
  - id: margherita
    name: Margherita
    description: Tomato, mozzarella, basil
    price: 49000
  - id: pepperoni
    name: Pepperoni
    price: 59000
    image_url: https://example.com/pepperoni.jpg
locations:
  - id: center
    address: Tverskaya 1
    latitude: 55.7575
    longitude: 37.6130
    notification_chat_id: -100123
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Margherita", products[0].Name)
	assert.Equal(t, int64(59000), products[1].Price)
	assert.Equal(t, "https://example.com/pepperoni.jpg", products[1].ImageURL)

	locs, err := c.ListFulfillingLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, int64(-100123), locs[0].NotificationChatID)
	assert.Zero(t, locs[0].DistanceKm)
}

func TestParseRejectsBadProducts(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing id", "products:\n  - name: X\n    price: 1\n"},
		{"duplicate id", "products:\n  - id: a\n  - id: a\n"},
		{"negative price", "products:\n  - id: a\n    price: -5\n"},
		{"not yaml", "products: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestCartIncrementsAndRemoves(t *testing.T) {
	ctx := context.Background()
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.NoError(t, c.AddItem(ctx, "42", "margherita", 1))
	require.NoError(t, c.AddItem(ctx, "42", "margherita", 1))
	require.NoError(t, c.AddItem(ctx, "42", "pepperoni", 1))

	cart, err := c.GetCart(ctx, "42")
	require.NoError(t, err)
	line, ok := cart.Line("margherita")
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, int64(2*49000+59000), cart.Total())

	require.NoError(t, c.RemoveItem(ctx, "42", "margherita"))
	require.NoError(t, c.RemoveItem(ctx, "42", "margherita"))
	cart, err = c.GetCart(ctx, "42")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	other, err := c.GetCart(ctx, "7")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())

	require.NoError(t, c.ClearCart(ctx, "42"))
	cart, err = c.GetCart(ctx, "42")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestUnknownProduct(t *testing.T) {
	c := New(nil, nil)
	_, err := c.GetProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, c.AddItem(context.Background(), "1", "nope", 1), models.ErrNotFound)
}
