package services

import (
	"context"

	"pizza-telegram/models"
)

// Commerce is the Postgres commerce backend over db.Pool.
type Commerce struct{}

func (Commerce) ListProducts(ctx context.Context) ([]models.Product, error) {
	return ListProducts(ctx)
}

func (Commerce) GetProduct(ctx context.Context, id string) (models.Product, error) {
	return GetProduct(ctx, id)
}

func (Commerce) GetCart(ctx context.Context, key string) (models.Cart, error) {
	return GetCart(ctx, key)
}

func (Commerce) AddItem(ctx context.Context, key, productID string, qty int) error {
	return AddCartItem(ctx, key, productID, qty)
}

func (Commerce) RemoveItem(ctx context.Context, key, productID string) error {
	return RemoveCartItem(ctx, key, productID)
}

func (Commerce) ClearCart(ctx context.Context, key string) error {
	return DeleteCart(ctx, key)
}

func (Commerce) CreateCustomer(ctx context.Context, c models.Customer) error {
	return CreateCustomer(ctx, c)
}

func (Commerce) ListFulfillingLocations(ctx context.Context) ([]models.FulfillingLocation, error) {
	return ListFulfillingLocations(ctx)
}

func (Commerce) SaveOrder(ctx context.Context, o models.Order) error {
	return SaveOrder(ctx, o)
}

// RecordNotification remembers the kitchen card sent for an order. The
// pointer must exist for Notified to report true; the message log is best effort.
func (Commerce) RecordNotification(ctx context.Context, chatID int64, messageID int, orderID, text string) error {
	card := KitchenCard{ChatID: chatID, MessageID: messageID}
	if err := UpsertOrderMessagePointer(ctx, orderID, AudienceKitchen, card); err != nil {
		return err
	}
	return LogKitchenMessage(ctx, chatID, text, KitchenMessageMeta{OrderID: orderID, MessageID: messageID})
}

// Notified reports whether the kitchen already has a card for orderID.
func (Commerce) Notified(ctx context.Context, orderID string) (bool, error) {
	_, ok, err := GetOrderMessagePointer(ctx, orderID, AudienceKitchen)
	return ok, err
}

func (Commerce) DailyStats(ctx context.Context, date string) (*DailyStats, error) {
	return GetDailyStats(ctx, date)
}
