package services

import (
	"context"
	"encoding/json"
	"fmt"

	"pizza-telegram/db"
	"pizza-telegram/models"
)

const OrderStatusPaid = "paid"

// SaveOrder stores a finalized order. Saving the same order twice is a no-op.
func SaveOrder(ctx context.Context, o models.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	var distance *float64
	if o.Delivery != nil {
		distance = &o.Delivery.DistanceKm
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO orders (
			id, chat_id, customer_name, customer_email, lat, lon,
			location_id, delivery_type, distance_km, items,
			items_total, delivery_fee, grand_total, charge_id, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO NOTHING`,
		o.ID, o.ChatID, o.Customer.Name, o.Customer.Email,
		o.Customer.Location.Latitude, o.Customer.Location.Longitude,
		o.Location.ID, string(o.DeliveryType), distance, itemsJSON,
		o.ItemsTotal, o.DeliveryFee, o.GrandTotal, o.ChargeID, OrderStatusPaid, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

type DailyStats struct {
	OrdersCount     int
	ItemsRevenue    int64
	DeliveryRevenue int64
	GrandRevenue    int64
	PickupCount     int
}

// GetDailyStats sums paid orders for a date in YYYY-MM-DD form.
func GetDailyStats(ctx context.Context, date string) (*DailyStats, error) {
	var s DailyStats
	err := db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*)::int,
			COALESCE(SUM(items_total), 0)::bigint,
			COALESCE(SUM(delivery_fee), 0)::bigint,
			COALESCE(SUM(grand_total), 0)::bigint,
			COUNT(*) FILTER (WHERE delivery_type = 'pickup')::int
		FROM orders
		WHERE created_at::date = $1::date`,
		date,
	).Scan(&s.OrdersCount, &s.ItemsRevenue, &s.DeliveryRevenue, &s.GrandRevenue, &s.PickupCount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
