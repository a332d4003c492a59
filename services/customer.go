package services

import (
	"context"
	"fmt"

	"pizza-telegram/db"
	"pizza-telegram/models"
)

// CreateCustomer inserts the customer or refreshes name and last location by email.
func CreateCustomer(ctx context.Context, c models.Customer) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO customers (email, name, lat, lon)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			updated_at = now()`,
		c.Email, c.Name, c.Location.Latitude, c.Location.Longitude,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}
