package services

import (
	"context"
	"fmt"
	"strconv"

	"pizza-telegram/db"
	"pizza-telegram/models"
)

// ListFulfillingLocations returns all active kitchens in id order.
func ListFulfillingLocations(ctx context.Context) ([]models.FulfillingLocation, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, address, lat, lon, notification_chat_id
		FROM locations
		WHERE active
		ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var res []models.FulfillingLocation
	for rows.Next() {
		var id int64
		var l models.FulfillingLocation
		if err := rows.Scan(&id, &l.Address, &l.Latitude, &l.Longitude, &l.NotificationChatID); err != nil {
			return nil, err
		}
		l.ID = strconv.FormatInt(id, 10)
		res = append(res, l)
	}
	return res, rows.Err()
}
