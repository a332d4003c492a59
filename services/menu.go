package services

import (
	"context"
	"errors"
	"fmt"

	"pizza-telegram/db"
	"pizza-telegram/models"

	"github.com/jackc/pgx/v5"
)

func ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, description, price, image_url FROM products
		WHERE active
		ORDER BY position, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func GetProduct(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, description, price, image_url FROM products
		WHERE id = $1 AND active`,
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, fmt.Errorf("product %q: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}
