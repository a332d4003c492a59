package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pizza-telegram/db"
	"pizza-telegram/models"

	"github.com/jackc/pgx/v5"
)

func GetCart(ctx context.Context, key string) (models.Cart, error) {
	var itemsJSON []byte
	err := db.Pool.QueryRow(ctx, `SELECT items FROM carts WHERE cart_key = $1`, key).Scan(&itemsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		// Cart doesn't exist, return empty cart
		return models.Cart{Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("failed to load cart: %w", err)
	}
	items, err := unmarshalItems(itemsJSON)
	if err != nil {
		return models.Cart{}, err
	}
	return models.Cart{Items: items}, nil
}

// AddCartItem increments the product's quantity, adding a line if needed.
func AddCartItem(ctx context.Context, key, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("add cart item %q: quantity must be positive", productID)
	}
	p, err := GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	return mutateCart(ctx, key, func(items []models.CartItem) []models.CartItem {
		return addLine(items, p, qty)
	})
}

func RemoveCartItem(ctx context.Context, key, productID string) error {
	return mutateCart(ctx, key, func(items []models.CartItem) []models.CartItem {
		return removeLine(items, productID)
	})
}

func DeleteCart(ctx context.Context, key string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM carts WHERE cart_key = $1`, key)
	return err
}

// mutateCart applies fn to the cart under a row lock.
func mutateCart(ctx context.Context, key string, fn func([]models.CartItem) []models.CartItem) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cart tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var itemsJSON []byte
	err = tx.QueryRow(ctx, `SELECT items FROM carts WHERE cart_key = $1 FOR UPDATE`, key).Scan(&itemsJSON)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to lock cart: %w", err)
	}
	items, err := unmarshalItems(itemsJSON)
	if err != nil {
		return err
	}
	items = fn(items)

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart items: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO carts (cart_key, items, items_total, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (cart_key) DO UPDATE SET
			items = $2,
			items_total = $3,
			updated_at = now()`,
		key, data, models.Cart{Items: items}.Total(),
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return tx.Commit(ctx)
}

func unmarshalItems(data []byte) ([]models.CartItem, error) {
	items := []models.CartItem{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart items: %w", err)
	}
	return items, nil
}

func addLine(items []models.CartItem, p models.Product, qty int) []models.CartItem {
	for i := range items {
		if items[i].ProductID == p.ID {
			items[i].Quantity += qty
			return items
		}
	}
	return append(items, models.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
	})
}

func removeLine(items []models.CartItem, productID string) []models.CartItem {
	out := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}
