package services

import (
	"context"
	"errors"
	"fmt"

	"pizza-telegram/db"

	"github.com/jackc/pgx/v5"
)

// AudienceKitchen is the fulfilling location's notification chat.
const AudienceKitchen = "kitchen"

// KitchenCard is where an order's card was posted for one audience.
type KitchenCard struct {
	ChatID    int64
	MessageID int
}

// GetOrderMessagePointer returns the card posted for (orderID, audience).
// ok is false when the order was never announced to that audience.
func GetOrderMessagePointer(ctx context.Context, orderID, audience string) (card KitchenCard, ok bool, err error) {
	err = db.Pool.QueryRow(ctx, `
		SELECT chat_id, message_id FROM order_message_pointers
		WHERE order_id = $1 AND audience = $2`,
		orderID, audience,
	).Scan(&card.ChatID, &card.MessageID)
	if errors.Is(err, pgx.ErrNoRows) {
		return KitchenCard{}, false, nil
	}
	if err != nil {
		return KitchenCard{}, false, fmt.Errorf("failed to get card for order %s: %w", orderID, err)
	}
	return card, true, nil
}

// UpsertOrderMessagePointer records the card for (orderID, audience). The
// order row must exist; migrations/001_init.sql owns the table.
func UpsertOrderMessagePointer(ctx context.Context, orderID, audience string, card KitchenCard) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO order_message_pointers (order_id, audience, chat_id, message_id, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (order_id, audience) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			message_id = EXCLUDED.message_id,
			updated_at = now()`,
		orderID, audience, card.ChatID, card.MessageID,
	)
	if err != nil {
		return fmt.Errorf("failed to save card for order %s: %w", orderID, err)
	}
	return nil
}
