package services

import (
	"context"
	"encoding/json"
	"fmt"

	"pizza-telegram/db"
)

const roleKitchenCard = "kitchen_card"

// KitchenMessageMeta is stored with each card so the messages log can be
// joined back to orders.
type KitchenMessageMeta struct {
	OrderID   string `json:"order_id"`
	MessageID int    `json:"message_id"`
}

// LogKitchenMessage appends a card sent to a kitchen chat to the messages log.
func LogKitchenMessage(ctx context.Context, chatID int64, text string, meta KitchenMessageMeta) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal message meta: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO messages (chat_id, role, content, meta)
		VALUES ($1, $2, $3, $4::jsonb)`,
		chatID, roleKitchenCard, text, metaJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to log kitchen message: %w", err)
	}
	return nil
}
