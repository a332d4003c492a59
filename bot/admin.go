package bot

import (
	"context"
	"strings"
	"time"

	"pizza-telegram/services"
)

type statsSource interface {
	DailyStats(ctx context.Context, date string) (*services.DailyStats, error)
}

// handleStats answers /stats [YYYY-MM-DD] for the operator.
func (b *Bot) handleStats(ctx context.Context, chatID int64, userID int64, text string) {
	if b.admin == 0 || userID != b.admin {
		b.send(chatID, "Unauthorized.")
		return
	}
	src, ok := b.backend.(statsSource)
	if !ok {
		b.send(chatID, "Статистика доступна только с базой данных.")
		return
	}
	date := time.Now().Format("2006-01-02")
	parts := strings.Fields(text)
	if len(parts) > 1 {
		if _, err := time.Parse("2006-01-02", parts[1]); err != nil {
			b.send(chatID, "Использование: /stats YYYY-MM-DD")
			return
		}
		date = parts[1]
	}

	stats, err := src.DailyStats(ctx, date)
	if err != nil {
		b.send(chatID, "Stats failed: "+err.Error())
		return
	}
	b.send(chatID, statsText(date, stats))
}
