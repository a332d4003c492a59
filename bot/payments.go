package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pizza-telegram/conversation"
)

func (b *Bot) sendInvoice(ctx context.Context, chatID int64, inv conversation.Invoice) {
	prices := []tgbotapi.LabeledPrice{{Label: invoicePriceLabel, Amount: int(inv.Total())}}
	cfg := tgbotapi.NewInvoice(chatID, invoiceTitle, invoiceDescription(inv), inv.Payload,
		b.cfg.Payments.ProviderToken, "", b.cfg.Payments.Currency, prices)
	// telegram rejects a null tip list
	cfg.SuggestedTipAmounts = []int{}

	err := b.retry(ctx, func() error {
		_, err := b.api.Send(cfg)
		return err
	})
	if err != nil {
		log.Printf("send invoice failed chat_id=%d: %v", chatID, err)
		b.send(chatID, textTryAgain)
	}
}

// handlePreCheckout answers whether the invoice is still the chat's
// outstanding one. The session is not touched.
func (b *Bot) handlePreCheckout(ctx context.Context, q *tgbotapi.PreCheckoutQuery) {
	if q.From == nil {
		return
	}
	chatID := q.From.ID
	err := b.conv.ValidatePayment(ctx, chatID, q.InvoicePayload)
	if err == nil && q.Currency != b.cfg.Payments.Currency {
		err = conversation.ErrPaymentMismatch
	}
	ans := tgbotapi.PreCheckoutConfig{PreCheckoutQueryID: q.ID, OK: err == nil}
	if err != nil {
		log.Printf("pre-checkout rejected chat_id=%d: %v", chatID, err)
		ans.ErrorMessage = textPreCheckoutBad
	}
	if _, err := b.api.Request(ans); err != nil {
		log.Printf("answer pre-checkout failed chat_id=%d: %v", chatID, err)
	}
}
