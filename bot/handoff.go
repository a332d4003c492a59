package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pizza-telegram/conversation"
	"pizza-telegram/models"
)

// notificationLog is implemented by backends that remember which orders
// were already announced to a kitchen.
type notificationLog interface {
	RecordNotification(ctx context.Context, chatID int64, messageID int, orderID, text string) error
	Notified(ctx context.Context, orderID string) (bool, error)
}

// handOff passes a paid order to its fulfilling location and the backend.
// Failures are logged; the customer's session is already finalized.
func (b *Bot) handOff(ctx context.Context, o models.Order) {
	err := b.retry(ctx, func() error { return b.backend.SaveOrder(ctx, o) })
	if err != nil {
		log.Printf("ALERT save order failed order_id=%s chat_id=%d charge_id=%s: %v", o.ID, o.ChatID, o.ChargeID, err)
	}
	b.notifyLocation(ctx, o)

	if err := b.backend.CreateCustomer(ctx, o.Customer); err != nil {
		log.Printf("create customer failed order_id=%s: %v", o.ID, err)
	}
	key := conversation.Session{ChatID: o.ChatID}.CartKey()
	if err := b.backend.ClearCart(ctx, key); err != nil {
		log.Printf("clear cart failed chat_id=%d: %v", o.ChatID, err)
	}
}

func (b *Bot) notifyLocation(ctx context.Context, o models.Order) {
	chat := o.Location.NotificationChatID
	if chat == 0 {
		log.Printf("warning: no notification chat for location %s order_id=%s", o.Location.ID, o.ID)
		b.alertAdmin(orderCardText(o))
		return
	}
	nl, logged := b.backend.(notificationLog)
	if logged {
		done, err := nl.Notified(ctx, o.ID)
		if err != nil {
			log.Printf("check notification failed order_id=%s: %v", o.ID, err)
		}
		if done {
			return
		}
	}

	text := orderCardText(o)
	sent, err := b.api.Send(tgbotapi.NewMessage(chat, text))
	if err != nil {
		log.Printf("notify location failed location=%s order_id=%s: %v", o.Location.ID, o.ID, err)
		return
	}
	if d := o.Delivery; d != nil {
		pin := tgbotapi.NewLocation(chat, d.Coordinates.Latitude, d.Coordinates.Longitude)
		if _, err := b.api.Send(pin); err != nil {
			log.Printf("send location failed order_id=%s: %v", o.ID, err)
		}
	}
	if logged {
		if err := nl.RecordNotification(ctx, chat, sent.MessageID, o.ID, text); err != nil {
			log.Printf("record notification failed order_id=%s: %v", o.ID, err)
		}
	}
}
