package bot

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pizza-telegram/conversation"
	"pizza-telegram/models"
)

// chatOf returns the chat an update belongs to, 0 if none.
func chatOf(u tgbotapi.Update) int64 {
	switch {
	case u.Message != nil && u.Message.Chat != nil:
		return u.Message.Chat.ID
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil && u.CallbackQuery.Message.Chat != nil:
		return u.CallbackQuery.Message.Chat.ID
	case u.PreCheckoutQuery != nil && u.PreCheckoutQuery.From != nil:
		// invoices are only sent to private chats, where chat id equals user id
		return u.PreCheckoutQuery.From.ID
	}
	return 0
}

// command returns the bot command in text without the leading slash and any
// @botname suffix, or "" when text is not a command.
func command(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	name := strings.Fields(text)[0][1:]
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// messageEvent translates an inbound message. ok is false for messages the
// conversation does not consume.
func messageEvent(msg *tgbotapi.Message) (conversation.Event, bool) {
	if msg == nil {
		return conversation.Event{}, false
	}
	if p := msg.SuccessfulPayment; p != nil {
		return conversation.Event{
			Kind:     conversation.EventPaymentConfirmed,
			Payload:  p.InvoicePayload,
			ChargeID: p.TelegramPaymentChargeID,
		}, true
	}
	if l := msg.Location; l != nil {
		return conversation.Event{
			Kind:     conversation.EventSharedLocation,
			Location: &models.Coordinates{Latitude: l.Latitude, Longitude: l.Longitude},
		}, true
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return conversation.Event{}, false
	}
	switch command(text) {
	case "":
		return conversation.Event{Kind: conversation.EventText, Text: text}, true
	case "start":
		return conversation.Event{Kind: conversation.EventStart}, true
	case "cancel":
		return conversation.Event{Kind: conversation.EventCancel}, true
	}
	return conversation.Event{}, false
}

// callbackEvent translates inline button data.
func callbackEvent(data string, messageID int) (conversation.Event, bool) {
	ev := conversation.Event{MessageID: messageID}
	switch {
	case data == cbCart:
		ev.Kind = conversation.EventViewCart
	case data == cbMainMenu:
		ev.Kind = conversation.EventBackToMenu
	case data == cbOrder:
		ev.Kind = conversation.EventRequestOrder
	case data == cbPageInactive:
		ev.Kind = conversation.EventPageChange
	case strings.HasPrefix(data, cbPagePrefix):
		page, err := strconv.Atoi(strings.TrimPrefix(data, cbPagePrefix))
		if err != nil || page < 0 {
			return conversation.Event{}, false
		}
		ev.Kind = conversation.EventPageChange
		ev.Page = page
	case strings.HasPrefix(data, cbProduct):
		ev.Kind = conversation.EventSelectProduct
		ev.ProductID = strings.TrimPrefix(data, cbProduct)
	case strings.HasPrefix(data, cbAdd):
		ev.Kind = conversation.EventAddToCart
		ev.ProductID = strings.TrimPrefix(data, cbAdd)
	case strings.HasPrefix(data, cbRemove):
		ev.Kind = conversation.EventRemoveItem
		ev.ProductID = strings.TrimPrefix(data, cbRemove)
	case strings.HasPrefix(data, cbDelivery):
		t := models.DeliveryType(strings.TrimPrefix(data, cbDelivery))
		if !t.Valid() {
			return conversation.Event{}, false
		}
		ev.Kind = conversation.EventSelectDelivery
		ev.DeliveryType = t
	default:
		return conversation.Event{}, false
	}
	if ev.ProductID == "" && (ev.Kind == conversation.EventSelectProduct || ev.Kind == conversation.EventAddToCart || ev.Kind == conversation.EventRemoveItem) {
		return conversation.Event{}, false
	}
	return ev, true
}
