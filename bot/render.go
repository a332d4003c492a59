package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pizza-telegram/conversation"
)

func (b *Bot) render(ctx context.Context, chatID int64, r conversation.Reply) {
	switch r.Screen {
	case conversation.ScreenMenu:
		if r.Menu != nil {
			b.show(chatID, r, textMenu, menuKeyboard(*r.Menu))
		}
	case conversation.ScreenProduct:
		if r.Product != nil {
			b.showProduct(chatID, r)
		}
	case conversation.ScreenCart:
		if r.Cart != nil {
			b.show(chatID, r, cartText(*r.Cart), cartKeyboard(*r.Cart))
		}
	case conversation.ScreenAskName:
		b.send(chatID, textAskName)
	case conversation.ScreenAskEmail:
		b.send(chatID, textAskEmail)
	case conversation.ScreenEmailInvalid:
		b.send(chatID, textEmailInvalid)
	case conversation.ScreenAskLocation:
		b.send(chatID, textAskLocation)
	case conversation.ScreenAddressUnknown:
		b.send(chatID, textAddressUnknown)
	case conversation.ScreenDeliveryOffer:
		if r.Offer != nil {
			b.sendWithInline(chatID, offerText(*r.Offer), deliveryKeyboard(r.Offer.Options))
		}
	case conversation.ScreenInvoice:
		if r.Invoice != nil {
			b.sendInvoice(ctx, chatID, *r.Invoice)
		}
	case conversation.ScreenThanks:
		b.send(chatID, textThanks)
	case conversation.ScreenCancelled:
		b.send(chatID, textCancelled)
	}
}

// show edits the message the button belongs to, or sends a new one when the
// reply does not replace anything or the edit is refused (photo messages
// have no text to edit).
func (b *Bot) show(chatID int64, r conversation.Reply, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if r.Replace && r.MessageID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, r.MessageID, text, kb)
		_, err := b.api.Send(edit)
		if err == nil || notModified(err) {
			return
		}
		b.sendWithInline(chatID, text, kb)
		b.deleteMessage(chatID, r.MessageID)
		return
	}
	b.sendWithInline(chatID, text, kb)
}

func (b *Bot) showProduct(chatID int64, r conversation.Reply) {
	p := r.Product.Product
	text := productText(*r.Product)
	kb := productKeyboard(p.ID)
	if p.ImageURL == "" {
		b.show(chatID, r, text, kb)
		return
	}
	if r.Replace && r.MessageID != 0 {
		edit := tgbotapi.NewEditMessageCaption(chatID, r.MessageID, text)
		edit.ReplyMarkup = &kb
		if _, err := b.api.Send(edit); err == nil || notModified(err) {
			return
		}
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(p.ImageURL))
	photo.Caption = text
	photo.ReplyMarkup = kb
	if _, err := b.api.Send(photo); err != nil {
		// broken image links still show the product
		b.show(chatID, r, text, kb)
		return
	}
	if r.Replace && r.MessageID != 0 {
		b.deleteMessage(chatID, r.MessageID)
	}
}
