package bot

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pizza-telegram/conversation"
	"pizza-telegram/models"
)

// Callback data. Product ids are appended after the prefix.
const (
	cbCart         = "cart"
	cbMainMenu     = "main_menu"
	cbOrder        = "order"
	cbPagePrefix   = "page_"
	cbPageInactive = "page_inactive"
	cbProduct      = "product:"
	cbAdd          = "add:"
	cbRemove       = "remove:"
	cbDelivery     = "delivery_"
)

func pageData(page int) string {
	return cbPagePrefix + strconv.Itoa(page)
}

func menuKeyboard(p conversation.MenuPage) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, pr := range p.Products {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(pr.Name, cbProduct+pr.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Корзина", cbCart),
	))
	if p.Pages > 1 {
		prev, next := cbPageInactive, cbPageInactive
		if p.HasPrev() {
			prev = pageData(p.Page - 1)
		}
		if p.HasNext() {
			next = pageData(p.Page + 1)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Назад", prev),
			tgbotapi.NewInlineKeyboardButtonData("Вперед", next),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func productKeyboard(productID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Добавить в корзину", cbAdd+productID)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Корзина", cbCart)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Главное меню", cbMainMenu)),
	)
}

func cartKeyboard(c models.Cart) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range c.Items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Убрать "+it.Name+" из корзины", cbRemove+it.ProductID),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Главное меню", cbMainMenu)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Заказать", cbOrder)),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func deliveryKeyboard(options []models.DeliveryType) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range options {
		label := "Доставка"
		if t == models.DeliveryPickup {
			label = "Самовывоз"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbDelivery+string(t)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Отказаться", cbMainMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
