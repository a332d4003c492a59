package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pizza-telegram/conversation"
	"pizza-telegram/models"
)

func callbackData(btn tgbotapi.InlineKeyboardButton) string {
	if btn.CallbackData == nil {
		return ""
	}
	return *btn.CallbackData
}

func TestMenuKeyboard(t *testing.T) {
	products := make([]models.Product, 8)
	for i := range products {
		products[i] = models.Product{ID: string(rune('a' + i)), Name: "P"}
	}

	first, err := conversation.Paginate(products, 1)
	if err != nil {
		t.Fatal(err)
	}
	kb := menuKeyboard(first).InlineKeyboard
	// 6 products, cart, pager
	if len(kb) != 8 {
		t.Fatalf("rows = %d, want 8", len(kb))
	}
	if got := callbackData(kb[0][0]); got != "product:a" {
		t.Errorf("first product data = %q", got)
	}
	if got := callbackData(kb[6][0]); got != cbCart {
		t.Errorf("cart row data = %q", got)
	}
	if prev, next := callbackData(kb[7][0]), callbackData(kb[7][1]); prev != cbPageInactive || next != "page_2" {
		t.Errorf("pager = %q %q", prev, next)
	}

	last, _ := conversation.Paginate(products, 2)
	kb = menuKeyboard(last).InlineKeyboard
	if prev, next := callbackData(kb[3][0]), callbackData(kb[3][1]); prev != "page_1" || next != cbPageInactive {
		t.Errorf("last page pager = %q %q", prev, next)
	}

	single, _ := conversation.Paginate(products[:3], 1)
	if rows := len(menuKeyboard(single).InlineKeyboard); rows != 4 {
		t.Errorf("single page rows = %d, want 4 (no pager)", rows)
	}
}

func TestCartKeyboard(t *testing.T) {
	kb := cartKeyboard(models.Cart{Items: []models.CartItem{{ProductID: "p1", Name: "Margherita"}}}).InlineKeyboard
	if len(kb) != 3 {
		t.Fatalf("rows = %d, want 3", len(kb))
	}
	if got := callbackData(kb[0][0]); got != "remove:p1" {
		t.Errorf("remove data = %q", got)
	}
	if got := callbackData(kb[2][0]); got != cbOrder {
		t.Errorf("order data = %q", got)
	}
}

func TestDeliveryKeyboardRoundTrip(t *testing.T) {
	options := []models.DeliveryType{models.DeliveryShort, models.DeliveryPickup}
	kb := deliveryKeyboard(options).InlineKeyboard
	if len(kb) != 3 {
		t.Fatalf("rows = %d, want 3", len(kb))
	}
	for i, want := range options {
		ev, ok := callbackEvent(callbackData(kb[i][0]), 1)
		if !ok || ev.Kind != conversation.EventSelectDelivery || ev.DeliveryType != want {
			t.Errorf("row %d: event %+v ok=%v, want %s", i, ev, ok, want)
		}
	}
	if got := callbackData(kb[2][0]); got != cbMainMenu {
		t.Errorf("decline data = %q", got)
	}
}
