package conversation

import (
	"pizza-telegram/models"
)

// Screen is the kind of message the gateway should render.
type Screen int

const (
	ScreenMenu Screen = iota + 1
	ScreenProduct
	ScreenCart
	ScreenAskName
	ScreenAskEmail
	ScreenEmailInvalid
	ScreenAskLocation
	ScreenAddressUnknown
	ScreenDeliveryOffer
	ScreenInvoice
	ScreenThanks
	ScreenCancelled
)

type Reply struct {
	Screen Screen
	// Replace asks the gateway to edit MessageID instead of sending a new message.
	Replace   bool
	MessageID int

	Menu    *MenuPage
	Product *ProductView
	Cart    *models.Cart
	Offer   *DeliveryOffer
	Invoice *Invoice
	Order   *models.Order
}

type MenuPage struct {
	Products []models.Product
	Page     int // 1-based
	Pages    int
}

func (p MenuPage) HasPrev() bool { return p.Page > 1 }
func (p MenuPage) HasNext() bool { return p.Page < p.Pages }

type ProductView struct {
	Product models.Product
	InCart  *models.CartItem
}

type DeliveryOffer struct {
	Location models.FulfillingLocation
	Options  []models.DeliveryType
}

// Invoice is the payment request for the current cart and delivery choice.
type Invoice struct {
	Payload      string
	Items        []models.CartItem
	ItemsTotal   int64
	DeliveryType models.DeliveryType
	DeliveryFee  int64
}

func (i Invoice) Total() int64 {
	return i.ItemsTotal + i.DeliveryFee
}

// Toast is a short notice shown on the button the user pressed.
type Toast string

const (
	ToastAdded     Toast = "added"
	ToastCartEmpty Toast = "cart_empty"
	// ToastStale answers a button from an outdated screen; the current one is shown again.
	ToastStale     Toast = "stale"
)

// Transition is the outcome of applying one event to a session.
type Transition struct {
	Session Session
	Replies []Reply
	Toast   Toast
	// Order is set when the event finalized a paid order.
	Order *models.Order
	// Ignored means the event does not apply in the current state; nothing was changed.
	Ignored bool
}

const PageSize = 6

// PageCount returns the number of menu pages, at least 1.
func PageCount(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

// Paginate cuts products into the 1-based page.
func Paginate(products []models.Product, page int) (MenuPage, error) {
	pages := PageCount(len(products))
	if page < 1 || page > pages {
		return MenuPage{}, NewValidationError("page", nil)
	}
	from := (page - 1) * PageSize
	to := from + PageSize
	if to > len(products) {
		to = len(products)
	}
	return MenuPage{Products: products[from:to], Page: page, Pages: pages}, nil
}
