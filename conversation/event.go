package conversation

import "pizza-telegram/models"

type EventKind int

const (
	EventStart EventKind = iota + 1
	EventCancel
	EventPageChange
	EventSelectProduct
	EventViewCart
	EventAddToCart
	EventBackToMenu
	EventRemoveItem
	EventRequestOrder
	EventText
	EventSharedLocation
	EventSelectDelivery
	EventPaymentConfirmed
)

var eventNames = map[EventKind]string{
	EventStart:            "start",
	EventCancel:           "cancel",
	EventPageChange:       "page_change",
	EventSelectProduct:    "select_product",
	EventViewCart:         "view_cart",
	EventAddToCart:        "add_to_cart",
	EventBackToMenu:       "back_to_menu",
	EventRemoveItem:       "remove_item",
	EventRequestOrder:     "request_order",
	EventText:             "text",
	EventSharedLocation:   "shared_location",
	EventSelectDelivery:   "select_delivery",
	EventPaymentConfirmed: "payment_confirmed",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "unknown"
}

// Event is one inbound user action. Only the fields relevant to Kind are set.
type Event struct {
	Kind         EventKind
	Page         int
	ProductID    string
	Text         string
	Location     *models.Coordinates
	DeliveryType models.DeliveryType
	Payload      string
	ChargeID     string
	// MessageID is the message whose button produced the event, 0 for typed input.
	MessageID int
}
