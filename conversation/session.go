package conversation

import (
	"time"

	"pizza-telegram/models"
)

type State string

const (
	StateMenu               State = "menu"
	StateProductDescription State = "product_description"
	StateCart               State = "cart"
	StateOrder              State = "order"
	StateAwaitingContact    State = "awaiting_contact"
	StateAwaitingLocation   State = "awaiting_location"
	StateTerminated         State = "terminated"
)

// Active reports whether the session is inside a flow started by Start.
func (s State) Active() bool {
	return s != "" && s != StateTerminated
}

// Session is everything the bot remembers about one chat.
type Session struct {
	ChatID             int64                      `json:"chat_id"`
	State              State                      `json:"state"`
	Contact            Contact                    `json:"contact"`
	Location           *models.Coordinates        `json:"location,omitempty"`
	FulfillingLocation *models.FulfillingLocation `json:"fulfilling_location,omitempty"`
	DeliveryType       models.DeliveryType        `json:"delivery_type,omitempty"`
	InvoicePayload     string                     `json:"invoice_payload,omitempty"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

func NewSession(chatID int64) Session {
	return Session{ChatID: chatID, State: StateMenu}
}

// CartKey identifies the chat's cart in the commerce backend.
func (s Session) CartKey() string {
	return cartKey(s.ChatID)
}

// DistanceKm recomputes the distance between the customer and the resolved
// fulfilling location. ok is false until both are known.
func (s Session) DistanceKm() (float64, bool) {
	if s.Location == nil || s.FulfillingLocation == nil {
		return 0, false
	}
	fl := s.FulfillingLocation
	return HaversineDistanceKm(s.Location.Latitude, s.Location.Longitude, fl.Latitude, fl.Longitude), true
}

// OfferedOptions re-derives the delivery options for the stored coordinates.
func (s Session) OfferedOptions() []models.DeliveryType {
	d, ok := s.DistanceKm()
	if !ok {
		return nil
	}
	return OfferedOptions(d)
}

func (s Session) clone() Session {
	c := s
	if s.Location != nil {
		loc := *s.Location
		c.Location = &loc
	}
	if s.FulfillingLocation != nil {
		fl := *s.FulfillingLocation
		c.FulfillingLocation = &fl
	}
	return c
}

// clearCheckout drops the delivery choice and the outstanding invoice token.
func (s *Session) clearCheckout() {
	s.DeliveryType = ""
	s.InvoicePayload = ""
}
