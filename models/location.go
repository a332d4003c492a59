package models

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FulfillingLocation is a kitchen or shop that prepares and ships orders.
// DistanceKm is computed per resolution and never stored.
type FulfillingLocation struct {
	ID                 string  `json:"id" yaml:"id"`
	Address            string  `json:"address" yaml:"address"`
	Latitude           float64 `json:"latitude" yaml:"latitude"`
	Longitude          float64 `json:"longitude" yaml:"longitude"`
	NotificationChatID int64   `json:"notification_chat_id" yaml:"notification_chat_id"`
	DistanceKm         float64 `json:"-" yaml:"-"`
}

func (l FulfillingLocation) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}
