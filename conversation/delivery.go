package conversation

import (
	"fmt"
	"math"

	"pizza-telegram/models"
)

const earthRadiusKm = 6371.0

// Tier limits in km. A distance equal to a limit falls into the cheaper tier.
const (
	freeDeliveryLimitKm  = 0.5
	shortDeliveryLimitKm = 5.0
	longDeliveryLimitKm  = 20.0
)

var deliveryCosts = map[models.DeliveryType]int64{
	models.DeliveryPickup: 0,
	models.DeliveryFree:   0,
	models.DeliveryShort:  10000,
	models.DeliveryLong:   30000,
}

// HaversineDistanceKm returns the great-circle distance in km between two points.
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push a past 1 for near-antipodal points.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Resolution is the nearest fulfilling location and what can be offered for it.
type Resolution struct {
	Location models.FulfillingLocation
	Options  []models.DeliveryType
}

// Courier returns the paid or free courier option, if one is offered.
func (r Resolution) Courier() (models.DeliveryType, bool) {
	for _, o := range r.Options {
		if o != models.DeliveryPickup {
			return o, true
		}
	}
	return "", false
}

// Resolve picks the candidate nearest to customer. Ties keep the earlier candidate.
// Coordinates that are not finite or out of range are a ValidationError.
func Resolve(customer models.Coordinates, candidates []models.FulfillingLocation) (Resolution, error) {
	if !validCoordinates(customer.Latitude, customer.Longitude) {
		return Resolution{}, NewValidationError("location", fmt.Errorf("bad coordinates %v, %v", customer.Latitude, customer.Longitude))
	}
	if len(candidates) == 0 {
		return Resolution{}, fmt.Errorf("%w: no fulfilling locations configured", ErrConfigurationFault)
	}
	distance := func(c models.FulfillingLocation) float64 {
		return HaversineDistanceKm(customer.Latitude, customer.Longitude, c.Latitude, c.Longitude)
	}
	best, bestDist := 0, distance(candidates[0])
	for i := 1; i < len(candidates); i++ {
		if d := distance(candidates[i]); d < bestDist || math.IsNaN(bestDist) {
			best, bestDist = i, d
		}
	}
	if math.IsNaN(bestDist) {
		return Resolution{}, fmt.Errorf("%w: no fulfilling location has usable coordinates", ErrConfigurationFault)
	}
	loc := candidates[best]
	loc.DistanceKm = bestDist
	return Resolution{Location: loc, Options: OfferedOptions(bestDist)}, nil
}

// OfferedOptions classifies distance into the delivery options shown to the user.
// The courier option, when present, comes first; pickup is always last.
func OfferedOptions(distanceKm float64) []models.DeliveryType {
	switch {
	case distanceKm > longDeliveryLimitKm:
		return []models.DeliveryType{models.DeliveryPickup}
	case distanceKm > shortDeliveryLimitKm:
		return []models.DeliveryType{models.DeliveryLong, models.DeliveryPickup}
	case distanceKm > freeDeliveryLimitKm:
		return []models.DeliveryType{models.DeliveryShort, models.DeliveryPickup}
	default:
		return []models.DeliveryType{models.DeliveryFree, models.DeliveryPickup}
	}
}

// DeliveryCost returns the price of a delivery option in minor units.
func DeliveryCost(t models.DeliveryType) (int64, bool) {
	c, ok := deliveryCosts[t]
	return c, ok
}

func validCoordinates(lat, lon float64) bool {
	finite := !math.IsNaN(lat) && !math.IsInf(lat, 0) && !math.IsNaN(lon) && !math.IsInf(lon, 0)
	return finite && lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func offered(options []models.DeliveryType, t models.DeliveryType) bool {
	for _, o := range options {
		if o == t {
			return true
		}
	}
	return false
}
