// Package geocoder resolves free-form addresses through the Yandex HTTP geocoder.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pizza-telegram/models"
)

const DefaultBaseURL = "https://geocode-maps.yandex.ru/1.x"

// Yandex is a client for the Yandex Geocoder API.
type Yandex struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func NewYandex(httpClient *http.Client, apiKey, baseURL string) *Yandex {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Yandex{httpClient: httpClient, apiKey: apiKey, baseURL: baseURL}
}

// typedLatLon reads "lat, lon" typed by the user so the API is skipped.
// isPair reports that query is two numbers; ok is false when they are not
// a usable coordinate (NaN, Inf, out of range).
func typedLatLon(query string) (c models.Coordinates, isPair, ok bool) {
	parts := strings.Split(strings.TrimSpace(query), ",")
	if len(parts) != 2 {
		return models.Coordinates{}, false, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return models.Coordinates{}, false, false
	}
	if !finite(lat) || !finite(lon) || lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return models.Coordinates{}, true, false
	}
	return models.Coordinates{Latitude: lat, Longitude: lon}, true, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Resolve returns the most relevant match for address. An empty result is
// found=false with a nil error; transport and HTTP failures are errors.
func (y *Yandex) Resolve(ctx context.Context, address string) (models.Coordinates, bool, error) {
	if strings.TrimSpace(address) == "" {
		return models.Coordinates{}, false, nil
	}
	if c, isPair, ok := typedLatLon(address); isPair {
		return c, ok, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	params := url.Values{}
	params.Set("geocode", address)
	params.Set("apikey", y.apiKey)
	params.Set("format", "json")
	params.Set("results", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("geocode: build request: %w", err)
	}
	resp, err := y.httpClient.Do(req)
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("geocode: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return models.Coordinates{}, false, fmt.Errorf("geocode: http %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var payload struct {
		Response struct {
			GeoObjectCollection struct {
				FeatureMember []struct {
					GeoObject struct {
						Point struct {
							Pos string `json:"pos"`
						} `json:"Point"`
					} `json:"GeoObject"`
				} `json:"featureMember"`
			} `json:"GeoObjectCollection"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.Coordinates{}, false, fmt.Errorf("geocode: decode: %w", err)
	}

	members := payload.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return models.Coordinates{}, false, nil
	}
	c, err := parsePos(members[0].GeoObject.Point.Pos)
	if err != nil {
		return models.Coordinates{}, false, fmt.Errorf("geocode: %w", err)
	}
	return c, true, nil
}

// parsePos reads the "lon lat" pair Yandex returns.
func parsePos(pos string) (models.Coordinates, error) {
	fields := strings.Fields(pos)
	if len(fields) != 2 {
		return models.Coordinates{}, errors.New("malformed pos " + strconv.Quote(pos))
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("parse longitude: %w", err)
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("parse latitude: %w", err)
	}
	if !finite(lat) || !finite(lon) {
		return models.Coordinates{}, errors.New("non-finite pos " + strconv.Quote(pos))
	}
	return models.Coordinates{Latitude: lat, Longitude: lon}, nil
}
