package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizza-telegram/models"
)

const foundBody = `{"response":{"GeoObjectCollection":{"featureMember":[
  {"GeoObject":{"Point":{"pos":"37.617635 55.755814"}}},
  {"GeoObject":{"Point":{"pos":"30.315635 59.938951"}}}
]}}}`

const emptyBody = `{"response":{"GeoObjectCollection":{"featureMember":[]}}}`

func newServer(t *testing.T, status int, body string) (*httptest.Server, *url.Values) {
	t.Helper()
	var seen url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestResolveFound(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, foundBody)
	y := NewYandex(srv.Client(), "key-1", srv.URL)

	c, found, err := y.Resolve(context.Background(), "Красная площадь, 1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.Coordinates{Latitude: 55.755814, Longitude: 37.617635}, c)

	q := *seen
	assert.Equal(t, "Красная площадь, 1", q.Get("geocode"))
	assert.Equal(t, "key-1", q.Get("apikey"))
	assert.Equal(t, "json", q.Get("format"))
}

func TestResolveNotFound(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, emptyBody)
	y := NewYandex(srv.Client(), "k", srv.URL)

	_, found, err := y.Resolve(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolveHTTPError(t *testing.T) {
	srv, _ := newServer(t, http.StatusForbidden, `{"error":"Invalid key"}`)
	y := NewYandex(srv.Client(), "bad", srv.URL)

	_, found, err := y.Resolve(context.Background(), "Tverskaya 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.False(t, found)
}

func TestResolveMalformedBody(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"response":`)
	y := NewYandex(srv.Client(), "k", srv.URL)

	_, _, err := y.Resolve(context.Background(), "Tverskaya 1")
	assert.Error(t, err)
}

func TestResolveTypedCoordinatesSkipsAPI(t *testing.T) {
	// Nothing listens here, so any API call would fail the case.
	y := NewYandex(nil, "k", "http://127.0.0.1:1")
	tests := []struct {
		in        string
		want      models.Coordinates
		wantFound bool
	}{
		{" 55.75, 37.61 ", models.Coordinates{Latitude: 55.75, Longitude: 37.61}, true},
		{"-33.86,151.2", models.Coordinates{Latitude: -33.86, Longitude: 151.2}, true},
		{"NaN, NaN", models.Coordinates{}, false},
		{"55.75, nan", models.Coordinates{}, false},
		{"Inf, 37.61", models.Coordinates{}, false},
		{"91, 37.61", models.Coordinates{}, false},
		{"55.75, 181", models.Coordinates{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, found, err := y.Resolve(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestResolveBlank(t *testing.T) {
	y := NewYandex(nil, "k", "http://127.0.0.1:0")
	_, found, err := y.Resolve(context.Background(), "   ")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestParsePos(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Coordinates
		wantErr bool
	}{
		{"37.6 55.7", models.Coordinates{Latitude: 55.7, Longitude: 37.6}, false},
		{"37.6", models.Coordinates{}, true},
		{"x 55.7", models.Coordinates{}, true},
		{"37.6 y", models.Coordinates{}, true},
		{"NaN NaN", models.Coordinates{}, true},
		{"37.6 +Inf", models.Coordinates{}, true},
	}
	for _, tt := range tests {
		got, err := parsePos(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePos(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePos(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
