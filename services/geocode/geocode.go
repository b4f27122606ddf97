package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// ErrNoResults is returned when the address matched nothing.
var ErrNoResults = errors.New("address could not be geocoded")

// Geocoder resolves a street address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// geocodeResponse represents the subset of the Google Geocoding response we read.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

// GoogleGeocoder calls the Google Geocoding REST API.
type GoogleGeocoder struct {
	APIKey   string
	Endpoint string
	Client   *http.Client
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		APIKey:   apiKey,
		Endpoint: defaultEndpoint,
		Client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if g.APIKey == "" {
		return 0, 0, errors.New("geocoding API key not configured")
	}
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build geocoding request: %w", err)
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding returned HTTP %d", resp.StatusCode)
	}

	var data geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, 0, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	switch data.Status {
	case "OK":
	case "ZERO_RESULTS":
		return 0, 0, ErrNoResults
	default:
		return 0, 0, fmt.Errorf("geocoding failed with status %s: %s", data.Status, data.ErrorMessage)
	}
	if len(data.Results) == 0 {
		return 0, 0, ErrNoResults
	}
	loc := data.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}
