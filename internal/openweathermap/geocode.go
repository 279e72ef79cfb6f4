package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"weather-cli/internal/model"
)

// geocodeMatch mirrors one element of the geocoding response array. Lat and
// Lon are pointers so an absent field is detectable rather than read as 0.
type geocodeMatch struct {
	Name    string   `json:"name"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Country string   `json:"country"`
	State   string   `json:"state"`
}

// ResolveCoordinates resolves a free-text location to the first matching
// coordinate pair. The request asks the service for a single match, so
// anything beyond the first is discarded unseen.
func (c *Client) ResolveCoordinates(ctx context.Context, query model.LocationQuery, apiKey string) (model.Coordinates, error) {
	q := query.String()

	reqURL, err := url.Parse(c.geocodingURL)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("invalid geocoding URL %q: %w", c.geocodingURL, err)
	}
	params := reqURL.Query()
	params.Set("q", q)
	params.Set("limit", "1")
	params.Set("appid", apiKey)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("building geocoding request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("geocoding request failed: %w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	// 401 is classified before any generic status handling.
	if resp.StatusCode == http.StatusUnauthorized {
		return model.Coordinates{}, ErrInvalidAPIKey
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return model.Coordinates{}, fmt.Errorf("geocoding returned status %d: %s: %w", resp.StatusCode, string(body), ErrUpstream)
	}

	var matches []geocodeMatch
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return model.Coordinates{}, fmt.Errorf("decoding geocoding response: %v: %w", err, ErrParse)
	}

	if len(matches) == 0 {
		return model.Coordinates{}, fmt.Errorf("location '%s': %w", q, ErrLocationNotFound)
	}

	first := matches[0]
	if first.Lat == nil {
		return model.Coordinates{}, fmt.Errorf("first geocoding match is missing 'lat': %w", ErrParse)
	}
	if first.Lon == nil {
		return model.Coordinates{}, fmt.Errorf("first geocoding match is missing 'lon': %w", ErrParse)
	}

	return model.Coordinates{Lat: *first.Lat, Lon: *first.Lon}, nil
}
