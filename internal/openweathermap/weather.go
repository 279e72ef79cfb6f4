package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"weather-cli/internal/model"
	"weather-cli/internal/timing"
)

// CurrentWeather fetches current conditions for the given coordinates. The
// decoded payload is returned as-is; field presence is the renderer's
// concern. The call is timed, with the elapsed time emitted through the
// structured logger.
func (c *Client) CurrentWeather(ctx context.Context, coords model.Coordinates, apiKey string) (*model.CurrentWeather, error) {
	return timing.Timed(c.log, "fetch current weather", func() (*model.CurrentWeather, error) {
		return c.fetchCurrentWeather(ctx, coords, apiKey)
	})
}

func (c *Client) fetchCurrentWeather(ctx context.Context, coords model.Coordinates, apiKey string) (*model.CurrentWeather, error) {
	reqURL, err := url.Parse(c.weatherURL)
	if err != nil {
		return nil, fmt.Errorf("invalid weather URL %q: %w", c.weatherURL, err)
	}
	params := reqURL.Query()
	params.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	params.Set("appid", apiKey)
	params.Set("units", c.units)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrInvalidAPIKey
	case resp.StatusCode == http.StatusNotFound:
		// Valid coordinates for which the service has no data. Distinct from
		// a geocoding miss.
		return nil, ErrCoordinatesNotFound
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather API returned status %d: %s: %w", resp.StatusCode, string(body), ErrUpstream)
	}

	var payload model.CurrentWeather
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding weather response: %v: %w", err, ErrParse)
	}
	return &payload, nil
}
