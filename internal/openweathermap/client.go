package openweathermap

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"weather-cli/internal/config"
)

// Client talks to the OpenWeatherMap geocoding and current-weather endpoints.
// Credential resolution stays outside the client: callers pass the API key
// per request.
type Client struct {
	httpClient   *http.Client
	geocodingURL string
	weatherURL   string
	units        string
	log          *zap.SugaredLogger
}

// NewClient creates a client configured from the application config. An
// optional *http.Client can be injected, primarily for tests; the default
// client carries a bounded timeout and a rate-limited transport.
func NewClient(httpClient ...*http.Client) *Client {
	limiter := rate.NewLimiter(rate.Limit(float64(config.RateLimitPerMinute())/60.0), config.RateLimitBurst())
	client := &http.Client{
		Timeout:   config.HTTPTimeout(),
		Transport: newThrottledTransport(http.DefaultTransport, limiter),
	}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &Client{
		httpClient:   client,
		geocodingURL: config.GeocodingURL(),
		weatherURL:   config.WeatherURL(),
		units:        config.Units(),
		log:          config.GetLogger(),
	}
}
