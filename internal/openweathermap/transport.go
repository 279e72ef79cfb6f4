package openweathermap

import (
	"net/http"

	"golang.org/x/time/rate"
)

// throttledTransport applies a client-side rate limit before each outbound
// request, keeping runs inside the OpenWeatherMap request budget even when
// the tool is scripted in a loop. Waiting respects the request context.
type throttledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func newThrottledTransport(base http.RoundTripper, limiter *rate.Limiter) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &throttledTransport{base: base, limiter: limiter}
}

func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
