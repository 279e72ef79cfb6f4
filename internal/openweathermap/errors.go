package openweathermap

import "errors"

// Sentinel errors classifying API failures. Call sites wrap them with the
// request-specific detail; the orchestrator matches on them with errors.Is
// and is the only place they become user-facing text.
var (
	ErrNetwork             = errors.New("network error")
	ErrInvalidAPIKey       = errors.New("invalid API key provided")
	ErrLocationNotFound    = errors.New("location not found")
	ErrCoordinatesNotFound = errors.New("weather data not found for the provided coordinates")
	ErrUpstream            = errors.New("upstream API error")
	ErrParse               = errors.New("unexpected API response")
)
