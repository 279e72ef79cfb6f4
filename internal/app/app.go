// Package app sequences one weather lookup end to end: credential,
// coordinates, current conditions, report. The pipeline is strictly
// sequential with no retries; the first failure ends the run, and App is the
// single place errors become user-facing text.
package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"weather-cli/internal/cache"
	"weather-cli/internal/model"
)

// Geocoder resolves a free-text location to coordinates.
type Geocoder interface {
	ResolveCoordinates(ctx context.Context, query model.LocationQuery, apiKey string) (model.Coordinates, error)
}

// WeatherProvider fetches current conditions for coordinates.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, coords model.Coordinates, apiKey string) (*model.CurrentWeather, error)
}

// Renderer writes the final report for a weather payload. It handles its own
// extraction failures and never returns one.
type Renderer func(io.Writer, *model.CurrentWeather)

// KeyResolver returns the API key to use given the explicit flag value.
type KeyResolver func(explicit string) (string, error)

// Options wires an App. Coords may be nil (caching disabled).
type Options struct {
	Geocoder   Geocoder
	Weather    WeatherProvider
	Render     Renderer
	ResolveKey KeyResolver
	Coords     *cache.Cache
	Out        io.Writer
	Log        *zap.SugaredLogger
}

type App struct {
	geocoder   Geocoder
	weather    WeatherProvider
	render     Renderer
	resolveKey KeyResolver
	coords     *cache.Cache
	out        io.Writer
	log        *zap.SugaredLogger
}

func New(opts Options) *App {
	return &App{
		geocoder:   opts.Geocoder,
		weather:    opts.Weather,
		render:     opts.Render,
		resolveKey: opts.ResolveKey,
		coords:     opts.Coords,
		out:        opts.Out,
		log:        opts.Log,
	}
}

// Run executes the pipeline for one location. Any failure is printed as a
// single "Error:" line on the output writer and also returned for callers
// that want to inspect it; the process is expected to exit normally either
// way. Run never panics: an unanticipated panic is reported like any other
// failure.
func (a *App) Run(ctx context.Context, query model.LocationQuery, explicitKey string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
			a.fail(err)
		}
	}()

	apiKey, err := a.resolveKey(explicitKey)
	if err != nil {
		a.fail(err)
		return err
	}

	a.log.Infow("resolving coordinates", "query", query.String())
	coords, err := a.lookupCoordinates(ctx, query, apiKey)
	if err != nil {
		a.fail(err)
		return err
	}
	a.log.Infow("coordinates resolved", "lat", coords.Lat, "lon", coords.Lon)

	payload, err := a.weather.CurrentWeather(ctx, coords, apiKey)
	if err != nil {
		a.fail(err)
		return err
	}

	a.render(a.out, payload)
	return nil
}

// lookupCoordinates consults the cache before the geocoding service. Cache
// participation is invisible to the rest of the pipeline.
func (a *App) lookupCoordinates(ctx context.Context, query model.LocationQuery, apiKey string) (model.Coordinates, error) {
	q := query.String()
	if coords, ok := a.coords.GetCoordinates(ctx, q); ok {
		a.log.Debugw("geocode cache hit", "query", q)
		return coords, nil
	}
	coords, err := a.geocoder.ResolveCoordinates(ctx, query, apiKey)
	if err != nil {
		return model.Coordinates{}, err
	}
	a.coords.SetCoordinates(ctx, q, coords)
	return coords, nil
}

func (a *App) fail(err error) {
	fmt.Fprintf(a.out, "Error: %v\n", err)
}
