package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"weather-cli/internal/cache"
	"weather-cli/internal/config"
	"weather-cli/internal/model"
	"weather-cli/internal/openweathermap"
)

type stubGeocoder struct {
	coords model.Coordinates
	err    error
	calls  int
}

func (s *stubGeocoder) ResolveCoordinates(ctx context.Context, query model.LocationQuery, apiKey string) (model.Coordinates, error) {
	s.calls++
	if s.err != nil {
		return model.Coordinates{}, s.err
	}
	return s.coords, nil
}

type stubWeather struct {
	payload   *model.CurrentWeather
	err       error
	calls     int
	gotCoords model.Coordinates
	gotKey    string
}

func (s *stubWeather) CurrentWeather(ctx context.Context, coords model.Coordinates, apiKey string) (*model.CurrentWeather, error) {
	s.calls++
	s.gotCoords = coords
	s.gotKey = apiKey
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

type panickyGeocoder struct{}

func (panickyGeocoder) ResolveCoordinates(ctx context.Context, query model.LocationQuery, apiKey string) (model.Coordinates, error) {
	panic("boom")
}

func keyOK(explicit string) (string, error) { return "testkey", nil }

func markerRender(w io.Writer, data *model.CurrentWeather) {
	fmt.Fprintln(w, "RENDERED")
}

func newTestApp(geocoder Geocoder, weather WeatherProvider, coords *cache.Cache, resolveKey KeyResolver, out io.Writer) *App {
	return New(Options{
		Geocoder:   geocoder,
		Weather:    weather,
		Render:     markerRender,
		ResolveKey: resolveKey,
		Coords:     coords,
		Out:        out,
		Log:        zap.NewNop().Sugar(),
	})
}

var testQuery = model.LocationQuery{City: "London", State: "ENG", Country: "GB"}

func TestRun_Success(t *testing.T) {
	geocoder := &stubGeocoder{coords: model.Coordinates{Lat: 51.5, Lon: -0.1}}
	weather := &stubWeather{payload: &model.CurrentWeather{}}
	var out bytes.Buffer

	app := newTestApp(geocoder, weather, nil, keyOK, &out)
	if err := app.Run(context.Background(), testQuery, ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if geocoder.calls != 1 {
		t.Errorf("Expected one geocoding call, got %d", geocoder.calls)
	}
	if weather.gotCoords != geocoder.coords {
		t.Errorf("Expected coordinates to flow through unchanged, got %+v", weather.gotCoords)
	}
	if weather.gotKey != "testkey" {
		t.Errorf("Expected the resolved key to reach the weather fetch, got %q", weather.gotKey)
	}
	if !strings.Contains(out.String(), "RENDERED") {
		t.Error("Expected the renderer to run")
	}
	if strings.Contains(out.String(), "Error:") {
		t.Errorf("Expected no error line, got %q", out.String())
	}
}

func TestRun_MissingAPIKeyHappensBeforeAnyNetworkCall(t *testing.T) {
	geocoder := &stubGeocoder{}
	weather := &stubWeather{}
	var out bytes.Buffer

	app := newTestApp(geocoder, weather, nil, config.ResolveAPIKey, &out)
	t.Setenv(config.APIKeyEnvVar, "")

	err := app.Run(context.Background(), testQuery, "")
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("Expected ErrMissingAPIKey, got %v", err)
	}
	if geocoder.calls != 0 || weather.calls != 0 {
		t.Error("Expected no network calls before credential resolution")
	}
	if !strings.Contains(out.String(), "Error: API key must be provided") {
		t.Errorf("Expected the error line to name both sources, got %q", out.String())
	}
}

func TestRun_GeocodingFailureStopsPipeline(t *testing.T) {
	geocoder := &stubGeocoder{
		err: fmt.Errorf("location 'Nowhere,NV,US': %w", openweathermap.ErrLocationNotFound),
	}
	weather := &stubWeather{}
	var out bytes.Buffer

	app := newTestApp(geocoder, weather, nil, keyOK, &out)
	err := app.Run(context.Background(), testQuery, "")
	if !errors.Is(err, openweathermap.ErrLocationNotFound) {
		t.Fatalf("Expected ErrLocationNotFound, got %v", err)
	}

	if weather.calls != 0 {
		t.Error("Expected no weather fetch after a geocoding failure")
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected a single error line, got %d:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "Error: ") || !strings.Contains(lines[0], "Nowhere,NV,US") {
		t.Errorf("Expected 'Error:' line with the query string, got %q", lines[0])
	}
}

func TestRun_WeatherFailureStopsPipeline(t *testing.T) {
	geocoder := &stubGeocoder{coords: model.Coordinates{Lat: 51.5, Lon: -0.1}}
	weather := &stubWeather{err: openweathermap.ErrCoordinatesNotFound}
	var out bytes.Buffer

	app := newTestApp(geocoder, weather, nil, keyOK, &out)
	err := app.Run(context.Background(), testQuery, "")
	if !errors.Is(err, openweathermap.ErrCoordinatesNotFound) {
		t.Fatalf("Expected ErrCoordinatesNotFound, got %v", err)
	}

	if strings.Contains(out.String(), "RENDERED") {
		t.Error("Expected the renderer not to run after a fetch failure")
	}
	if !strings.HasPrefix(out.String(), "Error: ") {
		t.Errorf("Expected a single error line, got %q", out.String())
	}
}

func TestRun_PanicIsReportedNotPropagated(t *testing.T) {
	weather := &stubWeather{}
	var out bytes.Buffer

	app := newTestApp(panickyGeocoder{}, weather, nil, keyOK, &out)
	err := app.Run(context.Background(), testQuery, "")
	if err == nil {
		t.Fatal("Expected an error from the recovered panic")
	}
	if !strings.Contains(out.String(), "Error: unexpected failure: boom") {
		t.Errorf("Expected the catch-all error line, got %q", out.String())
	}
}

func TestRun_CacheHitSkipsGeocoding(t *testing.T) {
	mr := miniredis.RunT(t)
	coords := cache.New(mr.Addr(), time.Hour, zap.NewNop().Sugar())
	t.Cleanup(func() { _ = coords.Close() })

	cached := model.Coordinates{Lat: 51.5074, Lon: -0.1278}
	coords.SetCoordinates(context.Background(), testQuery.String(), cached)

	// The geocoder would fail if consulted; a cache hit must bypass it.
	geocoder := &stubGeocoder{err: errors.New("should not be called")}
	weather := &stubWeather{payload: &model.CurrentWeather{}}
	var out bytes.Buffer

	app := newTestApp(geocoder, weather, coords, keyOK, &out)
	if err := app.Run(context.Background(), testQuery, ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if geocoder.calls != 0 {
		t.Errorf("Expected the cache hit to skip geocoding, got %d calls", geocoder.calls)
	}
	if weather.gotCoords != cached {
		t.Errorf("Expected cached coordinates, got %+v", weather.gotCoords)
	}
}

func TestRun_CacheMissPopulatesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	coords := cache.New(mr.Addr(), time.Hour, zap.NewNop().Sugar())
	t.Cleanup(func() { _ = coords.Close() })

	resolved := model.Coordinates{Lat: 48.85, Lon: 2.35}
	geocoder := &stubGeocoder{coords: resolved}
	weather := &stubWeather{payload: &model.CurrentWeather{}}
	var out bytes.Buffer

	app := newTestApp(geocoder, weather, coords, keyOK, &out)
	if err := app.Run(context.Background(), testQuery, ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, ok := coords.GetCoordinates(context.Background(), testQuery.String())
	if !ok {
		t.Fatal("Expected the resolved coordinates to be cached")
	}
	if got != resolved {
		t.Errorf("Expected %+v in the cache, got %+v", resolved, got)
	}
}
