package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"weather-cli/internal/app"
	"weather-cli/internal/cache"
	"weather-cli/internal/config"
	"weather-cli/internal/model"
	"weather-cli/internal/openweathermap"
	"weather-cli/internal/report"
)

func main() {
	city := flag.String("city", "", "The name of the city.")
	state := flag.String("state", "", "The state code (e.g., CA for California).")
	country := flag.String("country", "", "The 2-letter country code (e.g., US).")
	apiKey := flag.String("apikey", "", "Your OpenWeatherMap API key (optional, can use "+config.APIKeyEnvVar+" env var).")
	flag.Parse()

	if *city == "" || *state == "" || *country == "" {
		fmt.Fprintln(os.Stderr, "Usage: weather-cli --city <city> --state <state> --country <country> [--apikey <key>]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	log := config.GetLogger()
	defer func() { _ = log.Sync() }()

	coordCache := cache.New(config.RedisAddr(), config.CacheExpiration(), log)
	defer func() { _ = coordCache.Close() }()

	client := openweathermap.NewClient()
	a := app.New(app.Options{
		Geocoder:   client,
		Weather:    client,
		Render:     report.Render,
		ResolveKey: config.ResolveAPIKey,
		Coords:     coordCache,
		Out:        os.Stdout,
		Log:        log,
	})

	query := model.LocationQuery{City: *city, State: *state, Country: *country}

	// Pipeline failures have already been reported as a single Error line;
	// the process still terminates normally.
	_ = a.Run(context.Background(), query, *apiKey)
}
