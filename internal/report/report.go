// Package report renders a current-weather payload as a fixed-layout text
// block. Extraction failures are handled here and never propagate: the output
// is either the full report or exactly one diagnostic line.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"weather-cli/internal/model"
)

var separator = strings.Repeat("-", 40)

type missingFieldError struct {
	field string
}

func (e *missingFieldError) Error() string {
	return fmt.Sprintf("missing field '%s'", e.field)
}

// Render writes the formatted weather report to w. A missing payload field
// produces a single diagnostic line naming it; any other extraction failure
// produces a single generic diagnostic line. A partial report is never
// emitted.
func Render(w io.Writer, data *model.CurrentWeather) {
	lines, err := buildLines(data)
	if err != nil {
		var missing *missingFieldError
		if errors.As(err, &missing) {
			fmt.Fprintf(w, "Error processing weather data: %v\n", missing)
		} else {
			fmt.Fprintf(w, "An unexpected error occurred during data processing: %v\n", err)
		}
		return
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

// buildLines extracts every field up front so nothing is written until the
// whole report is known to be renderable.
func buildLines(data *model.CurrentWeather) ([]string, error) {
	if data == nil {
		return nil, errors.New("no weather payload")
	}
	switch {
	case data.Name == nil:
		return nil, &missingFieldError{"name"}
	case data.Sys == nil:
		return nil, &missingFieldError{"sys"}
	case data.Sys.Country == nil:
		return nil, &missingFieldError{"sys.country"}
	case data.Weather == nil:
		return nil, &missingFieldError{"weather"}
	}
	if len(data.Weather) == 0 {
		// The key is present but the condition list is empty; not a missing
		// field, so it takes the generic diagnostic path.
		return nil, errors.New("weather condition list is empty")
	}
	switch {
	case data.Main == nil:
		return nil, &missingFieldError{"main"}
	case data.Main.Temp == nil:
		return nil, &missingFieldError{"main.temp"}
	case data.Main.FeelsLike == nil:
		return nil, &missingFieldError{"main.feels_like"}
	case data.Main.Humidity == nil:
		return nil, &missingFieldError{"main.humidity"}
	case data.Main.Pressure == nil:
		return nil, &missingFieldError{"main.pressure"}
	case data.Wind == nil:
		return nil, &missingFieldError{"wind"}
	case data.Wind.Speed == nil:
		return nil, &missingFieldError{"wind.speed"}
	case data.Dt == nil:
		return nil, &missingFieldError{"dt"}
	}

	observedAt := time.Unix(*data.Dt, 0).Local().Format("2006-01-02 15:04:05 MST")

	return []string{
		separator,
		fmt.Sprintf("Weather in %s, %s at %s", *data.Name, *data.Sys.Country, observedAt),
		separator,
		fmt.Sprintf("Description: %s", capitalize(data.Weather[0].Description)),
		fmt.Sprintf("Temperature: %.1f°C", *data.Main.Temp),
		fmt.Sprintf("Feels like: %.1f°C", *data.Main.FeelsLike),
		fmt.Sprintf("Humidity: %d%%", *data.Main.Humidity),
		fmt.Sprintf("Pressure: %d hPa", *data.Main.Pressure),
		fmt.Sprintf("Wind Speed: %.1f m/s", *data.Wind.Speed),
		separator,
	}, nil
}

// capitalize upper-cases the first rune and lower-cases the rest, matching
// how the service's lowercase condition descriptions read in a sentence.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
