package model

// CurrentWeather is the decoded current-weather payload. Fields the report
// depends on are pointer-typed so a missing key is distinguishable from a
// zero value; the renderer decides what absence means.
type CurrentWeather struct {
	Name    *string            `json:"name"`
	Sys     *SysInfo           `json:"sys"`
	Weather []WeatherCondition `json:"weather"`
	Main    *MainMetrics       `json:"main"`
	Wind    *WindInfo          `json:"wind"`
	Dt      *int64             `json:"dt"`
}

type SysInfo struct {
	Country *string `json:"country"`
}

type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// MainMetrics carries the temperature block. Values are Celsius because every
// request asks the service for metric units; no conversion happens client-side.
type MainMetrics struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	Pressure  *int     `json:"pressure"`
	Humidity  *int     `json:"humidity"`
}

type WindInfo struct {
	Speed *float64 `json:"speed"`
}
