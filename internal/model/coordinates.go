package model

import "fmt"

// LocationQuery identifies a place the way the geocoding API takes it:
// free-text fields joined by commas, position-dependent, any of which may be
// empty.
type LocationQuery struct {
	City    string
	State   string
	Country string
}

// String returns the comma-joined form sent verbatim as the q parameter.
func (q LocationQuery) String() string {
	return fmt.Sprintf("%s,%s,%s", q.City, q.State, q.Country)
}

// Coordinates is a latitude/longitude pair produced by geocoding and passed
// through unchanged to the weather fetch.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
