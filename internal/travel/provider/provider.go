// Package provider defines the external marketplace capability surface the
// travel engine depends on: FlightProvider and HotelProvider. These are the
// "external collaborators, specified only by interface" from SPEC_FULL.md
// §1 — the core ships no concrete vendor, only the shapes C5/C6/C7 consume.
package provider

import "context"

// FlightSearchParams is the input to FlightProvider.Search.
type FlightSearchParams struct {
	OriginIATA      string
	DestinationIATA string
	DepartDate      string // YYYY-MM-DD
	ReturnDate      string // YYYY-MM-DD
	Adults          int
}

// FlightOffer is one raw flight result as returned by a provider, before C6
// normalizes it into types.Flight. PriceUSD is already the provider's group
// total for Adults travelers — see the price contract in SPEC_FULL.md §3.
type FlightOffer struct {
	Airline         string
	FlightNumber    string
	OriginAirport   string
	DestAirport     string
	DepartureTimeISO string
	ArrivalTimeISO   string
	DurationMinutes int
	Stops           int
	Class           string
	PriceUSD        float64
}

// FlightProvider is the abstract flight marketplace capability.
type FlightProvider interface {
	Search(ctx context.Context, params FlightSearchParams) ([]FlightOffer, error)
}

// HotelSearchParams is the input to HotelProvider.Search.
type HotelSearchParams struct {
	Destination string
	CheckIn     string // YYYY-MM-DD
	CheckOut    string // YYYY-MM-DD
	Guests      int
}

// HotelOffer is one raw hotel result. Raw holds the provider's untyped
// response body so C7 can probe nested price fields declaratively per
// SPEC_FULL.md §4.7/§9; Name/Stars/Rating/Amenities/Location are lifted out
// because every provider in the pack returns them consistently typed, unlike
// price, which varies by vendor schema.
type HotelOffer struct {
	Name      string
	Stars     float64
	Rating    float64
	Amenities []string
	Location  string
	ImageURL  string
	Raw       map[string]interface{}
}

// HotelProvider is the abstract hotel marketplace capability.
type HotelProvider interface {
	Search(ctx context.Context, params HotelSearchParams) ([]HotelOffer, error)
}
