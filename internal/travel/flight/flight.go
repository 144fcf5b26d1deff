// Package flight implements C6: normalize flight provider results and apply
// the stop-penalized sort.
package flight

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/travelcost/engine/internal/travel/pricecalendar"
	"github.com/travelcost/engine/internal/travel/provider"
	"github.com/travelcost/engine/internal/travel/types"
)

// FlightSortPenaltyPerStop is the open-question resolution from
// SPEC_FULL.md §9: a fixed $50-per-stop penalty, route-length independent.
const FlightSortPenaltyPerStop = 50.0

// MaxResults caps the number of flights returned after sorting.
const MaxResults = 10

// Agent implements C6.
type Agent struct {
	provider provider.FlightProvider
	calendar *pricecalendar.Calendar
	tracer   trace.Tracer
}

// New builds an Agent. provider may be nil, in which case Search always
// fails soft to an empty flight list with a warning.
func New(flightProvider provider.FlightProvider) *Agent {
	return &Agent{
		provider: flightProvider,
		calendar: pricecalendar.New(flightProvider),
		tracer:   otel.Tracer("travelcost.flight"),
	}
}

// Result is C6's output: normalized, sorted flights plus an optional price
// calendar.
type Result struct {
	Flights     []types.Flight
	PriceTrends *types.PriceCalendar
}

// Search calls the flight provider, normalizes and sorts results, and
// optionally builds a price calendar. Fails soft to an empty Flights slice
// plus a warning when the provider is absent or errors.
func (a *Agent) Search(ctx context.Context, originIATA, destIATA string, start, ret time.Time, travelers int, includePriceTrends bool) (Result, []types.Warning) {
	ctx, span := a.tracer.Start(ctx, "flight.search")
	defer span.End()
	span.SetAttributes(
		attribute.String("flight.origin", originIATA),
		attribute.String("flight.destination", destIATA),
		attribute.Int("flight.travelers", travelers),
	)

	var warnings []types.Warning

	if a.provider == nil {
		warnings = append(warnings, types.NewWarning("flight", types.WarningProviderFailure, "no flight provider configured"))
		return Result{Flights: []types.Flight{}}, warnings
	}

	offers, err := a.provider.Search(ctx, provider.FlightSearchParams{
		OriginIATA:      originIATA,
		DestinationIATA: destIATA,
		DepartDate:      start.Format("2006-01-02"),
		ReturnDate:      ret.Format("2006-01-02"),
		Adults:          travelers,
	})
	if err != nil {
		span.RecordError(err)
		warnings = append(warnings, types.NewWarning("flight", types.WarningProviderFailure, "flight provider search failed: "+err.Error()))
		return Result{Flights: []types.Flight{}}, warnings
	}

	flights := make([]types.Flight, 0, len(offers))
	for _, o := range offers {
		flights = append(flights, normalize(o))
	}

	sortByPenalizedPrice(flights)
	if len(flights) > MaxResults {
		flights = flights[:MaxResults]
	}

	result := Result{Flights: flights}

	if includePriceTrends {
		calendar, calWarnings := a.calendar.Build(ctx, originIATA, destIATA, start, ret.Sub(start), travelers, pricecalendar.DefaultWindowDays)
		result.PriceTrends = &calendar
		warnings = append(warnings, calWarnings...)
	}

	return result, warnings
}

// normalize converts a raw provider offer into a types.Flight. Price
// contract: PriceUSD is copied exactly, never multiplied by travelers.
func normalize(o provider.FlightOffer) types.Flight {
	flight := types.Flight{
		Airline:         o.Airline,
		FlightNumber:    o.FlightNumber,
		DepartureAirport: o.OriginAirport,
		ArrivalAirport:  o.DestAirport,
		DurationMinutes: o.DurationMinutes,
		Stops:           o.Stops,
		Class:           o.Class,
		PriceUSD:        o.PriceUSD,
	}
	if t, err := time.Parse(time.RFC3339, o.DepartureTimeISO); err == nil {
		flight.DepartureTime = t
	}
	if t, err := time.Parse(time.RFC3339, o.ArrivalTimeISO); err == nil {
		flight.ArrivalTime = t
	}
	return flight
}

// sortByPenalizedPrice sorts ascending by price + $50*stops.
func sortByPenalizedPrice(flights []types.Flight) {
	sort.SliceStable(flights, func(i, j int) bool {
		return penalizedPrice(flights[i]) < penalizedPrice(flights[j])
	})
}

func penalizedPrice(f types.Flight) float64 {
	return f.PriceUSD + float64(f.Stops)*FlightSortPenaltyPerStop
}
