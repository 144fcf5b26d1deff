// Package pricecalendar implements C5: fan out flight searches across a
// ±N-day window around a target departure date and classify each by price.
package pricecalendar

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/travelcost/engine/internal/travel/provider"
	"github.com/travelcost/engine/internal/travel/types"
)

const (
	// DefaultWindowDays matches PRICE_CALENDAR_WINDOW_DAYS's default of 7.
	DefaultWindowDays = 7

	// MaxConcurrentSearches bounds the outbound fan-out per §5 ("cap 8
	// concurrent").
	MaxConcurrentSearches = 8

	// StdevFactor and NearMinFactor are the open-question resolutions
	// locked in SPEC_FULL.md §9: mean±0.5σ classification, 110% of min for
	// the "cheap" near-min check.
	StdevFactor   = 0.5
	NearMinFactor = 1.10

	// MinValidPricesForConfidence is the floor below which the calendar
	// degrades to a single-point low-confidence result.
	MinValidPricesForConfidence = 3
)

// Calendar implements C5.
type Calendar struct {
	flights provider.FlightProvider
	tracer  trace.Tracer
}

// New builds a Calendar over a flight provider. flights may be nil, in which
// case Build always degrades to the low-confidence single-point result.
func New(flights provider.FlightProvider) *Calendar {
	return &Calendar{
		flights: flights,
		tracer:  otel.Tracer("travelcost.pricecalendar"),
	}
}

// Build fans out 2*window+1 flight searches for dates target-window..target+window,
// classifies each, and returns the full PriceCalendar. window<=0 uses
// DefaultWindowDays.
func (c *Calendar) Build(ctx context.Context, origin, destination string, target time.Time, returnOffset time.Duration, adults, window int) (types.PriceCalendar, []types.Warning) {
	ctx, span := c.tracer.Start(ctx, "pricecalendar.build")
	defer span.End()

	if window <= 0 {
		window = DefaultWindowDays
	}
	span.SetAttributes(attribute.Int("pricecalendar.window_days", window))

	total := 2*window + 1
	entries := make([]types.PriceCalendarEntry, total)

	var warnings []types.Warning

	if c.flights == nil {
		warnings = append(warnings, types.NewWarning("pricecalendar", types.WarningProviderFailure, "no flight provider configured; price calendar unavailable"))
		return degradeToSinglePoint(target), warnings
	}

	semaphore := make(chan struct{}, MaxConcurrentSearches)
	var wg sync.WaitGroup

	for i := 0; i < total; i++ {
		offsetDays := i - window
		date := target.AddDate(0, 0, offsetDays)

		wg.Add(1)
		go func(index int, date time.Time) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			price, ok := c.cheapestPrice(ctx, origin, destination, date, date.Add(returnOffset), adults)
			entries[index] = types.PriceCalendarEntry{Date: date, Price: price, Valid: ok}
		}(i, date)
	}

	wg.Wait()

	validPrices := make([]float64, 0, total)
	for _, e := range entries {
		if e.Valid {
			validPrices = append(validPrices, e.Price)
		}
	}

	if len(validPrices) < MinValidPricesForConfidence {
		warnings = append(warnings, types.NewWarning("pricecalendar", types.WarningProviderFailure, "fewer than 3 valid prices returned; degrading to single-point result"))
		return degradeToSinglePoint(target), warnings
	}

	stats := statistics(validPrices)
	classifyAll(entries, stats)

	calendar := types.PriceCalendar{
		Entries:         entries,
		Statistics:      stats,
		CheapestOption:  cheapestEntry(entries),
		Recommendations: recommendations(entries, stats),
	}

	return calendar, warnings
}

// cheapestPrice calls the flight provider for one date and returns the
// minimum price among results, or (0, false) on error/empty.
func (c *Calendar) cheapestPrice(ctx context.Context, origin, destination string, depart, ret time.Time, adults int) (float64, bool) {
	offers, err := c.flights.Search(ctx, provider.FlightSearchParams{
		OriginIATA:      origin,
		DestinationIATA: destination,
		DepartDate:      depart.Format("2006-01-02"),
		ReturnDate:      ret.Format("2006-01-02"),
		Adults:          adults,
	})
	if err != nil || len(offers) == 0 {
		return 0, false
	}

	min := offers[0].PriceUSD
	for _, o := range offers[1:] {
		if o.PriceUSD < min {
			min = o.PriceUSD
		}
	}
	return min, true
}

func statistics(prices []float64) types.PriceStatistics {
	min, max, sum := prices[0], prices[0], 0.0
	for _, p := range prices {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
		sum += p
	}
	mean := sum / float64(len(prices))

	variance := 0.0
	for _, p := range prices {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(prices))
	stdev := math.Sqrt(variance)

	return types.PriceStatistics{Min: min, Max: max, Mean: mean, Stdev: stdev}
}

func classifyAll(entries []types.PriceCalendarEntry, stats types.PriceStatistics) {
	cheapThreshold := stats.Mean - StdevFactor*stats.Stdev
	expensiveThreshold := stats.Mean + StdevFactor*stats.Stdev
	nearMinCeiling := stats.Min * NearMinFactor

	for i := range entries {
		if !entries[i].Valid {
			entries[i].Classification = "unknown"
			continue
		}
		price := entries[i].Price
		switch {
		case price <= cheapThreshold && price <= nearMinCeiling:
			entries[i].Classification = "cheap"
		case price >= expensiveThreshold:
			entries[i].Classification = "expensive"
		default:
			entries[i].Classification = "moderate"
		}
	}
}

func cheapestEntry(entries []types.PriceCalendarEntry) *types.PriceCalendarEntry {
	var cheapest *types.PriceCalendarEntry
	for i := range entries {
		if !entries[i].Valid {
			continue
		}
		if cheapest == nil || entries[i].Price < cheapest.Price {
			cheapest = &entries[i]
		}
	}
	return cheapest
}

// recommendations emits one to five natural-language suggestions: a line
// naming the cheapest departure, then up to four other cheap-classified
// dates, largest saving first, each saving measured against the mean price
// rather than against the cheapest option. When no other date is cheap,
// only the cheapest-departure line is returned.
func recommendations(entries []types.PriceCalendarEntry, stats types.PriceStatistics) []string {
	cheapest := cheapestEntry(entries)
	if cheapest == nil {
		return nil
	}

	type savingEntry struct {
		entry   types.PriceCalendarEntry
		savings float64
	}
	var cheapDates []savingEntry
	for _, e := range entries {
		if e.Valid && e.Classification == "cheap" && e.Date != cheapest.Date {
			cheapDates = append(cheapDates, savingEntry{entry: e, savings: stats.Mean - e.Price})
		}
	}
	sort.Slice(cheapDates, func(i, j int) bool { return cheapDates[i].savings > cheapDates[j].savings })

	recs := []string{
		fmt.Sprintf("Cheapest departure is %s at $%.2f.", cheapest.Date.Format("2006-01-02"), cheapest.Price),
	}
	limit := 4
	if len(cheapDates) < limit {
		limit = len(cheapDates)
	}
	for _, sd := range cheapDates[:limit] {
		recs = append(recs, fmt.Sprintf("Save $%.2f by departing %s instead.", sd.savings, sd.entry.Date.Format("2006-01-02")))
	}
	return recs
}

func degradeToSinglePoint(target time.Time) types.PriceCalendar {
	entry := types.PriceCalendarEntry{Date: target, Classification: "unknown", Valid: false}
	return types.PriceCalendar{
		Entries:       []types.PriceCalendarEntry{entry},
		LowConfidence: true,
	}
}
