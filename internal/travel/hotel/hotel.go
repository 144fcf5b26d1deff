// Package hotel implements C7: robust price extraction from hotel provider
// results, confidence tagging, and top-N selection by value.
package hotel

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/travelcost/engine/internal/travel/advisor"
	"github.com/travelcost/engine/internal/travel/concurrency"
	"github.com/travelcost/engine/internal/travel/provider"
	"github.com/travelcost/engine/internal/travel/types"
)

const (
	minHighConfidencePrice = 10.0
	maxHighConfidencePrice = 2000.0

	// DefaultTopN is the tier-dependent default result count.
	DefaultTopN = 5

	// HotelContextConcurrency matches §5's "3 concurrent sub-tasks:
	// neighborhoods, seasonality, pricing analysis."
	HotelContextConcurrency = 3
)

// Agent implements C7.
type Agent struct {
	provider provider.HotelProvider
	advisor  *advisor.LLMAdvisor
	tracer   trace.Tracer
}

// New builds an Agent. provider may be nil (Search fails soft to an empty
// list); advisor may be nil (hotel-context collaboration is skipped).
func New(hotelProvider provider.HotelProvider, llmAdvisor *advisor.LLMAdvisor) *Agent {
	return &Agent{
		provider: hotelProvider,
		advisor:  llmAdvisor,
		tracer:   otel.Tracer("travelcost.hotel"),
	}
}

// Search calls the hotel provider, extracts nightly prices, assigns
// confidence, sorts by value, and returns the top topN (DefaultTopN if <=0).
func (a *Agent) Search(ctx context.Context, destination, checkIn, checkOut string, guests, nights, topN int) ([]types.Hotel, []types.Warning) {
	ctx, span := a.tracer.Start(ctx, "hotel.search")
	defer span.End()
	span.SetAttributes(attribute.String("hotel.destination", destination))

	var warnings []types.Warning
	if topN <= 0 {
		topN = DefaultTopN
	}

	if a.provider == nil {
		warnings = append(warnings, types.NewWarning("hotel", types.WarningProviderFailure, "no hotel provider configured"))
		return []types.Hotel{}, warnings
	}

	offers, err := a.provider.Search(ctx, provider.HotelSearchParams{
		Destination: destination,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      guests,
	})
	if err != nil {
		span.RecordError(err)
		warnings = append(warnings, types.NewWarning("hotel", types.WarningProviderFailure, "hotel provider search failed: "+err.Error()))
		return []types.Hotel{}, warnings
	}

	hotels := make([]types.Hotel, 0, len(offers))
	for _, o := range offers {
		hotel, validationWarning := normalize(o, nights)
		hotels = append(hotels, hotel)
		if validationWarning != nil {
			warnings = append(warnings, *validationWarning)
		}
	}

	sortByValue(hotels)

	if len(hotels) > topN {
		hotels = hotels[:topN]
	}

	return hotels, warnings
}

// normalize extracts a nightly price via the declarative probe table,
// validates it, and falls back to a heuristic estimate from stars when the
// price is absent or out of band.
func normalize(o provider.HotelOffer, nights int) (types.Hotel, *types.Warning) {
	hotel := types.Hotel{
		Name:      o.Name,
		Currency:  "USD",
		Stars:     o.Stars,
		Rating:    o.Rating,
		Amenities: o.Amenities,
		Location:  o.Location,
		ImageURL:  o.ImageURL,
	}

	price, ok := extractNightlyPrice(o.Raw, nights)
	var warning *types.Warning

	if ok && price >= minHighConfidencePrice && price <= maxHighConfidencePrice {
		hotel.PricePerNightUSD = price
		hotel.Confidence = types.ConfidenceHigh
		return hotel, nil
	}

	if ok {
		w := types.NewWarning("hotel", types.WarningValidationFailure, "hotel price out of band, using heuristic estimate")
		warning = &w
	}

	hotel.PricePerNightUSD = heuristicNightlyPrice(o.Stars)
	hotel.Confidence = types.ConfidenceEstimated
	return hotel, warning
}

// heuristicNightlyPrice estimates a nightly rate from star rating alone,
// used when the provider's price fields are absent or unusable.
func heuristicNightlyPrice(stars float64) float64 {
	switch {
	case stars >= 4.5:
		return 220
	case stars >= 3.5:
		return 130
	case stars >= 2.5:
		return 75
	default:
		return 45
	}
}

// sortByValue orders high-confidence hotels before estimated ones, then by
// a composite of rating and inverse price within each confidence bucket.
func sortByValue(hotels []types.Hotel) {
	maxRating, maxPrice := 0.0, 0.0
	for _, h := range hotels {
		if h.Rating > maxRating {
			maxRating = h.Rating
		}
		if h.PricePerNightUSD > maxPrice {
			maxPrice = h.PricePerNightUSD
		}
	}

	score := func(h types.Hotel) float64 {
		ratingNorm := 0.0
		if maxRating > 0 {
			ratingNorm = h.Rating / maxRating
		}
		priceNorm := 0.0
		if maxPrice > 0 {
			priceNorm = 1 - h.PricePerNightUSD/maxPrice
		}
		return 0.6*ratingNorm + 0.4*priceNorm
	}

	sort.SliceStable(hotels, func(i, j int) bool {
		if hotels[i].Confidence != hotels[j].Confidence {
			return hotels[i].Confidence == types.ConfidenceHigh
		}
		return score(hotels[i]) > score(hotels[j])
	})
}

// Context builds the optional destination-context collaboration output by
// fanning out 3 concurrent LLM sub-calls (neighborhoods, seasonality,
// pricing analysis). Returns nil if the advisor is unavailable.
func (a *Agent) Context(ctx context.Context, destination string, hotels []types.Hotel) (*types.HotelContext, []types.Warning) {
	if !a.advisor.Available() {
		return nil, []types.Warning{types.NewWarning("hotel", types.WarningProviderFailure, "no LLM advisor configured; hotel context unavailable")}
	}

	sem := concurrency.NewSemaphore(HotelContextConcurrency)
	var (
		neighborhoods []string
		seasonLevel   string
		tiers         map[string]float64
		warnings      []types.Warning
	)

	type subTaskResult struct {
		neighborhoods []string
		seasonLevel   string
		tiers         map[string]float64
		warning       *types.Warning
	}

	done := make(chan subTaskResult, 3)

	runSub := func(fn func() subTaskResult) {
		if err := sem.Acquire(ctx); err != nil {
			done <- subTaskResult{}
			return
		}
		defer sem.Release()
		done <- fn()
	}

	go runSub(func() subTaskResult {
		text, err := a.advisor.Generate(ctx, "List 3 popular neighborhoods for travelers in "+destination+". Respond as JSON {\"neighborhoods\": [\"...\"]}", "Respond with JSON only.", 0.3, 200)
		if err != nil {
			w := types.NewWarning("hotel", types.WarningProviderFailure, "neighborhood lookup failed: "+err.Error())
			return subTaskResult{warning: &w}
		}
		data, ok := a.advisor.ExtractJSON(text)
		if !ok {
			w := types.NewWarning("hotel", types.WarningProviderFailure, "neighborhood lookup returned unparseable JSON")
			return subTaskResult{warning: &w}
		}
		list, _ := data["neighborhoods"].([]interface{})
		names := make([]string, 0, len(list))
		for _, v := range list {
			if s, ok := v.(string); ok {
				names = append(names, s)
			}
		}
		return subTaskResult{neighborhoods: names}
	})

	go runSub(func() subTaskResult {
		text, err := a.advisor.Generate(ctx, "In one word (low, moderate, or high), what is the current seasonal hotel price level in "+destination+"?", "Respond with a single word.", 0.3, 20)
		if err != nil {
			w := types.NewWarning("hotel", types.WarningProviderFailure, "seasonality lookup failed: "+err.Error())
			return subTaskResult{warning: &w}
		}
		return subTaskResult{seasonLevel: text}
	})

	go runSub(func() subTaskResult {
		text, err := a.advisor.Generate(ctx, "Estimate tiered average nightly hotel prices (budget, mid, luxury) in USD for "+destination+". Respond as JSON {\"budget\": n, \"mid\": n, \"luxury\": n}", "Respond with JSON only.", 0.3, 150)
		if err != nil {
			w := types.NewWarning("hotel", types.WarningProviderFailure, "pricing analysis failed: "+err.Error())
			return subTaskResult{warning: &w}
		}
		data, ok := a.advisor.ExtractJSON(text)
		if !ok {
			w := types.NewWarning("hotel", types.WarningProviderFailure, "pricing analysis returned unparseable JSON")
			return subTaskResult{warning: &w}
		}
		parsed := make(map[string]float64)
		for _, tier := range []string{"budget", "mid", "luxury"} {
			if v, ok := data[tier].(float64); ok {
				parsed[tier] = v
			}
		}
		return subTaskResult{tiers: parsed}
	})

	for i := 0; i < 3; i++ {
		r := <-done
		if r.warning != nil {
			warnings = append(warnings, *r.warning)
		}
		if r.neighborhoods != nil {
			neighborhoods = r.neighborhoods
		}
		if r.seasonLevel != "" {
			seasonLevel = r.seasonLevel
		}
		if r.tiers != nil {
			tiers = r.tiers
		}
	}

	return &types.HotelContext{
		Neighborhoods:         neighborhoods,
		SeasonalPriceLevel:    seasonLevel,
		TieredNightlyAverages: tiers,
	}, warnings
}
