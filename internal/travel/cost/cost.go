// Package cost implements C9: assembles the final CostBreakdown from
// flights, accommodation, transportation, and the three LLM-advised daily
// categories (food, activities, miscellaneous).
package cost

import (
	"context"
	"fmt"
	"log"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/travelcost/engine/internal/travel/advisor"
	"github.com/travelcost/engine/internal/travel/types"
)

// categoryBand is the sanity clamp for a daily per-person estimate, keyed by
// the country's pricing tier.
type categoryBand struct {
	min, max float64
}

// categoryBaseline lists each category's unscaled daily-per-person baseline
// and the tier bands (pricing_multiplier based) its estimate is clamped to.
type categoryBaseline struct {
	dailyPerPersonUSD float64
	multipliers       map[types.Vibe]float64
	defaultMultiplier float64
	band              categoryBand
}

var foodBaseline = categoryBaseline{
	dailyPerPersonUSD: 35,
	multipliers: map[types.Vibe]float64{
		types.VibeCulinary: 1.5,
		types.VibeRomantic: 1.3,
		types.VibeWellness: 1.2,
	},
	defaultMultiplier: 1.0,
	band:              categoryBand{min: 10, max: 200},
}

var activitiesBaseline = categoryBaseline{
	dailyPerPersonUSD: 40,
	multipliers: map[types.Vibe]float64{
		types.VibeAdventure: 1.5,
		types.VibeWellness:  1.4,
		types.VibeRomantic:  1.3,
		types.VibeCulinary:  1.2,
		types.VibeBeach:     0.8,
	},
	defaultMultiplier: 1.0,
	band:              categoryBand{min: 5, max: 300},
}

var miscBaseline = categoryBaseline{
	dailyPerPersonUSD: 15,
	multipliers: map[types.Vibe]float64{
		types.VibeRomantic: 1.3,
		types.VibeWellness: 1.2,
	},
	defaultMultiplier: 1.0,
	band:              categoryBand{min: 5, max: 100},
}

func (b categoryBaseline) multiplierFor(vibe types.Vibe) float64 {
	if m, ok := b.multipliers[vibe]; ok {
		return m
	}
	return b.defaultMultiplier
}

// Agent implements C9.
type Agent struct {
	advisor *advisor.LLMAdvisor
	tracer  trace.Tracer
}

// New builds an Agent.
func New(llmAdvisor *advisor.LLMAdvisor) *Agent {
	return &Agent{
		advisor: llmAdvisor,
		tracer:  otel.Tracer("travelcost.cost"),
	}
}

// Inputs bundles every previously-computed value the breakdown needs, so
// Assemble stays a pure function of its arguments.
type Inputs struct {
	CheapestFlightPriceUSD float64
	HasFlights             bool
	NightlyHotelUSD        float64
	Nights                 int
	RoomsNeeded            int
	Transportation         types.Transportation
	Request                *types.TravelRequest
	PricingMultiplier      float64
}

// Assemble computes every CostBreakdown category, in the fixed summation
// order (flights, accommodation, transportation, food, activities, misc),
// and derives Total and per-person cost.
func (a *Agent) Assemble(ctx context.Context, in Inputs) (types.CostBreakdown, float64, []types.Warning) {
	ctx, span := a.tracer.Start(ctx, "cost.assemble")
	defer span.End()

	var warnings []types.Warning

	flights := 0.0
	if in.HasFlights {
		flights = in.CheapestFlightPriceUSD
	}

	accommodation := in.NightlyHotelUSD * float64(in.Nights) * float64(in.RoomsNeeded)

	food, w := a.estimateDailyCategory(ctx, "food", foodBaseline, in.Request, in.PricingMultiplier)
	warnings = append(warnings, w...)

	activities, w := a.estimateDailyCategory(ctx, "activities", activitiesBaseline, in.Request, in.PricingMultiplier)
	warnings = append(warnings, w...)

	misc, w := a.estimateDailyCategory(ctx, "miscellaneous", miscBaseline, in.Request, in.PricingMultiplier)
	warnings = append(warnings, w...)

	breakdown := types.CostBreakdown{
		Flights:            flights,
		Accommodation:      accommodation,
		TransportInterCity: sumInterCity(in.Transportation),
		TransportLocal:     in.Transportation.LocalTransport.TotalUSD + in.Transportation.AirportTransferUSD,
		Food:               food,
		Activities:         activities,
		Miscellaneous:      misc,
	}
	breakdown.Total = breakdown.Sum()

	perPerson := 0.0
	if in.Request.Travelers > 0 {
		perPerson = math.Round(breakdown.Total / float64(in.Request.Travelers))
	}

	span.SetAttributes(attribute.Float64("cost.total", breakdown.Total))

	return breakdown, perPerson, warnings
}

func sumInterCity(t types.Transportation) float64 {
	total := 0.0
	for _, o := range t.InterCityOptions {
		total += o.CostPerTripUSD
	}
	return total
}

// estimateDailyCategory computes daily_per_person * days * travelers for the
// given category, adjusted by the vibe multiplier table and the country's
// pricing multiplier, falling back to the deterministic baseline when the
// advisor is unavailable or returns an unparseable result. Out-of-band
// results are clamped to the category's tier band and logged.
func (a *Agent) estimateDailyCategory(ctx context.Context, category string, baseline categoryBaseline, request *types.TravelRequest, pricingMultiplier float64) (float64, []types.Warning) {
	dailyPerPerson := baseline.dailyPerPersonUSD * baseline.multiplierFor(request.Vibe)
	if pricingMultiplier > 0 {
		dailyPerPerson *= pricingMultiplier
	}

	var warnings []types.Warning

	if a.advisor.Available() {
		prompt := fmt.Sprintf(
			"Estimate a typical daily per-person %s budget in USD for a %s-vibe trip to %s. Respond as JSON {\"daily_per_person_usd\": n}.",
			category, request.Vibe, request.Destination,
		)
		text, err := a.advisor.Generate(ctx, prompt, "Respond with JSON only.", 0.3, 100)
		if err == nil {
			if data, ok := a.advisor.ExtractJSON(text); ok {
				if value, ok := data["daily_per_person_usd"].(float64); ok && value > 0 {
					// The prompt already asked for a vibe-adjusted figure; only the
					// country pricing multiplier still needs applying.
					dailyPerPerson = value
					if pricingMultiplier > 0 {
						dailyPerPerson *= pricingMultiplier
					}
				}
			}
		} else {
			warnings = append(warnings, types.NewWarning("cost", types.WarningProviderFailure, category+" estimator failed: "+err.Error()))
		}
	}

	if dailyPerPerson < baseline.band.min || dailyPerPerson > baseline.band.max {
		log.Printf("cost: %s daily_per_person %.2f out of band [%.2f, %.2f], clamping", category, dailyPerPerson, baseline.band.min, baseline.band.max)
		warnings = append(warnings, types.NewWarning("cost", types.WarningValidationFailure, category+" estimate out of band, clamped"))
		dailyPerPerson = clamp(dailyPerPerson, baseline.band.min, baseline.band.max)
	}

	days := float64(request.TripDurationDays())
	return dailyPerPerson * days * float64(request.Travelers), warnings
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
