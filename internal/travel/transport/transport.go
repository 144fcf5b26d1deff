// Package transport implements C8: inter-city transport pricing via a
// 5-step LLM pipeline with deterministic fallback, plus the always-on local
// daily transport estimator and airport-transfer calculation.
package transport

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/travelcost/engine/internal/travel/advisor"
	"github.com/travelcost/engine/internal/travel/types"
)

// floorEntry is one mode's minimum per-km/base pricing floor, per the
// SPEC_FULL.md §9 open-question resolution: train sets the base floor and
// every other mode scales off it.
type floorEntry struct {
	baseUSD   float64
	perKmUSD  float64
	scale     float64
}

// TransportFloorTable seeds the deterministic-fallback and
// validation-clamp floors for each inter-city mode. train is the baseline
// (max($0.40, 0.009*km)); bus/taxi/car_rental scale off it.
var TransportFloorTable = map[types.TransportMode]floorEntry{
	types.ModeTrain:     {baseUSD: 0.40, perKmUSD: 0.009, scale: 1.0},
	types.ModeBus:       {baseUSD: 0.40, perKmUSD: 0.009, scale: 0.6},
	types.ModeTaxi:      {baseUSD: 0.40, perKmUSD: 0.009, scale: 3.0},
	types.ModeCarRental: {baseUSD: 0.40, perKmUSD: 0.009, scale: 4.0},
}

// MaxInterCityTripCostUSD is the ceiling clamp applied to any single
// inter-city option's group total, per §9.
const MaxInterCityTripCostUSD = 500.0

// averageGroundSpeedKmh estimates trip duration for inter-city ground
// transport options when the provider does not supply one.
const averageGroundSpeedKmh = 60.0

// nominalAirportHopKm is the assumed airport-to-city-center distance used to
// scope the one-way taxi fare that seeds the airport transfer cost.
const nominalAirportHopKm = 15.0

func (f floorEntry) floor(distanceKm float64) float64 {
	return math.Max(f.baseUSD, f.perKmUSD*distanceKm) * f.scale
}

// perSeatModes multiply their per-person price by the traveler count;
// shared modes (taxi, car_rental) charge one group total regardless of
// party size.
var perSeatModes = map[types.TransportMode]bool{
	types.ModeTrain: true,
	types.ModeBus:   true,
}

// Agent implements C8.
type Agent struct {
	advisor *advisor.LLMAdvisor
	tracer  trace.Tracer
}

// New builds an Agent. advisor may be nil, in which case every pipeline
// step falls back to its deterministic formula.
func New(llmAdvisor *advisor.LLMAdvisor) *Agent {
	return &Agent{
		advisor: llmAdvisor,
		tracer:  otel.Tracer("travelcost.transport"),
	}
}

// InterCity runs the 5-step pipeline when the route qualifies
// (same country and distanceKm <= maxGroundDistanceKm); returns an empty
// option list otherwise.
func (a *Agent) InterCity(ctx context.Context, origin, destination string, distanceKm float64, sameCountry bool, maxGroundDistanceKm float64, travelers int, strategy types.CountryStrategy) ([]types.TransportOption, []types.Warning) {
	ctx, span := a.tracer.Start(ctx, "transport.intercity")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("transport.same_country", sameCountry),
		attribute.Float64("transport.distance_km", distanceKm),
	)

	if !sameCountry || distanceKm > maxGroundDistanceKm {
		return nil, nil
	}

	var warnings []types.Warning

	routeContext, w := a.analyzeRoute(ctx, origin, destination)
	warnings = append(warnings, w...)

	economicContext, w := a.economicContext(ctx, destination, strategy)
	warnings = append(warnings, w...)

	modes := strategy.PreferredModes
	if len(modes) == 0 {
		modes = []types.TransportMode{types.ModeBus, types.ModeTrain, types.ModeCarRental}
	}

	options := make([]types.TransportOption, 0, len(modes))
	for _, mode := range modes {
		if mode == types.ModeFlight {
			continue
		}
		perPerson, confidence, w := a.localPriceResearch(ctx, mode, destination, distanceKm, routeContext, economicContext)
		warnings = append(warnings, w...)

		groupTotal := a.calculateCost(mode, perPerson, travelers)
		groupTotal = a.validateAndFormat(mode, groupTotal, distanceKm, strategy.PricingMultiplier)

		options = append(options, types.TransportOption{
			Type:            mode,
			CostPerTripUSD:  groupTotal,
			DistanceKm:      distanceKm,
			DurationMinutes: int(distanceKm / averageGroundSpeedKmh * 60.0),
			Description:     fmt.Sprintf("%s between %s and %s", string(mode), origin, destination),
			Confidence:      confidence,
		})
	}

	return options, warnings
}

// analyzeRoute is pipeline step 1: country, urban/rural, tourism level,
// infrastructure. Falls back to an empty string (downstream steps treat
// "" as "no additional context").
func (a *Agent) analyzeRoute(ctx context.Context, origin, destination string) (string, []types.Warning) {
	if !a.advisor.Available() {
		return "", nil
	}
	prompt := fmt.Sprintf("Briefly describe the route between %s and %s: urban or rural, tourism level, transport infrastructure quality. One sentence.", origin, destination)
	text, err := a.advisor.Generate(ctx, prompt, "Respond with one concise sentence.", 0.3, 120)
	if err != nil {
		return "", []types.Warning{types.NewWarning("transport", types.WarningProviderFailure, "route analysis failed: "+err.Error())}
	}
	return text, nil
}

// economicContext is pipeline step 2: GDP/cap, monthly income, cost-of-living
// index, summarized from the already-derived CountryStrategy.
func (a *Agent) economicContext(ctx context.Context, destination string, strategy types.CountryStrategy) (string, []types.Warning) {
	return fmt.Sprintf("pricing_multiplier=%.2f", strategy.PricingMultiplier), nil
}

// localPriceResearch is pipeline step 3: an LLM-advised per-person price for
// the given mode, falling back to the deterministic floor formula when the
// advisor is unavailable or returns an unparseable result.
func (a *Agent) localPriceResearch(ctx context.Context, mode types.TransportMode, destination string, distanceKm float64, routeContext, economicContext string) (float64, types.Confidence, []types.Warning) {
	floor := TransportFloorTable[mode].floor(distanceKm)

	if !a.advisor.Available() {
		return floor, types.ConfidenceEstimated, nil
	}

	prompt := fmt.Sprintf(
		"Estimate the typical one-way %s fare in USD for a %.0fkm trip to/from %s. Context: %s %s. Respond as JSON {\"price_usd\": n}.",
		string(mode), distanceKm, destination, routeContext, economicContext,
	)
	text, err := a.advisor.Generate(ctx, prompt, "Respond with JSON only.", 0.3, 100)
	if err != nil {
		return floor, types.ConfidenceEstimated, []types.Warning{types.NewWarning("transport", types.WarningProviderFailure, "local price research failed for "+string(mode)+": "+err.Error())}
	}
	data, ok := a.advisor.ExtractJSON(text)
	if !ok {
		return floor, types.ConfidenceEstimated, []types.Warning{types.NewWarning("transport", types.WarningProviderFailure, "local price research returned unparseable JSON for "+string(mode))}
	}
	price, ok := data["price_usd"].(float64)
	if !ok || price <= 0 {
		return floor, types.ConfidenceEstimated, nil
	}
	return price, types.ConfidenceHigh, nil
}

// calculateCost is pipeline step 4: scale per-seat modes by travelers; keep
// shared modes (taxi, car_rental) as a single group total. Round trip
// doubles the one-way price.
func (a *Agent) calculateCost(mode types.TransportMode, perPersonOrGroupOneWay float64, travelers int) float64 {
	oneWay := perPersonOrGroupOneWay
	if perSeatModes[mode] {
		oneWay *= float64(travelers)
	}
	return oneWay * 2
}

// validateAndFormat is pipeline step 5: enforces the floor/ceiling table and
// clamps against the country's pricing multiplier.
func (a *Agent) validateAndFormat(mode types.TransportMode, groupTotal, distanceKm, pricingMultiplier float64) float64 {
	floor := TransportFloorTable[mode].floor(distanceKm) * 2
	if pricingMultiplier > 0 {
		floor *= pricingMultiplier
	}
	if groupTotal < floor {
		groupTotal = floor
	}
	if groupTotal > MaxInterCityTripCostUSD {
		groupTotal = MaxInterCityTripCostUSD
	}
	return groupTotal
}

// Local is the always-on per-day destination transport estimator.
// local_total = daily_group_cost * trip_duration_days; never multiplied by
// travelers again at this layer.
func (a *Agent) Local(ctx context.Context, destination string, tripDurationDays int) (types.LocalTransportation, []types.Warning) {
	ctx, span := a.tracer.Start(ctx, "transport.local")
	defer span.End()

	dailyGroupCost, confidence, warnings := a.dailyLocalCost(ctx, destination)

	return types.LocalTransportation{
		DailyGroupCostUSD: dailyGroupCost,
		TotalUSD:          dailyGroupCost * float64(tripDurationDays),
		Description:       "local transport (tuk-tuk/taxi/bus) for the group",
		Confidence:        confidence,
	}, warnings
}

func (a *Agent) dailyLocalCost(ctx context.Context, destination string) (float64, types.Confidence, []types.Warning) {
	const fallback = 15.0

	if !a.advisor.Available() {
		return fallback, types.ConfidenceEstimated, nil
	}

	prompt := fmt.Sprintf("Estimate a typical daily group cost in USD for local transport (tuk-tuk, taxi, bus) in %s. Respond as JSON {\"daily_usd\": n}.", destination)
	text, err := a.advisor.Generate(ctx, prompt, "Respond with JSON only.", 0.3, 80)
	if err != nil {
		return fallback, types.ConfidenceEstimated, []types.Warning{types.NewWarning("transport", types.WarningProviderFailure, "local transport estimate failed: "+err.Error())}
	}
	data, ok := a.advisor.ExtractJSON(text)
	if !ok {
		return fallback, types.ConfidenceEstimated, nil
	}
	value, ok := data["daily_usd"].(float64)
	if !ok || value <= 0 {
		return fallback, types.ConfidenceEstimated, nil
	}
	return value, types.ConfidenceHigh, nil
}

// AirportTransfer returns the round-trip transfer cost, added only when
// flights exist for the trip.
func AirportTransfer(taxiCostPerTripUSD float64) float64 {
	return taxiCostPerTripUSD * 2
}

// AirportTaxiFare estimates the one-way taxi fare for a nominal
// airport-to-city-center hop. It feeds AirportTransfer directly, and is
// independent of InterCity's same-country/max-ground-distance gating since
// an airport transfer applies to any flight-bearing trip, domestic or not.
func (a *Agent) AirportTaxiFare(ctx context.Context, destination string) (float64, []types.Warning) {
	ctx, span := a.tracer.Start(ctx, "transport.airport_taxi_fare")
	defer span.End()

	perTrip, _, warnings := a.localPriceResearch(ctx, types.ModeTaxi, destination, nominalAirportHopKm, "", "")
	return perTrip, warnings
}
