// Package itinerary implements C10: a day-by-day plan whose per-day costs
// stay consistent with the already-computed CostBreakdown.
package itinerary

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/travelcost/engine/internal/travel/types"
)

// Agent implements C10.
type Agent struct {
	tracer trace.Tracer
}

// New builds an Agent.
func New() *Agent {
	return &Agent{tracer: otel.Tracer("travelcost.itinerary")}
}

// phraseBank varies the deterministic fallback's activity phrasing by vibe.
var phraseBank = map[types.Vibe][]string{
	types.VibeBeach:     {"Relax at a beachfront cafe", "Unhurried walk along the shore", "Watch the sunset by the water"},
	types.VibeCultural:  {"Guided heritage walk", "Visit a local museum", "Explore the old town"},
	types.VibeAdventure: {"Try a local outdoor activity", "Hike a nearby trail", "Seek out an adrenaline excursion"},
	types.VibeRomantic:  {"Sunset dinner for two", "Stroll through a scenic quarter", "Quiet evening at a viewpoint"},
	types.VibeNature:    {"Visit a nature reserve", "Walk among local flora", "Spend the morning birdwatching"},
	types.VibeCulinary:  {"Sample the local food market", "Take a cooking class", "Dine at a well-reviewed local spot"},
	types.VibeWellness:  {"Morning yoga or meditation", "Visit a spa or wellness center", "Unwind with a slow-paced afternoon"},
}

var mealTierByVibe = map[types.Vibe]string{
	types.VibeCulinary: "splurge",
	types.VibeRomantic: "mid",
	types.VibeWellness: "mid",
}

const defaultMealTier = "budget"

// Build produces trip_duration_days entries, using hotelContext
// (C7's optional output) when available, and derives each day's
// estimated_day_cost from the per-day-attributable categories of
// breakdown (food + activities + local transport; flights/accommodation are
// already itemized separately) so day-level sums stay consistent with the
// overall breakdown.
func (a *Agent) Build(ctx context.Context, request *types.TravelRequest, hotelContext *types.HotelContext, breakdown types.CostBreakdown) []types.Day {
	_, span := a.tracer.Start(ctx, "itinerary.build")
	defer span.End()

	days := request.TripDurationDays()
	perDayAttributable := (breakdown.Food + breakdown.Activities + breakdown.TransportLocal) / float64(days)

	phrases := phraseBank[request.Vibe]
	if len(phrases) == 0 {
		phrases = []string{"Explore " + request.Destination + " at your own pace"}
	}

	mealTier := mealTierByVibe[request.Vibe]
	if mealTier == "" {
		mealTier = defaultMealTier
	}

	result := make([]types.Day, 0, days)
	for i := 0; i < days; i++ {
		title := fmt.Sprintf("Day %d in %s", i+1, request.Destination)

		activityCount := 2
		if len(phrases) >= 3 {
			activityCount = 3
		}
		activities := make([]string, 0, activityCount)
		for j := 0; j < activityCount; j++ {
			activities = append(activities, phrases[(i+j)%len(phrases)])
		}

		transportNotes := "Local transport via the destination's typical options."
		if hotelContext != nil && len(hotelContext.Neighborhoods) > 0 {
			transportNotes = "Based near " + hotelContext.Neighborhoods[i%len(hotelContext.Neighborhoods)] + "; local transport via the destination's typical options."
		}

		result = append(result, types.Day{
			Title:      title,
			Activities: activities,
			Meals: []types.MealSuggestion{
				{Name: "Breakfast", PriceTier: defaultMealTier},
				{Name: "Lunch", PriceTier: mealTier},
				{Name: "Dinner", PriceTier: mealTier},
			},
			TransportNotes:   transportNotes,
			EstimatedDayCost: perDayAttributable,
		})
	}

	return result
}
