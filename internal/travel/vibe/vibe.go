// Package vibe implements C11: season derivation, vibe/season compatibility
// scoring, and LLM-generated mood indicators and wellness tips.
package vibe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/travelcost/engine/internal/travel/advisor"
	"github.com/travelcost/engine/internal/travel/types"
)

// Season is one of the four Northern Hemisphere meteorological seasons.
// Hemisphere is a documented assumption (the spec does not address it) —
// see DESIGN.md.
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
)

// seasonForMonth maps a calendar month to its Northern Hemisphere
// meteorological season: winter = Dec-Feb, spring = Mar-May,
// summer = Jun-Aug, autumn = Sep-Nov.
func seasonForMonth(month time.Month) Season {
	switch month {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonAutumn
	}
}

// compatibilityMatrix scores how well a vibe fits a season: peak 1.0,
// trough 0.3, shoulder 0.6-0.75. Seeded with the spec's two example
// points (beach x summer = 1.0, beach x winter = 0.3; cultural peaks
// spring/autumn) and filled out with the same spread for every other pair.
var compatibilityMatrix = map[types.Vibe]map[Season]float64{
	types.VibeBeach: {
		SeasonSummer: 1.0,
		SeasonSpring: 0.6,
		SeasonAutumn: 0.6,
		SeasonWinter: 0.3,
	},
	types.VibeCultural: {
		SeasonSpring: 1.0,
		SeasonAutumn: 1.0,
		SeasonSummer: 0.7,
		SeasonWinter: 0.6,
	},
	types.VibeAdventure: {
		SeasonSummer: 1.0,
		SeasonSpring: 0.75,
		SeasonAutumn: 0.75,
		SeasonWinter: 0.5,
	},
	types.VibeNature: {
		SeasonSpring: 1.0,
		SeasonAutumn: 0.9,
		SeasonSummer: 0.7,
		SeasonWinter: 0.4,
	},
	types.VibeRomantic: {
		SeasonSpring: 0.9,
		SeasonAutumn: 0.9,
		SeasonWinter: 0.75,
		SeasonSummer: 0.7,
	},
	types.VibeCulinary: {
		SeasonAutumn: 1.0,
		SeasonSpring: 0.8,
		SeasonSummer: 0.7,
		SeasonWinter: 0.6,
	},
	types.VibeWellness: {
		SeasonSpring: 0.9,
		SeasonAutumn: 0.8,
		SeasonWinter: 0.75,
		SeasonSummer: 0.7,
	},
}

const defaultCompatibilityScore = 0.6

// Agent implements C11.
type Agent struct {
	advisor *advisor.LLMAdvisor
	tracer  trace.Tracer
}

// New builds an Agent.
func New(llmAdvisor *advisor.LLMAdvisor) *Agent {
	return &Agent{
		advisor: llmAdvisor,
		tracer:  otel.Tracer("travelcost.vibe"),
	}
}

// Analyze derives the season from startDate, scores vibe/season
// compatibility, and generates mood indicators and wellness tips.
func (a *Agent) Analyze(ctx context.Context, vibe types.Vibe, destination string, startDate time.Time) (types.VibeAnalysis, []types.Warning) {
	ctx, span := a.tracer.Start(ctx, "vibe.analyze")
	defer span.End()

	season := seasonForMonth(startDate.Month())
	score := defaultCompatibilityScore
	if bySeason, ok := compatibilityMatrix[vibe]; ok {
		if s, ok := bySeason[season]; ok {
			score = s
		}
	}

	span.SetAttributes(
		attribute.String("vibe.vibe", string(vibe)),
		attribute.String("vibe.season", string(season)),
		attribute.Float64("vibe.compatibility_score", score),
	)

	moodIndicators, wellnessTips, warnings := a.generateIndicatorsAndTips(ctx, vibe, destination, season)

	return types.VibeAnalysis{
		Vibe:               vibe,
		Season:             string(season),
		CompatibilityScore: score,
		MoodIndicators:     moodIndicators,
		WellnessTips:       wellnessTips,
	}, warnings
}

var fallbackMoodIndicators = map[types.Vibe][]string{
	types.VibeBeach:     {"relaxed", "sun-soaked", "unhurried"},
	types.VibeCultural:  {"curious", "reflective", "immersed"},
	types.VibeAdventure: {"energized", "bold", "exploratory"},
	types.VibeRomantic:  {"intimate", "tender", "dreamy"},
	types.VibeNature:    {"grounded", "peaceful", "awestruck"},
	types.VibeCulinary:  {"indulgent", "curious", "satisfied"},
	types.VibeWellness:  {"calm", "restored", "centered"},
}

var fallbackWellnessTips = []string{
	"Stay hydrated and pace your days to avoid travel fatigue.",
	"Build in unscheduled downtime between activities.",
}

// generateIndicatorsAndTips asks the LLM for mood indicators and wellness
// tips with a short, bounded prompt, falling back to a deterministic bank
// keyed by vibe when the advisor is unavailable or returns unusable JSON.
func (a *Agent) generateIndicatorsAndTips(ctx context.Context, vibe types.Vibe, destination string, season Season) ([]string, []string, []types.Warning) {
	if !a.advisor.Available() {
		return fallbackMoodIndicators[vibe], fallbackWellnessTips, nil
	}

	prompt := "For a " + string(vibe) + "-vibe trip to " + destination + " in " + string(season) +
		", give 3 short mood indicators and 2 brief wellness tips. Respond as JSON " +
		`{"mood_indicators": ["..."], "wellness_tips": ["..."]}.`
	text, err := a.advisor.Generate(ctx, prompt, "Respond with JSON only.", 0.4, 200)
	if err != nil {
		return fallbackMoodIndicators[vibe], fallbackWellnessTips, []types.Warning{
			types.NewWarning("vibe", types.WarningProviderFailure, "mood/wellness generation failed: "+err.Error()),
		}
	}

	data, ok := a.advisor.ExtractJSON(text)
	if !ok {
		return fallbackMoodIndicators[vibe], fallbackWellnessTips, []types.Warning{
			types.NewWarning("vibe", types.WarningProviderFailure, "mood/wellness generation returned unparseable JSON"),
		}
	}

	moodIndicators := toStringSlice(data["mood_indicators"])
	wellnessTips := toStringSlice(data["wellness_tips"])
	if len(moodIndicators) == 0 {
		moodIndicators = fallbackMoodIndicators[vibe]
	}
	if len(wellnessTips) == 0 {
		wellnessTips = fallbackWellnessTips
	}
	return moodIndicators, wellnessTips, nil
}

func toStringSlice(value interface{}) []string {
	list, ok := value.([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
