// Package country implements C3: per-country economic/geographic profiles
// and the transport/pricing strategy derived from them.
package country

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/travelcost/engine/internal/cache"
	"github.com/travelcost/engine/internal/travel/advisor"
	"github.com/travelcost/engine/internal/travel/types"
)

const (
	// DefaultTTL matches CACHE_TTL_COUNTRY_SECS's default of 86400s.
	DefaultTTL = 24 * time.Hour

	usGDPPerCapitaUSD = 76330.0

	minGroundDistanceKm = 150.0
	maxGroundDistanceKm = 800.0

	minPricingMultiplier = 0.01
	maxPricingMultiplier = 1.5
)

// ProfileProvider is the external capability that returns a raw country
// profile (area, population, region, currency, GDP per capita).
type ProfileProvider interface {
	Fetch(ctx context.Context, country string) (types.CountryProfile, error)
}

// regionalTier is the fallback table used when ProfileProvider fails.
type regionalTier struct {
	multiplier          float64
	maxGroundDistanceKm float64
}

// regionTiers classifies each known region into budget/mid/expensive,
// per SPEC_FULL.md §4.3's "regional-tier table" fallback.
var regionTiers = map[string]regionalTier{
	"South Asia":      {multiplier: 0.35, maxGroundDistanceKm: 400},
	"Southeast Asia":  {multiplier: 0.4, maxGroundDistanceKm: 400},
	"Africa":          {multiplier: 0.35, maxGroundDistanceKm: 400},
	"South America":   {multiplier: 0.5, maxGroundDistanceKm: 400},
	"Central America": {multiplier: 0.45, maxGroundDistanceKm: 400},
	"Eastern Europe":  {multiplier: 0.6, maxGroundDistanceKm: 400},
	"Middle East":     {multiplier: 0.7, maxGroundDistanceKm: 400},
	"East Asia":       {multiplier: 0.75, maxGroundDistanceKm: 400},
	"Western Europe":  {multiplier: 1.1, maxGroundDistanceKm: 400},
	"North America":   {multiplier: 1.0, maxGroundDistanceKm: 400},
	"Oceania":         {multiplier: 1.1, maxGroundDistanceKm: 400},
}

var defaultTier = regionalTier{multiplier: 0.7, maxGroundDistanceKm: 400}

type cacheEntry struct {
	strategy types.CountryStrategy
	storedAt time.Time
}

// Cache implements C3. TTL 24h by default; failures fall back to
// regionTiers.
type Cache struct {
	provider ProfileProvider
	advisor  *advisor.LLMAdvisor
	ttl      time.Duration
	lru      *cache.LRU
	tracer   trace.Tracer
}

// New builds a Cache. provider may be nil (every lookup falls back to the
// regional tier table). advisor may be nil (multiplier is never
// LLM-refined). cacheCapacity bounds the strategy LRU; 0 or less means
// unbounded.
func New(provider ProfileProvider, llmAdvisor *advisor.LLMAdvisor, ttl time.Duration, cacheCapacity int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		provider: provider,
		advisor:  llmAdvisor,
		ttl:      ttl,
		lru:      cache.NewLRU(cacheCapacity),
		tracer:   otel.Tracer("travelcost.country"),
	}
}

// Strategy returns the country's transport/pricing strategy, fetching and
// deriving it if not cached or expired.
func (c *Cache) Strategy(ctx context.Context, countryCode string) (types.CountryStrategy, []types.Warning) {
	ctx, span := c.tracer.Start(ctx, "country.strategy")
	defer span.End()
	span.SetAttributes(attribute.String("country.code", countryCode))

	if hit, ok := c.lru.Get(countryCode); ok {
		entry := hit.(cacheEntry)
		if time.Since(entry.storedAt) < c.ttl {
			return entry.strategy, nil
		}
	}

	var warnings []types.Warning

	if c.provider != nil {
		profile, err := c.provider.Fetch(ctx, countryCode)
		if err == nil {
			strategy := deriveStrategy(profile)
			refined, refineWarnings := c.refineMultiplier(ctx, countryCode, strategy.PricingMultiplier)
			strategy.PricingMultiplier = refined
			warnings = append(warnings, refineWarnings...)
			c.lru.Set(countryCode, cacheEntry{strategy: strategy, storedAt: time.Now()})
			return strategy, warnings
		}
		span.RecordError(err)
		warnings = append(warnings, types.NewWarning("country", types.WarningProviderFailure, "country profile provider failed for "+countryCode+": "+err.Error()))
	} else {
		warnings = append(warnings, types.NewWarning("country", types.WarningProviderFailure, "no country profile provider configured; using regional tier table for "+countryCode))
	}

	strategy := fallbackStrategy(countryCode)
	refined, refineWarnings := c.refineMultiplier(ctx, countryCode, strategy.PricingMultiplier)
	strategy.PricingMultiplier = refined
	warnings = append(warnings, refineWarnings...)
	c.lru.Set(countryCode, cacheEntry{strategy: strategy, storedAt: time.Now()})
	return strategy, warnings
}

// refineMultiplier optionally adjusts a baseline pricing_multiplier using
// the LLM advisor's read on current economic conditions; with no advisor,
// or on any failure to produce a usable number, the baseline is returned
// unchanged.
func (c *Cache) refineMultiplier(ctx context.Context, countryCode string, base float64) (float64, []types.Warning) {
	if !c.advisor.Available() {
		return base, nil
	}

	prompt := fmt.Sprintf(
		"Given a baseline travel cost multiplier of %.2f for %s (1.0 = US costs), refine it for current economic conditions. Respond as JSON {\"multiplier\": n}.",
		base, countryCode,
	)
	text, err := c.advisor.Generate(ctx, prompt, "Respond with JSON only.", 0.3, 60)
	if err != nil {
		return base, []types.Warning{types.NewWarning("country", types.WarningProviderFailure, "pricing multiplier refinement failed for "+countryCode+": "+err.Error())}
	}

	data, ok := c.advisor.ExtractJSON(text)
	if !ok {
		return base, nil
	}
	refined, ok := data["multiplier"].(float64)
	if !ok || refined <= 0 {
		return base, nil
	}
	return clamp(refined, minPricingMultiplier, maxPricingMultiplier), nil
}

// deriveStrategy computes max_ground_distance_km, preferred_modes, and
// pricing_multiplier from a raw CountryProfile per §4.3's formulas.
func deriveStrategy(profile types.CountryProfile) types.CountryStrategy {
	density := 0.0
	if profile.AreaKm2 > 0 {
		density = profile.Population / profile.AreaKm2
	}

	// densityFactor shrinks the distance radius for dense countries (ground
	// transport is efficient, short hops preferred) and grows it for sparse
	// ones (flights make more sense beyond a larger radius).
	densityFactor := 6.0
	if density > 300 {
		densityFactor = 3.0
	} else if density < 30 {
		densityFactor = 10.0
	}

	maxGroundDistance := clamp(math.Sqrt(profile.AreaKm2)*densityFactor, minGroundDistanceKm, maxGroundDistanceKm)

	multiplier := clamp(math.Sqrt(profile.GDPPerCapitaUSD/usGDPPerCapitaUSD), minPricingMultiplier, maxPricingMultiplier)

	return types.CountryStrategy{
		MaxGroundDistanceKm: maxGroundDistance,
		PreferredModes:      preferredModes(profile.AreaKm2, density),
		PricingMultiplier:   multiplier,
	}
}

// preferredModes orders transport modes by suitability: small/dense
// countries favor train/bus/car, vast countries favor flight/train/car.
func preferredModes(areaKm2, density float64) []types.TransportMode {
	if areaKm2 > 2_000_000 {
		return []types.TransportMode{types.ModeFlight, types.ModeTrain, types.ModeCarRental}
	}
	if density > 300 {
		return []types.TransportMode{types.ModeTrain, types.ModeBus, types.ModeCarRental}
	}
	return []types.TransportMode{types.ModeBus, types.ModeTrain, types.ModeCarRental}
}

// fallbackStrategy returns the regional-tier table's estimate, used when the
// profile provider is absent or fails.
func fallbackStrategy(countryCode string) types.CountryStrategy {
	region := regionForCountry(countryCode)
	tier, ok := regionTiers[region]
	if !ok {
		tier = defaultTier
	}
	return types.CountryStrategy{
		MaxGroundDistanceKm: tier.maxGroundDistanceKm,
		PreferredModes:      []types.TransportMode{types.ModeBus, types.ModeTrain, types.ModeCarRental},
		PricingMultiplier:   tier.multiplier,
	}
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
