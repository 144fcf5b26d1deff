// Package airport resolves a free-text city to an IATA code and a country
// using the 5-tier strategy from SPEC_FULL.md §4.1.
package airport

import (
	"context"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/travelcost/engine/internal/cache"
	"github.com/travelcost/engine/internal/travel/advisor"
	"github.com/travelcost/engine/internal/travel/concurrency"
)

// UnknownCode is the sentinel returned when all tiers fail.
const UnknownCode = "UNKNOWN"

var codePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Result is a resolved (code, country) pair with the tier that produced it.
type Result struct {
	Code    string
	Country string
	Tier    int
	Unknown bool
}

// Resolver implements C1. It is safe for concurrent use.
type Resolver struct {
	advisor *advisor.LLMAdvisor
	cache   *cache.LRU
	dedup   *concurrency.KeyedOnce
	tracer  trace.Tracer
}

// New builds a Resolver. advisor may be nil, in which case tier 3 is
// skipped, matching "tiers 3 and 4 are skipped if their providers are
// absent"; tier 4 is only reached with a country named by tier 3, so it is
// skipped as well.
// cacheCapacity bounds the resolved-city LRU; 0 or less means unbounded.
func New(llmAdvisor *advisor.LLMAdvisor, cacheCapacity int) *Resolver {
	return &Resolver{
		advisor: llmAdvisor,
		cache:   cache.NewLRU(cacheCapacity),
		dedup:   concurrency.NewKeyedOnce(),
		tracer:  otel.Tracer("travelcost.airport"),
	}
}

// Resolve runs the 5-tier strategy for a free-text city, memoized
// case-insensitively per input.
func (r *Resolver) Resolve(ctx context.Context, city string) Result {
	ctx, span := r.tracer.Start(ctx, "airport.resolve")
	defer span.End()

	key := normalize(city)
	span.SetAttributes(attribute.String("airport.query", key))

	value, _ := r.dedup.Do(key, func() (interface{}, error) {
		if cached, ok := r.cache.Get(key); ok {
			return cached, nil
		}
		result := r.resolveUncached(ctx, city, key)
		r.cache.Set(key, result)
		return result, nil
	})

	return value.(Result)
}

func (r *Resolver) resolveUncached(ctx context.Context, original, key string) Result {
	// Tier 1: normalize & detect — already a known 3-letter code.
	upper := strings.ToUpper(strings.TrimSpace(original))
	if codePattern.MatchString(upper) {
		if entry, ok := knownCodes[upper]; ok {
			return Result{Code: upper, Country: entry.Country, Tier: 1}
		}
	}

	// Tier 2: curated map.
	if entry, ok := curatedCities[key]; ok {
		return Result{Code: entry.Code, Country: entry.Country, Tier: 2}
	}

	// Tier 3: LLM/search probe, falling through to tier 4 when the LLM
	// names a country but can't produce a well-formed code.
	if r.advisor.Available() {
		code, country := r.probeLLM(ctx, original)
		if code != "" {
			return Result{Code: code, Country: country, Tier: 3}
		}
		if country != "" {
			if result, ok := r.CountryGateway(country); ok {
				return result
			}
		}
	}

	// Tier 5: nothing resolved the city to even a country.
	return Result{Code: UnknownCode, Unknown: true, Tier: 5}
}

// probeLLM asks the advisor for the nearest IATA airport to city. It
// returns the code only when well-formed, but still surfaces any country
// the LLM named even when the code fails validation, so resolveUncached
// can feed a partial result into tier 4.
func (r *Resolver) probeLLM(ctx context.Context, city string) (code, country string) {
	prompt := "Nearest IATA airport to " + city + "; respond as JSON {\"code\": \"XXX\", \"country\": \"CC\"}"
	text, err := r.advisor.Generate(ctx, prompt, "You are a precise travel data assistant. Respond with JSON only.", 0.1, 60)
	if err != nil {
		return "", ""
	}

	data, ok := r.advisor.ExtractJSON(text)
	if !ok {
		return "", ""
	}

	rawCode, _ := data["code"].(string)
	rawCode = strings.ToUpper(strings.TrimSpace(rawCode))
	rawCountry, _ := data["country"].(string)
	rawCountry = strings.ToUpper(strings.TrimSpace(rawCountry))

	if !codePattern.MatchString(rawCode) {
		return "", rawCountry
	}
	return rawCode, rawCountry
}

// ResolveCountry resolves a city to just its country, mirroring the same
// tiers as Resolve but returning the country half of the pair.
func (r *Resolver) ResolveCountry(ctx context.Context, city string) (string, bool) {
	result := r.Resolve(ctx, city)
	if result.Unknown || result.Country == "" {
		return "", false
	}
	return result.Country, true
}

// CountryGateway resolves a known country to its curated primary airport
// (tier 4 in isolation), used when only the country half of a pair is known.
func (r *Resolver) CountryGateway(country string) (Result, bool) {
	code, ok := countryPrimaryGateway(country)
	if !ok {
		return Result{}, false
	}
	return Result{Code: code, Country: country, Tier: 4}, true
}

func normalize(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
