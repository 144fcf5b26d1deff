// Package distance implements C2: road distance and drive time between two
// places, with a geocode + haversine fallback.
package distance

import (
	"context"
	"math"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/travelcost/engine/internal/cache"
	"github.com/travelcost/engine/internal/travel/concurrency"
)

const earthRadiusKm = 6371.0
const fallbackSpeedKmh = 70.0

// Coordinates is a (lat, lon) pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Result is a resolved drive distance/time.
type Result struct {
	KM      float64
	Minutes float64
	// Estimated is true when the result came from the haversine fallback
	// rather than a live maps provider.
	Estimated bool
}

// MapsProvider is the external road-distance capability (DistanceProvider in
// SPEC_FULL.md §1).
type MapsProvider interface {
	Drive(ctx context.Context, origin, destination string) (km, minutes float64, err error)
}

// Geocoder is the external forward-geocoding capability.
type Geocoder interface {
	Forward(ctx context.Context, city string) (Coordinates, string, error)
}

// Calculator implements C2. Safe for concurrent use.
type Calculator struct {
	maps     MapsProvider
	geocoder Geocoder
	cache    *cache.LRU
	dedup    *concurrency.KeyedOnce
	tracer   trace.Tracer
}

// New builds a Calculator. Either dependency may be nil; Drive degrades
// accordingly (maps absent → straight to geocode fallback; geocoder absent
// too → (Result{}, false)). cacheCapacity bounds the resolved-distance LRU;
// 0 or less means unbounded.
func New(maps MapsProvider, geocoder Geocoder, cacheCapacity int) *Calculator {
	return &Calculator{
		maps:     maps,
		geocoder: geocoder,
		cache:    cache.NewLRU(cacheCapacity),
		dedup:    concurrency.NewKeyedOnce(),
		tracer:   otel.Tracer("travelcost.distance"),
	}
}

// Drive returns the driving distance/time between a and b, or (Result{},
// false) if neither the maps provider nor the geocoder fallback succeeded.
// Cached symmetrically: Drive(a,b) and Drive(b,a) share one cache entry.
func (c *Calculator) Drive(ctx context.Context, a, b string) (Result, bool) {
	ctx, span := c.tracer.Start(ctx, "distance.drive")
	defer span.End()

	key := symmetricKey(a, b)
	span.SetAttributes(attribute.String("distance.key", key))

	cached, _ := c.dedup.Do(key, func() (interface{}, error) {
		if hit, ok := c.cache.Get(key); ok {
			return hit, nil
		}

		result, ok := c.resolveUncached(ctx, a, b)
		entry := cacheEntry{result: result, ok: ok}
		if ok {
			c.cache.Set(key, entry)
		}
		return entry, nil
	})

	entry := cached.(cacheEntry)
	return entry.result, entry.ok
}

type cacheEntry struct {
	result Result
	ok     bool
}

func (c *Calculator) resolveUncached(ctx context.Context, a, b string) (Result, bool) {
	if c.maps != nil {
		km, minutes, err := c.maps.Drive(ctx, a, b)
		if err == nil {
			return Result{KM: km, Minutes: minutes}, true
		}
	}

	if c.geocoder == nil {
		return Result{}, false
	}

	coordsA, _, errA := c.geocoder.Forward(ctx, a)
	coordsB, _, errB := c.geocoder.Forward(ctx, b)
	if errA != nil || errB != nil {
		return Result{}, false
	}

	km := Haversine(coordsA, coordsB)
	return Result{
		KM:        km,
		Minutes:   (km / fallbackSpeedKmh) * 60,
		Estimated: true,
	}, true
}

// Haversine returns the great-circle distance in km between two coordinates.
func Haversine(a, b Coordinates) float64 {
	lat1 := degToRad(a.Latitude)
	lat2 := degToRad(b.Latitude)
	dLat := degToRad(b.Latitude - a.Latitude)
	dLon := degToRad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// symmetricKey builds a cache key that is identical for (a, b) and (b, a).
func symmetricKey(a, b string) string {
	na, nb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if na > nb {
		na, nb = nb, na
	}
	return na + "|" + nb
}
