package airport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/travelcost/engine/internal/travel/advisor"
)

func TestResolve_CuratedMap(t *testing.T) {
	r := New(advisor.New(nil), 0)
	result := r.Resolve(context.Background(), "Galle")
	assert.Equal(t, "CMB", result.Code)
	assert.Equal(t, "LK", result.Country)
	assert.Equal(t, 2, result.Tier)
}

func TestResolve_CaseInsensitiveMemoization(t *testing.T) {
	r := New(advisor.New(nil), 0)
	a := r.Resolve(context.Background(), "PARIS")
	b := r.Resolve(context.Background(), "paris")
	assert.Equal(t, a, b)
}

func TestResolve_KnownCodePassthrough(t *testing.T) {
	r := New(advisor.New(nil), 0)
	result := r.Resolve(context.Background(), "CDG")
	assert.Equal(t, "CDG", result.Code)
	assert.Equal(t, 1, result.Tier)
}

func TestResolve_UnknownCityWithoutLLMYieldsSentinel(t *testing.T) {
	r := New(advisor.New(nil), 0)
	result := r.Resolve(context.Background(), "Nowhereville Zyx")
	assert.True(t, result.Unknown)
	assert.Equal(t, UnknownCode, result.Code)
}

func TestCountryGateway_Deterministic(t *testing.T) {
	r := New(advisor.New(nil), 0)
	first, ok := r.CountryGateway("US")
	assert.True(t, ok)
	second, _ := r.CountryGateway("US")
	assert.Equal(t, first, second)
}

func TestRequiredScenarioCities(t *testing.T) {
	r := New(advisor.New(nil), 0)
	for _, city := range []string{"Galle", "Matara", "Colombo", "Paris", "Delhi", "Mumbai", "Tokyo", "New York"} {
		result := r.Resolve(context.Background(), city)
		assert.False(t, result.Unknown, "expected %s to resolve", city)
	}
}
