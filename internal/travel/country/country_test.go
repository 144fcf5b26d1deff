package country

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelcost/engine/internal/travel/types"
)

type fakeProvider struct {
	profiles map[string]types.CountryProfile
}

func (f *fakeProvider) Fetch(ctx context.Context, countryCode string) (types.CountryProfile, error) {
	p, ok := f.profiles[countryCode]
	if !ok {
		return types.CountryProfile{}, errors.New("no profile")
	}
	return p, nil
}

func TestStrategy_USBaseline(t *testing.T) {
	provider := &fakeProvider{profiles: map[string]types.CountryProfile{
		"US": {Name: "United States", AreaKm2: 9_833_517, Population: 331_000_000, Region: "North America", GDPPerCapitaUSD: usGDPPerCapitaUSD},
	}}
	c := New(provider, nil, 0, 0)
	strategy, warnings := c.Strategy(context.Background(), "US")
	require.Empty(t, warnings)
	assert.InDelta(t, 1.0, strategy.PricingMultiplier, 0.01)
}

func TestStrategy_ClampsBounds(t *testing.T) {
	provider := &fakeProvider{profiles: map[string]types.CountryProfile{
		"XX": {Name: "Tiny", AreaKm2: 10, Population: 1000, GDPPerCapitaUSD: 1_000_000},
	}}
	c := New(provider, nil, 0, 0)
	strategy, _ := c.Strategy(context.Background(), "XX")
	assert.LessOrEqual(t, strategy.MaxGroundDistanceKm, maxGroundDistanceKm)
	assert.GreaterOrEqual(t, strategy.MaxGroundDistanceKm, minGroundDistanceKm)
	assert.LessOrEqual(t, strategy.PricingMultiplier, maxPricingMultiplier)
}

func TestStrategy_FallbackOnProviderFailure(t *testing.T) {
	c := New(nil, nil, 0, 0)
	strategy, warnings := c.Strategy(context.Background(), "LK")
	require.NotEmpty(t, warnings)
	assert.InDelta(t, 0.35, strategy.PricingMultiplier, 0.0001)
}

func TestStrategy_CachedWithinTTL(t *testing.T) {
	provider := &fakeProvider{profiles: map[string]types.CountryProfile{
		"IN": {AreaKm2: 3_287_263, Population: 1_400_000_000, GDPPerCapitaUSD: 2500},
	}}
	c := New(provider, nil, 0, 0)
	first, _ := c.Strategy(context.Background(), "IN")
	second, _ := c.Strategy(context.Background(), "IN")
	assert.Equal(t, first, second)
}
