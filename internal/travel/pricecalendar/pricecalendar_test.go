package pricecalendar

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelcost/engine/internal/travel/provider"
)

type fakeFlightProvider struct {
	priceForDay func(day int) float64
}

func (f *fakeFlightProvider) Search(ctx context.Context, params provider.FlightSearchParams) ([]provider.FlightOffer, error) {
	date, _ := time.Parse("2006-01-02", params.DepartDate)
	return []provider.FlightOffer{{PriceUSD: f.priceForDay(date.Day())}}, nil
}

type flakyFlightProvider struct {
	mutex     sync.Mutex
	succeeded int
	maxOK     int
}

func (f *flakyFlightProvider) Search(ctx context.Context, params provider.FlightSearchParams) ([]provider.FlightOffer, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.succeeded >= f.maxOK {
		return nil, errors.New("provider error")
	}
	f.succeeded++
	return []provider.FlightOffer{{PriceUSD: 200}}, nil
}

func TestBuild_ClassifiesCheapAndModerate(t *testing.T) {
	fp := &fakeFlightProvider{priceForDay: func(day int) float64 {
		if day == 15 {
			return 100 // the target date itself: cheap
		}
		return 300
	}}
	cal := New(fp)
	target, _ := time.Parse("2006-01-02", "2025-06-15")
	result, warnings := cal.Build(context.Background(), "CMB", "CDG", target, 5*24*time.Hour, 2, 3)

	require.Empty(t, warnings)
	assert.Len(t, result.Entries, 7)
	assert.Equal(t, "cheap", result.Entries[3].Classification)
	assert.Equal(t, "moderate", result.Entries[0].Classification)
	require.NotNil(t, result.CheapestOption)
	assert.Equal(t, 100.0, result.CheapestOption.Price)
	assert.NotEmpty(t, result.Recommendations)
}

func TestBuild_NoProviderDegrades(t *testing.T) {
	cal := New(nil)
	target := time.Now()
	result, warnings := cal.Build(context.Background(), "CMB", "CDG", target, 0, 2, 7)
	assert.True(t, result.LowConfidence)
	assert.NotEmpty(t, warnings)
}

func TestBuild_FewValidPricesDegrades(t *testing.T) {
	fp := &flakyFlightProvider{maxOK: 2}
	cal := New(fp)
	target := time.Now()
	result, warnings := cal.Build(context.Background(), "CMB", "CDG", target, 0, 2, 2)
	assert.True(t, result.LowConfidence)
	assert.NotEmpty(t, warnings)
}
