package flight

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelcost/engine/internal/travel/provider"
)

type fakeProvider struct {
	offers []provider.FlightOffer
	err    error
}

func (f *fakeProvider) Search(ctx context.Context, params provider.FlightSearchParams) ([]provider.FlightOffer, error) {
	return f.offers, f.err
}

func TestSearch_StopPenalizedSort(t *testing.T) {
	fp := &fakeProvider{offers: []provider.FlightOffer{
		{Airline: "A", PriceUSD: 300, Stops: 1}, // 350
		{Airline: "B", PriceUSD: 320, Stops: 0}, // 320
		{Airline: "C", PriceUSD: 200, Stops: 2}, // 300
	}}
	agent := New(fp)
	result, warnings := agent.Search(context.Background(), "CMB", "CDG", time.Now(), time.Now().AddDate(0, 0, 5), 2, false)
	require.Empty(t, warnings)
	require.Len(t, result.Flights, 3)
	assert.Equal(t, "C", result.Flights[0].Airline)
	assert.Equal(t, "B", result.Flights[1].Airline)
	assert.Equal(t, "A", result.Flights[2].Airline)
}

func TestSearch_PriceNotMultipliedByTravelers(t *testing.T) {
	fp := &fakeProvider{offers: []provider.FlightOffer{{Airline: "A", PriceUSD: 1000}}}
	agent := New(fp)

	oneTraveler, _ := agent.Search(context.Background(), "CMB", "CDG", time.Now(), time.Now(), 1, false)
	fourTravelers, _ := agent.Search(context.Background(), "CMB", "CDG", time.Now(), time.Now(), 4, false)

	assert.Equal(t, oneTraveler.Flights[0].PriceUSD, fourTravelers.Flights[0].PriceUSD)
}

func TestSearch_NoProviderFailsSoft(t *testing.T) {
	agent := New(nil)
	result, warnings := agent.Search(context.Background(), "CMB", "CDG", time.Now(), time.Now(), 2, false)
	assert.Empty(t, result.Flights)
	assert.NotEmpty(t, warnings)
}

func TestSearch_CapsAtTenResults(t *testing.T) {
	offers := make([]provider.FlightOffer, 15)
	for i := range offers {
		offers[i] = provider.FlightOffer{PriceUSD: float64(100 + i)}
	}
	agent := New(&fakeProvider{offers: offers})
	result, _ := agent.Search(context.Background(), "CMB", "CDG", time.Now(), time.Now(), 1, false)
	assert.Len(t, result.Flights, MaxResults)
}
