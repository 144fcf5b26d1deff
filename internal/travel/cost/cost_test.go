package cost

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelcost/engine/internal/travel/advisor"
	"github.com/travelcost/engine/internal/travel/types"
)

func baseRequest(travelers int, vibe types.Vibe) *types.TravelRequest {
	return &types.TravelRequest{
		Origin:      "Colombo",
		Destination: "Galle",
		StartDate:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		ReturnDate:  time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC),
		Travelers:   travelers,
		Vibe:        vibe,
	}
}

func TestAssemble_AccommodationUsesRoomsNeededNotTravelers(t *testing.T) {
	agent := New(advisor.New(nil))
	for travelers := 1; travelers <= 6; travelers++ {
		req := baseRequest(travelers, types.VibeCultural)
		in := Inputs{
			NightlyHotelUSD: 100,
			Nights:          3,
			RoomsNeeded:     req.RoomsNeeded(),
			Request:         req,
			PricingMultiplier: 1.0,
		}
		breakdown, _, _ := agent.Assemble(context.Background(), in)
		expected := 100.0 * 3 * float64(req.RoomsNeeded())
		assert.Equal(t, expected, breakdown.Accommodation, "travelers=%d", travelers)
	}
}

func TestAssemble_FlightsZeroWhenSkipped(t *testing.T) {
	agent := New(advisor.New(nil))
	req := baseRequest(2, types.VibeCultural)
	in := Inputs{HasFlights: false, CheapestFlightPriceUSD: 999, Request: req, PricingMultiplier: 1.0}
	breakdown, _, _ := agent.Assemble(context.Background(), in)
	assert.Equal(t, 0.0, breakdown.Flights)
}

func TestAssemble_TotalIsSumOfCategories(t *testing.T) {
	agent := New(advisor.New(nil))
	req := baseRequest(2, types.VibeAdventure)
	in := Inputs{
		HasFlights:             true,
		CheapestFlightPriceUSD: 500,
		NightlyHotelUSD:        80,
		Nights:                 3,
		RoomsNeeded:            1,
		Transportation: types.Transportation{
			InterCityOptions: []types.TransportOption{{CostPerTripUSD: 40}},
			LocalTransport:   types.LocalTransportation{TotalUSD: 60},
			AirportTransferUSD: 20,
		},
		Request:           req,
		PricingMultiplier: 0.5,
	}
	breakdown, perPerson, _ := agent.Assemble(context.Background(), in)
	assert.InDelta(t, breakdown.Sum(), breakdown.Total, 0.01)
	assert.Equal(t, 80.0, breakdown.TransportLocal)
	assert.Equal(t, 40.0, breakdown.TransportInterCity)
	require.Greater(t, breakdown.Total, 0.0)
	assert.Equal(t, perPerson, breakdown.Total/2)
}

func TestEstimateDailyCategory_AppliesVibeMultiplier(t *testing.T) {
	agent := New(advisor.New(nil))
	culinary := baseRequest(2, types.VibeCulinary)
	cultural := baseRequest(2, types.VibeCultural)

	food, _ := agent.estimateDailyCategory(context.Background(), "food", foodBaseline, culinary, 1.0)
	foodDefault, _ := agent.estimateDailyCategory(context.Background(), "food", foodBaseline, cultural, 1.0)
	assert.Greater(t, food, foodDefault)
}

func TestEstimateDailyCategory_ClampsOutOfBand(t *testing.T) {
	agent := New(advisor.New(nil))
	req := baseRequest(2, types.VibeCultural)
	// an unrealistic pricing multiplier pushes the baseline far outside the band
	value, warnings := agent.estimateDailyCategory(context.Background(), "food", foodBaseline, req, 50.0)
	days := float64(req.TripDurationDays())
	maxPossible := foodBaseline.band.max * days * float64(req.Travelers)
	assert.LessOrEqual(t, value, maxPossible)
	assert.NotEmpty(t, warnings)
}
