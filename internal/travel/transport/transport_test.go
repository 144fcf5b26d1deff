package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelcost/engine/internal/travel/advisor"
	"github.com/travelcost/engine/internal/travel/types"
)

func TestInterCity_SkippedWhenOutOfRange(t *testing.T) {
	agent := New(advisor.New(nil))
	options, warnings := agent.InterCity(context.Background(), "Colombo", "Kandy", 900, true, 400, 2, types.CountryStrategy{})
	assert.Empty(t, options)
	assert.Empty(t, warnings)
}

func TestInterCity_SkippedWhenDifferentCountry(t *testing.T) {
	agent := New(advisor.New(nil))
	options, _ := agent.InterCity(context.Background(), "Colombo", "Paris", 50, false, 400, 2, types.CountryStrategy{})
	assert.Empty(t, options)
}

func TestInterCity_FallsBackToFloorWithoutAdvisor(t *testing.T) {
	agent := New(advisor.New(nil))
	strategy := types.CountryStrategy{
		MaxGroundDistanceKm: 400,
		PreferredModes:      []types.TransportMode{types.ModeTrain, types.ModeBus},
		PricingMultiplier:   1.0,
	}
	options, _ := agent.InterCity(context.Background(), "Colombo", "Galle", 120, true, 400, 2, strategy)
	require.Len(t, options, 2)
	for _, o := range options {
		assert.Equal(t, types.ConfidenceEstimated, o.Confidence)
		assert.Greater(t, o.CostPerTripUSD, 0.0)
		assert.LessOrEqual(t, o.CostPerTripUSD, MaxInterCityTripCostUSD)
	}
}

func TestCalculateCost_PerSeatScalesByTravelersSharedDoesNot(t *testing.T) {
	agent := New(advisor.New(nil))
	trainGroup := agent.calculateCost(types.ModeTrain, 10, 4)
	taxiGroup := agent.calculateCost(types.ModeTaxi, 10, 4)
	assert.Equal(t, 80.0, trainGroup) // 10*4*2
	assert.Equal(t, 20.0, taxiGroup)  // 10*2, travelers ignored
}

func TestValidateAndFormat_EnforcesFloorAndCeiling(t *testing.T) {
	agent := New(advisor.New(nil))
	tooLow := agent.validateAndFormat(types.ModeTrain, 0.01, 500, 1.0)
	assert.GreaterOrEqual(t, tooLow, 4.0) // floor: max(0.40, 0.009*500)*2 = 9.0

	tooHigh := agent.validateAndFormat(types.ModeCarRental, 100000, 500, 1.0)
	assert.Equal(t, MaxInterCityTripCostUSD, tooHigh)
}

func TestLocal_TotalScalesByDurationNotTravelers(t *testing.T) {
	agent := New(advisor.New(nil))
	local, warnings := agent.Local(context.Background(), "Galle", 5)
	assert.Empty(t, warnings)
	assert.Equal(t, local.DailyGroupCostUSD*5, local.TotalUSD)
}

func TestAirportTransfer_DoublesOneWayCost(t *testing.T) {
	assert.Equal(t, 40.0, AirportTransfer(20.0))
}
