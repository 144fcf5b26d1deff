package itinerary

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelcost/engine/internal/travel/types"
)

func TestBuild_ProducesOneDayPerTripDurationDay(t *testing.T) {
	agent := New()
	req := &types.TravelRequest{
		Destination: "Galle",
		StartDate:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		ReturnDate:  time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC),
		Vibe:        types.VibeBeach,
	}
	breakdown := types.CostBreakdown{Food: 200, Activities: 160, TransportLocal: 40}
	days := agent.Build(context.Background(), req, nil, breakdown)
	require.Len(t, days, 4)
	for _, d := range days {
		assert.Equal(t, 100.0, d.EstimatedDayCost)
		assert.NotEmpty(t, d.Activities)
		assert.Len(t, d.Meals, 3)
	}
}

func TestBuild_VariesPhrasingByVibe(t *testing.T) {
	agent := New()
	beachReq := &types.TravelRequest{Destination: "Galle", StartDate: time.Now(), ReturnDate: time.Now().AddDate(0, 0, 2), Vibe: types.VibeBeach}
	culturalReq := &types.TravelRequest{Destination: "Paris", StartDate: time.Now(), ReturnDate: time.Now().AddDate(0, 0, 2), Vibe: types.VibeCultural}

	beachDays := agent.Build(context.Background(), beachReq, nil, types.CostBreakdown{})
	culturalDays := agent.Build(context.Background(), culturalReq, nil, types.CostBreakdown{})

	assert.NotEqual(t, beachDays[0].Activities, culturalDays[0].Activities)
}

func TestBuild_UsesHotelContextNeighborhoods(t *testing.T) {
	agent := New()
	req := &types.TravelRequest{Destination: "Galle", StartDate: time.Now(), ReturnDate: time.Now().AddDate(0, 0, 1), Vibe: types.VibeBeach}
	hc := &types.HotelContext{Neighborhoods: []string{"Fort"}}
	days := agent.Build(context.Background(), req, hc, types.CostBreakdown{})
	require.Len(t, days, 1)
	assert.Contains(t, days[0].TransportNotes, "Fort")
}
