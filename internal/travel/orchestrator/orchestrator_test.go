package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelcost/engine/internal/travel/advisor"
	"github.com/travelcost/engine/internal/travel/airport"
	"github.com/travelcost/engine/internal/travel/cost"
	"github.com/travelcost/engine/internal/travel/country"
	"github.com/travelcost/engine/internal/travel/distance"
	"github.com/travelcost/engine/internal/travel/flight"
	"github.com/travelcost/engine/internal/travel/hotel"
	"github.com/travelcost/engine/internal/travel/itinerary"
	"github.com/travelcost/engine/internal/travel/transport"
	"github.com/travelcost/engine/internal/travel/types"
	"github.com/travelcost/engine/internal/travel/vibe"
)

func newTestOrchestrator() *Orchestrator {
	llmAdvisor := advisor.New(nil)
	return New(
		airport.New(llmAdvisor, 0),
		distance.New(nil, nil, 0),
		country.New(nil, llmAdvisor, 0, 0),
		vibe.New(llmAdvisor),
		flight.New(nil),
		hotel.New(nil, llmAdvisor),
		transport.New(llmAdvisor),
		cost.New(llmAdvisor),
		itinerary.New(),
	)
}

func TestRun_RejectsInvalidRequest(t *testing.T) {
	o := newTestOrchestrator()
	req := &types.TravelRequest{Origin: "Galle"}
	_, err := o.Run(context.Background(), req)
	require.Error(t, err)
	var invalidErr *types.InvalidRequestError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestRun_DomesticTripSkipsFlightSearch(t *testing.T) {
	o := newTestOrchestrator()
	req := &types.TravelRequest{
		Origin:      "Galle",
		Destination: "Matara",
		StartDate:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		ReturnDate:  time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC),
		Travelers:   2,
		Vibe:        types.VibeBeach,
	}
	resp, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.IsDomesticTravel)
	assert.Empty(t, resp.Flights)
	require.Len(t, resp.Itinerary, 3)
	assert.Greater(t, resp.TotalCost, 0.0)
}

func TestRun_InternationalTripRunsFlightSearch(t *testing.T) {
	o := newTestOrchestrator()
	req := &types.TravelRequest{
		Origin:      "Colombo",
		Destination: "Paris",
		StartDate:   time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		ReturnDate:  time.Date(2026, 6, 17, 0, 0, 0, 0, time.UTC),
		Travelers:   1,
		Vibe:        types.VibeCultural,
	}
	resp, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.IsDomesticTravel)
	// no flight provider configured: flights empty but a warning is recorded
	assert.Empty(t, resp.Flights)
	assert.NotEmpty(t, resp.Warnings)
	assert.Equal(t, resp.TotalCost, resp.CostBreakdown.Total)
}

func TestRun_RequestIDAssignedWhenAbsent(t *testing.T) {
	o := newTestOrchestrator()
	req := &types.TravelRequest{
		Origin:      "Galle",
		Destination: "Colombo",
		StartDate:   time.Now(),
		ReturnDate:  time.Now().AddDate(0, 0, 2),
		Travelers:   2,
		Vibe:        types.VibeNature,
	}
	_, err := o.Run(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, req.RequestID)
}
