package hotel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelcost/engine/internal/llm/providers"
	"github.com/travelcost/engine/internal/travel/advisor"
	"github.com/travelcost/engine/internal/travel/provider"
	"github.com/travelcost/engine/internal/travel/types"
)

type fakeHotelProvider struct {
	offers []provider.HotelOffer
	err    error
}

func (f *fakeHotelProvider) Search(ctx context.Context, params provider.HotelSearchParams) ([]provider.HotelOffer, error) {
	return f.offers, f.err
}

type fakeLLMProvider struct {
	content string
	err     error
}

func (f *fakeLLMProvider) GenerateResponse(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &providers.GenerateResponse{
		Choices: []providers.Choice{{Message: providers.Message{Content: f.content}}},
	}, nil
}
func (f *fakeLLMProvider) StreamResponse(ctx context.Context, req *providers.GenerateRequest) (<-chan *providers.StreamChunk, error) {
	return nil, nil
}
func (f *fakeLLMProvider) GetModels(ctx context.Context) ([]string, error) { return nil, nil }
func (f *fakeLLMProvider) GetName() string                                 { return "fake" }
func (f *fakeLLMProvider) Close() error                                    { return nil }

func TestNormalize_ExtractsNightlyPriceHighConfidence(t *testing.T) {
	fp := &fakeHotelProvider{offers: []provider.HotelOffer{
		{
			Name:  "Galle Fort Hotel",
			Stars: 4,
			Raw: map[string]interface{}{
				"rate_per_night": map[string]interface{}{"extracted_lowest": 85.0},
			},
		},
	}}
	agent := New(fp, advisor.New(nil))
	hotels, warnings := agent.Search(context.Background(), "Galle", "2026-01-10", "2026-01-12", 2, 2, 5)
	require.Empty(t, warnings)
	require.Len(t, hotels, 1)
	assert.Equal(t, 85.0, hotels[0].PricePerNightUSD)
	assert.Equal(t, types.ConfidenceHigh, hotels[0].Confidence)
}

func TestNormalize_DividesTotalRateByNights(t *testing.T) {
	fp := &fakeHotelProvider{offers: []provider.HotelOffer{
		{
			Name:  "Matara Beach Inn",
			Stars: 3,
			Raw: map[string]interface{}{
				"total_rate": 300.0,
			},
		},
	}}
	agent := New(fp, advisor.New(nil))
	hotels, _ := agent.Search(context.Background(), "Matara", "2026-01-10", "2026-01-13", 2, 3, 5)
	require.Len(t, hotels, 1)
	assert.Equal(t, 100.0, hotels[0].PricePerNightUSD)
	assert.Equal(t, types.ConfidenceHigh, hotels[0].Confidence)
}

func TestNormalize_OutOfBandFallsBackToHeuristic(t *testing.T) {
	fp := &fakeHotelProvider{offers: []provider.HotelOffer{
		{
			Name:  "Suspiciously Cheap Hostel",
			Stars: 4.6,
			Raw: map[string]interface{}{
				"price_per_night": 2.0,
			},
		},
	}}
	agent := New(fp, advisor.New(nil))
	hotels, warnings := agent.Search(context.Background(), "Paris", "2026-02-01", "2026-02-03", 2, 2, 5)
	require.Len(t, hotels, 1)
	assert.Equal(t, 220.0, hotels[0].PricePerNightUSD)
	assert.Equal(t, types.ConfidenceEstimated, hotels[0].Confidence)
	assert.NotEmpty(t, warnings)
}

func TestNormalize_MissingPriceUsesHeuristicWithoutWarning(t *testing.T) {
	fp := &fakeHotelProvider{offers: []provider.HotelOffer{
		{Name: "No Price Listed", Stars: 2.0, Raw: map[string]interface{}{}},
	}}
	agent := New(fp, advisor.New(nil))
	hotels, warnings := agent.Search(context.Background(), "Delhi", "2026-03-01", "2026-03-03", 2, 2, 5)
	require.Len(t, hotels, 1)
	assert.Equal(t, 45.0, hotels[0].PricePerNightUSD)
	assert.Equal(t, types.ConfidenceEstimated, hotels[0].Confidence)
	assert.Empty(t, warnings)
}

func TestSearch_SortsHighConfidenceBeforeEstimated(t *testing.T) {
	fp := &fakeHotelProvider{offers: []provider.HotelOffer{
		{Name: "Estimated Pick", Stars: 5, Rating: 4.9, Raw: map[string]interface{}{}},
		{Name: "Confirmed Pick", Stars: 3, Rating: 3.5, Raw: map[string]interface{}{"price_per_night": 60.0}},
	}}
	agent := New(fp, advisor.New(nil))
	hotels, _ := agent.Search(context.Background(), "Tokyo", "2026-04-01", "2026-04-04", 2, 3, 5)
	require.Len(t, hotels, 2)
	assert.Equal(t, "Confirmed Pick", hotels[0].Name)
	assert.Equal(t, types.ConfidenceHigh, hotels[0].Confidence)
}

func TestSearch_NoProviderFailsSoft(t *testing.T) {
	agent := New(nil, advisor.New(nil))
	hotels, warnings := agent.Search(context.Background(), "Galle", "2026-01-10", "2026-01-12", 2, 2, 5)
	assert.Empty(t, hotels)
	assert.NotEmpty(t, warnings)
}

func TestSearch_CapsAtTopN(t *testing.T) {
	offers := make([]provider.HotelOffer, 8)
	for i := range offers {
		offers[i] = provider.HotelOffer{Name: "Hotel", Stars: 3, Raw: map[string]interface{}{"price_per_night": 90.0}}
	}
	agent := New(&fakeHotelProvider{offers: offers}, advisor.New(nil))
	hotels, _ := agent.Search(context.Background(), "Colombo", "2026-01-10", "2026-01-12", 2, 2, 3)
	assert.Len(t, hotels, 3)
}

func TestContext_NoAdvisorFailsSoft(t *testing.T) {
	agent := New(nil, advisor.New(nil))
	hotelContext, warnings := agent.Context(context.Background(), "Galle", nil)
	assert.Nil(t, hotelContext)
	assert.NotEmpty(t, warnings)
}

func TestContext_CollectsAllThreeSubTasks(t *testing.T) {
	fp := &fakeLLMProvider{content: `{"neighborhoods": ["Fort", "Unawatuna"], "budget": 30, "mid": 80, "luxury": 250}`}
	agent := New(nil, advisor.New(fp))
	hotelContext, warnings := agent.Context(context.Background(), "Galle", nil)
	require.NotNil(t, hotelContext)
	assert.Empty(t, warnings)
	assert.NotEmpty(t, hotelContext.TieredNightlyAverages)
}
