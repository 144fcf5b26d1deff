package advisor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelcost/engine/internal/llm/providers"
)

type fakeProvider struct {
	response *providers.GenerateResponse
	err      error
}

func (f *fakeProvider) GenerateResponse(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	return f.response, f.err
}
func (f *fakeProvider) StreamResponse(ctx context.Context, req *providers.GenerateRequest) (<-chan *providers.StreamChunk, error) {
	return nil, nil
}
func (f *fakeProvider) GetModels(ctx context.Context) ([]string, error) { return nil, nil }
func (f *fakeProvider) GetName() string                                 { return "fake" }
func (f *fakeProvider) Close() error                                    { return nil }

func withContent(content string) *fakeProvider {
	return &fakeProvider{response: &providers.GenerateResponse{
		Choices: []providers.Choice{{Message: providers.Message{Content: content}}},
	}}
}

func TestExtractJSON_FencedBlock(t *testing.T) {
	a := New(nil)
	result, ok := a.ExtractJSON("Here you go:\n```json\n{\"code\": \"CMB\", \"country\": \"LK\"}\n```\nThanks")
	require.True(t, ok)
	assert.Equal(t, "CMB", result["code"])
	assert.Equal(t, "LK", result["country"])
}

func TestExtractJSON_TrailingComma(t *testing.T) {
	a := New(nil)
	result, ok := a.ExtractJSON(`{"code": "CMB", "country": "LK",}`)
	require.True(t, ok)
	assert.Equal(t, "LK", result["country"])
}

func TestExtractJSON_Unparseable(t *testing.T) {
	a := New(nil)
	_, ok := a.ExtractJSON("not json at all")
	assert.False(t, ok)
}

func TestGenerate_NoProviderFailsSoft(t *testing.T) {
	a := New(nil)
	assert.False(t, a.Available())
	_, err := a.Generate(context.Background(), "prompt", "system", 0, 0)
	assert.Error(t, err)
}

func TestGenerate_DefaultsApplied(t *testing.T) {
	fp := withContent("hello")
	a := New(fp)
	out, err := a.Generate(context.Background(), "prompt", "system", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}
