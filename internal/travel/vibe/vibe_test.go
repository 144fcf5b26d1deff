package vibe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelcost/engine/internal/travel/advisor"
	"github.com/travelcost/engine/internal/travel/types"
)

func TestSeasonForMonth_NorthernHemisphereBoundaries(t *testing.T) {
	assert.Equal(t, SeasonWinter, seasonForMonth(time.January))
	assert.Equal(t, SeasonSpring, seasonForMonth(time.April))
	assert.Equal(t, SeasonSummer, seasonForMonth(time.July))
	assert.Equal(t, SeasonAutumn, seasonForMonth(time.October))
}

func TestAnalyze_BeachSummerIsPeakWinterIsTrough(t *testing.T) {
	agent := New(advisor.New(nil))
	summer, _ := agent.Analyze(context.Background(), types.VibeBeach, "Galle", time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	winter, _ := agent.Analyze(context.Background(), types.VibeBeach, "Galle", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1.0, summer.CompatibilityScore)
	assert.Equal(t, 0.3, winter.CompatibilityScore)
}

func TestAnalyze_CulturalPeaksSpringAndAutumn(t *testing.T) {
	agent := New(advisor.New(nil))
	spring, _ := agent.Analyze(context.Background(), types.VibeCultural, "Paris", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	autumn, _ := agent.Analyze(context.Background(), types.VibeCultural, "Paris", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1.0, spring.CompatibilityScore)
	assert.Equal(t, 1.0, autumn.CompatibilityScore)
}

func TestAnalyze_NoAdvisorUsesFallbackBank(t *testing.T) {
	agent := New(advisor.New(nil))
	result, warnings := agent.Analyze(context.Background(), types.VibeWellness, "Kandy", time.Now())
	assert.Empty(t, warnings)
	require.NotEmpty(t, result.MoodIndicators)
	require.NotEmpty(t, result.WellnessTips)
}
