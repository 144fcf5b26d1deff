// Package advisor wraps an LLM provider behind the thin capability the rest
// of the travel engine depends on: generate text, and tolerantly extract
// JSON from it. No estimator agent talks to providers.LLMProvider directly.
package advisor

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/travelcost/engine/internal/llm/providers"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 400
)

var (
	fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// LLMAdvisor is the only thing in the travel engine that talks to an LLM.
// All estimator agents call through it and must treat a nil/false
// extract_json result as "use fallback" — there is no retry at this layer.
type LLMAdvisor struct {
	provider providers.LLMProvider
	tracer   trace.Tracer
}

// New builds an LLMAdvisor over the given provider. provider may be nil, in
// which case Generate always fails soft (ProviderFailure) and callers fall
// back, matching "tiers ... are skipped if their providers are absent."
func New(provider providers.LLMProvider) *LLMAdvisor {
	return &LLMAdvisor{
		provider: provider,
		tracer:   otel.Tracer("travelcost.advisor"),
	}
}

// Available reports whether a concrete LLM provider is wired in.
func (a *LLMAdvisor) Available() bool {
	return a != nil && a.provider != nil
}

// Generate calls the LLM with a single user message plus an optional system
// prompt. temperature of 0 uses DefaultTemperature; maxTokens of 0 uses
// DefaultMaxTokens.
func (a *LLMAdvisor) Generate(ctx context.Context, prompt, system string, temperature float64, maxTokens int) (string, error) {
	ctx, span := a.tracer.Start(ctx, "advisor.generate")
	defer span.End()

	if !a.Available() {
		return "", errProviderUnavailable
	}

	if temperature == 0 {
		temperature = DefaultTemperature
	}
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	req := &providers.GenerateRequest{
		Messages: []providers.Message{
			{Role: "user", Content: prompt},
		},
		SystemPrompt: system,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
	}

	span.SetAttributes(
		attribute.Float64("advisor.temperature", temperature),
		attribute.Int("advisor.max_tokens", maxTokens),
	)

	resp, err := a.provider.GenerateResponse(ctx, req)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

// ExtractJSON tolerates fenced code blocks, leading prose, and trailing
// commas, returning (nil, false) on any irrecoverable parse rather than an
// error — callers treat a false return as "use fallback."
func (a *LLMAdvisor) ExtractJSON(text string) (map[string]interface{}, bool) {
	cleaned := cleanJSONOutput(text)
	if cleaned == "" {
		return nil, false
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, false
	}
	return result, true
}

// cleanJSONOutput strips a fenced ```json ... ``` block if present, or else
// cuts the text down to the span from its first "{" to its last "}" so that
// leading and trailing prose are dropped, then scrubs trailing commas before
// object/array closers. Grounded on internal/langchain/parsers.go's
// JSONParser.cleanJSONOutput.
func cleanJSONOutput(output string) string {
	if matches := fencedBlockPattern.FindStringSubmatch(output); len(matches) > 1 {
		output = matches[1]
	} else if start, end := strings.Index(output, "{"), strings.LastIndex(output, "}"); start >= 0 && end > start {
		output = output[start : end+1]
	}
	output = strings.TrimSpace(output)
	output = trailingCommaPattern.ReplaceAllString(output, "$1")
	return output
}

type advisorError string

func (e advisorError) Error() string { return string(e) }

const (
	errProviderUnavailable = advisorError("llm advisor: no provider configured")
	errEmptyResponse       = advisorError("llm advisor: provider returned no choices")
)
