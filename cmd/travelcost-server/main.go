package main

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/travelcost/engine/internal/config"
	"github.com/travelcost/engine/internal/database"
	"github.com/travelcost/engine/internal/llm/providers"
	"github.com/travelcost/engine/internal/travel/advisor"
	"github.com/travelcost/engine/internal/travel/airport"
	"github.com/travelcost/engine/internal/travel/cost"
	"github.com/travelcost/engine/internal/travel/country"
	"github.com/travelcost/engine/internal/travel/distance"
	"github.com/travelcost/engine/internal/travel/flight"
	"github.com/travelcost/engine/internal/travel/hotel"
	"github.com/travelcost/engine/internal/travel/itinerary"
	"github.com/travelcost/engine/internal/travel/orchestrator"
	"github.com/travelcost/engine/internal/travel/provider"
	"github.com/travelcost/engine/internal/travel/transport"
	"github.com/travelcost/engine/internal/travel/tripstore"
	"github.com/travelcost/engine/internal/travel/types"
	"github.com/travelcost/engine/internal/travel/vibe"
	"github.com/travelcost/engine/pkg/observability"
)

func main() {
	fmt.Println("Starting travel cost estimation server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownTracing, err := observability.InitTracing("travelcost-server", cfg.Environment)
	if err != nil {
		log.Printf("tracing disabled: %v", err)
	} else {
		defer shutdownTracing()
	}

	llmProvider := buildLLMProvider(cfg.Travel)
	llmAdvisor := advisor.New(llmProvider)

	orch := orchestrator.New(
		airport.New(llmAdvisor, cfg.Travel.CacheMaxDistanceEntries),
		buildDistanceCalculator(cfg.Travel),
		country.New(nil, llmAdvisor, cfg.Travel.CacheTTLCountry, cfg.Travel.CacheMaxDistanceEntries),
		vibe.New(llmAdvisor),
		flight.New(buildFlightProvider(cfg.Travel)),
		hotel.New(buildHotelProvider(cfg.Travel), llmAdvisor),
		transport.New(llmAdvisor),
		cost.New(llmAdvisor),
		itinerary.New(),
	)

	store := buildTripStore(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName:      "Travel Cost Estimation API",
		ServerHeader: "travelcost-engine",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Travel Cost Estimation API",
			"status":  "running",
			"endpoints": []string{
				"POST /v1/travel-estimate",
			},
		})
	})

	app.Post("/v1/travel-estimate", func(c *fiber.Ctx) error {
		var req types.TravelRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		ctx, cancel := context.WithTimeout(c.Context(), cfg.Travel.StageTimeout)
		defer cancel()

		resp, err := orch.Run(ctx, &req)
		if err != nil {
			var invalidErr *types.InvalidRequestError
			if errors.As(err, &invalidErr) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "estimation failed"})
		}

		if store != nil {
			if err := store.Save(ctx, req.RequestID, resp); err != nil {
				log.Printf("tripstore save failed: %v", err)
			}
		}

		return c.JSON(resp)
	})

	fmt.Printf("Server starting on port %d\n", cfg.Port)

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	fmt.Println("Server shutdown complete")
}

// buildLLMProvider wires the teacher's OpenAI provider when an API key is
// configured; with no key it falls back to a small mock, matching the
// tools' getMock* fallback convention for local/offline runs.
func buildLLMProvider(cfg config.TravelConfig) providers.LLMProvider {
	if cfg.LLMKey == "" {
		log.Println("LLM_KEY not set, using mock LLM provider")
		return &mockLLMProvider{}
	}

	llmConfig := &providers.LLMConfig{
		Provider:    "openai",
		APIKey:      cfg.LLMKey,
		BaseURL:     cfg.LLMEndpoint,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.CallTimeout,
	}

	p, err := providers.NewOpenAIProvider(llmConfig)
	if err != nil {
		log.Printf("openai provider failed to initialize, using mock: %v", err)
		return &mockLLMProvider{}
	}
	return p
}

func buildFlightProvider(cfg config.TravelConfig) provider.FlightProvider {
	if cfg.FlightProviderKey == "" {
		log.Println("FLIGHT_PROVIDER_KEY not set, using mock flight provider")
	}
	return &mockFlightProvider{}
}

func buildHotelProvider(cfg config.TravelConfig) provider.HotelProvider {
	if cfg.HotelProviderKey == "" {
		log.Println("HOTEL_PROVIDER_KEY not set, using mock hotel provider")
	}
	return &mockHotelProvider{}
}

// buildDistanceCalculator wires a mock geocoder when no maps vendor key is
// configured, matching the flight/hotel mock-fallback convention so C2
// still produces usable (if estimated) distances for the demo server.
func buildDistanceCalculator(cfg config.TravelConfig) *distance.Calculator {
	if cfg.MapsKey == "" {
		log.Println("MAPS_KEY not set, using mock geocoder for distance estimates")
	}
	return distance.New(nil, &mockGeocoder{}, cfg.CacheMaxDistanceEntries)
}

// buildTripStore wires the optional Postgres-backed trip store when
// DATABASE_URL parses as a valid postgres DSN; the server runs fine without
// one, since persistence is a host concern the core never requires.
func buildTripStore(databaseURL string) *tripstore.Store {
	u, err := url.Parse(databaseURL)
	if err != nil || u.Scheme == "" {
		log.Println("DATABASE_URL not configured, trip estimates will not be persisted")
		return nil
	}

	host := u.Hostname()
	port, _ := strconv.Atoi(u.Port())
	if port == 0 {
		port = 5432
	}
	password, _ := u.User.Password()
	dbName := u.Path
	if len(dbName) > 0 && dbName[0] == '/' {
		dbName = dbName[1:]
	}

	pool, err := database.NewPool(database.Config{
		Host:     host,
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  u.Query().Get("sslmode"),
	})
	if err != nil {
		log.Printf("trip store database unavailable, running without persistence: %v", err)
		return nil
	}

	store := tripstore.New(pool)
	if err := store.EnsureSchema(context.Background()); err != nil {
		log.Printf("trip store schema setup failed, running without persistence: %v", err)
		return nil
	}
	return store
}

// mockLLMProvider is used for local/offline demo runs when no LLM key is
// configured. It answers every call with "{}": callers that extract JSON
// fields find none and take their deterministic path, while callers that use
// the reply text directly receive "{}".
type mockLLMProvider struct{}

func (m *mockLLMProvider) GetName() string { return "mock-llm" }

func (m *mockLLMProvider) GenerateResponse(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	return &providers.GenerateResponse{
		Choices: []providers.Choice{
			{Message: providers.Message{Role: "assistant", Content: "{}"}},
		},
		Usage: providers.Usage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12},
	}, nil
}

func (m *mockLLMProvider) StreamResponse(ctx context.Context, req *providers.GenerateRequest) (<-chan *providers.StreamChunk, error) {
	ch := make(chan *providers.StreamChunk, 1)
	go func() {
		defer close(ch)
		ch <- &providers.StreamChunk{Done: true}
	}()
	return ch, nil
}

func (m *mockLLMProvider) GetModels(ctx context.Context) ([]string, error) {
	return []string{"mock-travel-model"}, nil
}

func (m *mockLLMProvider) Close() error { return nil }

// mockFlightProvider returns a small, deterministic set of offers so the
// demonstration server produces a non-empty response without a vendor key.
type mockFlightProvider struct{}

func (m *mockFlightProvider) Search(ctx context.Context, params provider.FlightSearchParams) ([]provider.FlightOffer, error) {
	return []provider.FlightOffer{
		{
			Airline:         "Demo Air",
			FlightNumber:    "DA100",
			OriginAirport:   params.OriginIATA,
			DestAirport:     params.DestinationIATA,
			DurationMinutes: 300,
			Stops:           0,
			Class:           "economy",
			PriceUSD:        350.0 * float64(params.Adults),
		},
		{
			Airline:         "Demo Air",
			FlightNumber:    "DA202",
			OriginAirport:   params.OriginIATA,
			DestAirport:     params.DestinationIATA,
			DurationMinutes: 420,
			Stops:           1,
			Class:           "economy",
			PriceUSD:        260.0 * float64(params.Adults),
		},
	}, nil
}

// mockHotelProvider returns a small set of offers with prices nested the
// way real vendor payloads vary, exercising the probe table in internal/travel/hotel.
type mockHotelProvider struct{}

func (m *mockHotelProvider) Search(ctx context.Context, params provider.HotelSearchParams) ([]provider.HotelOffer, error) {
	return []provider.HotelOffer{
		{
			Name:      "Demo Beachfront Hotel",
			Stars:     4,
			Rating:    4.3,
			Amenities: []string{"wifi", "pool", "breakfast"},
			Location:  params.Destination,
			Raw: map[string]interface{}{
				"rate_per_night": map[string]interface{}{"extracted_lowest": 120.0},
			},
		},
		{
			Name:      "Demo City Inn",
			Stars:     3,
			Rating:    3.9,
			Amenities: []string{"wifi"},
			Location:  params.Destination,
			Raw: map[string]interface{}{
				"total_rate": 270.0,
				"nights":     3,
			},
		},
	}, nil
}

// knownCityCoordinates seeds a handful of major cities so common demo
// requests resolve to real coordinates rather than the hash fallback.
var knownCityCoordinates = map[string]distance.Coordinates{
	"bangkok":    {Latitude: 13.7563, Longitude: 100.5018},
	"chiang mai": {Latitude: 18.7883, Longitude: 98.9853},
	"london":     {Latitude: 51.5072, Longitude: -0.1276},
	"paris":      {Latitude: 48.8566, Longitude: 2.3522},
	"new york":   {Latitude: 40.7128, Longitude: -74.0060},
	"tokyo":      {Latitude: 35.6762, Longitude: 139.6503},
	"singapore":  {Latitude: 1.3521, Longitude: 103.8198},
	"lisbon":     {Latitude: 38.7223, Longitude: -9.1393},
}

// mockGeocoder resolves city names to coordinates without a vendor key: a
// small curated table for common demo cities, falling back to a
// deterministic (stable, non-geographic) coordinate for anything else so
// distance.Calculator's haversine fallback always has something to work
// with.
type mockGeocoder struct{}

func (m *mockGeocoder) Forward(ctx context.Context, city string) (distance.Coordinates, string, error) {
	key := strings.ToLower(strings.TrimSpace(city))
	if coords, ok := knownCityCoordinates[key]; ok {
		return coords, "mock", nil
	}
	return hashCoordinates(key), "mock", nil
}

// hashCoordinates derives a stable pseudo-coordinate from a city name so
// repeated lookups of the same unseeded city always haversine to the same
// distance, even though the coordinate doesn't correspond to a real place.
func hashCoordinates(key string) distance.Coordinates {
	h := fnv.New64a()
	h.Write([]byte(key))
	sum := h.Sum64()

	lat := float64(sum%18000)/100.0 - 90.0
	lon := float64((sum/18000)%36000)/100.0 - 180.0
	return distance.Coordinates{Latitude: lat, Longitude: lon}
}
