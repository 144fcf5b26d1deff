// Package orchestrator implements C12: the travel-estimation pipeline as a
// state graph with conditional edges, built directly on internal/langgraph.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/travelcost/engine/internal/langgraph"
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

// Orchestrator wires C1-C11 into the C12 pipeline.
type Orchestrator struct {
	airports   *airport.Resolver
	distances  *distance.Calculator
	countries  *country.Cache
	vibeAgent  *vibe.Agent
	flights    *flight.Agent
	hotels     *hotel.Agent
	transport  *transport.Agent
	cost       *cost.Agent
	itinerary  *itinerary.Agent
	tracer     trace.Tracer
}

// New builds an Orchestrator from its fully-constructed sub-agents; any
// argument may embed a nil external provider, in which case that stage
// fails soft per its own package's contract.
func New(
	airports *airport.Resolver,
	distances *distance.Calculator,
	countries *country.Cache,
	vibeAgent *vibe.Agent,
	flightAgent *flight.Agent,
	hotelAgent *hotel.Agent,
	transportAgent *transport.Agent,
	costAgent *cost.Agent,
	itineraryAgent *itinerary.Agent,
) *Orchestrator {
	return &Orchestrator{
		airports:  airports,
		distances: distances,
		countries: countries,
		vibeAgent: vibeAgent,
		flights:   flightAgent,
		hotels:    hotelAgent,
		transport: transportAgent,
		cost:      costAgent,
		itinerary: itineraryAgent,
		tracer:    otel.Tracer("travelcost.orchestrator"),
	}
}

// Run validates the request and executes the full pipeline, returning the
// assembled response. The only error return is InvalidRequestError; every
// other failure mode degrades into an appended Warning.
func (o *Orchestrator) Run(ctx context.Context, request *types.TravelRequest) (*types.TravelResponse, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.run")
	defer span.End()

	if err := request.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if request.RequestID == "" {
		request.RequestID = uuid.New().String()
	}

	graph, err := o.buildGraph()
	if err != nil {
		return nil, fmt.Errorf("building orchestration graph: %w", err)
	}

	initial := langgraph.NewState(request.RequestID, graph.ID)
	wrap(initial).SetRequest(request)

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("orchestration pipeline failed: %w", err)
	}

	return o.assembleResponse(wrap(final)), nil
}

func (o *Orchestrator) buildGraph() (*langgraph.Graph, error) {
	stateManager := langgraph.NewMemoryStateManager()
	builder := langgraph.NewGraphBuilder("travel-estimate", stateManager)

	builder.AddStartNode("start", "Start").
		AddFunctionNode("analyze", "Analyze Travel Type", o.analyzeTravelTypeNode).
		AddFunctionNode("vibe", "Vibe Analysis", o.vibeAnalysisNode).
		AddFunctionNode("flights", "Flight Search", o.flightSearchNode).
		AddFunctionNode("hotels", "Hotel Search", o.hotelSearchNode).
		AddFunctionNode("transport", "Transport Estimation", o.transportNode).
		AddFunctionNode("costs", "Cost Assembly", o.costNode).
		AddFunctionNode("itinerary", "Itinerary Planning", o.itineraryNode).
		AddEndNode("end", "End")

	builder.From("start").ConnectTo("analyze")
	builder.From("analyze").ConnectTo("vibe")

	// analyze_travel_type sets skip_flight_search; the flights edge fires
	// only when it is false, otherwise the unconditional fallback edge to
	// hotels applies directly.
	skipFalse := langgraph.NewStateValueCondition(keySkipFlightSearch, false, "equals")
	builder.From("vibe").ConnectToIf("flights", skipFalse)
	builder.From("vibe").ConnectTo("hotels")

	builder.From("flights").ConnectTo("hotels")
	builder.From("hotels").ConnectTo("transport")
	builder.From("transport").ConnectTo("costs")
	builder.From("costs").ConnectTo("itinerary")
	builder.From("itinerary").ConnectTo("end")

	return builder.Build()
}

// analyzeTravelTypeNode sets skip_flight_search = same_airport OR
// (same_country AND distance_km <= strategy.max_ground_distance_km); an
// unknown distance never satisfies the second clause.
func (o *Orchestrator) analyzeTravelTypeNode(ctx context.Context, state *langgraph.State) (*langgraph.State, error) {
	newState := state.Clone()
	ts := wrap(newState)
	request := ts.Request()

	originResult := o.airports.Resolve(ctx, request.Origin)
	destResult := o.airports.Resolve(ctx, request.Destination)

	sameAirport := !originResult.Unknown && !destResult.Unknown && originResult.Code == destResult.Code
	sameCountry := originResult.Country != "" && originResult.Country == destResult.Country

	var warnings []types.Warning
	if originResult.Unknown {
		warnings = append(warnings, types.NewWarning("analyze", types.WarningResolutionFailure, "could not resolve origin airport for "+request.Origin))
	}
	if destResult.Unknown {
		warnings = append(warnings, types.NewWarning("analyze", types.WarningResolutionFailure, "could not resolve destination airport for "+request.Destination))
	}

	distanceKm := 0.0
	distanceKnown := false
	if result, ok := o.distances.Drive(ctx, request.Origin, request.Destination); ok {
		distanceKm = result.KM
		distanceKnown = true
	} else {
		warnings = append(warnings, types.NewWarning("analyze", types.WarningResolutionFailure, "could not determine distance between "+request.Origin+" and "+request.Destination))
	}

	strategy, strategyWarnings := o.countries.Strategy(ctx, destResult.Country)
	warnings = append(warnings, strategyWarnings...)

	skipFlightSearch := sameAirport || (sameCountry && distanceKnown && distanceKm <= strategy.MaxGroundDistanceKm)

	analysis := types.TravelAnalysis{
		OriginAirport:      originResult.Code,
		DestinationAirport: destResult.Code,
		OriginCountry:      originResult.Country,
		DestinationCountry: destResult.Country,
		SameAirport:        sameAirport,
		SameCountry:        sameCountry,
		DistanceKm:         distanceKm,
		IsDomesticTravel:   sameCountry,
		SkipFlightSearch:   skipFlightSearch,
		CountryStrategy:    strategy,
	}

	ts.SetAnalysis(analysis)
	ts.AppendWarnings(warnings...)
	return newState, nil
}

func (o *Orchestrator) vibeAnalysisNode(ctx context.Context, state *langgraph.State) (*langgraph.State, error) {
	newState := state.Clone()
	ts := wrap(newState)
	request := ts.Request()

	result, warnings := o.vibeAgent.Analyze(ctx, request.Vibe, request.Destination, request.StartDate)
	ts.SetVibeAnalysis(result)
	ts.AppendWarnings(warnings...)
	return newState, nil
}

func (o *Orchestrator) flightSearchNode(ctx context.Context, state *langgraph.State) (*langgraph.State, error) {
	newState := state.Clone()
	ts := wrap(newState)
	request := ts.Request()
	analysis := ts.Analysis()

	result, warnings := o.flights.Search(ctx, analysis.OriginAirport, analysis.DestinationAirport, request.StartDate, request.ReturnDate, request.Travelers, request.IncludePriceTrends)
	ts.SetFlights(result.Flights)
	ts.SetPriceTrends(result.PriceTrends)
	ts.AppendWarnings(warnings...)
	return newState, nil
}

func (o *Orchestrator) hotelSearchNode(ctx context.Context, state *langgraph.State) (*langgraph.State, error) {
	newState := state.Clone()
	ts := wrap(newState)
	request := ts.Request()

	nights := request.TripDurationDays()
	hotels, warnings := o.hotels.Search(ctx, request.Destination, request.StartDate.Format("2006-01-02"), request.ReturnDate.Format("2006-01-02"), request.Travelers, nights, hotel.DefaultTopN)
	ts.SetHotels(hotels)
	ts.AppendWarnings(warnings...)

	if request.IncludeHotelContext {
		hotelContext, contextWarnings := o.hotels.Context(ctx, request.Destination, hotels)
		ts.SetHotelContext(hotelContext)
		ts.AppendWarnings(contextWarnings...)
	}

	return newState, nil
}

func (o *Orchestrator) transportNode(ctx context.Context, state *langgraph.State) (*langgraph.State, error) {
	newState := state.Clone()
	ts := wrap(newState)
	request := ts.Request()
	analysis := ts.Analysis()

	interCity, warnings := o.transport.InterCity(ctx, request.Origin, request.Destination, analysis.DistanceKm, analysis.SameCountry, analysis.CountryStrategy.MaxGroundDistanceKm, request.Travelers, analysis.CountryStrategy)

	local, localWarnings := o.transport.Local(ctx, request.Destination, request.TripDurationDays())
	warnings = append(warnings, localWarnings...)

	airportTransfer := 0.0
	if len(ts.Flights()) > 0 {
		taxiFare, taxiWarnings := o.transport.AirportTaxiFare(ctx, request.Destination)
		warnings = append(warnings, taxiWarnings...)
		airportTransfer = transport.AirportTransfer(taxiFare)
	}

	result := types.Transportation{
		InterCityOptions:   interCity,
		LocalTransport:     local,
		AirportTransferUSD: airportTransfer,
	}
	result.CostTotal = sumInterCityTotal(interCity) + local.TotalUSD + airportTransfer

	ts.SetTransportation(result)
	ts.AppendWarnings(warnings...)
	return newState, nil
}

func sumInterCityTotal(options []types.TransportOption) float64 {
	total := 0.0
	for _, o := range options {
		total += o.CostPerTripUSD
	}
	return total
}

func (o *Orchestrator) costNode(ctx context.Context, state *langgraph.State) (*langgraph.State, error) {
	newState := state.Clone()
	ts := wrap(newState)
	request := ts.Request()
	analysis := ts.Analysis()

	cheapestFlight := 0.0
	hasFlights := len(ts.Flights()) > 0
	if hasFlights {
		cheapestFlight = ts.Flights()[0].PriceUSD
	}

	nightlyHotel := 0.0
	if hotels := ts.Hotels(); len(hotels) > 0 {
		nightlyHotel = hotels[0].PricePerNightUSD
	}

	breakdown, perPerson, warnings := o.cost.Assemble(ctx, cost.Inputs{
		CheapestFlightPriceUSD: cheapestFlight,
		HasFlights:             hasFlights,
		NightlyHotelUSD:        nightlyHotel,
		Nights:                 request.TripDurationDays(),
		RoomsNeeded:            request.RoomsNeeded(),
		Transportation:         ts.Transportation(),
		Request:                request,
		PricingMultiplier:      analysis.CountryStrategy.PricingMultiplier,
	})

	ts.SetCostBreakdown(breakdown)
	ts.SetPerPersonCost(perPerson)
	ts.AppendWarnings(warnings...)
	return newState, nil
}

func (o *Orchestrator) itineraryNode(ctx context.Context, state *langgraph.State) (*langgraph.State, error) {
	newState := state.Clone()
	ts := wrap(newState)
	request := ts.Request()

	days := o.itinerary.Build(ctx, request, ts.HotelContext(), ts.CostBreakdown())
	ts.SetItinerary(days)
	return newState, nil
}

// confidenceMix computes the fraction of high vs estimated confidence
// values across the response's hotels and transport options.
func confidenceMix(hotels []types.Hotel, options []types.TransportOption) types.ConfidenceMix {
	high, estimated := 0, 0
	tally := func(c types.Confidence) {
		if c == types.ConfidenceHigh {
			high++
		} else {
			estimated++
		}
	}
	for _, h := range hotels {
		tally(h.Confidence)
	}
	for _, opt := range options {
		tally(opt.Confidence)
	}
	total := high + estimated
	if total == 0 {
		return types.ConfidenceMix{}
	}
	return types.ConfidenceMix{
		High:      float64(high) / float64(total),
		Estimated: float64(estimated) / float64(total),
	}
}

func (o *Orchestrator) assembleResponse(ts TravelState) *types.TravelResponse {
	analysis := ts.Analysis()
	transportation := ts.Transportation()
	breakdown := ts.CostBreakdown()

	warningStrings := make([]string, 0, len(ts.Warnings()))
	for _, w := range ts.Warnings() {
		warningStrings = append(warningStrings, w.String())
	}

	return &types.TravelResponse{
		VibeAnalysis:     ts.VibeAnalysis(),
		Flights:          ts.Flights(),
		PriceTrends:      ts.PriceTrends(),
		IsDomesticTravel: analysis.IsDomesticTravel,
		TravelDistanceKm: analysis.DistanceKm,
		Hotels:           ts.Hotels(),
		HotelContext:     ts.HotelContext(),
		Transportation:   transportation,
		Itinerary:        ts.Itinerary(),
		CostBreakdown:    breakdown,
		TotalCost:        breakdown.Total,
		PerPersonCost:    ts.PerPersonCost(),
		ConfidenceMix:    confidenceMix(ts.Hotels(), transportation.InterCityOptions),
		Warnings:         warningStrings,
	}
}
