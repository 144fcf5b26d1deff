package orchestrator

import (
	"github.com/travelcost/engine/internal/langgraph"
	"github.com/travelcost/engine/internal/travel/types"
)

// State keys accumulated into langgraph.State.Data across the pipeline.
const (
	keyRequest          = "request"
	keyAnalysis         = "analysis"
	keySkipFlightSearch = "skip_flight_search"
	keyVibeAnalysis     = "vibe_analysis"
	keyFlights          = "flights"
	keyPriceTrends      = "price_trends"
	keyHotels           = "hotels"
	keyHotelContext     = "hotel_context"
	keyTransportation   = "transportation"
	keyCostBreakdown    = "cost_breakdown"
	keyPerPersonCost    = "per_person_cost"
	keyItinerary        = "itinerary"
	keyWarnings         = "warnings"
)

// TravelState is a thin typed wrapper over langgraph.State.Data, giving each
// accumulated pipeline field a typed accessor instead of bare map lookups.
type TravelState struct {
	raw *langgraph.State
}

func wrap(s *langgraph.State) TravelState {
	return TravelState{raw: s}
}

func (t TravelState) Request() *types.TravelRequest {
	v, _ := t.raw.Get(keyRequest)
	req, _ := v.(*types.TravelRequest)
	return req
}

func (t TravelState) SetRequest(r *types.TravelRequest) { t.raw.Set(keyRequest, r) }

func (t TravelState) Analysis() types.TravelAnalysis {
	v, _ := t.raw.Get(keyAnalysis)
	a, _ := v.(types.TravelAnalysis)
	return a
}

func (t TravelState) SetAnalysis(a types.TravelAnalysis) {
	t.raw.Set(keyAnalysis, a)
	t.raw.Set(keySkipFlightSearch, a.SkipFlightSearch)
}

func (t TravelState) VibeAnalysis() types.VibeAnalysis {
	v, _ := t.raw.Get(keyVibeAnalysis)
	a, _ := v.(types.VibeAnalysis)
	return a
}

func (t TravelState) SetVibeAnalysis(a types.VibeAnalysis) { t.raw.Set(keyVibeAnalysis, a) }

func (t TravelState) Flights() []types.Flight {
	v, _ := t.raw.Get(keyFlights)
	f, _ := v.([]types.Flight)
	return f
}

func (t TravelState) SetFlights(f []types.Flight) { t.raw.Set(keyFlights, f) }

func (t TravelState) PriceTrends() *types.PriceCalendar {
	v, _ := t.raw.Get(keyPriceTrends)
	p, _ := v.(*types.PriceCalendar)
	return p
}

func (t TravelState) SetPriceTrends(p *types.PriceCalendar) { t.raw.Set(keyPriceTrends, p) }

func (t TravelState) Hotels() []types.Hotel {
	v, _ := t.raw.Get(keyHotels)
	h, _ := v.([]types.Hotel)
	return h
}

func (t TravelState) SetHotels(h []types.Hotel) { t.raw.Set(keyHotels, h) }

func (t TravelState) HotelContext() *types.HotelContext {
	v, _ := t.raw.Get(keyHotelContext)
	h, _ := v.(*types.HotelContext)
	return h
}

func (t TravelState) SetHotelContext(h *types.HotelContext) { t.raw.Set(keyHotelContext, h) }

func (t TravelState) Transportation() types.Transportation {
	v, _ := t.raw.Get(keyTransportation)
	tr, _ := v.(types.Transportation)
	return tr
}

func (t TravelState) SetTransportation(tr types.Transportation) { t.raw.Set(keyTransportation, tr) }

func (t TravelState) CostBreakdown() types.CostBreakdown {
	v, _ := t.raw.Get(keyCostBreakdown)
	c, _ := v.(types.CostBreakdown)
	return c
}

func (t TravelState) SetCostBreakdown(c types.CostBreakdown) { t.raw.Set(keyCostBreakdown, c) }

func (t TravelState) PerPersonCost() float64 {
	v, _ := t.raw.Get(keyPerPersonCost)
	p, _ := v.(float64)
	return p
}

func (t TravelState) SetPerPersonCost(p float64) { t.raw.Set(keyPerPersonCost, p) }

func (t TravelState) Itinerary() []types.Day {
	v, _ := t.raw.Get(keyItinerary)
	d, _ := v.([]types.Day)
	return d
}

func (t TravelState) SetItinerary(d []types.Day) { t.raw.Set(keyItinerary, d) }

func (t TravelState) Warnings() []types.Warning {
	v, _ := t.raw.Get(keyWarnings)
	w, _ := v.([]types.Warning)
	return w
}

func (t TravelState) AppendWarnings(w ...types.Warning) {
	existing := t.Warnings()
	t.raw.Set(keyWarnings, append(existing, w...))
}
