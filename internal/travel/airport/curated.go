package airport

import "sort"

// Entry pairs a curated IATA code with its country, so tier 2 (curated map)
// and tier 4 (country fallback) can share one table — grounded on the
// TopAirport{Code,Country} shape used by the pack's flight-search curated
// list.
type Entry struct {
	Code    string
	Country string
}

// curatedCities maps a lowercased, trimmed city (or well-known metro area)
// name to its primary airport. This is the process constant tier 2 resolves
// against; it is intentionally easy to extend with one line per city.
var curatedCities = map[string]Entry{
	// Sri Lanka — the spec's own end-to-end scenarios route through Colombo.
	"colombo": {"CMB", "LK"},
	"galle":   {"CMB", "LK"},
	"matara":  {"CMB", "LK"},
	"kandy":   {"CMB", "LK"},

	// North America
	"new york":      {"JFK", "US"},
	"new york city": {"JFK", "US"},
	"los angeles":   {"LAX", "US"},
	"chicago":       {"ORD", "US"},
	"san francisco": {"SFO", "US"},
	"atlanta":       {"ATL", "US"},
	"dallas":        {"DFW", "US"},
	"denver":        {"DEN", "US"},
	"miami":         {"MIA", "US"},
	"seattle":       {"SEA", "US"},
	"boston":        {"BOS", "US"},
	"washington":    {"IAD", "US"},
	"toronto":       {"YYZ", "CA"},
	"vancouver":     {"YVR", "CA"},
	"mexico city":   {"MEX", "MX"},

	// Europe
	"paris":     {"CDG", "FR"},
	"london":    {"LHR", "GB"},
	"rome":      {"FCO", "IT"},
	"madrid":    {"MAD", "ES"},
	"barcelona": {"BCN", "ES"},
	"berlin":    {"BER", "DE"},
	"munich":    {"MUC", "DE"},
	"amsterdam": {"AMS", "NL"},
	"lisbon":    {"LIS", "PT"},
	"athens":    {"ATH", "GR"},
	"istanbul":  {"IST", "TR"},
	"zurich":    {"ZRH", "CH"},
	"vienna":    {"VIE", "AT"},
	"dublin":    {"DUB", "IE"},
	"copenhagen": {"CPH", "DK"},
	"stockholm": {"ARN", "SE"},
	"oslo":      {"OSL", "NO"},
	"helsinki":  {"HEL", "FI"},
	"warsaw":    {"WAW", "PL"},
	"prague":    {"PRG", "CZ"},

	// Asia
	"tokyo":     {"HND", "JP"},
	"osaka":     {"KIX", "JP"},
	"seoul":     {"ICN", "KR"},
	"beijing":   {"PEK", "CN"},
	"shanghai":  {"PVG", "CN"},
	"hong kong": {"HKG", "HK"},
	"singapore": {"SIN", "SG"},
	"bangkok":   {"BKK", "TH"},
	"delhi":     {"DEL", "IN"},
	"new delhi": {"DEL", "IN"},
	"mumbai":    {"BOM", "IN"},
	"bangalore": {"BLR", "IN"},
	"chennai":   {"MAA", "IN"},
	"kolkata":   {"CCU", "IN"},
	"kuala lumpur": {"KUL", "MY"},
	"jakarta":   {"CGK", "ID"},
	"manila":    {"MNL", "PH"},
	"hanoi":     {"HAN", "VN"},
	"ho chi minh city": {"SGN", "VN"},
	"taipei":    {"TPE", "TW"},

	// Middle East
	"dubai":   {"DXB", "AE"},
	"abu dhabi": {"AUH", "AE"},
	"doha":    {"DOH", "QA"},
	"tel aviv": {"TLV", "IL"},
	"riyadh":  {"RUH", "SA"},

	// Oceania
	"sydney":    {"SYD", "AU"},
	"melbourne": {"MEL", "AU"},
	"auckland":  {"AKL", "NZ"},

	// Africa
	"cairo":       {"CAI", "EG"},
	"johannesburg": {"JNB", "ZA"},
	"cape town":   {"CPT", "ZA"},
	"nairobi":     {"NBO", "KE"},
	"lagos":       {"LOS", "NG"},

	// South America
	"sao paulo":     {"GRU", "BR"},
	"rio de janeiro": {"GIG", "BR"},
	"buenos aires":  {"EZE", "AR"},
	"santiago":      {"SCL", "CL"},
	"lima":          {"LIM", "PE"},
	"bogota":        {"BOG", "CO"},
}

// knownCodes is the set of IATA codes the curated table recognizes, used by
// tier 1 (normalize & detect) to confirm an already-code-shaped input.
var knownCodes map[string]Entry

// primaryGatewayByCountry is a deterministic country → gateway-code table
// derived once from curatedCities in sorted-key order, so tier 4 (country
// fallback) always returns the same gateway for a given country regardless
// of Go's randomized map iteration order.
var primaryGatewayByCountry map[string]string

func init() {
	knownCodes = make(map[string]Entry, len(curatedCities))
	cities := make([]string, 0, len(curatedCities))
	for city, entry := range curatedCities {
		knownCodes[entry.Code] = entry
		cities = append(cities, city)
	}
	sort.Strings(cities)

	primaryGatewayByCountry = make(map[string]string)
	for _, city := range cities {
		entry := curatedCities[city]
		if _, exists := primaryGatewayByCountry[entry.Country]; !exists {
			primaryGatewayByCountry[entry.Country] = entry.Code
		}
	}
}

// countryPrimaryGateway returns the curated table's deterministic primary
// airport for a given country, used by tier 4 (country fallback).
func countryPrimaryGateway(country string) (string, bool) {
	code, ok := primaryGatewayByCountry[country]
	return code, ok
}
