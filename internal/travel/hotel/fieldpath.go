package hotel

import "strings"

// FieldPath is one entry in the declarative nested-field probe table for
// extracting a nightly price out of a loosely-typed provider response, per
// SPEC_FULL.md §4.7/§9's "apply the nested-field probe list ... as a
// declarative table rather than code."
type FieldPath struct {
	// Path is a dot-separated walk through nested maps, e.g.
	// "rate_per_night.extracted_lowest".
	Path string
	// DivideByNights is true when the probed value is a total-stay price
	// that must be divided by the number of nights to get a nightly rate
	// (e.g. "total_rate/nights").
	DivideByNights bool
}

// nightlyPriceProbes is walked in order; the first field that resolves to a
// usable number wins.
var nightlyPriceProbes = []FieldPath{
	{Path: "rate_per_night.extracted_lowest"},
	{Path: "price.extracted_lowest"},
	{Path: "price_per_night"},
	{Path: "total_rate.lowest", DivideByNights: true},
	{Path: "total_rate", DivideByNights: true},
	{Path: "price.total", DivideByNights: true},
}

// probe walks raw using the given path (dot-separated keys) and returns the
// terminal value as a float64, if present and numeric.
func probe(raw map[string]interface{}, path string) (float64, bool) {
	keys := strings.Split(path, ".")
	var current interface{} = raw

	for _, key := range keys {
		m, ok := current.(map[string]interface{})
		if !ok {
			return 0, false
		}
		current, ok = m[key]
		if !ok {
			return 0, false
		}
	}

	return toFloat(current)
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// extractNightlyPrice walks nightlyPriceProbes in order against raw and
// nights, returning the first resolvable nightly price.
func extractNightlyPrice(raw map[string]interface{}, nights int) (float64, bool) {
	for _, fp := range nightlyPriceProbes {
		value, ok := probe(raw, fp.Path)
		if !ok {
			continue
		}
		if fp.DivideByNights && nights > 0 {
			value = value / float64(nights)
		}
		return value, true
	}
	return 0, false
}
