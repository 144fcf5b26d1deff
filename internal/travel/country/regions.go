package country

// regionByCountry classifies ISO country codes into the broad regions used
// by C3's regional pricing-tier table.
// Grounded on the region-taxonomy shape of the pack's flight-search region
// macros (db.Top100Airports plus a small explicit region table), adapted
// here from airport codes to ISO country codes since that is what the
// profile provider keys on.
var regionByCountry = map[string]string{
	"US": "North America", "CA": "North America", "MX": "North America",

	"FR": "Western Europe", "GB": "Western Europe", "DE": "Western Europe",
	"IT": "Western Europe", "ES": "Western Europe", "NL": "Western Europe",
	"PT": "Western Europe", "CH": "Western Europe", "AT": "Western Europe",
	"IE": "Western Europe", "DK": "Western Europe", "SE": "Western Europe",
	"NO": "Western Europe", "FI": "Western Europe",

	"PL": "Eastern Europe", "CZ": "Eastern Europe", "GR": "Eastern Europe", "TR": "Eastern Europe",

	"LK": "South Asia", "IN": "South Asia", "PK": "South Asia", "BD": "South Asia", "NP": "South Asia",

	"JP": "East Asia", "KR": "East Asia", "CN": "East Asia", "HK": "East Asia", "TW": "East Asia",

	"SG": "Southeast Asia", "TH": "Southeast Asia", "MY": "Southeast Asia", "ID": "Southeast Asia",
	"PH": "Southeast Asia", "VN": "Southeast Asia",

	"AE": "Middle East", "QA": "Middle East", "IL": "Middle East", "SA": "Middle East",

	"AU": "Oceania", "NZ": "Oceania",

	"EG": "Africa", "ZA": "Africa", "KE": "Africa", "NG": "Africa",

	"BR": "South America", "AR": "South America", "CL": "South America", "PE": "South America", "CO": "South America",
}

// regionForCountry returns the region for a country code, or "" if unknown
// (the caller's default-tier fallback applies).
func regionForCountry(countryCode string) string {
	return regionByCountry[countryCode]
}
