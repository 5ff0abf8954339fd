package services

import "strings"

// Place is a gazetteer entry.
type Place struct {
	Name string
	Lat  float64
	Lon  float64
}

// DefaultLocationName is used when the query names no known place.
const DefaultLocationName = "Current Location"

// gazetteer lists lowercase place keys with display names and
// coordinates. It is an ordered slice, not a map: when a text mentions
// several known places, MatchLocation must resolve the same one every
// time.
var gazetteer = []struct {
	key   string
	place Place
}{
	{"maryland", Place{Name: "Maryland Park", Lat: 38.9072, Lon: -76.9400}},
	{"dublin", Place{Name: "Dublin", Lat: 53.3498, Lon: -6.2603}},
	{"cork", Place{Name: "Cork", Lat: 51.8985, Lon: -8.4756}},

	{"new york", Place{Name: "New York", Lat: 40.7128, Lon: -74.0060}},
	{"los angeles", Place{Name: "Los Angeles", Lat: 34.0522, Lon: -118.2437}},
	{"chicago", Place{Name: "Chicago", Lat: 41.8781, Lon: -87.6298}},
	{"houston", Place{Name: "Houston", Lat: 29.7604, Lon: -95.3698}},
	{"san francisco", Place{Name: "San Francisco", Lat: 37.7749, Lon: -122.4194}},
	{"seattle", Place{Name: "Seattle", Lat: 47.6062, Lon: -122.3321}},
	{"denver", Place{Name: "Denver", Lat: 39.7392, Lon: -104.9903}},
	{"boston", Place{Name: "Boston", Lat: 42.3601, Lon: -71.0589}},
	{"miami", Place{Name: "Miami", Lat: 25.7617, Lon: -80.1918}},
	{"atlanta", Place{Name: "Atlanta", Lat: 33.7490, Lon: -84.3880}},
	{"toronto", Place{Name: "Toronto", Lat: 43.6532, Lon: -79.3832}},
	{"vancouver", Place{Name: "Vancouver", Lat: 49.2827, Lon: -123.1207}},
	{"mexico city", Place{Name: "Mexico City", Lat: 19.4326, Lon: -99.1332}},
}

// MatchLocation scans free text for a known place name. When several
// places appear, the one mentioned earliest in the text wins, so
// "from Dublin to Cork" resolves to Dublin. The boolean is false when
// nothing matched; callers fall back to DefaultLocationName.
func MatchLocation(text string) (Place, bool) {
	normalized := strings.ToLower(text)

	best := -1
	var found Place
	for _, entry := range gazetteer {
		idx := strings.Index(normalized, entry.key)
		if idx < 0 || (best >= 0 && idx >= best) {
			continue
		}
		best = idx
		found = entry.place
	}
	return found, best >= 0
}

// LookupPlace resolves an exact location name (as stored in a view
// model or passed as a query parameter) to its coordinates.
func LookupPlace(name string) (Place, bool) {
	return MatchLocation(name)
}

// AQICategory bands an AQI value into its health-risk category.
func AQICategory(aqi float64) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}

// sensitiveKeywords flag queries mentioning a health condition that
// warrants the sensitive-group risk tier.
var sensitiveKeywords = []string{"asthma", "respiratory", "copd", "allergy", "allergies"}

// RiskTierForQuery returns the coarse health-risk tier implied by the
// query text alone, used when no analysis payload is available.
func RiskTierForQuery(text string) string {
	normalized := strings.ToLower(text)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(normalized, kw) {
			return "Unhealthy for Sensitive Groups"
		}
	}
	return "Good"
}
