package timezone

import (
	"strings"
	"sync"
	"time"
)

// IANA zone per airport for the monitored US network. Used when building
// timezone-aware segment timestamps.
var airportZones = map[string]string{
	// Pacific
	"LAX": "America/Los_Angeles",
	"BUR": "America/Los_Angeles",
	"LGB": "America/Los_Angeles",
	"SNA": "America/Los_Angeles",
	"SFO": "America/Los_Angeles",
	"SJC": "America/Los_Angeles",
	"SEA": "America/Los_Angeles",
	"PDX": "America/Los_Angeles",
	"LAS": "America/Los_Angeles",

	// Arizona (no DST)
	"PHX": "America/Phoenix",
	"TUS": "America/Phoenix",
	"FLG": "America/Phoenix",

	// Mountain
	"DEN": "America/Denver",
	"SLC": "America/Denver",

	// Central
	"DFW": "America/Chicago",
	"ORD": "America/Chicago",
	"MSP": "America/Chicago",

	// Eastern
	"ATL": "America/New_York",
	"DTW": "America/New_York",
	"EWR": "America/New_York",
	"JFK": "America/New_York",
	"LGA": "America/New_York",
	"BOS": "America/New_York",
	"IAD": "America/New_York",
	"DCA": "America/New_York",
	"MIA": "America/New_York",
	"FLL": "America/New_York",
	"MCO": "America/New_York",
}

var (
	locMu    sync.Mutex
	locCache = map[string]*time.Location{}
)

// GetZoneByAirport returns the IANA zone name for an airport, defaulting to
// Pacific for unknown codes since the monitored network is west-coast based.
func GetZoneByAirport(code string) string {
	if zone, ok := airportZones[strings.ToUpper(code)]; ok {
		return zone
	}
	return "America/Los_Angeles"
}

// GetLocationByAirport resolves and caches the time.Location for an airport.
func GetLocationByAirport(code string) *time.Location {
	zone := GetZoneByAirport(code)

	locMu.Lock()
	defer locMu.Unlock()

	if loc, ok := locCache[zone]; ok {
		return loc
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
	}
	locCache[zone] = loc
	return loc
}

// ConvertToAirport re-expresses a timestamp in the airport's local zone.
func ConvertToAirport(t time.Time, airportCode string) time.Time {
	return t.In(GetLocationByAirport(airportCode))
}

// ParseFlexible parses the timestamp layouts seen in provider payloads.
func ParseFlexible(timeStr string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}

	var lastErr error
	for _, format := range formats {
		t, err := time.Parse(format, timeStr)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
