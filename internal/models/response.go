package models

type SearchMetadata struct {
	TotalResults       int      `json:"total_results"`
	ProvidersQueried   int      `json:"providers_queried"`
	ProvidersSucceeded int      `json:"providers_succeeded"`
	ProvidersFailed    int      `json:"providers_failed"`
	FailedProviders    []string `json:"failed_providers,omitempty"`
	SearchTimeMs       int64    `json:"search_time_ms"`
	CacheHit           bool     `json:"cache_hit"`
}

type SearchCriteria struct {
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	DepartureDate string   `json:"departure_date"`
	Passengers    int      `json:"passengers"`
	CabinClass    string   `json:"cabin_class"`
	BusyDates     []string `json:"busy_dates,omitempty"`
}

// SearchResponse carries the ranked analysis for one route/date plus any
// price alerts raised against the route's history.
type SearchResponse struct {
	SearchCriteria SearchCriteria `json:"search_criteria"`
	Metadata       SearchMetadata `json:"metadata"`
	Analysis       Analysis       `json:"analysis"`
	Deals          []Deal         `json:"deals,omitempty"`
	Alerts         []Alert        `json:"alerts,omitempty"`
}

// FlexibleResponse maps each candidate date to the best offer found on it.
type FlexibleResponse struct {
	SearchCriteria SearchCriteria         `json:"search_criteria"`
	Metadata       SearchMetadata         `json:"metadata"`
	Options        map[string]ScoredOffer `json:"options"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
