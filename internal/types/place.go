package types

import "strings"

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is a single point-of-interest candidate flowing through the
// generation pipeline. Optional fields are pointers; a nil Coords means
// the search provider returned no point for the record.
type Place struct {
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	Coords      *GeoPoint `json:"coords,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	DistanceKm  *float64  `json:"distance_km,omitempty"`
	Rationale   string    `json:"rationale,omitempty"`
	StayMinutes int       `json:"stay_minutes,omitempty"`
}

// DedupeKey identifies a real-world place regardless of which search
// query produced the record.
func (p Place) DedupeKey() string {
	return strings.ToLower(strings.TrimSpace(p.Name)) + "|" + strings.ToLower(strings.TrimSpace(p.Address))
}

// CategoryText joins the category labels for keyword matching.
func (p Place) CategoryText() string {
	return strings.ToLower(strings.Join(p.Categories, ", "))
}

// Fixed category keys the classifier is allowed to produce.
const (
	CategoryHistory = "history"
	CategoryArt     = "art"
	CategoryFood    = "food"
	CategoryParks   = "parks"
	CategoryViews   = "views"
)

// AllCategories fixes the iteration order of CategoryMap values.
var AllCategories = []string{CategoryHistory, CategoryArt, CategoryFood, CategoryParks, CategoryViews}

// CategoryMap maps a fixed category key to an ordered list of short
// search-query strings. Built once per request, never mutated after.
type CategoryMap map[string][]string

// Queries flattens the map into one query list, ordered by AllCategories.
func (m CategoryMap) Queries() []string {
	var out []string
	for _, cat := range AllCategories {
		out = append(out, m[cat]...)
	}
	return out
}

// IsEmpty reports whether no category received any query.
func (m CategoryMap) IsEmpty() bool {
	for _, queries := range m {
		if len(queries) > 0 {
			return false
		}
	}
	return true
}

// Provenance marks whether a pipeline stage produced its value through
// the generative capability or through its deterministic fallback.
type Provenance string

const (
	ProvenanceAI       Provenance = "ai"
	ProvenanceFallback Provenance = "fallback"
)
