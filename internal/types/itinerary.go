package types

// TravelMode classifies how the visitor reaches a stop.
type TravelMode int

const (
	ModeStart TravelMode = iota // first stop, or no coordinates to measure from
	ModeWalk
	ModeTransit
	ModeError // implausible distance, coordinates considered corrupt
)

// Label returns the mode as it appears in the rendered itinerary.
func (m TravelMode) Label() string {
	switch m {
	case ModeWalk:
		return "пешком"
	case ModeTransit:
		return "транспорт"
	case ModeError:
		return "ошибка"
	default:
		return "старт"
	}
}

// ItineraryStop is one committed stop with the travel leg leading to it.
type ItineraryStop struct {
	Place         Place      `json:"place"`
	TravelMinutes int        `json:"travel_minutes"`
	Mode          TravelMode `json:"travel_mode"`
	StayMinutes   int        `json:"stay_minutes"`
	DistanceKm    float64    `json:"distance_km"`
}

// Itinerary is the final ordered, time-budgeted artifact.
type Itinerary struct {
	Stops           []ItineraryStop `json:"stops"`
	TotalMinutes    int             `json:"total_minutes"`
	TotalDistanceKm float64         `json:"total_distance_km"`
}

// GenerateItineraryRequest carries everything one generation needs.
type GenerateItineraryRequest struct {
	UserID       string    `json:"user_id,omitempty"`
	Interests    string    `json:"interests"`
	TimeHours    float64   `json:"time_hours"`
	OriginText   string    `json:"origin_text,omitempty"`
	OriginLabel  string    `json:"origin_label,omitempty"`
	OriginCoords *GeoPoint `json:"origin_coords,omitempty"`
}

// GenerateItineraryResult is what the caller always receives: a text and
// a success flag, never a raw internal error.
type GenerateItineraryResult struct {
	Text        string     `json:"text"`
	Coordinates []GeoPoint `json:"coordinates"`
	Success     bool       `json:"success"`
	Itinerary   *Itinerary `json:"itinerary,omitempty"`
}
