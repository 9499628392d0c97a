package types

import (
	"time"

	"github.com/google/uuid"
)

// FormStep is the position of a plan session inside the question form.
type FormStep string

const (
	StepInterests FormStep = "INTERESTS"
	StepTime      FormStep = "TIME"
	StepLocation  FormStep = "LOCATION"
	StepDone      FormStep = "DONE"
)

// PlanSession is the explicit per-user form state: interests, available
// time and starting location collected step by step before generation.
type PlanSession struct {
	ID             uuid.UUID `json:"id"`
	UserID         string    `json:"user_id"`
	Step           FormStep  `json:"step"`
	Interests      string    `json:"interests,omitempty"`
	TimeHours      float64   `json:"time_hours,omitempty"`
	LocationText   string    `json:"location_text,omitempty"`
	LocationCoords *GeoPoint `json:"location_coords,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GenerationInteraction is one persisted record of a generation run.
type GenerationInteraction struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	Interests    string    `json:"interests"`
	TimeHours    float64   `json:"time_hours"`
	ResponseText string    `json:"response_text"`
	Success      bool      `json:"success"`
	LatencyMs    int       `json:"latency_ms"`
	CreatedAt    time.Time `json:"created_at"`
}
