package model

// Confidence qualifies how strongly a placement suggestion is supported
// by nearby stops.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// NearbyStop describes one existing stop close to a proposed location.
type NearbyStop struct {
	StopID            string  `json:"stop_id"`
	ClientLabel       string  `json:"client_label,omitempty"`
	DistanceMeters    float64 `json:"distance_meters"`
	FormattedDistance string  `json:"formatted_distance"`
}

// PlacementSuggestion proposes a day and technician for a new stop.
type PlacementSuggestion struct {
	Day         Day                `json:"day"`
	TechID      string             `json:"tech_id"`
	TechName    string             `json:"tech_name"`
	Reasoning   string             `json:"reasoning"`
	NearbyStops []NearbyStop       `json:"nearby_stops"`
	Confidence  Confidence         `json:"confidence"`
	Warnings    []DataQualityIssue `json:"warnings,omitempty"`
}

// OptimizationSuggestion proposes moving one existing stop to a better
// clustered day. Advisory only, nothing is mutated.
type OptimizationSuggestion struct {
	StopID                  string  `json:"stop_id"`
	CurrentDay              Day     `json:"current_day"`
	SuggestedDay            Day     `json:"suggested_day"`
	CurrentTechID           string  `json:"current_tech_id,omitempty"`
	SuggestedTechID         string  `json:"suggested_tech_id"`
	Reasoning               string  `json:"reasoning"`
	EstimatedSavingsMinutes float64 `json:"estimated_savings_minutes"`
}

// ReorgAssignment is the new placement of one stop in a reorganization
// plan.
type ReorgAssignment struct {
	StopID    string `json:"stop_id"`
	NewDay    Day    `json:"new_day"`
	NewTechID string `json:"new_tech_id"`
}

// DayStats summarizes one day of a reorganization plan.
type DayStats struct {
	StopCount int    `json:"stop_count"`
	TechName  string `json:"tech_name"`
}

// ReorgPlan is a full re-clustering of every stop in the snapshot.
type ReorgPlan struct {
	Assignments             []ReorgAssignment   `json:"assignments"`
	DayStats                map[string]DayStats `json:"day_stats"`
	Summary                 string              `json:"summary"`
	EstimatedSavingsMinutes float64             `json:"estimated_savings_minutes"`
	Warnings                []DataQualityIssue  `json:"warnings,omitempty"`
}
