package model

// Stop represents one recurring service visit location.
type Stop struct {
	ID             string  `json:"id"`
	ClientLabel    string  `json:"client_label"`
	Address        string  `json:"address"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	AssignedDay    Day     `json:"assigned_day"`
	AssignedTechID string  `json:"assigned_tech_id,omitempty"`
	VisitFrequency string  `json:"visit_frequency,omitempty"`
}

// HasValidCoords reports whether the stop carries usable WGS84
// coordinates. The (0,0) null island placeholder is rejected so missing
// geocodes are never clustered as real locations.
func (s Stop) HasValidCoords() bool {
	if s.Lat == 0 && s.Lng == 0 {
		return false
	}
	return s.Lat >= -90 && s.Lat <= 90 && s.Lng >= -180 && s.Lng <= 180
}

// Technician represents a field technician. Availability is expressed
// only through the snapshot's blackout days, never owned here.
type Technician struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// DataQualityIssue reports a stop that was excluded from clustering.
type DataQualityIssue struct {
	StopID      string `json:"stop_id"`
	ClientLabel string `json:"client_label,omitempty"`
	Reason      string `json:"reason"`
}
