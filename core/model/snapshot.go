package model

// Snapshot is the immutable input handed to the planning engine for one
// call. The engine never mutates it and retains no reference after the
// call returns.
type Snapshot struct {
	Stops        []Stop       `json:"stops"`
	Technicians  []Technician `json:"technicians"`
	BlackoutDays []Day        `json:"blackout_days,omitempty"`
}

// AvailableDays returns the service days not blacked out, in fixed
// MONDAY to SATURDAY order.
func (s Snapshot) AvailableDays() []Day {
	blocked := make(map[Day]struct{}, len(s.BlackoutDays))
	for _, d := range s.BlackoutDays {
		blocked[d] = struct{}{}
	}
	var days []Day
	for _, d := range ServiceDays {
		if _, ok := blocked[d]; !ok {
			days = append(days, d)
		}
	}
	return days
}

// TechByID returns the technician with the given id.
func (s Snapshot) TechByID(id string) (Technician, bool) {
	for _, t := range s.Technicians {
		if t.ID == id {
			return t, true
		}
	}
	return Technician{}, false
}

// ValidStops partitions the snapshot's stops into those with usable
// coordinates and data-quality issues for the rest. Invalid stops are
// excluded from all clustering computations, never treated as (0,0).
func (s Snapshot) ValidStops() ([]Stop, []DataQualityIssue) {
	valid := make([]Stop, 0, len(s.Stops))
	var issues []DataQualityIssue
	for _, st := range s.Stops {
		if st.HasValidCoords() {
			valid = append(valid, st)
			continue
		}
		issues = append(issues, DataQualityIssue{
			StopID:      st.ID,
			ClientLabel: st.ClientLabel,
			Reason:      "missing or invalid coordinates",
		})
	}
	return valid, issues
}
