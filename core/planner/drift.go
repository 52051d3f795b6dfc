package planner

import (
	"fmt"

	"fieldroute/core/geo"
	"fieldroute/core/model"
)

// PlanDrift scans the schedule for single-stop moves that would reduce
// travel. It is advisory only: the returned list may be empty and no
// snapshot state is ever mutated. A stop is never suggested to move to
// its current day.
func (p Deterministic) PlanDrift(snap model.Snapshot) []model.OptimizationSuggestion {
	days := snap.AvailableDays()
	if len(days) < 2 || len(snap.Technicians) == 0 {
		return nil
	}
	valid, _ := snap.ValidStops()

	var suggestions []model.OptimizationSuggestion
	for _, s := range valid {
		loc := geo.Point{Lat: s.Lat, Lng: s.Lng}
		curr := scoreCluster(p.cfg, loc, s.AssignedDay, valid, s.ID)

		// A stop with no same-day neighbours sits at least the proximity
		// radius away from its cluster, so that radius is its effective
		// current average.
		currAvg := curr.AvgDistance
		if curr.NearbyCount == 0 {
			currAvg = p.cfg.ProximityRadiusMeters
		}

		best := ClusterStats{NearbyCount: -1}
		for _, d := range days {
			if d == s.AssignedDay {
				continue
			}
			cand := scoreCluster(p.cfg, loc, d, valid, "")
			if cand.NearbyCount > best.NearbyCount ||
				(cand.NearbyCount == best.NearbyCount && cand.NearbyCount > 0 && cand.AvgDistance < best.AvgDistance) {
				best = cand
			}
		}

		if best.NearbyCount-curr.NearbyCount < 1 {
			continue
		}
		reduction := currAvg - best.AvgDistance
		if reduction < p.cfg.DriftSavingsMeters {
			continue
		}

		tech := best.topTech(snap.Technicians)
		suggestions = append(suggestions, model.OptimizationSuggestion{
			StopID:          s.ID,
			CurrentDay:      s.AssignedDay,
			SuggestedDay:    best.Day,
			CurrentTechID:   s.AssignedTechID,
			SuggestedTechID: tech.ID,
			Reasoning: fmt.Sprintf("%s has %d nearby stop(s) vs %d on %s, cutting the average leg by %s.",
				best.Day, best.NearbyCount, curr.NearbyCount, s.AssignedDay,
				geo.FormatDistance(reduction, p.cfg.DistanceUnit)),
			EstimatedSavingsMinutes: p.cfg.savingsMinutes(reduction),
		})
	}
	return suggestions
}
