package planner

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"fieldroute/core/geo"
	"fieldroute/core/model"
)

// improveEpsilon guards the local search against cycling on float
// noise: a move must improve isolation by more than this many meters.
const improveEpsilon = 1e-3

type reorgMove struct {
	stopIdx     int
	day         model.Day
	improvement float64
}

// PlanReorg re-clusters every stop across the available days via
// bounded greedy local search, then assigns each day's technician by
// majority. The result covers every input stop exactly once and never
// uses a blackout day. Identical input always yields the identical
// plan.
func (p Deterministic) PlanReorg(snap model.Snapshot) (model.ReorgPlan, error) {
	days := snap.AvailableDays()
	if len(days) == 0 {
		return model.ReorgPlan{}, ConfigurationError{Reason: "no service days available"}
	}
	if len(snap.Technicians) == 0 {
		return model.ReorgPlan{}, ConfigurationError{Reason: "no technicians available"}
	}

	valid, issues := snap.ValidStops()
	available := make(map[model.Day]bool, len(days))
	for _, d := range days {
		available[d] = true
	}

	// Working day assignment for every input stop, seeded from the
	// current schedule. Stops on a blacked-out day start on the first
	// available one.
	assign := make(map[string]model.Day, len(snap.Stops))
	for _, s := range snap.Stops {
		day := s.AssignedDay
		if !available[day] {
			day = days[0]
		}
		assign[s.ID] = day
	}
	preCost := p.clusterCost(valid, assign)

	counts := make(map[model.Day]int, len(days))
	for _, s := range snap.Stops {
		counts[assign[s.ID]]++
	}
	meanLoad := float64(len(snap.Stops)) / float64(len(days))
	maxLoad := meanLoad * (1 + p.cfg.BalanceTolerance)
	minLoad := meanLoad * (1 - p.cfg.BalanceTolerance)

	moves := 0
	for pass := 0; pass < p.cfg.MaxPasses; pass++ {
		move, ok := p.bestMove(valid, days, assign, counts, minLoad, maxLoad)
		if !ok {
			break
		}
		s := valid[move.stopIdx]
		counts[assign[s.ID]]--
		counts[move.day]++
		assign[s.ID] = move.day
		moves++
	}

	dayTechs := p.assignDayTechs(days, valid, assign, snap.Technicians)

	assignments := make([]model.ReorgAssignment, 0, len(snap.Stops))
	for _, s := range snap.Stops {
		day := assign[s.ID]
		assignments = append(assignments, model.ReorgAssignment{
			StopID:    s.ID,
			NewDay:    day,
			NewTechID: dayTechs[day].ID,
		})
	}

	stats := make(map[string]model.DayStats, len(days))
	for _, d := range days {
		stats[d.String()] = model.DayStats{
			StopCount: counts[d],
			TechName:  dayTechs[d].DisplayName,
		}
	}

	postCost := p.clusterCost(valid, assign)
	savings := p.cfg.savingsMinutes(preCost - postCost)
	return model.ReorgPlan{
		Assignments: assignments,
		DayStats:    stats,
		Summary: fmt.Sprintf("Re-clustered %d stops across %d days in %d move(s), saving an estimated %.0f minutes of travel.",
			len(snap.Stops), len(days), moves, savings),
		EstimatedSavingsMinutes: savings,
		Warnings:                issues,
	}, nil
}

// bestMove finds the single most improving stop move this pass. Moves
// respecting the workload-balance bounds win; unbalanced moves are
// considered only when no balanced improving move exists. Ties keep the
// earlier stop, then the earlier day.
func (p Deterministic) bestMove(valid []model.Stop, days []model.Day, assign map[string]model.Day, counts map[model.Day]int, minLoad, maxLoad float64) (reorgMove, bool) {
	var bestBalanced, bestAny reorgMove
	foundBalanced, foundAny := false, false

	for i, s := range valid {
		curr := p.isolation(s, assign[s.ID], valid, assign)
		for _, d := range days {
			if d == assign[s.ID] {
				continue
			}
			improvement := curr - p.isolation(s, d, valid, assign)
			if improvement <= improveEpsilon {
				continue
			}
			m := reorgMove{stopIdx: i, day: d, improvement: improvement}
			balanced := float64(counts[d]+1) <= maxLoad &&
				float64(counts[assign[s.ID]]-1) >= minLoad
			if balanced && (!foundBalanced || improvement > bestBalanced.improvement) {
				bestBalanced, foundBalanced = m, true
			}
			if !foundAny || improvement > bestAny.improvement {
				bestAny, foundAny = m, true
			}
		}
	}
	if foundBalanced {
		return bestBalanced, true
	}
	return bestAny, foundAny
}

// isolation is the mean distance from a stop to its would-be
// cluster-mates on the given day. A day with no mates scores the
// proximity radius, so joining any real cluster closer than the radius
// is an improvement and splitting an over-spread one still pays off.
func (p Deterministic) isolation(s model.Stop, day model.Day, valid []model.Stop, assign map[string]model.Day) float64 {
	loc := geo.Point{Lat: s.Lat, Lng: s.Lng}
	var dists []float64
	for _, other := range valid {
		if other.ID == s.ID || assign[other.ID] != day {
			continue
		}
		dists = append(dists, geo.Distance(loc, geo.Point{Lat: other.Lat, Lng: other.Lng}))
	}
	if len(dists) == 0 {
		return p.cfg.ProximityRadiusMeters
	}
	return stat.Mean(dists, nil)
}

// clusterCost sums per-stop isolation under an assignment. Used for the
// pre/post savings estimate.
func (p Deterministic) clusterCost(valid []model.Stop, assign map[string]model.Day) float64 {
	var total float64
	for _, s := range valid {
		total += p.isolation(s, assign[s.ID], valid, assign)
	}
	return total
}

// assignDayTechs picks each day's technician as the one whose existing
// stops dominate the final cluster. Days without a clear majority are
// filled round-robin over the roster ordered by id, keeping workload
// even.
func (p Deterministic) assignDayTechs(days []model.Day, valid []model.Stop, assign map[string]model.Day, techs []model.Technician) map[model.Day]model.Technician {
	byID := make([]model.Technician, len(techs))
	copy(byID, techs)
	for i := 1; i < len(byID); i++ {
		for j := i; j > 0 && byID[j].ID < byID[j-1].ID; j-- {
			byID[j], byID[j-1] = byID[j-1], byID[j]
		}
	}
	techIdx := make(map[string]model.Technician, len(techs))
	for _, t := range techs {
		techIdx[t.ID] = t
	}

	out := make(map[model.Day]model.Technician, len(days))
	rr := 0
	for _, d := range days {
		freq := make(map[string]int)
		for _, s := range valid {
			if assign[s.ID] == d && s.AssignedTechID != "" {
				if _, known := techIdx[s.AssignedTechID]; known {
					freq[s.AssignedTechID]++
				}
			}
		}
		var majority string
		bestCount, tied := 0, false
		for _, t := range techs {
			switch c := freq[t.ID]; {
			case c > bestCount:
				majority, bestCount, tied = t.ID, c, false
			case c == bestCount && c > 0:
				tied = true
			}
		}
		if majority != "" && !tied {
			out[d] = techIdx[majority]
			continue
		}
		out[d] = byID[rr%len(byID)]
		rr++
	}
	return out
}
