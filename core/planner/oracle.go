package planner

import (
	"context"
	"fmt"

	"fieldroute/core/geo"
	"fieldroute/core/model"
)

// Operation names a planning operation kind on the oracle wire.
type Operation string

const (
	OpPlacement Operation = "placement"
	OpDrift     Operation = "drift"
	OpReorg     Operation = "reorg"
)

// Oracle is an optional external reasoning service able to propose the
// same result shapes as the deterministic planner. Its output is never
// trusted: every candidate is validated against the snapshot before
// use and any failure collapses to the deterministic path.
type Oracle interface {
	SuggestPlacement(ctx context.Context, loc geo.Point, snap model.Snapshot) (model.PlacementSuggestion, error)
	SuggestDrift(ctx context.Context, snap model.Snapshot) ([]model.OptimizationSuggestion, error)
	SuggestReorg(ctx context.Context, snap model.Snapshot) (model.ReorgPlan, error)
}

// snapshotIndex precomputes the lookups shared by the validators.
type snapshotIndex struct {
	days  map[model.Day]bool
	techs map[string]bool
	stops map[string]bool
}

func indexSnapshot(snap model.Snapshot) snapshotIndex {
	idx := snapshotIndex{
		days:  make(map[model.Day]bool),
		techs: make(map[string]bool, len(snap.Technicians)),
		stops: make(map[string]bool, len(snap.Stops)),
	}
	for _, d := range snap.AvailableDays() {
		idx.days[d] = true
	}
	for _, t := range snap.Technicians {
		idx.techs[t.ID] = true
	}
	for _, s := range snap.Stops {
		idx.stops[s.ID] = true
	}
	return idx
}

// validatePlacement checks an oracle placement candidate structurally
// against the snapshot.
func validatePlacement(s model.PlacementSuggestion, snap model.Snapshot) error {
	idx := indexSnapshot(snap)
	if !idx.days[s.Day] {
		return OracleValidationError{Reason: fmt.Sprintf("day %s not available", s.Day)}
	}
	if !idx.techs[s.TechID] {
		return OracleValidationError{Reason: fmt.Sprintf("unknown technician %q", s.TechID)}
	}
	switch s.Confidence {
	case model.ConfidenceHigh, model.ConfidenceMedium, model.ConfidenceLow:
	default:
		return OracleValidationError{Reason: fmt.Sprintf("invalid confidence %q", s.Confidence)}
	}
	if len(s.NearbyStops) > maxNearbyStops {
		return OracleValidationError{Reason: fmt.Sprintf("%d nearby stops exceeds limit", len(s.NearbyStops))}
	}
	for _, n := range s.NearbyStops {
		if !idx.stops[n.StopID] {
			return OracleValidationError{Reason: fmt.Sprintf("unknown nearby stop %q", n.StopID)}
		}
	}
	return nil
}

// validateDrift checks a list of oracle move candidates.
func validateDrift(list []model.OptimizationSuggestion, snap model.Snapshot) error {
	idx := indexSnapshot(snap)
	for _, s := range list {
		if !idx.stops[s.StopID] {
			return OracleValidationError{Reason: fmt.Sprintf("unknown stop %q", s.StopID)}
		}
		if !idx.days[s.SuggestedDay] {
			return OracleValidationError{Reason: fmt.Sprintf("day %s not available", s.SuggestedDay)}
		}
		if s.SuggestedDay == s.CurrentDay {
			return OracleValidationError{Reason: fmt.Sprintf("stop %q suggested to its current day", s.StopID)}
		}
		if !idx.techs[s.SuggestedTechID] {
			return OracleValidationError{Reason: fmt.Sprintf("unknown technician %q", s.SuggestedTechID)}
		}
		if s.EstimatedSavingsMinutes < 0 {
			return OracleValidationError{Reason: fmt.Sprintf("negative savings for stop %q", s.StopID)}
		}
	}
	return nil
}

// validateReorg checks that an oracle plan covers every input stop
// exactly once with known technicians and available days.
func validateReorg(plan model.ReorgPlan, snap model.Snapshot) error {
	idx := indexSnapshot(snap)
	if len(plan.Assignments) != len(snap.Stops) {
		return OracleValidationError{Reason: fmt.Sprintf("%d assignments for %d stops", len(plan.Assignments), len(snap.Stops))}
	}
	seen := make(map[string]bool, len(plan.Assignments))
	for _, a := range plan.Assignments {
		if !idx.stops[a.StopID] {
			return OracleValidationError{Reason: fmt.Sprintf("unknown stop %q", a.StopID)}
		}
		if seen[a.StopID] {
			return OracleValidationError{Reason: fmt.Sprintf("stop %q assigned twice", a.StopID)}
		}
		seen[a.StopID] = true
		if !idx.days[a.NewDay] {
			return OracleValidationError{Reason: fmt.Sprintf("day %s not available", a.NewDay)}
		}
		if !idx.techs[a.NewTechID] {
			return OracleValidationError{Reason: fmt.Sprintf("unknown technician %q", a.NewTechID)}
		}
	}
	if plan.EstimatedSavingsMinutes < 0 {
		return OracleValidationError{Reason: "negative estimated savings"}
	}
	return nil
}
