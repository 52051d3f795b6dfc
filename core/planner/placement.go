package planner

import (
	"fmt"

	"fieldroute/core/geo"
	"fieldroute/core/model"
)

// maxNearbyStops bounds the nearby list attached to a placement
// suggestion.
const maxNearbyStops = 5

// Deterministic runs the three planning operations with greedy,
// bounded, fully deterministic algorithms. It is a stateless value and
// safe to share between concurrent callers.
type Deterministic struct {
	cfg Config
}

// NewDeterministic returns a planner with defaults applied for any
// zero-valued constant.
func NewDeterministic(cfg Config) Deterministic {
	cfg.SetDefaults()
	return Deterministic{cfg: cfg}
}

// Config returns the effective engine configuration.
func (p Deterministic) Config() Config { return p.cfg }

// PlanPlacement assigns a new stop location to the best day and
// technician. The day with the most nearby same-day stops wins; ties go
// to the smaller average distance, then to the earlier day.
func (p Deterministic) PlanPlacement(loc geo.Point, snap model.Snapshot) (model.PlacementSuggestion, error) {
	days := snap.AvailableDays()
	if len(days) == 0 {
		return model.PlacementSuggestion{}, ConfigurationError{Reason: "no service days available"}
	}
	if len(snap.Technicians) == 0 {
		return model.PlacementSuggestion{}, ConfigurationError{Reason: "no technicians available"}
	}

	valid, issues := snap.ValidStops()

	best := scoreCluster(p.cfg, loc, days[0], valid, "")
	for _, day := range days[1:] {
		stats := scoreCluster(p.cfg, loc, day, valid, "")
		if stats.NearbyCount > best.NearbyCount ||
			(stats.NearbyCount == best.NearbyCount && stats.NearbyCount > 0 && stats.AvgDistance < best.AvgDistance) {
			best = stats
		}
	}

	tech := best.topTech(snap.Technicians)
	return model.PlacementSuggestion{
		Day:         best.Day,
		TechID:      tech.ID,
		TechName:    tech.DisplayName,
		Reasoning:   placementReasoning(p.cfg, best, tech),
		NearbyStops: best.NearestStops(p.cfg, maxNearbyStops),
		Confidence:  confidenceFor(best.NearbyCount),
		Warnings:    issues,
	}, nil
}

func confidenceFor(nearby int) model.Confidence {
	switch {
	case nearby >= 3:
		return model.ConfidenceHigh
	case nearby >= 1:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func placementReasoning(cfg Config, stats ClusterStats, tech model.Technician) string {
	if stats.NearbyCount == 0 {
		return fmt.Sprintf("No existing stops within %s of this location; %s starts a new cluster on %s.",
			geo.FormatDistance(cfg.ProximityRadiusMeters, cfg.DistanceUnit), tech.DisplayName, stats.Day)
	}
	return fmt.Sprintf("%d existing stop(s) within %s on %s, averaging %s away; %s already covers this area.",
		stats.NearbyCount,
		geo.FormatDistance(cfg.ProximityRadiusMeters, cfg.DistanceUnit),
		stats.Day,
		geo.FormatDistance(stats.AvgDistance, cfg.DistanceUnit),
		tech.DisplayName)
}
