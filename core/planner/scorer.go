package planner

import (
	"sort"

	"fieldroute/core/geo"
	"fieldroute/core/model"
)

// stopDistance pairs a stop with its distance from a reference point.
type stopDistance struct {
	stop   model.Stop
	meters float64
}

// ClusterStats scores the proximity of a location to one day's stops.
// All planners share this primitive; it is the single place
// proximity and workload logic lives.
type ClusterStats struct {
	Day           model.Day
	NearbyCount   int
	TotalDistance float64
	AvgDistance   float64
	// TechFrequency counts nearby stops per assigned technician.
	TechFrequency map[string]int

	nearby []stopDistance
}

// scoreCluster computes ClusterStats for loc against the stops already
// assigned to day. Stops with invalid coordinates must be filtered out
// by the caller; exclude skips one stop id (used when scoring a stop
// against its own day).
func scoreCluster(cfg Config, loc geo.Point, day model.Day, stops []model.Stop, exclude string) ClusterStats {
	stats := ClusterStats{Day: day, TechFrequency: make(map[string]int)}
	for _, s := range stops {
		if s.AssignedDay != day || (exclude != "" && s.ID == exclude) {
			continue
		}
		d := geo.Distance(loc, geo.Point{Lat: s.Lat, Lng: s.Lng})
		if d > cfg.ProximityRadiusMeters {
			continue
		}
		stats.NearbyCount++
		stats.TotalDistance += d
		if s.AssignedTechID != "" {
			stats.TechFrequency[s.AssignedTechID]++
		}
		stats.nearby = append(stats.nearby, stopDistance{stop: s, meters: d})
	}
	if stats.NearbyCount > 0 {
		stats.AvgDistance = stats.TotalDistance / float64(stats.NearbyCount)
	}
	sort.SliceStable(stats.nearby, func(i, j int) bool {
		return stats.nearby[i].meters < stats.nearby[j].meters
	})
	return stats
}

// NearestStops returns up to limit nearby stops, closest first, with
// distances formatted in the configured unit.
func (s ClusterStats) NearestStops(cfg Config, limit int) []model.NearbyStop {
	if limit > len(s.nearby) {
		limit = len(s.nearby)
	}
	out := make([]model.NearbyStop, 0, limit)
	for _, sd := range s.nearby[:limit] {
		out = append(out, model.NearbyStop{
			StopID:            sd.stop.ID,
			ClientLabel:       sd.stop.ClientLabel,
			DistanceMeters:    sd.meters,
			FormattedDistance: geo.FormatDistance(sd.meters, cfg.DistanceUnit),
		})
	}
	return out
}

// topTech returns the technician with the highest nearby frequency.
// Ties are broken by the technician roster order; an empty nearby
// subset falls back to the first technician.
func (s ClusterStats) topTech(techs []model.Technician) model.Technician {
	best := techs[0]
	bestCount := s.TechFrequency[best.ID]
	for _, t := range techs[1:] {
		if c := s.TechFrequency[t.ID]; c > bestCount {
			best, bestCount = t, c
		}
	}
	return best
}
