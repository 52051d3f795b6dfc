package planner

import (
	"fmt"

	"fieldroute/core/geo"
)

// Config carries the domain constants of the planning engine. The
// values are business configuration, not fixed logic: the proximity
// radius, the drift savings threshold, the balance tolerance and the
// travel speed all come from deployment configuration.
type Config struct {
	// ProximityRadiusMeters bounds the "nearby" neighbourhood used by
	// the cluster scorer. Default is two miles.
	ProximityRadiusMeters float64 `json:"proximity_radius_meters"`

	// DriftSavingsMeters is the minimum average-distance reduction a
	// drift suggestion must achieve. Default is half a mile.
	DriftSavingsMeters float64 `json:"drift_savings_meters"`

	// BalanceTolerance bounds per-day workload during reorganization as
	// a fraction around the mean stop count.
	BalanceTolerance float64 `json:"balance_tolerance"`

	// MaxPasses bounds the reorganization local search.
	MaxPasses int `json:"max_passes"`

	// TravelSpeedKmh converts saved distance into saved minutes.
	TravelSpeedKmh float64 `json:"travel_speed_kmh"`

	// DistanceUnit selects imperial or metric formatting.
	DistanceUnit geo.Unit `json:"distance_unit"`
}

// SetDefaults fills zero values with the standard business constants.
func (c *Config) SetDefaults() {
	if c.ProximityRadiusMeters == 0 {
		c.ProximityRadiusMeters = 3218
	}
	if c.DriftSavingsMeters == 0 {
		c.DriftSavingsMeters = 805
	}
	if c.BalanceTolerance == 0 {
		c.BalanceTolerance = 0.2
	}
	if c.MaxPasses == 0 {
		c.MaxPasses = 20
	}
	if c.TravelSpeedKmh == 0 {
		c.TravelSpeedKmh = 40
	}
	if c.DistanceUnit == "" {
		c.DistanceUnit = geo.UnitImperial
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.ProximityRadiusMeters <= 0 {
		return fmt.Errorf("proximity radius must be positive")
	}
	if c.DriftSavingsMeters < 0 {
		return fmt.Errorf("drift savings threshold must not be negative")
	}
	if c.BalanceTolerance < 0 || c.BalanceTolerance >= 1 {
		return fmt.Errorf("balance tolerance must be in [0,1)")
	}
	if c.MaxPasses <= 0 {
		return fmt.Errorf("max passes must be positive")
	}
	if c.TravelSpeedKmh <= 0 {
		return fmt.Errorf("travel speed must be positive")
	}
	if c.DistanceUnit != geo.UnitImperial && c.DistanceUnit != geo.UnitMetric {
		return fmt.Errorf("unsupported distance unit: %s", c.DistanceUnit)
	}
	return nil
}

// savingsMinutes converts a saved straight-line distance into an
// estimated travel-time saving. Negative savings clamp to zero.
func (c Config) savingsMinutes(meters float64) float64 {
	if meters <= 0 {
		return 0
	}
	metersPerMinute := c.TravelSpeedKmh * 1000 / 60
	return meters / metersPerMinute
}
