package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fieldroute/core/geo"
	"fieldroute/core/logger"
	"fieldroute/core/model"
	"fieldroute/core/planner"
)

// Client talks to an external reasoning service able to propose
// placement, drift and reorganization results. Responses are free-form
// model output with no schema guarantee, so every field is decoded
// defensively and converted through the same parsers the engine trusts;
// anything that does not fit is reported as a validation error and the
// caller falls back to the deterministic planner.
type Client struct {
	cfg    Config
	http   *http.Client
	logger logger.Logger
}

// NewClient creates an oracle client from the configuration.
func NewClient(cfg Config, log logger.Logger) *Client {
	cfg.SetDefaults()
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger: log,
	}
}

type request struct {
	Operation string         `json:"operation"`
	Location  *geo.Point     `json:"location,omitempty"`
	Snapshot  model.Snapshot `json:"snapshot"`
}

// Wire types deliberately keep days as raw strings and numbers as
// json.Number: the upstream service may quote numerics or invent day
// names, and both must fail closed rather than decode to zero values.
type wireNearbyStop struct {
	StopID            string      `json:"stop_id"`
	ClientLabel       string      `json:"client_label"`
	DistanceMeters    json.Number `json:"distance_meters"`
	FormattedDistance string      `json:"formatted_distance"`
}

type wirePlacement struct {
	Day         string           `json:"day"`
	TechID      string           `json:"tech_id"`
	TechName    string           `json:"tech_name"`
	Reasoning   string           `json:"reasoning"`
	NearbyStops []wireNearbyStop `json:"nearby_stops"`
	Confidence  string           `json:"confidence"`
}

type wireSuggestion struct {
	StopID                  string      `json:"stop_id"`
	CurrentDay              string      `json:"current_day"`
	SuggestedDay            string      `json:"suggested_day"`
	CurrentTechID           string      `json:"current_tech_id"`
	SuggestedTechID         string      `json:"suggested_tech_id"`
	Reasoning               string      `json:"reasoning"`
	EstimatedSavingsMinutes json.Number `json:"estimated_savings_minutes"`
}

type wireDrift struct {
	Suggestions []wireSuggestion `json:"suggestions"`
}

type wireAssignment struct {
	StopID    string `json:"stop_id"`
	NewDay    string `json:"new_day"`
	NewTechID string `json:"new_tech_id"`
}

type wireDayStats struct {
	StopCount json.Number `json:"stop_count"`
	TechName  string      `json:"tech_name"`
}

type wireReorg struct {
	Assignments             []wireAssignment        `json:"assignments"`
	DayStats                map[string]wireDayStats `json:"day_stats"`
	Summary                 string                  `json:"summary"`
	EstimatedSavingsMinutes json.Number             `json:"estimated_savings_minutes"`
}

// SuggestPlacement implements planner.Oracle.
func (c *Client) SuggestPlacement(ctx context.Context, loc geo.Point, snap model.Snapshot) (model.PlacementSuggestion, error) {
	var wire wirePlacement
	if err := c.call(ctx, planner.OpPlacement, request{Operation: string(planner.OpPlacement), Location: &loc, Snapshot: snap}, &wire); err != nil {
		return model.PlacementSuggestion{}, err
	}
	day, err := model.ParseDay(wire.Day)
	if err != nil {
		return model.PlacementSuggestion{}, planner.OracleValidationError{Reason: err.Error()}
	}
	nearby := make([]model.NearbyStop, 0, len(wire.NearbyStops))
	for _, n := range wire.NearbyStops {
		meters, err := n.DistanceMeters.Float64()
		if err != nil {
			return model.PlacementSuggestion{}, planner.OracleValidationError{Reason: fmt.Sprintf("distance for stop %q does not parse: %v", n.StopID, err)}
		}
		nearby = append(nearby, model.NearbyStop{
			StopID:            n.StopID,
			ClientLabel:       n.ClientLabel,
			DistanceMeters:    meters,
			FormattedDistance: n.FormattedDistance,
		})
	}
	return model.PlacementSuggestion{
		Day:         day,
		TechID:      wire.TechID,
		TechName:    wire.TechName,
		Reasoning:   wire.Reasoning,
		NearbyStops: nearby,
		Confidence:  model.Confidence(wire.Confidence),
	}, nil
}

// SuggestDrift implements planner.Oracle.
func (c *Client) SuggestDrift(ctx context.Context, snap model.Snapshot) ([]model.OptimizationSuggestion, error) {
	var wire wireDrift
	if err := c.call(ctx, planner.OpDrift, request{Operation: string(planner.OpDrift), Snapshot: snap}, &wire); err != nil {
		return nil, err
	}
	out := make([]model.OptimizationSuggestion, 0, len(wire.Suggestions))
	for _, s := range wire.Suggestions {
		currentDay, err := model.ParseDay(s.CurrentDay)
		if err != nil {
			return nil, planner.OracleValidationError{Reason: err.Error()}
		}
		suggestedDay, err := model.ParseDay(s.SuggestedDay)
		if err != nil {
			return nil, planner.OracleValidationError{Reason: err.Error()}
		}
		savings, err := s.EstimatedSavingsMinutes.Float64()
		if err != nil {
			return nil, planner.OracleValidationError{Reason: fmt.Sprintf("savings for stop %q does not parse: %v", s.StopID, err)}
		}
		out = append(out, model.OptimizationSuggestion{
			StopID:                  s.StopID,
			CurrentDay:              currentDay,
			SuggestedDay:            suggestedDay,
			CurrentTechID:           s.CurrentTechID,
			SuggestedTechID:         s.SuggestedTechID,
			Reasoning:               s.Reasoning,
			EstimatedSavingsMinutes: savings,
		})
	}
	return out, nil
}

// SuggestReorg implements planner.Oracle.
func (c *Client) SuggestReorg(ctx context.Context, snap model.Snapshot) (model.ReorgPlan, error) {
	var wire wireReorg
	if err := c.call(ctx, planner.OpReorg, request{Operation: string(planner.OpReorg), Snapshot: snap}, &wire); err != nil {
		return model.ReorgPlan{}, err
	}
	assignments := make([]model.ReorgAssignment, 0, len(wire.Assignments))
	for _, a := range wire.Assignments {
		day, err := model.ParseDay(a.NewDay)
		if err != nil {
			return model.ReorgPlan{}, planner.OracleValidationError{Reason: err.Error()}
		}
		assignments = append(assignments, model.ReorgAssignment{StopID: a.StopID, NewDay: day, NewTechID: a.NewTechID})
	}
	stats := make(map[string]model.DayStats, len(wire.DayStats))
	for name, ds := range wire.DayStats {
		if _, err := model.ParseDay(name); err != nil {
			return model.ReorgPlan{}, planner.OracleValidationError{Reason: err.Error()}
		}
		count, err := ds.StopCount.Int64()
		if err != nil {
			return model.ReorgPlan{}, planner.OracleValidationError{Reason: fmt.Sprintf("stop count for %s does not parse: %v", name, err)}
		}
		stats[name] = model.DayStats{StopCount: int(count), TechName: ds.TechName}
	}
	savings, err := wire.EstimatedSavingsMinutes.Float64()
	if err != nil {
		return model.ReorgPlan{}, planner.OracleValidationError{Reason: fmt.Sprintf("estimated savings does not parse: %v", err)}
	}
	return model.ReorgPlan{
		Assignments:             assignments,
		DayStats:                stats,
		Summary:                 wire.Summary,
		EstimatedSavingsMinutes: savings,
	}, nil
}

// call issues the single oracle request for a planning invocation.
func (c *Client) call(ctx context.Context, op planner.Operation, payload request, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", planner.ErrOracleUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", planner.ErrOracleUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", planner.ErrOracleUnavailable, op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s: status %d, body: %s", planner.ErrOracleUnavailable, op, resp.StatusCode, b)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: read response: %v", planner.ErrOracleUnavailable, op, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return planner.OracleValidationError{Reason: fmt.Sprintf("malformed %s response: %v", op, err)}
	}
	c.logger.Debugf("oracle %s answered in %s", op, time.Since(start))
	return nil
}
