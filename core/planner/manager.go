package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fieldroute/core/events"
	"fieldroute/core/geo"
	"fieldroute/core/logger"
	"fieldroute/core/metrics"
	"fieldroute/core/model"
	"fieldroute/core/planner/logging"
	"fieldroute/internal/eventbus"
)

// Strategy names used in events, metrics and audit records.
const (
	StrategyOracle        = "oracle"
	StrategyDeterministic = "deterministic"
)

// Manager runs planning calls, trying the configured oracle first and
// collapsing to the deterministic planner on any oracle failure.
// Callers never observe oracle failures as errors. The manager holds no
// mutable planning state and is safe for concurrent use.
type Manager struct {
	planner Deterministic
	oracle  Oracle
	logger  logger.Logger
	metrics metrics.PlanSink
	bus     eventbus.EventBus
	store   logging.PlanStore
}

// NewManager creates a manager. The oracle, sink, bus and store may be
// nil, in which case the corresponding concern is disabled.
func NewManager(det Deterministic, oracle Oracle, log logger.Logger, sink metrics.PlanSink, bus eventbus.EventBus, store logging.PlanStore) (*Manager, error) {
	if log == nil {
		return nil, fmt.Errorf("planner: nil logger provided to NewManager")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if store == nil {
		store = logging.NopStore{}
	}
	return &Manager{planner: det, oracle: oracle, logger: log, metrics: sink, bus: bus, store: store}, nil
}

// PlanPlacement proposes a day and technician for a new stop location.
func (m *Manager) PlanPlacement(ctx context.Context, loc geo.Point, snap model.Snapshot) (model.PlacementSuggestion, error) {
	start := time.Now()
	if err := checkSnapshot(snap); err != nil {
		return model.PlacementSuggestion{}, err
	}

	if m.oracle != nil {
		res, err := m.tryOraclePlacement(ctx, loc, snap)
		if err == nil {
			m.record(ctx, OpPlacement, StrategyOracle, snap, len(res.Warnings), res, start)
			return res, nil
		}
	}

	res, err := m.planner.PlanPlacement(loc, snap)
	if err != nil {
		m.recordError(OpPlacement, snap, start)
		return model.PlacementSuggestion{}, err
	}
	m.record(ctx, OpPlacement, StrategyDeterministic, snap, len(res.Warnings), res, start)
	return res, nil
}

// PlanDrift scans the schedule for beneficial single-stop moves. It
// never errors on valid input; an empty list means no suggestions.
func (m *Manager) PlanDrift(ctx context.Context, snap model.Snapshot) []model.OptimizationSuggestion {
	start := time.Now()
	if m.oracle != nil {
		res, err := m.tryOracleDrift(ctx, snap)
		if err == nil {
			m.record(ctx, OpDrift, StrategyOracle, snap, 0, res, start)
			return res
		}
	}
	res := m.planner.PlanDrift(snap)
	m.record(ctx, OpDrift, StrategyDeterministic, snap, 0, res, start)
	return res
}

// PlanReorg globally re-clusters all stops across days and technicians.
func (m *Manager) PlanReorg(ctx context.Context, snap model.Snapshot) (model.ReorgPlan, error) {
	start := time.Now()
	if err := checkSnapshot(snap); err != nil {
		return model.ReorgPlan{}, err
	}

	if m.oracle != nil {
		res, err := m.tryOracleReorg(ctx, snap)
		if err == nil {
			m.record(ctx, OpReorg, StrategyOracle, snap, len(res.Warnings), res, start)
			return res, nil
		}
	}

	res, err := m.planner.PlanReorg(snap)
	if err != nil {
		m.recordError(OpReorg, snap, start)
		return model.ReorgPlan{}, err
	}
	m.record(ctx, OpReorg, StrategyDeterministic, snap, len(res.Warnings), res, start)
	return res, nil
}

func checkSnapshot(snap model.Snapshot) error {
	if len(snap.AvailableDays()) == 0 {
		return ConfigurationError{Reason: "no service days available"}
	}
	if len(snap.Technicians) == 0 {
		return ConfigurationError{Reason: "no technicians available"}
	}
	return nil
}

func (m *Manager) tryOraclePlacement(ctx context.Context, loc geo.Point, snap model.Snapshot) (model.PlacementSuggestion, error) {
	m.strategyEvent(OpPlacement, "oracle_attempt", nil)
	res, err := m.oracle.SuggestPlacement(ctx, loc, snap)
	if err == nil {
		err = validatePlacement(res, snap)
	}
	if err != nil {
		m.oracleRejected(OpPlacement, err)
		return model.PlacementSuggestion{}, err
	}
	m.oracleAccepted(OpPlacement)
	// Data-quality warnings are computed from the snapshot, not trusted
	// from the oracle, so they reach the caller on either path.
	_, res.Warnings = snap.ValidStops()
	return res, nil
}

func (m *Manager) tryOracleDrift(ctx context.Context, snap model.Snapshot) ([]model.OptimizationSuggestion, error) {
	m.strategyEvent(OpDrift, "oracle_attempt", nil)
	res, err := m.oracle.SuggestDrift(ctx, snap)
	if err == nil {
		err = validateDrift(res, snap)
	}
	if err != nil {
		m.oracleRejected(OpDrift, err)
		return nil, err
	}
	m.oracleAccepted(OpDrift)
	return res, nil
}

func (m *Manager) tryOracleReorg(ctx context.Context, snap model.Snapshot) (model.ReorgPlan, error) {
	m.strategyEvent(OpReorg, "oracle_attempt", nil)
	res, err := m.oracle.SuggestReorg(ctx, snap)
	if err == nil {
		err = validateReorg(res, snap)
	}
	if err != nil {
		m.oracleRejected(OpReorg, err)
		return model.ReorgPlan{}, err
	}
	m.oracleAccepted(OpReorg)
	_, res.Warnings = snap.ValidStops()
	return res, nil
}

func (m *Manager) oracleAccepted(op Operation) {
	if rec, ok := m.metrics.(metrics.OracleRecorder); ok {
		if err := rec.RecordOracleEvent(metrics.OracleEvent{Operation: string(op), Outcome: "accepted", Time: time.Now()}); err != nil {
			m.logger.Errorf("oracle metrics error: %v", err)
		}
	}
}

func (m *Manager) oracleRejected(op Operation, err error) {
	outcome := "unavailable"
	if _, ok := err.(OracleValidationError); ok {
		outcome = "rejected"
		m.logger.Warnf("oracle %s candidate rejected: %v", op, err)
	} else {
		m.logger.Warnf("oracle %s unavailable: %v", op, err)
	}
	m.strategyEvent(op, "deterministic_fallback", err)
	if rec, ok := m.metrics.(metrics.OracleRecorder); ok {
		if rerr := rec.RecordOracleEvent(metrics.OracleEvent{Operation: string(op), Outcome: outcome, Time: time.Now()}); rerr != nil {
			m.logger.Errorf("oracle metrics error: %v", rerr)
		}
	}
}

func (m *Manager) strategyEvent(op Operation, action string, err error) {
	if m.bus != nil {
		m.bus.Publish(events.StrategyEvent{Operation: string(op), Action: action, Err: err})
	}
}

func (m *Manager) record(ctx context.Context, op Operation, strategy string, snap model.Snapshot, warnings int, payload any, start time.Time) {
	planID := uuid.NewString()
	dur := time.Since(start)
	if err := m.metrics.RecordPlanResult(metrics.PlanResult{
		PlanID:    planID,
		Operation: string(op),
		Strategy:  strategy,
		Outcome:   "ok",
		Duration:  dur,
		Stops:     len(snap.Stops),
		Warnings:  warnings,
		Time:      time.Now(),
	}); err != nil {
		m.logger.Errorf("plan metrics error: %v", err)
	}
	if err := m.store.Append(ctx, logging.PlanRecord{
		Timestamp: time.Now(),
		PlanID:    planID,
		Operation: string(op),
		Strategy:  strategy,
		Stops:     len(snap.Stops),
		Warnings:  warnings,
		Result:    payload,
	}); err != nil {
		m.logger.Errorf("plan store error: %v", err)
	}
	if m.bus != nil {
		m.bus.Publish(events.PlanEvent{
			PlanID:    planID,
			Operation: string(op),
			Strategy:  strategy,
			Duration:  dur,
			Warnings:  warnings,
			Payload:   payload,
		})
	}
	m.logger.Debugw("plan completed", map[string]any{
		"plan_id":   planID,
		"operation": string(op),
		"strategy":  strategy,
		"stops":     len(snap.Stops),
		"warnings":  warnings,
		"took":      dur.String(),
	})
}

func (m *Manager) recordError(op Operation, snap model.Snapshot, start time.Time) {
	if err := m.metrics.RecordPlanResult(metrics.PlanResult{
		PlanID:    uuid.NewString(),
		Operation: string(op),
		Strategy:  StrategyDeterministic,
		Outcome:   "error",
		Duration:  time.Since(start),
		Stops:     len(snap.Stops),
		Time:      time.Now(),
	}); err != nil {
		m.logger.Errorf("plan metrics error: %v", err)
	}
}
