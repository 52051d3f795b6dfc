package planner

import (
	"context"
	"errors"
	"testing"

	"fieldroute/core/events"
	"fieldroute/core/geo"
	"fieldroute/core/model"
	"fieldroute/internal/eventbus"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

type stubOracle struct {
	placement model.PlacementSuggestion
	drift     []model.OptimizationSuggestion
	reorg     model.ReorgPlan
	err       error
	calls     int
}

func (o *stubOracle) SuggestPlacement(ctx context.Context, loc geo.Point, snap model.Snapshot) (model.PlacementSuggestion, error) {
	o.calls++
	return o.placement, o.err
}

func (o *stubOracle) SuggestDrift(ctx context.Context, snap model.Snapshot) ([]model.OptimizationSuggestion, error) {
	o.calls++
	return o.drift, o.err
}

func (o *stubOracle) SuggestReorg(ctx context.Context, snap model.Snapshot) (model.ReorgPlan, error) {
	o.calls++
	return o.reorg, o.err
}

func newTestManager(t *testing.T, oracle Oracle, bus eventbus.EventBus) *Manager {
	t.Helper()
	m, err := NewManager(NewDeterministic(Config{}), oracle, nopLogger{}, nil, bus, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func managerSnapshot() model.Snapshot {
	return model.Snapshot{
		Technicians: techs("t1", "t2"),
		Stops: []model.Stop{
			stopAt("m1", model.Monday, "t1", 0.001),
			stopAt("m2", model.Monday, "t1", 0.002),
			stopAt("m3", model.Monday, "t1", 0.003),
		},
	}
}

func TestManager_PlacementUsesValidOracleResult(t *testing.T) {
	oracle := &stubOracle{placement: model.PlacementSuggestion{
		Day:        model.Friday,
		TechID:     "t2",
		Confidence: model.ConfidenceMedium,
		Reasoning:  "route continuity",
	}}
	m := newTestManager(t, oracle, nil)

	got, err := m.PlanPlacement(context.Background(), geo.Point{Lat: 40.0, Lng: -75.0}, managerSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day != model.Friday || got.TechID != "t2" {
		t.Fatalf("expected the oracle result, got %+v", got)
	}
	if oracle.calls != 1 {
		t.Fatalf("expected one oracle call, got %d", oracle.calls)
	}
}

func TestManager_OracleResultCarriesDataQualityWarnings(t *testing.T) {
	snap := managerSnapshot()
	bad := stopAt("bad", model.Tuesday, "t1", 0)
	bad.Lat, bad.Lng = 0, 0
	snap.Stops = append(snap.Stops, bad)

	oracle := &stubOracle{placement: model.PlacementSuggestion{
		Day:        model.Monday,
		TechID:     "t1",
		Confidence: model.ConfidenceHigh,
	}}
	m := newTestManager(t, oracle, nil)

	got, err := m.PlanPlacement(context.Background(), geo.Point{Lat: 40.0, Lng: -75.0}, snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day != model.Monday {
		t.Fatalf("expected the oracle result, got %s", got.Day)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].StopID != "bad" {
		t.Fatalf("invalid-coordinate stop must be reported on the oracle path, got %v", got.Warnings)
	}
}

func TestManager_OracleReorgCarriesDataQualityWarnings(t *testing.T) {
	snap := managerSnapshot()
	bad := stopAt("bad", model.Tuesday, "t1", 0)
	bad.Lat, bad.Lng = 0, 0
	snap.Stops = append(snap.Stops, bad)

	oracle := &stubOracle{reorg: model.ReorgPlan{
		Assignments: []model.ReorgAssignment{
			{StopID: "m1", NewDay: model.Monday, NewTechID: "t1"},
			{StopID: "m2", NewDay: model.Monday, NewTechID: "t1"},
			{StopID: "m3", NewDay: model.Monday, NewTechID: "t1"},
			{StopID: "bad", NewDay: model.Tuesday, NewTechID: "t1"},
		},
	}}
	m := newTestManager(t, oracle, nil)

	got, err := m.PlanReorg(context.Background(), snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Assignments) != 4 {
		t.Fatalf("expected the oracle plan, got %d assignments", len(got.Assignments))
	}
	if len(got.Warnings) != 1 || got.Warnings[0].StopID != "bad" {
		t.Fatalf("invalid-coordinate stop must be reported on the oracle path, got %v", got.Warnings)
	}
}

func TestManager_PlacementFallsBackOnInvalidDay(t *testing.T) {
	// Saturday is blacked out; the oracle still proposes it.
	snap := managerSnapshot()
	snap.BlackoutDays = []model.Day{model.Saturday}
	oracle := &stubOracle{placement: model.PlacementSuggestion{
		Day:        model.Saturday,
		TechID:     "t1",
		Confidence: model.ConfidenceHigh,
	}}
	m := newTestManager(t, oracle, nil)

	got, err := m.PlanPlacement(context.Background(), geo.Point{Lat: 40.0, Lng: -75.0}, snap)
	if err != nil {
		t.Fatalf("fallback must not surface oracle failures: %v", err)
	}
	if got.Day != model.Monday {
		t.Fatalf("expected the deterministic answer after rejection, got %s", got.Day)
	}
}

func TestManager_PlacementFallsBackWhenOracleUnavailable(t *testing.T) {
	oracle := &stubOracle{err: ErrOracleUnavailable}
	m := newTestManager(t, oracle, nil)

	got, err := m.PlanPlacement(context.Background(), geo.Point{Lat: 40.0, Lng: -75.0}, managerSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day != model.Monday || got.Confidence != model.ConfidenceHigh {
		t.Fatalf("expected the deterministic answer, got %+v", got)
	}
}

func TestManager_FallbackEmitsStrategyEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	oracle := &stubOracle{err: errors.New("dial tcp: connection refused")}
	m := newTestManager(t, oracle, bus)
	if _, err := m.PlanPlacement(context.Background(), geo.Point{Lat: 40.0, Lng: -75.0}, managerSnapshot()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var actions []string
	for len(actions) < 2 {
		e := <-sub
		if se, ok := e.(events.StrategyEvent); ok {
			actions = append(actions, se.Action)
		}
	}
	if actions[0] != "oracle_attempt" || actions[1] != "deterministic_fallback" {
		t.Fatalf("unexpected strategy actions: %v", actions)
	}
}

func TestManager_ConfigurationErrorSkipsOracle(t *testing.T) {
	oracle := &stubOracle{}
	m := newTestManager(t, oracle, nil)

	_, err := m.PlanPlacement(context.Background(), geo.Point{Lat: 40.0, Lng: -75.0}, model.Snapshot{})
	if !IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if oracle.calls != 0 {
		t.Fatalf("oracle must not run on an unusable snapshot")
	}
}

func TestManager_DriftNeverErrors(t *testing.T) {
	oracle := &stubOracle{err: ErrOracleUnavailable}
	m := newTestManager(t, oracle, nil)

	got := m.PlanDrift(context.Background(), model.Snapshot{})
	if len(got) != 0 {
		t.Fatalf("expected no suggestions for an empty snapshot, got %v", got)
	}
}

func TestManager_ReorgRejectsIncompleteOraclePlan(t *testing.T) {
	snap := managerSnapshot()
	oracle := &stubOracle{reorg: model.ReorgPlan{
		// Covers only one of three stops.
		Assignments: []model.ReorgAssignment{{StopID: "m1", NewDay: model.Monday, NewTechID: "t1"}},
	}}
	m := newTestManager(t, oracle, nil)

	got, err := m.PlanReorg(context.Background(), snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Assignments) != len(snap.Stops) {
		t.Fatalf("expected a complete deterministic plan, got %d assignments", len(got.Assignments))
	}
}

func TestManager_NilLoggerRejected(t *testing.T) {
	if _, err := NewManager(NewDeterministic(Config{}), nil, nil, nil, nil, nil); err == nil {
		t.Fatalf("expected an error for a nil logger")
	}
}
