package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fieldroute/core/geo"
	"fieldroute/core/model"
	"fieldroute/core/planner"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func testSnapshot() model.Snapshot {
	return model.Snapshot{
		Technicians: []model.Technician{{ID: "t1", DisplayName: "Tech t1"}},
		Stops: []model.Stop{
			{ID: "m1", Lat: 40.001, Lng: -75.0, AssignedDay: model.Monday, AssignedTechID: "t1"},
		},
	}
}

func serveJSON(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("expected a request id header")
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("request body does not decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSuggestPlacement_ValidResponse(t *testing.T) {
	srv := serveJSON(t, `{
		"day": "monday",
		"tech_id": "t1",
		"tech_name": "Tech t1",
		"reasoning": "dense cluster",
		"confidence": "HIGH",
		"nearby_stops": [{"stop_id": "m1", "distance_meters": "120.5", "formatted_distance": "395 ft"}]
	}`)
	c := NewClient(Config{Enabled: true, URL: srv.URL}, nopLogger{})

	got, err := c.SuggestPlacement(context.Background(), geo.Point{Lat: 40.0, Lng: -75.0}, testSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day != model.Monday {
		t.Fatalf("expected MONDAY, got %s", got.Day)
	}
	if len(got.NearbyStops) != 1 || got.NearbyStops[0].DistanceMeters != 120.5 {
		t.Fatalf("quoted distance should parse, got %+v", got.NearbyStops)
	}
}

func TestSuggestPlacement_InventedDayFailsClosed(t *testing.T) {
	srv := serveJSON(t, `{"day": "SUNDAY", "tech_id": "t1", "confidence": "HIGH"}`)
	c := NewClient(Config{Enabled: true, URL: srv.URL}, nopLogger{})

	_, err := c.SuggestPlacement(context.Background(), geo.Point{Lat: 40.0, Lng: -75.0}, testSnapshot())
	var verr planner.OracleValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for SUNDAY, got %v", err)
	}
}

func TestSuggestDrift_UnparsableSavingsFailsClosed(t *testing.T) {
	srv := serveJSON(t, `{"suggestions": [{
		"stop_id": "m1",
		"current_day": "MONDAY",
		"suggested_day": "TUESDAY",
		"suggested_tech_id": "t1",
		"estimated_savings_minutes": "a few"
	}]}`)
	c := NewClient(Config{Enabled: true, URL: srv.URL}, nopLogger{})

	_, err := c.SuggestDrift(context.Background(), testSnapshot())
	var verr planner.OracleValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSuggestReorg_ValidResponse(t *testing.T) {
	srv := serveJSON(t, `{
		"assignments": [{"stop_id": "m1", "new_day": "TUESDAY", "new_tech_id": "t1"}],
		"day_stats": {"TUESDAY": {"stop_count": "1", "tech_name": "Tech t1"}},
		"summary": "moved one stop",
		"estimated_savings_minutes": 4.5
	}`)
	c := NewClient(Config{Enabled: true, URL: srv.URL}, nopLogger{})

	got, err := c.SuggestReorg(context.Background(), testSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Assignments) != 1 || got.Assignments[0].NewDay != model.Tuesday {
		t.Fatalf("unexpected assignments: %+v", got.Assignments)
	}
	if got.DayStats["TUESDAY"].StopCount != 1 {
		t.Fatalf("quoted stop count should parse, got %+v", got.DayStats)
	}
	if got.EstimatedSavingsMinutes != 4.5 {
		t.Fatalf("unexpected savings: %f", got.EstimatedSavingsMinutes)
	}
}

func TestCall_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Config{Enabled: true, URL: srv.URL}, nopLogger{})

	_, err := c.SuggestDrift(context.Background(), testSnapshot())
	if !errors.Is(err, planner.ErrOracleUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestCall_ConnectionRefusedIsUnavailable(t *testing.T) {
	c := NewClient(Config{Enabled: true, URL: "http://127.0.0.1:1", TimeoutSeconds: 1}, nopLogger{})
	_, err := c.SuggestDrift(context.Background(), testSnapshot())
	if !errors.Is(err, planner.ErrOracleUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestCall_MalformedBodyIsValidationError(t *testing.T) {
	srv := serveJSON(t, `I think Tuesday would work best for this stop.`)
	c := NewClient(Config{Enabled: true, URL: srv.URL}, nopLogger{})

	_, err := c.SuggestReorg(context.Background(), testSnapshot())
	var verr planner.OracleValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// End to end: an invented day from the oracle must collapse to the
// deterministic planner without surfacing an error.
func TestManagerFallsBackOnOracleSunday(t *testing.T) {
	srv := serveJSON(t, `{"day": "SUNDAY", "tech_id": "t1", "confidence": "HIGH"}`)
	c := NewClient(Config{Enabled: true, URL: srv.URL}, nopLogger{})

	mgr, err := planner.NewManager(planner.NewDeterministic(planner.Config{}), c, nopLogger{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	got, err := mgr.PlanPlacement(context.Background(), geo.Point{Lat: 40.0, Lng: -75.0}, testSnapshot())
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if got.Day != model.Monday {
		t.Fatalf("expected the deterministic MONDAY answer, got %s", got.Day)
	}
}
