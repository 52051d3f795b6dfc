package plan

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fieldroute/core/model"
	"fieldroute/core/planner"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	mgr, err := planner.NewManager(planner.NewDeterministic(planner.Config{}), nil, nopLogger{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return NewHandler(mgr, nopLogger{})
}

const placementBody = `{
	"location": {"lat": 40.0, "lng": -75.0},
	"snapshot": {
		"technicians": [{"id": "t1", "display_name": "Tech t1"}],
		"stops": [
			{"id": "m1", "lat": 40.001, "lng": -75.0, "assigned_day": "MONDAY", "assigned_tech_id": "t1"}
		]
	}
}`

func TestPlacementEndpoint(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plan/placement", strings.NewReader(placementBody)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON response, got %q", ct)
	}
	var res model.PlacementSuggestion
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("response does not decode: %v", err)
	}
	if res.Day != model.Monday || res.TechID != "t1" {
		t.Fatalf("unexpected suggestion: %+v", res)
	}
}

func TestPlacementEndpoint_ConfigurationError(t *testing.T) {
	h := newTestHandler(t)
	body := `{"location": {"lat": 40.0, "lng": -75.0}, "snapshot": {"technicians": []}}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plan/placement", strings.NewReader(body)))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestPlacementEndpoint_BadBody(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plan/placement", strings.NewReader("{not json")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDriftEndpoint_EmptyListNotNull(t *testing.T) {
	h := newTestHandler(t)
	body := `{"snapshot": {"technicians": [{"id": "t1"}]}}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plan/drift", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected an empty array, got %q", got)
	}
}

func TestReorgEndpoint(t *testing.T) {
	h := newTestHandler(t)
	body := `{"snapshot": {
		"technicians": [{"id": "t1", "display_name": "Tech t1"}],
		"stops": [
			{"id": "m1", "lat": 40.001, "lng": -75.0, "assigned_day": "MONDAY", "assigned_tech_id": "t1"},
			{"id": "m2", "lat": 40.002, "lng": -75.0, "assigned_day": "MONDAY", "assigned_tech_id": "t1"}
		]
	}}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/plan/reorg", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res model.ReorgPlan
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("response does not decode: %v", err)
	}
	if len(res.Assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(res.Assignments))
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)
	for _, path := range []string{"/api/plan/placement", "/api/plan/drift", "/api/plan/reorg"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405, got %d", path, rec.Code)
		}
	}
}
