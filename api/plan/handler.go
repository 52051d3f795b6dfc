package plan

import (
	"encoding/json"
	"net/http"

	"fieldroute/core/geo"
	"fieldroute/core/logger"
	"fieldroute/core/model"
	"fieldroute/core/planner"
)

// placementRequest is the body of POST /api/plan/placement.
type placementRequest struct {
	Location geo.Point      `json:"location"`
	Snapshot model.Snapshot `json:"snapshot"`
}

// snapshotRequest is the body of the drift and reorg endpoints.
type snapshotRequest struct {
	Snapshot model.Snapshot `json:"snapshot"`
}

// NewHandler returns an HTTP handler exposing the three planning
// operations. The engine stays pure: handlers only decode a snapshot,
// invoke the manager and encode the result.
func NewHandler(mgr *planner.Manager, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/plan/placement", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req placementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		res, err := mgr.PlanPlacement(r.Context(), req.Location, req.Snapshot)
		if err != nil {
			writePlanError(w, log, err)
			return
		}
		writeJSON(w, log, res)
	})
	mux.HandleFunc("/api/plan/drift", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req snapshotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		res := mgr.PlanDrift(r.Context(), req.Snapshot)
		if res == nil {
			res = []model.OptimizationSuggestion{}
		}
		writeJSON(w, log, res)
	})
	mux.HandleFunc("/api/plan/reorg", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req snapshotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		res, err := mgr.PlanReorg(r.Context(), req.Snapshot)
		if err != nil {
			writePlanError(w, log, err)
			return
		}
		writeJSON(w, log, res)
	})
	return mux
}

func writePlanError(w http.ResponseWriter, log logger.Logger, err error) {
	if planner.IsConfigurationError(err) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	log.Errorf("plan handler: %v", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, log logger.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("plan handler encode: %v", err)
	}
}
