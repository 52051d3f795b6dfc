package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"fieldroute/config"
	"fieldroute/core/model"
	"fieldroute/core/planner"
	"fieldroute/infra/logger"
	"fieldroute/infra/oracle"
)

// loadSnapshot reads a snapshot JSON file for one-shot planning
// commands.
func loadSnapshot(path string) (model.Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}

// newManager builds a planning manager for one-shot commands, without
// the service's metrics, bus or audit store.
func newManager(cfg *config.Config) (*planner.Manager, error) {
	logg := logger.New("plan-command")
	var oc planner.Oracle
	if cfg.Oracle.Enabled {
		oc = oracle.NewClient(cfg.Oracle, logger.New("oracle"))
	}
	return planner.NewManager(planner.NewDeterministic(cfg.Planner), oc, logg, nil, nil, nil)
}

// printJSON writes the planning result to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
