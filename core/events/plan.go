package events

import "time"

// PlanEvent is published when a planning call completes.
type PlanEvent struct {
	PlanID    string
	Operation string
	Strategy  string // "oracle" or "deterministic"
	Duration  time.Duration
	Warnings  int
	Payload   any
}
