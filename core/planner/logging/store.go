package logging

import (
	"context"
	"time"
)

// PlanRecord captures one planning decision for the audit trail. The
// engine itself stays stateless; records are appended service-side
// after a call completes.
type PlanRecord struct {
	Timestamp time.Time `json:"timestamp"`
	PlanID    string    `json:"plan_id"`
	Operation string    `json:"operation"`
	Strategy  string    `json:"strategy"`
	Stops     int       `json:"stops"`
	Warnings  int       `json:"warnings"`
	Result    any       `json:"result,omitempty"`
}

// PlanQuery defines filters for retrieving records. Strategy narrows to
// oracle or deterministic plans, useful when auditing fallback rates.
type PlanQuery struct {
	Start     time.Time
	End       time.Time
	Operation string
	Strategy  string
}

// PlanStore persists PlanRecords and supports querying.
type PlanStore interface {
	Append(ctx context.Context, rec PlanRecord) error
	Query(ctx context.Context, q PlanQuery) ([]PlanRecord, error)
	Close() error
}

// NopStore discards all records.
type NopStore struct{}

func (NopStore) Append(context.Context, PlanRecord) error               { return nil }
func (NopStore) Query(context.Context, PlanQuery) ([]PlanRecord, error) { return nil, nil }
func (NopStore) Close() error                                           { return nil }
