package metrics

import "time"

// PlanResult represents one planning call to be recorded.
type PlanResult struct {
	PlanID    string
	Operation string
	Strategy  string // "oracle" or "deterministic"
	Outcome   string // "ok" or "error"
	Duration  time.Duration
	Stops     int
	Warnings  int
	Time      time.Time
}

// PlanSink records planning results for observability purposes.
type PlanSink interface {
	RecordPlanResult(res PlanResult) error
}

// OracleEvent captures one oracle attempt and its fate.
type OracleEvent struct {
	Operation string
	Outcome   string // "accepted", "unavailable" or "rejected"
	Time      time.Time
}

// OracleRecorder records oracle attempts. Sinks may optionally
// implement it in addition to PlanSink.
type OracleRecorder interface {
	RecordOracleEvent(ev OracleEvent) error
}

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// NopSink implements PlanSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlanResult(PlanResult) error   { return nil }
func (NopSink) RecordOracleEvent(OracleEvent) error { return nil }
