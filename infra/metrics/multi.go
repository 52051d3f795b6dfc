package metrics

import coremetrics "fieldroute/core/metrics"

// MultiSink fans planning results out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.PlanSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.PlanSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlanResult forwards the record to all sinks, returning the
// first error encountered.
func (m *MultiSink) RecordPlanResult(res coremetrics.PlanResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlanResult(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordOracleEvent forwards oracle events to sinks that record them.
func (m *MultiSink) RecordOracleEvent(ev coremetrics.OracleEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.OracleRecorder); ok {
			if err := rec.RecordOracleEvent(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
