package metrics

import (
	coremetrics "fieldroute/core/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records planning events in Prometheus metrics.
type PromSink struct {
	plans    *prometheus.CounterVec
	oracle   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPromSink registers planning metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.PlanSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.PlanSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_calls_total",
		Help: "Total number of planning calls",
	}, []string{"operation", "strategy", "outcome"})
	oracle := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_oracle_events_total",
		Help: "Oracle attempts by outcome",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plan_duration_seconds",
		Help:    "Time spent computing a plan",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "strategy"})

	if err := reg.Register(plans); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			plans = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(oracle); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			oracle = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{plans: plans, oracle: oracle, duration: duration}, nil
}

// RecordPlanResult increments the counters for one planning call.
func (s *PromSink) RecordPlanResult(res coremetrics.PlanResult) error {
	s.plans.WithLabelValues(res.Operation, res.Strategy, res.Outcome).Inc()
	s.duration.WithLabelValues(res.Operation, res.Strategy).Observe(res.Duration.Seconds())
	return nil
}

// RecordOracleEvent counts one oracle attempt.
func (s *PromSink) RecordOracleEvent(ev coremetrics.OracleEvent) error {
	s.oracle.WithLabelValues(ev.Operation, ev.Outcome).Inc()
	return nil
}
