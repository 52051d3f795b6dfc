package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	planapi "fieldroute/api/plan"
	"fieldroute/config"
	"fieldroute/core/events"
	coremetrics "fieldroute/core/metrics"
	"fieldroute/core/planner"
	"fieldroute/core/planner/logging"
	"fieldroute/infra/logger"
	"fieldroute/infra/metrics"
	"fieldroute/infra/notify"
	"fieldroute/infra/oracle"
	"fieldroute/internal/eventbus"
)

// Service orchestrates the planning manager, the HTTP API and the
// observability sinks.
type Service struct {
	Manager     *planner.Manager
	bus         eventbus.EventBus
	log         logger.Logger
	store       logging.PlanStore
	notifier    notify.Publisher
	apiAddr     string
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.PlanSink
	promEnabled := cfg.Metrics.PrometheusEnabled
	promPort := cfg.Metrics.PrometheusPort
	if promEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.PlanSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	store, err := newPlanStore(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("plan store: %w", err)
	}

	var oc planner.Oracle
	if cfg.Oracle.Enabled {
		oc = oracle.NewClient(cfg.Oracle, logger.New("oracle"))
	}

	var notifier notify.Publisher
	if cfg.Notify.Enabled {
		pub, err := notify.NewMQTTPublisher(cfg.Notify, logger.New("notify"))
		if err != nil {
			return nil, fmt.Errorf("plan notifier: %w", err)
		}
		notifier = pub
	}

	bus := eventbus.New()
	mgr, err := planner.NewManager(planner.NewDeterministic(cfg.Planner), oc, logg, sink, bus, store)
	if err != nil {
		return nil, fmt.Errorf("planning manager: %w", err)
	}

	return &Service{
		Manager:     mgr,
		bus:         bus,
		log:         logg,
		store:       store,
		notifier:    notifier,
		apiAddr:     cfg.API.Address,
		promEnabled: promEnabled,
		promPort:    promPort,
	}, nil
}

func newPlanStore(cfg config.LoggingConfig) (logging.PlanStore, error) {
	switch cfg.Backend {
	case "sqlite":
		return logging.NewSQLiteStore(cfg.Path)
	default:
		return logging.NewJSONLStore(cfg.Path)
	}
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.notifier != nil {
		sub := s.bus.Subscribe()
		go s.forwardPlans(sub)
	}
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.apiAddr, Handler: planapi.NewHandler(s.Manager, s.log)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
	}()
	s.log.Infof("planning API listening on %s", s.apiAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// forwardPlans pushes completed plans to the notifier.
func (s *Service) forwardPlans(sub <-chan eventbus.Event) {
	for ev := range sub {
		pe, ok := ev.(events.PlanEvent)
		if !ok {
			continue
		}
		if err := s.notifier.PublishPlan(pe); err != nil {
			s.log.Errorf("plan notify: %v", err)
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.notifier != nil {
		s.notifier.Close()
	}
	return s.store.Close()
}
