// Package app assembles the planning service from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	planapi "github.com/kerhervel/parkplan/api/plan"
	"github.com/kerhervel/parkplan/config"
	coremetrics "github.com/kerhervel/parkplan/core/metrics"
	"github.com/kerhervel/parkplan/core/model"
	"github.com/kerhervel/parkplan/core/planlog"
	"github.com/kerhervel/parkplan/core/planner"
	"github.com/kerhervel/parkplan/core/refdata"
	"github.com/kerhervel/parkplan/infra/logger"
	"github.com/kerhervel/parkplan/infra/metrics"
	"github.com/kerhervel/parkplan/infra/mqtt"
	"github.com/kerhervel/parkplan/infra/snapshots"
	"github.com/kerhervel/parkplan/internal/eventbus"
)

// Service orchestrates the planner, snapshot source and observability sinks
// behind the HTTP API.
type Service struct {
	Planner *planner.Planner

	cfg       *config.Config
	source    snapshots.Source
	store     planlog.Store
	sink      coremetrics.MetricsSink
	publisher mqtt.Publisher
	bus       eventbus.EventBus
	phases    *eventbus.TypedBus[planner.PhaseEvent]
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Console); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	logg := logger.New("service")

	tables := refdata.Defaults()
	if cfg.RefData.Path != "" {
		var err error
		tables, err = refdata.Load(cfg.RefData.Path)
		if err != nil {
			return nil, fmt.Errorf("ref data: %w", err)
		}
	}

	source, err := snapshots.NewFileSource(cfg.Snapshots)
	if err != nil {
		return nil, fmt.Errorf("snapshot source: %w", err)
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var store planlog.Store
	if cfg.PlanLog.Enabled {
		store, err = planlog.Open(cfg.PlanLog)
		if err != nil {
			return nil, fmt.Errorf("plan log: %w", err)
		}
	}

	var publisher mqtt.Publisher
	if cfg.MQTT.Enabled {
		publisher, err = mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}

	bus := eventbus.New()
	pl, err := planner.New(cfg.Planner, tables, logger.New("planner"),
		planner.WithBus(bus),
		planner.WithPredictionConfig(cfg.Prediction),
	)
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}

	return &Service{
		Planner:   pl,
		cfg:       cfg,
		source:    source,
		store:     store,
		sink:      sink,
		publisher: publisher,
		bus:       bus,
		phases:    eventbus.NewTyped[planner.PhaseEvent](),
		log:       logg,
	}, nil
}

// Run starts the HTTP API and metric exporters, blocking until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.forwardPhases(ctx)
	go s.recordPhases(ctx)

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	timeout := time.Duration(s.cfg.API.RequestTimeoutSeconds) * time.Second
	planapi.NewHandler(s, s.source, s.store, timeout).Register(mux)
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()

	s.log.Infof("planning API listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Plan runs one planning request and records its outcome in every configured
// sink. It satisfies the API handler's Planner interface.
func (s *Service) Plan(ctx context.Context, input model.PlanInput, snap model.Snapshot) (*model.TripPlan, error) {
	start := time.Now()
	tp, err := s.Planner.Plan(ctx, input, snap)
	s.record(ctx, input, tp, err, time.Since(start))
	return tp, err
}

func (s *Service) record(ctx context.Context, input model.PlanInput, tp *model.TripPlan, planErr error, buildTime time.Duration) {
	ev := coremetrics.PlanEvent{
		Parks:     input.ParkIDs,
		Outcome:   outcome(planErr),
		BuildTime: buildTime,
		Time:      time.Now(),
	}
	if tp != nil {
		ev.PlanID = tp.ID
		ev.Days = len(tp.Days)
		for _, day := range tp.Days {
			ev.ItemsPlaced += len(day.Items)
			ev.TotalWaitMinutes += day.TotalWaitMinutes
			ev.TotalWalkMinutes += day.TotalWalkingMinutes
			for _, it := range day.Items {
				if it.Estimated {
					ev.EstimatedItems++
				}
			}
		}
		ev.Unscheduled = len(tp.Unscheduled)
	}
	if err := s.sink.RecordPlan(ev); err != nil {
		s.log.Warnf("record plan event: %v", err)
	}
	if planErr != nil || tp == nil {
		return
	}

	rec := planlog.PlanRecord{
		Timestamp:        ev.Time,
		PlanID:           tp.ID,
		Parks:            input.ParkIDs,
		Dates:            input.VisitDates,
		WishlistSize:     len(input.FavoriteRideIDs),
		ItemsPlaced:      ev.ItemsPlaced,
		TotalWaitMinutes: ev.TotalWaitMinutes,
		TotalWalkMinutes: ev.TotalWalkMinutes,
		Outcome:          ev.Outcome,
	}
	for _, u := range tp.Unscheduled {
		rec.Unscheduled = append(rec.Unscheduled, u.RideID)
	}
	if s.store != nil {
		if err := s.store.Append(ctx, rec); err != nil {
			s.log.Warnf("append plan log: %v", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Announce(rec); err != nil {
			s.log.Warnf("announce plan: %v", err)
		}
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return "validation_error"
	}
	var cerr *model.ScheduleConflictError
	if errors.As(err, &cerr) {
		return "conflict"
	}
	return "error"
}

// forwardPhases narrows planner phase events from the shared bus onto the
// typed phase bus.
func (s *Service) forwardPhases(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case e, open := <-sub:
			if !open {
				return
			}
			if pe, ok := e.(planner.PhaseEvent); ok {
				s.phases.Publish(pe)
			}
		}
	}
}

// recordPhases feeds phase timings into phase-aware sinks.
func (s *Service) recordPhases(ctx context.Context) {
	rec, ok := s.sink.(coremetrics.PhaseRecorder)
	if !ok {
		return
	}
	sub := s.phases.Subscribe()
	defer s.phases.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case pe, open := <-sub:
			if !open {
				return
			}
			if err := rec.RecordPhase(pe.Phase, pe.Duration); err != nil {
				s.log.Debugf("record phase: %v", err)
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	s.phases.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	if closer, ok := s.sink.(interface{ Close() }); ok {
		closer.Close()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
