package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kerhervel/parkplan/core/metrics"
)

// PromSink records planning events in Prometheus metrics.
type PromSink struct {
	plans       *prometheus.CounterVec
	unscheduled prometheus.Counter
	buildTime   prometheus.Histogram
	waitMinutes prometheus.Histogram
	phases      *prometheus.HistogramVec
}

// NewPromSink registers planning metrics on the default Prometheus
// registerer. The exposition server is started separately on
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_requests_total",
		Help: "Total number of planning requests by outcome",
	}, []string{"outcome"})
	unscheduled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plan_unscheduled_rides_total",
		Help: "Total number of wishlist rides reported unscheduled",
	})
	buildTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plan_build_seconds",
		Help:    "Time spent building a trip plan",
		Buckets: prometheus.DefBuckets,
	})
	waitMinutes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plan_total_wait_minutes",
		Help:    "Predicted total queue wait per produced plan",
		Buckets: []float64{30, 60, 120, 180, 240, 360, 480},
	})
	phases := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plan_phase_seconds",
		Help:    "Time spent per planning pipeline phase",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	s := &PromSink{plans: plans, unscheduled: unscheduled, buildTime: buildTime, waitMinutes: waitMinutes, phases: phases}
	for _, c := range []prometheus.Collector{plans, unscheduled, buildTime, waitMinutes, phases} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordPlan implements MetricsSink.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.plans.WithLabelValues(ev.Outcome).Inc()
	s.unscheduled.Add(float64(ev.Unscheduled))
	s.buildTime.Observe(ev.BuildTime.Seconds())
	if ev.Outcome == "ok" {
		s.waitMinutes.Observe(float64(ev.TotalWaitMinutes))
	}
	return nil
}

// RecordPhase implements PhaseRecorder.
func (s *PromSink) RecordPhase(phase string, d time.Duration) error {
	s.phases.WithLabelValues(phase).Observe(d.Seconds())
	return nil
}
