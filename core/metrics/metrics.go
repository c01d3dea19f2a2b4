package metrics

import "time"

// PlanEvent captures one completed planning request for observability.
type PlanEvent struct {
	PlanID           string
	Parks            []string
	Days             int
	ItemsPlaced      int
	Unscheduled      int
	TotalWaitMinutes int
	TotalWalkMinutes int
	EstimatedItems   int
	Outcome          string // "ok", "validation_error", "conflict", "error"
	BuildTime        time.Duration
	Time             time.Time
}

// MetricsSink records planning outcomes.
type MetricsSink interface {
	RecordPlan(ev PlanEvent) error
}

// PhaseRecorder is implemented by sinks that also track per-phase timings of
// the planning pipeline.
type PhaseRecorder interface {
	RecordPhase(phase string, d time.Duration) error
}

// NopSink discards all events.
type NopSink struct{}

// RecordPlan implements MetricsSink.
func (NopSink) RecordPlan(PlanEvent) error { return nil }

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
