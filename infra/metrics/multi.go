package metrics

import (
	"time"

	coremetrics "github.com/kerhervel/parkplan/core/metrics"
)

// MultiSink fans planning events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordPlan(ev coremetrics.PlanEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlan(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordPhase forwards phase timings to the sinks that track them.
func (m *MultiSink) RecordPhase(phase string, d time.Duration) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.PhaseRecorder); ok {
			if err := rec.RecordPhase(phase, d); err != nil {
				return err
			}
		}
	}
	return nil
}
