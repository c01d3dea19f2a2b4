package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kerhervel/parkplan/core/metrics"
)

func TestPromSink_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	ev := coremetrics.PlanEvent{
		PlanID:           "p1",
		Outcome:          "ok",
		Unscheduled:      2,
		TotalWaitMinutes: 95,
		BuildTime:        20 * time.Millisecond,
	}
	require.NoError(t, sink.RecordPlan(ev))

	rec, ok := sink.(coremetrics.PhaseRecorder)
	require.True(t, ok, "prom sink should record phases")
	require.NoError(t, rec.RecordPhase("slot-fill", 5*time.Millisecond))

	fams, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(fams))
	for _, f := range fams {
		names[f.GetName()] = true
	}
	for _, want := range []string{"plan_requests_total", "plan_unscheduled_rides_total", "plan_build_seconds", "plan_total_wait_minutes", "plan_phase_seconds"} {
		require.True(t, names[want], "missing metric %s", want)
	}
}

func TestPromSink_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err, "re-registration must be tolerated")
}

func TestMultiSink_Forwards(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	multi := NewMultiSink(coremetrics.NopSink{}, prom)
	require.NoError(t, multi.RecordPlan(coremetrics.PlanEvent{Outcome: "ok"}))
	require.NoError(t, multi.RecordPhase("anchors", time.Millisecond))
}
