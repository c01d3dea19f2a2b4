package prediction

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kerhervel/parkplan/core/model"
)

// Engine supplies a predicted wait curve per ride id.
type Engine interface {
	// Curve returns the wait curve for the ride, and whether one is known.
	Curve(rideID string) (model.WaitCurve, bool)
}

// Config tunes the fallback behaviour for missing prediction data.
type Config struct {
	// SlotMinutes is the sampling interval of generated fallback curves.
	SlotMinutes int `json:"slot_minutes"`
	// DefaultWaitMinutes applies when a category has no observed data at all.
	DefaultWaitMinutes int `json:"default_wait_minutes"`
	// MinCoverage is the fraction of the operating window a curve must span
	// to be considered complete; shorter curves are treated as partial.
	MinCoverage float64 `json:"min_coverage"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.SlotMinutes <= 0 {
		c.SlotMinutes = 30
	}
	if c.DefaultWaitMinutes <= 0 {
		c.DefaultWaitMinutes = 20
	}
	if c.MinCoverage <= 0 {
		c.MinCoverage = 0.5
	}
}

// SnapshotEngine serves curves straight from an immutable snapshot.
type SnapshotEngine struct {
	curves map[string]model.WaitCurve
}

// NewSnapshotEngine indexes the snapshot's ride curves.
func NewSnapshotEngine(snap model.Snapshot) *SnapshotEngine {
	curves := make(map[string]model.WaitCurve, len(snap.Rides))
	for _, r := range snap.Rides {
		curves[r.ID] = r.Curve
	}
	return &SnapshotEngine{curves: curves}
}

// Curve implements Engine.
func (e *SnapshotEngine) Curve(rideID string) (model.WaitCurve, bool) {
	c, ok := e.curves[rideID]
	return c, ok
}

// FillMissing returns a copy of the snapshot in which every ride with a
// missing or partial wait curve carries a flat category-median curve spanning
// the ride's park-day operating window, marked estimated. The input snapshot
// is never modified.
func FillMissing(snap model.Snapshot, date string, cfg Config) model.Snapshot {
	cfg.SetDefaults()
	out := snap
	out.Rides = make([]model.RideSelection, len(snap.Rides))
	copy(out.Rides, snap.Rides)

	for i, r := range out.Rides {
		hours, ok := snap.HoursFor(r.ParkID, date)
		if !ok {
			continue
		}
		if curveComplete(r.Curve, hours, cfg) {
			continue
		}
		median := categoryMedian(snap.Rides, r.Category)
		if median <= 0 {
			median = float64(cfg.DefaultWaitMinutes)
		}
		out.Rides[i].Curve = flatCurve(hours, int(median), cfg.SlotMinutes)
	}
	return out
}

// curveComplete reports whether the curve covers enough of the operating
// window to be trusted.
func curveComplete(c model.WaitCurve, hours model.ParkDaySchedule, cfg Config) bool {
	if len(c.Points) == 0 || c.Estimated {
		return false
	}
	window := hours.EffectiveClose().Sub(hours.OpenTime)
	if window <= 0 {
		return true
	}
	span := c.Points[len(c.Points)-1].Slot.Sub(c.Points[0].Slot)
	return span.Minutes() >= window.Minutes()*cfg.MinCoverage
}

// categoryMedian computes the median observed wait across all complete
// curves of the given category. Returns 0 when no data exists.
func categoryMedian(rides []model.RideSelection, cat model.RideCategory) float64 {
	var waits []float64
	for _, r := range rides {
		if r.Category != cat || r.Curve.Estimated {
			continue
		}
		for _, p := range r.Curve.Points {
			waits = append(waits, float64(p.WaitMinutes))
		}
	}
	if len(waits) == 0 {
		return 0
	}
	sort.Float64s(waits)
	return stat.Quantile(0.5, stat.Empirical, waits, nil)
}

// flatCurve builds a constant-wait estimated curve over the operating window.
func flatCurve(hours model.ParkDaySchedule, wait, slotMinutes int) model.WaitCurve {
	c := model.WaitCurve{Estimated: true}
	step := time.Duration(slotMinutes) * time.Minute
	for t := hours.OpenTime; t.Before(hours.EffectiveClose()); t = t.Add(step) {
		c.Points = append(c.Points, model.WaitPoint{Slot: t, WaitMinutes: wait})
	}
	return c
}
