package planner

import (
	"fmt"
	"sort"

	"github.com/kerhervel/parkplan/core/model"
)

// placeRopeDrop fills the opening block with the rides requested for it,
// largest expected early-ride saving first. The saving is the wait at a
// midday reference minus the wait at open; the clock advances as rides are
// consumed and each wait is re-sampled at the actual placement time.
// Placement stops at the configured cutoff after open or once the marginal
// saving drops below the configured floor. Returns the rides not placed.
func (p *Planner) placeRopeDrop(tl *timeline, rides []model.RideSelection) []model.RideSelection {
	midday := tl.open.Add(minutes(p.cfg.RopeDropMiddayOffsetMinutes))
	cutoff := tl.open.Add(minutes(p.cfg.RopeDropWindowMinutes))

	type entry struct {
		ride  model.RideSelection
		delta int
	}
	entries := make([]entry, 0, len(rides))
	for _, r := range rides {
		entries = append(entries, entry{
			ride:  r,
			delta: waitAt(r.Curve, midday) - waitAt(r.Curve, tl.open),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].delta != entries[j].delta {
			return entries[i].delta > entries[j].delta
		}
		return entries[i].ride.ID < entries[j].ride.ID
	})

	var leftovers []model.RideSelection
	pointer := tl.open
	for _, e := range entries {
		if e.delta < p.cfg.RopeDropMinDeltaMinutes || !pointer.Before(cutoff) {
			leftovers = append(leftovers, e.ride)
			continue
		}
		start, ok := tl.earliestFit(pointer, e.ride.DurationMinutes)
		if !ok || !start.Before(cutoff) {
			leftovers = append(leftovers, e.ride)
			continue
		}
		wait := waitAt(e.ride.Curve, start)
		need := wait + e.ride.DurationMinutes
		if fit, ok := tl.earliestFit(start, need); !ok || !fit.Equal(start) {
			leftovers = append(leftovers, e.ride)
			continue
		}
		item := rideItem(e.ride, startOption{start: start, wait: wait, need: need})
		item.Reasoning = fmt.Sprintf("rope drop: saves ~%dm vs midday", e.delta)
		if err := tl.insert(item); err != nil {
			p.invariant("rope drop placement: %v", err)
			leftovers = append(leftovers, e.ride)
			continue
		}
		pointer = item.End
	}
	return leftovers
}
