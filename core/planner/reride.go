package planner

import (
	"fmt"
	"sort"

	"github.com/kerhervel/parkplan/core/model"
)

// insertReRides fills a day's residual slack with repeat visits. It runs
// only after every mandatory ride across the whole trip has been placed
// once. Candidates are the day's placed rides, cheapest current wait at the
// pointer first; insertion stops when the remaining slack (minus the day
// buffer) fits nothing.
func (p *Planner) insertReRides(tl *timeline, placed []model.RideSelection) {
	if len(placed) == 0 {
		return
	}
	limit := tl.close.Add(-minutes(p.cfg.DayBufferMinutes))
	pointer := tl.lastEnd()

	candidates := make([]model.RideSelection, len(placed))
	copy(candidates, placed)
	for len(candidates) > 0 && pointer.Before(limit) {
		sort.SliceStable(candidates, func(i, j int) bool {
			wi, wj := waitAt(candidates[i].Curve, pointer), waitAt(candidates[j].Curve, pointer)
			if wi != wj {
				return wi < wj
			}
			return candidates[i].ID < candidates[j].ID
		})
		r := candidates[0]
		wait := waitAt(r.Curve, pointer)
		need := wait + r.DurationMinutes
		if pointer.Add(minutes(need)).After(limit) {
			candidates = candidates[1:]
			continue
		}
		item := rideItem(r, startOption{start: pointer, wait: wait, need: need})
		item.ReRide = true
		item.Reasoning = fmt.Sprintf("re-ride: %dm wait in leftover time", wait)
		if err := tl.insert(item); err != nil {
			candidates = candidates[1:]
			continue
		}
		pointer = item.End
	}
}
