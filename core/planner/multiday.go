package planner

import (
	"sort"

	"github.com/kerhervel/parkplan/core/model"
)

// distribute partitions the wishlist across trip days: balanced round-robin
// weighted by category diversity, under a per-day headliner cap and a
// capacity estimate of ride durations plus predicted waits against open
// hours minus a buffer. Rides that fit no day are returned unscheduled with
// an explicit reason.
func (p *Planner) distribute(req *request) (map[string]int, []model.UnscheduledRide) {
	type dayState struct {
		idx        int
		capacity   int // minutes left for rides
		headliners int
		categories map[model.RideCategory]int
		parks      map[string]bool
	}

	days := make([]*dayState, 0, len(req.days))
	for i, d := range req.days {
		st := &dayState{idx: i, categories: make(map[model.RideCategory]int), parks: make(map[string]bool)}
		for _, park := range d.parks {
			if _, ok := d.hours[park]; ok {
				st.parks[park] = true
			}
		}
		st.capacity = p.dayCapacity(req.input, d)
		days = append(days, st)
	}

	ordered := make([]model.RideSelection, len(req.rides))
	copy(ordered, req.rides)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Headliner != ordered[j].Headliner {
			return ordered[i].Headliner
		}
		if ordered[i].Weight != ordered[j].Weight {
			return ordered[i].Weight > ordered[j].Weight
		}
		return ordered[i].ID < ordered[j].ID
	})

	assignment := make(map[string]int, len(ordered))
	var unscheduled []model.UnscheduledRide
	for _, r := range ordered {
		need := p.rideNeed(r)
		var best *dayState
		parkOpenSomewhere := false
		for _, st := range days {
			if !st.parks[r.ParkID] {
				continue
			}
			parkOpenSomewhere = true
			if st.capacity < need {
				continue
			}
			if r.Headliner && st.headliners >= p.cfg.HeadlinerDailyCap {
				continue
			}
			if best == nil || betterDay(st.categories[r.Category], st.capacity, st.idx,
				best.categories[r.Category], best.capacity, best.idx) {
				best = st
			}
		}
		if best == nil {
			reason := model.ReasonInsufficientTime
			if !parkOpenSomewhere {
				reason = model.ReasonParkClosed
			}
			unscheduled = append(unscheduled, model.UnscheduledRide{RideID: r.ID, Reason: reason})
			continue
		}
		assignment[r.ID] = best.idx
		best.capacity -= need
		best.categories[r.Category]++
		if r.Headliner {
			best.headliners++
		}
	}
	return assignment, unscheduled
}

// betterDay prefers the day with fewer rides of the same category, then the
// most remaining capacity, then the earlier day.
func betterDay(cat, capacity, idx, bCat, bCapacity, bIdx int) bool {
	if cat != bCat {
		return cat < bCat
	}
	if capacity != bCapacity {
		return capacity > bCapacity
	}
	return idx < bIdx
}

// dayCapacity estimates the minutes available for rides on a day: the
// overall open window minus anchors and the configured buffer. Hop days
// additionally lose the transition time.
func (p *Planner) dayCapacity(input model.PlanInput, d daySpec) int {
	if len(d.hours) == 0 {
		return 0
	}
	var earliestOpen, latestClose int
	first := true
	for _, park := range d.parks {
		h, ok := d.hours[park]
		if !ok {
			continue
		}
		open, closeAt := p.windowFor(input, h)
		o, c := minuteOfDay(open), minuteOfDay(closeAt)
		if first {
			earliestOpen, latestClose = o, c
			first = false
			continue
		}
		if o < earliestOpen {
			earliestOpen = o
		}
		if c > latestClose {
			latestClose = c
		}
	}
	capacity := latestClose - earliestOpen - p.cfg.DayBufferMinutes
	for _, a := range d.anchors {
		capacity -= a.Slot().Minutes()
	}
	if len(d.parks) > 1 {
		capacity -= p.tables.Transition(d.parks[0], d.parks[1])
	}
	if capacity < 0 {
		capacity = 0
	}
	return capacity
}

// rideNeed estimates the minutes a ride consumes: duration, the mean
// predicted wait and a typical walk.
func (p *Planner) rideNeed(r model.RideSelection) int {
	return r.DurationMinutes + meanWait(r.Curve) + p.tables.DefaultWalkMinutes
}

// retryUnscheduled revisits rides the capacity estimate rejected, trying
// each one against the actual remaining gaps of every committed day in day
// order. Rides that still fit nowhere stay unscheduled.
func (p *Planner) retryUnscheduled(req *request, builds []*dayBuild, assignment map[string]int, unscheduled []model.UnscheduledRide) []model.UnscheduledRide {
	byID := make(map[string]model.RideSelection, len(req.rides))
	for _, r := range req.rides {
		byID[r.ID] = r
	}
	sc := &scoreContext{cfg: p.cfg, tables: p.tables, input: req.input}

	kept := make([]model.UnscheduledRide, 0, len(unscheduled))
	for _, u := range unscheduled {
		r, ok := byID[u.RideID]
		if u.Reason != model.ReasonInsufficientTime || !ok {
			kept = append(kept, u)
			continue
		}
		placed := false
		for day, b := range builds {
			for si, tl := range b.segments {
				if b.segParks[si] != r.ParkID {
					continue
				}
				if left := p.strategy.FillSlots(tl, []model.RideSelection{r}, sc); len(left) == 0 {
					assignment[r.ID] = day
					b.placed = append(b.placed, r)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			kept = append(kept, u)
		}
	}
	return kept
}

func hasReason(unscheduled []model.UnscheduledRide, reason string) bool {
	for _, u := range unscheduled {
		if u.Reason == reason {
			return true
		}
	}
	return false
}

func meanWait(c model.WaitCurve) int {
	if len(c.Points) == 0 {
		return 0
	}
	sum := 0
	for _, pt := range c.Points {
		sum += pt.WaitMinutes
	}
	return sum / len(c.Points)
}
