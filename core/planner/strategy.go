package planner

import (
	"fmt"
	"time"

	"github.com/kerhervel/parkplan/core/model"
	"github.com/kerhervel/parkplan/core/refdata"
)

// scoreContext carries what the placement phases need to rank candidates.
type scoreContext struct {
	cfg    Config
	tables *refdata.Tables
	input  model.PlanInput
}

// PlacementStrategy decides where rides land on a day's timeline. The
// shipped implementation is greedy and non-backtracking; a local-search
// refinement can be slotted in without touching the rest of the pipeline.
type PlacementStrategy interface {
	Name() string

	// PlaceHeadliners locks in high-demand rides at their individually
	// lowest-wait feasible slots and returns the rides it could not place.
	PlaceHeadliners(tl *timeline, rides []model.RideSelection, sc *scoreContext) []model.RideSelection

	// FillSlots fills remaining gaps with the rest of the wishlist and
	// returns the rides that found no slot.
	FillSlots(tl *timeline, rides []model.RideSelection, sc *scoreContext) []model.RideSelection
}

// strategyFor resolves a strategy by configuration name.
func strategyFor(name string) (PlacementStrategy, error) {
	switch name {
	case "", "greedy":
		return &greedyStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown placement strategy %q", name)
	}
}

// startOption is one feasible (start, wait) choice for a ride.
type startOption struct {
	start time.Time
	wait  int
	need  int // wait + ride duration, minutes
}

// feasibleStarts enumerates grid-aligned starts where the ride's full block
// (queue wait plus ride duration) fits into a free gap. The wait is sampled
// at each candidate start.
func feasibleStarts(tl *timeline, r model.RideSelection, stepMinutes int) []startOption {
	var out []startOption
	for _, c := range tl.gapStarts(stepMinutes) {
		wait := waitAt(r.Curve, c.Start)
		need := wait + r.DurationMinutes
		if !c.Start.Add(minutes(need)).After(c.End) {
			out = append(out, startOption{start: c.Start, wait: wait, need: need})
		}
	}
	return out
}

// priorityMatch measures how well a ride matches the visitor's stated
// preferences: the user weight plus a rank-decayed category bonus.
func priorityMatch(r model.RideSelection, priorities []string) float64 {
	match := r.Weight
	for i, cat := range priorities {
		if r.Category.String() == cat {
			match += float64(len(priorities)-i) / float64(len(priorities))
			break
		}
	}
	return match
}

// lateDayPenalty discourages stacking placements into the final evening
// hours, keeping slack for re-rides and departures.
func lateDayPenalty(start time.Time) float64 {
	const eveningStart = 17 * 60
	m := minuteOfDay(start)
	if m <= eveningStart {
		return 0
	}
	return float64(m-eveningStart) / 60
}
