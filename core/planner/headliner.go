package planner

import (
	"fmt"
	"sort"

	"github.com/kerhervel/parkplan/core/model"
)

// greedyStrategy is the default non-backtracking placement strategy.
type greedyStrategy struct{}

func (g *greedyStrategy) Name() string { return "greedy" }

// PlaceHeadliners processes headliners in descending curve volatility — the
// rides whose timing matters most are locked in first — and pins each at its
// minimum-wait feasible slot. Ties break on earlier start, then on walking
// proximity from the neighbouring committed block, then stay stable. Once
// committed a block is never revisited.
func (g *greedyStrategy) PlaceHeadliners(tl *timeline, rides []model.RideSelection, sc *scoreContext) []model.RideSelection {
	ordered := make([]model.RideSelection, len(rides))
	copy(ordered, rides)
	sort.SliceStable(ordered, func(i, j int) bool {
		vi, vj := ordered[i].Curve.Volatility(), ordered[j].Curve.Volatility()
		if vi != vj {
			return vi > vj
		}
		return ordered[i].ID < ordered[j].ID
	})

	var leftovers []model.RideSelection
	for _, r := range ordered {
		opts := feasibleStarts(tl, r, sc.cfg.SlotMinutes)
		if len(opts) == 0 {
			leftovers = append(leftovers, r)
			continue
		}
		best := opts[0]
		for _, o := range opts[1:] {
			if o.wait != best.wait {
				if o.wait < best.wait {
					best = o
				}
				continue
			}
			if !o.start.Equal(best.start) {
				if o.start.Before(best.start) {
					best = o
				}
				continue
			}
			if walkInto(tl, sc, r, o) < walkInto(tl, sc, r, best) {
				best = o
			}
		}
		item := rideItem(r, best)
		item.Reasoning = fmt.Sprintf("headliner: lowest predicted wait (%dm)", best.wait)
		if err := tl.insert(item); err != nil {
			leftovers = append(leftovers, r)
		}
	}
	return leftovers
}

// walkInto estimates the walk to reach the ride at this option, from the
// land of whatever block precedes it on the timeline.
func walkInto(tl *timeline, sc *scoreContext, r model.RideSelection, o startOption) int {
	return sc.tables.Walk(tl.landBefore(o.start), r.Land)
}

// rideItem builds the committed block for a ride at the chosen option.
func rideItem(r model.RideSelection, o startOption) model.ItineraryItem {
	return model.ItineraryItem{
		Kind:         model.ItemRide,
		RideID:       r.ID,
		Name:         r.Name,
		ParkID:       r.ParkID,
		Land:         r.Land,
		Start:        o.start,
		End:          o.start.Add(minutes(o.need)),
		ExpectedWait: o.wait,
		Estimated:    r.Curve.Estimated,
	}
}
