package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/kerhervel/parkplan/core/model"
)

// FillSlots repeatedly commits the single globally lowest-scoring
// (ride, slot) pair until the wishlist is exhausted or nothing fits. Scores
// weigh predicted wait, walking from the preceding block, preference match
// and a late-day penalty; ties break on earlier start, then ride id.
func (g *greedyStrategy) FillSlots(tl *timeline, rides []model.RideSelection, sc *scoreContext) []model.RideSelection {
	remaining := make([]model.RideSelection, len(rides))
	copy(remaining, rides)
	sort.SliceStable(remaining, func(i, j int) bool { return remaining[i].ID < remaining[j].ID })

	for len(remaining) > 0 {
		type pick struct {
			ride  model.RideSelection
			opt   startOption
			score float64
			walk  int
		}
		var best *pick
		for _, r := range remaining {
			for _, o := range feasibleStarts(tl, r, sc.cfg.SlotMinutes) {
				walk := sc.tables.Walk(tl.landBefore(o.start), r.Land)
				score := sc.cfg.Weights.Wait*float64(o.wait) +
					sc.cfg.Weights.Walk*float64(walk) -
					sc.cfg.Weights.Priority*priorityMatch(r, sc.input.Priorities) +
					sc.cfg.Weights.TimeOfDay*lateDayPenalty(o.start)
				if best == nil || lessPick(score, o.start, r.ID, best.score, best.opt.start, best.ride.ID) {
					best = &pick{ride: r, opt: o, score: score, walk: walk}
				}
			}
		}
		if best == nil {
			break
		}
		item := rideItem(best.ride, best.opt)
		item.Reasoning = scoreReasoning(best.opt, best.walk, sc)
		if err := tl.insert(item); err != nil {
			// should be unreachable: feasibleStarts only offers free gaps
			break
		}
		remaining = removeRide(remaining, best.ride.ID)
	}
	return remaining
}

// lessPick orders candidate picks by score, then start, then ride id.
func lessPick(score float64, start time.Time, id string, bScore float64, bStart time.Time, bID string) bool {
	if score != bScore {
		return score < bScore
	}
	if !start.Equal(bStart) {
		return start.Before(bStart)
	}
	return id < bID
}

// scoreReasoning names the factor that dominated a scored placement.
func scoreReasoning(o startOption, walk int, sc *scoreContext) string {
	waitTerm := sc.cfg.Weights.Wait * float64(o.wait)
	walkTerm := sc.cfg.Weights.Walk * float64(walk)
	lateTerm := sc.cfg.Weights.TimeOfDay * lateDayPenalty(o.start)
	switch {
	case lateTerm > waitTerm && lateTerm > walkTerm:
		return "scheduled early to keep the evening free"
	case walkTerm > waitTerm:
		return fmt.Sprintf("short walk from previous stop (%dm)", walk)
	default:
		return fmt.Sprintf("low predicted wait (%dm)", o.wait)
	}
}

func removeRide(rides []model.RideSelection, id string) []model.RideSelection {
	out := rides[:0]
	for _, r := range rides {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func minutes(m int) time.Duration { return time.Duration(m) * time.Minute }
