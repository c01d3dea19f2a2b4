package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kerhervel/parkplan/core/model"
)

// assembleTrip merges every day's committed blocks into the final TripPlan:
// ordered itineraries, walking times, totals, tips and alternatives.
func (p *Planner) assembleTrip(req *request, builds []*dayBuild, assignment map[string]int, unscheduled []model.UnscheduledRide) (*model.TripPlan, error) {
	wishlist := make(map[string]model.RideSelection, len(req.rides))
	for _, r := range req.rides {
		wishlist[r.ID] = r
	}

	days := make([]model.Itinerary, len(builds))
	for i, b := range builds {
		days[i] = p.assembleDay(b, wishlist)
		unscheduled = append(unscheduled, b.dropped...)
	}

	sortUnscheduled(unscheduled)
	if unscheduled == nil {
		unscheduled = []model.UnscheduledRide{}
	}

	dayAssignment := make(map[string]int, len(assignment))
	for id, d := range assignment {
		dayAssignment[id] = d
	}

	return &model.TripPlan{
		ID:            planID(req.input, req.snapTakenAt),
		Input:         req.input,
		Days:          days,
		DayAssignment: dayAssignment,
		Unscheduled:   unscheduled,
		CreatedAt:     p.now().UTC(),
	}, nil
}

// assembleDay flattens a day's segments and hop into one ordered itinerary,
// verifying the ordering and overlap invariants as it goes.
func (p *Planner) assembleDay(b *dayBuild, wishlist map[string]model.RideSelection) model.Itinerary {
	var items []model.ItineraryItem
	for _, seg := range b.segments {
		items = append(items, seg.items...)
	}
	if b.hopItem != nil {
		items = append(items, *b.hopItem)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Start.Equal(items[j].Start) {
			return items[i].Start.Before(items[j].Start)
		}
		return items[i].Name < items[j].Name
	})

	itin := model.Itinerary{Date: b.spec.date, ParkIDs: b.spec.parks}
	prevLand := ""
	var prevEnd *model.ItineraryItem
	for _, it := range items {
		if prevEnd != nil && it.Start.Before(prevEnd.End) {
			p.invariant("overlapping items %q and %q on %s", prevEnd.Name, it.Name, b.spec.date)
			continue
		}
		if it.Kind == model.ItemHop {
			// the transition block ends at the next park's entrance
			prevLand = ""
		} else {
			it.WalkingMinutes = p.tables.Walk(prevLand, it.Land)
		}
		itin.Items = append(itin.Items, it)
		itin.TotalWaitMinutes += it.ExpectedWait
		itin.TotalWalkingMinutes += it.WalkingMinutes
		if it.Land != "" {
			prevLand = it.Land
		}
		last := it
		prevEnd = &last
	}

	itin.Tips = p.dayTips(itin)
	itin.Alternatives = alternatives(itin.Items, wishlist)
	return itin
}

// dayTips derives short advisory notes from the day's shape.
func (p *Planner) dayTips(itin model.Itinerary) []string {
	var tips []string
	estimated := 0
	ropeDrop := false
	hop := false
	for _, it := range itin.Items {
		if it.Estimated {
			estimated++
		}
		if it.Kind == model.ItemHop {
			hop = true
		}
		if strings.HasPrefix(it.Reasoning, "rope drop") {
			ropeDrop = true
		}
	}
	if ropeDrop {
		tips = append(tips, "Arrive 30 minutes before park open to be at the front for rope drop.")
	}
	if estimated > 0 {
		tips = append(tips, fmt.Sprintf("Wait times for %d stop(s) are estimates; check live waits on the day.", estimated))
	}
	if hop {
		tips = append(tips, "Allow the full transition time when hopping; transport queues count against it.")
	}
	return tips
}

// alternatives proposes a category-equivalent substitute for each planned
// ride, should it be closed on the day.
func alternatives(items []model.ItineraryItem, wishlist map[string]model.RideSelection) []model.Alternative {
	ids := make([]string, 0, len(wishlist))
	for id := range wishlist {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []model.Alternative
	for _, it := range items {
		if it.Kind != model.ItemRide || it.ReRide {
			continue
		}
		ride, ok := wishlist[it.RideID]
		if !ok {
			continue
		}
		for _, id := range ids {
			cand := wishlist[id]
			if cand.ID == ride.ID || cand.Category != ride.Category {
				continue
			}
			out = append(out, model.Alternative{
				RideID:       ride.ID,
				SubstituteID: cand.ID,
				Note:         fmt.Sprintf("if %s is closed, %s is the closest match", ride.Name, cand.Name),
			})
			break
		}
	}
	return out
}
