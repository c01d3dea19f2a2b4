package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/kerhervel/parkplan/core/model"
)

// timeline tracks committed blocks within one day's placement window.
// Items are kept ordered by start time and may never overlap.
type timeline struct {
	open  time.Time
	close time.Time
	items []model.ItineraryItem
}

func newTimeline(open, close time.Time) *timeline {
	return &timeline{open: open, close: close}
}

// insert commits a block, rejecting overlaps and out-of-window placements.
func (t *timeline) insert(item model.ItineraryItem) error {
	if item.End.Sub(item.Start) <= 0 {
		return fmt.Errorf("item %q: non-positive duration", item.Name)
	}
	if item.Start.Before(t.open) || item.End.After(t.close) {
		return fmt.Errorf("item %q: outside operating window", item.Name)
	}
	slot := item.Slot()
	for _, ex := range t.items {
		if ex.Slot().Overlaps(slot) {
			return fmt.Errorf("item %q: overlaps %q", item.Name, ex.Name)
		}
	}
	t.items = append(t.items, item)
	sort.SliceStable(t.items, func(i, j int) bool {
		return t.items[i].Start.Before(t.items[j].Start)
	})
	return nil
}

// gaps returns the free intervals of the window, in order.
func (t *timeline) gaps() []model.TimeSlot {
	var out []model.TimeSlot
	cursor := t.open
	for _, it := range t.items {
		if it.Start.After(cursor) {
			out = append(out, model.TimeSlot{Start: cursor, End: it.Start})
		}
		if it.End.After(cursor) {
			cursor = it.End
		}
	}
	if cursor.Before(t.close) {
		out = append(out, model.TimeSlot{Start: cursor, End: t.close})
	}
	return out
}

// gapStarts enumerates grid-aligned start times inside each free gap, every
// start paired with the end of the gap that contains it. The grid steps from
// the window open in stepMinutes increments; each gap additionally offers
// its exact start.
func (t *timeline) gapStarts(stepMinutes int) []model.TimeSlot {
	step := time.Duration(stepMinutes) * time.Minute
	var out []model.TimeSlot
	for _, g := range t.gaps() {
		out = append(out, model.TimeSlot{Start: g.Start, End: g.End})
		// first grid point strictly inside the gap
		offset := g.Start.Sub(t.open)
		next := t.open.Add((offset/step + 1) * step)
		for s := next; s.Before(g.End); s = s.Add(step) {
			out = append(out, model.TimeSlot{Start: s, End: g.End})
		}
	}
	return out
}

// earliestFit returns the first start time at or after from where a block of
// need minutes fits.
func (t *timeline) earliestFit(from time.Time, needMinutes int) (time.Time, bool) {
	need := time.Duration(needMinutes) * time.Minute
	for _, g := range t.gaps() {
		start := g.Start
		if start.Before(from) {
			start = from
		}
		if !start.Add(need).After(g.End) {
			return start, true
		}
	}
	return time.Time{}, false
}

// lastEnd returns the end of the latest committed block, or the window open
// when the timeline is empty.
func (t *timeline) lastEnd() time.Time {
	end := t.open
	for _, it := range t.items {
		if it.End.After(end) {
			end = it.End
		}
	}
	return end
}

// landBefore returns the land of the latest block ending at or before ts.
// An empty string means the park entrance.
func (t *timeline) landBefore(ts time.Time) string {
	land := ""
	for _, it := range t.items {
		if it.End.After(ts) {
			break
		}
		if it.Land != "" {
			land = it.Land
		}
	}
	return land
}

// hasRide reports whether a non-re-ride block for the ride already exists.
func (t *timeline) hasRide(rideID string) bool {
	for _, it := range t.items {
		if it.RideID == rideID && !it.ReRide {
			return true
		}
	}
	return false
}
