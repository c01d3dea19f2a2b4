package planner

import (
	"fmt"

	"github.com/kerhervel/parkplan/core/model"
)

// placeAnchors commits the day's fixed-time blocks for one park window, in
// request order. Overlapping anchors follow the configured policy: the
// earlier-requested anchor wins and the loser is reported; in strict mode an
// overlap between two must-see anchors instead fails the whole request with
// a ScheduleConflictError. Anchors outside the operating window are
// reported, never shifted.
func (p *Planner) placeAnchors(tl *timeline, anchors []model.Anchor, park string) ([]model.UnscheduledRide, error) {
	var dropped []model.UnscheduledRide
	var committed []model.Anchor
	for _, a := range anchors {
		if a.ParkID != park {
			continue
		}
		if a.Start.Before(tl.open) || a.End.After(tl.close) {
			dropped = append(dropped, model.UnscheduledRide{
				RideID: a.Name,
				Reason: model.ReasonParkClosed,
			})
			continue
		}
		if winner, ok := overlapping(committed, a); ok {
			if p.cfg.StrictAnchors && a.Priority == model.AnchorMustSee && winner.Priority == model.AnchorMustSee {
				return nil, &model.ScheduleConflictError{First: winner.Name, Second: a.Name}
			}
			dropped = append(dropped, model.UnscheduledRide{
				RideID: a.Name,
				Reason: fmt.Sprintf("conflicts with %q", winner.Name),
			})
			continue
		}
		item := model.ItineraryItem{
			Kind:      model.ItemAnchor,
			Name:      a.Name,
			ParkID:    a.ParkID,
			Land:      a.Land,
			Start:     a.Start,
			End:       a.End,
			Reasoning: fmt.Sprintf("fixed-time %s", a.Type),
		}
		if err := tl.insert(item); err != nil {
			p.invariant("anchor placement: %v", err)
			continue
		}
		committed = append(committed, a)
	}
	return dropped, nil
}

// overlapping returns the earliest committed anchor that overlaps a.
func overlapping(committed []model.Anchor, a model.Anchor) (model.Anchor, bool) {
	for _, c := range committed {
		if c.Slot().Overlaps(a.Slot()) {
			return c, true
		}
	}
	return model.Anchor{}, false
}
