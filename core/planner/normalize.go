package planner

import (
	"time"

	"github.com/kerhervel/parkplan/core/model"
)

const dateLayout = "2006-01-02"

// daySpec is one normalized trip day: its date, the park(s) visited and the
// fixed-time anchors requested for it, in request order.
type daySpec struct {
	date    string
	parks   []string
	hours   map[string]model.ParkDaySchedule // park id -> schedule; absent means closed
	anchors []model.Anchor
}

// request is a validated, canonicalized planning request.
type request struct {
	input       model.PlanInput
	rides       []model.RideSelection
	days        []daySpec
	snapTakenAt time.Time
}

// normalize validates the raw input against the snapshot and reference
// tables. It fails with a ValidationError naming the offending field and
// never coerces or silently drops invalid input.
func (p *Planner) normalize(input model.PlanInput, snap model.Snapshot) (*request, error) {
	if len(input.FavoriteRideIDs) == 0 {
		return nil, model.NewValidationError("favorite_ride_ids", "wishlist must not be empty")
	}
	if len(input.ParkIDs) == 0 {
		return nil, model.NewValidationError("park_ids", "at least one park is required")
	}
	for _, id := range input.ParkIDs {
		if !p.tables.KnownPark(id) {
			return nil, model.NewValidationError("park_ids", "unknown park %q", id)
		}
	}

	if len(input.VisitDates) == 0 {
		return nil, model.NewValidationError("visit_dates", "at least one date is required")
	}
	today := p.now().Format(dateLayout)
	for _, d := range input.VisitDates {
		ts, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, model.NewValidationError("visit_dates", "bad date %q: want YYYY-MM-DD", d)
		}
		if d < today {
			return nil, model.NewValidationError("visit_dates", "date %s is in the past", ts.Format(dateLayout))
		}
	}
	switch input.Duration {
	case model.DurationMultiDay:
		if len(input.VisitDates) < 2 {
			return nil, model.NewValidationError("duration", "multi-day trips need at least two visit dates")
		}
	default:
		if len(input.VisitDates) != 1 {
			return nil, model.NewValidationError("duration", "%s trips take exactly one visit date", input.Duration)
		}
	}

	if input.Hopping {
		if len(input.ParkIDs) < 2 {
			return nil, model.NewValidationError("park_ids", "park hopping needs two parks")
		}
		if len(input.ParkIDs) > 2 {
			return nil, model.NewValidationError("park_ids", "at most one hop per day: list two parks")
		}
		a, b := input.ParkIDs[0], input.ParkIDs[1]
		if !p.tables.SameResort(a, b) {
			return nil, model.NewValidationError("park_ids", "parks %q and %q do not share a resort pairing", a, b)
		}
	}

	ropeDrop := make(map[string]bool, len(input.RopeDropRideIDs))
	for _, id := range input.RopeDropRideIDs {
		ropeDrop[id] = true
	}
	requested := make(map[string]bool, len(input.ParkIDs))
	for _, id := range input.ParkIDs {
		requested[id] = true
	}

	seen := make(map[string]bool, len(input.FavoriteRideIDs))
	rides := make([]model.RideSelection, 0, len(input.FavoriteRideIDs))
	for _, id := range input.FavoriteRideIDs {
		if seen[id] {
			return nil, model.NewValidationError("favorite_ride_ids", "ride %q listed twice", id)
		}
		seen[id] = true
		r, ok := snap.Ride(id)
		if !ok {
			return nil, model.NewValidationError("favorite_ride_ids", "unknown ride %q", id)
		}
		if err := r.Validate(); err != nil {
			return nil, model.NewValidationError("favorite_ride_ids", "%v", err)
		}
		if !requested[r.ParkID] {
			return nil, model.NewValidationError("favorite_ride_ids", "ride %q is in park %q, not in the request", id, r.ParkID)
		}
		if ropeDrop[id] {
			r.RopeDrop = true
		}
		rides = append(rides, r)
	}
	for id := range ropeDrop {
		if !seen[id] {
			return nil, model.NewValidationError("rope_drop_ride_ids", "ride %q is not on the wishlist", id)
		}
	}

	days := p.buildDays(input, snap)

	if err := p.resolveAnchors(input, snap, days); err != nil {
		return nil, err
	}

	return &request{input: input, rides: rides, days: days, snapTakenAt: snap.TakenAt}, nil
}

// buildDays assigns parks to trip days: hopping days carry both parks,
// otherwise parks rotate across the dates in request order.
func (p *Planner) buildDays(input model.PlanInput, snap model.Snapshot) []daySpec {
	days := make([]daySpec, len(input.VisitDates))
	for i, date := range input.VisitDates {
		var parks []string
		if input.Hopping {
			parks = append(parks, input.ParkIDs...)
		} else {
			parks = []string{input.ParkIDs[i%len(input.ParkIDs)]}
		}
		hours := make(map[string]model.ParkDaySchedule, len(parks))
		for _, park := range parks {
			if h, ok := snap.HoursFor(park, date); ok {
				hours[park] = h
			}
		}
		days[i] = daySpec{date: date, parks: parks, hours: hours}
	}
	return days
}

// resolveAnchors attaches requested entertainment and meal anchors to their
// days, in request order: entertainment first, then meals.
func (p *Planner) resolveAnchors(input model.PlanInput, snap model.Snapshot, days []daySpec) error {
	for _, name := range input.Entertainment {
		placed := false
		for _, a := range snap.Entertainment {
			if a.Name != name {
				continue
			}
			for i := range days {
				if days[i].date == a.Start.Format(dateLayout) && containsString(days[i].parks, a.ParkID) {
					days[i].anchors = append(days[i].anchors, a)
					placed = true
				}
			}
		}
		if !placed {
			return model.NewValidationError("entertainment", "no showing of %q during the trip", name)
		}
	}
	for _, m := range input.Meals {
		if m.Name == "" {
			return model.NewValidationError("meals", "meal anchors need a name")
		}
		if !m.End.After(m.Start) {
			return model.NewValidationError("meals", "meal %q: end must be after start", m.Name)
		}
		m.Type = model.AnchorMeal
		date := m.Start.Format(dateLayout)
		placed := false
		for i := range days {
			if days[i].date != date {
				continue
			}
			if m.ParkID == "" {
				m.ParkID = days[i].parks[0]
			} else if !containsString(days[i].parks, m.ParkID) {
				return model.NewValidationError("meals", "meal %q: park %q is not visited on %s", m.Name, m.ParkID, date)
			}
			days[i].anchors = append(days[i].anchors, m)
			placed = true
			break
		}
		if !placed {
			return model.NewValidationError("meals", "meal %q: %s is not a trip date", m.Name, date)
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// windowFor returns the placement window for a park on a day, applying the
// half-day truncation when requested.
func (p *Planner) windowFor(input model.PlanInput, hours model.ParkDaySchedule) (time.Time, time.Time) {
	open := hours.OpenTime
	closeAt := hours.EffectiveClose()
	if input.Duration == model.DurationHalfDay {
		half := closeAt.Sub(open) / 2
		closeAt = open.Add(half.Round(time.Minute))
	}
	return open, closeAt
}
