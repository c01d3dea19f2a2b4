package model

import (
	"fmt"
	"time"
)

// RideCategory classifies an attraction for preference matching and
// substitution.
type RideCategory int

const (
	CategoryOther RideCategory = iota
	CategoryThrill
	CategoryFamily
	CategoryKids
	CategoryShow
)

// String returns a human-readable representation of the category.
func (c RideCategory) String() string {
	switch c {
	case CategoryThrill:
		return "thrill"
	case CategoryFamily:
		return "family"
	case CategoryKids:
		return "kids"
	case CategoryShow:
		return "show"
	default:
		return "other"
	}
}

// ParseRideCategory maps the wire representation back to a RideCategory.
// Unknown values fall back to CategoryOther.
func ParseRideCategory(s string) RideCategory {
	switch s {
	case "thrill":
		return CategoryThrill
	case "family":
		return CategoryFamily
	case "kids":
		return CategoryKids
	case "show":
		return CategoryShow
	default:
		return CategoryOther
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c RideCategory) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RideCategory) UnmarshalText(b []byte) error {
	*c = ParseRideCategory(string(b))
	return nil
}

// WaitPoint is one sample of a predicted wait curve.
type WaitPoint struct {
	Slot        time.Time `json:"slot"`
	WaitMinutes int       `json:"wait_minutes"`
}

// WaitCurve is the predicted queue wait for a ride across an operating day,
// as an ordered sequence of samples. Estimated marks curves substituted from
// category medians when real prediction data was unavailable.
type WaitCurve struct {
	Points    []WaitPoint `json:"points"`
	Estimated bool        `json:"estimated,omitempty"`
}

// WaitAt returns the predicted wait in minutes at time t using step
// interpolation: the latest sample at or before t applies. Before the first
// sample the first value applies; an empty curve reports zero.
func (c WaitCurve) WaitAt(t time.Time) int {
	if len(c.Points) == 0 {
		return 0
	}
	wait := c.Points[0].WaitMinutes
	for _, p := range c.Points {
		if p.Slot.After(t) {
			break
		}
		wait = p.WaitMinutes
	}
	return wait
}

// Bounds returns the minimum and maximum wait on the curve.
func (c WaitCurve) Bounds() (min, max int) {
	if len(c.Points) == 0 {
		return 0, 0
	}
	min, max = c.Points[0].WaitMinutes, c.Points[0].WaitMinutes
	for _, p := range c.Points[1:] {
		if p.WaitMinutes < min {
			min = p.WaitMinutes
		}
		if p.WaitMinutes > max {
			max = p.WaitMinutes
		}
	}
	return min, max
}

// Volatility is the spread between the best and worst wait of the day.
// Rides with high volatility gain the most from careful timing.
func (c WaitCurve) Volatility() int {
	min, max := c.Bounds()
	return max - min
}

// RideSelection is one wishlist attraction together with the prediction data
// needed to place it.
type RideSelection struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	ParkID          string       `json:"park_id"`
	Land            string       `json:"land"`
	Category        RideCategory `json:"category"`
	Weight          float64      `json:"weight"`     // user priority weight, higher is more wanted
	Headliner       bool         `json:"headliner"`  // high-demand attraction placed before the rest
	RopeDrop        bool         `json:"rope_drop"`  // requested for the opening window
	DurationMinutes int          `json:"duration_minutes"`
	Curve           WaitCurve    `json:"curve"`
}

// Validate checks that the selection is placeable at all.
func (r RideSelection) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("ride id is required")
	}
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("ride %s: duration must be positive", r.ID)
	}
	return nil
}

// TimeSlot is a discretized interval within a park day.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two slots share any time.
func (s TimeSlot) Overlaps(o TimeSlot) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// Minutes returns the slot length in whole minutes.
func (s TimeSlot) Minutes() int {
	return int(s.End.Sub(s.Start).Minutes())
}
