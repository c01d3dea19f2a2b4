package model

import "time"

// AnchorType defines the kind of fixed-time block.
type AnchorType int

const (
	AnchorShow AnchorType = iota
	AnchorParade
	AnchorMeal
)

// String returns a human-readable representation of the anchor type.
func (t AnchorType) String() string {
	switch t {
	case AnchorShow:
		return "show"
	case AnchorParade:
		return "parade"
	case AnchorMeal:
		return "meal"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t AnchorType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *AnchorType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "parade":
		*t = AnchorParade
	case "meal":
		*t = AnchorMeal
	default:
		*t = AnchorShow
	}
	return nil
}

// AnchorPriority grades how binding an anchor is. Must-see anchors are hard
// constraints; the rest are advisory and may be dropped under pressure.
type AnchorPriority int

const (
	AnchorOptional AnchorPriority = iota
	AnchorRecommended
	AnchorMustSee
)

// String returns a human-readable representation of the priority.
func (p AnchorPriority) String() string {
	switch p {
	case AnchorMustSee:
		return "must-see"
	case AnchorRecommended:
		return "recommended"
	default:
		return "optional"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p AnchorPriority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *AnchorPriority) UnmarshalText(b []byte) error {
	switch string(b) {
	case "must-see":
		*p = AnchorMustSee
	case "recommended":
		*p = AnchorRecommended
	default:
		*p = AnchorOptional
	}
	return nil
}

// Anchor is a fixed-time, non-movable block on a day: an entertainment show,
// a parade or a meal reservation.
type Anchor struct {
	Name     string         `json:"name"`
	Type     AnchorType     `json:"type"`
	ParkID   string         `json:"park_id"`
	Land     string         `json:"land,omitempty"`
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
	Priority AnchorPriority `json:"priority"`
}

// Slot returns the anchor's occupied interval.
func (a Anchor) Slot() TimeSlot { return TimeSlot{Start: a.Start, End: a.End} }

// ParkDaySchedule describes one park's operating hours on one date, in the
// park's local time.
type ParkDaySchedule struct {
	ParkID        string     `json:"park_id"`
	Date          string     `json:"date"` // YYYY-MM-DD
	OpenTime      time.Time  `json:"open_time"`
	CloseTime     time.Time  `json:"close_time"`
	ExtendedClose *time.Time `json:"extended_close,omitempty"` // late hours for eligible guests
}

// EffectiveClose returns the latest admissible end time for placements.
func (s ParkDaySchedule) EffectiveClose() time.Time {
	if s.ExtendedClose != nil && s.ExtendedClose.After(s.CloseTime) {
		return *s.ExtendedClose
	}
	return s.CloseTime
}

// TripDuration defines the requested trip length.
type TripDuration int

const (
	DurationFullDay TripDuration = iota
	DurationHalfDay
	DurationMultiDay
)

// String returns the wire representation of the duration.
func (d TripDuration) String() string {
	switch d {
	case DurationHalfDay:
		return "half-day"
	case DurationMultiDay:
		return "multi-day"
	default:
		return "full-day"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d TripDuration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *TripDuration) UnmarshalText(b []byte) error {
	switch string(b) {
	case "half-day":
		*d = DurationHalfDay
	case "multi-day":
		*d = DurationMultiDay
	default:
		*d = DurationFullDay
	}
	return nil
}

// PlanInput is a planning request as received from the caller. Prediction
// and schedule data arrive separately as a Snapshot.
type PlanInput struct {
	ParkIDs         []string     `json:"park_ids"`
	FavoriteRideIDs []string     `json:"favorite_ride_ids"`
	RopeDropRideIDs []string     `json:"rope_drop_ride_ids,omitempty"`
	Entertainment   []string     `json:"entertainment,omitempty"` // anchor names selected from the snapshot
	Meals           []Anchor     `json:"meals,omitempty"`         // caller-supplied fixed meal blocks
	VisitDates      []string     `json:"visit_dates"`             // YYYY-MM-DD, ordered
	Duration        TripDuration `json:"duration"`
	Hopping         bool         `json:"hopping"`
	Priorities      []string     `json:"priorities,omitempty"` // preferred categories, strongest first
}

// Snapshot bundles the externally fetched, immutable data a planning request
// runs against: ride catalog with predicted wait curves, operating hours and
// entertainment schedules. The engine never mutates a snapshot.
type Snapshot struct {
	Rides         []RideSelection   `json:"rides"`
	Hours         []ParkDaySchedule `json:"hours"`
	Entertainment []Anchor          `json:"entertainment"`
	TakenAt       time.Time         `json:"taken_at"`
}

// Ride returns the catalog entry for id, if present.
func (s Snapshot) Ride(id string) (RideSelection, bool) {
	for _, r := range s.Rides {
		if r.ID == id {
			return r, true
		}
	}
	return RideSelection{}, false
}

// HoursFor returns the schedule for a park on a date, if present.
func (s Snapshot) HoursFor(parkID, date string) (ParkDaySchedule, bool) {
	for _, h := range s.Hours {
		if h.ParkID == parkID && h.Date == date {
			return h, true
		}
	}
	return ParkDaySchedule{}, false
}

// ItemKind distinguishes the origin of an itinerary entry.
type ItemKind int

const (
	ItemRide ItemKind = iota
	ItemAnchor
	ItemHop
)

// String returns a human-readable representation of the kind.
func (k ItemKind) String() string {
	switch k {
	case ItemAnchor:
		return "anchor"
	case ItemHop:
		return "hop"
	default:
		return "ride"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ItemKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ItemKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "anchor":
		*k = ItemAnchor
	case "hop":
		*k = ItemHop
	default:
		*k = ItemRide
	}
	return nil
}

// ItineraryItem is one committed block on a day's timeline.
type ItineraryItem struct {
	Kind           ItemKind  `json:"kind"`
	RideID         string    `json:"ride_id,omitempty"`
	Name           string    `json:"name"`
	ParkID         string    `json:"park_id"`
	Land           string    `json:"land,omitempty"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	ExpectedWait   int       `json:"expected_wait"`             // minutes queued before the ride begins
	WalkingMinutes int       `json:"walking_minutes"`           // from the previous item's land
	ReRide         bool      `json:"re_ride,omitempty"`         // repeat visit filling slack
	Estimated      bool      `json:"estimated,omitempty"`       // placed from a fallback wait curve
	Reasoning      string    `json:"reasoning,omitempty"`       // which factor dominated the placement
}

// Slot returns the item's occupied interval.
func (i ItineraryItem) Slot() TimeSlot { return TimeSlot{Start: i.Start, End: i.End} }

// Itinerary is one park-day's ordered plan with derived totals.
type Itinerary struct {
	Date                string          `json:"date"`
	ParkIDs             []string        `json:"park_ids"`
	Items               []ItineraryItem `json:"items"`
	TotalWaitMinutes    int             `json:"total_wait_minutes"`
	TotalWalkingMinutes int             `json:"total_walking_minutes"`
	Tips                []string        `json:"tips,omitempty"`
	Alternatives        []Alternative   `json:"alternatives,omitempty"`
}

// Alternative suggests a substitute should a planned ride be unavailable.
type Alternative struct {
	RideID       string `json:"ride_id"`
	SubstituteID string `json:"substitute_id"`
	Note         string `json:"note,omitempty"`
}

// UnscheduledRide records a wishlist entry that found no slot, with the
// reason it was left out. Nothing is ever dropped without trace.
type UnscheduledRide struct {
	RideID string `json:"ride_id"`
	Reason string `json:"reason"`
}

// Reasons used in UnscheduledRide entries.
const (
	ReasonInsufficientTime = "insufficient time"
	ReasonParkClosed       = "park closed during window"
)

// TripPlan is the engine's final output: one itinerary per day plus the
// original request, the day each ride landed on and every ride that could
// not be placed. A TripPlan is never mutated after being returned.
type TripPlan struct {
	ID            string            `json:"id"`
	Input         PlanInput         `json:"input"`
	Days          []Itinerary       `json:"days"`
	DayAssignment map[string]int    `json:"day_assignment"` // ride id -> day index
	Unscheduled   []UnscheduledRide `json:"unscheduled"`
	CreatedAt     time.Time         `json:"created_at"`
}
