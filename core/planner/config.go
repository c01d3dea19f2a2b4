package planner

import "fmt"

// Weights tunes the slot scoring formula. The score of a (ride, slot) pair is
//
//	Wait*predictedWait + Walk*walkingMinutes - Priority*priorityMatch + TimeOfDay*lateDayPenalty
//
// and the lowest score wins.
type Weights struct {
	Wait      float64 `json:"wait"`
	Walk      float64 `json:"walk"`
	Priority  float64 `json:"priority"`
	TimeOfDay float64 `json:"time_of_day"`
}

// Config defines planner tunables loaded from configuration. Zero values are
// replaced by defaults via SetDefaults, mirroring the other config sections.
type Config struct {
	// SlotMinutes is the candidate grid step within free gaps.
	SlotMinutes int `json:"slot_minutes"`

	Weights Weights `json:"weights"`

	// RopeDropWindowMinutes bounds the opening block after park open.
	RopeDropWindowMinutes int `json:"rope_drop_window_minutes"`
	// RopeDropMinDeltaMinutes stops rope-drop placement once the marginal
	// early-ride saving falls below this many minutes.
	RopeDropMinDeltaMinutes int `json:"rope_drop_min_delta_minutes"`
	// RopeDropMiddayOffsetMinutes locates the midday reference sample used
	// to compute the early-ride saving.
	RopeDropMiddayOffsetMinutes int `json:"rope_drop_midday_offset_minutes"`

	// HeadlinerDailyCap bounds headliners assigned to a single day.
	HeadlinerDailyCap int `json:"headliner_daily_cap"`

	// DayBufferMinutes is slack held back from each day's capacity estimate
	// and from re-ride insertion.
	DayBufferMinutes int `json:"day_buffer_minutes"`

	// Strategy selects the placement strategy ("greedy").
	Strategy string `json:"strategy"`

	// StrictAnchors fails the whole request on overlapping must-see anchors
	// instead of applying the first-wins policy.
	StrictAnchors bool `json:"strict_anchors"`

	// MaxHopsPerDay bounds park transitions within one day.
	MaxHopsPerDay int `json:"max_hops_per_day"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.SlotMinutes <= 0 {
		c.SlotMinutes = 15
	}
	if c.Weights == (Weights{}) {
		c.Weights = Weights{Wait: 1.0, Walk: 0.5, Priority: 2.0, TimeOfDay: 0.3}
	}
	if c.RopeDropWindowMinutes <= 0 {
		c.RopeDropWindowMinutes = 90
	}
	if c.RopeDropMinDeltaMinutes <= 0 {
		c.RopeDropMinDeltaMinutes = 5
	}
	if c.RopeDropMiddayOffsetMinutes <= 0 {
		c.RopeDropMiddayOffsetMinutes = 240
	}
	if c.HeadlinerDailyCap <= 0 {
		c.HeadlinerDailyCap = 3
	}
	if c.DayBufferMinutes <= 0 {
		c.DayBufferMinutes = 30
	}
	if c.Strategy == "" {
		c.Strategy = "greedy"
	}
	if c.MaxHopsPerDay <= 0 {
		c.MaxHopsPerDay = 1
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.SlotMinutes <= 0 {
		return fmt.Errorf("slot_minutes must be positive")
	}
	if c.Weights.Wait < 0 || c.Weights.Walk < 0 || c.Weights.Priority < 0 || c.Weights.TimeOfDay < 0 {
		return fmt.Errorf("weights must be non-negative")
	}
	if _, err := strategyFor(c.Strategy); err != nil {
		return err
	}
	return nil
}
