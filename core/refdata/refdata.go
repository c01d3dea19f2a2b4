// Package refdata holds the process-wide reference tables the planner needs:
// resort pairings, inter-park transition minutes and land-to-land walking
// times. Tables are loaded once at startup and passed explicitly into every
// planning call; they must never be mutated at runtime.
package refdata

import "fmt"

// Tables is the immutable reference data set.
type Tables struct {
	// ResortOf maps a park id to the resort it belongs to. Park hopping is
	// only legal between parks of the same resort.
	ResortOf map[string]string `json:"resort_of" yaml:"resort_of"`

	// TransitionMinutes maps "fromPark|toPark" to the minimum transition
	// time in minutes, transport included.
	TransitionMinutes map[string]int `json:"transition_minutes" yaml:"transition_minutes"`

	// WalkMinutes maps "fromLand|toLand" to walking minutes. Pairs are
	// looked up in both directions.
	WalkMinutes map[string]int `json:"walk_minutes" yaml:"walk_minutes"`

	// DefaultWalkMinutes applies to land pairs absent from WalkMinutes.
	DefaultWalkMinutes int `json:"default_walk_minutes" yaml:"default_walk_minutes"`

	// DefaultTransitionMinutes applies to same-resort park pairs absent
	// from TransitionMinutes.
	DefaultTransitionMinutes int `json:"default_transition_minutes" yaml:"default_transition_minutes"`
}

func pairKey(a, b string) string { return a + "|" + b }

// KnownPark reports whether the park id appears in the resort table.
func (t *Tables) KnownPark(parkID string) bool {
	_, ok := t.ResortOf[parkID]
	return ok
}

// SameResort reports whether two parks share a resort pairing.
func (t *Tables) SameResort(a, b string) bool {
	ra, oka := t.ResortOf[a]
	rb, okb := t.ResortOf[b]
	return oka && okb && ra == rb
}

// Transition returns the minimum park-to-park transition time in minutes.
func (t *Tables) Transition(from, to string) int {
	if m, ok := t.TransitionMinutes[pairKey(from, to)]; ok {
		return m
	}
	if m, ok := t.TransitionMinutes[pairKey(to, from)]; ok {
		return m
	}
	return t.DefaultTransitionMinutes
}

// Walk returns the land-to-land walking time in minutes. Staying in the same
// land costs nothing; unknown pairs fall back to the configured default.
func (t *Tables) Walk(fromLand, toLand string) int {
	if fromLand == "" || toLand == "" || fromLand == toLand {
		return 0
	}
	if m, ok := t.WalkMinutes[pairKey(fromLand, toLand)]; ok {
		return m
	}
	if m, ok := t.WalkMinutes[pairKey(toLand, fromLand)]; ok {
		return m
	}
	return t.DefaultWalkMinutes
}

// Validate checks mandatory fields.
func (t *Tables) Validate() error {
	if len(t.ResortOf) == 0 {
		return fmt.Errorf("resort_of table is empty")
	}
	if t.DefaultWalkMinutes <= 0 {
		return fmt.Errorf("default_walk_minutes must be positive")
	}
	if t.DefaultTransitionMinutes <= 0 {
		return fmt.Errorf("default_transition_minutes must be positive")
	}
	return nil
}
