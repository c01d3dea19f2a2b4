// Package planlog persists a record of every planning request and its
// outcome, for audit and tuning. Stores are append-plus-query only; plans
// themselves are immutable.
package planlog

import (
	"context"
	"time"
)

// PlanRecord captures one planning request and result summary.
type PlanRecord struct {
	Timestamp        time.Time `json:"timestamp"`
	PlanID           string    `json:"plan_id"`
	Parks            []string  `json:"parks"`
	Dates            []string  `json:"dates"`
	WishlistSize     int       `json:"wishlist_size"`
	ItemsPlaced      int       `json:"items_placed"`
	Unscheduled      []string  `json:"unscheduled"`
	TotalWaitMinutes int       `json:"total_wait_minutes"`
	TotalWalkMinutes int       `json:"total_walk_minutes"`
	Outcome          string    `json:"outcome"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start  time.Time
	End    time.Time
	ParkID string
}

// Store persists PlanRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec PlanRecord) error
	Query(ctx context.Context, q Query) ([]PlanRecord, error)
	Close() error
}

// matches applies the query filters to a record.
func matches(r PlanRecord, q Query) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.ParkID != "" {
		found := false
		for _, p := range r.Parks {
			if p == q.ParkID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
