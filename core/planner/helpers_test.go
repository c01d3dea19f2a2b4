package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kerhervel/parkplan/core/model"
	"github.com/kerhervel/parkplan/core/refdata"
	"github.com/kerhervel/parkplan/infra/logger"
)

const testDate = "2026-09-12"

// at returns a clock time on the test date.
func at(h, m int) time.Time {
	return time.Date(2026, 9, 12, h, m, 0, 0, time.UTC)
}

func testClock() time.Time {
	return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
}

func testPlanner(t *testing.T, cfg Config, opts ...Option) *Planner {
	t.Helper()
	opts = append([]Option{WithClock(testClock), WithFailFast()}, opts...)
	p, err := New(cfg, refdata.Defaults(), logger.NopLogger{}, opts...)
	require.NoError(t, err)
	return p
}

// hourlyCurve builds a curve with one sample per hour from park open at
// 09:00; waits beyond the given values repeat the last one implicitly via
// step interpolation.
func hourlyCurve(waits ...int) model.WaitCurve {
	c := model.WaitCurve{}
	for i, w := range waits {
		c.Points = append(c.Points, model.WaitPoint{Slot: at(9+i, 0), WaitMinutes: w})
	}
	return c
}

// flatAllDay spans the whole 09:00-20:00 range so the curve passes the
// prediction coverage check.
func flatAllDay(wait int) model.WaitCurve {
	waits := make([]int, 12)
	for i := range waits {
		waits[i] = wait
	}
	return hourlyCurve(waits...)
}

func testRide(id, park, land string, dur int, curve model.WaitCurve) model.RideSelection {
	return model.RideSelection{
		ID:              id,
		Name:            id,
		ParkID:          park,
		Land:            land,
		Category:        model.CategoryFamily,
		DurationMinutes: dur,
		Curve:           curve,
	}
}

func testHours(park string, openH, closeH int) model.ParkDaySchedule {
	return model.ParkDaySchedule{
		ParkID:    park,
		Date:      testDate,
		OpenTime:  at(openH, 0),
		CloseTime: at(closeH, 0),
	}
}

func fullDayInput(park string, rideIDs ...string) model.PlanInput {
	return model.PlanInput{
		ParkIDs:         []string{park},
		FavoriteRideIDs: rideIDs,
		VisitDates:      []string{testDate},
		Duration:        model.DurationFullDay,
	}
}
