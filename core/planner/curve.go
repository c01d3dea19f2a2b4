package planner

import (
	"time"

	"github.com/kerhervel/parkplan/core/model"
)

// minuteOfDay returns minutes since local midnight.
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// waitAt looks up the predicted wait at t by time-of-day, so a single curve
// serves every day of a multi-day trip. Step interpolation: the latest
// sample at or before t's clock time applies.
func waitAt(c model.WaitCurve, t time.Time) int {
	if len(c.Points) == 0 {
		return 0
	}
	mod := minuteOfDay(t)
	wait := c.Points[0].WaitMinutes
	for _, p := range c.Points {
		if minuteOfDay(p.Slot) > mod {
			break
		}
		wait = p.WaitMinutes
	}
	return wait
}
