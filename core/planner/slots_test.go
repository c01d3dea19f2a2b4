package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerhervel/parkplan/core/model"
)

func TestFillSlotsPrefersHigherWeight(t *testing.T) {
	g := &greedyStrategy{}
	tl := newTimeline(at(9, 0), at(21, 0))

	wanted := testRide("wanted", "magic-kingdom", "fantasyland", 30, flatAllDay(10))
	wanted.Weight = 2
	filler := testRide("filler", "magic-kingdom", "fantasyland", 30, flatAllDay(10))

	left := g.FillSlots(tl, []model.RideSelection{filler, wanted}, testScoreContext(model.PlanInput{}))
	assert.Empty(t, left)
	require.Len(t, tl.items, 2)
	assert.Equal(t, "wanted", tl.items[0].RideID)
	assert.Equal(t, at(9, 0), tl.items[0].Start)
	assert.Equal(t, "filler", tl.items[1].RideID)
}

func TestFillSlotsCategoryPreferenceBonus(t *testing.T) {
	g := &greedyStrategy{}
	tl := newTimeline(at(9, 0), at(21, 0))

	thrill := testRide("coaster", "magic-kingdom", "tomorrowland", 30, flatAllDay(10))
	thrill.Category = model.CategoryThrill
	family := testRide("boat", "magic-kingdom", "tomorrowland", 30, flatAllDay(10))

	input := model.PlanInput{Priorities: []string{"thrill"}}
	left := g.FillSlots(tl, []model.RideSelection{family, thrill}, testScoreContext(input))
	assert.Empty(t, left)
	require.Len(t, tl.items, 2)
	assert.Equal(t, "coaster", tl.items[0].RideID)
}

func TestFillSlotsPrefersLowerWait(t *testing.T) {
	g := &greedyStrategy{}
	tl := newTimeline(at(9, 0), at(21, 0))

	short := testRide("short-line", "magic-kingdom", "fantasyland", 30, flatAllDay(5))
	long := testRide("long-line", "magic-kingdom", "fantasyland", 30, flatAllDay(45))

	left := g.FillSlots(tl, []model.RideSelection{long, short}, testScoreContext(model.PlanInput{}))
	assert.Empty(t, left)
	require.Len(t, tl.items, 2)
	assert.Equal(t, "short-line", tl.items[0].RideID)
	assert.Contains(t, tl.items[0].Reasoning, "low predicted wait")
}

func TestFillSlotsReportsLeftovers(t *testing.T) {
	g := &greedyStrategy{}
	tl := newTimeline(at(9, 0), at(10, 0))

	fits := testRide("fits", "magic-kingdom", "fantasyland", 30, flatAllDay(10))
	tooBig := testRide("too-big", "magic-kingdom", "fantasyland", 90, flatAllDay(10))

	left := g.FillSlots(tl, []model.RideSelection{fits, tooBig}, testScoreContext(model.PlanInput{}))
	require.Len(t, left, 1)
	assert.Equal(t, "too-big", left[0].ID)
	require.Len(t, tl.items, 1)
	assert.Equal(t, "fits", tl.items[0].RideID)
}
