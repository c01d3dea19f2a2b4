package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerhervel/parkplan/core/model"
)

func normalizeSnapshot() model.Snapshot {
	return model.Snapshot{
		Rides: []model.RideSelection{
			testRide("pirates", "magic-kingdom", "adventureland", 20, flatAllDay(15)),
			testRide("carousel", "magic-kingdom", "fantasyland", 10, flatAllDay(10)),
			testRide("test-track", "epcot", "future-world", 25, flatAllDay(30)),
		},
		Hours: []model.ParkDaySchedule{
			testHours("magic-kingdom", 9, 21),
			testHours("epcot", 9, 21),
		},
		TakenAt: testClock(),
	}
}

func requireValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	verr, ok := err.(*model.ValidationError)
	require.True(t, ok, "want ValidationError, got %T: %v", err, err)
	assert.Equal(t, field, verr.Field)
}

func TestNormalizeAcceptsValidInput(t *testing.T) {
	p := testPlanner(t, Config{})
	req, err := p.normalize(fullDayInput("magic-kingdom", "pirates", "carousel"), normalizeSnapshot())
	require.NoError(t, err)
	require.Len(t, req.rides, 2)
	require.Len(t, req.days, 1)
	assert.Equal(t, []string{"magic-kingdom"}, req.days[0].parks)
	assert.Equal(t, testClock(), req.snapTakenAt)
}

func TestNormalizeRejectsEmptyWishlist(t *testing.T) {
	p := testPlanner(t, Config{})
	_, err := p.normalize(fullDayInput("magic-kingdom"), normalizeSnapshot())
	requireValidationError(t, err, "favorite_ride_ids")
}

func TestNormalizeRejectsUnknownPark(t *testing.T) {
	p := testPlanner(t, Config{})
	_, err := p.normalize(fullDayInput("narnia", "pirates"), normalizeSnapshot())
	requireValidationError(t, err, "park_ids")
}

func TestNormalizeRejectsBadDates(t *testing.T) {
	p := testPlanner(t, Config{})

	input := fullDayInput("magic-kingdom", "pirates")
	input.VisitDates = []string{"12/09/2026"}
	_, err := p.normalize(input, normalizeSnapshot())
	requireValidationError(t, err, "visit_dates")

	input.VisitDates = []string{"2026-08-30"} // clock is 2026-08-31
	_, err = p.normalize(input, normalizeSnapshot())
	requireValidationError(t, err, "visit_dates")
}

func TestNormalizeDurationDateCountConsistency(t *testing.T) {
	p := testPlanner(t, Config{})

	input := fullDayInput("magic-kingdom", "pirates")
	input.VisitDates = []string{testDate, "2026-09-13"}
	_, err := p.normalize(input, normalizeSnapshot())
	requireValidationError(t, err, "duration")

	input.Duration = model.DurationMultiDay
	input.VisitDates = []string{testDate}
	_, err = p.normalize(input, normalizeSnapshot())
	requireValidationError(t, err, "duration")
}

func TestNormalizeHoppingRules(t *testing.T) {
	p := testPlanner(t, Config{})

	input := fullDayInput("magic-kingdom", "pirates")
	input.Hopping = true
	_, err := p.normalize(input, normalizeSnapshot())
	requireValidationError(t, err, "park_ids")

	// different resorts cannot pair
	input.ParkIDs = []string{"magic-kingdom", "universal-studios-florida"}
	_, err = p.normalize(input, normalizeSnapshot())
	requireValidationError(t, err, "park_ids")

	input.ParkIDs = []string{"magic-kingdom", "epcot"}
	input.FavoriteRideIDs = []string{"pirates", "test-track"}
	req, err := p.normalize(input, normalizeSnapshot())
	require.NoError(t, err)
	assert.Equal(t, []string{"magic-kingdom", "epcot"}, req.days[0].parks)
}

func TestNormalizeRideResolution(t *testing.T) {
	p := testPlanner(t, Config{})
	snap := normalizeSnapshot()

	_, err := p.normalize(fullDayInput("magic-kingdom", "pirates", "pirates"), snap)
	requireValidationError(t, err, "favorite_ride_ids")

	_, err = p.normalize(fullDayInput("magic-kingdom", "yeti-coaster"), snap)
	requireValidationError(t, err, "favorite_ride_ids")

	// ride lives in a park the request does not visit
	_, err = p.normalize(fullDayInput("magic-kingdom", "test-track"), snap)
	requireValidationError(t, err, "favorite_ride_ids")
}

func TestNormalizeRopeDropFlags(t *testing.T) {
	p := testPlanner(t, Config{})

	input := fullDayInput("magic-kingdom", "pirates", "carousel")
	input.RopeDropRideIDs = []string{"pirates"}
	req, err := p.normalize(input, normalizeSnapshot())
	require.NoError(t, err)
	for _, r := range req.rides {
		assert.Equal(t, r.ID == "pirates", r.RopeDrop)
	}

	input.RopeDropRideIDs = []string{"test-track"}
	_, err = p.normalize(input, normalizeSnapshot())
	requireValidationError(t, err, "rope_drop_ride_ids")
}

func TestNormalizeResolvesEntertainment(t *testing.T) {
	p := testPlanner(t, Config{})
	snap := normalizeSnapshot()
	snap.Entertainment = []model.Anchor{{
		Name:   "Fireworks",
		Type:   model.AnchorShow,
		ParkID: "magic-kingdom",
		Start:  at(20, 0),
		End:    at(20, 30),
	}}

	input := fullDayInput("magic-kingdom", "pirates")
	input.Entertainment = []string{"Fireworks"}
	req, err := p.normalize(input, snap)
	require.NoError(t, err)
	require.Len(t, req.days[0].anchors, 1)
	assert.Equal(t, "Fireworks", req.days[0].anchors[0].Name)

	input.Entertainment = []string{"Parade of Dreams"}
	_, err = p.normalize(input, snap)
	requireValidationError(t, err, "entertainment")
}

func TestNormalizeResolvesMeals(t *testing.T) {
	p := testPlanner(t, Config{})

	input := fullDayInput("magic-kingdom", "pirates")
	input.Meals = []model.Anchor{{Name: "Lunch", Start: at(12, 0), End: at(13, 0)}}
	req, err := p.normalize(input, normalizeSnapshot())
	require.NoError(t, err)
	require.Len(t, req.days[0].anchors, 1)
	anchor := req.days[0].anchors[0]
	assert.Equal(t, model.AnchorMeal, anchor.Type)
	assert.Equal(t, "magic-kingdom", anchor.ParkID)

	input.Meals = []model.Anchor{{Name: "Lunch", Start: at(13, 0), End: at(12, 0)}}
	_, err = p.normalize(input, normalizeSnapshot())
	requireValidationError(t, err, "meals")

	input.Meals = []model.Anchor{{
		Name:  "Dinner",
		Start: time.Date(2026, 9, 20, 18, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 20, 19, 0, 0, 0, time.UTC),
	}}
	_, err = p.normalize(input, normalizeSnapshot())
	requireValidationError(t, err, "meals")
}

func TestWindowForHalfDay(t *testing.T) {
	p := testPlanner(t, Config{})
	input := fullDayInput("magic-kingdom", "pirates")
	input.Duration = model.DurationHalfDay

	open, closeAt := p.windowFor(input, testHours("magic-kingdom", 9, 21))
	assert.Equal(t, at(9, 0), open)
	assert.Equal(t, at(15, 0), closeAt)
}
