package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerhervel/parkplan/core/model"
)

func block(name string, start, end time.Time) model.ItineraryItem {
	return model.ItineraryItem{Kind: model.ItemRide, Name: name, Start: start, End: end}
}

func TestTimelineInsertKeepsOrder(t *testing.T) {
	tl := newTimeline(at(9, 0), at(21, 0))
	require.NoError(t, tl.insert(block("b", at(12, 0), at(13, 0))))
	require.NoError(t, tl.insert(block("a", at(9, 0), at(10, 0))))

	require.Len(t, tl.items, 2)
	assert.Equal(t, "a", tl.items[0].Name)
	assert.Equal(t, "b", tl.items[1].Name)
}

func TestTimelineInsertRejectsOverlap(t *testing.T) {
	tl := newTimeline(at(9, 0), at(21, 0))
	require.NoError(t, tl.insert(block("a", at(10, 0), at(11, 0))))

	err := tl.insert(block("b", at(10, 30), at(11, 30)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlaps")

	// touching blocks are fine
	require.NoError(t, tl.insert(block("c", at(11, 0), at(12, 0))))
}

func TestTimelineInsertRejectsOutsideWindow(t *testing.T) {
	tl := newTimeline(at(9, 0), at(21, 0))
	require.Error(t, tl.insert(block("early", at(8, 0), at(9, 30))))
	require.Error(t, tl.insert(block("late", at(20, 30), at(21, 30))))
	require.Error(t, tl.insert(block("empty", at(10, 0), at(10, 0))))
}

func TestTimelineGaps(t *testing.T) {
	tl := newTimeline(at(9, 0), at(17, 0))
	require.NoError(t, tl.insert(block("a", at(10, 0), at(11, 0))))
	require.NoError(t, tl.insert(block("b", at(13, 0), at(14, 0))))

	gaps := tl.gaps()
	require.Len(t, gaps, 3)
	assert.Equal(t, model.TimeSlot{Start: at(9, 0), End: at(10, 0)}, gaps[0])
	assert.Equal(t, model.TimeSlot{Start: at(11, 0), End: at(13, 0)}, gaps[1])
	assert.Equal(t, model.TimeSlot{Start: at(14, 0), End: at(17, 0)}, gaps[2])
}

func TestTimelineGapsEmptyAndFull(t *testing.T) {
	tl := newTimeline(at(9, 0), at(12, 0))
	require.Len(t, tl.gaps(), 1)

	require.NoError(t, tl.insert(block("all", at(9, 0), at(12, 0))))
	assert.Empty(t, tl.gaps())
}

func TestTimelineEarliestFit(t *testing.T) {
	tl := newTimeline(at(9, 0), at(17, 0))
	require.NoError(t, tl.insert(block("a", at(9, 0), at(12, 0))))

	start, ok := tl.earliestFit(at(9, 0), 60)
	require.True(t, ok)
	assert.Equal(t, at(12, 0), start)

	// from inside a gap
	start, ok = tl.earliestFit(at(13, 30), 60)
	require.True(t, ok)
	assert.Equal(t, at(13, 30), start)

	_, ok = tl.earliestFit(at(9, 0), 10*60)
	assert.False(t, ok)
}

func TestTimelineLastEnd(t *testing.T) {
	tl := newTimeline(at(9, 0), at(17, 0))
	assert.Equal(t, at(9, 0), tl.lastEnd())

	require.NoError(t, tl.insert(block("a", at(10, 0), at(11, 0))))
	assert.Equal(t, at(11, 0), tl.lastEnd())
}

func TestTimelineLandBefore(t *testing.T) {
	tl := newTimeline(at(9, 0), at(17, 0))
	itemA := block("a", at(9, 0), at(10, 0))
	itemA.Land = "main-street"
	itemB := block("b", at(10, 0), at(11, 0))
	itemB.Land = "fantasyland"
	require.NoError(t, tl.insert(itemA))
	require.NoError(t, tl.insert(itemB))

	assert.Equal(t, "", tl.landBefore(at(9, 30)))
	assert.Equal(t, "main-street", tl.landBefore(at(10, 0)))
	assert.Equal(t, "fantasyland", tl.landBefore(at(12, 0)))
}

func TestTimelineHasRide(t *testing.T) {
	tl := newTimeline(at(9, 0), at(17, 0))
	item := block("a", at(9, 0), at(10, 0))
	item.RideID = "space-mountain"
	require.NoError(t, tl.insert(item))

	reRide := block("a again", at(10, 0), at(11, 0))
	reRide.RideID = "space-mountain"
	reRide.ReRide = true
	require.NoError(t, tl.insert(reRide))

	assert.True(t, tl.hasRide("space-mountain"))
	assert.False(t, tl.hasRide("pirates"))
}

func TestGapStartsGridAligned(t *testing.T) {
	tl := newTimeline(at(9, 0), at(10, 0))
	starts := tl.gapStarts(15)
	require.Len(t, starts, 4)
	assert.Equal(t, at(9, 0), starts[0].Start)
	assert.Equal(t, at(9, 45), starts[3].Start)
	for _, s := range starts {
		assert.Equal(t, at(10, 0), s.End)
	}
}

func TestGapStartsSkipCommittedBlocks(t *testing.T) {
	tl := newTimeline(at(9, 0), at(11, 0))
	require.NoError(t, tl.insert(block("show", at(9, 30), at(10, 0))))

	starts := tl.gapStarts(15)
	for _, s := range starts {
		outside := s.Start.Before(at(9, 30)) || !s.Start.Before(at(10, 0))
		assert.True(t, outside, "start %v inside a committed block", s.Start)
	}
	// each gap offers its exact start alongside the grid
	assert.Equal(t, at(9, 0), starts[0].Start)
	assert.Contains(t, starts, model.TimeSlot{Start: at(10, 0), End: at(11, 0)})
}
