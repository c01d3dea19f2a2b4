package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	planapi "github.com/kerhervel/parkplan/api/plan"
	"github.com/kerhervel/parkplan/app"
	"github.com/kerhervel/parkplan/config"
	"github.com/kerhervel/parkplan/core/model"
	"github.com/kerhervel/parkplan/core/planlog"
	"github.com/kerhervel/parkplan/infra/snapshots"
)

const tripDate = "2026-09-12"

func tripTime(h, m int) time.Time {
	return time.Date(2026, 9, 12, h, m, 0, 0, time.UTC)
}

func hourlyRide(id, land string, dur int, waits ...int) model.RideSelection {
	c := model.WaitCurve{}
	for i, w := range waits {
		c.Points = append(c.Points, model.WaitPoint{Slot: tripTime(9+i, 0), WaitMinutes: w})
	}
	return model.RideSelection{
		ID:              id,
		Name:            id,
		ParkID:          "magic-kingdom",
		Land:            land,
		Category:        model.CategoryFamily,
		DurationMinutes: dur,
		Curve:           c,
	}
}

func integrationSnapshot() model.Snapshot {
	flat := func(w int) []int {
		out := make([]int, 12)
		for i := range out {
			out[i] = w
		}
		return out
	}
	sm := hourlyRide("space-mountain", "tomorrowland", 30, 20, 35, 50, 60, 60, 55, 45, 40, 35, 30, 25, 20)
	sm.Category = model.CategoryThrill
	sm.Headliner = true
	return model.Snapshot{
		Rides: []model.RideSelection{
			sm,
			hourlyRide("pirates", "adventureland", 20, flat(25)...),
			hourlyRide("carousel", "fantasyland", 10, flat(10)...),
		},
		Hours: []model.ParkDaySchedule{{
			ParkID:    "magic-kingdom",
			Date:      tripDate,
			OpenTime:  tripTime(9, 0),
			CloseTime: tripTime(21, 0),
		}},
		TakenAt: time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC),
	}
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// newIntegrationService stands up the full service from a config file, with a
// file snapshot source and a JSONL plan log, everything else disabled.
func newIntegrationService(t *testing.T) (*app.Service, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	snapBytes, err := json.Marshal(integrationSnapshot())
	require.NoError(t, err)
	snapPath := writeFile(t, dir, "snapshot.json", snapBytes)
	logPath := filepath.Join(dir, "plans.jsonl")

	cfgYAML := fmt.Sprintf(`snapshots:
  path: %q
plan_log:
  enabled: true
  backend: "jsonl"
  path: %q
`, snapPath, logPath)
	cfgPath := writeFile(t, dir, "config.yaml", []byte(cfgYAML))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	svc, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, cfg
}

func TestServicePlansEndToEnd(t *testing.T) {
	svc, cfg := newIntegrationService(t)

	source, err := snapshots.NewFileSource(cfg.Snapshots)
	require.NoError(t, err)
	snap, err := source.Fetch(context.Background())
	require.NoError(t, err)

	input := model.PlanInput{
		ParkIDs:         []string{"magic-kingdom"},
		FavoriteRideIDs: []string{"space-mountain", "pirates", "carousel"},
		VisitDates:      []string{tripDate},
		Duration:        model.DurationFullDay,
	}
	tp, err := svc.Plan(context.Background(), input, snap)
	require.NoError(t, err)
	assert.Empty(t, tp.Unscheduled)
	require.Len(t, tp.Days, 1)

	placed := map[string]bool{}
	for _, it := range tp.Days[0].Items {
		if it.Kind == model.ItemRide && !it.ReRide {
			placed[it.RideID] = true
		}
	}
	for _, id := range input.FavoriteRideIDs {
		assert.True(t, placed[id], "ride %s missing", id)
	}

	// the outcome lands in the plan log
	store, err := planlog.Open(cfg.PlanLog)
	require.NoError(t, err)
	defer store.Close()
	recs, err := store.Query(context.Background(), planlog.Query{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, tp.ID, recs[0].PlanID)
	assert.Equal(t, "ok", recs[0].Outcome)
}

func TestAPIEndToEnd(t *testing.T) {
	svc, cfg := newIntegrationService(t)

	source, err := snapshots.NewFileSource(cfg.Snapshots)
	require.NoError(t, err)
	mux := http.NewServeMux()
	planapi.NewHandler(svc, source, nil, 10*time.Second).Register(mux)

	input := model.PlanInput{
		ParkIDs:         []string{"magic-kingdom"},
		FavoriteRideIDs: []string{"pirates", "carousel"},
		VisitDates:      []string{tripDate},
		Duration:        model.DurationFullDay,
	}
	body, err := json.Marshal(input)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/plan", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var tp model.TripPlan
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tp))
	assert.NotEmpty(t, tp.ID)
	assert.Len(t, tp.Days, 1)

	// invalid input surfaces as a 400 naming the field
	bad := input
	bad.FavoriteRideIDs = nil
	body, err = json.Marshal(bad)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/plan", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "favorite_ride_ids")
}
