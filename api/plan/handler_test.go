package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerhervel/parkplan/core/model"
	"github.com/kerhervel/parkplan/core/planlog"
	"github.com/kerhervel/parkplan/infra/snapshots"
)

type stubPlanner struct {
	plan *model.TripPlan
	err  error
}

func (s stubPlanner) Plan(context.Context, model.PlanInput, model.Snapshot) (*model.TripPlan, error) {
	return s.plan, s.err
}

type memStore struct{ recs []planlog.PlanRecord }

func (m *memStore) Append(_ context.Context, r planlog.PlanRecord) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memStore) Query(_ context.Context, q planlog.Query) ([]planlog.PlanRecord, error) {
	out := []planlog.PlanRecord{}
	for _, r := range m.recs {
		if q.ParkID == "" || contains(r.Parks, q.ParkID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) Close() error { return nil }

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func newMux(p Planner, src snapshots.Source, store planlog.Store) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(p, src, store, time.Second).Register(mux)
	return mux
}

func postPlan(t *testing.T, mux *http.ServeMux, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/plan", bytes.NewReader(b))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestCreatePlanOK(t *testing.T) {
	tp := &model.TripPlan{ID: "plan-1"}
	src := snapshots.StaticSource{Snap: model.Snapshot{Rides: []model.RideSelection{{ID: "a"}}}}
	mux := newMux(stubPlanner{plan: tp}, src, nil)

	rr := postPlan(t, mux, model.PlanInput{FavoriteRideIDs: []string{"a"}})
	require.Equal(t, http.StatusOK, rr.Code)

	var got model.TripPlan
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "plan-1", got.ID)
}

func TestCreatePlanValidationError(t *testing.T) {
	src := snapshots.StaticSource{Snap: model.Snapshot{Rides: []model.RideSelection{{ID: "a"}}}}
	perr := model.NewValidationError("visit_dates", "date %s is in the past", "2020-01-01")
	mux := newMux(stubPlanner{err: perr}, src, nil)

	rr := postPlan(t, mux, model.PlanInput{})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "visit_dates", body.Field)
}

func TestCreatePlanConflict(t *testing.T) {
	src := snapshots.StaticSource{Snap: model.Snapshot{Rides: []model.RideSelection{{ID: "a"}}}}
	cerr := &model.ScheduleConflictError{First: "Fireworks", Second: "Dinner"}
	mux := newMux(stubPlanner{err: cerr}, src, nil)

	rr := postPlan(t, mux, model.PlanInput{})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCreatePlanSnapshotUnavailable(t *testing.T) {
	src := snapshots.StaticSource{Err: &model.SnapshotError{Source: "file"}}
	mux := newMux(stubPlanner{}, src, nil)

	rr := postPlan(t, mux, model.PlanInput{})
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "30", rr.Header().Get("Retry-After"))
}

func TestCreatePlanBadBody(t *testing.T) {
	src := snapshots.StaticSource{Snap: model.Snapshot{Rides: []model.RideSelection{{ID: "a"}}}}
	mux := newMux(stubPlanner{}, src, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/plan", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListPlans(t *testing.T) {
	store := &memStore{recs: []planlog.PlanRecord{
		{PlanID: "p1", Parks: []string{"magic-kingdom"}},
		{PlanID: "p2", Parks: []string{"epcot"}},
	}}
	src := snapshots.StaticSource{Snap: model.Snapshot{}}
	mux := newMux(stubPlanner{}, src, store)

	req := httptest.NewRequest(http.MethodGet, "/api/plans?park_id=epcot", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got []planlog.PlanRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].PlanID)
}

func TestListPlansWithoutStore(t *testing.T) {
	src := snapshots.StaticSource{Snap: model.Snapshot{}}
	mux := newMux(stubPlanner{}, src, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
