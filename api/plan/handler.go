// Package plan exposes the planning engine over HTTP.
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kerhervel/parkplan/core/model"
	"github.com/kerhervel/parkplan/core/planlog"
	"github.com/kerhervel/parkplan/infra/logger"
	"github.com/kerhervel/parkplan/infra/snapshots"
)

// Planner is the slice of the planning engine the handler needs.
type Planner interface {
	Plan(ctx context.Context, input model.PlanInput, snap model.Snapshot) (*model.TripPlan, error)
}

// Handler serves POST /api/plan and GET /api/plans.
type Handler struct {
	planner Planner
	source  snapshots.Source
	store   planlog.Store
	timeout time.Duration
	log     logger.Logger
}

// NewHandler builds the plan handler. store may be nil, in which case
// GET /api/plans returns 404.
func NewHandler(p Planner, src snapshots.Source, store planlog.Store, timeout time.Duration) *Handler {
	return &Handler{planner: p, source: src, store: store, timeout: timeout, log: logger.New("api-plan")}
}

// Register attaches the handler routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/plan", h.createPlan)
	mux.HandleFunc("GET /api/plans", h.listPlans)
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *Handler) createPlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var input model.PlanInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}

	snap, err := h.source.Fetch(ctx)
	if err != nil {
		h.log.Errorf("snapshot fetch: %v", err)
		w.Header().Set("Retry-After", "30")
		writeError(w, http.StatusServiceUnavailable, errorBody{Error: "snapshot unavailable"})
		return
	}

	tp, err := h.planner.Plan(ctx, input, snap)
	if err != nil {
		h.writePlanError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(tp); err != nil {
		h.log.Errorf("encode plan: %v", err)
	}
}

func (h *Handler) writePlanError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, errorBody{Error: verr.Reason, Field: verr.Field})
		return
	}
	var cerr *model.ScheduleConflictError
	if errors.As(err, &cerr) {
		writeError(w, http.StatusConflict, errorBody{Error: err.Error()})
		return
	}
	var serr *model.SnapshotError
	if errors.As(err, &serr) {
		w.Header().Set("Retry-After", "30")
		writeError(w, http.StatusServiceUnavailable, errorBody{Error: "snapshot unavailable"})
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusGatewayTimeout, errorBody{Error: "plan request timed out"})
		return
	}
	h.log.Errorf("plan: %v", err)
	writeError(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.NotFound(w, r)
		return
	}
	q := planlog.Query{}
	if s := r.URL.Query().Get("start"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.Start = t
		}
	}
	if s := r.URL.Query().Get("end"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.End = t
		}
	}
	q.ParkID = r.URL.Query().Get("park_id")
	records, err := h.store.Query(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		h.log.Errorf("encode records: %v", err)
	}
}
