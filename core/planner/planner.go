package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kerhervel/parkplan/core/logger"
	"github.com/kerhervel/parkplan/core/model"
	"github.com/kerhervel/parkplan/core/prediction"
	"github.com/kerhervel/parkplan/core/refdata"
	"github.com/kerhervel/parkplan/internal/eventbus"
)

// PhaseEvent is published on the event bus after each pipeline phase.
type PhaseEvent struct {
	Phase    string
	Day      int // -1 for trip-wide phases
	Placed   int
	Duration time.Duration
}

// Planner runs the scheduling pipeline. It holds only configuration and
// read-only reference data; per-request state never outlives a Plan call, so
// one Planner serves concurrent requests.
type Planner struct {
	cfg      Config
	predCfg  prediction.Config
	pred     prediction.Engine
	tables   *refdata.Tables
	log      logger.Logger
	bus      eventbus.EventBus
	strategy PlacementStrategy
	now      func() time.Time
	failFast bool
}

// Option customises a Planner.
type Option func(*Planner)

// WithBus publishes PhaseEvents on the given bus.
func WithBus(bus eventbus.EventBus) Option {
	return func(p *Planner) { p.bus = bus }
}

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithPredictionConfig tunes the fallback curve substitution.
func WithPredictionConfig(cfg prediction.Config) Option {
	return func(p *Planner) { p.predCfg = cfg }
}

// WithPredictionEngine overrides where wait curves come from. By default
// curves are served straight from the request's snapshot.
func WithPredictionEngine(e prediction.Engine) Option {
	return func(p *Planner) { p.pred = e }
}

// WithFailFast makes internal invariant violations panic instead of being
// logged and skipped. Tests run with this enabled.
func WithFailFast() Option {
	return func(p *Planner) { p.failFast = true }
}

// New builds a Planner from configuration and reference tables.
func New(cfg Config, tables *refdata.Tables, log logger.Logger, opts ...Option) (*Planner, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	if tables == nil {
		return nil, fmt.Errorf("reference tables are required")
	}
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("reference tables: %w", err)
	}
	strategy, err := strategyFor(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	p := &Planner{
		cfg:      cfg,
		tables:   tables,
		log:      log,
		strategy: strategy,
		now:      time.Now,
	}
	p.predCfg.SetDefaults()
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// dayBuild is the working state of one trip day during planning.
type dayBuild struct {
	spec     daySpec
	segments []*timeline
	segParks []string
	hopItem  *model.ItineraryItem
	placed   []model.RideSelection
	dropped  []model.UnscheduledRide
}

// Plan turns a request and its immutable snapshot into a TripPlan. The
// computation is pure and synchronous; cancellation via ctx discards the
// in-flight result and nothing partial is ever returned.
func (p *Planner) Plan(ctx context.Context, input model.PlanInput, snap model.Snapshot) (*model.TripPlan, error) {
	req, err := p.normalize(input, snap)
	if err != nil {
		return nil, err
	}

	// Resolve wait curves through the prediction engine, then degrade
	// missing or partial data to category-median curves before any
	// placement; affected items surface as estimated.
	start := p.phaseStart()
	engine := p.pred
	if engine == nil {
		engine = prediction.NewSnapshotEngine(snap)
	}
	rides := make([]model.RideSelection, len(snap.Rides))
	copy(rides, snap.Rides)
	for i := range rides {
		if c, ok := engine.Curve(rides[i].ID); ok {
			rides[i].Curve = c
		}
	}
	snap.Rides = rides
	for _, d := range req.days {
		snap = prediction.FillMissing(snap, d.date, p.predCfg)
	}
	for i, r := range req.rides {
		if filled, ok := snap.Ride(r.ID); ok {
			req.rides[i].Curve = filled.Curve
		}
	}
	p.phaseDone("prediction", -1, len(req.rides), start)

	start = p.phaseStart()
	assignment, unscheduled := p.distribute(req)
	p.phaseDone("distribute", -1, len(assignment), start)

	builds := make([]*dayBuild, len(req.days))
	for i := range req.days {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		build, dayUnscheduled, err := p.planDay(req, i, assignment)
		if err != nil {
			return nil, err
		}
		builds[i] = build
		unscheduled = append(unscheduled, dayUnscheduled...)
	}

	// The capacity estimate is conservative; give its leftovers one more
	// chance against each day's actual remaining gaps.
	unscheduled = p.retryUnscheduled(req, builds, assignment, unscheduled)

	// Re-rides only once every mandatory ride trip-wide has been placed;
	// slack stays reserved while a ride is still dropped for lack of time.
	start = p.phaseStart()
	if !hasReason(unscheduled, model.ReasonInsufficientTime) {
		for _, b := range builds {
			if len(b.segments) == 0 {
				continue
			}
			p.insertReRides(b.segments[len(b.segments)-1], b.placed)
		}
	}
	p.phaseDone("re-ride", -1, 0, start)

	return p.assembleTrip(req, builds, assignment, unscheduled)
}

// planDay runs the per-day phases: anchors, headliners, rope drop, scored
// fill, and the park hop when the day spans two parks.
func (p *Planner) planDay(req *request, day int, assignment map[string]int) (*dayBuild, []model.UnscheduledRide, error) {
	spec := req.days[day]
	build := &dayBuild{spec: spec}

	var dayRides []model.RideSelection
	for _, r := range req.rides {
		if d, ok := assignment[r.ID]; ok && d == day {
			dayRides = append(dayRides, r)
		}
	}

	var unscheduled []model.UnscheduledRide
	openParks := make([]string, 0, len(spec.parks))
	for _, park := range spec.parks {
		if _, ok := spec.hours[park]; ok {
			openParks = append(openParks, park)
		}
	}
	if len(openParks) == 0 {
		for _, r := range dayRides {
			delete(assignment, r.ID)
			unscheduled = append(unscheduled, model.UnscheduledRide{RideID: r.ID, Reason: model.ReasonParkClosed})
		}
		return build, unscheduled, nil
	}

	hop := len(openParks) > 1
	var leftovers []model.RideSelection
	for segIdx, park := range openParks {
		if segIdx >= p.cfg.MaxHopsPerDay+1 {
			break
		}
		hours := spec.hours[park]
		open, closeAt := p.windowFor(req.input, hours)

		if segIdx > 0 {
			// earliest legal hop: previous segment's last block plus the
			// resort transition time
			prev := build.segments[segIdx-1]
			from := openParks[segIdx-1]
			hopStart := prev.lastEnd()
			hopEnd := hopStart.Add(minutes(p.tables.Transition(from, park)))
			if !hopEnd.Before(closeAt) {
				for _, r := range dayRides {
					if r.ParkID == park {
						delete(assignment, r.ID)
						unscheduled = append(unscheduled, model.UnscheduledRide{RideID: r.ID, Reason: model.ReasonInsufficientTime})
					}
				}
				break
			}
			build.hopItem = &model.ItineraryItem{
				Kind:      model.ItemHop,
				Name:      fmt.Sprintf("Park hop: %s to %s", from, park),
				ParkID:    park,
				Start:     hopStart,
				End:       hopEnd,
				Reasoning: "earliest legal transition after the last planned stop",
			}
			if hopEnd.After(open) {
				open = hopEnd
			}
		} else if hop {
			// keep the first segment clear of the second park's binding
			// anchors: the hop plus transition must arrive in time
			if bound, ok := p.firstSegmentBound(spec, park, openParks[1]); ok && bound.Before(closeAt) {
				closeAt = bound
			}
		}

		tl := newTimeline(open, closeAt)
		dropped, err := p.placeAnchors(tl, spec.anchors, park)
		if err != nil {
			return nil, nil, err
		}
		build.dropped = append(build.dropped, dropped...)

		var segRides []model.RideSelection
		for _, r := range dayRides {
			if r.ParkID == park {
				segRides = append(segRides, r)
			}
		}

		sc := &scoreContext{cfg: p.cfg, tables: p.tables, input: req.input}
		var headliners, others []model.RideSelection
		for _, r := range segRides {
			if r.Headliner {
				headliners = append(headliners, r)
			} else {
				others = append(others, r)
			}
		}

		start := p.phaseStart()
		rest := p.strategy.PlaceHeadliners(tl, headliners, sc)
		p.phaseDone("headliner", day, len(headliners)-len(rest), start)

		if segIdx == 0 {
			var ropeDropRides, later []model.RideSelection
			for _, r := range append(rest, others...) {
				if r.RopeDrop && !tl.hasRide(r.ID) {
					ropeDropRides = append(ropeDropRides, r)
				} else {
					later = append(later, r)
				}
			}
			start = p.phaseStart()
			notPlaced := p.placeRopeDrop(tl, ropeDropRides)
			p.phaseDone("rope-drop", day, len(ropeDropRides)-len(notPlaced), start)
			rest = append(notPlaced, later...)
		} else {
			rest = append(rest, others...)
		}

		start = p.phaseStart()
		segLeft := p.strategy.FillSlots(tl, rest, sc)
		p.phaseDone("slot-fill", day, len(rest)-len(segLeft), start)

		leftovers = append(leftovers, segLeft...)
		build.segments = append(build.segments, tl)
		build.segParks = append(build.segParks, park)
		for _, r := range segRides {
			if tl.hasRide(r.ID) {
				build.placed = append(build.placed, r)
			}
		}
	}

	for _, r := range leftovers {
		delete(assignment, r.ID)
		unscheduled = append(unscheduled, model.UnscheduledRide{RideID: r.ID, Reason: model.ReasonInsufficientTime})
	}
	return build, unscheduled, nil
}

// firstSegmentBound caps the first park's window so that a hop still reaches
// the second park's earliest must-see anchor in time.
func (p *Planner) firstSegmentBound(spec daySpec, firstPark, secondPark string) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, a := range spec.anchors {
		if a.ParkID != secondPark || a.Priority != model.AnchorMustSee {
			continue
		}
		if !found || a.Start.Before(earliest) {
			earliest = a.Start
			found = true
		}
	}
	if !found {
		return time.Time{}, false
	}
	return earliest.Add(-minutes(p.tables.Transition(firstPark, secondPark))), true
}

// planID derives a deterministic id from the request and snapshot epoch, so
// identical inputs produce identical plans byte for byte.
func planID(input model.PlanInput, takenAt time.Time) string {
	seed := fmt.Sprintf("%v|%v|%v|%v|%s",
		input.ParkIDs, input.FavoriteRideIDs, input.VisitDates, input.Hopping,
		takenAt.UTC().Format(time.RFC3339))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

func (p *Planner) phaseStart() time.Time { return time.Now() }

func (p *Planner) phaseDone(phase string, day, placed int, start time.Time) {
	if p.bus != nil {
		p.bus.Publish(PhaseEvent{Phase: phase, Day: day, Placed: placed, Duration: time.Since(start)})
	}
	if p.log != nil {
		p.log.Debugw("phase complete", map[string]any{
			"phase": phase, "day": day, "placed": placed,
		})
	}
}

// invariant reports a programming-contract violation: panic under test,
// log-and-skip in production so one bad block cannot corrupt the plan.
func (p *Planner) invariant(format string, args ...any) {
	if p.failFast {
		panic(fmt.Sprintf(format, args...))
	}
	if p.log != nil {
		p.log.Errorf("invariant violated: "+format, args...)
	}
}

// sortUnscheduled orders the unscheduled list for stable output.
func sortUnscheduled(list []model.UnscheduledRide) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].RideID != list[j].RideID {
			return list[i].RideID < list[j].RideID
		}
		return list[i].Reason < list[j].Reason
	})
}
