// Package observability provides hooks for instrumenting the generation
// pipeline without hard dependencies on an observability backend.
//
// The allocation passes emit events at their named decision points (corner
// reservation outcomes, overflow placements, width capping, unit removal) so
// callers and tests can assert on specific decisions instead of parsing log
// text.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - PlannerHooks is the event interface
//   - NoopPlannerHooks is the default implementation
//   - a global registry allows process-wide instrumentation at startup
//
// Per-call hooks are also supported: pipeline.Options carries a Hooks field
// that overrides the registry for that call, keeping concurrent calls and
// tests isolated from shared state.
package observability

import (
	"sync"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
)

// PlannerHooks receives events from the allocation and generation passes.
type PlannerHooks interface {
	// OnCornerReserved records a successful corner-segment reservation.
	OnCornerReserved(segment int, unitType plan.UnitType)

	// OnCornerForced records a corner reservation that had to force-place
	// the smallest corner-eligible type because nothing fit.
	OnCornerForced(segment int, unitType plan.UnitType)

	// OnOverflowPlacement records a unit forced into the lowest-density
	// segment after the fill passes stalled.
	OnOverflowPlacement(segment int, unitType plan.UnitType)

	// OnStarvationTransfer records a unit moved into an otherwise empty
	// segment.
	OnStarvationTransfer(fromSegment, toSegment int, unitType plan.UnitType)

	// OnWidthCapped records a unit hitting its maximum width during slack
	// distribution.
	OnWidthCapped(unitType plan.UnitType, width, maxWidth float64)

	// OnUnitRemoved records an overflow removal: the segment was shorter
	// than the summed minimum widths.
	OnUnitRemoved(segment int, unitType plan.UnitType)

	// OnUnitSplit records an oversized boundary unit split by inserting an
	// extra smallest-type unit.
	OnUnitSplit(segment int, unitType plan.UnitType, excess float64)

	// OnMidCoreInserted records the egress-driven third core.
	OnMidCoreInserted(travelDistance, limit float64)

	// OnPlacementFailed records a unit dropped because a width or area
	// computation produced a non-finite value.
	OnPlacementFailed(unitType plan.UnitType, reason string)
}

// NoopPlannerHooks is a no-op implementation of PlannerHooks.
type NoopPlannerHooks struct{}

func (NoopPlannerHooks) OnCornerReserved(int, plan.UnitType)           {}
func (NoopPlannerHooks) OnCornerForced(int, plan.UnitType)             {}
func (NoopPlannerHooks) OnOverflowPlacement(int, plan.UnitType)        {}
func (NoopPlannerHooks) OnStarvationTransfer(int, int, plan.UnitType)  {}
func (NoopPlannerHooks) OnWidthCapped(plan.UnitType, float64, float64) {}
func (NoopPlannerHooks) OnUnitRemoved(int, plan.UnitType)              {}
func (NoopPlannerHooks) OnUnitSplit(int, plan.UnitType, float64)       {}
func (NoopPlannerHooks) OnMidCoreInserted(float64, float64)            {}
func (NoopPlannerHooks) OnPlacementFailed(plan.UnitType, string)       {}

var (
	plannerHooks PlannerHooks = NoopPlannerHooks{}
	hooksMu      sync.RWMutex
)

// SetPlannerHooks registers process-wide planner hooks. This should be
// called once at application startup before any generation runs.
func SetPlannerHooks(h PlannerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		plannerHooks = h
	}
}

// Planner returns the registered planner hooks.
func Planner() PlannerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return plannerHooks
}

// Reset restores the no-op default. This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	plannerHooks = NoopPlannerHooks{}
}

// Recorder is a PlannerHooks implementation that records events in order.
// It is intended for tests asserting on specific decision points.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

// Event is one recorded decision point.
type Event struct {
	Name     string
	Segment  int
	From     int
	UnitType plan.UnitType
	Value    float64
	Limit    float64
	Reason   string
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
}

// Named returns the recorded events with the given name.
func (r *Recorder) Named(name string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.Events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) OnCornerReserved(seg int, t plan.UnitType) {
	r.add(Event{Name: "corner_reserved", Segment: seg, UnitType: t})
}

func (r *Recorder) OnCornerForced(seg int, t plan.UnitType) {
	r.add(Event{Name: "corner_forced", Segment: seg, UnitType: t})
}

func (r *Recorder) OnOverflowPlacement(seg int, t plan.UnitType) {
	r.add(Event{Name: "overflow_placement", Segment: seg, UnitType: t})
}

func (r *Recorder) OnStarvationTransfer(from, to int, t plan.UnitType) {
	r.add(Event{Name: "starvation_transfer", Segment: to, From: from, UnitType: t})
}

func (r *Recorder) OnWidthCapped(t plan.UnitType, width, max float64) {
	r.add(Event{Name: "width_capped", UnitType: t, Value: width, Limit: max})
}

func (r *Recorder) OnUnitRemoved(seg int, t plan.UnitType) {
	r.add(Event{Name: "unit_removed", Segment: seg, UnitType: t})
}

func (r *Recorder) OnUnitSplit(seg int, t plan.UnitType, excess float64) {
	r.add(Event{Name: "unit_split", Segment: seg, UnitType: t, Value: excess})
}

func (r *Recorder) OnMidCoreInserted(travel, limit float64) {
	r.add(Event{Name: "mid_core_inserted", Value: travel, Limit: limit})
}

func (r *Recorder) OnPlacementFailed(t plan.UnitType, reason string) {
	r.add(Event{Name: "placement_failed", UnitType: t, Reason: reason})
}
