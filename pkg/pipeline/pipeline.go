// Package pipeline provides the floor plan generation pipeline.
//
// This package implements the complete solve → optimize → distribute →
// generate → post-process flow that can be used by CLI and API components.
// By centralizing this logic, we ensure consistent behavior across all
// entry points.
//
// # Architecture
//
// Generation runs in five stages:
//
//  1. Solve: compute building-wide unit counts and split them per side
//  2. Optimize: grid-search corner-bay length and mid-core offset
//  3. Distribute: assign each side's inventory to its wall segments
//  4. Generate: size and order the units within each segment
//  5. Post-process: wall alignment, core wrapping, void absorption,
//     filler detection, stats and egress validation
//
// # Usage
//
//	opts := pipeline.Options{
//	    Footprint: plan.BuildingFootprint{Length: 60, Depth: 18},
//	    Mix:       mix,
//	}
//	result, err := pipeline.Generate(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Generation is a pure function of its options: no package state survives a
// call, and per-call loggers, hooks, and color overrides keep concurrent
// calls independent.
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/errors"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/observability"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/egress"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCorridorWidth is a standard double-loaded corridor, meters.
	DefaultCorridorWidth = 1.83

	// DefaultCoreWidth is the corridor-axis span of one stair/elevator core.
	DefaultCoreWidth = 3.5

	// DefaultCoreDepth is how far a core reaches from the corridor toward
	// the facade. A core shallower than the rentable depth leaves a wrap
	// gap for an adjacent L-shaped unit.
	DefaultCoreDepth = 6.0

	// DefaultSeed is the default random seed for reproducibility of the
	// random ordering pattern.
	DefaultSeed = uint64(42)
)

// CoreSide placement choices.
const (
	CoreSideFront = "front" // cores on the low-y row (default)
	CoreSideBack  = "back"  // cores on the high-y row
)

// Options contains all configuration for one generation call.
// This struct supports JSON serialization for API requests.
type Options struct {
	Footprint plan.BuildingFootprint `json:"footprint"`
	Mix       plan.Mix               `json:"mix"`

	// Egress limits; zero limits are filled from the sprinklered defaults.
	Egress plan.EgressConfig `json:"egress,omitempty"`

	// Geometry knobs
	CorridorWidth float64 `json:"corridor_width,omitempty"`
	CoreWidth     float64 `json:"core_width,omitempty"`
	CoreDepth     float64 `json:"core_depth,omitempty"`
	CoreSide      string  `json:"core_side,omitempty"`

	// Alignment strength in [0,1]. Above align.StrictThreshold the clear
	// side is mirrored from the core side instead of nudged.
	Alignment float64 `json:"alignment,omitempty"`

	Strategy plan.Strategy `json:"strategy,omitempty"`

	// Pattern overrides the strategy's default unit ordering when set.
	Pattern *plan.OrderPattern `json:"pattern,omitempty"`

	// Seed drives the random ordering pattern only.
	Seed uint64 `json:"seed,omitempty"`

	// Colors maps unit types to per-call render color overrides. Threaded
	// explicitly so concurrent calls with different palettes stay safe.
	Colors map[plan.UnitType]string `json:"colors,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger                `json:"-"`
	Hooks  observability.PlannerHooks `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Footprint.Length <= 0 || o.Footprint.Depth <= 0 {
		return errors.New(errors.ErrCodeInvalidFootprint,
			"footprint must have positive length and depth, got %.2f x %.2f",
			o.Footprint.Length, o.Footprint.Depth)
	}
	for _, t := range plan.AllUnitTypes() {
		c := o.Mix[t]
		if c.Percentage < 0 || c.Percentage > 100 {
			return errors.New(errors.ErrCodeInvalidMix,
				"%s percentage %.1f outside [0,100]", t, c.Percentage)
		}
		if c.Percentage > 0 && c.TargetArea <= 0 {
			return errors.New(errors.ErrCodeInvalidMix,
				"%s has %.1f%% share but no target area", t, c.Percentage)
		}
	}
	if o.Alignment < 0 || o.Alignment > 1 {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"alignment %.2f outside [0,1]", o.Alignment)
	}

	if o.CorridorWidth <= 0 {
		o.CorridorWidth = DefaultCorridorWidth
	}
	if o.CoreWidth <= 0 {
		o.CoreWidth = DefaultCoreWidth
	}
	if o.CoreDepth <= 0 {
		o.CoreDepth = DefaultCoreDepth
	}
	if o.CoreSide == "" {
		o.CoreSide = CoreSideFront
	}
	if o.CoreSide != CoreSideFront && o.CoreSide != CoreSideBack {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"core_side must be %q or %q, got %q", CoreSideFront, CoreSideBack, o.CoreSide)
	}
	if o.Footprint.Depth <= o.CorridorWidth {
		return errors.New(errors.ErrCodeInfeasible,
			"footprint depth %.2f leaves no rentable depth beside a %.2f corridor",
			o.Footprint.Depth, o.CorridorWidth)
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Egress.DeadEndLimit <= 0 && o.Egress.TravelDistanceLimit <= 0 {
		o.Egress = egress.DefaultLimits(o.Egress.Sprinklered)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Hooks == nil {
		o.Hooks = observability.Planner()
	}

	o.validated = true
	return nil
}

// RentableDepth returns the depth of one unit row.
func (o *Options) RentableDepth() float64 {
	return (o.Footprint.Depth - o.CorridorWidth) / 2
}

// OrderPattern returns the effective unit ordering: the explicit override
// when present, else the strategy's default.
func (o *Options) OrderPattern() plan.OrderPattern {
	if o.Pattern != nil {
		return *o.Pattern
	}
	switch o.Strategy {
	case plan.StrategyMixAccuracy:
		return plan.OrderDescending
	case plan.StrategyEfficiency:
		return plan.OrderAscending
	default:
		return plan.OrderValley
	}
}
