// Package plan defines the data model shared by every stage of the floor
// plan generator: the canonical unit types, the building footprint, the
// allocation inventory, and the generated layout entities.
//
// # Unit types
//
// The allocation logic works on a closed set of four canonical unit types
// ordered by ascending target area: Smallest, Small, Large, Largest.
// Data-driven type lists from configuration files are mapped onto this set
// at the boundary (see package config); the core never deals with open type
// lists, so "largest", "smallest" and "next larger" reasoning stays exact.
//
// # Lifecycle
//
// Every entity here is created fresh per generation call. Nothing in this
// package (or in the packages that consume it) holds process-wide mutable
// state; colors, loggers and hooks are threaded through per-call options.
package plan

import "github.com/DanielGameiroAutodesk/floorplate-generator/pkg/geom"

// UnitType identifies one of the four canonical unit size classes,
// ordered by ascending target area.
type UnitType int

const (
	UnitSmallest UnitType = iota
	UnitSmall
	UnitLarge
	UnitLargest

	// NumUnitTypes is the size of the canonical type set.
	NumUnitTypes = 4
)

// String returns the canonical name of the unit type.
func (t UnitType) String() string {
	switch t {
	case UnitSmallest:
		return "smallest"
	case UnitSmall:
		return "small"
	case UnitLarge:
		return "large"
	case UnitLargest:
		return "largest"
	}
	return "unknown"
}

// AllUnitTypes lists the canonical types in ascending area order.
func AllUnitTypes() []UnitType {
	return []UnitType{UnitSmallest, UnitSmall, UnitLarge, UnitLargest}
}

// UnitTypeConfig describes the target mix for one canonical type.
// TargetArea is an absolute floor: a generated unit may grow past it but
// never shrinks below it.
type UnitTypeConfig struct {
	// Name is the display name from the source configuration (e.g. "studio").
	Name string `json:"name,omitempty"`

	// Percentage is the requested share of the unit count, 0-100.
	Percentage float64 `json:"percentage"`

	// TargetArea is the minimum area in square meters.
	TargetArea float64 `json:"target_area"`

	// CornerEligible overrides the default corner eligibility when set.
	CornerEligible *bool `json:"corner_eligible,omitempty"`
}

// Mix is the canonical 4-slot unit mix, indexed by UnitType.
type Mix [NumUnitTypes]UnitTypeConfig

// TotalPercentage sums the percentage shares of all types.
func (m Mix) TotalPercentage() float64 {
	var sum float64
	for _, c := range m {
		sum += c.Percentage
	}
	return sum
}

// Present reports whether the type participates in the mix.
func (m Mix) Present(t UnitType) bool { return m[t].Percentage > 0 }

// LargestPresent returns the largest type with a non-zero percentage.
// Falls back to UnitLargest when the mix is empty.
func (m Mix) LargestPresent() UnitType {
	for t := UnitLargest; t > UnitSmallest; t-- {
		if m.Present(t) {
			return t
		}
	}
	return UnitLargest
}

// NextLargerPresent returns the next type above t that participates in the
// mix, and false when t is the largest present.
func (m Mix) NextLargerPresent(t UnitType) (UnitType, bool) {
	for n := t + 1; n < NumUnitTypes; n++ {
		if m.Present(n) {
			return n, true
		}
	}
	return t, false
}

// BuildingFootprint is the rectangular footprint the plan is generated for.
// It is produced by an external extraction step and treated as immutable.
type BuildingFootprint struct {
	Length    float64    `json:"length"` // corridor-axis span, meters
	Depth     float64    `json:"depth"`  // across-corridor span, meters
	Rotation  float64    `json:"rotation"`
	Center    geom.Point `json:"center"`
	Elevation float64    `json:"elevation"`
}

// EgressConfig holds the fire-egress distance limits, in meters.
// The generator validates against these advisorily; it never refuses to
// produce a layout.
type EgressConfig struct {
	Sprinklered         bool    `json:"sprinklered"`
	DeadEndLimit        float64 `json:"dead_end_limit"`
	TravelDistanceLimit float64 `json:"travel_distance_limit"`
	CommonPathLimit     float64 `json:"common_path_limit"`
}

// Strategy selects the generation trade-off preset.
type Strategy int

const (
	// StrategyBalanced trades mix accuracy against fill evenly.
	StrategyBalanced Strategy = iota
	// StrategyMixAccuracy favors hitting the requested mix percentages.
	StrategyMixAccuracy
	// StrategyEfficiency favors maximum rentable fill.
	StrategyEfficiency
)

// String returns the strategy label used in variant output.
func (s Strategy) String() string {
	switch s {
	case StrategyBalanced:
		return "balanced"
	case StrategyMixAccuracy:
		return "mixOptimized"
	case StrategyEfficiency:
		return "efficiencyOptimized"
	}
	return "unknown"
}

// OrderPattern controls the cosmetic left-to-right ordering of units within
// a segment.
type OrderPattern int

const (
	OrderDescending OrderPattern = iota
	OrderAscending
	OrderValley // largest at both ends, smallest in the middle
	OrderRandom // seeded shuffle, deterministic per seed
)

// Side identifies one of the two unit rows facing the corridor.
type Side int

const (
	SideCore  Side = iota // the row carrying the circulation cores
	SideClear             // the row without cores
)

// String returns "core" or "clear".
func (s Side) String() string {
	if s == SideCore {
		return "core"
	}
	return "clear"
}

// UnitCounts maps each canonical type to a non-negative unit count.
type UnitCounts map[UnitType]int

// Total sums all counts.
func (c UnitCounts) Total() int {
	var n int
	for _, v := range c {
		n += v
	}
	return n
}

// Clone returns an independent copy.
func (c UnitCounts) Clone() UnitCounts {
	out := make(UnitCounts, len(c))
	for t, v := range c {
		out[t] = v
	}
	return out
}

// Segment is a contiguous span of one side's rentable length between two
// breaks (building end or core footprint). It is the unit of allocation for
// the segment distributor.
type Segment struct {
	Start  float64 // offset along the corridor axis
	Length float64

	// CornerLeft / CornerRight mark facade corners at the segment edges.
	CornerLeft  bool
	CornerRight bool

	// BonusArea is the wrap-gap credit from an adjacent core, in square
	// meters. BonusLeft tells which edge the crediting core touches.
	BonusArea float64
	BonusLeft bool
}

// Corner reports whether the segment touches a building end.
func (s Segment) Corner() bool { return s.CornerLeft || s.CornerRight }

// End returns the segment's end offset.
func (s Segment) End() float64 { return s.Start + s.Length }

// CoreRole distinguishes corner-bay cores from mid-span cores.
type CoreRole string

const (
	CoreEnd CoreRole = "End"
	CoreMid CoreRole = "Mid"
)

// CoreBlock is a vertical circulation block (stairs/elevator).
type CoreBlock struct {
	Rect geom.Rect `json:"rect"`
	Side Side      `json:"side"`
	Role CoreRole  `json:"role"`
}

// UnitBlock is one generated residential unit. Width is along the corridor
// axis. Shape carries the L-polygon when the unit wraps a core or absorbs a
// corridor void; otherwise Shape.Base equals the plain rectangle.
type UnitBlock struct {
	Type  UnitType      `json:"type"`
	Side  Side          `json:"side"`
	Rect  geom.Rect     `json:"rect"`
	Area  float64       `json:"area"`
	Shape geom.LPolygon `json:"shape"`
}

// Filler is a leftover-space block materialized so no floor area renders as
// a hole. Fillers are a degenerate fallback, not a primary mechanism.
type Filler struct {
	Side Side      `json:"side"`
	Rect geom.Rect `json:"rect"`
}

// Stats aggregates the generated plan.
type Stats struct {
	GSF           float64            `json:"gsf"`  // gross floor area
	NRSF          float64            `json:"nrsf"` // net rentable area
	Efficiency    float64            `json:"efficiency"`
	TotalUnits    int                `json:"total_units"`
	PerTypeCounts map[string]int     `json:"per_type_counts"`
	PerTypeAreas  map[string]float64 `json:"per_type_areas"`
}

// EgressStatus is the advisory pass/fail verdict for one egress measure.
type EgressStatus string

const (
	EgressPass EgressStatus = "pass"
	EgressFail EgressStatus = "fail"
)

// EgressResult reports the measured worst-case egress distances against the
// configured limits.
type EgressResult struct {
	MaxDeadEnd           float64      `json:"max_dead_end"`
	MaxTravelDistance    float64      `json:"max_travel_distance"`
	DeadEndStatus        EgressStatus `json:"dead_end_status"`
	TravelDistanceStatus EgressStatus `json:"travel_distance_status"`
}

// FloorPlanData is the root output of one generation call.
type FloorPlanData struct {
	Units    []UnitBlock `json:"units"`
	Cores    []CoreBlock `json:"cores"`
	Fillers  []Filler    `json:"fillers"`
	Corridor geom.Rect   `json:"corridor"`

	BuildingLength float64        `json:"building_length"`
	BuildingDepth  float64        `json:"building_depth"`
	FloorElevation float64        `json:"floor_elevation"`
	Transform      geom.Transform `json:"transform"`

	Stats    Stats        `json:"stats"`
	Egress   EgressResult `json:"egress"`
	Warnings []string     `json:"warnings,omitempty"`
}
