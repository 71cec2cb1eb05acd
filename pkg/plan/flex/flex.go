// Package flex is the flexibility model: stateless lookups mapping a unit
// type and mix configuration to its target width, maximum width, expansion
// weight, and corner/L-shape eligibility.
//
// Target areas are absolute floors. Layouts grow units to absorb leftover
// length, never shrink them, so everything here is phrased as "how far past
// target may this type expand, and how much of the slack should it take".
//
// The numeric constants are empirical tuning values. Changing one is a
// deliberate tuning decision; tests pin the current values.
package flex

import "github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"

const (
	// SmallestMaxFactor caps the smallest type at a sliver past target.
	SmallestMaxFactor = 1.15

	// LShapeAreaThreshold gates L-shape eligibility for the second-smallest
	// type: below this target area the unit is too lean to wrap a core.
	LShapeAreaThreshold = 70.0
)

// expansionWeights is the relative capacity of each type to absorb leftover
// length. The steep skew toward the largest type reflects how rigid small
// units are in the market: a studio a meter wider rents no better, a
// penthouse does.
var expansionWeights = [plan.NumUnitTypes]float64{1, 30, 150, 500}

// TargetWidth returns the minimum corridor-axis width for a type at the
// given rentable depth. Units never render narrower than this.
func TargetWidth(t plan.UnitType, mix plan.Mix, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return mix[t].TargetArea / depth
}

// ExpansionWeight returns the slack-distribution weight for a type.
func ExpansionWeight(t plan.UnitType) float64 {
	return expansionWeights[t]
}

// MaxWidth returns the width cap for a type under the given mix.
//
// The smallest type stays within SmallestMaxFactor of target. Every other
// type that is not the largest present in the mix is capped at the next
// larger present type's target width, so a unit never visually outgrows the
// next size class. The largest present type is capped near target plus one
// smallest-type width: past that point the segment should hold another unit
// instead of one silently swollen mega-unit.
func MaxWidth(t plan.UnitType, mix plan.Mix, depth float64) float64 {
	target := TargetWidth(t, mix, depth)
	if t == plan.UnitSmallest {
		return target * SmallestMaxFactor
	}
	if next, ok := mix.NextLargerPresent(t); ok {
		return TargetWidth(next, mix, depth)
	}
	return target + TargetWidth(plan.UnitSmallest, mix, depth)
}

// CornerEligible reports whether a type may occupy a facade-corner slot.
// An explicit per-type override wins; otherwise the top two types by area
// present in the mix default to eligible.
func CornerEligible(t plan.UnitType, mix plan.Mix) bool {
	if mix[t].CornerEligible != nil {
		return *mix[t].CornerEligible
	}
	rank := 0
	for o := plan.UnitLargest; o > t; o-- {
		if mix.Present(o) {
			rank++
		}
	}
	return mix.Present(t) && rank < 2
}

// LShapeEligible reports whether a type may become non-rectangular by
// wrapping a core gap or absorbing a corridor-end void. The smallest type
// never qualifies; the second-smallest only above an area threshold; the two
// largest always do.
func LShapeEligible(t plan.UnitType, mix plan.Mix) bool {
	switch t {
	case plan.UnitSmallest:
		return false
	case plan.UnitSmall:
		return mix[t].TargetArea >= LShapeAreaThreshold
	default:
		return true
	}
}

// SafetyFactor scales the available length before the unit-count estimate,
// trading mix accuracy against over/under-fill per strategy.
func SafetyFactor(s plan.Strategy) float64 {
	switch s {
	case plan.StrategyMixAccuracy:
		return 0.97
	case plan.StrategyEfficiency:
		return 1.0
	default:
		return 0.985
	}
}

// CornerTypesDescending lists corner-eligible types present in the mix,
// largest area first. The segment distributor reserves corners in this
// order.
func CornerTypesDescending(mix plan.Mix) []plan.UnitType {
	var out []plan.UnitType
	for t := plan.UnitLargest; t >= plan.UnitSmallest; t-- {
		if mix.Present(t) && CornerEligible(t, mix) {
			out = append(out, t)
		}
	}
	return out
}
