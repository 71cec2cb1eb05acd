// Package solver computes per-type unit counts for a linear length under a
// target mix. It maximizes the unit count that still fits when every unit
// sits at its minimum target width, so the expand-only floor is never
// violated by construction.
package solver

import (
	"math"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/flex"
)

const eps = 1e-9

// Options configures one counting run.
type Options struct {
	// Length is the usable linear length in meters.
	Length float64

	// Depth is the rentable depth used to convert target areas to widths.
	Depth float64

	// BonusArea is wrap-gap area credited to the length (converted through
	// Depth before estimation).
	BonusArea float64

	// MinCount is the lower clamp for the candidate count, normally the
	// number of segments the inventory must cover.
	MinCount int

	Mix      plan.Mix
	Strategy plan.Strategy
}

func (o Options) usableLength() float64 {
	usable := o.Length
	if o.Depth > 0 && o.BonusArea > 0 {
		usable += o.BonusArea / o.Depth
	}
	return usable
}

// Count computes the per-type unit counts for the configured length.
//
// The candidate count is the safety-scaled usable length over the
// percentage-weighted average target width. Starting there, the count is
// pushed upward as long as the summed per-type minimum widths still fit;
// if even the candidate does not fit, it is walked downward. A zero-total
// percentage mix or a length below the narrowest target width yields
// all-zero counts, which callers treat as "no layout for this side".
//
// Every type with a non-zero percentage is guaranteed at least one unit by
// transferring from the most abundant type. Corner-eligible supply is never
// manufactured beyond what the mix yields.
func Count(opts Options) plan.UnitCounts {
	counts := make(plan.UnitCounts, plan.NumUnitTypes)
	totalPct := opts.Mix.TotalPercentage()
	if totalPct <= 0 || opts.Depth <= 0 || opts.Length <= 0 {
		return counts
	}

	usable := opts.usableLength()

	var avgWidth, minWidth float64
	minWidth = math.Inf(1)
	for _, t := range plan.AllUnitTypes() {
		if !opts.Mix.Present(t) {
			continue
		}
		w := flex.TargetWidth(t, opts.Mix, opts.Depth)
		avgWidth += (opts.Mix[t].Percentage / totalPct) * w
		if w < minWidth {
			minWidth = w
		}
	}
	if avgWidth <= 0 || usable < minWidth {
		return counts
	}

	physMax := int(usable / minWidth)
	candidate := int(flex.SafetyFactor(opts.Strategy) * usable / avgWidth)
	if candidate < opts.MinCount {
		candidate = opts.MinCount
	}
	if candidate < 1 {
		candidate = 1
	}
	if candidate > physMax {
		candidate = physMax
	}

	best := 0
	if fits(allocate(candidate, opts.Mix, totalPct), opts, usable) {
		best = candidate
		for n := candidate + 1; n <= physMax; n++ {
			if !fits(allocate(n, opts.Mix, totalPct), opts, usable) {
				break
			}
			best = n
		}
	} else {
		for n := candidate - 1; n >= 1; n-- {
			if fits(allocate(n, opts.Mix, totalPct), opts, usable) {
				best = n
				break
			}
		}
	}
	if best == 0 {
		return counts
	}

	counts = allocate(best, opts.Mix, totalPct)
	guaranteePresence(counts, opts.Mix)
	return counts
}

// allocate distributes n units across types by largest-remainder rounding of
// each type's percentage share.
func allocate(n int, mix plan.Mix, totalPct float64) plan.UnitCounts {
	counts := make(plan.UnitCounts, plan.NumUnitTypes)
	type rem struct {
		t    plan.UnitType
		frac float64
	}
	var rems []rem
	assigned := 0
	for _, t := range plan.AllUnitTypes() {
		if !mix.Present(t) {
			continue
		}
		exact := float64(n) * mix[t].Percentage / totalPct
		whole := int(exact)
		counts[t] = whole
		assigned += whole
		rems = append(rems, rem{t, exact - float64(whole)})
	}
	// Largest fractional remainder first; ties go to the larger type so a
	// contested unit lands where it absorbs the most slack later.
	for i := 0; i < len(rems); i++ {
		for j := i + 1; j < len(rems); j++ {
			a, b := rems[i], rems[j]
			if b.frac > a.frac+eps || (math.Abs(b.frac-a.frac) <= eps && b.t > a.t) {
				rems[i], rems[j] = rems[j], rems[i]
			}
		}
	}
	for i := 0; assigned < n && i < len(rems); i++ {
		counts[rems[i].t]++
		assigned++
	}
	return counts
}

// fits reports whether the counts' summed minimum widths fit the usable
// length.
func fits(counts plan.UnitCounts, opts Options, usable float64) bool {
	var sum float64
	for t, n := range counts {
		sum += float64(n) * flex.TargetWidth(t, opts.Mix, opts.Depth)
	}
	return sum <= usable+eps
}

// guaranteePresence ensures every type with a non-zero percentage appears at
// least once, transferring from the most abundant type when possible.
func guaranteePresence(counts plan.UnitCounts, mix plan.Mix) {
	for _, t := range plan.AllUnitTypes() {
		if !mix.Present(t) || counts[t] > 0 {
			continue
		}
		donor, donorCount := t, 0
		for _, d := range plan.AllUnitTypes() {
			if d != t && counts[d] > donorCount {
				donor, donorCount = d, counts[d]
			}
		}
		if donorCount > 1 {
			counts[donor]--
			counts[t]++
		}
	}
}

// Split divides building-wide counts between the two corridor sides.
//
// Each side is first guaranteed up to two units of every corner-eligible
// type for its two facade corners, core side served first; what remains is
// split proportionally to each side's length share. The guarantee only
// draws from the inventory; an undersupplied corner-eligible type simply
// runs out, and some corners later fall back to a smaller eligible type.
func Split(total plan.UnitCounts, mix plan.Mix, coreSideLength, clearSideLength float64) (coreSide, clearSide plan.UnitCounts) {
	coreSide = make(plan.UnitCounts, plan.NumUnitTypes)
	clearSide = make(plan.UnitCounts, plan.NumUnitTypes)
	remaining := total.Clone()

	for _, t := range flex.CornerTypesDescending(mix) {
		g := min(2, remaining[t])
		coreSide[t] += g
		remaining[t] -= g
		g = min(2, remaining[t])
		clearSide[t] += g
		remaining[t] -= g
	}

	span := coreSideLength + clearSideLength
	share := 0.5
	if span > 0 {
		share = coreSideLength / span
	}
	for _, t := range plan.AllUnitTypes() {
		n := remaining[t]
		if n == 0 {
			continue
		}
		c := int(math.Round(float64(n) * share))
		if c > n {
			c = n
		}
		coreSide[t] += c
		clearSide[t] += n - c
	}
	return coreSide, clearSide
}
