// Package segment turns one segment's unit counts into concrete unit
// rectangles. It orders the units, enforces corner and bonus placement
// rules, and computes final widths by distributing slack under expansion
// weights and max-width caps.
//
// Widths only ever grow past target: a segment shorter than its units'
// summed minimum widths is resolved by removing units, never by shrinking
// one below its target.
package segment

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/observability"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/flex"
)

const (
	eps = 1e-9

	// gapTolerance is the residual length below which a segment counts as
	// fully covered.
	gapTolerance = 0.01

	// autoSplitFactor triggers insertion of an extra smallest-type unit
	// when the boundary unit would exceed its target by more than this.
	autoSplitFactor = 1.30

	// forcedCornerFitFactor bounds how far past the replaced unit's target
	// width a force-upgraded corner type may reach.
	forcedCornerFitFactor = 1.30

	// bonusCreditFloor keeps a bonus-credited target width from collapsing:
	// the unit still needs a real corridor frontage to be entered from.
	bonusCreditFloor = 0.25
)

// Options configures one segment generation run.
type Options struct {
	Mix   plan.Mix
	Depth float64

	Pattern plan.OrderPattern

	// Rand is consulted only for plan.OrderRandom. A nil Rand degrades the
	// random pattern to descending order.
	Rand *rand.Rand

	// Index identifies the segment in emitted events.
	Index int

	// Hooks receives decision-point events. Nil means no events.
	Hooks observability.PlannerHooks
}

func (o Options) hooks() observability.PlannerHooks {
	if o.Hooks != nil {
		return o.Hooks
	}
	return observability.NoopPlannerHooks{}
}

// Unit is one placed unit, positioned relative to the segment start.
type Unit struct {
	Type   plan.UnitType
	Offset float64
	Width  float64

	// BonusArea is the wrap-gap area credited to this unit. The unit's
	// rectangle shrinks by the equivalent width; the area itself is only
	// realized once the unit's wing wraps the adjacent core.
	BonusArea float64
}

// Result is the generated segment content.
type Result struct {
	Units []Unit

	// Gap is uncovered length left in the segment, zero in the normal
	// case. A positive gap becomes a filler block downstream.
	Gap float64

	Warnings []string
}

// Generate lays out one segment. See the package comment for the rules.
func Generate(counts plan.UnitCounts, seg plan.Segment, opts Options) Result {
	order := expand(counts, opts.Pattern, opts.Rand)
	if len(order) == 0 {
		return Result{Gap: seg.Length}
	}

	g := &generator{
		opts:  opts,
		seg:   seg,
		types: order,
	}
	g.placeBonusUnit()
	g.enforceCorners()
	g.computeWidths()
	g.removeOverflow()
	g.distributeSlack()
	g.absorbBoundary()
	g.absorbResidualGap()
	return g.result()
}

type generator struct {
	opts     Options
	seg      plan.Segment
	types    []plan.UnitType
	widths   []float64
	warnings []string

	bonusIndex  int // -1 when no bonus credit applies
	bonusCredit float64
}

func (g *generator) targetWidth(t plan.UnitType) float64 {
	return flex.TargetWidth(t, g.opts.Mix, g.opts.Depth)
}

// placeBonusUnit picks the unit adjacent to the bonus side and makes sure it
// can actually wrap the core: only an L-shape-eligible unit materializes the
// wrap-gap wing downstream, so an ineligible edge unit swaps inward with the
// nearest eligible one. A segment with no eligible unit forgoes the credit
// entirely; shrinking a unit that can never recover the area would leave it
// below target for good.
func (g *generator) placeBonusUnit() {
	g.bonusIndex = -1
	if g.seg.BonusArea <= 0 || g.opts.Depth <= 0 {
		return
	}
	idx := len(g.types) - 1
	if g.seg.BonusLeft {
		idx = 0
	}
	if !flex.LShapeEligible(g.types[idx], g.opts.Mix) {
		for _, j := range inwardIndexes(idx, len(g.types)) {
			if flex.LShapeEligible(g.types[j], g.opts.Mix) {
				g.types[idx], g.types[j] = g.types[j], g.types[idx]
				break
			}
		}
	}
	if !flex.LShapeEligible(g.types[idx], g.opts.Mix) {
		return
	}
	g.bonusIndex = idx
	g.bonusCredit = g.seg.BonusArea / g.opts.Depth
}

// enforceCorners guarantees the outermost unit at each facade corner is
// corner-eligible. The nearest eligible unit in the list swaps out; when
// none exists the edge unit is force-upgraded to the smallest eligible type
// that roughly fits its slot.
func (g *generator) enforceCorners() {
	if g.seg.CornerLeft {
		g.enforceCornerAt(0)
	}
	if g.seg.CornerRight {
		g.enforceCornerAt(len(g.types) - 1)
	}
}

func (g *generator) enforceCornerAt(idx int) {
	if flex.CornerEligible(g.types[idx], g.opts.Mix) {
		return
	}
	for _, j := range inwardIndexes(idx, len(g.types)) {
		if flex.CornerEligible(g.types[j], g.opts.Mix) {
			g.types[idx], g.types[j] = g.types[j], g.types[idx]
			return
		}
	}
	slot := g.targetWidth(g.types[idx]) * forcedCornerFitFactor
	eligible := flex.CornerTypesDescending(g.opts.Mix)
	for j := len(eligible) - 1; j >= 0; j-- {
		t := eligible[j]
		if g.targetWidth(t) <= slot+eps && g.targetWidth(t) <= g.seg.Length+eps {
			g.warnings = append(g.warnings,
				fmt.Sprintf("corner slot upgraded from %s to %s", g.types[idx], t))
			g.types[idx] = t
			g.opts.hooks().OnCornerForced(g.opts.Index, t)
			return
		}
	}
	g.warnings = append(g.warnings,
		fmt.Sprintf("no corner-eligible type fits a %.1fm corner slot", g.seg.Length))
}

// inwardIndexes yields candidate swap positions ordered nearest-first,
// walking from the edge toward the interior.
func inwardIndexes(edge, n int) []int {
	out := make([]int, 0, n-1)
	if edge == 0 {
		for j := 1; j < n; j++ {
			out = append(out, j)
		}
		return out
	}
	for j := edge - 1; j >= 0; j-- {
		out = append(out, j)
	}
	return out
}

// computeWidths initializes every width at its bonus-adjusted target,
// dropping any unit whose width computes non-finite.
func (g *generator) computeWidths() {
	// Corner enforcement may have swapped an ineligible type into the
	// bonus slot; the credit only holds while its unit can wrap.
	if g.bonusIndex >= 0 && !flex.LShapeEligible(g.types[g.bonusIndex], g.opts.Mix) {
		g.bonusIndex = -1
		g.bonusCredit = 0
	}
	widths := make([]float64, 0, len(g.types))
	kept := make([]plan.UnitType, 0, len(g.types))
	for i, t := range g.types {
		w := g.targetWidth(t)
		if i == g.bonusIndex {
			floor := w * bonusCreditFloor
			w -= g.bonusCredit
			if w < floor {
				w = floor
			}
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
			g.opts.hooks().OnPlacementFailed(t, "non-finite target width")
			g.warnings = append(g.warnings,
				fmt.Sprintf("dropped %s unit: non-finite width", t))
			if i < g.bonusIndex {
				g.bonusIndex--
			} else if i == g.bonusIndex {
				g.bonusIndex = -1
			}
			continue
		}
		widths = append(widths, w)
		kept = append(kept, t)
	}
	g.types, g.widths = kept, widths
}

// removeOverflow drops units while the summed minimum widths exceed the
// segment. The facade-corner unit is protected; non-corner-eligible types
// go first, narrowest first, so the protected mix survives as long as
// possible.
func (g *generator) removeOverflow() {
	for g.sumWidths() > g.seg.Length+eps && len(g.types) > 1 {
		idx := g.removalCandidate()
		if idx < 0 {
			return
		}
		g.opts.hooks().OnUnitRemoved(g.opts.Index, g.types[idx])
		g.warnings = append(g.warnings,
			fmt.Sprintf("removed %s unit: segment overflow", g.types[idx]))
		g.types = append(g.types[:idx], g.types[idx+1:]...)
		g.widths = append(g.widths[:idx], g.widths[idx+1:]...)
		if g.bonusIndex > idx {
			g.bonusIndex--
		} else if g.bonusIndex == idx {
			g.bonusIndex = -1
		}
	}
}

func (g *generator) protectedCorner(i int) bool {
	return (g.seg.CornerLeft && i == 0) || (g.seg.CornerRight && i == len(g.types)-1)
}

func (g *generator) removalCandidate() int {
	best := -1
	bestEligible := true
	bestWidth := math.Inf(1)
	for i, t := range g.types {
		if g.protectedCorner(i) {
			continue
		}
		eligible := flex.CornerEligible(t, g.opts.Mix)
		w := g.widths[i]
		better := false
		switch {
		case eligible != bestEligible:
			better = !eligible
		case w < bestWidth:
			better = true
		}
		if best < 0 || better {
			best, bestEligible, bestWidth = i, eligible, w
		}
	}
	return best
}

func (g *generator) sumWidths() float64 {
	var sum float64
	for _, w := range g.widths {
		sum += w
	}
	return sum
}

// distributeSlack spreads positive slack proportionally to expansion weight
// over repeated passes, capping units at max width and redistributing their
// excess to uncapped units until converged. The final rounding remainder
// goes to the largest-target-area unit.
func (g *generator) distributeSlack() {
	slack := g.seg.Length - g.sumWidths()
	if slack <= eps || len(g.types) == 0 {
		return
	}

	maxes := make([]float64, len(g.types))
	capped := make([]bool, len(g.types))
	for i, t := range g.types {
		maxes[i] = flex.MaxWidth(t, g.opts.Mix, g.opts.Depth)
		if i == g.bonusIndex {
			// The credit shrank the starting width; the cap shifts with it
			// so the visible rectangle obeys the same expansion budget.
			maxes[i] -= g.bonusCredit
			if maxes[i] < g.widths[i] {
				maxes[i] = g.widths[i]
			}
		}
	}

	for pass := 0; slack > eps && pass < len(g.types)+1; pass++ {
		var weight float64
		for i, t := range g.types {
			if !capped[i] {
				weight += flex.ExpansionWeight(t)
			}
		}
		if weight <= 0 {
			break
		}
		distributed := false
		share := slack / weight
		for i, t := range g.types {
			if capped[i] {
				continue
			}
			grow := share * flex.ExpansionWeight(t)
			if g.widths[i]+grow >= maxes[i]-eps {
				grow = maxes[i] - g.widths[i]
				capped[i] = true
				g.opts.hooks().OnWidthCapped(t, maxes[i], maxes[i])
			}
			if grow > 0 {
				g.widths[i] += grow
				slack -= grow
				distributed = true
			}
		}
		if !distributed {
			break
		}
	}

	// Rounding remainder lands on the largest-target-area unit.
	if slack > eps && slack < gapTolerance {
		g.widths[g.largestTargetIndex()] += slack
	}
}

func (g *generator) largestTargetIndex() int {
	best := 0
	for i, t := range g.types {
		if g.opts.Mix[t].TargetArea > g.opts.Mix[g.types[best]].TargetArea {
			best = i
		}
	}
	return best
}

// absorbBoundary snaps the rightmost unit to the segment boundary. If that
// leaves it unreasonably oversized the excess is carved into an extra
// smallest-type unit, except when the slot is a corner-eligible facade
// corner, which is never split.
func (g *generator) absorbBoundary() {
	n := len(g.types)
	if n == 0 {
		return
	}
	last := n - 1
	var offset float64
	for i := 0; i < last; i++ {
		offset += g.widths[i]
	}
	boundary := g.seg.Length - offset
	target := g.targetWidth(g.types[last])
	if boundary >= target-eps {
		g.widths[last] = boundary
	}

	cornerSlot := g.seg.CornerRight && flex.CornerEligible(g.types[last], g.opts.Mix)
	smallest := g.targetWidth(plan.UnitSmallest)
	if cornerSlot || g.widths[last] <= target*autoSplitFactor {
		return
	}
	excess := g.widths[last] - target
	if excess < smallest || !g.opts.Mix.Present(plan.UnitSmallest) {
		return
	}
	g.opts.hooks().OnUnitSplit(g.opts.Index, g.types[last], excess)
	if last == g.bonusIndex {
		// The credited unit must stay flush with the bonus edge so its
		// wrap wing lands against the core. Carve the smallest-type unit
		// inward and keep the credited type at the boundary.
		credited := g.types[last]
		g.types[last] = plan.UnitSmallest
		g.widths[last] = excess
		g.types = append(g.types, credited)
		g.widths = append(g.widths, target)
		g.bonusIndex = len(g.types) - 1
		return
	}
	g.widths[last] = target
	g.types = append(g.types, plan.UnitSmallest)
	g.widths = append(g.widths, excess)
}

// absorbResidualGap distributes any remaining gap by flexibility weight up
// to max widths; if the gap persists it is appended to the last unit past
// its nominal max. A visible oversized unit beats unused floor area.
func (g *generator) absorbResidualGap() {
	if len(g.types) == 0 {
		return
	}
	g.distributeSlack()
	if gap := g.seg.Length - g.sumWidths(); gap > gapTolerance {
		g.widths[len(g.widths)-1] += gap
	}
}

func (g *generator) result() Result {
	res := Result{
		Units:    make([]Unit, len(g.types)),
		Warnings: g.warnings,
	}
	var offset float64
	for i, t := range g.types {
		res.Units[i] = Unit{Type: t, Offset: offset, Width: g.widths[i]}
		if i == g.bonusIndex {
			res.Units[i].BonusArea = g.seg.BonusArea
		}
		offset += g.widths[i]
	}
	if gap := g.seg.Length - offset; gap > gapTolerance {
		res.Gap = gap
	}
	return res
}
