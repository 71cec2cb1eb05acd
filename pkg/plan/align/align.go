// Package align post-processes raw unit geometry: cross-corridor wall
// alignment (nudged or strictly mirrored), core L-wrapping, corridor-end
// void absorption, and filler detection for anything left uncovered.
//
// All passes operate on units in plan space and mutate the slices they are
// given. Units within a side are expected sorted by x.
package align

import (
	"cmp"
	"slices"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/geom"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/flex"
)

const (
	eps = 1e-9

	// maxPullRadius scales with alignment strength: at strength 1.0 a
	// partition may travel this far to meet a reference wall.
	maxPullRadius = 2.0

	// StrictThreshold is the alignment strength above which the clear side
	// is mirrored from the core side instead of nudged.
	StrictThreshold = 0.6

	// voidOverlap is the fixed overlap constant subtracted from the
	// narrower end unit when sizing a corridor-end void.
	voidOverlap = 3.0

	gapTolerance = 0.01
)

// Context carries the fixed plan geometry the passes need.
type Context struct {
	Mix            plan.Mix
	Depth          float64 // rentable depth of one side
	BuildingLength float64
	CorridorWidth  float64
	CoreDepth      float64

	// CoreSideY and ClearSideY are the bottom y of each unit row; the
	// corridor sits between CoreSideY+Depth and ClearSideY.
	CoreSideY  float64
	ClearSideY float64
}

func (c Context) corridorY() float64 { return c.CoreSideY + c.Depth }

// NudgeWalls pulls the clear side's partitions toward the nearest core-side
// wall within a strength-scaled radius. A pull only happens when both
// adjacent units keep their minimum width afterward; candidates are
// processed nearest-first and each unit is adjusted at most once.
func NudgeWalls(coreSide, clearSide []plan.UnitBlock, strength float64, ctx Context) {
	if strength <= 0 || len(coreSide) == 0 || len(clearSide) < 2 {
		return
	}
	radius := strength * maxPullRadius

	refs := make([]float64, 0, len(coreSide))
	for _, u := range coreSide {
		refs = append(refs, u.Rect.X, u.Rect.Right())
	}

	type candidate struct {
		partition int // wall between clearSide[i] and clearSide[i+1]
		ref       float64
		dist      float64
	}
	var cands []candidate
	for i := 0; i+1 < len(clearSide); i++ {
		wall := clearSide[i].Rect.Right()
		bestRef, bestDist := 0.0, radius + 1
		for _, r := range refs {
			if d := abs(r - wall); d < bestDist {
				bestRef, bestDist = r, d
			}
		}
		if bestDist <= radius {
			cands = append(cands, candidate{i, bestRef, bestDist})
		}
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Compare(a.dist, b.dist)
	})

	consumed := make([]bool, len(clearSide))
	for _, c := range cands {
		i := c.partition
		if consumed[i] || consumed[i+1] {
			continue
		}
		dx := c.ref - clearSide[i].Rect.Right()
		left, right := &clearSide[i], &clearSide[i+1]
		if left.Rect.Width+dx < minWidth(left.Type, ctx)-eps {
			continue
		}
		if right.Rect.Width-dx < minWidth(right.Type, ctx)-eps {
			continue
		}
		left.Rect.Width += dx
		right.Rect.X += dx
		right.Rect.Width -= dx
		refreshUnit(left, ctx)
		refreshUnit(right, ctx)
		consumed[i], consumed[i+1] = true, true
	}
}

// MirrorStrict replaces the clear side with a verbatim clone of the core
// side's layout, then distributes each core footprint to the adjacent
// clones so the clear side stays fully covered. A clone left of the core
// first recovers any width it is short of its target; core-side units lean
// on a wrap wing for that difference, which a clone without cores cannot.
// The clone to the right absorbs the rest of the footprint. An expanded
// unit is re-classified when its new area crosses a type boundary.
//
// This pass runs last among the alignment corrections and is never undone:
// corner-type enforcement already ran on the core side, so the clone
// inherits it.
func MirrorStrict(coreSide []plan.UnitBlock, cores []plan.CoreBlock, ctx Context) []plan.UnitBlock {
	clear := make([]plan.UnitBlock, len(coreSide))
	for i, u := range coreSide {
		c := u
		c.Side = plan.SideClear
		c.Rect.Y = ctx.ClearSideY
		c.Shape = geom.LPolygon{Base: c.Rect}
		c.Area = c.Rect.Area()
		clear[i] = c
	}

	for _, core := range cores {
		span := core.Rect.Width
		x := core.Rect.X
		if li := unitAtRightEdge(clear, core.Rect.X); li >= 0 {
			if deficit := minWidth(clear[li].Type, ctx) - clear[li].Rect.Width; deficit > eps {
				grow := min(deficit, span)
				clear[li].Rect.Width += grow
				reclassify(&clear[li], ctx)
				refreshUnit(&clear[li], ctx)
				span -= grow
				x += grow
			}
		}
		if span <= eps {
			continue
		}
		if ri := unitAtLeftEdge(clear, core.Rect.Right()); ri >= 0 {
			clear[ri].Rect.X = x
			clear[ri].Rect.Width += span
			reclassify(&clear[ri], ctx)
			refreshUnit(&clear[ri], ctx)
		}
	}
	return clear
}

// reclassify bumps the unit's type when the expanded area crosses into a
// larger class present in the mix.
func reclassify(u *plan.UnitBlock, ctx Context) {
	area := u.Rect.Width * ctx.Depth
	t := u.Type
	for next := t + 1; next < plan.NumUnitTypes; next++ {
		if ctx.Mix.Present(next) && area >= ctx.Mix[next].TargetArea {
			t = next
		}
	}
	u.Type = t
}

// WrapCores extends L-shape-eligible neighbors into the strip left between
// each core and the facade. The rightmost core wraps its neighbor to the
// right, matching corner symmetry; every other core wraps left. Units that
// cannot wrap leave the strip for filler detection.
func WrapCores(units []plan.UnitBlock, cores []plan.CoreBlock, ctx Context) {
	gap := ctx.Depth - ctx.CoreDepth
	if gap <= gapTolerance || len(cores) == 0 {
		return
	}

	rightmost := 0
	for i := 1; i < len(cores); i++ {
		if cores[i].Rect.X > cores[rightmost].Rect.X {
			rightmost = i
		}
	}

	for ci, core := range cores {
		var idx int = -1
		if ci == rightmost {
			idx = unitAtLeftEdge(units, core.Rect.Right())
		} else {
			idx = unitAtRightEdge(units, core.Rect.X)
		}
		if idx < 0 || !flex.LShapeEligible(units[idx].Type, ctx.Mix) {
			continue
		}
		wing := geom.Rect{
			X:      core.Rect.X,
			Y:      ctx.CoreSideY,
			Width:  core.Rect.Width,
			Height: gap,
		}
		units[idx].Shape = geom.LPolygon{Base: units[idx].Rect, Wing: wing}
		units[idx].Area = units[idx].Shape.Area()
	}
}

// AbsorbCorridorVoids extends the facing end units into the corridor at
// each building end. Both units must be simultaneously corner- and
// L-shape-eligible; the void spans the narrower unit's width minus a fixed
// overlap constant, and each unit takes half the corridor depth.
func AbsorbCorridorVoids(coreSide, clearSide []plan.UnitBlock, ctx Context) {
	if len(coreSide) == 0 || len(clearSide) == 0 {
		return
	}
	absorbEnd(&coreSide[0], &clearSide[0], true, ctx)
	absorbEnd(&coreSide[len(coreSide)-1], &clearSide[len(clearSide)-1], false, ctx)
}

func absorbEnd(a, b *plan.UnitBlock, left bool, ctx Context) {
	for _, u := range []*plan.UnitBlock{a, b} {
		if !flex.CornerEligible(u.Type, ctx.Mix) || !flex.LShapeEligible(u.Type, ctx.Mix) {
			return
		}
	}
	void := min(a.Rect.Width, b.Rect.Width) - voidOverlap
	if void <= 0 {
		return
	}
	x := 0.0
	if !left {
		x = ctx.BuildingLength - void
	}
	half := ctx.CorridorWidth / 2
	extend(a, geom.Rect{X: x, Y: ctx.corridorY(), Width: void, Height: half})
	extend(b, geom.Rect{X: x, Y: ctx.corridorY() + half, Width: void, Height: half})
}

// extend merges a wing into the unit's shape. A unit that already carries a
// core wrap keeps it; the corridor wing then only grows the area.
func extend(u *plan.UnitBlock, wing geom.Rect) {
	if u.Shape.IsL() {
		u.Area += wing.Area()
		return
	}
	u.Shape = geom.LPolygon{Base: u.Rect, Wing: wing}
	u.Area = u.Shape.Area()
}

// DetectFillers scans for uncovered floor area after all mutation and
// materializes filler blocks so nothing renders as a hole. True core
// footprints are excluded; unwrapped core strips are not.
func DetectFillers(coreSide, clearSide []plan.UnitBlock, cores []plan.CoreBlock, ctx Context) []plan.Filler {
	var fillers []plan.Filler

	fillers = append(fillers, scanRow(coreSide, cores, plan.SideCore, ctx.CoreSideY, ctx)...)
	fillers = append(fillers, scanRow(clearSide, nil, plan.SideClear, ctx.ClearSideY, ctx)...)

	// Unwrapped core strips between core and facade.
	gap := ctx.Depth - ctx.CoreDepth
	if gap > gapTolerance {
		for _, core := range cores {
			if !stripWrapped(coreSide, core) {
				fillers = append(fillers, plan.Filler{
					Side: plan.SideCore,
					Rect: geom.Rect{X: core.Rect.X, Y: ctx.CoreSideY, Width: core.Rect.Width, Height: gap},
				})
			}
		}
	}
	return fillers
}

func scanRow(units []plan.UnitBlock, cores []plan.CoreBlock, side plan.Side, y float64, ctx Context) []plan.Filler {
	type span struct{ from, to float64 }
	spans := make([]span, 0, len(units)+len(cores))
	for _, u := range units {
		spans = append(spans, span{u.Rect.X, u.Rect.Right()})
	}
	for _, c := range cores {
		spans = append(spans, span{c.Rect.X, c.Rect.Right()})
	}
	slices.SortFunc(spans, func(a, b span) int { return cmp.Compare(a.from, b.from) })

	var fillers []plan.Filler
	cursor := 0.0
	for _, s := range spans {
		if s.from > cursor+gapTolerance {
			fillers = append(fillers, plan.Filler{
				Side: side,
				Rect: geom.Rect{X: cursor, Y: y, Width: s.from - cursor, Height: ctx.Depth},
			})
		}
		if s.to > cursor {
			cursor = s.to
		}
	}
	if ctx.BuildingLength > cursor+gapTolerance {
		fillers = append(fillers, plan.Filler{
			Side: side,
			Rect: geom.Rect{X: cursor, Y: y, Width: ctx.BuildingLength - cursor, Height: ctx.Depth},
		})
	}
	return fillers
}

func stripWrapped(units []plan.UnitBlock, core plan.CoreBlock) bool {
	for _, u := range units {
		w := u.Shape.Wing
		if u.Shape.IsL() && w.X < core.Rect.Right()-eps && w.Right() > core.Rect.X+eps &&
			w.Y < core.Rect.Y-eps {
			return true
		}
	}
	return false
}

func unitAtLeftEdge(units []plan.UnitBlock, x float64) int {
	for i, u := range units {
		if abs(u.Rect.X-x) < gapTolerance {
			return i
		}
	}
	return -1
}

func unitAtRightEdge(units []plan.UnitBlock, x float64) int {
	for i, u := range units {
		if abs(u.Rect.Right()-x) < gapTolerance {
			return i
		}
	}
	return -1
}

func minWidth(t plan.UnitType, ctx Context) float64 {
	return flex.TargetWidth(t, ctx.Mix, ctx.Depth)
}

func refreshUnit(u *plan.UnitBlock, ctx Context) {
	if !u.Shape.IsL() {
		u.Shape = geom.LPolygon{Base: u.Rect}
		u.Area = u.Rect.Area()
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
