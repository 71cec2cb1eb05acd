package align

import (
	"math"
	"testing"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/geom"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
)

func testMix() plan.Mix {
	return plan.Mix{
		{Name: "studio", Percentage: 20, TargetArea: 55},
		{Name: "one-bed", Percentage: 40, TargetArea: 82},
		{Name: "two-bed", Percentage: 30, TargetArea: 110},
		{Name: "three-bed", Percentage: 10, TargetArea: 137},
	}
}

func testContext() Context {
	return Context{
		Mix:            testMix(),
		Depth:          8,
		BuildingLength: 60,
		CorridorWidth:  1.83,
		CoreDepth:      6,
		CoreSideY:      0,
		ClearSideY:     9.83,
	}
}

func unit(t plan.UnitType, side plan.Side, x, y, w, h float64) plan.UnitBlock {
	r := geom.Rect{X: x, Y: y, Width: w, Height: h}
	return plan.UnitBlock{
		Type:  t,
		Side:  side,
		Rect:  r,
		Area:  r.Area(),
		Shape: geom.LPolygon{Base: r},
	}
}

func TestNudgeWalls_PullsWithinRadius(t *testing.T) {
	ctx := testContext()
	coreSide := []plan.UnitBlock{
		unit(plan.UnitSmall, plan.SideCore, 0, 0, 10, 8),
		unit(plan.UnitSmall, plan.SideCore, 10, 0, 10, 8),
	}
	clearSide := []plan.UnitBlock{
		unit(plan.UnitSmallest, plan.SideClear, 0, 9.83, 9.2, 8),
		unit(plan.UnitSmallest, plan.SideClear, 9.2, 9.83, 10.8, 8),
	}

	NudgeWalls(coreSide, clearSide, 1.0, ctx)

	if got := clearSide[0].Rect.Right(); math.Abs(got-10) > 1e-9 {
		t.Errorf("clear wall at %.3f after nudge, want 10", got)
	}
	if got := clearSide[1].Rect.X; math.Abs(got-10) > 1e-9 {
		t.Errorf("right unit starts at %.3f, want 10", got)
	}
	// Footprint end stays put.
	if got := clearSide[1].Rect.Right(); math.Abs(got-20) > 1e-9 {
		t.Errorf("row end moved to %.3f", got)
	}
}

func TestNudgeWalls_SkipsBeyondRadius(t *testing.T) {
	ctx := testContext()
	coreSide := []plan.UnitBlock{
		unit(plan.UnitSmall, plan.SideCore, 0, 0, 14, 8),
	}
	clearSide := []plan.UnitBlock{
		unit(plan.UnitSmallest, plan.SideClear, 0, 9.83, 10, 8),
		unit(plan.UnitSmallest, plan.SideClear, 10, 9.83, 10, 8),
	}

	// Nearest reference walls are 0, 14 and 4m away from the 10m wall.
	NudgeWalls(coreSide, clearSide, 1.0, ctx)

	if got := clearSide[0].Rect.Right(); got != 10 {
		t.Errorf("wall moved to %.3f despite being out of radius", got)
	}
}

func TestNudgeWalls_RefusesBelowMinimumWidth(t *testing.T) {
	ctx := testContext()
	coreSide := []plan.UnitBlock{
		unit(plan.UnitSmall, plan.SideCore, 0, 0, 11, 8),
	}
	// Pulling the wall to 11 would shrink the right small unit (minimum
	// 10.25m) to 9.25m.
	clearSide := []plan.UnitBlock{
		unit(plan.UnitSmallest, plan.SideClear, 0, 9.83, 10, 8),
		unit(plan.UnitSmall, plan.SideClear, 10, 9.83, 10.25, 8),
	}

	NudgeWalls(coreSide, clearSide, 1.0, ctx)

	if got := clearSide[0].Rect.Right(); got != 10 {
		t.Errorf("wall moved to %.3f, shrinking a unit below target", got)
	}
}

func TestNudgeWalls_ZeroStrengthIsNoop(t *testing.T) {
	ctx := testContext()
	coreSide := []plan.UnitBlock{unit(plan.UnitSmall, plan.SideCore, 0, 0, 10.2, 8)}
	clearSide := []plan.UnitBlock{
		unit(plan.UnitSmallest, plan.SideClear, 0, 9.83, 10, 8),
		unit(plan.UnitSmallest, plan.SideClear, 10, 9.83, 10, 8),
	}

	NudgeWalls(coreSide, clearSide, 0, ctx)

	if clearSide[0].Rect.Right() != 10 {
		t.Error("zero strength still moved a wall")
	}
}

func TestMirrorStrict_ClonesAndAbsorbsCores(t *testing.T) {
	ctx := testContext()
	coreSide := []plan.UnitBlock{
		unit(plan.UnitLargest, plan.SideCore, 0, 0, 15, 8),
		unit(plan.UnitLarge, plan.SideCore, 18.5, 0, 23, 8),
		unit(plan.UnitLargest, plan.SideCore, 45, 0, 15, 8),
	}
	cores := []plan.CoreBlock{
		{Rect: geom.Rect{X: 15, Y: 2, Width: 3.5, Height: 6}, Side: plan.SideCore, Role: plan.CoreEnd},
		{Rect: geom.Rect{X: 41.5, Y: 2, Width: 3.5, Height: 6}, Side: plan.SideCore, Role: plan.CoreEnd},
	}

	clear := MirrorStrict(coreSide, cores, ctx)

	if len(clear) != 3 {
		t.Fatalf("mirror produced %d units, want 3", len(clear))
	}
	// Core footprints absorbed: full contiguous coverage.
	cursor := 0.0
	for i, u := range clear {
		if math.Abs(u.Rect.X-cursor) > 1e-9 {
			t.Errorf("unit %d starts at %.3f, want %.3f", i, u.Rect.X, cursor)
		}
		if u.Side != plan.SideClear {
			t.Errorf("unit %d side = %v, want clear", i, u.Side)
		}
		if u.Rect.Y != ctx.ClearSideY {
			t.Errorf("unit %d y = %.3f, want %.3f", i, u.Rect.Y, ctx.ClearSideY)
		}
		cursor = u.Rect.Right()
	}
	if math.Abs(cursor-60) > 1e-9 {
		t.Errorf("mirrored row ends at %.3f, want 60", cursor)
	}
	// The original core side is untouched.
	if coreSide[1].Rect.X != 18.5 {
		t.Error("MirrorStrict mutated the core side")
	}
}

func TestMirrorStrict_ReclassifiesExpandedUnit(t *testing.T) {
	ctx := testContext()
	// 13.75m large unit absorbs 3.5m of core: 17.25m × 8m = 138 sqm,
	// crossing the 137 sqm largest-type threshold. The left unit sits at
	// its target so the full footprint goes right.
	coreSide := []plan.UnitBlock{
		unit(plan.UnitLargest, plan.SideCore, 0, 0, 17.125, 8),
		unit(plan.UnitLarge, plan.SideCore, 20.625, 0, 13.75, 8),
	}
	cores := []plan.CoreBlock{
		{Rect: geom.Rect{X: 17.125, Y: 2, Width: 3.5, Height: 6}},
	}

	clear := MirrorStrict(coreSide, cores, ctx)

	if clear[1].Type != plan.UnitLargest {
		t.Errorf("expanded unit type = %v, want UnitLargest", clear[1].Type)
	}
}

func TestMirrorStrict_RecoversNarrowCloneWidth(t *testing.T) {
	ctx := testContext()
	// The small unit left of the core runs 2m under its 10.25m target; its
	// core-side twin makes the difference up with a wrap wing. The mirrored
	// clone has no core to wrap, so it takes the 2m out of the footprint
	// before the right neighbor absorbs the rest.
	coreSide := []plan.UnitBlock{
		unit(plan.UnitLargest, plan.SideCore, 0, 0, 15, 8),
		unit(plan.UnitSmall, plan.SideCore, 15, 0, 8.25, 8),
		unit(plan.UnitLargest, plan.SideCore, 26.75, 0, 33.25, 8),
	}
	cores := []plan.CoreBlock{
		{Rect: geom.Rect{X: 23.25, Y: 2, Width: 3.5, Height: 6}},
	}

	clear := MirrorStrict(coreSide, cores, ctx)

	if got := clear[1].Rect.Width; math.Abs(got-10.25) > 1e-9 {
		t.Errorf("narrow clone width %.3f, want target 10.25", got)
	}
	if got := clear[2].Rect.X; math.Abs(got-25.25) > 1e-9 {
		t.Errorf("right neighbor starts at %.3f, want 25.25", got)
	}
	cursor := 0.0
	for i, u := range clear {
		if math.Abs(u.Rect.X-cursor) > 1e-9 {
			t.Errorf("unit %d starts at %.3f, want %.3f", i, u.Rect.X, cursor)
		}
		cursor = u.Rect.Right()
	}
	if math.Abs(cursor-60) > 1e-9 {
		t.Errorf("mirrored row ends at %.3f, want 60", cursor)
	}
}

func TestWrapCores_Laterality(t *testing.T) {
	ctx := testContext()
	units := []plan.UnitBlock{
		unit(plan.UnitLargest, plan.SideCore, 0, 0, 15, 8),
		unit(plan.UnitLarge, plan.SideCore, 18.5, 0, 23, 8),
		unit(plan.UnitLargest, plan.SideCore, 45, 0, 15, 8),
	}
	cores := []plan.CoreBlock{
		{Rect: geom.Rect{X: 15, Y: 2, Width: 3.5, Height: 6}},
		{Rect: geom.Rect{X: 41.5, Y: 2, Width: 3.5, Height: 6}},
	}

	WrapCores(units, cores, ctx)

	// Left core wraps its left neighbor.
	if !units[0].Shape.IsL() {
		t.Fatal("left corner unit did not wrap the left core")
	}
	wing := units[0].Shape.Wing
	if wing.X != 15 || wing.Width != 3.5 || wing.Height != 2 || wing.Y != 0 {
		t.Errorf("left wing = %+v, want 3.5x2 strip at x=15 on the facade", wing)
	}
	if got := units[0].Area; math.Abs(got-(15*8+7)) > 1e-9 {
		t.Errorf("wrapped area = %.2f, want %.2f", got, 15*8+7.0)
	}

	// Rightmost core wraps its right neighbor.
	if !units[2].Shape.IsL() {
		t.Fatal("right corner unit did not wrap the rightmost core")
	}
	if units[2].Shape.Wing.X != 41.5 {
		t.Errorf("right wing at x=%.2f, want 41.5", units[2].Shape.Wing.X)
	}
	// The middle unit stays rectangular.
	if units[1].Shape.IsL() {
		t.Error("middle unit wrapped a core it does not touch")
	}
}

func TestWrapCores_IneligibleNeighborSkipped(t *testing.T) {
	ctx := testContext()
	units := []plan.UnitBlock{
		unit(plan.UnitSmallest, plan.SideCore, 18.5, 0, 15, 8),
	}
	cores := []plan.CoreBlock{
		{Rect: geom.Rect{X: 15, Y: 2, Width: 3.5, Height: 6}},
	}

	WrapCores(units, cores, ctx)

	if units[0].Shape.IsL() {
		t.Error("smallest-type unit wrapped a core")
	}
}

func TestWrapCores_NoGapNoWrap(t *testing.T) {
	ctx := testContext()
	ctx.CoreDepth = 8 // core fills the full rentable depth
	units := []plan.UnitBlock{
		unit(plan.UnitLargest, plan.SideCore, 18.5, 0, 15, 8),
	}
	cores := []plan.CoreBlock{
		{Rect: geom.Rect{X: 15, Y: 0, Width: 3.5, Height: 8}},
	}

	WrapCores(units, cores, ctx)

	if units[0].Shape.IsL() {
		t.Error("unit wrapped a core with no facade gap")
	}
}

func TestAbsorbCorridorVoids_BothEligible(t *testing.T) {
	ctx := testContext()
	coreSide := []plan.UnitBlock{
		unit(plan.UnitLargest, plan.SideCore, 0, 0, 17, 8),
		unit(plan.UnitLargest, plan.SideCore, 17, 0, 43, 8),
	}
	clearSide := []plan.UnitBlock{
		unit(plan.UnitLargest, plan.SideClear, 0, 9.83, 18, 8),
		unit(plan.UnitLargest, plan.SideClear, 18, 9.83, 42, 8),
	}
	before := coreSide[0].Area

	AbsorbCorridorVoids(coreSide, clearSide, ctx)

	if !coreSide[0].Shape.IsL() {
		t.Fatal("core-side end unit not extended into the corridor")
	}
	void := 17.0 - voidOverlap
	wantGain := void * ctx.CorridorWidth / 2
	if got := coreSide[0].Area - before; math.Abs(got-wantGain) > 1e-6 {
		t.Errorf("area gain %.3f at left end, want %.3f", got, wantGain)
	}
	wing := coreSide[0].Shape.Wing
	if wing.Y != 8 || math.Abs(wing.Height-ctx.CorridorWidth/2) > 1e-9 {
		t.Errorf("corridor wing = %+v, want half-corridor band above the row", wing)
	}
}

func TestAbsorbCorridorVoids_IneligiblePairSkipped(t *testing.T) {
	ctx := testContext()
	coreSide := []plan.UnitBlock{
		unit(plan.UnitSmallest, plan.SideCore, 0, 0, 17, 8),
	}
	clearSide := []plan.UnitBlock{
		unit(plan.UnitLargest, plan.SideClear, 0, 9.83, 18, 8),
	}

	AbsorbCorridorVoids(coreSide, clearSide, ctx)

	if coreSide[0].Shape.IsL() || clearSide[0].Shape.IsL() {
		t.Error("void absorbed with an ineligible end unit")
	}
}

func TestDetectFillers_RowGap(t *testing.T) {
	ctx := testContext()
	clearSide := []plan.UnitBlock{
		unit(plan.UnitSmall, plan.SideClear, 0, 9.83, 25, 8),
		unit(plan.UnitSmall, plan.SideClear, 30, 9.83, 30, 8),
	}

	fillers := DetectFillers(nil, clearSide, nil, ctx)

	if len(fillers) != 2 {
		t.Fatalf("got %d fillers, want 2 (row gap on clear side, empty core side)", len(fillers))
	}
	var gap *plan.Filler
	for i := range fillers {
		if fillers[i].Side == plan.SideClear {
			gap = &fillers[i]
		}
	}
	if gap == nil {
		t.Fatal("no clear-side filler for the 25-30m gap")
	}
	if gap.Rect.X != 25 || gap.Rect.Width != 5 {
		t.Errorf("gap filler = %+v, want x=25 width=5", gap.Rect)
	}
}

func TestDetectFillers_UnwrappedCoreStrip(t *testing.T) {
	ctx := testContext()
	coreSide := []plan.UnitBlock{
		unit(plan.UnitSmallest, plan.SideCore, 0, 0, 15, 8),
		unit(plan.UnitSmallest, plan.SideCore, 18.5, 0, 41.5, 8),
	}
	core := plan.CoreBlock{Rect: geom.Rect{X: 15, Y: 2, Width: 3.5, Height: 6}}

	fillers := DetectFillers(coreSide, nil, []plan.CoreBlock{core}, ctx)

	found := false
	for _, f := range fillers {
		if f.Side == plan.SideCore && f.Rect.X == 15 && f.Rect.Height == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("no filler for the unwrapped core strip: %+v", fillers)
	}
}

func TestDetectFillers_WrappedStripExcluded(t *testing.T) {
	ctx := testContext()
	coreSide := []plan.UnitBlock{
		unit(plan.UnitLargest, plan.SideCore, 0, 0, 15, 8),
		unit(plan.UnitLargest, plan.SideCore, 18.5, 0, 41.5, 8),
	}
	cores := []plan.CoreBlock{
		{Rect: geom.Rect{X: 15, Y: 2, Width: 3.5, Height: 6}},
	}
	WrapCores(coreSide, cores, ctx)

	fillers := DetectFillers(coreSide, nil, cores, ctx)

	for _, f := range fillers {
		if f.Side == plan.SideCore && f.Rect.X == 15 && f.Rect.Height == 2 {
			t.Errorf("filler emitted for a wrapped core strip: %+v", f)
		}
	}
}
