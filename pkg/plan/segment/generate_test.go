package segment

import (
	"math"
	"math/rand"
	"testing"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/observability"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/flex"
)

func testMix() plan.Mix {
	return plan.Mix{
		{Name: "studio", Percentage: 20, TargetArea: 55},
		{Name: "one-bed", Percentage: 40, TargetArea: 82},
		{Name: "two-bed", Percentage: 30, TargetArea: 110},
		{Name: "three-bed", Percentage: 10, TargetArea: 137},
	}
}

func testOptions() Options {
	return Options{Mix: testMix(), Depth: 8, Pattern: plan.OrderDescending}
}

func coverage(res Result) float64 {
	var sum float64
	for _, u := range res.Units {
		sum += u.Width
	}
	return sum
}

func TestGenerate_CoverageIdentity(t *testing.T) {
	counts := plan.UnitCounts{
		plan.UnitSmallest: 1,
		plan.UnitSmall:    2,
		plan.UnitLarge:    1,
	}
	seg := plan.Segment{Length: 50}

	res := Generate(counts, seg, testOptions())

	if got := coverage(res) + res.Gap; math.Abs(got-seg.Length) > 0.02 {
		t.Errorf("widths + gap = %.3f, want %.3f", got, seg.Length)
	}
	if res.Gap > 0.011 {
		t.Errorf("gap %.3f left in a stretchable segment, want ~0", res.Gap)
	}
}

func TestGenerate_ExpandOnly(t *testing.T) {
	opts := testOptions()
	counts := plan.UnitCounts{
		plan.UnitSmallest: 1,
		plan.UnitSmall:    1,
		plan.UnitLargest:  1,
	}
	seg := plan.Segment{Length: 45}

	res := Generate(counts, seg, opts)

	for _, u := range res.Units {
		target := flex.TargetWidth(u.Type, opts.Mix, opts.Depth)
		if u.Width < target-1e-9 {
			t.Errorf("%v unit width %.3f below target %.3f", u.Type, u.Width, target)
		}
	}
}

func TestGenerate_ContiguousOffsets(t *testing.T) {
	counts := plan.UnitCounts{plan.UnitSmall: 3, plan.UnitLarge: 1}
	res := Generate(counts, plan.Segment{Length: 55}, testOptions())

	cursor := 0.0
	for i, u := range res.Units {
		if math.Abs(u.Offset-cursor) > 1e-9 {
			t.Errorf("unit %d offset %.3f, want %.3f", i, u.Offset, cursor)
		}
		cursor += u.Width
	}
}

func TestGenerate_CornerEnforced(t *testing.T) {
	opts := testOptions()
	counts := plan.UnitCounts{
		plan.UnitSmallest: 2,
		plan.UnitLargest:  1,
	}
	// Ascending order puts a smallest unit at the left corner; the
	// eligible unit must swap out to the edge.
	opts.Pattern = plan.OrderAscending
	seg := plan.Segment{Length: 40, CornerLeft: true}

	res := Generate(counts, seg, opts)

	first := res.Units[0]
	if !flex.CornerEligible(first.Type, opts.Mix) {
		t.Errorf("left corner holds %v, want a corner-eligible type", first.Type)
	}
}

func TestGenerate_CornerForcedUpgrade(t *testing.T) {
	rec := &observability.Recorder{}
	opts := testOptions()
	opts.Hooks = rec
	// The second type sits close enough to the third that an upgraded
	// corner type still roughly fits the replaced slot.
	opts.Mix[plan.UnitSmall].TargetArea = 100

	// No corner-eligible unit in the counts at all.
	counts := plan.UnitCounts{plan.UnitSmall: 2}
	seg := plan.Segment{Length: 30, CornerLeft: true}

	res := Generate(counts, seg, opts)

	first := res.Units[0]
	if !flex.CornerEligible(first.Type, opts.Mix) {
		t.Errorf("left corner holds %v after forced upgrade, want eligible type", first.Type)
	}
	if len(rec.Named("corner_forced")) == 0 {
		t.Error("no corner_forced event recorded")
	}
	if len(res.Warnings) == 0 {
		t.Error("forced upgrade produced no warning")
	}
}

func TestGenerate_OverflowRemovesUnits(t *testing.T) {
	rec := &observability.Recorder{}
	opts := testOptions()
	opts.Hooks = rec

	// Minimum widths sum to ~51m in a 25m segment.
	counts := plan.UnitCounts{plan.UnitSmall: 5}
	seg := plan.Segment{Length: 25}

	res := Generate(counts, seg, opts)

	if len(res.Units) >= 5 {
		t.Errorf("kept %d units in an overfull segment", len(res.Units))
	}
	for _, u := range res.Units {
		if u.Width < flex.TargetWidth(u.Type, opts.Mix, opts.Depth)-1e-9 {
			t.Errorf("%v unit compressed below target", u.Type)
		}
	}
	if len(rec.Named("unit_removed")) == 0 {
		t.Error("no unit_removed events for an overfull segment")
	}
}

func TestGenerate_BonusUnitNotSmallest(t *testing.T) {
	opts := testOptions()
	opts.Pattern = plan.OrderAscending // smallest first, adjacent to the left bonus edge
	counts := plan.UnitCounts{
		plan.UnitSmallest: 1,
		plan.UnitLarge:    1,
	}
	seg := plan.Segment{Length: 25, BonusArea: 16, BonusLeft: true}

	res := Generate(counts, seg, opts)

	if res.Units[0].Type == plan.UnitSmallest {
		t.Error("smallest type left adjacent to the wrap gap")
	}
	if res.Units[0].BonusArea != 16 {
		t.Errorf("bonus area %.1f on edge unit, want 16", res.Units[0].BonusArea)
	}
}

func TestGenerate_BonusSkipsIneligibleSmallType(t *testing.T) {
	// Small type sits below the L-shape area threshold: it can never wrap
	// a core, so the credit must land on the large unit instead.
	mix := plan.Mix{
		{Name: "studio", Percentage: 25, TargetArea: 30},
		{Name: "one-bed", Percentage: 25, TargetArea: 50},
		{Name: "two-bed", Percentage: 25, TargetArea: 80},
		{Name: "three-bed", Percentage: 25, TargetArea: 100},
	}
	opts := Options{Mix: mix, Depth: 8, Pattern: plan.OrderAscending}
	counts := plan.UnitCounts{
		plan.UnitSmallest: 1,
		plan.UnitSmall:    1,
		plan.UnitLarge:    1,
	}
	seg := plan.Segment{Length: 18, BonusArea: 16, BonusLeft: true}

	res := Generate(counts, seg, opts)

	if res.Units[0].Type != plan.UnitLarge {
		t.Fatalf("bonus edge holds %v, want the wrap-capable large type", res.Units[0].Type)
	}
	if res.Units[0].BonusArea != 16 {
		t.Errorf("BonusArea = %.1f on the edge unit, want 16", res.Units[0].BonusArea)
	}
	smallTarget := flex.TargetWidth(plan.UnitSmall, mix, opts.Depth)
	for _, u := range res.Units {
		if u.Type == plan.UnitSmall && u.Width < smallTarget-1e-9 {
			t.Errorf("small unit width %.3f below target %.3f", u.Width, smallTarget)
		}
		if u.Type != plan.UnitLarge && u.BonusArea != 0 {
			t.Errorf("BonusArea %.1f on a %v unit", u.BonusArea, u.Type)
		}
	}
}

func TestGenerate_BonusForgoneWithoutEligibleType(t *testing.T) {
	// Neither type in the segment can wrap a core; the credit is dropped
	// rather than shrinking a unit that can never recover the area.
	mix := plan.Mix{
		{Name: "studio", Percentage: 40, TargetArea: 30},
		{Name: "one-bed", Percentage: 60, TargetArea: 50},
	}
	opts := Options{Mix: mix, Depth: 8, Pattern: plan.OrderDescending}
	counts := plan.UnitCounts{
		plan.UnitSmallest: 1,
		plan.UnitSmall:    2,
	}
	seg := plan.Segment{Length: 16.25, BonusArea: 16, BonusLeft: true}

	res := Generate(counts, seg, opts)

	for _, u := range res.Units {
		if u.BonusArea != 0 {
			t.Errorf("BonusArea %.1f assigned with no wrap-capable type", u.BonusArea)
		}
		target := flex.TargetWidth(u.Type, mix, opts.Depth)
		if u.Width < target-1e-9 {
			t.Errorf("%v unit width %.3f below target %.3f", u.Type, u.Width, target)
		}
	}
}

func TestGenerate_BonusCreditKeepsTightUnit(t *testing.T) {
	opts := testOptions()
	counts := plan.UnitCounts{plan.UnitLarge: 2}

	// Two large units need 27.5m at target. A 26m segment overflows
	// without the wrap-gap credit, but the 16 sqm bonus (2m at depth 8)
	// keeps both.
	plain := Generate(counts, plan.Segment{Length: 26}, opts)
	credited := Generate(counts, plan.Segment{Length: 26, BonusArea: 16, BonusLeft: true}, opts)

	plainLarge := 0
	for _, u := range plain.Units {
		if u.Type == plan.UnitLarge {
			plainLarge++
		}
	}
	if plainLarge != 1 {
		t.Fatalf("uncredited run kept %d large units, want 1", plainLarge)
	}
	if len(credited.Units) != 2 {
		t.Fatalf("credited run kept %d units, want 2", len(credited.Units))
	}
	if credited.Units[0].BonusArea != 16 {
		t.Errorf("BonusArea = %.1f, want 16 on the wrapping unit", credited.Units[0].BonusArea)
	}
}

func TestGenerate_AutoSplitOversizedBoundary(t *testing.T) {
	rec := &observability.Recorder{}
	opts := testOptions()
	opts.Hooks = rec

	// One small unit (target 10.25m) in a 25m segment: past the split
	// factor, with enough excess for a smallest unit (6.875m).
	counts := plan.UnitCounts{plan.UnitSmall: 1}
	seg := plan.Segment{Length: 25}

	res := Generate(counts, seg, opts)

	if len(res.Units) != 2 {
		t.Fatalf("got %d units, want 2 after auto split", len(res.Units))
	}
	if res.Units[1].Type != plan.UnitSmallest {
		t.Errorf("split unit type %v, want UnitSmallest", res.Units[1].Type)
	}
	if len(rec.Named("unit_split")) == 0 {
		t.Error("no unit_split event recorded")
	}
}

func TestGenerate_AutoSplitKeepsBonusAtBoundary(t *testing.T) {
	opts := testOptions()
	// A right-edge bonus credit on the boundary unit: the split must carve
	// the smallest unit inward so the credited type stays flush with the
	// core it wraps.
	counts := plan.UnitCounts{plan.UnitLarge: 1}
	seg := plan.Segment{Length: 25, BonusArea: 16, BonusLeft: false}

	res := Generate(counts, seg, opts)

	if len(res.Units) != 2 {
		t.Fatalf("got %d units, want 2 after auto split", len(res.Units))
	}
	if res.Units[0].Type != plan.UnitSmallest {
		t.Errorf("inner unit type %v, want UnitSmallest", res.Units[0].Type)
	}
	last := res.Units[len(res.Units)-1]
	if last.Type != plan.UnitLarge {
		t.Fatalf("boundary unit type %v, want the credited large type", last.Type)
	}
	if last.BonusArea != 16 {
		t.Errorf("BonusArea = %.1f on the boundary unit, want 16", last.BonusArea)
	}
	if got := last.Offset + last.Width; math.Abs(got-25) > 0.02 {
		t.Errorf("credited unit ends at %.3f, want the segment boundary 25", got)
	}
}

func TestGenerate_CornerSlotNeverSplit(t *testing.T) {
	opts := testOptions()
	counts := plan.UnitCounts{plan.UnitLargest: 1}
	// A corner-eligible facade corner absorbs the whole span instead of
	// splitting.
	seg := plan.Segment{Length: 30, CornerRight: true}

	res := Generate(counts, seg, opts)

	if len(res.Units) != 1 {
		t.Fatalf("corner slot split into %d units, want 1", len(res.Units))
	}
	if math.Abs(res.Units[0].Width-30) > 0.02 {
		t.Errorf("corner unit width %.2f, want 30", res.Units[0].Width)
	}
}

func TestGenerate_EmptyCounts(t *testing.T) {
	res := Generate(plan.UnitCounts{}, plan.Segment{Length: 20}, testOptions())
	if len(res.Units) != 0 {
		t.Errorf("empty counts produced %d units", len(res.Units))
	}
	if res.Gap != 20 {
		t.Errorf("Gap = %.1f, want full segment length", res.Gap)
	}
}

func TestGenerate_RandomPatternDeterministicPerSeed(t *testing.T) {
	opts := testOptions()
	opts.Pattern = plan.OrderRandom
	counts := plan.UnitCounts{
		plan.UnitSmallest: 2,
		plan.UnitSmall:    2,
		plan.UnitLarge:    2,
	}
	seg := plan.Segment{Length: 70}

	opts.Rand = rand.New(rand.NewSource(7))
	a := Generate(counts, seg, opts)
	opts.Rand = rand.New(rand.NewSource(7))
	b := Generate(counts, seg, opts)

	if len(a.Units) != len(b.Units) {
		t.Fatal("same seed produced different unit counts")
	}
	for i := range a.Units {
		if a.Units[i].Type != b.Units[i].Type || a.Units[i].Width != b.Units[i].Width {
			t.Fatalf("same seed produced different layouts at unit %d", i)
		}
	}
}

func TestExpand_Patterns(t *testing.T) {
	counts := plan.UnitCounts{
		plan.UnitSmallest: 2,
		plan.UnitLarge:    2,
	}

	desc := expand(counts, plan.OrderDescending, nil)
	want := []plan.UnitType{plan.UnitLarge, plan.UnitLarge, plan.UnitSmallest, plan.UnitSmallest}
	for i := range want {
		if desc[i] != want[i] {
			t.Errorf("descending[%d] = %v, want %v", i, desc[i], want[i])
		}
	}

	asc := expand(counts, plan.OrderAscending, nil)
	for i := range want {
		if asc[i] != want[len(want)-1-i] {
			t.Errorf("ascending[%d] = %v, want %v", i, asc[i], want[len(want)-1-i])
		}
	}

	v := expand(counts, plan.OrderValley, nil)
	if v[0] != plan.UnitLarge || v[len(v)-1] != plan.UnitLarge {
		t.Errorf("valley edges = %v/%v, want large units flanking", v[0], v[len(v)-1])
	}
	if v[1] != plan.UnitSmallest || v[2] != plan.UnitSmallest {
		t.Errorf("valley middle = %v/%v, want smallest units", v[1], v[2])
	}
}
