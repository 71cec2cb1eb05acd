package optimize

import "github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"

// Bar is the fixed geometry of a one-bar, double-loaded building: a straight
// corridor with a unit row on each side, cores inset from the building ends
// on the core side.
type Bar struct {
	Length        float64 // corridor-axis span
	RentableDepth float64 // depth of one unit row
	CoreWidth     float64
	CoreDepth     float64

	// MidCore adds a third core near mid-span when the two-core travel
	// distance would exceed the egress limit.
	MidCore bool
}

// WrapGapDepth returns the depth of the strip left between a core and the
// corridor-facing edge of the rentable row. A positive gap is a core-wrap
// opportunity for an adjacent L-shape-eligible unit.
func (b Bar) WrapGapDepth() float64 {
	if gap := b.RentableDepth - b.CoreDepth; gap > 0 {
		return gap
	}
	return 0
}

// coreBonus is the wrap-gap area one core contributes to its neighbor.
func (b Bar) coreBonus() float64 {
	return b.WrapGapDepth() * b.CoreWidth
}

// CorePositions returns the left-edge x offsets of all cores for the given
// corner-bay length and mid-core offset, ascending.
func (b Bar) CorePositions(cornerLen, midOffset float64) []float64 {
	pos := []float64{cornerLen}
	if b.MidCore {
		pos = append(pos, b.Length/2+midOffset-b.CoreWidth/2)
	}
	pos = append(pos, b.Length-cornerLen-b.CoreWidth)
	return pos
}

// CoreSideSegments splits the core side into rentable segments between the
// building ends and the core footprints.
//
// Wrap-gap bonus area follows the core-wrap rule: the rightmost core wraps
// its neighbor to the right, every other core wraps left, so each segment
// carries at most one bonus credit.
func (b Bar) CoreSideSegments(cornerLen, midOffset float64) []plan.Segment {
	cores := b.CorePositions(cornerLen, midOffset)
	bonus := b.coreBonus()

	segs := make([]plan.Segment, 0, len(cores)+1)
	cursor := 0.0
	for _, p := range cores {
		segs = append(segs, plan.Segment{Start: cursor, Length: p - cursor})
		cursor = p + b.CoreWidth
	}
	segs = append(segs, plan.Segment{Start: cursor, Length: b.Length - cursor})

	segs[0].CornerLeft = true
	segs[len(segs)-1].CornerRight = true

	if bonus > 0 {
		// Cores 0..n-2 wrap left: credit the preceding segment at its right
		// edge. The rightmost core wraps right: credit the final segment at
		// its left edge.
		for i := 0; i < len(cores)-1; i++ {
			segs[i].BonusArea = bonus
			segs[i].BonusLeft = false
		}
		segs[len(segs)-1].BonusArea = bonus
		segs[len(segs)-1].BonusLeft = true
	}
	return segs
}

// ClearSideSegments returns the clear side's single uninterrupted segment:
// no cores break the row, so both facade corners belong to it.
func (b Bar) ClearSideSegments() []plan.Segment {
	return []plan.Segment{{
		Start:       0,
		Length:      b.Length,
		CornerLeft:  true,
		CornerRight: true,
	}}
}

// SegmentCount returns the total number of segments across both sides, the
// minimum unit count the solver must produce.
func (b Bar) SegmentCount() int {
	n := 3 // two corner bays plus one mid span on the core side
	if b.MidCore {
		n++
	}
	return n + 1 // clear side contributes one full-length segment
}

// CoreSideRentable returns the core side's rentable length: the bar length
// minus the core footprints.
func (b Bar) CoreSideRentable() float64 {
	n := 2.0
	if b.MidCore {
		n = 3
	}
	return b.Length - n*b.CoreWidth
}
