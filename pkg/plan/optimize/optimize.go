// Package optimize chooses the corner-bay length (and, for mid-core
// buildings, the symmetric mid-span core offset) minimizing layout
// distortion. It grid-searches the candidate space, synthesizing the
// segment set for each candidate and using the segment distributor as its
// scoring oracle.
package optimize

import (
	"math"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/distribute"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/flex"
)

const (
	// DefaultCornerStep is the corner-length grid step in meters.
	DefaultCornerStep = 0.5

	// DefaultOffsetStep is the mid-core offset grid step in meters.
	DefaultOffsetStep = 1.0

	// compressionWeight judges a compressed segment (units below minimum
	// width) this much harder than an equally stretched one.
	compressionWeight = 2.5

	// cornerSoftCapFactor bounds the corner bay at a share of the side
	// length so one corner cannot swallow the mid span.
	cornerSoftCapFactor = 0.35
)

// Config parameterizes one search.
type Config struct {
	Bar Bar
	Mix plan.Mix

	// CoreInventory and ClearInventory are each side's unit counts; the
	// score sums both sides' distortion.
	CoreInventory  plan.UnitCounts
	ClearInventory plan.UnitCounts

	CornerStep float64
	OffsetStep float64
}

// Choice is the winning candidate.
type Choice struct {
	CornerLength float64
	MidOffset    float64
	Score        float64
}

// Search runs the grid search and returns the lowest-scoring candidate.
// When no candidate produces a finite score, the feasibility minimum corner
// length with a centered mid core is returned.
func Search(cfg Config) Choice {
	cornerStep := cfg.CornerStep
	if cornerStep <= 0 {
		cornerStep = DefaultCornerStep
	}
	offsetStep := cfg.OffsetStep
	if offsetStep <= 0 {
		offsetStep = DefaultOffsetStep
	}

	minCorner := cfg.feasibilityMinimum()
	maxCorner := cornerSoftCapFactor * cfg.Bar.Length
	if maxCorner < minCorner {
		maxCorner = minCorner
	}

	best := Choice{CornerLength: minCorner, MidOffset: 0, Score: math.Inf(1)}
	for corner := minCorner; corner <= maxCorner+1e-9; corner += cornerStep {
		for _, offset := range cfg.offsetCandidates(corner, offsetStep) {
			score := cfg.score(corner, offset)
			if score < best.Score {
				best = Choice{CornerLength: corner, MidOffset: offset, Score: score}
			}
		}
	}
	return best
}

// feasibilityMinimum is the smallest workable corner bay: wide enough for
// the largest corner-eligible unit actually in inventory, soft-capped at a
// share of the side length.
func (cfg Config) feasibilityMinimum() float64 {
	var widest float64
	for _, t := range flex.CornerTypesDescending(cfg.Mix) {
		if cfg.CoreInventory[t] > 0 || cfg.ClearInventory[t] > 0 {
			widest = flex.TargetWidth(t, cfg.Mix, cfg.Bar.RentableDepth)
			break
		}
	}
	if widest == 0 {
		// No corner-eligible inventory at all: any smallest-type bay works.
		widest = flex.TargetWidth(plan.UnitSmallest, cfg.Mix, cfg.Bar.RentableDepth)
	}
	if softCap := cornerSoftCapFactor * cfg.Bar.Length; widest > softCap {
		return softCap
	}
	return widest
}

// offsetCandidates returns the symmetric mid-core offsets to probe. A
// two-core building has exactly one candidate, zero.
func (cfg Config) offsetCandidates(cornerLen, step float64) []float64 {
	if !cfg.Bar.MidCore {
		return []float64{0}
	}
	// Keep the mid core clear of the end cores and the corner bays.
	span := cfg.Bar.Length/2 - cornerLen - 2*cfg.Bar.CoreWidth
	if span <= 0 {
		return []float64{0}
	}
	out := []float64{0}
	for off := step; off <= span; off += step {
		out = append(out, off, -off)
	}
	return out
}

// score measures layout distortion for one candidate: per segment, the gap
// between available length and the distributed units' minimum-width sum,
// weighted heavier for compression than expansion and normalized by the
// segment's expansion-weight capacity, so flexible large-unit segments are
// judged more leniently.
func (cfg Config) score(cornerLen, midOffset float64) float64 {
	opts := distribute.Options{
		Mix:            cfg.Mix,
		Depth:          cfg.Bar.RentableDepth,
		CornerPriority: true,
	}

	total := 0.0
	sides := []struct {
		segs []plan.Segment
		inv  plan.UnitCounts
	}{
		{cfg.Bar.CoreSideSegments(cornerLen, midOffset), cfg.CoreInventory},
		{cfg.Bar.ClearSideSegments(), cfg.ClearInventory},
	}
	for _, side := range sides {
		if side.inv.Total() == 0 {
			continue
		}
		perSeg := distribute.Distribute(side.inv, side.segs, opts)
		for i, seg := range side.segs {
			total += cfg.segmentScore(seg, perSeg[i])
		}
	}
	if math.IsNaN(total) {
		return math.Inf(1)
	}
	return total
}

func (cfg Config) segmentScore(seg plan.Segment, counts plan.UnitCounts) float64 {
	var idealMin, flexCapacity float64
	for t, n := range counts {
		if n == 0 {
			continue
		}
		idealMin += float64(n) * flex.TargetWidth(t, cfg.Mix, cfg.Bar.RentableDepth)
		flexCapacity += float64(n) * flex.ExpansionWeight(t)
	}

	avail := seg.Length
	if cfg.Bar.RentableDepth > 0 {
		avail += seg.BonusArea / cfg.Bar.RentableDepth
	}

	diff := avail - idealMin
	if diff < 0 {
		diff = -diff * compressionWeight
	}
	if flexCapacity < 1 {
		flexCapacity = 1
	}
	return diff / flexCapacity
}
