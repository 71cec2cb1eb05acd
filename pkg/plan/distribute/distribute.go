// Package distribute assigns a side's unit inventory to its wall segments.
//
// Distribution runs four passes: corner reservation, iterative best-fit
// filling, forced overflow placement, and anti-starvation. The passes
// guarantee that every input unit lands in exactly one segment, that corner
// segments get a corner-eligible unit whenever the inventory has one, and
// that no segment renders empty.
package distribute

import (
	"cmp"
	"slices"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/observability"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/flex"
)

const (
	eps = 1e-9

	// cornerFitTolerance shrinks the fit test during corner reservation so
	// a reserved corner unit keeps a little room to breathe.
	cornerFitTolerance = 0.5

	// smallestDominancePenalty inflates a segment's effective density in
	// proportion to its smallest-type share, steering overflow placement
	// away from segments already crowded with small units.
	smallestDominancePenalty = 0.25
)

// Options configures one distribution run.
type Options struct {
	Mix   plan.Mix
	Depth float64

	// CornerPriority enables the reservation pass. It is on for every
	// production call; the optimizer's scoring probes keep it on too so the
	// score reflects the real placement rules.
	CornerPriority bool

	// Hooks receives decision-point events. Nil means no events.
	Hooks observability.PlannerHooks
}

func (o Options) hooks() observability.PlannerHooks {
	if o.Hooks != nil {
		return o.Hooks
	}
	return observability.NoopPlannerHooks{}
}

// state tracks one in-progress distribution.
type state struct {
	opts      Options
	segments  []plan.Segment
	placed    []plan.UnitCounts
	inventory plan.UnitCounts
}

// Distribute assigns the inventory to the segments and returns per-segment
// counts summing exactly to the input inventory. The input inventory is not
// mutated.
func Distribute(inventory plan.UnitCounts, segments []plan.Segment, opts Options) []plan.UnitCounts {
	s := &state{
		opts:      opts,
		segments:  segments,
		placed:    make([]plan.UnitCounts, len(segments)),
		inventory: inventory.Clone(),
	}
	for i := range s.placed {
		s.placed[i] = make(plan.UnitCounts, plan.NumUnitTypes)
	}
	if len(segments) == 0 || inventory.Total() == 0 {
		return s.placed
	}

	if opts.CornerPriority {
		s.reserveCorners()
	}
	s.iterativeFill()
	s.placeOverflow()
	s.fixStarvation()
	return s.placed
}

func (s *state) targetWidth(t plan.UnitType) float64 {
	return flex.TargetWidth(t, s.opts.Mix, s.opts.Depth)
}

func (s *state) placedWidth(i int) float64 {
	var sum float64
	for t, n := range s.placed[i] {
		sum += float64(n) * s.targetWidth(t)
	}
	return sum
}

func (s *state) remainingCapacity(i int) float64 {
	return s.segments[i].Length - s.placedWidth(i)
}

func (s *state) place(i int, t plan.UnitType) {
	s.placed[i][t]++
	s.inventory[t]--
}

// reserveCorners places one corner-eligible unit into each corner segment,
// trying eligible types largest first. A corner segment must never lack a
// corner-eligible unit while inventory allows, so if nothing fits the
// smallest eligible type is forced in regardless of width.
func (s *state) reserveCorners() {
	eligible := flex.CornerTypesDescending(s.opts.Mix)
	for i, seg := range s.segments {
		corners := 0
		if seg.CornerLeft {
			corners++
		}
		if seg.CornerRight {
			corners++
		}
		for c := 0; c < corners; c++ {
			reserved := false
			for _, t := range eligible {
				if s.inventory[t] <= 0 {
					continue
				}
				if s.placedWidth(i)+s.targetWidth(t) <= seg.Length-cornerFitTolerance+eps {
					s.place(i, t)
					s.opts.hooks().OnCornerReserved(i, t)
					reserved = true
					break
				}
			}
			if reserved {
				continue
			}
			for j := len(eligible) - 1; j >= 0; j-- {
				if t := eligible[j]; s.inventory[t] > 0 {
					s.place(i, t)
					s.opts.hooks().OnCornerForced(i, t)
					break
				}
			}
		}
	}
}

// scanOrder returns segment indices with corners first, then by descending
// remaining capacity. Ties break on index for determinism.
func (s *state) scanOrder() []int {
	order := make([]int, len(s.segments))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ca, cb := s.segments[a].Corner(), s.segments[b].Corner()
		if ca != cb {
			if ca {
				return -1
			}
			return 1
		}
		return cmp.Compare(s.remainingCapacity(b), s.remainingCapacity(a))
	})
	return order
}

// bestFitting returns the available type with the largest target width that
// still fits the capacity, and false when none does.
func (s *state) bestFitting(capacity float64, restrict func(plan.UnitType) bool) (plan.UnitType, bool) {
	for t := plan.UnitLargest; t >= plan.UnitSmallest; t-- {
		if s.inventory[t] <= 0 {
			continue
		}
		if restrict != nil && !restrict(t) {
			continue
		}
		if s.targetWidth(t) <= capacity+eps {
			return t, true
		}
	}
	return 0, false
}

// iterativeFill repeatedly scans the segments, placing the best-fitting
// available type into each, until a full scan makes no progress. Corner
// segments restrict to corner-eligible types; when no eligible type fits,
// any physically fitting type is the fallback.
func (s *state) iterativeFill() {
	cornerOnly := func(t plan.UnitType) bool { return flex.CornerEligible(t, s.opts.Mix) }
	for {
		progress := false
		for _, i := range s.scanOrder() {
			capacity := s.remainingCapacity(i)
			var t plan.UnitType
			var ok bool
			if s.segments[i].Corner() {
				t, ok = s.bestFitting(capacity, cornerOnly)
				if !ok {
					t, ok = s.bestFitting(capacity, nil)
				}
			} else {
				t, ok = s.bestFitting(capacity, nil)
			}
			if ok {
				s.place(i, t)
				progress = true
			}
		}
		if !progress {
			return
		}
	}
}

// effectiveDensity is the fill fraction of a segment, penalized for
// smallest-type dominance so overflow avoids stacking yet more units into a
// segment already full of the smallest type.
func (s *state) effectiveDensity(i int) float64 {
	seg := s.segments[i]
	if seg.Length <= 0 {
		return 1
	}
	density := s.placedWidth(i) / seg.Length
	if total := s.placed[i].Total(); total > 0 {
		smallShare := float64(s.placed[i][plan.UnitSmallest]) / float64(total)
		density += smallShare * smallestDominancePenalty
	}
	return density
}

// placeOverflow forces the remaining inventory, one unit at a time and
// largest type first, into the segment with the lowest effective density.
// The generator later resolves the resulting compression by unit removal,
// never by shrinking below target.
func (s *state) placeOverflow() {
	for t := plan.UnitLargest; t >= plan.UnitSmallest; t-- {
		for s.inventory[t] > 0 {
			best, bestDensity := 0, s.effectiveDensity(0)
			for i := 1; i < len(s.segments); i++ {
				if d := s.effectiveDensity(i); d < bestDensity-eps {
					best, bestDensity = i, d
				}
			}
			s.place(best, t)
			s.opts.hooks().OnOverflowPlacement(best, t)
		}
	}
}

// fixStarvation moves one unit into any segment left empty, stealing from
// the most populated segment. Corner recipients prefer a corner-appropriate
// type from the donor.
func (s *state) fixStarvation() {
	for i := range s.segments {
		if s.placed[i].Total() > 0 {
			continue
		}
		donor, donorTotal := -1, 1
		for j := range s.segments {
			if j != i && s.placed[j].Total() > donorTotal {
				donor, donorTotal = j, s.placed[j].Total()
			}
		}
		if donor < 0 {
			continue
		}
		t, ok := s.donationType(donor, s.segments[i].Corner())
		if !ok {
			continue
		}
		s.placed[donor][t]--
		s.placed[i][t]++
		s.opts.hooks().OnStarvationTransfer(donor, i, t)
	}
}

// donationType picks which type the donor gives up. Corner recipients take
// the donor's largest corner-eligible type when one exists; otherwise the
// donor's most abundant type goes.
func (s *state) donationType(donor int, corner bool) (plan.UnitType, bool) {
	if corner {
		for t := plan.UnitLargest; t >= plan.UnitSmallest; t-- {
			if s.placed[donor][t] > 0 && flex.CornerEligible(t, s.opts.Mix) {
				return t, true
			}
		}
	}
	best, bestCount := plan.UnitSmallest, 0
	for t := plan.UnitLargest; t >= plan.UnitSmallest; t-- {
		if s.placed[donor][t] > bestCount {
			best, bestCount = t, s.placed[donor][t]
		}
	}
	return best, bestCount > 0
}
