package segment

import (
	"math/rand"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
)

// expand turns per-type counts into an ordered unit list following the
// requested pattern. The pattern is cosmetic: it decides which neighbors a
// unit gets, not how wide it ends up.
func expand(counts plan.UnitCounts, pattern plan.OrderPattern, rng *rand.Rand) []plan.UnitType {
	desc := make([]plan.UnitType, 0, counts.Total())
	for t := plan.UnitLargest; t >= plan.UnitSmallest; t-- {
		for i := 0; i < counts[t]; i++ {
			desc = append(desc, t)
		}
	}

	switch pattern {
	case plan.OrderAscending:
		out := make([]plan.UnitType, len(desc))
		for i, t := range desc {
			out[len(desc)-1-i] = t
		}
		return out
	case plan.OrderValley:
		return valley(desc)
	case plan.OrderRandom:
		if rng != nil {
			rng.Shuffle(len(desc), func(i, j int) {
				desc[i], desc[j] = desc[j], desc[i]
			})
		}
		return desc
	default:
		return desc
	}
}

// valley deals a descending list alternately to the front and the back, so
// the largest units flank the segment edges and the smallest sit in the
// middle.
func valley(desc []plan.UnitType) []plan.UnitType {
	out := make([]plan.UnitType, len(desc))
	front, back := 0, len(desc)-1
	for i, t := range desc {
		if i%2 == 0 {
			out[front] = t
			front++
		} else {
			out[back] = t
			back--
		}
	}
	return out
}
