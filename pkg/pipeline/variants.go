package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
)

// Variant is one labeled layout alternative from GenerateVariants.
type Variant struct {
	ID          string              `json:"id"`
	Label       string              `json:"label"`
	Description string              `json:"description"`
	Plan        *plan.FloorPlanData `json:"plan"`
}

var variantDescriptions = map[plan.Strategy]string{
	plan.StrategyBalanced:    "Balances mix accuracy against rentable fill",
	plan.StrategyMixAccuracy: "Tracks the requested unit mix as closely as possible",
	plan.StrategyEfficiency:  "Maximizes rentable area and unit count",
}

// GenerateVariants produces one layout per generation strategy for
// side-by-side comparison. It always returns exactly three variants with
// distinct labels and unique ids.
func GenerateVariants(ctx context.Context, opts Options) ([]Variant, error) {
	strategies := []plan.Strategy{
		plan.StrategyBalanced,
		plan.StrategyMixAccuracy,
		plan.StrategyEfficiency,
	}
	variants := make([]Variant, 0, len(strategies))
	for _, s := range strategies {
		o := opts
		o.Strategy = s
		o.Pattern = opts.Pattern
		o.validated = false
		result, err := Generate(ctx, o)
		if err != nil {
			return nil, err
		}
		variants = append(variants, Variant{
			ID:          uuid.NewString(),
			Label:       s.String(),
			Description: variantDescriptions[s],
			Plan:        result,
		})
	}
	return variants, nil
}
