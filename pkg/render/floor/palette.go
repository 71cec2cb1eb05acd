package floor

import "github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"

// Default fill colors per canonical type, smallest to largest.
var defaultPalette = map[plan.UnitType]string{
	plan.UnitSmallest: "#9ecae1",
	plan.UnitSmall:    "#6baed6",
	plan.UnitLarge:    "#3182bd",
	plan.UnitLargest:  "#08519c",
}

const (
	coreFill     = "#4a4a4a"
	corridorFill = "#e8e4da"
	fillerFill   = "#d9d9d9"
	strokeColor  = "#1f1f1f"
)

// Palette resolves per-type fill colors, letting call-site overrides win
// over the defaults.
type Palette struct {
	overrides map[plan.UnitType]string
}

// NewPalette builds a palette with optional per-type overrides.
func NewPalette(overrides map[plan.UnitType]string) Palette {
	return Palette{overrides: overrides}
}

// Fill returns the color for a unit type.
func (p Palette) Fill(t plan.UnitType) string {
	if c, ok := p.overrides[t]; ok && c != "" {
		return c
	}
	if c, ok := defaultPalette[t]; ok {
		return c
	}
	return fillerFill
}
