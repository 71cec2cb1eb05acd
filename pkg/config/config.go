// Package config loads plan files and maps them onto pipeline options.
//
// A plan file is TOML with an open, data-driven unit type list:
//
//	[footprint]
//	length = 60.0
//	depth  = 18.0
//
//	[[unit]]
//	name        = "studio"
//	percentage  = 20
//	target_area = 55
//
//	[[unit]]
//	name        = "one-bed"
//	percentage  = 40
//	target_area = 82
//
//	[egress]
//	sprinklered = true
//
//	[geometry]
//	corridor_width = 1.83
//
// This package is the boundary adapter between that open list and the
// core's closed canonical type set: units are sorted by ascending target
// area and assigned to the canonical slots, so every "largest/smallest/
// next-larger" decision inside the allocation logic stays exact. The core
// never sees two parallel type representations.
package config

import (
	"cmp"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/errors"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/geom"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/pipeline"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
)

// File is the raw plan file structure. The HTTP API accepts the same
// structure as a JSON request body.
type File struct {
	Footprint  Footprint         `toml:"footprint" json:"footprint" validate:"required"`
	Units      []Unit            `toml:"unit" json:"unit" validate:"required,min=1,max=4,dive"`
	Egress     Egress            `toml:"egress" json:"egress"`
	Geometry   Geometry          `toml:"geometry" json:"geometry"`
	Generation Generation        `toml:"generation" json:"generation"`
	Colors     map[string]string `toml:"colors" json:"colors"`
}

// Footprint mirrors plan.BuildingFootprint in file form.
type Footprint struct {
	Length    float64   `toml:"length" json:"length" validate:"required,gt=0"`
	Depth     float64   `toml:"depth" json:"depth" validate:"required,gt=0"`
	Rotation  float64   `toml:"rotation" json:"rotation"`
	Center    []float64 `toml:"center" json:"center" validate:"omitempty,len=2"`
	Elevation float64   `toml:"elevation" json:"elevation"`
}

// Unit is one entry of the open unit type list.
type Unit struct {
	Name           string  `toml:"name" json:"name" validate:"required"`
	Percentage     float64 `toml:"percentage" json:"percentage" validate:"gte=0,lte=100"`
	TargetArea     float64 `toml:"target_area" json:"target_area" validate:"required,gt=0"`
	CornerEligible *bool   `toml:"corner_eligible" json:"corner_eligible"`
}

// Egress mirrors plan.EgressConfig; zero limits fall back to the
// sprinklered defaults.
type Egress struct {
	Sprinklered         bool    `toml:"sprinklered" json:"sprinklered"`
	DeadEndLimit        float64 `toml:"dead_end_limit" json:"dead_end_limit" validate:"gte=0"`
	TravelDistanceLimit float64 `toml:"travel_distance_limit" json:"travel_distance_limit" validate:"gte=0"`
	CommonPathLimit     float64 `toml:"common_path_limit" json:"common_path_limit" validate:"gte=0"`
}

// Geometry carries the corridor/core knobs.
type Geometry struct {
	CorridorWidth float64 `toml:"corridor_width" json:"corridor_width" validate:"gte=0"`
	CoreWidth     float64 `toml:"core_width" json:"core_width" validate:"gte=0"`
	CoreDepth     float64 `toml:"core_depth" json:"core_depth" validate:"gte=0"`
	CoreSide      string  `toml:"core_side" json:"core_side" validate:"omitempty,oneof=front back"`
	Alignment     float64 `toml:"alignment" json:"alignment" validate:"gte=0,lte=1"`
}

// Generation carries the strategy knobs.
type Generation struct {
	Strategy string `toml:"strategy" json:"strategy" validate:"omitempty,oneof=balanced mix efficiency"`
	Pattern  string `toml:"pattern" json:"pattern" validate:"omitempty,oneof=descending ascending valley random"`
	Seed     uint64 `toml:"seed" json:"seed"`
}

// Load reads and validates a plan file and maps it onto pipeline options.
func Load(path string) (pipeline.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates plan file contents.
func Parse(data []byte) (pipeline.Options, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode plan file")
	}
	if err := validator.New().Struct(&f); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid plan file")
	}
	return f.Options()
}

// Options maps the file onto pipeline options, running the canonical-type
// adapter.
func (f *File) Options() (pipeline.Options, error) {
	mix, colors, err := canonicalMix(f.Units, f.Colors)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Footprint: plan.BuildingFootprint{
			Length:    f.Footprint.Length,
			Depth:     f.Footprint.Depth,
			Rotation:  f.Footprint.Rotation,
			Elevation: f.Footprint.Elevation,
		},
		Mix: mix,
		Egress: plan.EgressConfig{
			Sprinklered:         f.Egress.Sprinklered,
			DeadEndLimit:        f.Egress.DeadEndLimit,
			TravelDistanceLimit: f.Egress.TravelDistanceLimit,
			CommonPathLimit:     f.Egress.CommonPathLimit,
		},
		CorridorWidth: f.Geometry.CorridorWidth,
		CoreWidth:     f.Geometry.CoreWidth,
		CoreDepth:     f.Geometry.CoreDepth,
		CoreSide:      f.Geometry.CoreSide,
		Alignment:     f.Geometry.Alignment,
		Seed:          f.Generation.Seed,
		Colors:        colors,
	}
	if len(f.Footprint.Center) == 2 {
		opts.Footprint.Center = geom.Point{X: f.Footprint.Center[0], Y: f.Footprint.Center[1]}
	}

	switch f.Generation.Strategy {
	case "mix":
		opts.Strategy = plan.StrategyMixAccuracy
	case "efficiency":
		opts.Strategy = plan.StrategyEfficiency
	default:
		opts.Strategy = plan.StrategyBalanced
	}
	if p, ok := patternByName(f.Generation.Pattern); ok {
		opts.Pattern = &p
	}
	return opts, nil
}

// canonicalMix sorts the open unit list by ascending target area and
// assigns it to the canonical slots, largest types last. Unassigned
// upper slots stay absent; duplicate target areas are rejected because
// the slot order must totally order the types.
func canonicalMix(units []Unit, colors map[string]string) (plan.Mix, map[plan.UnitType]string, error) {
	var mix plan.Mix
	sorted := slices.Clone(units)
	slices.SortStableFunc(sorted, func(a, b Unit) int {
		return cmp.Compare(a.TargetArea, b.TargetArea)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].TargetArea == sorted[i-1].TargetArea {
			return mix, nil, errors.New(errors.ErrCodeInvalidMix,
				"unit types %q and %q share target area %.1f; areas must be distinct",
				sorted[i-1].Name, sorted[i].Name, sorted[i].TargetArea)
		}
	}

	out := make(map[plan.UnitType]string, len(colors))
	for i, u := range sorted {
		t := plan.UnitType(i)
		mix[t] = plan.UnitTypeConfig{
			Name:           u.Name,
			Percentage:     u.Percentage,
			TargetArea:     u.TargetArea,
			CornerEligible: u.CornerEligible,
		}
		if c, ok := colors[u.Name]; ok {
			out[t] = c
		}
	}
	return mix, out, nil
}

func patternByName(name string) (plan.OrderPattern, bool) {
	switch name {
	case "descending":
		return plan.OrderDescending, true
	case "ascending":
		return plan.OrderAscending, true
	case "valley":
		return plan.OrderValley, true
	case "random":
		return plan.OrderRandom, true
	}
	return 0, false
}
