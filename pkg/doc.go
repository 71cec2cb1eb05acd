// Package pkg provides the core libraries for floor plate generation.
//
// # Overview
//
// The generator lays out residential units along a double-loaded corridor:
// two rows of units face a central corridor, with stair/elevator cores on
// one of the rows. The pkg directory is organized into four main areas:
//
//  1. [plan] - Domain logic (unit counts, segments, geometry, egress)
//  2. [pipeline] - Orchestration (solve → optimize → distribute → generate)
//  3. [config] - Plan file loading and the canonical-type adapter
//  4. [render] - SVG and JSON output
//
// # Architecture
//
// The typical data flow through the generator:
//
//	Plan file (TOML) or API request (JSON)
//	         ↓
//	    [config] package (validate + map to options)
//	         ↓
//	    [plan/solver] package (unit counts per side)
//	         ↓
//	    [plan/optimize] package (corner bays + core positions)
//	         ↓
//	    [plan/distribute] + [plan/segment] (units per wall segment)
//	         ↓
//	    [plan/align] package (walls, core wraps, voids, fillers)
//	         ↓
//	    SVG/JSON output
//
// # Quick Start
//
// Generate a floor plan from options:
//
//	import (
//	    "context"
//	    "github.com/DanielGameiroAutodesk/floorplate-generator/pkg/pipeline"
//	    "github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
//	    "github.com/DanielGameiroAutodesk/floorplate-generator/pkg/render/floor"
//	)
//
//	// 1. Describe the building and unit mix
//	opts := pipeline.Options{
//	    Footprint: plan.BuildingFootprint{Length: 60, Depth: 18},
//	    Mix:       mix,
//	}
//
//	// 2. Run the pipeline
//	result, _ := pipeline.Generate(context.Background(), opts)
//
//	// 3. Render to SVG
//	svg := floor.RenderSVG(result, floor.WithLabels())
//
// # Main Packages
//
//   - [plan] - canonical unit types, mix, and output data model
//   - [plan/flex] - per-type width bands and eligibility rules
//   - [plan/solver] - building-wide unit count solver and per-side split
//   - [plan/optimize] - corner-bay and mid-core grid search
//   - [plan/distribute] - segment-level inventory distribution
//   - [plan/segment] - unit ordering, expansion, and slack handling
//   - [plan/align] - wall alignment, core wrapping, void absorption
//   - [plan/egress] - travel distance and dead end validation
//   - [pipeline] - the full generation flow shared by CLI and HTTP API
//   - [config] - TOML plan files and the open→canonical type adapter
//   - [render/floor] - SVG and JSON renderers
//   - [observability] - planner hooks for instrumentation and tests
//   - [errors] - structured error codes shared by CLI and API
//   - [geom] - rectangles, L-polygons, and placement transforms
package pkg
