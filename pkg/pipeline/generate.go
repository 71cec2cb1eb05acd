package pipeline

import (
	"context"
	"math/rand"
	"time"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/errors"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/geom"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/align"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/distribute"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/egress"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/optimize"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/segment"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan/solver"
)

// Generate runs the complete pipeline and returns the floor plan.
//
// Infeasible mixes and sub-minimum lengths degrade to a plan with zero
// units and recorded warnings; an error is returned only for invalid
// options or a footprint that cannot hold a corridor at all.
func Generate(ctx context.Context, opts Options) (*plan.FloorPlanData, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "generation canceled")
	}
	start := time.Now()

	g := &generation{opts: &opts}
	g.build()

	opts.Logger.Info("generated floor plan",
		"units", g.out.Stats.TotalUnits,
		"cores", len(g.out.Cores),
		"efficiency", g.out.Stats.Efficiency,
		"duration", time.Since(start).Round(time.Millisecond))
	return g.out, nil
}

// generation carries the intermediate state of one pipeline run.
type generation struct {
	opts *Options
	bar  optimize.Bar
	out  *plan.FloorPlanData

	coreUnits  []plan.UnitBlock
	clearUnits []plan.UnitBlock
	cores      []plan.CoreBlock
	warnings   []string
}

func (g *generation) build() {
	o := g.opts
	length := o.Footprint.Length
	depth := o.RentableDepth()

	midCore, halfTravel := egress.NeedsMidCore(length, o.CoreWidth, o.Egress)
	if midCore {
		o.Hooks.OnMidCoreInserted(halfTravel, o.Egress.TravelDistanceLimit)
		o.Logger.Debug("mid core required", "halfTravel", halfTravel,
			"limit", o.Egress.TravelDistanceLimit)
	}
	g.bar = optimize.Bar{
		Length:        length,
		RentableDepth: depth,
		CoreWidth:     o.CoreWidth,
		CoreDepth:     min(o.CoreDepth, depth),
		MidCore:       midCore,
	}

	coreInv, clearInv, mirrored := g.solveCounts()
	choice := optimize.Search(optimize.Config{
		Bar:            g.bar,
		Mix:            o.Mix,
		CoreInventory:  coreInv,
		ClearInventory: clearInv,
	})
	o.Logger.Debug("optimizer choice", "corner", choice.CornerLength,
		"offset", choice.MidOffset, "score", choice.Score)

	g.placeCores(choice)
	g.generateSide(plan.SideCore, coreInv, g.bar.CoreSideSegments(choice.CornerLength, choice.MidOffset), 0)
	if !mirrored {
		g.generateSide(plan.SideClear, clearInv, g.bar.ClearSideSegments(), g.bar.SegmentCount()-1)
	}
	g.postProcess(mirrored)
	g.assemble()
}

// solveCounts computes the building-wide inventory and splits it per side.
// Strict alignment switches to mirrored mode: counts are computed for the
// core side only and cloned geometrically later, avoiding the double
// compensation a second solve would cause.
func (g *generation) solveCounts() (coreInv, clearInv plan.UnitCounts, mirrored bool) {
	o := g.opts
	bonus := g.coreCount() * g.bar.WrapGapDepth() * o.CoreWidth
	mirrored = o.Alignment > align.StrictThreshold

	if mirrored {
		coreInv = solver.Count(solver.Options{
			Length:    g.bar.CoreSideRentable(),
			Depth:     g.bar.RentableDepth,
			BonusArea: bonus,
			MinCount:  g.bar.SegmentCount() - 1,
			Mix:       o.Mix,
			Strategy:  o.Strategy,
		})
		if coreInv.Total() == 0 {
			g.warn("no units fit the core side; layout degenerates to cores and fillers")
		}
		return coreInv, nil, true
	}

	total := solver.Count(solver.Options{
		Length:    g.bar.CoreSideRentable() + g.bar.Length,
		Depth:     g.bar.RentableDepth,
		BonusArea: bonus,
		MinCount:  g.bar.SegmentCount(),
		Mix:       o.Mix,
		Strategy:  o.Strategy,
	})
	if total.Total() == 0 {
		g.warn("no units fit the footprint; layout degenerates to cores and fillers")
		return plan.UnitCounts{}, plan.UnitCounts{}, false
	}
	coreInv, clearInv = solver.Split(total, o.Mix, g.bar.CoreSideRentable(), g.bar.Length)
	return coreInv, clearInv, false
}

func (g *generation) coreCount() float64 {
	if g.bar.MidCore {
		return 3
	}
	return 2
}

func (g *generation) placeCores(choice optimize.Choice) {
	depth := g.bar.RentableDepth
	y := g.coreSideY() + depth - g.bar.CoreDepth
	positions := g.bar.CorePositions(choice.CornerLength, choice.MidOffset)
	for i, x := range positions {
		role := plan.CoreEnd
		if g.bar.MidCore && i == 1 {
			role = plan.CoreMid
		}
		g.cores = append(g.cores, plan.CoreBlock{
			Rect: geom.Rect{X: x, Y: y, Width: g.opts.CoreWidth, Height: g.bar.CoreDepth},
			Side: plan.SideCore,
			Role: role,
		})
	}
}

// generateSide distributes the side's inventory over its segments and
// generates unit rectangles segment by segment. segOffset keeps event
// segment indices unique across sides.
func (g *generation) generateSide(side plan.Side, inv plan.UnitCounts, segs []plan.Segment, segOffset int) {
	o := g.opts
	if inv.Total() == 0 {
		return
	}
	perSeg := distribute.Distribute(inv, segs, distribute.Options{
		Mix:            o.Mix,
		Depth:          g.bar.RentableDepth,
		CornerPriority: true,
		Hooks:          o.Hooks,
	})

	rng := rand.New(rand.NewSource(int64(o.Seed)))
	y := g.coreSideY()
	if side == plan.SideClear {
		y = g.clearSideY()
	}

	var units []plan.UnitBlock
	for i, seg := range segs {
		res := segment.Generate(perSeg[i], seg, segment.Options{
			Mix:     o.Mix,
			Depth:   g.bar.RentableDepth,
			Pattern: o.OrderPattern(),
			Rand:    rng,
			Index:   segOffset + i,
			Hooks:   o.Hooks,
		})
		g.warnings = append(g.warnings, res.Warnings...)
		if res.Gap > 0 {
			o.Logger.Debug("segment gap", "side", side, "segment", i, "gap", res.Gap)
		}
		for _, u := range res.Units {
			rect := geom.Rect{
				X:      seg.Start + u.Offset,
				Y:      y,
				Width:  u.Width,
				Height: g.bar.RentableDepth,
			}
			units = append(units, plan.UnitBlock{
				Type:  u.Type,
				Side:  side,
				Rect:  rect,
				Area:  rect.Area(),
				Shape: geom.LPolygon{Base: rect},
			})
		}
	}
	if side == plan.SideCore {
		g.coreUnits = units
	} else {
		g.clearUnits = units
	}
}

func (g *generation) coreSideY() float64 { return 0 }

func (g *generation) clearSideY() float64 {
	return g.bar.RentableDepth + g.opts.CorridorWidth
}

func (g *generation) alignContext() align.Context {
	return align.Context{
		Mix:            g.opts.Mix,
		Depth:          g.bar.RentableDepth,
		BuildingLength: g.bar.Length,
		CorridorWidth:  g.opts.CorridorWidth,
		CoreDepth:      g.bar.CoreDepth,
		CoreSideY:      g.coreSideY(),
		ClearSideY:     g.clearSideY(),
	}
}

func (g *generation) postProcess(mirrored bool) {
	ctx := g.alignContext()
	if mirrored {
		g.clearUnits = align.MirrorStrict(g.coreUnits, g.cores, ctx)
	} else {
		align.NudgeWalls(g.coreUnits, g.clearUnits, g.opts.Alignment, ctx)
	}
	align.WrapCores(g.coreUnits, g.cores, ctx)
	align.AbsorbCorridorVoids(g.coreUnits, g.clearUnits, ctx)
}

func (g *generation) assemble() {
	o := g.opts
	ctx := g.alignContext()
	fillers := align.DetectFillers(g.coreUnits, g.clearUnits, g.cores, ctx)

	units := make([]plan.UnitBlock, 0, len(g.coreUnits)+len(g.clearUnits))
	units = append(units, g.coreUnits...)
	units = append(units, g.clearUnits...)

	corridor := geom.Rect{
		X:      0,
		Y:      g.bar.RentableDepth,
		Width:  g.bar.Length,
		Height: o.CorridorWidth,
	}

	if o.CoreSide == CoreSideBack {
		flipY := func(r *geom.Rect) { r.Y = o.Footprint.Depth - r.Y - r.Height }
		for i := range units {
			flipY(&units[i].Rect)
			flipY(&units[i].Shape.Base)
			if units[i].Shape.IsL() {
				flipY(&units[i].Shape.Wing)
			}
		}
		for i := range g.cores {
			flipY(&g.cores[i].Rect)
		}
		for i := range fillers {
			flipY(&fillers[i].Rect)
		}
		flipY(&corridor)
	}

	centers := make([]float64, len(g.cores))
	for i, c := range g.cores {
		centers[i] = c.Rect.CenterX()
	}

	g.out = &plan.FloorPlanData{
		Units:          units,
		Cores:          g.cores,
		Fillers:        fillers,
		Corridor:       corridor,
		BuildingLength: o.Footprint.Length,
		BuildingDepth:  o.Footprint.Depth,
		FloorElevation: o.Footprint.Elevation,
		Transform: geom.Transform{
			Rotation:  o.Footprint.Rotation,
			Center:    o.Footprint.Center,
			Elevation: o.Footprint.Elevation,
		},
		Stats:    g.stats(units),
		Egress:   egress.Evaluate(g.bar.Length, centers, o.Egress),
		Warnings: g.warnings,
	}
}

func (g *generation) stats(units []plan.UnitBlock) plan.Stats {
	o := g.opts
	s := plan.Stats{
		GSF:           o.Footprint.Length * o.Footprint.Depth,
		TotalUnits:    len(units),
		PerTypeCounts: make(map[string]int, plan.NumUnitTypes),
		PerTypeAreas:  make(map[string]float64, plan.NumUnitTypes),
	}
	for _, u := range units {
		s.NRSF += u.Area
		s.PerTypeCounts[u.Type.String()]++
		s.PerTypeAreas[u.Type.String()] += u.Area
	}
	if s.GSF > 0 {
		s.Efficiency = s.NRSF / s.GSF
	}
	return s
}

func (g *generation) warn(msg string) {
	g.warnings = append(g.warnings, msg)
	g.opts.Logger.Warn(msg)
}
