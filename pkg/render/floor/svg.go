// Package floor renders generated floor plans as SVG and JSON.
package floor

import (
	"bytes"
	"fmt"
	"os"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/geom"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
)

// Pixels per meter in the SVG viewport.
const svgScale = 20.0

// Margin around the drawing, in meters.
const svgMargin = 1.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette    Palette
	showLabels bool
	showStats  bool
}

// WithPalette overrides the default unit colors.
func WithPalette(p Palette) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// WithLabels draws the type name and area into each unit.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.showLabels = true } }

// WithStats adds a footer line with efficiency and unit totals.
func WithStats() SVGOption { return func(r *svgRenderer) { r.showStats = true } }

// RenderSVG draws a floor plan in plan space. Geometry y grows away from
// the core-side facade; SVG y grows downward, so the drawing is flipped in
// place and the core side ends up at the bottom of the image.
func RenderSVG(p *plan.FloorPlanData, opts ...SVGOption) []byte {
	r := svgRenderer{palette: NewPalette(nil)}
	for _, opt := range opts {
		opt(&r)
	}

	w := (p.BuildingLength + 2*svgMargin) * svgScale
	h := (p.BuildingDepth + 2*svgMargin) * svgScale
	if r.showStats {
		h += 2 * svgMargin * svgScale
	}

	flip := func(rc geom.Rect) geom.Rect {
		return geom.Rect{
			X:      (rc.X + svgMargin) * svgScale,
			Y:      (p.BuildingDepth - rc.Y - rc.Height + svgMargin) * svgScale,
			Width:  rc.Width * svgScale,
			Height: rc.Height * svgScale,
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#ffffff"/>`+"\n", w, h)

	renderRect(&buf, flip(p.Corridor), corridorFill, "corridor")
	for _, f := range p.Fillers {
		renderRect(&buf, flip(f.Rect), fillerFill, "filler")
	}
	for _, u := range p.Units {
		fill := r.palette.Fill(u.Type)
		renderRect(&buf, flip(u.Rect), fill, "unit")
		if u.Shape.IsL() {
			renderRect(&buf, flip(u.Shape.Wing), fill, "unit-wing")
		}
	}
	for _, c := range p.Cores {
		renderRect(&buf, flip(c.Rect), coreFill, "core")
	}

	if r.showLabels {
		for _, u := range p.Units {
			renderLabel(&buf, flip(u.Rect), u.Type.String(), u.Area)
		}
	}
	if r.showStats {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-family="monospace" font-size="12">%d units, %.1f%% efficient, NRSF %.0f</text>`+"\n",
			svgMargin*svgScale, h-svgMargin*svgScale,
			p.Stats.TotalUnits, p.Stats.Efficiency*100, p.Stats.NRSF)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderRect(buf *bytes.Buffer, r geom.Rect, fill, class string) {
	fmt.Fprintf(buf, `  <rect class=%q x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill=%q stroke=%q stroke-width="1"/>`+"\n",
		class, r.X, r.Y, r.Width, r.Height, fill, strokeColor)
}

func renderLabel(buf *bytes.Buffer, r geom.Rect, name string, area float64) {
	if r.Width < 3*svgScale {
		return
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="monospace" font-size="10" text-anchor="middle" fill="#ffffff">%s %.0f</text>`+"\n",
		r.X+r.Width/2, r.Y+r.Height/2, name, area)
}

// ExportSVG writes the rendered plan to a file at path.
func ExportSVG(p *plan.FloorPlanData, path string, opts ...SVGOption) error {
	return os.WriteFile(path, RenderSVG(p, opts...), 0o644)
}
