package render

import (
	"math"
	"math/rand/v2"

	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/geometry"
)

// Generator builds drawables for elements. With Roughness 0 it emits exact
// geometry; above 0 every edge becomes a pair of jittered bezier strokes,
// giving a hand-drawn look. Output is deterministic for a given Seed and
// geometry.
type Generator struct {
	Roughness   float64
	Bowing      float64
	Stroke      string
	StrokeWidth float64
	Dash        []float64
	Seed        uint64
}

// NewGenerator returns a generator with the defaults used by the canvas:
// no roughness, a 1px black stroke with a [1, 1] dash.
func NewGenerator() *Generator {
	return &Generator{
		Roughness:   0,
		Bowing:      1,
		Stroke:      "#000000",
		StrokeWidth: 1,
		Dash:        []float64{1, 1},
	}
}

var _ element.Renderer = (*Generator)(nil)

// RenderElement implements element.Renderer.
func (g *Generator) RenderElement(kind element.Kind, x1, y1, x2, y2 float64) element.Renderable {
	switch kind {
	case element.KindRectangle:
		return g.Rectangle(x1, y1, x2-x1, y2-y1)
	default:
		return g.Line(x1, y1, x2, y2)
	}
}

// Line builds a drawable for the segment (x1,y1)-(x2,y2).
func (g *Generator) Line(x1, y1, x2, y2 float64) *Drawable {
	a, b := geometry.Pt(x1, y1), geometry.Pt(x2, y2)
	d := g.drawable("line")
	if g.Roughness <= 0 {
		d.Path = []PathCommand{
			{Op: OpMove, Pts: []geometry.Point{a}},
			{Op: OpLine, Pts: []geometry.Point{b}},
		}
		return d
	}
	rng := g.rng(0, x1, y1, x2, y2)
	d.Path = g.roughSegment(rng, a, b)
	return d
}

// Rectangle builds a drawable for the box at (x, y) with the given extent.
// Width and height may be negative.
func (g *Generator) Rectangle(x, y, w, h float64) *Drawable {
	corners := []geometry.Point{
		geometry.Pt(x, y),
		geometry.Pt(x+w, y),
		geometry.Pt(x+w, y+h),
		geometry.Pt(x, y+h),
	}
	d := g.drawable("rectangle")
	if g.Roughness <= 0 {
		d.Path = []PathCommand{
			{Op: OpMove, Pts: corners[:1]},
			{Op: OpLine, Pts: corners[1:2]},
			{Op: OpLine, Pts: corners[2:3]},
			{Op: OpLine, Pts: corners[3:4]},
			{Op: OpClose},
		}
		return d
	}
	rng := g.rng(1, x, y, w, h)
	for i := range corners {
		d.Path = append(d.Path, g.roughSegment(rng, corners[i], corners[(i+1)%len(corners)])...)
	}
	return d
}

func (g *Generator) drawable(shape string) *Drawable {
	var dash []float64
	if len(g.Dash) > 0 {
		dash = append(dash, g.Dash...)
	}
	return &Drawable{
		Shape:       shape,
		Stroke:      g.Stroke,
		StrokeWidth: g.StrokeWidth,
		Dash:        dash,
	}
}

func (g *Generator) rng(kind uint64, vals ...float64) *rand.Rand {
	h := g.Seed ^ (kind * 0x9e3779b97f4a7c15)
	for _, v := range vals {
		h = (h ^ math.Float64bits(v)) * 0x100000001b3
	}
	return rand.New(rand.NewPCG(g.Seed, h))
}

// roughSegment draws a-b twice with jittered endpoints and bowed control
// points.
func (g *Generator) roughSegment(rng *rand.Rand, a, b geometry.Point) []PathCommand {
	length := geometry.Distance(a, b)
	offset := min(g.Roughness*length/10, g.Roughness*10)
	if offset < g.Roughness {
		offset = g.Roughness
	}
	jitter := func(scale float64) float64 {
		return (rng.Float64()*2 - 1) * scale
	}

	var cmds []PathCommand
	for pass := 0; pass < 2; pass++ {
		o := offset
		if pass == 1 {
			o = offset / 2
		}
		bow := g.Bowing * g.Roughness * length / 200
		dx, dy := b.X-a.X, b.Y-a.Y
		start := geometry.Pt(a.X+jitter(o), a.Y+jitter(o))
		end := geometry.Pt(b.X+jitter(o), b.Y+jitter(o))
		c1 := geometry.Pt(a.X+dx*0.5+jitter(o)+bow*dy/max(length, 1), a.Y+dy*0.5+jitter(o)-bow*dx/max(length, 1))
		c2 := geometry.Pt(a.X+dx*0.75+jitter(o), a.Y+dy*0.75+jitter(o))
		cmds = append(cmds,
			PathCommand{Op: OpMove, Pts: []geometry.Point{start}},
			PathCommand{Op: OpCurve, Pts: []geometry.Point{c1, c2, end}},
		)
	}
	return cmds
}
