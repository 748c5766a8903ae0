package element

import "github.com/roughboard/roughboard/internal/geometry"

// Renderer turns an element's geometry into a drawable value.
type Renderer interface {
	RenderElement(kind Kind, x1, y1, x2, y2 float64) Renderable
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(kind Kind, x1, y1, x2, y2 float64) Renderable

func (f RendererFunc) RenderElement(kind Kind, x1, y1, x2, y2 float64) Renderable {
	return f(kind, x1, y1, x2, y2)
}

// Factory builds elements and their renderables. A Factory with a nil
// Renderer produces elements with a nil Renderable.
type Factory struct {
	Renderer Renderer
}

// NewFactory creates a factory that renders through r.
func NewFactory(r Renderer) *Factory {
	return &Factory{Renderer: r}
}

// Create builds a new element. The renderable is regenerated from scratch
// on every call.
func (f *Factory) Create(id int, x1, y1, x2, y2 float64, kind Kind) Element {
	e := Element{
		ID:    id,
		Kind:  kind,
		Start: geometry.Pt(x1, y1),
		End:   geometry.Pt(x2, y2),
	}
	if f != nil && f.Renderer != nil {
		e.Renderable = f.Renderer.RenderElement(kind, x1, y1, x2, y2)
	}
	return e
}

// CreateFrom builds an element from two anchor points.
func (f *Factory) CreateFrom(id int, start, end geometry.Point, kind Kind) Element {
	return f.Create(id, start.X, start.Y, end.X, end.Y, kind)
}
