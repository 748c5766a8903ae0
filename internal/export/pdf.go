// Package export writes scenes to printable documents.
package export

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jung-kurt/gofpdf"

	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/geometry"
	"github.com/roughboard/roughboard/internal/render"
)

// pxToMM converts CSS pixels (96 dpi) to millimetres.
const pxToMM = 25.4 / 96

// PDF is a surface that renders the scene onto a single PDF page.
type PDF struct {
	PageSize    string
	Orientation string
	Margin      float64 // mm

	mu       sync.RWMutex
	elements []element.Element
}

// NewPDF creates a PDF surface for the given page size ("A4", "Letter", ...).
func NewPDF(pageSize string) *PDF {
	if pageSize == "" {
		pageSize = "A4"
	}
	return &PDF{PageSize: pageSize, Orientation: "L", Margin: 10}
}

// Draw implements engine.Surface. It only records the scene; the document
// is produced by WriteTo.
func (p *PDF) Draw(elements []element.Element) error {
	p.mu.Lock()
	p.elements = elements
	p.mu.Unlock()
	return nil
}

// WriteTo renders the last drawn scene and writes the PDF to w.
func (p *PDF) WriteTo(w io.Writer) (int64, error) {
	p.mu.RLock()
	elements := p.elements
	p.mu.RUnlock()

	doc := gofpdf.New(p.Orientation, "mm", p.PageSize, "")
	doc.SetTitle("roughboard", true)
	doc.AddPage()

	m := geometry.Translate(p.Margin, p.Margin).Multiply(geometry.Scale(pxToMM, pxToMM))
	for _, e := range elements {
		d, ok := e.Renderable.(*render.Drawable)
		if !ok || d == nil {
			continue
		}
		drawPath(doc, m, d)
	}
	if err := doc.Error(); err != nil {
		return 0, fmt.Errorf("render pdf: %w", err)
	}

	cw := &countingWriter{w: w}
	if err := doc.Output(cw); err != nil {
		return cw.n, fmt.Errorf("write pdf: %w", err)
	}
	return cw.n, nil
}

func drawPath(doc *gofpdf.Fpdf, m geometry.Matrix2D, d *render.Drawable) {
	r, g, b := parseHexColor(d.Stroke)
	doc.SetDrawColor(r, g, b)
	doc.SetLineWidth(max(d.StrokeWidth, 1) * pxToMM)
	if len(d.Dash) > 0 {
		dash := make([]float64, len(d.Dash))
		for i, v := range d.Dash {
			dash[i] = v * pxToMM
		}
		doc.SetDashPattern(dash, 0)
	} else {
		doc.SetDashPattern(nil, 0)
	}

	open := false
	for _, cmd := range d.Path {
		pts := make([]geometry.Point, len(cmd.Pts))
		for i, pt := range cmd.Pts {
			pts[i] = m.Apply(pt)
		}
		switch cmd.Op {
		case render.OpMove:
			if open {
				doc.DrawPath("D")
			}
			doc.MoveTo(pts[0].X, pts[0].Y)
			open = true
		case render.OpLine:
			doc.LineTo(pts[0].X, pts[0].Y)
		case render.OpCurve:
			doc.CurveBezierCubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case render.OpClose:
			doc.ClosePath()
		}
	}
	if open {
		doc.DrawPath("D")
	}
}

// parseHexColor reads "#rrggbb"; anything else is black.
func parseHexColor(s string) (int, int, int) {
	var r, g, b int
	if _, err := fmt.Sscanf(strings.TrimPrefix(s, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0
	}
	return r, g, b
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
