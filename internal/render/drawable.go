// Package render turns elements into drawables and compiles scenes into
// canvas draw commands.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/roughboard/roughboard/internal/geometry"
)

// Path operations, matching Canvas2D path methods.
const (
	OpMove  = "M"
	OpLine  = "L"
	OpCurve = "C"
	OpClose = "Z"
)

// PathCommand is a single path segment. It serializes the way the canvas
// client expects: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand struct {
	Op  string
	Pts []geometry.Point
}

func (c PathCommand) MarshalJSON() ([]byte, error) {
	out := make([]interface{}, 0, 1+2*len(c.Pts))
	out = append(out, c.Op)
	for _, p := range c.Pts {
		out = append(out, p.X, p.Y)
	}
	return json.Marshal(out)
}

func (c *PathCommand) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 || len(raw)%2 == 0 {
		return fmt.Errorf("path command with %d fields", len(raw))
	}
	if err := json.Unmarshal(raw[0], &c.Op); err != nil {
		return fmt.Errorf("path op: %w", err)
	}
	c.Pts = make([]geometry.Point, 0, len(raw)/2)
	for i := 1; i < len(raw); i += 2 {
		var p geometry.Point
		if err := json.Unmarshal(raw[i], &p.X); err != nil {
			return fmt.Errorf("path x: %w", err)
		}
		if err := json.Unmarshal(raw[i+1], &p.Y); err != nil {
			return fmt.Errorf("path y: %w", err)
		}
		c.Pts = append(c.Pts, p)
	}
	return nil
}

// Drawable is the renderable produced for an element: a stroked path plus
// the style it should be drawn with.
type Drawable struct {
	Shape       string        `json:"shape"`
	Path        []PathCommand `json:"path"`
	Stroke      string        `json:"stroke"`
	StrokeWidth float64       `json:"strokeWidth"`
	Dash        []float64     `json:"dash,omitempty"`
}
