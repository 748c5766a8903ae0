// Package element defines the shapes that make up a scene and the factory
// that builds them.
package element

import (
	"encoding/json"
	"fmt"

	"github.com/roughboard/roughboard/internal/geometry"
)

// Kind is the closed set of shape kinds an element can have.
type Kind int

const (
	KindLine Kind = iota
	KindRectangle
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindRectangle:
		return "rectangle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "line":
		return KindLine, nil
	case "rectangle":
		return KindRectangle, nil
	default:
		return 0, fmt.Errorf("unknown element kind %q", s)
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Renderable is the drawable produced by a Renderer. The core never looks
// inside it.
type Renderable any

// Element is a shape in the scene.
//
// For lines Start and End are the segment endpoints; for rectangles they
// are two opposite corners, not normalized.
type Element struct {
	ID         int            `json:"id"`
	Kind       Kind           `json:"kind"`
	Start      geometry.Point `json:"start"`
	End        geometry.Point `json:"end"`
	Renderable Renderable     `json:"-"`
}

// Size returns the signed extent End - Start.
func (e Element) Size() geometry.Point {
	return e.End.Sub(e.Start)
}

// Contains reports whether p hits the element: inside the normalized box
// for rectangles, within LineTolerance slack for lines.
func (e Element) Contains(p geometry.Point) bool {
	switch e.Kind {
	case KindRectangle:
		return geometry.Bounds(e.Start, e.End).Contains(p)
	case KindLine:
		return geometry.NearSegment(e.Start, e.End, p, geometry.LineTolerance)
	default:
		return false
	}
}

// Bounds returns the element's axis-aligned bounding box.
func (e Element) Bounds() geometry.Rect {
	return geometry.Bounds(e.Start, e.End)
}
