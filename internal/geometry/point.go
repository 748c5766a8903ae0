// Package geometry holds the canvas-space math used by hit testing and
// rendering: points, distances, bounding boxes and affine transforms.
package geometry

import "math"

// LineTolerance is the slack, in canvas units, accepted by NearSegment when
// hit-testing lines.
const LineTolerance = 5.0

// Point is a position in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// NearSegment reports whether p lies on the segment a-b within tolerance.
//
// The test uses the triangle-inequality slack d(a,b) - d(a,p) - d(p,b)
// rather than a perpendicular distance, so the accepted region is an
// ellipse with foci a and b. Points off the ends of the segment are only
// accepted when they are within tolerance/2 of an endpoint.
func NearSegment(a, b, p Point, tolerance float64) bool {
	offset := Distance(a, b) - Distance(a, p) - Distance(p, b)
	return math.Abs(offset) < tolerance
}
