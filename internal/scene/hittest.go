package scene

import (
	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/geometry"
)

// FindElementAt returns the first element, in id order, that contains p.
// When shapes overlap the earliest-created one wins; there is no z-order.
func FindElementAt(p geometry.Point, elements []element.Element) (element.Element, bool) {
	for _, e := range elements {
		if e.Contains(p) {
			return e, true
		}
	}
	return element.Element{}, false
}

// SelectionBounds returns the bounding box of the element with the given
// id, or false if there is none.
func SelectionBounds(elements []element.Element, id int) (geometry.Rect, bool) {
	if id < 0 || id >= len(elements) {
		return geometry.Rect{}, false
	}
	return elements[id].Bounds(), true
}
