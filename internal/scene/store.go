// Package scene holds the ordered element collection and hit testing over it.
package scene

import (
	"fmt"

	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/geometry"
)

// Store is the ordered collection of elements on the canvas. Element i
// always has ID i: elements are replaced in place, never reordered or
// removed one at a time.
//
// A Store is not safe for concurrent use. It has a single writer.
type Store struct {
	factory  *element.Factory
	elements []element.Element
}

// NewStore creates an empty store whose elements are built by factory.
func NewStore(factory *element.Factory) *Store {
	return &Store{factory: factory}
}

// Factory returns the element factory used by the store.
func (s *Store) Factory() *element.Factory {
	return s.factory
}

// Len returns the number of elements.
func (s *Store) Len() int {
	return len(s.elements)
}

// Append creates an element with the next free id and adds it to the end.
func (s *Store) Append(kind element.Kind, start, end geometry.Point) element.Element {
	e := s.factory.CreateFrom(len(s.elements), start, end, kind)
	s.elements = append(s.elements, e)
	return e
}

// Replace overwrites the element at position id. It panics if id is out of
// range or e carries a different id; both mean the caller broke the
// id == index invariant.
func (s *Store) Replace(id int, e element.Element) {
	if id < 0 || id >= len(s.elements) {
		panic(fmt.Sprintf("scene: replace id %d out of range [0,%d)", id, len(s.elements)))
	}
	if e.ID != id {
		panic(fmt.Sprintf("scene: replace id %d with element %d", id, e.ID))
	}
	s.elements[id] = e
}

// Update rebuilds the element at id with new anchors, keeping its kind.
// It reports false when id is no longer in the scene.
func (s *Store) Update(id int, start, end geometry.Point) (element.Element, bool) {
	if id < 0 || id >= len(s.elements) {
		return element.Element{}, false
	}
	e := s.factory.CreateFrom(id, start, end, s.elements[id].Kind)
	s.Replace(id, e)
	return e, true
}

// Get returns the element with the given id.
func (s *Store) Get(id int) (element.Element, bool) {
	if id < 0 || id >= len(s.elements) {
		return element.Element{}, false
	}
	return s.elements[id], true
}

// Last returns the most recently appended element.
func (s *Store) Last() (element.Element, bool) {
	return s.Get(len(s.elements) - 1)
}

// Clear removes every element.
func (s *Store) Clear() {
	s.elements = nil
}

// Snapshot returns a copy of the elements in id order.
func (s *Store) Snapshot() []element.Element {
	out := make([]element.Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// FindElementAt runs a hit test over the store's current contents.
func (s *Store) FindElementAt(p geometry.Point) (element.Element, bool) {
	return FindElementAt(p, s.elements)
}
