package scene

import (
	"math/rand"
	"testing"

	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/geometry"
)

func newStore() *Store {
	return NewStore(element.NewFactory(nil))
}

func checkIDs(t *testing.T, s *Store) {
	t.Helper()
	for i, e := range s.Snapshot() {
		if e.ID != i {
			t.Fatalf("scene[%d].ID = %d", i, e.ID)
		}
	}
}

func TestAppendAssignsIndex(t *testing.T) {
	s := newStore()
	for i := 0; i < 3; i++ {
		e := s.Append(element.KindLine, geometry.Pt(0, 0), geometry.Pt(1, 1))
		if e.ID != i {
			t.Errorf("Append #%d got ID %d", i, e.ID)
		}
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
	checkIDs(t, s)
}

func TestReplace(t *testing.T) {
	s := newStore()
	s.Append(element.KindRectangle, geometry.Pt(0, 0), geometry.Pt(0, 0))
	s.Append(element.KindLine, geometry.Pt(0, 0), geometry.Pt(0, 0))

	e := s.Factory().Create(1, 1, 2, 3, 4, element.KindLine)
	s.Replace(1, e)

	got, ok := s.Get(1)
	if !ok || got.End != geometry.Pt(3, 4) {
		t.Errorf("Get(1) = %+v, %v", got, ok)
	}
	checkIDs(t, s)
}

func TestReplaceOutOfRangePanics(t *testing.T) {
	s := newStore()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	s.Replace(0, element.Element{})
}

func TestReplaceMismatchedIDPanics(t *testing.T) {
	s := newStore()
	s.Append(element.KindLine, geometry.Pt(0, 0), geometry.Pt(0, 0))
	s.Append(element.KindLine, geometry.Pt(0, 0), geometry.Pt(0, 0))
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	s.Replace(0, element.Element{ID: 1})
}

func TestUpdateKeepsKind(t *testing.T) {
	s := newStore()
	s.Append(element.KindRectangle, geometry.Pt(0, 0), geometry.Pt(0, 0))
	e, ok := s.Update(0, geometry.Pt(1, 1), geometry.Pt(5, 5))
	if !ok {
		t.Fatal("Update reported missing element")
	}
	if e.Kind != element.KindRectangle {
		t.Errorf("Kind = %v, want rectangle", e.Kind)
	}
	if _, ok := s.Update(4, geometry.Pt(0, 0), geometry.Pt(0, 0)); ok {
		t.Error("Update past the end should report false")
	}
}

func TestClear(t *testing.T) {
	s := newStore()
	s.Clear()
	if s.Len() != 0 || len(s.Snapshot()) != 0 {
		t.Error("clearing an empty scene should leave it empty")
	}

	s.Append(element.KindLine, geometry.Pt(0, 0), geometry.Pt(1, 1))
	s.Append(element.KindRectangle, geometry.Pt(0, 0), geometry.Pt(1, 1))
	s.Clear()
	if got := s.Snapshot(); len(got) != 0 {
		t.Errorf("Snapshot after Clear has %d elements", len(got))
	}

	e := s.Append(element.KindLine, geometry.Pt(0, 0), geometry.Pt(1, 1))
	if e.ID != 0 {
		t.Errorf("first element after Clear has ID %d, want 0", e.ID)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newStore()
	s.Append(element.KindLine, geometry.Pt(0, 0), geometry.Pt(1, 1))
	snap := s.Snapshot()
	snap[0].End = geometry.Pt(99, 99)
	got, _ := s.Get(0)
	if got.End != geometry.Pt(1, 1) {
		t.Error("mutating a snapshot changed the store")
	}
}

func TestIDInvariantUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := newStore()
	for i := 0; i < 500; i++ {
		if s.Len() == 0 || rng.Intn(3) == 0 {
			kind := element.Kind(rng.Intn(2))
			s.Append(kind, geometry.Pt(rng.Float64()*100, rng.Float64()*100), geometry.Pt(0, 0))
		} else {
			id := rng.Intn(s.Len())
			s.Update(id, geometry.Pt(rng.Float64(), rng.Float64()), geometry.Pt(rng.Float64(), rng.Float64()))
		}
		checkIDs(t, s)
	}
}
