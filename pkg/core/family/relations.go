package family

import (
	"slices"

	"github.com/google/uuid"
)

// Relations stores parent/child links. Both query directions are views of
// one relation: every Link is visible from the child through Parents and
// from the parent through Children, and Forget removes a person from both.
//
// Implementations do not enforce family rules (acyclicity, two parents);
// [Tree] checks those before calling Link.
type Relations interface {
	// Parents returns the recorded parents of child in link order.
	Parents(child uuid.UUID) []uuid.UUID

	// Children returns the children declared under parent in link order.
	Children(parent uuid.UUID) []uuid.UUID

	// Link records parent→child. Linking an existing pair is a no-op.
	Link(parent, child uuid.UUID)

	// Forget drops every link that involves id.
	Forget(id uuid.UUID)

	// Reset drops all links.
	Reset()
}

// NewRelations returns an in-memory relation store.
func NewRelations() Relations {
	return &relationStore{
		up:   make(map[uuid.UUID][]uuid.UUID),
		down: make(map[uuid.UUID][]uuid.UUID),
	}
}

type relationStore struct {
	up   map[uuid.UUID][]uuid.UUID // child -> parents
	down map[uuid.UUID][]uuid.UUID // parent -> children
}

func (s *relationStore) Parents(child uuid.UUID) []uuid.UUID {
	return slices.Clone(s.up[child])
}

func (s *relationStore) Children(parent uuid.UUID) []uuid.UUID {
	return slices.Clone(s.down[parent])
}

func (s *relationStore) Link(parent, child uuid.UUID) {
	if slices.Contains(s.up[child], parent) {
		return
	}
	s.up[child] = append(s.up[child], parent)
	s.down[parent] = append(s.down[parent], child)
}

func (s *relationStore) Forget(id uuid.UUID) {
	for _, p := range s.up[id] {
		s.down[p] = slices.DeleteFunc(s.down[p], func(c uuid.UUID) bool { return c == id })
	}
	for _, c := range s.down[id] {
		s.up[c] = slices.DeleteFunc(s.up[c], func(p uuid.UUID) bool { return p == id })
	}
	delete(s.up, id)
	delete(s.down, id)
}

func (s *relationStore) Reset() {
	clear(s.up)
	clear(s.down)
}
