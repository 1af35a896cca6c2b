package scene

import (
	"fmt"

	"github.com/google/uuid"
)

// Defaults holds scene-wide rendering settings.
type Defaults struct {
	Fn int     // global $fn, 0 to leave OpenSCAD's default
	Fa float64 // global $fa
	Fs float64 // global $fs
}

// Scene is the set of root objects produced by one script evaluation. Each
// evaluation produces a new Scene with a fresh ID.
type Scene struct {
	ID        uuid.UUID
	Roots     []*Object
	NameIndex map[string]*Object
	Defaults  Defaults
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		ID:        uuid.New(),
		NameIndex: make(map[string]*Object),
	}
}

// Add registers o as a root and indexes the names of o and its descendants.
// When a name repeats, the first object keeps the index entry.
func (s *Scene) Add(o *Object) {
	s.Roots = append(s.Roots, o)
	_ = Walk(o, func(n *Object) error {
		if n.name == "" {
			return nil
		}
		if _, taken := s.NameIndex[n.name]; !taken {
			s.NameIndex[n.name] = n
		}
		return nil
	})
}

// Lookup returns the object with the given name, or nil.
func (s *Scene) Lookup(name string) *Object {
	return s.NameIndex[name]
}

// MustLookup returns the object with the given name, or panics.
func (s *Scene) MustLookup(name string) *Object {
	o := s.Lookup(name)
	if o == nil {
		panic(fmt.Sprintf("scene: no object named %q", name))
	}
	return o
}

// Len returns the number of roots.
func (s *Scene) Len() int {
	return len(s.Roots)
}
