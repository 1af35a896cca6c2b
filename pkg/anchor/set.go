package anchor

import (
	"fmt"
	"sort"

	"github.com/chazu/anchorscad/pkg/frame"
)

// Separator joins a composite's child name to the child's anchor name.
const Separator = "::"

// Qualify returns the key under which a child's anchor is stored once the
// child is folded into a composite. An empty prefix leaves name unchanged.
func Qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + Separator + name
}

// Set3D maps anchor names to anchors. Keys are opaque strings.
type Set3D map[string]*Anchor3D

// Add inserts a under its name, replacing any anchor already there.
func (s Set3D) Add(a *Anchor3D) { s[a.Name] = a }

// Create inserts a fresh identity anchor and returns it for building.
func (s Set3D) Create(name string) *Anchor3D {
	a := New3D(name)
	s.Add(a)
	return a
}

// Get looks up name.
func (s Set3D) Get(name string) (*Anchor3D, error) {
	a, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return a, nil
}

// Names returns the keys in sorted order.
func (s Set3D) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone deep-copies the set.
func (s Set3D) Clone() Set3D {
	c := make(Set3D, len(s))
	for k, a := range s {
		c[k] = a.Clone()
	}
	return c
}

// MergeInto copies every anchor into dst under Qualify(prefix, name), with
// its frame re-expressed through childFrame (the child's frame inside the
// composite).
func (s Set3D) MergeInto(dst Set3D, prefix string, childFrame frame.Matrix3D) {
	for _, k := range s.Names() {
		a := s[k].Clone()
		a.Name = Qualify(prefix, k)
		a.ref = a.ref.Then(childFrame)
		dst.Add(a)
	}
}

// Set2D is the planar counterpart of Set3D.
type Set2D map[string]*Anchor2D

// Add stores a under its name, replacing any anchor already there.
func (s Set2D) Add(a *Anchor2D) { s[a.Name] = a }

// Create adds a fresh identity anchor called name and returns it.
func (s Set2D) Create(name string) *Anchor2D {
	a := New2D(name)
	s.Add(a)
	return a
}

// Get returns the anchor called name or an error wrapping ErrNotFound.
func (s Set2D) Get(name string) (*Anchor2D, error) {
	a, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return a, nil
}

// Names returns the anchor names in sorted order.
func (s Set2D) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone deep-copies every anchor.
func (s Set2D) Clone() Set2D {
	c := make(Set2D, len(s))
	for k, a := range s {
		c[k] = a.Clone()
	}
	return c
}

// MergeInto copies every anchor into dst under Qualify(prefix, name), with
// its frame re-expressed through childFrame.
func (s Set2D) MergeInto(dst Set2D, prefix string, childFrame frame.Matrix2D) {
	for _, k := range s.Names() {
		a := s[k].Clone()
		a.Name = Qualify(prefix, k)
		a.ref = a.ref.Then(childFrame)
		dst.Add(a)
	}
}

// Lift converts every planar anchor into a solid anchor, re-expressed through
// childFrame (the profile's frame lifted into the extrusion).
func (s Set2D) Lift(childFrame frame.Matrix3D) Set3D {
	out := make(Set3D, len(s))
	for k, a := range s {
		l := a.Lift()
		l.ref = l.ref.Then(childFrame)
		out[k] = l
	}
	return out
}
