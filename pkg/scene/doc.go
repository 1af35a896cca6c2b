// Package scene defines the CSG tree for anchorscad: primitive solids and
// planar profiles, boolean composites, extrusions and the Scene container
// produced by script evaluation. Every node owns one frame and a set of
// named anchors.
package scene
