// Package anchor attaches named reference frames to scene nodes and snaps one
// node onto another so that a chosen pair of anchors coincide in world space.
//
// An anchor frame is expressed in its owning node's local space. Its world
// frame is anchor.Then(node): first into the node, then wherever the node is.
package anchor
