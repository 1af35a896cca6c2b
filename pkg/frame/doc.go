// Package frame implements the homogeneous affine transforms that position
// every node of an anchorscad scene: 3x3 matrices for planar objects, 4x4
// matrices for solids, the rotate/translate/scale builders that compose them,
// and the routines that decompose a frame back into its parts.
//
// Matrices are row-major and act on column vectors, so the translation lives
// in the last column. Two products are exposed:
//
//	a.Mul(b)  = a·b   a applied after b
//	a.Then(b) = b·a   a applied before b
//
// Absolute builders post-multiply (M·E) and therefore act in the object's own
// local axes; the Rel* builders pre-multiply (E·M) and act in the outer frame.
package frame
