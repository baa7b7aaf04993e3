// Package tensor provides the fixed-size algebra every geometry layer builds on.
//
// All types are plain values sized for a 4-dimensional manifold:
//
//   - [Vec4]: coordinate vector (t, x, y, z)
//   - [Mat4]: general 4x4 matrix, row-major
//   - [Sym4]: symmetric 4x4 matrix, symmetrised on construction
//
// [Inverse] never panics on singular input; it reports failure through
// [Inversion.OK] together with the determinant and an ∞-norm condition
// estimate so callers can decide what to do with ill-conditioned metrics.
package tensor
