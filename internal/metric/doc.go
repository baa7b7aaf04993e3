// Package metric validates and repairs Lorentzian metrics.
//
// Signature checks count eigenvalue signs from the Jacobi solver in
// [eigen.Decompose]. [ProjectSignature] is the recovery path for matrices
// that drift away from (-,+,+,+); [BuildTetrad] turns a metric into a local
// orthonormal frame and a positive-definite proxy usable as an optimiser
// inner product.
//
// Nothing here returns an error. Quality is reported alongside the result:
// inertia counts, warnings and Frobenius residuals.
package metric
