// Package curvature derives the Riemann, Ricci and scalar curvature of a
// metric field at a single point.
//
// # Conventions
//
//	R^μ_{ναβ} = ∂_α Γ^μ_{νβ} − ∂_β Γ^μ_{να} + Γ^μ_{σα}Γ^σ_{νβ} − Γ^μ_{σβ}Γ^σ_{να}
//	R_{νβ}    = R^μ_{νμβ}
//	R         = g^{νβ} R_{νβ}
//
// With these signs a sphere has positive scalar curvature and the conformally
// flat field g = exp(2a·x¹)η has R = −6a²·exp(−2a·x¹).
//
// # Cost
//
// ∂Γ is taken by central differences of the connection. That touches 41
// distinct positions per point; metric values are remembered for the length
// of one evaluation so each is computed once. Nothing is cached across points.
package curvature
