// Package geodesic integrates timelike geodesics of a metric field.
//
// [Step] is a single velocity-Verlet update that ends by projecting the
// 4-velocity back onto g(u,u) = −1. It holds no state. [Stepper] binds a
// field and potential, and [Runner] loops it to build a trajectory with
// metrics and observers attached.
//
// A velocity that drifts off the timelike shell is left as it is; callers
// that care look at StepReport.Renormalized or Result.Skipped.
package geodesic
