// Package analysis measures how nearby geodesics spread apart.
//
//   - [Deviation]: separation history and growth rate for one displacement
//   - [DeviationSpectrum]: the same along each spatial axis
//
// # Tidal spreading
//
// In flat spacetime two geodesics with equal velocity keep a constant
// separation and the exponent is zero. A positive exponent means the field
// pulls them apart:
//
//	r, _ := analysis.Deviation(ctx, stepper, x0, dx, analysis.DeviationOptions{Dtau: 0.01, Steps: 1000})
//	if r.Exponent > 0 {
//	    // geodesics diverge
//	}
package analysis
