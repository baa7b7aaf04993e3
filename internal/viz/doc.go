// Package viz renders geodesics in the terminal.
//
// [Model] is a Bubble Tea program that advances a trajectory on every tick
// and shows its spatial track on a braille [Canvas] beside charts of the
// normalisation residual and x(τ).
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial state and step
//	+/-   - Double or halve dτ
//	Q     - Quit
package viz
