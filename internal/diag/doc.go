// Package diag samples scalar diagnostics over 2D slices of spacetime.
package diag
