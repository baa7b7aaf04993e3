// Package registry maps names used in configuration files and on the command
// line to metric fields and potentials.
package registry
