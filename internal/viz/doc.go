// Package viz rasterizes scene wireframes onto a braille [Canvas] for the
// terminal frontends.
//
// A [Camera] orbits a target and projects world points into the canvas dot
// space (two dots per column, four per row). It also implements the
// unprojection the drag controls need to move objects at a fixed depth.
package viz
