// Package heightfield turns a raw depth grid into a bounded height field.
//
// Normalize runs a fixed sequence of stages on a private copy of the input:
//
//  1. resample by the detail factor (cubic spline, clamped to 32..2048 per axis)
//  2. invert, when requested, with v' = max - v + min
//  3. Gaussian smoothing with reflected borders
//  4. linear mapping of [min, max] onto [base, base+maxHeight]
//
// The physical footprint is ModelWidth wide along X and follows the grid's
// aspect ratio along Y.
package heightfield
