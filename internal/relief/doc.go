// Package relief holds the types shared by every stage of the
// photo-to-relief conversion: depth and height grids, validated conversion
// parameters, the height field and the error kinds each stage reports.
//
// Data flows one way. A depth source produces a raw *Grid, the heightfield
// package turns it into a *HeightField, the mesh package closes it into a
// watertight solid and the scad package writes that solid out as an OpenSCAD
// program. None of these stages mutate their inputs.
package relief
