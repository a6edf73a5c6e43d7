// Package mesh closes a height field into a watertight triangle solid.
//
// The solid has a top surface following the heights, a flat base at z = 0
// and vertical walls around the boundary. Faces wind counter-clockwise when
// viewed from outside, so every normal computed by the right-hand rule
// points out of the solid.
package mesh

import (
	"github.com/banshee-data/relief/internal/relief"
	"gonum.org/v1/gonum/spatial/r3"
)

// Face is a triangle given as three vertex indices.
type Face [3]int

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices []r3.Vec
	Faces    []Face

	// Grid dimensions the mesh was built from.
	Rows, Cols int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// Triangle returns the coordinates of face i.
func (m *Mesh) Triangle(i int) r3.Triangle {
	f := m.Faces[i]
	return r3.Triangle{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// Bounds returns the axis-aligned bounding box of all vertices.
func (m *Mesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}
	b := r3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		b.Min.X = min(b.Min.X, v.X)
		b.Min.Y = min(b.Min.Y, v.Y)
		b.Min.Z = min(b.Min.Z, v.Z)
		b.Max.X = max(b.Max.X, v.X)
		b.Max.Y = max(b.Max.Y, v.Y)
		b.Max.Z = max(b.Max.Z, v.Z)
	}
	return b
}

// Volume returns the signed enclosed volume. It is positive when faces are
// wound outward.
func (m *Mesh) Volume() float64 {
	var v float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		v += r3.Dot(a, r3.Cross(b, c))
	}
	return v / 6
}

type edge struct{ from, to int }

// EdgeCount returns the number of undirected edges.
func (m *Mesh) EdgeCount() int {
	seen := make(map[edge]struct{}, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			seen[edge{a, b}] = struct{}{}
		}
	}
	return len(seen)
}

// EulerCharacteristic returns V - E + F. A closed genus-0 solid yields 2.
func (m *Mesh) EulerCharacteristic() int {
	return m.VertexCount() - m.EdgeCount() + m.FaceCount()
}

// CheckWatertight verifies that every directed edge is used exactly once
// and its reverse is used exactly once. Together these mean each edge
// borders two faces with consistent orientation.
func (m *Mesh) CheckWatertight() error {
	const op = "mesh.CheckWatertight"
	if len(m.Faces) == 0 {
		return relief.GeometryError(op, "mesh has no faces")
	}
	counts := make(map[edge]int, len(m.Faces)*3)
	for fi, f := range m.Faces {
		for i := 0; i < 3; i++ {
			if f[i] < 0 || f[i] >= len(m.Vertices) {
				return relief.GeometryError(op, "face %d references vertex %d of %d", fi, f[i], len(m.Vertices))
			}
			counts[edge{f[i], f[(i+1)%3]}]++
		}
	}
	for e, n := range counts {
		if n != 1 {
			return relief.GeometryError(op, "edge %d->%d used %d times", e.from, e.to, n)
		}
		if counts[edge{e.to, e.from}] != 1 {
			return relief.GeometryError(op, "edge %d->%d has no opposite", e.from, e.to)
		}
	}
	return nil
}
