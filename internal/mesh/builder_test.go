package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/banshee-data/relief/internal/relief"
	"github.com/banshee-data/relief/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func heightField(t *testing.T, g *relief.Grid, width float64) *relief.HeightField {
	t.Helper()
	hf, err := relief.NewHeightField(g, width)
	require.NoError(t, err)
	return hf
}

func TestBuild_Watertight(t *testing.T) {
	for _, size := range [][2]int{{2, 2}, {2, 5}, {7, 3}, {16, 16}} {
		rows, cols := size[0], size[1]
		t.Run(fmt.Sprintf("%dx%d", rows, cols), func(t *testing.T) {
			g := testutil.NoiseGrid(rows, cols, 1)
			for i := range g.Data {
				g.Data[i] += 2
			}
			m, err := Build(heightField(t, g, 50))
			require.NoError(t, err)

			assert.NoError(t, m.CheckWatertight())
			assert.Equal(t, 2, m.EulerCharacteristic())
			assert.Equal(t, VertexCountFor(rows, cols), m.VertexCount())
			assert.Equal(t, FaceCountFor(rows, cols), m.FaceCount())
			assert.False(t, m.Model3D().NeedsRepair())
			assert.Empty(t, m.Model3D().InconsistentEdges())
		})
	}
}

func TestBuild_CubeCounts(t *testing.T) {
	m, err := Build(heightField(t, testutil.ConstantGrid(2, 2, 1), 1))
	require.NoError(t, err)
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 12, m.FaceCount())
	assert.Equal(t, 18, m.EdgeCount())
	assert.InDelta(t, 1.0, m.Volume(), 1e-12)
}

func TestBuild_OutwardNormals(t *testing.T) {
	g := testutil.ConstantGrid(3, 4, 2)
	m, err := Build(heightField(t, g, 30))
	require.NoError(t, err)

	// Volume of a flat slab is footprint × thickness and positive when
	// faces wind outward.
	assert.InDelta(t, 30*22.5*2, m.Volume(), 1e-9)

	center := m.Bounds().Center()
	for i := range m.Faces {
		tri := m.Triangle(i)
		out := r3.Sub(tri.Centroid(), center)
		assert.Greater(t, r3.Dot(tri.Normal(), out), 0.0, "face %d points inward", i)
	}
}

func TestBuild_TopAndBaseOrientation(t *testing.T) {
	m, err := Build(heightField(t, testutil.ConstantGrid(3, 3, 5), 10))
	require.NoError(t, err)
	// Faces alternate top, top, base, base per cell.
	assert.Greater(t, m.Triangle(0).Normal().Z, 0.0)
	assert.Greater(t, m.Triangle(1).Normal().Z, 0.0)
	assert.Less(t, m.Triangle(2).Normal().Z, 0.0)
	assert.Less(t, m.Triangle(3).Normal().Z, 0.0)
}

func TestBuild_VertexPlacement(t *testing.T) {
	g := testutil.RampGrid(3, 5)
	for i := range g.Data {
		g.Data[i] += 2
	}
	hf := heightField(t, g, 100)
	m, err := Build(hf)
	require.NoError(t, err)

	// Row 0 sits at the far edge.
	assert.Equal(t, r3.Vec{X: 0, Y: 60, Z: 2}, m.Vertices[0])
	assert.Equal(t, r3.Vec{X: 100, Y: 60, Z: 6}, m.Vertices[4])
	assert.Equal(t, r3.Vec{X: 0, Y: 0, Z: 2}, m.Vertices[10])
	// Base copy of vertex 0.
	assert.Equal(t, r3.Vec{X: 0, Y: 60, Z: 0}, m.Vertices[15])

	b := m.Bounds()
	assert.Equal(t, r3.Vec{X: 0, Y: 0, Z: 0}, b.Min)
	assert.Equal(t, r3.Vec{X: 100, Y: 60, Z: 6}, b.Max)
}

func TestBuild_RejectsDegenerateGrids(t *testing.T) {
	for _, size := range [][2]int{{1, 5}, {5, 1}, {1, 1}} {
		hf := heightField(t, testutil.ConstantGrid(size[0], size[1], 2), 10)
		m, err := Build(hf)
		assert.Nil(t, m)
		assert.ErrorIs(t, err, relief.ErrGeometry)
	}
	_, err := Build(nil)
	assert.ErrorIs(t, err, relief.ErrGeometry)
}

func TestCheckWatertight_DetectsHoles(t *testing.T) {
	m, err := Build(heightField(t, testutil.ConstantGrid(3, 3, 2), 10))
	require.NoError(t, err)

	holed := &Mesh{Vertices: m.Vertices, Faces: m.Faces[1:]}
	assert.ErrorIs(t, holed.CheckWatertight(), relief.ErrGeometry)

	flipped := &Mesh{Vertices: m.Vertices, Faces: append([]Face(nil), m.Faces...)}
	f := flipped.Faces[0]
	flipped.Faces[0] = Face{f[0], f[2], f[1]}
	assert.ErrorIs(t, flipped.CheckWatertight(), relief.ErrGeometry)

	bad := &Mesh{Vertices: m.Vertices[:1], Faces: []Face{{0, 1, 2}}}
	assert.ErrorIs(t, bad.CheckWatertight(), relief.ErrGeometry)

	assert.ErrorIs(t, (&Mesh{}).CheckWatertight(), relief.ErrGeometry)
}

func TestWriteSTL(t *testing.T) {
	m, err := Build(heightField(t, testutil.DomeGrid(4, 4), 20))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.WriteSTL(&buf))
	// Binary STL: 80-byte header, uint32 count, 50 bytes per triangle.
	require.Equal(t, 84+50*m.FaceCount(), buf.Len())
	assert.Equal(t, uint32(m.FaceCount()), binary.LittleEndian.Uint32(buf.Bytes()[80:84]))
}
