package mesh

import (
	"fmt"
	"io"
	"os"

	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/r3"
)

// Model3D converts m into a model3d mesh, keeping face orientation.
func (m *Mesh) Model3D() *model3d.Mesh {
	return model3d.NewMeshTriangles(m.triangles())
}

func (m *Mesh) triangles() []*model3d.Triangle {
	tris := make([]*model3d.Triangle, len(m.Faces))
	for i, f := range m.Faces {
		tris[i] = &model3d.Triangle{
			toCoord(m.Vertices[f[0]]),
			toCoord(m.Vertices[f[1]]),
			toCoord(m.Vertices[f[2]]),
		}
	}
	return tris
}

// WriteSTL writes m to w in binary STL.
func (m *Mesh) WriteSTL(w io.Writer) error {
	return model3d.WriteSTL(w, m.triangles())
}

// SaveSTL writes m to path in binary STL.
func (m *Mesh) SaveSTL(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create STL file: %w", err)
	}
	if err := m.WriteSTL(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toCoord(v r3.Vec) model3d.Coord3D {
	return model3d.Coord3D{X: v.X, Y: v.Y, Z: v.Z}
}
