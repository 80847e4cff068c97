package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/taigrr/photon/pkg/math3d"
)

// ErrUnsupportedFormat is returned for model files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	return loadFauxGL(path, fauxgl.LoadOBJ)
}

// LoadSTL loads an ASCII or binary STL file.
func LoadSTL(path string) (*Mesh, error) {
	return loadFauxGL(path, fauxgl.LoadSTL)
}

// LoadPLY loads a PLY file.
func LoadPLY(path string) (*Mesh, error) {
	return loadFauxGL(path, fauxgl.LoadPLY)
}

// LoadModel loads any supported model file, chosen by extension.
func LoadModel(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		return LoadGLB(path)
	case ".obj":
		return LoadOBJ(path)
	case ".stl":
		return LoadSTL(path)
	case ".ply":
		return LoadPLY(path)
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
}

func loadFauxGL(path string, load func(string) (*fauxgl.Mesh, error)) (*Mesh, error) {
	src, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	mesh := FromFauxGL(src)
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// FromFauxGL converts a fauxgl triangle soup into an indexed mesh, merging
// vertices with identical positions. Faces carry no material.
func FromFauxGL(src *fauxgl.Mesh) *Mesh {
	mesh := NewMesh("")
	index := make(map[fauxgl.Vector]int)
	vertex := func(v fauxgl.Vertex) int {
		if i, ok := index[v.Position]; ok {
			return i
		}
		i := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, math3d.V3(v.Position.X, v.Position.Y, v.Position.Z))
		index[v.Position] = i
		return i
	}

	for _, t := range src.Triangles {
		mesh.Faces = append(mesh.Faces, Face{
			V:        [3]int{vertex(t.V1), vertex(t.V2), vertex(t.V3)},
			Material: -1,
		})
	}
	mesh.CalculateBounds()
	return mesh
}
