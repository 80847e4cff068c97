package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/taigrr/photon/pkg/math3d"
)

const quadOBJ = `# unit quad in the XY plane
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 4
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFromFauxGLMergesVertices(t *testing.T) {
	v := func(x, y, z float64) fauxgl.Vertex {
		return fauxgl.Vertex{Position: fauxgl.V(x, y, z)}
	}
	src := fauxgl.NewTriangleMesh([]*fauxgl.Triangle{
		{V1: v(0, 0, 0), V2: v(1, 0, 0), V3: v(1, 1, 0)},
		{V1: v(0, 0, 0), V2: v(1, 1, 0), V3: v(0, 1, 0)},
	})

	mesh := FromFauxGL(src)
	if mesh.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4", mesh.VertexCount())
	}
	want := []Face{
		{V: [3]int{0, 1, 2}, Material: -1},
		{V: [3]int{0, 2, 3}, Material: -1},
	}
	for i, f := range want {
		if mesh.Faces[i] != f {
			t.Errorf("face %d = %+v, want %+v", i, mesh.Faces[i], f)
		}
	}
	if mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("BoundsMax = %v", mesh.BoundsMax)
	}
}

func TestLoadModelOBJ(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)
	mesh, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if mesh.Name != "quad.obj" {
		t.Errorf("Name = %q", mesh.Name)
	}
	if mesh.TriangleCount() != 2 || mesh.VertexCount() != 4 {
		t.Errorf("got %d triangles / %d vertices, want 2 / 4", mesh.TriangleCount(), mesh.VertexCount())
	}
	if mesh.BoundsMin != math3d.V3(0, 0, 0) || mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("bounds = %v..%v", mesh.BoundsMin, mesh.BoundsMax)
	}
}

func TestLoadModelErrors(t *testing.T) {
	if _, err := LoadModel("scene.fbx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := LoadModel(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for a missing file")
	}
}
