// Package models loads scene content: model files (glTF, OBJ, STL, PLY),
// JSON scene descriptions and the built-in demo scene.
package models

import (
	"fmt"
	"math"

	"github.com/taigrr/photon/pkg/geometry"
	"github.com/taigrr/photon/pkg/material"
	"github.com/taigrr/photon/pkg/math3d"
)

// Mesh is a loaded model before it is baked into scene geometry: shared
// vertex positions, faces and the file's materials.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face represents a triangle face with vertex indices and material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is a PBR material as stored in a model file.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
	Metallic  float64    // 0 = dielectric, 1 = metal
	Roughness float64    // 0 = smooth, 1 = rough
	Emissive  [3]float64 // emitted radiance, zero for non-lights
}

// metalThreshold is the metallic factor from which a surface is a mirror.
const metalThreshold = 0.5

// Surface maps the PBR parameters onto the tracer's material model: any
// emission makes a light, a mostly metallic surface a mirror, and anything
// else a diffuse surface.
func (m Material) Surface() material.Material {
	emissive := math3d.V3(m.Emissive[0], m.Emissive[1], m.Emissive[2])
	base := math3d.V3(m.BaseColor[0], m.BaseColor[1], m.BaseColor[2])
	switch {
	case !emissive.IsZero():
		return material.NewEmissive(emissive)
	case m.Metallic >= metalThreshold:
		return material.NewMetal(base)
	default:
		return material.NewLambertian(base)
	}
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(m.Vertices[i])
	}
	m.CalculateBounds()
}

// Fit centers the mesh on the origin and scales it uniformly so its largest
// dimension equals size. Empty and flat-point meshes are left alone.
func (m *Mesh) Fit(size float64) {
	m.CalculateBounds()
	dims := m.Size()
	maxDim := math.Max(dims.X, math.Max(dims.Y, dims.Z))
	if maxDim <= 0 {
		return
	}
	s := size / maxDim
	m.Transform(math3d.ScaleUniform(s).Mul(math3d.Translate(m.Center().Negate())))
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// TriangleMeshes bakes the mesh into one geometry.TriangleMesh per material
// used, in order of first use. Faces without a material, and every face
// when override is set, get fallback. Degenerate faces are dropped and
// counted in skipped.
func (m *Mesh) TriangleMeshes(fallback material.Material, override bool) (meshes []*geometry.TriangleMesh, skipped int, err error) {
	type group struct {
		mesh  *geometry.TriangleMesh
		remap map[int]int
	}
	groups := map[int]*group{}

	for _, f := range m.Faces {
		for _, vi := range f.V {
			if vi < 0 || vi >= len(m.Vertices) {
				return nil, skipped, fmt.Errorf("face %v: %w", f.V, geometry.ErrVertexIndex)
			}
		}
		a, b, c := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
		if b.Sub(a).Cross(c.Sub(a)).LenSq() == 0 {
			skipped++
			continue
		}

		key := f.Material
		mat := fallback
		if pbr := m.GetMaterial(key); pbr != nil && !override {
			mat = pbr.Surface()
		} else {
			key = -1
		}

		g, ok := groups[key]
		if !ok {
			g = &group{mesh: geometry.NewTriangleMesh(mat), remap: map[int]int{}}
			groups[key] = g
			meshes = append(meshes, g.mesh)
		}

		var idx [3]int
		for j, vi := range f.V {
			local, seen := g.remap[vi]
			if !seen {
				local = g.mesh.AddVertex(m.Vertices[vi])
				g.remap[vi] = local
			}
			idx[j] = local
		}
		if err := g.mesh.AddTriangle(idx[0], idx[1], idx[2]); err != nil {
			return nil, skipped, err
		}
	}

	return meshes, skipped, nil
}
