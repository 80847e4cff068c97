package geometry

import (
	"errors"
	"fmt"

	"github.com/taigrr/photon/pkg/material"
	"github.com/taigrr/photon/pkg/math3d"
)

var (
	// ErrVertexIndex is returned when a triangle references a missing vertex.
	ErrVertexIndex = errors.New("vertex index out of range")
	// ErrDegenerateTriangle is returned for triangles with zero area, which
	// have no usable normal.
	ErrDegenerateTriangle = errors.New("degenerate triangle")
)

// TriangleMesh is a set of triangles over a shared vertex list, all with the
// same material. Face normals are computed once when a triangle is added.
type TriangleMesh struct {
	vertices  []math3d.Vec3
	triangles [][3]int
	normals   []math3d.Vec3
	material  material.Material
}

// NewTriangleMesh creates an empty mesh.
func NewTriangleMesh(mat material.Material) *TriangleMesh {
	return &TriangleMesh{material: mat}
}

// AddVertex appends a vertex and returns its index.
func (m *TriangleMesh) AddVertex(p math3d.Vec3) int {
	m.vertices = append(m.vertices, p)
	return len(m.vertices) - 1
}

// AddTriangle adds the triangle (i, j, k). Its normal is the normalized
// (b-a)×(c-a), so counter-clockwise winding seen from the front faces the
// viewer.
func (m *TriangleMesh) AddTriangle(i, j, k int) error {
	for _, idx := range [3]int{i, j, k} {
		if idx < 0 || idx >= len(m.vertices) {
			return fmt.Errorf("triangle (%d, %d, %d): %w", i, j, k, ErrVertexIndex)
		}
	}
	a, b, c := m.vertices[i], m.vertices[j], m.vertices[k]
	n := b.Sub(a).Cross(c.Sub(a))
	if n.LenSq() == 0 {
		return fmt.Errorf("triangle (%d, %d, %d): %w", i, j, k, ErrDegenerateTriangle)
	}
	m.triangles = append(m.triangles, [3]int{i, j, k})
	m.normals = append(m.normals, n.Normalize())
	return nil
}

// Vertices returns the mesh's vertex list. It must not be modified.
func (m *TriangleMesh) Vertices() []math3d.Vec3 {
	return m.vertices
}

// TriangleCount returns the number of triangles.
func (m *TriangleMesh) TriangleCount() int {
	return len(m.triangles)
}

// Material returns the mesh material.
func (m *TriangleMesh) Material() material.Material {
	return m.material
}

// Triangle returns the corners and cached unit normal of triangle i.
func (m *TriangleMesh) Triangle(i int) (a, b, c, normal math3d.Vec3) {
	tri := m.triangles[i]
	return m.vertices[tri[0]], m.vertices[tri[1]], m.vertices[tri[2]], m.normals[i]
}

// Hit implements Hittable. Every triangle is tested against the shared
// record, so the nearest one wins.
func (m *TriangleMesh) Hit(r math3d.Ray, iv math3d.Interval, rec *HitInfo) bool {
	hit := false
	for i := range m.triangles {
		a, b, c, n := m.Triangle(i)
		if TriangleHit(a, b, c, n, r, iv, rec) {
			hit = true
		}
	}
	if hit {
		rec.Material = m.material
	}
	return hit
}

// Bounds implements Bounded.
func (m *TriangleMesh) Bounds(pad float64) Bbox {
	return BboxFromPoints(pad, m.vertices...)
}

// TriangleHit intersects a ray with triangle abc whose unit normal is n.
// On a hit closer than rec.T it fills T, Point and Normal, leaving Material
// to the caller. The reported normal faces against the ray direction.
func TriangleHit(a, b, c, n math3d.Vec3, r math3d.Ray, iv math3d.Interval, rec *HitInfo) bool {
	denom := n.Dot(r.Direction)
	if denom == 0 {
		return false
	}
	t := (n.Dot(a) - n.Dot(r.Origin)) / denom
	if !iv.Contains(t) || t >= rec.T {
		return false
	}

	q := r.At(t)
	if b.Sub(a).Cross(q.Sub(a)).Dot(n) < 0 ||
		c.Sub(b).Cross(q.Sub(b)).Dot(n) < 0 ||
		a.Sub(c).Cross(q.Sub(c)).Dot(n) < 0 {
		return false
	}

	rec.T = t
	rec.Point = q
	if denom < 0 {
		rec.Normal = n
	} else {
		rec.Normal = n.Negate()
	}
	return true
}
