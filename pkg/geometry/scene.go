package geometry

import (
	"math"

	"github.com/taigrr/photon/pkg/math3d"
)

// DefaultBoxPadding widens every object's bounding box so flat meshes
// (zero extent along an axis) can still be hit.
const DefaultBoxPadding = 1e-4

// Option configures a Scene.
type Option func(*Scene)

// WithBoxPadding sets the bounding box padding.
func WithBoxPadding(pad float64) Option {
	return func(s *Scene) {
		s.pad = pad
	}
}

type sceneObject struct {
	obj Bounded
	box Bbox
}

// Scene is a flat list of objects, each culled by its own bounding box.
// Objects must be fully built before they are added; their boxes are
// computed once at insertion.
type Scene struct {
	objects   []sceneObject
	pad       float64
	triangles int
}

// NewScene creates an empty scene.
func NewScene(opts ...Option) *Scene {
	s := &Scene{pad: DefaultBoxPadding}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends any bounded object.
func (s *Scene) Add(obj Bounded) {
	s.objects = append(s.objects, sceneObject{obj: obj, box: obj.Bounds(s.pad)})
}

// AddMesh appends a triangle mesh, boxed by its vertex extents.
func (s *Scene) AddMesh(m *TriangleMesh) {
	s.triangles += m.TriangleCount()
	s.Add(m)
}

// AddSphere appends a sphere.
func (s *Scene) AddSphere(sp *Sphere) {
	s.Add(sp)
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// TriangleCount returns the total number of mesh triangles.
func (s *Scene) TriangleCount() int {
	return s.triangles
}

// Padding returns the box padding in use.
func (s *Scene) Padding() float64 {
	return s.pad
}

// Bounds returns every object's bounding box in insertion order.
func (s *Scene) Bounds() []Bbox {
	boxes := make([]Bbox, len(s.objects))
	for i, o := range s.objects {
		boxes[i] = o.box
	}
	return boxes
}

// Hit implements Hittable. It clears rec.T, tests every object whose box the
// ray passes through, and reports whether anything was hit. The closest hit
// wins; on an exact tie the earlier object is kept.
func (s *Scene) Hit(r math3d.Ray, iv math3d.Interval, rec *HitInfo) bool {
	rec.T = math.Inf(1)
	for _, o := range s.objects {
		if !o.box.Intersects(r) {
			continue
		}
		o.obj.Hit(r, iv, rec)
	}
	return !math.IsInf(rec.T, 1)
}
