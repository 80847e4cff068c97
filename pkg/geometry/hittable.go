// Package geometry implements ray intersection for the primitives a scene is
// built from: spheres, triangle meshes and the bounding boxes that cull them.
package geometry

import (
	"math"
	"math/rand"

	"github.com/taigrr/photon/pkg/material"
	"github.com/taigrr/photon/pkg/math3d"
)

// HitInfo records the closest intersection found so far along a ray.
// T is +Inf until something is hit.
type HitInfo struct {
	T        float64
	Point    math3d.Vec3
	Normal   math3d.Vec3 // unit length, facing the incoming ray
	Material material.Material
}

// NewHitInfo returns a record with no hit yet.
func NewHitInfo() HitInfo {
	return HitInfo{T: math.Inf(1)}
}

// Scatter continues the path at this hit using its material.
func (h *HitInfo) Scatter(in math3d.Ray, rng *rand.Rand) (math3d.Vec3, math3d.Ray, bool) {
	return h.Material.Scatter(in, h.Point, h.Normal, rng)
}

// Hittable is anything a ray can intersect.
//
// Hit accepts a candidate t only when iv contains it and it is strictly
// closer than rec.T. On acceptance it overwrites rec and returns true;
// otherwise rec is left untouched. Passing the same record to several
// primitives therefore keeps the nearest hit, with the first one tested
// winning exact ties.
type Hittable interface {
	Hit(ray math3d.Ray, iv math3d.Interval, rec *HitInfo) bool
}

// Bounded is a Hittable that can report an axis-aligned box enclosing it.
type Bounded interface {
	Hittable
	Bounds(pad float64) Bbox
}
