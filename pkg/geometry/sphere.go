package geometry

import (
	"math"

	"github.com/taigrr/photon/pkg/material"
	"github.com/taigrr/photon/pkg/math3d"
)

// Sphere is a sphere with a single material.
type Sphere struct {
	Center   math3d.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a sphere.
func NewSphere(center math3d.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: mat}
}

// Intersect returns the nearer root of the ray/sphere quadratic when iv
// contains it. The far root is never reported, so a ray starting inside
// the sphere only hits when iv admits the negative near root.
func (s *Sphere) Intersect(r math3d.Ray, iv math3d.Interval) (float64, bool) {
	oc := s.Center.Sub(r.Origin)
	a := r.Direction.LenSq()
	b := -2 * r.Direction.Dot(oc)
	c := oc.LenSq() - s.Radius*s.Radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	if !iv.Contains(t) {
		return 0, false
	}
	return t, true
}

// Hit implements Hittable.
func (s *Sphere) Hit(r math3d.Ray, iv math3d.Interval, rec *HitInfo) bool {
	t, ok := s.Intersect(r, iv)
	if !ok || t >= rec.T {
		return false
	}
	p := r.At(t)
	n := p.Sub(s.Center).Div(s.Radius)
	if n.Dot(r.Direction) > 0 {
		n = n.Negate()
	}
	rec.T = t
	rec.Point = p
	rec.Normal = n
	rec.Material = s.Material
	return true
}

// Bounds implements Bounded.
func (s *Sphere) Bounds(pad float64) Bbox {
	r := math.Abs(s.Radius)
	return BboxFromPoints(pad, s.Center.Sub(math3d.Splat(r)), s.Center.Add(math3d.Splat(r)))
}
