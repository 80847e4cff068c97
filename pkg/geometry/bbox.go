package geometry

import (
	"math"

	"github.com/taigrr/photon/pkg/math3d"
)

// Bbox is an axis-aligned bounding box described by one interval per axis.
type Bbox struct {
	X, Y, Z math3d.Interval
}

// EmptyBbox encloses nothing; no ray intersects it.
var EmptyBbox = Bbox{X: math3d.Empty, Y: math3d.Empty, Z: math3d.Empty}

// NewBbox creates a box from three intervals.
func NewBbox(x, y, z math3d.Interval) Bbox {
	return Bbox{X: x, Y: y, Z: z}
}

// BboxFromPoints returns the smallest box containing every point, widened
// by pad on each side of every axis.
func BboxFromPoints(pad float64, points ...math3d.Vec3) Bbox {
	b := EmptyBbox
	for _, p := range points {
		b.X = b.X.Union(math3d.NewInterval(p.X, p.X))
		b.Y = b.Y.Union(math3d.NewInterval(p.Y, p.Y))
		b.Z = b.Z.Union(math3d.NewInterval(p.Z, p.Z))
	}
	return b.Pad(pad)
}

// Axis returns the interval for axis i: 0 is X, 1 is Y, anything else is Z.
func (b Bbox) Axis(i int) math3d.Interval {
	switch i {
	case 0:
		return b.X
	case 1:
		return b.Y
	default:
		return b.Z
	}
}

// Pad widens every axis by delta on both sides.
func (b Bbox) Pad(delta float64) Bbox {
	return Bbox{X: b.X.Expand(delta), Y: b.Y.Expand(delta), Z: b.Z.Expand(delta)}
}

// Min returns the low corner.
func (b Bbox) Min() math3d.Vec3 {
	return math3d.V3(b.X.Min, b.Y.Min, b.Z.Min)
}

// Max returns the high corner.
func (b Bbox) Max() math3d.Vec3 {
	return math3d.V3(b.X.Max, b.Y.Max, b.Z.Max)
}

// Center returns the middle of the box.
func (b Bbox) Center() math3d.Vec3 {
	return b.Min().Add(b.Max()).Scale(0.5)
}

// Corners returns the eight corners. Index bit 0 selects max X, bit 1 max
// Y and bit 2 max Z.
func (b Bbox) Corners() [8]math3d.Vec3 {
	var c [8]math3d.Vec3
	for i := range c {
		c[i] = math3d.V3(b.X.Min, b.Y.Min, b.Z.Min)
		if i&1 != 0 {
			c[i].X = b.X.Max
		}
		if i&2 != 0 {
			c[i].Y = b.Y.Max
		}
		if i&4 != 0 {
			c[i].Z = b.Z.Max
		}
	}
	return c
}

// Intersects reports whether the ray's forward half-line passes through the
// box, using the slab method.
//
// A zero direction component gives an infinite reciprocal, which the slab
// arithmetic handles without a special case. A NaN slab distance (ray lying
// exactly in a slab face) fails both comparisons and leaves the running
// range unchanged.
func (b Bbox) Intersects(r math3d.Ray) bool {
	tmin, tmax := 0.0, math.Inf(1)
	for axis := range 3 {
		iv := b.Axis(axis)
		invDir := 1 / r.Direction.Axis(axis)
		origin := r.Origin.Axis(axis)

		near, far := iv.Min, iv.Max
		if math.Signbit(invDir) {
			near, far = far, near
		}
		t0 := (near - origin) * invDir
		t1 := (far - origin) * invDir

		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmin > tmax {
			return false
		}
	}
	return tmin <= tmax
}
