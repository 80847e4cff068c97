package render

import (
	"github.com/taigrr/photon/pkg/math3d"
)

// Viewport maps image pixels onto a pinhole camera at the origin looking
// down -Z. The image plane sits at z = -focalLength, is viewportHeight tall,
// and is as wide as the canvas aspect ratio requires.
type Viewport struct {
	Width, Height  int
	ViewportHeight float64
	ViewportWidth  float64
	FocalLength    float64

	origin  math3d.Vec3
	pixel00 math3d.Vec3 // center of pixel (0, 0), the top-left one
	deltaX  math3d.Vec3
	deltaY  math3d.Vec3
}

// NewViewport creates the camera mapping for a width x height image.
func NewViewport(width, height int, viewportHeight, focalLength float64) Viewport {
	vw := viewportHeight * float64(width) / float64(height)
	spanX := math3d.V3(vw, 0, 0)
	spanY := math3d.V3(0, -viewportHeight, 0) // rows grow downward

	deltaX := spanX.Div(float64(width))
	deltaY := spanY.Div(float64(height))

	origin := math3d.Vec3{}
	upperLeft := origin.
		Sub(math3d.V3(0, 0, focalLength)).
		Sub(spanX.Scale(0.5)).
		Sub(spanY.Scale(0.5))

	return Viewport{
		Width:          width,
		Height:         height,
		ViewportHeight: viewportHeight,
		ViewportWidth:  vw,
		FocalLength:    focalLength,
		origin:         origin,
		pixel00:        upperLeft.Add(deltaX.Add(deltaY).Scale(0.5)),
		deltaX:         deltaX,
		deltaY:         deltaY,
	}
}

// Origin returns the camera position.
func (v Viewport) Origin() math3d.Vec3 {
	return v.origin
}

// Direction returns the unnormalized direction through pixel coordinates
// (px, py). Integer coordinates hit pixel centers.
func (v Viewport) Direction(px, py float64) math3d.Vec3 {
	return v.pixel00.
		Add(v.deltaX.Scale(px)).
		Add(v.deltaY.Scale(py)).
		Sub(v.origin)
}

// Ray returns the camera ray through pixel coordinates (px, py).
func (v Viewport) Ray(px, py float64) math3d.Ray {
	return math3d.NewRay(v.origin, v.Direction(px, py))
}

// Project maps a world point to pixel coordinates. It returns false for
// points on or behind the camera plane.
func (v Viewport) Project(p math3d.Vec3) (float64, float64, bool) {
	rel := p.Sub(v.origin)
	if rel.Z >= -1e-9 {
		return 0, 0, false
	}
	onPlane := rel.Scale(v.FocalLength / -rel.Z)
	px := (onPlane.X - v.pixel00.X) / v.deltaX.X
	py := (onPlane.Y - v.pixel00.Y) / v.deltaY.Y
	return px, py, true
}
