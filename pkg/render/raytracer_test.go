package render

import (
	"context"
	"errors"
	"image/color"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/taigrr/photon/pkg/geometry"
	"github.com/taigrr/photon/pkg/material"
	"github.com/taigrr/photon/pkg/math3d"
)

const tol = 1e-12

func vecNear(a, b math3d.Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

// scriptedWorld reports one hit per call from a fixed list of materials,
// each one unit along the ray with the normal facing back at it, then misses.
type scriptedWorld struct {
	mats  []material.Material
	calls int
}

func (w *scriptedWorld) Hit(r math3d.Ray, iv math3d.Interval, rec *geometry.HitInfo) bool {
	if w.calls >= len(w.mats) {
		return false
	}
	rec.T = 1
	rec.Point = r.At(1)
	rec.Normal = r.Direction.Normalize().Negate()
	rec.Material = w.mats[w.calls]
	w.calls++
	return true
}

type recordingLogger struct {
	msgs []string
}

func (l *recordingLogger) Debug(msg any, keyvals ...any) {
	l.msgs = append(l.msgs, msg.(string))
}

func singleSphereScene() *geometry.Scene {
	s := geometry.NewScene()
	s.AddSphere(geometry.NewSphere(math3d.V3(0, 0, -1), 0.5, material.NewLambertian(math3d.V3(0.5, 0.5, 0.5))))
	return s
}

// enclosingBox returns a closed cube mesh around the origin.
func enclosingBox(t *testing.T, half float64, mat material.Material) *geometry.TriangleMesh {
	t.Helper()
	m := geometry.NewTriangleMesh(mat)
	for i := range 8 {
		p := math3d.Splat(-half)
		if i&1 != 0 {
			p.X = half
		}
		if i&2 != 0 {
			p.Y = half
		}
		if i&4 != 0 {
			p.Z = half
		}
		m.AddVertex(p)
	}
	quads := [][4]int{
		{0, 2, 6, 4}, {1, 5, 7, 3},
		{0, 4, 5, 1}, {2, 3, 7, 6},
		{0, 1, 3, 2}, {4, 6, 7, 5},
	}
	for _, q := range quads {
		if err := m.AddTriangle(q[0], q[1], q[2]); err != nil {
			t.Fatal(err)
		}
		if err := m.AddTriangle(q[0], q[2], q[3]); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func TestSky(t *testing.T) {
	tests := []struct {
		name string
		dir  math3d.Vec3
		want math3d.Vec3
	}{
		{"straight up", math3d.V3(0, 5, 0), math3d.V3(0.5, 0.7, 1.0)},
		{"straight down", math3d.V3(0, -1, 0), math3d.V3(1, 1, 1)},
		{"horizon", math3d.V3(0, 0, -3), math3d.V3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sky(tt.dir); !vecNear(got, tt.want, tol) {
				t.Errorf("Sky(%v) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}

func TestRayColorEmissiveAfterBounces(t *testing.T) {
	mats := []material.Material{
		material.NewLambertian(math3d.V3(0.5, 0.6, 0.7)),
		material.NewMetal(math3d.V3(0.9, 0.8, 0.5)),
		material.NewLambertian(math3d.V3(0.5, 0.5, 0.5)),
		material.NewEmissive(math3d.V3(4, 2, 1)),
	}
	r := math3d.NewRay(math3d.Vec3{}, math3d.V3(0, 0, -1))

	tests := []struct {
		name       string
		maxBounces int
		want       math3d.Vec3
	}{
		{"enough budget", 3, math3d.V3(4*0.5*0.9*0.5, 2*0.6*0.8*0.5, 1*0.7*0.5*0.5)},
		{"spare budget", 10, math3d.V3(4*0.5*0.9*0.5, 2*0.6*0.8*0.5, 1*0.7*0.5*0.5)},
		{"budget exhausted", 2, math3d.Vec3{}},
		{"no bounces", 0, math3d.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRayTracer(NewFramebuffer(1, 1), 2, 1, WithSeed(1))
			got := rt.RayColor(r, &scriptedWorld{mats: mats}, tt.maxBounces)
			if !vecNear(got, tt.want, tol) {
				t.Errorf("RayColor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRayColorSkyAfterMirror(t *testing.T) {
	world := &scriptedWorld{mats: []material.Material{material.NewMetal(math3d.Splat(0.5))}}
	rt := NewRayTracer(NewFramebuffer(1, 1), 2, 1, WithSeed(1))

	// The mirror sends the downward ray straight back up into the zenith.
	got := rt.RayColor(math3d.NewRay(math3d.Vec3{}, math3d.V3(0, -1, 0)), world, 5)
	if want := math3d.V3(0.25, 0.35, 0.5); !vecNear(got, want, tol) {
		t.Errorf("RayColor = %v, want %v", got, want)
	}
}

func TestRayColorShadowBias(t *testing.T) {
	scene := singleSphereScene()
	r := math3d.NewRay(math3d.Vec3{}, math3d.V3(0, 0, -1))

	near := NewRayTracer(NewFramebuffer(1, 1), 2, 1, WithSeed(1))
	if got := near.RayColor(r, scene, 0); !got.IsZero() {
		t.Errorf("default bias: RayColor = %v, want zero (budget used by the sphere)", got)
	}

	far := NewRayTracer(NewFramebuffer(1, 1), 2, 1, WithSeed(1), WithShadowBias(0.6))
	if got, want := far.RayColor(r, scene, 0), Sky(r.Direction); !vecNear(got, want, tol) {
		t.Errorf("bias past the sphere: RayColor = %v, want sky %v", got, want)
	}
}

func TestDrawSingleSphere(t *testing.T) {
	const w, h = 40, 20
	fb := NewFramebuffer(w, h)
	rt := NewRayTracer(fb, 2.0, 1.0, WithSeed(1), WithJitter(false))
	rt.Draw(fb, singleSphereScene(), 1, 0)

	sphere := geometry.NewSphere(math3d.V3(0, 0, -1), 0.5, material.Material{})
	vp := rt.Viewport()
	black := RGB(0, 0, 0)
	disk := 0

	for y := range h {
		for x := range w {
			r := vp.Ray(float64(x), float64(y))
			want := ToneMap(Sky(r.Direction), true)
			if _, hit := sphere.Intersect(r, math3d.From(DefaultShadowBias)); hit {
				want = black
				disk++
			}
			if got := fb.GetPixel(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}

	if disk == 0 || disk > w*h/4 {
		t.Errorf("disk covers %d pixels", disk)
	}
	if fb.GetPixel(w/2, h/2) != black {
		t.Error("center pixel is not part of the disk")
	}
	// Top rows look up into bluer sky than bottom rows.
	if top, bottom := fb.GetPixel(0, 0), fb.GetPixel(0, h-1); top.R >= bottom.R {
		t.Errorf("sky gradient inverted: top %v bottom %v", top, bottom)
	}
}

func TestDrawAbsorbingEnclosure(t *testing.T) {
	scene := geometry.NewScene()
	scene.AddMesh(enclosingBox(t, 5, material.NewEmissive(math3d.Vec3{})))

	fb := NewFramebuffer(8, 6)
	rt := NewRayTracer(fb, 2, 1, WithSeed(3))
	rt.Draw(fb, scene, 4, 8)

	for i, p := range fb.Pixels {
		if p != RGB(0, 0, 0) {
			t.Fatalf("pixel %d = %v, want black", i, p)
		}
	}
}

func TestDrawDeterministicWithSeed(t *testing.T) {
	scene := singleSphereScene()
	scene.AddMesh(enclosingBox(t, 3, material.NewLambertian(math3d.V3(0.7, 0.8, 0.5))))

	render := func() []color.RGBA {
		fb := NewFramebuffer(12, 8)
		NewRayTracer(fb, 2, 1, WithSeed(99)).Draw(fb, scene, 3, 4)
		return fb.Pixels
	}
	if a, b := render(), render(); !slices.Equal(a, b) {
		t.Error("same seed produced different images")
	}

	fb := NewFramebuffer(12, 8)
	NewRayTracer(fb, 2, 1, WithRand(rand.New(rand.NewSource(99)))).Draw(fb, scene, 3, 4)
	if !slices.Equal(fb.Pixels, render()) {
		t.Error("WithRand and WithSeed disagree for the same source")
	}
}

func TestDrawContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fb := NewFramebuffer(4, 4)
	err := NewRayTracer(fb, 2, 1).DrawContext(ctx, fb, singleSphereScene(), 1, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	for _, p := range fb.Pixels {
		if p != (color.RGBA{}) {
			t.Fatal("cancelled render wrote pixels")
		}
	}
}

func TestDrawProgressAndLogging(t *testing.T) {
	var rows []int
	logger := &recordingLogger{}
	fb := NewFramebuffer(3, 5)
	rt := NewRayTracer(fb, 2, 1,
		WithSeed(1),
		WithLogger(logger),
		WithProgress(func(done, total int) {
			if total != 5 {
				t.Errorf("total = %d, want 5", total)
			}
			rows = append(rows, done)
		}),
	)
	rt.Draw(fb, singleSphereScene(), 1, 1)

	if !slices.Equal(rows, []int{1, 2, 3, 4, 5}) {
		t.Errorf("progress rows = %v", rows)
	}
	if !slices.Equal(logger.msgs, []string{"render started", "render finished"}) {
		t.Errorf("log messages = %v", logger.msgs)
	}
}

func TestDrawResizedCanvas(t *testing.T) {
	small := NewFramebuffer(2, 2)
	rt := NewRayTracer(small, 2, 1, WithSeed(1))

	big := NewFramebuffer(6, 3)
	rt.Draw(big, geometry.NewScene(), 1, 0)
	for i, p := range big.Pixels {
		if p.A != 255 {
			t.Fatalf("pixel %d not written", i)
		}
	}
}

func BenchmarkRayColor(b *testing.B) {
	scene := singleSphereScene()
	rt := NewRayTracer(NewFramebuffer(1, 1), 2, 1, WithSeed(1))
	r := math3d.NewRay(math3d.Vec3{}, math3d.V3(0.1, 0.1, -1))

	for b.Loop() {
		_ = rt.RayColor(r, scene, 8)
	}
}
