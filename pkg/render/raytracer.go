package render

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/taigrr/photon/pkg/geometry"
	"github.com/taigrr/photon/pkg/math3d"
)

// DefaultShadowBias is the minimum hit distance. It keeps bounced rays from
// re-hitting the surface they start on due to round-off.
const DefaultShadowBias = 0.001

// skyTop is the zenith color of the background gradient.
var skyTop = math3d.V3(0.5, 0.7, 1.0)

// Logger receives debug messages about a render. *log.Logger from
// charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg any, keyvals ...any)
}

// ProgressFunc is called after each finished row.
type ProgressFunc func(done, total int)

// Option configures a RayTracer.
type Option func(*RayTracer)

// WithSeed makes the render reproducible.
func WithSeed(seed int64) Option {
	return func(rt *RayTracer) {
		rt.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand uses the given generator for jitter and scattering.
func WithRand(rng *rand.Rand) Option {
	return func(rt *RayTracer) {
		rt.rng = rng
	}
}

// WithShadowBias sets the minimum accepted hit distance.
func WithShadowBias(eps float64) Option {
	return func(rt *RayTracer) {
		rt.shadowBias = eps
	}
}

// WithHighlightCompression toggles rescaling over-bright pixels by their
// brightest channel before clamping.
func WithHighlightCompression(on bool) Option {
	return func(rt *RayTracer) {
		rt.compress = on
	}
}

// WithJitter toggles sub-pixel jitter. Without it every sample goes through
// the pixel center.
func WithJitter(on bool) Option {
	return func(rt *RayTracer) {
		rt.jitter = on
	}
}

// WithProgress registers a row-completion callback.
func WithProgress(fn ProgressFunc) Option {
	return func(rt *RayTracer) {
		rt.progress = fn
	}
}

// WithLogger sets the debug logger.
func WithLogger(l Logger) Option {
	return func(rt *RayTracer) {
		rt.logger = l
	}
}

// RayTracer renders a scene through a fixed pinhole camera by Monte Carlo
// path tracing. A RayTracer owns its random generator and is not safe for
// concurrent use.
type RayTracer struct {
	viewport   Viewport
	rng        *rand.Rand
	shadowBias float64
	compress   bool
	jitter     bool
	progress   ProgressFunc
	logger     Logger
}

// NewRayTracer sets up a camera at the origin looking down -Z, sized for
// canvas. Without WithSeed or WithRand the generator is seeded from the
// clock.
func NewRayTracer(canvas Canvas, viewportHeight, focalLength float64, opts ...Option) *RayTracer {
	w, h := canvas.Size()
	rt := &RayTracer{
		viewport:   NewViewport(w, h, viewportHeight, focalLength),
		shadowBias: DefaultShadowBias,
		compress:   true,
		jitter:     true,
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.rng == nil {
		rt.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rt
}

// Viewport returns the camera mapping.
func (rt *RayTracer) Viewport() Viewport {
	return rt.viewport
}

// Draw renders world into canvas, taking samples rays per pixel and
// following each for at most maxBounces scatters. It returns once every
// pixel is written.
func (rt *RayTracer) Draw(canvas Canvas, world geometry.Hittable, samples, maxBounces int) {
	_ = rt.DrawContext(context.Background(), canvas, world, samples, maxBounces)
}

// DrawContext is Draw with cancellation, checked between rows. A cancelled
// render leaves the canvas partially written.
func (rt *RayTracer) DrawContext(ctx context.Context, canvas Canvas, world geometry.Hittable, samples, maxBounces int) error {
	w, h := canvas.Size()
	vp := rt.viewport
	if vp.Width != w || vp.Height != h {
		vp = NewViewport(w, h, vp.ViewportHeight, vp.FocalLength)
	}
	samples = max(samples, 1)
	maxBounces = max(maxBounces, 0)

	start := time.Now()
	rt.debug("render started", "width", w, "height", h, "samples", samples, "bounces", maxBounces)

	for y := range h {
		if err := ctx.Err(); err != nil {
			rt.debug("render cancelled", "row", y)
			return err
		}
		for x := range w {
			var sum math3d.Vec3
			for range samples {
				jx, jy := 0.0, 0.0
				if rt.jitter {
					jx = rt.rng.Float64() - 0.5
					jy = rt.rng.Float64() - 0.5
				}
				r := vp.Ray(float64(x)+jx, float64(y)+jy)
				sum = sum.Add(rt.RayColor(r, world, maxBounces))
			}
			canvas.SetPixel(x, y, ToneMap(sum.Div(float64(samples)), rt.compress))
		}
		if rt.progress != nil {
			rt.progress(y+1, h)
		}
	}

	rt.debug("render finished", "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// RayColor follows one path through world and returns the radiance it
// carries back. The path ends at the sky, at a surface that does not
// scatter, or with zero radiance once maxBounces scatters are used up.
func (rt *RayTracer) RayColor(r math3d.Ray, world geometry.Hittable, maxBounces int) math3d.Vec3 {
	throughput := math3d.Splat(1)
	iv := math3d.From(rt.shadowBias)
	rec := geometry.NewHitInfo()

	for range maxBounces + 1 {
		rec.T = math.Inf(1)
		if !world.Hit(r, iv, &rec) {
			return Sky(r.Direction).Mul(throughput)
		}
		attenuation, next, ok := rec.Scatter(r, rt.rng)
		if !ok {
			return rec.Material.Emission().Mul(throughput)
		}
		throughput = throughput.Mul(attenuation)
		r = next
	}
	return math3d.Vec3{}
}

// Sky is the background radiance seen along dir: white at the horizon
// blending to light blue overhead.
func Sky(dir math3d.Vec3) math3d.Vec3 {
	a := 0.5 * (dir.Normalize().Y + 1)
	return math3d.Splat(1).Lerp(skyTop, a)
}

func (rt *RayTracer) debug(msg string, keyvals ...any) {
	if rt.logger != nil {
		rt.logger.Debug(msg, keyvals...)
	}
}
