package render

import (
	"image/color"
	"math"

	"github.com/taigrr/photon/pkg/math3d"
)

var displayRange = math3d.NewInterval(0, 0.999)

// ToneMap converts averaged linear radiance to an 8-bit pixel. With compress
// set, a color whose brightest channel exceeds 1 is first divided by that
// channel. Each channel is then clamped to [0, 0.999], gamma corrected with
// a square root and quantized with floor(256*v).
func ToneMap(c math3d.Vec3, compress bool) color.RGBA {
	if compress {
		if m := c.MaxComponent(); m > 1 {
			c = c.Div(m)
		}
	}
	return color.RGBA{
		R: quantize(c.X),
		G: quantize(c.Y),
		B: quantize(c.Z),
		A: 255,
	}
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) {
		v = 0
	}
	return uint8(math.Floor(256 * math.Sqrt(displayRange.Clamp(v))))
}
