package render

import (
	"image/color"
	"math"

	"github.com/taigrr/photon/pkg/geometry"
)

// maxOverlayReach limits how far outside the image an overlay endpoint may
// project before the edge is dropped, in multiples of the image size.
const maxOverlayReach = 4

// DrawBounds outlines each bounding box's twelve edges on fb as seen from
// the viewport camera. Edges with an endpoint behind the camera are skipped.
func DrawBounds(fb *Framebuffer, vp Viewport, boxes []geometry.Bbox, c color.RGBA) {
	for _, box := range boxes {
		corners := box.Corners()
		for i := range corners {
			for _, bit := range [3]int{1, 2, 4} {
				if i&bit != 0 {
					continue
				}
				x0, y0, ok0 := vp.Project(corners[i])
				x1, y1, ok1 := vp.Project(corners[i|bit])
				if !ok0 || !ok1 || !fb.reachable(x0, y0) || !fb.reachable(x1, y1) {
					continue
				}
				fb.DrawLine(
					int(math.Round(x0)), int(math.Round(y0)),
					int(math.Round(x1)), int(math.Round(y1)),
					c,
				)
			}
		}
	}
}

func (fb *Framebuffer) reachable(x, y float64) bool {
	limX := float64(maxOverlayReach * max(fb.Width, 1))
	limY := float64(maxOverlayReach * max(fb.Height, 1))
	return math.Abs(x) <= limX && math.Abs(y) <= limY
}
