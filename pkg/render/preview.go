package render

import (
	"image"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/nfnt/resize"
)

// Thumbnail scales img to fit within w x h pixels, keeping its aspect ratio.
func Thumbnail(img image.Image, w, h int) *Framebuffer {
	if w <= 0 || h <= 0 {
		return NewFramebuffer(0, 0)
	}
	return FramebufferFromImage(resize.Thumbnail(uint(w), uint(h), img, resize.Bilinear))
}

// PreviewFrame builds one terminal frame of an in-progress render: the
// canvas scaled to cols x rows half-block cells, centered, with the
// progress bar along the bottom.
func PreviewFrame(src *LockedCanvas, cols, rows int, bar *ProgressBar) *Framebuffer {
	frame := NewFramebuffer(cols, rows*2)
	frame.Clear(ColorBlack)

	thumb := Thumbnail(src.Snapshot(), cols, rows*2-bar.Height)
	offX := (frame.Width - thumb.Width) / 2
	for y := 0; y < thumb.Height; y++ {
		for x := 0; x < thumb.Width; x++ {
			frame.SetPixel(offX+x, y, thumb.GetPixel(x, y))
		}
	}

	bar.Draw(frame)
	return frame
}

// Preview shows a render's progress on a terminal screen. Progress may be
// reported from the rendering goroutine while another goroutine draws.
type Preview struct {
	src *LockedCanvas

	mu  sync.Mutex
	bar *ProgressBar
}

// NewPreview creates a preview of src animated at fps.
func NewPreview(src *LockedCanvas, fps int) *Preview {
	return &Preview{src: src, bar: NewProgressBar(fps)}
}

// SetProgress records that done of total rows are finished.
func (p *Preview) SetProgress(done, total int) {
	if total <= 0 {
		return
	}
	p.mu.Lock()
	p.bar.Set(float64(done) / float64(total))
	p.mu.Unlock()
}

// Settled reports whether the bar has reached a complete render.
func (p *Preview) Settled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bar.Target() >= 1 && p.bar.Fraction() > 0.999
}

// Draw implements uv.Drawable. Each call advances the progress animation
// by one frame.
func (p *Preview) Draw(scr uv.Screen, area uv.Rectangle) {
	p.mu.Lock()
	p.bar.Update()
	frame := PreviewFrame(p.src, area.Dx(), area.Dy(), p.bar)
	p.mu.Unlock()
	frame.Draw(scr, area)
}
