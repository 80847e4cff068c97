package render

import (
	"image"
	"image/color"
	"sync"
)

// LockedCanvas guards a Framebuffer so a preview can read it while a render
// is writing.
type LockedCanvas struct {
	mu sync.RWMutex
	fb *Framebuffer
}

var _ Canvas = (*LockedCanvas)(nil)

// NewLockedCanvas wraps fb.
func NewLockedCanvas(fb *Framebuffer) *LockedCanvas {
	return &LockedCanvas{fb: fb}
}

// Size implements Canvas.
func (l *LockedCanvas) Size() (int, int) {
	return l.fb.Size()
}

// SetPixel implements Canvas.
func (l *LockedCanvas) SetPixel(x, y int, c color.RGBA) {
	l.mu.Lock()
	l.fb.SetPixel(x, y, c)
	l.mu.Unlock()
}

// GetPixel implements Canvas.
func (l *LockedCanvas) GetPixel(x, y int) color.RGBA {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fb.GetPixel(x, y)
}

// Snapshot copies the current contents into an image.
func (l *LockedCanvas) Snapshot() *image.RGBA {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fb.ToImage()
}
