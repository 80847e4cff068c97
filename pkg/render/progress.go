package render

import (
	"image/color"

	"github.com/charmbracelet/harmonica"
)

// ProgressBar eases a displayed fraction toward the real render progress
// with a critically damped spring, one step per preview frame.
type ProgressBar struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
	Fill   color.RGBA
	Track  color.RGBA
	Height int // bar thickness in pixels
}

// NewProgressBar creates a bar animated at fps frames per second.
func NewProgressBar(fps int) *ProgressBar {
	return &ProgressBar{
		// Frequency 6.0 settles in a few frames, damping 1.0 = no overshoot
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		Fill:   ColorGreen,
		Track:  ColorGray,
		Height: 2,
	}
}

// Set updates the target fraction, clamped to [0, 1].
func (p *ProgressBar) Set(fraction float64) {
	p.target = min(max(fraction, 0), 1)
}

// Update advances the animation one frame and returns the shown fraction.
func (p *ProgressBar) Update() float64 {
	p.pos, p.vel = p.spring.Update(p.pos, p.vel, p.target)
	return p.Fraction()
}

// Fraction returns the currently shown fraction.
func (p *ProgressBar) Fraction() float64 {
	return min(max(p.pos, 0), 1)
}

// Target returns the fraction the bar is moving toward.
func (p *ProgressBar) Target() float64 {
	return p.target
}

// Draw paints the bar across the bottom rows of fb.
func (p *ProgressBar) Draw(fb *Framebuffer) {
	y := fb.Height - p.Height
	filled := int(p.Fraction() * float64(fb.Width))
	fb.DrawRect(0, y, fb.Width, p.Height, p.Track)
	fb.DrawRect(0, y, filled, p.Height, p.Fill)
}
