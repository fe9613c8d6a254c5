// Package viewport maps between screen space and document (world)
// space under the canvas zoom/pan transform.
package viewport

import (
	"github.com/vellum/vellum/editor-go/internal/geom"
)

// Zoom clamp range.
const (
	MinZoom = 0.05
	MaxZoom = 5.0
)

// Camera is the canvas transform: world coordinates are scaled then
// translated to produce screen coordinates.
type Camera struct {
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// New returns an identity camera.
func New() *Camera {
	return &Camera{ScaleX: 1, ScaleY: 1}
}

// ScreenToWorld converts a screen-space point into world space.
func (c *Camera) ScreenToWorld(p geom.Point) geom.Point {
	return geom.Point{
		X: (p.X - c.X) / c.ScaleX,
		Y: (p.Y - c.Y) / c.ScaleY,
	}
}

// WorldToScreen converts a world-space point into screen space.
func (c *Camera) WorldToScreen(p geom.Point) geom.Point {
	return geom.Point{
		X: p.X*c.ScaleX + c.X,
		Y: p.Y*c.ScaleY + c.Y,
	}
}

// WorldToScreenRect maps a world-space rect into screen space.
func (c *Camera) WorldToScreenRect(r geom.Rect) geom.Rect {
	tl := c.WorldToScreen(geom.Point{X: r.X, Y: r.Y})
	return geom.Rect{
		X:      tl.X,
		Y:      tl.Y,
		Width:  r.Width * c.ScaleX,
		Height: r.Height * c.ScaleY,
	}
}

// ScreenToWorldRect maps a screen-space rect into world space.
func (c *Camera) ScreenToWorldRect(r geom.Rect) geom.Rect {
	tl := c.ScreenToWorld(geom.Point{X: r.X, Y: r.Y})
	return geom.Rect{
		X:      tl.X,
		Y:      tl.Y,
		Width:  r.Width / c.ScaleX,
		Height: r.Height / c.ScaleY,
	}
}

// Matrix returns the camera as an affine matrix.
func (c *Camera) Matrix() geom.Matrix2D {
	return geom.Translate(c.X, c.Y).Multiply(geom.Scale(c.ScaleX, c.ScaleY))
}

// Pan shifts the camera translation by a screen-space delta.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx
	c.Y += dy
}

// ZoomAt multiplies the zoom by factor while keeping the given world
// point fixed under the same screen pixel. The resulting scale is
// clamped to [MinZoom, MaxZoom].
func (c *Camera) ZoomAt(world geom.Point, factor float64) {
	if !geom.IsFinite(factor) || factor == 0 {
		return
	}
	screen := c.WorldToScreen(world)

	c.ScaleX = clamp(c.ScaleX*factor, MinZoom, MaxZoom)
	c.ScaleY = clamp(c.ScaleY*factor, MinZoom, MaxZoom)

	c.X = screen.X - world.X*c.ScaleX
	c.Y = screen.Y - world.Y*c.ScaleY
}

// FitBounds computes scale and translation so the padded world bounds
// exactly fill the viewport, centered on the leftover axis. Uniform
// scale is used so the content is not distorted.
func (c *Camera) FitBounds(bounds geom.Rect, padding, viewW, viewH float64) {
	if bounds.IsEmpty() || viewW <= 0 || viewH <= 0 {
		return
	}
	padded := bounds.Inset(-padding)

	scale := min(viewW/padded.Width, viewH/padded.Height)
	scale = clamp(scale, MinZoom, MaxZoom)

	c.ScaleX = scale
	c.ScaleY = scale
	c.X = -padded.X*scale + (viewW-padded.Width*scale)/2
	c.Y = -padded.Y*scale + (viewH-padded.Height*scale)/2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
