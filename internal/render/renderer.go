// Package render defines the contract the interaction layer consumes
// from the rendering surface, plus a reference implementation backed by
// a retained scene graph built from the document.
package render

import "github.com/vellum/vellum/editor-go/internal/geom"

// RectOptions selects which visual extras count towards a node's rect.
type RectOptions struct {
	SkipStroke bool
	SkipShadow bool
}

// Renderer is the surface the editor core talks to. The core treats it
// as a pure view: it never reads node positions back from it except to
// compute current-frame geometry for gestures.
type Renderer interface {
	// FindNodeAt returns the topmost node at the given screen point.
	FindNodeAt(screen geom.Point) (string, bool)
	// ClientRect returns a node's bounding rect in screen space, the
	// way the canvas would report it for the current camera.
	ClientRect(id string, opts RectOptions) (geom.Rect, bool)
	// RequestRedraw schedules a repaint. Fire-and-forget.
	RequestRedraw()
}
