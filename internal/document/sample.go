package document

import "github.com/vellum/vellum/editor-go/internal/geom"

// NewSampleDocument builds a small demo document: two shapes, a text
// label and a grouped pair, all under the root frame. Used by the wasm
// host and as a convenient fixture.
func NewSampleDocument(rootID string) *Document {
	rot := 15.0

	return &Document{
		Root: &Node{
			ID:       rootID,
			Type:     TypeFrame,
			Position: &geom.Point{X: 0, Y: 0},
			Size:     &geom.Size{Width: 1280, Height: 720},
			Children: []*Node{
				{
					ID:       "rect-hero",
					Type:     TypeRect,
					Position: &geom.Point{X: 80, Y: 64},
					Size:     &geom.Size{Width: 320, Height: 200},
					Props:    map[string]any{"fill": "#4f86f7", "stroke": "#1a1a2e", "strokeWidth": 2.0},
				},
				{
					ID:       "ellipse-accent",
					Type:     TypeEllipse,
					Position: &geom.Point{X: 460, Y: 120},
					Size:     &geom.Size{Width: 140, Height: 140},
					Rotation: &rot,
					Props:    map[string]any{"fill": "#f7b32b"},
				},
				{
					ID:       "label-title",
					Type:     TypeText,
					Position: &geom.Point{X: 80, Y: 300},
					Size:     &geom.Size{Width: 400, Height: 48},
					Props:    map[string]any{"text": "Untitled design", "fill": "#1a1a2e"},
				},
				{
					ID:       "group-badge",
					Type:     TypeGroup,
					Position: &geom.Point{X: 700, Y: 400},
					Size:     &geom.Size{Width: 180, Height: 120},
					Children: []*Node{
						{
							ID:       "badge-bg",
							Type:     TypeRect,
							Position: &geom.Point{X: 0, Y: 0},
							Size:     &geom.Size{Width: 180, Height: 120},
							Props:    map[string]any{"fill": "#e8e8f0"},
						},
						{
							ID:       "badge-dot",
							Type:     TypeEllipse,
							Position: &geom.Point{X: 70, Y: 40},
							Size:     &geom.Size{Width: 40, Height: 40},
							Props:    map[string]any{"fill": "#d64550"},
						},
					},
				},
			},
		},
	}
}
