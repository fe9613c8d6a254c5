package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vellum/vellum/editor-go/internal/geom"
)

func TestSnapToGrid(t *testing.T) {
	assert.Equal(t, geom.Point{X: 20, Y: 30}, SnapToGrid(geom.Point{X: 23, Y: 26}, 10))
	assert.Equal(t, geom.Point{X: -10, Y: 0}, SnapToGrid(geom.Point{X: -12, Y: 4.9}, 10))

	// Grid size zero disables snapping.
	p := geom.Point{X: 13.7, Y: 0.2}
	assert.Equal(t, p, SnapToGrid(p, 0))
	assert.Equal(t, p, SnapToGrid(p, -5))
}

func TestResolveCollisionNoOverlap(t *testing.T) {
	offset := ResolveCollision(
		geom.Rect{X: 0, Y: 0, Width: 10, Height: 10},
		[]geom.Rect{{X: 20, Y: 0, Width: 10, Height: 10}},
		2,
	)
	assert.Equal(t, geom.Point{}, offset)
}

func TestResolveCollisionSlidesSmallerAxis(t *testing.T) {
	// Horizontal penetration of 2 vs vertical of 10: slide left by 2.
	offset := ResolveCollision(
		geom.Rect{X: 0, Y: 0, Width: 10, Height: 10},
		[]geom.Rect{{X: 8, Y: 0, Width: 10, Height: 10}},
		0,
	)
	assert.Equal(t, geom.Point{X: -2, Y: 0}, offset)

	// Vertical penetration of 3 vs horizontal of 10: slide up by 3.
	offset = ResolveCollision(
		geom.Rect{X: 0, Y: 0, Width: 10, Height: 10},
		[]geom.Rect{{X: 0, Y: 7, Width: 10, Height: 10}},
		0,
	)
	assert.Equal(t, geom.Point{X: 0, Y: -3}, offset)
}

func TestResolveCollisionDirectionAndMargin(t *testing.T) {
	// Candidate center right of the obstacle center: pushed right, with
	// the margin added on top of the penetration depth.
	offset := ResolveCollision(
		geom.Rect{X: 8, Y: 0, Width: 10, Height: 10},
		[]geom.Rect{{X: 0, Y: 0, Width: 10, Height: 10}},
		4,
	)
	assert.Equal(t, geom.Point{X: 6, Y: 0}, offset)
}
