package interaction

import (
	"math"

	"github.com/vellum/vellum/editor-go/internal/geom"
)

// SnapToGrid rounds a point to the nearest grid intersection. A grid
// size of zero or less disables snapping.
func SnapToGrid(p geom.Point, grid float64) geom.Point {
	if grid <= 0 {
		return p
	}
	return geom.Point{
		X: math.Round(p.X/grid) * grid,
		Y: math.Round(p.Y/grid) * grid,
	}
}

// ResolveCollision returns the translation that moves candidate clear
// of any overlapping obstacle. Each overlap is resolved by sliding
// along the axis with the smaller penetration, away from the obstacle
// center, plus margin. Obstacles are processed in order; a slide that
// creates a new overlap with a later obstacle is resolved in turn, so
// dense layouts may push the candidate further than the first slide.
func ResolveCollision(candidate geom.Rect, obstacles []geom.Rect, margin float64) geom.Point {
	moved := candidate
	// Two passes are enough in practice; a slide can introduce at most
	// one fresh overlap per neighbor and the second pass clears it.
	for pass := 0; pass < 2; pass++ {
		hit := false
		for _, ob := range obstacles {
			if !moved.Intersects(ob) {
				continue
			}
			hit = true
			moved = slideClear(moved, ob, margin)
		}
		if !hit {
			break
		}
	}
	return geom.Point{X: moved.X - candidate.X, Y: moved.Y - candidate.Y}
}

func slideClear(r, ob geom.Rect, margin float64) geom.Rect {
	overlapX := math.Min(r.X+r.Width, ob.X+ob.Width) - math.Max(r.X, ob.X)
	overlapY := math.Min(r.Y+r.Height, ob.Y+ob.Height) - math.Max(r.Y, ob.Y)
	if overlapX <= 0 || overlapY <= 0 {
		return r
	}
	rcx, rcy := r.Center()
	ocx, ocy := ob.Center()
	if overlapX <= overlapY {
		if rcx < ocx {
			r.X -= overlapX + margin
		} else {
			r.X += overlapX + margin
		}
	} else {
		if rcy < ocy {
			r.Y -= overlapY + margin
		} else {
			r.Y += overlapY + margin
		}
	}
	return r
}
