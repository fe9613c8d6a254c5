// Package command implements the invertible edit operations over a
// design document. Commands are pure with respect to the tree: Apply
// never mutates its input document, and a command whose preconditions
// fail returns the exact document it was given so the executor records
// nothing. Each command computes the data for its inverse while
// applying and hands it out through Invert.
package command

import (
	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/geom"
)

// Context carries the state a command may consult. Selection is passed
// for reference only; commands never mutate it.
type Context struct {
	Document  *document.Document
	Selection []string
}

// Command is a single edit operation. Apply returns the input document
// unchanged (same pointer) on a structural no-op. Invert derives the
// exact inverse of the edit that Apply just performed; it may return
// nil when no inverse is available.
type Command interface {
	ID() string
	Apply(ctx Context) *document.Document
	Invert(before, after *document.Document) Command
}

// translated returns a shallow copy of the node shifted by (dx, dy) in
// its parent's coordinate space. A node without a position is treated
// as sitting at the parent origin.
func translated(n *document.Node, dx, dy float64) *document.Node {
	if dx == 0 && dy == 0 {
		return n
	}
	cp := n.Copy()
	p := geom.Point{X: dx, Y: dy}
	if n.Position != nil {
		p.X += n.Position.X
		p.Y += n.Position.Y
	}
	cp.Position = &p
	return cp
}
