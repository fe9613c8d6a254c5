package command

import (
	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/geom"
	"github.com/vellum/vellum/editor-go/internal/typeid"
)

// TransformUpdate is one node's geometry patch. Nil fields are left
// alone; a non-nil field is merged only when the node currently carries
// that field, so a textScaleX patch cannot attach scale factors to a
// rect.
type TransformUpdate struct {
	ID         string
	Position   *geom.Point
	Size       *geom.Size
	Rotation   *float64
	TextScaleX *float64
	TextScaleY *float64
}

// TransformNodes shallow-merges geometry fields onto a set of nodes.
// Previous values are captured per node and only for fields actually
// touched, yielding a minimal inverse. Non-finite patch values are
// dropped rather than written into the tree.
type TransformNodes struct {
	id      string
	Updates []TransformUpdate
	prev    []TransformUpdate
}

func NewTransformNodes(updates []TransformUpdate) *TransformNodes {
	return &TransformNodes{id: typeid.NewCommandID(), Updates: updates}
}

func (c *TransformNodes) ID() string { return c.id }

func (c *TransformNodes) Apply(ctx Context) *document.Document {
	doc := ctx.Document
	root := doc.Root
	var prev []TransformUpdate

	for _, u := range c.Updates {
		newRoot := document.UpdateNode(root, u.ID, func(n *document.Node) *document.Node {
			merged := n
			p := TransformUpdate{ID: u.ID}
			touch := func() *document.Node {
				if merged == n {
					merged = n.Copy()
				}
				return merged
			}

			if u.Position != nil && n.Position != nil && u.Position.IsFinite() && *u.Position != *n.Position {
				old := *n.Position
				p.Position = &old
				v := *u.Position
				touch().Position = &v
			}
			if u.Size != nil && n.Size != nil && u.Size.IsFinite() && *u.Size != *n.Size {
				old := *n.Size
				p.Size = &old
				v := *u.Size
				touch().Size = &v
			}
			if u.Rotation != nil && n.Rotation != nil && geom.IsFinite(*u.Rotation) && *u.Rotation != *n.Rotation {
				old := *n.Rotation
				p.Rotation = &old
				v := *u.Rotation
				touch().Rotation = &v
			}
			if u.TextScaleX != nil && n.TextScaleX != nil && geom.IsFinite(*u.TextScaleX) && *u.TextScaleX != *n.TextScaleX {
				old := *n.TextScaleX
				p.TextScaleX = &old
				v := *u.TextScaleX
				touch().TextScaleX = &v
			}
			if u.TextScaleY != nil && n.TextScaleY != nil && geom.IsFinite(*u.TextScaleY) && *u.TextScaleY != *n.TextScaleY {
				old := *n.TextScaleY
				p.TextScaleY = &old
				v := *u.TextScaleY
				touch().TextScaleY = &v
			}

			if merged == n {
				return n
			}
			prev = append(prev, p)
			return merged
		})
		root = newRoot
	}

	if root == doc.Root {
		return doc
	}
	c.prev = prev
	return document.New(root)
}

func (c *TransformNodes) Invert(before, after *document.Document) Command {
	return &TransformNodes{id: typeid.NewCommandID(), Updates: c.prev}
}
