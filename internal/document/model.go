// Package document defines the design document tree: a single root frame
// owning an ordered hierarchy of nodes. Nodes are treated as immutable
// values; every edit rebuilds the path from the root to the mutation site
// and shares untouched subtrees by reference.
package document

import (
	"reflect"

	"github.com/vellum/vellum/editor-go/internal/geom"
)

type NodeType string

const (
	TypeFrame   NodeType = "frame"
	TypeGroup   NodeType = "group"
	TypeStack   NodeType = "stack"
	TypeGrid    NodeType = "grid"
	TypeBox     NodeType = "box"
	TypeRect    NodeType = "rect"
	TypeEllipse NodeType = "ellipse"
	TypeText    NodeType = "text"
	TypeImage   NodeType = "image"
	TypeLine    NodeType = "line"
	TypeCurve   NodeType = "curve"
)

// IsContainer reports whether nodes of this type own children.
func (t NodeType) IsContainer() bool {
	switch t {
	case TypeFrame, TypeGroup, TypeStack, TypeGrid, TypeBox:
		return true
	}
	return false
}

// Node is one element of the design tree. Position, size and the scale
// factors are optional; a nil field means the node does not carry it.
// Kind-specific fields (fill, stroke, text, ...) live in Props and are
// flattened into the JSON object alongside the typed fields.
//
// Child coordinates are parent-relative throughout the tree.
type Node struct {
	ID         string
	Type       NodeType
	Position   *geom.Point
	Size       *geom.Size
	Rotation   *float64
	TextScaleX *float64
	TextScaleY *float64
	Children   []*Node
	Props      map[string]any
}

// Document wraps a single root node, always a frame.
type Document struct {
	Root *Node
}

// New creates a document around an existing root node.
func New(root *Node) *Document {
	return &Document{Root: root}
}

// NewEmpty creates a document holding a single empty root frame.
func NewEmpty(rootID string) *Document {
	return &Document{
		Root: &Node{
			ID:       rootID,
			Type:     TypeFrame,
			Position: &geom.Point{X: 0, Y: 0},
			Size:     &geom.Size{Width: 1280, Height: 720},
			Children: []*Node{},
		},
	}
}

// Clone returns a deep copy of the node with new object identity for
// every node in the subtree. Field values are preserved.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{ID: n.ID, Type: n.Type}
	if n.Position != nil {
		p := *n.Position
		c.Position = &p
	}
	if n.Size != nil {
		s := *n.Size
		c.Size = &s
	}
	if n.Rotation != nil {
		r := *n.Rotation
		c.Rotation = &r
	}
	if n.TextScaleX != nil {
		v := *n.TextScaleX
		c.TextScaleX = &v
	}
	if n.TextScaleY != nil {
		v := *n.TextScaleY
		c.TextScaleY = &v
	}
	if n.Props != nil {
		c.Props = make(map[string]any, len(n.Props))
		for k, v := range n.Props {
			c.Props[k] = v
		}
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// Copy returns a shallow copy of the node: the struct is duplicated but
// the children slice and props map are shared. Callers that mutate either
// must replace them with fresh copies first.
func (n *Node) Copy() *Node {
	c := *n
	return &c
}

// LocalRect returns the node's rectangle in its parent's coordinate
// space. A node without a size contributes a zero-size rect at its
// position; a node without a position sits at the parent origin.
func (n *Node) LocalRect() geom.Rect {
	var r geom.Rect
	if n.Position != nil {
		r.X = n.Position.X
		r.Y = n.Position.Y
	}
	if n.Size != nil {
		r.Width = n.Size.Width
		r.Height = n.Size.Height
	}
	return r
}

// Prop returns a kind-specific property value.
func (n *Node) Prop(key string) (any, bool) {
	if n.Props == nil {
		return nil, false
	}
	v, ok := n.Props[key]
	return v, ok
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{Root: d.Root.Clone()}
}

// Equal reports deep value equality of two documents, independent of
// object identity.
func Equal(a, b *Document) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return reflect.DeepEqual(a.Root, b.Root)
}
