package command

import (
	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/typeid"
)

// InsertNode appends a node as the last child of a container.
type InsertNode struct {
	id       string
	ParentID string
	Node     *document.Node
}

// NewInsertNode creates an insert command. The node is cloned on apply,
// so the caller keeps ownership of the value it passes in.
func NewInsertNode(parentID string, node *document.Node) *InsertNode {
	return &InsertNode{id: typeid.NewCommandID(), ParentID: parentID, Node: node}
}

func (c *InsertNode) ID() string { return c.id }

func (c *InsertNode) Apply(ctx Context) *document.Document {
	doc := ctx.Document
	if c.Node == nil || c.Node.ID == "" {
		return doc
	}
	if document.ContainsID(doc.Root, c.Node.ID) {
		return doc
	}
	parent := document.FindNode(doc.Root, c.ParentID)
	if parent == nil || !parent.Type.IsContainer() {
		return doc
	}
	newRoot := document.InsertChild(doc.Root, c.ParentID, -1, c.Node.Clone())
	if newRoot == doc.Root {
		return doc
	}
	return document.New(newRoot)
}

func (c *InsertNode) Invert(before, after *document.Document) Command {
	return NewDeleteNodes([]string{c.Node.ID})
}
