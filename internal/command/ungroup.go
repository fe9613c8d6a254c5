package command

import (
	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/typeid"
)

// UngroupNode replaces a container with its own children, spliced into
// the parent at the container's former position. Child positions are
// translated back into parent space by the group's own position.
type UngroupNode struct {
	id      string
	GroupID string

	parentID string
	childIDs []string
	shell    *document.Node
}

func NewUngroupNode(groupID string) *UngroupNode {
	return &UngroupNode{id: typeid.NewCommandID(), GroupID: groupID}
}

func (c *UngroupNode) ID() string { return c.id }

func (c *UngroupNode) Apply(ctx Context) *document.Document {
	doc := ctx.Document
	root := doc.Root

	parent, idx := document.FindParent(root, c.GroupID)
	if parent == nil {
		return doc
	}
	group := parent.Children[idx]
	if !group.Type.IsContainer() || len(group.Children) == 0 {
		return doc
	}

	var ox, oy float64
	if group.Position != nil {
		ox, oy = group.Position.X, group.Position.Y
	}

	childIDs := make([]string, len(group.Children))
	spliced := make([]*document.Node, len(group.Children))
	for i, ch := range group.Children {
		childIDs[i] = ch.ID
		spliced[i] = translated(ch, ox, oy)
	}

	newRoot := document.UpdateNode(root, parent.ID, func(p *document.Node) *document.Node {
		children := make([]*document.Node, 0, len(p.Children)+len(spliced)-1)
		children = append(children, p.Children[:idx]...)
		children = append(children, spliced...)
		children = append(children, p.Children[idx+1:]...)
		cp := p.Copy()
		cp.Children = children
		return cp
	})
	if newRoot == root {
		return doc
	}

	c.parentID = parent.ID
	c.childIDs = childIDs
	shell := group.Copy()
	shell.Children = nil
	c.shell = shell
	return document.New(newRoot)
}

func (c *UngroupNode) Invert(before, after *document.Document) Command {
	return &rewrapGroup{
		id:       typeid.NewCommandID(),
		ParentID: c.parentID,
		shell:    c.shell,
		childIDs: c.childIDs,
	}
}

// rewrapGroup re-wraps a contiguous run of siblings back into the group
// they were spliced out of. The run is located by matching the child id
// sequence positionally rather than as a set, which tolerates later
// edits to the children themselves.
type rewrapGroup struct {
	id       string
	ParentID string
	shell    *document.Node
	childIDs []string
}

func (c *rewrapGroup) ID() string { return c.id }

func (c *rewrapGroup) Apply(ctx Context) *document.Document {
	doc := ctx.Document
	root := doc.Root

	if len(c.childIDs) == 0 || c.shell == nil {
		return doc
	}
	if document.ContainsID(root, c.shell.ID) {
		return doc
	}
	parent := document.FindNode(root, c.ParentID)
	if parent == nil || !parent.Type.IsContainer() {
		return doc
	}

	start := matchRun(parent.Children, c.childIDs)
	if start < 0 {
		return doc
	}

	var ox, oy float64
	if c.shell.Position != nil {
		ox, oy = c.shell.Position.X, c.shell.Position.Y
	}

	group := c.shell.Copy()
	group.Children = make([]*document.Node, len(c.childIDs))
	for i := range c.childIDs {
		group.Children[i] = translated(parent.Children[start+i], -ox, -oy)
	}

	newRoot := document.UpdateNode(root, parent.ID, func(p *document.Node) *document.Node {
		children := make([]*document.Node, 0, len(p.Children)-len(c.childIDs)+1)
		children = append(children, p.Children[:start]...)
		children = append(children, group)
		children = append(children, p.Children[start+len(c.childIDs):]...)
		cp := p.Copy()
		cp.Children = children
		return cp
	})
	if newRoot == root {
		return doc
	}
	return document.New(newRoot)
}

func (c *rewrapGroup) Invert(before, after *document.Document) Command {
	return NewUngroupNode(c.shell.ID)
}

// matchRun returns the first index at which the children's ids match
// the wanted sequence positionally, or -1.
func matchRun(children []*document.Node, want []string) int {
	if len(want) == 0 || len(children) < len(want) {
		return -1
	}
	for start := 0; start+len(want) <= len(children); start++ {
		match := true
		for i, id := range want {
			if children[start+i].ID != id {
				match = false
				break
			}
		}
		if match {
			return start
		}
	}
	return -1
}
