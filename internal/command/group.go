package command

import (
	"sort"

	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/geom"
	"github.com/vellum/vellum/editor-go/internal/typeid"
)

// GroupNodes replaces two or more siblings with a single new group
// inserted at the minimum original index. The group carries an explicit
// position and size: the union bounding box of its members in parent
// space. Member coordinates are re-expressed relative to the group
// origin; UngroupNode performs the opposite translation.
type GroupNodes struct {
	id  string
	IDs []string

	// GroupID names the group to create. Minted on first apply when
	// empty, then kept so a redo recreates the same id.
	GroupID string

	parentID string
	members  []memberRecord
}

type memberRecord struct {
	ID    string
	Index int
}

func NewGroupNodes(ids []string) *GroupNodes {
	return &GroupNodes{id: typeid.NewCommandID(), IDs: ids}
}

func (c *GroupNodes) ID() string { return c.id }

func (c *GroupNodes) Apply(ctx Context) *document.Document {
	doc := ctx.Document
	root := doc.Root

	// Dedupe while preserving order.
	seen := make(map[string]struct{}, len(c.IDs))
	var ids []string
	for _, id := range c.IDs {
		if _, dup := seen[id]; dup || id == root.ID {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) < 2 {
		return doc
	}

	// All targets must be direct siblings. A shared direct parent also
	// rules out ancestor/descendant pairs among the targets.
	var parent *document.Node
	members := make([]memberRecord, 0, len(ids))
	for _, id := range ids {
		p, idx := document.FindParent(root, id)
		if p == nil {
			return doc
		}
		if parent == nil {
			parent = p
		} else if parent.ID != p.ID {
			return doc
		}
		if p.Children[idx].Type == document.TypeGroup {
			// Grouping an existing group is rejected.
			return doc
		}
		members = append(members, memberRecord{ID: id, Index: idx})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Index < members[j].Index })

	if c.GroupID == "" {
		c.GroupID = typeid.NewNodeID()
	}
	if document.ContainsID(root, c.GroupID) {
		return doc
	}

	// Bounding box of the members in parent space, accumulated from
	// raw extents so zero-size members still contribute their origin.
	first := parent.Children[members[0].Index].LocalRect()
	minX, minY := first.X, first.Y
	maxX, maxY := first.X+first.Width, first.Y+first.Height
	for _, m := range members[1:] {
		r := parent.Children[m.Index].LocalRect()
		minX = min(minX, r.X)
		minY = min(minY, r.Y)
		maxX = max(maxX, r.X+r.Width)
		maxY = max(maxY, r.Y+r.Height)
	}
	bbox := geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}

	memberSet := make(map[string]struct{}, len(members))
	for _, m := range members {
		memberSet[m.ID] = struct{}{}
	}

	group := &document.Node{
		ID:       c.GroupID,
		Type:     document.TypeGroup,
		Position: &geom.Point{X: bbox.X, Y: bbox.Y},
		Size:     &geom.Size{Width: bbox.Width, Height: bbox.Height},
		Children: make([]*document.Node, 0, len(members)),
	}
	for _, m := range members {
		group.Children = append(group.Children, translated(parent.Children[m.Index], -bbox.X, -bbox.Y))
	}

	minIndex := members[0].Index
	newRoot := document.UpdateNode(root, parent.ID, func(p *document.Node) *document.Node {
		children := make([]*document.Node, 0, len(p.Children)-len(members)+1)
		for i, ch := range p.Children {
			if i == minIndex {
				children = append(children, group)
			}
			if _, member := memberSet[ch.ID]; member {
				continue
			}
			children = append(children, ch)
		}
		cp := p.Copy()
		cp.Children = children
		return cp
	})
	if newRoot == root {
		return doc
	}

	c.parentID = parent.ID
	c.members = members
	return document.New(newRoot)
}

func (c *GroupNodes) Invert(before, after *document.Document) Command {
	return &restoreGrouped{
		id:       typeid.NewCommandID(),
		GroupID:  c.GroupID,
		ParentID: c.parentID,
		members:  c.members,
	}
}

// restoreGrouped dissolves a group created by GroupNodes and puts each
// member back at its original sibling index, translating positions back
// into parent space. Unlike UngroupNode it does not splice the members
// contiguously: the recorded per-node indices restore the original
// interleaving with siblings that were never grouped.
type restoreGrouped struct {
	id       string
	GroupID  string
	ParentID string
	members  []memberRecord
}

func (c *restoreGrouped) ID() string { return c.id }

func (c *restoreGrouped) Apply(ctx Context) *document.Document {
	doc := ctx.Document
	root := doc.Root

	parent, groupIdx := document.FindParent(root, c.GroupID)
	if parent == nil || parent.ID != c.ParentID {
		return doc
	}
	group := parent.Children[groupIdx]

	var ox, oy float64
	if group.Position != nil {
		ox, oy = group.Position.X, group.Position.Y
	}
	byID := make(map[string]*document.Node, len(group.Children))
	for _, ch := range group.Children {
		byID[ch.ID] = ch
	}

	newRoot := document.UpdateNode(root, parent.ID, func(p *document.Node) *document.Node {
		children := make([]*document.Node, 0, len(p.Children)+len(c.members)-1)
		for _, ch := range p.Children {
			if ch.ID == c.GroupID {
				continue
			}
			children = append(children, ch)
		}
		for _, m := range c.members {
			node, ok := byID[m.ID]
			if !ok {
				continue
			}
			i := m.Index
			if i > len(children) {
				i = len(children)
			}
			children = append(children[:i], append([]*document.Node{translated(node, ox, oy)}, children[i:]...)...)
		}
		cp := p.Copy()
		cp.Children = children
		return cp
	})
	if newRoot == root {
		return doc
	}
	return document.New(newRoot)
}

func (c *restoreGrouped) Invert(before, after *document.Document) Command {
	ids := make([]string, len(c.members))
	for i, m := range c.members {
		ids[i] = m.ID
	}
	regroup := NewGroupNodes(ids)
	regroup.GroupID = c.GroupID
	return regroup
}
