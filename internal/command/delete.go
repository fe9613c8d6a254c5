package command

import (
	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/typeid"
)

// DeleteNodes removes every matching node wherever it occurs in the
// tree. The root is never deleted. Removal records capture the former
// parent and sibling index of each node so the inverse can restore the
// original interleaving exactly.
type DeleteNodes struct {
	id      string
	IDs     []string
	removed []document.Removal
}

func NewDeleteNodes(ids []string) *DeleteNodes {
	return &DeleteNodes{id: typeid.NewCommandID(), IDs: ids}
}

func (c *DeleteNodes) ID() string { return c.id }

func (c *DeleteNodes) Apply(ctx Context) *document.Document {
	doc := ctx.Document
	targets := make(map[string]struct{}, len(c.IDs))
	for _, id := range c.IDs {
		if id == "" || id == doc.Root.ID {
			continue
		}
		targets[id] = struct{}{}
	}
	if len(targets) == 0 {
		return doc
	}

	newRoot, removed := document.RemoveNodes(doc.Root, targets)
	if len(removed) == 0 {
		return doc
	}
	c.removed = removed
	return document.New(newRoot)
}

func (c *DeleteNodes) Invert(before, after *document.Document) Command {
	return &restoreNodes{id: typeid.NewCommandID(), removals: c.removed}
}

// restoreNodes is the inverse of DeleteNodes: it reinserts each removed
// subtree at its original parent and index. Removals are recorded in
// document order with ascending sibling indices per parent, so
// reinserting them in that order restores the original interleaving
// even among siblings that were never deleted.
type restoreNodes struct {
	id       string
	removals []document.Removal
}

func (c *restoreNodes) ID() string { return c.id }

func (c *restoreNodes) Apply(ctx Context) *document.Document {
	doc := ctx.Document
	root := doc.Root
	changed := false
	for _, r := range c.removals {
		if document.ContainsID(root, r.Node.ID) {
			continue
		}
		newRoot := document.InsertChild(root, r.ParentID, r.Index, r.Node)
		if newRoot != root {
			root = newRoot
			changed = true
		}
	}
	if !changed {
		return doc
	}
	return document.New(root)
}

func (c *restoreNodes) Invert(before, after *document.Document) Command {
	ids := make([]string, len(c.removals))
	for i, r := range c.removals {
		ids[i] = r.Node.ID
	}
	return NewDeleteNodes(ids)
}
