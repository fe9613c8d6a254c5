package command

import (
	"fmt"

	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/typeid"
)

// DuplicateNodes deep-clones each target and inserts the clone as the
// immediate next sibling of the original. Every node in a cloned
// subtree gets a fresh id derived from its source id with a _copy
// suffix, counted up until unique.
type DuplicateNodes struct {
	id      string
	IDs     []string
	created []string
}

func NewDuplicateNodes(ids []string) *DuplicateNodes {
	return &DuplicateNodes{id: typeid.NewCommandID(), IDs: ids}
}

func (c *DuplicateNodes) ID() string { return c.id }

func (c *DuplicateNodes) Apply(ctx Context) *document.Document {
	doc := ctx.Document
	root := doc.Root
	var created []string

	for _, id := range c.IDs {
		if id == root.ID {
			continue
		}
		parent, idx := document.FindParent(root, id)
		if parent == nil {
			continue
		}
		clone := parent.Children[idx].Clone()
		assignCopyIDs(root, clone)
		root = document.InsertChild(root, parent.ID, idx+1, clone)
		created = append(created, clone.ID)
	}

	if len(created) == 0 {
		return doc
	}
	c.created = created
	return document.New(root)
}

func (c *DuplicateNodes) Invert(before, after *document.Document) Command {
	return NewDeleteNodes(c.created)
}

// CreatedIDs returns the ids of the clones produced by the last Apply,
// in insertion order.
func (c *DuplicateNodes) CreatedIDs() []string {
	return c.created
}

// assignCopyIDs rewrites the id of every node in the cloned subtree to
// the first free id in the sequence base_copy, base_copy2, base_copy3...
// Uniqueness is checked against the whole current tree plus the ids
// already handed out within the clone itself.
func assignCopyIDs(root, clone *document.Node) {
	taken := document.CollectIDs(root)
	document.Walk(clone, func(n, _ *document.Node) bool {
		id := copyID(n.ID, taken)
		taken[id] = struct{}{}
		n.ID = id
		return true
	})
}

func copyID(base string, taken map[string]struct{}) string {
	candidate := base + "_copy"
	for i := 2; ; i++ {
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
		candidate = fmt.Sprintf("%s_copy%d", base, i)
	}
}
