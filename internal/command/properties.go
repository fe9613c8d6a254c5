package command

import (
	"reflect"
	"sort"

	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/typeid"
)

// UpdateNodeProperties shallow-merges a property bag onto one node.
// Keys that already existed have their previous values captured; keys
// that are newly added are tracked separately so the inverse deletes
// them instead of writing a zero value, leaving the node exactly as it
// was.
type UpdateNodeProperties struct {
	id     string
	NodeID string
	Props  map[string]any

	prevExisting map[string]any
	added        []string
}

func NewUpdateNodeProperties(nodeID string, props map[string]any) *UpdateNodeProperties {
	return &UpdateNodeProperties{id: typeid.NewCommandID(), NodeID: nodeID, Props: props}
}

func (c *UpdateNodeProperties) ID() string { return c.id }

func (c *UpdateNodeProperties) Apply(ctx Context) *document.Document {
	doc := ctx.Document
	if len(c.Props) == 0 {
		return doc
	}

	keys := make([]string, 0, len(c.Props))
	for k := range c.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var prevExisting map[string]any
	var added []string

	newRoot := document.UpdateNode(doc.Root, c.NodeID, func(n *document.Node) *document.Node {
		props := make(map[string]any, len(n.Props)+len(c.Props))
		for k, v := range n.Props {
			props[k] = v
		}

		changed := false
		for _, k := range keys {
			v := c.Props[k]
			old, exists := props[k]
			if exists && reflect.DeepEqual(old, v) {
				continue
			}
			if exists {
				if prevExisting == nil {
					prevExisting = make(map[string]any)
				}
				prevExisting[k] = old
			} else {
				added = append(added, k)
			}
			props[k] = v
			changed = true
		}
		if !changed {
			return n
		}
		cp := n.Copy()
		cp.Props = props
		return cp
	})
	if newRoot == doc.Root {
		return doc
	}

	c.prevExisting = prevExisting
	c.added = added
	return document.New(newRoot)
}

func (c *UpdateNodeProperties) Invert(before, after *document.Document) Command {
	return &revertNodeProperties{
		id:      typeid.NewCommandID(),
		NodeID:  c.NodeID,
		restore: c.prevExisting,
		remove:  c.added,
	}
}

// revertNodeProperties undoes a property merge: restored keys get their
// captured previous values and keys the merge introduced are deleted.
type revertNodeProperties struct {
	id      string
	NodeID  string
	restore map[string]any
	remove  []string

	overwritten map[string]any
}

func (c *revertNodeProperties) ID() string { return c.id }

func (c *revertNodeProperties) Apply(ctx Context) *document.Document {
	doc := ctx.Document
	if len(c.restore) == 0 && len(c.remove) == 0 {
		return doc
	}

	var overwritten map[string]any
	newRoot := document.UpdateNode(doc.Root, c.NodeID, func(n *document.Node) *document.Node {
		props := make(map[string]any, len(n.Props))
		for k, v := range n.Props {
			props[k] = v
		}

		changed := false
		for _, k := range c.remove {
			if v, exists := props[k]; exists {
				if overwritten == nil {
					overwritten = make(map[string]any)
				}
				overwritten[k] = v
				delete(props, k)
				changed = true
			}
		}
		restoreKeys := make([]string, 0, len(c.restore))
		for k := range c.restore {
			restoreKeys = append(restoreKeys, k)
		}
		sort.Strings(restoreKeys)
		for _, k := range restoreKeys {
			v := c.restore[k]
			if old, exists := props[k]; !exists || !reflect.DeepEqual(old, v) {
				if exists {
					if overwritten == nil {
						overwritten = make(map[string]any)
					}
					overwritten[k] = old
				}
				props[k] = v
				changed = true
			}
		}
		if !changed {
			return n
		}
		cp := n.Copy()
		if len(props) == 0 {
			// A merge that only added keys leaves a node that previously
			// had no props; deleting them must restore nil, not an empty
			// map, for exact value equality.
			cp.Props = nil
		} else {
			cp.Props = props
		}
		return cp
	})
	if newRoot == doc.Root {
		return doc
	}

	c.overwritten = overwritten
	return document.New(newRoot)
}

func (c *revertNodeProperties) Invert(before, after *document.Document) Command {
	return NewUpdateNodeProperties(c.NodeID, c.overwritten)
}
