package interaction

import "github.com/vellum/vellum/editor-go/internal/document"

// promotable reports whether a node type acts as a selection container.
// Clicking any descendant of such a node selects the container itself.
// Frames are layout surfaces, not grouping units, so they never capture
// their children's selection.
func promotable(t document.NodeType) bool {
	switch t {
	case document.TypeGroup, document.TypeStack, document.TypeGrid, document.TypeBox:
		return true
	}
	return false
}

// PromoteSelection maps a node id to its nearest promotable ancestor
// below the root. Returns the id unchanged when no such ancestor
// exists, and "" when the id is missing from the tree or is the root.
func PromoteSelection(doc *document.Document, id string) string {
	if doc == nil || doc.Root == nil {
		return ""
	}
	path := document.PathTo(doc.Root, id)
	if len(path) < 2 {
		return ""
	}
	// path[0] is the root; walk ancestors nearest-first.
	for i := len(path) - 2; i >= 1; i-- {
		if promotable(path[i].Type) {
			return path[i].ID
		}
	}
	return id
}

// NormalizeSelection promotes every id, drops ids not present in the
// document, and removes duplicates while preserving first-seen order.
func NormalizeSelection(doc *document.Document, ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		p := PromoteSelection(doc, id)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// toggleSelection merges hits into base with exclusive-or semantics:
// a hit already in base is removed, a new hit is appended.
func toggleSelection(base, hits []string) []string {
	out := make([]string, 0, len(base)+len(hits))
	drop := make(map[string]struct{})
	add := make([]string, 0, len(hits))
	inBase := make(map[string]struct{}, len(base))
	for _, id := range base {
		inBase[id] = struct{}{}
	}
	for _, id := range hits {
		if _, ok := inBase[id]; ok {
			drop[id] = struct{}{}
		} else {
			add = append(add, id)
		}
	}
	for _, id := range base {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return append(out, add...)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
