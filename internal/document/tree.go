package document

// Tree-walking and path-copying helpers. All mutating helpers return a
// new root and leave the input untouched; when nothing matched they
// return the input root unchanged so callers can detect no-ops with a
// pointer comparison.

// FindNode returns the node with the given id, or nil.
func FindNode(root *Node, id string) *Node {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, ch := range root.Children {
		if n := FindNode(ch, id); n != nil {
			return n
		}
	}
	return nil
}

// FindParent returns the parent of the node with the given id and the
// node's index among its siblings. The root has no parent: (nil, -1).
func FindParent(root *Node, id string) (*Node, int) {
	if root == nil {
		return nil, -1
	}
	for i, ch := range root.Children {
		if ch.ID == id {
			return root, i
		}
		if p, idx := FindParent(ch, id); p != nil {
			return p, idx
		}
	}
	return nil, -1
}

// ContainsID reports whether any node in the tree has the given id.
func ContainsID(root *Node, id string) bool {
	return FindNode(root, id) != nil
}

// PathTo returns the chain of nodes from the root down to the node with
// the given id, inclusive. Nil if the id is not in the tree.
func PathTo(root *Node, id string) []*Node {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return []*Node{root}
	}
	for _, ch := range root.Children {
		if p := PathTo(ch, id); p != nil {
			return append([]*Node{root}, p...)
		}
	}
	return nil
}

// Walk visits every node in pre-order. The callback receives the node
// and its parent (nil for the root); returning false skips the node's
// subtree.
func Walk(root *Node, fn func(n, parent *Node) bool) {
	walk(root, nil, fn)
}

func walk(n, parent *Node, fn func(n, parent *Node) bool) {
	if n == nil {
		return
	}
	if !fn(n, parent) {
		return
	}
	for _, ch := range n.Children {
		walk(ch, n, fn)
	}
}

// CollectIDs returns the set of ids present in the tree.
func CollectIDs(root *Node) map[string]struct{} {
	ids := make(map[string]struct{})
	Walk(root, func(n, _ *Node) bool {
		ids[n.ID] = struct{}{}
		return true
	})
	return ids
}

// UpdateNode rebuilds the path from root to the node with the given id,
// replacing that node with fn's result. If the id is absent, or fn
// returns the node it was given, the original root comes back unchanged.
func UpdateNode(root *Node, id string, fn func(*Node) *Node) *Node {
	if root == nil {
		return nil
	}
	if root.ID == id {
		if nn := fn(root); nn != nil {
			return nn
		}
		return root
	}
	for i, ch := range root.Children {
		nc := UpdateNode(ch, id, fn)
		if nc == ch {
			continue
		}
		children := make([]*Node, len(root.Children))
		copy(children, root.Children)
		children[i] = nc
		cp := root.Copy()
		cp.Children = children
		return cp
	}
	return root
}

// Removal records one node removed from the tree: the subtree itself,
// the id of its former parent and its index among its former siblings.
type Removal struct {
	Node     *Node
	ParentID string
	Index    int
}

// RemoveNodes removes every node whose id is in the set, wherever it
// occurs, and reports the removals in document order. Removed subtrees
// are not descended into. Returns the original root when nothing
// matched.
func RemoveNodes(root *Node, ids map[string]struct{}) (*Node, []Removal) {
	if root == nil {
		return nil, nil
	}
	var removed []Removal
	newRoot := removeInto(root, ids, &removed)
	return newRoot, removed
}

func removeInto(n *Node, ids map[string]struct{}, out *[]Removal) *Node {
	changed := false
	children := make([]*Node, 0, len(n.Children))
	for i, ch := range n.Children {
		if _, hit := ids[ch.ID]; hit {
			*out = append(*out, Removal{Node: ch, ParentID: n.ID, Index: i})
			changed = true
			continue
		}
		nc := removeInto(ch, ids, out)
		if nc != ch {
			changed = true
		}
		children = append(children, nc)
	}
	if !changed {
		return n
	}
	cp := n.Copy()
	cp.Children = children
	return cp
}

// InsertChild inserts the child at the given index of the parent's
// children (clamped to the valid range; negative appends). Returns the
// original root when the parent is missing or not a container.
func InsertChild(root *Node, parentID string, index int, child *Node) *Node {
	return UpdateNode(root, parentID, func(p *Node) *Node {
		if !p.Type.IsContainer() {
			return p
		}
		i := index
		if i < 0 || i > len(p.Children) {
			i = len(p.Children)
		}
		children := make([]*Node, 0, len(p.Children)+1)
		children = append(children, p.Children[:i]...)
		children = append(children, child)
		children = append(children, p.Children[i:]...)
		cp := p.Copy()
		cp.Children = children
		return cp
	})
}
