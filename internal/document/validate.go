package document

import (
	"fmt"

	"github.com/vellum/vellum/editor-go/internal/geom"
)

// Issue describes one invariant violation found in a tree. Violations
// are reported, never silently repaired; they indicate a caller bug or
// a corrupt externally supplied document, not a user-facing error.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	NodeID  string `json:"nodeId,omitempty"`
}

func (i Issue) Error() string {
	if i.NodeID != "" {
		return fmt.Sprintf("%s: %s (node: %s)", i.Code, i.Message, i.NodeID)
	}
	return fmt.Sprintf("%s: %s", i.Code, i.Message)
}

const (
	CodeMissingRoot    = "MISSING_ROOT"
	CodeRootNotFrame   = "ROOT_NOT_FRAME"
	CodeEmptyID        = "EMPTY_ID"
	CodeDuplicateID    = "DUPLICATE_ID"
	CodeNonFinite      = "NON_FINITE_GEOMETRY"
	CodeNegativeSize   = "NEGATIVE_SIZE"
	CodeNodeCycle      = "NODE_CYCLE"
	CodeChildrenOnLeaf = "CHILDREN_ON_LEAF"
	CodeEmptyGroup     = "EMPTY_GROUP"
)

// Check validates the whole tree and returns every violation found.
// An empty slice means the document satisfies all structural invariants.
func Check(d *Document) []Issue {
	var issues []Issue

	if d == nil || d.Root == nil {
		return []Issue{{Code: CodeMissingRoot, Message: "document has no root node"}}
	}
	if d.Root.Type != TypeFrame {
		issues = append(issues, Issue{
			Code:    CodeRootNotFrame,
			Message: fmt.Sprintf("root must be a frame, got %q", d.Root.Type),
			NodeID:  d.Root.ID,
		})
	}

	seen := make(map[string]struct{})
	visited := make(map[*Node]struct{})
	issues = append(issues, checkNode(d.Root, seen, visited)...)
	return issues
}

func checkNode(n *Node, seen map[string]struct{}, visited map[*Node]struct{}) []Issue {
	var issues []Issue

	// Parentage is derived by tree position, so a revisited pointer means
	// a subtree is reachable twice: either an actual cycle or aliased
	// ownership. Stop descending to keep the walk finite.
	if _, again := visited[n]; again {
		return []Issue{{
			Code:    CodeNodeCycle,
			Message: "node is reachable through more than one path",
			NodeID:  n.ID,
		}}
	}
	visited[n] = struct{}{}

	if n.ID == "" {
		issues = append(issues, Issue{Code: CodeEmptyID, Message: "node has no id"})
	} else if _, dup := seen[n.ID]; dup {
		issues = append(issues, Issue{
			Code:    CodeDuplicateID,
			Message: fmt.Sprintf("id %q appears more than once", n.ID),
			NodeID:  n.ID,
		})
	} else {
		seen[n.ID] = struct{}{}
	}

	issues = append(issues, checkGeometry(n)...)

	if len(n.Children) > 0 && !n.Type.IsContainer() {
		issues = append(issues, Issue{
			Code:    CodeChildrenOnLeaf,
			Message: fmt.Sprintf("%s node cannot own children", n.Type),
			NodeID:  n.ID,
		})
	}
	if n.Type == TypeGroup && len(n.Children) == 0 {
		issues = append(issues, Issue{
			Code:    CodeEmptyGroup,
			Message: "group has no children",
			NodeID:  n.ID,
		})
	}

	for _, ch := range n.Children {
		issues = append(issues, checkNode(ch, seen, visited)...)
	}
	return issues
}

func checkGeometry(n *Node) []Issue {
	var issues []Issue

	if n.Position != nil && !n.Position.IsFinite() {
		issues = append(issues, Issue{
			Code:    CodeNonFinite,
			Message: "position is not finite",
			NodeID:  n.ID,
		})
	}
	if n.Size != nil {
		if !n.Size.IsFinite() {
			issues = append(issues, Issue{
				Code:    CodeNonFinite,
				Message: "size is not finite",
				NodeID:  n.ID,
			})
		} else if n.Size.Width < 0 || n.Size.Height < 0 {
			issues = append(issues, Issue{
				Code:    CodeNegativeSize,
				Message: fmt.Sprintf("size %gx%g has a negative component", n.Size.Width, n.Size.Height),
				NodeID:  n.ID,
			})
		}
	}
	if n.Rotation != nil && !geom.IsFinite(*n.Rotation) {
		issues = append(issues, Issue{
			Code:    CodeNonFinite,
			Message: "rotation is not finite",
			NodeID:  n.ID,
		})
	}
	if n.TextScaleX != nil && !geom.IsFinite(*n.TextScaleX) {
		issues = append(issues, Issue{
			Code:    CodeNonFinite,
			Message: "textScaleX is not finite",
			NodeID:  n.ID,
		})
	}
	if n.TextScaleY != nil && !geom.IsFinite(*n.TextScaleY) {
		issues = append(issues, Issue{
			Code:    CodeNonFinite,
			Message: "textScaleY is not finite",
			NodeID:  n.ID,
		})
	}
	return issues
}
