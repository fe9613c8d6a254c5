package document

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum/vellum/editor-go/internal/geom"
)

func codes(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Code
	}
	return out
}

func TestCheckCleanDocument(t *testing.T) {
	assert.Empty(t, Check(buildTree()))
	assert.Empty(t, Check(NewEmpty("root")))
}

func TestCheckMissingRoot(t *testing.T) {
	issues := Check(nil)
	require.Len(t, issues, 1)
	assert.Equal(t, CodeMissingRoot, issues[0].Code)

	issues = Check(&Document{})
	require.Len(t, issues, 1)
	assert.Equal(t, CodeMissingRoot, issues[0].Code)
}

func TestCheckRootNotFrame(t *testing.T) {
	d := New(&Node{ID: "r", Type: TypeRect})
	assert.Contains(t, codes(Check(d)), CodeRootNotFrame)
}

func TestCheckDuplicateAndEmptyIDs(t *testing.T) {
	d := New(&Node{
		ID:   "root",
		Type: TypeFrame,
		Children: []*Node{
			{ID: "a", Type: TypeRect},
			{ID: "a", Type: TypeRect},
			{ID: "", Type: TypeRect},
		},
	})
	got := codes(Check(d))
	assert.Contains(t, got, CodeDuplicateID)
	assert.Contains(t, got, CodeEmptyID)
}

func TestCheckGeometry(t *testing.T) {
	d := New(&Node{
		ID:   "root",
		Type: TypeFrame,
		Children: []*Node{
			{ID: "nan", Type: TypeRect, Position: &geom.Point{X: math.NaN(), Y: 0}},
			{ID: "neg", Type: TypeRect, Size: &geom.Size{Width: -5, Height: 10}},
			{ID: "rot", Type: TypeRect, Rotation: ptr(math.Inf(1))},
		},
	})
	got := codes(Check(d))
	assert.Contains(t, got, CodeNonFinite)
	assert.Contains(t, got, CodeNegativeSize)
}

func TestCheckChildrenOnLeafAndEmptyGroup(t *testing.T) {
	d := New(&Node{
		ID:   "root",
		Type: TypeFrame,
		Children: []*Node{
			{ID: "leaf", Type: TypeRect, Children: []*Node{{ID: "x", Type: TypeRect}}},
			{ID: "g", Type: TypeGroup},
		},
	})
	got := codes(Check(d))
	assert.Contains(t, got, CodeChildrenOnLeaf)
	assert.Contains(t, got, CodeEmptyGroup)
}

func TestCheckAliasedSubtree(t *testing.T) {
	shared := &Node{ID: "shared", Type: TypeRect}
	d := New(&Node{
		ID:   "root",
		Type: TypeFrame,
		Children: []*Node{
			{ID: "g1", Type: TypeGroup, Children: []*Node{shared}},
			{ID: "g2", Type: TypeGroup, Children: []*Node{shared}},
		},
	})
	assert.Contains(t, codes(Check(d)), CodeNodeCycle)
}

func ptr[T any](v T) *T { return &v }
