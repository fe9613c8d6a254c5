package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/geom"
)

func promotionDoc() *document.Document {
	return document.New(&document.Node{
		ID:   "root",
		Type: document.TypeFrame,
		Size: &geom.Size{Width: 800, Height: 600},
		Children: []*document.Node{
			{ID: "plain", Type: document.TypeRect},
			{
				ID:   "grp",
				Type: document.TypeGroup,
				Children: []*document.Node{
					{ID: "grpChild", Type: document.TypeRect},
					{
						ID:   "innerBox",
						Type: document.TypeBox,
						Children: []*document.Node{
							{ID: "deep", Type: document.TypeRect},
						},
					},
				},
			},
			{
				ID:   "subframe",
				Type: document.TypeFrame,
				Children: []*document.Node{
					{ID: "framed", Type: document.TypeRect},
				},
			},
		},
	})
}

func TestPromoteSelection(t *testing.T) {
	doc := promotionDoc()

	// Direct children of the root stay themselves.
	assert.Equal(t, "plain", PromoteSelection(doc, "plain"))
	assert.Equal(t, "grp", PromoteSelection(doc, "grp"))

	// Members of a container promote to it.
	assert.Equal(t, "grp", PromoteSelection(doc, "grpChild"))

	// The nearest container wins, not the outermost.
	assert.Equal(t, "innerBox", PromoteSelection(doc, "deep"))

	// Frames never capture their children.
	assert.Equal(t, "framed", PromoteSelection(doc, "framed"))

	// Root and unknown ids resolve to nothing.
	assert.Equal(t, "", PromoteSelection(doc, "root"))
	assert.Equal(t, "", PromoteSelection(doc, "ghost"))
	assert.Equal(t, "", PromoteSelection(nil, "plain"))
}

func TestNormalizeSelection(t *testing.T) {
	doc := promotionDoc()

	// Two members of the same group collapse into one entry.
	got := NormalizeSelection(doc, []string{"grpChild", "deep", "plain", "ghost", "plain"})
	assert.Equal(t, []string{"grp", "plain"}, got)

	assert.Empty(t, NormalizeSelection(doc, []string{"root", "ghost"}))
	assert.Empty(t, NormalizeSelection(doc, nil))
}

func TestToggleSelection(t *testing.T) {
	base := []string{"a", "b", "c"}

	// Hits already present are removed, new hits appended.
	assert.Equal(t, []string{"a", "c", "d"}, toggleSelection(base, []string{"b", "d"}))
	assert.Equal(t, []string{"a", "b", "c"}, toggleSelection(base, nil))
	assert.Equal(t, []string{"x"}, toggleSelection(nil, []string{"x"}))
	assert.Empty(t, toggleSelection([]string{"a"}, []string{"a"}))
}
