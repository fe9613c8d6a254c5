package render

import (
	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/geom"
)

// SceneGraph is the evaluated, render-ready state of the document.
// It is retained between frames and rebuilt when the document changes.
type SceneGraph struct {
	Root      *SceneNode
	NodesById map[string]*SceneNode
	Dirty     bool
}

// SceneNode is a resolved node ready for rendering and hit testing.
// All transforms are computed; properties that affect picking are
// resolved from the document node.
type SceneNode struct {
	ID   string
	Type document.NodeType

	// Transform state
	WorldTransform geom.Matrix2D // parent * local
	LocalTransform geom.Matrix2D

	// Resolved properties
	Visible    bool
	Selectable bool

	// Hierarchy
	Parent   *SceneNode
	Children []*SceneNode

	// Visual extents
	StrokeWidth float64
	ShadowBlur  float64

	// Bounds is the axis-aligned bounding box in world space, without
	// stroke or shadow extents.
	Bounds geom.Rect
}

// NewSceneGraph creates an empty scene graph.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{
		NodesById: make(map[string]*SceneNode),
		Dirty:     true,
	}
}

// RectWith returns the node's world bounds grown by stroke and shadow
// extents unless the options skip them.
func (n *SceneNode) RectWith(opts RectOptions) geom.Rect {
	r := n.Bounds
	if !opts.SkipStroke && n.StrokeWidth > 0 {
		r = r.Inset(-n.StrokeWidth / 2)
	}
	if !opts.SkipShadow && n.ShadowBlur > 0 {
		r = r.Inset(-n.ShadowBlur)
	}
	return r
}
