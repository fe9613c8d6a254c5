package render

import (
	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/geom"
)

// BuildSceneGraph builds a render-ready scene graph from the document.
// All transforms and bounds are resolved in world space; the camera is
// applied separately when mapping to screen pixels.
func BuildSceneGraph(doc *document.Document) *SceneGraph {
	sg := NewSceneGraph()
	if doc == nil || doc.Root == nil {
		return sg
	}
	sg.Root = buildNode(doc.Root, nil, geom.Identity(), sg)
	sg.Dirty = false
	return sg
}

// buildNode recursively builds a SceneNode from a document node.
// Child coordinates are parent-relative, so each node's local matrix is
// its translation composed with its rotation.
func buildNode(n *document.Node, parent *SceneNode, parentWorld geom.Matrix2D, sg *SceneGraph) *SceneNode {
	if boolProp(n, "visible", true) == false {
		return nil
	}

	local := geom.Identity()
	if n.Position != nil {
		local = geom.Translate(n.Position.X, n.Position.Y)
	}
	if n.Rotation != nil && *n.Rotation != 0 {
		local = local.Multiply(geom.RotateDegrees(*n.Rotation))
	}
	world := parentWorld.Multiply(local)

	node := &SceneNode{
		ID:             n.ID,
		Type:           n.Type,
		LocalTransform: local,
		WorldTransform: world,
		Visible:        true,
		Selectable:     !boolProp(n, "locked", false),
		Parent:         parent,
		StrokeWidth:    floatProp(n, "strokeWidth"),
		ShadowBlur:     floatProp(n, "shadowBlur"),
	}

	if n.Size != nil {
		node.Bounds = world.TransformRect(geom.Rect{Width: n.Size.Width, Height: n.Size.Height})
	}

	for _, ch := range n.Children {
		if sn := buildNode(ch, node, world, sg); sn != nil {
			node.Children = append(node.Children, sn)
			node.Bounds = node.Bounds.Union(sn.Bounds)
		}
	}

	sg.NodesById[n.ID] = node
	return node
}

func boolProp(n *document.Node, key string, def bool) bool {
	if v, ok := n.Prop(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func floatProp(n *document.Node, key string) float64 {
	if v, ok := n.Prop(key); ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}
