package render

import (
	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/geom"
	"github.com/vellum/vellum/editor-go/internal/viewport"
)

// SceneRenderer is the reference Renderer: it keeps a retained scene
// graph in sync with the document and answers hit-test and bounds
// queries against it. Redraw requests are forwarded to an optional
// callback (the paint loop), fire-and-forget.
type SceneRenderer struct {
	camera *viewport.Camera
	sg     *SceneGraph
	onDraw func()

	redraws int
}

// NewSceneRenderer creates a renderer over the given camera. onDraw may
// be nil.
func NewSceneRenderer(camera *viewport.Camera, onDraw func()) *SceneRenderer {
	return &SceneRenderer{
		camera: camera,
		sg:     NewSceneGraph(),
		onDraw: onDraw,
	}
}

// Update rebuilds the scene graph from the document. Called after every
// committed mutation and on document replace.
func (r *SceneRenderer) Update(doc *document.Document) {
	r.sg = BuildSceneGraph(doc)
}

// Scene exposes the current scene graph, mainly for tests and the wasm
// host's draw pass.
func (r *SceneRenderer) Scene() *SceneGraph { return r.sg }

// FindNodeAt returns the topmost selectable node under a screen point.
func (r *SceneRenderer) FindNodeAt(screen geom.Point) (string, bool) {
	if r.sg == nil || r.sg.Root == nil {
		return "", false
	}
	world := r.camera.ScreenToWorld(screen)
	id := hitTestNode(r.sg.Root, world.X, world.Y)
	return id, id != ""
}

// hitTestNode tests children first in reverse order: later siblings
// paint on top in painter's order.
func hitTestNode(node *SceneNode, x, y float64) string {
	if node == nil || !node.Visible {
		return ""
	}
	for i := len(node.Children) - 1; i >= 0; i-- {
		if hit := hitTestNode(node.Children[i], x, y); hit != "" {
			return hit
		}
	}
	// The root frame is the canvas itself, never a pick target.
	if node.Parent == nil {
		return ""
	}
	if node.Selectable && !node.Bounds.IsEmpty() && node.Bounds.Contains(x, y) {
		return node.ID
	}
	return ""
}

// ClientRect returns a node's screen-space bounding rect under the
// current camera. Stroke and shadow extents are part of the painted
// footprint, so they are grown in world units before projection.
func (r *SceneRenderer) ClientRect(id string, opts RectOptions) (geom.Rect, bool) {
	if r.sg == nil {
		return geom.Rect{}, false
	}
	node, ok := r.sg.NodesById[id]
	if !ok {
		return geom.Rect{}, false
	}
	return r.camera.WorldToScreenRect(node.RectWith(opts)), true
}

// SelectionBounds returns the combined world bounding box of the given
// node ids.
func (r *SceneRenderer) SelectionBounds(ids []string) geom.Rect {
	var result geom.Rect
	if r.sg == nil {
		return result
	}
	first := true
	for _, id := range ids {
		node, ok := r.sg.NodesById[id]
		if !ok || node.Bounds.IsEmpty() {
			continue
		}
		if first {
			result = node.Bounds
			first = false
		} else {
			result = result.Union(node.Bounds)
		}
	}
	return result
}

// VisibleNodes returns every visible, selectable node below the root in
// painter's order. Marquee selection intersects against these.
func (r *SceneRenderer) VisibleNodes() []*SceneNode {
	var out []*SceneNode
	if r.sg == nil || r.sg.Root == nil {
		return out
	}
	var visit func(n *SceneNode)
	visit = func(n *SceneNode) {
		for _, ch := range n.Children {
			if ch.Visible && ch.Selectable {
				out = append(out, ch)
			}
			visit(ch)
		}
	}
	visit(r.sg.Root)
	return out
}

// RequestRedraw schedules a repaint.
func (r *SceneRenderer) RequestRedraw() {
	r.redraws++
	if r.onDraw != nil {
		r.onDraw()
	}
}

// RedrawCount reports how many redraws were requested. Test hook.
func (r *SceneRenderer) RedrawCount() int { return r.redraws }
