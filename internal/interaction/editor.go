package interaction

import (
	"log/slog"
	"time"

	"github.com/vellum/vellum/editor-go/internal/command"
	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/executor"
	"github.com/vellum/vellum/editor-go/internal/geom"
	"github.com/vellum/vellum/editor-go/internal/render"
	"github.com/vellum/vellum/editor-go/internal/viewport"
)

const (
	// DefaultDragThreshold is the pointer travel, in world units, below
	// which a press-and-move still counts as a click.
	DefaultDragThreshold = 3.0
	// DefaultMarqueeMin is the marquee extent, in screen pixels, below
	// which release is treated as a plain canvas click.
	DefaultMarqueeMin = 5.0
	// DefaultMenuAutoHide is how long a context menu stays open without
	// further pointer activity.
	DefaultMenuAutoHide = 5 * time.Second
)

// Options tunes editor behavior. Zero values take the defaults above;
// GridSize and CollideOnDrop default to off.
type Options struct {
	DragThreshold   float64
	MarqueeMin      float64
	GridSize        float64
	CollideOnDrop   bool
	CollisionMargin float64
	MenuAutoHide    time.Duration
}

func (o Options) withDefaults() Options {
	if o.DragThreshold <= 0 {
		o.DragThreshold = DefaultDragThreshold
	}
	if o.MarqueeMin <= 0 {
		o.MarqueeMin = DefaultMarqueeMin
	}
	if o.MenuAutoHide <= 0 {
		o.MenuAutoHide = DefaultMenuAutoHide
	}
	return o
}

// Editor wires the command executor, gesture state machine, camera and
// renderer into a single input surface. It is single threaded: the
// owning session feeds it events and calls Tick; it never spawns
// goroutines or arms timers of its own.
type Editor struct {
	exec      *executor.Executor
	machine   *Machine
	camera    *viewport.Camera
	renderer  render.Renderer
	router    *Router
	providers []MenuProvider
	opts      Options
	logger    *slog.Logger
	now       func() time.Time
	onChange  func(doc *document.Document, selection []string)
}

func New(exec *executor.Executor, renderer render.Renderer, camera *viewport.Camera, opts Options, logger *slog.Logger, providers ...MenuProvider) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	if len(providers) == 0 {
		providers = []MenuProvider{EditMenuProvider{}, ArrangeMenuProvider{}}
	}
	ed := &Editor{
		exec:      exec,
		machine:   NewMachine(),
		camera:    camera,
		renderer:  renderer,
		providers: providers,
		opts:      opts.withDefaults(),
		logger:    logger,
		now:       time.Now,
	}
	ed.router = NewRouter(logger,
		&menuHandler{ed: ed},
		&dragHandler{ed: ed},
		&marqueeHandler{ed: ed},
		&panHandler{ed: ed},
	)
	return ed
}

// OnChange registers a callback fired after every committed document
// mutation, undo or redo. The session layer uses it to push document
// state to the client.
func (e *Editor) OnChange(fn func(doc *document.Document, selection []string)) {
	e.onChange = fn
}

func (e *Editor) Document() *document.Document { return e.exec.Document() }
func (e *Editor) Selection() []string          { return e.exec.Selection() }
func (e *Editor) Mode() Mode                   { return e.machine.Mode() }
func (e *Editor) Camera() *viewport.Camera     { return e.camera }

// Menu returns the open context menu session, or nil.
func (e *Editor) Menu() *MenuSession { return e.machine.Menu() }

// HandlePointerEvent normalizes and dispatches a raw pointer event.
// Malformed events are logged and dropped.
func (e *Editor) HandlePointerEvent(raw RawPointerEvent) bool {
	ev, ok := NormalizePointer(raw)
	if !ok {
		e.logger.Warn("dropping malformed pointer event", "type", raw.Type, "x", raw.X, "y", raw.Y)
		return false
	}
	if m := e.machine.Menu(); m != nil && ev.Kind == KindPointerMove {
		// Pointer activity over an open menu keeps it alive.
		m.Deadline = e.now().Add(e.opts.MenuAutoHide)
	}
	return e.router.Dispatch(ev)
}

// HandleKeyEvent normalizes and dispatches a raw keyboard event.
func (e *Editor) HandleKeyEvent(raw RawKeyEvent) bool {
	ev, ok := NormalizeKey(raw)
	if !ok {
		return false
	}
	return e.handleKey(ev)
}

func (e *Editor) handleKey(ev Event) bool {
	switch ev.Key {
	case "Escape":
		e.Abort()
		return true
	case "Delete", "Backspace":
		return e.DeleteSelection()
	case "d", "D":
		if ev.Mods.Primary() {
			return e.DuplicateSelection()
		}
	case "g", "G":
		if !ev.Mods.Primary() {
			break
		}
		if ev.Mods.Shift {
			return e.UngroupSelection()
		}
		return e.GroupSelection()
	case "z", "Z":
		if !ev.Mods.Primary() {
			break
		}
		if ev.Mods.Shift {
			return e.Redo()
		}
		return e.Undo()
	case "y", "Y":
		if ev.Mods.Primary() {
			return e.Redo()
		}
	case "ArrowLeft":
		return e.NudgeSelection(-e.nudgeStep(ev.Mods), 0)
	case "ArrowRight":
		return e.NudgeSelection(e.nudgeStep(ev.Mods), 0)
	case "ArrowUp":
		return e.NudgeSelection(0, -e.nudgeStep(ev.Mods))
	case "ArrowDown":
		return e.NudgeSelection(0, e.nudgeStep(ev.Mods))
	}
	return false
}

func (e *Editor) nudgeStep(mods Modifiers) float64 {
	if mods.Shift {
		return 10
	}
	return 1
}

// Tick advances time-based behavior. The only consumer today is the
// context menu auto-hide deadline.
func (e *Editor) Tick(now time.Time) {
	if m := e.machine.Menu(); m != nil && now.After(m.Deadline) {
		e.closeMenu()
	}
}

// Abort cancels any in-flight gesture without touching the document.
func (e *Editor) Abort() {
	if e.machine.Mode() == ModeIdle {
		return
	}
	e.machine.Abort()
	e.renderer.RequestRedraw()
}

// SetSelection replaces the selection after promotion and dedup.
func (e *Editor) SetSelection(ids []string) {
	e.setSelection(ids)
	e.renderer.RequestRedraw()
}

func (e *Editor) setSelection(ids []string) {
	e.exec.SetSelection(NormalizeSelection(e.Document(), ids))
}

// DeleteSelection removes the selected nodes and clears the selection.
func (e *Editor) DeleteSelection() bool {
	sel := e.Selection()
	if len(sel) == 0 {
		return false
	}
	if !e.exec.ExecuteWithSelection(command.NewDeleteNodes(sel), []string{}) {
		return false
	}
	e.notifyChange()
	return true
}

// DuplicateSelection clones the selected nodes and selects the clones.
func (e *Editor) DuplicateSelection() bool {
	sel := e.Selection()
	if len(sel) == 0 {
		return false
	}
	cmd := command.NewDuplicateNodes(sel)
	if !e.exec.Execute(cmd) {
		return false
	}
	e.exec.AmendSelection(cmd.CreatedIDs())
	e.notifyChange()
	return true
}

// GroupSelection wraps the selected sibling nodes in a new group and
// selects it.
func (e *Editor) GroupSelection() bool {
	sel := e.Selection()
	if len(sel) < 2 {
		return false
	}
	cmd := command.NewGroupNodes(sel)
	if !e.exec.Execute(cmd) {
		return false
	}
	e.exec.AmendSelection([]string{cmd.GroupID})
	e.notifyChange()
	return true
}

// UngroupSelection dissolves a single selected group, selecting its
// former members.
func (e *Editor) UngroupSelection() bool {
	sel := e.Selection()
	if len(sel) != 1 {
		return false
	}
	group := document.FindNode(e.Document().Root, sel[0])
	if group == nil || !group.Type.IsContainer() || group == e.Document().Root {
		return false
	}
	members := make([]string, 0, len(group.Children))
	for _, child := range group.Children {
		members = append(members, child.ID)
	}
	if !e.exec.ExecuteWithSelection(command.NewUngroupNode(sel[0]), members) {
		return false
	}
	e.notifyChange()
	return true
}

// NudgeSelection moves the selected nodes by a keyboard step.
func (e *Editor) NudgeSelection(dx, dy float64) bool {
	sel := e.Selection()
	if len(sel) == 0 || (dx == 0 && dy == 0) {
		return false
	}
	root := e.Document().Root
	updates := make([]command.TransformUpdate, 0, len(sel))
	for _, id := range sel {
		n := document.FindNode(root, id)
		if n == nil || n.Position == nil {
			continue
		}
		pos := geom.Point{X: n.Position.X + dx, Y: n.Position.Y + dy}
		updates = append(updates, command.TransformUpdate{ID: id, Position: &pos})
	}
	if len(updates) == 0 {
		return false
	}
	if !e.exec.Execute(command.NewTransformNodes(updates)) {
		return false
	}
	e.notifyChange()
	return true
}

// Undo reverts the most recent command.
func (e *Editor) Undo() bool {
	if !e.exec.Undo() {
		return false
	}
	e.notifyChange()
	return true
}

// Redo re-applies the most recently undone command.
func (e *Editor) Redo() bool {
	if !e.exec.Redo() {
		return false
	}
	e.notifyChange()
	return true
}

// InvokeMenuItem runs the identified item of the open context menu.
// The menu closes before the action runs so the action sees an idle
// machine.
func (e *Editor) InvokeMenuItem(itemID string) bool {
	m := e.machine.Menu()
	if m == nil {
		return false
	}
	for _, item := range m.Items {
		if item.ID != itemID {
			continue
		}
		if item.Disabled {
			return false
		}
		e.closeMenu()
		if item.Action != nil {
			item.Action(e)
		}
		return true
	}
	return false
}

func (e *Editor) openMenuAt(screen geom.Point) {
	target := ""
	if hit, ok := e.renderer.FindNodeAt(screen); ok {
		target = PromoteSelection(e.Document(), hit)
	}
	if target != "" && !containsID(e.Selection(), target) {
		e.setSelection([]string{target})
	}
	items := mergeMenuItems(e.providers, target, e.Selection())
	opened := e.machine.ShowMenu(&MenuSession{
		TargetID: target,
		Screen:   screen,
		Items:    items,
		Deadline: e.now().Add(e.opts.MenuAutoHide),
	})
	if opened {
		e.renderer.RequestRedraw()
	}
}

func (e *Editor) closeMenu() {
	if _, ok := e.machine.CloseMenu(); ok {
		e.renderer.RequestRedraw()
	}
}

// startPositions snapshots the parent-relative position of each node at
// drag start. Nodes without an explicit position are recorded at the
// origin; the commit merge skips them, so they never gain one.
func (e *Editor) startPositions(ids []string) map[string]geom.Point {
	root := e.Document().Root
	out := make(map[string]geom.Point, len(ids))
	for _, id := range ids {
		if n := document.FindNode(root, id); n != nil {
			if n.Position != nil {
				out[id] = *n.Position
			} else {
				out[id] = geom.Point{}
			}
		}
	}
	return out
}

func (e *Editor) cameraOffset() geom.Point {
	return geom.Point{X: e.camera.X, Y: e.camera.Y}
}

// commitDrag turns a finished drag into a single transform command, so
// the whole move undoes in one step.
func (e *Editor) commitDrag(s *DragSession) {
	delta := s.Delta()
	if !delta.IsFinite() {
		e.logger.Warn("dropping drag with non-finite delta")
		e.renderer.RequestRedraw()
		return
	}
	updates := make([]command.TransformUpdate, 0, len(s.NodeIDs))
	for _, id := range s.NodeIDs {
		start, ok := s.StartPositions[id]
		if !ok {
			continue
		}
		candidate := start.Add(delta)
		candidate = SnapToGrid(candidate, e.opts.GridSize)
		if e.opts.CollideOnDrop {
			candidate = candidate.Add(e.collisionAdjustment(id, candidate.Sub(start), s.NodeIDs))
		}
		if !candidate.IsFinite() {
			continue
		}
		pos := candidate
		updates = append(updates, command.TransformUpdate{ID: id, Position: &pos})
	}
	if len(updates) == 0 {
		e.renderer.RequestRedraw()
		return
	}
	if e.exec.Execute(command.NewTransformNodes(updates)) {
		e.notifyChange()
	}
	e.renderer.RequestRedraw()
}

// collisionAdjustment computes the slide needed to keep the moved node
// clear of nodes outside the drag set. Rects come from the renderer in
// screen space and are mapped back to world before resolution.
func (e *Editor) collisionAdjustment(id string, delta geom.Point, dragged []string) geom.Point {
	screenRect, ok := e.renderer.ClientRect(id, render.RectOptions{SkipStroke: true, SkipShadow: true})
	if !ok {
		return geom.Point{}
	}
	moved := e.camera.ScreenToWorldRect(screenRect).Translate(delta.X, delta.Y)
	var obstacles []geom.Rect
	document.Walk(e.Document().Root, func(n, parent *document.Node) bool {
		if parent == nil || containsID(dragged, n.ID) {
			return true
		}
		if r, ok := e.renderer.ClientRect(n.ID, render.RectOptions{SkipStroke: true, SkipShadow: true}); ok {
			obstacles = append(obstacles, e.camera.ScreenToWorldRect(r))
		}
		return true
	})
	return ResolveCollision(moved, obstacles, e.opts.CollisionMargin)
}

// commitMarquee resolves a finished rubber-band gesture. Releases below
// the minimum extent are discarded outright, leaving the selection as
// it was when the gesture began.
func (e *Editor) commitMarquee(s *MarqueeSession) {
	rect := s.ScreenRect()
	if max(rect.Width, rect.Height) <= e.opts.MarqueeMin {
		e.renderer.RequestRedraw()
		return
	}
	hits := e.nodesInScreenRect(rect)
	if s.Toggle {
		e.setSelection(toggleSelection(s.BaseSelection, hits))
	} else {
		e.setSelection(hits)
	}
	e.renderer.RequestRedraw()
}

// nodesInScreenRect collects the promoted ids of nodes whose bounds
// intersect the given screen rectangle, in document order.
func (e *Editor) nodesInScreenRect(rect geom.Rect) []string {
	doc := e.Document()
	var hits []string
	seen := make(map[string]struct{})
	document.Walk(doc.Root, func(n, parent *document.Node) bool {
		if v, ok := n.Prop("visible"); ok {
			if vis, isBool := v.(bool); isBool && !vis {
				return false
			}
		}
		if parent == nil {
			return true
		}
		if v, ok := n.Prop("locked"); ok {
			if locked, isBool := v.(bool); isBool && locked {
				return true
			}
		}
		r, ok := e.renderer.ClientRect(n.ID, render.RectOptions{})
		if !ok || !r.Intersects(rect) {
			return true
		}
		id := PromoteSelection(doc, n.ID)
		if id == "" {
			return true
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			hits = append(hits, id)
		}
		return true
	})
	return hits
}

func (e *Editor) notifyChange() {
	if e.onChange != nil {
		e.onChange(e.Document(), e.Selection())
	}
	e.renderer.RequestRedraw()
}
