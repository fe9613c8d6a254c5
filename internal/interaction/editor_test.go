package interaction

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/executor"
	"github.com/vellum/vellum/editor-go/internal/geom"
	"github.com/vellum/vellum/editor-go/internal/render"
	"github.com/vellum/vellum/editor-go/internal/viewport"
)

func gestureDoc() *document.Document {
	return document.New(&document.Node{
		ID:   "root",
		Type: document.TypeFrame,
		Size: &geom.Size{Width: 800, Height: 600},
		Children: []*document.Node{
			{ID: "under", Type: document.TypeRect, Position: &geom.Point{X: 10, Y: 10}, Size: &geom.Size{Width: 100, Height: 100}},
			{ID: "over", Type: document.TypeRect, Position: &geom.Point{X: 50, Y: 50}, Size: &geom.Size{Width: 100, Height: 100}},
			{
				ID:       "grp",
				Type:     document.TypeGroup,
				Position: &geom.Point{X: 300, Y: 0},
				Size:     &geom.Size{Width: 100, Height: 100},
				Children: []*document.Node{
					{ID: "child", Type: document.TypeEllipse, Position: &geom.Point{X: 20, Y: 20}, Size: &geom.Size{Width: 40, Height: 40}},
				},
			},
			{ID: "hidden", Type: document.TypeRect, Position: &geom.Point{X: 500, Y: 10}, Size: &geom.Size{Width: 50, Height: 50}, Props: map[string]any{"visible": false}},
			{ID: "frozen", Type: document.TypeRect, Position: &geom.Point{X: 600, Y: 10}, Size: &geom.Size{Width: 50, Height: 50}, Props: map[string]any{"locked": true}},
		},
	})
}

type fixture struct {
	ed     *Editor
	exec   *executor.Executor
	cam    *viewport.Camera
	scene  *render.SceneRenderer
	clock  time.Time
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	doc := gestureDoc()
	exec := executor.New(doc)
	cam := viewport.New()
	scene := render.NewSceneRenderer(cam, nil)
	scene.Update(doc)

	ed := New(exec, scene, cam, opts, nil)
	ed.OnChange(func(d *document.Document, _ []string) { scene.Update(d) })

	f := &fixture{ed: ed, exec: exec, cam: cam, scene: scene, clock: time.Unix(1000, 0)}
	ed.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) pointer(typ string, x, y float64, button int, mods ...Modifiers) bool {
	raw := RawPointerEvent{Type: typ, X: x, Y: y, Button: button}
	if len(mods) > 0 {
		raw.ShiftKey = mods[0].Shift
		raw.CtrlKey = mods[0].Ctrl
		raw.AltKey = mods[0].Alt
		raw.MetaKey = mods[0].Meta
	}
	return f.ed.HandlePointerEvent(raw)
}

func (f *fixture) click(x, y float64, mods ...Modifiers) {
	f.pointer("pointerdown", x, y, 0, mods...)
	f.pointer("pointerup", x, y, 0, mods...)
}

func pos(t *testing.T, doc *document.Document, id string) geom.Point {
	t.Helper()
	n := document.FindNode(doc.Root, id)
	require.NotNil(t, n)
	require.NotNil(t, n.Position)
	return *n.Position
}

func TestClickSelectsTopmostNode(t *testing.T) {
	f := newFixture(t, Options{})

	f.click(75, 75)
	assert.Equal(t, []string{"over"}, f.ed.Selection())
	assert.Equal(t, ModeIdle, f.ed.Mode())

	// A click is not a drag: nothing entered history.
	assert.False(t, f.exec.CanUndo())
}

func TestClickPromotesGroupMember(t *testing.T) {
	f := newFixture(t, Options{})

	// (330,30) lands on "child" inside the group.
	f.click(330, 30)
	assert.Equal(t, []string{"grp"}, f.ed.Selection())
}

func TestShiftClickToggles(t *testing.T) {
	f := newFixture(t, Options{})

	f.click(20, 20)
	assert.Equal(t, []string{"under"}, f.ed.Selection())

	f.click(140, 140, Modifiers{Shift: true})
	assert.Equal(t, []string{"under", "over"}, f.ed.Selection())

	// Shift-clicking a selected node removes it.
	f.click(20, 20, Modifiers{Shift: true})
	assert.Equal(t, []string{"over"}, f.ed.Selection())

	// Removing the last one leaves nothing armed.
	f.click(140, 140, Modifiers{Shift: true})
	assert.Empty(t, f.ed.Selection())
	assert.Equal(t, ModeIdle, f.ed.Mode())
}

func TestClickOnSelectedKeepsMultiSelection(t *testing.T) {
	f := newFixture(t, Options{})
	f.ed.SetSelection([]string{"under", "over"})

	// Plain press on an already-selected node must not collapse the
	// selection, so a multi-node drag can start from any member.
	f.pointer("pointerdown", 20, 20, 0)
	assert.Equal(t, []string{"under", "over"}, f.ed.Selection())
	f.pointer("pointerup", 20, 20, 0)
}

func TestDragBelowThresholdIsClick(t *testing.T) {
	f := newFixture(t, Options{})

	f.pointer("pointerdown", 20, 20, 0)
	f.pointer("pointermove", 22, 21, 0)
	f.pointer("pointerup", 22, 21, 0)

	assert.Equal(t, geom.Point{X: 10, Y: 10}, pos(t, f.ed.Document(), "under"))
	assert.False(t, f.exec.CanUndo())
	assert.Equal(t, []string{"under"}, f.ed.Selection())
}

func TestDragCommitsSingleTransform(t *testing.T) {
	f := newFixture(t, Options{})

	f.pointer("pointerdown", 20, 20, 0)
	f.pointer("pointermove", 40, 30, 0)
	f.pointer("pointermove", 60, 60, 0)
	f.pointer("pointerup", 60, 60, 0)

	// Delta (40,40) applied to the start position, one history entry.
	assert.Equal(t, geom.Point{X: 50, Y: 50}, pos(t, f.ed.Document(), "under"))
	assert.Equal(t, 1, f.exec.HistorySize())

	// The whole move undoes in one step.
	require.True(t, f.ed.Undo())
	assert.Equal(t, geom.Point{X: 10, Y: 10}, pos(t, f.ed.Document(), "under"))
}

func TestDragDoesNotMutateUntilRelease(t *testing.T) {
	f := newFixture(t, Options{})
	before := f.ed.Document()

	f.pointer("pointerdown", 20, 20, 0)
	f.pointer("pointermove", 80, 80, 0)
	assert.Same(t, before, f.ed.Document())
	assert.Equal(t, ModeDragging, f.ed.Mode())

	f.pointer("pointerup", 80, 80, 0)
	assert.NotSame(t, before, f.ed.Document())
}

func TestDragMovesWholeSelection(t *testing.T) {
	f := newFixture(t, Options{})
	f.ed.SetSelection([]string{"under", "over"})

	f.pointer("pointerdown", 20, 20, 0)
	f.pointer("pointermove", 30, 40, 0)
	f.pointer("pointerup", 30, 40, 0)

	doc := f.ed.Document()
	assert.Equal(t, geom.Point{X: 20, Y: 30}, pos(t, doc, "under"))
	assert.Equal(t, geom.Point{X: 60, Y: 70}, pos(t, doc, "over"))
	assert.Equal(t, 1, f.exec.HistorySize())
}

func TestDragSnapsToGrid(t *testing.T) {
	f := newFixture(t, Options{GridSize: 10})

	f.pointer("pointerdown", 20, 20, 0)
	f.pointer("pointermove", 33, 36, 0)
	f.pointer("pointerup", 33, 36, 0)

	// Candidate (23,26) rounds to the nearest grid intersection.
	assert.Equal(t, geom.Point{X: 20, Y: 30}, pos(t, f.ed.Document(), "under"))
}

func TestEscapeAbortsDrag(t *testing.T) {
	f := newFixture(t, Options{})

	f.pointer("pointerdown", 20, 20, 0)
	f.pointer("pointermove", 80, 80, 0)
	require.Equal(t, ModeDragging, f.ed.Mode())

	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "Escape"}))
	assert.Equal(t, ModeIdle, f.ed.Mode())

	// The release after an abort commits nothing.
	f.pointer("pointerup", 80, 80, 0)
	assert.Equal(t, geom.Point{X: 10, Y: 10}, pos(t, f.ed.Document(), "under"))
	assert.False(t, f.exec.CanUndo())
}

func TestMarqueeSelectsIntersectingNodes(t *testing.T) {
	f := newFixture(t, Options{})

	f.pointer("pointerdown", 0, 0, 0)
	f.pointer("pointermove", 160, 160, 0)
	f.pointer("pointerup", 160, 160, 0)

	assert.Equal(t, []string{"under", "over"}, f.ed.Selection())
	assert.Equal(t, ModeIdle, f.ed.Mode())
}

func TestMarqueePromotesAndSkipsHiddenLocked(t *testing.T) {
	f := newFixture(t, Options{})

	// Sweep over the whole group: child and group collapse to one id.
	f.pointer("pointerdown", 290, 0, 0)
	f.pointer("pointermove", 410, 110, 0)
	f.pointer("pointerup", 410, 110, 0)
	assert.Equal(t, []string{"grp"}, f.ed.Selection())

	// Sweep over the hidden and locked nodes: neither is selectable.
	f.pointer("pointerdown", 470, 0, 0)
	f.pointer("pointermove", 670, 100, 0)
	f.pointer("pointerup", 670, 100, 0)
	assert.Empty(t, f.ed.Selection())
}

func TestMarqueeToggleMergesWithBase(t *testing.T) {
	f := newFixture(t, Options{})
	f.ed.SetSelection([]string{"under"})

	shift := Modifiers{Shift: true}
	f.pointer("pointerdown", 0, 0, 0, shift)
	f.pointer("pointermove", 160, 160, 0, shift)
	f.pointer("pointerup", 160, 160, 0, shift)

	// under was in the base and got hit again: toggled out. over is new.
	assert.Equal(t, []string{"over"}, f.ed.Selection())
}

func TestTinyMarqueeLeavesSelectionAlone(t *testing.T) {
	f := newFixture(t, Options{})
	f.ed.SetSelection([]string{"under"})

	f.pointer("pointerdown", 400, 300, 0)
	f.pointer("pointermove", 403, 302, 0)
	f.pointer("pointerup", 403, 302, 0)
	assert.Equal(t, []string{"under"}, f.ed.Selection())
	assert.Equal(t, ModeIdle, f.ed.Mode())

	// Same outcome with a toggle modifier.
	shift := Modifiers{Shift: true}
	f.pointer("pointerdown", 400, 300, 0, shift)
	f.pointer("pointerup", 401, 301, 0, shift)
	assert.Equal(t, []string{"under"}, f.ed.Selection())
}

func TestDragSkipsNodesWithoutPosition(t *testing.T) {
	doc := document.New(&document.Node{
		ID:   "root",
		Type: document.TypeFrame,
		Size: &geom.Size{Width: 800, Height: 600},
		Children: []*document.Node{
			{ID: "box", Type: document.TypeRect, Position: &geom.Point{X: 10, Y: 10}, Size: &geom.Size{Width: 100, Height: 100}},
			{ID: "note", Type: document.TypeText, Props: map[string]any{"text": "hi"}},
		},
	})
	exec := executor.New(doc)
	cam := viewport.New()
	scene := render.NewSceneRenderer(cam, nil)
	scene.Update(doc)
	ed := New(exec, scene, cam, Options{}, nil)
	ed.OnChange(func(d *document.Document, _ []string) { scene.Update(d) })

	ed.SetSelection([]string{"box", "note"})
	ed.HandlePointerEvent(RawPointerEvent{Type: "pointerdown", X: 20, Y: 20, Button: 0})
	ed.HandlePointerEvent(RawPointerEvent{Type: "pointermove", X: 50, Y: 40, Button: 0})
	ed.HandlePointerEvent(RawPointerEvent{Type: "pointerup", X: 50, Y: 40, Button: 0})

	after := ed.Document()
	assert.Equal(t, geom.Point{X: 40, Y: 30}, pos(t, after, "box"))

	// The position-less member rides along in the session but the
	// commit merge leaves it untouched.
	note := document.FindNode(after.Root, "note")
	require.NotNil(t, note)
	assert.Nil(t, note.Position)
}

func TestMiddleButtonPan(t *testing.T) {
	f := newFixture(t, Options{})

	f.pointer("pointerdown", 100, 100, 1)
	assert.Equal(t, ModePanning, f.ed.Mode())

	f.pointer("pointermove", 130, 80, 1)
	assert.Equal(t, 30.0, f.cam.X)
	assert.Equal(t, -20.0, f.cam.Y)

	f.pointer("pointerup", 130, 80, 1)
	assert.Equal(t, ModeIdle, f.ed.Mode())
	assert.False(t, f.exec.CanUndo())
}

func TestWheelZoomKeepsPointerAnchored(t *testing.T) {
	f := newFixture(t, Options{})

	anchorScreen := geom.Point{X: 200, Y: 150}
	anchorWorld := f.cam.ScreenToWorld(anchorScreen)

	require.True(t, f.ed.HandlePointerEvent(RawPointerEvent{Type: "wheel", X: 200, Y: 150, DeltaY: -100}))
	assert.InDelta(t, math.Pow(1.0015, 100), f.cam.ScaleX, 1e-9)

	after := f.cam.ScreenToWorld(anchorScreen)
	assert.InDelta(t, anchorWorld.X, after.X, 1e-9)
	assert.InDelta(t, anchorWorld.Y, after.Y, 1e-9)
}

func TestGestureRejectedWhileAnotherRuns(t *testing.T) {
	f := newFixture(t, Options{})

	f.pointer("pointerdown", 100, 100, 1)
	require.Equal(t, ModePanning, f.ed.Mode())

	// A left press mid-pan is consumed but starts nothing.
	assert.True(t, f.pointer("pointerdown", 20, 20, 0))
	assert.Equal(t, ModePanning, f.ed.Mode())

	f.pointer("pointerup", 100, 100, 1)
	assert.Equal(t, ModeIdle, f.ed.Mode())
}

func TestContextMenuOpenAndDismiss(t *testing.T) {
	f := newFixture(t, Options{})

	f.pointer("pointerdown", 20, 20, 2)
	m := f.ed.Menu()
	require.NotNil(t, m)
	assert.Equal(t, "under", m.TargetID)
	assert.Equal(t, []string{"under"}, f.ed.Selection())

	// Merged items arrive alphabetized regardless of provider order.
	labels := make([]string, len(m.Items))
	for i, it := range m.Items {
		labels[i] = it.Label
	}
	assert.Equal(t, []string{"Delete", "Duplicate", "Group", "Ungroup"}, labels)

	// The next press dismisses the menu and must not start a drag.
	assert.True(t, f.pointer("pointerdown", 20, 20, 0))
	assert.Nil(t, f.ed.Menu())
	assert.Equal(t, ModeIdle, f.ed.Mode())
	f.pointer("pointerup", 20, 20, 0)
	assert.False(t, f.exec.CanUndo())
}

func TestContextMenuDisabledStates(t *testing.T) {
	f := newFixture(t, Options{})

	// Canvas right-click with nothing selected: everything disabled.
	f.pointer("pointerdown", 400, 300, 2)
	m := f.ed.Menu()
	require.NotNil(t, m)
	assert.Empty(t, m.TargetID)
	for _, it := range m.Items {
		assert.True(t, it.Disabled, it.ID)
	}

	// Disabled items refuse to run and keep the menu open.
	assert.False(t, f.ed.InvokeMenuItem("edit.delete"))
	assert.NotNil(t, f.ed.Menu())
}

func TestInvokeMenuItemRunsAction(t *testing.T) {
	f := newFixture(t, Options{})

	f.pointer("pointerdown", 20, 20, 2)
	require.NotNil(t, f.ed.Menu())

	require.True(t, f.ed.InvokeMenuItem("edit.duplicate"))
	assert.Nil(t, f.ed.Menu())
	assert.Equal(t, ModeIdle, f.ed.Mode())
	assert.NotNil(t, document.FindNode(f.ed.Document().Root, "under_copy"))
	assert.Equal(t, []string{"under_copy"}, f.ed.Selection())

	// Unknown item on a closed menu.
	assert.False(t, f.ed.InvokeMenuItem("edit.duplicate"))
}

func TestContextMenuAutoHide(t *testing.T) {
	f := newFixture(t, Options{})

	f.pointer("pointerdown", 20, 20, 2)
	require.NotNil(t, f.ed.Menu())

	// Before the deadline nothing happens.
	f.ed.Tick(f.clock.Add(4 * time.Second))
	assert.NotNil(t, f.ed.Menu())

	// Pointer activity pushes the deadline out.
	f.clock = f.clock.Add(4 * time.Second)
	f.pointer("pointermove", 21, 21, 0)
	f.ed.Tick(f.clock.Add(4 * time.Second))
	assert.NotNil(t, f.ed.Menu())

	f.ed.Tick(f.clock.Add(6 * time.Second))
	assert.Nil(t, f.ed.Menu())
	assert.Equal(t, ModeIdle, f.ed.Mode())
}

func TestKeyboardDeleteAndUndo(t *testing.T) {
	f := newFixture(t, Options{})
	f.ed.SetSelection([]string{"under"})

	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "Delete"}))
	assert.Nil(t, document.FindNode(f.ed.Document().Root, "under"))
	assert.Empty(t, f.ed.Selection())

	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "z", CtrlKey: true}))
	assert.NotNil(t, document.FindNode(f.ed.Document().Root, "under"))
	assert.Equal(t, []string{"under"}, f.ed.Selection())

	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "z", CtrlKey: true, ShiftKey: true}))
	assert.Nil(t, document.FindNode(f.ed.Document().Root, "under"))

	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "z", MetaKey: true}))
	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "y", CtrlKey: true}))
	assert.Nil(t, document.FindNode(f.ed.Document().Root, "under"))

	// Delete with nothing selected does nothing.
	f.ed.SetSelection(nil)
	assert.False(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "Backspace"}))
}

func TestKeyboardGroupShortcuts(t *testing.T) {
	f := newFixture(t, Options{})
	f.ed.SetSelection([]string{"under", "over"})

	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "g", CtrlKey: true}))
	sel := f.ed.Selection()
	require.Len(t, sel, 1)
	group := document.FindNode(f.ed.Document().Root, sel[0])
	require.NotNil(t, group)
	assert.Equal(t, document.TypeGroup, group.Type)

	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "g", CtrlKey: true, ShiftKey: true}))
	assert.Equal(t, []string{"under", "over"}, f.ed.Selection())
	assert.Nil(t, document.FindNode(f.ed.Document().Root, sel[0]))

	// Without the primary modifier the shortcut is inert.
	assert.False(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "g"}))
}

func TestKeyboardNudge(t *testing.T) {
	f := newFixture(t, Options{})
	f.ed.SetSelection([]string{"over"})

	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "ArrowRight"}))
	assert.Equal(t, geom.Point{X: 51, Y: 50}, pos(t, f.ed.Document(), "over"))

	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "ArrowDown", ShiftKey: true}))
	assert.Equal(t, geom.Point{X: 51, Y: 60}, pos(t, f.ed.Document(), "over"))

	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "ArrowUp"}))
	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "ArrowLeft"}))
	assert.Equal(t, geom.Point{X: 50, Y: 59}, pos(t, f.ed.Document(), "over"))

	// Each nudge is its own undo step.
	assert.Equal(t, 4, f.exec.HistorySize())
}

func TestCollideOnDropSlidesClear(t *testing.T) {
	f := newFixture(t, Options{CollideOnDrop: true, CollisionMargin: 2})

	// Drag "under" so it would land overlapping "over" by 10 on x.
	f.pointer("pointerdown", 20, 20, 0)
	f.pointer("pointermove", 70, 20, 0)
	f.pointer("pointerup", 70, 20, 0)

	// Candidate (60,10) overlaps over (50,50,100x100) by 90 in x and 60
	// in y; the smaller axis slides it up past the margin.
	p := pos(t, f.ed.Document(), "under")
	assert.Equal(t, geom.Point{X: 60, Y: -52}, p)
}

func TestOnChangeFiresOnCommit(t *testing.T) {
	f := newFixture(t, Options{})
	calls := 0
	f.ed.OnChange(func(d *document.Document, sel []string) {
		calls++
		f.scene.Update(d)
	})

	// Selection changes are not commits.
	f.ed.SetSelection([]string{"under"})
	assert.Equal(t, 0, calls)

	require.True(t, f.ed.HandleKeyEvent(RawKeyEvent{Key: "ArrowRight"}))
	assert.Equal(t, 1, calls)

	require.True(t, f.ed.Undo())
	assert.Equal(t, 2, calls)
}
