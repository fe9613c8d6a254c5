package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum/vellum/editor-go/internal/geom"
)

func TestMachineExclusiveGestures(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, ModeIdle, m.Mode())

	require.True(t, m.BeginDrag(&DragSession{Threshold: 3}))
	assert.Equal(t, ModeSelecting, m.Mode())

	// Every other gesture is rejected while a drag is armed.
	assert.False(t, m.BeginMarquee(&MarqueeSession{}))
	assert.False(t, m.BeginPan(&PanSession{}))
	assert.False(t, m.BeginTransform(&TransformSession{}))
	assert.False(t, m.ShowMenu(&MenuSession{}))
	assert.Equal(t, ModeSelecting, m.Mode())

	_, ok := m.EndDrag()
	require.True(t, ok)
	assert.Equal(t, ModeIdle, m.Mode())

	// Idle again, a new gesture may start.
	assert.True(t, m.BeginPan(&PanSession{}))
	assert.False(t, m.BeginDrag(&DragSession{}))
	_, ok = m.EndPan()
	require.True(t, ok)
}

func TestMachineDragPromotion(t *testing.T) {
	m := NewMachine()

	// Promotion requires an armed drag.
	assert.False(t, m.PromoteDrag())

	require.True(t, m.BeginDrag(&DragSession{}))
	require.True(t, m.PromoteDrag())
	assert.Equal(t, ModeDragging, m.Mode())

	// Already promoted.
	assert.False(t, m.PromoteDrag())

	s, ok := m.EndDrag()
	require.True(t, ok)
	assert.NotNil(t, s)
	assert.Equal(t, ModeIdle, m.Mode())
}

func TestMachineEndRequiresMatchingMode(t *testing.T) {
	m := NewMachine()

	_, ok := m.EndDrag()
	assert.False(t, ok)
	_, ok = m.EndMarquee()
	assert.False(t, ok)
	_, ok = m.EndPan()
	assert.False(t, ok)
	_, ok = m.EndTransform()
	assert.False(t, ok)
	_, ok = m.CloseMenu()
	assert.False(t, ok)

	require.True(t, m.BeginMarquee(&MarqueeSession{}))
	_, ok = m.EndDrag()
	assert.False(t, ok)
	assert.Equal(t, ModeMarquee, m.Mode())
}

func TestMachineNilSessionRejected(t *testing.T) {
	m := NewMachine()
	assert.False(t, m.BeginDrag(nil))
	assert.False(t, m.BeginMarquee(nil))
	assert.False(t, m.BeginPan(nil))
	assert.False(t, m.BeginTransform(nil))
	assert.False(t, m.ShowMenu(nil))
	assert.Equal(t, ModeIdle, m.Mode())
}

func TestMachineAbort(t *testing.T) {
	m := NewMachine()
	require.True(t, m.BeginDrag(&DragSession{}))
	require.True(t, m.PromoteDrag())

	m.Abort()
	assert.Equal(t, ModeIdle, m.Mode())
	assert.Nil(t, m.Drag())

	// Aborting while idle is harmless.
	m.Abort()
	assert.Equal(t, ModeIdle, m.Mode())
}

func TestMachineSessionAccessors(t *testing.T) {
	m := NewMachine()
	assert.Nil(t, m.Drag())
	assert.Nil(t, m.Marquee())
	assert.Nil(t, m.Pan())
	assert.Nil(t, m.Transform())
	assert.Nil(t, m.Menu())

	drag := &DragSession{StartWorld: geom.Point{X: 1, Y: 2}}
	require.True(t, m.BeginDrag(drag))
	assert.Same(t, drag, m.Drag())
	assert.Nil(t, m.Marquee())
}

func TestDragSessionDelta(t *testing.T) {
	s := &DragSession{
		StartWorld:   geom.Point{X: 10, Y: 10},
		CurrentWorld: geom.Point{X: 25, Y: 4},
	}
	assert.Equal(t, geom.Point{X: 15, Y: -6}, s.Delta())
}

func TestMarqueeScreenRectNormalizes(t *testing.T) {
	s := &MarqueeSession{
		StartScreen:   geom.Point{X: 100, Y: 40},
		CurrentScreen: geom.Point{X: 60, Y: 90},
	}
	assert.Equal(t, geom.Rect{X: 60, Y: 40, Width: 40, Height: 50}, s.ScreenRect())
}
