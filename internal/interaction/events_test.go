package interaction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum/vellum/editor-go/internal/geom"
)

func TestNormalizePointer(t *testing.T) {
	ev, ok := NormalizePointer(RawPointerEvent{Type: "pointerdown", X: 10, Y: 20, Button: 2, ShiftKey: true})
	require.True(t, ok)
	assert.Equal(t, KindPointerDown, ev.Kind)
	assert.Equal(t, geom.Point{X: 10, Y: 20}, ev.Screen)
	assert.Equal(t, ButtonRight, ev.Button)
	assert.True(t, ev.Mods.Shift)

	ev, ok = NormalizePointer(RawPointerEvent{Type: "pointermove", X: 1, Y: 1})
	require.True(t, ok)
	assert.Equal(t, KindPointerMove, ev.Kind)
	assert.Equal(t, ButtonLeft, ev.Button)

	ev, ok = NormalizePointer(RawPointerEvent{Type: "wheel", X: 5, Y: 5, DeltaY: -120})
	require.True(t, ok)
	assert.Equal(t, KindWheel, ev.Kind)
	assert.Equal(t, -120.0, ev.WheelDelta)

	// Unknown button numbers map to none rather than left.
	ev, ok = NormalizePointer(RawPointerEvent{Type: "pointerup", X: 0, Y: 0, Button: 7})
	require.True(t, ok)
	assert.Equal(t, ButtonNone, ev.Button)
}

func TestNormalizePointerRejections(t *testing.T) {
	_, ok := NormalizePointer(RawPointerEvent{Type: "pointerdown", X: math.NaN(), Y: 0})
	assert.False(t, ok)

	_, ok = NormalizePointer(RawPointerEvent{Type: "pointerdown", X: 0, Y: math.Inf(1)})
	assert.False(t, ok)

	_, ok = NormalizePointer(RawPointerEvent{Type: "wheel", X: 0, Y: 0, DeltaY: math.NaN()})
	assert.False(t, ok)

	_, ok = NormalizePointer(RawPointerEvent{Type: "click", X: 0, Y: 0})
	assert.False(t, ok)
}

func TestNormalizeKey(t *testing.T) {
	ev, ok := NormalizeKey(RawKeyEvent{Key: "z", CtrlKey: true})
	require.True(t, ok)
	assert.Equal(t, KindKeyDown, ev.Kind)
	assert.Equal(t, "z", ev.Key)
	assert.True(t, ev.Mods.Primary())

	_, ok = NormalizeKey(RawKeyEvent{})
	assert.False(t, ok)
}

func TestModifiersPrimary(t *testing.T) {
	assert.True(t, Modifiers{Ctrl: true}.Primary())
	assert.True(t, Modifiers{Meta: true}.Primary())
	assert.False(t, Modifiers{Shift: true, Alt: true}.Primary())
}
