package interaction

import (
	"github.com/vellum/vellum/editor-go/internal/geom"
)

// EventKind discriminates canonical input events.
type EventKind int

const (
	KindPointerDown EventKind = iota
	KindPointerMove
	KindPointerUp
	KindWheel
	KindKeyDown
)

// Button identifies which pointer button an event refers to.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Modifiers carries the keyboard modifier state at event time.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// Primary reports whether the platform primary shortcut modifier is
// held. Ctrl on most platforms, Cmd on macOS; we accept either.
func (m Modifiers) Primary() bool {
	return m.Ctrl || m.Meta
}

// Event is the canonical input event the router dispatches. Raw host
// events are normalized into this form before any handler sees them.
type Event struct {
	Kind       EventKind
	Screen     geom.Point
	Button     Button
	Mods       Modifiers
	Key        string
	WheelDelta float64
}

// RawPointerEvent mirrors the wire shape of a browser pointer or wheel
// event as the session layer receives it.
type RawPointerEvent struct {
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Button   int     `json:"button"`
	DeltaY   float64 `json:"deltaY"`
	ShiftKey bool    `json:"shiftKey"`
	CtrlKey  bool    `json:"ctrlKey"`
	AltKey   bool    `json:"altKey"`
	MetaKey  bool    `json:"metaKey"`
}

// RawKeyEvent mirrors the wire shape of a browser keydown event.
type RawKeyEvent struct {
	Key      string `json:"key"`
	ShiftKey bool   `json:"shiftKey"`
	CtrlKey  bool   `json:"ctrlKey"`
	AltKey   bool   `json:"altKey"`
	MetaKey  bool   `json:"metaKey"`
}

// NormalizePointer converts a raw pointer event into canonical form.
// Events with an unknown type or non-finite coordinates are rejected
// rather than handed to gesture handlers.
func NormalizePointer(raw RawPointerEvent) (Event, bool) {
	if !geom.IsFinite(raw.X) || !geom.IsFinite(raw.Y) {
		return Event{}, false
	}
	ev := Event{
		Screen: geom.Point{X: raw.X, Y: raw.Y},
		Mods: Modifiers{
			Shift: raw.ShiftKey,
			Ctrl:  raw.CtrlKey,
			Alt:   raw.AltKey,
			Meta:  raw.MetaKey,
		},
	}
	switch raw.Type {
	case "pointerdown":
		ev.Kind = KindPointerDown
	case "pointermove":
		ev.Kind = KindPointerMove
	case "pointerup":
		ev.Kind = KindPointerUp
	case "wheel":
		if !geom.IsFinite(raw.DeltaY) {
			return Event{}, false
		}
		ev.Kind = KindWheel
		ev.WheelDelta = raw.DeltaY
	default:
		return Event{}, false
	}
	switch raw.Button {
	case 0:
		ev.Button = ButtonLeft
	case 1:
		ev.Button = ButtonMiddle
	case 2:
		ev.Button = ButtonRight
	default:
		ev.Button = ButtonNone
	}
	return ev, true
}

// NormalizeKey converts a raw keyboard event into canonical form.
func NormalizeKey(raw RawKeyEvent) (Event, bool) {
	if raw.Key == "" {
		return Event{}, false
	}
	return Event{
		Kind: KindKeyDown,
		Key:  raw.Key,
		Mods: Modifiers{
			Shift: raw.ShiftKey,
			Ctrl:  raw.CtrlKey,
			Alt:   raw.AltKey,
			Meta:  raw.MetaKey,
		},
	}, true
}
