// Package interaction turns raw pointer and keyboard input into document
// commands. A single state machine owns the current gesture so that drag,
// marquee, pan, transform and context menu handling can never overlap.
package interaction

import (
	"time"

	"github.com/vellum/vellum/editor-go/internal/geom"
)

// Mode identifies the gesture the machine is currently committed to.
type Mode int

const (
	// ModeIdle means no gesture is in progress.
	ModeIdle Mode = iota
	// ModeSelecting means the pointer is down on a node but has not yet
	// travelled far enough to count as a drag.
	ModeSelecting
	// ModeDragging means selected nodes are following the pointer.
	ModeDragging
	// ModeMarquee means a rubber-band selection rectangle is being drawn.
	ModeMarquee
	// ModePanning means the camera is following the pointer.
	ModePanning
	// ModeTransforming means a resize or rotate handle is being dragged.
	ModeTransforming
	// ModeContextMenu means a context menu is open.
	ModeContextMenu
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeSelecting:
		return "selecting"
	case ModeDragging:
		return "dragging"
	case ModeMarquee:
		return "marquee"
	case ModePanning:
		return "panning"
	case ModeTransforming:
		return "transforming"
	case ModeContextMenu:
		return "contextMenu"
	default:
		return "unknown"
	}
}

// DragSession tracks a press-and-move gesture on one or more nodes.
// Positions are captured once at press time so the drag stays anchored
// even if intermediate move events are coalesced or dropped.
type DragSession struct {
	NodeIDs         []string
	StartWorld      geom.Point
	CurrentWorld    geom.Point
	StartPositions  map[string]geom.Point
	Threshold       float64
	PassedThreshold bool
}

// Delta reports how far the pointer has travelled since the press, in
// world units.
func (s *DragSession) Delta() geom.Point {
	return s.CurrentWorld.Sub(s.StartWorld)
}

// MarqueeSession tracks a rubber-band rectangle in screen space.
type MarqueeSession struct {
	StartScreen   geom.Point
	CurrentScreen geom.Point
	Toggle        bool
	BaseSelection []string
}

// ScreenRect returns the normalized marquee rectangle.
func (s *MarqueeSession) ScreenRect() geom.Rect {
	return geom.Normalized(s.StartScreen, s.CurrentScreen)
}

// PanSession tracks a camera pan anchored at the press position.
type PanSession struct {
	StartScreen geom.Point
	CamStart    geom.Point
}

// TransformSession tracks a resize or rotate handle drag.
type TransformSession struct {
	NodeIDs    []string
	Handle     string
	StartWorld geom.Point
	StartRects map[string]geom.Rect
}

// MenuSession tracks an open context menu and its auto-hide deadline.
type MenuSession struct {
	TargetID string
	Screen   geom.Point
	Items    []MenuItem
	Deadline time.Time
}

// Machine is the exclusive gesture register. Every Begin transition is
// guarded: it returns false, changing nothing, when another gesture
// already owns the machine. Callers consume the triggering event either
// way so a rejected gesture cannot leak into a different handler.
type Machine struct {
	mode      Mode
	drag      *DragSession
	marquee   *MarqueeSession
	pan       *PanSession
	transform *TransformSession
	menu      *MenuSession
}

func NewMachine() *Machine {
	return &Machine{mode: ModeIdle}
}

func (m *Machine) Mode() Mode { return m.mode }

// canBegin reports whether a new gesture may start. Selecting counts as
// startable only for its own promotion path, not for new gestures.
func (m *Machine) canBegin() bool {
	return m.mode == ModeIdle
}

// BeginDrag arms a drag. The machine enters ModeSelecting; the gesture
// only becomes a real drag once PromoteDrag is called after the pointer
// passes the movement threshold.
func (m *Machine) BeginDrag(s *DragSession) bool {
	if !m.canBegin() || s == nil {
		return false
	}
	m.mode = ModeSelecting
	m.drag = s
	return true
}

// PromoteDrag upgrades an armed selection into a live drag.
func (m *Machine) PromoteDrag() bool {
	if m.mode != ModeSelecting || m.drag == nil {
		return false
	}
	m.mode = ModeDragging
	return true
}

// Drag returns the active drag session, if any.
func (m *Machine) Drag() *DragSession {
	if m.mode != ModeSelecting && m.mode != ModeDragging {
		return nil
	}
	return m.drag
}

// EndDrag finishes the drag gesture and returns its session.
func (m *Machine) EndDrag() (*DragSession, bool) {
	if m.mode != ModeSelecting && m.mode != ModeDragging {
		return nil, false
	}
	s := m.drag
	m.drag = nil
	m.mode = ModeIdle
	return s, true
}

func (m *Machine) BeginMarquee(s *MarqueeSession) bool {
	if !m.canBegin() || s == nil {
		return false
	}
	m.mode = ModeMarquee
	m.marquee = s
	return true
}

func (m *Machine) Marquee() *MarqueeSession {
	if m.mode != ModeMarquee {
		return nil
	}
	return m.marquee
}

func (m *Machine) EndMarquee() (*MarqueeSession, bool) {
	if m.mode != ModeMarquee {
		return nil, false
	}
	s := m.marquee
	m.marquee = nil
	m.mode = ModeIdle
	return s, true
}

func (m *Machine) BeginPan(s *PanSession) bool {
	if !m.canBegin() || s == nil {
		return false
	}
	m.mode = ModePanning
	m.pan = s
	return true
}

func (m *Machine) Pan() *PanSession {
	if m.mode != ModePanning {
		return nil
	}
	return m.pan
}

func (m *Machine) EndPan() (*PanSession, bool) {
	if m.mode != ModePanning {
		return nil, false
	}
	s := m.pan
	m.pan = nil
	m.mode = ModeIdle
	return s, true
}

func (m *Machine) BeginTransform(s *TransformSession) bool {
	if !m.canBegin() || s == nil {
		return false
	}
	m.mode = ModeTransforming
	m.transform = s
	return true
}

func (m *Machine) Transform() *TransformSession {
	if m.mode != ModeTransforming {
		return nil
	}
	return m.transform
}

func (m *Machine) EndTransform() (*TransformSession, bool) {
	if m.mode != ModeTransforming {
		return nil, false
	}
	s := m.transform
	m.transform = nil
	m.mode = ModeIdle
	return s, true
}

// ShowMenu opens a context menu, taking the machine out of idle.
func (m *Machine) ShowMenu(s *MenuSession) bool {
	if !m.canBegin() || s == nil {
		return false
	}
	m.mode = ModeContextMenu
	m.menu = s
	return true
}

func (m *Machine) Menu() *MenuSession {
	if m.mode != ModeContextMenu {
		return nil
	}
	return m.menu
}

func (m *Machine) CloseMenu() (*MenuSession, bool) {
	if m.mode != ModeContextMenu {
		return nil, false
	}
	s := m.menu
	m.menu = nil
	m.mode = ModeIdle
	return s, true
}

// Abort cancels whatever gesture is in progress and returns to idle.
// No document mutation is implied; pending drags are simply dropped.
func (m *Machine) Abort() {
	m.mode = ModeIdle
	m.drag = nil
	m.marquee = nil
	m.pan = nil
	m.transform = nil
	m.menu = nil
}
