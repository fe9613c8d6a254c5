package interaction

import (
	"math"
)

// menuHandler owns the context menu lifecycle. It sits first in the
// router chain: while a menu is open every pointer press belongs to it,
// so the press that dismisses the menu can never start another gesture.
type menuHandler struct {
	ed *Editor
}

func (h *menuHandler) Name() string { return "contextMenu" }

func (h *menuHandler) Handle(ev Event) bool {
	if ev.Kind != KindPointerDown {
		return false
	}
	if h.ed.machine.Mode() == ModeContextMenu {
		h.ed.closeMenu()
		return true
	}
	if ev.Button == ButtonRight {
		h.ed.openMenuAt(ev.Screen)
		return true
	}
	return false
}

// dragHandler handles press-on-node gestures: click selection, shift
// toggling, and threshold-gated dragging of the selection.
type dragHandler struct {
	ed *Editor
}

func (h *dragHandler) Name() string { return "drag" }

func (h *dragHandler) Handle(ev Event) bool {
	ed := h.ed
	switch ev.Kind {
	case KindPointerDown:
		if ev.Button != ButtonLeft {
			return false
		}
		hit, ok := ed.renderer.FindNodeAt(ev.Screen)
		if !ok {
			return false
		}
		target := PromoteSelection(ed.Document(), hit)
		if target == "" {
			return false
		}
		sel := ed.Selection()
		if ev.Mods.Shift {
			sel = toggleSelection(sel, []string{target})
			ed.setSelection(sel)
		} else if !containsID(sel, target) {
			sel = []string{target}
			ed.setSelection(sel)
		}
		if len(sel) == 0 {
			// Shift-click removed the last selected node; nothing to drag.
			return true
		}
		world := ed.camera.ScreenToWorld(ev.Screen)
		ed.machine.BeginDrag(&DragSession{
			NodeIDs:        sel,
			StartWorld:     world,
			CurrentWorld:   world,
			StartPositions: ed.startPositions(sel),
			Threshold:      ed.opts.DragThreshold,
		})
		return true
	case KindPointerMove:
		s := ed.machine.Drag()
		if s == nil {
			return false
		}
		s.CurrentWorld = ed.camera.ScreenToWorld(ev.Screen)
		if !s.PassedThreshold {
			d := s.Delta()
			if math.Hypot(d.X, d.Y) > s.Threshold {
				s.PassedThreshold = true
				ed.machine.PromoteDrag()
			}
		}
		if s.PassedThreshold {
			// Live drag feedback is visual only; the document is not
			// touched until release.
			ed.renderer.RequestRedraw()
		}
		return true
	case KindPointerUp:
		s, ok := ed.machine.EndDrag()
		if !ok {
			return false
		}
		if s.PassedThreshold {
			ed.commitDrag(s)
		}
		return true
	}
	return false
}

// marqueeHandler handles press-on-empty-canvas gestures: clearing the
// selection and rubber-band selection.
type marqueeHandler struct {
	ed *Editor
}

func (h *marqueeHandler) Name() string { return "marquee" }

func (h *marqueeHandler) Handle(ev Event) bool {
	ed := h.ed
	switch ev.Kind {
	case KindPointerDown:
		if ev.Button != ButtonLeft {
			return false
		}
		ed.machine.BeginMarquee(&MarqueeSession{
			StartScreen:   ev.Screen,
			CurrentScreen: ev.Screen,
			Toggle:        ev.Mods.Shift || ev.Mods.Primary(),
			BaseSelection: ed.Selection(),
		})
		return true
	case KindPointerMove:
		s := ed.machine.Marquee()
		if s == nil {
			return false
		}
		s.CurrentScreen = ev.Screen
		ed.renderer.RequestRedraw()
		return true
	case KindPointerUp:
		s, ok := ed.machine.EndMarquee()
		if !ok {
			return false
		}
		ed.commitMarquee(s)
		return true
	}
	return false
}

// panHandler handles middle-button camera panning.
type panHandler struct {
	ed *Editor
}

func (h *panHandler) Name() string { return "pan" }

func (h *panHandler) Handle(ev Event) bool {
	ed := h.ed
	switch ev.Kind {
	case KindPointerDown:
		if ev.Button != ButtonMiddle {
			return false
		}
		ed.machine.BeginPan(&PanSession{
			StartScreen: ev.Screen,
			CamStart:    ed.cameraOffset(),
		})
		return true
	case KindPointerMove:
		s := ed.machine.Pan()
		if s == nil {
			return false
		}
		ed.camera.X = s.CamStart.X + (ev.Screen.X - s.StartScreen.X)
		ed.camera.Y = s.CamStart.Y + (ev.Screen.Y - s.StartScreen.Y)
		ed.renderer.RequestRedraw()
		return true
	case KindPointerUp:
		if _, ok := ed.machine.EndPan(); !ok {
			return false
		}
		return true
	case KindWheel:
		if ev.WheelDelta == 0 {
			return false
		}
		factor := math.Pow(1.0015, -ev.WheelDelta)
		ed.camera.ZoomAt(ed.camera.ScreenToWorld(ev.Screen), factor)
		ed.renderer.RequestRedraw()
		return true
	}
	return false
}
