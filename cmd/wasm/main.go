//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"syscall/js"
	"time"

	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/executor"
	"github.com/vellum/vellum/editor-go/internal/geom"
	"github.com/vellum/vellum/editor-go/internal/interaction"
	"github.com/vellum/vellum/editor-go/internal/render"
	"github.com/vellum/vellum/editor-go/internal/typeid"
	"github.com/vellum/vellum/editor-go/internal/viewport"
)

// The wasm build runs the whole editor in the browser: the JS shell
// feeds raw events in and reads document state back out.
var (
	exec     *executor.Executor
	camera   *viewport.Camera
	renderer *render.SceneRenderer
	editor   *interaction.Editor
)

func main() {
	camera = viewport.New()
	renderer = render.NewSceneRenderer(camera, requestDraw)
	resetEditor(document.NewEmpty(typeid.NewNodeID()))

	api := js.Global().Get("Object").New()

	// Commands (frontend to backend)
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	api.Set("pointerEvent", js.FuncOf(pointerEvent))
	api.Set("keyEvent", js.FuncOf(keyEvent))
	api.Set("abort", js.FuncOf(abort))
	api.Set("tick", js.FuncOf(tick))
	api.Set("undo", js.FuncOf(undo))
	api.Set("redo", js.FuncOf(redo))
	api.Set("setSelection", js.FuncOf(setSelection))
	api.Set("invokeMenuItem", js.FuncOf(invokeMenuItem))
	api.Set("zoomAt", js.FuncOf(zoomAt))
	api.Set("fitBounds", js.FuncOf(fitBounds))

	// Queries (frontend from backend)
	api.Set("getDocument", js.FuncOf(getDocument))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getMode", js.FuncOf(getMode))
	api.Set("getMenu", js.FuncOf(getMenu))
	api.Set("getCamera", js.FuncOf(getCamera))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	api.Set("canUndo", js.FuncOf(canUndo))
	api.Set("canRedo", js.FuncOf(canRedo))

	js.Global().Set("vellumEditor", api)
	js.Global().Set("vellumWasmReady", js.ValueOf(true))

	// Keep the Go runtime alive.
	select {}
}

func resetEditor(doc *document.Document) {
	exec = executor.New(doc)
	renderer.Update(doc)
	editor = interaction.New(exec, renderer, camera, interaction.Options{}, slog.Default())
	editor.OnChange(func(doc *document.Document, selection []string) {
		renderer.Update(doc)
	})
}

func requestDraw() {
	cb := js.Global().Get("vellumOnRedraw")
	if cb.Type() == js.TypeFunction {
		cb.Invoke()
	}
}

func errResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing document JSON")
	}
	doc, err := document.FromJSON([]byte(args[0].String()))
	if err != nil {
		return errResult(err.Error())
	}
	if issues := document.Check(doc); len(issues) > 0 {
		return errResult(issues[0].Error())
	}
	resetEditor(doc)
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	rootID := "frame-root"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		rootID = args[0].String()
	}
	resetEditor(document.NewSampleDocument(rootID))
	return okResult()
}

func pointerEvent(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	var raw interaction.RawPointerEvent
	if err := json.Unmarshal([]byte(args[0].String()), &raw); err != nil {
		return js.ValueOf(false)
	}
	return js.ValueOf(editor.HandlePointerEvent(raw))
}

func keyEvent(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	var raw interaction.RawKeyEvent
	if err := json.Unmarshal([]byte(args[0].String()), &raw); err != nil {
		return js.ValueOf(false)
	}
	return js.ValueOf(editor.HandleKeyEvent(raw))
}

func abort(this js.Value, args []js.Value) interface{} {
	editor.Abort()
	return nil
}

func tick(this js.Value, args []js.Value) interface{} {
	editor.Tick(time.Now())
	return nil
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.Redo())
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	arr := args[0]
	ids := make([]string, 0, arr.Length())
	for i := 0; i < arr.Length(); i++ {
		ids = append(ids, arr.Index(i).String())
	}
	editor.SetSelection(ids)
	return nil
}

func invokeMenuItem(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(editor.InvokeMenuItem(args[0].String()))
}

func zoomAt(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	world := camera.ScreenToWorld(geom.Point{X: args[0].Float(), Y: args[1].Float()})
	camera.ZoomAt(world, args[2].Float())
	renderer.RequestRedraw()
	return nil
}

func fitBounds(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	bounds := renderer.Scene().Root.Bounds
	camera.FitBounds(bounds, 40, args[0].Float(), args[1].Float())
	renderer.RequestRedraw()
	return nil
}

// --- Query handlers ---

func getDocument(this js.Value, args []js.Value) interface{} {
	raw, err := editor.Document().ToJSON()
	if err != nil {
		return errResult(err.Error())
	}
	return js.ValueOf(string(raw))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	sel := editor.Selection()
	out := make([]interface{}, len(sel))
	for i, id := range sel {
		out[i] = id
	}
	return js.ValueOf(out)
}

func getMode(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.Mode().String())
}

func getMenu(this js.Value, args []js.Value) interface{} {
	m := editor.Menu()
	if m == nil {
		return js.ValueOf(map[string]interface{}{"open": false})
	}
	items := make([]interface{}, len(m.Items))
	for i, it := range m.Items {
		items[i] = map[string]interface{}{
			"id":       it.ID,
			"label":    it.Label,
			"disabled": it.Disabled,
		}
	}
	return js.ValueOf(map[string]interface{}{
		"open":   true,
		"target": m.TargetID,
		"x":      m.Screen.X,
		"y":      m.Screen.Y,
		"items":  items,
	})
}

func getCamera(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(map[string]interface{}{
		"scaleX": camera.ScaleX,
		"scaleY": camera.ScaleY,
		"x":      camera.X,
		"y":      camera.Y,
	})
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	id, ok := renderer.FindNodeAt(geom.Point{X: args[0].Float(), Y: args[1].Float()})
	if !ok {
		return js.ValueOf("")
	}
	return js.ValueOf(id)
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	r := renderer.SelectionBounds(editor.Selection())
	return js.ValueOf(map[string]interface{}{
		"x":      r.X,
		"y":      r.Y,
		"width":  r.Width,
		"height": r.Height,
	})
}

func canUndo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(exec.CanUndo())
}

func canRedo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(exec.CanRedo())
}
