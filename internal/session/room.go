package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/vellum/vellum/editor-go/internal/executor"
	"github.com/vellum/vellum/editor-go/internal/interaction"
	"github.com/vellum/vellum/editor-go/internal/render"
	"github.com/vellum/vellum/editor-go/internal/viewport"

	"github.com/vellum/vellum/editor-go/internal/document"
)

const (
	tickInterval     = 250 * time.Millisecond
	autosaveInterval = 30 * time.Second
)

type envelope struct {
	client *Client
	msg    *Message
}

// Room hosts the authoritative editor for one document. All editor
// access happens on the room goroutine; clients talk to it through the
// inbox, which keeps the editor's single threaded contract intact.
type Room struct {
	documentID string
	manager    *Manager
	clients    map[string]*Client
	exec       *executor.Executor
	editor     *interaction.Editor
	renderer   *render.SceneRenderer
	inbox      chan envelope
	done       chan struct{}
	dirty      bool
	menuOpen   bool
	logger     *slog.Logger
}

func newRoom(manager *Manager, documentID string, doc *document.Document, opts interaction.Options, logger *slog.Logger) *Room {
	camera := viewport.New()
	renderer := render.NewSceneRenderer(camera, nil)
	renderer.Update(doc)
	exec := executor.New(doc)

	r := &Room{
		documentID: documentID,
		manager:    manager,
		clients:    make(map[string]*Client),
		exec:       exec,
		renderer:   renderer,
		inbox:      make(chan envelope, 64),
		done:       make(chan struct{}),
		logger:     logger.With("document", documentID),
	}
	r.editor = interaction.New(exec, renderer, camera, opts, r.logger)
	r.editor.OnChange(func(doc *document.Document, selection []string) {
		renderer.Update(doc)
		r.dirty = true
		r.broadcastSync()
	})
	return r
}

func (r *Room) Run() {
	ticker := time.NewTicker(tickInterval)
	autosave := time.NewTicker(autosaveInterval)
	defer ticker.Stop()
	defer autosave.Stop()

	for {
		select {
		case env := <-r.inbox:
			r.handle(env.client, env.msg)
			r.publishMenu()
		case now := <-ticker.C:
			r.editor.Tick(now)
			r.publishMenu()
		case <-autosave.C:
			r.saveIfDirty()
		case <-r.done:
			r.saveIfDirty()
			return
		}
	}
}

func (r *Room) handle(c *Client, msg *Message) {
	switch msg.Type {
	case TypeInputPointer:
		var raw interaction.RawPointerEvent
		if err := json.Unmarshal(msg.Payload, &raw); err != nil {
			r.sendError(c, "invalid pointer payload")
			return
		}
		r.editor.HandlePointerEvent(raw)
	case TypeInputKey:
		var raw interaction.RawKeyEvent
		if err := json.Unmarshal(msg.Payload, &raw); err != nil {
			r.sendError(c, "invalid key payload")
			return
		}
		r.editor.HandleKeyEvent(raw)
	case TypeInputAbort:
		r.editor.Abort()
	case TypeSelectionSet:
		var p SelectionSetPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			r.sendError(c, "invalid selection payload")
			return
		}
		r.editor.SetSelection(p.IDs)
		r.broadcastSync()
	case TypeMenuInvoke:
		var p MenuInvokePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			r.sendError(c, "invalid menu payload")
			return
		}
		r.editor.InvokeMenuItem(p.ItemID)
	case TypeHistoryUndo:
		r.editor.Undo()
	case TypeHistoryRedo:
		r.editor.Redo()
	default:
		r.logger.Warn("unknown message type", "type", msg.Type, "user", c.UserID)
		r.sendError(c, "unknown message type")
	}
}

// publishMenu broadcasts the menu state whenever it flips, including
// auto-hide closes that happen on the tick path.
func (r *Room) publishMenu() {
	m := r.editor.Menu()
	open := m != nil
	if open == r.menuOpen {
		return
	}
	r.menuOpen = open
	p := MenuStatePayload{Open: open}
	if m != nil {
		p.Target = m.TargetID
		p.X = m.Screen.X
		p.Y = m.Screen.Y
		p.Items = menuItemInfos(m.Items)
	}
	payload, _ := json.Marshal(p)
	r.manager.broadcast(r.documentID, &Message{Type: TypeMenuState, Payload: payload}, "")
}

func (r *Room) broadcastSync() {
	msg, err := r.syncMessage()
	if err != nil {
		r.logger.Error("build sync message", "error", err)
		return
	}
	r.manager.broadcast(r.documentID, msg, "")
}

func (r *Room) syncMessage() (*Message, error) {
	raw, err := r.editor.Document().ToJSON()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(DocSyncPayload{
		Document:  raw,
		Selection: r.editor.Selection(),
		CanUndo:   r.exec.CanUndo(),
		CanRedo:   r.exec.CanRedo(),
	})
	if err != nil {
		return nil, err
	}
	return &Message{Type: TypeDocSync, DocumentID: r.documentID, Payload: payload}, nil
}

func (r *Room) sendError(c *Client, text string) {
	payload, _ := json.Marshal(ErrorPayload{Message: text})
	c.Send(&Message{Type: TypeError, Payload: payload})
}

func (r *Room) saveIfDirty() {
	if !r.dirty || r.manager.saver == nil {
		return
	}
	if err := r.manager.saver(context.Background(), r.documentID, r.editor.Document()); err != nil {
		r.logger.Error("save document", "error", err)
		return
	}
	r.dirty = false
}
