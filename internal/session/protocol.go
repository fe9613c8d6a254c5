package session

import (
	"encoding/json"

	"github.com/vellum/vellum/editor-go/internal/interaction"
)

// Message is the websocket envelope. Payload shape depends on Type.
type Message struct {
	Type       string          `json:"type"`
	DocumentID string          `json:"documentId,omitempty"`
	ClientID   string          `json:"clientId,omitempty"`
	UserID     string          `json:"userId,omitempty"`
	Seq        int64           `json:"seq,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Client input, forwarded into the editor
	TypeInputPointer = "input.pointer"
	TypeInputKey     = "input.key"
	TypeInputAbort   = "input.abort"

	// Explicit editor operations
	TypeSelectionSet = "selection.set"
	TypeMenuInvoke   = "menu.invoke"
	TypeHistoryUndo  = "history.undo"
	TypeHistoryRedo  = "history.redo"

	// Server to client state
	TypeDocSync   = "doc.sync"
	TypeMenuState = "menu.state"
)

// SelectionSetPayload carries an explicit selection replacement.
type SelectionSetPayload struct {
	IDs []string `json:"ids"`
}

// MenuInvokePayload names a context menu item to run.
type MenuInvokePayload struct {
	ItemID string `json:"itemId"`
}

// DocSyncPayload is the authoritative editor state pushed after every
// committed mutation, undo or redo.
type DocSyncPayload struct {
	Document  json.RawMessage `json:"document"`
	Selection []string        `json:"selection"`
	CanUndo   bool            `json:"canUndo"`
	CanRedo   bool            `json:"canRedo"`
}

// MenuStatePayload describes the open context menu, or its absence.
type MenuStatePayload struct {
	Open   bool           `json:"open"`
	Target string         `json:"target,omitempty"`
	X      float64        `json:"x,omitempty"`
	Y      float64        `json:"y,omitempty"`
	Items  []MenuItemInfo `json:"items,omitempty"`
}

type MenuItemInfo struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// ErrorPayload carries a human readable failure description.
type ErrorPayload struct {
	Message string `json:"message"`
}

// WelcomePayload is sent once after attach.
type WelcomePayload struct {
	ClientID   string `json:"clientId"`
	DocumentID string `json:"documentId"`
}

func menuItemInfos(items []interaction.MenuItem) []MenuItemInfo {
	out := make([]MenuItemInfo, len(items))
	for i, it := range items {
		out[i] = MenuItemInfo{ID: it.ID, Label: it.Label, Disabled: it.Disabled}
	}
	return out
}
