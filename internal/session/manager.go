// Package session connects websocket clients to live editor instances.
// One room per document; the room goroutine owns the editor, the
// manager owns room and client lifecycles.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/vellum/vellum/editor-go/internal/document"
	"github.com/vellum/vellum/editor-go/internal/interaction"
)

// DocLoader fetches the latest persisted document tree.
type DocLoader func(ctx context.Context, documentID string) (*document.Document, error)

// DocSaver persists the document tree as a new snapshot.
type DocSaver func(ctx context.Context, documentID string, doc *document.Document) error

type Manager struct {
	mu         sync.RWMutex
	rooms      map[string]*Room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	stopped    chan struct{}
	loader     DocLoader
	saver      DocSaver
	opts       interaction.Options
	logger     *slog.Logger
}

func NewManager(loader DocLoader, saver DocSaver, opts interaction.Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
		loader:     loader,
		saver:      saver,
		opts:       opts,
		logger:     logger,
	}
}

func (m *Manager) Run() {
	defer close(m.stopped)
	for {
		select {
		case client := <-m.register:
			m.addClient(client)
		case client := <-m.unregister:
			m.removeClient(client)
		case <-m.stop:
			m.closeAllRooms()
			return
		}
	}
}

func (m *Manager) Register(client *Client) {
	m.register <- client
}

// Stop shuts down all rooms, saving dirty documents on the way out.
func (m *Manager) Stop() {
	close(m.stop)
	<-m.stopped
}

func (m *Manager) addClient(client *Client) {
	m.mu.Lock()
	room, ok := m.rooms[client.DocumentID]
	m.mu.Unlock()

	if !ok {
		doc, err := m.loader(context.Background(), client.DocumentID)
		if err != nil {
			m.logger.Error("load document", "document", client.DocumentID, "error", err)
			m.rejectClient(client, "document unavailable")
			return
		}
		if issues := document.Check(doc); len(issues) > 0 {
			m.logger.Error("refusing to open invalid document",
				"document", client.DocumentID, "issues", len(issues), "first", issues[0].Error())
			m.rejectClient(client, "document failed validation")
			return
		}
		room = newRoom(m, client.DocumentID, doc, m.opts, m.logger)
		m.mu.Lock()
		m.rooms[client.DocumentID] = room
		m.mu.Unlock()
		go room.Run()
	}

	m.mu.Lock()
	room.clients[client.ClientID] = client
	m.mu.Unlock()

	welcome, _ := json.Marshal(WelcomePayload{ClientID: client.ClientID, DocumentID: client.DocumentID})
	client.Send(&Message{Type: TypeWelcome, Payload: welcome})
	if state, err := room.syncMessage(); err == nil {
		client.Send(state)
	}

	m.logger.Info("client joined", "user", client.UserID, "document", client.DocumentID)
}

func (m *Manager) rejectClient(client *Client, reason string) {
	payload, _ := json.Marshal(ErrorPayload{Message: reason})
	client.Send(&Message{Type: TypeError, Payload: payload})
	client.closeSend()
}

func (m *Manager) removeClient(client *Client) {
	m.mu.Lock()
	room, ok := m.rooms[client.DocumentID]
	if !ok {
		m.mu.Unlock()
		return
	}
	if _, attached := room.clients[client.ClientID]; !attached {
		m.mu.Unlock()
		return
	}
	delete(room.clients, client.ClientID)
	client.closeSend()
	empty := len(room.clients) == 0
	if empty {
		delete(m.rooms, client.DocumentID)
	}
	m.mu.Unlock()

	if empty {
		close(room.done)
	}

	m.logger.Info("client left", "user", client.UserID, "document", client.DocumentID)
}

func (m *Manager) handleMessage(sender *Client, msg *Message) {
	m.mu.RLock()
	room, ok := m.rooms[sender.DocumentID]
	m.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case room.inbox <- envelope{client: sender, msg: msg}:
	default:
		m.logger.Warn("room inbox full, dropping message",
			"document", sender.DocumentID, "type", msg.Type)
	}
}

func (m *Manager) broadcast(documentID string, msg *Message, excludeClientID string) {
	m.mu.RLock()
	room, ok := m.rooms[documentID]
	if !ok {
		m.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func (m *Manager) closeAllRooms() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for id, room := range m.rooms {
		rooms = append(rooms, room)
		for _, c := range room.clients {
			c.closeSend()
		}
		delete(m.rooms, id)
	}
	m.mu.Unlock()

	for _, room := range rooms {
		close(room.done)
	}
}
