// Package session keeps live board scenes for connected clients and
// writes them back to the store in the background.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/whiteboard/internal/shape"
	"github.com/inamate/whiteboard/internal/store"
)

const DefaultFlushInterval = 2 * time.Second

const storeTimeout = 5 * time.Second

type Room struct {
	boardID string
	clients map[string]*Client // clientID -> client
	scene   []byte
	version int64
	dirty   bool
}

// Hub owns one Room per open board. Saves land in memory and are flushed
// to the store on every tick, when a board's last client leaves, and on
// Stop.
type Hub struct {
	mu            sync.RWMutex
	rooms         map[string]*Room // boardID -> room
	store         store.Store
	flushInterval time.Duration

	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(st store.Store, flushInterval time.Duration) *Hub {
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}
	return &Hub{
		rooms:         make(map[string]*Room),
		store:         st,
		flushInterval: flushInterval,
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(h.flushInterval)
	defer func() {
		ticker.Stop()
		close(h.done)
	}()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.flushAll()
		case <-h.stop:
			h.flushAll()
			return
		}
	}
}

// Stop flushes every dirty board and ends Run. It blocks until Run has
// returned.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.RLock()
	_, open := h.rooms[client.BoardID]
	h.mu.RUnlock()

	// Store reads happen outside the lock so other rooms stay responsive.
	var scene []byte
	if !open {
		scene = h.load(client.BoardID)
	}

	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	for !ok && scene == nil {
		h.mu.Unlock()
		scene = h.load(client.BoardID)
		h.mu.Lock()
		room, ok = h.rooms[client.BoardID]
	}
	if !ok {
		room = &Room{
			boardID: client.BoardID,
			clients: make(map[string]*Client),
			scene:   scene,
		}
		h.rooms[client.BoardID] = room
	}
	room.clients[client.ClientID] = client
	syncMsg := room.syncMessage()
	h.mu.Unlock()

	client.Send(newMessage(TypeWelcome, WelcomePayload{ClientID: client.ClientID, UserID: client.UserID}))
	client.Send(syncMsg)

	slog.Info("client joined", "user", client.UserID, "board", client.BoardID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	if !ok || room.clients[client.ClientID] != client {
		h.mu.Unlock()
		return
	}
	delete(room.clients, client.ClientID)
	client.close()
	last := len(room.clients) == 0
	h.mu.Unlock()

	if last {
		h.flushRoom(room)
		h.mu.Lock()
		if len(room.clients) == 0 && !room.dirty {
			delete(h.rooms, client.BoardID)
		}
		h.mu.Unlock()
	}
	slog.Info("client left", "user", client.UserID, "board", client.BoardID)
}

// load reads a board's scene, falling back to an empty one.
func (h *Hub) load(boardID string) []byte {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	data, err := h.store.Load(ctx, boardID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Warn("load board failed, starting empty", "board", boardID, "error", err)
		}
		return []byte("[]")
	}
	if _, err := shape.DecodeScene(data); err != nil {
		slog.Warn("stored board is corrupt, starting empty", "board", boardID, "error", err)
		return []byte("[]")
	}
	return data
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeSceneSave:
		h.handleSave(sender, msg)
	case TypeSceneLoad:
		h.mu.RLock()
		room, ok := h.rooms[sender.BoardID]
		var syncMsg *Message
		if ok {
			syncMsg = room.syncMessage()
		}
		h.mu.RUnlock()
		if ok {
			sender.Send(syncMsg)
		}
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "unknown message type " + msg.Type}))
	}
}

func (h *Hub) handleSave(sender *Client, msg *Message) {
	var p ScenePayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "invalid save payload"}))
		return
	}
	data, err := normalizeScene(p.Scene)
	if err != nil {
		slog.Warn("rejected scene", "board", sender.BoardID, "user", sender.UserID, "error", err)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: err.Error()}))
		return
	}

	h.mu.Lock()
	room, ok := h.rooms[sender.BoardID]
	if !ok {
		h.mu.Unlock()
		return
	}
	room.scene = data
	room.version++
	room.dirty = true
	version := room.version
	h.mu.Unlock()

	ack := newMessage(TypeSceneAck, AckPayload{Version: version})
	ack.Seq = msg.Seq
	sender.Send(ack)
}

// normalizeScene checks that data decodes as a scene and re-encodes it.
func normalizeScene(data []byte) ([]byte, error) {
	scene, err := shape.DecodeScene(data)
	if err != nil {
		return nil, err
	}
	return shape.EncodeScene(scene)
}

// Snapshot returns the live scene of an open board.
func (h *Hub) Snapshot(boardID string) ([]byte, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[boardID]
	if !ok {
		return nil, false
	}
	return room.scene, true
}

// Replace swaps the scene of an open board and pushes it to its clients.
// It reports false when the board has no clients.
func (h *Hub) Replace(boardID string, data []byte) bool {
	h.mu.Lock()
	room, ok := h.rooms[boardID]
	if !ok {
		h.mu.Unlock()
		return false
	}
	room.scene = data
	room.version++
	room.dirty = true
	syncMsg := room.syncMessage()
	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.Send(syncMsg)
	}
	return true
}

func (h *Hub) flushAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.flushRoom(r)
	}
}

func (h *Hub) flushRoom(room *Room) {
	h.mu.Lock()
	if !room.dirty {
		h.mu.Unlock()
		return
	}
	data := room.scene
	room.dirty = false
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := h.store.Save(ctx, room.boardID, data); err != nil {
		slog.Error("flush board", "board", room.boardID, "error", err)
		h.mu.Lock()
		room.dirty = true
		h.mu.Unlock()
		return
	}
	slog.Debug("board flushed", "board", room.boardID, "bytes", len(data))
}

func (r *Room) syncMessage() *Message {
	return newMessage(TypeSceneSync, ScenePayload{Version: r.version, Scene: r.scene})
}
