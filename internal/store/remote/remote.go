// Package remote is a store.Store backed by a board session on the
// whiteboard server. One Store serves one board.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/inamate/whiteboard/internal/session"
	"github.com/inamate/whiteboard/internal/store"
)

var ErrClosed = errors.New("remote store closed")

// Store mirrors a board's scene. Save never blocks: the latest scene is
// queued and the writer sends only the newest one.
type Store struct {
	board  string
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	scene   []byte
	version int64
	unsent  []byte
	seq     int64
	ready   chan struct{}
	loaded  bool

	kick chan struct{}
	done chan struct{}
}

// Dial connects to a board session URL such as
// ws://host:8080/ws/boards/<board>?token=...
func Dial(ctx context.Context, url, board string) (*Store, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	conn.SetReadLimit(4 << 20)

	sctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		board:  board,
		conn:   conn,
		ctx:    sctx,
		cancel: cancel,
		ready:  make(chan struct{}),
		kick:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	go s.writeLoop()
	return s, nil
}

func (s *Store) check(key string) error {
	if key != s.board {
		return fmt.Errorf("%w: remote store serves %q, not %q", store.ErrInvalidKey, s.board, key)
	}
	if s.ctx.Err() != nil {
		return ErrClosed
	}
	return nil
}

// Load waits for the server's first sync and returns the newest scene
// known locally.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	if err := s.check(key); err != nil {
		return nil, err
	}
	select {
	case <-s.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.scene...), nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if err := s.check(key); err != nil {
		return err
	}
	s.mu.Lock()
	s.scene = append([]byte(nil), data...)
	s.unsent = s.scene
	s.mu.Unlock()

	select {
	case s.kick <- struct{}{}:
	default:
	}
	return nil
}

// Delete empties the board.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.Save(ctx, key, []byte("[]"))
}

// Version is the last board version the server acknowledged or synced.
func (s *Store) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Close sends any queued scene and closes the connection.
func (s *Store) Close() error {
	s.mu.Lock()
	pending := s.unsent
	s.unsent = nil
	s.mu.Unlock()
	if pending != nil {
		s.write(pending)
	}
	s.cancel()
	return s.conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Store) readLoop() {
	defer close(s.done)
	for {
		_, data, err := s.conn.Read(s.ctx)
		if err != nil {
			if s.ctx.Err() == nil {
				slog.Warn("remote store disconnected", "board", s.board, "error", err)
			}
			s.cancel()
			return
		}
		var msg session.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message from server", "error", err)
			continue
		}
		s.handle(&msg)
	}
}

func (s *Store) handle(msg *session.Message) {
	switch msg.Type {
	case session.TypeSceneSync:
		var p session.ScenePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			slog.Warn("invalid sync payload", "error", err)
			return
		}
		s.mu.Lock()
		s.version = p.Version
		// Local edits not yet sent win over the server copy.
		if s.unsent == nil {
			s.scene = append([]byte(nil), p.Scene...)
		}
		if !s.loaded {
			s.loaded = true
			close(s.ready)
		}
		s.mu.Unlock()
	case session.TypeSceneAck:
		var p session.AckPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			slog.Warn("invalid ack payload", "error", err)
			return
		}
		s.mu.Lock()
		s.version = p.Version
		s.mu.Unlock()
	case session.TypeError:
		var p session.ErrorPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			slog.Warn("invalid error payload", "board", s.board, "error", err)
			return
		}
		slog.Warn("server rejected message", "board", s.board, "error", p.Message)
	}
}

func (s *Store) writeLoop() {
	for {
		select {
		case <-s.kick:
			s.mu.Lock()
			data := s.unsent
			s.unsent = nil
			s.mu.Unlock()
			if data != nil {
				s.write(data)
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Store) write(scene []byte) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	payload, err := json.Marshal(session.ScenePayload{Scene: scene})
	if err != nil {
		slog.Error("marshal scene", "error", err)
		return
	}
	data, err := json.Marshal(session.Message{Type: session.TypeSceneSave, Seq: seq, Payload: payload})
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}
	if err := s.conn.Write(s.ctx, websocket.MessageText, data); err != nil {
		slog.Warn("send scene failed", "board", s.board, "error", err)
	}
}
