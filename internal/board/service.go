package board

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/render/pdf"
	"github.com/inamate/whiteboard/internal/render/raster"
	"github.com/inamate/whiteboard/internal/shape"
	"github.com/inamate/whiteboard/internal/store"
	"github.com/inamate/whiteboard/internal/typeid"
)

var (
	ErrNotFound      = errors.New("board not found")
	ErrInvalidID     = errors.New("invalid board id")
	ErrInvalidScene  = errors.New("invalid scene")
	ErrUnsupported   = errors.New("store cannot list boards")
	ErrUnknownFormat = errors.New("unknown export format")
)

// DefaultAlias addresses the board stored under the configured storage key.
const DefaultAlias = "default"

// Live is the set of boards currently open over websockets. Reads prefer
// the live copy and writes are pushed to connected clients.
type Live interface {
	Snapshot(boardID string) ([]byte, bool)
	Replace(boardID string, data []byte) bool
}

type Service struct {
	store      store.Store
	live       Live
	defaultKey string
}

func NewService(st store.Store, live Live, defaultKey string) *Service {
	if defaultKey == "" {
		defaultKey = store.DefaultKey
	}
	return &Service{store: st, live: live, defaultKey: defaultKey}
}

type Board struct {
	ID     string `json:"id"`
	Shapes int    `json:"shapes"`
}

// Key maps a board id from a URL to its storage key.
func (s *Service) Key(id string) (string, error) {
	if id == DefaultAlias || id == s.defaultKey {
		return s.defaultKey, nil
	}
	if err := typeid.Validate(id, typeid.PrefixBoard); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	return id, nil
}

func (s *Service) Create(ctx context.Context) (*Board, error) {
	id := typeid.NewBoardID()
	if err := s.store.Save(ctx, id, []byte("[]")); err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	return &Board{ID: id}, nil
}

func (s *Service) List(ctx context.Context) ([]Board, error) {
	l, ok := s.store.(store.Lister)
	if !ok {
		return nil, ErrUnsupported
	}
	keys, err := l.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	boards := make([]Board, 0, len(keys))
	for _, k := range keys {
		scene, err := s.loadScene(ctx, k)
		if err != nil {
			continue
		}
		boards = append(boards, Board{ID: k, Shapes: len(scene)})
	}
	return boards, nil
}

// Scene returns the board's scene as stored JSON, preferring the live copy.
func (s *Service) Scene(ctx context.Context, id string) ([]byte, error) {
	key, err := s.Key(id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, key)
}

func (s *Service) load(ctx context.Context, key string) ([]byte, error) {
	if s.live != nil {
		if data, ok := s.live.Snapshot(key); ok {
			return data, nil
		}
	}
	data, err := s.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load board: %w", err)
	}
	return data, nil
}

func (s *Service) loadScene(ctx context.Context, key string) ([]shape.Shape, error) {
	data, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	scene, err := shape.DecodeScene(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return scene, nil
}

// PutScene validates and stores a whole scene, returning its shape count.
func (s *Service) PutScene(ctx context.Context, id string, data []byte) (int, error) {
	key, err := s.Key(id)
	if err != nil {
		return 0, err
	}
	scene, err := shape.DecodeScene(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	normalized, err := shape.EncodeScene(scene)
	if err != nil {
		return 0, fmt.Errorf("encode scene: %w", err)
	}
	if s.live != nil {
		s.live.Replace(key, normalized)
	}
	if err := s.store.Save(ctx, key, normalized); err != nil {
		return 0, fmt.Errorf("save board: %w", err)
	}
	return len(scene), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	key, err := s.Key(id)
	if err != nil {
		return err
	}
	if s.live != nil {
		s.live.Replace(key, []byte("[]"))
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	return nil
}

// Exporter returns the exporter for a format name.
func Exporter(format string) (render.Exporter, error) {
	switch format {
	case "", "png":
		return raster.Exporter{}, nil
	case "pdf":
		return pdf.Exporter{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Export draws the whole board, framed to its content, with exp. The
// server never calls it; it serves local hosts such as boardctl.
func (s *Service) Export(ctx context.Context, id string, exp render.Exporter, background string, w io.Writer) error {
	key, err := s.Key(id)
	if err != nil {
		return err
	}
	scene, err := s.loadScene(ctx, key)
	if err != nil {
		return err
	}
	return exp.Export(w, render.FitFrame(scene, background))
}
