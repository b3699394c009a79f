package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inamate/whiteboard/internal/session"
	"github.com/inamate/whiteboard/internal/store"
)

const board = "board_01h455vb4pex5vsknk084sn02q"

func serve(t *testing.T, mem *store.Memory) (*session.Hub, string) {
	t.Helper()
	hub := session.NewHub(mem, time.Hour)
	go hub.Run()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session.Serve(hub, w, r, "anon-test", board, nil)
	}))
	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestRoundTrip(t *testing.T) {
	mem := store.NewMemory()
	mem.Save(context.Background(), board, []byte(`[]`))
	hub, url := serve(t, mem)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Dial(ctx, url, board)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	data, err := s.Load(ctx, board)
	if err != nil || string(data) != "[]" {
		t.Fatalf("Load = %s, %v", data, err)
	}

	scene := `[{"type":"line","id":"shape_01h455vb4pex5vsknk084sn02q","x":0,"y":0,"toX":5,"toY":5,"strokeWidth":1,"strokeFill":"#1e1e1e","strokeStyle":"solid","opacity":50}]`
	if err := s.Save(ctx, board, []byte(scene)); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for s.Version() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.Version() == 0 {
		t.Fatal("save never acknowledged")
	}
	live, ok := hub.Snapshot(board)
	if !ok || !strings.Contains(string(live), `"toX":5`) {
		t.Fatalf("hub scene = %s", live)
	}
}

func TestWrongKeyRejected(t *testing.T) {
	_, url := serve(t, store.NewMemory())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Dial(ctx, url, board)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Save(ctx, "other", []byte("[]")); !errors.Is(err, store.ErrInvalidKey) {
		t.Errorf("err = %v, want ErrInvalidKey", err)
	}
}

func TestMalformedRepliesAreLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	s := &Store{board: board, version: 3}
	s.handle(&session.Message{Type: session.TypeError, Payload: json.RawMessage(`"not an object"`)})
	s.handle(&session.Message{Type: session.TypeSceneAck, Payload: json.RawMessage(`[]`)})

	out := buf.String()
	if !strings.Contains(out, "invalid error payload") || !strings.Contains(out, "invalid ack payload") {
		t.Fatalf("log = %q", out)
	}
	if strings.Contains(out, "server rejected message") {
		t.Error("undecodable error reported as a rejection")
	}
	if s.Version() != 3 {
		t.Errorf("version = %d, bad ack must not change it", s.Version())
	}
}
