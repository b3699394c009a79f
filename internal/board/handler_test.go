package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/inamate/whiteboard/internal/store"
)

const scene = `[{"type":"ellipse","x":50,"y":50,"radX":20,"radY":10,"strokeWidth":2,"strokeFill":"#1971c2","strokeStyle":"solid","bgFill":"#d0ebff","fillStyle":"hachure"}]`

type fakeLive struct {
	boards   map[string][]byte
	replaced []string
}

func (f *fakeLive) Snapshot(id string) ([]byte, bool) {
	d, ok := f.boards[id]
	return d, ok
}

func (f *fakeLive) Replace(id string, data []byte) bool {
	if _, ok := f.boards[id]; !ok {
		return false
	}
	f.boards[id] = data
	f.replaced = append(f.replaced, id)
	return true
}

func newRouter(svc *Service) *mux.Router {
	r := mux.NewRouter()
	NewHandler(svc).Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSceneCRUD(t *testing.T) {
	mem := store.NewMemory()
	r := newRouter(NewService(mem, nil, ""))

	rec := do(t, r, "POST", "/boards", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	var b Board
	json.NewDecoder(rec.Body).Decode(&b)
	if !strings.HasPrefix(b.ID, "board_") {
		t.Fatalf("board id = %q", b.ID)
	}

	path := "/boards/" + b.ID + "/scene"
	if rec := do(t, r, "GET", path, ""); rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("get new board: %d %s", rec.Code, rec.Body)
	}

	rec = do(t, r, "PUT", path, scene)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"shapes":1`) {
		t.Fatalf("put: %d %s", rec.Code, rec.Body)
	}
	rec = do(t, r, "GET", path, "")
	if !strings.Contains(rec.Body.String(), `"fillStyle":"hachure"`) || !strings.Contains(rec.Body.String(), `"opacity":100`) {
		t.Errorf("stored scene = %s", rec.Body)
	}

	rec = do(t, r, "GET", "/boards", "")
	if !strings.Contains(rec.Body.String(), `"shapes":1`) {
		t.Errorf("list = %s", rec.Body)
	}

	if rec := do(t, r, "DELETE", path, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := do(t, r, "GET", path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted: %d", rec.Code)
	}
}

func TestRejectsBadInput(t *testing.T) {
	r := newRouter(NewService(store.NewMemory(), nil, ""))

	tests := []struct {
		method, path, body string
		want               int
	}{
		{"GET", "/boards/not-a-board/scene", "", http.StatusBadRequest},
		{"GET", "/boards/shape_01h455vb4pex5vsknk084sn02q/scene", "", http.StatusBadRequest},
		{"PUT", "/boards/default/scene", `{"not":"an array"}`, http.StatusBadRequest},
		{"PUT", "/boards/default/scene", `[{"type":"hexagon"}]`, http.StatusBadRequest},
		{"GET", "/boards/default/scene", "", http.StatusNotFound},
		{"GET", "/boards/default/export?format=png", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		if rec := do(t, r, tc.method, tc.path, tc.body); rec.Code != tc.want {
			t.Errorf("%s %s: %d, want %d (%s)", tc.method, tc.path, rec.Code, tc.want, rec.Body)
		}
	}
}

func TestDefaultAliasUsesStorageKey(t *testing.T) {
	mem := store.NewMemory()
	mem.Save(context.Background(), store.DefaultKey, []byte(scene))
	r := newRouter(NewService(mem, nil, ""))

	rec := do(t, r, "GET", "/boards/default/scene", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ellipse") {
		t.Fatalf("default board: %d %s", rec.Code, rec.Body)
	}
}

func TestLiveBoardsPreferred(t *testing.T) {
	mem := store.NewMemory()
	mem.Save(context.Background(), store.DefaultKey, []byte("[]"))
	live := &fakeLive{boards: map[string][]byte{store.DefaultKey: []byte(scene)}}
	r := newRouter(NewService(mem, live, ""))

	if rec := do(t, r, "GET", "/boards/default/scene", ""); !strings.Contains(rec.Body.String(), "ellipse") {
		t.Errorf("live copy not served: %s", rec.Body)
	}
	do(t, r, "PUT", "/boards/default/scene", "[]")
	if len(live.replaced) != 1 || string(live.boards[store.DefaultKey]) != "[]" {
		t.Errorf("PUT not pushed to live board: %v", live.replaced)
	}
}

func TestExport(t *testing.T) {
	mem := store.NewMemory()
	mem.Save(context.Background(), store.DefaultKey, []byte(scene))
	svc := NewService(mem, nil, "")
	ctx := context.Background()

	exp, err := Exporter("png")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := svc.Export(ctx, DefaultAlias, exp, "#ffffff", &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("png export is not a PNG")
	}

	exp, _ = Exporter("pdf")
	buf.Reset()
	if err := svc.Export(ctx, DefaultAlias, exp, "#f5f5f5", &buf); err != nil || !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("pdf export: %v", err)
	}

	if _, err := Exporter("gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("gif format: %v", err)
	}
	if err := svc.Export(ctx, "nope", exp, "#ffffff", &buf); !errors.Is(err, ErrInvalidID) {
		t.Errorf("bad id: %v", err)
	}
}

func TestListUnsupported(t *testing.T) {
	r := newRouter(NewService(noList{}, nil, ""))
	if rec := do(t, r, "GET", "/boards", ""); rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d", rec.Code)
	}
}

type noList struct{}

func (noList) Load(context.Context, string) ([]byte, error) { return nil, store.ErrNotFound }
func (noList) Save(context.Context, string, []byte) error   { return nil }
func (noList) Delete(context.Context, string) error         { return nil }
