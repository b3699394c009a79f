package shape

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestCloneFreeDrawDoesNotSharePoints(t *testing.T) {
	fd := DefaultStyle().NewFreeDraw(Point{X: 1, Y: 2})
	fd.Points = append(fd.Points, Point{X: 3, Y: 4})

	c := fd.Clone().(*FreeDraw)
	c.Points[0].X = 99

	if fd.Points[0].X != 1 {
		t.Fatalf("clone mutated original points: %+v", fd.Points)
	}
	if c.ID != fd.ID {
		t.Fatalf("clone changed id: %q vs %q", c.ID, fd.ID)
	}
}

func TestCloneSceneIsIndependent(t *testing.T) {
	st := DefaultStyle()
	scene := []Shape{st.NewRectangle(0, 0, 10, 10), st.NewLine(0, 0, 5, 5)}

	snap := CloneScene(scene)
	Translate(scene[0], 100, 100)

	if r := snap[0].(*Rectangle); r.X != 0 || r.Y != 0 {
		t.Fatalf("snapshot moved with live scene: %+v", r)
	}
	if got := CloneScene(nil); got == nil || len(got) != 0 {
		t.Fatalf("CloneScene(nil) = %#v, want empty slice", got)
	}
}

func TestTranslateMovesBothLineEndpoints(t *testing.T) {
	l := DefaultStyle().NewArrow(0, 0, 10, 20)
	Translate(l, 5, -5)
	if l.X != 5 || l.Y != -5 || l.ToX != 15 || l.ToY != 15 {
		t.Fatalf("unexpected arrow after translate: %+v", l)
	}
}

func TestNewShapesGetUniqueIDs(t *testing.T) {
	st := DefaultStyle()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := st.NewRectangle(0, 0, 1, 1).ID
		if !strings.HasPrefix(id, "shape_") {
			t.Fatalf("id %q lacks shape prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestNewTextUsesTextStyle(t *testing.T) {
	st := DefaultStyle()
	st.FontFamily = FontCode
	st.FontSize = FontLarge
	txt := st.NewText(10, 40, "hello")
	if txt.Width != TextWidth || txt.Height != TextHeight {
		t.Fatalf("text box = %vx%v, want %vx%v", txt.Width, txt.Height, TextWidth, TextHeight)
	}
	if txt.FontFamily != FontCode || txt.FontSize != FontLarge {
		t.Fatalf("text font = %v/%v", txt.FontFamily, txt.FontSize)
	}
	if txt.Opacity != MaxOpacity {
		t.Fatalf("opacity = %v, want %v", txt.Opacity, MaxOpacity)
	}
}

func TestEncodeSceneWritesTypeTags(t *testing.T) {
	st := DefaultStyle()
	data, err := EncodeScene([]Shape{st.NewEllipse(5, 5, 2, 3), st.NewFreeDraw(Point{})})
	if err != nil {
		t.Fatalf("EncodeScene: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if records[0]["type"] != "ellipse" || records[1]["type"] != "free-draw" {
		t.Fatalf("type tags = %v, %v", records[0]["type"], records[1]["type"])
	}
	if _, ok := records[0]["radX"]; !ok {
		t.Fatalf("ellipse record missing radX: %s", data)
	}
	if _, ok := records[0]["bgFill"]; !ok {
		t.Fatalf("ellipse record missing bgFill: %s", data)
	}

	empty, err := EncodeScene(nil)
	if err != nil || string(empty) != "[]" {
		t.Fatalf("EncodeScene(nil) = %s, %v", empty, err)
	}
}

func TestDecodeAcceptsStoredVariants(t *testing.T) {
	data := []byte(`[
		{"id":"a","type":"rectangle","x":1,"y":2,"width":3,"height":4,"strokeWidth":2,"strokeFill":"#000000","strokeStyle":"solid","bgFill":"#00000000","fillStyle":"hachure","opacity":5},
		{"id":"b","type":"text","x":0,"y":30,"width":200,"height":30,"text":"hi","fontSize":"Large","fontFamily":"code","textAlign":"left","strokeWidth":1,"strokeFill":"#111111","strokeStyle":"solid"},
		{"id":"c","type":"free-draw","points":[{"x":1,"y":1},{"x":2,"y":2}],"strokeWidth":4,"strokeFill":"#222222","strokeStyle":"dotted","opacity":80}
	]`)

	scene, err := DecodeScene(data)
	if err != nil {
		t.Fatalf("DecodeScene: %v", err)
	}
	if len(scene) != 3 {
		t.Fatalf("len = %d, want 3", len(scene))
	}

	r, ok := scene[0].(*Rectangle)
	if !ok {
		t.Fatalf("scene[0] is %T", scene[0])
	}
	if r.Opacity != MinOpacity {
		t.Errorf("opacity 5 should clamp to %v, got %v", MinOpacity, r.Opacity)
	}
	if r.FillStyle != FillHachure {
		t.Errorf("fill style = %q", r.FillStyle)
	}

	txt := scene[1].(*Text)
	if txt.FontSize != FontLarge {
		t.Errorf("preset font size = %v, want %v", txt.FontSize, FontLarge)
	}
	if txt.Opacity != MaxOpacity {
		t.Errorf("missing opacity should load as %v, got %v", MaxOpacity, txt.Opacity)
	}

	fd := scene[2].(*FreeDraw)
	if len(fd.Points) != 2 || fd.Opacity != 80 {
		t.Errorf("free-draw = %+v", fd)
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"hexagon"}`)); err == nil {
		t.Fatal("expected error for unknown type")
	}
	if _, err := DecodeScene([]byte(`{"not":"an array"}`)); err == nil {
		t.Fatal("expected error for non-array scene")
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#abc", "#aabbcc"},
		{"F08C00", "#F08C00"},
		{"#1971c2", "#1971c2"},
		{"transparent", Transparent},
		{"#00000000", Transparent},
	}
	for _, tt := range tests {
		got, err := NormalizeColor(tt.in)
		if err != nil {
			t.Errorf("NormalizeColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "#", "#12", "blue", "#gggggg", "#1234567"} {
		if _, err := NormalizeColor(bad); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("NormalizeColor(%q) err = %v, want ErrInvalidColor", bad, err)
		}
	}
}

func TestClampOpacity(t *testing.T) {
	for in, want := range map[float64]float64{-50: 10, 0: 10, 10: 10, 55: 55, 100: 100, 250: 100} {
		if got := ClampOpacity(in); got != want {
			t.Errorf("ClampOpacity(%v) = %v, want %v", in, got, want)
		}
	}
}
