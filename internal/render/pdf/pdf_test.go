package pdf

import (
	"bytes"
	"testing"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/shape"
)

func TestExportWritesDocument(t *testing.T) {
	st := shape.DefaultStyle()
	st.BgFill = "#d3f9d8"
	st.FillStyle = shape.FillHachure
	st.StrokeStyle = shape.StrokeDotted

	fd := st.NewFreeDraw(shape.Point{X: 5, Y: 5})
	fd.Points = append(fd.Points, shape.Point{X: 20, Y: 30})

	scene := []shape.Shape{
		st.NewRectangle(10, 10, 100, 60),
		st.NewEllipse(200, 100, 40, 20),
		st.NewDiamond(50, 120, 80, 60),
		st.NewArrow(0, 0, 150, 150),
		fd,
		st.NewText(30, 250, "héllo\nworld"),
	}
	f := render.Frame{
		Scene:      scene,
		View:       geometry.View{PanX: 10, PanY: 10, Scale: 1.5},
		Width:      400,
		Height:     300,
		Background: "#fef9f3",
		SelectedID: scene[1].Base().ID,
	}

	var buf bytes.Buffer
	if err := (Exporter{}).Export(&buf, f); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestExportRejectsEmptyFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := (Exporter{}).Export(&buf, render.Frame{}); err == nil {
		t.Fatal("expected error for zero-sized frame")
	}
}

func TestRestoreEndsClips(t *testing.T) {
	s := NewSurface(100, 100)
	s.Save()
	s.Clip(render.RectPath(0, 0, 50, 50))
	s.Clip(render.EllipsePath(25, 25, 10, 10))
	if s.st.clips != 2 {
		t.Fatalf("clips = %d, want 2", s.st.clips)
	}
	s.Restore()
	if s.st.clips != 0 || len(s.stack) != 0 {
		t.Fatalf("after restore clips=%d stack=%d", s.st.clips, len(s.stack))
	}
}
