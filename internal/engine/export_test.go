package engine

import (
	"errors"
	"io"
	"testing"

	"github.com/inamate/whiteboard/internal/render"
)

type captureExporter struct {
	frame render.Frame
}

func (c *captureExporter) Export(w io.Writer, f render.Frame) error {
	c.frame = f
	_, err := w.Write([]byte("ok"))
	return err
}

func (c *captureExporter) ContentType() string { return "text/plain" }

func TestExportOmitsDecoration(t *testing.T) {
	e, _, _ := newTestEngine(t)
	if err := e.Export(io.Discard, nil); !errors.Is(err, ErrExportUnavailable) {
		t.Fatalf("export without exporter: %v", err)
	}

	e.SetTool(ToolRectangle)
	drag(e, 10, 10, 110, 60)
	if e.Selected() == nil {
		t.Fatal("drawn shape not selected")
	}

	exp := &captureExporter{}
	if err := e.Export(io.Discard, exp); err != nil {
		t.Fatal(err)
	}
	if len(exp.frame.Scene) != 1 || exp.frame.SelectedID != "" || exp.frame.Marked != nil || exp.frame.Provisional != nil {
		t.Errorf("export frame = %+v", exp.frame)
	}
	if exp.frame.Width != DefaultWidth || exp.frame.Height != DefaultHeight {
		t.Errorf("export size = %vx%v", exp.frame.Width, exp.frame.Height)
	}
}

func TestViewportAndBackground(t *testing.T) {
	e, _, _ := newTestEngine(t)

	if err := e.SetViewport(0, 100); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width: %v", err)
	}
	if err := e.SetViewport(800, 600); err != nil {
		t.Fatal(err)
	}
	if w, h := e.Viewport(); w != 800 || h != 600 {
		t.Errorf("viewport = %vx%v", w, h)
	}

	for _, bad := range []string{"transparent", "#00000000", "blue"} {
		if err := e.SetBackground(bad); !errors.Is(err, ErrInvalidBackground) {
			t.Errorf("SetBackground(%q) = %v", bad, err)
		}
	}
	if err := e.SetBackground("#F5F5F5"); err != nil {
		t.Fatal(err)
	}
	if got := e.Frame().Background; got != e.Background() {
		t.Errorf("frame background %q, engine %q", got, e.Background())
	}
}
