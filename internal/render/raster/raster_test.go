package raster

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/shape"
)

func TestExportPaintsFilledShape(t *testing.T) {
	st := shape.DefaultStyle()
	st.BgFill = "#ff0000"
	f := render.Frame{
		Scene:      []shape.Shape{st.NewRectangle(10, 10, 20, 20)},
		View:       geometry.DefaultView(),
		Width:      40,
		Height:     40,
		Background: "#ffffff",
	}

	var buf bytes.Buffer
	if err := (Exporter{}).Export(&buf, f); err != nil {
		t.Fatalf("Export: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Fatalf("size = %v", b)
	}

	r, g, _, _ := img.At(20, 20).RGBA()
	if r>>8 < 200 || g>>8 > 60 {
		t.Errorf("center pixel = r%d g%d, want red", r>>8, g>>8)
	}
	r, g, b, _ := img.At(2, 2).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("corner pixel = %d,%d,%d, want white", r>>8, g>>8, b>>8)
	}
}

func TestExportRejectsEmptyFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := (Exporter{}).Export(&buf, render.Frame{View: geometry.DefaultView()}); err == nil {
		t.Fatal("expected error for zero-sized frame")
	}
}
