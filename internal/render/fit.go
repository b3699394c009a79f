package render

import (
	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
)

const (
	// FitPadding is the margin around the content of a fitted frame.
	FitPadding = 20
	// MaxFitSide caps the longer side of a fitted frame; larger content is
	// scaled down.
	MaxFitSide = 4096
)

// SceneBounds returns the box covering every shape, and false for an empty
// scene.
func SceneBounds(scene []shape.Shape) (geometry.Rect, bool) {
	if len(scene) == 0 {
		return geometry.Rect{}, false
	}
	b := geometry.BoundsOf(scene[0])
	for _, s := range scene[1:] {
		o := geometry.BoundsOf(s)
		x0, y0 := min(b.X, o.X), min(b.Y, o.Y)
		x1, y1 := max(b.X+b.Width, o.X+o.Width), max(b.Y+b.Height, o.Y+o.Height)
		b = geometry.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	}
	return b, true
}

// FitFrame frames the whole scene with FitPadding on every side, for
// exports that are not tied to a viewport.
func FitFrame(scene []shape.Shape, background string) Frame {
	f := Frame{
		Scene:      scene,
		View:       geometry.DefaultView(),
		Width:      2 * FitPadding,
		Height:     2 * FitPadding,
		Background: background,
	}
	b, ok := SceneBounds(scene)
	if !ok {
		return f
	}
	// Stroke widths reach past the geometric box.
	b = b.Inset(float64(shape.StrokeExtra))

	scale := 1.0
	if side := max(b.Width, b.Height); side > MaxFitSide-2*FitPadding {
		scale = (MaxFitSide - 2*FitPadding) / side
	}
	f.View = geometry.View{
		PanX:  FitPadding - b.X*scale,
		PanY:  FitPadding - b.Y*scale,
		Scale: scale,
	}
	f.Width = b.Width*scale + 2*FitPadding
	f.Height = b.Height*scale + 2*FitPadding
	return f
}
