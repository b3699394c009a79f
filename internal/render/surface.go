// Package render turns shapes into drawing calls.
//
// The routines here are stateless: they walk shapes and issue calls on a
// Surface. Surfaces decide what the calls become. Recorder turns them into
// JSON draw commands for a browser canvas; the raster and pdf subpackages
// paint them into images and documents.
package render

import (
	"io"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
)

// Font describes how a text run is drawn.
type Font struct {
	Family shape.FontFamily
	Size   float64
	Align  shape.TextAlign
}

// Surface is a 2D drawing target with Canvas2D-like state semantics: Save
// pushes the style, transform and clip; Restore pops them.
type Surface interface {
	Clear(width, height float64, background string)
	Save()
	Restore()
	SetTransform(m geometry.Matrix2D)
	SetAlpha(a float64)
	SetLineWidth(w float64)
	SetLineDash(dash []float64)
	SetStrokeColor(color string)
	SetFillColor(color string)
	Stroke(p Path)
	Fill(p Path)
	Clip(p Path)
	// FillText draws one line of text with its baseline at y. The x
	// coordinate is the left, center or right anchor depending on Align.
	FillText(text string, x, y float64, font Font)
}

// Exporter writes a frame to an encoded output such as PNG or PDF.
type Exporter interface {
	Export(w io.Writer, f Frame) error
	ContentType() string
}
