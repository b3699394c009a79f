package render

import (
	"math"
	"strings"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
)

const (
	ArrowHeadLength = 20
	ArrowHeadAngle  = math.Pi / 6

	HatchGap       = 8
	HatchLineWidth = 1

	SelectionColor     = "#1971c2"
	SelectionLineWidth = 1.5
	HandleFill         = "#ffffff"

	// MarkedOpacity is used for shapes the eraser is about to remove.
	MarkedOpacity = 30

	// LineSpacing multiplies the font size to get the distance between
	// baselines of a multi-line text shape.
	LineSpacing = 1.25
)

// Frame is everything needed to draw one full picture of the board.
type Frame struct {
	Scene      []shape.Shape
	View       geometry.View
	Width      float64
	Height     float64
	Background string
	SelectedID string
	Marked     map[string]bool
	// Provisional is the shape being drawn, not yet part of Scene.
	Provisional shape.Shape
}

// RenderFrame clears the surface and draws the frame's scene through its view.
func RenderFrame(s Surface, f Frame) {
	s.Clear(f.Width, f.Height, f.Background)
	s.Save()
	s.SetTransform(f.View.Matrix())
	for _, sh := range f.Scene {
		id := sh.Base().ID
		if f.Marked[id] {
			faded := sh.Clone()
			faded.Base().Opacity = MarkedOpacity
			sh = faded
		}
		RenderShape(s, sh, f.SelectedID != "" && id == f.SelectedID)
	}
	if f.Provisional != nil {
		RenderShape(s, f.Provisional, false)
	}
	s.Restore()
}

// RenderShape draws one shape, plus its selection box when selected.
func RenderShape(s Surface, sh shape.Shape, selected bool) {
	c := sh.Base()

	s.Save()
	s.SetAlpha(c.Opacity / 100)
	s.SetLineWidth(float64(c.StrokeWidth))
	s.SetStrokeColor(c.StrokeFill)
	s.SetLineDash(c.StrokeStyle.Dash())

	switch v := sh.(type) {
	case *shape.Rectangle:
		drawFilled(s, RectPath(v.X, v.Y, v.Width, v.Height), geometry.BoundsOf(v), v.Fill)
	case *shape.Diamond:
		drawFilled(s, DiamondPath(v.X, v.Y, v.Width, v.Height), geometry.BoundsOf(v), v.Fill)
	case *shape.Ellipse:
		drawFilled(s, EllipsePath(v.X, v.Y, v.RadX, v.RadY), geometry.BoundsOf(v), v.Fill)
	case *shape.Line:
		s.Stroke(SegmentPath(v.X, v.Y, v.ToX, v.ToY))
	case *shape.Arrow:
		s.Stroke(SegmentPath(v.X, v.Y, v.ToX, v.ToY))
		s.Stroke(arrowHead(v.X, v.Y, v.ToX, v.ToY))
	case *shape.FreeDraw:
		if len(v.Points) >= 2 {
			p := Path{}.MoveTo(v.Points[0].X, v.Points[0].Y)
			for _, pt := range v.Points[1:] {
				p = p.LineTo(pt.X, pt.Y)
			}
			s.Stroke(p)
		}
	case *shape.Text:
		drawText(s, v)
	}

	if selected {
		drawSelection(s, sh)
	}
	s.Restore()
}

func drawFilled(s Surface, outline Path, box geometry.Rect, f shape.Fill) {
	if !shape.IsTransparent(f.BgFill) {
		switch f.FillStyle {
		case shape.FillHachure, shape.FillCrossHatch:
			s.Save()
			s.Clip(outline)
			s.SetStrokeColor(f.BgFill)
			s.SetLineWidth(HatchLineWidth)
			s.SetLineDash(nil)
			s.Stroke(HatchPath(box, f.FillStyle == shape.FillCrossHatch))
			s.Restore()
		default:
			s.SetFillColor(f.BgFill)
			s.Fill(outline)
		}
	}
	s.Stroke(outline)
}

func arrowHead(x, y, toX, toY float64) Path {
	angle := math.Atan2(toY-y, toX-x)
	return Path{}.
		MoveTo(toX, toY).
		LineTo(toX-ArrowHeadLength*math.Cos(angle-ArrowHeadAngle), toY-ArrowHeadLength*math.Sin(angle-ArrowHeadAngle)).
		MoveTo(toX, toY).
		LineTo(toX-ArrowHeadLength*math.Cos(angle+ArrowHeadAngle), toY-ArrowHeadLength*math.Sin(angle+ArrowHeadAngle))
}

func drawText(s Surface, t *shape.Text) {
	if !shape.IsTransparent(t.BgFill) {
		b := geometry.BoundsOf(t)
		s.SetFillColor(t.BgFill)
		s.Fill(RectPath(b.X, b.Y, b.Width, b.Height))
	}

	font := Font{Family: t.FontFamily, Size: float64(t.FontSize), Align: t.TextAlign}
	x := t.X
	switch t.TextAlign {
	case shape.AlignCenter:
		x += t.Width / 2
	case shape.AlignRight:
		x += t.Width
	}

	s.SetFillColor(t.StrokeFill)
	for i, line := range strings.Split(t.Text, "\n") {
		s.FillText(line, x, t.Y+float64(i)*font.Size*LineSpacing, font)
	}
}

func drawSelection(s Surface, sh shape.Shape) {
	b := geometry.BoundsOf(sh)

	s.Save()
	s.SetAlpha(1)
	s.SetStrokeColor(SelectionColor)
	s.SetLineWidth(SelectionLineWidth)
	s.SetLineDash(nil)

	box := b.Inset(geometry.HandlePadding)
	s.Stroke(RectPath(box.X, box.Y, box.Width, box.Height))

	if _, ok := sh.(*shape.FreeDraw); !ok {
		s.SetFillColor(HandleFill)
		const half = geometry.HandleSize / 2
		for _, c := range geometry.HandleCenters(b) {
			h := RectPath(c[0]-half, c[1]-half, geometry.HandleSize, geometry.HandleSize)
			s.Fill(h)
			s.Stroke(h)
		}
	}
	s.Restore()
}
