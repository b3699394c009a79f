// Package pdf paints frames onto a single PDF page with gofpdf.
//
// One scene unit maps to one point before the view transform. The surface
// applies the transform itself: the view only translates and scales
// uniformly, so points, radii, widths and font sizes map directly.
package pdf

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"
	"github.com/jung-kurt/gofpdf"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/shape"
)

type style struct {
	alpha     float64
	lineWidth float64
	dash      []float64
	stroke    gg.RGBA
	fill      gg.RGBA
	matrix    geometry.Matrix2D
	clips     int
}

// Surface implements render.Surface on a gofpdf document.
type Surface struct {
	doc   *gofpdf.Fpdf
	tr    func(string) string
	st    style
	stack []style
}

// NewSurface creates a document with one width×height point page.
func NewSurface(width, height float64) *Surface {
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	return &Surface{
		doc: doc,
		tr:  doc.UnicodeTranslatorFromDescriptor(""),
		st:  style{alpha: 1, lineWidth: 1, matrix: geometry.Identity()},
	}
}

// Output writes the finished document.
func (s *Surface) Output(w io.Writer) error {
	for s.st.clips > 0 {
		s.doc.ClipEnd()
		s.st.clips--
	}
	return s.doc.Output(w)
}

func (s *Surface) Clear(width, height float64, background string) {
	if shape.IsTransparent(background) {
		return
	}
	c := gg.Hex(background)
	s.doc.SetAlpha(1, "Normal")
	s.doc.SetFillColor(channel(c.R), channel(c.G), channel(c.B))
	s.doc.Rect(0, 0, width, height, "F")
}

func (s *Surface) Save() {
	s.stack = append(s.stack, s.st)
	s.st.clips = 0
}

func (s *Surface) Restore() {
	for ; s.st.clips > 0; s.st.clips-- {
		s.doc.ClipEnd()
	}
	if n := len(s.stack); n > 0 {
		s.st = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
}

func (s *Surface) SetTransform(m geometry.Matrix2D) { s.st.matrix = m }
func (s *Surface) SetAlpha(a float64)               { s.st.alpha = a }
func (s *Surface) SetLineWidth(w float64)           { s.st.lineWidth = w }
func (s *Surface) SetLineDash(dash []float64)       { s.st.dash = dash }
func (s *Surface) SetStrokeColor(c string)          { s.st.stroke = gg.Hex(c) }
func (s *Surface) SetFillColor(c string)            { s.st.fill = gg.Hex(c) }

func (s *Surface) Stroke(p render.Path) {
	k := s.st.matrix.ScaleFactor()
	c := s.st.stroke
	s.doc.SetAlpha(c.A*s.st.alpha, "Normal")
	s.doc.SetDrawColor(channel(c.R), channel(c.G), channel(c.B))
	s.doc.SetLineWidth(s.st.lineWidth * k)

	dash := make([]float64, len(s.st.dash))
	for i, d := range s.st.dash {
		dash[i] = d * k
	}
	s.doc.SetDashPattern(dash, 0)
	s.draw(p, "D")
}

func (s *Surface) Fill(p render.Path) {
	c := s.st.fill
	s.doc.SetAlpha(c.A*s.st.alpha, "Normal")
	s.doc.SetFillColor(channel(c.R), channel(c.G), channel(c.B))
	s.draw(p, "F")
}

// Clip supports a single ellipse or the first polygonal subpath of p,
// which covers every outline the renderer clips to.
func (s *Surface) Clip(p render.Path) {
	if len(p) == 0 {
		return
	}
	if p[0].Verb == render.EllipseTo {
		x, y, rx, ry := s.ellipse(p[0].Args)
		s.doc.ClipEllipse(x, y, rx, ry, false)
		s.st.clips++
		return
	}

	var pts []gofpdf.PointType
	for i, c := range p {
		if c.Verb == render.ClosePath || (c.Verb == render.MoveTo && i > 0) {
			break
		}
		if c.Verb == render.MoveTo || c.Verb == render.LineTo {
			x, y := s.st.matrix.TransformPoint(c.Args[0], c.Args[1])
			pts = append(pts, gofpdf.PointType{X: x, Y: y})
		}
	}
	if len(pts) < 3 {
		return
	}
	s.doc.ClipPolygon(pts, false)
	s.st.clips++
}

func (s *Surface) FillText(str string, x, y float64, font render.Font) {
	if str == "" {
		return
	}
	family, styleStr := "Helvetica", ""
	switch font.Family {
	case shape.FontCode:
		family = "Courier"
	case shape.FontHandDrawn:
		family, styleStr = "Times", "I"
	}

	k := s.st.matrix.ScaleFactor()
	s.doc.SetFont(family, styleStr, font.Size*k)

	c := s.st.fill
	s.doc.SetAlpha(c.A*s.st.alpha, "Normal")
	s.doc.SetTextColor(channel(c.R), channel(c.G), channel(c.B))

	txt := s.tr(str)
	dx, dy := s.st.matrix.TransformPoint(x, y)
	w := s.doc.GetStringWidth(txt)
	switch font.Align {
	case shape.AlignCenter:
		dx -= w / 2
	case shape.AlignRight:
		dx -= w
	}
	s.doc.Text(dx, dy, txt)
}

func (s *Surface) draw(p render.Path, styleStr string) {
	open := false
	for _, c := range p {
		switch c.Verb {
		case render.MoveTo:
			if open {
				s.doc.DrawPath(styleStr)
			}
			x, y := s.st.matrix.TransformPoint(c.Args[0], c.Args[1])
			s.doc.MoveTo(x, y)
			open = true
		case render.LineTo:
			x, y := s.st.matrix.TransformPoint(c.Args[0], c.Args[1])
			s.doc.LineTo(x, y)
		case render.ClosePath:
			s.doc.ClosePath()
		case render.EllipseTo:
			if open {
				s.doc.DrawPath(styleStr)
				open = false
			}
			x, y, rx, ry := s.ellipse(c.Args)
			s.doc.Ellipse(x, y, rx, ry, 0, styleStr)
		}
	}
	if open {
		s.doc.DrawPath(styleStr)
	}
}

func (s *Surface) ellipse(args []float64) (x, y, rx, ry float64) {
	k := s.st.matrix.ScaleFactor()
	x, y = s.st.matrix.TransformPoint(args[0], args[1])
	return x, y, args[2] * k, args[3] * k
}

func channel(v float64) int {
	return int(v*255 + 0.5)
}

// Exporter renders frames to PDF.
type Exporter struct{}

func (Exporter) ContentType() string { return "application/pdf" }

func (Exporter) Export(w io.Writer, f render.Frame) error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("export pdf: invalid size %vx%v", f.Width, f.Height)
	}
	s := NewSurface(f.Width, f.Height)
	render.RenderFrame(s, f)
	if err := s.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
