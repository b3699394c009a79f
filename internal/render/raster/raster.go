// Package raster paints frames into images with github.com/gogpu/gg.
package raster

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/shape"
)

type fontSet struct {
	regular *text.FontSource
	mono    *text.FontSource
	italic  *text.FontSource
}

var loadFonts = sync.OnceValues(func() (fontSet, error) {
	var fs fontSet
	var err error
	if fs.regular, err = text.NewFontSource(goregular.TTF); err != nil {
		return fs, fmt.Errorf("load regular font: %w", err)
	}
	if fs.mono, err = text.NewFontSource(gomono.TTF); err != nil {
		return fs, fmt.Errorf("load mono font: %w", err)
	}
	if fs.italic, err = text.NewFontSource(goitalic.TTF); err != nil {
		return fs, fmt.Errorf("load italic font: %w", err)
	}
	return fs, nil
})

func (fs fontSet) source(f shape.FontFamily) *text.FontSource {
	switch f {
	case shape.FontCode:
		return fs.mono
	case shape.FontHandDrawn:
		return fs.italic
	}
	return fs.regular
}

type style struct {
	alpha     float64
	lineWidth float64
	dash      []float64
	stroke    gg.RGBA
	fill      gg.RGBA
	matrix    geometry.Matrix2D
}

// Surface implements render.Surface on a gg.Context.
type Surface struct {
	dc    *gg.Context
	fonts fontSet
	st    style
	stack []style
}

// NewSurface creates a width×height raster surface.
func NewSurface(width, height int) (*Surface, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &Surface{
		dc:    gg.NewContext(width, height),
		fonts: fonts,
		st:    style{alpha: 1, lineWidth: 1, matrix: geometry.Identity()},
	}, nil
}

// Context exposes the underlying gg context.
func (s *Surface) Context() *gg.Context { return s.dc }

// EncodePNG writes the surface as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

func (s *Surface) Close() error { return s.dc.Close() }

func (s *Surface) Clear(width, height float64, background string) {
	if shape.IsTransparent(background) {
		s.dc.Clear()
		return
	}
	s.dc.ClearWithColor(gg.Hex(background))
}

func (s *Surface) Save() {
	s.stack = append(s.stack, s.st)
	s.dc.Push()
}

func (s *Surface) Restore() {
	if n := len(s.stack); n > 0 {
		s.st = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
	s.dc.Pop()
}

func (s *Surface) SetTransform(m geometry.Matrix2D) {
	s.st.matrix = m
	s.dc.SetTransform(toGG(m))
}

func (s *Surface) SetAlpha(a float64)         { s.st.alpha = a }
func (s *Surface) SetLineWidth(w float64)     { s.st.lineWidth = w }
func (s *Surface) SetLineDash(dash []float64) { s.st.dash = dash }
func (s *Surface) SetStrokeColor(c string)    { s.st.stroke = gg.Hex(c) }
func (s *Surface) SetFillColor(c string)      { s.st.fill = gg.Hex(c) }

func (s *Surface) Stroke(p render.Path) {
	s.setColor(s.st.stroke)
	s.dc.SetLineWidth(s.st.lineWidth)
	if len(s.st.dash) > 0 {
		s.dc.SetDash(s.st.dash...)
	} else {
		s.dc.ClearDash()
	}
	s.trace(p)
	if err := s.dc.Stroke(); err != nil {
		slog.Warn("raster stroke failed", "error", err)
	}
}

func (s *Surface) Fill(p render.Path) {
	s.setColor(s.st.fill)
	s.trace(p)
	if err := s.dc.Fill(); err != nil {
		slog.Warn("raster fill failed", "error", err)
	}
}

func (s *Surface) Clip(p render.Path) {
	s.trace(p)
	s.dc.Clip()
}

// FillText maps the anchor through the current transform itself, since gg
// draws strings in device space.
func (s *Surface) FillText(str string, x, y float64, font render.Font) {
	if str == "" {
		return
	}
	scale := s.st.matrix.ScaleFactor()
	s.dc.SetFont(s.fonts.source(font.Family).Face(font.Size * scale))
	s.setColor(s.st.fill)

	dx, dy := s.st.matrix.TransformPoint(x, y)
	w, _ := s.dc.MeasureString(str)
	switch font.Align {
	case shape.AlignCenter:
		dx -= w / 2
	case shape.AlignRight:
		dx -= w
	}
	s.dc.DrawString(str, dx, dy)
}

func (s *Surface) setColor(c gg.RGBA) {
	s.dc.SetRGBA(c.R, c.G, c.B, c.A*s.st.alpha)
}

func (s *Surface) trace(p render.Path) {
	s.dc.ClearPath()
	for _, c := range p {
		switch c.Verb {
		case render.MoveTo:
			s.dc.MoveTo(c.Args[0], c.Args[1])
		case render.LineTo:
			s.dc.LineTo(c.Args[0], c.Args[1])
		case render.ClosePath:
			s.dc.ClosePath()
		case render.EllipseTo:
			s.dc.DrawEllipse(c.Args[0], c.Args[1], c.Args[2], c.Args[3])
		}
	}
}

func toGG(m geometry.Matrix2D) gg.Matrix {
	return gg.Matrix{A: m[0], B: m[2], C: m[4], D: m[1], E: m[3], F: m[5]}
}

// Exporter renders frames to PNG.
type Exporter struct{}

func (Exporter) ContentType() string { return "image/png" }

func (Exporter) Export(w io.Writer, f render.Frame) error {
	width, height := int(math.Ceil(f.Width)), int(math.Ceil(f.Height))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("export png: invalid size %dx%d", width, height)
	}
	s, err := NewSurface(width, height)
	if err != nil {
		return err
	}
	defer s.Close()

	render.RenderFrame(s, f)
	if err := s.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
