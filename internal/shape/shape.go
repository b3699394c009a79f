// Package shape defines the whiteboard's drawable primitives.
//
// A Shape is one of seven concrete variants. The set is closed: the
// unexported marker method keeps other packages from adding variants, so
// type switches over the variants below are exhaustive.
package shape

import (
	"github.com/inamate/whiteboard/internal/typeid"
)

// Kind is the variant tag carried in the JSON "type" field.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindDiamond   Kind = "diamond"
	KindLine      Kind = "line"
	KindArrow     Kind = "arrow"
	KindFreeDraw  Kind = "free-draw"
	KindText      Kind = "text"
)

// Point is a 2D coordinate in scene space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Common holds the fields every variant carries.
type Common struct {
	ID          string      `json:"id"`
	StrokeWidth StrokeWidth `json:"strokeWidth"`
	StrokeFill  string      `json:"strokeFill"`
	StrokeStyle StrokeStyle `json:"strokeStyle"`
	Opacity     float64     `json:"opacity"`
}

// Fill holds the background fields of closed outlines.
type Fill struct {
	BgFill    string    `json:"bgFill"`
	FillStyle FillStyle `json:"fillStyle"`
}

// Shape is implemented by *Rectangle, *Ellipse, *Diamond, *Line, *Arrow,
// *FreeDraw and *Text.
type Shape interface {
	Kind() Kind
	Base() *Common
	Clone() Shape
	shape()
}

// Filled is implemented by the variants with a fill style: rectangle,
// ellipse and diamond.
type Filled interface {
	Shape
	FillProps() *Fill
}

type Rectangle struct {
	Common
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill
}

// Ellipse is centered on (X, Y).
type Ellipse struct {
	Common
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	RadX float64 `json:"radX"`
	RadY float64 `json:"radY"`
	Fill
}

type Diamond struct {
	Common
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill
}

type Line struct {
	Common
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	ToX float64 `json:"toX"`
	ToY float64 `json:"toY"`
}

type Arrow struct {
	Common
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	ToX float64 `json:"toX"`
	ToY float64 `json:"toY"`
}

type FreeDraw struct {
	Common
	Points []Point `json:"points"`
}

// Text is anchored at its baseline: Y is the bottom of its box.
type Text struct {
	Common
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Text       string     `json:"text"`
	FontSize   FontSize   `json:"fontSize"`
	FontFamily FontFamily `json:"fontFamily"`
	TextAlign  TextAlign  `json:"textAlign"`
	BgFill     string     `json:"bgFill"`
}

func (*Rectangle) Kind() Kind { return KindRectangle }
func (*Ellipse) Kind() Kind   { return KindEllipse }
func (*Diamond) Kind() Kind   { return KindDiamond }
func (*Line) Kind() Kind      { return KindLine }
func (*Arrow) Kind() Kind     { return KindArrow }
func (*FreeDraw) Kind() Kind  { return KindFreeDraw }
func (*Text) Kind() Kind      { return KindText }

func (s *Rectangle) Base() *Common { return &s.Common }
func (s *Ellipse) Base() *Common   { return &s.Common }
func (s *Diamond) Base() *Common   { return &s.Common }
func (s *Line) Base() *Common      { return &s.Common }
func (s *Arrow) Base() *Common     { return &s.Common }
func (s *FreeDraw) Base() *Common  { return &s.Common }
func (s *Text) Base() *Common      { return &s.Common }

func (s *Rectangle) FillProps() *Fill { return &s.Fill }
func (s *Ellipse) FillProps() *Fill   { return &s.Fill }
func (s *Diamond) FillProps() *Fill   { return &s.Fill }

func (s *Rectangle) Clone() Shape { c := *s; return &c }
func (s *Ellipse) Clone() Shape   { c := *s; return &c }
func (s *Diamond) Clone() Shape   { c := *s; return &c }
func (s *Line) Clone() Shape      { c := *s; return &c }
func (s *Arrow) Clone() Shape     { c := *s; return &c }
func (s *Text) Clone() Shape      { c := *s; return &c }

func (s *FreeDraw) Clone() Shape {
	c := *s
	c.Points = append([]Point(nil), s.Points...)
	return &c
}

func (*Rectangle) shape() {}
func (*Ellipse) shape()   {}
func (*Diamond) shape()   {}
func (*Line) shape()      {}
func (*Arrow) shape()     {}
func (*FreeDraw) shape()  {}
func (*Text) shape()      {}

// NewID returns a fresh shape id.
func NewID() string {
	return typeid.NewShapeID()
}

// CloneScene returns a deep copy of scene. A nil scene clones to an empty,
// non-nil slice so snapshots always encode as a JSON array.
func CloneScene(scene []Shape) []Shape {
	out := make([]Shape, len(scene))
	for i, s := range scene {
		out[i] = s.Clone()
	}
	return out
}

// Translate moves every positional field of s by (dx, dy).
func Translate(s Shape, dx, dy float64) {
	switch v := s.(type) {
	case *Rectangle:
		v.X += dx
		v.Y += dy
	case *Ellipse:
		v.X += dx
		v.Y += dy
	case *Diamond:
		v.X += dx
		v.Y += dy
	case *Line:
		v.X += dx
		v.Y += dy
		v.ToX += dx
		v.ToY += dy
	case *Arrow:
		v.X += dx
		v.Y += dy
		v.ToX += dx
		v.ToY += dy
	case *FreeDraw:
		for i := range v.Points {
			v.Points[i].X += dx
			v.Points[i].Y += dy
		}
	case *Text:
		v.X += dx
		v.Y += dy
	}
}

// Index returns the position of the shape with the given id, or -1.
func Index(scene []Shape, id string) int {
	if id == "" {
		return -1
	}
	for i, s := range scene {
		if s.Base().ID == id {
			return i
		}
	}
	return -1
}
