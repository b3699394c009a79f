package render

import (
	"encoding/json"
	"math"

	"github.com/inamate/whiteboard/internal/geometry"
)

// Verb identifies a path segment.
type Verb string

const (
	MoveTo    Verb = "M"
	LineTo    Verb = "L"
	ClosePath Verb = "Z"
	// EllipseTo adds a full closed ellipse: cx, cy, rx, ry.
	EllipseTo Verb = "E"
)

// PathCommand is a single path segment. It serializes in the Canvas2D-friendly
// array form: ["M", x, y], ["L", x, y], ["Z"], ["E", cx, cy, rx, ry].
type PathCommand struct {
	Verb Verb
	Args []float64
}

func (c PathCommand) MarshalJSON() ([]byte, error) {
	arr := make([]any, 0, len(c.Args)+1)
	arr = append(arr, c.Verb)
	for _, a := range c.Args {
		arr = append(arr, a)
	}
	return json.Marshal(arr)
}

// Path is an ordered list of segments, possibly holding several subpaths.
type Path []PathCommand

func (p Path) MoveTo(x, y float64) Path { return append(p, PathCommand{MoveTo, []float64{x, y}}) }
func (p Path) LineTo(x, y float64) Path { return append(p, PathCommand{LineTo, []float64{x, y}}) }
func (p Path) Close() Path              { return append(p, PathCommand{Verb: ClosePath}) }

func (p Path) Ellipse(cx, cy, rx, ry float64) Path {
	return append(p, PathCommand{EllipseTo, []float64{cx, cy, math.Abs(rx), math.Abs(ry)}})
}

// RectPath outlines x, y, w, h as given; negative sizes are allowed.
func RectPath(x, y, w, h float64) Path {
	return Path{}.MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close()
}

// DiamondPath joins the edge midpoints of the box.
func DiamondPath(x, y, w, h float64) Path {
	cx, cy := x+w/2, y+h/2
	return Path{}.MoveTo(cx, y).LineTo(x+w, cy).LineTo(cx, y+h).LineTo(x, cy).Close()
}

func EllipsePath(cx, cy, rx, ry float64) Path {
	return Path{}.Ellipse(cx, cy, rx, ry)
}

func SegmentPath(x1, y1, x2, y2 float64) Path {
	return Path{}.MoveTo(x1, y1).LineTo(x2, y2)
}

// HatchPath returns the diagonal fill lines for box at HatchGap spacing.
// Cross adds the opposite diagonal. Lines overshoot the box and are meant to
// be clipped to the shape outline.
func HatchPath(box geometry.Rect, cross bool) Path {
	x, y, w, h := box.X, box.Y, box.Width, box.Height
	var p Path
	for i := -h; i < w; i += HatchGap {
		p = p.MoveTo(x+i, y).LineTo(x+i+h, y+h)
	}
	if cross {
		for i := 0.0; i < w+h; i += HatchGap {
			p = p.MoveTo(x+i, y).LineTo(x+i-h, y+h)
		}
	}
	return p
}

// Bounds returns the box covering every point of the path.
func (p Path) Bounds() geometry.Rect {
	first := true
	var minX, minY, maxX, maxY float64
	add := func(x, y float64) {
		if first {
			minX, minY, maxX, maxY = x, y, x, y
			first = false
			return
		}
		minX, minY = min(minX, x), min(minY, y)
		maxX, maxY = max(maxX, x), max(maxY, y)
	}
	for _, c := range p {
		switch c.Verb {
		case MoveTo, LineTo:
			add(c.Args[0], c.Args[1])
		case EllipseTo:
			add(c.Args[0]-c.Args[2], c.Args[1]-c.Args[3])
			add(c.Args[0]+c.Args[2], c.Args[1]+c.Args[3])
		}
	}
	return geometry.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
