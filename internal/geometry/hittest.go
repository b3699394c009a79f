package geometry

import (
	"math"

	"github.com/inamate/whiteboard/internal/shape"
)

const (
	// StrokeHitTolerance is how close a point must be to a line, arrow or
	// free-draw vertex to count as a hit.
	StrokeHitTolerance = 10

	HandleSize    = 10
	HandlePadding = 8
	// HandleTolerance is the per-axis hit distance around a handle center.
	HandleTolerance = HandleSize/2 + 2
)

// Handle names a resize corner of the selection box.
type Handle string

const (
	HandleNW Handle = "nw"
	HandleNE Handle = "ne"
	HandleSW Handle = "sw"
	HandleSE Handle = "se"
)

// Handles lists the corners in the order they are tested and drawn.
var Handles = []Handle{HandleNW, HandleNE, HandleSW, HandleSE}

// HasEast reports whether the handle moves the right edge.
func (h Handle) HasEast() bool { return h == HandleNE || h == HandleSE }

// HasWest reports whether the handle moves the left edge.
func (h Handle) HasWest() bool { return h == HandleNW || h == HandleSW }

// HasNorth reports whether the handle moves the top edge.
func (h Handle) HasNorth() bool { return h == HandleNW || h == HandleNE }

// HasSouth reports whether the handle moves the bottom edge.
func (h Handle) HasSouth() bool { return h == HandleSW || h == HandleSE }

// BoundsOf returns the axis-aligned box of s in scene coordinates.
func BoundsOf(s shape.Shape) Rect {
	switch v := s.(type) {
	case *shape.Rectangle:
		return Rect{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}.Normalize()
	case *shape.Diamond:
		return Rect{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}.Normalize()
	case *shape.Ellipse:
		return Rect{X: v.X - v.RadX, Y: v.Y - v.RadY, Width: 2 * v.RadX, Height: 2 * v.RadY}
	case *shape.Line:
		return segmentBounds(v.X, v.Y, v.ToX, v.ToY)
	case *shape.Arrow:
		return segmentBounds(v.X, v.Y, v.ToX, v.ToY)
	case *shape.FreeDraw:
		return pointsBounds(v.Points)
	case *shape.Text:
		return Rect{X: v.X, Y: v.Y - v.Height, Width: v.Width, Height: v.Height}
	}
	return Rect{}
}

func segmentBounds(x1, y1, x2, y2 float64) Rect {
	return Rect{
		X:      min(x1, x2),
		Y:      min(y1, y2),
		Width:  math.Abs(x2 - x1),
		Height: math.Abs(y2 - y1),
	}
}

func pointsBounds(pts []shape.Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// HitTest reports whether the scene point (x, y) lies on s.
//
// Free-draw strokes are tested against their vertices only, not the
// segments between them, so fast strokes with widely spaced points have
// gaps that cannot be clicked.
func HitTest(s shape.Shape, x, y float64) bool {
	switch v := s.(type) {
	case *shape.Rectangle:
		return BoundsOf(v).Contains(x, y)
	case *shape.Ellipse:
		dx := (x - v.X) / v.RadX
		dy := (y - v.Y) / v.RadY
		return dx*dx+dy*dy <= 1
	case *shape.Diamond:
		b := BoundsOf(v)
		cx, cy := b.Center()
		dx := math.Abs(x-cx) / (b.Width / 2)
		dy := math.Abs(y-cy) / (b.Height / 2)
		return dx+dy <= 1
	case *shape.Line:
		return PointToSegmentDistance(x, y, v.X, v.Y, v.ToX, v.ToY) < StrokeHitTolerance
	case *shape.Arrow:
		return PointToSegmentDistance(x, y, v.X, v.Y, v.ToX, v.ToY) < StrokeHitTolerance
	case *shape.FreeDraw:
		for _, p := range v.Points {
			if math.Hypot(x-p.X, y-p.Y) < StrokeHitTolerance {
				return true
			}
		}
		return false
	case *shape.Text:
		return x >= v.X && x <= v.X+v.Width && y >= v.Y-v.Height && y <= v.Y
	}
	return false
}

// PointToSegmentDistance returns the distance from (px, py) to the segment
// (x1, y1)-(x2, y2). A zero-length segment measures to its start point.
func PointToSegmentDistance(px, py, x1, y1, x2, y2 float64) float64 {
	cx, cy := x2-x1, y2-y1
	lenSq := cx*cx + cy*cy

	t := -1.0
	if lenSq != 0 {
		t = ((px-x1)*cx + (py-y1)*cy) / lenSq
	}

	var nx, ny float64
	switch {
	case t < 0:
		nx, ny = x1, y1
	case t > 1:
		nx, ny = x2, y2
	default:
		nx, ny = x1+t*cx, y1+t*cy
	}
	return math.Hypot(px-nx, py-ny)
}

// HitTestScene returns the index of the topmost shape under (x, y), or -1.
func HitTestScene(scene []shape.Shape, x, y float64) int {
	for i := len(scene) - 1; i >= 0; i-- {
		if HitTest(scene[i], x, y) {
			return i
		}
	}
	return -1
}

// HandleCenters returns the centers of the four resize handles of a box,
// keyed in Handles order.
func HandleCenters(b Rect) [4][2]float64 {
	return [4][2]float64{
		{b.X - HandlePadding, b.Y - HandlePadding},
		{b.X + b.Width + HandlePadding, b.Y - HandlePadding},
		{b.X - HandlePadding, b.Y + b.Height + HandlePadding},
		{b.X + b.Width + HandlePadding, b.Y + b.Height + HandlePadding},
	}
}

// ResizeHandleAt returns the corner handle of s under (x, y). Free-draw
// shapes have no handles.
func ResizeHandleAt(s shape.Shape, x, y float64) (Handle, bool) {
	if _, ok := s.(*shape.FreeDraw); ok {
		return "", false
	}
	centers := HandleCenters(BoundsOf(s))
	for i, h := range Handles {
		c := centers[i]
		if math.Abs(x-c[0]) < HandleTolerance && math.Abs(y-c[1]) < HandleTolerance {
			return h, true
		}
	}
	return "", false
}
