package engine

import (
	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
)

// MinResize is the smallest width or height a resize can produce.
const MinResize = 20

// resizeGesture is frozen at pointer-down and replayed on every move.
type resizeGesture struct {
	handle geometry.Handle
	origin geometry.Rect
	// For lines and arrows: whether the start point sat on the left/top
	// edge of the box when the gesture began.
	startLeft bool
	startTop  bool
}

func newResizeGesture(s shape.Shape, h geometry.Handle) resizeGesture {
	g := resizeGesture{handle: h, origin: geometry.BoundsOf(s)}
	switch v := s.(type) {
	case *shape.Line:
		g.startLeft, g.startTop = g.origin.X == v.X, g.origin.Y == v.Y
	case *shape.Arrow:
		g.startLeft, g.startTop = g.origin.X == v.X, g.origin.Y == v.Y
	}
	return g
}

// resizeBox applies the corner rule to a box: east and south edges follow
// the delta, west and north edges move while the opposite edge stays put.
func resizeBox(b geometry.Rect, h geometry.Handle, dx, dy float64) geometry.Rect {
	out := b
	if h.HasEast() {
		out.Width = max(MinResize, b.Width+dx)
	}
	if h.HasWest() {
		out.Width = max(MinResize, b.Width-dx)
		out.X = b.X + b.Width - out.Width
	}
	if h.HasSouth() {
		out.Height = max(MinResize, b.Height+dy)
	}
	if h.HasNorth() {
		out.Height = max(MinResize, b.Height-dy)
		out.Y = b.Y + b.Height - out.Height
	}
	return out
}

// apply rewrites s from the frozen origin and the delta since the gesture
// started.
func (g resizeGesture) apply(s shape.Shape, dx, dy float64) {
	b := g.origin
	switch v := s.(type) {
	case *shape.Rectangle:
		box := resizeBox(b, g.handle, dx, dy)
		v.X, v.Y, v.Width, v.Height = box.X, box.Y, box.Width, box.Height
	case *shape.Diamond:
		box := resizeBox(b, g.handle, dx, dy)
		v.X, v.Y, v.Width, v.Height = box.X, box.Y, box.Width, box.Height
	case *shape.Ellipse:
		box := resizeBox(b, g.handle, dx, dy)
		v.X, v.Y = box.Center()
		v.RadX, v.RadY = box.Width/2, box.Height/2
	case *shape.Text:
		box := resizeBox(b, g.handle, dx, dy)
		v.X, v.Width, v.Height = box.X, box.Width, box.Height
		v.Y = box.Y + box.Height
	case *shape.Line:
		g.moveEndpoint(&v.X, &v.Y, &v.ToX, &v.ToY, dx, dy)
	case *shape.Arrow:
		g.moveEndpoint(&v.X, &v.Y, &v.ToX, &v.ToY, dx, dy)
	}
}

// moveEndpoint moves the endpoint that sat at the dragged corner to that
// corner plus the delta.
func (g resizeGesture) moveEndpoint(x, y, toX, toY *float64, dx, dy float64) {
	b := g.origin
	left, top := b.X+dx, b.Y+dy
	right, bottom := b.X+b.Width+dx, b.Y+b.Height+dy

	switch g.handle {
	case geometry.HandleSE:
		if g.startLeft && g.startTop {
			*toX, *toY = right, bottom
		} else {
			*x, *y = right, bottom
		}
	case geometry.HandleNW:
		if g.startLeft && g.startTop {
			*x, *y = left, top
		} else {
			*toX, *toY = left, top
		}
	case geometry.HandleNE:
		if g.startLeft {
			*toX, *toY = right, top
		} else {
			*x, *y = right, top
		}
	case geometry.HandleSW:
		if g.startTop {
			*toX, *toY = left, bottom
		} else {
			*x, *y = left, bottom
		}
	}
}
