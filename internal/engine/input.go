package engine

import (
	"math"
	"strings"

	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
)

// KeyEvent is a key press with its modifier state.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
}

// PointerDown starts a gesture at device position (x, y).
func (e *Engine) PointerDown(x, y float64) {
	if e.closed || e.state == EditingText {
		return
	}
	// A gesture whose pointer-up never arrived is abandoned.
	if e.state != Idle || e.marked != nil || e.provisional != nil {
		e.state = Idle
		e.marked = nil
		e.provisional = nil
		e.requestRender()
	}
	sx, sy := e.view.ToScene(x, y)
	e.startX, e.startY = sx, sy

	switch e.tool {
	case ToolGrab:
		e.state = Panning
		e.lastX, e.lastY = x, y
		return
	case ToolText:
		e.openText(x, y, sx, sy)
		return
	case ToolEraser:
		e.marked = make(map[string]bool)
		e.markAt(sx, sy)
		e.state = Erasing
		e.requestRender()
		return
	}

	if sel := e.selected(); sel != nil {
		if h, ok := geometry.ResizeHandleAt(sel, sx, sy); ok {
			e.resize = newResizeGesture(sel, h)
			e.state = ResizingShape
			return
		}
	}

	if e.tool.selects() {
		if i := geometry.HitTestScene(e.scene, sx, sy); i >= 0 {
			id := e.scene[i].Base().ID
			if id == e.selectedID {
				e.state = DraggingShape
				e.lastX, e.lastY = sx, sy
			} else {
				e.setSelected(id)
			}
			e.requestRender()
			return
		}
		if e.selectedID != "" {
			e.setSelected("")
			e.requestRender()
			return
		}
		if e.tool == ToolSelection {
			return
		}
	}

	e.state = Drawing
	if e.tool == ToolFreeDraw {
		e.provisional = e.style.NewFreeDraw(shape.Point{X: sx, Y: sy})
	}
}

// PointerMove advances the current gesture.
func (e *Engine) PointerMove(x, y float64) {
	if e.closed {
		return
	}
	sx, sy := e.view.ToScene(x, y)

	switch e.state {
	case Panning:
		e.view.PanX += x - e.lastX
		e.view.PanY += y - e.lastY
		e.lastX, e.lastY = x, y
	case ResizingShape:
		sel := e.selected()
		if sel == nil {
			return
		}
		e.resize.apply(sel, sx-e.startX, sy-e.startY)
	case DraggingShape:
		sel := e.selected()
		if sel == nil {
			return
		}
		shape.Translate(sel, sx-e.lastX, sy-e.lastY)
		e.lastX, e.lastY = sx, sy
	case Erasing:
		if !e.markAt(sx, sy) {
			return
		}
	case Drawing:
		if fd, ok := e.provisional.(*shape.FreeDraw); ok {
			fd.Points = append(fd.Points, shape.Point{X: sx, Y: sy})
		} else {
			e.provisional = e.buildShape(sx, sy)
		}
	default:
		return
	}
	e.requestRender()
}

// PointerUp finishes the current gesture.
func (e *Engine) PointerUp(x, y float64) {
	if e.closed {
		return
	}
	sx, sy := e.view.ToScene(x, y)

	switch e.state {
	case Panning:
		e.state = Idle
		return
	case Erasing:
		e.state = Idle
		if len(e.marked) > 0 {
			kept := e.scene[:0:0]
			for _, s := range e.scene {
				if !e.marked[s.Base().ID] {
					kept = append(kept, s)
				}
			}
			e.scene = kept
			e.dropStaleSelection()
			e.commit()
			e.notifyCount()
		}
		e.marked = nil
	case ResizingShape, DraggingShape:
		e.state = Idle
		e.commit()
		e.notifySelection()
	case Drawing:
		e.state = Idle
		s := e.provisional
		if _, ok := s.(*shape.FreeDraw); !ok {
			s = e.buildShape(sx, sy)
		}
		e.provisional = nil
		if s == nil {
			return
		}
		e.scene = append(e.scene, s)
		e.setSelected(s.Base().ID)
		e.commit()
		e.notifyCount()
	default:
		return
	}
	e.requestRender()
}

// markAt marks the topmost shape under the scene point for erasure and
// reports whether anything new was marked.
func (e *Engine) markAt(sx, sy float64) bool {
	i := geometry.HitTestScene(e.scene, sx, sy)
	if i < 0 {
		return false
	}
	id := e.scene[i].Base().ID
	if e.marked[id] {
		return false
	}
	e.marked[id] = true
	return true
}

// buildShape makes the shape spanned by the gesture start and the scene
// point (ex, ey) for the active drawing tool.
func (e *Engine) buildShape(ex, ey float64) shape.Shape {
	x, y := e.startX, e.startY
	w, h := ex-x, ey-y
	switch e.tool {
	case ToolRectangle:
		return e.style.NewRectangle(x, y, w, h)
	case ToolDiamond:
		return e.style.NewDiamond(x, y, w, h)
	case ToolEllipse:
		return e.style.NewEllipse(x+w/2, y+h/2, math.Abs(w)/2, math.Abs(h)/2)
	case ToolLine:
		return e.style.NewLine(x, y, ex, ey)
	case ToolArrow:
		return e.style.NewArrow(x, y, ex, ey)
	}
	return nil
}

// Wheel zooms about device position (x, y): out when deltaY > 0, in
// otherwise.
func (e *Engine) Wheel(x, y, deltaY float64) {
	if e.closed {
		return
	}
	e.view = e.view.Wheel(x, y, deltaY)
	e.requestRender()
}

// KeyDown handles the editing shortcuts and reports whether the key was
// consumed. Keys are ignored while a text edit is open.
func (e *Engine) KeyDown(ev KeyEvent) bool {
	if e.closed || e.state == EditingText || !(ev.Ctrl || ev.Meta) {
		return false
	}
	switch strings.ToLower(ev.Key) {
	case "z":
		if ev.Shift {
			e.Redo()
		} else {
			e.Undo()
		}
	case "y":
		e.Redo()
	case "c":
		e.Copy()
	case "v":
		e.Paste()
	default:
		return false
	}
	return true
}

// --- Text editing ---

func (e *Engine) openText(x, y, sx, sy float64) {
	e.state = EditingText
	e.textAnchor = shape.Point{X: sx, Y: sy}
	if e.cb.TextEditRequested != nil {
		e.cb.TextEditRequested(x, y)
	}
}

// CommitText closes the open text edit. Non-blank text becomes a selected
// Text shape at the click point.
func (e *Engine) CommitText(text string) {
	if e.state != EditingText {
		return
	}
	e.state = Idle
	if text = strings.TrimSpace(text); text != "" {
		t := e.style.NewText(e.textAnchor.X, e.textAnchor.Y, text)
		e.scene = append(e.scene, t)
		e.setSelected(t.ID)
		e.commit()
		e.notifyCount()
	}
	e.forceRender()
}

// CancelText closes the open text edit without creating a shape.
func (e *Engine) CancelText() {
	if e.state != EditingText {
		return
	}
	e.state = Idle
	e.forceRender()
}

// EditingText reports whether a text edit is open.
func (e *Engine) EditingText() bool { return e.state == EditingText }

func (e *Engine) forceRender() {
	e.renderScheduled = false
	e.requestRender()
}
