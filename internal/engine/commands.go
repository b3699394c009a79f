package engine

import (
	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/shape"
)

// SetTool switches the active tool. Switching never cancels the selection.
func (e *Engine) SetTool(t Tool) error {
	if !tools[t] {
		return ErrUnknownTool
	}
	e.tool = t
	return nil
}

// --- Default style for new shapes ---

func (e *Engine) SetStrokeWidth(w shape.StrokeWidth) error {
	if !w.Valid() {
		return shape.ErrInvalidStrokeWidth
	}
	e.style.StrokeWidth = w
	return nil
}

func (e *Engine) SetStrokeFill(c string) error {
	c, err := shape.NormalizeColor(c)
	if err != nil {
		return err
	}
	e.style.StrokeFill = c
	return nil
}

func (e *Engine) SetBgFill(c string) error {
	c, err := shape.NormalizeColor(c)
	if err != nil {
		return err
	}
	e.style.BgFill = c
	return nil
}

func (e *Engine) SetStrokeStyle(s shape.StrokeStyle) error {
	if !s.Valid() {
		return shape.ErrInvalidStrokeStyle
	}
	e.style.StrokeStyle = s
	return nil
}

func (e *Engine) SetFillStyle(f shape.FillStyle) error {
	if !f.Valid() {
		return shape.ErrInvalidFillStyle
	}
	e.style.FillStyle = f
	return nil
}

func (e *Engine) SetFontSize(size shape.FontSize) error {
	if size <= 0 {
		return ErrInvalidFontSize
	}
	e.style.FontSize = size
	return nil
}

func (e *Engine) SetFontFamily(f shape.FontFamily) error {
	if !f.Valid() {
		return shape.ErrInvalidFont
	}
	e.style.FontFamily = f
	return nil
}

func (e *Engine) SetTextAlign(a shape.TextAlign) error {
	if !a.Valid() {
		return shape.ErrInvalidFont
	}
	e.style.TextAlign = a
	return nil
}

// --- Selected-shape style ---

// updateSelected applies fn to the selected shape. When fn reports a change
// the edit is committed, redrawn and announced. Without a selection, or for
// a variant lacking the field, nothing happens.
func (e *Engine) updateSelected(fn func(s shape.Shape) bool) {
	sel := e.selected()
	if sel == nil || !fn(sel) {
		return
	}
	e.commit()
	e.requestRender()
	e.notifySelection()
}

func (e *Engine) UpdateSelectedStrokeWidth(w shape.StrokeWidth) error {
	if !w.Valid() {
		return shape.ErrInvalidStrokeWidth
	}
	e.updateSelected(func(s shape.Shape) bool {
		s.Base().StrokeWidth = w
		return true
	})
	return nil
}

func (e *Engine) UpdateSelectedStrokeFill(c string) error {
	c, err := shape.NormalizeColor(c)
	if err != nil {
		return err
	}
	e.updateSelected(func(s shape.Shape) bool {
		s.Base().StrokeFill = c
		return true
	})
	return nil
}

func (e *Engine) UpdateSelectedStrokeStyle(st shape.StrokeStyle) error {
	if !st.Valid() {
		return shape.ErrInvalidStrokeStyle
	}
	e.updateSelected(func(s shape.Shape) bool {
		s.Base().StrokeStyle = st
		return true
	})
	return nil
}

// UpdateSelectedOpacity sets the selected shape's opacity, clamped to
// [MinOpacity, MaxOpacity].
func (e *Engine) UpdateSelectedOpacity(o float64) {
	o = shape.ClampOpacity(o)
	e.updateSelected(func(s shape.Shape) bool {
		s.Base().Opacity = o
		return true
	})
}

// UpdateSelectedBgFill applies to rectangles, ellipses, diamonds and text.
func (e *Engine) UpdateSelectedBgFill(c string) error {
	c, err := shape.NormalizeColor(c)
	if err != nil {
		return err
	}
	e.updateSelected(func(s shape.Shape) bool {
		switch v := s.(type) {
		case shape.Filled:
			v.FillProps().BgFill = c
		case *shape.Text:
			v.BgFill = c
		default:
			return false
		}
		return true
	})
	return nil
}

func (e *Engine) UpdateSelectedFillStyle(f shape.FillStyle) error {
	if !f.Valid() {
		return shape.ErrInvalidFillStyle
	}
	e.updateSelected(func(s shape.Shape) bool {
		v, ok := s.(shape.Filled)
		if ok {
			v.FillProps().FillStyle = f
		}
		return ok
	})
	return nil
}

func (e *Engine) UpdateSelectedFontSize(size shape.FontSize) error {
	if size <= 0 {
		return ErrInvalidFontSize
	}
	e.updateText(func(t *shape.Text) { t.FontSize = size })
	return nil
}

func (e *Engine) UpdateSelectedFontFamily(f shape.FontFamily) error {
	if !f.Valid() {
		return shape.ErrInvalidFont
	}
	e.updateText(func(t *shape.Text) { t.FontFamily = f })
	return nil
}

func (e *Engine) UpdateSelectedTextAlign(a shape.TextAlign) error {
	if !a.Valid() {
		return shape.ErrInvalidFont
	}
	e.updateText(func(t *shape.Text) { t.TextAlign = a })
	return nil
}

func (e *Engine) updateText(fn func(t *shape.Text)) {
	e.updateSelected(func(s shape.Shape) bool {
		t, ok := s.(*shape.Text)
		if ok {
			fn(t)
		}
		return ok
	})
}

// --- View ---

// ZoomIn scales the view by ZoomStep about the viewport center.
func (e *Engine) ZoomIn() { e.zoom(geometry.ZoomStep) }

// ZoomOut scales the view by 1/ZoomStep about the viewport center.
func (e *Engine) ZoomOut() { e.zoom(1 / geometry.ZoomStep) }

func (e *Engine) zoom(factor float64) {
	e.view = e.view.ZoomAt(e.width/2, e.height/2, factor)
	e.requestRender()
}

// ResetZoom restores scale 1 and zero pan.
func (e *Engine) ResetZoom() {
	e.view = geometry.DefaultView()
	e.requestRender()
}

// --- Scene ---

// Select selects the shape with the given id, or clears the selection for
// an empty id. It reports whether the id was found.
func (e *Engine) Select(id string) bool {
	if id != "" && shape.Index(e.scene, id) < 0 {
		return false
	}
	e.setSelected(id)
	e.requestRender()
	return true
}

// Undo steps back one history entry. The restored scene is persisted but
// not re-committed.
func (e *Engine) Undo() bool {
	scene, ok := e.hist.Undo()
	if !ok {
		return false
	}
	e.restore(scene)
	return true
}

// Redo steps forward one history entry.
func (e *Engine) Redo() bool {
	scene, ok := e.hist.Redo()
	if !ok {
		return false
	}
	e.restore(scene)
	return true
}

func (e *Engine) restore(scene []shape.Shape) {
	e.scene = scene
	e.dropStaleSelection()
	e.persist()
	e.notifyCount()
	e.requestRender()
}

// Copy puts a copy of the selected shape on the clipboard and reports
// whether there was one to copy.
func (e *Engine) Copy() bool {
	return e.clip.Copy(e.selected())
}

// Paste appends a copy of the clipboard shape, offset from the last paste,
// and selects it.
func (e *Engine) Paste() bool {
	s, ok := e.clip.Paste()
	if !ok {
		return false
	}
	e.scene = append(e.scene, s)
	e.setSelected(s.Base().ID)
	e.commit()
	e.notifyCount()
	e.requestRender()
	return true
}

// Clear empties the board and resets history to a single empty entry. It
// cannot be undone.
func (e *Engine) Clear() {
	e.scene = []shape.Shape{}
	e.provisional = nil
	e.marked = nil
	if e.state != EditingText {
		e.state = Idle
	}
	e.setSelected("")
	e.hist.Reset(e.scene)
	e.persist()
	e.notifyCount()
	e.requestRender()
}
