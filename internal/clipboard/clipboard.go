// Package clipboard holds the single-slot shape clipboard.
package clipboard

import "github.com/inamate/whiteboard/internal/shape"

// PasteOffset is how far each paste lands from the previous one.
const PasteOffset = 20

// Clipboard holds at most one shape. The zero value is empty and ready.
type Clipboard struct {
	slot shape.Shape
}

// Copy stores a deep copy of s. It reports false when s is nil.
func (c *Clipboard) Copy(s shape.Shape) bool {
	if s == nil {
		return false
	}
	c.slot = s.Clone()
	return true
}

// Paste returns a new shape with a fresh id, moved by PasteOffset from the
// last copied or pasted shape. The slot advances to the returned position,
// so repeated pastes cascade instead of stacking.
func (c *Clipboard) Paste() (shape.Shape, bool) {
	if c.slot == nil {
		return nil, false
	}
	out := c.slot.Clone()
	out.Base().ID = shape.NewID()
	shape.Translate(out, PasteOffset, PasteOffset)
	c.slot = out.Clone()
	return out, true
}

func (c *Clipboard) HasContent() bool { return c.slot != nil }

func (c *Clipboard) Clear() { c.slot = nil }
