package clipboard

import (
	"testing"

	"github.com/inamate/whiteboard/internal/shape"
)

func TestPasteTwiceCascades(t *testing.T) {
	st := shape.DefaultStyle()
	st.StrokeFill = "#e03131"
	st.StrokeStyle = shape.StrokeDashed
	orig := st.NewRectangle(10, 10, 50, 30)
	orig.Opacity = 60

	var c Clipboard
	if !c.Copy(orig) {
		t.Fatal("copy failed")
	}
	orig.X = 999

	p1, ok1 := c.Paste()
	p2, ok2 := c.Paste()
	if !ok1 || !ok2 {
		t.Fatal("paste failed")
	}

	r1, r2 := p1.(*shape.Rectangle), p2.(*shape.Rectangle)
	if r1.ID == orig.ID || r2.ID == orig.ID || r1.ID == r2.ID {
		t.Fatalf("ids not distinct: %q %q %q", orig.ID, r1.ID, r2.ID)
	}
	if r1.X != 30 || r1.Y != 30 || r2.X != 50 || r2.Y != 50 {
		t.Fatalf("positions = (%v,%v) (%v,%v)", r1.X, r1.Y, r2.X, r2.Y)
	}
	for _, r := range []*shape.Rectangle{r1, r2} {
		if r.StrokeFill != "#e03131" || r.StrokeStyle != shape.StrokeDashed || r.Opacity != 60 || r.Width != 50 {
			t.Fatalf("style not preserved: %+v", r)
		}
	}
}

func TestPasteMovesAllPoints(t *testing.T) {
	fd := shape.DefaultStyle().NewFreeDraw(shape.Point{X: 1, Y: 1})
	fd.Points = append(fd.Points, shape.Point{X: 5, Y: 8})

	var c Clipboard
	c.Copy(fd)
	p, _ := c.Paste()
	got := p.(*shape.FreeDraw).Points
	if got[0] != (shape.Point{X: 21, Y: 21}) || got[1] != (shape.Point{X: 25, Y: 28}) {
		t.Fatalf("points = %v", got)
	}
	if fd.Points[0].X != 1 {
		t.Fatal("paste mutated the source shape")
	}
}

func TestEmptyClipboard(t *testing.T) {
	var c Clipboard
	if c.Copy(nil) {
		t.Fatal("copy(nil) reported success")
	}
	if _, ok := c.Paste(); ok {
		t.Fatal("paste from empty slot succeeded")
	}
	c.Copy(shape.DefaultStyle().NewLine(0, 0, 1, 1))
	if !c.HasContent() {
		t.Fatal("HasContent false after copy")
	}
	c.Clear()
	if c.HasContent() {
		t.Fatal("slot not cleared")
	}
}
