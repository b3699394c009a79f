package geometry

import (
	"math"
	"testing"

	"github.com/inamate/whiteboard/internal/shape"
)

func sampleShapes() []shape.Shape {
	st := shape.DefaultStyle()
	fd := st.NewFreeDraw(shape.Point{X: 10, Y: 10})
	fd.Points = append(fd.Points, shape.Point{X: 14, Y: 12}, shape.Point{X: 18, Y: 14})
	return []shape.Shape{
		st.NewRectangle(0, 0, 100, 50),
		st.NewRectangle(100, 50, -80, -30),
		st.NewEllipse(50, 50, 30, 20),
		st.NewDiamond(10, 10, 60, 40),
		st.NewLine(0, 0, 100, 100),
		st.NewArrow(100, 0, 0, 100),
		fd,
		st.NewText(20, 80, "hello"),
	}
}

func centroid(s shape.Shape) (float64, float64) {
	if fd, ok := s.(*shape.FreeDraw); ok {
		var sx, sy float64
		for _, p := range fd.Points {
			sx += p.X
			sy += p.Y
		}
		n := float64(len(fd.Points))
		return sx / n, sy / n
	}
	return BoundsOf(s).Center()
}

func TestHitTestCentroidAndFarPoint(t *testing.T) {
	for _, s := range sampleShapes() {
		cx, cy := centroid(s)
		if !HitTest(s, cx, cy) {
			t.Errorf("%s: centroid (%v,%v) not hit", s.Kind(), cx, cy)
		}
		b := BoundsOf(s)
		diag := math.Hypot(b.Width, b.Height)
		if diag == 0 {
			diag = 1
		}
		if HitTest(s, cx+10*diag, cy+10*diag) {
			t.Errorf("%s: far point hit", s.Kind())
		}
	}
}

func TestHitTestSceneReturnsTopmost(t *testing.T) {
	st := shape.DefaultStyle()
	scene := []shape.Shape{
		st.NewRectangle(10, 10, 100, 50),
		st.NewRectangle(40, 20, 20, 20),
	}
	if got := HitTestScene(scene, 50, 30); got != 1 {
		t.Fatalf("HitTestScene(50,30) = %d, want 1", got)
	}
	if got := HitTestScene(scene, 15, 15); got != 0 {
		t.Fatalf("HitTestScene(15,15) = %d, want 0", got)
	}
	if got := HitTestScene(scene, 200, 200); got != -1 {
		t.Fatalf("HitTestScene(200,200) = %d, want -1", got)
	}
}

func TestHitTestDiamondCorners(t *testing.T) {
	d := shape.DefaultStyle().NewDiamond(0, 0, 100, 100)
	if HitTest(d, 5, 5) {
		t.Error("diamond corner region should miss")
	}
	if !HitTest(d, 50, 2) {
		t.Error("point near the top vertex should hit")
	}
}

func TestHitTestTextHangsAboveBaseline(t *testing.T) {
	txt := shape.DefaultStyle().NewText(0, 100, "x")
	if !HitTest(txt, 10, 80) {
		t.Error("point inside box above baseline should hit")
	}
	if HitTest(txt, 10, 110) {
		t.Error("point below baseline should miss")
	}
}

func TestFreeDrawHitsVerticesOnly(t *testing.T) {
	fd := shape.DefaultStyle().NewFreeDraw(shape.Point{X: 0, Y: 0})
	fd.Points = append(fd.Points, shape.Point{X: 100, Y: 0})
	if HitTest(fd, 50, 0) {
		t.Error("gap between distant vertices should not hit")
	}
	if !HitTest(fd, 95, 3) {
		t.Error("point near a vertex should hit")
	}
}

func TestPointToSegmentDistance(t *testing.T) {
	tests := []struct {
		name                   string
		px, py, x1, y1, x2, y2 float64
		want                   float64
	}{
		{"perpendicular", 5, 5, 0, 0, 10, 0, 5},
		{"before start", -3, 4, 0, 0, 10, 0, 5},
		{"past end", 13, 4, 0, 0, 10, 0, 5},
		{"degenerate", 3, 4, 0, 0, 0, 0, 5},
	}
	for _, tt := range tests {
		got := PointToSegmentDistance(tt.px, tt.py, tt.x1, tt.y1, tt.x2, tt.y2)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBoundsOfNormalizes(t *testing.T) {
	st := shape.DefaultStyle()
	if b := BoundsOf(st.NewRectangle(100, 50, -80, -30)); b != (Rect{X: 20, Y: 20, Width: 80, Height: 30}) {
		t.Errorf("rectangle bounds = %+v", b)
	}
	if b := BoundsOf(st.NewArrow(10, 40, 0, 0)); b != (Rect{X: 0, Y: 0, Width: 10, Height: 40}) {
		t.Errorf("arrow bounds = %+v", b)
	}
	if b := BoundsOf(st.NewEllipse(10, 10, 5, 2)); b != (Rect{X: 5, Y: 8, Width: 10, Height: 4}) {
		t.Errorf("ellipse bounds = %+v", b)
	}
	if b := BoundsOf(st.NewText(0, 30, "a")); b != (Rect{X: 0, Y: 0, Width: 200, Height: 30}) {
		t.Errorf("text bounds = %+v", b)
	}
}

func TestResizeHandleAt(t *testing.T) {
	r := shape.DefaultStyle().NewRectangle(0, 0, 40, 40)
	tests := []struct {
		x, y float64
		want Handle
	}{
		{-8, -8, HandleNW},
		{48, -8, HandleNE},
		{-8, 48, HandleSW},
		{52, 52, HandleSE},
	}
	for _, tt := range tests {
		h, ok := ResizeHandleAt(r, tt.x, tt.y)
		if !ok || h != tt.want {
			t.Errorf("ResizeHandleAt(%v,%v) = %q,%v want %q", tt.x, tt.y, h, ok, tt.want)
		}
	}
	if _, ok := ResizeHandleAt(r, 20, 20); ok {
		t.Error("center of shape should not be a handle")
	}
	if _, ok := ResizeHandleAt(r, 55, 48); ok {
		t.Error("tolerance is strict: 7 units away should miss")
	}

	fd := shape.DefaultStyle().NewFreeDraw(shape.Point{})
	fd.Points = append(fd.Points, shape.Point{X: 40, Y: 40})
	if _, ok := ResizeHandleAt(fd, 48, 48); ok {
		t.Error("free-draw shapes have no handles")
	}
}

func TestViewRoundTrip(t *testing.T) {
	v := View{PanX: 30, PanY: -12, Scale: 2.5}
	sx, sy := v.ToScene(400, 300)
	dx, dy := v.ToDevice(sx, sy)
	if math.Abs(dx-400) > 1e-9 || math.Abs(dy-300) > 1e-9 {
		t.Fatalf("round trip = (%v,%v)", dx, dy)
	}

	mx, my := v.Matrix().TransformPoint(sx, sy)
	if math.Abs(mx-400) > 1e-9 || math.Abs(my-300) > 1e-9 {
		t.Fatalf("matrix maps to (%v,%v)", mx, my)
	}
}

func TestZoomKeepsAnchorFixed(t *testing.T) {
	v := DefaultView()
	mx, my := 320.0, 240.0
	beforeX, beforeY := v.ToScene(mx, my)

	zoomed := v.Wheel(mx, my, -1)
	if zoomed.Scale != 1.1 {
		t.Fatalf("scale after zoom in = %v", zoomed.Scale)
	}
	ax, ay := zoomed.ToScene(mx, my)
	if math.Abs(ax-beforeX) > 1e-9 || math.Abs(ay-beforeY) > 1e-9 {
		t.Fatalf("anchor drifted: (%v,%v) -> (%v,%v)", beforeX, beforeY, ax, ay)
	}

	back := zoomed.ZoomAt(mx, my, 1/ZoomStep)
	if math.Abs(back.Scale-1) > 1e-9 || math.Abs(back.PanX) > 1e-9 || math.Abs(back.PanY) > 1e-9 {
		t.Fatalf("round trip view = %+v", back)
	}
}

func TestZoomClamps(t *testing.T) {
	v := DefaultView()
	for i := 0; i < 100; i++ {
		v = v.Wheel(0, 0, -1)
	}
	if v.Scale != MaxScale {
		t.Fatalf("scale = %v, want %v", v.Scale, MaxScale)
	}
	for i := 0; i < 200; i++ {
		v = v.Wheel(0, 0, 1)
	}
	if v.Scale != MinScale {
		t.Fatalf("scale = %v, want %v", v.Scale, MinScale)
	}
}

func TestMatrixCompose(t *testing.T) {
	m := Translate(10, -20).Multiply(Scale(2.5, 2.5))
	if x, y := m.TransformPoint(3, 4); math.Abs(x-17.5) > 1e-9 || math.Abs(y+10) > 1e-9 {
		t.Fatalf("TransformPoint = (%v, %v), want (17.5, -10)", x, y)
	}
	if got := m.ScaleFactor(); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("ScaleFactor = %v, want 2.5", got)
	}
	if ix, iy := Identity().TransformPoint(7, 8); ix != 7 || iy != 8 {
		t.Errorf("identity moved the point to (%v, %v)", ix, iy)
	}
}
