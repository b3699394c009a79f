package geometry

const (
	MinScale = 0.1
	MaxScale = 5

	// ZoomStep is the per-notch wheel and button zoom factor.
	ZoomStep = 1.1
)

// View is the pan/zoom mapping between device pixels and scene units.
type View struct {
	PanX  float64 `json:"panX"`
	PanY  float64 `json:"panY"`
	Scale float64 `json:"scale"`
}

// DefaultView returns the unpanned, unzoomed view.
func DefaultView() View {
	return View{Scale: 1}
}

// ClampScale limits s to [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	return min(max(s, MinScale), MaxScale)
}

// ToScene maps a device point into scene coordinates.
func (v View) ToScene(x, y float64) (float64, float64) {
	return (x - v.PanX) / v.Scale, (y - v.PanY) / v.Scale
}

// ToDevice maps a scene point into device coordinates.
func (v View) ToDevice(x, y float64) (float64, float64) {
	return x*v.Scale + v.PanX, y*v.Scale + v.PanY
}

// ZoomAt multiplies the scale by factor, clamped, keeping the scene point
// under the device point (mx, my) fixed.
func (v View) ZoomAt(mx, my, factor float64) View {
	next := ClampScale(v.Scale * factor)
	ratio := next / v.Scale
	return View{
		PanX:  mx - (mx-v.PanX)*ratio,
		PanY:  my - (my-v.PanY)*ratio,
		Scale: next,
	}
}

// Wheel applies one wheel event: scrolling down zooms out, up zooms in.
func (v View) Wheel(mx, my, deltaY float64) View {
	factor := ZoomStep
	if deltaY > 0 {
		factor = 0.9
	}
	return v.ZoomAt(mx, my, factor)
}

// Matrix returns the scene-to-device transform.
func (v View) Matrix() Matrix2D {
	return Translate(v.PanX, v.PanY).Multiply(Scale(v.Scale, v.Scale))
}
