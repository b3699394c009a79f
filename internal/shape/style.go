package shape

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidColor       = errors.New("invalid color")
	ErrInvalidStrokeWidth = errors.New("stroke width must be 1, 2 or 4")
	ErrInvalidStrokeStyle = errors.New("invalid stroke style")
	ErrInvalidFillStyle   = errors.New("invalid fill style")
	ErrInvalidFont        = errors.New("invalid font setting")
)

type StrokeWidth int

const (
	StrokeThin  StrokeWidth = 1
	StrokeBold  StrokeWidth = 2
	StrokeExtra StrokeWidth = 4
)

func (w StrokeWidth) Valid() bool {
	return w == StrokeThin || w == StrokeBold || w == StrokeExtra
}

type StrokeStyle string

const (
	StrokeSolid  StrokeStyle = "solid"
	StrokeDashed StrokeStyle = "dashed"
	StrokeDotted StrokeStyle = "dotted"
)

func (s StrokeStyle) Valid() bool {
	return s == StrokeSolid || s == StrokeDashed || s == StrokeDotted
}

// Dash returns the line dash pattern for the style, nil for solid.
func (s StrokeStyle) Dash() []float64 {
	switch s {
	case StrokeDashed:
		return []float64{10, 5}
	case StrokeDotted:
		return []float64{2, 3}
	}
	return nil
}

type FillStyle string

const (
	FillSolid      FillStyle = "solid"
	FillHachure    FillStyle = "hachure"
	FillCrossHatch FillStyle = "cross-hatch"
)

func (f FillStyle) Valid() bool {
	return f == FillSolid || f == FillHachure || f == FillCrossHatch
}

type FontFamily string

const (
	FontHandDrawn FontFamily = "hand-drawn"
	FontNormal    FontFamily = "normal"
	FontCode      FontFamily = "code"
)

func (f FontFamily) Valid() bool {
	return f == FontHandDrawn || f == FontNormal || f == FontCode
}

// CSS returns the font stack a browser host should use for the family.
func (f FontFamily) CSS() string {
	switch f {
	case FontHandDrawn:
		return "Caveat, cursive"
	case FontCode:
		return "Courier New, monospace"
	}
	return "Outfit, sans-serif"
}

type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

func (a TextAlign) Valid() bool {
	return a == AlignLeft || a == AlignCenter || a == AlignRight
}

// FontSize is a size in scene units. Stored scenes may carry one of the
// preset names ("Small", "Medium", "Large") instead of a number.
type FontSize float64

const (
	FontSmall  FontSize = 16
	FontMedium FontSize = 20
	FontLarge  FontSize = 28
)

var fontPresets = map[string]FontSize{
	"Small":  FontSmall,
	"Medium": FontMedium,
	"Large":  FontLarge,
}

// ParseFontSize accepts a preset name.
func ParseFontSize(name string) (FontSize, error) {
	size, ok := fontPresets[name]
	if !ok {
		return 0, fmt.Errorf("%w: font size %q", ErrInvalidFont, name)
	}
	return size, nil
}

func (f *FontSize) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FontSize(n)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("font size: %w", err)
	}
	size, err := ParseFontSize(name)
	if err != nil {
		return err
	}
	*f = size
	return nil
}

const (
	// Transparent is the background sentinel meaning "no fill".
	Transparent = "#00000000"

	DefaultStrokeWidth = StrokeBold
	DefaultStrokeFill  = "#f08c00"
	DefaultBgFill      = Transparent
	DefaultStrokeStyle = StrokeSolid
	DefaultFillStyle   = FillSolid
	DefaultFontSize    = FontMedium
	DefaultFontFamily  = FontNormal
	DefaultTextAlign   = AlignLeft

	MinOpacity = 10
	MaxOpacity = 100

	// New text shapes start with this box.
	TextWidth  = 200
	TextHeight = 30
)

var (
	StrokeColors      = []string{"#1e1e1e", "#1971c2", "#2f9e44", "#f08c00", "#e03131", "#7950f2"}
	BackgroundColors  = []string{"transparent", "#ffe3e3", "#d3f9d8", "#d0ebff", "#fff3bf", "#f3f0ff"}
	CanvasBackgrounds = []string{"#ffffff", "#fef9f3", "#f0f9ff", "#fef2f2", "#f5f5f5", "#f8f0fc"}
)

var hexColor = regexp.MustCompile(`^#?([0-9A-Fa-f]{3,6}|[0-9A-Fa-f]{8})$`)

// NormalizeColor validates a hex color and returns it with a leading '#',
// expanding the 3-digit form. "transparent" maps to the Transparent sentinel.
func NormalizeColor(c string) (string, error) {
	c = strings.TrimSpace(c)
	if strings.EqualFold(c, "transparent") {
		return Transparent, nil
	}
	if !hexColor.MatchString(c) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, c)
	}
	c = strings.TrimPrefix(c, "#")
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	return "#" + c, nil
}

// IsTransparent reports whether a background color paints nothing.
func IsTransparent(c string) bool {
	return c == "" || c == Transparent || strings.EqualFold(c, "transparent")
}

// ClampOpacity limits o to [MinOpacity, MaxOpacity].
func ClampOpacity(o float64) float64 {
	return min(max(o, MinOpacity), MaxOpacity)
}

// Style is the set of tool settings copied into newly created shapes.
type Style struct {
	StrokeWidth StrokeWidth
	StrokeFill  string
	BgFill      string
	StrokeStyle StrokeStyle
	FillStyle   FillStyle
	FontSize    FontSize
	FontFamily  FontFamily
	TextAlign   TextAlign
}

// DefaultStyle returns the initial tool settings.
func DefaultStyle() Style {
	return Style{
		StrokeWidth: DefaultStrokeWidth,
		StrokeFill:  DefaultStrokeFill,
		BgFill:      DefaultBgFill,
		StrokeStyle: DefaultStrokeStyle,
		FillStyle:   DefaultFillStyle,
		FontSize:    DefaultFontSize,
		FontFamily:  DefaultFontFamily,
		TextAlign:   DefaultTextAlign,
	}
}

func (st Style) common() Common {
	return Common{
		ID:          NewID(),
		StrokeWidth: st.StrokeWidth,
		StrokeFill:  st.StrokeFill,
		StrokeStyle: st.StrokeStyle,
		Opacity:     MaxOpacity,
	}
}

func (st Style) fill() Fill {
	return Fill{BgFill: st.BgFill, FillStyle: st.FillStyle}
}

func (st Style) NewRectangle(x, y, w, h float64) *Rectangle {
	return &Rectangle{Common: st.common(), X: x, Y: y, Width: w, Height: h, Fill: st.fill()}
}

func (st Style) NewDiamond(x, y, w, h float64) *Diamond {
	return &Diamond{Common: st.common(), X: x, Y: y, Width: w, Height: h, Fill: st.fill()}
}

func (st Style) NewEllipse(cx, cy, rx, ry float64) *Ellipse {
	return &Ellipse{Common: st.common(), X: cx, Y: cy, RadX: rx, RadY: ry, Fill: st.fill()}
}

func (st Style) NewLine(x, y, toX, toY float64) *Line {
	return &Line{Common: st.common(), X: x, Y: y, ToX: toX, ToY: toY}
}

func (st Style) NewArrow(x, y, toX, toY float64) *Arrow {
	return &Arrow{Common: st.common(), X: x, Y: y, ToX: toX, ToY: toY}
}

func (st Style) NewFreeDraw(start Point) *FreeDraw {
	return &FreeDraw{Common: st.common(), Points: []Point{start}}
}

func (st Style) NewText(x, y float64, text string) *Text {
	return &Text{
		Common:     st.common(),
		X:          x,
		Y:          y,
		Width:      TextWidth,
		Height:     TextHeight,
		Text:       text,
		FontSize:   st.FontSize,
		FontFamily: st.FontFamily,
		TextAlign:  st.TextAlign,
		BgFill:     st.BgFill,
	}
}
