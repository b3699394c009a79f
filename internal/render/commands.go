package render

import (
	"encoding/json"
	"fmt"

	"github.com/inamate/whiteboard/internal/geometry"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op        string    `json:"op"`                  // "clear", "save", "restore", "transform", "stroke", "fill", "clip", "text"
	Transform []float64 `json:"transform,omitempty"` // [a, b, c, d, e, f] affine matrix
	Path      Path      `json:"path,omitempty"`
	Fill      string    `json:"fill,omitempty"`
	Stroke    string    `json:"stroke,omitempty"`
	LineWidth float64   `json:"lineWidth,omitempty"`
	Dash      []float64 `json:"dash,omitempty"`
	Opacity   float64   `json:"opacity,omitempty"` // Global alpha
	Text      string    `json:"text,omitempty"`
	X         float64   `json:"x,omitempty"`
	Y         float64   `json:"y,omitempty"`
	Font      string    `json:"font,omitempty"` // CSS font shorthand
	Align     string    `json:"align,omitempty"`
	Width     float64   `json:"width,omitempty"`
	Height    float64   `json:"height,omitempty"`
}

type recorderState struct {
	alpha     float64
	lineWidth float64
	dash      []float64
	stroke    string
	fill      string
}

// Recorder is a Surface that records draw commands instead of painting.
// Every drawing command carries the full style it needs, so the frontend
// only has to track save/restore for transforms and clips.
type Recorder struct {
	commands []DrawCommand
	state    recorderState
	stack    []recorderState
}

func NewRecorder() *Recorder {
	return &Recorder{state: recorderState{alpha: 1, lineWidth: 1}}
}

// Commands returns the recorded commands in painter's order.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset drops recorded commands and state.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
	r.stack = r.stack[:0]
	r.state = recorderState{alpha: 1, lineWidth: 1}
}

func (r *Recorder) Clear(width, height float64, background string) {
	r.commands = append(r.commands, DrawCommand{Op: "clear", Width: width, Height: height, Fill: background})
}

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.state)
	r.commands = append(r.commands, DrawCommand{Op: "save"})
}

func (r *Recorder) Restore() {
	if n := len(r.stack); n > 0 {
		r.state = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
	r.commands = append(r.commands, DrawCommand{Op: "restore"})
}

func (r *Recorder) SetTransform(m geometry.Matrix2D) {
	r.commands = append(r.commands, DrawCommand{Op: "transform", Transform: m.ToSlice()})
}

func (r *Recorder) SetAlpha(a float64)         { r.state.alpha = a }
func (r *Recorder) SetLineWidth(w float64)     { r.state.lineWidth = w }
func (r *Recorder) SetLineDash(dash []float64) { r.state.dash = dash }
func (r *Recorder) SetStrokeColor(c string)    { r.state.stroke = c }
func (r *Recorder) SetFillColor(c string)      { r.state.fill = c }

func (r *Recorder) Stroke(p Path) {
	r.commands = append(r.commands, DrawCommand{
		Op:        "stroke",
		Path:      p,
		Stroke:    r.state.stroke,
		LineWidth: r.state.lineWidth,
		Dash:      r.state.dash,
		Opacity:   r.state.alpha,
	})
}

func (r *Recorder) Fill(p Path) {
	r.commands = append(r.commands, DrawCommand{
		Op:      "fill",
		Path:    p,
		Fill:    r.state.fill,
		Opacity: r.state.alpha,
	})
}

func (r *Recorder) Clip(p Path) {
	r.commands = append(r.commands, DrawCommand{Op: "clip", Path: p})
}

func (r *Recorder) FillText(text string, x, y float64, font Font) {
	r.commands = append(r.commands, DrawCommand{
		Op:      "text",
		Text:    text,
		X:       x,
		Y:       y,
		Fill:    r.state.fill,
		Opacity: r.state.alpha,
		Font:    fmt.Sprintf("%gpx %s", font.Size, font.Family.CSS()),
		Align:   string(font.Align),
	})
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// Record renders a frame into a fresh command list.
func Record(f Frame) []DrawCommand {
	r := NewRecorder()
	RenderFrame(r, f)
	return r.Commands()
}
