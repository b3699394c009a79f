package engine

import (
	"fmt"

	"github.com/inamate/whiteboard/internal/geometry"
)

// Tool is the active pointer tool.
type Tool string

const (
	ToolSelection Tool = "selection"
	ToolGrab      Tool = "grab"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolDiamond   Tool = "diamond"
	ToolLine      Tool = "line"
	ToolArrow     Tool = "arrow"
	ToolFreeDraw  Tool = "free-draw"
	ToolText      Tool = "text"
	ToolEraser    Tool = "eraser"
)

var tools = map[Tool]bool{
	ToolSelection: true, ToolGrab: true, ToolRectangle: true, ToolEllipse: true,
	ToolDiamond: true, ToolLine: true, ToolArrow: true, ToolFreeDraw: true,
	ToolText: true, ToolEraser: true,
}

// ParseTool validates a tool name.
func ParseTool(s string) (Tool, error) {
	t := Tool(s)
	if !tools[t] {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, s)
	}
	return t, nil
}

// selects reports whether a click with this tool may pick a shape.
func (t Tool) selects() bool {
	return t != ToolFreeDraw && t != ToolEraser && t != ToolText
}

// State is the interaction state machine's current state.
type State int

const (
	Idle State = iota
	Drawing
	Panning
	DraggingShape
	ResizingShape
	Erasing
	EditingText
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Panning:
		return "panning"
	case DraggingShape:
		return "dragging"
	case ResizingShape:
		return "resizing"
	case Erasing:
		return "erasing"
	case EditingText:
		return "editing-text"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// CSS cursor names returned by Engine.Cursor.
const (
	CursorDefault    = "default"
	CursorCrosshair  = "crosshair"
	CursorGrab       = "grab"
	CursorGrabbing   = "grabbing"
	CursorMove       = "move"
	CursorPointer    = "pointer"
	CursorText       = "text"
	CursorResizeNWSE = "nwse-resize"
	CursorResizeNESW = "nesw-resize"
)

func (t Tool) cursor() string {
	switch t {
	case ToolGrab:
		return CursorGrab
	case ToolSelection:
		return CursorDefault
	case ToolEraser:
		return CursorPointer
	}
	return CursorCrosshair
}

func handleCursor(h geometry.Handle) string {
	if h == geometry.HandleNW || h == geometry.HandleSE {
		return CursorResizeNWSE
	}
	return CursorResizeNESW
}
