// Package engine is the whiteboard's interaction engine. It owns the scene,
// the selection and the view, turns pointer and keyboard input into scene
// edits, and drives the renderer, history and persistence.
package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/inamate/whiteboard/internal/clipboard"
	"github.com/inamate/whiteboard/internal/geometry"
	"github.com/inamate/whiteboard/internal/history"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/shape"
	"github.com/inamate/whiteboard/internal/store"
)

var (
	ErrUnknownTool       = errors.New("unknown tool")
	ErrExportUnavailable = errors.New("no exporter configured")
	ErrInvalidFontSize   = errors.New("font size must be positive")
	ErrInvalidDimensions = errors.New("viewport dimensions must be positive")
	ErrInvalidBackground = errors.New("invalid canvas background")
	errClosed            = errors.New("engine closed")
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// FrameScheduler runs fn before the next display refresh. Hosts without a
// display loop may run fn immediately.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// Callbacks notify the host of state it mirrors in its own UI. Any of them
// may be nil.
type Callbacks struct {
	ShapeCountChanged func(n int)
	// SelectionChanged receives a copy of the selected shape, or nil.
	SelectionChanged func(s shape.Shape)
	HistoryChanged   func(canUndo, canRedo bool)
	// TextEditRequested asks the host to show a text field at the given
	// device position. The host answers with CommitText or CancelText.
	TextEditRequested func(x, y float64)
	Frame             func(cmds []render.DrawCommand)
}

// Options configure a new Engine.
type Options struct {
	Store      store.Store
	StorageKey string
	Scheduler  FrameScheduler
	Exporter   render.Exporter
	Callbacks  Callbacks
	Width      float64
	Height     float64
	Background string
	Logger     *slog.Logger
}

// Engine is single-threaded: every method must be called from the host's
// event loop.
type Engine struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	store     store.Store
	key       string
	scheduler FrameScheduler
	exporter  render.Exporter
	cb        Callbacks

	width, height float64
	background    string

	scene      []shape.Shape
	selectedID string
	tool       Tool
	style      shape.Style
	view       geometry.View
	state      State
	hist       *history.Manager
	clip       clipboard.Clipboard

	// Gesture state, valid while state != Idle.
	startX, startY float64
	lastX, lastY   float64
	provisional    shape.Shape
	marked         map[string]bool
	resize         resizeGesture
	textAnchor     shape.Point

	renderScheduled bool
	closed          bool
}

// New creates an engine and loads the persisted scene. A missing or
// unreadable scene starts the board empty.
func New(opts Options) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		ctx:        ctx,
		cancel:     cancel,
		log:        opts.Logger,
		store:      opts.Store,
		key:        opts.StorageKey,
		scheduler:  opts.Scheduler,
		exporter:   opts.Exporter,
		cb:         opts.Callbacks,
		width:      opts.Width,
		height:     opts.Height,
		background: opts.Background,
		tool:       ToolSelection,
		style:      shape.DefaultStyle(),
		view:       geometry.DefaultView(),
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	if e.key == "" {
		e.key = store.DefaultKey
	}
	if e.width <= 0 || e.height <= 0 {
		e.width, e.height = DefaultWidth, DefaultHeight
	}
	if bg, err := shape.NormalizeColor(e.background); err == nil && !shape.IsTransparent(bg) {
		e.background = bg
	} else {
		e.background = shape.CanvasBackgrounds[0]
	}
	e.hist = history.New(history.DefaultLimit, e.cb.HistoryChanged)

	e.scene = e.load()
	e.hist.Reset(e.scene)
	e.notifyCount()
	e.requestRender()
	return e
}

func (e *Engine) load() []shape.Shape {
	if e.store == nil {
		return nil
	}
	data, err := e.store.Load(e.ctx, e.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.log.Warn("load scene failed, starting empty", "key", e.key, "error", err)
		}
		return nil
	}
	scene, err := shape.DecodeScene(data)
	if err != nil {
		e.log.Warn("stored scene is corrupt, starting empty", "key", e.key, "error", err)
		return nil
	}
	e.log.Info("scene loaded", "key", e.key, "shapes", len(scene))
	return scene
}

// persist writes the scene to the store. Failures are logged, never
// surfaced: the in-memory scene stays authoritative.
func (e *Engine) persist() {
	if e.store == nil || e.closed {
		return
	}
	data, err := shape.EncodeScene(e.scene)
	if err != nil {
		e.log.Error("encode scene", "error", err)
		return
	}
	if err := e.store.Save(e.ctx, e.key, data); err != nil {
		e.log.Warn("save scene failed", "key", e.key, "error", err)
	}
}

// commit records the scene in history and persists it.
func (e *Engine) commit() {
	e.hist.Commit(e.scene)
	e.persist()
}

// Close stops rendering and persistence. Further input is ignored.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.clip.Clear()
	e.cancel()
	return nil
}

// --- Notifications ---

func (e *Engine) notifyCount() {
	if e.cb.ShapeCountChanged != nil {
		e.cb.ShapeCountChanged(len(e.scene))
	}
}

func (e *Engine) notifySelection() {
	if e.cb.SelectionChanged == nil {
		return
	}
	if sel := e.selected(); sel != nil {
		e.cb.SelectionChanged(sel.Clone())
		return
	}
	e.cb.SelectionChanged(nil)
}

// selected returns the live selected shape, or nil when nothing is selected
// or the selected id no longer exists.
func (e *Engine) selected() shape.Shape {
	if e.selectedID == "" {
		return nil
	}
	if i := shape.Index(e.scene, e.selectedID); i >= 0 {
		return e.scene[i]
	}
	return nil
}

func (e *Engine) setSelected(id string) {
	if id == e.selectedID {
		return
	}
	e.selectedID = id
	e.notifySelection()
}

// dropStaleSelection clears a selection whose shape left the scene.
func (e *Engine) dropStaleSelection() {
	if e.selectedID != "" && e.selected() == nil {
		e.setSelected("")
	}
}

// --- Rendering ---

// requestRender schedules at most one frame per display refresh. Nothing
// is drawn while a text edit is open.
func (e *Engine) requestRender() {
	if e.closed || e.state == EditingText || e.renderScheduled {
		return
	}
	if e.scheduler == nil {
		e.Render()
		return
	}
	e.renderScheduled = true
	e.scheduler.RequestFrame(func() {
		e.renderScheduled = false
		if e.closed || e.state == EditingText {
			return
		}
		e.Render()
	})
}

// Frame returns the current on-screen frame.
func (e *Engine) Frame() render.Frame {
	f := e.exportFrame()
	f.SelectedID = e.selectedID
	f.Marked = e.marked
	f.Provisional = e.provisional
	return f
}

// exportFrame is the frame without interaction decoration.
func (e *Engine) exportFrame() render.Frame {
	return render.Frame{
		Scene:      e.scene,
		View:       e.view,
		Width:      e.width,
		Height:     e.height,
		Background: e.background,
	}
}

// Render draws the current frame, hands it to the Frame callback and
// returns it.
func (e *Engine) Render() []render.DrawCommand {
	cmds := render.Record(e.Frame())
	if e.cb.Frame != nil {
		e.cb.Frame(cmds)
	}
	return cmds
}

// Export writes the scene through exp, or through the configured exporter
// when exp is nil. Selection and eraser marks are not drawn.
func (e *Engine) Export(w io.Writer, exp render.Exporter) error {
	if e.closed {
		return errClosed
	}
	if exp == nil {
		exp = e.exporter
	}
	if exp == nil {
		return ErrExportUnavailable
	}
	return exp.Export(w, e.exportFrame())
}

// SetViewport resizes the drawing surface.
func (e *Engine) SetViewport(width, height float64) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	e.width, e.height = width, height
	e.requestRender()
	return nil
}

// SetBackground changes the canvas background color.
func (e *Engine) SetBackground(c string) error {
	bg, err := shape.NormalizeColor(c)
	if err != nil || shape.IsTransparent(bg) {
		return ErrInvalidBackground
	}
	e.background = bg
	e.requestRender()
	return nil
}

// --- Queries ---

// Shapes returns a deep copy of the scene in z-order.
func (e *Engine) Shapes() []shape.Shape { return shape.CloneScene(e.scene) }

func (e *Engine) ShapeCount() int { return len(e.scene) }

// Selected returns a copy of the selected shape, or nil.
func (e *Engine) Selected() shape.Shape {
	if sel := e.selected(); sel != nil {
		return sel.Clone()
	}
	return nil
}

func (e *Engine) State() State             { return e.state }
func (e *Engine) Tool() Tool               { return e.tool }
func (e *Engine) Style() shape.Style       { return e.style }
func (e *Engine) View() geometry.View      { return e.view }
func (e *Engine) Scale() float64           { return e.view.Scale }
func (e *Engine) Background() string       { return e.background }
func (e *Engine) CanUndo() bool            { return e.hist.CanUndo() }
func (e *Engine) CanRedo() bool            { return e.hist.CanRedo() }
func (e *Engine) HasCopiedShape() bool     { return e.clip.HasContent() }
func (e *Engine) Viewport() (w, h float64) { return e.width, e.height }

// Cursor returns the CSS cursor for the pointer at device position (x, y).
func (e *Engine) Cursor(x, y float64) string {
	switch e.state {
	case EditingText:
		return CursorText
	case Panning:
		return CursorGrabbing
	case ResizingShape:
		return handleCursor(e.resize.handle)
	case DraggingShape:
		return CursorMove
	case Drawing, Erasing:
		return e.tool.cursor()
	}
	if sel := e.selected(); sel != nil {
		sx, sy := e.view.ToScene(x, y)
		if e.tool != ToolEraser {
			if h, ok := geometry.ResizeHandleAt(sel, sx, sy); ok {
				return handleCursor(h)
			}
		}
		if geometry.HitTest(sel, sx, sy) {
			return CursorMove
		}
	}
	return e.tool.cursor()
}
