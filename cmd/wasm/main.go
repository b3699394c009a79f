//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall/js"
	"time"

	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/render"
	"github.com/inamate/whiteboard/internal/render/pdf"
	"github.com/inamate/whiteboard/internal/render/raster"
	"github.com/inamate/whiteboard/internal/shape"
	"github.com/inamate/whiteboard/internal/store"
	"github.com/inamate/whiteboard/internal/store/remote"
)

var (
	eng    *engine.Engine
	closer func() error

	errNotReady = errors.New("engine not created")
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Create the engine API object
	whiteboardEngine := js.Global().Get("Object").New()

	// --- Lifecycle ---
	whiteboardEngine.Set("create", js.FuncOf(create))
	whiteboardEngine.Set("destroy", js.FuncOf(destroy))

	// --- Input (frontend → engine) ---
	whiteboardEngine.Set("pointerDown", js.FuncOf(pointerHandler(func(x, y float64) { eng.PointerDown(x, y) })))
	whiteboardEngine.Set("pointerMove", js.FuncOf(pointerHandler(func(x, y float64) { eng.PointerMove(x, y) })))
	whiteboardEngine.Set("pointerUp", js.FuncOf(pointerHandler(func(x, y float64) { eng.PointerUp(x, y) })))
	whiteboardEngine.Set("wheel", js.FuncOf(wheel))
	whiteboardEngine.Set("keyDown", js.FuncOf(keyDown))
	whiteboardEngine.Set("commitText", js.FuncOf(commitText))
	whiteboardEngine.Set("cancelText", js.FuncOf(action(func() { eng.CancelText() })))

	// --- Commands ---
	whiteboardEngine.Set("setTool", js.FuncOf(setTool))
	whiteboardEngine.Set("setStyle", js.FuncOf(setStyle))
	whiteboardEngine.Set("updateSelected", js.FuncOf(updateSelected))
	whiteboardEngine.Set("select", js.FuncOf(selectShape))
	whiteboardEngine.Set("zoomIn", js.FuncOf(action(func() { eng.ZoomIn() })))
	whiteboardEngine.Set("zoomOut", js.FuncOf(action(func() { eng.ZoomOut() })))
	whiteboardEngine.Set("resetZoom", js.FuncOf(action(func() { eng.ResetZoom() })))
	whiteboardEngine.Set("undo", js.FuncOf(action(func() { eng.Undo() })))
	whiteboardEngine.Set("redo", js.FuncOf(action(func() { eng.Redo() })))
	whiteboardEngine.Set("copy", js.FuncOf(action(func() { eng.Copy() })))
	whiteboardEngine.Set("paste", js.FuncOf(action(func() { eng.Paste() })))
	whiteboardEngine.Set("clear", js.FuncOf(action(func() { eng.Clear() })))
	whiteboardEngine.Set("setViewport", js.FuncOf(setViewport))
	whiteboardEngine.Set("setBackground", js.FuncOf(setBackground))

	// --- Queries (frontend ← engine) ---
	whiteboardEngine.Set("render", js.FuncOf(renderFrame))
	whiteboardEngine.Set("getShapes", js.FuncOf(getShapes))
	whiteboardEngine.Set("getSelected", js.FuncOf(getSelected))
	whiteboardEngine.Set("getState", js.FuncOf(getState))
	whiteboardEngine.Set("getCursor", js.FuncOf(getCursor))
	whiteboardEngine.Set("export", js.FuncOf(exportBoard))

	// Expose globally
	js.Global().Set("whiteboardEngine", whiteboardEngine)

	// Signal ready
	js.Global().Set("whiteboardWasmReady", true)

	// Keep the Go runtime alive
	select {}
}

func errorValue(err error) js.Value {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okValue() js.Value {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// create(options, host) builds the engine. options: {storageKey, serverURL,
// board, width, height, background}. host holds the optional callbacks
// onReady, onFrame, onShapeCount, onSelection, onHistory and onTextEdit.
// Connecting to a server blocks, so creation finishes asynchronously and
// reports through host.onReady(error|null).
func create(this js.Value, args []js.Value) interface{} {
	if eng != nil {
		return errorValue(errors.New("engine already created"))
	}
	opts, host := js.Undefined(), js.Undefined()
	if len(args) > 0 {
		opts = args[0]
	}
	if len(args) > 1 {
		host = args[1]
	}

	o := engine.Options{
		StorageKey: stringOpt(opts, "storageKey", store.DefaultKey),
		Scheduler:  rafScheduler{},
		Exporter:   raster.Exporter{},
		Callbacks:  callbacks(host),
		Width:      numberOpt(opts, "width", engine.DefaultWidth),
		Height:     numberOpt(opts, "height", engine.DefaultHeight),
		Background: stringOpt(opts, "background", ""),
	}
	serverURL := stringOpt(opts, "serverURL", "")

	go func() {
		var err error
		if serverURL != "" {
			board := stringOpt(opts, "board", o.StorageKey)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			var rs *remote.Store
			rs, err = remote.Dial(ctx, serverURL, board)
			cancel()
			if err == nil {
				o.Store, o.StorageKey, closer = rs, board, rs.Close
			}
		} else {
			o.Store, err = newLocalStorage()
		}
		if err != nil {
			slog.Error("open board storage", "error", err)
			callHost(host, "onReady", err.Error())
			return
		}
		eng = engine.New(o)
		callHost(host, "onReady", nil)
	}()
	return okValue()
}

func destroy(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return okValue()
	}
	eng.Close()
	eng = nil
	if closer != nil {
		if err := closer(); err != nil {
			slog.Warn("close remote store", "error", err)
		}
		closer = nil
	}
	return okValue()
}

func callbacks(host js.Value) engine.Callbacks {
	return engine.Callbacks{
		ShapeCountChanged: func(n int) { callHost(host, "onShapeCount", n) },
		SelectionChanged: func(s shape.Shape) {
			if s == nil {
				callHost(host, "onSelection", nil)
				return
			}
			data, _ := json.Marshal(s)
			callHost(host, "onSelection", string(data))
		},
		HistoryChanged: func(canUndo, canRedo bool) { callHost(host, "onHistory", canUndo, canRedo) },
		TextEditRequested: func(x, y float64) {
			callHost(host, "onTextEdit", x, y)
		},
		Frame: func(cmds []render.DrawCommand) {
			data, err := render.DrawCommandsToJSON(cmds)
			if err != nil {
				slog.Error("encode frame", "error", err)
				return
			}
			callHost(host, "onFrame", data)
		},
	}
}

func callHost(host js.Value, name string, args ...interface{}) {
	if host.Type() != js.TypeObject {
		return
	}
	fn := host.Get(name)
	if fn.Type() != js.TypeFunction {
		return
	}
	fn.Invoke(args...)
}

func stringOpt(opts js.Value, name, def string) string {
	if opts.Type() != js.TypeObject {
		return def
	}
	if v := opts.Get(name); v.Type() == js.TypeString {
		return v.String()
	}
	return def
}

func numberOpt(opts js.Value, name string, def float64) float64 {
	if opts.Type() != js.TypeObject {
		return def
	}
	if v := opts.Get(name); v.Type() == js.TypeNumber {
		return v.Float()
	}
	return def
}

func action(fn func()) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if eng == nil {
			return errorValue(errNotReady)
		}
		fn()
		return okValue()
	}
}

func pointerHandler(fn func(x, y float64)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if eng == nil || len(args) < 2 {
			return nil
		}
		fn(args[0].Float(), args[1].Float())
		return nil
	}
}

func wheel(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 3 {
		return nil
	}
	eng.Wheel(args[0].Float(), args[1].Float(), args[2].Float())
	return nil
}

// keyDown(key, ctrl, meta, shift) reports whether the engine consumed the key.
func keyDown(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 1 {
		return js.ValueOf(false)
	}
	ev := engine.KeyEvent{Key: args[0].String()}
	if len(args) > 1 {
		ev.Ctrl = args[1].Truthy()
	}
	if len(args) > 2 {
		ev.Meta = args[2].Truthy()
	}
	if len(args) > 3 {
		ev.Shift = args[3].Truthy()
	}
	return js.ValueOf(eng.KeyDown(ev))
}

func commitText(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return errorValue(errNotReady)
	}
	text := ""
	if len(args) > 0 {
		text = args[0].String()
	}
	eng.CommitText(text)
	return okValue()
}

func setTool(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return errorValue(errNotReady)
	}
	if len(args) < 1 {
		return errorValue(errors.New("setTool requires a tool name"))
	}
	tool, err := engine.ParseTool(args[0].String())
	if err == nil {
		err = eng.SetTool(tool)
	}
	if err != nil {
		return errorValue(err)
	}
	return okValue()
}

// setStyle(field, value) changes the style used for new shapes.
func setStyle(this js.Value, args []js.Value) interface{} {
	return styleCommand(args, false)
}

// updateSelected(field, value) restyles the selected shape.
func updateSelected(this js.Value, args []js.Value) interface{} {
	return styleCommand(args, true)
}

func styleCommand(args []js.Value, selected bool) interface{} {
	if eng == nil {
		return errorValue(errNotReady)
	}
	if len(args) < 2 {
		return errorValue(errors.New("expected field and value"))
	}
	if err := applyStyle(args[0].String(), args[1], selected); err != nil {
		return errorValue(err)
	}
	return okValue()
}

func applyStyle(field string, v js.Value, selected bool) error {
	switch field {
	case "strokeWidth":
		w := shape.StrokeWidth(v.Float())
		if selected {
			return eng.UpdateSelectedStrokeWidth(w)
		}
		return eng.SetStrokeWidth(w)
	case "strokeFill":
		if selected {
			return eng.UpdateSelectedStrokeFill(v.String())
		}
		return eng.SetStrokeFill(v.String())
	case "bgFill":
		if selected {
			return eng.UpdateSelectedBgFill(v.String())
		}
		return eng.SetBgFill(v.String())
	case "strokeStyle":
		st := shape.StrokeStyle(v.String())
		if selected {
			return eng.UpdateSelectedStrokeStyle(st)
		}
		return eng.SetStrokeStyle(st)
	case "fillStyle":
		fs := shape.FillStyle(v.String())
		if selected {
			return eng.UpdateSelectedFillStyle(fs)
		}
		return eng.SetFillStyle(fs)
	case "fontSize":
		size, err := fontSize(v)
		if err != nil {
			return err
		}
		if selected {
			return eng.UpdateSelectedFontSize(size)
		}
		return eng.SetFontSize(size)
	case "fontFamily":
		f := shape.FontFamily(v.String())
		if selected {
			return eng.UpdateSelectedFontFamily(f)
		}
		return eng.SetFontFamily(f)
	case "textAlign":
		a := shape.TextAlign(v.String())
		if selected {
			return eng.UpdateSelectedTextAlign(a)
		}
		return eng.SetTextAlign(a)
	case "opacity":
		if !selected {
			return errors.New("opacity applies to the selected shape only")
		}
		eng.UpdateSelectedOpacity(v.Float())
		return nil
	}
	return fmt.Errorf("unknown style field %q", field)
}

// fontSize accepts a number or a preset name such as "Large".
func fontSize(v js.Value) (shape.FontSize, error) {
	if v.Type() == js.TypeString {
		return shape.ParseFontSize(v.String())
	}
	return shape.FontSize(v.Float()), nil
}

func selectShape(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf(false)
	}
	id := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		id = args[0].String()
	}
	return js.ValueOf(eng.Select(id))
}

func setViewport(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return errorValue(errNotReady)
	}
	if len(args) < 2 {
		return errorValue(errors.New("setViewport requires width and height"))
	}
	if err := eng.SetViewport(args[0].Float(), args[1].Float()); err != nil {
		return errorValue(err)
	}
	return okValue()
}

func setBackground(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return errorValue(errNotReady)
	}
	if len(args) < 1 {
		return errorValue(errors.New("setBackground requires a color"))
	}
	if err := eng.SetBackground(args[0].String()); err != nil {
		return errorValue(err)
	}
	return okValue()
}

func renderFrame(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf("[]")
	}
	data, err := render.DrawCommandsToJSON(eng.Render())
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(data)
}

func getShapes(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.ValueOf("[]")
	}
	data, err := shape.EncodeScene(eng.Shapes())
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

func getSelected(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return js.Null()
	}
	s := eng.Selected()
	if s == nil {
		return js.Null()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

func getState(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return errorValue(errNotReady)
	}
	return js.ValueOf(map[string]interface{}{
		"tool":           string(eng.Tool()),
		"state":          eng.State().String(),
		"scale":          eng.Scale(),
		"shapeCount":     eng.ShapeCount(),
		"background":     eng.Background(),
		"canUndo":        eng.CanUndo(),
		"canRedo":        eng.CanRedo(),
		"hasCopiedShape": eng.HasCopiedShape(),
		"editingText":    eng.EditingText(),
	})
}

func getCursor(this js.Value, args []js.Value) interface{} {
	if eng == nil || len(args) < 2 {
		return js.ValueOf("default")
	}
	return js.ValueOf(eng.Cursor(args[0].Float(), args[1].Float()))
}

// export(format) returns the board as a Uint8Array, "png" by default.
func exportBoard(this js.Value, args []js.Value) interface{} {
	if eng == nil {
		return errorValue(errNotReady)
	}
	var exp render.Exporter = raster.Exporter{}
	if len(args) > 0 && args[0].Type() == js.TypeString && args[0].String() == "pdf" {
		exp = pdf.Exporter{}
	}
	var buf bytes.Buffer
	if err := eng.Export(&buf, exp); err != nil {
		return errorValue(err)
	}
	out := js.Global().Get("Uint8Array").New(buf.Len())
	js.CopyBytesToJS(out, buf.Bytes())
	return out
}
