//go:build js && wasm

package main

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/inamate/whiteboard/internal/store"
)

// localStorage keeps boards in the browser's window.localStorage.
type localStorage struct {
	ls js.Value
}

func newLocalStorage() (*localStorage, error) {
	ls := js.Global().Get("localStorage")
	if ls.Type() != js.TypeObject {
		return nil, errors.New("localStorage unavailable")
	}
	return &localStorage{ls: ls}, nil
}

func (s *localStorage) Load(ctx context.Context, key string) (data []byte, err error) {
	defer recoverJS(&err)
	v := s.ls.Call("getItem", key)
	if v.IsNull() {
		return nil, store.ErrNotFound
	}
	return []byte(v.String()), nil
}

// Save fails when the browser quota is exhausted.
func (s *localStorage) Save(ctx context.Context, key string, data []byte) (err error) {
	defer recoverJS(&err)
	s.ls.Call("setItem", key, string(data))
	return nil
}

func (s *localStorage) Delete(ctx context.Context, key string) (err error) {
	defer recoverJS(&err)
	s.ls.Call("removeItem", key)
	return nil
}

// recoverJS turns a thrown JS exception into an error.
func recoverJS(err *error) {
	if r := recover(); r != nil {
		if jsErr, ok := r.(js.Error); ok {
			*err = fmt.Errorf("localStorage: %w", jsErr)
			return
		}
		panic(r)
	}
}

// rafScheduler runs frames on window.requestAnimationFrame.
type rafScheduler struct{}

func (rafScheduler) RequestFrame(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		cb.Release()
		fn()
		return nil
	})
	js.Global().Call("requestAnimationFrame", cb)
}
