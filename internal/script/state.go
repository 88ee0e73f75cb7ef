package script

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultCallTimeout bounds a single proc call or script load.
const DefaultCallTimeout = 2 * time.Second

// State is a sandboxed Lua state. It must only be used from the goroutine
// that runs its Executor.
type State struct {
	L *lua.LState

	callTimeout time.Duration
	closed      bool
}

// NewState creates a sandboxed Lua state.
func NewState(callTimeout time.Duration) *State {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(L)
	sandbox(L)

	return &State{L: L, callTimeout: callTimeout}
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package are never opened.
}

// sandbox removes base functions that load code from disk or strings, and
// replaces require with one that refuses everything but the opened libraries.
func sandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	builtin := map[string]string{"string": "string", "table": "table", "math": "math"}
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		global, ok := builtin[name]
		if !ok {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(L.GetGlobal(global))
		return 1
	}))
}

// DoString runs a chunk of Lua code.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.protect(ctx, func() error {
		return s.L.DoString(code)
	})
}

// DoFile runs a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.protect(ctx, func() error {
		return s.L.DoFile(path)
	})
}

// Call runs fn with args, discarding results.
func (s *State) Call(ctx context.Context, fn *lua.LFunction, args ...lua.LValue) error {
	return s.protect(ctx, func() error {
		return s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	})
}

// protect runs fn under the call timeout, converting panics to errors.
func (s *State) protect(ctx context.Context, fn func() error) (err error) {
	if s.closed {
		return ErrStateClosed
	}

	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the Lua state.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
