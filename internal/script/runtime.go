package script

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mouseproc/internal/router"
)

// Logger is the logging interface used by the runtime.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}

// Config configures a Runtime.
type Config struct {
	// QueueSize bounds pending invocations. Zero means 1024.
	QueueSize int

	// CallTimeout bounds each proc call. Zero means DefaultCallTimeout.
	CallTimeout time.Duration

	// Logger receives script log output and invocation failures.
	Logger Logger
}

// prelude holds the default client procs, which hand clicks and drops to
// the object under the pointer.
const prelude = `
for _, name in ipairs({"Click", "DblClick"}) do
	proc("/client", name, function(src, usr, object, location, control, params)
		call(object, name, usr, location, control, params)
	end)
end

proc("/client", "MouseDrop", function(src, usr, src_object, over_object, src_location, over_location, src_control, over_control, params)
	call(src_object, "MouseDrop", usr, over_object, src_location, over_location, src_control, over_control, params)
end)
`

// Runtime runs router invocations as Lua procs. It implements
// router.Invoker.
type Runtime struct {
	state  *State
	exec   *Executor
	bridge *Bridge
	procs  *Procs
	logger Logger

	ctx     context.Context
	running chan struct{}

	calls    atomic.Uint64
	failures atomic.Uint64
}

// NewRuntime creates a runtime with the default client procs loaded.
// Start must be called before invocations are processed.
func NewRuntime(cfg Config) (*Runtime, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	state := NewState(cfg.CallTimeout)
	r := &Runtime{
		state:  state,
		bridge: NewBridge(state.L),
		procs:  NewProcs(),
		logger: logger,
		ctx:    context.Background(),
	}
	r.exec = NewExecutor(state, cfg.QueueSize, r.reportError)
	r.registerGlobals()

	if err := state.DoString(context.Background(), prelude); err != nil {
		state.Close()
		return nil, fmt.Errorf("load prelude: %w", err)
	}
	return r, nil
}

// Start runs the executor until ctx is cancelled or Close is called.
func (r *Runtime) Start(ctx context.Context) {
	r.ctx = ctx
	r.running = make(chan struct{})
	go func() {
		defer close(r.running)
		r.exec.Run(ctx)
	}()
}

// Load runs a script file, typically to define procs.
func (r *Runtime) Load(ctx context.Context, path string) error {
	err := r.exec.Execute(ctx, func(s *State) error {
		return s.DoFile(ctx, path)
	})
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadString runs a chunk of Lua code.
func (r *Runtime) LoadString(ctx context.Context, code string) error {
	return r.exec.Execute(ctx, func(s *State) error {
		return s.DoString(ctx, code)
	})
}

// Invoke queues inv without waiting for it to run. Failures are logged.
func (r *Runtime) Invoke(inv router.Invocation) {
	err := r.exec.Submit(func(s *State) error {
		return r.call(s, inv)
	})
	if err != nil {
		r.reportError(fmt.Errorf("%s: %w", inv.Proc, err))
	}
}

// Wait blocks until every invocation queued before it has run.
func (r *Runtime) Wait(ctx context.Context) error {
	return r.exec.Execute(ctx, func(*State) error { return nil })
}

// Global reads a Lua global, converted with the bridge.
func (r *Runtime) Global(ctx context.Context, name string) (any, error) {
	var v any
	err := r.exec.Execute(ctx, func(s *State) error {
		v = r.bridge.ToGo(s.L.GetGlobal(name))
		return nil
	})
	return v, err
}

// Calls returns the number of procs that ran.
func (r *Runtime) Calls() uint64 {
	return r.calls.Load()
}

// Failures returns the number of invocations that failed or were dropped.
func (r *Runtime) Failures() uint64 {
	return r.failures.Load()
}

// Close stops the executor and releases the Lua state.
func (r *Runtime) Close() {
	r.exec.Close()
	if r.running != nil {
		<-r.running
	}
	r.state.Close()
}

func (r *Runtime) call(s *State, inv router.Invocation) error {
	target, ok := inv.Target.(Object)
	if !ok {
		return fmt.Errorf("%s: %w", inv.Proc, ErrUntypedTarget)
	}

	fn, ok := r.procs.Lookup(target.Type(), inv.Proc)
	if !ok {
		r.logger.Debug("no proc", "type", target.Type(), "proc", inv.Proc)
		return nil
	}

	args := make([]lua.LValue, 0, len(inv.Args)+2)
	args = append(args, r.bridge.Object(target), r.usr(inv.Usr))
	for _, a := range inv.Args {
		args = append(args, r.bridge.ToLua(a))
	}

	r.calls.Add(1)
	if err := s.Call(r.ctx, fn, args...); err != nil {
		return fmt.Errorf("%s.%s: %w", target.Type(), inv.Proc, err)
	}
	return nil
}

func (r *Runtime) usr(obj router.Object) lua.LValue {
	if obj == nil {
		return lua.LNil
	}
	return r.bridge.Object(obj)
}

func (r *Runtime) reportError(err error) {
	r.failures.Add(1)
	r.logger.Warn("invocation failed", "error", err)
}

// registerGlobals installs proc, call and log.
func (r *Runtime) registerGlobals() {
	L := r.state.L

	L.SetGlobal("proc", L.NewFunction(func(L *lua.LState) int {
		path := L.CheckString(1)
		name := L.CheckString(2)
		fn := L.CheckFunction(3)
		r.procs.Define(path, name, fn)
		return 0
	}))

	L.SetGlobal("call", L.NewFunction(func(L *lua.LState) int {
		ud, ok := L.Get(1).(*lua.LUserData)
		if !ok {
			return 0
		}
		obj, ok := ud.Value.(Object)
		if !ok {
			return 0
		}
		name := L.CheckString(2)
		fn, ok := r.procs.Lookup(obj.Type(), name)
		if !ok {
			return 0
		}

		top := L.GetTop()
		L.Push(fn)
		L.Push(ud)
		for i := 3; i <= top; i++ {
			L.Push(L.Get(i))
		}
		r.calls.Add(1)
		L.Call(top-1, 0)
		return 0
	}))

	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		r.logger.Info(strings.Join(parts, " "))
		return 0
	}))
}
