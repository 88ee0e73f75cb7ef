package router

import (
	"github.com/dshills/mouseproc/internal/input/mouse"
)

// Proc names invoked by the router.
const (
	ProcClick        = "Click"
	ProcDblClick     = "DblClick"
	ProcMouseDrop    = "MouseDrop"
	ProcMouseEntered = "MouseEntered"
	ProcMouseExited  = "MouseExited"
	ProcMouseMove    = "MouseMove"
)

// ClientRef is a reference token the client uses for an object it can see.
// It is only meaningful for the connection that received it.
type ClientRef string

// Object is an opaque handle into the object system.
type Object interface {
	// Ref returns a stable identifier for the object.
	Ref() string
}

// Connection is the server side of one client session.
type Connection interface {
	// ID identifies the connection. Click timing state is keyed by it.
	ID() string

	// Client returns the client object procs are invoked on, or nil.
	Client() Object

	// Mob returns the object the connection controls, passed as usr.
	Mob() Object
}

// Status is the outcome of resolving a reference.
type Status uint8

const (
	// NotFound means the reference is stale or forged.
	NotFound Status = iota
	// WrongKind means the object exists but cannot receive mouse procs.
	WrongKind
	// Found means the reference resolved to an atom.
	Found
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case WrongKind:
		return "wrong-kind"
	default:
		return "not-found"
	}
}

// Resolution is the result of resolving a reference. Object is set only
// when Status is Found.
type Resolution struct {
	Status Status
	Object Object
}

// Resolved returns a Found resolution for obj.
func Resolved(obj Object) Resolution {
	return Resolution{Status: Found, Object: obj}
}

// Atom returns the resolved object and true when the status is Found.
func (r Resolution) Atom() (Object, bool) {
	if r.Status != Found || r.Object == nil {
		return nil, false
	}
	return r.Object, true
}

// ObjectSystem is the part of the world the router reads.
type ObjectSystem interface {
	// Resolve looks up a reference sent by conn.
	Resolve(conn Connection, ref ClientRef) Resolution

	// Locate looks up a global object reference, as used by stat panels.
	Locate(ref string) Resolution

	// MouseEvents returns the hover events obj has enabled.
	MouseEvents(obj Object) mouse.EventMask

	// Position returns the map position of obj. ok is false when obj is not
	// on a turf.
	Position(obj Object) (x, y, z int, ok bool)

	// TurfAt returns the turf at a map position.
	TurfAt(x, y, z int) (Object, bool)

	// Container returns the object holding obj, or nil.
	Container(obj Object) Object
}

// Invocation is a proc call on a world object.
//
// Args holds Object values, strings and nils. Nil stands for a null
// argument in the proc's positional list.
type Invocation struct {
	Proc   string
	Target Object
	Usr    Object
	Args   []any
}

// Invoker runs procs. Invoke is fire-and-forget: the router never waits for
// or inspects a result. Invocations must be started in the order they are
// handed over.
type Invoker interface {
	Invoke(call Invocation)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(call Invocation)

// Invoke implements Invoker.
func (f InvokerFunc) Invoke(call Invocation) {
	f(call)
}

// Logger is the logging interface used by the router.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
}
