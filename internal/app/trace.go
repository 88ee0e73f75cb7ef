package app

import (
	"io"
	"sync"

	"github.com/tidwall/sjson"

	"github.com/dshills/mouseproc/internal/router"
)

// Tracer is a router.Invoker that writes each invocation as a JSON line
// and then hands it to the next invoker:
//
//	{"proc":"MouseDrop","target":"client:alice","usr":"player","args":["lamp",null,"floor",null,null,null,"icon-x=..."]}
//
// Objects are written by label.
type Tracer struct {
	mu     sync.Mutex
	w      io.Writer
	next   router.Invoker
	label  func(router.Object) string
	err    error
	traced uint64
}

// NewTracer creates a tracer. next may be nil to only trace.
func NewTracer(w io.Writer, next router.Invoker, label func(router.Object) string) *Tracer {
	if label == nil {
		label = func(obj router.Object) string { return obj.Ref() }
	}
	return &Tracer{w: w, next: next, label: label}
}

// Invoke implements router.Invoker.
func (t *Tracer) Invoke(inv router.Invocation) {
	line, err := t.encode(inv)

	t.mu.Lock()
	if err == nil {
		_, err = io.WriteString(t.w, line+"\n")
	}
	if err != nil && t.err == nil {
		t.err = err
	}
	t.traced++
	t.mu.Unlock()

	if t.next != nil {
		t.next.Invoke(inv)
	}
}

// Err returns the first error encountered while tracing.
func (t *Tracer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Count returns the number of invocations traced.
func (t *Tracer) Count() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.traced
}

func (t *Tracer) encode(inv router.Invocation) (string, error) {
	line, err := sjson.Set(`{}`, "proc", inv.Proc)
	if err != nil {
		return "", err
	}
	if line, err = sjson.Set(line, "target", t.value(inv.Target)); err != nil {
		return "", err
	}
	if line, err = sjson.Set(line, "usr", t.value(inv.Usr)); err != nil {
		return "", err
	}
	if line, err = sjson.SetRaw(line, "args", `[]`); err != nil {
		return "", err
	}
	for _, arg := range inv.Args {
		if line, err = sjson.Set(line, "args.-1", t.value(arg)); err != nil {
			return "", err
		}
	}
	return line, nil
}

// value maps an argument to something sjson writes directly.
func (t *Tracer) value(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case router.Object:
		return t.label(val)
	default:
		return val
	}
}
