package router

import (
	"time"

	"github.com/dshills/mouseproc/internal/input/mouse"
)

// Option configures a Router.
type Option func(*Router)

// WithClock sets the clock read when a click is processed.
func WithClock(clock mouse.Clock) Option {
	return func(r *Router) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithLogger sets the logger. Only debug messages are emitted.
func WithLogger(logger Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithDoubleClickWindow overrides mouse.DoubleClickWindow.
func WithDoubleClickWindow(window time.Duration) Option {
	return func(r *Router) {
		r.classifier = mouse.NewClassifier(window)
	}
}

// Router routes pointer events to proc invocations.
type Router struct {
	objects    ObjectSystem
	invoker    Invoker
	classifier *mouse.Classifier
	clock      mouse.Clock
	logger     Logger

	clicks *clickStates
	stats  counters
}

// New creates a router reading from objects and invoking through invoker.
func New(objects ObjectSystem, invoker Invoker, opts ...Option) *Router {
	r := &Router{
		objects:    objects,
		invoker:    invoker,
		classifier: mouse.NewClassifier(mouse.DoubleClickWindow),
		clock:      time.Now,
		clicks:     newClickStates(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle routes one event from conn. It never blocks and never fails;
// events that cannot be routed are dropped.
func (r *Router) Handle(conn Connection, event Event) {
	r.stats.handled.Add(1)

	if conn == nil {
		r.drop(DropUnknown, "nil", "no connection")
		return
	}

	switch e := event.(type) {
	case Click:
		r.handleClick(conn, e)
	case StatClick:
		r.handleStatClick(conn, e)
	case Drag:
		r.handleDrag(conn, e)
	case Enter:
		r.handleHover(conn, e.Kind(), e.Atom, e.Params, mouse.EventEnter, ProcMouseEntered)
	case Exit:
		r.handleHover(conn, e.Kind(), e.Atom, e.Params, mouse.EventExit, ProcMouseExited)
	case Move:
		r.handleHover(conn, e.Kind(), e.Atom, e.Params, mouse.EventMove, ProcMouseMove)
	default:
		r.drop(DropUnknown, "unknown", "unhandled event type")
	}
}

// Disconnect forgets the click state of conn.
func (r *Router) Disconnect(conn Connection) {
	if conn == nil {
		return
	}
	r.clicks.remove(conn.ID())
}

// Connections returns the number of connections with click state.
func (r *Router) Connections() int {
	return r.clicks.len()
}

// Stats returns a snapshot of the router counters.
func (r *Router) Stats() Stats {
	return r.stats.snapshot()
}

func (r *Router) handleClick(conn Connection, e Click) {
	atom, ok := r.resolve(e.Kind(), r.objects.Resolve(conn, e.Atom))
	if !ok {
		return
	}
	r.click(conn, e.Kind(), atom, e.Params)
}

func (r *Router) handleStatClick(conn Connection, e StatClick) {
	atom, ok := r.resolve(e.Kind(), r.objects.Locate(e.Ref))
	if !ok {
		return
	}
	r.click(conn, e.Kind(), atom, e.Params)
}

// click fires DblClick before Click when the click pairs with the previous
// one. Both calls share one params string.
func (r *Router) click(conn Connection, kind string, atom Object, p mouse.Params) {
	params := mouse.Encode(p)
	double := r.classifier.Click(r.clicks.get(conn.ID()), r.clock())

	client := conn.Client()
	if client == nil {
		r.drop(DropNoClient, kind, "connection has no client")
		return
	}

	if double {
		r.stats.doubleClicks.Add(1)
		r.invoke(Invocation{
			Proc:   ProcDblClick,
			Target: client,
			Usr:    conn.Mob(),
			Args:   []any{atom, nil, nil, params},
		})
	}

	r.invoke(Invocation{
		Proc:   ProcClick,
		Target: client,
		Usr:    conn.Mob(),
		Args:   []any{atom, nil, nil, params},
	})
}

func (r *Router) handleDrag(conn Connection, e Drag) {
	src, ok := r.resolve(e.Kind(), r.objects.Resolve(conn, e.Src))
	if !ok {
		return
	}

	client := conn.Client()
	if client == nil {
		r.drop(DropNoClient, e.Kind(), "connection has no client")
		return
	}

	// A drop onto something that is not an atom is a drop onto nothing.
	var over Object
	if e.Over != nil {
		over, _ = r.objects.Resolve(conn, *e.Over).Atom()
	}

	var overLoc any
	if over != nil {
		overLoc = r.turfOf(over)
	}

	r.invoke(Invocation{
		Proc:   ProcMouseDrop,
		Target: client,
		Usr:    conn.Mob(),
		Args:   []any{src, nullable(over), r.turfOf(src), overLoc, nil, nil, mouse.Encode(e.Params)},
	})
}

func (r *Router) handleHover(conn Connection, kind string, ref ClientRef, p mouse.Params, event mouse.EventMask, proc string) {
	atom, ok := r.resolve(kind, r.objects.Resolve(conn, ref))
	if !ok {
		return
	}

	if !r.objects.MouseEvents(atom).Has(event) {
		r.drop(DropMasked, kind, "event not enabled")
		return
	}

	r.invoke(Invocation{
		Proc:   proc,
		Target: atom,
		Usr:    conn.Mob(),
		Args:   []any{nullable(r.objects.Container(atom)), nil, mouse.Encode(p)},
	})
}

// resolve unwraps a resolution, counting the drop when it is not an atom.
func (r *Router) resolve(kind string, res Resolution) (Object, bool) {
	if atom, ok := res.Atom(); ok {
		return atom, true
	}

	switch res.Status {
	case WrongKind:
		r.drop(DropWrongKind, kind, "not an atom")
	default:
		r.drop(DropNotFound, kind, "unresolved reference")
	}
	return nil, false
}

// turfOf returns the turf under obj, or nil when there is none.
func (r *Router) turfOf(obj Object) any {
	x, y, z, ok := r.objects.Position(obj)
	if !ok {
		return nil
	}
	turf, ok := r.objects.TurfAt(x, y, z)
	if !ok {
		return nil
	}
	return nullable(turf)
}

func (r *Router) invoke(call Invocation) {
	r.stats.invocations.Add(1)
	r.invoker.Invoke(call)
}

func (r *Router) drop(reason DropReason, kind, msg string) {
	r.stats.drop(reason)
	if r.logger != nil {
		r.logger.Debug("event dropped", "kind", kind, "reason", reason.String(), "detail", msg)
	}
}

// nullable keeps a nil Object from becoming a typed nil inside []any.
func nullable(obj Object) any {
	if obj == nil {
		return nil
	}
	return obj
}
