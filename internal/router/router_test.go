package router

import (
	"testing"
	"time"

	"github.com/dshills/mouseproc/internal/input/key"
	"github.com/dshills/mouseproc/internal/input/mouse"
)

type testObject string

func (o testObject) Ref() string { return string(o) }

type testConn struct {
	id     string
	client Object
	mob    Object
}

func (c *testConn) ID() string     { return c.id }
func (c *testConn) Client() Object { return c.client }
func (c *testConn) Mob() Object    { return c.mob }

type pos struct{ x, y, z int }

type testWorld struct {
	refs       map[ClientRef]Resolution
	global     map[string]Resolution
	masks      map[Object]mouse.EventMask
	positions  map[Object]pos
	turfs      map[pos]Object
	containers map[Object]Object
}

func newTestWorld() *testWorld {
	return &testWorld{
		refs:       make(map[ClientRef]Resolution),
		global:     make(map[string]Resolution),
		masks:      make(map[Object]mouse.EventMask),
		positions:  make(map[Object]pos),
		turfs:      make(map[pos]Object),
		containers: make(map[Object]Object),
	}
}

func (w *testWorld) Resolve(_ Connection, ref ClientRef) Resolution { return w.refs[ref] }
func (w *testWorld) Locate(ref string) Resolution                   { return w.global[ref] }
func (w *testWorld) MouseEvents(obj Object) mouse.EventMask         { return w.masks[obj] }
func (w *testWorld) Container(obj Object) Object                    { return w.containers[obj] }

func (w *testWorld) Position(obj Object) (int, int, int, bool) {
	p, ok := w.positions[obj]
	return p.x, p.y, p.z, ok
}

func (w *testWorld) TurfAt(x, y, z int) (Object, bool) {
	t, ok := w.turfs[pos{x, y, z}]
	return t, ok
}

type recorder struct {
	calls []Invocation
}

func (r *recorder) Invoke(call Invocation) {
	r.calls = append(r.calls, call)
}

func (r *recorder) procs() []string {
	names := make([]string, len(r.calls))
	for i, c := range r.calls {
		names[i] = c.Proc
	}
	return names
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

const (
	lamp  = testObject("lamp")
	table = testObject("table")
	turf  = testObject("turf-1-1-1")
)

type fixture struct {
	world  *testWorld
	rec    *recorder
	clock  *fakeClock
	router *Router
	conn   *testConn
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	w := newTestWorld()
	w.refs["lamp"] = Resolved(lamp)
	w.refs["table"] = Resolved(table)
	w.refs["datum"] = Resolution{Status: WrongKind}
	w.global["[0x1]"] = Resolved(lamp)
	w.global["[0x2]"] = Resolution{Status: WrongKind}
	w.positions[lamp] = pos{1, 1, 1}
	w.positions[table] = pos{5, 5, 1}
	w.turfs[pos{1, 1, 1}] = turf
	w.containers[lamp] = turf
	w.masks[lamp] = mouse.EventAll

	rec := &recorder{}
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	return &fixture{
		world:  w,
		rec:    rec,
		clock:  clock,
		router: New(w, rec, WithClock(clock.Now)),
		conn:   &testConn{id: "alice", client: testObject("client"), mob: testObject("mob")},
	}
}

var shiftRight = mouse.Params{
	IconX:     4,
	IconY:     9,
	Right:     true,
	Modifiers: key.ModShift,
	ScreenLoc: mouse.ScreenLoc{X: 1, PixelX: 32, Y: 9, PixelY: 16},
}

const shiftRightEncoded = "icon-x=4;icon-y=9;right=1;shift=1;button=right;screen-loc=1:32,9:16"

func TestSingleClick(t *testing.T) {
	f := newFixture(t)

	f.router.Handle(f.conn, Click{Atom: "lamp", Params: shiftRight})

	if len(f.rec.calls) != 1 {
		t.Fatalf("got %d invocations, want 1: %v", len(f.rec.calls), f.rec.procs())
	}
	call := f.rec.calls[0]
	if call.Proc != ProcClick {
		t.Errorf("Proc = %q, want %q", call.Proc, ProcClick)
	}
	if call.Target != f.conn.client {
		t.Errorf("Target = %v, want client", call.Target)
	}
	if call.Usr != f.conn.mob {
		t.Errorf("Usr = %v, want mob", call.Usr)
	}
	if len(call.Args) != 4 {
		t.Fatalf("len(Args) = %d, want 4", len(call.Args))
	}
	if call.Args[0] != lamp || call.Args[1] != nil || call.Args[2] != nil {
		t.Errorf("Args = %v, want [lamp nil nil params]", call.Args)
	}
	if call.Args[3] != shiftRightEncoded {
		t.Errorf("params = %q, want %q", call.Args[3], shiftRightEncoded)
	}
}

func TestDoubleClickFiresBeforeClick(t *testing.T) {
	f := newFixture(t)

	f.router.Handle(f.conn, Click{Atom: "lamp", Params: shiftRight})
	f.clock.Advance(100 * time.Millisecond)
	f.router.Handle(f.conn, Click{Atom: "lamp", Params: shiftRight})

	want := []string{ProcClick, ProcDblClick, ProcClick}
	got := f.rec.procs()
	if len(got) != len(want) {
		t.Fatalf("procs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("procs = %v, want %v", got, want)
		}
	}

	dbl, click := f.rec.calls[1], f.rec.calls[2]
	if dbl.Args[3] != click.Args[3] {
		t.Errorf("DblClick params %q != Click params %q", dbl.Args[3], click.Args[3])
	}
	if dbl.Args[0] != lamp || dbl.Target != f.conn.client {
		t.Errorf("DblClick = %+v, want lamp on client", dbl)
	}
	if s := f.router.Stats(); s.DoubleClicks != 1 {
		t.Errorf("DoubleClicks = %d, want 1", s.DoubleClicks)
	}
}

func TestDoubleClickBoundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"at window", 250 * time.Millisecond, 3},
		{"past window", 250*time.Millisecond + time.Nanosecond, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.router.Handle(f.conn, Click{Atom: "lamp"})
			f.clock.Advance(tt.elapsed)
			f.router.Handle(f.conn, Click{Atom: "lamp"})

			if got := len(f.rec.calls); got != tt.want {
				t.Errorf("invocations = %d (%v), want %d", got, f.rec.procs(), tt.want)
			}
		})
	}
}

func TestTripleClickPairsEachClick(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		f.router.Handle(f.conn, Click{Atom: "lamp"})
		f.clock.Advance(100 * time.Millisecond)
	}

	want := []string{ProcClick, ProcDblClick, ProcClick, ProcDblClick, ProcClick}
	got := f.rec.procs()
	if len(got) != len(want) {
		t.Fatalf("procs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("procs = %v, want %v", got, want)
		}
	}
}

func TestClickTimingIsPerConnection(t *testing.T) {
	f := newFixture(t)
	bob := &testConn{id: "bob", client: testObject("bob-client"), mob: testObject("bob-mob")}

	f.router.Handle(f.conn, Click{Atom: "lamp"})
	f.clock.Advance(50 * time.Millisecond)
	f.router.Handle(bob, Click{Atom: "lamp"})

	if got := f.rec.procs(); len(got) != 2 || got[1] != ProcClick {
		t.Errorf("procs = %v, want [Click Click]", got)
	}
	if f.router.Connections() != 2 {
		t.Errorf("Connections() = %d, want 2", f.router.Connections())
	}
}

func TestDisconnectForgetsClickState(t *testing.T) {
	f := newFixture(t)

	f.router.Handle(f.conn, Click{Atom: "lamp"})
	f.router.Disconnect(f.conn)
	f.clock.Advance(10 * time.Millisecond)
	f.router.Handle(f.conn, Click{Atom: "lamp"})

	if got := f.rec.procs(); len(got) != 2 {
		t.Errorf("procs = %v, want two single clicks", got)
	}
}

func TestDisconnectNilConnection(t *testing.T) {
	f := newFixture(t)
	f.router.Handle(f.conn, Click{Atom: "lamp"})

	f.router.Disconnect(nil)

	if got := f.router.Connections(); got != 1 {
		t.Errorf("Connections() = %d, want 1", got)
	}
}

func TestStatClickRoutesLikeClick(t *testing.T) {
	f := newFixture(t)

	f.router.Handle(f.conn, StatClick{Ref: "[0x1]", Params: shiftRight})
	f.clock.Advance(10 * time.Millisecond)
	f.router.Handle(f.conn, Click{Atom: "lamp", Params: shiftRight})

	want := []string{ProcClick, ProcDblClick, ProcClick}
	got := f.rec.procs()
	if len(got) != len(want) {
		t.Fatalf("procs = %v, want %v", got, want)
	}
	if f.rec.calls[0].Args[0] != lamp {
		t.Errorf("stat click object = %v, want lamp", f.rec.calls[0].Args[0])
	}
}

func TestClickDrops(t *testing.T) {
	tests := []struct {
		name   string
		event  Event
		reason DropReason
	}{
		{"unknown ref", Click{Atom: "ghost"}, DropNotFound},
		{"wrong kind", Click{Atom: "datum"}, DropWrongKind},
		{"stat unknown ref", StatClick{Ref: "[0x99]"}, DropNotFound},
		{"stat wrong kind", StatClick{Ref: "[0x2]"}, DropWrongKind},
		{"drag unknown src", Drag{Src: "ghost"}, DropNotFound},
		{"drag wrong kind src", Drag{Src: "datum"}, DropWrongKind},
		{"enter unknown", Enter{Atom: "ghost"}, DropNotFound},
		{"exit wrong kind", Exit{Atom: "datum"}, DropWrongKind},
		{"move unknown", Move{Atom: "ghost"}, DropNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.router.Handle(f.conn, tt.event)

			if len(f.rec.calls) != 0 {
				t.Errorf("got invocations %v, want none", f.rec.procs())
			}
			s := f.router.Stats()
			if s.Drops[tt.reason] != 1 || s.EventsDropped != 1 {
				t.Errorf("Drops = %v, want one %s", s.Drops, tt.reason)
			}
		})
	}
}

func TestHoverEvents(t *testing.T) {
	tests := []struct {
		event Event
		proc  string
	}{
		{Enter{Atom: "lamp", Params: shiftRight}, ProcMouseEntered},
		{Exit{Atom: "lamp", Params: shiftRight}, ProcMouseExited},
		{Move{Atom: "lamp", Params: shiftRight}, ProcMouseMove},
	}

	for _, tt := range tests {
		t.Run(tt.proc, func(t *testing.T) {
			f := newFixture(t)
			f.router.Handle(f.conn, tt.event)

			if len(f.rec.calls) != 1 {
				t.Fatalf("got %d invocations, want 1", len(f.rec.calls))
			}
			call := f.rec.calls[0]
			if call.Proc != tt.proc {
				t.Errorf("Proc = %q, want %q", call.Proc, tt.proc)
			}
			if call.Target != lamp {
				t.Errorf("Target = %v, want lamp", call.Target)
			}
			if call.Usr != f.conn.mob {
				t.Errorf("Usr = %v, want mob", call.Usr)
			}
			if len(call.Args) != 3 || call.Args[0] != turf || call.Args[1] != nil || call.Args[2] != shiftRightEncoded {
				t.Errorf("Args = %v, want [turf nil params]", call.Args)
			}
		})
	}
}

func TestHoverEventsRespectMask(t *testing.T) {
	tests := []struct {
		name  string
		mask  mouse.EventMask
		event Event
		fires bool
	}{
		{"enter enabled", mouse.EventEnter, Enter{Atom: "lamp"}, true},
		{"enter disabled", mouse.EventExit | mouse.EventMove, Enter{Atom: "lamp"}, false},
		{"exit enabled", mouse.EventExit, Exit{Atom: "lamp"}, true},
		{"exit disabled", mouse.EventEnter, Exit{Atom: "lamp"}, false},
		{"move enabled", mouse.EventMove, Move{Atom: "lamp"}, true},
		{"move disabled", mouse.EventNone, Move{Atom: "lamp"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.world.masks[lamp] = tt.mask
			f.router.Handle(f.conn, tt.event)

			if got := len(f.rec.calls) == 1; got != tt.fires {
				t.Errorf("fired = %v, want %v", got, tt.fires)
			}
			if !tt.fires && f.router.Stats().Drops[DropMasked] != 1 {
				t.Errorf("Drops = %v, want one masked", f.router.Stats().Drops)
			}
		})
	}
}

func TestHoverWithoutContainer(t *testing.T) {
	f := newFixture(t)
	delete(f.world.containers, lamp)

	f.router.Handle(f.conn, Enter{Atom: "lamp"})

	if len(f.rec.calls) != 1 || f.rec.calls[0].Args[0] != nil {
		t.Errorf("calls = %+v, want MouseEntered with nil location", f.rec.calls)
	}
}

func TestDrag(t *testing.T) {
	f := newFixture(t)
	over := ClientRef("table")

	f.router.Handle(f.conn, Drag{Src: "lamp", Over: &over, Params: shiftRight})

	if len(f.rec.calls) != 1 {
		t.Fatalf("got %d invocations, want 1", len(f.rec.calls))
	}
	call := f.rec.calls[0]
	if call.Proc != ProcMouseDrop || call.Target != f.conn.client || call.Usr != f.conn.mob {
		t.Errorf("call = %+v, want MouseDrop on client by mob", call)
	}
	// table sits on a position with no turf.
	want := []any{lamp, table, turf, nil, nil, nil, shiftRightEncoded}
	if len(call.Args) != len(want) {
		t.Fatalf("Args = %v, want %v", call.Args, want)
	}
	for i := range want {
		if call.Args[i] != want[i] {
			t.Errorf("Args[%d] = %v, want %v", i, call.Args[i], want[i])
		}
	}
}

func TestDragOverNothing(t *testing.T) {
	tests := []struct {
		name string
		over *ClientRef
	}{
		{"no over", nil},
		{"unresolved over", refPtr("ghost")},
		{"over is not an atom", refPtr("datum")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.router.Handle(f.conn, Drag{Src: "lamp", Over: tt.over})

			if len(f.rec.calls) != 1 {
				t.Fatalf("got %d invocations, want 1", len(f.rec.calls))
			}
			args := f.rec.calls[0].Args
			if args[1] != nil || args[3] != nil {
				t.Errorf("over = %v, overLoc = %v; want nil, nil", args[1], args[3])
			}
			if args[2] != turf {
				t.Errorf("srcLoc = %v, want turf", args[2])
			}
		})
	}
}

func TestDragNeverDoubleClicks(t *testing.T) {
	f := newFixture(t)

	f.router.Handle(f.conn, Click{Atom: "lamp"})
	f.router.Handle(f.conn, Drag{Src: "lamp"})
	f.router.Handle(f.conn, Drag{Src: "lamp"})

	want := []string{ProcClick, ProcMouseDrop, ProcMouseDrop}
	got := f.rec.procs()
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("procs = %v, want %v", got, want)
		}
	}
}

func TestNoClientObject(t *testing.T) {
	f := newFixture(t)
	f.conn.client = nil

	f.router.Handle(f.conn, Click{Atom: "lamp"})
	f.router.Handle(f.conn, Drag{Src: "lamp"})
	f.router.Handle(f.conn, Enter{Atom: "lamp"})

	if got := f.rec.procs(); len(got) != 1 || got[0] != ProcMouseEntered {
		t.Errorf("procs = %v, want only MouseEntered", got)
	}
	if n := f.router.Stats().Drops[DropNoClient]; n != 2 {
		t.Errorf("no-client drops = %d, want 2", n)
	}

	// The click without a client still counts for timing.
	f.conn.client = testObject("client")
	f.clock.Advance(10 * time.Millisecond)
	f.router.Handle(f.conn, Click{Atom: "lamp"})
	if got := f.rec.procs(); len(got) != 3 || got[1] != ProcDblClick {
		t.Errorf("procs = %v, want DblClick after the client returns", got)
	}
}

type unknownEvent struct{}

func (unknownEvent) Kind() string { return "wheel" }

func TestUnknownEventAndNilConnection(t *testing.T) {
	f := newFixture(t)

	f.router.Handle(f.conn, unknownEvent{})
	f.router.Handle(nil, Click{Atom: "lamp"})

	if len(f.rec.calls) != 0 {
		t.Errorf("procs = %v, want none", f.rec.procs())
	}
	s := f.router.Stats()
	if s.EventsHandled != 2 || s.Drops[DropUnknown] != 2 {
		t.Errorf("Stats = %+v, want 2 handled, 2 unknown drops", s)
	}
}

func TestWithDoubleClickWindow(t *testing.T) {
	f := newFixture(t)
	r := New(f.world, f.rec, WithClock(f.clock.Now), WithDoubleClickWindow(50*time.Millisecond))

	r.Handle(f.conn, Click{Atom: "lamp"})
	f.clock.Advance(100 * time.Millisecond)
	r.Handle(f.conn, Click{Atom: "lamp"})

	if got := f.rec.procs(); len(got) != 2 {
		t.Errorf("procs = %v, want two single clicks", got)
	}
}

type testLogger struct {
	messages []string
}

func (l *testLogger) Debug(msg string, _ ...any) {
	l.messages = append(l.messages, msg)
}

func TestDropsAreLoggedAtDebug(t *testing.T) {
	f := newFixture(t)
	logger := &testLogger{}
	r := New(f.world, f.rec, WithLogger(logger))

	r.Handle(f.conn, Click{Atom: "ghost"})

	if len(logger.messages) != 1 {
		t.Errorf("messages = %v, want one", logger.messages)
	}
}

func TestInvokerFunc(t *testing.T) {
	var got string
	var inv Invoker = InvokerFunc(func(call Invocation) { got = call.Proc })

	inv.Invoke(Invocation{Proc: ProcClick})
	if got != ProcClick {
		t.Errorf("InvokerFunc got %q, want %q", got, ProcClick)
	}
}

func TestStatusAndReasonStrings(t *testing.T) {
	if Found.String() != "found" || WrongKind.String() != "wrong-kind" || NotFound.String() != "not-found" {
		t.Error("unexpected Status strings")
	}
	if DropMasked.String() != "masked" || DropNoClient.String() != "no-client" || DropUnknown.String() != "unknown" {
		t.Error("unexpected DropReason strings")
	}
}

func refPtr(s string) *ClientRef {
	r := ClientRef(s)
	return &r
}
