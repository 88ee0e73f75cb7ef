package world

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/mouseproc/internal/input/mouse"
	"github.com/dshills/mouseproc/internal/router"
)

// Coord is a map position.
type Coord struct {
	X, Y, Z int
}

// World holds every object, the turf grid and the connected clients.
type World struct {
	mu      sync.RWMutex
	objects map[uuid.UUID]*Object
	turfs   map[Coord]*Object
	conns   map[string]*Connection
}

// New creates an empty world.
func New() *World {
	return &World{
		objects: make(map[uuid.UUID]*Object),
		turfs:   make(map[Coord]*Object),
		conns:   make(map[string]*Connection),
	}
}

// NewTurf creates a turf at a map position.
func (w *World) NewTurf(typePath, name string, x, y, z int) (*Object, error) {
	if KindOf(typePath) != KindTurf {
		return nil, fmt.Errorf("new turf %s: %w", typePath, ErrWrongKind)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	c := Coord{x, y, z}
	if _, ok := w.turfs[c]; ok {
		return nil, fmt.Errorf("new turf %s at %v: %w", typePath, c, ErrTurfExists)
	}

	t := w.add(typePath, name)
	t.x, t.y, t.z = x, y, z
	w.turfs[c] = t
	return t, nil
}

// NewObject creates an object that is not a turf. Movables start nowhere.
func (w *World) NewObject(typePath, name string) (*Object, error) {
	if KindOf(typePath) == KindTurf {
		return nil, fmt.Errorf("new object %s: use NewTurf: %w", typePath, ErrWrongKind)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.add(typePath, name), nil
}

// add must be called with w.mu held.
func (w *World) add(typePath, name string) *Object {
	o := &Object{
		id:       uuid.New(),
		typePath: typePath,
		kind:     KindOf(typePath),
		name:     name,
	}
	w.objects[o.id] = o
	return o
}

// Get returns a live object by ID.
func (w *World) Get(id uuid.UUID) (*Object, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	o, ok := w.objects[id]
	return o, ok
}

// Len returns the number of live objects.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.objects)
}

// Move puts a movable inside loc. A nil loc moves it nowhere.
func (w *World) Move(obj, loc *Object) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if obj.deleted || (loc != nil && loc.deleted) {
		return fmt.Errorf("move %s: %w", obj, ErrDeleted)
	}
	if !obj.kind.IsMovable() {
		return fmt.Errorf("move %s: not movable: %w", obj, ErrWrongKind)
	}
	for l := loc; l != nil; l = l.loc {
		if l == obj {
			return fmt.Errorf("move %s into %s: %w", obj, loc, ErrContainmentLoop)
		}
	}

	obj.loc = loc
	return nil
}

// SetArea places a turf in an area.
func (w *World) SetArea(turf, area *Object) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if turf.kind != KindTurf || area.kind != KindArea {
		return fmt.Errorf("set area of %s to %s: %w", turf, area, ErrWrongKind)
	}
	if turf.deleted || area.deleted {
		return fmt.Errorf("set area of %s: %w", turf, ErrDeleted)
	}
	turf.loc = area
	return nil
}

// SetMouseEvents sets the hover events obj receives.
func (w *World) SetMouseEvents(obj *Object, mask mouse.EventMask) {
	w.mu.Lock()
	defer w.mu.Unlock()
	obj.mouseEvents = mask
}

// Delete removes an object. Its contents are moved nowhere and every
// client reference to it stops resolving.
func (w *World) Delete(obj *Object) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if obj.deleted {
		return
	}
	obj.deleted = true
	delete(w.objects, obj.id)
	if obj.kind == KindTurf {
		delete(w.turfs, Coord{obj.x, obj.y, obj.z})
	}
	for _, o := range w.objects {
		if o.loc == obj {
			o.loc = nil
		}
	}
}

// Loc returns the object containing obj, or nil.
func (w *World) Loc(obj *Object) *Object {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return obj.loc
}

// Turf returns the turf obj is on, following containers outwards.
func (w *World) Turf(obj *Object) (*Object, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t := turfOf(obj)
	return t, t != nil
}

// turfOf must be called with w.mu held.
func turfOf(obj *Object) *Object {
	for o := obj; o != nil; o = o.loc {
		if o.kind == KindTurf {
			return o
		}
	}
	return nil
}

// Resolve implements router.ObjectSystem.
func (w *World) Resolve(conn router.Connection, ref router.ClientRef) router.Resolution {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c, ok := w.conns[conn.ID()]
	if !ok {
		return router.Resolution{Status: router.NotFound}
	}
	id, ok := c.refs[ref]
	if !ok {
		return router.Resolution{Status: router.NotFound}
	}
	return w.resolution(id)
}

// Locate implements router.ObjectSystem.
func (w *World) Locate(ref string) router.Resolution {
	id, err := uuid.Parse(ref)
	if err != nil {
		return router.Resolution{Status: router.NotFound}
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.resolution(id)
}

// resolution must be called with w.mu held.
func (w *World) resolution(id uuid.UUID) router.Resolution {
	o, ok := w.objects[id]
	if !ok {
		return router.Resolution{Status: router.NotFound}
	}
	if !o.kind.IsAtom() {
		return router.Resolution{Status: router.WrongKind}
	}
	return router.Resolved(o)
}

// MouseEvents implements router.ObjectSystem.
func (w *World) MouseEvents(obj router.Object) mouse.EventMask {
	o, ok := obj.(*Object)
	if !ok {
		return mouse.EventNone
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return o.mouseEvents
}

// Position implements router.ObjectSystem.
func (w *World) Position(obj router.Object) (x, y, z int, ok bool) {
	o, isObj := obj.(*Object)
	if !isObj {
		return 0, 0, 0, false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	t := turfOf(o)
	if t == nil {
		return 0, 0, 0, false
	}
	return t.x, t.y, t.z, true
}

// TurfAt implements router.ObjectSystem.
func (w *World) TurfAt(x, y, z int) (router.Object, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	t, ok := w.turfs[Coord{x, y, z}]
	if !ok {
		return nil, false
	}
	return t, true
}

// Container implements router.ObjectSystem.
func (w *World) Container(obj router.Object) router.Object {
	o, ok := obj.(*Object)
	if !ok {
		return nil
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	if o.loc == nil {
		return nil
	}
	return o.loc
}
