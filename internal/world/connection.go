package world

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/mouseproc/internal/router"
)

// Connection is a connected client. It implements router.Connection.
type Connection struct {
	id     string
	client *Object
	mob    *Object

	// refs are the reference tokens issued to this client.
	refs map[router.ClientRef]uuid.UUID
	// issued maps objects back to their token so See is stable.
	issued map[uuid.UUID]router.ClientRef
}

// ID implements router.Connection.
func (c *Connection) ID() string {
	return c.id
}

// Client implements router.Connection.
func (c *Connection) Client() router.Object {
	if c.client == nil {
		return nil
	}
	return c.client
}

// Mob implements router.Connection.
func (c *Connection) Mob() router.Object {
	if c.mob == nil {
		return nil
	}
	return c.mob
}

// ClientObject returns the /client object of the connection.
func (c *Connection) ClientObject() *Object {
	return c.client
}

// MobObject returns the controlled mob, or nil.
func (c *Connection) MobObject() *Object {
	return c.mob
}

// Connect registers a connection and creates its /client object.
// mob may be nil for a client that controls nothing yet.
func (w *World) Connect(id string, mob *Object) (*Connection, error) {
	return w.connect(id, mob, true)
}

// ConnectDetached registers a connection that has no /client object, as
// while a login is still in progress.
func (w *World) ConnectDetached(id string) (*Connection, error) {
	return w.connect(id, nil, false)
}

func (w *World) connect(id string, mob *Object, withClient bool) (*Connection, error) {
	if mob != nil && mob.kind != KindMob {
		return nil, fmt.Errorf("connect %s with %s: %w", id, mob, ErrWrongKind)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.conns[id]; ok {
		return nil, fmt.Errorf("connect %s: %w", id, ErrConnectionExists)
	}

	c := &Connection{
		id:     id,
		mob:    mob,
		refs:   make(map[router.ClientRef]uuid.UUID),
		issued: make(map[uuid.UUID]router.ClientRef),
	}
	if withClient {
		c.client = w.add("/client", id)
	}
	w.conns[id] = c
	return c, nil
}

// Connection returns a connection by ID.
func (w *World) Connection(id string) (*Connection, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.conns[id]
	return c, ok
}

// Disconnect removes a connection, its references and its /client object.
func (w *World) Disconnect(id string) {
	w.mu.Lock()
	c, ok := w.conns[id]
	delete(w.conns, id)
	w.mu.Unlock()

	if ok && c.client != nil {
		w.Delete(c.client)
	}
}

// See issues a reference token for obj to a connection. Seeing the same
// object twice returns the same token.
func (w *World) See(c *Connection, obj *Object) router.ClientRef {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ref, ok := c.issued[obj.id]; ok {
		return ref
	}
	ref := router.ClientRef(uuid.NewString())
	c.refs[ref] = obj.id
	c.issued[obj.id] = ref
	return ref
}

// Alias makes a caller-chosen token resolve to obj for a connection.
// Replay logs use readable aliases instead of generated tokens.
func (w *World) Alias(c *Connection, ref router.ClientRef, obj *Object) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c.refs[ref] = obj.id
}
