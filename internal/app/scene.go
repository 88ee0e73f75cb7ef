package app

import (
	"fmt"
	"sort"

	"github.com/dshills/mouseproc/internal/config"
	"github.com/dshills/mouseproc/internal/input/mouse"
	"github.com/dshills/mouseproc/internal/router"
	"github.com/dshills/mouseproc/internal/world"
)

// Scene is a world built from configuration, with the configuration ids
// kept so event logs can name objects and connections.
type Scene struct {
	World *world.World

	objects map[string]*world.Object
	conns   map[string]*world.Connection
	labels  map[string]string // object ref -> config id
}

// BuildScene creates the objects and connections cfg declares. Every
// object id a connection sees becomes a client reference of the same name.
func BuildScene(cfg *config.Config) (*Scene, error) {
	s := &Scene{
		World:   world.New(),
		objects: make(map[string]*world.Object, len(cfg.Objects)),
		conns:   make(map[string]*world.Connection, len(cfg.Connections)),
		labels:  make(map[string]string, len(cfg.Objects)),
	}

	for _, oc := range cfg.Objects {
		name := oc.Name
		if name == "" {
			name = oc.ID
		}

		var (
			obj *world.Object
			err error
		)
		if oc.IsTurf() {
			obj, err = s.World.NewTurf(oc.Type, name, oc.X, oc.Y, oc.Z)
		} else {
			obj, err = s.World.NewObject(oc.Type, name)
		}
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", oc.ID, err)
		}

		mask, err := mouse.ParseEventMask(oc.MouseEvents)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", oc.ID, err)
		}
		s.World.SetMouseEvents(obj, mask)

		s.objects[oc.ID] = obj
		s.labels[obj.Ref()] = oc.ID
	}

	// Placement needs every object to exist first.
	for _, oc := range cfg.Objects {
		if oc.Loc == "" {
			continue
		}
		obj, loc := s.objects[oc.ID], s.objects[oc.Loc]

		var err error
		if oc.IsTurf() {
			err = s.World.SetArea(obj, loc)
		} else {
			err = s.World.Move(obj, loc)
		}
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", oc.ID, err)
		}
	}

	for _, cc := range cfg.Connections {
		if err := s.connect(cc); err != nil {
			return nil, fmt.Errorf("connection %s: %w", cc.ID, err)
		}
	}
	return s, nil
}

func (s *Scene) connect(cc config.ConnectionConfig) error {
	if cc.Detached && cc.Mob != "" {
		return fmt.Errorf("detached connection cannot have mob %s", cc.Mob)
	}

	var (
		conn *world.Connection
		err  error
	)
	if cc.Detached {
		conn, err = s.World.ConnectDetached(cc.ID)
	} else {
		conn, err = s.World.Connect(cc.ID, s.objects[cc.Mob])
	}
	if err != nil {
		return err
	}

	seen := cc.Sees
	if len(seen) == 0 {
		seen = s.ObjectIDs()
	}
	for _, id := range seen {
		s.World.Alias(conn, router.ClientRef(id), s.objects[id])
	}

	s.conns[cc.ID] = conn
	if client := conn.ClientObject(); client != nil {
		s.labels[client.Ref()] = "client:" + cc.ID
	}
	return nil
}

// Object returns the object declared with id.
func (s *Scene) Object(id string) (*world.Object, bool) {
	o, ok := s.objects[id]
	return o, ok
}

// Connection returns the connection declared with id.
func (s *Scene) Connection(id string) (*world.Connection, bool) {
	c, ok := s.conns[id]
	return c, ok
}

// ObjectIDs returns every object id, sorted.
func (s *Scene) ObjectIDs() []string {
	ids := make([]string, 0, len(s.objects))
	for id := range s.objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Label returns the config id for an object, falling back to its ref.
func (s *Scene) Label(obj router.Object) string {
	if obj == nil {
		return ""
	}
	if id, ok := s.labels[obj.Ref()]; ok {
		return id
	}
	return obj.Ref()
}

// StatRef returns the global ref for the object declared with id. Stat
// panel events name objects by config id; the router locates them by ref.
func (s *Scene) StatRef(id string) string {
	if o, ok := s.objects[id]; ok {
		return o.Ref()
	}
	return id
}
