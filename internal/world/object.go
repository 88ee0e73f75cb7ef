package world

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/mouseproc/internal/input/mouse"
)

// Kind is the broad category of an object.
type Kind uint8

const (
	// KindDatum is a plain data object.
	KindDatum Kind = iota
	// KindArea is a region of turfs.
	KindArea
	// KindTurf is a map tile.
	KindTurf
	// KindObj is a movable item.
	KindObj
	// KindMob is a movable creature, possibly player controlled.
	KindMob
	// KindClient is the server object of a player's connection.
	KindClient
)

// String returns the root type path segment of the kind.
func (k Kind) String() string {
	switch k {
	case KindArea:
		return "area"
	case KindTurf:
		return "turf"
	case KindObj:
		return "obj"
	case KindMob:
		return "mob"
	case KindClient:
		return "client"
	default:
		return "datum"
	}
}

// IsAtom returns true for kinds that exist on the map.
func (k Kind) IsAtom() bool {
	return k == KindArea || k == KindTurf || k == KindObj || k == KindMob
}

// IsMovable returns true for kinds that can change location.
func (k Kind) IsMovable() bool {
	return k == KindObj || k == KindMob
}

// KindOf returns the kind of a type path such as "/obj/item/lamp".
func KindOf(typePath string) Kind {
	root := strings.TrimPrefix(typePath, "/")
	if i := strings.IndexByte(root, '/'); i >= 0 {
		root = root[:i]
	}
	switch root {
	case "area":
		return KindArea
	case "turf":
		return KindTurf
	case "obj":
		return KindObj
	case "mob":
		return KindMob
	case "client":
		return KindClient
	default:
		return KindDatum
	}
}

// Object is a world object.
type Object struct {
	id       uuid.UUID
	typePath string
	kind     Kind
	name     string

	// loc is the containing object of a movable, nil when nowhere.
	loc *Object

	// x, y, z are only meaningful for turfs.
	x, y, z int

	mouseEvents mouse.EventMask
	deleted     bool
}

// Ref returns the global reference of the object.
func (o *Object) Ref() string {
	return o.id.String()
}

// ID returns the object's ID.
func (o *Object) ID() uuid.UUID {
	return o.id
}

// Type returns the type path.
func (o *Object) Type() string {
	return o.typePath
}

// Kind returns the object kind.
func (o *Object) Kind() Kind {
	return o.kind
}

// Name returns the display name.
func (o *Object) Name() string {
	return o.name
}

// String returns the name, or the type path for unnamed objects.
func (o *Object) String() string {
	if o.name != "" {
		return o.name
	}
	return o.typePath
}
