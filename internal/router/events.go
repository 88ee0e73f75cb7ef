package router

import "github.com/dshills/mouseproc/internal/input/mouse"

// Event is a decoded pointer event.
type Event interface {
	// Kind returns a short name for the event, used in logs and stats.
	Kind() string
}

// Click is a click on an atom in the map or an on-screen object.
type Click struct {
	Atom   ClientRef
	Params mouse.Params
}

// StatClick is a click on an atom listed in a stat panel. Stat panels carry
// global references instead of client references.
type StatClick struct {
	Ref    string
	Params mouse.Params
}

// Drag is an atom dragged by the pointer and dropped, possibly onto
// another atom.
type Drag struct {
	Src ClientRef
	// Over is nil when the drop did not land on an atom.
	Over   *ClientRef
	Params mouse.Params
}

// Enter is the pointer entering an atom.
type Enter struct {
	Atom   ClientRef
	Params mouse.Params
}

// Exit is the pointer leaving an atom.
type Exit struct {
	Atom   ClientRef
	Params mouse.Params
}

// Move is the pointer moving over an atom.
type Move struct {
	Atom   ClientRef
	Params mouse.Params
}

// Kind implements Event.
func (Click) Kind() string { return "click" }

// Kind implements Event.
func (StatClick) Kind() string { return "stat" }

// Kind implements Event.
func (Drag) Kind() string { return "drag" }

// Kind implements Event.
func (Enter) Kind() string { return "enter" }

// Kind implements Event.
func (Exit) Kind() string { return "exit" }

// Kind implements Event.
func (Move) Kind() string { return "move" }
