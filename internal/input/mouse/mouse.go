package mouse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/mouseproc/internal/input/key"
)

// Button represents the button reported in click params.
type Button uint8

const (
	// ButtonLeft is the primary (left) mouse button. It is implied when no
	// other button flag is set.
	ButtonLeft Button = iota
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
)

// String returns the params name of the button.
func (b Button) String() string {
	switch b {
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "left"
	}
}

// ScreenLoc is a position in the client's screen overlay space: a tile
// coordinate plus a pixel offset inside that tile, per axis.
type ScreenLoc struct {
	X      int
	PixelX int
	Y      int
	PixelY int
}

// Coordinates returns the canonical "X:PixelX,Y:PixelY" form.
func (l ScreenLoc) Coordinates() string {
	return strconv.Itoa(l.X) + ":" + strconv.Itoa(l.PixelX) + "," +
		strconv.Itoa(l.Y) + ":" + strconv.Itoa(l.PixelY)
}

// String implements fmt.Stringer.
func (l ScreenLoc) String() string {
	return l.Coordinates()
}

// ParseScreenLoc parses the canonical "X:PixelX,Y:PixelY" form.
// A missing pixel part ("3,4") is read as a zero offset.
func ParseScreenLoc(s string) (ScreenLoc, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return ScreenLoc{}, fmt.Errorf("screen loc %q: missing ','", s)
	}

	x, px, err := parseAxis(xs)
	if err != nil {
		return ScreenLoc{}, fmt.Errorf("screen loc %q: %w", s, err)
	}
	y, py, err := parseAxis(ys)
	if err != nil {
		return ScreenLoc{}, fmt.Errorf("screen loc %q: %w", s, err)
	}

	return ScreenLoc{X: x, PixelX: px, Y: y, PixelY: py}, nil
}

func parseAxis(s string) (tile, pixel int, err error) {
	ts, ps, hasPixel := strings.Cut(strings.TrimSpace(s), ":")
	if tile, err = strconv.Atoi(ts); err != nil {
		return 0, 0, err
	}
	if hasPixel {
		if pixel, err = strconv.Atoi(ps); err != nil {
			return 0, 0, err
		}
	}
	return tile, pixel, nil
}

// Params is the metadata of one pointer interaction. It is produced once
// per physical input event and is immutable afterwards.
type Params struct {
	// IconX and IconY are the pixel position inside the icon under the pointer.
	IconX int
	IconY int

	// Right and Middle are the raw button flags from the client. Both may
	// be set; Button resolves the conflict.
	Right  bool
	Middle bool

	// Modifiers are the keyboard modifiers held during the event.
	Modifiers key.Modifier

	// ScreenLoc is where the event happened in screen space.
	ScreenLoc ScreenLoc
}

// Button returns the active button with priority right > middle > left.
func (p Params) Button() Button {
	switch {
	case p.Right:
		return ButtonRight
	case p.Middle:
		return ButtonMiddle
	default:
		return ButtonLeft
	}
}

// EventMask is the set of hover events an object has opted into.
type EventMask uint8

const (
	// EventNone disables all hover events.
	EventNone EventMask = 0
	// EventEnter enables MouseEntered.
	EventEnter EventMask = 1 << (iota - 1)
	// EventExit enables MouseExited.
	EventExit
	// EventMove enables MouseMove.
	EventMove

	// EventAll enables every hover event.
	EventAll = EventEnter | EventExit | EventMove
)

// Has returns true if every bit of e is set in m.
func (m EventMask) Has(e EventMask) bool {
	return e != EventNone && m&e == e
}

// String returns the enabled event names joined with "|".
func (m EventMask) String() string {
	if m == EventNone {
		return "none"
	}
	var parts []string
	if m.Has(EventEnter) {
		parts = append(parts, "enter")
	}
	if m.Has(EventExit) {
		parts = append(parts, "exit")
	}
	if m.Has(EventMove) {
		parts = append(parts, "move")
	}
	return strings.Join(parts, "|")
}

// ParseEventMask parses names like "enter|move" or "all". Unknown names are
// reported as errors.
func ParseEventMask(s string) (EventMask, error) {
	var m EventMask
	for _, part := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '|' || r == ',' || r == ' '
	}) {
		switch part {
		case "enter":
			m |= EventEnter
		case "exit":
			m |= EventExit
		case "move":
			m |= EventMove
		case "all":
			m |= EventAll
		case "none":
		default:
			return EventNone, fmt.Errorf("unknown mouse event %q", part)
		}
	}
	return m, nil
}
