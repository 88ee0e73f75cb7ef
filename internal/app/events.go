package app

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/mouseproc/internal/input/key"
	"github.com/dshills/mouseproc/internal/input/mouse"
	"github.com/dshills/mouseproc/internal/router"
)

// KindDisconnect is the event log kind that ends a connection's session.
const KindDisconnect = "disconnect"

// Record is one line of an event log.
//
//	{"at_ms":1200,"conn":"alice","kind":"drag","atom":"lamp","over":"table",
//	 "params":{"icon_x":4,"icon_y":9,"right":true,"modifiers":"shift","screen_loc":"1:32,9:16"}}
type Record struct {
	// At is the time since the start of the log.
	At   time.Duration
	Conn string
	Kind string
	// Event is nil for disconnect records.
	Event router.Event
}

// DecodeRecord decodes one event log line.
func DecodeRecord(line []byte) (Record, error) {
	if !gjson.ValidBytes(line) {
		return Record{}, fmt.Errorf("%w: not valid JSON", ErrBadRecord)
	}
	doc := gjson.ParseBytes(line)
	if !doc.IsObject() {
		return Record{}, fmt.Errorf("%w: not an object", ErrBadRecord)
	}

	rec := Record{
		At:   time.Duration(doc.Get("at_ms").Int()) * time.Millisecond,
		Conn: doc.Get("conn").String(),
		Kind: doc.Get("kind").String(),
	}
	if rec.Conn == "" {
		return Record{}, fmt.Errorf("%w: missing conn", ErrBadRecord)
	}

	if rec.Kind == KindDisconnect {
		return rec, nil
	}

	params, err := decodeParams(doc.Get("params"))
	if err != nil {
		return Record{}, err
	}

	if rec.Kind == "stat" {
		ref := doc.Get("ref").String()
		if ref == "" {
			return Record{}, fmt.Errorf("%w: stat without ref", ErrBadRecord)
		}
		rec.Event = router.StatClick{Ref: ref, Params: params}
		return rec, nil
	}

	atom := router.ClientRef(doc.Get("atom").String())
	if atom == "" {
		return Record{}, fmt.Errorf("%w: %s without atom", ErrBadRecord, rec.Kind)
	}

	switch rec.Kind {
	case "click":
		rec.Event = router.Click{Atom: atom, Params: params}
	case "drag":
		drag := router.Drag{Src: atom, Params: params}
		if over := doc.Get("over"); over.Type == gjson.String && over.Str != "" {
			ref := router.ClientRef(over.Str)
			drag.Over = &ref
		}
		rec.Event = drag
	case "enter":
		rec.Event = router.Enter{Atom: atom, Params: params}
	case "exit":
		rec.Event = router.Exit{Atom: atom, Params: params}
	case "move":
		rec.Event = router.Move{Atom: atom, Params: params}
	default:
		return Record{}, fmt.Errorf("%w: unknown kind %q", ErrBadRecord, rec.Kind)
	}
	return rec, nil
}

func decodeParams(p gjson.Result) (mouse.Params, error) {
	if !p.Exists() {
		return mouse.Params{}, nil
	}
	if !p.IsObject() {
		return mouse.Params{}, fmt.Errorf("%w: params is not an object", ErrBadRecord)
	}

	params := mouse.Params{
		IconX:     int(p.Get("icon_x").Int()),
		IconY:     int(p.Get("icon_y").Int()),
		Right:     p.Get("right").Bool(),
		Middle:    p.Get("middle").Bool(),
		Modifiers: key.ParseModifiers(p.Get("modifiers").String()),
	}
	if loc := p.Get("screen_loc").String(); loc != "" {
		sl, err := mouse.ParseScreenLoc(loc)
		if err != nil {
			return mouse.Params{}, fmt.Errorf("%w: %v", ErrBadRecord, err)
		}
		params.ScreenLoc = sl
	}
	return params, nil
}
