package router

import "sync/atomic"

// DropReason says why an event produced no invocation.
type DropReason uint8

const (
	// DropNotFound is a reference that did not resolve.
	DropNotFound DropReason = iota
	// DropWrongKind is a reference to an object that is not an atom.
	DropWrongKind
	// DropMasked is a hover event the atom has not enabled.
	DropMasked
	// DropNoClient is a click or drag on a connection without a client object.
	DropNoClient
	// DropUnknown is an event type the router does not handle, or a nil connection.
	DropUnknown

	dropReasonCount
)

// String returns a string representation of the reason.
func (r DropReason) String() string {
	switch r {
	case DropNotFound:
		return "not-found"
	case DropWrongKind:
		return "wrong-kind"
	case DropMasked:
		return "masked"
	case DropNoClient:
		return "no-client"
	default:
		return "unknown"
	}
}

// Stats contains router statistics.
type Stats struct {
	// EventsHandled is the number of events passed to Handle.
	EventsHandled uint64

	// EventsDropped is the number of events that produced no invocation.
	EventsDropped uint64

	// Invocations is the number of invocations handed to the invoker.
	Invocations uint64

	// DoubleClicks is the number of clicks classified as double-clicks.
	DoubleClicks uint64

	// Drops counts dropped events by reason.
	Drops map[DropReason]uint64
}

type counters struct {
	handled      atomic.Uint64
	invocations  atomic.Uint64
	doubleClicks atomic.Uint64
	drops        [dropReasonCount]atomic.Uint64
}

func (c *counters) drop(reason DropReason) {
	c.drops[reason].Add(1)
}

func (c *counters) snapshot() Stats {
	s := Stats{
		EventsHandled: c.handled.Load(),
		Invocations:   c.invocations.Load(),
		DoubleClicks:  c.doubleClicks.Load(),
		Drops:         make(map[DropReason]uint64),
	}
	for i := range c.drops {
		if n := c.drops[i].Load(); n > 0 {
			s.Drops[DropReason(i)] = n
			s.EventsDropped += n
		}
	}
	return s
}
