package mouse

import (
	"sync"
	"time"
)

// DoubleClickWindow is the maximum time between two clicks on the same
// connection for the second one to also count as a double-click.
const DoubleClickWindow = 250 * time.Millisecond

// Clock returns the current time. Classification reads it when an event is
// processed, not when the client sent it.
type Clock func() time.Time

// ClickState is the click timing state of one connection.
// The zero value is a connection that has never clicked.
type ClickState struct {
	mu       sync.Mutex
	last     time.Time
	hasClick bool
}

// LastClick returns the time of the previous click, if any.
func (s *ClickState) LastClick() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasClick
}

// Reset forgets the previous click.
func (s *ClickState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = time.Time{}
	s.hasClick = false
}

// Classifier decides whether a click is a double-click.
type Classifier struct {
	window time.Duration
}

// NewClassifier creates a classifier with the given window.
// A non-positive window falls back to DoubleClickWindow.
func NewClassifier(window time.Duration) *Classifier {
	if window <= 0 {
		window = DoubleClickWindow
	}
	return &Classifier{window: window}
}

// Window returns the double-click window.
func (c *Classifier) Window() time.Duration {
	return c.window
}

// Classify reports whether a click at now pairs with the previous click in
// state. It does not modify state.
func (c *Classifier) Classify(state *ClickState, now time.Time) bool {
	state.mu.Lock()
	defer state.mu.Unlock()
	return c.isDouble(state, now)
}

// Record stores now as the connection's last click.
func (c *Classifier) Record(state *ClickState, now time.Time) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.last = now
	state.hasClick = true
}

// Click classifies a click at now and then records it, as one step.
// The stored time is overwritten whether or not the click was a double.
func (c *Classifier) Click(state *ClickState, now time.Time) bool {
	state.mu.Lock()
	defer state.mu.Unlock()

	double := c.isDouble(state, now)
	state.last = now
	state.hasClick = true
	return double
}

// isDouble must be called with state.mu held.
func (c *Classifier) isDouble(state *ClickState, now time.Time) bool {
	if !state.hasClick {
		return false
	}

	// A clock that stepped backwards never forms a double-click.
	elapsed := now.Sub(state.last)
	if elapsed < 0 {
		return false
	}
	return elapsed <= c.window
}
