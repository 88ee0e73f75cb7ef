package router

import (
	"sync"

	"github.com/dshills/mouseproc/internal/input/mouse"
)

// clickStates holds one ClickState per connection. The table lock only
// covers lookup and creation; classification locks the state itself, so
// clicks from different connections never wait on each other.
type clickStates struct {
	mu     sync.Mutex
	states map[string]*mouse.ClickState
}

func newClickStates() *clickStates {
	return &clickStates{states: make(map[string]*mouse.ClickState)}
}

// get returns the state for a connection, creating it on first use.
func (t *clickStates) get(connID string) *mouse.ClickState {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.states[connID]
	if !ok {
		state = &mouse.ClickState{}
		t.states[connID] = state
	}
	return state
}

func (t *clickStates) remove(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, connID)
}

func (t *clickStates) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.states)
}
