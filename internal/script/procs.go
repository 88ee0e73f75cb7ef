package script

import (
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Parents returns the type path followed by its ancestors, most specific
// first. Movables inherit from /atom/movable, all map objects from /atom,
// and everything but /client from /datum.
func Parents(typePath string) []string {
	typePath = "/" + strings.Trim(typePath, "/")
	if typePath == "/" {
		return []string{"/datum"}
	}

	var chain []string
	for p := typePath; p != ""; p = p[:strings.LastIndexByte(p, '/')] {
		chain = append(chain, p)
	}

	root := chain[len(chain)-1]
	switch root {
	case "/obj", "/mob":
		chain = append(chain, "/atom/movable", "/atom", "/datum")
	case "/turf", "/area":
		chain = append(chain, "/atom", "/datum")
	case "/client", "/datum":
	default:
		chain = append(chain, "/datum")
	}
	return chain
}

// Procs maps type paths to their proc definitions.
type Procs struct {
	mu    sync.RWMutex
	procs map[string]map[string]*lua.LFunction
}

// NewProcs creates an empty proc table.
func NewProcs() *Procs {
	return &Procs{procs: make(map[string]map[string]*lua.LFunction)}
}

// Define sets a proc on a type path, replacing any earlier definition.
func (p *Procs) Define(typePath, name string, fn *lua.LFunction) {
	typePath = "/" + strings.Trim(typePath, "/")

	p.mu.Lock()
	defer p.mu.Unlock()

	byName, ok := p.procs[typePath]
	if !ok {
		byName = make(map[string]*lua.LFunction)
		p.procs[typePath] = byName
	}
	byName[name] = fn
}

// Lookup finds the most specific definition of a proc for a type path.
func (p *Procs) Lookup(typePath, name string) (*lua.LFunction, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, t := range Parents(typePath) {
		if fn, ok := p.procs[t][name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// Len returns the number of defined procs.
func (p *Procs) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := 0
	for _, byName := range p.procs {
		n += len(byName)
	}
	return n
}
