package compiler

import "sort"

// noScope is the parent index of a subroutine's base scope.
const noScope = -1

type scope struct {
	parent int
	locals map[string]uint16
}

// scopeArena stores every scope of one subroutine. Scopes are never removed;
// leaving a scope only moves current back to its parent.
type scopeArena struct {
	scopes  []scope
	current int
}

func newScopeArena() scopeArena {
	return scopeArena{
		scopes:  []scope{{parent: noScope, locals: map[string]uint16{}}},
		current: 0,
	}
}

func (a *scopeArena) enter() {
	a.scopes = append(a.scopes, scope{parent: a.current, locals: map[string]uint16{}})
	a.current = len(a.scopes) - 1
}

func (a *scopeArena) leave() bool {
	parent := a.scopes[a.current].parent
	if parent == noScope {
		return false
	}
	a.current = parent
	return true
}

func (a *scopeArena) declaredInCurrent(name string) bool {
	_, ok := a.scopes[a.current].locals[name]
	return ok
}

func (a *scopeArena) bind(name string, slot uint16) {
	a.scopes[a.current].locals[name] = slot
}

// lookup walks outward from the current scope; the innermost binding wins.
func (a *scopeArena) lookup(name string) (uint16, bool) {
	for i := a.current; i != noScope; i = a.scopes[i].parent {
		if slot, ok := a.scopes[i].locals[name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// chain returns the arena indices of the active scopes, innermost first.
func (a *scopeArena) chain() []int {
	var out []int
	for i := a.current; i != noScope; i = a.scopes[i].parent {
		out = append(out, i)
	}
	return out
}

// visible returns every name reachable from the current scope.
func (a *scopeArena) visible() []string {
	seen := map[string]bool{}
	var names []string
	for _, i := range a.chain() {
		for name := range a.scopes[i].locals {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func (a *scopeArena) depth() int {
	return len(a.chain())
}
