package util

// ScopeStack is a stack of lexical scopes mapping names to a payload of type
// T.  It always holds at least one frame: the global frame, which can never be
// popped.  Inner frames shadow outer frames.  Both the type checker and the
// code generator keep one of these for local variables.
type ScopeStack[T any] struct {
	frames []map[string]T
}

// NewScopeStack creates a new scope stack containing only the global frame.
func NewScopeStack[T any]() *ScopeStack[T] {
	return &ScopeStack[T]{frames: []map[string]T{make(map[string]T)}}
}

// PushScope pushes a new, empty innermost frame.
func (ss *ScopeStack[T]) PushScope() {
	ss.frames = append(ss.frames, make(map[string]T))
}

// PopScope discards the innermost frame.  The global frame is never popped.
func (ss *ScopeStack[T]) PopScope() {
	if len(ss.frames) > 1 {
		ss.frames = ss.frames[:len(ss.frames)-1]
	}
}

// Depth returns the number of frames currently on the stack.
func (ss *ScopeStack[T]) Depth() int {
	return len(ss.frames)
}

// Declare binds name in the innermost frame.  Redeclaring a name that lives in
// an outer frame shadows it; redeclaring within the same frame overwrites it.
func (ss *ScopeStack[T]) Declare(name string, payload T) {
	ss.frames[len(ss.frames)-1][name] = payload
}

// Lookup searches for name from the innermost frame outward.
func (ss *ScopeStack[T]) Lookup(name string) (T, bool) {
	for i := len(ss.frames) - 1; i >= 0; i-- {
		if payload, ok := ss.frames[i][name]; ok {
			return payload, true
		}
	}

	var zero T
	return zero, false
}

// LookupCurrent searches for name in the innermost frame only.
func (ss *ScopeStack[T]) LookupCurrent(name string) (T, bool) {
	payload, ok := ss.frames[len(ss.frames)-1][name]
	return payload, ok
}

// Update replaces the payload of name in the nearest frame that binds it.  It
// returns false and changes nothing if name is not bound in any frame: it never
// creates a new binding.
func (ss *ScopeStack[T]) Update(name string, payload T) bool {
	for i := len(ss.frames) - 1; i >= 0; i-- {
		if _, ok := ss.frames[i][name]; ok {
			ss.frames[i][name] = payload
			return true
		}
	}

	return false
}
