// Package runtime implements the lexically-nested frame stack every
// evaluation walks: a chain of frames from the innermost block or call down
// to a shared global frame.
package runtime

import (
	"github.com/vesper-lang/vesper/internal/collections"
	"github.com/vesper-lang/vesper/internal/values"
)

// binding pairs a Value with the InferredType recorded for it, so a later
// rebinding can be checked against the monomorphic-type invariant.
type binding struct {
	value values.Value
	typ   values.Type
}

// Environment is one frame of the lexical scope chain: a name-to-binding
// map plus a reference to its parent frame. Only Call pushes a fresh frame;
// blocks at statement level share their enclosing frame.
type Environment struct {
	store  *collections.OrderedMap[binding]
	parent *Environment
}

// NewGlobal creates the root frame shared across a program and its
// imports. Each top-level evaluation constructs its own fresh global frame
// rather than sharing one across concurrent evaluations.
func NewGlobal() *Environment {
	return &Environment{store: collections.NewOrderedMap[binding]()}
}

// Push returns a fresh child frame parented on e. This is the only
// operation that introduces a new frame; Call is the only evaluator rule
// that invokes it, and blocks never do.
func (e *Environment) Push() *Environment {
	return &Environment{store: collections.NewOrderedMap[binding](), parent: e}
}

// Global walks to the root of the chain.
func (e *Environment) Global() *Environment {
	cur := e
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Get looks a name up along the frame chain, innermost first.
func (e *Environment) Get(name string) (values.Value, values.Type, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.store.Get(name); ok {
			return b.value, b.typ, true
		}
	}
	return nil, values.TypeAny, false
}

// Define creates a new binding in e's own frame, regardless of whether an
// outer frame already binds the name (used for function parameters and
// first-time Assign).
func (e *Environment) Define(name string, v values.Value, t values.Type) {
	e.store.Set(name, binding{value: v, typ: t})
}

// Assign writes to the innermost frame that already binds name, returning
// the previously recorded InferredType so the caller can enforce the
// monomorphic invariant. If no frame binds the name, it is defined fresh in
// e's own frame and existed is false.
func (e *Environment) Assign(name string, v values.Value, t values.Type) (previous values.Type, existed bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.store.Get(name); ok {
			cur.store.Set(name, binding{value: v, typ: t})
			return b.typ, true
		}
	}
	e.Define(name, v, t)
	return values.TypeAny, false
}
