// Package mutable hands state changes over from control goroutines to
// the goroutine that owns the state, usually the audio callback.
package mutable

import (
	"crypto/rand"
)

type (
	// Context identifies mutable state. Types that accept queued
	// mutations embed it. Zero context is immutable.
	Context [16]byte

	// Mutation is a change of the state identified by its context.
	Mutation struct {
		Context
		mutator MutatorFunc
	}

	// Mutations groups pending mutators by context.
	Mutations map[Context][]MutatorFunc

	// MutatorFunc changes the state. It runs on the goroutine that owns
	// the state, so it must not block.
	MutatorFunc func()
)

// Mutable returns a new unique context.
func Mutable() Context {
	var c Context
	rand.Read(c[:])
	return c
}

// IsMutable reports whether the context accepts mutations.
func (c Context) IsMutable() bool {
	return c != Context{}
}

// Mutate binds the mutator to the context. It panics for the zero
// context.
func (c Context) Mutate(m MutatorFunc) Mutation {
	if !c.IsMutable() {
		panic("mutate immutable context")
	}
	return Mutation{
		Context: c,
		mutator: m,
	}
}

// Put adds the mutation. Mutations of the zero context are dropped.
func (ms Mutations) Put(m Mutation) Mutations {
	if !m.IsMutable() {
		return ms
	}
	if ms == nil {
		ms = make(Mutations)
	}
	ms[m.Context] = append(ms[m.Context], m.mutator)
	return ms
}

// ApplyTo runs mutators of the context in the order they were put and
// forgets them.
func (ms Mutations) ApplyTo(c Context) {
	fns, ok := ms[c]
	if !ok {
		return
	}
	delete(ms, c)
	for _, fn := range fns {
		fn()
	}
}
