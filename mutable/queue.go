package mutable

import "sync"

// Queue collects mutations on control goroutines and hands them over to
// the goroutine that owns mutated objects. Mutations of one context are
// applied in the order they were put, contexts are applied in the order
// they were first seen.
type Queue struct {
	m         sync.Mutex
	mutations Mutations
	order     []Context
}

// Put mutations to the queue. Mutations of immutable contexts are ignored.
func (q *Queue) Put(mutations ...Mutation) {
	q.m.Lock()
	defer q.m.Unlock()
	for _, m := range mutations {
		if !m.IsMutable() {
			continue
		}
		if _, ok := q.mutations[m.Context]; !ok {
			q.order = append(q.order, m.Context)
		}
		q.mutations = q.mutations.Put(m)
	}
}

// Len returns number of contexts with pending mutations.
func (q *Queue) Len() int {
	q.m.Lock()
	defer q.m.Unlock()
	return len(q.order)
}

// Apply pending mutations. It never blocks: if the queue is being
// written at the moment, nothing is applied and false is returned.
// Pending mutations will be picked up by the next call.
func (q *Queue) Apply() bool {
	if !q.m.TryLock() {
		return false
	}
	ms, order := q.mutations, q.order
	q.mutations, q.order = nil, nil
	q.m.Unlock()

	for _, c := range order {
		ms.ApplyTo(c)
	}
	return true
}
