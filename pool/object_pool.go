// Package pool provides the generic pooled containers that the rest of
// gridforge assumes are available: object pools, array pools, dynamic
// lists, ordered maps, sets, and a bucketed free-list allocator for stable
// tickets. Every pool here is backed by sync.Pool and is safe for
// concurrent use.
package pool

import "sync"

// Resettable is implemented by pooled objects that need to clear their
// state before being returned to the pool for reuse.
type Resettable interface {
	Reset()
}

// ObjectPool rents and recycles *T instances, calling Reset before an
// instance re-enters circulation.
type ObjectPool[T Resettable] struct {
	pool sync.Pool
}

// NewObjectPool builds a pool whose New function is supplied by the caller.
func NewObjectPool[T Resettable](newFn func() T) *ObjectPool[T] {
	return &ObjectPool[T]{
		pool: sync.Pool{
			New: func() any { return newFn() },
		},
	}
}

// Rent returns a zeroed-out instance, either freshly constructed or
// recycled from a prior Release.
func (p *ObjectPool[T]) Rent() T {
	return p.pool.Get().(T)
}

// Release resets the instance and returns it to the pool.
func (p *ObjectPool[T]) Release(v T) {
	v.Reset()
	p.pool.Put(v)
}
