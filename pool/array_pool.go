package pool

import "sync"

// ArrayPool hands out fixed-length slices of T, zeroed before use. It backs
// the 26-entry cached-neighbor arrays so refreshing a voxel's neighbor
// cache doesn't allocate on every rebuild.
type ArrayPool[T any] struct {
	length int
	pool   sync.Pool
}

func NewArrayPool[T any](length int) *ArrayPool[T] {
	return &ArrayPool[T]{
		length: length,
		pool: sync.Pool{
			New: func() any {
				s := make([]T, length)
				return &s
			},
		},
	}
}

// Rent returns a zero-valued slice of the pool's fixed length.
func (p *ArrayPool[T]) Rent() []T {
	sp := p.pool.Get().(*[]T)
	s := *sp
	var zero T
	for i := range s {
		s[i] = zero
	}
	return s
}

// Release returns a slice to the pool. The slice must have been obtained
// from Rent on this pool (or have the same length); mismatched lengths are
// dropped rather than pooled.
func (p *ArrayPool[T]) Release(s []T) {
	if len(s) != p.length {
		return
	}
	p.pool.Put(&s)
}
