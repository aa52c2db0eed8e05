package pool

import "sync"

// List is a pooled, growable slice for transient result buffers that
// would otherwise allocate on every call. Callers must call Release once
// done consuming the buffer.
type List[T any] struct {
	Items []T
}

func (l *List[T]) Reset() {
	l.Items = l.Items[:0]
}

func (l *List[T]) Add(v T) {
	l.Items = append(l.Items, v)
}

func (l *List[T]) Len() int { return len(l.Items) }

// ListPool pools *List[T] instances.
type ListPool[T any] struct {
	pool sync.Pool
}

func NewListPool[T any]() *ListPool[T] {
	return &ListPool[T]{
		pool: sync.Pool{
			New: func() any { return &List[T]{} },
		},
	}
}

func (p *ListPool[T]) Rent() *List[T] {
	l := p.pool.Get().(*List[T])
	l.Reset()
	return l
}

func (p *ListPool[T]) Release(l *List[T]) {
	l.Reset()
	p.pool.Put(l)
}
