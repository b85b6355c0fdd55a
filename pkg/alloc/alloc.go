// Package alloc provides the allocation policies the hash map is generic
// over. The policy only decides where element memory comes from; container
// behavior is identical under any of them.
package alloc

import "sync"

// Allocator hands out and takes back container elements
type Allocator[T any] interface {
	New() *T
	Free(*T)
}

// Heap returns the default allocator. Elements come straight from the
// garbage collected heap and Free is a no-op.
func Heap[T any]() Allocator[T] {
	return heap[T]{}
}

type heap[T any] struct{}

func (heap[T]) New() *T { return new(T) }

func (heap[T]) Free(*T) {}

// Pool returns an allocator that recycles freed elements through a
// sync.Pool. Useful for maps with heavy insert/erase churn.
func Pool[T any]() Allocator[T] {
	return pool[T]{p: &sync.Pool{New: func() any { return new(T) }}}
}

type pool[T any] struct {
	p *sync.Pool
}

func (p pool[T]) New() *T {
	return p.p.Get().(*T)
}

func (p pool[T]) Free(v *T) {
	var zero T
	*v = zero
	p.p.Put(v)
}
