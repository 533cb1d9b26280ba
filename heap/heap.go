// Package heap implements the bounded priority queues the navigator
// uses during beam search: a min-heap of candidates still to expand and
// a max-heap of the best results found so far, viewed over the same
// element type.
package heap

import "sort"

// Interface is implemented by elements stored in a Heap. Less orders
// elements from smallest to largest; callers that need a stable
// secondary key (e.g. node id) should fold it into Less so that ties
// break deterministically.
type Interface[T any] interface {
	Less(other T) bool
}

// Heap keeps its elements in ascending sorted order, giving O(1) access
// to both ends: Min (the smallest, "expand next") and Max (the largest,
// "first to evict"). Insertion is O(n) via binary-search placement,
// which is the right tradeoff at the degree counts HNSW actually uses
// (ef in the tens to low hundreds).
type Heap[T Interface[T]] struct {
	s []T
}

// Init resets the heap to the given backing slice, which need not be
// sorted; Init sorts it once up front.
func (h *Heap[T]) Init(s []T) {
	h.s = s
	sort.Slice(h.s, func(i, j int) bool { return h.s[i].Less(h.s[j]) })
}

// Len returns the number of elements currently held.
func (h *Heap[T]) Len() int {
	return len(h.s)
}

// Push inserts v in sorted position.
func (h *Heap[T]) Push(v T) {
	i := sort.Search(len(h.s), func(i int) bool { return v.Less(h.s[i]) })
	h.s = append(h.s, v)
	copy(h.s[i+1:], h.s[i:])
	h.s[i] = v
}

// Min returns, without removing, the smallest element.
func (h *Heap[T]) Min() T {
	return h.s[0]
}

// Max returns, without removing, the largest element.
func (h *Heap[T]) Max() T {
	return h.s[len(h.s)-1]
}

// Pop removes and returns the smallest element.
func (h *Heap[T]) Pop() T {
	v := h.s[0]
	h.s = h.s[1:]
	return v
}

// PopLast removes and returns the largest element.
func (h *Heap[T]) PopLast() T {
	v := h.s[len(h.s)-1]
	h.s = h.s[:len(h.s)-1]
	return v
}

// Slice returns the elements in ascending order. The returned slice
// aliases the heap's backing array and must not be mutated.
func (h *Heap[T]) Slice() []T {
	return h.s
}
