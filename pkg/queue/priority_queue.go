package queue

import (
	"container/heap"
	"strings"
)

// Priorizable items remember their own position in the heap so they can be updated in place.
type Priorizable interface {
	Index() int
	SetIndex(index int)
	String() string
}

// LessFunc reports whether a has a higher priority (smaller key) than b.
type LessFunc[T Priorizable] func(a, b T) bool

type MinHeap[T Priorizable] struct {
	queue priorityQueue[T] // hold the priority queue
}

func NewMinHeap[T Priorizable](less LessFunc[T], items ...T) *MinHeap[T] {
	h := &MinHeap[T]{queue: priorityQueue[T]{less: less, items: make([]T, len(items))}}
	for i, item := range items {
		h.queue.items[i] = item
		item.SetIndex(i)
	}
	heap.Init(&h.queue)
	return h
}

// Implements heap.Interface
type priorityQueue[T Priorizable] struct {
	items []T
	less  LessFunc[T]
}

func (q priorityQueue[T]) Len() int           { return len(q.items) }
func (q priorityQueue[T]) Less(i, j int) bool { return q.less(q.items[i], q.items[j]) }
func (q priorityQueue[T]) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].SetIndex(i)
	q.items[j].SetIndex(j)
}
func (q *priorityQueue[T]) Push(item any) {
	n := len(q.items)
	pqItem := item.(T)
	pqItem.SetIndex(n)
	q.items = append(q.items, pqItem)
}
func (q *priorityQueue[T]) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	var zero T
	old[n-1] = zero
	item.SetIndex(-1) // for safety
	q.items = old[:n-1]
	return item
}

func (h *MinHeap[T]) Len() int      { return h.queue.Len() }
func (h *MinHeap[T]) Push(item T)   { heap.Push(&h.queue, item) }
func (h *MinHeap[T]) Pop() T        { return heap.Pop(&h.queue).(T) }
func (h *MinHeap[T]) Update(item T) { heap.Fix(&h.queue, item.Index()) }
func (h *MinHeap[T]) Peek() T       { return h.queue.items[0] }
func (h *MinHeap[T]) PeekAt(index int) T {
	if index >= h.Len() {
		panic("index out of bounds")
	}
	return h.queue.items[index]
}

// Items returns the heap content in heap order (not sorted).
func (h *MinHeap[T]) Items() []T {
	items := make([]T, len(h.queue.items))
	copy(items, h.queue.items)
	return items
}

// Clear drops all items. Their indices are reset to -1.
func (h *MinHeap[T]) Clear() {
	for _, item := range h.queue.items {
		item.SetIndex(-1)
	}
	h.queue.items = nil
}

func (h *MinHeap[T]) String() string {
	var sb strings.Builder
	for i := 0; i < h.Len(); i++ {
		item := h.PeekAt(i)
		sb.WriteString(item.String())
	}
	return sb.String()
}
