package queue

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	id       int
	priority int
	index    int
}

func (i *testItem) Index() int         { return i.index }
func (i *testItem) SetIndex(index int) { i.index = index }
func (i *testItem) String() string     { return fmt.Sprintf("%v: %v\n", i.id, i.priority) }

func byPriority(a, b *testItem) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.id < b.id
}

func TestMinHeapOrder(t *testing.T) {
	h := NewMinHeap[*testItem](byPriority,
		&testItem{id: 0, priority: 5},
		&testItem{id: 1, priority: 1},
		&testItem{id: 2, priority: 3},
	)
	h.Push(&testItem{id: 3, priority: 1})
	require.Equal(t, 4, h.Len())

	order := make([]int, 0)
	for h.Len() > 0 {
		item := h.Pop()
		assert.Equal(t, -1, item.Index())
		order = append(order, item.id)
	}
	assert.Equal(t, []int{1, 3, 2, 0}, order)
}

func TestMinHeapUpdate(t *testing.T) {
	h := NewMinHeap[*testItem](byPriority)
	a := &testItem{id: 0, priority: 1}
	b := &testItem{id: 1, priority: 2}
	h.Push(a)
	h.Push(b)
	assert.Same(t, a, h.Peek())

	b.priority = 0
	h.Update(b)
	assert.Same(t, b, h.Peek())

	// priority may also get worse
	b.priority = 10
	h.Update(b)
	assert.Same(t, a, h.Peek())
}

func TestMinHeapItemsAndClear(t *testing.T) {
	items := []*testItem{{id: 0, priority: 3}, {id: 1, priority: 2}, {id: 2, priority: 1}}
	h := NewMinHeap[*testItem](byPriority)
	for _, item := range items {
		h.Push(item)
	}
	assert.Same(t, items[2], h.PeekAt(0))
	assert.Len(t, h.Items(), 3)
	assert.Equal(t, 3, strings.Count(h.String(), "\n"))

	assert.Panics(t, func() { h.PeekAt(5) })

	h.Clear()
	assert.Equal(t, 0, h.Len())
	for _, item := range items {
		assert.Equal(t, -1, item.Index())
	}
}
