package datastructure

import (
	"errors"

	"golang.org/x/exp/constraints"
)

var ErrEmptyQueue = errors.New("priority queue is empty")

type PriorityQueueNode[T comparable, P constraints.Ordered] struct {
	Rank    P
	Seq     uint64
	Item    T
	removed bool
}

// MinHeap is an updatable binary min-heap. Pushing an item that is already queued
// tombstones its old entry, so every item has at most one live entry. Entries with
// equal rank pop in insertion order.
type MinHeap[T comparable, P constraints.Ordered] struct {
	heap    []*PriorityQueueNode[T, P]
	entries map[T]*PriorityQueueNode[T, P]
	counter uint64
}

func NewMinHeap[T comparable, P constraints.Ordered]() *MinHeap[T, P] {
	return &MinHeap[T, P]{
		heap:    make([]*PriorityQueueNode[T, P], 0),
		entries: make(map[T]*PriorityQueueNode[T, P]),
	}
}

// parent get index of parent
func (h *MinHeap[T, P]) parent(index int) int {
	return (index - 1) / 2
}

func (h *MinHeap[T, P]) leftChild(index int) int {
	return 2*index + 1
}

func (h *MinHeap[T, P]) rightChild(index int) int {
	return 2*index + 2
}

func (h *MinHeap[T, P]) less(i, j int) bool {
	a, b := h.heap[i], h.heap[j]
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Seq < b.Seq
}

// heapifyUp swaps the entry at index with its parent while it is smaller. O(logN).
func (h *MinHeap[T, P]) heapifyUp(index int) {
	for index != 0 && h.less(index, h.parent(index)) {
		h.heap[index], h.heap[h.parent(index)] = h.heap[h.parent(index)], h.heap[index]
		index = h.parent(index)
	}
}

// heapifyDown swaps the entry at index with its smallest child until the heap property holds. O(logN).
func (h *MinHeap[T, P]) heapifyDown(index int) {
	for {
		smallest := index
		left := h.leftChild(index)
		right := h.rightChild(index)

		if left < len(h.heap) && h.less(left, smallest) {
			smallest = left
		}
		if right < len(h.heap) && h.less(right, smallest) {
			smallest = right
		}
		if smallest == index {
			return
		}
		h.heap[index], h.heap[smallest] = h.heap[smallest], h.heap[index]
		index = smallest
	}
}

// Len is the number of live items.
func (h *MinHeap[T, P]) Len() int {
	return len(h.entries)
}

func (h *MinHeap[T, P]) Contains(item T) bool {
	_, ok := h.entries[item]
	return ok
}

// Priority returns the rank of the live entry of item.
func (h *MinHeap[T, P]) Priority(item T) (P, bool) {
	e, ok := h.entries[item]
	if !ok {
		var zero P
		return zero, false
	}
	return e.Rank, true
}

// Push sets the rank of item, inserting it if absent.
func (h *MinHeap[T, P]) Push(item T, rank P) {
	if old, ok := h.entries[item]; ok {
		old.removed = true
	}
	node := &PriorityQueueNode[T, P]{Rank: rank, Seq: h.counter, Item: item}
	h.counter++
	h.entries[item] = node
	h.heap = append(h.heap, node)
	h.heapifyUp(len(h.heap) - 1)
}

// Remove tombstones the live entry of item, if any.
func (h *MinHeap[T, P]) Remove(item T) bool {
	old, ok := h.entries[item]
	if !ok {
		return false
	}
	old.removed = true
	delete(h.entries, item)
	return true
}

func (h *MinHeap[T, P]) popRoot() *PriorityQueueNode[T, P] {
	root := h.heap[0]
	last := len(h.heap) - 1
	h.heap[0] = h.heap[last]
	h.heap[last] = nil
	h.heap = h.heap[:last]
	if len(h.heap) > 0 {
		h.heapifyDown(0)
	}
	return root
}

// dropTombstones discards removed entries sitting at the root.
func (h *MinHeap[T, P]) dropTombstones() {
	for len(h.heap) > 0 && h.heap[0].removed {
		h.popRoot()
	}
}

// Pop removes and returns the live item with the smallest rank.
func (h *MinHeap[T, P]) Pop() (T, P, error) {
	h.dropTombstones()
	if len(h.heap) == 0 {
		var zeroT T
		var zeroP P
		return zeroT, zeroP, ErrEmptyQueue
	}
	root := h.popRoot()
	delete(h.entries, root.Item)
	return root.Item, root.Rank, nil
}

// PeekMin returns the live item with the smallest rank without removing it.
func (h *MinHeap[T, P]) PeekMin() (T, P, error) {
	h.dropTombstones()
	if len(h.heap) == 0 {
		var zeroT T
		var zeroP P
		return zeroT, zeroP, ErrEmptyQueue
	}
	return h.heap[0].Item, h.heap[0].Rank, nil
}
