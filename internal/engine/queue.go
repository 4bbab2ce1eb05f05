package engine

import (
	"container/heap"
	"time"
)

// task is a deferred engine step such as a counter-attack or respawn.
type task struct {
	due  time.Time
	seq  uint64
	name string
	fn   func()
}

// taskQueue orders tasks by due time, then by scheduling order.
type taskQueue struct {
	items []*task
	seq   uint64
}

func (q *taskQueue) Len() int { return len(q.items) }

func (q *taskQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if !a.due.Equal(b.due) {
		return a.due.Before(b.due)
	}
	return a.seq < b.seq
}

func (q *taskQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *taskQueue) Push(x any) { q.items = append(q.items, x.(*task)) }

func (q *taskQueue) Pop() any {
	old := q.items
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return t
}

func (q *taskQueue) schedule(due time.Time, name string, fn func()) {
	q.seq++
	heap.Push(q, &task{due: due, seq: q.seq, name: name, fn: fn})
}

// popDue removes and returns the next task due at or before now.
func (q *taskQueue) popDue(now time.Time) *task {
	if len(q.items) == 0 || q.items[0].due.After(now) {
		return nil
	}
	return heap.Pop(q).(*task)
}

// popNext removes and returns the earliest task regardless of due time.
func (q *taskQueue) popNext() *task {
	if len(q.items) == 0 {
		return nil
	}
	return heap.Pop(q).(*task)
}

func (q *taskQueue) clear() {
	q.items = nil
}
