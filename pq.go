package routeplanner

import "container/heap"

// frontierEntry snapshots a node's g and f at push time. Under RelaxImproving a
// node may have several entries; only the one whose GScore still matches the
// session record is live.
type frontierEntry[NodeType comparable] struct {
	Node   NodeType
	GScore float64
	FCost  float64
}

// frontier is the open set: a binary min-heap on FCost.
type frontier[NodeType comparable] []frontierEntry[NodeType]

func (queue frontier[NodeType]) Len() int           { return len(queue) }
func (queue frontier[NodeType]) Less(i, j int) bool { return queue[i].FCost < queue[j].FCost }
func (queue frontier[NodeType]) Swap(i, j int)      { queue[i], queue[j] = queue[j], queue[i] }

func (queue *frontier[NodeType]) Push(x any) {
	*queue = append(*queue, x.(frontierEntry[NodeType]))
}

func (queue *frontier[NodeType]) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	entry := oldQueue[n-1]
	*queue = oldQueue[:n-1]
	return entry
}

func (queue *frontier[NodeType]) push(entry frontierEntry[NodeType]) {
	heap.Push(queue, entry)
}

// pop removes the entry with the lowest f. ok is false when the frontier is empty.
func (queue *frontier[NodeType]) pop() (frontierEntry[NodeType], bool) {
	if queue.Len() == 0 {
		return frontierEntry[NodeType]{}, false
	}
	return heap.Pop(queue).(frontierEntry[NodeType]), true
}
