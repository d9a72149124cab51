package simulate

import "github.com/eth-das/rated-list/custody"

// RequestQueueItem is a single in-flight sample request.
type RequestQueueItem struct {
	NodeID    custody.NodeID
	SampleID  custody.SampleID
	BlockRoot custody.Root
}

// RequestQueue is a FIFO of outstanding sample requests, mirroring the
// driver's single outgoing queue: requests are enqueued as candidates
// are walked and drained in the order they were issued.
type RequestQueue struct {
	items []RequestQueueItem
}

// Push enqueues item.
func (q *RequestQueue) Push(item RequestQueueItem) {
	q.items = append(q.items, item)
}

// Empty reports whether the queue has no pending items.
func (q *RequestQueue) Empty() bool {
	return len(q.items) == 0
}

// Pop removes and returns the oldest item in the queue. It panics if
// the queue is empty; callers must check Empty first.
func (q *RequestQueue) Pop() RequestQueueItem {
	item := q.items[0]
	q.items = q.items[1:]
	return item
}
