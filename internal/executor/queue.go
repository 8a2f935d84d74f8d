package executor

// readyItem is a node waiting for a free concurrency slot.
type readyItem struct {
	frontier int
	id       string
}

// readyQueue is a min-heap ordered by frontier, then identity.
type readyQueue []readyItem

func (q readyQueue) Len() int { return len(q) }

func (q readyQueue) Less(i, j int) bool {
	if q[i].frontier != q[j].frontier {
		return q[i].frontier < q[j].frontier
	}
	return q[i].id < q[j].id
}

func (q readyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *readyQueue) Push(x any) { *q = append(*q, x.(readyItem)) }

func (q *readyQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}
