package workshop

import (
	"fmt"
	"strings"
)

// OrderQueue is a FIFO of orders waiting for a carpenter at one hand-off stage.
type OrderQueue struct {
	queue []*Order
}

// Enqueue adds an order to the back of the queue.
func (q *OrderQueue) Enqueue(o *Order) {
	q.queue = append(q.queue, o)
}

// Len returns the number of waiting orders.
func (q *OrderQueue) Len() int {
	return len(q.queue)
}

// Peek returns the order at the front without removing it, or nil.
func (q *OrderQueue) Peek() *Order {
	if len(q.queue) == 0 {
		return nil
	}
	return q.queue[0]
}

// Dequeue removes and returns the front order, or nil when empty.
func (q *OrderQueue) Dequeue() *Order {
	if len(q.queue) == 0 {
		return nil
	}
	o := q.queue[0]
	q.queue[0] = nil
	q.queue = q.queue[1:]
	return o
}

// Clear drops every waiting order.
func (q *OrderQueue) Clear() {
	clear(q.queue)
	q.queue = q.queue[:0]
}

func (q *OrderQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, o := range q.queue {
		sb.WriteString(fmt.Sprintf("%d:%s", o.ID, o.Type))
		if i < len(q.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
