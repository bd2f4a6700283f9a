package session

import "github.com/airalarm/desklink/pkg/proto"

// queue is an unbounded FIFO of protocol messages. Insertion order is
// preserved and duplicates are kept.
type queue struct {
	head *queueItem
	tail *queueItem
	size int
}

type queueItem struct {
	msg  proto.Message
	next *queueItem
}

func (q *queue) push(msg proto.Message) {
	item := &queueItem{msg: msg}
	if q.head == nil {
		q.head = item
	} else {
		q.tail.next = item
	}
	q.tail = item
	q.size++
}

func (q *queue) pop() (proto.Message, bool) {
	if q.head == nil {
		return proto.Message{}, false
	}
	item := q.head
	if q.head = item.next; q.head == nil {
		q.tail = nil
	}
	item.next = nil
	q.size--
	return item.msg, true
}

func (q *queue) empty() bool {
	return q.head == nil
}

func (q *queue) len() int {
	return q.size
}
