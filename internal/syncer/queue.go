package syncer

import (
	"encoding/json"
	"sync"
)

type pushOp struct {
	collection string
	id         string
	payload    json.RawMessage
	remove     bool
}

// pushQueue runs remote writes one at a time in submission order. Enqueue
// never blocks.
type pushQueue struct {
	mu      sync.Mutex
	ops     []pushOp
	pending int
	waiters []chan struct{}
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

func newPushQueue() *pushQueue {
	return &pushQueue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (q *pushQueue) enqueue(op pushOp) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.ops = append(q.ops, op)
	q.pending++
	q.mu.Unlock()
	q.signal()
}

func (q *pushQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *pushQueue) run(exec func(pushOp)) {
	defer close(q.done)
	for {
		q.mu.Lock()
		if len(q.ops) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			<-q.wake
			continue
		}
		op := q.ops[0]
		q.ops = q.ops[1:]
		q.mu.Unlock()

		exec(op)

		q.mu.Lock()
		q.pending--
		if q.pending == 0 {
			for _, w := range q.waiters {
				close(w)
			}
			q.waiters = nil
		}
		q.mu.Unlock()
	}
}

// idle returns a channel closed once every queued push has finished.
func (q *pushQueue) idle() <-chan struct{} {
	ch := make(chan struct{})
	q.mu.Lock()
	if q.pending == 0 {
		close(ch)
	} else {
		q.waiters = append(q.waiters, ch)
	}
	q.mu.Unlock()
	return ch
}

func (q *pushQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

// close stops accepting work; queued pushes still run before done closes.
func (q *pushQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}
