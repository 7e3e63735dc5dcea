package scheduler

// Queue hands due requests from timer goroutines to a single consumer. It
// holds one request; a newer request replaces one the consumer has not
// received yet, so a slow consumer only ever sees the latest refresh.
type Queue struct {
	ch chan Request
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{ch: make(chan Request, 1)}
}

// Push enqueues req without blocking. It satisfies FireFunc.
func (q *Queue) Push(req Request) {
	for {
		select {
		case q.ch <- req:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// C returns the channel requests are delivered on.
func (q *Queue) C() <-chan Request {
	return q.ch
}
