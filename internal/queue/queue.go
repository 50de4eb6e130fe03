// Package queue provides the unbounded line buffer between the blocking
// log reader and the sender pool. It is the only mutable state shared
// across that boundary.
package queue

import "sync"

// compactAt is the dequeued-prefix size beyond which the backing slice
// is copied down so released lines can be collected.
const compactAt = 1024

// Queue is an unbounded FIFO of raw log lines. A single producer calls
// Enqueue; any number of consumers call TryDequeue. Each line is
// delivered to exactly one consumer.
type Queue struct {
	mu    sync.Mutex
	lines []string
	head  int
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends one line. It never blocks on a full buffer; the queue
// grows as needed.
func (q *Queue) Enqueue(line string) {
	q.mu.Lock()
	q.lines = append(q.lines, line)
	q.mu.Unlock()
}

// TryDequeue removes and returns the oldest line. It never blocks; the
// second return value is false when the queue is empty.
func (q *Queue) TryDequeue() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == len(q.lines) {
		return "", false
	}
	line := q.lines[q.head]
	q.lines[q.head] = ""
	q.head++
	if q.head == len(q.lines) {
		q.lines = q.lines[:0]
		q.head = 0
	} else if q.head >= compactAt && q.head >= len(q.lines)/2 {
		n := copy(q.lines, q.lines[q.head:])
		q.lines = q.lines[:n]
		q.head = 0
	}
	return line, true
}

// Depth returns the current number of buffered lines. The value is a
// snapshot; the scaling controller only needs it as a trend signal.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines) - q.head
}
