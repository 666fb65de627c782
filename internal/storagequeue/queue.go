// Package storagequeue implements the deferred storage queue (C8): a
// fire-and-forget front end over an abstract key-value backend that
// guarantees at most one worker touches the backend at a time and
// that writes/deletes/flushes observe submission order.
package storagequeue

import (
	"sync"

	"github.com/D0ntPanic/tpscube/internal/kv"
)

type opKind int

const (
	opPut opKind = iota
	opDelete
	opFlush
)

type request struct {
	kind  opKind
	key   string
	value []byte
	done  chan error // non-nil only for Flush, so callers can block on it
}

// Queue accepts asynchronous writes against a kv.Store. At most one
// worker goroutine owns the backend at any instant: enqueuing from an
// idle queue spawns a worker that drains FIFO until nothing is left,
// then exits, handing the backend back (implicitly, since nothing was
// ever taken from the queue's ownership beyond a reference read under
// the lock).
type Queue struct {
	mu            sync.Mutex
	backend       kv.Store
	pending       []request
	workerRunning bool
	err           error
}

// New wraps backend in a deferred, order-preserving queue.
func New(backend kv.Store) *Queue {
	return &Queue{backend: backend}
}

// Store adapts a Queue to the kv.Store interface: reads pass straight
// through to the backend (Get is synchronous by nature and answering
// it from anywhere but the backend would mean caching, which this
// package does not do), while writes/deletes/flushes go through the
// queue. A Get issued immediately after an unflushed Put for the same
// key may not observe it yet; callers that need read-your-writes
// should Flush first.
type Store struct {
	*Queue
	backend kv.Store
}

// NewStore wraps backend in a deferred queue that also satisfies kv.Store.
func NewStore(backend kv.Store) *Store {
	return &Store{Queue: New(backend), backend: backend}
}

var _ kv.Store = (*Store)(nil)

// Get reads directly from the backend, bypassing the queue.
func (s *Store) Get(key string) ([]byte, bool, error) {
	return s.backend.Get(key)
}

// Put enqueues a write and always reports success immediately: a
// backend failure surfaces later, through CheckForError or Flush.
func (s *Store) Put(key string, value []byte) error {
	s.Queue.Put(key, value)
	return nil
}

// Delete enqueues a delete; see Put for the error-surfacing caveat.
func (s *Store) Delete(key string) error {
	s.Queue.Delete(key)
	return nil
}

// Put enqueues a write. It never blocks on the backend.
func (q *Queue) Put(key string, value []byte) {
	cp := append([]byte(nil), value...)
	q.enqueue(request{kind: opPut, key: key, value: cp})
}

// Delete enqueues a delete. It never blocks on the backend.
func (q *Queue) Delete(key string) {
	q.enqueue(request{kind: opDelete, key: key})
}

// Flush blocks until everything submitted strictly before this call
// has been durably applied to the backend (or until the sticky error
// that aborted processing is returned).
func (q *Queue) Flush() error {
	done := make(chan error, 1)
	q.enqueue(request{kind: opFlush, done: done})
	return <-done
}

// CheckForError returns the sticky error that aborted processing, if
// any. Once set, queued writes/deletes are no longer applied; only
// flush waiters are unblocked (with this same error).
func (q *Queue) CheckForError() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

func (q *Queue) enqueue(req request) {
	q.mu.Lock()
	q.pending = append(q.pending, req)
	startWorker := !q.workerRunning
	if startWorker {
		q.workerRunning = true
	}
	q.mu.Unlock()

	if startWorker {
		go q.drain()
	}
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if q.err != nil {
			// Processing is aborted: fail every pending flush waiter so
			// nobody blocks forever, and discard the pending
			// writes/deletes without applying them.
			stuck := q.pending
			q.pending = nil
			q.workerRunning = false
			err := q.err
			q.mu.Unlock()
			for _, req := range stuck {
				if req.done != nil {
					req.done <- err
				}
			}
			return
		}
		if len(q.pending) == 0 {
			q.workerRunning = false
			q.mu.Unlock()
			return
		}
		req := q.pending[0]
		q.pending = q.pending[1:]
		backend := q.backend
		q.mu.Unlock()

		var err error
		switch req.kind {
		case opPut:
			err = backend.Put(req.key, req.value)
		case opDelete:
			err = backend.Delete(req.key)
		case opFlush:
			err = backend.Flush()
		}
		if err != nil {
			q.mu.Lock()
			q.err = err
			q.mu.Unlock()
		}
		if req.done != nil {
			req.done <- err
		}
	}
}
