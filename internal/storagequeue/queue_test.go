package storagequeue

import (
	"errors"
	"sync"
	"testing"

	"github.com/D0ntPanic/tpscube/internal/kv"
)

// failingStore wraps a MemStore and fails every Put once armed, to
// exercise the queue's sticky-error latch.
type failingStore struct {
	mu   sync.Mutex
	inner *kv.MemStore
	fail bool
}

func newFailingStore() *failingStore {
	return &failingStore{inner: kv.NewMemStore()}
}

func (f *failingStore) arm() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = true
}

func (f *failingStore) Get(key string) ([]byte, bool, error) { return f.inner.Get(key) }

func (f *failingStore) Put(key string, value []byte) error {
	f.mu.Lock()
	shouldFail := f.fail
	f.mu.Unlock()
	if shouldFail {
		return errors.New("simulated backend failure")
	}
	return f.inner.Put(key, value)
}

func (f *failingStore) Delete(key string) error { return f.inner.Delete(key) }
func (f *failingStore) Flush() error            { return f.inner.Flush() }

func TestPutThenFlushIsDurable(t *testing.T) {
	store := kv.NewMemStore()
	q := New(store)

	q.Put("a", []byte("1"))
	q.Put("b", []byte("2"))
	if err := q.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	for key, want := range map[string]string{"a": "1", "b": "2"} {
		v, ok, err := store.Get(key)
		if err != nil || !ok {
			t.Fatalf("Get(%q): ok=%v err=%v", key, ok, err)
		}
		if string(v) != want {
			t.Fatalf("Get(%q) = %q, want %q", key, v, want)
		}
	}
}

func TestDeleteAfterPutRemovesKey(t *testing.T) {
	store := kv.NewMemStore()
	q := New(store)

	q.Put("a", []byte("1"))
	q.Delete("a")
	if err := q.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	_, ok, err := store.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected key to be deleted")
	}
}

func TestFlushSurfacesStickyErrorAndAbortsFurtherWrites(t *testing.T) {
	store := newFailingStore()
	store.arm()
	q := New(store)

	q.Put("a", []byte("1"))
	if err := q.Flush(); err == nil {
		t.Fatalf("expected Flush to surface the backend error")
	}
	if q.CheckForError() == nil {
		t.Fatalf("expected CheckForError to report the sticky error")
	}

	// A write enqueued after the error is latched must not silently
	// succeed; flushing again must still report the error.
	q.Put("b", []byte("2"))
	if err := q.Flush(); err == nil {
		t.Fatalf("expected second Flush to still surface the sticky error")
	}
}

func TestStoreGetPassesThroughToBackend(t *testing.T) {
	backend := kv.NewMemStore()
	if err := backend.Put("a", []byte("1")); err != nil {
		t.Fatalf("seed Put: %v", err)
	}

	s := NewStore(backend)
	v, ok, err := s.Get("a")
	if err != nil || !ok || string(v) != "1" {
		t.Fatalf("Get(a) = %q, %v, %v", v, ok, err)
	}

	if err := s.Put("b", []byte("2")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	v, ok, err = s.Get("b")
	if err != nil || !ok || string(v) != "2" {
		t.Fatalf("Get(b) after flush = %q, %v, %v", v, ok, err)
	}
}

func TestManyConcurrentPutsLeaveKeySetAfterFlush(t *testing.T) {
	store := kv.NewMemStore()
	q := New(store)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			q.Put("k", []byte{byte(n)})
		}(i)
	}
	wg.Wait()
	if err := q.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	// Order among concurrent goroutines isn't meaningful to assert on;
	// this checks that the flushed queue left the key set and did not
	// crash on any of the writes.
	if _, ok, err := store.Get("k"); err != nil || !ok {
		t.Fatalf("Get(k): ok=%v err=%v", ok, err)
	}
}
