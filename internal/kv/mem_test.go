package kv

import "testing"

func TestMemStoreGetPutDelete(t *testing.T) {
	s := NewMemStore()
	if _, ok, err := s.Get("a"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	if err := s.Put("a", []byte("hello")); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, ok, err := s.Get("a")
	if err != nil || !ok || string(v) != "hello" {
		t.Fatalf("get after put = %q, %v, %v", v, ok, err)
	}
	if err := s.Delete("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get("a"); ok {
		t.Fatal("expected key to be gone after delete")
	}
}

func TestMemStoreIsolatesCallerBuffers(t *testing.T) {
	s := NewMemStore()
	buf := []byte("original")
	s.Put("k", buf)
	buf[0] = 'X'
	v, _, _ := s.Get("k")
	if string(v) != "original" {
		t.Fatalf("store should have copied the value, got %q", v)
	}
}
