package kvstore

import "testing"

func TestMemoryGetPut(t *testing.T) {
	m := NewMemory()
	if _, ok := m.Get("missing"); ok {
		t.Fatal("expected missing key to report false")
	}
	m.Put("a", []byte("hello"))
	v, ok := m.Get("a")
	if !ok || string(v) != "hello" {
		t.Fatalf("Get(a) = %q, %v; want hello, true", v, ok)
	}
}
