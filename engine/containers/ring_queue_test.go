package containers

import (
	"errors"
	"testing"
)

func TestRingQueueWrapsAround(t *testing.T) {
	rq := NewRingQueue[uint32](3)

	for i := uint32(1); i <= 3; i++ {
		if err := rq.Enqueue(i); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	if err := rq.Enqueue(4); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Enqueue on full queue = %v", err)
	}

	if v, _ := rq.Dequeue(); v != 1 {
		t.Fatalf("Dequeue() = %d, want 1", v)
	}
	if err := rq.Enqueue(4); err != nil {
		t.Fatalf("Enqueue after Dequeue: %v", err)
	}

	var got []uint32
	for !rq.IsEmpty() {
		v, err := rq.Dequeue()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, v)
	}
	want := []uint32{2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("drained %v, want %v", got, want)
		}
	}
}

func TestRingQueueEmpty(t *testing.T) {
	rq := NewRingQueue[string](1)
	if _, err := rq.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("Dequeue on empty queue = %v", err)
	}
	if _, err := rq.Peek(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("Peek on empty queue = %v", err)
	}
	rq.Enqueue("a")
	if v, _ := rq.Peek(); v != "a" || rq.Len() != 1 {
		t.Fatalf("Peek() = %q, Len() = %d", v, rq.Len())
	}
}
