package containers

import (
	"errors"
	"testing"
)

func TestRingQueue_FIFO(t *testing.T) {
	rq := NewRingQueue[int](3)
	for i := 1; i <= 3; i++ {
		if err := rq.Enqueue(i); err != nil {
			t.Fatalf("Enqueue(%d) failed: %v", i, err)
		}
	}
	if !rq.IsFull() {
		t.Fatalf("IsFull = false, want true")
	}
	if err := rq.Enqueue(4); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Enqueue on full queue = %v, want %v", err, ErrQueueFull)
	}

	for want := 1; want <= 3; want++ {
		got, err := rq.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue failed: %v", err)
		}
		if got != want {
			t.Errorf("Dequeue = %d, want %d", got, want)
		}
	}
	if _, err := rq.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("Dequeue on empty queue = %v, want %v", err, ErrQueueEmpty)
	}
}

func TestRingQueue_WrapAround(t *testing.T) {
	rq := NewRingQueue[string](2)
	_ = rq.Enqueue("a")
	_ = rq.Enqueue("b")
	_, _ = rq.Dequeue()
	if err := rq.Enqueue("c"); err != nil {
		t.Fatalf("Enqueue after Dequeue failed: %v", err)
	}
	if !rq.IsFull() {
		t.Fatalf("IsFull = false after refilling, want true")
	}
	for _, want := range []string{"b", "c"} {
		got, _ := rq.Dequeue()
		if got != want {
			t.Errorf("Dequeue = %q, want %q", got, want)
		}
	}
	if !rq.IsEmpty() {
		t.Errorf("IsEmpty = false, want true")
	}
}
