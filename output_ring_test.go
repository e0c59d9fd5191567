package stft

import (
	"errors"
	"testing"
)

func TestOverlapAddRingAccumulates(t *testing.T) {
	r, err := NewOverlapAddRing(1, 12)
	if err != nil {
		t.Fatalf("NewOverlapAddRing failed: %v", err)
	}

	// Two frames of ones, 4 samples apart: the overlap region must sum.
	frame := [][]float64{{1, 1, 1, 1, 1, 1, 1, 1}}
	if err := r.Add(frame, 8, 0); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := r.Add(frame, 8, 4); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if r.Filled() != 12 {
		t.Errorf("filled = %d, want 12", r.Filled())
	}

	dst := [][]float64{make([]float64, 12)}
	if err := r.Pop(dst, 12); err != nil {
		t.Fatalf("Pop failed: %v", err)
	}

	want := []float64{1, 1, 1, 1, 2, 2, 2, 2, 1, 1, 1, 1}
	for i, v := range dst[0] {
		if v != want[i] {
			t.Errorf("index %d: got %v, want %v", i, v, want[i])
		}
	}
}

func TestOverlapAddRingPopZeroFills(t *testing.T) {
	r, err := NewOverlapAddRing(1, 8)
	if err != nil {
		t.Fatalf("NewOverlapAddRing failed: %v", err)
	}

	if err := r.Add([][]float64{{3, 3}}, 2, 0); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// Pop more than was produced: the rest must be zero and the cursor must
	// still advance by the full amount.
	dst := [][]float64{make([]float64, 4)}
	if err := r.Pop(dst, 4); err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	want := []float64{3, 3, 0, 0}
	for i, v := range dst[0] {
		if v != want[i] {
			t.Errorf("index %d: got %v, want %v", i, v, want[i])
		}
	}
	if r.Filled() != 0 {
		t.Errorf("filled = %d, want 0", r.Filled())
	}

	// A frame added now lands after the already-consumed region.
	if err := r.Add([][]float64{{7, 7}}, 2, 0); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := r.Pop(dst, 4); err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	want = []float64{7, 7, 0, 0}
	for i, v := range dst[0] {
		if v != want[i] {
			t.Errorf("after advance, index %d: got %v, want %v", i, v, want[i])
		}
	}
}

func TestOverlapAddRingWrap(t *testing.T) {
	r, err := NewOverlapAddRing(1, 8)
	if err != nil {
		t.Fatalf("NewOverlapAddRing failed: %v", err)
	}

	dst := [][]float64{make([]float64, 4)}

	// Drive the ring around its capacity several times; consumed cells must
	// come back clean so accumulation never sees stale data.
	for round := 0; round < 5; round++ {
		v := float64(round + 1)
		if err := r.Add([][]float64{{v, v, v, v}}, 4, 0); err != nil {
			t.Fatalf("round %d: Add failed: %v", round, err)
		}
		if err := r.Add([][]float64{{v, v}}, 2, 4); err != nil {
			t.Fatalf("round %d: Add failed: %v", round, err)
		}
		if err := r.Pop(dst, 4); err != nil {
			t.Fatalf("round %d: Pop failed: %v", round, err)
		}
		for i, got := range dst[0] {
			if got != v {
				t.Fatalf("round %d index %d: got %v, want %v", round, i, got, v)
			}
		}
		if err := r.Pop(dst, 2); err != nil {
			t.Fatalf("round %d: Pop failed: %v", round, err)
		}
		for i, got := range dst[0][:2] {
			if got != v {
				t.Fatalf("round %d tail index %d: got %v, want %v", round, i, got, v)
			}
		}
	}
}

func TestOverlapAddRingChannelMismatch(t *testing.T) {
	r, err := NewOverlapAddRing(2, 8)
	if err != nil {
		t.Fatalf("NewOverlapAddRing failed: %v", err)
	}

	if err := r.Add([][]float64{{1}}, 1, 0); !errors.Is(err, ErrChannelMismatch) {
		t.Errorf("Add with 1 channel: got %v, want ErrChannelMismatch", err)
	}
	if err := r.Pop([][]float64{make([]float64, 1)}, 1); !errors.Is(err, ErrChannelMismatch) {
		t.Errorf("Pop with 1 channel: got %v, want ErrChannelMismatch", err)
	}
}

func TestOverlapAddRingReset(t *testing.T) {
	r, err := NewOverlapAddRing(1, 8)
	if err != nil {
		t.Fatalf("NewOverlapAddRing failed: %v", err)
	}

	if err := r.Add([][]float64{{5, 5, 5}}, 3, 1); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	r.Reset()
	if r.Filled() != 0 {
		t.Errorf("filled after reset = %d, want 0", r.Filled())
	}

	dst := [][]float64{make([]float64, 4)}
	if err := r.Pop(dst, 4); err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	for i, v := range dst[0] {
		if v != 0 {
			t.Errorf("index %d after reset: got %v, want 0", i, v)
		}
	}
}
