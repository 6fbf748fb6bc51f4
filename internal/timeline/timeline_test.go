package timeline

import (
	"errors"
	"testing"
)

func TestActiveIndexNoVisuals(t *testing.T) {
	if _, err := ActiveIndex(1.0, 0, 10.0); !errors.Is(err, ErrNoVisuals) {
		t.Errorf("Expected ErrNoVisuals, got %v", err)
	}
}

func TestActiveIndexBoundaries(t *testing.T) {
	// 2 visuals over 4 seconds: slot boundary at t=2.
	tests := []struct {
		t        float64
		expected int
	}{
		{0, 0},
		{1.9999, 0},
		{2.0, 1},
		{3.9999, 1},
		{4.0, 1},  // exact end clamps into the last slot
		{5.0, 1},  // past the end stays clamped
		{-0.5, 0}, // before the start pins to the first slot
	}

	for _, tt := range tests {
		got, err := ActiveIndex(tt.t, 2, 4.0)
		if err != nil {
			t.Fatalf("Unexpected error at t=%f: %v", tt.t, err)
		}
		if got != tt.expected {
			t.Errorf("At t=%f: expected index %d, got %d", tt.t, tt.expected, got)
		}
	}
}

func TestActiveIndexMonotoneAndCovering(t *testing.T) {
	const n = 7
	const total = 13.0

	seen := make(map[int]bool)
	prev := 0
	steps := 10000
	for i := 0; i < steps; i++ {
		tt := total * float64(i) / float64(steps) // samples t in [0, total)
		idx, err := ActiveIndex(tt, n, total)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if idx < prev {
			t.Fatalf("Index decreased: %d after %d at t=%f", idx, prev, tt)
		}
		if idx > n-1 {
			t.Fatalf("Index %d exceeds n-1", idx)
		}
		seen[idx] = true
		prev = idx
	}

	for i := 0; i < n; i++ {
		if !seen[i] {
			t.Errorf("Slot %d never became active across [0, total)", i)
		}
	}
}

func TestSlotDuration(t *testing.T) {
	if _, err := SlotDuration(0, 10); !errors.Is(err, ErrNoVisuals) {
		t.Errorf("Expected ErrNoVisuals for zero visuals")
	}
	d, err := SlotDuration(4, 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d != 2.5 {
		t.Errorf("Expected slot 2.5, got %f", d)
	}
}
