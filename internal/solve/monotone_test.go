package solve

import (
	"testing"

	"github.com/altalanta/statdesign/domain/core"
)

func stepAt(threshold int) PowerFn {
	return func(n int) float64 {
		if n >= threshold {
			return 1
		}
		return 0
	}
}

func TestMonotoneIntFindsMinimalCrossing(t *testing.T) {
	tests := []struct {
		name string
		hint int
	}{
		{"no hint", 0},
		{"hint below answer", 5},
		{"hint at answer", 37},
		{"hint above answer", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := MonotoneInt(stepAt(37), 0.8, 1, tt.hint, 10000)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if n != 37 {
				t.Errorf("Expected minimal n 37, got %d", n)
			}
		})
	}
}

func TestMonotoneIntRespectsLowerBound(t *testing.T) {
	always := func(n int) float64 { return 1 }
	n, err := MonotoneInt(always, 0.8, 12, 0, 10000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 12 {
		t.Errorf("Expected lower bound 12, got %d", n)
	}
}

func TestMonotoneIntCountsEvaluations(t *testing.T) {
	calls := 0
	eval := func(n int) float64 {
		calls++
		if n >= 389 {
			return 0.81
		}
		return 0.5
	}
	n, err := MonotoneInt(eval, 0.8, 2, 388, 1000000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 389 {
		t.Errorf("Expected 389, got %d", n)
	}
	if calls > 40 {
		t.Errorf("Expected bracketed bisection to stay cheap, used %d evaluations", calls)
	}
}

func TestMonotoneIntUnreachableTarget(t *testing.T) {
	flat := func(n int) float64 { return 0.5 }
	_, err := MonotoneInt(flat, 0.8, 2, 0, 256)
	if err == nil {
		t.Fatal("Expected convergence error for unreachable target")
	}
	if !core.IsConvergence(err) {
		t.Errorf("Expected ErrConvergence, got %v", err)
	}
}

func TestMonotoneIntInvalidInputs(t *testing.T) {
	if _, err := MonotoneInt(stepAt(1), 1.0, 1, 0, 100); !core.IsInvalidParameter(err) {
		t.Errorf("Expected invalid target power error, got %v", err)
	}
	if _, err := MonotoneInt(stepAt(1), 0.8, 0, 0, 100); !core.IsInvalidParameter(err) {
		t.Errorf("Expected invalid lower bound error, got %v", err)
	}
}
