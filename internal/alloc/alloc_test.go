package alloc

import (
	"math"
	"testing"

	"github.com/altalanta/statdesign/domain/core"
)

func TestCheckRatio(t *testing.T) {
	if err := CheckRatio(1.5); err != nil {
		t.Errorf("Expected 1.5 to pass, got %v", err)
	}
	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := CheckRatio(bad); !core.IsInvalidParameter(err) {
			t.Errorf("Expected %g to be rejected, got %v", bad, err)
		}
	}
}

func TestGroupsFromN1(t *testing.T) {
	tests := []struct {
		n1     int
		ratio  float64
		wantN1 int
		wantN2 int
	}{
		{10, 1.0, 10, 10},
		{10, 1.5, 10, 15},
		{7, 1.0 / 3.0, 7, 3},
		{389, 1.0, 389, 389},
		{1, 0.1, 1, 1},
	}
	for _, tt := range tests {
		n1, n2 := GroupsFromN1(tt.n1, tt.ratio)
		if n1 != tt.wantN1 || n2 != tt.wantN2 {
			t.Errorf("GroupsFromN1(%d, %g) = (%d, %d), want (%d, %d)", tt.n1, tt.ratio, n1, n2, tt.wantN1, tt.wantN2)
		}
	}
}

func TestGroupsFromN1RoundsUp(t *testing.T) {
	// n2 must never fall below the continuous solution n1*ratio.
	for n1 := 1; n1 <= 50; n1++ {
		for _, ratio := range []float64{0.25, 0.5, 1, 1.7, 3} {
			_, n2 := GroupsFromN1(n1, ratio)
			if float64(n2) < float64(n1)*ratio {
				t.Fatalf("GroupsFromN1(%d, %g) rounded down to %d", n1, ratio, n2)
			}
		}
	}
}

func TestByWeights(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		weights []float64
		want    []int
	}{
		{"equal thirds", 10, []float64{1, 1, 1}, []int{4, 3, 3}},
		{"two to one", 7, []float64{2, 1}, []int{5, 2}},
		{"exact split", 9, []float64{1, 1, 1}, []int{3, 3, 3}},
		{"dominant group keeps minority alive", 5, []float64{100, 1}, []int{4, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByWeights(tt.total, tt.weights)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			sum := 0
			for i, n := range got {
				sum += n
				if n != tt.want[i] {
					t.Errorf("ByWeights(%d, %v) = %v, want %v", tt.total, tt.weights, got, tt.want)
					break
				}
			}
			if sum != tt.total {
				t.Errorf("Sizes sum to %d, want %d", sum, tt.total)
			}
		})
	}
}

func TestByWeightsErrors(t *testing.T) {
	if _, err := ByWeights(10, nil); !core.IsInvalidParameter(err) {
		t.Errorf("Expected empty weights to be rejected, got %v", err)
	}
	if _, err := ByWeights(2, []float64{1, 1, 1}); !core.IsInvalidParameter(err) {
		t.Errorf("Expected total below group count to be rejected, got %v", err)
	}
	if _, err := ByWeights(10, []float64{1, 0}); !core.IsInvalidParameter(err) {
		t.Errorf("Expected zero weight to be rejected, got %v", err)
	}
	if _, err := ByWeights(10, []float64{1, -2}); !core.IsInvalidParameter(err) {
		t.Errorf("Expected negative weight to be rejected, got %v", err)
	}
}

func TestHarmonicMean(t *testing.T) {
	got, err := HarmonicMean([]int{2, 4, 4})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(got-3.0) > 1e-12 {
		t.Errorf("Expected harmonic mean 3, got %g", got)
	}

	equal, err := HarmonicMean([]int{50, 50, 50})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(equal-50) > 1e-9 {
		t.Errorf("Expected harmonic mean of equal groups to be the group size, got %g", equal)
	}

	if _, err := HarmonicMean([]int{10, 0}); !core.IsInvalidParameter(err) {
		t.Errorf("Expected zero group size to be rejected, got %v", err)
	}
}
