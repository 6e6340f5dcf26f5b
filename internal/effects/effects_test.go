package effects

import (
	"math"
	"testing"

	"github.com/altalanta/statdesign/domain/core"
)

func TestCohenH(t *testing.T) {
	got, err := CohenH(0.6, 0.5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(got-0.2013579207903307) > 1e-12 {
		t.Errorf("CohenH(0.6, 0.5) = %.16f, want 0.2013579207903307", got)
	}

	// antisymmetric in its arguments
	rev, _ := CohenH(0.5, 0.6)
	if math.Abs(got+rev) > 1e-12 {
		t.Errorf("Expected CohenH to be antisymmetric, got %g and %g", got, rev)
	}

	if _, err := CohenH(0, 0.5); !core.IsInvalidParameter(err) {
		t.Errorf("Expected boundary proportion to be rejected, got %v", err)
	}
	if _, err := CohenH(0.5, 1); !core.IsInvalidParameter(err) {
		t.Errorf("Expected boundary proportion to be rejected, got %v", err)
	}
}

func TestCohenD(t *testing.T) {
	got, err := CohenD(10, 12, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(got-0.5) > 1e-12 {
		t.Errorf("CohenD(10, 12, 4) = %g, want 0.5", got)
	}
	if _, err := CohenD(0, 1, 0); !core.IsInvalidParameter(err) {
		t.Errorf("Expected zero sd to be rejected, got %v", err)
	}
}

func TestPooledProportion(t *testing.T) {
	tests := []struct {
		p1, p2, ratio, want float64
	}{
		{0.6, 0.5, 1.0, 0.55},
		{0.6, 0.5, 2.0, (0.6 + 2*0.5) / 3},
		{0.3, 0.3, 5.0, 0.3},
	}
	for _, tt := range tests {
		got := PooledProportion(tt.p1, tt.p2, tt.ratio)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("PooledProportion(%g, %g, %g) = %g, want %g", tt.p1, tt.p2, tt.ratio, got, tt.want)
		}
	}
}

func TestCohenFFromMeans(t *testing.T) {
	got, err := CohenFFromMeans([]float64{1, 2, 3}, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(got-0.408248290463863) > 1e-12 {
		t.Errorf("CohenFFromMeans([1 2 3], 2) = %.15f, want 0.408248290463863", got)
	}

	flat, err := CohenFFromMeans([]float64{5, 5, 5}, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if flat != 0 {
		t.Errorf("Expected equal means to give f = 0, got %g", flat)
	}

	if _, err := CohenFFromMeans([]float64{1}, 1); !core.IsInvalidParameter(err) {
		t.Errorf("Expected single group to be rejected, got %v", err)
	}
	if _, err := CohenFFromMeans([]float64{1, 2}, 0); !core.IsInvalidParameter(err) {
		t.Errorf("Expected zero sd to be rejected, got %v", err)
	}
}

func TestCheckNonZero(t *testing.T) {
	if err := CheckNonZero(0.1, 1e-12, "flat"); err != nil {
		t.Errorf("Expected non-zero effect to pass, got %v", err)
	}
	if err := CheckNonZero(0, 1e-12, "flat"); !core.IsZeroEffect(err) {
		t.Errorf("Expected zero effect error, got %v", err)
	}
	if err := CheckNonZero(5e-13, 1e-12, "flat"); !core.IsZeroEffect(err) {
		t.Errorf("Expected sub-tolerance effect to be treated as zero, got %v", err)
	}
	if err := CheckNonZero(math.NaN(), 1e-12, "flat"); !core.IsInvalidParameter(err) {
		t.Errorf("Expected NaN effect to be invalid, got %v", err)
	}
}
