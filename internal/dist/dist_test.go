package dist

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/altalanta/statdesign/domain/core"
	"github.com/altalanta/statdesign/domain/design"
)

func TestNoncentralTCDFReducesToCentralT(t *testing.T) {
	// At delta = 0 the series must reproduce the central t CDF.
	e := Exact{}
	for _, df := range []float64{1, 5, 12, 60, 400} {
		for _, x := range []float64{-3, -1.5, 0, 0.5, 1.5, 3} {
			got := e.NoncentralTCDF(x, df, 0)
			want := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.CDF(x)
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("NoncentralTCDF(%g, %g, 0) = %.12f, central t gives %.12f", x, df, got, want)
			}
		}
	}
}

func TestNoncentralTCDFAtZero(t *testing.T) {
	// P(T <= 0) is exactly Phi(-delta) for any df.
	e := Exact{}
	for _, delta := range []float64{-2, -0.5, 0, 0.5, 2} {
		got := e.NoncentralTCDF(0, 10, delta)
		want := distuv.UnitNormal.CDF(-delta)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("NoncentralTCDF(0, 10, %g) = %.12f, want Phi(%g) = %.12f", delta, got, -delta, want)
		}
	}
}

func TestNoncentralTCDFReferenceValues(t *testing.T) {
	e := Exact{}
	tests := []struct {
		x, df, delta, want float64
	}{
		{1.0, 10, 0.5, 0.6786306386910430},
		{2.0, 20, 1.5, 0.6746299141379235},
	}
	for _, tt := range tests {
		got := e.NoncentralTCDF(tt.x, tt.df, tt.delta)
		if math.Abs(got-tt.want) > 1e-8 {
			t.Errorf("NoncentralTCDF(%g, %g, %g) = %.10f, want %.10f", tt.x, tt.df, tt.delta, got, tt.want)
		}
	}
}

func TestNoncentralTCDFNegativeSymmetry(t *testing.T) {
	e := Exact{}
	for _, delta := range []float64{0.5, 1.5, 3} {
		for _, x := range []float64{0.3, 1.2, 2.5} {
			left := e.NoncentralTCDF(-x, 15, delta)
			right := 1 - e.NoncentralTCDF(x, 15, -delta)
			if math.Abs(left-right) > 1e-10 {
				t.Errorf("Symmetry violated at x=%g delta=%g: %.12f vs %.12f", x, delta, left, right)
			}
		}
	}
}

func TestNoncentralTCDFMonotoneInDelta(t *testing.T) {
	// Larger noncentrality shifts mass right, so the CDF at fixed x falls.
	e := Exact{}
	prev := 1.1
	for _, delta := range []float64{0, 0.5, 1, 2, 4} {
		p := e.NoncentralTCDF(1.5, 25, delta)
		if p >= prev {
			t.Errorf("CDF did not decrease at delta %g: %g >= %g", delta, p, prev)
		}
		prev = p
	}
}

func TestPowerNoncentralT(t *testing.T) {
	e := Exact{}
	got := e.PowerNoncentralT(3, 30, 0.05, design.TailTwoSided)
	if math.Abs(got-0.8270999285) > 1e-6 {
		t.Errorf("PowerNoncentralT(3, 30, 0.05) = %.10f, want 0.8270999285", got)
	}

	// Null effect rejects at the nominal level.
	null := e.PowerNoncentralT(0, 30, 0.05, design.TailTwoSided)
	if math.Abs(null-0.05) > 1e-9 {
		t.Errorf("Expected size alpha at delta 0, got %.10f", null)
	}

	twoSided := e.PowerNoncentralT(2, 30, 0.05, design.TailTwoSided)
	greater := e.PowerNoncentralT(2, 30, 0.05, design.TailGreater)
	if greater <= twoSided {
		t.Errorf("One-sided power %g should exceed two-sided power %g at the same effect", greater, twoSided)
	}

	less := e.PowerNoncentralT(-2, 30, 0.05, design.TailLess)
	if math.Abs(less-greater) > 1e-10 {
		t.Errorf("Tail symmetry violated: less %g vs greater %g", less, greater)
	}
}

func TestExactTPowerBelowNormalPower(t *testing.T) {
	// The heavier t tails cost power at small df, so the exact t answer sits
	// below the normal approximation for the same effect.
	e := Exact{}
	for _, df := range []float64{4, 10, 30} {
		tPower := e.PowerNoncentralT(2.5, df, 0.05, design.TailTwoSided)
		zPower := PowerNormal(2.5, 0.05, design.TailTwoSided)
		if tPower >= zPower {
			t.Errorf("Expected t power below z power at df %g: %g >= %g", df, tPower, zPower)
		}
	}
}

func TestNoncentralFCDF(t *testing.T) {
	// lambda = 0 collapses to the central F.
	central := distuv.F{D1: 3, D2: 40}.CDF(2.5)
	if got := noncentralFCDF(2.5, 3, 40, 0); math.Abs(got-central) > 1e-10 {
		t.Errorf("noncentralFCDF at lambda 0 = %.12f, central F gives %.12f", got, central)
	}

	if got := noncentralFCDF(2.5, 3, 40, 2.0); math.Abs(got-0.770968167953089) > 1e-8 {
		t.Errorf("noncentralFCDF(2.5, 3, 40, 2) = %.10f, want 0.7709681680", got)
	}

	if got := noncentralFCDF(0, 3, 40, 2.0); got != 0 {
		t.Errorf("Expected CDF 0 at f = 0, got %g", got)
	}
}

func TestPowerNoncentralFMonotoneInLambda(t *testing.T) {
	e := Exact{}
	prev := -1.0
	for _, lambda := range []float64{0.5, 1, 2, 5, 10, 20} {
		p := e.PowerNoncentralF(lambda, 2, 147, 0.05)
		if p <= prev {
			t.Errorf("Power did not increase at lambda %g: %g <= %g", lambda, p, prev)
		}
		if p <= 0 || p >= 1 {
			t.Errorf("Power out of range at lambda %g: %g", lambda, p)
		}
		prev = p
	}
}

func TestApproximateBackend(t *testing.T) {
	a := Approximate{}
	if a.Exact() {
		t.Error("Approximate backend must report Exact() false")
	}
	if got, want := a.TQuantile(0.975, 12), a.NormalQuantile(0.975); got != want {
		t.Errorf("Approximate TQuantile = %g, want normal quantile %g", got, want)
	}
	got := a.PowerNoncentralT(2, 30, 0.05, design.TailTwoSided)
	want := PowerNormal(2, 0.05, design.TailTwoSided)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Approximate noncentral t power = %g, want normal power %g", got, want)
	}

	// Wilson-Hilferty F power is rough at small numerator df; it only needs
	// to land in the same region as the exact value.
	exact := Exact{}.PowerNoncentralF(9.6, 2, 147, 0.05)
	approx := a.PowerNoncentralF(9.6, 2, 147, 0.05)
	if math.Abs(exact-approx) > 0.1 {
		t.Errorf("Approximate F power %.4f too far from exact %.4f", approx, exact)
	}
}

func TestPowerNormal(t *testing.T) {
	// Size equals alpha at zero effect for every tail.
	for _, tail := range []design.Tail{design.TailTwoSided, design.TailGreater, design.TailLess} {
		if got := PowerNormal(0, 0.05, tail); math.Abs(got-0.05) > 1e-12 {
			t.Errorf("PowerNormal(0, 0.05, %q) = %.12f, want 0.05", tail, got)
		}
	}
	// The textbook 80% design: delta = z_{.975} + z_{.80}.
	delta := distuv.UnitNormal.Quantile(0.975) + distuv.UnitNormal.Quantile(0.80)
	if got := PowerNormal(delta, 0.05, design.TailTwoSided); got < 0.80 || got > 0.8005 {
		t.Errorf("PowerNormal at the textbook delta = %.6f, want just above 0.80", got)
	}
}

func TestAvailable(t *testing.T) {
	if !Available() {
		t.Error("Expected the exact backend probe to succeed")
	}
}

func TestSolveNoncentrality(t *testing.T) {
	e := Exact{}
	powerAt := func(lambda float64) float64 {
		return e.PowerNoncentralF(lambda, 2, 1e6, 0.05)
	}
	lambda, err := SolveNoncentrality(powerAt, 0.8)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(lambda-9.634717731) > 1e-4 {
		t.Errorf("Solved lambda = %.8f, want 9.63471773", lambda)
	}
	if powerAt(lambda) < 0.8 {
		t.Errorf("Solved lambda under-powers: %g", powerAt(lambda))
	}
	if powerAt(lambda-1e-4) >= 0.8 {
		t.Errorf("Solved lambda is not minimal within tolerance")
	}
}

func TestSolveNoncentralityUnreachable(t *testing.T) {
	flat := func(lambda float64) float64 { return 0.5 }
	_, err := SolveNoncentrality(flat, 0.8)
	if err == nil {
		t.Fatal("Expected convergence error for a flat power function")
	}
	if !core.IsConvergence(err) {
		t.Errorf("Expected ErrConvergence, got %v", err)
	}
}

func TestSolveNoncentralityInvalidTarget(t *testing.T) {
	powerAt := func(lambda float64) float64 { return 1 }
	for _, target := range []float64{0, 1, -0.5, 1.5} {
		if _, err := SolveNoncentrality(powerAt, target); !core.IsInvalidParameter(err) {
			t.Errorf("Expected invalid target %g to be rejected, got %v", target, err)
		}
	}
}

func TestModeToggle(t *testing.T) {
	defer DisableExact()

	DisableExact()
	if Default().Exact() {
		t.Fatal("Expected the approximate default after DisableExact")
	}
	if err := EnableExact(); err != nil {
		t.Fatalf("EnableExact failed: %v", err)
	}
	if !Default().Exact() {
		t.Error("Expected the exact default after EnableExact")
	}
	DisableExact()
	if Default().Exact() {
		t.Error("Expected DisableExact to restore the approximate default")
	}
}

func TestOrDefault(t *testing.T) {
	defer DisableExact()
	DisableExact()

	if !OrDefault(Exact{}).Exact() {
		t.Error("Expected a pinned exact backend to win over the default")
	}
	if OrDefault(nil).Exact() {
		t.Error("Expected nil to resolve to the approximate default")
	}
}
