package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/altalanta/statdesign/domain/design"
)

// Approximate is the always-available backend. Noncentral t collapses to a
// shifted normal; noncentral F uses a Wilson-Hilferty moment approximation.
// Solvers that cannot tolerate the approximation must check Exact() and
// fail with ErrBackendUnavailable instead of silently accepting it.
type Approximate struct{}

func (Approximate) NormalQuantile(p float64) float64 { return distuv.UnitNormal.Quantile(p) }

func (Approximate) NormalCDF(x float64) float64 { return distuv.UnitNormal.CDF(x) }

func (Approximate) TQuantile(p, df float64) float64 { return distuv.UnitNormal.Quantile(p) }

func (Approximate) PowerNoncentralT(delta, df, alpha float64, tail design.Tail) float64 {
	return PowerNormal(delta, alpha, tail)
}

func (Approximate) NoncentralTCDF(x, df, delta float64) float64 {
	return distuv.UnitNormal.CDF(x - delta)
}

// PowerNoncentralF matches the first two moments of the noncentral F
// against a Wilson-Hilferty critical value. Adequate for moderate samples;
// the ANOVA solver refuses it outright.
func (Approximate) PowerNoncentralF(lambda, dfNum, dfDen, alpha float64) float64 {
	if lambda <= 0 {
		return 0
	}
	critNum := chiSquaredQuantileWH(1-alpha, dfNum)
	critDen := chiSquaredQuantileWH(alpha, dfDen)
	if critDen <= 0 {
		return 0
	}
	crit := (dfDen * critNum) / (dfNum * critDen)
	mean := dfNum + lambda
	variance := 2 * (dfNum + 2*lambda)
	if variance <= 0 {
		return 0
	}
	z := (mean - crit*dfNum) / math.Sqrt(variance)
	return distuv.UnitNormal.CDF(z)
}

func (Approximate) Exact() bool { return false }

// chiSquaredQuantileWH is the Wilson-Hilferty cube approximation to the
// chi-squared inverse CDF.
func chiSquaredQuantileWH(p, df float64) float64 {
	z := distuv.UnitNormal.Quantile(p)
	term := 1 - 2/(9*df) + z*math.Sqrt(2/(9*df))
	return df * term * term * term
}
