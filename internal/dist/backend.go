// Package dist supplies the distribution backend for the sample-size
// solvers: standard normal quantiles always, and noncentral t/F
// quantile and power inversion when the exact backend is active.
package dist

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/altalanta/statdesign/domain/design"
)

// Backend is the capability-checked strategy the solvers compute against.
// Approximate implements every method with conservative normal-based
// formulas; Exact uses the noncentral t and F distributions.
type Backend interface {
	// NormalQuantile is the standard normal inverse CDF.
	NormalQuantile(p float64) float64
	// NormalCDF is the standard normal CDF.
	NormalCDF(x float64) float64
	// TQuantile is the central t inverse CDF (normal under Approximate).
	TQuantile(p, df float64) float64
	// PowerNoncentralT returns the rejection probability of a t test with
	// noncentrality delta at level alpha.
	PowerNoncentralT(delta, df, alpha float64, tail design.Tail) float64
	// NoncentralTCDF evaluates P(T <= x) under noncentrality delta.
	NoncentralTCDF(x, df, delta float64) float64
	// PowerNoncentralF returns the rejection probability of an F test with
	// noncentrality lambda at level alpha.
	PowerNoncentralF(lambda, dfNum, dfDen, alpha float64) float64
	// Exact reports whether noncentral results are exact rather than
	// normal approximations.
	Exact() bool
}

// PowerNormal is the normal-theory rejection probability for a shifted
// standard normal test statistic. Shared by both backends and by the
// score-test solvers.
func PowerNormal(delta, alpha float64, tail design.Tail) float64 {
	switch tail {
	case design.TailGreater:
		crit := distuv.UnitNormal.Quantile(1 - alpha)
		return distuv.UnitNormal.Survival(crit - delta)
	case design.TailLess:
		crit := distuv.UnitNormal.Quantile(alpha)
		return distuv.UnitNormal.CDF(crit - delta)
	default:
		crit := distuv.UnitNormal.Quantile(1 - alpha/2)
		return distuv.UnitNormal.Survival(crit-delta) + distuv.UnitNormal.CDF(-crit-delta)
	}
}
