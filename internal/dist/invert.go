package dist

import (
	"github.com/altalanta/statdesign/domain/core"
	"github.com/altalanta/statdesign/internal/config"
)

// inversionTol is the absolute tolerance on the noncentrality parameter.
const inversionTol = 1e-6

// lambdaCeiling bounds the bracket expansion; a target power unreachable
// below it is reported as a convergence failure, not approximated.
const lambdaCeiling = 1e9

// SolveNoncentrality finds the smallest noncentrality parameter whose power
// meets target, by monotone bisection of powerAt over an expanding bracket.
// powerAt must be non-decreasing in its argument. Returns ErrConvergence
// when the iteration budget or the bracket ceiling is exhausted.
func SolveNoncentrality(powerAt func(lambda float64) float64, target float64) (float64, error) {
	if target <= 0 || target >= 1 {
		return 0, core.NewInvalidParameterValue("target power", target, "in (0, 1)")
	}
	maxIter := config.Load().MaxBisect

	lo, hi := 0.0, 1.0
	iter := 0
	for powerAt(hi) < target {
		lo = hi
		hi *= 2
		iter++
		if hi > lambdaCeiling || iter >= maxIter {
			return 0, core.NewConvergence("noncentrality bracket expansion", iter)
		}
	}
	for iter < maxIter {
		if hi-lo <= inversionTol {
			return hi, nil
		}
		mid := lo + (hi-lo)/2
		if powerAt(mid) >= target {
			hi = mid
		} else {
			lo = mid
		}
		iter++
	}
	return 0, core.NewConvergence("noncentrality bisection", maxIter)
}
