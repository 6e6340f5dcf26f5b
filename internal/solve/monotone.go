// Package solve holds the deterministic integer solver the sample-size
// endpoints share.
package solve

import (
	"github.com/altalanta/statdesign/domain/core"
	"github.com/altalanta/statdesign/internal/config"
)

// PowerFn evaluates achieved power at an integer sample size. It must be
// non-decreasing in n.
type PowerFn func(n int) float64

// MonotoneInt returns the minimal n >= lower with eval(n) >= target. The
// upper bracket starts at hint (when positive) and expands exponentially up
// to maxN before integer bisection; exhausting maxN without reaching the
// target is a convergence failure, never a truncated answer.
func MonotoneInt(eval PowerFn, target float64, lower, hint, maxN int) (int, error) {
	if target <= 0 || target >= 1 {
		return 0, core.NewInvalidParameterValue("target power", target, "in (0, 1)")
	}
	if lower < 1 {
		return 0, core.NewInvalidParameter("lower bound", ">= 1")
	}
	if maxN < lower {
		maxN = config.Load().MaxSampleSize
	}

	upper := lower
	if upper < 2 {
		upper = 2
	}
	if hint > upper {
		upper = hint
	}
	if upper > maxN {
		upper = maxN
	}
	expansions := 0
	for eval(upper) < target {
		if upper >= maxN {
			return 0, core.NewConvergence("sample-size bracket expansion", expansions)
		}
		upper *= 2
		if upper > maxN {
			upper = maxN
		}
		expansions++
	}

	lo, hi := lower, upper
	for lo < hi {
		mid := lo + (hi-lo)/2
		if eval(mid) >= target {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo < lower {
		lo = lower
	}
	return lo, nil
}
