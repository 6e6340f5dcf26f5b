// Package power computes required sample sizes and achieved power for
// two- and one-sample proportions, two- and one-sample means, paired
// differences, one-way ANOVA, and event-based survival comparisons.
//
// Every solver is deterministic and side-effect-free: it validates its
// spec, derives the standardized effect, evaluates the relevant power
// function through a distribution backend, and returns the smallest
// integer sample size whose achieved power meets the target. Rounding
// always goes up; the returned design is never under-powered under the
// formula's assumptions.
package power

import (
	"github.com/altalanta/statdesign/domain/design"
	"github.com/altalanta/statdesign/internal/dist"
)

// Defaults applied when a spec leaves the field zero, mirroring the
// conventional 5% two-sided test at 80% power with equal allocation.
const (
	DefaultAlpha = 0.05
	DefaultPower = 0.80
	DefaultRatio = 1.0
)

// zeroEffectTol is the design-level tolerance below which a standardized
// effect is treated as zero.
const zeroEffectTol = 1e-12

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultTail(t design.Tail) design.Tail {
	if t == "" {
		return design.TailTwoSided
	}
	return t
}

// scorePower is the normal-theory power of a score test with effect
// delta/se at level alpha.
func scorePower(delta, se, alpha float64, tail design.Tail) float64 {
	return dist.PowerNormal(delta/se, alpha, tail)
}

// equivalencePowerNormal is the two-one-sided-test power under a normal
// reference: each one-sided margin test runs at alpha, not alpha/2.
func equivalencePowerNormal(b dist.Backend, delta, se, alpha, margin float64) float64 {
	effect := delta / se
	q := b.NormalQuantile(1 - alpha)
	lower := q - margin/se
	upper := -q + margin/se
	if lower >= upper {
		return 0
	}
	return b.NormalCDF(upper-effect) - b.NormalCDF(lower-effect)
}

// equivalencePowerT is the TOST power under the noncentral t reference.
func equivalencePowerT(b dist.Backend, effect, se, alpha, margin, df float64) float64 {
	q := b.TQuantile(1-alpha, df)
	lower := q - margin/se
	upper := -q + margin/se
	if lower >= upper {
		return 0
	}
	return b.NoncentralTCDF(upper, df, effect) - b.NoncentralTCDF(lower, df, effect)
}

// marginShift converts a noninferiority margin into the additive shift on
// the raw effect for the given one-sided tail.
func marginShift(margin float64, tail design.Tail) float64 {
	if tail == design.TailGreater {
		return margin
	}
	return -margin
}
