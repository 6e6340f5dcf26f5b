// Package multiplicity computes multiple-testing alpha corrections.
package multiplicity

import (
	"math"

	"github.com/altalanta/statdesign/domain/core"
	"github.com/altalanta/statdesign/domain/design"
)

const defaultAlpha = 0.05

func checkInputs(m int, alpha float64) error {
	if m < 1 {
		return core.NewInvalidParameterValue("m", float64(m), "at least 1")
	}
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return core.NewInvalidParameterValue("alpha", alpha, "in (0, 1)")
	}
	return nil
}

// AlphaAdjust returns the adjusted per-comparison alpha for m tests. For
// Bonferroni this is alpha/m. For Benjamini-Hochberg it is the smallest
// step-up critical value (also alpha/m); use BHThresholds for the full
// sequence. A zero alpha means 0.05; an empty method means Bonferroni.
func AlphaAdjust(m int, alpha float64, method design.Method) (float64, error) {
	if alpha == 0 {
		alpha = defaultAlpha
	}
	if err := checkInputs(m, alpha); err != nil {
		return 0, err
	}
	switch method {
	case design.MethodBonferroni, "":
		return alpha / float64(m), nil
	case design.MethodBH:
		return alpha / float64(m), nil
	default:
		return 0, core.NewInvalidParameter("method", `"bonferroni" or "bh"`)
	}
}

// BHThresholds returns the Benjamini-Hochberg step-up critical values
// alpha*i/m for i = 1..m: strictly increasing and bounded above by alpha.
func BHThresholds(m int, alpha float64) ([]float64, error) {
	if alpha == 0 {
		alpha = defaultAlpha
	}
	if err := checkInputs(m, alpha); err != nil {
		return nil, err
	}
	thresholds := make([]float64, m)
	for i := range thresholds {
		thresholds[i] = alpha * float64(i+1) / float64(m)
	}
	return thresholds, nil
}
