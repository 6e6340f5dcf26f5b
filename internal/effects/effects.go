// Package effects derives standardized effect measures from raw design
// inputs. Pure functions; no backend dependency.
package effects

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/altalanta/statdesign/domain/core"
	"github.com/altalanta/statdesign/domain/design"
)

// CohenH is the arcsine-transformed difference between two proportions.
func CohenH(p1, p2 float64) (float64, error) {
	if err := design.CheckProbability(p1, "p1"); err != nil {
		return 0, err
	}
	if err := design.CheckProbability(p2, "p2"); err != nil {
		return 0, err
	}
	return 2*math.Asin(math.Sqrt(p1)) - 2*math.Asin(math.Sqrt(p2)), nil
}

// CohenD is the standardized mean difference (mu2 - mu1) / sd.
func CohenD(mu1, mu2, sd float64) (float64, error) {
	if err := design.CheckPositive(sd, "sd"); err != nil {
		return 0, err
	}
	return (mu2 - mu1) / sd, nil
}

// PooledProportion is the allocation-weighted null proportion
// (p1 + r*p2) / (1 + r) used by the two-sample score test.
func PooledProportion(p1, p2, ratio float64) float64 {
	return (p1 + ratio*p2) / (1 + ratio)
}

// CohenFFromMeans computes Cohen's f from equally weighted group means and
// a common within-group standard deviation.
func CohenFFromMeans(groupMeans []float64, sd float64) (float64, error) {
	if len(groupMeans) < 2 {
		return 0, core.NewInvalidParameter("group means", "at least two groups")
	}
	if err := design.CheckPositive(sd, "sd"); err != nil {
		return 0, err
	}
	betweenVar, err := stats.PopulationVariance(stats.Float64Data(groupMeans))
	if err != nil {
		return 0, core.NewInvalidParameter("group means", "a valid numeric set")
	}
	return math.Sqrt(betweenVar) / sd, nil
}

// CheckNonZero rejects effects the design cannot distinguish from zero.
func CheckNonZero(effect float64, tol float64, detail string) error {
	if math.IsNaN(effect) {
		return core.NewInvalidParameter("effect", "a finite number")
	}
	if math.Abs(effect) <= tol {
		return core.NewZeroEffect(detail)
	}
	return nil
}
