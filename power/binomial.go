package power

import (
	"math"
)

// Exact discrete power for binomial designs. Everything here enumerates
// probability mass directly; the enumeration ceiling in internal/config
// keeps the quadratic Fisher scan bounded.

// binomPMF returns the full probability mass function of Binomial(n, p)
// built by the stable multiplicative recurrence.
func binomPMF(n int, p float64) []float64 {
	q := 1 - p
	probs := make([]float64, n+1)
	prob := math.Pow(q, float64(n))
	probs[0] = prob
	for k := 0; k < n; k++ {
		if prob == 0 {
			break
		}
		prob *= float64(n-k) / float64(k+1) * (p / q)
		probs[k+1] = prob
	}
	return probs
}

func binomCDF(pmf []float64) []float64 {
	cdf := make([]float64, len(pmf))
	total := 0.0
	for i, p := range pmf {
		total += p
		cdf[i] = total
	}
	return cdf
}

func binomSF(pmf []float64) []float64 {
	sf := make([]float64, len(pmf))
	total := 0.0
	for i := len(pmf) - 1; i >= 0; i-- {
		total += pmf[i]
		sf[i] = total
	}
	return sf
}

// criticalRegionOneSided returns the inclusive [low, high] rejection region
// of the exact one-sided binomial test at level alpha. A region of
// (n+1, n) or (0, -1) means no achievable rejection at this n.
func criticalRegionOneSided(n int, pNull, alpha float64, greater bool) (int, int) {
	pmf := binomPMF(n, pNull)
	if greater {
		sf := binomSF(pmf)
		for k := 0; k <= n; k++ {
			if sf[k] <= alpha {
				return k, n
			}
		}
		return n + 1, n
	}
	cdf := binomCDF(pmf)
	for k := n; k >= 0; k-- {
		if cdf[k] <= alpha {
			return 0, k
		}
	}
	return 0, -1
}

// criticalRegionTwoSided splits alpha evenly across both tails.
func criticalRegionTwoSided(n int, pNull, alpha float64) (int, int) {
	pmf := binomPMF(n, pNull)
	cdf := binomCDF(pmf)
	sf := binomSF(pmf)
	tailAlpha := alpha / 2
	low := -1
	for k := 0; k <= n; k++ {
		if cdf[k] <= tailAlpha {
			low = k
		} else {
			break
		}
	}
	high := n + 1
	for k := n; k >= 0; k-- {
		if sf[k] <= tailAlpha {
			high = k
		} else {
			break
		}
	}
	return low, high
}

// exactOnePropPower sums alternative-hypothesis mass over the exact
// rejection region.
func exactOnePropPower(p, pNull float64, n int, alpha float64, twoSided, greater bool) float64 {
	pmf := binomPMF(n, p)
	if twoSided {
		low, high := criticalRegionTwoSided(n, pNull, alpha)
		var left, right float64
		for k := 0; k <= low; k++ {
			left += pmf[k]
		}
		for k := high; k <= n; k++ {
			right += pmf[k]
		}
		return left + right
	}
	low, high := criticalRegionOneSided(n, pNull, alpha, greater)
	total := 0.0
	if greater {
		for k := low; k <= n; k++ {
			total += pmf[k]
		}
		return total
	}
	for k := 0; k <= high; k++ {
		total += pmf[k]
	}
	return total
}

// exactOnePropEquivalencePower intersects the two one-sided rejection
// regions of the TOST procedure, each at level alpha.
func exactOnePropEquivalencePower(p, p0, margin float64, n int, alpha float64) float64 {
	lowBound, _ := criticalRegionOneSided(n, p0-margin, alpha, true)
	_, highBound := criticalRegionOneSided(n, p0+margin, alpha, false)
	if lowBound > highBound {
		return 0
	}
	pmf := binomPMF(n, p)
	total := 0.0
	for k := lowBound; k <= highBound && k <= n; k++ {
		if k >= 0 {
			total += pmf[k]
		}
	}
	return total
}

func logChoose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	ln1, _ := math.Lgamma(float64(n + 1))
	lk, _ := math.Lgamma(float64(k + 1))
	lnk, _ := math.Lgamma(float64(n - k + 1))
	return ln1 - lk - lnk
}

func hypergeomProb(n1, n2, successes, x int) float64 {
	if x < 0 || x > n1 {
		return 0
	}
	y := successes - x
	if y < 0 || y > n2 {
		return 0
	}
	return math.Exp(logChoose(n1, x) + logChoose(n2, y) - logChoose(n1+n2, successes))
}

// fisherPValue conditions on the margin total and sums hypergeometric mass
// per the requested alternative.
func fisherPValue(x1, n1, x2, n2 int, twoSided, greater bool) float64 {
	successes := x1 + x2
	xMin := successes - n2
	if xMin < 0 {
		xMin = 0
	}
	xMax := n1
	if successes < xMax {
		xMax = successes
	}
	probs := make([]float64, xMax-xMin+1)
	for i := range probs {
		probs[i] = hypergeomProb(n1, n2, successes, xMin+i)
	}
	idx := x1 - xMin
	if twoSided {
		threshold := probs[idx] + 1e-12
		total := 0.0
		for _, p := range probs {
			if p <= threshold {
				total += p
			}
		}
		return total
	}
	total := 0.0
	if greater {
		for i := idx; i < len(probs); i++ {
			total += probs[i]
		}
		return total
	}
	for i := 0; i <= idx; i++ {
		total += probs[i]
	}
	return total
}

// exactTwoPropPower enumerates both binomial outcome spaces and accumulates
// mass wherever the Fisher test rejects.
func exactTwoPropPower(p1, p2 float64, n1, n2 int, alpha float64, twoSided, greater bool) float64 {
	pmf1 := binomPMF(n1, p1)
	pmf2 := binomPMF(n2, p2)
	total := 0.0
	for x1, px1 := range pmf1 {
		if px1 == 0 {
			continue
		}
		for x2, px2 := range pmf2 {
			if px2 == 0 {
				continue
			}
			if fisherPValue(x1, n1, x2, n2, twoSided, greater) <= alpha {
				total += px1 * px2
			}
		}
	}
	return total
}
