// Package alloc resolves continuous allocation ratios and weights into
// integer group sizes. Rounding always goes up, so realized allocations are
// at least as large as the continuous solution.
package alloc

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/altalanta/statdesign/domain/core"
)

// CheckRatio validates an allocation ratio r = n2/n1.
func CheckRatio(ratio float64) error {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return core.NewInvalidParameterValue("ratio", ratio, "positive and finite")
	}
	return nil
}

// GroupsFromN1 returns integer group sizes (n1, n2) for ratio = n2/n1.
func GroupsFromN1(n1 int, ratio float64) (int, int) {
	n2 := int(math.Ceil(float64(n1) * ratio))
	if n2 < 1 {
		n2 = 1
	}
	return n1, n2
}

// ByWeights splits total observations across groups proportionally to
// positive weights, assigning leftovers by descending fractional part and
// guaranteeing every group at least one observation.
func ByWeights(total int, weights []float64) ([]int, error) {
	if len(weights) == 0 {
		return nil, core.NewInvalidParameter("weights", "non-empty")
	}
	if total < len(weights) {
		return nil, core.NewInvalidParameter("total", ">= number of groups")
	}
	var weightSum float64
	for _, w := range weights {
		if math.IsNaN(w) || w <= 0 {
			return nil, core.NewInvalidParameterValue("weight", w, "positive")
		}
		weightSum += w
	}

	sizes := make([]int, len(weights))
	fracs := make([]float64, len(weights))
	assigned := 0
	for i, w := range weights {
		raw := float64(total) * w / weightSum
		sizes[i] = int(math.Floor(raw))
		fracs[i] = raw - math.Floor(raw)
		assigned += sizes[i]
	}
	// hand leftovers to the largest fractional parts
	order := make([]int, len(sizes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return fracs[order[a]] > fracs[order[b]] })
	for i := 0; assigned < total; i++ {
		sizes[order[i%len(order)]]++
		assigned++
	}
	// no zero-sized groups: borrow from the largest
	for i := range sizes {
		for sizes[i] < 1 {
			largest := 0
			for j := range sizes {
				if sizes[j] > sizes[largest] {
					largest = j
				}
			}
			sizes[largest]--
			sizes[i]++
		}
	}
	return sizes, nil
}

// HarmonicMean of positive group sizes, used for the ANOVA noncentrality
// under unequal allocation.
func HarmonicMean(sizes []int) (float64, error) {
	values := make([]float64, len(sizes))
	for i, n := range sizes {
		if n <= 0 {
			return 0, core.NewInvalidParameterValue("group size", float64(n), "positive")
		}
		values[i] = float64(n)
	}
	mean, err := stats.HarmonicMean(values)
	if err != nil {
		return 0, core.NewInvalidParameter("group sizes", "a non-empty positive set")
	}
	return mean, nil
}
