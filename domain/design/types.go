package design

import (
	"math"

	"github.com/altalanta/statdesign/domain/core"
)

// Tail selects the alternative hypothesis direction.
type Tail string

const (
	TailTwoSided Tail = "two-sided"
	TailGreater  Tail = "greater"
	TailLess     Tail = "less"
)

// TestStat selects the reference distribution for location tests.
type TestStat string

const (
	TestZ TestStat = "z"
	TestT TestStat = "t"
)

// NIType reformulates the hypothesis around a margin. The empty value means
// a plain superiority test.
type NIType string

const (
	NINone           NIType = ""
	NINoninferiority NIType = "noninferiority"
	NIEquivalence    NIType = "equivalence"
)

// Method identifies a multiple-testing correction.
type Method string

const (
	MethodBonferroni Method = "bonferroni"
	MethodBH         Method = "bh"
)

// EntryDistribution describes how subjects enter during the accrual window.
type EntryDistribution string

const (
	EntryUniform EntryDistribution = "uniform"
	EntryInstant EntryDistribution = "instant"
)

// GroupSizes is the integer solution for a two-group design. Both sizes are
// ceilings of the continuous solution, never rounded down.
type GroupSizes struct {
	N1 int `json:"n1"`
	N2 int `json:"n2"`
}

// Total returns the combined sample size.
func (g GroupSizes) Total() int { return g.N1 + g.N2 }

// ValidTail reports whether t is a recognized tail specification.
func ValidTail(t Tail) bool {
	switch t {
	case TailTwoSided, TailGreater, TailLess:
		return true
	}
	return false
}

// ValidTest reports whether s is a recognized test statistic.
func ValidTest(s TestStat) bool {
	return s == TestZ || s == TestT
}

// CheckCommon validates the alpha/power/tail triple shared by every design.
func CheckCommon(alpha, power float64, tail Tail) error {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) || alpha <= 0 || alpha >= 1 {
		return core.NewInvalidParameterValue("alpha", alpha, "in (0, 1)")
	}
	if math.IsNaN(power) || math.IsInf(power, 0) || power <= 0 || power >= 1 {
		return core.NewInvalidParameterValue("power", power, "in (0, 1)")
	}
	if !ValidTail(tail) {
		return core.NewInvalidParameter("tail", `one of "two-sided", "greater", "less"`)
	}
	return nil
}

// CheckProbability validates a probability-type parameter.
func CheckProbability(value float64, name string) error {
	if math.IsNaN(value) || value <= 0 || value >= 1 {
		return core.NewInvalidParameterValue(name, value, "between 0 and 1")
	}
	return nil
}

// CheckPositive validates a strictly positive finite parameter.
func CheckPositive(value float64, name string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return core.NewInvalidParameterValue(name, value, "positive and finite")
	}
	return nil
}

// CheckMargin validates the margin/type pairing: a margin requires a type,
// a type requires a positive margin, noninferiority needs a one-sided tail
// and equivalence a two-sided one.
func CheckMargin(niMargin float64, niType NIType, tail Tail) error {
	switch niType {
	case NINone:
		if niMargin != 0 {
			return core.NewInvalidParameter("ni_margin", "absent unless ni_type is set")
		}
		return nil
	case NINoninferiority:
		if tail == TailTwoSided {
			return core.NewInvalidParameter("tail", "one-sided for noninferiority tests")
		}
	case NIEquivalence:
		if tail != TailTwoSided {
			return core.NewInvalidParameter("tail", `"two-sided" for equivalence tests`)
		}
	default:
		return core.NewInvalidParameter("ni_type", `one of "noninferiority", "equivalence"`)
	}
	if math.IsNaN(niMargin) || math.IsInf(niMargin, 0) || niMargin <= 0 {
		return core.NewInvalidParameterValue("ni_margin", niMargin, "positive and finite")
	}
	return nil
}
