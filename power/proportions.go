package power

import (
	"fmt"
	"math"

	"github.com/altalanta/statdesign/domain/core"
	"github.com/altalanta/statdesign/domain/design"
	"github.com/altalanta/statdesign/internal/alloc"
	"github.com/altalanta/statdesign/internal/config"
	"github.com/altalanta/statdesign/internal/dist"
	"github.com/altalanta/statdesign/internal/effects"
	"github.com/altalanta/statdesign/internal/solve"
)

// TwoPropSpec describes a two-sample comparison of proportions. Zero-valued
// Alpha, Power, Ratio and Tail take the package defaults.
type TwoPropSpec struct {
	P1, P2 float64
	Alpha  float64
	Power  float64
	// Ratio is the allocation ratio n2/n1.
	Ratio    float64
	Tail     design.Tail
	NIMargin float64
	NIType   design.NIType
	// Exact switches to full enumeration of the Fisher exact test,
	// bounded by the configured ceiling. Small samples only.
	Exact bool
	// Backend pins a distribution backend; nil uses the process default.
	Backend dist.Backend
}

func (s *TwoPropSpec) normalize() {
	s.Alpha = orDefault(s.Alpha, DefaultAlpha)
	s.Power = orDefault(s.Power, DefaultPower)
	s.Ratio = orDefault(s.Ratio, DefaultRatio)
	s.Tail = orDefaultTail(s.Tail)
}

func (s TwoPropSpec) validate() error {
	if err := design.CheckProbability(s.P1, "p1"); err != nil {
		return err
	}
	if err := design.CheckProbability(s.P2, "p2"); err != nil {
		return err
	}
	if err := design.CheckCommon(s.Alpha, s.Power, s.Tail); err != nil {
		return err
	}
	if err := design.CheckMargin(s.NIMargin, s.NIType, s.Tail); err != nil {
		return err
	}
	if err := alloc.CheckRatio(s.Ratio); err != nil {
		return err
	}
	if s.Exact && s.NIType != design.NINone {
		return core.NewInvalidParameter("exact", "unset when a margin test is requested; use the normal approximation")
	}
	if s.NIType == design.NINone {
		if err := effects.CheckNonZero(s.P1-s.P2, zeroEffectTol, "p1 and p2 are equal"); err != nil {
			return err
		}
	}
	return nil
}

// powerAt evaluates the achieved power of the design at fixed group sizes.
func (s TwoPropSpec) powerAt(n1, n2 int) float64 {
	if n1 < 1 || n2 < 1 {
		return 0
	}
	if s.Exact {
		return exactTwoPropPower(s.P1, s.P2, n1, n2, s.Alpha,
			s.Tail == design.TailTwoSided, s.Tail == design.TailGreater)
	}
	total := float64(n1 + n2)
	pooled := (s.P1*float64(n1) + s.P2*float64(n2)) / total
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(n1) + 1/float64(n2)))
	delta := s.P1 - s.P2
	switch s.NIType {
	case design.NINoninferiority:
		return scorePower(delta+marginShift(s.NIMargin, s.Tail), se, s.Alpha, s.Tail)
	case design.NIEquivalence:
		return equivalencePowerNormal(dist.OrDefault(s.Backend), delta, se, s.Alpha, s.NIMargin)
	default:
		return scorePower(delta, se, s.Alpha, s.Tail)
	}
}

// PowerAt returns the achieved power at explicit group sizes, using the
// same evaluator the solver searches over.
func (s TwoPropSpec) PowerAt(n1, n2 int) (float64, error) {
	s.normalize()
	if err := s.validate(); err != nil {
		return 0, err
	}
	if n1 < 1 || n2 < 1 {
		return 0, core.NewInvalidParameter("n1/n2", "positive")
	}
	return s.powerAt(n1, n2), nil
}

// closedFormN1 is the normal-approximation closed form used to seed the
// integer search bracket (no continuity correction).
func (s TwoPropSpec) closedFormN1() int {
	b := dist.OrDefault(s.Backend)
	alpha := s.Alpha
	if s.Tail == design.TailTwoSided {
		alpha /= 2
	}
	zAlpha := b.NormalQuantile(1 - alpha)
	zBeta := b.NormalQuantile(s.Power)
	pBar := effects.PooledProportion(s.P1, s.P2, s.Ratio)
	delta := math.Abs(s.P1 - s.P2)
	if s.NIType != design.NINone {
		delta = math.Abs(s.P1 - s.P2 + marginShift(s.NIMargin, s.Tail))
		if delta < zeroEffectTol {
			return 0
		}
	}
	pooledTerm := zAlpha * math.Sqrt(pBar*(1-pBar)*(1+1/s.Ratio))
	diffTerm := zBeta * math.Sqrt(s.P1*(1-s.P1)+s.P2*(1-s.P2)/s.Ratio)
	n1 := (pooledTerm + diffTerm) * (pooledTerm + diffTerm) / (delta * delta)
	if math.IsNaN(n1) || math.IsInf(n1, 0) {
		return 0
	}
	return int(math.Ceil(n1))
}

// NTwoProp returns the smallest balanced-by-ratio group sizes whose
// achieved power meets the target.
func NTwoProp(spec TwoPropSpec) (design.GroupSizes, error) {
	spec.normalize()
	if err := spec.validate(); err != nil {
		return design.GroupSizes{}, err
	}

	maxN := config.Load().MaxSampleSize
	hint := spec.closedFormN1()
	if spec.Exact {
		maxN = config.Load().MaxExactN
		hint = 0
	}

	eval := func(n1 int) float64 {
		g1, g2 := alloc.GroupsFromN1(max(n1, 2), spec.Ratio)
		return spec.powerAt(g1, g2)
	}
	n1, err := solve.MonotoneInt(eval, spec.Power, 2, hint, maxN)
	if err != nil {
		if spec.Exact && core.IsConvergence(err) {
			return design.GroupSizes{}, fmt.Errorf("exact two-sample enumeration capped at n=%d: %w", maxN, err)
		}
		return design.GroupSizes{}, err
	}
	g1, g2 := alloc.GroupsFromN1(n1, spec.Ratio)
	return design.GroupSizes{N1: g1, N2: g2}, nil
}

// OnePropSpec describes a one-sample proportion test against p0.
type OnePropSpec struct {
	P, P0 float64
	Alpha float64
	Power float64
	Tail  design.Tail
	// Exact enumerates binomial critical regions instead of the score
	// approximation. Required when n is small enough that the normal
	// approximation is unreliable; independent of the process-wide mode.
	Exact    bool
	NIMargin float64
	NIType   design.NIType
	Backend  dist.Backend
}

func (s *OnePropSpec) normalize() {
	s.Alpha = orDefault(s.Alpha, DefaultAlpha)
	s.Power = orDefault(s.Power, DefaultPower)
	s.Tail = orDefaultTail(s.Tail)
}

func (s OnePropSpec) validate() error {
	if err := design.CheckProbability(s.P, "p"); err != nil {
		return err
	}
	if err := design.CheckProbability(s.P0, "p0"); err != nil {
		return err
	}
	if err := design.CheckCommon(s.Alpha, s.Power, s.Tail); err != nil {
		return err
	}
	if err := design.CheckMargin(s.NIMargin, s.NIType, s.Tail); err != nil {
		return err
	}
	if s.NIType == design.NINone {
		if err := effects.CheckNonZero(s.P-s.P0, zeroEffectTol, "p and p0 are equal"); err != nil {
			return err
		}
		return nil
	}
	// Shifted null proportions must stay inside (0, 1).
	if s.P0-s.NIMargin <= 0 || s.P0+s.NIMargin >= 1 {
		return core.NewInvalidParameterValue("ni_margin", s.NIMargin, "small enough to keep p0 +/- margin inside (0, 1)")
	}
	return nil
}

func (s OnePropSpec) powerAt(n int) float64 {
	if n < 1 {
		return 0
	}
	if s.Exact {
		switch s.NIType {
		case design.NINoninferiority:
			nullProp := s.P0 + marginShift(-s.NIMargin, s.Tail)
			return exactOnePropPower(s.P, nullProp, n, s.Alpha, false, s.Tail == design.TailGreater)
		case design.NIEquivalence:
			return exactOnePropEquivalencePower(s.P, s.P0, s.NIMargin, n, s.Alpha)
		default:
			return exactOnePropPower(s.P, s.P0, n, s.Alpha,
				s.Tail == design.TailTwoSided, s.Tail == design.TailGreater)
		}
	}
	se := math.Sqrt(s.P0 * (1 - s.P0) / float64(n))
	delta := s.P - s.P0
	switch s.NIType {
	case design.NINoninferiority:
		return scorePower(delta+marginShift(s.NIMargin, s.Tail), se, s.Alpha, s.Tail)
	case design.NIEquivalence:
		return equivalencePowerNormal(dist.OrDefault(s.Backend), delta, se, s.Alpha, s.NIMargin)
	default:
		return scorePower(delta, se, s.Alpha, s.Tail)
	}
}

// PowerAt returns the achieved power of the one-sample design at n.
func (s OnePropSpec) PowerAt(n int) (float64, error) {
	s.normalize()
	if err := s.validate(); err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, core.NewInvalidParameter("n", "positive")
	}
	return s.powerAt(n), nil
}

// NOneSampleProp returns the smallest n meeting the target power. With
// Exact set, the search evaluates cumulative exact binomial power at each
// candidate n and is capped by the enumeration ceiling.
func NOneSampleProp(spec OnePropSpec) (int, error) {
	spec.normalize()
	if err := spec.validate(); err != nil {
		return 0, err
	}
	maxN := config.Load().MaxSampleSize
	if spec.Exact {
		maxN = config.Load().MaxExactN
	}
	eval := func(n int) float64 { return spec.powerAt(max(n, 2)) }
	n, err := solve.MonotoneInt(eval, spec.Power, 2, 0, maxN)
	if err != nil {
		if spec.Exact && core.IsConvergence(err) {
			return 0, fmt.Errorf("exact binomial enumeration capped at n=%d: %w", maxN, err)
		}
		return 0, err
	}
	return n, nil
}
