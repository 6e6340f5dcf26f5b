package power

import (
	"math"

	"github.com/altalanta/statdesign/domain/core"
	"github.com/altalanta/statdesign/domain/design"
	"github.com/altalanta/statdesign/internal/alloc"
	"github.com/altalanta/statdesign/internal/config"
	"github.com/altalanta/statdesign/internal/dist"
	"github.com/altalanta/statdesign/internal/effects"
	"github.com/altalanta/statdesign/internal/solve"
)

// tInflation pads the z-based solution when a t test is requested but the
// exact noncentral-t backend is not active, keeping the fallback
// conservative against the heavier-tailed t reference.
const tInflation = 1.05

// MeanSpec describes a two-sample comparison of means with a common
// standard deviation. Test defaults to t.
type MeanSpec struct {
	Mu1, Mu2 float64
	SD       float64
	Alpha    float64
	Power    float64
	// Ratio is the allocation ratio n2/n1.
	Ratio    float64
	Test     design.TestStat
	Tail     design.Tail
	NIMargin float64
	NIType   design.NIType
	Backend  dist.Backend
}

func (s *MeanSpec) normalize() {
	s.Alpha = orDefault(s.Alpha, DefaultAlpha)
	s.Power = orDefault(s.Power, DefaultPower)
	s.Ratio = orDefault(s.Ratio, DefaultRatio)
	s.Tail = orDefaultTail(s.Tail)
	if s.Test == "" {
		s.Test = design.TestT
	}
}

func (s MeanSpec) validate() error {
	if err := design.CheckCommon(s.Alpha, s.Power, s.Tail); err != nil {
		return err
	}
	if err := design.CheckMargin(s.NIMargin, s.NIType, s.Tail); err != nil {
		return err
	}
	if err := design.CheckPositive(s.SD, "sd"); err != nil {
		return err
	}
	if err := alloc.CheckRatio(s.Ratio); err != nil {
		return err
	}
	if !design.ValidTest(s.Test) {
		return core.NewInvalidParameter("test", `"z" or "t"`)
	}
	if s.NIType == design.NINone {
		d, err := effects.CohenD(s.Mu1, s.Mu2, s.SD)
		if err != nil {
			return err
		}
		if err := effects.CheckNonZero(d, zeroEffectTol, "mu1 and mu2 are equal"); err != nil {
			return err
		}
	}
	return nil
}

// powerAt evaluates the design at fixed group sizes under the given test
// reference; exact t power requires a backend with noncentral support.
func (s MeanSpec) powerAt(b dist.Backend, n1, n2 int) float64 {
	if n1 < 1 || n2 < 1 {
		return 0
	}
	useT := s.Test == design.TestT && b.Exact()
	if useT && (n1 < 2 || n2 < 2) {
		return 0
	}
	se := s.SD * math.Sqrt(1/float64(n1)+1/float64(n2))
	df := float64(n1 + n2 - 2)
	delta := s.Mu2 - s.Mu1
	switch s.NIType {
	case design.NINoninferiority:
		effect := (delta + marginShift(s.NIMargin, s.Tail)) / se
		if useT {
			return b.PowerNoncentralT(effect, df, s.Alpha, s.Tail)
		}
		return dist.PowerNormal(effect, s.Alpha, s.Tail)
	case design.NIEquivalence:
		if useT {
			return equivalencePowerT(b, delta/se, se, s.Alpha, s.NIMargin, df)
		}
		return equivalencePowerNormal(b, delta, se, s.Alpha, s.NIMargin)
	default:
		effect := delta / se
		if useT {
			return b.PowerNoncentralT(effect, df, s.Alpha, s.Tail)
		}
		return dist.PowerNormal(effect, s.Alpha, s.Tail)
	}
}

// PowerAt returns the achieved power at explicit group sizes.
func (s MeanSpec) PowerAt(n1, n2 int) (float64, error) {
	s.normalize()
	if err := s.validate(); err != nil {
		return 0, err
	}
	if n1 < 1 || n2 < 1 {
		return 0, core.NewInvalidParameter("n1/n2", "positive")
	}
	return s.powerAt(dist.OrDefault(s.Backend), n1, n2), nil
}

// closedFormN1 seeds the search with the z-test closed form.
func (s MeanSpec) closedFormN1(b dist.Backend) int {
	alpha := s.Alpha
	if s.Tail == design.TailTwoSided {
		alpha /= 2
	}
	delta := math.Abs(s.Mu2 - s.Mu1)
	if s.NIType != design.NINone {
		delta = math.Abs(s.Mu2 - s.Mu1 + marginShift(s.NIMargin, s.Tail))
	}
	if delta < zeroEffectTol {
		return 0
	}
	zSum := b.NormalQuantile(1-alpha) + b.NormalQuantile(s.Power)
	n1 := zSum * zSum * s.SD * s.SD * (1 + 1/s.Ratio) / (delta * delta)
	if math.IsNaN(n1) || math.IsInf(n1, 0) {
		return 0
	}
	return int(math.Ceil(n1))
}

// NMean returns group sizes for a two-sample mean comparison. A t test on
// the approximate backend solves the z design and inflates it, never
// returning less than the z answer; on the exact backend it re-solves
// against the noncentral t at df = n1 + n2 - 2.
func NMean(spec MeanSpec) (design.GroupSizes, error) {
	spec.normalize()
	if err := spec.validate(); err != nil {
		return design.GroupSizes{}, err
	}
	b := dist.OrDefault(spec.Backend)
	lower := 1
	if spec.Test == design.TestT {
		lower = 2
	}
	eval := func(n1 int) float64 {
		g1, g2 := alloc.GroupsFromN1(max(n1, lower), spec.Ratio)
		return spec.powerAt(b, g1, g2)
	}
	n1, err := solve.MonotoneInt(eval, spec.Power, lower, spec.closedFormN1(b), config.Load().MaxSampleSize)
	if err != nil {
		return design.GroupSizes{}, err
	}
	if spec.Test == design.TestT && !b.Exact() {
		n1 = inflateForT(n1)
	}
	g1, g2 := alloc.GroupsFromN1(n1, spec.Ratio)
	if spec.Test == design.TestT {
		g1 = max(g1, 2)
		g2 = max(g2, 2)
	}
	return design.GroupSizes{N1: g1, N2: g2}, nil
}

// inflateForT applies the conservative fallback factor, always rounding up
// and never shrinking the z-based answer.
func inflateForT(n int) int {
	inflated := int(math.Ceil(tInflation * float64(n)))
	if inflated < n {
		return n
	}
	return inflated
}

// OneMeanSpec describes a one-sample mean test of a difference delta from
// the null value, with standard deviation sd.
type OneMeanSpec struct {
	Delta    float64
	SD       float64
	Alpha    float64
	Power    float64
	Tail     design.Tail
	Test     design.TestStat
	NIMargin float64
	NIType   design.NIType
	Backend  dist.Backend
}

func (s *OneMeanSpec) normalize() {
	s.Alpha = orDefault(s.Alpha, DefaultAlpha)
	s.Power = orDefault(s.Power, DefaultPower)
	s.Tail = orDefaultTail(s.Tail)
	if s.Test == "" {
		s.Test = design.TestT
	}
}

func (s OneMeanSpec) validate() error {
	if err := design.CheckCommon(s.Alpha, s.Power, s.Tail); err != nil {
		return err
	}
	if err := design.CheckMargin(s.NIMargin, s.NIType, s.Tail); err != nil {
		return err
	}
	if err := design.CheckPositive(s.SD, "sd"); err != nil {
		return err
	}
	if !design.ValidTest(s.Test) {
		return core.NewInvalidParameter("test", `"z" or "t"`)
	}
	if s.NIType == design.NINone {
		if err := effects.CheckNonZero(s.Delta/s.SD, zeroEffectTol, "delta is zero"); err != nil {
			return err
		}
	}
	return nil
}

func (s OneMeanSpec) powerAt(b dist.Backend, n int) float64 {
	if n < 1 {
		return 0
	}
	useT := s.Test == design.TestT && b.Exact()
	if useT && n < 2 {
		return 0
	}
	se := s.SD / math.Sqrt(float64(n))
	df := float64(n - 1)
	switch s.NIType {
	case design.NINoninferiority:
		effect := (s.Delta + marginShift(s.NIMargin, s.Tail)) / se
		if useT {
			return b.PowerNoncentralT(effect, df, s.Alpha, s.Tail)
		}
		return dist.PowerNormal(effect, s.Alpha, s.Tail)
	case design.NIEquivalence:
		if useT {
			return equivalencePowerT(b, s.Delta/se, se, s.Alpha, s.NIMargin, df)
		}
		return equivalencePowerNormal(b, s.Delta, se, s.Alpha, s.NIMargin)
	default:
		effect := s.Delta / se
		if useT {
			return b.PowerNoncentralT(effect, df, s.Alpha, s.Tail)
		}
		return dist.PowerNormal(effect, s.Alpha, s.Tail)
	}
}

// PowerAt returns the achieved power at n.
func (s OneMeanSpec) PowerAt(n int) (float64, error) {
	s.normalize()
	if err := s.validate(); err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, core.NewInvalidParameter("n", "positive")
	}
	return s.powerAt(dist.OrDefault(s.Backend), n), nil
}

// NOneSampleMean returns the smallest n meeting the target power.
func NOneSampleMean(spec OneMeanSpec) (int, error) {
	spec.normalize()
	if err := spec.validate(); err != nil {
		return 0, err
	}
	b := dist.OrDefault(spec.Backend)
	lower := 1
	if spec.Test == design.TestT {
		lower = 2
	}
	eval := func(n int) float64 { return spec.powerAt(b, max(n, lower)) }
	n, err := solve.MonotoneInt(eval, spec.Power, lower, 0, config.Load().MaxSampleSize)
	if err != nil {
		return 0, err
	}
	if spec.Test == design.TestT && !b.Exact() {
		n = inflateForT(n)
	}
	return max(n, lower), nil
}

// PairedSpec describes a paired-difference design: delta is the mean
// within-pair difference, SDDiff its standard deviation. Always a t test
// on df = n - 1.
type PairedSpec struct {
	Delta    float64
	SDDiff   float64
	Alpha    float64
	Power    float64
	Tail     design.Tail
	NIMargin float64
	NIType   design.NIType
	Backend  dist.Backend
}

// NPaired returns the number of pairs meeting the target power.
func NPaired(spec PairedSpec) (int, error) {
	one := OneMeanSpec{
		Delta:    spec.Delta,
		SD:       spec.SDDiff,
		Alpha:    spec.Alpha,
		Power:    spec.Power,
		Tail:     spec.Tail,
		Test:     design.TestT,
		NIMargin: spec.NIMargin,
		NIType:   spec.NIType,
		Backend:  spec.Backend,
	}
	n, err := NOneSampleMean(one)
	if err != nil {
		return 0, err
	}
	return max(n, 2), nil
}

// PowerAt returns the achieved power of the paired design at n pairs.
func (s PairedSpec) PowerAt(n int) (float64, error) {
	one := OneMeanSpec{
		Delta:    s.Delta,
		SD:       s.SDDiff,
		Alpha:    s.Alpha,
		Power:    s.Power,
		Tail:     s.Tail,
		Test:     design.TestT,
		NIMargin: s.NIMargin,
		NIType:   s.NIType,
		Backend:  s.Backend,
	}
	return one.PowerAt(n)
}
