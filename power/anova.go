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

// ANOVASpec describes a one-way fixed-effects ANOVA detecting Cohen's f.
// Supply EffectF directly, or GroupMeans and SD to derive it. Allocation
// weights default to equal groups.
type ANOVASpec struct {
	Groups     int
	EffectF    float64
	GroupMeans []float64
	SD         float64
	Alpha      float64
	Power      float64
	Allocation []float64
	Backend    dist.Backend
}

func (s *ANOVASpec) normalize() error {
	s.Alpha = orDefault(s.Alpha, DefaultAlpha)
	s.Power = orDefault(s.Power, DefaultPower)
	if s.Groups == 0 && len(s.GroupMeans) > 0 {
		s.Groups = len(s.GroupMeans)
	}
	if s.EffectF == 0 && len(s.GroupMeans) > 0 {
		f, err := effects.CohenFFromMeans(s.GroupMeans, s.SD)
		if err != nil {
			return err
		}
		s.EffectF = f
	}
	return nil
}

func (s ANOVASpec) validate() error {
	if s.Groups < 2 {
		return core.NewInvalidParameterValue("k_groups", float64(s.Groups), "at least 2")
	}
	if err := design.CheckCommon(s.Alpha, s.Power, design.TailTwoSided); err != nil {
		return err
	}
	if math.IsNaN(s.EffectF) || math.IsInf(s.EffectF, 0) || s.EffectF < 0 {
		return core.NewInvalidParameterValue("effect_f", s.EffectF, "positive and finite")
	}
	if err := effects.CheckNonZero(s.EffectF, zeroEffectTol, "group means are equal"); err != nil {
		return err
	}
	if len(s.Allocation) > 0 && len(s.Allocation) != s.Groups {
		return core.NewInvalidParameter("allocation", "of length k_groups")
	}
	return nil
}

func (s ANOVASpec) weights() []float64 {
	if len(s.Allocation) > 0 {
		return s.Allocation
	}
	w := make([]float64, s.Groups)
	for i := range w {
		w[i] = 1
	}
	return w
}

// powerAt evaluates noncentral-F power at a total sample size, allocating
// by weights. The noncentrality is lambda = k * n_harmonic * f^2.
func (s ANOVASpec) powerAt(b dist.Backend, total int) (float64, error) {
	sizes, err := alloc.ByWeights(total, s.weights())
	if err != nil {
		return 0, err
	}
	for _, n := range sizes {
		if n < 2 {
			return 0, nil
		}
	}
	dfNum := float64(s.Groups - 1)
	dfDen := float64(total - s.Groups)
	if dfDen <= 0 {
		return 0, nil
	}
	nHarmonic, err := alloc.HarmonicMean(sizes)
	if err != nil {
		return 0, err
	}
	lambda := float64(s.Groups) * nHarmonic * s.EffectF * s.EffectF
	return b.PowerNoncentralF(lambda, dfNum, dfDen, s.Alpha), nil
}

// PowerAt returns the achieved power at a total sample size. Requires the
// exact backend.
func (s ANOVASpec) PowerAt(total int) (float64, error) {
	if err := s.normalize(); err != nil {
		return 0, err
	}
	if err := s.validate(); err != nil {
		return 0, err
	}
	b := dist.OrDefault(s.Backend)
	if !b.Exact() {
		return 0, core.NewBackendUnavailable("anova power")
	}
	if total < 2*s.Groups {
		return 0, core.NewInvalidParameter("total", "at least two per group")
	}
	return s.powerAt(b, total)
}

// NANOVA returns the total sample size detecting Cohen's f across k groups
// via noncentral-F inversion. No conservative closed form exists for the
// noncentral F, so an approximate backend is refused outright.
func NANOVA(spec ANOVASpec) (int, error) {
	if err := spec.normalize(); err != nil {
		return 0, err
	}
	if err := spec.validate(); err != nil {
		return 0, err
	}
	b := dist.OrDefault(spec.Backend)
	if !b.Exact() {
		return 0, core.NewBackendUnavailable("n_anova")
	}

	dfNum := float64(spec.Groups - 1)
	// Seed the bracket from the asymptotic noncentrality: invert lambda at
	// effectively infinite denominator df, then convert via lambda = N f^2.
	lambdaReq, err := dist.SolveNoncentrality(func(l float64) float64 {
		return b.PowerNoncentralF(l, dfNum, 1e6, spec.Alpha)
	}, spec.Power)
	if err != nil {
		return 0, err
	}
	hint := int(math.Ceil(lambdaReq / (spec.EffectF * spec.EffectF)))

	lower := 2 * spec.Groups
	eval := func(total int) float64 {
		p, evalErr := spec.powerAt(b, max(total, lower))
		if evalErr != nil {
			return 0
		}
		return p
	}
	total, err := solve.MonotoneInt(eval, spec.Power, lower, hint, config.Load().MaxSampleSize)
	if err != nil {
		return 0, err
	}
	return total, nil
}
