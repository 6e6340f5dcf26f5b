package power

import (
	"math"

	"github.com/altalanta/statdesign/domain/core"
	"github.com/altalanta/statdesign/domain/design"
	"github.com/altalanta/statdesign/internal/accrual"
	"github.com/altalanta/statdesign/internal/dist"
)

// LogrankSpec describes an event-driven comparison of two survival curves
// under proportional hazards. Allocation is the experimental-arm fraction.
type LogrankSpec struct {
	HR         float64
	Alpha      float64
	Power      float64
	Allocation float64
	Tail       design.Tail
	Backend    dist.Backend
}

func (s *LogrankSpec) normalize() {
	s.Alpha = orDefault(s.Alpha, DefaultAlpha)
	s.Power = orDefault(s.Power, DefaultPower)
	s.Allocation = orDefault(s.Allocation, 0.5)
	s.Tail = orDefaultTail(s.Tail)
}

func (s LogrankSpec) validate() error {
	if err := design.CheckCommon(s.Alpha, s.Power, s.Tail); err != nil {
		return err
	}
	if math.IsNaN(s.HR) || s.HR <= 0 {
		return core.NewInvalidParameterValue("hr", s.HR, "positive")
	}
	if math.Abs(math.Log(s.HR)) < zeroEffectTol {
		return core.NewZeroEffect("hazard ratio is 1")
	}
	if s.Allocation <= 0 || s.Allocation >= 1 {
		return core.NewInvalidParameterValue("allocation", s.Allocation, "in (0, 1)")
	}
	if s.Tail == design.TailGreater && s.HR >= 1 {
		return core.NewInvalidParameter("hr", `below 1 for tail "greater"`)
	}
	if s.Tail == design.TailLess && s.HR <= 1 {
		return core.NewInvalidParameter("hr", `above 1 for tail "less"`)
	}
	return nil
}

func zAlpha(b dist.Backend, alpha float64, tail design.Tail) float64 {
	if tail == design.TailTwoSided {
		return b.NormalQuantile(1 - alpha/2)
	}
	return b.NormalQuantile(1 - alpha)
}

// RequiredEventsLogrank returns the total event count from Schoenfeld's
// formula: (z_alpha + z_beta)^2 / (a(1-a) log(hr)^2). Continuous; callers
// converting to sample sizes round up through EventsToNExponential.
func RequiredEventsLogrank(spec LogrankSpec) (float64, error) {
	spec.normalize()
	if err := spec.validate(); err != nil {
		return 0, err
	}
	b := dist.OrDefault(spec.Backend)
	zSum := zAlpha(b, spec.Alpha, spec.Tail) + b.NormalQuantile(spec.Power)
	logHR := math.Log(spec.HR)
	return zSum * zSum / (logHR * logHR * spec.Allocation * (1 - spec.Allocation)), nil
}

// CoxSpec describes the event requirement for a single Cox regression
// coefficient with covariate variance VarX.
type CoxSpec struct {
	LogHR   float64
	VarX    float64
	Alpha   float64
	Power   float64
	Tail    design.Tail
	Backend dist.Backend
}

// RequiredEventsCox returns the Schoenfeld-type event count for a Cox
// model: (z_alpha + z_beta)^2 * var_x / log(hr)^2.
func RequiredEventsCox(spec CoxSpec) (float64, error) {
	spec.Alpha = orDefault(spec.Alpha, DefaultAlpha)
	spec.Power = orDefault(spec.Power, DefaultPower)
	spec.Tail = orDefaultTail(spec.Tail)
	if err := design.CheckCommon(spec.Alpha, spec.Power, spec.Tail); err != nil {
		return 0, err
	}
	if math.IsNaN(spec.LogHR) || math.Abs(spec.LogHR) < zeroEffectTol {
		return 0, core.NewZeroEffect("log hazard ratio is zero")
	}
	if spec.Tail == design.TailGreater && spec.LogHR >= 0 {
		return 0, core.NewInvalidParameter("log_hr", `negative for tail "greater"`)
	}
	if spec.Tail == design.TailLess && spec.LogHR <= 0 {
		return 0, core.NewInvalidParameter("log_hr", `positive for tail "less"`)
	}
	if err := design.CheckPositive(spec.VarX, "var_x"); err != nil {
		return 0, err
	}
	b := dist.OrDefault(spec.Backend)
	zSum := zAlpha(b, spec.Alpha, spec.Tail) + b.NormalQuantile(spec.Power)
	return zSum * zSum * spec.VarX / (spec.LogHR * spec.LogHR), nil
}

// AccrualPlan converts event requirements into enrollment under
// exponential event and dropout hazards.
type AccrualPlan struct {
	AccrualYears   float64
	FollowupYears  float64
	BaseHazardCtrl float64
	HR             float64
	// Allocation is the experimental-arm fraction; zero means 0.5.
	Allocation    float64
	DropoutHazard float64
	// Entry defaults to uniform accrual over AccrualYears.
	Entry design.EntryDistribution
	// Backend pins a distribution backend; nil uses the process default.
	Backend dist.Backend
}

func (p *AccrualPlan) normalize() {
	p.Allocation = orDefault(p.Allocation, 0.5)
	if p.Entry == "" {
		p.Entry = design.EntryUniform
	}
}

func (p AccrualPlan) validate() error {
	if err := design.CheckPositive(p.BaseHazardCtrl, "base_hazard_ctrl"); err != nil {
		return err
	}
	if math.IsNaN(p.HR) || p.HR <= 0 {
		return core.NewInvalidParameterValue("hr", p.HR, "positive")
	}
	if p.DropoutHazard < 0 || math.IsNaN(p.DropoutHazard) {
		return core.NewInvalidParameterValue("dropout_hazard", p.DropoutHazard, "non-negative")
	}
	if p.Allocation <= 0 || p.Allocation >= 1 {
		return core.NewInvalidParameterValue("allocation", p.Allocation, "in (0, 1)")
	}
	return nil
}

// eventProbabilities returns the per-arm event probabilities implied by
// the plan.
func (p AccrualPlan) eventProbabilities() (pExp, pCtrl float64, err error) {
	pExp, err = accrual.EventProbability(p.BaseHazardCtrl*p.HR, p.DropoutHazard, p.AccrualYears, p.FollowupYears, p.Entry)
	if err != nil {
		return 0, 0, err
	}
	pCtrl, err = accrual.EventProbability(p.BaseHazardCtrl, p.DropoutHazard, p.AccrualYears, p.FollowupYears, p.Entry)
	if err != nil {
		return 0, 0, err
	}
	return pExp, pCtrl, nil
}

// EventsToNExponential converts a required event count into total,
// experimental, and control enrollment, rounding up so the expected event
// yield is never below the requirement.
func EventsToNExponential(eventsRequired float64, plan AccrualPlan) (total, nExp, nCtrl int, err error) {
	plan.normalize()
	if math.IsNaN(eventsRequired) || eventsRequired < 0 {
		return 0, 0, 0, core.NewInvalidParameterValue("events_required", eventsRequired, "non-negative")
	}
	if eventsRequired == 0 {
		return 0, 0, 0, nil
	}
	if err := plan.validate(); err != nil {
		return 0, 0, 0, err
	}
	pExp, pCtrl, err := plan.eventProbabilities()
	if err != nil {
		return 0, 0, 0, err
	}
	eventProb := plan.Allocation*pExp + (1-plan.Allocation)*pCtrl
	if eventProb <= 0 {
		return 0, 0, 0, core.NewInvalidParameter("event probability", "positive; no events expected under this plan")
	}
	total = int(math.Ceil(eventsRequired / eventProb))
	nExp = int(math.Ceil(plan.Allocation * float64(total)))
	nCtrl = total - nExp
	if nCtrl < 0 {
		nCtrl = 0
	}
	return total, nExp, nCtrl, nil
}

// PowerLogrankFromN returns the log-rank power implied by fixed arm sizes
// under the plan's hazards and follow-up.
func PowerLogrankFromN(nExp, nCtrl int, plan AccrualPlan, alpha float64, tail design.Tail) (float64, error) {
	plan.normalize()
	alpha = orDefault(alpha, DefaultAlpha)
	tail = orDefaultTail(tail)
	if nExp < 0 || nCtrl < 0 {
		return 0, core.NewInvalidParameter("n_exp/n_ctrl", "non-negative")
	}
	if nExp+nCtrl == 0 {
		return 0, nil
	}
	if err := plan.validate(); err != nil {
		return 0, err
	}
	if math.Abs(math.Log(plan.HR)) < zeroEffectTol {
		return 0, core.NewZeroEffect("hazard ratio is 1")
	}
	if !design.ValidTail(tail) {
		return 0, core.NewInvalidParameter("tail", `one of "two-sided", "greater", "less"`)
	}
	pExp, pCtrl, err := plan.eventProbabilities()
	if err != nil {
		return 0, err
	}
	events := float64(nExp)*pExp + float64(nCtrl)*pCtrl
	allocation := float64(nExp) / float64(nExp+nCtrl)
	if allocation <= 0 || allocation >= 1 {
		return 0, core.NewInvalidParameter("allocation", "strictly between 0 and 1; both arms need subjects")
	}
	return powerFromEvents(dist.OrDefault(plan.Backend), plan.HR, events, allocation, alpha, tail), nil
}

// powerFromEvents evaluates Schoenfeld information at a fixed event count.
func powerFromEvents(b dist.Backend, hr, events, allocation, alpha float64, tail design.Tail) float64 {
	if events <= 0 {
		return 0
	}
	absLog := math.Abs(math.Log(hr))
	info := events * allocation * (1 - allocation) * absLog * absLog
	if info == 0 {
		return 0
	}
	sqrtInfo := math.Sqrt(info)
	crit := zAlpha(b, alpha, tail)
	if tail == design.TailTwoSided {
		return (1 - b.NormalCDF(crit-sqrtInfo)) + b.NormalCDF(-crit-sqrtInfo)
	}
	return b.NormalCDF(sqrtInfo - crit)
}
