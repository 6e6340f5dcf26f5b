// Package accrual computes event probabilities under exponential event and
// dropout hazards for survival designs.
package accrual

import (
	"math"

	"github.com/altalanta/statdesign/domain/core"
	"github.com/altalanta/statdesign/domain/design"
)

func checkInputs(lambdaEvent, lambdaDropout, accrualYears, followupYears float64, entry design.EntryDistribution) error {
	if lambdaEvent < 0 || math.IsNaN(lambdaEvent) {
		return core.NewInvalidParameterValue("event hazard", lambdaEvent, "non-negative")
	}
	if lambdaDropout < 0 || math.IsNaN(lambdaDropout) {
		return core.NewInvalidParameterValue("dropout hazard", lambdaDropout, "non-negative")
	}
	if accrualYears < 0 || math.IsNaN(accrualYears) {
		return core.NewInvalidParameterValue("accrual_years", accrualYears, "non-negative")
	}
	if followupYears < 0 || math.IsNaN(followupYears) {
		return core.NewInvalidParameterValue("followup_years", followupYears, "non-negative")
	}
	switch entry {
	case design.EntryUniform:
		if accrualYears <= 0 {
			return core.NewInvalidParameter("accrual_years", "positive under uniform entry")
		}
	case design.EntryInstant:
	default:
		return core.NewInvalidParameter("entry_distribution", `"uniform" or "instant"`)
	}
	return nil
}

// eventProbabilityUniform integrates the event probability over a uniform
// entry window of accrualYears followed by followupYears of follow-up.
func eventProbabilityUniform(lambdaEvent, lambdaDropout, accrualYears, followupYears float64) float64 {
	if lambdaEvent == 0 {
		return 0
	}
	lambdaTotal := lambdaEvent + lambdaDropout
	totalTime := accrualYears + followupYears
	expT := math.Exp(-lambdaTotal * totalTime)
	expF := math.Exp(-lambdaTotal * followupYears)
	term := accrualYears + (expT-expF)/lambdaTotal
	return (lambdaEvent / (lambdaTotal * accrualYears)) * term
}

// eventProbabilityInstant assumes all subjects enter at time zero and are
// followed for the full horizon.
func eventProbabilityInstant(lambdaEvent, lambdaDropout, totalFollowYears float64) float64 {
	if lambdaEvent == 0 {
		return 0
	}
	lambdaTotal := lambdaEvent + lambdaDropout
	return (lambdaEvent / lambdaTotal) * (1 - math.Exp(-lambdaTotal*totalFollowYears))
}

// EventProbability returns the probability a subject experiences the event
// before dropout or administrative censoring.
func EventProbability(lambdaEvent, lambdaDropout, accrualYears, followupYears float64, entry design.EntryDistribution) (float64, error) {
	if err := checkInputs(lambdaEvent, lambdaDropout, accrualYears, followupYears, entry); err != nil {
		return 0, err
	}
	if entry == design.EntryInstant {
		return eventProbabilityInstant(lambdaEvent, lambdaDropout, accrualYears+followupYears), nil
	}
	return eventProbabilityUniform(lambdaEvent, lambdaDropout, accrualYears, followupYears), nil
}
