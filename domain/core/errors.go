package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidParameter covers out-of-range, non-finite, or non-positive
	// inputs. Always surfaced to the caller; never retried internally.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrZeroEffect marks degenerate designs whose specified effect is
	// indistinguishable from zero. Surfaced instead of producing infinite n.
	ErrZeroEffect = errors.New("effect size must be non-zero")

	// ErrBackendUnavailable means an exact computation was requested or
	// required but the exact distribution backend is not active. Distinct
	// from ErrInvalidParameter so callers can enable the backend or accept
	// an approximation.
	ErrBackendUnavailable = errors.New("exact distribution backend unavailable")

	// ErrConvergence marks a numeric inversion or bracketing search that
	// exhausted its iteration budget. No partial value is ever returned.
	ErrConvergence = errors.New("failed to converge")
)

// Error constructors with context

func NewInvalidParameter(name, constraint string) error {
	return fmt.Errorf("%w: %s must be %s", ErrInvalidParameter, name, constraint)
}

func NewInvalidParameterValue(name string, value float64, constraint string) error {
	return fmt.Errorf("%w: %s must be %s, got %g", ErrInvalidParameter, name, constraint, value)
}

func NewZeroEffect(detail string) error {
	return fmt.Errorf("%w: %s", ErrZeroEffect, detail)
}

func NewBackendUnavailable(operation string) error {
	return fmt.Errorf("%w: %s requires the exact backend (set STATDESIGN_EXACT=1 or call dist.EnableExact)", ErrBackendUnavailable, operation)
}

func NewConvergence(operation string, iterations int) error {
	return fmt.Errorf("%w: %s after %d iterations", ErrConvergence, operation, iterations)
}

// Error checking helpers

func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

func IsZeroEffect(err error) bool {
	return errors.Is(err, ErrZeroEffect)
}

func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

func IsConvergence(err error) bool {
	return errors.Is(err, ErrConvergence)
}
