package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorConstructorsWrapSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains string
	}{
		{"invalid parameter", NewInvalidParameter("alpha", "in (0, 1)"), ErrInvalidParameter, "alpha must be in (0, 1)"},
		{"invalid parameter value", NewInvalidParameterValue("power", 1.5, "in (0, 1)"), ErrInvalidParameter, "got 1.5"},
		{"zero effect", NewZeroEffect("p1 and p2 are equal"), ErrZeroEffect, "p1 and p2 are equal"},
		{"backend unavailable", NewBackendUnavailable("n_anova"), ErrBackendUnavailable, "n_anova"},
		{"convergence", NewConvergence("bisection", 200), ErrConvergence, "after 200 iterations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("Expected %v to wrap %v", tt.err, tt.sentinel)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("Expected message to contain %q, got %q", tt.contains, tt.err.Error())
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsInvalidParameter(NewInvalidParameter("n", "positive")) {
		t.Error("IsInvalidParameter failed on constructed error")
	}
	if !IsZeroEffect(NewZeroEffect("flat")) {
		t.Error("IsZeroEffect failed on constructed error")
	}
	if !IsBackendUnavailable(NewBackendUnavailable("op")) {
		t.Error("IsBackendUnavailable failed on constructed error")
	}
	if !IsConvergence(NewConvergence("op", 1)) {
		t.Error("IsConvergence failed on constructed error")
	}
	if IsZeroEffect(NewInvalidParameter("n", "positive")) {
		t.Error("IsZeroEffect matched an unrelated error")
	}
}

func TestHelpersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("solving n_two_prop: %w", NewConvergence("bracket expansion", 40))
	if !IsConvergence(wrapped) {
		t.Errorf("Expected wrapped error to report convergence: %v", wrapped)
	}
	if IsInvalidParameter(wrapped) {
		t.Error("Wrapped convergence error misreported as invalid parameter")
	}
}
