package model

import (
	"fmt"
	"strings"
)

// ChangeRequest asks for one entity to move to a new status. It lives for a
// single change and is never persisted.
type ChangeRequest struct {
	ID     string `yaml:"-"`
	Href   string `yaml:"href"`
	Status string `yaml:"status"`
	Memo   string `yaml:"-"`
}

func (r *ChangeRequest) Validate() error {
	if strings.TrimSpace(r.Href) == "" {
		return fmt.Errorf("target href is required")
	}
	if strings.TrimSpace(r.Status) == "" {
		return fmt.Errorf("status value is required")
	}
	return nil
}

// ChangeState is a step of the status change protocol.
type ChangeState string

const (
	StateIdle                    ChangeState = "idle"
	StateAttemptingPrimary       ChangeState = "attempting_primary"
	StatePrimarySucceeded        ChangeState = "primary_succeeded"
	StateAttemptingFallback      ChangeState = "attempting_fallback"
	StateFallbackSucceeded       ChangeState = "fallback_succeeded"
	StateFailed                  ChangeState = "failed"
	StateConfirming              ChangeState = "confirming"
	StateConfirmed               ChangeState = "confirmed"
	StateConfirmationMismatch    ChangeState = "confirmation_mismatch"
	StateConfirmationUnavailable ChangeState = "confirmation_unavailable"
)

// ChangeResult is the outcome of a successful change. Confirmed is false
// when the read-back failed and Code is only the requested value.
type ChangeResult struct {
	Code      string        `yaml:"code"`
	Confirmed bool          `yaml:"confirmed"`
	Strategy  string        `yaml:"strategy"`
	Trace     []ChangeState `yaml:"trace,omitempty"`
}

// Final returns the last state reached.
func (r *ChangeResult) Final() ChangeState {
	if len(r.Trace) == 0 {
		return StateIdle
	}
	return r.Trace[len(r.Trace)-1]
}
