package dispute

import (
	"errors"
	"slices"
	"strings"
)

type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusMediated    Status = "mediated"
	StatusResolved    Status = "resolved"
)

// AvailableStatuses is ordered along the lifecycle.
var AvailableStatuses = []Status{StatusSubmitted, StatusUnderReview, StatusMediated, StatusResolved}

var (
	// ErrTerminalStatus is returned when a resolved dispute is asked to move again.
	ErrTerminalStatus = errors.New("dispute is resolved")

	// ErrMediationOnly is returned when a status change targets mediated directly.
	ErrMediationOnly = errors.New("mediated status is set by mediation only")

	// ErrInvalidTransition is returned for backward moves along the lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")
)

func NewStatus(raw string) (Status, error) {
	if slices.Contains(AvailableStatuses, Status(raw)) {
		return Status(raw), nil
	}
	return "", &ValidationError{Field: "status", Reason: "unknown status " + raw}
}

func (s Status) rank() int {
	return slices.Index(AvailableStatuses, s)
}

// CheckTransition validates a user initiated status change. Same-status moves
// are accepted and treated as no-ops by callers.
func (s Status) CheckTransition(to Status) error {
	if to.rank() < 0 {
		return &ValidationError{Field: "status", Reason: "unknown status " + string(to)}
	}
	switch {
	case s == to:
		return nil
	case s == StatusResolved:
		return ErrTerminalStatus
	case to == StatusMediated:
		return ErrMediationOnly
	case to.rank() < s.rank():
		return ErrInvalidTransition
	default:
		return nil
	}
}

// AllowedTransitions lists the statuses a user may move s to.
func AllowedTransitions(s Status) []Status {
	var out []Status
	for _, to := range AvailableStatuses {
		if to != s && s.CheckTransition(to) == nil {
			out = append(out, to)
		}
	}
	return out
}

// Label renders the status for listings, e.g. UNDER REVIEW.
func (s Status) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}
