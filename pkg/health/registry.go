package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Registry holds multiple health checkers.
type Registry struct {
	checkers []Checker
	timeout  time.Duration
}

func NewRegistry(timeout time.Duration, checkers ...Checker) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Registry{checkers: checkers, timeout: timeout}
}

// CheckResult is the result of a single named check.
type CheckResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Report is the aggregated result; it is down when any check is down.
type Report struct {
	Status Status        `json:"status"`
	Checks []CheckResult `json:"checks,omitempty"`
}

// CheckAll runs all registered checkers in parallel, each bounded by the
// registry timeout.
func (r *Registry) CheckAll(ctx context.Context) Report {
	if len(r.checkers) == 0 {
		return Report{Status: StatusUp}
	}

	results := make([]CheckResult, len(r.checkers))
	var g errgroup.Group
	for i, checker := range r.checkers {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			res := checker.Check(checkCtx)
			results[i] = CheckResult{Name: checker.Name(), Status: res.Status, Message: res.Message}
			return nil
		})
	}
	_ = g.Wait()

	overall := StatusUp
	for _, res := range results {
		if res.Status == StatusDown {
			overall = StatusDown
			break
		}
	}
	return Report{Status: overall, Checks: results}
}
