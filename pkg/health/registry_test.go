package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	name   string
	result Result
	delay  time.Duration
}

func (s stubChecker) Name() string { return s.name }

func (s stubChecker) Check(ctx context.Context) Result {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return Down("%v", ctx.Err())
		case <-time.After(s.delay):
		}
	}
	return s.result
}

func TestRegistry_CheckAll(t *testing.T) {
	t.Run("empty registry is up", func(t *testing.T) {
		assert.Equal(t, StatusUp, NewRegistry(0).CheckAll(context.Background()).Status)
	})

	t.Run("any down check makes the report down", func(t *testing.T) {
		r := NewRegistry(time.Second,
			stubChecker{name: "a", result: Up()},
			stubChecker{name: "b", result: Down("boom")},
		)

		report := r.CheckAll(context.Background())

		assert.Equal(t, StatusDown, report.Status)
		assert.Equal(t, []CheckResult{
			{Name: "a", Status: StatusUp},
			{Name: "b", Status: StatusDown, Message: "boom"},
		}, report.Checks)
	})

	t.Run("slow checks are cut off by the timeout", func(t *testing.T) {
		r := NewRegistry(20*time.Millisecond, stubChecker{name: "slow", result: Up(), delay: time.Second})

		report := r.CheckAll(context.Background())

		assert.Equal(t, StatusDown, report.Status)
	})
}
