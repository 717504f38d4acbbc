package health

import (
	"context"
	"fmt"
	"time"
)

// DefaultTimeout bounds a single health check.
const DefaultTimeout = 5 * time.Second

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Result is the outcome of one check; Message explains a down result.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

func Up() Result {
	return Result{Status: StatusUp}
}

func Down(format string, args ...any) Result {
	return Result{Status: StatusDown, Message: fmt.Sprintf(format, args...)}
}

// Checker reports on one dependency of the dispute client.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}
