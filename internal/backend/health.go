package backend

import (
	"context"

	"SettleKaro/pkg/health"
)

// HealthChecker asks the backend health endpoint.
type HealthChecker struct {
	client Client
}

func NewHealthChecker(client Client) *HealthChecker {
	return &HealthChecker{client: client}
}

func (h *HealthChecker) Name() string {
	return "backend"
}

func (h *HealthChecker) Check(ctx context.Context) health.Result {
	status, err := h.client.Health(ctx)
	if err != nil {
		return health.Down("%v", err)
	}
	if status.Status != "healthy" {
		return health.Down("backend reports %s", status.Status)
	}
	return health.Up()
}
