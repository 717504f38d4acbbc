package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"SettleKaro/internal/domain/dispute"
	"SettleKaro/internal/store"
	"SettleKaro/pkg/logger"
	"SettleKaro/pkg/metrics"
)

type StatusController struct {
	backend  Backend
	store    *store.Store
	log      *slog.Logger
	inFlight *inFlight
}

func NewStatusController(b Backend, s *store.Store, log *slog.Logger) *StatusController {
	return &StatusController{backend: b, store: s, log: log, inFlight: newInFlight()}
}

// SetStatus moves one dispute to status, remotely first and then locally.
// Repeating the current status is a no-op. A second call for the same id
// while one is in flight fails with ErrTransitionInFlight.
func (c *StatusController) SetStatus(ctx context.Context, id string, status dispute.Status) error {
	ctx = logger.WithDisputeID(ctx, id)

	if !c.inFlight.acquire(id) {
		metrics.ObserveWorkflow("set_status", ErrTransitionInFlight)
		return fmt.Errorf("set status of %s: %w", id, ErrTransitionInFlight)
	}
	defer c.inFlight.release(id)

	current, ok := c.store.Find(id)
	if !ok {
		metrics.ObserveWorkflow("set_status", store.ErrUnknownDispute)
		return fmt.Errorf("set status of %s: %w", id, store.ErrUnknownDispute)
	}
	if err := current.Status.CheckTransition(status); err != nil {
		metrics.ObserveWorkflow("set_status", err)
		return fmt.Errorf("set status %s -> %s: %w", current.Status, status, err)
	}
	if current.Status == status {
		metrics.WorkflowOperationsTotal.WithLabelValues("set_status", metrics.OutcomeSkipped).Inc()
		return nil
	}

	if err := c.backend.UpdateStatus(ctx, id, status); err != nil {
		metrics.ObserveWorkflow("set_status", err)
		c.log.ErrorContext(ctx, "update status failed", slog.String("status", string(status)), slog.Any("error", err))
		return fmt.Errorf("update status: %w", err)
	}

	err := c.store.ApplyPatch(id, dispute.StatusPatch(status))
	metrics.ObserveWorkflow("set_status", err)
	if err != nil {
		return err
	}
	c.log.InfoContext(ctx, "status updated", slog.String("from", string(current.Status)), slog.String("to", string(status)))
	return nil
}
