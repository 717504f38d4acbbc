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

type Mediator struct {
	backend  Backend
	store    *store.Store
	log      *slog.Logger
	inFlight *inFlight
}

func NewMediator(b Backend, s *store.Store, log *slog.Logger) *Mediator {
	return &Mediator{backend: b, store: s, log: log, inFlight: newInFlight()}
}

// RequestMediation asks the backend to mediate dispute id and merges the
// analysis, the suggestions and the mediated status in one patch, followed by
// a refresh. Disputes that already carry an analysis are left alone, and
// resolved disputes are not mediated.
func (m *Mediator) RequestMediation(ctx context.Context, id string) error {
	ctx = logger.WithDisputeID(ctx, id)

	if !m.inFlight.acquire(id) {
		metrics.ObserveWorkflow("mediate", ErrMediationInFlight)
		return fmt.Errorf("mediate %s: %w", id, ErrMediationInFlight)
	}
	defer m.inFlight.release(id)

	d, ok := m.store.Find(id)
	if !ok {
		metrics.ObserveWorkflow("mediate", store.ErrUnknownDispute)
		return fmt.Errorf("mediate %s: %w", id, store.ErrUnknownDispute)
	}
	if d.Mediated() {
		metrics.WorkflowOperationsTotal.WithLabelValues("mediate", metrics.OutcomeSkipped).Inc()
		m.log.DebugContext(ctx, "dispute already mediated")
		return nil
	}
	if d.Status == dispute.StatusResolved {
		metrics.ObserveWorkflow("mediate", dispute.ErrTerminalStatus)
		return fmt.Errorf("mediate %s: %w", id, dispute.ErrTerminalStatus)
	}

	res, err := m.backend.Mediate(ctx, id)
	if err != nil {
		metrics.ObserveWorkflow("mediate", err)
		m.log.ErrorContext(ctx, "mediation failed", slog.Any("error", err))
		return fmt.Errorf("request mediation: %w", err)
	}

	if err := m.store.ApplyPatch(id, dispute.MediationPatch(res.Analysis, res.Suggestions)); err != nil {
		metrics.ObserveWorkflow("mediate", err)
		return err
	}
	metrics.ObserveWorkflow("mediate", nil)
	m.log.InfoContext(ctx, "mediation merged", slog.Int("suggestions", len(res.Suggestions)))

	_, _ = m.store.ListAll(ctx)
	return nil
}

// RequestMediationForSelection mediates the currently selected dispute.
func (m *Mediator) RequestMediationForSelection(ctx context.Context) error {
	sel, ok := m.store.Selected()
	if !ok {
		return ErrNoSelection
	}
	return m.RequestMediation(ctx, sel.ID)
}
