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

type Submitter struct {
	backend Backend
	store   *store.Store
	nav     Navigator
	log     *slog.Logger
}

func NewSubmitter(b Backend, s *store.Store, nav Navigator, log *slog.Logger) *Submitter {
	return &Submitter{backend: b, store: s, nav: nav, log: log}
}

// Submit creates a dispute from draft and returns the backend assigned id.
// On success the draft is reset, the store refreshed and the tracking view
// shown. On failure the draft is left untouched for a retry.
func (s *Submitter) Submit(ctx context.Context, draft *dispute.Draft) (string, error) {
	id, err := s.submit(ctx, draft)
	metrics.ObserveWorkflow("submit", err)
	return id, err
}

func (s *Submitter) submit(ctx context.Context, draft *dispute.Draft) (string, error) {
	if err := draft.Validate(); err != nil {
		return "", err
	}

	created, err := s.backend.CreateDispute(ctx, draft)
	if err != nil {
		s.log.ErrorContext(ctx, "submit dispute failed", slog.String("title", draft.Title), slog.Any("error", err))
		return "", fmt.Errorf("submit dispute: %w", err)
	}
	ctx = logger.WithDisputeID(ctx, created.ID)
	s.log.InfoContext(ctx, "dispute submitted", slog.Int("evidence", len(draft.Evidence)))

	draft.Reset()
	// the store logs refresh failures; the submission itself succeeded
	_, _ = s.store.ListAll(ctx)
	if s.nav != nil {
		s.nav.Show(ViewTrack)
	}
	return created.ID, nil
}
