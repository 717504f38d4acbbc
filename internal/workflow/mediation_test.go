//go:build !integration

package workflow

import (
	"context"
	"sync"
	"testing"

	"SettleKaro/internal/backend"
	"SettleKaro/internal/domain/dispute"
	"SettleKaro/internal/store"
	"SettleKaro/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func mediatedCopy(d dispute.Dispute, analysis string, suggestions ...string) dispute.Dispute {
	return dispute.MediationPatch(analysis, suggestions).Apply(d)
}

func TestMediator_RequestMediation(t *testing.T) {
	t.Run("merges analysis, suggestions and status together then refreshes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b := NewMockBackend(ctrl)
		original := disputeWith("7", dispute.StatusUnderReview)
		s := seededStore(t, b, original)

		// given
		var seen []dispute.Dispute
		unsubscribe := s.Subscribe(func(snap store.Snapshot) {
			if snap.Selected == nil && len(snap.Disputes) == 1 {
				seen = append(seen, snap.Disputes[0])
			}
		})
		defer unsubscribe()

		res := backend.MediationResult{Analysis: "Both sides share fault.", Suggestions: dispute.Suggestions{"Split 50/50", "Apologise"}}
		gomock.InOrder(
			b.EXPECT().Mediate(gomock.Any(), "7").Return(res, nil),
			b.EXPECT().ListDisputes(gomock.Any()).Return([]dispute.Dispute{mediatedCopy(original, res.Analysis, res.Suggestions...)}, nil),
		)

		// when
		err := NewMediator(b, s, logger.Discard()).RequestMediation(context.Background(), "7")

		// then
		require.NoError(t, err)
		require.NotEmpty(t, seen)
		for _, d := range seen {
			// never a half merged dispute
			require.NotNil(t, d.AIAnalysis)
			assert.Equal(t, dispute.StatusMediated, d.Status)
			assert.Equal(t, res.Suggestions, d.SettlementSuggestions)
		}
		d, _ := s.Find("7")
		assert.Equal(t, "Both sides share fault.", *d.AIAnalysis)
	})

	t.Run("already mediated is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b := NewMockBackend(ctrl)
		s := seededStore(t, b, mediatedCopy(disputeWith("7", dispute.StatusSubmitted), "done", "Pay"))

		err := NewMediator(b, s, logger.Discard()).RequestMediation(context.Background(), "7")

		require.NoError(t, err)
	})

	t.Run("resolved dispute is not reopened", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b := NewMockBackend(ctrl)
		s := seededStore(t, b, disputeWith("7", dispute.StatusResolved))

		// when
		err := NewMediator(b, s, logger.Discard()).RequestMediation(context.Background(), "7")

		// then
		assert.ErrorIs(t, err, dispute.ErrTerminalStatus)
		d, _ := s.Find("7")
		assert.Equal(t, dispute.StatusResolved, d.Status)
		assert.Nil(t, d.AIAnalysis)
	})

	t.Run("failure leaves dispute untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b := NewMockBackend(ctrl)
		s := seededStore(t, b, disputeWith("7", dispute.StatusSubmitted))

		// given
		b.EXPECT().Mediate(gomock.Any(), "7").Return(backend.MediationResult{}, &backend.ServerError{StatusCode: 502, Message: "model offline"})

		// when
		err := NewMediator(b, s, logger.Discard()).RequestMediation(context.Background(), "7")

		// then
		assert.ErrorIs(t, err, backend.ErrServer)
		d, _ := s.Find("7")
		assert.Nil(t, d.AIAnalysis)
		assert.Nil(t, d.SettlementSuggestions)
		assert.Equal(t, dispute.StatusSubmitted, d.Status)
	})

	t.Run("missing suggestions become empty list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b := NewMockBackend(ctrl)
		s := seededStore(t, b, disputeWith("7", dispute.StatusSubmitted))

		// given
		b.EXPECT().Mediate(gomock.Any(), "7").Return(backend.MediationResult{Analysis: "ok"}, nil)
		b.EXPECT().ListDisputes(gomock.Any()).Return(nil, backend.ErrTransport)

		// when
		err := NewMediator(b, s, logger.Discard()).RequestMediation(context.Background(), "7")

		// then
		require.NoError(t, err)
		d, _ := s.Find("7")
		assert.NotNil(t, d.SettlementSuggestions)
		assert.Empty(t, d.SettlementSuggestions)
	})

	t.Run("overlapping call for same id is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b := NewMockBackend(ctrl)
		original := disputeWith("7", dispute.StatusSubmitted)
		s := seededStore(t, b, original)
		m := NewMediator(b, s, logger.Discard())

		// given
		entered := make(chan struct{})
		release := make(chan struct{})
		b.EXPECT().Mediate(gomock.Any(), "7").DoAndReturn(func(context.Context, string) (backend.MediationResult, error) {
			close(entered)
			<-release
			return backend.MediationResult{Analysis: "a", Suggestions: dispute.Suggestions{"s"}}, nil
		})
		b.EXPECT().ListDisputes(gomock.Any()).Return([]dispute.Dispute{mediatedCopy(original, "a", "s")}, nil)

		var wg sync.WaitGroup
		var firstErr error
		wg.Add(1)
		go func() {
			defer wg.Done()
			firstErr = m.RequestMediation(context.Background(), "7")
		}()
		<-entered

		// when
		err := m.RequestMediation(context.Background(), "7")
		close(release)
		wg.Wait()

		// then
		assert.ErrorIs(t, err, ErrMediationInFlight)
		require.NoError(t, firstErr)
	})
}

func TestMediator_RequestMediationForSelection(t *testing.T) {
	t.Run("nothing selected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b := NewMockBackend(ctrl)
		s := seededStore(t, b, disputeWith("7", dispute.StatusSubmitted))

		err := NewMediator(b, s, logger.Discard()).RequestMediationForSelection(context.Background())

		assert.ErrorIs(t, err, ErrNoSelection)
	})

	t.Run("mediates the selected dispute", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		b := NewMockBackend(ctrl)
		original := disputeWith("7", dispute.StatusSubmitted)
		s := seededStore(t, b, original, disputeWith("8", dispute.StatusSubmitted))
		require.NoError(t, s.Select("8"))

		// given
		b.EXPECT().Mediate(gomock.Any(), "8").Return(backend.MediationResult{Analysis: "x", Suggestions: dispute.Suggestions{"y"}}, nil)
		b.EXPECT().ListDisputes(gomock.Any()).Return(nil, backend.ErrTransport)

		// when
		err := NewMediator(b, s, logger.Discard()).RequestMediationForSelection(context.Background())

		// then
		require.NoError(t, err)
		sel, ok := s.Selected()
		require.True(t, ok)
		assert.Equal(t, dispute.StatusMediated, sel.Status)
	})
}
