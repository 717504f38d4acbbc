package workflow

import (
	"context"
	"testing"

	"SettleKaro/internal/domain/dispute"
	"SettleKaro/internal/store"
	"SettleKaro/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func disputeWith(id string, status dispute.Status) dispute.Dispute {
	return dispute.Dispute{
		ID:     id,
		Status: status,
		DisputeInfo: dispute.DisputeInfo{
			Title:    "Dispute " + id,
			Category: dispute.CategoryContract,
			Parties:  dispute.Parties{Plaintiff: "A", Defendant: "B"},
		},
	}
}

// seededStore returns a store loaded with list through the mock backend.
func seededStore(t *testing.T, b *MockBackend, list ...dispute.Dispute) *store.Store {
	t.Helper()
	s := store.New(b, logger.Discard())
	b.EXPECT().ListDisputes(gomock.Any()).Return(list, nil)
	_, err := s.ListAll(context.Background())
	require.NoError(t, err)
	return s
}
