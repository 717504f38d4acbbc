package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"SettleKaro/internal/domain/dispute"
	"SettleKaro/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listResult struct {
	disputes []dispute.Dispute
	err      error
}

// scriptedLister answers each ListDisputes call with the next queued result.
// When gated, a call blocks until its gate channel is released.
type scriptedLister struct {
	mu      sync.Mutex
	results []listResult
	gates   []chan struct{}
	calls   int
}

func (l *scriptedLister) push(r listResult) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	gate := make(chan struct{})
	l.results = append(l.results, r)
	l.gates = append(l.gates, gate)
	return gate
}

func (l *scriptedLister) ListDisputes(ctx context.Context) ([]dispute.Dispute, error) {
	l.mu.Lock()
	i := l.calls
	l.calls++
	r, gate := l.results[i], l.gates[i]
	l.mu.Unlock()

	select {
	case <-gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return r.disputes, r.err
}

func released(l *scriptedLister, r listResult) {
	close(l.push(r))
}

func sample(ids ...string) []dispute.Dispute {
	out := make([]dispute.Dispute, 0, len(ids))
	for _, id := range ids {
		out = append(out, dispute.Dispute{ID: id, Status: dispute.StatusSubmitted})
	}
	return out
}

func newStore(t *testing.T) (*Store, *scriptedLister) {
	t.Helper()
	l := &scriptedLister{}
	return New(l, logger.Discard()), l
}

func TestStore_ListAll(t *testing.T) {
	t.Run("replaces the list wholesale", func(t *testing.T) {
		s, l := newStore(t)
		released(l, listResult{disputes: sample("1", "2")})
		released(l, listResult{disputes: sample("3")})

		_, err := s.ListAll(context.Background())
		require.NoError(t, err)
		got, err := s.ListAll(context.Background())
		require.NoError(t, err)

		assert.Equal(t, sample("3"), got)
		assert.Equal(t, sample("3"), s.Snapshot().Disputes)
	})

	t.Run("keeps the previous list on failure", func(t *testing.T) {
		s, l := newStore(t)
		released(l, listResult{disputes: sample("1")})
		released(l, listResult{err: errors.New("connection refused")})

		_, err := s.ListAll(context.Background())
		require.NoError(t, err)
		_, err = s.ListAll(context.Background())

		assert.Error(t, err)
		assert.Equal(t, sample("1"), s.Snapshot().Disputes)
	})

	t.Run("discards a fetch that completes after a newer one", func(t *testing.T) {
		s, l := newStore(t)
		slow := l.push(listResult{disputes: sample("old")})
		released(l, listResult{disputes: sample("new")})

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = s.ListAll(context.Background())
		}()
		waitCalls(t, l, 1)
		_, err := s.ListAll(context.Background())
		require.NoError(t, err)

		close(slow)
		<-done

		assert.Equal(t, sample("new"), s.Snapshot().Disputes)
	})

	t.Run("a refresh issued before a patch does not clobber it", func(t *testing.T) {
		s, l := newStore(t)
		released(l, listResult{disputes: sample("1", "2")})
		_, err := s.ListAll(context.Background())
		require.NoError(t, err)

		gate := l.push(listResult{disputes: sample("1", "2")})
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = s.ListAll(context.Background())
		}()
		waitCalls(t, l, 2)

		require.NoError(t, s.ApplyPatch("2", dispute.StatusPatch(dispute.StatusResolved)))
		close(gate)
		<-done

		d, ok := s.Find("2")
		require.True(t, ok)
		assert.Equal(t, dispute.StatusResolved, d.Status)
	})

	t.Run("a refresh issued after a patch wins", func(t *testing.T) {
		s, l := newStore(t)
		released(l, listResult{disputes: sample("1")})
		_, err := s.ListAll(context.Background())
		require.NoError(t, err)

		require.NoError(t, s.ApplyPatch("1", dispute.StatusPatch(dispute.StatusResolved)))
		released(l, listResult{disputes: sample("1")})
		_, err = s.ListAll(context.Background())
		require.NoError(t, err)

		d, _ := s.Find("1")
		assert.Equal(t, dispute.StatusSubmitted, d.Status)
	})
}

func waitCalls(t *testing.T, l *scriptedLister, n int) {
	t.Helper()
	assert.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.calls >= n
	}, timeout, tick)
}

func TestStore_Select(t *testing.T) {
	s, l := newStore(t)
	released(l, listResult{disputes: sample("1", "2")})
	_, err := s.ListAll(context.Background())
	require.NoError(t, err)

	t.Run("unknown id is rejected", func(t *testing.T) {
		err := s.Select("nope")

		assert.ErrorIs(t, err, ErrUnknownDispute)
		_, ok := s.Selected()
		assert.False(t, ok)
	})

	t.Run("changing the selection bumps the epoch", func(t *testing.T) {
		require.NoError(t, s.Select("1"))
		first := s.Epoch()

		require.NoError(t, s.Select("1"))
		assert.Equal(t, first, s.Epoch(), "reselecting the same dispute keeps the epoch")

		require.NoError(t, s.Select("2"))
		assert.Equal(t, first+1, s.Epoch())

		sel, ok := s.Selected()
		require.True(t, ok)
		assert.Equal(t, "2", sel.ID)
	})

	t.Run("selection disappears when the dispute is no longer listed", func(t *testing.T) {
		before := s.Epoch()
		released(l, listResult{disputes: sample("1")})

		_, err := s.ListAll(context.Background())
		require.NoError(t, err)

		_, ok := s.Selected()
		assert.False(t, ok)
		assert.Equal(t, before+1, s.Epoch())
	})
}

func TestStore_ApplyPatch(t *testing.T) {
	s, l := newStore(t)
	released(l, listResult{disputes: sample("1", "2")})
	_, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Select("2"))

	t.Run("selection and list see the same merge", func(t *testing.T) {
		require.NoError(t, s.ApplyPatch("2", dispute.MediationPatch("analysis", dispute.Suggestions{"a"})))

		snap := s.Snapshot()
		require.NotNil(t, snap.Selected)
		assert.Equal(t, snap.Disputes[1], *snap.Selected)
		assert.Equal(t, dispute.StatusMediated, snap.Selected.Status)
		assert.Equal(t, dispute.Suggestions{"a"}, snap.Selected.SettlementSuggestions)
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.ErrorIs(t, s.ApplyPatch("9", dispute.StatusPatch(dispute.StatusResolved)), ErrUnknownDispute)
	})

	t.Run("snapshots are not affected by later patches", func(t *testing.T) {
		snap := s.Snapshot()

		require.NoError(t, s.ApplyPatch("1", dispute.StatusPatch(dispute.StatusResolved)))

		assert.Equal(t, dispute.StatusSubmitted, snap.Disputes[0].Status)
	})
}

func TestStore_Subscribe(t *testing.T) {
	s, l := newStore(t)
	released(l, listResult{disputes: sample("1")})

	var versions []uint64
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		versions = append(versions, snap.Version)
	})

	_, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Select("1"))
	unsubscribe()
	require.NoError(t, s.ApplyPatch("1", dispute.StatusPatch(dispute.StatusResolved)))

	assert.Equal(t, []uint64{1, 2}, versions)
}

func TestStore_Stats(t *testing.T) {
	s, l := newStore(t)
	assert.Equal(t, Stats{}, s.Stats())

	list := sample("1", "2", "3")
	list[0].Status = dispute.StatusResolved
	released(l, listResult{disputes: list})
	_, err := s.ListAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Total: 3, Resolved: 1, ResolutionRate: 33}, s.Stats())
}
