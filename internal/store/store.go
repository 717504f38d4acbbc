// Package store holds the known disputes and the current selection. It is the
// single source of truth for the workflows and the UI: consumers read
// immutable snapshots and are notified after every change.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"SettleKaro/internal/domain/dispute"
	"SettleKaro/pkg/metrics"
)

// ErrUnknownDispute is returned when an id is not in the current list.
var ErrUnknownDispute = errors.New("dispute not in store")

type Lister interface {
	ListDisputes(ctx context.Context) ([]dispute.Dispute, error)
}

// Snapshot is an immutable view of the store.
type Snapshot struct {
	Disputes []dispute.Dispute
	Selected *dispute.Dispute
	// Epoch changes whenever the selection changes.
	Epoch   uint64
	Version uint64
}

type Stats struct {
	Total          int
	Resolved       int
	ResolutionRate int // percent, rounded
}

type pendingPatch struct {
	seq   uint64
	id    string
	patch dispute.Patch
}

type Store struct {
	lister Lister
	log    *slog.Logger

	mu         sync.Mutex
	disputes   []dispute.Dispute
	selectedID string
	epoch      uint64
	version    uint64

	// seq orders refresh tickets and local patches on one counter.
	seq            uint64
	appliedRefresh uint64
	inFlight       int
	pending        []pendingPatch

	listeners    map[int]func(Snapshot)
	nextListener int
}

func New(lister Lister, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		lister:    lister,
		log:       log,
		listeners: map[int]func(Snapshot){},
	}
}

// ListAll fetches the full collection and replaces the in-memory list.
// On failure the previous list stays in place and the error is returned.
// A fetch that completes after a newer one has been applied is discarded, and
// patches applied while the fetch was in flight are merged over its result.
func (s *Store) ListAll(ctx context.Context) ([]dispute.Dispute, error) {
	ticket := s.beginRefresh()

	list, err := s.lister.ListDisputes(ctx)
	metrics.ObserveWorkflow("list_disputes", err)
	if err != nil {
		s.abortRefresh()
		s.log.ErrorContext(ctx, "list disputes failed, keeping previous list", slog.Any("error", err))
		return nil, fmt.Errorf("list disputes: %w", err)
	}

	snap, changed := s.completeRefresh(ticket, list)
	if changed {
		s.notify(snap)
	}
	return snap.Disputes, nil
}

func (s *Store) beginRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.inFlight++
	return s.seq
}

func (s *Store) abortRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishRefreshLocked()
}

func (s *Store) finishRefreshLocked() {
	s.inFlight--
	if s.inFlight == 0 {
		s.pending = nil
	}
}

func (s *Store) completeRefresh(ticket uint64, list []dispute.Dispute) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.finishRefreshLocked()

	if ticket < s.appliedRefresh {
		s.log.Debug("discarding stale dispute list", slog.Uint64("ticket", ticket), slog.Uint64("applied", s.appliedRefresh))
		return s.snapshotLocked(), false
	}

	next := make([]dispute.Dispute, len(list))
	for i, d := range list {
		next[i] = d.Clone()
	}
	kept := s.pending[:0]
	for _, p := range s.pending {
		if p.seq <= ticket {
			continue
		}
		for i := range next {
			if next[i].ID == p.id {
				next[i] = p.patch.Apply(next[i])
			}
		}
		kept = append(kept, p)
	}
	s.pending = kept
	s.disputes = next
	s.appliedRefresh = ticket

	if s.selectedID != "" && s.indexLocked(s.selectedID) < 0 {
		s.log.Info("selected dispute no longer listed, clearing selection", slog.String("dispute_id", s.selectedID))
		s.selectedID = ""
		s.epoch++
	}
	s.version++
	return s.snapshotLocked(), true
}

// Select marks one listed dispute as active. Selecting a different dispute
// starts a new selection epoch.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("select %s: %w", id, ErrUnknownDispute)
	}
	if id != s.selectedID {
		s.selectedID = id
		s.epoch++
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// ApplyPatch merges a partial update into the dispute with id. The selection
// is resolved from the list, so it sees the same merge.
func (s *Store) ApplyPatch(id string, p dispute.Patch) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("patch %s: %w", id, ErrUnknownDispute)
	}
	s.disputes[idx] = p.Apply(s.disputes[idx])
	s.seq++
	if s.inFlight > 0 {
		s.pending = append(s.pending, pendingPatch{seq: s.seq, id: id, patch: p})
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Selected returns a copy of the active dispute.
func (s *Store) Selected() (dispute.Dispute, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(s.selectedID)
	if s.selectedID == "" || idx < 0 {
		return dispute.Dispute{}, false
	}
	return s.disputes[idx].Clone(), true
}

// Epoch is the current selection epoch.
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *Store) Find(id string) (dispute.Dispute, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return dispute.Dispute{}, false
	}
	return s.disputes[idx].Clone(), true
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{Total: len(s.disputes)}
	for _, d := range s.disputes {
		if d.Status == dispute.StatusResolved {
			st.Resolved++
		}
	}
	if st.Total > 0 {
		st.ResolutionRate = (st.Resolved*200 + st.Total) / (st.Total * 2)
	}
	return st
}

// Subscribe registers fn to receive a snapshot after every change. Listeners
// run on the goroutine that made the change, after the store lock is released.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(snap Snapshot) {
	s.mu.Lock()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for i := 0; i < s.nextListener; i++ {
		if fn, ok := s.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.disputes {
		if s.disputes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Disputes: make([]dispute.Dispute, len(s.disputes)),
		Epoch:    s.epoch,
		Version:  s.version,
	}
	for i, d := range s.disputes {
		snap.Disputes[i] = d.Clone()
		if d.ID == s.selectedID {
			snap.Selected = &snap.Disputes[i]
		}
	}
	return snap
}
