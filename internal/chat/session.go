// Package chat keeps the message log of the conversation with the AI mediator
// for the currently selected dispute.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"SettleKaro/internal/domain/dispute"
	"SettleKaro/internal/store"
	"SettleKaro/pkg/logger"
	"SettleKaro/pkg/metrics"
)

// ErrNoSelection is returned by LoadHistory when no dispute is selected.
var ErrNoSelection = errors.New("chat: no dispute selected")

type Backend interface {
	Chat(ctx context.Context, id string, message string) (string, error)
	ChatHistory(ctx context.Context, id string) ([]dispute.ChatRecord, error)
}

type Session struct {
	backend Backend
	store   *store.Store
	log     *slog.Logger
	now     func() time.Time

	// afterSnapshot runs between reading the selection and taking mu; tests use it.
	afterSnapshot func()

	mu       sync.Mutex
	epoch    uint64
	messages []dispute.ChatMessage
	draft    string
	nextID   int

	listeners    map[int]func([]dispute.ChatMessage)
	nextListener int

	unsubscribe func()
}

// NewSession binds a session to the store selection. The log and the unsent
// draft are discarded whenever the selection epoch moves.
func NewSession(b Backend, s *store.Store, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	sess := &Session{
		backend:   b,
		store:     s,
		log:       log,
		now:       time.Now,
		epoch:     s.Epoch(),
		listeners: map[int]func([]dispute.ChatMessage){},
	}
	sess.unsubscribe = s.Subscribe(func(snap store.Snapshot) {
		sess.follow(snap.Epoch)
	})
	return sess
}

// Close detaches the session from the store.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Messages returns the log in append order.
func (s *Session) Messages() []dispute.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dispute.ChatMessage(nil), s.messages...)
}

// Subscribe registers fn to receive the log after every change.
func (s *Session) Subscribe(fn func([]dispute.ChatMessage)) (unsubscribe func()) {
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

// Send appends text as a pending user message and exchanges one turn with
// the mediator. Blank text and a missing selection are ignored. A reply that
// arrives after the selection changed is dropped.
func (s *Session) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	snap := s.store.Snapshot()
	if snap.Selected == nil {
		return nil
	}
	id := snap.Selected.ID
	ctx = logger.WithDisputeID(ctx, id)
	if s.afterSnapshot != nil {
		s.afterSnapshot()
	}

	s.mu.Lock()
	s.resetIfStaleLocked(snap.Epoch)
	if s.epoch != snap.Epoch {
		// The selection moved after it was read.
		s.mu.Unlock()
		s.log.DebugContext(ctx, "dropping chat send for previous selection")
		return nil
	}
	epoch := snap.Epoch
	msgID := s.appendLocked(dispute.SenderUser, text, dispute.MessagePending)
	s.draft = ""
	s.mu.Unlock()
	s.notify()

	reply, err := s.backend.Chat(ctx, id, text)
	metrics.ObserveWorkflow("chat", err)

	current := s.store.Epoch()
	s.mu.Lock()
	s.resetIfStaleLocked(current)
	if s.epoch != epoch {
		s.mu.Unlock()
		s.log.DebugContext(ctx, "dropping chat completion for previous selection")
		if err != nil {
			return fmt.Errorf("chat: %w", err)
		}
		return nil
	}
	if err != nil {
		s.setStateLocked(msgID, dispute.MessageFailed)
		s.mu.Unlock()
		s.notify()
		s.log.ErrorContext(ctx, "chat turn failed", slog.Any("error", err))
		return fmt.Errorf("chat: %w", err)
	}
	s.setStateLocked(msgID, dispute.MessageConfirmed)
	s.appendLocked(dispute.SenderAI, reply, dispute.MessageConfirmed)
	s.mu.Unlock()
	s.notify()
	return nil
}

// LoadHistory replaces the log with the persisted turns of the selected
// dispute. Messages still pending are kept after the history.
func (s *Session) LoadHistory(ctx context.Context) error {
	snap := s.store.Snapshot()
	if snap.Selected == nil {
		return ErrNoSelection
	}
	id := snap.Selected.ID
	ctx = logger.WithDisputeID(ctx, id)

	records, err := s.backend.ChatHistory(ctx, id)
	if err != nil {
		s.log.ErrorContext(ctx, "load chat history failed", slog.Any("error", err))
		return fmt.Errorf("load chat history: %w", err)
	}

	current := s.store.Epoch()
	s.mu.Lock()
	s.resetIfStaleLocked(current)
	if s.epoch != snap.Epoch {
		s.mu.Unlock()
		return nil
	}
	pending := make([]dispute.ChatMessage, 0, len(s.messages))
	for _, m := range s.messages {
		if m.State == dispute.MessagePending {
			pending = append(pending, m)
		}
	}
	s.messages = s.messages[:0]
	for _, r := range records {
		ts := r.Timestamp.Time
		if ts.IsZero() {
			ts = s.now()
		}
		s.appendAtLocked(dispute.SenderUser, r.UserMessage, dispute.MessageConfirmed, ts)
		s.appendAtLocked(dispute.SenderAI, r.AIResponse, dispute.MessageConfirmed, ts)
	}
	s.messages = append(s.messages, pending...)
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Session) follow(epoch uint64) {
	s.mu.Lock()
	changed := s.resetIfStaleLocked(epoch)
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *Session) resetIfStaleLocked(epoch uint64) bool {
	if epoch <= s.epoch {
		return false
	}
	s.epoch = epoch
	s.messages = nil
	s.draft = ""
	return true
}

func (s *Session) appendLocked(sender dispute.Sender, content string, state dispute.MessageState) int {
	return s.appendAtLocked(sender, content, state, s.now())
}

func (s *Session) appendAtLocked(sender dispute.Sender, content string, state dispute.MessageState, ts time.Time) int {
	s.nextID++
	s.messages = append(s.messages, dispute.ChatMessage{
		ID:        s.nextID,
		Sender:    sender,
		Content:   content,
		Timestamp: ts,
		State:     state,
	})
	return s.nextID
}

func (s *Session) setStateLocked(id int, state dispute.MessageState) {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].State = state
			return
		}
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	msgs := append([]dispute.ChatMessage(nil), s.messages...)
	fns := make([]func([]dispute.ChatMessage), 0, len(s.listeners))
	for i := 0; i < s.nextListener; i++ {
		if fn, ok := s.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(msgs)
	}
}
