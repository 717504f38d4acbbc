package fakebackend

import (
	"errors"
	"slices"
	"sync"
	"time"

	"SettleKaro/internal/domain/dispute"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("dispute not found")

type chatTurn struct {
	userMessage string
	aiResponse  string
	at          time.Time
}

// Memory keeps disputes and chat turns in process.
type Memory struct {
	mu       sync.RWMutex
	now      func() time.Time
	disputes map[string]dispute.Dispute
	order    []string
	chats    map[string][]chatTurn
}

func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		now:      now,
		disputes: map[string]dispute.Dispute{},
		chats:    map[string][]chatTurn{},
	}
}

// Create stores d as a new submitted dispute with a fresh id.
func (m *Memory) Create(d dispute.Dispute) dispute.Dispute {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	d.ID = uuid.NewString()
	d.Status = dispute.StatusSubmitted
	d.CreatedAt = dispute.NewTimestamp(now)
	updated := dispute.NewTimestamp(now)
	d.UpdatedAt = &updated

	m.disputes[d.ID] = d
	m.order = append(m.order, d.ID)
	return d.Clone()
}

// List returns disputes newest first.
func (m *Memory) List() []dispute.Dispute {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]dispute.Dispute, 0, len(m.order))
	for _, id := range slices.Backward(m.order) {
		out = append(out, m.disputes[id].Clone())
	}
	return out
}

func (m *Memory) Get(id string) (dispute.Dispute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.disputes[id]
	if !ok {
		return dispute.Dispute{}, ErrNotFound
	}
	return d.Clone(), nil
}

// Update applies p to the dispute with id and touches updated_at.
func (m *Memory) Update(id string, p dispute.Patch) (dispute.Dispute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.disputes[id]
	if !ok {
		return dispute.Dispute{}, ErrNotFound
	}
	d = p.Apply(d)
	updated := dispute.NewTimestamp(m.now())
	d.UpdatedAt = &updated
	m.disputes[id] = d
	return d.Clone(), nil
}

func (m *Memory) AppendChat(id, userMessage, aiResponse string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.disputes[id]; !ok {
		return ErrNotFound
	}
	m.chats[id] = append(m.chats[id], chatTurn{userMessage: userMessage, aiResponse: aiResponse, at: m.now()})
	return nil
}

func (m *Memory) ChatHistory(id string) []chatTurn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.chats[id])
}
