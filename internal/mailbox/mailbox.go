// Package mailbox implements the hand-off slot: a single-entry mailbox
// per device that carries a submitted booking draft from the booking step
// to the payment step.  Writers overwrite; TakeOnce reads and clears in
// one step so a draft is consumed at most once.
package mailbox

import (
	"context"
	"errors"
	"sync"

	"github.com/iliyamo/museum-reservation/internal/model"
)

// ErrEmpty is returned when the slot for a key holds no draft.
var ErrEmpty = errors.New("hand-off slot is empty")

// Mailbox is a keyed set of single-entry slots.
type Mailbox interface {
	// Put stores s under key, replacing any previous draft.
	Put(ctx context.Context, key string, s model.DraftSnapshot) error
	// Peek returns the draft under key without clearing it.
	Peek(ctx context.Context, key string) (model.DraftSnapshot, error)
	// TakeOnce atomically returns and clears the draft under key.
	TakeOnce(ctx context.Context, key string) (model.DraftSnapshot, error)
	// Clear drops the draft under key, if any.
	Clear(ctx context.Context, key string) error
}

// Memory is a process-local Mailbox.
type Memory struct {
	mu    sync.Mutex
	slots map[string]model.DraftSnapshot
}

// NewMemory returns an empty in-memory mailbox.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string]model.DraftSnapshot)}
}

func (m *Memory) Put(_ context.Context, key string, s model.DraftSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = clone(s)
	return nil
}

func (m *Memory) Peek(_ context.Context, key string) (model.DraftSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[key]
	if !ok {
		return model.DraftSnapshot{}, ErrEmpty
	}
	return clone(s), nil
}

func (m *Memory) TakeOnce(_ context.Context, key string) (model.DraftSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[key]
	if !ok {
		return model.DraftSnapshot{}, ErrEmpty
	}
	delete(m.slots, key)
	return s, nil
}

func (m *Memory) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

func clone(s model.DraftSnapshot) model.DraftSnapshot {
	s.Members = append([]model.Member(nil), s.Members...)
	return s
}
