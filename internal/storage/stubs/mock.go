package stubs

import (
	"context"
	"sync"
	"time"

	"github.com/anka-ss/bot-pro-perevod/internal/models"
)

// MockDB is an in-memory implementation of the Storage interface for
// tests and for deployments that run without ClickHouse.
type MockDB struct {
	mu      sync.RWMutex
	actions []models.ModerationAction
}

// NewMockDB creates a new mock audit log.
func NewMockDB() *MockDB {
	return &MockDB{actions: make([]models.ModerationAction, 0)}
}

// Initialize is a no-op for the in-memory log.
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// RecordAction appends an action to the log.
func (m *MockDB) RecordAction(ctx context.Context, action models.ModerationAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.actions = append(m.actions, action)
	return nil
}

// GetRecentActions returns the latest actions, newest first.
func (m *MockDB) GetRecentActions(ctx context.Context, limit int) ([]models.ModerationAction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.ModerationAction
	for i := len(m.actions) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.actions[i])
	}
	return out, nil
}

// CountActionsByKind returns per-kind counts since the given time.
func (m *MockDB) CountActionsByKind(ctx context.Context, since time.Time) (map[models.ActionKind]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[models.ActionKind]int)
	for _, action := range m.actions {
		if !action.At.Before(since) {
			counts[action.Kind]++
		}
	}
	return counts, nil
}

// Close is a no-op for the in-memory log.
func (m *MockDB) Close() error {
	return nil
}
