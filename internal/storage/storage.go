package storage

import (
	"context"
	"time"

	"github.com/anka-ss/bot-pro-perevod/internal/models"
)

// Storage is the audit log of moderation actions. Live moderation
// state (warnings, blacklist) stays in memory and is intentionally
// not persisted; the audit log is an append-only record that survives
// restarts for after-the-fact review.
type Storage interface {
	// RecordAction appends one enforcement action to the audit log.
	RecordAction(ctx context.Context, action models.ModerationAction) error

	// GetRecentActions returns the latest actions, newest first.
	GetRecentActions(ctx context.Context, limit int) ([]models.ModerationAction, error)

	// CountActionsByKind returns per-kind action counts since the
	// given time.
	CountActionsByKind(ctx context.Context, since time.Time) (map[models.ActionKind]int, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
