package moderation

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Role is a user's membership role in a chat, as reported by the
// messaging platform.
type Role int

const (
	RoleMember Role = iota
	RoleAdministrator
	RoleOwner
)

// RoleLookup resolves a user's role in a chat. Lookups go over the
// network and may fail; the gate treats a failed lookup as RoleMember
// so moderation still applies.
type RoleLookup interface {
	ChatMemberRole(ctx context.Context, chatID, userID int64) (Role, error)
}

// Event is the subset of an inbound message the gate needs.
type Event struct {
	ChatID   int64
	ThreadID int // forum topic ID, 0 outside topics
	UserID   int64
}

// ErrNoMonitoredChats is returned when the gate is configured without
// any monitored chat. An empty set must refuse to start rather than
// silently monitor nothing (or worse, everything).
var ErrNoMonitoredChats = errors.New("moderation: no monitored chats configured")

// Gate filters inbound events before they reach classification.
type Gate struct {
	monitoredChats  map[int64]struct{}
	monitoredTopics map[int]struct{}
	reportsChatID   int64
	roles           RoleLookup
	store           *UserStore
	logger          *zap.Logger
}

// NewGate creates a gate. The monitored chat set must be non-empty.
// An empty topic set means all topics of a monitored chat are
// processed.
func NewGate(chats []int64, topics []int, reportsChatID int64, roles RoleLookup, store *UserStore, logger *zap.Logger) (*Gate, error) {
	if len(chats) == 0 {
		return nil, ErrNoMonitoredChats
	}

	g := &Gate{
		monitoredChats:  make(map[int64]struct{}, len(chats)),
		monitoredTopics: make(map[int]struct{}, len(topics)),
		reportsChatID:   reportsChatID,
		roles:           roles,
		store:           store,
		logger:          logger,
	}
	for _, id := range chats {
		g.monitoredChats[id] = struct{}{}
	}
	for _, id := range topics {
		g.monitoredTopics[id] = struct{}{}
	}
	return g, nil
}

// ShouldProcess applies the scope and role filters in order; the
// first failing filter wins.
func (g *Gate) ShouldProcess(ctx context.Context, ev Event) bool {
	if _, ok := g.monitoredChats[ev.ChatID]; !ok {
		return false
	}

	// Never moderate the audit channel.
	if g.reportsChatID != 0 && ev.ChatID == g.reportsChatID {
		return false
	}

	if len(g.monitoredTopics) > 0 && ev.ThreadID != 0 {
		if _, ok := g.monitoredTopics[ev.ThreadID]; !ok {
			return false
		}
	}

	role, err := g.roles.ChatMemberRole(ctx, ev.ChatID, ev.UserID)
	if err != nil {
		g.logger.Warn("Role lookup failed, treating sender as regular member",
			zap.Int64("chat_id", ev.ChatID),
			zap.Int64("user_id", ev.UserID),
			zap.Error(err),
		)
		role = RoleMember
	}
	if role != RoleMember {
		return false
	}

	// Blacklisted users are already muted; drop without re-evaluation.
	if g.store.IsBlacklisted(ev.UserID) {
		g.logger.Debug("Dropping message from blacklisted user", zap.Int64("user_id", ev.UserID))
		return false
	}

	return true
}
