package moderation

import (
	"sort"
	"sync"
	"time"
)

// MaxWarnings is the number of warnings after which a user is
// blacklisted and muted.
const MaxWarnings = 3

// ExplanationDebounce is the minimum interval between two deletion
// explanations sent to the same user.
const ExplanationDebounce = 30 * time.Second

// UserRecord is the per-user moderation state. The zero value means
// no warnings and not blacklisted.
type UserRecord struct {
	UserID            int64
	WarningCount      int
	Blacklisted       bool
	LastExplanationAt time.Time
}

// Stats is an aggregate snapshot of the store, exposed on the HTTP
// stats endpoint.
type Stats struct {
	UsersWithWarnings   int `json:"users_with_warnings"`
	TotalWarningsIssued int `json:"total_warnings_issued"`
	BlacklistedUsers    int `json:"blacklisted_users"`
}

// UserStore owns all per-user moderation state. Records are created
// lazily on first use and never deleted; Unban only clears them.
// All state is in-memory and lost on restart.
//
// Read-modify-write sequences run under one mutex so that duplicate
// deliveries of the same message cannot double-increment a counter.
type UserStore struct {
	mu    sync.RWMutex
	users map[int64]*UserRecord
}

// NewUserStore creates an empty store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]*UserRecord)}
}

// Get returns a snapshot of the user's record. An absent record reads
// as the zero record.
func (s *UserStore) Get(userID int64) UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.users[userID]; ok {
		return *rec
	}
	return UserRecord{UserID: userID}
}

// Warnings returns the user's current warning count.
func (s *UserStore) Warnings(userID int64) int {
	return s.Get(userID).WarningCount
}

// IsBlacklisted reports whether the user is blacklisted.
func (s *UserStore) IsBlacklisted(userID int64) bool {
	return s.Get(userID).Blacklisted
}

// AddWarning increments the user's warning count and blacklists the
// user when the count reaches MaxWarnings. It returns the new count
// and whether this call performed the escalation. For an already
// blacklisted user it is a no-op and returns (0, false).
func (s *UserStore) AddWarning(userID int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.record(userID)
	if rec.Blacklisted {
		return 0, false
	}

	rec.WarningCount++
	if rec.WarningCount >= MaxWarnings {
		rec.Blacklisted = true
		return rec.WarningCount, true
	}
	return rec.WarningCount, false
}

// ShouldExplain reports whether a deletion explanation may be sent to
// the user at the given time, and records the send time if so. The
// check and the timestamp update are a single atomic step, so two
// concurrent qualifying messages yield exactly one explanation.
func (s *UserStore) ShouldExplain(userID int64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.record(userID)
	if !rec.LastExplanationAt.IsZero() && now.Sub(rec.LastExplanationAt) < ExplanationDebounce {
		return false
	}
	// The timestamp only ever moves forward.
	if now.After(rec.LastExplanationAt) {
		rec.LastExplanationAt = now
	}
	return true
}

// Unban clears the user's blacklist flag and warning count together.
// It returns whether the user had any state to clear.
func (s *UserStore) Unban(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[userID]
	if !ok {
		return false
	}
	had := rec.Blacklisted || rec.WarningCount > 0
	rec.WarningCount = 0
	rec.Blacklisted = false
	return had
}

// Blacklist returns the blacklisted user IDs in ascending order.
func (s *UserStore) Blacklist() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []int64
	for id, rec := range s.users {
		if rec.Blacklisted {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Stats returns aggregate counters over all known users.
func (s *UserStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	for _, rec := range s.users {
		if rec.WarningCount > 0 {
			stats.UsersWithWarnings++
			stats.TotalWarningsIssued += rec.WarningCount
		}
		if rec.Blacklisted {
			stats.BlacklistedUsers++
		}
	}
	return stats
}

// record returns the live record for the user, creating it lazily.
// Callers must hold s.mu.
func (s *UserStore) record(userID int64) *UserRecord {
	rec, ok := s.users[userID]
	if !ok {
		rec = &UserRecord{UserID: userID}
		s.users[userID] = rec
	}
	return rec
}
