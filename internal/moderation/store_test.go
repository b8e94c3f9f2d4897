package moderation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore_AddWarningProgression(t *testing.T) {
	s := NewUserStore()
	userID := int64(100)

	count, escalated := s.AddWarning(userID)
	assert.Equal(t, 1, count)
	assert.False(t, escalated)

	count, escalated = s.AddWarning(userID)
	assert.Equal(t, 2, count)
	assert.False(t, escalated)
	assert.False(t, s.IsBlacklisted(userID))

	count, escalated = s.AddWarning(userID)
	assert.Equal(t, 3, count)
	assert.True(t, escalated)
	assert.True(t, s.IsBlacklisted(userID))
}

func TestUserStore_AddWarningAfterBlacklistIsNoop(t *testing.T) {
	s := NewUserStore()
	userID := int64(100)

	for i := 0; i < MaxWarnings; i++ {
		s.AddWarning(userID)
	}
	require.True(t, s.IsBlacklisted(userID))

	count, escalated := s.AddWarning(userID)
	assert.Equal(t, 0, count)
	assert.False(t, escalated)
	assert.Equal(t, MaxWarnings, s.Warnings(userID))
}

func TestUserStore_ShouldExplainDebounce(t *testing.T) {
	s := NewUserStore()
	userID := int64(100)
	base := time.Now()

	// First inquiry always gets an explanation.
	assert.True(t, s.ShouldExplain(userID, base))

	// 5 seconds later: still inside the window.
	assert.False(t, s.ShouldExplain(userID, base.Add(5*time.Second)))

	// 35 seconds later: window has passed.
	assert.True(t, s.ShouldExplain(userID, base.Add(35*time.Second)))

	// The debounce is per-user.
	assert.True(t, s.ShouldExplain(int64(200), base.Add(36*time.Second)))
}

func TestUserStore_UnbanResetsEverything(t *testing.T) {
	s := NewUserStore()
	userID := int64(100)

	for i := 0; i < MaxWarnings; i++ {
		s.AddWarning(userID)
	}
	require.True(t, s.IsBlacklisted(userID))

	assert.True(t, s.Unban(userID))
	assert.False(t, s.IsBlacklisted(userID))
	assert.Equal(t, 0, s.Warnings(userID))

	// After unban the escalation ladder starts over.
	count, escalated := s.AddWarning(userID)
	assert.Equal(t, 1, count)
	assert.False(t, escalated)
}

func TestUserStore_UnbanUnknownUser(t *testing.T) {
	s := NewUserStore()
	assert.False(t, s.Unban(999))
}

func TestUserStore_Blacklist(t *testing.T) {
	s := NewUserStore()

	for _, id := range []int64{30, 10, 20} {
		for i := 0; i < MaxWarnings; i++ {
			s.AddWarning(id)
		}
	}
	s.AddWarning(40) // one warning, not blacklisted

	assert.Equal(t, []int64{10, 20, 30}, s.Blacklist())
}

func TestUserStore_Stats(t *testing.T) {
	s := NewUserStore()

	s.AddWarning(1)
	s.AddWarning(1)
	for i := 0; i < MaxWarnings; i++ {
		s.AddWarning(2)
	}

	stats := s.Stats()
	assert.Equal(t, 2, stats.UsersWithWarnings)
	assert.Equal(t, 5, stats.TotalWarningsIssued)
	assert.Equal(t, 1, stats.BlacklistedUsers)
}

func TestUserStore_ConcurrentWarnings(t *testing.T) {
	s := NewUserStore()
	userID := int64(100)

	// Simulate duplicate deliveries racing: exactly one call must
	// observe the escalation and the count must never pass MaxWarnings.
	var wg sync.WaitGroup
	escalations := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, escalated := s.AddWarning(userID)
			escalations <- escalated
		}()
	}
	wg.Wait()
	close(escalations)

	total := 0
	for escalated := range escalations {
		if escalated {
			total++
		}
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, MaxWarnings, s.Warnings(userID))
	assert.True(t, s.IsBlacklisted(userID))
}
