package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("MONITORED_CHAT_IDS", "-1001,-1002")
	t.Setenv("USE_MOCK_DB", "true")
	t.Setenv("MONITORED_TOPIC_IDS", "")
	t.Setenv("REPORTS_CHAT_ID", "")
	t.Setenv("ADMIN_CHAT_ID", "")
	t.Setenv("WEBHOOK_MODE", "")
	t.Setenv("WEBHOOK_URL", "")
}

func TestLoadFromEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MONITORED_TOPIC_IDS", "5, 7")
	t.Setenv("REPORTS_CHAT_ID", "-1009")
	t.Setenv("ADMIN_CHAT_ID", "777")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, []int64{-1001, -1002}, cfg.MonitoredChatIDs)
	assert.Equal(t, []int{5, 7}, cfg.MonitoredTopicIDs)
	assert.Equal(t, int64(-1009), cfg.ReportsChatID)
	assert.Equal(t, int64(777), cfg.AdminChatID)
	assert.True(t, cfg.UseMockDB)
}

func TestLoadFromEnv_MissingToken(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadFromEnv_EmptyMonitoredChats(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MONITORED_CHAT_IDS", "")

	// An empty monitored set must refuse to start, not silently
	// monitor nothing.
	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadFromEnv_InvalidChatID(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MONITORED_CHAT_IDS", "-1001,abc")

	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadFromEnv_WebhookModeRequiresURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("WEBHOOK_MODE", "true")

	_, err := LoadFromEnv()
	assert.Error(t, err)

	t.Setenv("WEBHOOK_URL", "https://example.com")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.WebhookMode)
}
