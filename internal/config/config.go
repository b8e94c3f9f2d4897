package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration
type Config struct {
	TelegramToken string

	// Moderation scope. MonitoredChatIDs must be non-empty: an empty
	// set would mean "monitor nothing" and is always a misconfiguration.
	MonitoredChatIDs  []int64
	MonitoredTopicIDs []int

	// ReportsChatID receives ban reports; 0 disables reporting.
	ReportsChatID int64

	// AdminChatID receives forwarded support messages; 0 disables the
	// support-routing flow.
	AdminChatID int64

	// Bot mode configuration
	WebhookMode bool   // If true, use webhook mode; if false, use polling mode
	WebhookURL  string // URL for webhook (required if WebhookMode is true)

	// ClickHouse configuration (audit log)
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	UseMockDB bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Monitored chat IDs (required). Refusing to start on an empty
	// list is deliberate: silently moderating nothing looks identical
	// to a healthy deployment.
	chatIDs, err := parseInt64List(os.Getenv("MONITORED_CHAT_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONITORED_CHAT_IDS: %w", err)
	}
	if len(chatIDs) == 0 {
		return nil, fmt.Errorf("MONITORED_CHAT_IDS is required (comma-separated list of chat IDs to moderate)")
	}
	config.MonitoredChatIDs = chatIDs

	// Monitored topic IDs (optional; empty means all topics)
	topicIDs, err := parseIntList(os.Getenv("MONITORED_TOPIC_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONITORED_TOPIC_IDS: %w", err)
	}
	config.MonitoredTopicIDs = topicIDs

	// Reports chat (optional)
	config.ReportsChatID, err = parseOptionalInt64(os.Getenv("REPORTS_CHAT_ID"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORTS_CHAT_ID: %w", err)
	}

	// Admin chat for the support flow (optional)
	config.AdminChatID, err = parseOptionalInt64(os.Getenv("ADMIN_CHAT_ID"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_CHAT_ID: %w", err)
	}

	// Bot mode configuration
	config.WebhookMode = os.Getenv("WEBHOOK_MODE") == "true"
	if config.WebhookMode {
		config.WebhookURL = os.Getenv("WEBHOOK_URL")
		if config.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
		}
	}

	// Use Mock DB (default: false)
	config.UseMockDB = os.Getenv("USE_MOCK_DB") == "true"

	// ClickHouse configuration (required if not using mock)
	if !config.UseMockDB {
		config.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
		if config.ClickHouseHost == "" {
			return nil, fmt.Errorf("CLICKHOUSE_HOST is required when USE_MOCK_DB is not set")
		}

		portStr := os.Getenv("CLICKHOUSE_PORT")
		if portStr == "" {
			config.ClickHousePort = 9000 // Default ClickHouse native port
		} else {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return nil, fmt.Errorf("invalid CLICKHOUSE_PORT: %w", err)
			}
			config.ClickHousePort = port
		}

		config.ClickHouseDatabase = os.Getenv("CLICKHOUSE_DATABASE")
		if config.ClickHouseDatabase == "" {
			config.ClickHouseDatabase = "default"
		}

		config.ClickHouseUser = os.Getenv("CLICKHOUSE_USER")
		if config.ClickHouseUser == "" {
			config.ClickHouseUser = "default"
		}

		config.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
		// Password is optional, can be empty

		config.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	}

	return config, nil
}

func parseInt64List(value string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ID %q", part)
		}
		out = append(out, id)
	}
	return out, nil
}

func parseIntList(value string) ([]int, error) {
	ids, err := parseInt64List(value)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		out = append(out, int(id))
	}
	return out, nil
}

func parseOptionalInt64(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.ParseInt(value, 10, 64)
}
