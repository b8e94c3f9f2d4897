package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/anka-ss/bot-pro-perevod/internal/config"
	"github.com/anka-ss/bot-pro-perevod/internal/moderation"
	"github.com/anka-ss/bot-pro-perevod/internal/storage"
)

// Bounds for the admin-reply correlation store. A route older than
// the TTL is considered stale; replying to it gets a notice instead
// of a misdelivery.
const (
	replyRouteLimit = 1024
	replyRouteTTL   = 48 * time.Hour
)

// NewBot creates the Telegram bot and assembles the moderation
// pipeline around it.
func NewBot(cfg *config.Config, auditLog storage.Storage, logger *zap.Logger) (*Bot, error) {
	b := &Bot{
		matcher:       moderation.NewMatcher(),
		store:         moderation.NewUserStore(),
		auditLog:      auditLog,
		logger:        logger,
		adminChatID:   cfg.AdminChatID,
		reportsChatID: cfg.ReportsChatID,
		sessions:      make(map[int64]SessionState),
		replyRoutes:   expirable.NewLRU[int, int64](replyRouteLimit, nil, replyRouteTTL),
	}
	b.engine = moderation.NewEngine(b.store)
	b.roles = apiRoles{b}

	gate, err := moderation.NewGate(cfg.MonitoredChatIDs, cfg.MonitoredTopicIDs, cfg.ReportsChatID, b.roles, b.store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build moderation gate: %w", err)
	}
	b.gate = gate

	api, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(b.handleUpdate))
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	b.api = api

	me, err := api.GetMe(context.Background())
	if err != nil {
		logger.Warn("Failed to fetch bot identity", zap.Error(err))
	} else {
		b.selfID = me.ID
		logger.Info("Bot created", zap.String("bot_username", me.Username))
	}

	return b, nil
}

// Stats exposes aggregate moderation counters for the HTTP stats
// endpoint.
func (b *Bot) Stats() moderation.Stats {
	return b.store.Stats()
}
