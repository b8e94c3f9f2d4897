package bot

import (
	"sync"

	"github.com/go-telegram/bot"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/anka-ss/bot-pro-perevod/internal/moderation"
	"github.com/anka-ss/bot-pro-perevod/internal/storage"
)

// SessionState tracks where a private-chat user is in the support
// dialog.
type SessionState int

const (
	// StateChoosing is the default: the menu is shown and the bot is
	// waiting for a button press.
	StateChoosing SessionState = iota
	// StateAwaitingAdminMessage means the next text message will be
	// forwarded to the admin chat.
	StateAwaitingAdminMessage
)

// Bot wires the Telegram transport to the moderation core and the
// support-routing flow.
type Bot struct {
	api    *bot.Bot
	selfID int64

	matcher *moderation.Matcher
	engine  *moderation.Engine
	store   *moderation.UserStore
	gate    *moderation.Gate
	roles   moderation.RoleLookup

	auditLog storage.Storage
	logger   *zap.Logger

	adminChatID   int64
	reportsChatID int64

	sessionsMu sync.Mutex
	sessions   map[int64]SessionState

	// replyRoutes maps a message forwarded into the admin chat back
	// to the user who wrote it, so admins can answer by replying in
	// place. Entries expire instead of accumulating forever.
	replyRoutes *expirable.LRU[int, int64]
}
