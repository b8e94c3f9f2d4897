package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	audit "github.com/anka-ss/bot-pro-perevod/internal/models"
	"github.com/anka-ss/bot-pro-perevod/internal/moderation"
)

// handleGroupCommand dispatches the administrative commands available
// in group chats. Unknown commands are ignored so the bot stays quiet
// in busy groups.
func (b *Bot) handleGroupCommand(ctx context.Context, message *models.Message, name, args string) {
	switch name {
	case "warnings":
		b.handleWarnings(ctx, message, args)
	case "blacklist":
		b.handleBlacklist(ctx, message)
	case "unban":
		b.handleUnban(ctx, message, args)
	case "misha":
		b.handleGreeting(ctx, message)
	}
}

// isAdmin reports whether the user is an administrator or the owner
// of the chat. Unlike the moderation gate, a failed lookup denies:
// admin commands must not run for unverified senders.
func (b *Bot) isAdmin(ctx context.Context, chatID, userID int64) bool {
	role, err := b.roles.ChatMemberRole(ctx, chatID, userID)
	if err != nil {
		b.logger.Warn("Admin check failed",
			zap.Int64("chat_id", chatID),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return false
	}
	return role != moderation.RoleMember
}

// handleWarnings answers /warnings <userID> with the user's counter.
func (b *Bot) handleWarnings(ctx context.Context, message *models.Message, args string) {
	if !b.isAdmin(ctx, message.Chat.ID, message.From.ID) {
		return
	}

	userID, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		b.reply(ctx, message, "Неверный формат ID пользователя. Используйте: /warnings 123456789")
		return
	}

	record := b.store.Get(userID)
	status := ""
	if record.Blacklisted {
		status = " (в черном списке)"
	}
	b.reply(ctx, message, fmt.Sprintf("Пользователь %d имеет %d предупреждений%s.", userID, record.WarningCount, status))
}

// handleBlacklist answers /blacklist with the current blacklist.
func (b *Bot) handleBlacklist(ctx context.Context, message *models.Message) {
	if !b.isAdmin(ctx, message.Chat.ID, message.From.ID) {
		return
	}

	ids := b.store.Blacklist()
	if len(ids) == 0 {
		b.reply(ctx, message, "Черный список пуст.")
		return
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Черный список (%d пользователей):\n", len(ids))
	for _, id := range ids {
		fmt.Fprintf(&text, "%d\n", id)
	}
	b.reply(ctx, message, strings.TrimRight(text.String(), "\n"))
}

// handleUnban clears the user's warnings and blacklist membership and
// lifts the mute. The unban succeeds even when lifting the platform
// restriction fails: blacklist cleanup must not be blocked by
// transport errors.
func (b *Bot) handleUnban(ctx context.Context, message *models.Message, args string) {
	if !b.isAdmin(ctx, message.Chat.ID, message.From.ID) {
		return
	}

	userID, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		b.reply(ctx, message, "Неверный формат ID пользователя. Используйте: /unban 123456789")
		return
	}

	b.engine.Unban(userID)
	b.recordAction(message.Chat.ID, userID, audit.ActionUnban, 0, "")

	if err := b.unmute(ctx, message.Chat.ID, userID); err != nil {
		b.logger.Warn("Failed to unmute user",
			zap.Int64("chat_id", message.Chat.ID),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		b.reply(ctx, message, fmt.Sprintf("Пользователь %d удален из черного списка и его предупреждения сброшены.", userID))
		return
	}
	b.reply(ctx, message, fmt.Sprintf("Пользователь %d удален из черного списка, размьючен и его предупреждения сброшены.", userID))
}

// handleGreeting announces the bot on /misha. Refused in the reports
// chat so the audit channel stays clean.
func (b *Bot) handleGreeting(ctx context.Context, message *models.Message) {
	if b.reportsChatID != 0 && message.Chat.ID == b.reportsChatID {
		return
	}
	if !b.isAdmin(ctx, message.Chat.ID, message.From.ID) {
		return
	}
	b.announce(ctx, message, greetingText)
}
