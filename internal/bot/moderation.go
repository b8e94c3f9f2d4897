package bot

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	audit "github.com/anka-ss/bot-pro-perevod/internal/models"
	"github.com/anka-ss/bot-pro-perevod/internal/moderation"
)

// auditTextLimit caps the offending text stored in an audit record.
const auditTextLimit = 500

// apiRoles implements moderation.RoleLookup over the Telegram API.
type apiRoles struct {
	b *Bot
}

func (r apiRoles) ChatMemberRole(ctx context.Context, chatID, userID int64) (moderation.Role, error) {
	if r.b.api == nil {
		return moderation.RoleMember, nil // for testing
	}

	member, err := r.b.api.GetChatMember(ctx, &bot.GetChatMemberParams{ChatID: chatID, UserID: userID})
	if err != nil {
		return moderation.RoleMember, err
	}
	switch member.Type {
	case models.ChatMemberTypeOwner:
		return moderation.RoleOwner, nil
	case models.ChatMemberTypeAdministrator:
		return moderation.RoleAdministrator, nil
	default:
		return moderation.RoleMember, nil
	}
}

// handleGroupMessage runs the moderation pipeline for one group
// message: gate, classify, escalate, deliver effects.
func (b *Bot) handleGroupMessage(ctx context.Context, message *models.Message) {
	text := messageText(message)
	if text == "" {
		return
	}

	event := moderation.Event{
		ChatID:   message.Chat.ID,
		ThreadID: message.MessageThreadID,
		UserID:   message.From.ID,
	}
	if !b.gate.ShouldProcess(ctx, event) {
		return
	}

	result := b.matcher.Classify(text)
	if result == moderation.MatchNone {
		return
	}

	b.logger.Info("Message classified",
		zap.Int64("chat_id", message.Chat.ID),
		zap.Int64("user_id", message.From.ID),
		zap.String("result", result.String()),
	)

	effects := b.engine.Handle(message.From.ID, result, time.Now())
	b.applyEffects(ctx, message, effects)
}

// applyEffects delivers the engine's effects in order. Every delivery
// failure is logged and skipped: the state change is already
// committed and transport errors must not undo it.
func (b *Bot) applyEffects(ctx context.Context, message *models.Message, effects []moderation.Effect) {
	for _, effect := range effects {
		switch effect.Kind {
		case moderation.EffectDeleteMessage:
			b.deleteMessage(ctx, message)
			b.recordAction(message.Chat.ID, message.From.ID, audit.ActionDelete, 0, messageText(message))

		case moderation.EffectSendExplanation:
			b.reply(ctx, message, explanationText)
			b.recordAction(message.Chat.ID, message.From.ID, audit.ActionExplain, 0, "")

		case moderation.EffectSendWarning:
			b.reply(ctx, message, warningText(effect.Warning, displayName(message.From)))
			b.recordAction(message.Chat.ID, message.From.ID, audit.ActionWarn, effect.Warning, messageText(message))

		case moderation.EffectRestrictUser:
			b.muteForever(ctx, message.Chat.ID, message.From.ID)

		case moderation.EffectSendBanNotice:
			b.announce(ctx, message, banNoticeText(displayName(message.From)))
			b.recordAction(message.Chat.ID, message.From.ID, audit.ActionBan, moderation.MaxWarnings, messageText(message))

		case moderation.EffectSendReport:
			b.sendBanReport(ctx, message)
		}
	}
}

func (b *Bot) deleteMessage(ctx context.Context, message *models.Message) {
	if b.api == nil {
		return // for testing
	}
	_, err := b.api.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    message.Chat.ID,
		MessageID: message.ID,
	})
	if err != nil {
		b.logger.Warn("Failed to delete message",
			zap.Int64("chat_id", message.Chat.ID),
			zap.Int("message_id", message.ID),
			zap.Error(err),
		)
	}
}

// muteForever strips every permission from the user, permanently
// (until_date 0 means forever).
func (b *Bot) muteForever(ctx context.Context, chatID, userID int64) {
	if b.api == nil {
		return // for testing
	}
	_, err := b.api.RestrictChatMember(ctx, &bot.RestrictChatMemberParams{
		ChatID:      chatID,
		UserID:      userID,
		Permissions: &models.ChatPermissions{},
		UntilDate:   0,
	})
	if err != nil {
		b.logger.Warn("Failed to restrict user",
			zap.Int64("chat_id", chatID),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

// unmute restores the default member permissions after an unban.
func (b *Bot) unmute(ctx context.Context, chatID, userID int64) error {
	if b.api == nil {
		return nil // for testing
	}
	_, err := b.api.RestrictChatMember(ctx, &bot.RestrictChatMemberParams{
		ChatID: chatID,
		UserID: userID,
		Permissions: &models.ChatPermissions{
			CanSendMessages:       true,
			CanSendAudios:         true,
			CanSendDocuments:      true,
			CanSendPhotos:         true,
			CanSendVideos:         true,
			CanSendVideoNotes:     true,
			CanSendVoiceNotes:     true,
			CanSendPolls:          true,
			CanSendOtherMessages:  true,
			CanAddWebPagePreviews: true,
			CanInviteUsers:        true,
		},
	})
	return err
}

func (b *Bot) sendBanReport(ctx context.Context, message *models.Message) {
	if b.reportsChatID == 0 {
		return // reporting not configured
	}
	b.sendText(ctx, b.reportsChatID, banReportText(message, time.Now()))
}

// recordAction appends an audit record without blocking the update
// path; failures are logged and never surface to moderation.
func (b *Bot) recordAction(chatID, userID int64, kind audit.ActionKind, warnings int, text string) {
	if b.auditLog == nil {
		return
	}

	action := audit.ModerationAction{
		At:       time.Now(),
		ChatID:   chatID,
		UserID:   userID,
		Kind:     kind,
		Warnings: warnings,
		Text:     truncate(text, auditTextLimit),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.auditLog.RecordAction(ctx, action); err != nil {
			b.logger.Warn("Failed to record moderation action",
				zap.String("kind", string(kind)),
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !isRuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
