package bot

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handlePrivateMessage drives the support dialog in a private chat:
// a two-button menu, and a one-shot "write to the admins" state.
func (b *Bot) handlePrivateMessage(ctx context.Context, message *models.Message) {
	userID := message.From.ID
	text := messageText(message)

	if name, _ := command(text); name != "" {
		switch name {
		case "start":
			b.setSession(userID, StateChoosing)
			b.sendMenu(ctx, message.Chat.ID)
		case "cancel":
			b.setSession(userID, StateChoosing)
			b.sendText(ctx, message.Chat.ID, cancelText)
		}
		return
	}

	// An armed "write to admins" session consumes exactly one message.
	if b.takeAwaiting(userID) {
		b.forwardToAdmins(ctx, message)
		return
	}

	switch text {
	case menuButtonSendFile:
		b.sendText(ctx, message.Chat.ID, sendFileText)
	case menuButtonWriteAdmins:
		if b.adminChatID == 0 {
			b.sendText(ctx, message.Chat.ID, supportUnavailableText)
			return
		}
		b.setSession(userID, StateAwaitingAdminMessage)
		b.sendText(ctx, message.Chat.ID, writeAdminsPromptText)
	default:
		b.sendText(ctx, message.Chat.ID, chooseButtonText)
	}
}

// forwardToAdmins forwards the user's message into the admin chat and
// remembers which user it came from, so admins can answer by replying
// to the forwarded message.
func (b *Bot) forwardToAdmins(ctx context.Context, message *models.Message) {
	if b.api != nil {
		forwarded, err := b.api.ForwardMessage(ctx, &bot.ForwardMessageParams{
			ChatID:     b.adminChatID,
			FromChatID: message.Chat.ID,
			MessageID:  message.ID,
		})
		if err != nil {
			b.logger.Warn("Failed to forward message to admin chat",
				zap.Int64("user_id", message.From.ID),
				zap.Error(err),
			)
			b.sendText(ctx, message.Chat.ID, forwardFailedText)
			return
		}
		b.replyRoutes.Add(forwarded.ID, message.From.ID)
	}

	b.sendText(ctx, message.Chat.ID, forwardedAckText)
}

// handleAdminChatReply relays an admin's reply to a forwarded message
// back to the user who wrote it.
func (b *Bot) handleAdminChatReply(ctx context.Context, message *models.Message) {
	replied := message.ReplyToMessage
	if replied == nil {
		return
	}
	// Only replies to the bot's own forwards are routed.
	if b.selfID != 0 && (replied.From == nil || replied.From.ID != b.selfID) {
		return
	}

	text := messageText(message)
	if text == "" {
		return
	}

	userID, ok := b.replyRoutes.Get(replied.ID)
	if !ok {
		b.reply(ctx, message, adminReplyLostText)
		return
	}

	// For private chats the chat ID equals the user ID.
	b.sendText(ctx, userID, text)
	b.logger.Info("Relayed admin reply", zap.Int64("user_id", userID))
}

func (b *Bot) sendMenu(ctx context.Context, chatID int64) {
	b.send(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   menuPromptText,
		ReplyMarkup: &models.ReplyKeyboardMarkup{
			Keyboard: [][]models.KeyboardButton{
				{{Text: menuButtonSendFile}, {Text: menuButtonWriteAdmins}},
			},
			ResizeKeyboard: true,
		},
	})
}

// setSession stores the user's dialog state. StateChoosing is the
// zero state, so storing it simply clears any armed state.
func (b *Bot) setSession(userID int64, state SessionState) {
	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()

	if state == StateChoosing {
		delete(b.sessions, userID)
		return
	}
	b.sessions[userID] = state
}

// takeAwaiting atomically consumes an armed AwaitingAdminMessage
// state, so a burst of messages forwards only the first one.
func (b *Bot) takeAwaiting(userID int64) bool {
	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()

	if b.sessions[userID] != StateAwaitingAdminMessage {
		return false
	}
	delete(b.sessions, userID)
	return true
}

// session returns the user's current dialog state.
func (b *Bot) session(userID int64) SessionState {
	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()
	return b.sessions[userID]
}
