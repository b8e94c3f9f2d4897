package bot

import (
	"context"
	"strings"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleMessage routes one inbound message by chat type.
func (b *Bot) handleMessage(ctx context.Context, message *models.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
		}
	}()

	if message.From == nil {
		return
	}

	switch {
	case message.Chat.Type == models.ChatTypePrivate:
		b.handlePrivateMessage(ctx, message)
	case b.adminChatID != 0 && message.Chat.ID == b.adminChatID:
		b.handleAdminChatReply(ctx, message)
	default:
		if name, args := command(messageText(message)); name != "" {
			b.handleGroupCommand(ctx, message, name, args)
		} else {
			b.handleGroupMessage(ctx, message)
		}
	}
}

// command splits "/name@bot args" into a lowercase command name and
// its arguments. It returns an empty name for non-command text.
func command(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	name, args, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	name, _, _ = strings.Cut(name, "@")
	if name == "" {
		return "", ""
	}
	return strings.ToLower(name), strings.TrimSpace(args)
}

// messageText returns the moderatable text of a message: the text
// itself, or the caption for media messages.
func messageText(message *models.Message) string {
	if message.Text != "" {
		return message.Text
	}
	return message.Caption
}
