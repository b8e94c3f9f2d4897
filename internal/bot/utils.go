package bot

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// reply answers the given message in its chat and topic.
func (b *Bot) reply(ctx context.Context, message *models.Message, text string) {
	params := &bot.SendMessageParams{
		ChatID:          message.Chat.ID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: message.ID},
	}
	if message.MessageThreadID != 0 {
		params.MessageThreadID = message.MessageThreadID
	}
	b.send(ctx, params)
}

// announce sends into the message's chat and topic without the reply
// linkage; the original message may already be deleted.
func (b *Bot) announce(ctx context.Context, message *models.Message, text string) {
	params := &bot.SendMessageParams{
		ChatID: message.Chat.ID,
		Text:   text,
	}
	if message.MessageThreadID != 0 {
		params.MessageThreadID = message.MessageThreadID
	}
	b.send(ctx, params)
}

// sendText sends plain text to a chat without topic or reply context.
func (b *Bot) sendText(ctx context.Context, chatID int64, text string) {
	b.send(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
}

// send delivers one message, logging delivery failures. Send failures
// are transport errors and never propagate.
func (b *Bot) send(ctx context.Context, params *bot.SendMessageParams) *models.Message {
	if b.api == nil {
		return nil // for testing
	}

	message, err := b.api.SendMessage(ctx, params)
	if err != nil {
		b.logger.Warn("Failed to send message",
			zap.Any("chat_id", params.ChatID),
			zap.Error(err),
		)
		return nil
	}
	return message
}
