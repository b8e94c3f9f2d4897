package bot

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/go-telegram/bot/models"
)

// Start runs the bot in polling mode and blocks until ctx is
// cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot in polling mode")

	// Remove webhook (if any was set previously)
	if _, err := b.api.DeleteWebhook(ctx, &bot.DeleteWebhookParams{}); err != nil {
		b.logger.Warn("Failed to delete webhook", zap.Error(err))
	}

	b.logger.Info("Bot started successfully. Waiting for updates...")
	b.api.Start(ctx)
	return nil
}

// StartWebhook registers the webhook with Telegram and processes
// queued updates until ctx is cancelled. The HTTP endpoint itself is
// served by the application's HTTP server via WebhookHandler.
func (b *Bot) StartWebhook(ctx context.Context, webhookURL string) error {
	b.logger.Info("Setting up webhook", zap.String("webhook_url", webhookURL))

	ok, err := b.api.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:            webhookURL + "/telegram-webhook",
		MaxConnections: 40,
	})
	if err != nil {
		b.logger.Error("Failed to set webhook", zap.Error(err), zap.String("webhook_url", webhookURL))
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	if !ok {
		return fmt.Errorf("telegram rejected webhook %s", webhookURL)
	}

	// Get webhook info to verify
	info, err := b.api.GetWebhookInfo(ctx)
	if err != nil {
		b.logger.Warn("Failed to get webhook info", zap.Error(err))
	} else {
		b.logger.Info("Webhook set successfully",
			zap.String("url", info.URL),
			zap.Int("pending_updates", info.PendingUpdateCount),
		)
	}

	b.api.StartWebhook(ctx)
	return nil
}

// WebhookHandler returns the HTTP handler that accepts Telegram
// updates in webhook mode.
func (b *Bot) WebhookHandler() http.HandlerFunc {
	return b.api.WebhookHandler()
}

// handleUpdate is the default handler for every inbound update.
func (b *Bot) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	}
}
