package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/anka-ss/bot-pro-perevod/internal/bot"
	"github.com/anka-ss/bot-pro-perevod/internal/config"
	"github.com/anka-ss/bot-pro-perevod/internal/storage"
	"github.com/anka-ss/bot-pro-perevod/internal/storage/ch"
	"github.com/anka-ss/bot-pro-perevod/internal/storage/stubs"
)

// App represents the application
type App struct {
	config *config.Config
	logger *zap.Logger
	db     storage.Storage
	bot    *bot.Bot
	server *http.Server
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Load configuration from environment variables. Configuration
	// errors are fatal: the gate must never run unconfigured.
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	app := &App{config: cfg, logger: logger}

	logger.Info("Starting moderation bot",
		zap.Int64s("monitored_chats", cfg.MonitoredChatIDs),
		zap.Ints("monitored_topics", cfg.MonitoredTopicIDs),
		zap.Int64("reports_chat", cfg.ReportsChatID),
	)

	// Initialize the audit log
	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	// Initialize bot
	if err := app.initBot(); err != nil {
		return nil, err
	}

	// Initialize HTTP server
	app.initHTTPServer()

	return app, nil
}

// initDatabase initializes the audit log storage
func (a *App) initDatabase() error {
	var db storage.Storage
	if a.config.UseMockDB {
		a.logger.Info("Using in-memory audit log")
		db = stubs.NewMockDB()
	} else {
		tlsStatus := "without TLS"
		if a.config.ClickHouseUseTLS {
			tlsStatus = "with TLS"
		}
		a.logger.Info("Connecting to ClickHouse",
			zap.String("host", a.config.ClickHouseHost),
			zap.Int("port", a.config.ClickHousePort),
			zap.String("database", a.config.ClickHouseDatabase),
			zap.String("user", a.config.ClickHouseUser),
			zap.String("tls", tlsStatus),
		)
		clickhouseDB, err := ch.NewClickHouseDB(
			a.config.ClickHouseHost,
			a.config.ClickHousePort,
			a.config.ClickHouseDatabase,
			a.config.ClickHouseUser,
			a.config.ClickHousePassword,
			a.config.ClickHouseUseTLS,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		db = clickhouseDB
	}

	ctx := context.Background()
	if err := db.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize audit log: %w", err)
	}
	a.logger.Info("Audit log initialized")

	a.db = db
	return nil
}

// initBot initializes the Telegram bot
func (a *App) initBot() error {
	telegramBot, err := bot.NewBot(a.config, a.db, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	a.bot = telegramBot
	return nil
}

// initHTTPServer initializes the HTTP server for health checks,
// runtime stats and the webhook endpoint
func (a *App) initHTTPServer() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // Default port
	}

	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})

	// Root endpoint
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		mode := "polling"
		if a.config.WebhookMode {
			mode = "webhook"
		}
		fmt.Fprintf(w, "Moderation bot is running (mode: %s)", mode)
	})

	// Runtime moderation counters
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		stats := a.bot.Stats()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"total_warnings_issued": stats.TotalWarningsIssued,
			"users_with_warnings":   stats.UsersWithWarnings,
			"blacklisted_users":     stats.BlacklistedUsers,
			"monitored_groups":      len(a.config.MonitoredChatIDs),
			"monitored_topics":      len(a.config.MonitoredTopicIDs),
		})
	})

	// Webhook endpoint (only used in webhook mode)
	mux.HandleFunc("/telegram-webhook", a.bot.WebhookHandler())

	a.server = &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Start HTTP server in background
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("port", port))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if a.config.WebhookMode {
			a.logger.Info("Starting bot in WEBHOOK mode", zap.String("url", a.config.WebhookURL))
			errCh <- a.bot.StartWebhook(ctx, a.config.WebhookURL)
		} else {
			a.logger.Info("Starting bot in POLLING mode")
			errCh <- a.bot.Start(ctx)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			a.logger.Error("Bot stopped", zap.Error(err))
			_ = a.Shutdown()
			return err
		}
	}

	a.logger.Info("Shutting down...")
	return a.Shutdown()
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	// Shutdown HTTP server gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// Close the audit log
	if err := a.db.Close(); err != nil {
		a.logger.Error("Error closing audit log", zap.Error(err))
		return err
	}

	a.logger.Info("Shutdown complete")
	return nil
}
