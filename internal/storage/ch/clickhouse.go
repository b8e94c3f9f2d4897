package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/anka-ss/bot-pro-perevod/internal/models"
)

type ClickHouseDB struct {
	conn clickhouse.Conn
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool) (*ClickHouseDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	// Configure TLS if enabled
	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	// Tables are managed via migrations (see migrations/ directory)
	// This method is kept for interface compatibility
	return nil
}

// RecordAction appends one enforcement action to the audit log
func (db *ClickHouseDB) RecordAction(ctx context.Context, action models.ModerationAction) error {
	err := db.conn.Exec(ctx, `INSERT INTO moderation_actions (at, chat_id, user_id, kind, warnings, text) VALUES (?, ?, ?, ?, ?, ?)`,
		action.At, action.ChatID, action.UserID, string(action.Kind), uint8(action.Warnings), action.Text)
	if err != nil {
		return fmt.Errorf("failed to record moderation action: %w", err)
	}
	return nil
}

// GetRecentActions returns the latest audit records, newest first
func (db *ClickHouseDB) GetRecentActions(ctx context.Context, limit int) ([]models.ModerationAction, error) {
	rows, err := db.conn.Query(ctx, `SELECT at, chat_id, user_id, kind, warnings, text FROM moderation_actions ORDER BY at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent actions: %w", err)
	}
	defer rows.Close()

	var actions []models.ModerationAction
	for rows.Next() {
		var action models.ModerationAction
		var kind string
		var warnings uint8
		if err := rows.Scan(&action.At, &action.ChatID, &action.UserID, &kind, &warnings, &action.Text); err != nil {
			return nil, fmt.Errorf("failed to scan moderation action: %w", err)
		}
		action.Kind = models.ActionKind(kind)
		action.Warnings = int(warnings)
		actions = append(actions, action)
	}
	return actions, nil
}

// CountActionsByKind returns per-kind action counts since the given time
func (db *ClickHouseDB) CountActionsByKind(ctx context.Context, since time.Time) (map[models.ActionKind]int, error) {
	rows, err := db.conn.Query(ctx, `SELECT kind, count() FROM moderation_actions WHERE at >= ? GROUP BY kind`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count actions: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ActionKind]int)
	for rows.Next() {
		var kind string
		var count uint64
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan action count: %w", err)
		}
		counts[models.ActionKind(kind)] = int(count)
	}
	return counts, nil
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
