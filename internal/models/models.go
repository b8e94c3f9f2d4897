package models

import "time"

// ActionKind identifies a moderation enforcement action.
type ActionKind string

const (
	ActionDelete  ActionKind = "delete"
	ActionExplain ActionKind = "explain"
	ActionWarn    ActionKind = "warn"
	ActionBan     ActionKind = "ban"
	ActionUnban   ActionKind = "unban"
)

// ModerationAction is a single audit record of an enforcement action
// taken in a monitored chat.
type ModerationAction struct {
	At       time.Time
	ChatID   int64
	UserID   int64
	Kind     ActionKind
	Warnings int    // warning count after the action, 0 when not applicable
	Text     string // the offending message text, may be empty
}
