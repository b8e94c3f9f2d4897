package moderation

import "time"

// EffectKind identifies an outbound command produced by the engine.
type EffectKind int

const (
	EffectDeleteMessage EffectKind = iota
	EffectSendExplanation
	EffectSendWarning
	EffectRestrictUser
	EffectSendBanNotice
	EffectSendReport
)

// Effect is a single outbound command. Rendering the message text and
// delivering it to Telegram is the caller's job; the engine never
// performs I/O, so a slow or failing transport cannot stall the next
// decision.
type Effect struct {
	Kind    EffectKind
	Warning int // 1-based warning number, set for EffectSendWarning
}

// Engine applies the escalation policy to classified messages and
// owns all mutations of the user store.
type Engine struct {
	store *UserStore
}

// NewEngine creates an engine over the given store.
func NewEngine(store *UserStore) *Engine {
	return &Engine{store: store}
}

// Handle decides what to do about one classified message and applies
// the state change. It returns the effects to deliver, in order.
func (e *Engine) Handle(userID int64, result MatchResult, now time.Time) []Effect {
	switch result {
	case MatchForbidden:
		// Delete and stop. A forbidden match is never also scored as
		// a warning.
		return []Effect{{Kind: EffectDeleteMessage}}

	case MatchDeletionInquiry:
		if e.store.ShouldExplain(userID, now) {
			return []Effect{{Kind: EffectSendExplanation}}
		}
		return nil

	case MatchWarning:
		count, escalated := e.store.AddWarning(userID)
		if escalated {
			return []Effect{
				{Kind: EffectRestrictUser},
				{Kind: EffectSendBanNotice},
				{Kind: EffectSendReport},
			}
		}
		if count == 0 {
			// Already blacklisted; the gate normally drops these
			// before classification.
			return nil
		}
		return []Effect{{Kind: EffectSendWarning, Warning: count}}
	}
	return nil
}

// Unban resets the user's warnings and blacklist membership together.
// It reports whether the user had any moderation state.
func (e *Engine) Unban(userID int64) bool {
	return e.store.Unban(userID)
}
