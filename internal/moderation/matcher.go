package moderation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchResult is the classification outcome for a single message.
type MatchResult int

const (
	MatchNone MatchResult = iota
	MatchForbidden
	MatchDeletionInquiry
	MatchWarning
)

// String returns a short name for the result, used in logs.
func (r MatchResult) String() string {
	switch r {
	case MatchForbidden:
		return "forbidden"
	case MatchDeletionInquiry:
		return "deletion_inquiry"
	case MatchWarning:
		return "warning"
	default:
		return "none"
	}
}

// Matcher classifies message text against three disjoint phrase
// categories plus a safe-context override list. Classification is a
// pure function of the text and the configured lists.
type Matcher struct {
	forbidden []string
	warning   []string
	deletion  []string
	safe      []string
}

// NewMatcher creates a matcher with the default phrase lists.
func NewMatcher() *Matcher {
	return NewMatcherWithLists(defaultForbiddenPhrases, defaultWarningPhrases, defaultDeletionInquiryPhrases, defaultSafeContexts)
}

// NewMatcherWithLists creates a matcher with custom phrase lists.
// Phrases are matched case-insensitively.
func NewMatcherWithLists(forbidden, warning, deletion, safe []string) *Matcher {
	return &Matcher{
		forbidden: lowerAll(forbidden),
		warning:   lowerAll(warning),
		deletion:  lowerAll(deletion),
		safe:      lowerAll(safe),
	}
}

// Classify returns the category the text falls into. The safe-context
// check runs first and suppresses everything else; after that the
// priority order is Forbidden > DeletionInquiry > Warning.
func (m *Matcher) Classify(text string) MatchResult {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return MatchNone
	}

	for _, context := range m.safe {
		if strings.Contains(normalized, context) {
			return MatchNone
		}
	}

	if matchesAny(normalized, m.forbidden) {
		return MatchForbidden
	}
	if matchesAny(normalized, m.deletion) {
		return MatchDeletionInquiry
	}
	if matchesAny(normalized, m.warning) {
		return MatchWarning
	}
	return MatchNone
}

func lowerAll(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchesAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if containsBounded(text, phrase) {
			return true
		}
	}
	return false
}

// containsBounded reports whether phrase occurs in text delimited by
// word boundaries: the runes immediately before and after the
// occurrence must be non-alphanumeric (or the string boundary). A
// naive substring check would flag short phrases like "лс" inside
// unrelated longer words. Boundaries are checked at the rune level
// because regexp's \b only understands ASCII word characters and the
// phrase lists are Cyrillic.
func containsBounded(text, phrase string) bool {
	for start := 0; start <= len(text)-len(phrase); {
		i := strings.Index(text[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		if boundaryBefore(text, i) && boundaryAfter(text, i+len(phrase)) {
			return true
		}
		// UTF-8 is self-synchronizing, so restarting one byte past the
		// match cannot produce a misaligned hit.
		start = i + 1
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
