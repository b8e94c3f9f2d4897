package bot

import (
	"context"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	audit "github.com/anka-ss/bot-pro-perevod/internal/models"
	"github.com/anka-ss/bot-pro-perevod/internal/moderation"
	"github.com/anka-ss/bot-pro-perevod/internal/storage/stubs"
)

// Note: the Telegram API is left nil in these tests; send/delete
// helpers short-circuit and the tests assert on internal state and
// the audit log instead of outbound traffic.

const (
	testChatID    = int64(-1001)
	testReportsID = int64(-1009)
	testAdminID   = int64(-555)
)

// stubRoles answers role lookups from a fixed map.
type stubRoles struct {
	admins map[int64]bool
}

func (s *stubRoles) ChatMemberRole(ctx context.Context, chatID, userID int64) (moderation.Role, error) {
	if s.admins[userID] {
		return moderation.RoleAdministrator, nil
	}
	return moderation.RoleMember, nil
}

func newTestBot(t *testing.T, roles moderation.RoleLookup) (*Bot, *stubs.MockDB) {
	t.Helper()

	db := stubs.NewMockDB()
	store := moderation.NewUserStore()
	logger := zap.NewNop()

	gate, err := moderation.NewGate([]int64{testChatID}, nil, testReportsID, roles, store, logger)
	require.NoError(t, err)

	b := &Bot{
		api:           nil, // Not needed for internal logic tests
		matcher:       moderation.NewMatcher(),
		store:         store,
		gate:          gate,
		roles:         roles,
		auditLog:      db,
		logger:        logger,
		adminChatID:   testAdminID,
		reportsChatID: testReportsID,
		sessions:      make(map[int64]SessionState),
		replyRoutes:   expirable.NewLRU[int, int64](replyRouteLimit, nil, replyRouteTTL),
	}
	b.engine = moderation.NewEngine(store)
	return b, db
}

func groupMessage(userID int64, text string) *models.Message {
	return &models.Message{
		ID:   1,
		From: &models.User{ID: userID, Username: "offender"},
		Chat: models.Chat{ID: testChatID, Type: models.ChatTypeSupergroup, Title: "Переводы"},
		Text: text,
	}
}

func privateMessage(userID int64, text string) *models.Message {
	return &models.Message{
		ID:   1,
		From: &models.User{ID: userID},
		Chat: models.Chat{ID: userID, Type: models.ChatTypePrivate},
		Text: text,
	}
}

func waitForAudit(t *testing.T, db *stubs.MockDB, want int) []audit.ModerationAction {
	t.Helper()

	var actions []audit.ModerationAction
	require.Eventually(t, func() bool {
		var err error
		actions, err = db.GetRecentActions(context.Background(), 100)
		require.NoError(t, err)
		return len(actions) >= want
	}, time.Second, 10*time.Millisecond)
	return actions
}

func TestBot_WarningEscalationEndToEnd(t *testing.T) {
	b, db := newTestBot(t, &stubRoles{})
	ctx := context.Background()
	userID := int64(100)

	// Three warning-phrase messages escalate to a permanent mute.
	for i := 0; i < 3; i++ {
		b.handleMessage(ctx, groupMessage(userID, "скинь машинку"))
	}

	assert.True(t, b.store.IsBlacklisted(userID))
	assert.Equal(t, 3, b.store.Warnings(userID))

	actions := waitForAudit(t, db, 3)
	counted := make(map[audit.ActionKind]int)
	for _, action := range actions {
		counted[action.Kind]++
	}
	assert.Equal(t, 2, counted[audit.ActionWarn])
	assert.Equal(t, 1, counted[audit.ActionBan])

	// A fourth message from the blacklisted user is dropped at the
	// gate: no further state change and no new audit record.
	b.handleMessage(ctx, groupMessage(userID, "скинь машинку"))
	assert.Equal(t, 3, b.store.Warnings(userID))
}

func TestBot_ForbiddenPhraseDoesNotWarn(t *testing.T) {
	b, db := newTestBot(t, &stubRoles{})
	ctx := context.Background()
	userID := int64(100)

	b.handleMessage(ctx, groupMessage(userID, "пиши в лс"))

	assert.Equal(t, 0, b.store.Warnings(userID))
	assert.False(t, b.store.IsBlacklisted(userID))

	actions := waitForAudit(t, db, 1)
	assert.Equal(t, audit.ActionDelete, actions[0].Kind)
}

func TestBot_AdminMessagesAreExempt(t *testing.T) {
	b, _ := newTestBot(t, &stubRoles{admins: map[int64]bool{200: true}})
	ctx := context.Background()

	b.handleMessage(ctx, groupMessage(200, "скинь машинку"))
	assert.Equal(t, 0, b.store.Warnings(200))
}

func TestBot_UnmonitoredChatIsIgnored(t *testing.T) {
	b, _ := newTestBot(t, &stubRoles{})
	ctx := context.Background()

	message := groupMessage(100, "скинь машинку")
	message.Chat.ID = -2002
	b.handleMessage(ctx, message)

	assert.Equal(t, 0, b.store.Warnings(100))
}

func TestBot_UnbanCommandResetsState(t *testing.T) {
	b, db := newTestBot(t, &stubRoles{admins: map[int64]bool{900: true}})
	ctx := context.Background()
	userID := int64(100)

	for i := 0; i < 3; i++ {
		b.handleMessage(ctx, groupMessage(userID, "скинь машинку"))
	}
	require.True(t, b.store.IsBlacklisted(userID))
	waitForAudit(t, db, 3)

	b.handleMessage(ctx, groupMessage(900, "/unban 100"))

	assert.False(t, b.store.IsBlacklisted(userID))
	assert.Equal(t, 0, b.store.Warnings(userID))

	actions := waitForAudit(t, db, 4)
	assert.Equal(t, audit.ActionUnban, actions[0].Kind)
}

func TestBot_UnbanRequiresAdmin(t *testing.T) {
	b, _ := newTestBot(t, &stubRoles{})
	ctx := context.Background()
	userID := int64(100)

	for i := 0; i < 3; i++ {
		b.handleMessage(ctx, groupMessage(userID, "скинь машинку"))
	}
	require.True(t, b.store.IsBlacklisted(userID))

	// A non-admin sender cannot unban.
	b.handleMessage(ctx, groupMessage(300, "/unban 100"))
	assert.True(t, b.store.IsBlacklisted(userID))
}

func TestBot_SupportSessionConsumedOnce(t *testing.T) {
	b, _ := newTestBot(t, &stubRoles{})
	ctx := context.Background()
	userID := int64(100)

	// Pressing "write to admins" arms the one-shot state.
	b.handleMessage(ctx, privateMessage(userID, menuButtonWriteAdmins))
	assert.Equal(t, StateAwaitingAdminMessage, b.session(userID))

	// The next message consumes it.
	b.handleMessage(ctx, privateMessage(userID, "привет, у меня вопрос @user"))
	assert.Equal(t, StateChoosing, b.session(userID))

	// A further message is not forwarded again; the state stays idle.
	b.handleMessage(ctx, privateMessage(userID, "еще одно сообщение"))
	assert.Equal(t, StateChoosing, b.session(userID))
}

func TestBot_SupportCancelClearsSession(t *testing.T) {
	b, _ := newTestBot(t, &stubRoles{})
	ctx := context.Background()
	userID := int64(100)

	b.handleMessage(ctx, privateMessage(userID, menuButtonWriteAdmins))
	require.Equal(t, StateAwaitingAdminMessage, b.session(userID))

	b.handleMessage(ctx, privateMessage(userID, "/cancel"))
	assert.Equal(t, StateChoosing, b.session(userID))
}

func TestBot_SupportUnavailableWithoutAdminChat(t *testing.T) {
	b, _ := newTestBot(t, &stubRoles{})
	b.adminChatID = 0
	ctx := context.Background()
	userID := int64(100)

	b.handleMessage(ctx, privateMessage(userID, menuButtonWriteAdmins))
	assert.Equal(t, StateChoosing, b.session(userID))
}

func TestBot_ReplyRouteExpires(t *testing.T) {
	routes := expirable.NewLRU[int, int64](8, nil, 50*time.Millisecond)
	routes.Add(42, int64(100))

	userID, ok := routes.Get(42)
	require.True(t, ok)
	assert.Equal(t, int64(100), userID)

	time.Sleep(80 * time.Millisecond)
	_, ok = routes.Get(42)
	assert.False(t, ok)
}

func TestBot_AdminReplyWithoutRouteIsSafe(t *testing.T) {
	b, _ := newTestBot(t, &stubRoles{})
	ctx := context.Background()

	message := &models.Message{
		ID:   7,
		From: &models.User{ID: 900},
		Chat: models.Chat{ID: testAdminID, Type: models.ChatTypeSupergroup},
		Text: "ответ",
		ReplyToMessage: &models.Message{
			ID:   42,
			Chat: models.Chat{ID: testAdminID},
		},
	}

	// No route for message 42; must not panic or misroute.
	b.handleMessage(ctx, message)
}

func TestBot_PanicRecovery(t *testing.T) {
	b, _ := newTestBot(t, &stubRoles{})

	// A message without a sender must not crash the update loop.
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("handleMessage panicked: %v", r)
		}
	}()
	b.handleMessage(context.Background(), &models.Message{Chat: models.Chat{ID: testChatID}})
}

func TestCommandParsing(t *testing.T) {
	tests := []struct {
		text     string
		wantName string
		wantArgs string
	}{
		{"/warnings 123", "warnings", "123"},
		{"/unban@ProPerevod_bot 42", "unban", "42"},
		{"/MISHA", "misha", ""},
		{"/blacklist", "blacklist", ""},
		{"not a command", "", ""},
		{"", "", ""},
		{"/", "", ""},
	}

	for _, tt := range tests {
		name, args := command(tt.text)
		assert.Equal(t, tt.wantName, name, "text: %q", tt.text)
		assert.Equal(t, tt.wantArgs, args, "text: %q", tt.text)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "@misha", displayName(&models.User{ID: 1, Username: "misha", FirstName: "Миша"}))
	assert.Equal(t, "Миша", displayName(&models.User{ID: 1, FirstName: "Миша"}))
	assert.Equal(t, "", displayName(nil))
}
