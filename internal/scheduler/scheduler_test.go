package scheduler_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shabelski89/pushups/internal/config"
	"github.com/shabelski89/pushups/internal/db"
	"github.com/shabelski89/pushups/internal/exercise"
	"github.com/shabelski89/pushups/internal/messages"
	"github.com/shabelski89/pushups/internal/models"
	"github.com/shabelski89/pushups/internal/scheduler"
	"github.com/shabelski89/pushups/internal/store"
	"github.com/shabelski89/pushups/internal/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMsg struct {
	ChatID int64
	Text   string
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMsg
	failFor map[int64]error
}

func (f *fakeSender) SendMessage(chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[chatID]; ok {
		return err
	}
	f.sent = append(f.sent, sentMsg{ChatID: chatID, Text: text})
	return nil
}

func (f *fakeSender) messages() []sentMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMsg(nil), f.sent...)
}

func testConfig() *config.Config {
	return &config.Config{
		Goals:          map[exercise.Kind]int{exercise.Pushups: 100},
		Location:       time.UTC,
		RemindEvery:    2 * time.Hour,
		RemindFromHour: 9,
		RemindToHour:   21,
		ReportHour:     22,
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	d, err := db.Open(":memory:")
	require.NoError(t, err)
	d.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = d.Close() })
	return store.New(d)
}

func at(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 8, 28, hour, 0, 0, 0, time.UTC)
	}
}

func seedUsers(t *testing.T, s *store.Store, usernames ...string) {
	t.Helper()
	t0 := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	for i, name := range usernames {
		require.NoError(t, s.RegisterUser(context.Background(), models.User{
			ID:        int64(i + 1),
			Username:  name,
			CreatedAt: t0.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestRunReminders_OutsideWindowIsNoOp(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, "alice")
	sender := &fakeSender{}
	svc := &scheduler.Service{Store: st, Bot: sender, Cfg: testConfig(), Now: at(22)}

	svc.RunReminders()

	assert.Empty(t, sender.messages())
}

func TestRunReminders_OnlyUnderachievers(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, st, "alice", "bob")
	require.NoError(t, st.RecordEntry(ctx, 1, exercise.Pushups, "2026-08-28", 100))
	require.NoError(t, st.RecordEntry(ctx, 2, exercise.Pushups, "2026-08-28", 60))

	sender := &fakeSender{}
	svc := &scheduler.Service{Store: st, Bot: sender, Cfg: testConfig(), Now: at(12)}

	svc.RunReminders()

	sent := sender.messages()
	require.Len(t, sent, 1, "achievers get no reminder")
	assert.Equal(t, int64(2), sent[0].ChatID)
	assert.Contains(t, sent[0].Text, "60/100")
	assert.Contains(t, sent[0].Text, "40")
}

func TestRunReminders_GroupVariantClosestFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, st, "alice", "bob", "carol")
	require.NoError(t, st.RecordEntry(ctx, 1, exercise.Pushups, "2026-08-28", 20))
	require.NoError(t, st.RecordEntry(ctx, 2, exercise.Pushups, "2026-08-28", 90))
	require.NoError(t, st.RecordEntry(ctx, 3, exercise.Pushups, "2026-08-28", 50))

	cfg := testConfig()
	cfg.RemindInGroup = true
	cfg.GroupChatID = -500
	sender := &fakeSender{}
	svc := &scheduler.Service{Store: st, Bot: sender, Cfg: cfg, Now: at(12)}

	svc.RunReminders()

	sent := sender.messages()
	require.Len(t, sent, 3)
	for _, m := range sent {
		assert.Equal(t, int64(-500), m.ChatID)
	}
	// closest to goal first
	assert.Contains(t, sent[0].Text, "@bob")
	assert.Contains(t, sent[1].Text, "@carol")
	assert.Contains(t, sent[2].Text, "@alice")
}

func TestRunReminders_SendFailureDoesNotStopOthers(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, "alice", "bob")

	sender := &fakeSender{failFor: map[int64]error{1: telegram.ErrForbidden}}
	svc := &scheduler.Service{Store: st, Bot: sender, Cfg: testConfig(), Now: at(12)}

	svc.RunReminders()

	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(2), sent[0].ChatID)
}

func TestRunReminders_OncePerDayPolicy(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, "alice")

	cfg := testConfig()
	cfg.RemindOncePerDay = true
	sender := &fakeSender{}
	svc := &scheduler.Service{Store: st, Bot: sender, Cfg: cfg, Now: at(12)}

	svc.RunReminders()
	svc.RunReminders()
	require.Len(t, sender.messages(), 1, "second tick in the same day is suppressed")

	// next day the suppression set resets
	svc.Now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }
	svc.RunReminders()
	require.Len(t, sender.messages(), 2)
}

func TestRunReminders_NaggingByDefault(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, "alice")

	sender := &fakeSender{}
	svc := &scheduler.Service{Store: st, Bot: sender, Cfg: testConfig(), Now: at(12)}

	svc.RunReminders()
	svc.RunReminders()

	assert.Len(t, sender.messages(), 2, "no suppression unless configured")
}

func TestRunDailyReport_ToGroup(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, st, "alice", "bob")
	require.NoError(t, st.RecordEntry(ctx, 1, exercise.Pushups, "2026-08-28", 100))
	require.NoError(t, st.RecordEntry(ctx, 2, exercise.Pushups, "2026-08-28", 60))

	cfg := testConfig()
	cfg.GroupChatID = -500
	sender := &fakeSender{}
	svc := &scheduler.Service{Store: st, Bot: sender, Cfg: cfg, Now: at(22)}

	svc.RunDailyReport()

	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(-500), sent[0].ChatID)
	assert.Contains(t, sent[0].Text, "@alice")
	assert.Contains(t, sent[0].Text, "@bob — 60 (40 to go)")
	assert.NotContains(t, sent[0].Text, messages.MissingGroupWarning)
	aliceIdx := strings.Index(sent[0].Text, "@alice")
	bobIdx := strings.Index(sent[0].Text, "@bob")
	assert.Less(t, aliceIdx, bobIdx, "achiever listed before underachiever")
}

func TestRunDailyReport_FallsBackToAdminWithWarning(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, "alice")

	cfg := testConfig()
	cfg.AdminChatID = 777
	sender := &fakeSender{}
	svc := &scheduler.Service{Store: st, Bot: sender, Cfg: cfg, Now: at(22)}

	svc.RunDailyReport()

	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(777), sent[0].ChatID)
	assert.True(t, strings.HasPrefix(sent[0].Text, messages.MissingGroupWarning))
}

func TestRunDailyReport_NoDestinationConfigured(t *testing.T) {
	st := newTestStore(t)
	seedUsers(t, st, "alice")

	sender := &fakeSender{}
	svc := &scheduler.Service{Store: st, Bot: sender, Cfg: testConfig(), Now: at(22)}

	svc.RunDailyReport()

	assert.Empty(t, sender.messages())
}
