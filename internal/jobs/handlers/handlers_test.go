package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZoozFX/Telegram-1-sub000/internal/copytrading"
	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
	"github.com/ZoozFX/Telegram-1-sub000/internal/i18n"
	"github.com/ZoozFX/Telegram-1-sub000/internal/jobs"
	"github.com/ZoozFX/Telegram-1-sub000/internal/repository"
)

type fakeProfileRepo struct {
	profiles map[int64]*domain.CopyTradingProfile
	contacts map[domain.SubscriptionStatus][]repository.SubscriberContact
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: make(map[int64]*domain.CopyTradingProfile),
		contacts: make(map[domain.SubscriptionStatus][]repository.SubscriberContact),
	}
}

func (f *fakeProfileRepo) FindByUserID(_ context.Context, userID int64) (*domain.CopyTradingProfile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, profile *domain.CopyTradingProfile) error {
	stored := *profile
	f.profiles[profile.UserID] = &stored
	return nil
}

func (f *fakeProfileRepo) UpdateStatus(_ context.Context, userID int64, status domain.SubscriptionStatus) error {
	profile, ok := f.profiles[userID]
	if !ok {
		return sql.ErrNoRows
	}
	profile.Status = status
	return nil
}

func (f *fakeProfileRepo) ListContactsByStatus(_ context.Context, status domain.SubscriptionStatus) ([]repository.SubscriberContact, error) {
	return f.contacts[status], nil
}

type sentMessage struct {
	telegramID int64
	text       string
}

type recordingNotifier struct {
	sent    []sentMessage
	failFor map[int64]bool
}

func (n *recordingNotifier) SendMessage(_ context.Context, telegramID int64, text string) error {
	if n.failFor[telegramID] {
		return fmt.Errorf("blocked by user %d", telegramID)
	}
	n.sent = append(n.sent, sentMessage{telegramID: telegramID, text: text})
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()

	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("en.yaml", `
en:
  signup:
    activated: "Your subscription is now active."
    renewal_reminder: "Time to renew your subscription."
`)
	write("ar.yaml", `
ar:
  signup:
    activated: "اشتراكك نشط الآن."
    renewal_reminder: "حان وقت تجديد اشتراكك."
`)

	catalog, err := i18n.LoadFromDir(dir, domain.LanguageEnglish)
	require.NoError(t, err)
	return catalog
}

func activationSetup(t *testing.T) (*ProfileActivationHandler, *fakeProfileRepo, *recordingNotifier) {
	t.Helper()

	repo := newFakeProfileRepo()
	notifier := &recordingNotifier{failFor: make(map[int64]bool)}
	svc := copytrading.NewService(repo, testLogger())
	return NewProfileActivationHandler(svc, notifier, testCatalog(t), testLogger()), repo, notifier
}

func TestProfileActivationActivatesAndNotifies(t *testing.T) {
	handler, repo, notifier := activationSetup(t)

	repo.profiles[7] = &domain.CopyTradingProfile{
		UserID:   7,
		FullName: "Dana Haddad",
		Status:   domain.SubscriptionPending,
	}

	task, err := jobs.NewProfileActivationTask(jobs.ProfileActivationPayload{
		UserID:     7,
		TelegramID: 700,
		Language:   domain.LanguageArabic,
	})
	require.NoError(t, err)

	require.NoError(t, handler.ProcessTask(context.Background(), task))

	assert.Equal(t, domain.SubscriptionActive, repo.profiles[7].Status)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(700), notifier.sent[0].telegramID)
	assert.Equal(t, "اشتراكك نشط الآن.", notifier.sent[0].text)
}

func TestProfileActivationSkipsMissingProfile(t *testing.T) {
	handler, _, notifier := activationSetup(t)

	task, err := jobs.NewProfileActivationTask(jobs.ProfileActivationPayload{
		UserID:     404,
		TelegramID: 40400,
		Language:   domain.LanguageEnglish,
	})
	require.NoError(t, err)

	// Cancelled between signup and activation: the task completes
	// without a retry and nobody is notified.
	require.NoError(t, handler.ProcessTask(context.Background(), task))
	assert.Empty(t, notifier.sent)
}

func TestProfileActivationRejectsMalformedPayload(t *testing.T) {
	handler, _, _ := activationSetup(t)

	task := asynq.NewTask(jobs.TaskTypeProfileActivation, []byte("{"))

	err := handler.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestRenewalReminderSurvivesDeliveryFailure(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.contacts[domain.SubscriptionActive] = []repository.SubscriberContact{
		{UserID: 1, TelegramID: 100, FullName: "Dana Haddad", Language: domain.LanguageArabic},
		{UserID: 2, TelegramID: 200, FullName: "Omar Nasser", Language: domain.LanguageEnglish},
	}

	notifier := &recordingNotifier{failFor: map[int64]bool{100: true}}
	svc := copytrading.NewService(repo, testLogger())
	handler := NewRenewalReminderHandler(svc, notifier, testCatalog(t), testLogger())

	require.NoError(t, handler.ProcessTask(context.Background(), jobs.NewRenewalReminderTask()))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(200), notifier.sent[0].telegramID)
	assert.Equal(t, "Time to renew your subscription.", notifier.sent[0].text)
}

func TestStateSweepReapsOnlyLeakedKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("user:state:1", "leaked"))
	require.NoError(t, mr.Set("user:state:2", "fresh"))
	mr.SetTTL("user:state:2", 30*time.Minute)
	require.NoError(t, mr.Set("idempotency:abc", "leaked"))
	require.NoError(t, mr.Set("submission:counter", "untouched"))

	handler := NewStateSweepHandler(client, testLogger())
	require.NoError(t, handler.ProcessTask(context.Background(), jobs.NewStateSweepTask()))

	assert.False(t, mr.Exists("user:state:1"))
	assert.False(t, mr.Exists("idempotency:abc"))
	assert.True(t, mr.Exists("user:state:2"))
	assert.True(t, mr.Exists("submission:counter"))
}
