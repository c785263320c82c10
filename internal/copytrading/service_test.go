package copytrading

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZoozFX/Telegram-1-sub000/internal/domain"
	"github.com/ZoozFX/Telegram-1-sub000/internal/repository"
)

type fakeProfileRepo struct {
	profiles map[int64]*domain.CopyTradingProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[int64]*domain.CopyTradingProfile)}
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
	profile.ID = int64(len(f.profiles) + 1)
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
	var contacts []repository.SubscriberContact
	for _, profile := range f.profiles {
		if profile.Status == status {
			contacts = append(contacts, repository.SubscriberContact{
				UserID:   profile.UserID,
				FullName: profile.FullName,
			})
		}
	}
	return contacts, nil
}

func testService(t *testing.T) (*Service, *fakeProfileRepo) {
	t.Helper()

	repo := newFakeProfileRepo()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, log), repo
}

func TestValidateFullName(t *testing.T) {
	svc, _ := testService(t)

	assert.NoError(t, svc.ValidateFullName("Dana Haddad"))
	assert.NoError(t, svc.ValidateFullName("دانة حداد"))
	assert.Error(t, svc.ValidateFullName("ab"))
	assert.Error(t, svc.ValidateFullName("   "))
}

func TestValidateEmail(t *testing.T) {
	svc, _ := testService(t)

	assert.NoError(t, svc.ValidateEmail("dana@example.com"))
	assert.NoError(t, svc.ValidateEmail(" dana@example.com "))
	assert.Error(t, svc.ValidateEmail("dana@"))
	assert.Error(t, svc.ValidateEmail("not-an-email"))
	assert.Error(t, svc.ValidateEmail(""))
}

func TestValidatePhone(t *testing.T) {
	svc, _ := testService(t)

	assert.NoError(t, svc.ValidatePhone("+9715551234567"))
	assert.NoError(t, svc.ValidatePhone("055 512 3456"))
	assert.NoError(t, svc.ValidatePhone("(055) 512-3456"))
	assert.Error(t, svc.ValidatePhone("12345"))
	assert.Error(t, svc.ValidatePhone("call me"))
	assert.Error(t, svc.ValidatePhone(""))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+9715551234567", NormalizePhone(" +971 (555) 123-45.67 "))
}

func TestSubmitStoresPendingProfile(t *testing.T) {
	svc, repo := testService(t)

	profile, err := svc.Submit(context.Background(), 7, "Dana Haddad", "dana@example.com", "055 512 3456")
	require.NoError(t, err)

	assert.Equal(t, domain.SubscriptionPending, profile.Status)
	assert.Equal(t, "0555123456", profile.Phone)
	assert.Contains(t, repo.profiles, int64(7))
}

func TestSubmitRejectsActiveProfile(t *testing.T) {
	svc, repo := testService(t)
	repo.profiles[7] = &domain.CopyTradingProfile{UserID: 7, Status: domain.SubscriptionActive}

	_, err := svc.Submit(context.Background(), 7, "Dana Haddad", "dana@example.com", "0555123456")
	require.ErrorIs(t, err, ErrAlreadySubscribed)
}

func TestSubmitReplacesCancelledProfile(t *testing.T) {
	svc, repo := testService(t)
	repo.profiles[7] = &domain.CopyTradingProfile{UserID: 7, Status: domain.SubscriptionCancelled}

	profile, err := svc.Submit(context.Background(), 7, "Dana Haddad", "dana@example.com", "0555123456")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionPending, profile.Status)
}

func TestActivate(t *testing.T) {
	svc, repo := testService(t)
	repo.profiles[7] = &domain.CopyTradingProfile{UserID: 7, Status: domain.SubscriptionPending}

	require.NoError(t, svc.Activate(context.Background(), 7))
	assert.Equal(t, domain.SubscriptionActive, repo.profiles[7].Status)

	require.ErrorIs(t, svc.Activate(context.Background(), 99), ErrNoProfile)
}

func TestCancel(t *testing.T) {
	svc, repo := testService(t)
	repo.profiles[7] = &domain.CopyTradingProfile{UserID: 7, Status: domain.SubscriptionActive}

	cancelled, err := svc.Cancel(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.Equal(t, domain.SubscriptionCancelled, repo.profiles[7].Status)

	// Cancelling again, or with no profile at all, is a quiet no-op.
	cancelled, err = svc.Cancel(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, cancelled)

	cancelled, err = svc.Cancel(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestProfileMissing(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.Profile(context.Background(), 1)
	require.ErrorIs(t, err, ErrNoProfile)
}
