package service

import (
	"context"
	"testing"
	"time"

	"github.com/astrahq/auth-service/internal/dto"
	apperrors "github.com/astrahq/auth-service/internal/errors"
	"github.com/astrahq/auth-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resetFixture struct {
	service  *PasswordResetService
	auth     *AuthService
	users    *fakeUserStore
	resets   *fakeResetStore
	notifier *fakeNotifier
	cache    *fakeUserCache
}

func newResetFixture() *resetFixture {
	users := newFakeUserStore()
	resets := newFakeResetStore()
	notifier := &fakeNotifier{}
	cache := newFakeUserCache()
	tokenSvc := NewTokenService("test-secret", 24*time.Hour, newFakeTokenStore())

	return &resetFixture{
		service:  NewPasswordResetService(users, resets, notifier, cache),
		auth:     NewAuthService(users, tokenSvc, notifier, cache),
		users:    users,
		resets:   resets,
		notifier: notifier,
		cache:    cache,
	}
}

func (f *resetFixture) seedVerified(email, password string) {
	verifiedAt := time.Now().Add(-time.Hour)
	f.users.seed(&model.User{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           email,
		Password:        testHash(password),
		Active:          true,
		EmailVerifiedAt: &verifiedAt,
	})
}

func TestCreateRequest(t *testing.T) {
	f := newResetFixture()
	f.seedVerified("ada@example.com", "secret-password")

	err := f.service.CreateRequest(context.Background(), &dto.ResetCreateRequest{Email: "ada@example.com"})
	require.NoError(t, err)
	require.Len(t, f.notifier.resetRequests, 1)

	token := f.notifier.resetRequests[0]
	assert.NotEmpty(t, token)

	found, err := f.service.Find(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", found.Email)
	assert.Equal(t, token, found.Token)
}

func TestCreateRequestUnknownEmail(t *testing.T) {
	f := newResetFixture()

	err := f.service.CreateRequest(context.Background(), &dto.ResetCreateRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Empty(t, f.notifier.resetRequests)
}

func TestCreateRequestReplacesPreviousToken(t *testing.T) {
	f := newResetFixture()
	f.seedVerified("ada@example.com", "secret-password")

	require.NoError(t, f.service.CreateRequest(context.Background(), &dto.ResetCreateRequest{Email: "ada@example.com"}))
	require.NoError(t, f.service.CreateRequest(context.Background(), &dto.ResetCreateRequest{Email: "ada@example.com"}))
	require.Len(t, f.notifier.resetRequests, 2)

	oldToken, newToken := f.notifier.resetRequests[0], f.notifier.resetRequests[1]
	require.NotEqual(t, oldToken, newToken)

	_, err := f.service.Find(context.Background(), oldToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken, "only the latest token resolves")

	_, err = f.service.Find(context.Background(), newToken)
	assert.NoError(t, err)
}

func TestFindExpiredTokenIsPurged(t *testing.T) {
	f := newResetFixture()
	f.seedVerified("ada@example.com", "secret-password")
	require.NoError(t, f.service.CreateRequest(context.Background(), &dto.ResetCreateRequest{Email: "ada@example.com"}))
	token := f.notifier.resetRequests[0]

	// Jump the clock 721 minutes ahead of the token's issue time
	f.service.now = func() time.Time { return time.Now().Add(721 * time.Minute) }

	_, err := f.service.Find(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)

	// The row is gone, not just rejected
	f.service.now = time.Now
	_, err = f.service.Find(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestFindTokenJustInsideWindow(t *testing.T) {
	f := newResetFixture()
	f.seedVerified("ada@example.com", "secret-password")
	require.NoError(t, f.service.CreateRequest(context.Background(), &dto.ResetCreateRequest{Email: "ada@example.com"}))
	token := f.notifier.resetRequests[0]

	f.service.now = func() time.Time { return time.Now().Add(719 * time.Minute) }

	found, err := f.service.Find(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, token, found.Token)
}

func TestReset(t *testing.T) {
	f := newResetFixture()
	f.seedVerified("ada@example.com", "secret-password")
	require.NoError(t, f.service.CreateRequest(context.Background(), &dto.ResetCreateRequest{Email: "ada@example.com"}))
	token := f.notifier.resetRequests[0]

	user, err := f.service.Reset(context.Background(), &dto.ResetApplyRequest{
		Email:                "ada@example.com",
		Password:             "brand-new-password",
		PasswordConfirmation: "brand-new-password",
		Token:                token,
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	require.Len(t, f.notifier.resetSuccess, 1)

	_, err = f.auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "brand-new-password",
	})
	assert.NoError(t, err, "new password works for login")

	_, err = f.auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials, "old password is dead")
}

func TestResetTokenIsSingleUse(t *testing.T) {
	f := newResetFixture()
	f.seedVerified("ada@example.com", "secret-password")
	require.NoError(t, f.service.CreateRequest(context.Background(), &dto.ResetCreateRequest{Email: "ada@example.com"}))
	token := f.notifier.resetRequests[0]

	req := &dto.ResetApplyRequest{
		Email:                "ada@example.com",
		Password:             "brand-new-password",
		PasswordConfirmation: "brand-new-password",
		Token:                token,
	}

	_, err := f.service.Reset(context.Background(), req)
	require.NoError(t, err)

	_, err = f.service.Reset(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken, "second redemption fails")
}

func TestResetRequiresMatchingEmail(t *testing.T) {
	f := newResetFixture()
	f.seedVerified("ada@example.com", "secret-password")
	f.seedVerified("eve@example.com", "another-password")
	require.NoError(t, f.service.CreateRequest(context.Background(), &dto.ResetCreateRequest{Email: "ada@example.com"}))
	token := f.notifier.resetRequests[0]

	_, err := f.service.Reset(context.Background(), &dto.ResetApplyRequest{
		Email:                "eve@example.com",
		Password:             "brand-new-password",
		PasswordConfirmation: "brand-new-password",
		Token:                token,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken, "a stolen token is useless with another email")
}

func TestResetSkipsExpiryCheck(t *testing.T) {
	// Only the find endpoint ages tokens out; redeeming directly still
	// works for an old token that was never looked up.
	f := newResetFixture()
	f.seedVerified("ada@example.com", "secret-password")
	require.NoError(t, f.service.CreateRequest(context.Background(), &dto.ResetCreateRequest{Email: "ada@example.com"}))
	token := f.notifier.resetRequests[0]

	f.service.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	_, err := f.service.Reset(context.Background(), &dto.ResetApplyRequest{
		Email:                "ada@example.com",
		Password:             "brand-new-password",
		PasswordConfirmation: "brand-new-password",
		Token:                token,
	})
	assert.NoError(t, err)
}

func TestResetValidation(t *testing.T) {
	f := newResetFixture()

	_, err := f.service.Reset(context.Background(), &dto.ResetApplyRequest{
		Email:                "ada@example.com",
		Password:             "brand-new-password",
		PasswordConfirmation: "different-password",
		Token:                "some-token",
	})
	require.Error(t, err)

	ve, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "password")
}
