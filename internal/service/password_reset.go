package service

import (
	"context"
	"errors"
	"time"

	"github.com/astrahq/auth-service/internal/constants"
	"github.com/astrahq/auth-service/internal/dto"
	apperrors "github.com/astrahq/auth-service/internal/errors"
	"github.com/astrahq/auth-service/internal/validation"
	ctxutil "github.com/astrahq/auth-service/pkg/context"
	"github.com/astrahq/auth-service/pkg/logger"
	"gorm.io/gorm"
)

// PasswordResetService handles the forgot-password flow: issuing reset
// tokens, looking them up, and applying the new password.
type PasswordResetService struct {
	users    UserStore
	resets   ResetStore
	mailer   Notifier
	cache    UserCache
	validate *validation.Validator
	now      func() time.Time
}

func NewPasswordResetService(users UserStore, resets ResetStore, mailer Notifier, cache UserCache) *PasswordResetService {
	return &PasswordResetService{
		users:    users,
		resets:   resets,
		mailer:   mailer,
		cache:    cache,
		validate: validation.New(),
		now:      time.Now,
	}
}

// CreateRequest issues a reset token for the account behind the email and
// mails it out. A repeat request replaces the previous token, so only the
// latest one resolves.
func (s *PasswordResetService) CreateRequest(ctx context.Context, req *dto.ResetCreateRequest) error {
	ctx = ctxutil.NewContext(ctx, "service", "CreateRequest")

	if ve := s.validate.ResetCreate(req); ve != nil {
		return ve
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	token, err := randomToken()
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	reset, err := s.resets.Upsert(ctx, user.Email, token)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to store reset token").
			String("email", user.Email).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.mailer.SendResetRequest(ctx, user, reset.Token)

	logger.InfoWithContext(ctx, "Password reset requested").
		Uint("user_id", user.ID).
		Log()

	return nil
}

// Find resolves a reset token. A token older than the reset TTL is deleted
// on sight and reported as invalid.
func (s *PasswordResetService) Find(ctx context.Context, token string) (*dto.PasswordResetResponse, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Find")

	reset, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidResetToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if s.now().Sub(reset.UpdatedAt) > constants.ResetTokenTTL {
		logger.InfoWithContext(ctx, "Expired reset token purged").
			String("email", reset.Email).
			Log()
		if err := s.resets.DeleteByEmail(ctx, reset.Email); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		return nil, apperrors.ErrInvalidResetToken
	}

	return &dto.PasswordResetResponse{
		Email:     reset.Email,
		Token:     reset.Token,
		CreatedAt: reset.CreatedAt,
		UpdatedAt: reset.UpdatedAt,
	}, nil
}

// Reset applies a new password for the token+email pair. The pair must
// match a stored request; expiry is only enforced by Find, so a client that
// skips the lookup can still redeem an old token.
func (s *PasswordResetService) Reset(ctx context.Context, req *dto.ResetApplyRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Reset")

	if ve := s.validate.ResetApply(req); ve != nil {
		return nil, ve
	}

	reset, err := s.resets.GetByTokenAndEmail(ctx, req.Token, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidResetToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user, err := s.users.GetByEmail(ctx, reset.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEmailNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		logger.ErrorWithContext(ctx, "Failed to update password").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Token is single-use: drop every outstanding request for this email
	if err := s.resets.DeleteByEmail(ctx, reset.Email); err != nil {
		logger.WarnWithContext(ctx, "Failed to delete redeemed reset token").
			String("email", reset.Email).
			Err(err).
			Log()
	}

	s.cache.InvalidateUser(ctx, user.ID)
	s.mailer.SendResetSuccess(ctx, user)

	logger.InfoWithContext(ctx, "Password reset completed").
		Uint("user_id", user.ID).
		Log()

	return publicUser(user), nil
}
