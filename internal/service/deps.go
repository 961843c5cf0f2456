package service

import (
	"context"
	"time"

	"github.com/astrahq/auth-service/internal/dto"
	"github.com/astrahq/auth-service/internal/model"
)

// UserStore is the persistence surface AuthService and
// PasswordResetService need from the user repository.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByActivationToken(ctx context.Context, token string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
	Activate(ctx context.Context, id uint, verifiedAt time.Time) error
}

// ResetStore persists outstanding password reset requests.
type ResetStore interface {
	Upsert(ctx context.Context, email, token string) (*model.PasswordReset, error)
	GetByToken(ctx context.Context, token string) (*model.PasswordReset, error)
	GetByTokenAndEmail(ctx context.Context, token, email string) (*model.PasswordReset, error)
	DeleteByEmail(ctx context.Context, email string) error
}

// TokenStore persists issued access tokens for revocation checks.
type TokenStore interface {
	Create(ctx context.Context, token *model.AccessToken) error
	GetByID(ctx context.Context, id string) (*model.AccessToken, error)
	Revoke(ctx context.Context, id string) error
}

// Notifier sends account emails. Delivery is fire-and-forget: failures are
// logged by the implementation and never surfaced to the request.
type Notifier interface {
	SendActivation(ctx context.Context, user *model.User)
	SendResetRequest(ctx context.Context, user *model.User, token string)
	SendResetSuccess(ctx context.Context, user *model.User)
}

// UserCache caches public user representations.
type UserCache interface {
	GetUser(ctx context.Context, id uint) (*dto.UserResponse, bool)
	SetUser(ctx context.Context, user *dto.UserResponse)
	InvalidateUser(ctx context.Context, id uint)
}
