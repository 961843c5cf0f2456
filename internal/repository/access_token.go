package repository

import (
	"context"

	"github.com/astrahq/auth-service/internal/model"
	ctxutil "github.com/astrahq/auth-service/pkg/context"
	"github.com/astrahq/auth-service/pkg/logger"
	"gorm.io/gorm"
)

type AccessTokenRepository struct {
	db *gorm.DB
}

func NewAccessTokenRepository(db *gorm.DB) *AccessTokenRepository {
	return &AccessTokenRepository{db: db}
}

// Create persists a freshly issued token row
func (r *AccessTokenRepository) Create(ctx context.Context, token *model.AccessToken) error {
	ctx = ctxutil.NewContext(ctx, "repository", "Create")

	result := r.db.WithContext(ctx).Create(token)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create access token").
			Uint("user_id", token.UserID).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// GetByID looks up a token row by its jti
func (r *AccessTokenRepository) GetByID(ctx context.Context, id string) (*model.AccessToken, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "GetByID")

	var token model.AccessToken
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&token)
	if result.Error != nil {
		return nil, result.Error
	}

	return &token, nil
}

// Revoke marks a single token as revoked. Revoking an already-revoked
// token is a no-op write to the same state.
func (r *AccessTokenRepository) Revoke(ctx context.Context, id string) error {
	ctx = ctxutil.NewContext(ctx, "repository", "Revoke")

	result := r.db.WithContext(ctx).Model(&model.AccessToken{}).Where("id = ?", id).Update("revoked", true)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to revoke access token").
			String("token_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Access token revoked").
		String("token_id", id).
		Log()

	return nil
}
