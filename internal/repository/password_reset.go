package repository

import (
	"context"
	"time"

	"github.com/astrahq/auth-service/internal/model"
	ctxutil "github.com/astrahq/auth-service/pkg/context"
	"github.com/astrahq/auth-service/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PasswordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Upsert creates or replaces the reset row for an email. Last write wins on
// the token value; at most one live row per email.
func (r *PasswordResetRepository) Upsert(ctx context.Context, email, token string) (*model.PasswordReset, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "Upsert")

	start := time.Now()
	reset := model.PasswordReset{
		Email: email,
		Token: token,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(&reset)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to upsert password reset").
			String("email", email).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.InfoWithContext(ctx, "Password reset upserted").
		String("email", email).
		Duration(time.Since(start)).
		Log()

	return &reset, nil
}

// GetByToken finds a reset row by token value
func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*model.PasswordReset, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "GetByToken")

	var reset model.PasswordReset
	result := r.db.WithContext(ctx).Where("token = ?", token).First(&reset)
	if result.Error != nil {
		return nil, result.Error
	}

	return &reset, nil
}

// GetByTokenAndEmail requires both values to match the same row. A token
// alone is not enough to reset a different account's password.
func (r *PasswordResetRepository) GetByTokenAndEmail(ctx context.Context, token, email string) (*model.PasswordReset, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "GetByTokenAndEmail")

	var reset model.PasswordReset
	result := r.db.WithContext(ctx).Where("token = ? AND email = ?", token, email).First(&reset)
	if result.Error != nil {
		return nil, result.Error
	}

	return &reset, nil
}

// DeleteByEmail removes the reset row for an email
func (r *PasswordResetRepository) DeleteByEmail(ctx context.Context, email string) error {
	ctx = ctxutil.NewContext(ctx, "repository", "DeleteByEmail")

	result := r.db.WithContext(ctx).Where("email = ?", email).Delete(&model.PasswordReset{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete password reset").
			String("email", email).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}
