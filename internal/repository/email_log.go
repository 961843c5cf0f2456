package repository

import (
	"context"

	"github.com/astrahq/auth-service/internal/model"
	ctxutil "github.com/astrahq/auth-service/pkg/context"
	"github.com/astrahq/auth-service/pkg/logger"
	"gorm.io/gorm"
)

type EmailLogRepository struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

// Create appends a notification attempt to the outbox log. Failures here
// must never break the request that triggered the email.
func (r *EmailLogRepository) Create(ctx context.Context, log *model.EmailLog) error {
	ctx = ctxutil.NewContext(ctx, "repository", "Create")

	result := r.db.WithContext(ctx).Create(log)
	if result.Error != nil {
		logger.WarnWithContext(ctx, "Failed to write email log").
			String("email", log.Email).
			String("template", log.Template).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}
