package model

import "time"

// PasswordReset holds the single outstanding reset request for an email.
// Email is the natural key; the upsert in the repository guarantees at most
// one live row per address. UpdatedAt doubles as the issuance time for the
// 12-hour expiry window.
type PasswordReset struct {
	Email     string    `gorm:"column:email;primaryKey"`
	Token     string    `gorm:"column:token;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}
