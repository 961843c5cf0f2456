package model

import "time"

// AccessToken is the persisted side of a bearer token. ID is the JWT jti
// claim, so revoking a row invalidates exactly one issued token.
type AccessToken struct {
	ID        string    `gorm:"column:id;primaryKey"`
	UserID    uint      `gorm:"column:user_id;index;not null"`
	Revoked   bool      `gorm:"column:revoked;default:false;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}
