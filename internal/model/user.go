package model

import (
	"time"

	"gorm.io/gorm"
)

// User is the identity record. A user is usable for login only when
// EmailVerifiedAt is non-nil and Active is true.
type User struct {
	gorm.Model
	FullName        string     `gorm:"column:full_name;not null"`
	FirstName       string     `gorm:"column:first_name;not null"`
	LastName        string     `gorm:"column:last_name;not null"`
	Email           string     `gorm:"column:email;unique;not null"`
	Password        string     `gorm:"column:password;not null"`
	Active          bool       `gorm:"column:active;default:false;not null"`
	ActivationToken string     `gorm:"column:activation_token;index"`
	EmailVerifiedAt *time.Time `gorm:"column:email_verified_at;default:null"`
}
