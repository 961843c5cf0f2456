package dto

import "time"

type ResetCreateRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetApplyRequest struct {
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	Token                string `json:"token" validate:"required"`
}

// PasswordResetResponse is returned by the find endpoint so the client can
// confirm token validity before rendering a reset form.
type PasswordResetResponse struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
