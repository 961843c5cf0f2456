package service

import (
	"context"
	"errors"
	"time"

	"github.com/astrahq/auth-service/internal/constants"
	"github.com/astrahq/auth-service/internal/dto"
	apperrors "github.com/astrahq/auth-service/internal/errors"
	"github.com/astrahq/auth-service/internal/model"
	"github.com/astrahq/auth-service/internal/validation"
	ctxutil "github.com/astrahq/auth-service/pkg/context"
	"github.com/astrahq/auth-service/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ActivationStatus tags the outcome of an activation attempt. The service
// reports all three outcomes as values; the transport layer decides the
// status codes.
type ActivationStatus int

const (
	ActivationInvalidToken ActivationStatus = iota
	ActivationAlreadyActive
	ActivationCompleted
)

type ActivationResult struct {
	Status    ActivationStatus
	FirstName string
	User      *dto.UserResponse
}

// AuthService orchestrates signup, login, logout, password change and
// account activation.
type AuthService struct {
	users    UserStore
	tokens   *TokenService
	mailer   Notifier
	cache    UserCache
	validate *validation.Validator
}

func NewAuthService(users UserStore, tokens *TokenService, mailer Notifier, cache UserCache) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		cache:    cache,
		validate: validation.New(),
	}
}

// Signup registers a new user and sends the activation email.
//
// The account is created with the active flag already set; login is still
// gated on the verification timestamp until the activation token is
// redeemed.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Signup")

	ve := s.validate.Signup(req)

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		if ve == nil {
			ve = apperrors.NewValidationError()
		}
		ve.Add("email", "The email has already been taken.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if ve != nil && ve.HasErrors() {
		logger.WarnWithContext(ctx, "Signup validation failed").
			String("email", req.Email).
			Int("field_errors", len(ve.Fields)).
			Log()
		return nil, ve
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			String("email", req.Email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	activationToken, err := randomToken()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		FullName:        req.FirstName + " " + req.LastName,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        hashedPassword,
		Active:          true,
		ActivationToken: activationToken,
	}

	if err := s.users.Create(ctx, user); err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", req.Email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.mailer.SendActivation(ctx, user)

	logger.InfoWithContext(ctx, "User signed up").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Log()

	return publicUser(user), nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password produce the identical error.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Login")

	if ve := s.validate.Login(req); ve != nil {
		return nil, ve
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !checkPassword(user.Password, req.Password) {
		logger.WarnWithContext(ctx, "Login failed: incorrect password").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.EmailVerifiedAt == nil {
		// Every failed attempt re-sends the activation email
		s.mailer.SendActivation(ctx, user)
		logger.InfoWithContext(ctx, "Login blocked: email not verified, activation re-sent").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrEmailNotConfirmed
	}

	if !user.Active {
		return nil, apperrors.ErrAccountDisabled
	}

	tokenString, expiresAt, err := s.tokens.Issue(ctx, user, req.RememberMe)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to issue access token").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := &dto.LoginResponse{
		AccessToken: tokenString,
		TokenType:   constants.AuthSchemeBearer,
		ExpiresAt:   expiresAt.Format(constants.ExpiresAtLayout),
		User:        *publicUser(user),
	}

	s.cache.SetUser(ctx, &response.User)

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", user.ID).
		Bool("remember_me", req.RememberMe).
		Log()

	return response, nil
}

// Logout revokes the token used for the current request. Other tokens held
// by the same user stay valid.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	ctx = ctxutil.NewContext(ctx, "service", "Logout")

	if err := s.tokens.Revoke(ctx, tokenID); err != nil {
		logger.ErrorWithContext(ctx, "Failed to revoke token").
			String("token_id", tokenID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}

// CurrentUser returns the public representation of the authenticated
// principal.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	ctx = ctxutil.NewContext(ctx, "service", "CurrentUser")

	if cached, ok := s.cache.GetUser(ctx, userID); ok {
		return cached, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	response := publicUser(user)
	s.cache.SetUser(ctx, response)

	return response, nil
}

// ChangePassword replaces the stored hash after verifying the current
// password. Outstanding access tokens are deliberately left valid.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	ctx = ctxutil.NewContext(ctx, "service", "ChangePassword")

	ve := s.validate.ChangePassword(req)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if req.CurrentPassword != "" && !checkPassword(user.Password, req.CurrentPassword) {
		if ve == nil {
			ve = apperrors.NewValidationError()
		}
		ve.Add("current_password", "The password doesn't match with the current one")
	}

	if ve != nil && ve.HasErrors() {
		logger.WarnWithContext(ctx, "Password change validation failed").
			Uint("user_id", userID).
			Int("field_errors", len(ve.Fields)).
			Log()
		return ve
	}

	hashedPassword, err := hashPassword(req.NewPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		logger.ErrorWithContext(ctx, "Failed to update password").
			Uint("user_id", userID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.cache.InvalidateUser(ctx, userID)

	logger.InfoWithContext(ctx, "Password changed").
		Uint("user_id", userID).
		Log()

	return nil
}

// Activate redeems an activation token. An unknown token and an
// already-verified account are reported as distinct outcomes; a successful
// redemption sets the active flag and the verification timestamp.
func (s *AuthService) Activate(ctx context.Context, token string) (*ActivationResult, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Activate")

	user, err := s.users.GetByActivationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ActivationResult{Status: ActivationInvalidToken}, nil
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.EmailVerifiedAt != nil {
		// Verification timestamp stays untouched on repeat redemption
		return &ActivationResult{
			Status:    ActivationAlreadyActive,
			FirstName: user.FirstName,
		}, nil
	}

	verifiedAt := time.Now()
	if err := s.users.Activate(ctx, user.ID, verifiedAt); err != nil {
		logger.ErrorWithContext(ctx, "Failed to activate user").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user.Active = true
	user.EmailVerifiedAt = &verifiedAt

	s.cache.InvalidateUser(ctx, user.ID)

	logger.InfoWithContext(ctx, "User activated").
		Uint("user_id", user.ID).
		Log()

	return &ActivationResult{
		Status:    ActivationCompleted,
		FirstName: user.FirstName,
		User:      publicUser(user),
	}, nil
}

// hashPassword hashes password using bcrypt
func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// checkPassword verifies password against hash
func checkPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// publicUser builds the external representation of a user.
func publicUser(user *model.User) *dto.UserResponse {
	isActive := 0
	if user.Active {
		isActive = 1
	}

	var verifiedAt *string
	if user.EmailVerifiedAt != nil {
		formatted := user.EmailVerifiedAt.Format(constants.ExpiresAtLayout)
		verifiedAt = &formatted
	}

	return &dto.UserResponse{
		ID:              user.ID,
		FullName:        user.FullName,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Email:           user.Email,
		IsActive:        isActive,
		EmailVerifiedAt: verifiedAt,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}
