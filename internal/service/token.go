package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/astrahq/auth-service/internal/constants"
	apperrors "github.com/astrahq/auth-service/internal/errors"
	"github.com/astrahq/auth-service/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the validated identity carried by a bearer token.
type TokenClaims struct {
	ID     string
	UserID uint
	Email  string
}

// TokenService issues and validates bearer access tokens. Every issued
// token has a row in the token store keyed by its jti, so a single token
// can be revoked without touching the user's other sessions.
type TokenService struct {
	secret     string
	defaultTTL time.Duration
	tokens     TokenStore
	now        func() time.Time
}

func NewTokenService(secret string, defaultTTL time.Duration, tokens TokenStore) *TokenService {
	return &TokenService{
		secret:     secret,
		defaultTTL: defaultTTL,
		tokens:     tokens,
		now:        time.Now,
	}
}

// Issue creates a signed token for the user. remember extends the lifetime
// to one week; otherwise the configured default applies.
func (s *TokenService) Issue(ctx context.Context, user *model.User, remember bool) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.defaultTTL)
	if remember {
		expiresAt = now.Add(constants.RememberMeTokenTTL)
	}

	record := &model.AccessToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to persist access token: %w", err)
	}

	claims := jwt.MapClaims{
		"jti":     record.ID,
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Validate verifies the signature, then checks the persisted row: a token
// that was revoked or outlived its stored expiry is rejected even if the
// JWT itself still parses.
func (s *TokenService) Validate(ctx context.Context, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidAccessToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidAccessToken
	}

	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return nil, apperrors.ErrInvalidAccessToken
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, apperrors.ErrInvalidAccessToken
	}

	record, err := s.tokens.GetByID(ctx, jti)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidAccessToken, err)
	}

	if record.Revoked || record.ExpiresAt.Before(s.now()) {
		return nil, apperrors.ErrInvalidAccessToken
	}

	email, _ := claims["email"].(string)

	return &TokenClaims{
		ID:     jti,
		UserID: uint(userIDFloat),
		Email:  email,
	}, nil
}

// Revoke invalidates exactly one issued token by its jti.
func (s *TokenService) Revoke(ctx context.Context, id string) error {
	return s.tokens.Revoke(ctx, id)
}

// randomToken generates an opaque hex token for activation and password
// reset links.
func randomToken() (string, error) {
	bytes := make([]byte, constants.ActivationTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
