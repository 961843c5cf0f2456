package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/astrahq/auth-service/internal/constants"
	"github.com/astrahq/auth-service/internal/model"
	"github.com/astrahq/auth-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memTokenStore struct {
	tokens map[string]*model.AccessToken
}

func (s *memTokenStore) Create(_ context.Context, token *model.AccessToken) error {
	s.tokens[token.ID] = token
	return nil
}

func (s *memTokenStore) GetByID(_ context.Context, id string) (*model.AccessToken, error) {
	token, ok := s.tokens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return token, nil
}

func (s *memTokenStore) Revoke(_ context.Context, id string) error {
	token, ok := s.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	token.Revoked = true
	return nil
}

type memUserStore struct {
	user *model.User
}

func (s *memUserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memUserStore) GetByActivationToken(context.Context, string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *memUserStore) Create(context.Context, *model.User) error { return nil }

func (s *memUserStore) UpdatePassword(context.Context, uint, string) error { return nil }

func (s *memUserStore) Activate(context.Context, uint, time.Time) error { return nil }

func protectedRouter(t *testing.T) (*gin.Engine, *service.TokenService, *model.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	user := &model.User{Email: "ada@example.com", Active: true}
	user.ID = 42

	tokens := service.NewTokenService("test-secret", 24*time.Hour, &memTokenStore{tokens: make(map[string]*model.AccessToken)})
	authMw := NewAuthMiddleware(tokens, &memUserStore{user: user})

	router := gin.New()
	router.GET("/protected", authMw.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetUint(constants.GinKeyUserID),
			"token_id": c.GetString(constants.GinKeyTokenID),
		})
	})

	return router, tokens, user
}

func get(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set(constants.HeaderAuthorization, authHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestRequireAuth(t *testing.T) {
	router, tokens, user := protectedRouter(t)

	tokenString, _, err := tokens.Issue(context.Background(), user, false)
	require.NoError(t, err)

	recorder := get(router, "Bearer "+tokenString)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"user_id":42`)
}

func TestRequireAuthRejections(t *testing.T) {
	router, tokens, user := protectedRouter(t)

	tokenString, _, err := tokens.Issue(context.Background(), user, false)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"Missing header", ""},
		{"Malformed header", "Token " + tokenString},
		{"Garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := get(router, tt.header)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "Unauthorized")
		})
	}
}

func TestRequireAuthRejectsRevokedToken(t *testing.T) {
	router, tokens, user := protectedRouter(t)

	tokenString, _, err := tokens.Issue(context.Background(), user, false)
	require.NoError(t, err)

	claims, err := tokens.Validate(context.Background(), tokenString)
	require.NoError(t, err)
	require.NoError(t, tokens.Revoke(context.Background(), claims.ID))

	recorder := get(router, "Bearer "+tokenString)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
