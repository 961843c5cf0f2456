package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/astrahq/auth-service/internal/constants"
	"github.com/astrahq/auth-service/internal/service"
	ctxutil "github.com/astrahq/auth-service/pkg/context"
	"github.com/astrahq/auth-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	tokens *service.TokenService
	users  service.UserStore
}

func NewAuthMiddleware(tokens *service.TokenService, users service.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
	}
}

// RequireAuth validates the bearer token and loads the authenticated user
// into the request context. A missing, malformed, revoked or expired token
// aborts with 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			logger.GetLogger().Warn("Missing Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != constants.AuthSchemeBearer {
			logger.GetLogger().Warn("Invalid Authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c)
			return
		}

		ctx := c.Request.Context()

		claims, err := m.tokens.Validate(ctx, tokenParts[1])
		if err != nil {
			logger.GetLogger().Warn("Invalid or expired token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		user, err := m.users.GetByID(ctx, claims.UserID)
		if err != nil {
			logger.GetLogger().Warn("Token valid but user lookup failed",
				zap.Uint("user_id", claims.UserID),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		c.Set(constants.GinKeyUserID, user.ID)
		c.Set(constants.GinKeyTokenID, claims.ID)
		c.Set(constants.GinKeyEmail, user.Email)

		ctx = ctxutil.WithUserID(ctx, user.ID)
		ctx = context.WithValue(ctx, ctxutil.TokenIDKey, claims.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
	c.Abort()
}
