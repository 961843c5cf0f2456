package handler

import (
	"context"
	"net/http"

	"github.com/astrahq/auth-service/internal/constants"
	"github.com/astrahq/auth-service/internal/dto"
	"github.com/astrahq/auth-service/internal/service"
	ctxutil "github.com/astrahq/auth-service/pkg/context"
	"github.com/astrahq/auth-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

// AuthAPI is the service surface the auth endpoints depend on.
type AuthAPI interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, tokenID string) error
	CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error
	Activate(ctx context.Context, token string) (*service.ActivationResult, error)
}

type AuthHandler struct {
	auth AuthAPI
}

func NewAuthHandler(auth AuthAPI) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup handles user registration
func (h *AuthHandler) Signup(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Signup")

	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid signup request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	user, err := h.auth.Signup(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Signup failed").
			String("email", req.Email).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Activate redeems an account activation token from the emailed link
func (h *AuthHandler) Activate(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Activate")

	token := c.Param("token")

	result, err := h.auth.Activate(ctx, token)
	if err != nil {
		logger.ErrorWithContext(ctx, "Activation failed").
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	switch result.Status {
	case service.ActivationInvalidToken:
		c.JSON(http.StatusBadRequest, gin.H{
			constants.ResponseFieldIsActive: 0,
			constants.ResponseFieldMessage:  constants.MsgInvalidToken,
		})
	case service.ActivationAlreadyActive:
		c.JSON(http.StatusBadRequest, gin.H{
			constants.ResponseFieldIsActive: 1,
			constants.ResponseFieldMessage:  "Hi " + result.FirstName + "!",
		})
	default:
		c.JSON(http.StatusOK, result.User)
	}
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	response, err := h.auth.Login(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Login failed").
			String("email", req.Email).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout revokes the token presented on this request
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	tokenID := c.GetString(constants.GinKeyTokenID)
	if tokenID == "" {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	if err := h.auth.Logout(ctx, tokenID); err != nil {
		logger.ErrorWithContext(ctx, "Logout failed").
			String("token_id", tokenID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgLoggedOut))
}

// CurrentUser returns the authenticated user's profile
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CurrentUser")

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	user, err := h.auth.CurrentUser(ctx, userID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to load current user").
			Uint("user_id", userID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword updates the authenticated user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ChangePassword")

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid change password request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	if err := h.auth.ChangePassword(ctx, userID, &req); err != nil {
		logger.WarnWithContext(ctx, "Password change failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgPasswordChanged))
}
