package handler

import (
	"context"
	"net/http"

	"github.com/astrahq/auth-service/internal/constants"
	"github.com/astrahq/auth-service/internal/dto"
	ctxutil "github.com/astrahq/auth-service/pkg/context"
	"github.com/astrahq/auth-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ResetAPI is the service surface the password reset endpoints depend on.
type ResetAPI interface {
	CreateRequest(ctx context.Context, req *dto.ResetCreateRequest) error
	Find(ctx context.Context, token string) (*dto.PasswordResetResponse, error)
	Reset(ctx context.Context, req *dto.ResetApplyRequest) (*dto.UserResponse, error)
}

type PasswordResetHandler struct {
	resets ResetAPI
}

func NewPasswordResetHandler(resets ResetAPI) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resets}
}

// Create issues a reset token and mails it to the account owner
func (h *PasswordResetHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Create")

	var req dto.ResetCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid reset create request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	if err := h.resets.CreateRequest(ctx, &req); err != nil {
		logger.WarnWithContext(ctx, "Reset request failed").
			String("email", req.Email).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgResetEmailSent))
}

// Find resolves a reset token from the emailed link
func (h *PasswordResetHandler) Find(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Find")

	token := c.Param("token")

	reset, err := h.resets.Find(ctx, token)
	if err != nil {
		logger.WarnWithContext(ctx, "Reset token lookup failed").
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reset)
}

// Reset applies the new password for a valid token+email pair
func (h *PasswordResetHandler) Reset(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Reset")

	var req dto.ResetApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid reset request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	user, err := h.resets.Reset(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Password reset failed").
			String("email", req.Email).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
