package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/middleware"
	"github.com/andreybutenko/formalwear-server/internal/service"
	"github.com/andreybutenko/formalwear-server/pkg/log"
	"github.com/andreybutenko/formalwear-server/pkg/response"
)

// Register handles email/password registration.
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid register request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, "email already registered")
			return
		}
		l.Error().Err(err).Msg("register failed")
		response.InternalError(c, "failed to register")
		return
	}

	response.Created(c, result)
}

// Login handles email/password login.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid login request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "no account with that email")
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "incorrect password")
			return
		}
		l.Error().Err(err).Msg("login failed")
		response.InternalError(c, "failed to login")
		return
	}

	response.Success(c, result)
}

// FacebookAuth handles Facebook login; it creates the account on first
// login. Provider rejections pass through with the provider's status and
// body.
func (h *Handler) FacebookAuth(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.FacebookAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid facebook auth request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.AuthenticateFacebook(ctx, &req)
	if err != nil {
		var upstream *service.UpstreamError
		if errors.As(err, &upstream) {
			response.Upstream(c, upstream.StatusCode, upstream.Body)
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "facebook credentials rejected")
			return
		}
		l.Error().Err(err).Msg("facebook auth failed")
		response.InternalError(c, "failed to authenticate with facebook")
		return
	}

	response.Success(c, result)
}

// Check confirms the presented token still maps to a live session. The
// auth middleware has already done the work by the time this runs.
func (h *Handler) Check(c *gin.Context) {
	response.Success(c, gin.H{"valid": true, "userId": middleware.GetUserID(c)})
}
