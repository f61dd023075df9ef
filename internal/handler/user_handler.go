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

// GetMe returns the caller's own record, credential fields included.
func (h *Handler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	user, err := h.accountService.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("get me failed")
		response.InternalError(c, "failed to get user")
		return
	}

	response.Success(c, user)
}

// GetUser returns another user's sanitized record.
func (h *Handler) GetUser(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	targetID := c.Param("id")

	user, err := h.accountService.GetPublic(ctx, targetID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldTargetID, targetID).Msg("get user failed")
		response.InternalError(c, "failed to get user")
		return
	}

	response.Success(c, user)
}

// UpdateProfile replaces the caller's public profile fields.
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid profile update request")
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.accountService.UpdateProfile(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("profile update failed")
		response.InternalError(c, "failed to update profile")
		return
	}

	response.Success(c, user)
}

// UpdateSecure changes the caller's email and optionally password.
func (h *Handler) UpdateSecure(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	var req domain.UpdateSecureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid secure update request")
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.accountService.UpdateSecure(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			response.Unauthorized(c, "current password is incorrect")
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, "email already registered")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("secure update failed")
		response.InternalError(c, "failed to update credentials")
		return
	}

	response.Success(c, user)
}

// UpdateImage replaces the caller's profile picture.
func (h *Handler) UpdateImage(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	var req domain.UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid image update request")
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.accountService.UpdateImage(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrBadImage) {
			response.BadRequest(c, "picture must be base64 image data")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("image update failed")
		response.InternalError(c, "failed to update image")
		return
	}

	response.Success(c, user)
}

// Follow adds a follow edge from the caller to the target.
func (h *Handler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	targetID := c.Param("id")

	user, err := h.followService.Follow(ctx, userID, targetID)
	if err != nil {
		if errors.Is(err, service.ErrSelfFollow) {
			response.BadRequest(c, "cannot follow yourself")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).
			Str(log.FieldUserID, userID).
			Str(log.FieldTargetID, targetID).
			Msg("follow failed")
		response.InternalError(c, "failed to follow")
		return
	}

	response.Success(c, user)
}

// Unfollow removes the follow edge from the caller to the target.
func (h *Handler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	targetID := c.Param("id")

	user, err := h.followService.Unfollow(ctx, userID, targetID)
	if err != nil {
		l.Error().Err(err).
			Str(log.FieldUserID, userID).
			Str(log.FieldTargetID, targetID).
			Msg("unfollow failed")
		response.InternalError(c, "failed to unfollow")
		return
	}

	response.Success(c, user)
}
