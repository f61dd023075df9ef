package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/middleware"
	"github.com/andreybutenko/formalwear-server/internal/service"
	"github.com/andreybutenko/formalwear-server/pkg/log"
	"github.com/andreybutenko/formalwear-server/pkg/response"
)

// CreatePost handles post creation.
func (h *Handler) CreatePost(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	var req domain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid create post request")
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.postService.Create(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrBadPrompts) {
			response.BadRequest(c, "prompts must be an array of strings")
			return
		}
		if errors.Is(err, service.ErrBadImage) {
			response.BadRequest(c, "imageData must be base64 image data")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("create post failed")
		response.InternalError(c, "failed to create post")
		return
	}

	response.Created(c, post)
}

// GetPost returns one post.
func (h *Handler) GetPost(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	postID := c.Param("id")

	post, err := h.postService.Get(ctx, postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("get post failed")
		response.InternalError(c, "failed to get post")
		return
	}

	response.Success(c, post)
}

// DeletePost removes a post and everything attached to it.
func (h *Handler) DeletePost(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	postID := c.Param("id")

	if err := h.postService.Delete(ctx, postID, userID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		if errors.Is(err, service.ErrNotPostOwner) {
			response.BadRequest(c, "not your post")
			return
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("delete post failed")
		response.InternalError(c, "failed to delete post")
		return
	}

	c.Status(http.StatusNoContent)
}
