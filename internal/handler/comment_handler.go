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

// ListComments returns a post's comments oldest first.
func (h *Handler) ListComments(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	postID := c.Param("id")

	comments, err := h.commentService.ListByPost(ctx, postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("list comments failed")
		response.InternalError(c, "failed to list comments")
		return
	}

	response.Success(c, comments)
}

// CreateComment adds a comment to a post.
func (h *Handler) CreateComment(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	postID := c.Param("id")

	var req domain.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid create comment request")
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.Create(ctx, postID, userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("create comment failed")
		response.InternalError(c, "failed to create comment")
		return
	}

	response.Created(c, comment)
}

// DeleteComment removes the caller's own comment.
func (h *Handler) DeleteComment(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	commentID := c.Param("id")

	if err := h.commentService.Delete(ctx, commentID, userID); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			response.NotFound(c, "comment not found")
			return
		}
		if errors.Is(err, service.ErrNotCommentOwner) {
			response.Forbidden(c, "not your comment")
			return
		}
		l.Error().Err(err).Str(log.FieldCommentID, commentID).Msg("delete comment failed")
		response.InternalError(c, "failed to delete comment")
		return
	}

	c.Status(http.StatusNoContent)
}
