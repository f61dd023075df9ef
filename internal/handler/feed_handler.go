package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andreybutenko/formalwear-server/internal/middleware"
	"github.com/andreybutenko/formalwear-server/internal/service"
	"github.com/andreybutenko/formalwear-server/pkg/log"
	"github.com/andreybutenko/formalwear-server/pkg/response"
)

// Feed returns posts by the caller and everyone they follow.
func (h *Handler) Feed(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)

	posts, err := h.feedService.Home(ctx, userID, limit, offset)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("home feed failed")
		response.InternalError(c, "failed to load feed")
		return
	}

	response.Success(c, posts)
}

// Explore returns discoverable posts from anyone.
func (h *Handler) Explore(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	limit, offset := pagination(c)

	posts, err := h.feedService.Explore(ctx, limit, offset)
	if err != nil {
		l.Error().Err(err).Msg("explore feed failed")
		response.InternalError(c, "failed to load explore feed")
		return
	}

	response.Success(c, posts)
}

// UserPosts returns one user's posts.
func (h *Handler) UserPosts(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	authorID := c.Param("id")
	limit, offset := pagination(c)

	posts, err := h.feedService.User(ctx, authorID, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldTargetID, authorID).Msg("user feed failed")
		response.InternalError(c, "failed to load posts")
		return
	}

	response.Success(c, posts)
}

// pagination reads optional limit/offset query params. Absent or invalid
// values mean unpaged.
func pagination(c *gin.Context) (limit, offset int) {
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
