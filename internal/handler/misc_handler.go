package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andreybutenko/formalwear-server/internal/middleware"
	"github.com/andreybutenko/formalwear-server/pkg/log"
	"github.com/andreybutenko/formalwear-server/pkg/response"
	"github.com/andreybutenko/formalwear-server/pkg/timeutil"
)

// Search runs a free-text query over users and posts.
func (h *Handler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	result, err := h.searchService.Search(ctx, c.Query("q"))
	if err != nil {
		l.Error().Err(err).Msg("search failed")
		response.InternalError(c, "failed to search")
		return
	}

	response.Success(c, result)
}

// ListNotifications returns the caller's notifications, newest first, and
// marks them all seen.
func (h *Handler) ListNotifications(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	notifications, err := h.notificationService.List(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("list notifications failed")
		response.InternalError(c, "failed to list notifications")
		return
	}

	response.Success(c, notifications)
}

// StreamNotifications pushes the caller's notification events as
// server-sent events until the client disconnects. Events delivered here
// are a live mirror; ListNotifications stays the durable read.
func (h *Handler) StreamNotifications(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	events, err := h.notificationService.Stream(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("stream notifications failed")
		response.InternalError(c, "failed to stream notifications")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Type, event)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// HumanizeTime renders a unix-seconds timestamp as a relative phrase.
func (h *Handler) HumanizeTime(c *gin.Context) {
	ts, err := strconv.ParseInt(c.Query("ts"), 10, 64)
	if err != nil {
		response.BadRequest(c, "ts must be unix seconds")
		return
	}

	response.Success(c, gin.H{"humanized": timeutil.HumanizeUnix(ts, time.Now())})
}

// ServeImage streams a stored image.
func (h *Handler) ServeImage(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	name := c.Param("image")

	if name == "" || strings.ContainsAny(name, "/\\") {
		response.BadRequest(c, "bad image name")
		return
	}

	rc, err := h.images.Read(ctx, name)
	if err != nil {
		l.Warn().Err(err).Str(log.FieldPath, name).Msg("image not found")
		response.NotFound(c, "image not found")
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		l.Warn().Err(err).Str(log.FieldPath, name).Msg("image stream interrupted")
	}
}
