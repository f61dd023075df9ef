package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/middleware"
	"github.com/andreybutenko/formalwear-server/internal/service"
	"github.com/andreybutenko/formalwear-server/pkg/log"
	"github.com/andreybutenko/formalwear-server/pkg/response"
)

// CastVote records a boolean answer to one of a post's prompts.
func (h *Handler) CastVote(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	postID := c.Param("id")

	index, ok := promptIndex(c)
	if !ok {
		return
	}

	var req domain.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid vote request")
		response.BadRequest(c, err.Error())
		return
	}

	vote, err := h.voteService.Cast(ctx, postID, index, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadResponse):
			response.BadRequest(c, "response must be a boolean")
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, "post not found")
		case errors.Is(err, service.ErrPromptNotFound):
			response.NotFound(c, "prompt not found")
		case errors.Is(err, service.ErrOwnPost):
			response.Forbidden(c, "cannot vote on your own post")
		case errors.Is(err, service.ErrAlreadyVoted):
			response.Conflict(c, "already voted")
		default:
			l.Error().Err(err).Str(log.FieldPostID, postID).Msg("cast vote failed")
			response.InternalError(c, "failed to cast vote")
		}
		return
	}

	response.Created(c, vote)
}

// VoteEligibility reports whether the caller may vote on the prompt.
func (h *Handler) VoteEligibility(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	postID := c.Param("id")

	index, ok := promptIndex(c)
	if !ok {
		return
	}

	eligibility, err := h.voteService.CanVote(ctx, postID, index, userID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		if errors.Is(err, service.ErrPromptNotFound) {
			response.NotFound(c, "prompt not found")
			return
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("vote eligibility failed")
		response.InternalError(c, "failed to check eligibility")
		return
	}

	response.Success(c, eligibility)
}

// VoteResults returns the tallied responses for a prompt.
func (h *Handler) VoteResults(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	postID := c.Param("id")

	index, ok := promptIndex(c)
	if !ok {
		return
	}

	results, err := h.voteService.Results(ctx, postID, index)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		if errors.Is(err, service.ErrPromptNotFound) {
			response.NotFound(c, "prompt not found")
			return
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("vote results failed")
		response.InternalError(c, "failed to get results")
		return
	}

	response.Success(c, results)
}

// promptIndex parses the :index path segment. On failure it has already
// written the response.
func promptIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.BadRequest(c, "prompt index must be a non-negative integer")
		return 0, false
	}
	return index, true
}
