package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/repository"
	"github.com/andreybutenko/formalwear-server/pkg/log"
)

// voteServiceImpl implements VoteService.
type voteServiceImpl struct {
	votes         repository.VoteRepository
	posts         repository.PostRepository
	notifications NotificationService
}

// NewVoteService creates a new vote service.
func NewVoteService(
	votes repository.VoteRepository,
	posts repository.PostRepository,
	notifications NotificationService,
) VoteService {
	return &voteServiceImpl{
		votes:         votes,
		posts:         posts,
		notifications: notifications,
	}
}

// Cast records a boolean answer to one prompt. The same predicate backs
// CanVote, so the two never disagree; the final duplicate check is the
// store's unique constraint, not the pre-read.
func (s *voteServiceImpl) Cast(ctx context.Context, postID string, promptIndex int, voterID string, req *domain.CastVoteRequest) (*domain.Vote, error) {
	l := log.Ctx(ctx)

	// A pointer target distinguishes null from false: null leaves the
	// pointer nil instead of assigning.
	var response *bool
	if err := json.Unmarshal(req.Response, &response); err != nil || response == nil {
		return nil, ErrBadResponse
	}

	post, eligibility, err := s.eligibility(ctx, postID, promptIndex, voterID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Can {
		if eligibility.Own {
			return nil, ErrOwnPost
		}
		return nil, ErrAlreadyVoted
	}

	vote := &domain.Vote{
		PostID:      postID,
		PromptIndex: promptIndex,
		VoterID:     voterID,
		Response:    *response,
	}

	if err := s.votes.Create(ctx, vote); err != nil {
		if errors.Is(err, repository.ErrDuplicateVote) {
			return nil, ErrAlreadyVoted
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to create vote")
		return nil, err
	}

	if err := s.notifications.Notify(ctx, post.AuthorID, voterID, postID, domain.NotificationVote); err != nil {
		return nil, err
	}

	return vote, nil
}

// CanVote reports whether the user may vote on the prompt, without writing.
func (s *voteServiceImpl) CanVote(ctx context.Context, postID string, promptIndex int, voterID string) (*domain.Eligibility, error) {
	_, eligibility, err := s.eligibility(ctx, postID, promptIndex, voterID)
	if err != nil {
		return nil, err
	}
	return eligibility, nil
}

// Results tallies the prompt's votes. There is no eligibility gate on
// reading results.
func (s *voteServiceImpl) Results(ctx context.Context, postID string, promptIndex int) (*domain.VoteResults, error) {
	l := log.Ctx(ctx)

	if _, err := s.promptPost(ctx, postID, promptIndex); err != nil {
		return nil, err
	}

	votes, err := s.votes.ListByPrompt(ctx, postID, promptIndex)
	if err != nil {
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to list votes")
		return nil, err
	}

	results := &domain.VoteResults{
		Results:   votes,
		Requested: promptIndex,
	}
	for _, v := range votes {
		if v.Response {
			results.VoteYes++
		} else {
			results.VoteNo++
		}
	}
	return results, nil
}

// eligibility is the single voting predicate: the post and prompt must
// exist, the voter must not be the author, and no prior vote may exist.
func (s *voteServiceImpl) eligibility(ctx context.Context, postID string, promptIndex int, voterID string) (*domain.Post, *domain.Eligibility, error) {
	post, err := s.promptPost(ctx, postID, promptIndex)
	if err != nil {
		return nil, nil, err
	}

	eligibility := &domain.Eligibility{Requested: promptIndex}

	if post.AuthorID == voterID {
		eligibility.Own = true
		return post, eligibility, nil
	}

	_, err = s.votes.Get(ctx, postID, promptIndex, voterID)
	switch {
	case err == nil:
		return post, eligibility, nil
	case errors.Is(err, repository.ErrVoteNotFound):
		eligibility.Can = true
		return post, eligibility, nil
	default:
		log.Ctx(ctx).Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to check prior vote")
		return nil, nil, err
	}
}

// promptPost loads the post and verifies the prompt index is in range.
func (s *voteServiceImpl) promptPost(ctx context.Context, postID string, promptIndex int) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to get post for vote")
		return nil, err
	}

	if promptIndex < 0 || promptIndex >= len(post.Prompts) {
		return nil, ErrPromptNotFound
	}
	return post, nil
}
