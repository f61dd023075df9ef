package service

import (
	"context"
	"errors"

	"github.com/andreybutenko/formalwear-server/internal/cache"
	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/repository"
	"github.com/andreybutenko/formalwear-server/pkg/log"
)

// followServiceImpl implements FollowService.
type followServiceImpl struct {
	users    repository.UserRepository
	follows  repository.FollowRepository
	sessions cache.SessionCache
}

// NewFollowService creates a new follow service.
func NewFollowService(
	users repository.UserRepository,
	follows repository.FollowRepository,
	sessions cache.SessionCache,
) FollowService {
	return &followServiceImpl{
		users:    users,
		follows:  follows,
		sessions: sessions,
	}
}

// Follow adds follower→target. Following someone twice is not an error;
// the edge simply stays in place.
func (s *followServiceImpl) Follow(ctx context.Context, followerID, targetID string) (*domain.User, error) {
	l := log.Ctx(ctx)

	if followerID == targetID {
		return nil, ErrSelfFollow
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldTargetID, targetID).Msg("failed to get follow target")
		return nil, err
	}

	if err := s.follows.Follow(ctx, followerID, targetID); err != nil && !errors.Is(err, repository.ErrAlreadyFollowing) {
		l.Error().Err(err).
			Str(log.FieldUserID, followerID).
			Str(log.FieldTargetID, targetID).
			Msg("failed to create follow edge")
		return nil, err
	}

	return s.refresh(ctx, followerID)
}

// Unfollow removes follower→target. Removing an absent edge is a no-op.
func (s *followServiceImpl) Unfollow(ctx context.Context, followerID, targetID string) (*domain.User, error) {
	l := log.Ctx(ctx)

	if err := s.follows.Unfollow(ctx, followerID, targetID); err != nil && !errors.Is(err, repository.ErrFollowNotFound) {
		l.Error().Err(err).
			Str(log.FieldUserID, followerID).
			Str(log.FieldTargetID, targetID).
			Msg("failed to remove follow edge")
		return nil, err
	}

	return s.refresh(ctx, followerID)
}

// refresh re-reads the acting user so the response carries the updated
// following list, and evicts their cached session.
func (s *followServiceImpl) refresh(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to reload user after follow change")
		return nil, err
	}

	if user.Token != "" {
		if err := s.sessions.Delete(ctx, s.sessions.BuildKeyByToken(user.Token)); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to evict session from cache")
		}
	}

	return user, nil
}
