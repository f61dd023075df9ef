package service

import (
	"context"
	"errors"

	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/repository"
	"github.com/andreybutenko/formalwear-server/pkg/log"
)

// feedServiceImpl implements FeedService.
type feedServiceImpl struct {
	posts   repository.PostRepository
	follows repository.FollowRepository
	users   repository.UserRepository
}

// NewFeedService creates a new feed service.
func NewFeedService(
	posts repository.PostRepository,
	follows repository.FollowRepository,
	users repository.UserRepository,
) FeedService {
	return &feedServiceImpl{
		posts:   posts,
		follows: follows,
		users:   users,
	}
}

// Home returns posts by the user and everyone they follow, newest first.
// The author set is deduplicated by id, so following yourself (or stale
// duplicate edges) cannot double posts.
func (s *feedServiceImpl) Home(ctx context.Context, userID string, limit, offset int) ([]domain.Post, error) {
	l := log.Ctx(ctx)

	following, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to list following")
		return nil, err
	}

	seen := map[string]struct{}{userID: {}}
	authors := append(make([]string, 0, len(following)+1), userID)
	for _, id := range following {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		authors = append(authors, id)
	}

	posts, err := s.posts.ListByAuthors(ctx, authors, limit, offset)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to list home feed")
		return nil, err
	}
	return posts, nil
}

// Explore returns discoverable posts from anyone, newest first.
func (s *feedServiceImpl) Explore(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	posts, err := s.posts.ListDiscoverable(ctx, limit, offset)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list explore feed")
		return nil, err
	}
	return posts, nil
}

// User returns one author's posts, newest first. The author must exist.
func (s *feedServiceImpl) User(ctx context.Context, authorID string, limit, offset int) ([]domain.Post, error) {
	l := log.Ctx(ctx)

	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, authorID).Msg("failed to get feed author")
		return nil, err
	}

	posts, err := s.posts.ListByAuthors(ctx, []string{authorID}, limit, offset)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, authorID).Msg("failed to list user feed")
		return nil, err
	}
	return posts, nil
}
