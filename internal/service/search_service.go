package service

import (
	"context"
	"strings"

	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/repository"
	"github.com/andreybutenko/formalwear-server/pkg/log"
)

// searchServiceImpl implements SearchService.
type searchServiceImpl struct {
	search repository.SearchRepository
	limit  int
}

// NewSearchService creates a new search service. limit caps each result
// set independently; <= 0 uses the repository default.
func NewSearchService(search repository.SearchRepository, limit int) SearchService {
	return &searchServiceImpl{
		search: search,
		limit:  limit,
	}
}

// Search runs the query against users and posts independently. User
// results are sanitized; post results only include discoverable posts (the
// repository enforces that filter). An empty query returns empty sets.
func (s *searchServiceImpl) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	l := log.Ctx(ctx)

	result := &domain.SearchResult{
		Users: []domain.PublicUser{},
		Posts: []domain.Post{},
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return result, nil
	}

	users, err := s.search.SearchUsers(ctx, query, s.limit)
	if err != nil {
		l.Error().Err(err).Msg("failed to search users")
		return nil, err
	}
	for i := range users {
		result.Users = append(result.Users, users[i].ToPublic())
	}

	posts, err := s.search.SearchPosts(ctx, query, s.limit)
	if err != nil {
		l.Error().Err(err).Msg("failed to search posts")
		return nil, err
	}
	result.Posts = append(result.Posts, posts...)

	return result, nil
}
