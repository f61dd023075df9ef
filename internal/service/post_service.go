package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/repository"
	"github.com/andreybutenko/formalwear-server/pkg/log"
	"github.com/andreybutenko/formalwear-server/pkg/storage"
)

// postServiceImpl implements PostService.
type postServiceImpl struct {
	posts  repository.PostRepository
	search repository.SearchRepository
	images storage.Storage
}

// NewPostService creates a new post service.
func NewPostService(
	posts repository.PostRepository,
	search repository.SearchRepository,
	images storage.Storage,
) PostService {
	return &postServiceImpl{
		posts:  posts,
		search: search,
		images: images,
	}
}

// Create validates the prompts, stores the image, then the post row. The
// image is written first so a stored post always has its image in place.
func (s *postServiceImpl) Create(ctx context.Context, authorID string, req *domain.CreatePostRequest) (*domain.Post, error) {
	l := log.Ctx(ctx)

	prompts, err := domain.ParsePrompts(req.Prompts)
	if err != nil {
		return nil, err
	}

	data, err := decodeImageData(req.ImageData)
	if err != nil {
		return nil, err
	}

	name := imageName(time.Now())
	if err := s.images.Write(ctx, name, bytes.NewReader(data), int64(len(data)), "image/png"); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, authorID).Msg("failed to store post image")
		return nil, err
	}

	post := &domain.Post{
		AuthorID:    authorID,
		Description: domain.SanitizeText(req.Description),
		ImageURI:    imageURL(name),
		Prompts:     prompts,
		Discovery:   domain.ParseDiscovery(req.Discovery),
		Published:   time.Now().Unix(),
	}

	if err := s.posts.Create(ctx, post); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, authorID).Msg("failed to create post")
		return nil, err
	}

	if err := s.search.IndexPost(ctx, post); err != nil {
		l.Warn().Err(err).Str(log.FieldPostID, post.ID).Msg("failed to index post")
	}

	return post, nil
}

// Get returns one post. Any authorized caller may read any post.
func (s *postServiceImpl) Get(ctx context.Context, postID string) (*domain.Post, error) {
	return s.getPost(ctx, postID)
}

// Delete removes the post, its attachments (cascaded by the repository),
// its stored image, and its search document. Only the author may delete.
func (s *postServiceImpl) Delete(ctx context.Context, postID, callerID string) error {
	l := log.Ctx(ctx)

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != callerID {
		return ErrNotPostOwner
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to delete post")
		return err
	}

	// Image and index cleanup are best-effort; the row is already gone.
	if key, ok := imageKey(post.ImageURI); ok {
		if err := s.images.Delete(ctx, key); err != nil {
			l.Warn().Err(err).Str(log.FieldPostID, postID).Msg("failed to delete post image")
		}
	}
	if err := s.search.RemovePost(ctx, postID); err != nil {
		l.Warn().Err(err).Str(log.FieldPostID, postID).Msg("failed to remove post from index")
	}

	return nil
}

func (s *postServiceImpl) getPost(ctx context.Context, postID string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to get post")
		return nil, err
	}
	return post, nil
}

// imageKey recovers the storage key from a serving path. External URLs
// (e.g. provider-hosted profile pictures) have no key.
func imageKey(uri string) (string, bool) {
	const prefix = "/images/"
	if strings.HasPrefix(uri, prefix) {
		return strings.TrimPrefix(uri, prefix), true
	}
	return "", false
}
