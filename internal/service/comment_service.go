package service

import (
	"context"
	"errors"
	"time"

	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/repository"
	"github.com/andreybutenko/formalwear-server/pkg/log"
)

// commentServiceImpl implements CommentService.
type commentServiceImpl struct {
	comments      repository.CommentRepository
	posts         repository.PostRepository
	notifications NotificationService
}

// NewCommentService creates a new comment service.
func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	notifications NotificationService,
) CommentService {
	return &commentServiceImpl{
		comments:      comments,
		posts:         posts,
		notifications: notifications,
	}
}

// Create adds a comment to an existing post and notifies the post author.
// The notification write shares this call's error channel.
func (s *commentServiceImpl) Create(ctx context.Context, postID, commenterID string, req *domain.CreateCommentRequest) (*domain.Comment, error) {
	l := log.Ctx(ctx)

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to get post for comment")
		return nil, err
	}

	comment := &domain.Comment{
		PostID:      postID,
		CommenterID: commenterID,
		Comment:     domain.SanitizeText(req.Comment),
		Published:   time.Now().Unix(),
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to create comment")
		return nil, err
	}

	if err := s.notifications.Notify(ctx, post.AuthorID, commenterID, postID, domain.NotificationComment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListByPost returns a post's comments oldest first.
func (s *commentServiceImpl) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	l := log.Ctx(ctx)

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to get post for comment list")
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to list comments")
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment. Only the commenter may delete it; the post
// author has no say.
func (s *commentServiceImpl) Delete(ctx context.Context, commentID, callerID string) error {
	l := log.Ctx(ctx)

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		l.Error().Err(err).Str(log.FieldCommentID, commentID).Msg("failed to get comment")
		return err
	}

	if comment.CommenterID != callerID {
		return ErrNotCommentOwner
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		l.Error().Err(err).Str(log.FieldCommentID, commentID).Msg("failed to delete comment")
		return err
	}
	return nil
}
