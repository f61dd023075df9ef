package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andreybutenko/formalwear-server/internal/domain"
)

// GormPostRepository implements PostRepository using GORM.
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GORM-based post repository.
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Create creates a new post.
func (r *GormPostRepository) Create(ctx context.Context, post *domain.Post) error {
	post.ID = uuid.New().String()

	model := domain.PostToModel(post)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	post.CreatedAt = model.CreatedAt
	return nil
}

// GetByID retrieves a post by ID.
func (r *GormPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	var model domain.PostModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// Delete removes a post plus its comments, votes, and notifications in a
// single transaction, so no orphaned rows are left behind.
func (r *GormPostRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.PostModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}

		if err := tx.Delete(&domain.CommentModel{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.VoteModel{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.NotificationModel{}, "location = ?", id).Error
	})
}

// ListByAuthors returns posts by any of the given authors, newest
// published first.
func (r *GormPostRepository) ListByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]domain.Post, error) {
	if len(authorIDs) == 0 {
		return []domain.Post{}, nil
	}

	q := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("published desc")
	return r.list(q, limit, offset)
}

// ListDiscoverable returns posts with the discovery flag set, newest
// published first.
func (r *GormPostRepository) ListDiscoverable(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	q := r.db.WithContext(ctx).
		Where("discovery = ?", true).
		Order("published desc")
	return r.list(q, limit, offset)
}

func (r *GormPostRepository) list(q *gorm.DB, limit, offset int) ([]domain.Post, error) {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var models []domain.PostModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(models))
	for i := range models {
		posts = append(posts, *models[i].ToDomain())
	}
	return posts, nil
}

// Ensure interface is satisfied at compile time.
var _ PostRepository = (*GormPostRepository)(nil)
