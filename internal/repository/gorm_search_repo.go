package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/andreybutenko/formalwear-server/internal/domain"
)

// GormSearchRepository implements SearchRepository directly against the
// primary database with substring matching. It is the default driver; the
// Elasticsearch driver replaces it when configured. Index writes are
// no-ops because the database rows are the index.
type GormSearchRepository struct {
	db *gorm.DB
}

// NewGormSearchRepository creates a database-backed search repository.
func NewGormSearchRepository(db *gorm.DB) *GormSearchRepository {
	return &GormSearchRepository{db: db}
}

// SearchUsers matches the query against name, description, school, and
// club fields.
func (r *GormSearchRepository) SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	pattern := likePattern(query)

	q := r.db.WithContext(ctx).
		Where("first_name LIKE ? OR last_name LIKE ? OR description LIKE ? OR school LIKE ? OR clubs LIKE ?",
			pattern, pattern, pattern, pattern, pattern)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var models []domain.UserModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(models))
	for i := range models {
		users = append(users, *models[i].ToDomain())
	}
	return users, nil
}

// SearchPosts matches the query against descriptions and prompts. Only
// discoverable posts are returned.
func (r *GormSearchRepository) SearchPosts(ctx context.Context, query string, limit int) ([]domain.Post, error) {
	pattern := likePattern(query)

	q := r.db.WithContext(ctx).
		Where("discovery = ?", true).
		Where("description LIKE ? OR prompts LIKE ?", pattern, pattern).
		Order("published desc")
	if limit > 0 {
		q = q.Limit(limit)
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

// IndexUser is a no-op; the users table is the index.
func (r *GormSearchRepository) IndexUser(ctx context.Context, user *domain.User) error { return nil }

// IndexPost is a no-op; the posts table is the index.
func (r *GormSearchRepository) IndexPost(ctx context.Context, post *domain.Post) error { return nil }

// RemovePost is a no-op; post deletion already removed the row.
func (r *GormSearchRepository) RemovePost(ctx context.Context, postID string) error { return nil }

func likePattern(query string) string {
	escaped := strings.NewReplacer("%", `\%`, "_", `\_`).Replace(query)
	return "%" + escaped + "%"
}

// Ensure interface is satisfied at compile time.
var _ SearchRepository = (*GormSearchRepository)(nil)
