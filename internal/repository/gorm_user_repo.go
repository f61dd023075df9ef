package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andreybutenko/formalwear-server/internal/domain"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db      *gorm.DB
	follows FollowRepository
}

// NewGormUserRepository creates a new GORM-based user repository. The
// follow repository is used to resolve the following id list on reads.
func NewGormUserRepository(db *gorm.DB, follows FollowRepository) *GormUserRepository {
	return &GormUserRepository{db: db, follows: follows}
}

// Create creates a new user.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.New().String()
	if user.ImageURL == "" {
		user.ImageURL = domain.DefaultImageURL
	}

	model := domain.UserToModel(user)
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return r.handleError(result.Error)
	}

	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	user.Following = []string{}
	return nil
}

// GetByID retrieves a user by ID.
func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by email.
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

// GetByFbUserID retrieves a user by Facebook user id.
func (r *GormUserRepository) GetByFbUserID(ctx context.Context, fbUserID string) (*domain.User, error) {
	return r.getOne(ctx, "fb_user_id = ?", fbUserID)
}

// GetByToken retrieves a user by session token equality.
func (r *GormUserRepository) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getOne(ctx, "token = ?", token)
}

func (r *GormUserRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var model domain.UserModel
	result := r.db.WithContext(ctx).First(&model, query, arg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	user := model.ToDomain()
	following, err := r.follows.FollowingIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Following = following
	return user, nil
}

// Update applies a partial field update to the user row.
func (r *GormUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return r.handleError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// handleError converts database-specific errors to domain errors.
func (r *GormUserRepository) handleError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// GORM v1.25+ translates unique violations, but the column has
		// to come from the message.
		if strings.Contains(err.Error(), "fb_user_id") {
			return ErrFbUserExists
		}
		return ErrEmailExists
	}

	errStr := err.Error()
	if strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "Duplicate entry") {
		if strings.Contains(errStr, "fb_user_id") {
			return ErrFbUserExists
		}
		return ErrEmailExists
	}

	return err
}

// Ensure interface is satisfied at compile time.
var _ UserRepository = (*GormUserRepository)(nil)
