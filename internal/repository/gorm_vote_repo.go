package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andreybutenko/formalwear-server/internal/domain"
)

// GormVoteRepository implements VoteRepository using GORM.
type GormVoteRepository struct {
	db *gorm.DB
}

// NewGormVoteRepository creates a new GORM-based vote repository.
func NewGormVoteRepository(db *gorm.DB) *GormVoteRepository {
	return &GormVoteRepository{db: db}
}

// Create inserts the vote. The composite unique index turns a concurrent
// duplicate into ErrDuplicateVote instead of a second row.
func (r *GormVoteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	vote.ID = uuid.New().String()

	if err := r.db.WithContext(ctx).Create(domain.VoteToModel(vote)).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateVote
		}
		return err
	}
	return nil
}

// Get retrieves one voter's vote on one prompt.
func (r *GormVoteRepository) Get(ctx context.Context, postID string, promptIndex int, voterID string) (*domain.Vote, error) {
	var model domain.VoteModel
	result := r.db.WithContext(ctx).First(&model,
		"post_id = ? AND prompt_index = ? AND voter_id = ?", postID, promptIndex, voterID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrVoteNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListByPrompt returns all votes on one prompt of one post.
func (r *GormVoteRepository) ListByPrompt(ctx context.Context, postID string, promptIndex int) ([]domain.Vote, error) {
	var models []domain.VoteModel
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND prompt_index = ?", postID, promptIndex).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	votes := make([]domain.Vote, 0, len(models))
	for i := range models {
		votes = append(votes, *models[i].ToDomain())
	}
	return votes, nil
}

// Ensure interface is satisfied at compile time.
var _ VoteRepository = (*GormVoteRepository)(nil)
