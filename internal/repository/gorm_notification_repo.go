package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andreybutenko/formalwear-server/internal/domain"
)

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM-based notification
// repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create creates a new notification.
func (r *GormNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	n.ID = uuid.New().String()
	return r.db.WithContext(ctx).Create(domain.NotificationToModel(n)).Error
}

// ListAndMarkSeen returns the recipient's notifications newest first and
// flips seen on all of them in the same transaction. The returned slice
// reflects the seen state at read time, so a caller can still distinguish
// fresh notifications.
func (r *GormNotificationRepository) ListAndMarkSeen(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	var notifications []domain.Notification

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var models []domain.NotificationModel
		if err := tx.
			Where("recipient = ?", recipientID).
			Order("time desc").
			Find(&models).Error; err != nil {
			return err
		}

		notifications = make([]domain.Notification, 0, len(models))
		for i := range models {
			notifications = append(notifications, *models[i].ToDomain())
		}

		return tx.Model(&domain.NotificationModel{}).
			Where("recipient = ? AND seen = ?", recipientID, false).
			Update("seen", true).Error
	})
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

// Ensure interface is satisfied at compile time.
var _ NotificationRepository = (*GormNotificationRepository)(nil)
