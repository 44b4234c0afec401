package repository

import (
	"context"

	"github.com/lshigami/examhub/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository
	Create(ctx context.Context, notification *model.Notification) error
	FindByID(ctx context.Context, id uint) (*model.Notification, error)
	FindAll(ctx context.Context) ([]model.Notification, error)
	FindByUser(ctx context.Context, userID uint) ([]model.Notification, error)
	Update(ctx context.Context, notification *model.Notification) error
	Delete(ctx context.Context, id uint) error
}

type notificationRepository struct {
	crud[model.Notification]
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{crud[model.Notification]{db: db}}
}

func (r *notificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return NewNotificationRepository(tx)
}

func (r *notificationRepository) FindByUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	return r.find(ctx, eq("user_id", userID))
}
