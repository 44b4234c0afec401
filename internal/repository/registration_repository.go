package repository

import (
	"context"

	"github.com/lshigami/examhub/internal/model"
	"gorm.io/gorm"
)

type RegistrationRepository interface {
	WithTx(tx *gorm.DB) RegistrationRepository
	Create(ctx context.Context, registration *model.Registration) error
	FindByID(ctx context.Context, id uint) (*model.Registration, error)
	FindAll(ctx context.Context) ([]model.Registration, error)
	// FindActiveByUserAndExam ignores cancelled registrations.
	FindActiveByUserAndExam(ctx context.Context, userID, examID uint) (*model.Registration, error)
	FindByUser(ctx context.Context, userID uint) ([]model.Registration, error)
	FindByExam(ctx context.Context, examID uint) ([]model.Registration, error)
	FindByStatus(ctx context.Context, status model.RegistrationStatus) ([]model.Registration, error)
	FindByPaymentStatus(ctx context.Context, status model.RegistrationPaymentStatus) ([]model.Registration, error)
	CountActiveByUser(ctx context.Context, userID uint) (int64, error)
	CountActiveByExam(ctx context.Context, examID uint) (int64, error)
	SetPaymentStatus(ctx context.Context, id uint, status model.RegistrationPaymentStatus) error
	Update(ctx context.Context, registration *model.Registration) error
	Delete(ctx context.Context, id uint) error
}

type registrationRepository struct {
	crud[model.Registration]
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{crud[model.Registration]{db: db}}
}

func (r *registrationRepository) WithTx(tx *gorm.DB) RegistrationRepository {
	return NewRegistrationRepository(tx)
}

func active(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", model.RegistrationCancelled)
}

func (r *registrationRepository) FindActiveByUserAndExam(ctx context.Context, userID, examID uint) (*model.Registration, error) {
	return r.first(ctx, func(db *gorm.DB) *gorm.DB {
		return active(db.Where("user_id = ? AND exam_id = ?", userID, examID))
	})
}

func (r *registrationRepository) FindByUser(ctx context.Context, userID uint) ([]model.Registration, error) {
	return r.find(ctx, eq("user_id", userID))
}

func (r *registrationRepository) FindByExam(ctx context.Context, examID uint) ([]model.Registration, error) {
	return r.find(ctx, eq("exam_id", examID))
}

func (r *registrationRepository) FindByStatus(ctx context.Context, status model.RegistrationStatus) ([]model.Registration, error) {
	return r.find(ctx, eq("status", status))
}

func (r *registrationRepository) FindByPaymentStatus(ctx context.Context, status model.RegistrationPaymentStatus) ([]model.Registration, error) {
	return r.find(ctx, eq("payment_status", status))
}

func (r *registrationRepository) CountActiveByUser(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, func(db *gorm.DB) *gorm.DB {
		return active(db.Where("user_id = ?", userID))
	})
}

func (r *registrationRepository) CountActiveByExam(ctx context.Context, examID uint) (int64, error) {
	return r.count(ctx, func(db *gorm.DB) *gorm.DB {
		return active(db.Where("exam_id = ?", examID))
	})
}

func (r *registrationRepository) SetPaymentStatus(ctx context.Context, id uint, status model.RegistrationPaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Registration{}).
		Where("id = ?", id).
		Update("payment_status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
