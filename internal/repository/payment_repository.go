package repository

import (
	"context"

	"github.com/lshigami/examhub/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	WithTx(tx *gorm.DB) PaymentRepository
	Create(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id uint) (*model.Payment, error)
	FindAll(ctx context.Context) ([]model.Payment, error)
	FindByUserAndExam(ctx context.Context, userID, examID uint) (*model.Payment, error)
	FindByUser(ctx context.Context, userID uint) ([]model.Payment, error)
	FindByExam(ctx context.Context, examID uint) ([]model.Payment, error)
	FindByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error)
	FindByAmountRange(ctx context.Context, min, max *decimal.Decimal) ([]model.Payment, error)
	Update(ctx context.Context, payment *model.Payment) error
	Delete(ctx context.Context, id uint) error
}

type paymentRepository struct {
	crud[model.Payment]
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{crud[model.Payment]{db: db}}
}

func (r *paymentRepository) WithTx(tx *gorm.DB) PaymentRepository {
	return NewPaymentRepository(tx)
}

func (r *paymentRepository) FindByUserAndExam(ctx context.Context, userID, examID uint) (*model.Payment, error) {
	return r.first(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND exam_id = ?", userID, examID)
	})
}

func (r *paymentRepository) FindByUser(ctx context.Context, userID uint) ([]model.Payment, error) {
	return r.find(ctx, eq("user_id", userID))
}

func (r *paymentRepository) FindByExam(ctx context.Context, examID uint) ([]model.Payment, error) {
	return r.find(ctx, eq("exam_id", examID))
}

func (r *paymentRepository) FindByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error) {
	return r.find(ctx, eq("status", status))
}

func (r *paymentRepository) FindByAmountRange(ctx context.Context, min, max *decimal.Decimal) ([]model.Payment, error) {
	return r.find(ctx, between("amount", min, max))
}
