package repository

import (
	"context"

	"github.com/lshigami/examhub/internal/model"
	"gorm.io/gorm"
)

type AnalyticRepository interface {
	WithTx(tx *gorm.DB) AnalyticRepository
	Create(ctx context.Context, analytic *model.Analytic) error
	FindByID(ctx context.Context, id uint) (*model.Analytic, error)
	FindAll(ctx context.Context) ([]model.Analytic, error)
	FindByExam(ctx context.Context, examID uint) (*model.Analytic, error)
	FindByScoreRange(ctx context.Context, min, max *float64) ([]model.Analytic, error)
	FindByRegistrationRange(ctx context.Context, min, max *int) ([]model.Analytic, error)
	// FindByPaymentRatio returns records whose paid share of registrations is
	// at least minRatio. Records with no registrations never match. A nil
	// minRatio returns everything.
	FindByPaymentRatio(ctx context.Context, minRatio *float64) ([]model.Analytic, error)
	Update(ctx context.Context, analytic *model.Analytic) error
	Delete(ctx context.Context, id uint) error
}

type analyticRepository struct {
	crud[model.Analytic]
}

func NewAnalyticRepository(db *gorm.DB) AnalyticRepository {
	return &analyticRepository{crud[model.Analytic]{db: db}}
}

func (r *analyticRepository) WithTx(tx *gorm.DB) AnalyticRepository {
	return NewAnalyticRepository(tx)
}

func (r *analyticRepository) FindByExam(ctx context.Context, examID uint) (*model.Analytic, error) {
	return r.first(ctx, eq("exam_id", examID))
}

func (r *analyticRepository) FindByScoreRange(ctx context.Context, min, max *float64) ([]model.Analytic, error) {
	return r.find(ctx, between("average_score", min, max))
}

func (r *analyticRepository) FindByRegistrationRange(ctx context.Context, min, max *int) ([]model.Analytic, error) {
	return r.find(ctx, between("total_registrations", min, max))
}

func (r *analyticRepository) FindByPaymentRatio(ctx context.Context, minRatio *float64) ([]model.Analytic, error) {
	if minRatio == nil {
		return r.find(ctx, nil)
	}
	// Compared as a product so integer columns never divide.
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("total_registrations > 0 AND total_paid >= ? * total_registrations", *minRatio)
	})
}
