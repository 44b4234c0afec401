package repository

import (
	"context"

	"github.com/lshigami/examhub/internal/model"
	"gorm.io/gorm"
)

type ResultRepository interface {
	WithTx(tx *gorm.DB) ResultRepository
	Create(ctx context.Context, result *model.Result) error
	FindByID(ctx context.Context, id uint) (*model.Result, error)
	FindAll(ctx context.Context) ([]model.Result, error)
	FindByUserAndExam(ctx context.Context, userID, examID uint) (*model.Result, error)
	FindByUser(ctx context.Context, userID uint) ([]model.Result, error)
	FindByExam(ctx context.Context, examID uint) ([]model.Result, error)
	FindByGrade(ctx context.Context, grade model.Grade) ([]model.Result, error)
	FindByScoreRange(ctx context.Context, min, max *float64) ([]model.Result, error)
	Update(ctx context.Context, result *model.Result) error
	Delete(ctx context.Context, id uint) error
}

type resultRepository struct {
	crud[model.Result]
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{crud[model.Result]{db: db}}
}

func (r *resultRepository) WithTx(tx *gorm.DB) ResultRepository {
	return NewResultRepository(tx)
}

func (r *resultRepository) FindByUserAndExam(ctx context.Context, userID, examID uint) (*model.Result, error) {
	return r.first(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND exam_id = ?", userID, examID)
	})
}

func (r *resultRepository) FindByUser(ctx context.Context, userID uint) ([]model.Result, error) {
	return r.find(ctx, eq("user_id", userID))
}

func (r *resultRepository) FindByExam(ctx context.Context, examID uint) ([]model.Result, error) {
	return r.find(ctx, eq("exam_id", examID))
}

func (r *resultRepository) FindByGrade(ctx context.Context, grade model.Grade) ([]model.Result, error) {
	return r.find(ctx, eq("grade", grade))
}

func (r *resultRepository) FindByScoreRange(ctx context.Context, min, max *float64) ([]model.Result, error) {
	return r.find(ctx, between("score", min, max))
}
