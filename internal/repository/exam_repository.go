package repository

import (
	"context"
	"time"

	"github.com/lshigami/examhub/internal/model"
	"gorm.io/gorm"
)

type ExamRepository interface {
	WithTx(tx *gorm.DB) ExamRepository
	Create(ctx context.Context, exam *model.Exam) error
	FindByID(ctx context.Context, id uint) (*model.Exam, error)
	FindAll(ctx context.Context) ([]model.Exam, error)
	FindBySubject(ctx context.Context, subject string) ([]model.Exam, error)
	FindByOrganizer(ctx context.Context, organizerID uint) ([]model.Exam, error)
	FindByLocation(ctx context.Context, locationID uint) ([]model.Exam, error)
	FindUpcoming(ctx context.Context, now time.Time) ([]model.Exam, error)
	Search(ctx context.Context, term string) ([]model.Exam, error)
	CountByLocation(ctx context.Context, locationID uint) (int64, error)
	CountByOrganizer(ctx context.Context, organizerID uint) (int64, error)
	// IncrementRegistrations takes one seat. It reports false when the exam
	// is already at capacity.
	IncrementRegistrations(ctx context.Context, id uint) (bool, error)
	DecrementRegistrations(ctx context.Context, id uint) error
	Update(ctx context.Context, exam *model.Exam) error
	Delete(ctx context.Context, id uint) error
}

type examRepository struct {
	crud[model.Exam]
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{crud[model.Exam]{db: db}}
}

func (r *examRepository) WithTx(tx *gorm.DB) ExamRepository {
	return NewExamRepository(tx)
}

// Update never writes current_registrations; the counter only moves through
// the conditional increment and decrement below.
func (r *examRepository) Update(ctx context.Context, exam *model.Exam) error {
	return r.update(ctx, exam, "current_registrations")
}

func (r *examRepository) FindBySubject(ctx context.Context, subject string) ([]model.Exam, error) {
	return r.find(ctx, containsFold(subject, "subject"))
}

func (r *examRepository) FindByOrganizer(ctx context.Context, organizerID uint) ([]model.Exam, error) {
	return r.find(ctx, eq("organizer_id", organizerID))
}

func (r *examRepository) FindByLocation(ctx context.Context, locationID uint) ([]model.Exam, error) {
	return r.find(ctx, eq("location_id", locationID))
}

func (r *examRepository) FindUpcoming(ctx context.Context, now time.Time) ([]model.Exam, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("date > ?", now).Order("date")
	})
}

func (r *examRepository) Search(ctx context.Context, term string) ([]model.Exam, error) {
	return r.find(ctx, containsFold(term, "subject"))
}

func (r *examRepository) CountByLocation(ctx context.Context, locationID uint) (int64, error) {
	return r.count(ctx, eq("location_id", locationID))
}

func (r *examRepository) CountByOrganizer(ctx context.Context, organizerID uint) (int64, error) {
	return r.count(ctx, eq("organizer_id", organizerID))
}

func (r *examRepository) IncrementRegistrations(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Exam{}).
		Where("id = ? AND current_registrations < capacity", id).
		UpdateColumn("current_registrations", gorm.Expr("current_registrations + 1"))
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *examRepository) DecrementRegistrations(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.Exam{}).
		Where("id = ? AND current_registrations > 0", id).
		UpdateColumn("current_registrations", gorm.Expr("current_registrations - 1"))
	return translate(res.Error)
}
