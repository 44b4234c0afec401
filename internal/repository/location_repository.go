package repository

import (
	"context"

	"github.com/lshigami/examhub/internal/model"
	"gorm.io/gorm"
)

type LocationRepository interface {
	WithTx(tx *gorm.DB) LocationRepository
	Create(ctx context.Context, location *model.Location) error
	FindByID(ctx context.Context, id uint) (*model.Location, error)
	FindAll(ctx context.Context) ([]model.Location, error)
	FindByCapacityRange(ctx context.Context, min, max *int) ([]model.Location, error)
	Search(ctx context.Context, term string) ([]model.Location, error)
	Update(ctx context.Context, location *model.Location) error
	Delete(ctx context.Context, id uint) error
}

type locationRepository struct {
	crud[model.Location]
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{crud[model.Location]{db: db}}
}

func (r *locationRepository) WithTx(tx *gorm.DB) LocationRepository {
	return NewLocationRepository(tx)
}

func (r *locationRepository) FindByCapacityRange(ctx context.Context, min, max *int) ([]model.Location, error) {
	return r.find(ctx, between("capacity", min, max))
}

func (r *locationRepository) Search(ctx context.Context, term string) ([]model.Location, error) {
	return r.find(ctx, containsFold(term, "name", "address"))
}
