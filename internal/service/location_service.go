package service

import (
	"context"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/metrics"
	"github.com/lshigami/examhub/internal/model"
	"github.com/lshigami/examhub/internal/repository"
	"github.com/rs/zerolog/log"
)

type LocationService interface {
	CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error)
	GetLocation(ctx context.Context, id uint) (*dto.LocationResponse, error)
	GetAllLocations(ctx context.Context) ([]dto.LocationResponse, error)
	SearchLocations(ctx context.Context, term string) ([]dto.LocationResponse, error)
	GetLocationsByCapacityRange(ctx context.Context, min, max *int) ([]dto.LocationResponse, error)
	CheckAvailability(ctx context.Context, id uint, required int) (bool, error)
	UpdateLocation(ctx context.Context, id uint, req dto.UpdateLocationRequest) (*dto.LocationResponse, error)
	DeleteLocation(ctx context.Context, id uint) error
}

type locationService struct {
	locationRepo repository.LocationRepository
	examRepo     repository.ExamRepository
	metrics      *metrics.Metrics
}

func NewLocationService(locationRepo repository.LocationRepository, examRepo repository.ExamRepository, m *metrics.Metrics) LocationService {
	return &locationService{locationRepo: locationRepo, examRepo: examRepo, metrics: m}
}

func validateCapacity(capacity int) error {
	if capacity <= 0 {
		return apperror.InvalidArgument("location capacity must be greater than 0")
	}
	return nil
}

func (s *locationService) CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if err := validateCapacity(req.Capacity); err != nil {
		return nil, err
	}
	if err := requireText("name", req.Name); err != nil {
		return nil, err
	}

	location := model.Location{Name: req.Name, Address: req.Address, Capacity: req.Capacity}
	if err := s.locationRepo.Create(ctx, &location); err != nil {
		return nil, storageErr(err, "create location")
	}

	s.metrics.IncrementCreated("location")
	log.Info().Uint("locationID", location.ID).Int("capacity", location.Capacity).Msg("Location created")
	return toResponse[dto.LocationResponse](&location), nil
}

func (s *locationService) GetLocation(ctx context.Context, id uint) (*dto.LocationResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get location", "location %d not found", id)
	}
	return toResponse[dto.LocationResponse](location), nil
}

func (s *locationService) GetAllLocations(ctx context.Context) ([]dto.LocationResponse, error) {
	locations, err := s.locationRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr(err, "list locations")
	}
	return toResponses[dto.LocationResponse](locations), nil
}

func (s *locationService) SearchLocations(ctx context.Context, term string) ([]dto.LocationResponse, error) {
	locations, err := s.locationRepo.Search(ctx, term)
	if err != nil {
		return nil, storageErr(err, "search locations")
	}
	return toResponses[dto.LocationResponse](locations), nil
}

func (s *locationService) GetLocationsByCapacityRange(ctx context.Context, min, max *int) ([]dto.LocationResponse, error) {
	if err := validateBounds("capacity", min, max, 0, nil); err != nil {
		return nil, err
	}
	locations, err := s.locationRepo.FindByCapacityRange(ctx, min, max)
	if err != nil {
		return nil, storageErr(err, "list locations by capacity")
	}
	return toResponses[dto.LocationResponse](locations), nil
}

// CheckAvailability reports whether the location seats at least required people.
func (s *locationService) CheckAvailability(ctx context.Context, id uint, required int) (bool, error) {
	if required < 0 {
		return false, apperror.InvalidArgument("required capacity must not be negative")
	}
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return false, lookupErr(err, "get location", "location %d not found", id)
	}
	return location.Capacity >= required, nil
}

func (s *locationService) UpdateLocation(ctx context.Context, id uint, req dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get location", "location %d not found", id)
	}

	if req.Capacity != nil {
		if err := validateCapacity(*req.Capacity); err != nil {
			return nil, err
		}
		exams, err := s.examRepo.FindByLocation(ctx, id)
		if err != nil {
			return nil, storageErr(err, "list exams at location")
		}
		for _, exam := range exams {
			if exam.Capacity > *req.Capacity {
				return nil, apperror.InvalidArgument("location capacity cannot be below capacity of exam %d (%d)", exam.ID, exam.Capacity)
			}
		}
		location.Capacity = *req.Capacity
	}
	if req.Name != nil {
		if err := requireText("name", *req.Name); err != nil {
			return nil, err
		}
		location.Name = *req.Name
	}
	if req.Address != nil {
		location.Address = *req.Address
	}

	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, lookupErr(err, "update location", "location %d not found", id)
	}
	log.Info().Uint("locationID", location.ID).Msg("Location updated")
	return toResponse[dto.LocationResponse](location), nil
}

// DeleteLocation refuses while any exam still takes place there.
func (s *locationService) DeleteLocation(ctx context.Context, id uint) error {
	if _, err := s.locationRepo.FindByID(ctx, id); err != nil {
		return lookupErr(err, "get location", "location %d not found", id)
	}
	used, err := s.examRepo.CountByLocation(ctx, id)
	if err != nil {
		return storageErr(err, "count exams at location")
	}
	if used > 0 {
		return apperror.Conflict("location is used by %d exam(s) and cannot be deleted", used)
	}
	if err := s.locationRepo.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete location", "location %d not found", id)
	}
	log.Info().Uint("locationID", id).Msg("Location deleted")
	return nil
}
